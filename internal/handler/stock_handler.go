package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mobigrad/teleshop/internal/entity"
	"github.com/mobigrad/teleshop/internal/service"
)

type StockHandler struct {
	stock *service.StockService
}

func NewStockHandler(stock *service.StockService) *StockHandler {
	return &StockHandler{stock: stock}
}

// Add POST /api/v1/admin/stock
func (h *StockHandler) Add(c *gin.Context) {
	var req service.StockAddInput
	if err := c.ShouldBindJSON(&req); err != nil {
		Error(c, http.StatusBadRequest, codeBadRequest, "некорректное тело запроса")
		return
	}
	item, err := h.stock.Add(c.Request.Context(), req)
	if err != nil {
		FromError(c, err)
		return
	}
	Created(c, item)
}

// AddMany POST /api/v1/admin/stock/batch
func (h *StockHandler) AddMany(c *gin.Context) {
	var req struct {
		Items []service.StockAddInput `json:"items" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		Error(c, http.StatusBadRequest, codeBadRequest, "некорректное тело запроса")
		return
	}
	results, err := h.stock.AddMany(c.Request.Context(), req.Items)
	if err != nil {
		FromError(c, err)
		return
	}
	Success(c, results)
}

// ImportCSV POST /api/v1/admin/stock/import — файл выгрузки в Windows-1251.
func (h *StockHandler) ImportCSV(c *gin.Context) {
	file, _, err := c.Request.FormFile("file")
	if err != nil {
		Error(c, http.StatusBadRequest, codeBadRequest, "не приложен файл")
		return
	}
	defer file.Close()

	results, err := h.stock.ImportCSV(c.Request.Context(), file)
	if err != nil {
		FromError(c, err)
		return
	}
	Success(c, results)
}

// Search GET /api/v1/admin/stock/search?q=
func (h *StockHandler) Search(c *gin.Context) {
	items, err := h.stock.Search(c.Request.Context(), c.Query("q"))
	if err != nil {
		FromError(c, err)
		return
	}
	Success(c, items)
}

// Update PATCH /api/v1/admin/stock/:id
func (h *StockHandler) Update(c *gin.Context) {
	var req entity.StockPatch
	if err := c.ShouldBindJSON(&req); err != nil {
		Error(c, http.StatusBadRequest, codeBadRequest, "некорректное тело запроса")
		return
	}
	if err := h.stock.Update(c.Request.Context(), c.Param("id"), req); err != nil {
		FromError(c, err)
		return
	}
	Success(c, nil)
}

// Sort POST /api/v1/admin/stock/sort — ручной прогон сортировки.
func (h *StockHandler) Sort(c *gin.Context) {
	if err := h.stock.Sort(c.Request.Context()); err != nil {
		FromError(c, err)
		return
	}
	Success(c, nil)
}
