package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mobigrad/teleshop/internal/service"
)

type SaleHandler struct {
	sale *service.SaleService
}

func NewSaleHandler(sale *service.SaleService) *SaleHandler {
	return &SaleHandler{sale: sale}
}

// Create POST /api/v1/sales
func (h *SaleHandler) Create(c *gin.Context) {
	var req service.SaleInput
	if err := c.ShouldBindJSON(&req); err != nil {
		Error(c, http.StatusBadRequest, codeBadRequest, "некорректное тело запроса")
		return
	}
	sale, err := h.sale.Create(c.Request.Context(), req)
	if err != nil {
		FromError(c, err)
		return
	}
	Created(c, sale)
}

// List GET /api/v1/sales
func (h *SaleHandler) List(c *gin.Context) {
	sales, err := h.sale.List(c.Request.Context())
	if err != nil {
		FromError(c, err)
		return
	}
	Success(c, sales)
}
