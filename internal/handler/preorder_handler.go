package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mobigrad/teleshop/internal/service"
)

type PreorderHandler struct {
	preorder *service.PreorderService
}

func NewPreorderHandler(preorder *service.PreorderService) *PreorderHandler {
	return &PreorderHandler{preorder: preorder}
}

// Create POST /api/v1/preorders
func (h *PreorderHandler) Create(c *gin.Context) {
	var req service.PreorderInput
	if err := c.ShouldBindJSON(&req); err != nil {
		Error(c, http.StatusBadRequest, codeBadRequest, "некорректное тело запроса")
		return
	}
	p, err := h.preorder.Create(c.Request.Context(), req)
	if err != nil {
		FromError(c, err)
		return
	}
	Created(c, p)
}

// List GET /api/v1/preorders
func (h *PreorderHandler) List(c *gin.Context) {
	var f service.PreorderFilter
	if err := c.ShouldBindQuery(&f); err != nil {
		Error(c, http.StatusBadRequest, codeBadRequest, "некорректные параметры фильтра")
		return
	}
	out, err := h.preorder.List(c.Request.Context(), f)
	if err != nil {
		FromError(c, err)
		return
	}
	Success(c, out)
}

// Get GET /api/v1/preorders/:id
func (h *PreorderHandler) Get(c *gin.Context) {
	p, err := h.preorder.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		FromError(c, err)
		return
	}
	Success(c, p)
}

// AddPayment POST /api/v1/preorders/:id/payments
func (h *PreorderHandler) AddPayment(c *gin.Context) {
	var req service.PaymentInput
	if err := c.ShouldBindJSON(&req); err != nil {
		Error(c, http.StatusBadRequest, codeBadRequest, "некорректное тело запроса")
		return
	}
	p, err := h.preorder.AddPayment(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		FromError(c, err)
		return
	}
	Success(c, p)
}

// UpdateStatus PATCH /api/v1/preorders/:id/status
func (h *PreorderHandler) UpdateStatus(c *gin.Context) {
	var req service.StatusInput
	if err := c.ShouldBindJSON(&req); err != nil {
		Error(c, http.StatusBadRequest, codeBadRequest, "некорректное тело запроса")
		return
	}
	p, err := h.preorder.UpdateStatus(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		FromError(c, err)
		return
	}
	Success(c, p)
}

// Finalize POST /api/v1/preorders/:id/finalize
func (h *PreorderHandler) Finalize(c *gin.Context) {
	var req service.FinalizeInput
	if err := c.ShouldBindJSON(&req); err != nil {
		Error(c, http.StatusBadRequest, codeBadRequest, "некорректное тело запроса")
		return
	}
	p, err := h.preorder.Finalize(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		FromError(c, err)
		return
	}
	Success(c, p)
}

// UpsertIMEI PUT /api/v1/preorders/:id/imei
func (h *PreorderHandler) UpsertIMEI(c *gin.Context) {
	var req struct {
		IMEI string `json:"imei" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		Error(c, http.StatusBadRequest, codeBadRequest, "не указан IMEI")
		return
	}
	p, err := h.preorder.UpsertIMEI(c.Request.Context(), c.Param("id"), req.IMEI)
	if err != nil {
		FromError(c, err)
		return
	}
	Success(c, p)
}
