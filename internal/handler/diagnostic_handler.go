package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mobigrad/teleshop/internal/service"
)

type DiagnosticHandler struct {
	diag *service.DiagnosticService
}

func NewDiagnosticHandler(diag *service.DiagnosticService) *DiagnosticHandler {
	return &DiagnosticHandler{diag: diag}
}

// Create POST /api/v1/diagnostics
func (h *DiagnosticHandler) Create(c *gin.Context) {
	var req service.DiagnosticInput
	if err := c.ShouldBindJSON(&req); err != nil {
		Error(c, http.StatusBadRequest, codeBadRequest, "некорректное тело запроса")
		return
	}
	d, err := h.diag.Create(c.Request.Context(), req)
	if err != nil {
		FromError(c, err)
		return
	}
	Created(c, d)
}

// List GET /api/v1/diagnostics
func (h *DiagnosticHandler) List(c *gin.Context) {
	var f service.DiagnosticFilter
	if err := c.ShouldBindQuery(&f); err != nil {
		Error(c, http.StatusBadRequest, codeBadRequest, "некорректные параметры фильтра")
		return
	}
	out, err := h.diag.List(c.Request.Context(), f)
	if err != nil {
		FromError(c, err)
		return
	}
	Success(c, out)
}

// Get GET /api/v1/diagnostics/:id
func (h *DiagnosticHandler) Get(c *gin.Context) {
	d, err := h.diag.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		FromError(c, err)
		return
	}
	Success(c, d)
}

// UpdateStatus PATCH /api/v1/diagnostics/:id/status
func (h *DiagnosticHandler) UpdateStatus(c *gin.Context) {
	var req service.DiagnosticStatusInput
	if err := c.ShouldBindJSON(&req); err != nil {
		Error(c, http.StatusBadRequest, codeBadRequest, "некорректное тело запроса")
		return
	}
	d, err := h.diag.UpdateStatus(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		FromError(c, err)
		return
	}
	Success(c, d)
}

// UpdatePayment PATCH /api/v1/diagnostics/:id/payment
func (h *DiagnosticHandler) UpdatePayment(c *gin.Context) {
	var req struct {
		DiagPay  string `json:"diag_pay"`
		Payments string `json:"payments"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		Error(c, http.StatusBadRequest, codeBadRequest, "некорректное тело запроса")
		return
	}
	d, err := h.diag.UpdatePayment(c.Request.Context(), c.Param("id"), req.DiagPay, req.Payments)
	if err != nil {
		FromError(c, err)
		return
	}
	Success(c, d)
}
