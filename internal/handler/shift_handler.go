package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mobigrad/teleshop/internal/report"
	"github.com/mobigrad/teleshop/internal/service"
)

type ShiftHandler struct {
	shift *service.ShiftService
}

func NewShiftHandler(shift *service.ShiftService) *ShiftHandler {
	return &ShiftHandler{shift: shift}
}

// CheckIn POST /api/v1/shifts/check-in
func (h *ShiftHandler) CheckIn(c *gin.Context) {
	var req service.CheckInInput
	if err := c.ShouldBindJSON(&req); err != nil {
		Error(c, http.StatusBadRequest, codeBadRequest, "некорректное тело запроса")
		return
	}
	shift, err := h.shift.CheckIn(c.Request.Context(), req)
	if err != nil {
		FromError(c, err)
		return
	}
	Created(c, shift)
}

// Ledger GET /api/v1/shifts/ledger?dateFrom=&dateTo=&store=&staff=
func (h *ShiftHandler) Ledger(c *gin.Context) {
	var f report.Filter
	if err := c.ShouldBindQuery(&f); err != nil {
		Error(c, http.StatusBadRequest, codeBadRequest, "некорректные параметры")
		return
	}
	out, err := h.shift.Ledger(c.Request.Context(), f)
	if err != nil {
		FromError(c, err)
		return
	}
	Success(c, out)
}
