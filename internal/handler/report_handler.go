package handler

import (
	"bytes"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mobigrad/teleshop/internal/service"
)

type ReportHandler struct {
	report *service.ReportService
}

func NewReportHandler(report *service.ReportService) *ReportHandler {
	return &ReportHandler{report: report}
}

// Availability GET /api/v1/availability — витрина наличия.
func (h *ReportHandler) Availability(c *gin.Context) {
	out, err := h.report.Availability(c.Request.Context())
	if err != nil {
		FromError(c, err)
		return
	}
	Success(c, out)
}

// Daily GET /api/v1/reports/daily
func (h *ReportHandler) Daily(c *gin.Context) {
	out, err := h.report.Daily(c.Request.Context())
	if err != nil {
		FromError(c, err)
		return
	}
	Success(c, out)
}

// ExportDaily GET /api/v1/reports/daily/export — книга XLSX.
func (h *ReportHandler) ExportDaily(c *gin.Context) {
	f, filename, err := h.report.ExportDailyXLSX(c.Request.Context())
	if err != nil {
		FromError(c, err)
		return
	}
	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		Error(c, http.StatusInternalServerError, codeInternal, "не удалось сформировать файл")
		return
	}
	c.Header("Content-Disposition", "attachment; filename="+filename)
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", buf.Bytes())
}

// ArchiveDaily POST /api/v1/admin/reports/daily/archive — выгрузка в хранилище.
func (h *ReportHandler) ArchiveDaily(c *gin.Context) {
	object, err := h.report.ArchiveDaily(c.Request.Context())
	if err != nil {
		FromError(c, err)
		return
	}
	Success(c, gin.H{"object": object})
}
