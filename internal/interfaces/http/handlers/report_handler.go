package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	appaudit "github.com/wattwise/HomeAudit-Intelligence/internal/application/audit"
	"github.com/wattwise/HomeAudit-Intelligence/internal/application/reporting"
	"github.com/wattwise/HomeAudit-Intelligence/pkg/types/common"
)

// ReportHandler exposes stored analysis results.
type ReportHandler struct {
	svc      appaudit.AnalysisService
	exporter *reporting.Exporter
}

func NewReportHandler(svc appaudit.AnalysisService, exporter *reporting.Exporter) *ReportHandler {
	return &ReportHandler{svc: svc, exporter: exporter}
}

// RegisterRoutes mounts the report endpoints on the API group.
func (h *ReportHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/reports", h.List)
	rg.GET("/reports/:id", h.Get)
	rg.GET("/reports/:id/export", h.Export)
}

// Get handles GET /api/v1/reports/:id.
func (h *ReportHandler) Get(c *gin.Context) {
	res, err := h.svc.GetReport(c.Request.Context(), common.ID(c.Param("id")))
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, res)
}

// List handles GET /api/v1/reports with page/page_size parameters.
func (h *ReportHandler) List(c *gin.Context) {
	p := parsePagination(c)
	results, total, err := h.svc.ListReports(c.Request.Context(), p)
	if err != nil {
		respondError(c, err)
		return
	}
	p.Total = total
	respondPage(c, results, p)
}

// Export handles GET /api/v1/reports/:id/export?format=json|csv, returning
// the rendered document directly rather than the API envelope.
func (h *ReportHandler) Export(c *gin.Context) {
	format, err := reporting.ParseFormat(c.Query("format"))
	if err != nil {
		respondError(c, err)
		return
	}

	auditID := common.ID(c.Param("id"))
	res, err := h.svc.GetReport(c.Request.Context(), auditID)
	if err != nil {
		respondError(c, err)
		return
	}

	data, err := h.exporter.Export(c.Request.Context(), res, format)
	if err != nil {
		respondError(c, err)
		return
	}

	c.Header("Content-Disposition",
		fmt.Sprintf("attachment; filename=%q", fmt.Sprintf("report-%s.%s", auditID, format)))
	c.Data(http.StatusOK, format.ContentType(), data)
}
