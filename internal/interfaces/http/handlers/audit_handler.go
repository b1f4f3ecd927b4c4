package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	appaudit "github.com/wattwise/HomeAudit-Intelligence/internal/application/audit"
	apperrors "github.com/wattwise/HomeAudit-Intelligence/pkg/errors"
	audittypes "github.com/wattwise/HomeAudit-Intelligence/pkg/types/audit"
	"github.com/wattwise/HomeAudit-Intelligence/pkg/types/common"
)

// AuditHandler exposes audit submission and analysis endpoints.
type AuditHandler struct {
	svc appaudit.AnalysisService
}

func NewAuditHandler(svc appaudit.AnalysisService) *AuditHandler {
	return &AuditHandler{svc: svc}
}

// RegisterRoutes mounts the audit endpoints on the API group.
func (h *AuditHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/audits", h.Submit)
	rg.POST("/audits/:id/analysis", h.Analyze)
	rg.POST("/analysis", h.AnalyzeAdHoc)
}

// SubmitResponse is the body returned by Submit.
type SubmitResponse struct {
	AuditID common.ID `json:"audit_id"`
	Status  string    `json:"status"`
}

// Submit handles POST /api/v1/audits.  The audit is stored and queued for
// asynchronous analysis.
func (h *AuditHandler) Submit(c *gin.Context) {
	var rec audittypes.AuditRecord
	if err := c.ShouldBindJSON(&rec); err != nil {
		respondError(c, apperrors.InvalidParam("malformed audit record: "+err.Error()))
		return
	}

	id, err := h.svc.SubmitAudit(c.Request.Context(), &rec)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusAccepted, SubmitResponse{AuditID: id, Status: "queued"})
}

// Analyze handles POST /api/v1/audits/:id/analysis, running (or returning the
// cached) analysis of a stored audit.
func (h *AuditHandler) Analyze(c *gin.Context) {
	res, err := h.svc.AnalyzeAudit(c.Request.Context(), common.ID(c.Param("id")))
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, res)
}

// AnalyzeAdHoc handles POST /api/v1/analysis: a one-shot analysis of a record
// supplied in the request body, with nothing persisted.
func (h *AuditHandler) AnalyzeAdHoc(c *gin.Context) {
	var rec audittypes.AuditRecord
	if err := c.ShouldBindJSON(&rec); err != nil {
		respondError(c, apperrors.InvalidParam("malformed audit record: "+err.Error()))
		return
	}

	res, err := h.svc.AnalyzeRecord(c.Request.Context(), &rec)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, res)
}
