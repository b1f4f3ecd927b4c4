// Package kafka provides the event producer and consumer used to run audit
// analysis asynchronously.
package kafka

import (
	"time"

	audittypes "github.com/wattwise/HomeAudit-Intelligence/pkg/types/audit"
	"github.com/wattwise/HomeAudit-Intelligence/pkg/types/common"
)

// Topic names.
const (
	// TopicAuditSubmitted carries audit IDs awaiting analysis.
	TopicAuditSubmitted = "audit.submitted"
	// TopicAuditAnalyzed carries completed analysis summaries.
	TopicAuditAnalyzed = "audit.analyzed"
)

// AuditSubmittedEvent requests analysis of a stored audit.
type AuditSubmittedEvent struct {
	AuditID     common.ID `json:"audit_id"`
	SubmittedAt time.Time `json:"submitted_at"`
}

// AuditAnalyzedEvent announces a completed analysis.
type AuditAnalyzedEvent struct {
	AuditID          common.ID                     `json:"audit_id"`
	OverallScore     float64                       `json:"overall_score"`
	Interpretation   audittypes.InterpretationTier `json:"interpretation"`
	Recommendations  int                           `json:"recommendations"`
	ScoreSubstituted bool                          `json:"score_substituted"`
	AnalyzedAt       time.Time                     `json:"analyzed_at"`
}
