package domain

import (
	"time"

	"github.com/google/uuid"
)

const ValidationTypeDriftDetection = "drift_detection"

// ValidationRecord is the immutable, append-only outcome of one drift check.
// EntityType and EntityName are only populated on history reads, from the
// joined specification.
type ValidationRecord struct {
	ID             uuid.UUID   `json:"id"`
	SpecID         uuid.UUID   `json:"spec_id"`
	TenantID       uuid.UUID   `json:"app_id"`
	ValidationType string      `json:"validation_type"`
	TargetEntity   string      `json:"target_entity"`
	Status         CheckStatus `json:"status"`
	Findings       []Finding   `json:"findings"`
	Severity       *Severity   `json:"severity"`
	TotalChecks    int         `json:"total_checks"`
	PassedChecks   int         `json:"passed_checks"`
	FailedChecks   int         `json:"failed_checks"`
	TriggeredBy    string      `json:"triggered_by"`
	CreatedAt      time.Time   `json:"created_at"`
	EntityType     string      `json:"entity_type,omitempty"`
	EntityName     string      `json:"entity_name,omitempty"`
}

// NewValidationRecord derives the counters for an analysis. The record
// severity is taken from the first finding.
func NewValidationRecord(spec Specification, analysis Analysis, triggeredBy string) ValidationRecord {
	findings := analysis.Findings
	if findings == nil {
		findings = []Finding{}
	}
	total := 1 + len(findings)
	failed := len(findings)
	var severity *Severity
	if failed > 0 {
		first := findings[0].Severity
		severity = &first
	}
	return ValidationRecord{
		SpecID:         spec.ID,
		TenantID:       spec.TenantID,
		ValidationType: ValidationTypeDriftDetection,
		TargetEntity:   spec.EntityName,
		Status:         analysis.Status,
		Findings:       findings,
		Severity:       severity,
		TotalChecks:    total,
		PassedChecks:   total - failed,
		FailedChecks:   failed,
		TriggeredBy:    triggeredBy,
	}
}
