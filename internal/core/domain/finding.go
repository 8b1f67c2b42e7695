package domain

type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityHigh     Severity = "high"
	SeverityMedium   Severity = "medium"
	SeverityLow      Severity = "low"
)

// Rank orders severities; higher is worse. Unknown values rank 0.
func (s Severity) Rank() int {
	switch s {
	case SeverityCritical:
		return 4
	case SeverityHigh:
		return 3
	case SeverityMedium:
		return 2
	case SeverityLow:
		return 1
	default:
		return 0
	}
}

type FindingType string

const (
	FindingMissing  FindingType = "missing"
	FindingExtra    FindingType = "extra"
	FindingMismatch FindingType = "mismatch"
)

// Finding is one severity-tagged divergence between a specification and the
// live implementation.
type Finding struct {
	Type     FindingType `json:"type" validate:"required,oneof=missing extra mismatch"`
	Entity   string      `json:"entity" validate:"required"`
	Expected string      `json:"expected"`
	Actual   string      `json:"actual"`
	Severity Severity    `json:"severity" validate:"required,oneof=critical high medium low"`
}

// HighestSeverity returns the worst severity among findings, the first one
// winning ties, or nil for an empty slice.
func HighestSeverity(findings []Finding) *Severity {
	if len(findings) == 0 {
		return nil
	}
	best := findings[0].Severity
	for _, f := range findings[1:] {
		if f.Severity.Rank() > best.Rank() {
			best = f.Severity
		}
	}
	return &best
}
