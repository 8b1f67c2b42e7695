package domain

type CheckStatus string

const (
	StatusPass    CheckStatus = "pass"
	StatusFail    CheckStatus = "fail"
	StatusWarning CheckStatus = "warning"
	StatusError   CheckStatus = "error"
)

// Icon is the emoji shown next to a status in every report format.
func (s CheckStatus) Icon() string {
	switch s {
	case StatusPass:
		return "✅"
	case StatusFail:
		return "❌"
	default:
		return "⚠️"
	}
}

// Usage carries token counts reported by (or estimated for) a model call.
type Usage struct {
	InputTokens  int `json:"input_tokens"`
	OutputTokens int `json:"output_tokens"`
}

func (u Usage) Total() int {
	return u.InputTokens + u.OutputTokens
}

// Analysis is the parsed, normalised model verdict for one specification.
type Analysis struct {
	Status          CheckStatus `json:"status"`
	Findings        []Finding   `json:"findings"`
	Recommendations []string    `json:"recommendations"`
	Usage           Usage       `json:"-"`
}

// CheckResult is the in-memory outcome of one drift check, including error
// outcomes that never reached the model or the store.
type CheckResult struct {
	SpecID          string      `json:"specId"`
	Spec            string      `json:"spec"`
	EntityType      string      `json:"entityType,omitempty"`
	Status          CheckStatus `json:"status"`
	Findings        []Finding   `json:"findings,omitempty"`
	Recommendations []string    `json:"recommendations,omitempty"`
	ValidationID    string      `json:"validationId,omitempty"`
	Error           string      `json:"error,omitempty"`
}

type Summary struct {
	Total    int `json:"total"`
	Failed   int `json:"failed"`
	Errors   int `json:"errors"`
	Critical int `json:"critical"`
	High     int `json:"high"`
}

// Summarize derives aggregate counters from completed results. It depends only
// on the set of results, not on the order they completed in.
func Summarize(results []CheckResult) Summary {
	s := Summary{Total: len(results)}
	for _, r := range results {
		switch r.Status {
		case StatusFail:
			s.Failed++
		case StatusError:
			s.Errors++
		}
		for _, f := range r.Findings {
			switch f.Severity {
			case SeverityCritical:
				s.Critical++
			case SeverityHigh:
				s.High++
			}
		}
	}
	return s
}
