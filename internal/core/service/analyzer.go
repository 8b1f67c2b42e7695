package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/olusolaa/oracle-plus/internal/core/domain"
	"github.com/olusolaa/oracle-plus/internal/core/ports"
	apperrors "github.com/olusolaa/oracle-plus/internal/errors"
	"github.com/olusolaa/oracle-plus/internal/structured"
)

const (
	defaultModelTimeout = 60 * time.Second
	defaultMaxTokens    = 4096
)

const driftPromptTemplate = `You are a specification compliance analyzer. Compare the specification against the actual implementation and identify any drift.

**SPECIFICATION:**
Entity Type: %s
Entity Name: %s
Requirements:
%s

**ACTUAL STATE:**
%s

**TASK:**
Analyze the implementation for drift. Return a JSON object with this structure:
{
  "status": "pass" | "fail" | "warning",
  "findings": [
    {
      "type": "missing" | "extra" | "mismatch",
      "entity": "string (what is affected)",
      "expected": "string (what the spec says)",
      "actual": "string (what exists)",
      "severity": "critical" | "high" | "medium" | "low"
    }
  ],
  "recommendations": ["string array of actionable fixes"]
}

Rules:
- "critical": Security issues, data integrity violations, breaking changes
- "high": Missing required features, incorrect behavior
- "medium": Missing optional features, performance concerns
- "low": Code style, minor improvements
- Return "pass" only if zero findings
`

type driftResponse struct {
	Status          string           `json:"status" validate:"required,oneof=pass fail warning"`
	Findings        []domain.Finding `json:"findings" validate:"required,dive"`
	Recommendations []string         `json:"recommendations"`
}

type AnalyzerOptions struct {
	Timeout   time.Duration
	MaxTokens int
}

// modelCaller runs rate-limited, time-bounded model calls and meters usage.
type modelCaller struct {
	model   ports.Model
	limiter ports.RateLimiter
	meter   ports.UsageMeter
	opts    AnalyzerOptions
}

func newModelCaller(model ports.Model, limiter ports.RateLimiter, meter ports.UsageMeter, opts AnalyzerOptions) modelCaller {
	if opts.Timeout <= 0 {
		opts.Timeout = defaultModelTimeout
	}
	if opts.MaxTokens <= 0 {
		opts.MaxTokens = defaultMaxTokens
	}
	return modelCaller{model: model, limiter: limiter, meter: meter, opts: opts}
}

type DriftAnalyzer struct {
	modelCaller
	parser *structured.Parser
	logger ports.Logger
}

// NewDriftAnalyzer wires the analyzer. limiter and meter may be nil.
func NewDriftAnalyzer(model ports.Model, limiter ports.RateLimiter, meter ports.UsageMeter, parser *structured.Parser, logger ports.Logger, opts AnalyzerOptions) *DriftAnalyzer {
	return &DriftAnalyzer{
		modelCaller: newModelCaller(model, limiter, meter, opts),
		parser:      parser,
		logger:      logger,
	}
}

func BuildDriftPrompt(spec domain.Specification, actualState string) string {
	return fmt.Sprintf(driftPromptTemplate, spec.EntityType, spec.EntityName, spec.Content, actualState)
}

func (a *DriftAnalyzer) AnalyzeDrift(ctx context.Context, spec domain.Specification, snap domain.Snapshot) (domain.Analysis, error) {
	prompt := BuildDriftPrompt(spec, snap.Text)

	text, err := a.generate(ctx, spec.TenantID, prompt)
	if err != nil {
		return domain.Analysis{}, err
	}

	var resp driftResponse
	if err := a.parser.Decode(text, &resp); err != nil {
		return domain.Analysis{}, err
	}

	analysis := domain.Analysis{
		Status:          NormalizeStatus(domain.CheckStatus(resp.Status), resp.Findings),
		Findings:        resp.Findings,
		Recommendations: resp.Recommendations,
	}
	if analysis.Status != domain.CheckStatus(resp.Status) {
		a.logger.Debugf(ctx, "Normalised model status %q to %q for %s (%d findings)",
			resp.Status, analysis.Status, spec.EntityName, len(resp.Findings))
	}
	return analysis, nil
}

func (c *modelCaller) generate(ctx context.Context, tenantID uuid.UUID, prompt string) (string, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return "", apperrors.WrapAs(err, apperrors.CodeUpstream, "model rate limiter wait aborted")
		}
	}

	callCtx, cancel := context.WithTimeout(ctx, c.opts.Timeout)
	defer cancel()

	resp, err := c.model.Generate(callCtx, ports.GenerateRequest{Prompt: prompt, MaxTokens: c.opts.MaxTokens})
	if err != nil {
		if errors.Is(callCtx.Err(), context.DeadlineExceeded) {
			return "", apperrors.WrapAs(err, apperrors.CodeUpstream,
				fmt.Sprintf("model %s timed out after %s", c.model.Name(), c.opts.Timeout))
		}
		return "", apperrors.WrapAs(err, apperrors.CodeUpstream, fmt.Sprintf("model %s call failed", c.model.Name()))
	}

	tokens := resp.Usage.Total()
	if !resp.UsageReported {
		tokens = EstimateTokens(prompt, resp.Text)
	}
	if c.meter != nil {
		c.meter.Record(tenantID, tokens)
	}
	return resp.Text, nil
}

// NormalizeStatus makes the status agree with the findings: no findings is
// always a pass, and a pass with findings becomes fail (critical/high present)
// or warning.
func NormalizeStatus(reported domain.CheckStatus, findings []domain.Finding) domain.CheckStatus {
	if len(findings) == 0 {
		return domain.StatusPass
	}
	if reported != domain.StatusPass {
		return reported
	}
	if sev := domain.HighestSeverity(findings); sev.Rank() >= domain.SeverityHigh.Rank() {
		return domain.StatusFail
	}
	return domain.StatusWarning
}

// EstimateTokens approximates token usage at four characters per token.
func EstimateTokens(prompt, response string) int {
	n := len(prompt) + len(response)
	return (n + 3) / 4
}
