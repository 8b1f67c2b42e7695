package service

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/olusolaa/oracle-plus/internal/core/domain"
	"github.com/olusolaa/oracle-plus/internal/core/ports"
	"github.com/olusolaa/oracle-plus/internal/errors"
)

const maxConcurrency = 32

// Analyzer is the slice of DriftAnalyzer the engine depends on.
type Analyzer interface {
	AnalyzeDrift(ctx context.Context, spec domain.Specification, snap domain.Snapshot) (domain.Analysis, error)
}

type Recorder interface {
	RecordValidation(ctx context.Context, spec domain.Specification, analysis domain.Analysis, triggeredBy string) string
}

type Fetcher interface {
	Fetch(ctx context.Context, spec domain.Specification, targetPath string) domain.Snapshot
}

type CheckRequest struct {
	SpecID      string
	All         bool
	TargetPath  string
	TriggeredBy string
	// EntityTypes restricts an --all run to the listed entity types.
	EntityTypes []string
}

type CheckReport struct {
	Results []domain.CheckResult
	Summary domain.Summary
}

type CheckEngine struct {
	specs       ports.SpecificationStore
	fetcher     Fetcher
	analyzer    Analyzer
	recorder    Recorder
	logger      ports.Logger
	concurrency int
}

func NewCheckEngine(
	specs ports.SpecificationStore,
	fetcher Fetcher,
	analyzer Analyzer,
	recorder Recorder,
	logger ports.Logger,
	concurrency int,
) (*CheckEngine, error) {
	if specs == nil {
		return nil, errors.New(errors.CodeConfigValidation, "specification store cannot be nil")
	}
	if fetcher == nil || analyzer == nil || recorder == nil {
		return nil, errors.New(errors.CodeConfigValidation, "check engine requires a fetcher, analyzer and recorder")
	}
	if concurrency <= 0 {
		concurrency = 1
	}
	if concurrency > maxConcurrency {
		concurrency = maxConcurrency
	}
	return &CheckEngine{
		specs:       specs,
		fetcher:     fetcher,
		analyzer:    analyzer,
		recorder:    recorder,
		logger:      logger,
		concurrency: concurrency,
	}, nil
}

// Run loads the requested specifications and checks each of them. Per-spec
// failures become error results; only loading failures are returned.
func (e *CheckEngine) Run(ctx context.Context, req CheckRequest) (CheckReport, error) {
	specs, err := e.load(ctx, req)
	if err != nil {
		return CheckReport{}, err
	}
	e.logger.Infof(ctx, "Checking %d specification(s) with concurrency %d", len(specs), e.concurrency)

	results := make([]domain.CheckResult, len(specs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.concurrency)
	for i, spec := range specs {
		g.Go(func() error {
			results[i] = e.checkOne(gctx, spec, req)
			return nil
		})
	}
	// checkOne never returns an error, so Wait only synchronises.
	_ = g.Wait()

	summary := domain.Summarize(results)
	e.logger.Infof(ctx, "Check finished: total=%d failed=%d errors=%d critical=%d high=%d",
		summary.Total, summary.Failed, summary.Errors, summary.Critical, summary.High)
	return CheckReport{Results: results, Summary: summary}, nil
}

func (e *CheckEngine) load(ctx context.Context, req CheckRequest) ([]domain.Specification, error) {
	if req.SpecID != "" {
		spec, err := e.specs.GetSpecification(ctx, req.SpecID)
		if err != nil {
			return nil, err
		}
		if !spec.Eligible() {
			return nil, errors.NewUserFacing(errors.CodeNotFound,
				"specification "+req.SpecID+" is not active",
				"Activate the specification before running a drift check.")
		}
		return []domain.Specification{spec}, nil
	}
	if !req.All {
		return nil, errors.NewUserFacing(errors.CodeUsage, "either a spec id or --all is required", "Pass --spec-id <id> or --all.")
	}
	specs, err := e.specs.ListActiveSpecifications(ctx)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeStoreError, "failed to list active specifications")
	}
	return filterEntityTypes(specs, req.EntityTypes), nil
}

func filterEntityTypes(specs []domain.Specification, types []string) []domain.Specification {
	if len(types) == 0 {
		return specs
	}
	kept := specs[:0:0]
	for _, spec := range specs {
		for _, t := range types {
			if domain.ParseEntityKind(t) == spec.Kind() {
				kept = append(kept, spec)
				break
			}
		}
	}
	return kept
}

func (e *CheckEngine) checkOne(ctx context.Context, spec domain.Specification, req CheckRequest) domain.CheckResult {
	logger := e.logger.WithFields(map[string]any{"spec_id": spec.ID.String(), "entity": spec.EntityName})
	result := domain.CheckResult{
		SpecID:     spec.ID.String(),
		Spec:       spec.EntityName,
		EntityType: spec.EntityType,
	}

	if err := ctx.Err(); err != nil {
		result.Status = domain.StatusError
		result.Error = err.Error()
		return result
	}

	snap := e.fetcher.Fetch(ctx, spec, req.TargetPath)
	logger.Debugf(ctx, "Fetched %s snapshot (%d bytes)", snap.Kind, len(snap.Text))

	analysis, err := e.analyzer.AnalyzeDrift(ctx, spec, snap)
	if err != nil {
		logger.Errorf(ctx, err, "Drift analysis failed")
		result.Status = domain.StatusError
		result.Error = err.Error()
		return result
	}

	result.Status = analysis.Status
	result.Findings = analysis.Findings
	result.Recommendations = analysis.Recommendations
	result.ValidationID = e.recorder.RecordValidation(ctx, spec, analysis, req.TriggeredBy)
	return result
}
