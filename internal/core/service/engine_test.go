package service

import (
	"context"
	stderrors "errors"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/olusolaa/oracle-plus/internal/core/domain"
	"github.com/olusolaa/oracle-plus/internal/core/ports"
	portsmocks "github.com/olusolaa/oracle-plus/internal/core/ports/mocks"
	"github.com/olusolaa/oracle-plus/internal/errors"
	"github.com/olusolaa/oracle-plus/internal/structured"
)

type engineFixture struct {
	specs       *portsmocks.SpecificationStore
	validations *portsmocks.ValidationStore
	model       *portsmocks.Model
	engine      *CheckEngine
}

func newEngineFixture(t *testing.T, concurrency int) *engineFixture {
	t.Helper()
	f := &engineFixture{
		specs:       new(portsmocks.SpecificationStore),
		validations: new(portsmocks.ValidationStore),
		model:       new(portsmocks.Model),
	}
	f.model.On("Name").Return("fake").Maybe()

	logger := portsmocks.NewLogger(t)
	registry := NewFetcherRegistry()
	require.NoError(t, registry.Register(FunctionFetcher{}))
	require.NoError(t, registry.Register(CodeFetcher{}))
	inspector := new(portsmocks.SchemaInspector)
	inspector.On("TableColumns", mock.Anything, mock.Anything).Return([]ports.Column{{Name: "id", DataType: "uuid", Nullable: "NO"}}, nil).Maybe()
	require.NoError(t, registry.Register(NewTableFetcher(inspector, logger)))

	analyzer := NewDriftAnalyzer(f.model, nil, nil, structured.NewParser(), logger, AnalyzerOptions{})
	recorder := NewValidationRecorder(f.validations, logger)

	engine, err := NewCheckEngine(f.specs, registry, analyzer, recorder, logger, concurrency)
	require.NoError(t, err)
	f.engine = engine
	return f
}

func promptFor(name string) any {
	return mock.MatchedBy(func(req ports.GenerateRequest) bool {
		return strings.Contains(req.Prompt, "Entity Name: "+name+"\n")
	})
}

func TestCheckEngine_SinglePassingSpec(t *testing.T) {
	f := newEngineFixture(t, 1)
	spec := testSpec("profiles")

	f.specs.On("GetSpecification", mock.Anything, spec.ID.String()).Return(spec, nil)
	f.model.On("Generate", mock.Anything, promptFor("profiles")).
		Return(ports.GenerateResponse{Text: `{"status":"pass","findings":[],"recommendations":[]}`}, nil)

	var stored domain.ValidationRecord
	f.validations.On("AppendValidation", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { stored = args.Get(1).(domain.ValidationRecord) }).
		Return("v-1", nil)

	report, err := f.engine.Run(context.Background(), CheckRequest{SpecID: spec.ID.String()})
	require.NoError(t, err)

	require.Len(t, report.Results, 1)
	assert.Equal(t, domain.StatusPass, report.Results[0].Status)
	assert.Equal(t, "v-1", report.Results[0].ValidationID)
	assert.Equal(t, 1, stored.TotalChecks)
	assert.Equal(t, 1, stored.PassedChecks)
	assert.Equal(t, 0, stored.FailedChecks)
	assert.Nil(t, stored.Severity)
	assert.Equal(t, domain.Summary{Total: 1}, report.Summary)
}

func TestCheckEngine_CriticalFinding(t *testing.T) {
	f := newEngineFixture(t, 1)
	spec := testSpec("payments")

	f.specs.On("GetSpecification", mock.Anything, spec.ID.String()).Return(spec, nil)
	f.model.On("Generate", mock.Anything, mock.Anything).Return(ports.GenerateResponse{
		Text: `{"status":"fail","findings":[{"type":"missing","entity":"rls","expected":"enabled","actual":"disabled","severity":"critical"}],"recommendations":["enable RLS"]}`,
	}, nil)

	var stored domain.ValidationRecord
	f.validations.On("AppendValidation", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { stored = args.Get(1).(domain.ValidationRecord) }).
		Return("v-2", nil)

	report, err := f.engine.Run(context.Background(), CheckRequest{SpecID: spec.ID.String()})
	require.NoError(t, err)

	assert.Equal(t, 1, report.Summary.Critical)
	assert.Equal(t, 1, report.Summary.Failed)
	assert.Equal(t, 2, stored.TotalChecks)
	assert.Equal(t, 1, stored.FailedChecks)
	assert.Equal(t, []string{"enable RLS"}, report.Results[0].Recommendations)
}

func TestCheckEngine_PerSpecErrorDoesNotAbortBatch(t *testing.T) {
	for _, concurrency := range []int{1, 3} {
		t.Run("concurrency", func(t *testing.T) {
			f := newEngineFixture(t, concurrency)
			a, b, c := testSpec("alpha"), testSpec("beta"), testSpec("gamma")

			f.specs.On("ListActiveSpecifications", mock.Anything).Return([]domain.Specification{a, b, c}, nil)
			ok := ports.GenerateResponse{Text: `{"status":"pass","findings":[]}`}
			f.model.On("Generate", mock.Anything, promptFor("alpha")).Return(ok, nil)
			f.model.On("Generate", mock.Anything, promptFor("beta")).Return(ports.GenerateResponse{}, stderrors.New("network unreachable"))
			f.model.On("Generate", mock.Anything, promptFor("gamma")).Return(ok, nil)
			f.validations.On("AppendValidation", mock.Anything, mock.Anything).Return("v", nil)

			report, err := f.engine.Run(context.Background(), CheckRequest{All: true})
			require.NoError(t, err)

			require.Len(t, report.Results, 3)
			assert.Equal(t, "alpha", report.Results[0].Spec)
			assert.Equal(t, domain.StatusPass, report.Results[0].Status)
			assert.Equal(t, "beta", report.Results[1].Spec)
			assert.Equal(t, domain.StatusError, report.Results[1].Status)
			assert.Contains(t, report.Results[1].Error, "network unreachable")
			assert.Equal(t, "gamma", report.Results[2].Spec)
			assert.Equal(t, domain.StatusPass, report.Results[2].Status)
			assert.Equal(t, 1, report.Summary.Errors)
			f.validations.AssertNumberOfCalls(t, "AppendValidation", 2)
		})
	}
}

func TestCheckEngine_RespectsConcurrencyLimit(t *testing.T) {
	f := newEngineFixture(t, 2)
	specs := []domain.Specification{testSpec("a"), testSpec("b"), testSpec("c"), testSpec("d"), testSpec("e")}
	f.specs.On("ListActiveSpecifications", mock.Anything).Return(specs, nil)

	var inFlight, peak int32
	f.model.On("Generate", mock.Anything, mock.Anything).
		Run(func(mock.Arguments) {
			n := atomic.AddInt32(&inFlight, 1)
			for {
				p := atomic.LoadInt32(&peak)
				if n <= p || atomic.CompareAndSwapInt32(&peak, p, n) {
					break
				}
			}
			time.Sleep(5 * time.Millisecond)
			atomic.AddInt32(&inFlight, -1)
		}).
		Return(ports.GenerateResponse{Text: `{"status":"pass","findings":[]}`}, nil)
	f.validations.On("AppendValidation", mock.Anything, mock.Anything).Return("v", nil)

	report, err := f.engine.Run(context.Background(), CheckRequest{All: true})
	require.NoError(t, err)
	assert.Len(t, report.Results, 5)
	assert.LessOrEqual(t, atomic.LoadInt32(&peak), int32(2))
	for i, r := range report.Results {
		assert.Equal(t, specs[i].EntityName, r.Spec)
	}
}

func TestCheckEngine_LoadErrors(t *testing.T) {
	t.Run("not found propagates", func(t *testing.T) {
		f := newEngineFixture(t, 1)
		f.specs.On("GetSpecification", mock.Anything, "missing").
			Return(domain.Specification{}, errors.New(errors.CodeNotFound, "specification missing not found"))

		_, err := f.engine.Run(context.Background(), CheckRequest{SpecID: "missing"})
		require.Error(t, err)
		assert.Equal(t, errors.CodeNotFound, errors.GetCode(err))
	})

	t.Run("inactive spec is not found", func(t *testing.T) {
		f := newEngineFixture(t, 1)
		spec := testSpec("old")
		spec.Status = domain.SpecStatusInactive
		f.specs.On("GetSpecification", mock.Anything, spec.ID.String()).Return(spec, nil)

		_, err := f.engine.Run(context.Background(), CheckRequest{SpecID: spec.ID.String()})
		assert.Equal(t, errors.CodeNotFound, errors.GetCode(err))
		f.model.AssertNotCalled(t, "Generate", mock.Anything, mock.Anything)
	})

	t.Run("no selector is a usage error", func(t *testing.T) {
		f := newEngineFixture(t, 1)
		_, err := f.engine.Run(context.Background(), CheckRequest{})
		assert.Equal(t, errors.CodeUsage, errors.GetCode(err))
	})

	t.Run("list failure is a store error", func(t *testing.T) {
		f := newEngineFixture(t, 1)
		f.specs.On("ListActiveSpecifications", mock.Anything).Return(nil, stderrors.New("db down"))
		_, err := f.engine.Run(context.Background(), CheckRequest{All: true})
		assert.Equal(t, errors.CodeStoreError, errors.GetCode(err))
	})
}

func TestCheckEngine_EntityTypeFilter(t *testing.T) {
	f := newEngineFixture(t, 1)
	table := testSpec("profiles")
	fn := testSpec("notify")
	fn.EntityType = "function"
	f.specs.On("ListActiveSpecifications", mock.Anything).Return([]domain.Specification{table, fn}, nil)
	f.model.On("Generate", mock.Anything, promptFor("notify")).
		Return(ports.GenerateResponse{Text: `{"status":"pass","findings":[]}`}, nil)
	f.validations.On("AppendValidation", mock.Anything, mock.Anything).Return("v", nil)

	report, err := f.engine.Run(context.Background(), CheckRequest{All: true, EntityTypes: []string{" Function "}})
	require.NoError(t, err)
	require.Len(t, report.Results, 1)
	assert.Equal(t, "notify", report.Results[0].Spec)
	f.model.AssertNotCalled(t, "Generate", mock.Anything, promptFor("profiles"))
}

func TestFilterEntityTypes_MatchesByKind(t *testing.T) {
	table := testSpec("profiles")
	fn := testSpec("notify")
	fn.EntityType = "function"
	endpoint := testSpec("checkout")
	endpoint.EntityType = "endpoint"
	component := testSpec("Cart")
	component.EntityType = "component"
	specs := []domain.Specification{table, fn, endpoint, component}

	tests := []struct {
		name  string
		types []string
		want  []string
	}{
		{name: "no filter", want: []string{"profiles", "notify", "checkout", "Cart"}},
		{name: "code covers other tags", types: []string{"code"}, want: []string{"checkout", "Cart"}},
		{name: "case and spaces", types: []string{" TABLE "}, want: []string{"profiles"}},
		{name: "several kinds", types: []string{"function", "code"}, want: []string{"notify", "checkout", "Cart"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got []string
			for _, s := range filterEntityTypes(specs, tt.types) {
				got = append(got, s.EntityName)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}
