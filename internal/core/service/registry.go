package service

import (
	"context"
	"fmt"
	"sync"

	"github.com/olusolaa/oracle-plus/internal/core/domain"
	"github.com/olusolaa/oracle-plus/internal/core/ports"
	"github.com/olusolaa/oracle-plus/internal/errors"
)

type FetcherRegistry struct {
	mu       sync.RWMutex
	fetchers map[domain.EntityKind]ports.StateFetcher
}

func NewFetcherRegistry() *FetcherRegistry {
	return &FetcherRegistry{
		fetchers: make(map[domain.EntityKind]ports.StateFetcher),
	}
}

func (r *FetcherRegistry) Register(fetcher ports.StateFetcher) error {
	if fetcher == nil {
		return errors.New(errors.CodeInternal, "attempted to register nil state fetcher")
	}
	kind := fetcher.Kind()
	if kind == 0 {
		return errors.New(errors.CodeInternal, "state fetcher kind cannot be empty")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.fetchers[kind]; exists {
		return errors.New(errors.CodeInternal, fmt.Sprintf("state fetcher for kind '%s' already registered", kind))
	}
	r.fetchers[kind] = fetcher
	return nil
}

func (r *FetcherRegistry) Get(kind domain.EntityKind) (ports.StateFetcher, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	fetcher, exists := r.fetchers[kind]
	if !exists {
		return nil, errors.New(errors.CodeNotImplemented, fmt.Sprintf("state fetcher for kind '%s' not implemented", kind))
	}
	return fetcher, nil
}

// Verify fails unless every kind in domain.AllEntityKinds has a fetcher.
func (r *FetcherRegistry) Verify() error {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var missing []string
	for _, kind := range domain.AllEntityKinds() {
		if _, ok := r.fetchers[kind]; !ok {
			missing = append(missing, kind.String())
		}
	}
	if len(missing) > 0 {
		return errors.New(errors.CodeInternal, fmt.Sprintf("no state fetcher registered for kinds %v", missing))
	}
	return nil
}

// Fetch dispatches to the fetcher for the specification's kind.
func (r *FetcherRegistry) Fetch(ctx context.Context, spec domain.Specification, targetPath string) domain.Snapshot {
	fetcher, err := r.Get(spec.Kind())
	if err != nil {
		return domain.Snapshot{Kind: spec.Kind(), Err: err}
	}
	return fetcher.Fetch(ctx, spec, targetPath)
}
