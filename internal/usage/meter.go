// Package usage reports model token consumption to the tenant budget without
// slowing down the pipeline.
package usage

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/olusolaa/oracle-plus/internal/core/ports"
	apperrors "github.com/olusolaa/oracle-plus/internal/errors"
)

const (
	defaultBuffer      = 64
	defaultCallTimeout = 5 * time.Second
)

type event struct {
	tenantID uuid.UUID
	tokens   int
}

type Options struct {
	Buffer      int
	CallTimeout time.Duration
}

// Meter forwards usage events to a UsageConsumer from a single background
// goroutine. Record never blocks; events are dropped when the buffer is full.
type Meter struct {
	consumer ports.UsageConsumer
	logger   ports.Logger
	events   chan event
	timeout  time.Duration
	g        errgroup.Group

	mu      sync.RWMutex
	closed  bool
	dropped atomic.Int64
}

func NewMeter(consumer ports.UsageConsumer, logger ports.Logger, opts Options) *Meter {
	if opts.Buffer <= 0 {
		opts.Buffer = defaultBuffer
	}
	if opts.CallTimeout <= 0 {
		opts.CallTimeout = defaultCallTimeout
	}
	m := &Meter{
		consumer: consumer,
		logger:   logger,
		events:   make(chan event, opts.Buffer),
		timeout:  opts.CallTimeout,
	}
	m.g.Go(m.run)
	return m
}

func (m *Meter) Record(tenantID uuid.UUID, tokens int) {
	if tokens <= 0 || tenantID == uuid.Nil {
		return
	}

	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.closed {
		return
	}
	select {
	case m.events <- event{tenantID: tenantID, tokens: tokens}:
	default:
		m.dropped.Add(1)
		m.logger.Warnf(context.Background(), "Usage buffer full, dropped %d tokens for tenant %s", tokens, tenantID)
	}
}

func (m *Meter) run() error {
	for ev := range m.events {
		ctx, cancel := context.WithTimeout(context.Background(), m.timeout)
		res, err := m.consumer.ConsumeTokens(ctx, ev.tenantID, ev.tokens)
		cancel()

		switch {
		case err != nil:
			m.logger.Errorf(ctx, err, "Failed to record %d tokens for tenant %s", ev.tokens, ev.tenantID)
		case res.IsThrottled || !res.Success:
			m.logger.Errorf(ctx, apperrors.New(apperrors.CodeQuotaExceeded, res.Message),
				"Tenant %s token budget exhausted", ev.tenantID)
		default:
			m.logger.Debugf(ctx, "Recorded %d tokens for tenant %s (remaining %d)", ev.tokens, ev.tenantID, res.Remaining)
		}
	}
	return nil
}

// Dropped reports how many events were discarded because the buffer was full.
func (m *Meter) Dropped() int64 {
	return m.dropped.Load()
}

// Close stops accepting events and waits for queued ones to be sent, giving
// up when ctx is done.
func (m *Meter) Close(ctx context.Context) error {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return nil
	}
	m.closed = true
	close(m.events)
	m.mu.Unlock()

	done := make(chan struct{})
	go func() {
		_ = m.g.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return apperrors.Wrap(ctx.Err(), apperrors.CodeTimeout,
			"usage meter did not drain before shutdown; some token usage was not recorded")
	}
}
