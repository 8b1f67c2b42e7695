package limiter

import (
	"context"

	"golang.org/x/time/rate"

	"github.com/olusolaa/oracle-plus/internal/core/ports"
)

const (
	DefaultRPS = 5
	minRPS     = 1
	maxRPS     = 100
)

// Limiter is a token bucket shared by every outbound model call.
type Limiter struct {
	limiter *rate.Limiter
	rps     int
	logger  ports.Logger
}

// New builds a limiter allowing rps calls per second with a burst of rps.
// Zero selects the default; out-of-range values fall back to it with a warning.
func New(rps int, logger ports.Logger) *Limiter {
	value := DefaultRPS
	if rps >= minRPS && rps <= maxRPS {
		value = rps
	} else if rps != 0 {
		logger.Warnf(context.Background(), "Invalid model RPS configured (%d), using default %d RPS. Valid range: %d-%d.", rps, DefaultRPS, minRPS, maxRPS)
	}
	logger.Debugf(context.Background(), "Initialized model rate limiter: %d RPS", value)
	return &Limiter{
		limiter: rate.NewLimiter(rate.Limit(value), value),
		rps:     value,
		logger:  logger,
	}
}

func (l *Limiter) RPS() int { return l.rps }

func (l *Limiter) Wait(ctx context.Context) error {
	err := l.limiter.Wait(ctx)
	if err != nil {
		if ctx.Err() == nil {
			l.logger.Warnf(ctx, "Error waiting for model rate limiter: %v", err)
		}
		return err
	}
	return nil
}
