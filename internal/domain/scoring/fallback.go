package scoring

import (
	"context"
	"errors"

	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/okian/jelajah/pkg/logger"
	"github.com/okian/jelajah/pkg/metrics"
)

// FallbackProvider answers from primary through a circuit breaker and falls
// back to secondary when the call fails or the breaker is open.
type FallbackProvider struct {
	primary   Provider
	secondary Provider
	cb        *gobreaker.CircuitBreaker[float64]
	name      string
	log       logger.Logger
}

// NewFallbackProvider wraps primary with a breaker and secondary.
func NewFallbackProvider(primary, secondary Provider, opts ...Option) *FallbackProvider {
	s := newSettings(opts)
	p := &FallbackProvider{
		primary:   primary,
		secondary: secondary,
		name:      s.breakerName,
		log:       s.log,
	}

	metrics.UpdateBreakerState(s.breakerName, stateToFloat(gobreaker.StateClosed))
	p.cb = gobreaker.NewCircuitBreaker[float64](gobreaker.Settings{
		Name:        s.breakerName,
		MaxRequests: 1,
		Timeout:     s.openTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= s.maxFailures
		},
		// Caller cancellation says nothing about model health.
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			p.log.Warn(context.Background(), "scoring breaker state changed",
				logger.String("breaker", name),
				logger.String("from", from.String()),
				logger.String("to", to.String()))
			metrics.UpdateBreakerState(name, stateToFloat(to))
			metrics.RecordBreakerTransition(name, from.String(), to.String())
		},
	})
	return p
}

// Name implements Provider.
func (p *FallbackProvider) Name() string {
	return p.primary.Name() + "+" + p.secondary.Name()
}

// State returns the breaker state: closed, half-open or open.
func (p *FallbackProvider) State() string {
	return p.cb.State().String()
}

// Predict implements Provider.
func (p *FallbackProvider) Predict(ctx context.Context, category, reg string) (float64, error) {
	v, err := p.cb.Execute(func() (float64, error) {
		return p.primary.Predict(ctx, category, reg)
	})
	if err == nil {
		return v, nil
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return 0, ctxErr
	}
	if !errors.Is(err, gobreaker.ErrOpenState) && !errors.Is(err, gobreaker.ErrTooManyRequests) {
		p.log.Debug(ctx, "primary prediction failed", logger.String("provider", p.primary.Name()), logger.Error(err))
	}
	metrics.RecordScoringFallback(p.secondary.Name())
	return p.secondary.Predict(ctx, category, reg)
}

func stateToFloat(state gobreaker.State) float64 {
	switch state {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return -1
	}
}
