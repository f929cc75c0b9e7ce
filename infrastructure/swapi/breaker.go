package swapi

import (
	"context"
	stderrors "errors"
	"net/http"
	"time"

	"holocron/application/ports"
	"holocron/domain/character"
	"holocron/pkg/errors"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"
)

// BreakerConfig holds configuration for the catalog circuit breaker
type BreakerConfig struct {
	Name             string
	MaxRequests      uint32
	Interval         time.Duration
	Timeout          time.Duration
	FailureThreshold float64
	MinRequests      uint32
}

// DefaultBreakerConfig returns a default configuration for the circuit breaker
func DefaultBreakerConfig() BreakerConfig {
	return BreakerConfig{
		Name:             "catalog",
		MaxRequests:      5,
		Interval:         30 * time.Second,
		Timeout:          60 * time.Second,
		FailureThreshold: 0.8,
		MinRequests:      5,
	}
}

// BreakerAPI decorates a CharacterAPI with a circuit breaker. Only transport
// failures and 5xx responses count against the upstream; a 404 or a
// cancelled context does not.
type BreakerAPI struct {
	next   ports.CharacterAPI
	cb     *gobreaker.CircuitBreaker
	logger *zap.Logger
}

var _ ports.CharacterAPI = (*BreakerAPI)(nil)

// NewBreakerAPI wraps next.
func NewBreakerAPI(next ports.CharacterAPI, cfg BreakerConfig, logger *zap.Logger) *BreakerAPI {
	b := &BreakerAPI{next: next, logger: logger}
	b.cb = gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        cfg.Name,
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < cfg.MinRequests {
				return false
			}
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return failureRatio >= cfg.FailureThreshold
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			logger.Warn("Circuit breaker state changed",
				zap.String("name", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
		},
		IsSuccessful: isUpstreamHealthy,
	})
	return b
}

// State returns the current breaker state.
func (b *BreakerAPI) State() gobreaker.State {
	return b.cb.State()
}

// ListCharacters implements ports.CharacterAPI
func (b *BreakerAPI) ListCharacters(ctx context.Context, params character.SearchParams) (*character.Page, error) {
	result, err := b.cb.Execute(func() (interface{}, error) {
		return b.next.ListCharacters(ctx, params)
	})
	if err != nil {
		return nil, b.translate(err)
	}
	return result.(*character.Page), nil
}

// GetCharacter implements ports.CharacterAPI
func (b *BreakerAPI) GetCharacter(ctx context.Context, id string) (*character.Character, error) {
	result, err := b.cb.Execute(func() (interface{}, error) {
		return b.next.GetCharacter(ctx, id)
	})
	if err != nil {
		return nil, b.translate(err)
	}
	return result.(*character.Character), nil
}

func (b *BreakerAPI) translate(err error) error {
	switch {
	case stderrors.Is(err, gobreaker.ErrOpenState):
		b.logger.Warn("Circuit breaker is open, rejecting catalog request")
		return errors.NewUnavailableError("catalog").WithCause(err)
	case stderrors.Is(err, gobreaker.ErrTooManyRequests):
		b.logger.Warn("Circuit breaker is half-open, too many catalog requests")
		return errors.NewUnavailableError("catalog").WithCause(err)
	default:
		return err
	}
}

func isUpstreamHealthy(err error) bool {
	if err == nil {
		return true
	}
	if stderrors.Is(err, context.Canceled) {
		return true
	}
	if status, ok := errors.UpstreamStatus(err); ok {
		return status < http.StatusInternalServerError
	}
	return false
}
