package host

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"

	"github.com/GriffinCanCode/ProgramFactory/internal/infrastructure/logging"
	"github.com/GriffinCanCode/ProgramFactory/internal/shared/types"
)

// BreakerSettings configures a BreakerSpawner
type BreakerSettings struct {
	// MaxRequests is the number of spawns allowed through while half-open
	MaxRequests uint32
	// Interval clears failure counts while closed
	Interval time.Duration
	// Timeout is how long the circuit stays open
	Timeout time.Duration
	// ConsecutiveFailures trips the circuit
	ConsecutiveFailures uint32
}

// DefaultBreakerSettings returns the spawn breaker defaults
func DefaultBreakerSettings() BreakerSettings {
	return BreakerSettings{
		MaxRequests:         3,
		Interval:            30 * time.Second,
		Timeout:             10 * time.Second,
		ConsecutiveFailures: 5,
	}
}

// BreakerSpawner fails spawns fast while the wrapped host keeps failing.
// A spawn counts as failed when either stage fails.
type BreakerSpawner struct {
	next    Spawner
	breaker *gobreaker.TwoStepCircuitBreaker
}

// NewBreakerSpawner wraps next with a circuit breaker
func NewBreakerSpawner(next Spawner, settings BreakerSettings, logger *zap.Logger) *BreakerSpawner {
	if logger == nil {
		logger = zap.NewNop()
	}
	if settings.ConsecutiveFailures == 0 {
		settings.ConsecutiveFailures = DefaultBreakerSettings().ConsecutiveFailures
	}
	log := logger.Named(logging.ComponentHost + ".breaker")

	breaker := gobreaker.NewTwoStepCircuitBreaker(gobreaker.Settings{
		Name:        "spawn",
		MaxRequests: settings.MaxRequests,
		Interval:    settings.Interval,
		Timeout:     settings.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= settings.ConsecutiveFailures
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn("Spawn circuit state changed",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
		},
	})

	return &BreakerSpawner{next: next, breaker: breaker}
}

// State returns the circuit state name
func (b *BreakerSpawner) State() string {
	return b.breaker.State().String()
}

// Spawn issues the request unless the circuit is open
func (b *BreakerSpawner) Spawn(ctx context.Context, req SpawnRequest) (Pending, error) {
	done, err := b.breaker.Allow()
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, fmt.Errorf("%w: %v", ErrCircuitOpen, err)
		}
		return nil, err
	}

	pending, err := b.next.Spawn(ctx, req)
	if err != nil {
		done(false)
		return nil, err
	}

	return PendingFunc(func(ctx context.Context) (types.ActorAddress, error) {
		addr, err := pending.Wait(ctx)
		done(err == nil)
		return addr, err
	}), nil
}
