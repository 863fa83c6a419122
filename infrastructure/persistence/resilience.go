package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"

	"skillmap-backend/application/ports"
	"skillmap-backend/domain/core/entities"
	"skillmap-backend/domain/core/valueobjects"
	pkgerrors "skillmap-backend/pkg/errors"
)

// BreakerConfig holds circuit breaker tuning for the storage layer
type BreakerConfig struct {
	Name             string
	MaxRequests      uint32
	Interval         time.Duration
	Timeout          time.Duration
	FailureThreshold float64
	MinRequests      uint32
}

// DefaultBreakerConfig returns the default storage breaker configuration
func DefaultBreakerConfig(name string) BreakerConfig {
	return BreakerConfig{
		Name:             name,
		MaxRequests:      5,
		Interval:         30 * time.Second,
		Timeout:          60 * time.Second,
		FailureThreshold: 0.8,
		MinRequests:      5,
	}
}

// ResilientSkillRepository decorates a SkillRepository with a circuit
// breaker so a failing store sheds load fast instead of queueing callers.
// Domain rejections (not-found, precondition) do not count as failures.
type ResilientSkillRepository struct {
	inner   ports.SkillRepository
	breaker *gobreaker.CircuitBreaker
	logger  *zap.Logger
}

// NewResilientSkillRepository wraps inner with a circuit breaker
func NewResilientSkillRepository(inner ports.SkillRepository, config BreakerConfig, logger *zap.Logger) *ResilientSkillRepository {
	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        config.Name,
		MaxRequests: config.MaxRequests,
		Interval:    config.Interval,
		Timeout:     config.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < config.MinRequests {
				return false
			}
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return failureRatio >= config.FailureThreshold
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			logger.Warn("storage circuit breaker state changed",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
		},
		IsSuccessful: func(err error) bool {
			// Only infrastructure failures should trip the breaker.
			return err == nil || !pkgerrors.IsType(err, pkgerrors.ErrorTypeDatabase)
		},
	})

	return &ResilientSkillRepository{
		inner:   inner,
		breaker: breaker,
		logger:  logger,
	}
}

// LoadAll returns every stored skill in insertion order
func (r *ResilientSkillRepository) LoadAll(ctx context.Context) ([]*entities.Skill, error) {
	result, err := r.execute(func() (any, error) {
		return r.inner.LoadAll(ctx)
	})
	if err != nil {
		return nil, err
	}
	return result.([]*entities.Skill), nil
}

// GetByID retrieves a skill by its id
func (r *ResilientSkillRepository) GetByID(ctx context.Context, id valueobjects.SkillID) (*entities.Skill, error) {
	result, err := r.execute(func() (any, error) {
		return r.inner.GetByID(ctx, id)
	})
	if err != nil {
		return nil, err
	}
	return result.(*entities.Skill), nil
}

// Save persists a skill, assigning an id on first save
func (r *ResilientSkillRepository) Save(ctx context.Context, skill *entities.Skill) (*entities.Skill, error) {
	result, err := r.execute(func() (any, error) {
		return r.inner.Save(ctx, skill)
	})
	if err != nil {
		return nil, err
	}
	return result.(*entities.Skill), nil
}

// Delete removes a skill record
func (r *ResilientSkillRepository) Delete(ctx context.Context, id valueobjects.SkillID) error {
	_, err := r.execute(func() (any, error) {
		return nil, r.inner.Delete(ctx, id)
	})
	return err
}

func (r *ResilientSkillRepository) execute(op func() (any, error)) (any, error) {
	result, err := r.breaker.Execute(op)
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return nil, pkgerrors.NewUnavailableError("skill storage")
	}
	return result, err
}
