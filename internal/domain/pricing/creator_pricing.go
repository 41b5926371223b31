package pricing

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Vidgram-Market/service-pricing/internal/platform/domain"
)

// CreatorPricing is the aggregate root holding one creator's saved configuration.
type CreatorPricing struct {
	id        uuid.UUID
	creatorID uuid.UUID
	config    PricingConfig
	version   int64
	createdAt time.Time
	updatedAt time.Time
}

// ConfigError is returned when a configuration fails validation. It carries every failure.
type ConfigError struct {
	*domain.DomainError
	Failures []ValidationResult
}

// Unwrap exposes the underlying DomainError so HTTP mapping and errors.Is keep working.
func (e *ConfigError) Unwrap() error {
	return e.DomainError
}

func newConfigError(failures []ValidationResult) *ConfigError {
	msgs := make([]string, len(failures))
	for i, f := range failures {
		msgs[i] = f.Message
	}
	return &ConfigError{
		DomainError: domain.NewValidationError("invalid pricing configuration: " + strings.Join(msgs, "; ")),
		Failures:    failures,
	}
}

// NewCreatorPricing validates cfg and creates the aggregate.
func NewCreatorPricing(creatorID uuid.UUID, cfg PricingConfig) (*CreatorPricing, error) {
	cfg.BasePrice.Currency = strings.ToUpper(strings.TrimSpace(cfg.BasePrice.Currency))
	if failures := ValidateConfig(cfg); len(failures) > 0 {
		return nil, newConfigError(failures)
	}

	now := time.Now().UTC()
	return &CreatorPricing{
		id:        uuid.New(),
		creatorID: creatorID,
		config:    cfg.Clone(),
		version:   1,
		createdAt: now,
		updatedAt: now,
	}, nil
}

// UpdateConfig replaces the configuration after validation and bumps the version.
func (p *CreatorPricing) UpdateConfig(cfg PricingConfig) error {
	cfg.BasePrice.Currency = strings.ToUpper(strings.TrimSpace(cfg.BasePrice.Currency))
	if failures := ValidateConfig(cfg); len(failures) > 0 {
		return newConfigError(failures)
	}
	p.config = cfg.Clone()
	p.version++
	p.updatedAt = time.Now().UTC()
	return nil
}

// Engine returns a pricing engine bound to the current configuration.
func (p *CreatorPricing) Engine(opts ...EngineOption) *Engine {
	return NewEngine(p.config, opts...)
}

// Getters.
func (p *CreatorPricing) ID() uuid.UUID         { return p.id }
func (p *CreatorPricing) CreatorID() uuid.UUID  { return p.creatorID }
func (p *CreatorPricing) Config() PricingConfig { return p.config.Clone() }
func (p *CreatorPricing) Version() int64        { return p.version }
func (p *CreatorPricing) CreatedAt() time.Time  { return p.createdAt }
func (p *CreatorPricing) UpdatedAt() time.Time  { return p.updatedAt }

// Reconstitute rebuilds a CreatorPricing from persistence without validation.
func Reconstitute(id, creatorID uuid.UUID, cfg PricingConfig, version int64, createdAt, updatedAt time.Time) *CreatorPricing {
	return &CreatorPricing{
		id:        id,
		creatorID: creatorID,
		config:    cfg,
		version:   version,
		createdAt: createdAt,
		updatedAt: updatedAt,
	}
}
