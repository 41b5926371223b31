package pricing

import (
	"context"

	"github.com/google/uuid"
)

// CreatorPricingRepository defines persistence operations for creator pricing.
type CreatorPricingRepository interface {
	// FindByCreatorID returns the configuration saved by a creator.
	FindByCreatorID(ctx context.Context, creatorID uuid.UUID) (*CreatorPricing, error)

	// Save persists a new configuration.
	Save(ctx context.Context, p *CreatorPricing) error

	// Update persists a changed configuration with optimistic locking on version.
	Update(ctx context.Context, p *CreatorPricing) error
}
