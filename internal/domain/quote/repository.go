package quote

import (
	"context"

	"github.com/google/uuid"
)

// Stats aggregates quote outcomes for the admin dashboard.
type Stats struct {
	AcceptedTotalCents   int64
	PlatformFeeCents     int64
	CreatorEarningsCents int64
	CountByStatus        map[string]int64
}

// QuoteRepository defines the persistence contract for Quote aggregates.
type QuoteRepository interface {
	// FindByID retrieves a quote by its unique ID.
	FindByID(ctx context.Context, id uuid.UUID) (*Quote, error)

	// ListAll retrieves quotes newest first with pagination (admin).
	ListAll(ctx context.Context, page, limit int) ([]*Quote, int64, error)

	// GetStats returns totals over accepted quotes and counts per status (admin).
	GetStats(ctx context.Context) (*Stats, error)

	// Save persists a new quote.
	Save(ctx context.Context, q *Quote) error

	// Update persists changes with optimistic locking on version.
	Update(ctx context.Context, q *Quote) error
}
