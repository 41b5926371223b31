package quote

import (
	"time"

	"github.com/google/uuid"

	"github.com/Vidgram-Market/service-pricing/internal/domain/pricing"
	"github.com/Vidgram-Market/service-pricing/internal/platform/domain"
)

// Status represents the lifecycle state of a quote.
type Status string

const (
	StatusPending   Status = "pending"
	StatusAccepted  Status = "accepted"
	StatusExpired   Status = "expired"
	StatusCancelled Status = "cancelled"
)

// NewRushSoldOutError reports that the creator has no rush slots left for the day.
func NewRushSoldOutError() *domain.DomainError {
	return &domain.DomainError{
		Code:    "RUSH_SOLD_OUT",
		Message: "rush delivery is sold out for today",
		Err:     domain.ErrConflict,
	}
}

// Quote is the aggregate root recording one priced booking attempt.
type Quote struct {
	id           uuid.UUID
	creatorID    uuid.UUID
	customerID   uuid.UUID
	options      pricing.BookingOptions
	demandLevel  pricing.DemandLevel
	breakdown    pricing.Breakdown
	status       Status
	rushSlotDay  string
	expiresAt    time.Time
	acceptedAt   *time.Time
	cancelledAt  *time.Time
	cancelReason string
	version      int64
	createdAt    time.Time
	updatedAt    time.Time
}

// NewQuote creates a pending quote issued at now and valid for ttl.
func NewQuote(creatorID, customerID uuid.UUID, opts pricing.BookingOptions, demand pricing.DemandLevel, breakdown pricing.Breakdown, ttl time.Duration, now time.Time) *Quote {
	now = now.UTC()
	return &Quote{
		id:          uuid.New(),
		creatorID:   creatorID,
		customerID:  customerID,
		options:     opts,
		demandLevel: demand,
		breakdown:   breakdown,
		status:      StatusPending,
		expiresAt:   now.Add(ttl),
		version:     1,
		createdAt:   now,
		updatedAt:   now,
	}
}

// --- Getters ---

func (q *Quote) ID() uuid.UUID                    { return q.id }
func (q *Quote) CreatorID() uuid.UUID             { return q.creatorID }
func (q *Quote) CustomerID() uuid.UUID            { return q.customerID }
func (q *Quote) Options() pricing.BookingOptions  { return q.options }
func (q *Quote) DemandLevel() pricing.DemandLevel { return q.demandLevel }
func (q *Quote) Breakdown() pricing.Breakdown     { return q.breakdown }
func (q *Quote) Status() Status                   { return q.status }
func (q *Quote) RushSlotDay() string              { return q.rushSlotDay }
func (q *Quote) ExpiresAt() time.Time             { return q.expiresAt }
func (q *Quote) AcceptedAt() *time.Time           { return q.acceptedAt }
func (q *Quote) CancelledAt() *time.Time          { return q.cancelledAt }
func (q *Quote) CancelReason() string             { return q.cancelReason }
func (q *Quote) Version() int64                   { return q.version }
func (q *Quote) CreatedAt() time.Time             { return q.createdAt }
func (q *Quote) UpdatedAt() time.Time             { return q.updatedAt }

// IsRush reports whether the quote priced a rush delivery.
func (q *Quote) IsRush() bool {
	return q.options.RushDelivery && q.breakdown.RushSurcharge > 0
}

// IsExpired reports whether a pending quote has passed its deadline at now.
func (q *Quote) IsExpired(now time.Time) bool {
	return q.status == StatusPending && !now.Before(q.expiresAt)
}

// --- Behavior / State Transitions ---

// Accept transitions a pending quote to accepted. rushSlotDay records which day's rush
// capacity the booking consumed, empty for standard delivery.
func (q *Quote) Accept(rushSlotDay string, now time.Time) error {
	if q.status != StatusPending {
		return domain.NewInvalidStateError(string(q.status), string(StatusAccepted))
	}
	now = now.UTC()
	if q.IsExpired(now) {
		return domain.NewInvalidStateError(string(StatusExpired), string(StatusAccepted))
	}
	q.status = StatusAccepted
	q.rushSlotDay = rushSlotDay
	q.acceptedAt = &now
	q.updatedAt = now
	return nil
}

// Expire transitions a pending quote to expired.
func (q *Quote) Expire(now time.Time) error {
	if q.status != StatusPending {
		return domain.NewInvalidStateError(string(q.status), string(StatusExpired))
	}
	q.status = StatusExpired
	q.updatedAt = now.UTC()
	return nil
}

// Cancel transitions a pending or accepted quote to cancelled.
func (q *Quote) Cancel(reason string, now time.Time) error {
	if q.status != StatusPending && q.status != StatusAccepted {
		return domain.NewInvalidStateError(string(q.status), string(StatusCancelled))
	}
	now = now.UTC()
	q.status = StatusCancelled
	q.cancelledAt = &now
	q.cancelReason = reason
	q.updatedAt = now
	return nil
}

// IncrementVersion bumps the version for optimistic locking. Transitions set updatedAt.
func (q *Quote) IncrementVersion() {
	q.version++
}

// --- Reconstitution ---

// Reconstitute rebuilds a Quote from persisted data.
func Reconstitute(
	id, creatorID, customerID uuid.UUID,
	opts pricing.BookingOptions,
	demand pricing.DemandLevel,
	breakdown pricing.Breakdown,
	status Status,
	rushSlotDay string,
	expiresAt time.Time,
	acceptedAt, cancelledAt *time.Time,
	cancelReason string,
	version int64,
	createdAt, updatedAt time.Time,
) *Quote {
	return &Quote{
		id:           id,
		creatorID:    creatorID,
		customerID:   customerID,
		options:      opts,
		demandLevel:  demand,
		breakdown:    breakdown,
		status:       status,
		rushSlotDay:  rushSlotDay,
		expiresAt:    expiresAt,
		acceptedAt:   acceptedAt,
		cancelledAt:  cancelledAt,
		cancelReason: cancelReason,
		version:      version,
		createdAt:    createdAt,
		updatedAt:    updatedAt,
	}
}
