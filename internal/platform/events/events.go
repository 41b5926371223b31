package events

import (
	"time"

	"github.com/google/uuid"
)

// Topics.
const (
	TopicBookingEvents = "booking.events"
	TopicPricingEvents = "pricing.events"
)

// Event types consumed from the booking service.
const (
	BookingCancelled = "booking.cancelled"
)

// Event types published by the pricing service.
const (
	PricingQuoteAccepted  = "pricing.quote.accepted"
	PricingQuoteFailed    = "pricing.quote.failed"
	PricingQuoteCancelled = "pricing.quote.cancelled"
)

// BookingCancelledEvent is emitted when a booking made from a quote is cancelled.
type BookingCancelledEvent struct {
	BookingID  uuid.UUID `json:"booking_id"`
	QuoteID    uuid.UUID `json:"quote_id"`
	CustomerID uuid.UUID `json:"customer_id"`
	Reason     string    `json:"reason"`
	OccurredAt time.Time `json:"occurred_at"`
}

// QuoteAcceptedEvent carries the locked-in price of an accepted quote.
type QuoteAcceptedEvent struct {
	QuoteID              uuid.UUID `json:"quote_id"`
	CreatorID            uuid.UUID `json:"creator_id"`
	CustomerID           uuid.UUID `json:"customer_id"`
	RushDelivery         bool      `json:"rush_delivery"`
	Quantity             int       `json:"quantity"`
	TotalCents           int64     `json:"total_cents"`
	PlatformFeeCents     int64     `json:"platform_fee_cents"`
	CreatorEarningsCents int64     `json:"creator_earnings_cents"`
	Currency             string    `json:"currency"`
	OccurredAt           time.Time `json:"occurred_at"`
}

// QuoteCancelledEvent is emitted when an accepted or pending quote is cancelled.
type QuoteCancelledEvent struct {
	QuoteID    uuid.UUID `json:"quote_id"`
	CreatorID  uuid.UUID `json:"creator_id"`
	Reason     string    `json:"reason"`
	OccurredAt time.Time `json:"occurred_at"`
}

// QuoteFailedEvent is emitted when accepting a quote could not complete.
type QuoteFailedEvent struct {
	QuoteID    uuid.UUID `json:"quote_id"`
	CreatorID  uuid.UUID `json:"creator_id"`
	Reason     string    `json:"reason"`
	OccurredAt time.Time `json:"occurred_at"`
}
