package application

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Vidgram-Market/service-pricing/internal/domain/pricing"
	"github.com/Vidgram-Market/service-pricing/internal/domain/quote"
	"github.com/Vidgram-Market/service-pricing/internal/platform/domain"
	"github.com/Vidgram-Market/service-pricing/internal/platform/events"
	"github.com/Vidgram-Market/service-pricing/internal/platform/metrics"
	"github.com/Vidgram-Market/service-pricing/internal/rushslot"
	"github.com/Vidgram-Market/service-pricing/internal/saga"
)

// DefaultQuoteTTL is how long a quote can be accepted when no TTL is configured.
const DefaultQuoteTTL = 15 * time.Minute

// CreateQuoteRequest is the DTO for pricing a booking attempt.
type CreateQuoteRequest struct {
	CreatorID   uuid.UUID              `json:"creator_id" binding:"required"`
	Options     pricing.BookingOptions `json:"options"`
	UserContext *pricing.UserContext   `json:"user_context,omitempty"`
	DemandLevel string                 `json:"demand_level"`
}

// CancelQuoteRequest carries an optional cancellation reason.
type CancelQuoteRequest struct {
	Reason string `json:"reason"`
}

// QuoteDTO is the API response DTO for quote data.
type QuoteDTO struct {
	ID           uuid.UUID              `json:"id"`
	CreatorID    uuid.UUID              `json:"creator_id"`
	CustomerID   uuid.UUID              `json:"customer_id"`
	Status       string                 `json:"status"`
	Options      pricing.BookingOptions `json:"options"`
	DemandLevel  string                 `json:"demand_level,omitempty"`
	Breakdown    pricing.Breakdown      `json:"breakdown"`
	Formatted    string                 `json:"formatted_total"`
	RushSlotDay  string                 `json:"rush_slot_day,omitempty"`
	ExpiresAt    time.Time              `json:"expires_at"`
	AcceptedAt   *time.Time             `json:"accepted_at,omitempty"`
	CancelledAt  *time.Time             `json:"cancelled_at,omitempty"`
	CancelReason string                 `json:"cancel_reason,omitempty"`
	Version      int64                  `json:"version"`
	CreatedAt    time.Time              `json:"created_at"`
	UpdatedAt    time.Time              `json:"updated_at"`
}

// QuoteStatsDTO holds quote statistics for the admin dashboard.
type QuoteStatsDTO struct {
	AcceptedTotalCents   int64            `json:"accepted_total_cents"`
	PlatformFeeCents     int64            `json:"platform_fee_cents"`
	CreatorEarningsCents int64            `json:"creator_earnings_cents"`
	TotalQuotes          int64            `json:"total_quotes"`
	ByStatus             map[string]int64 `json:"by_status"`
}

// QuoteService is the application service that orchestrates quote use cases.
type QuoteService struct {
	quotes  quote.QuoteRepository
	configs pricing.CreatorPricingRepository
	rush    RushCounter
	sagaSvc *saga.QuoteSagaService
	ttl     time.Duration
	now     func() time.Time
	logger  *zap.Logger
}

// NewQuoteService creates a new QuoteService. A non-positive ttl falls back to DefaultQuoteTTL.
func NewQuoteService(
	quotes quote.QuoteRepository,
	configs pricing.CreatorPricingRepository,
	rush RushCounter,
	sagaSvc *saga.QuoteSagaService,
	ttl time.Duration,
	logger *zap.Logger,
) *QuoteService {
	if ttl <= 0 {
		ttl = DefaultQuoteTTL
	}
	return &QuoteService{
		quotes:  quotes,
		configs: configs,
		rush:    rush,
		sagaSvc: sagaSvc,
		ttl:     ttl,
		now:     time.Now,
		logger:  logger,
	}
}

// CreateQuote prices a booking for a customer and stores the quote.
func (s *QuoteService) CreateQuote(ctx context.Context, customerID uuid.UUID, req CreateQuoteRequest) (*QuoteDTO, error) {
	if req.Options.Quantity == 0 {
		req.Options.Quantity = 1
	}
	if req.Options.Quantity < 1 {
		return nil, domain.NewValidationError("quantity must be at least 1")
	}
	demand := pricing.DemandLevel(req.DemandLevel)
	if !demand.Valid() {
		return nil, domain.NewValidationError("demand_level must be one of low, medium, high, peak")
	}

	cp, err := s.configs.FindByCreatorID(ctx, req.CreatorID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	engine := cp.Engine(pricing.WithClock(s.now))
	if req.Options.RushDelivery && cp.Config().RushDelivery.Enabled {
		taken, err := s.rush.Count(ctx, req.CreatorID, rushslot.Day(now))
		if err != nil {
			return nil, err
		}
		if !engine.RushAvailability(taken).Available {
			metrics.QuotesTotal.WithLabelValues("create", "rush_sold_out").Inc()
			return nil, quote.NewRushSoldOutError()
		}
	}

	breakdown := engine.CalculateTotal(req.Options, req.UserContext, demand)
	q := quote.NewQuote(req.CreatorID, customerID, req.Options, demand, breakdown, s.ttl, now)
	if err := s.quotes.Save(ctx, q); err != nil {
		s.logger.Error("failed to save quote", zap.Error(err))
		return nil, err
	}

	metrics.QuotesTotal.WithLabelValues("create", "ok").Inc()
	metrics.QuoteTotalCents.Observe(float64(breakdown.Total))
	s.logger.Info("quote created",
		zap.String("quote_id", q.ID().String()),
		zap.String("creator_id", req.CreatorID.String()),
		zap.Int64("total_cents", int64(breakdown.Total)),
		zap.Bool("rush", q.IsRush()),
	)

	dto := toQuoteDTO(q)
	return &dto, nil
}

// GetQuote retrieves a quote visible to the caller. Admins can read any quote.
func (s *QuoteService) GetQuote(ctx context.Context, quoteID, userID uuid.UUID, isAdmin bool) (*QuoteDTO, error) {
	q, err := s.quotes.FindByID(ctx, quoteID)
	if err != nil {
		return nil, err
	}
	if !isAdmin && q.CustomerID() != userID && q.CreatorID() != userID {
		return nil, domain.NewForbiddenError("quote belongs to another user")
	}
	dto := toQuoteDTO(q)
	return &dto, nil
}

// AcceptQuote locks in a pending quote for its customer. A quote past its deadline is
// marked expired and the call fails with an invalid-state error.
func (s *QuoteService) AcceptQuote(ctx context.Context, quoteID, customerID uuid.UUID) (*QuoteDTO, error) {
	q, err := s.quotes.FindByID(ctx, quoteID)
	if err != nil {
		return nil, err
	}
	if q.CustomerID() != customerID {
		return nil, domain.NewForbiddenError("quote belongs to another customer")
	}

	now := s.now()
	if q.IsExpired(now) {
		if err := q.Expire(now); err != nil {
			return nil, err
		}
		q.IncrementVersion()
		if err := s.quotes.Update(ctx, q); err != nil {
			return nil, err
		}
		metrics.QuotesTotal.WithLabelValues("accept", "expired").Inc()
		return nil, domain.NewInvalidStateError(string(quote.StatusExpired), string(quote.StatusAccepted))
	}

	maxRush := 0
	if q.IsRush() {
		cp, err := s.configs.FindByCreatorID(ctx, q.CreatorID())
		if err != nil {
			return nil, err
		}
		maxRush = cp.Config().RushDelivery.MaxOrdersPerDay
	}

	if err := s.sagaSvc.AcceptQuoteSaga(ctx, q, maxRush, now); err != nil {
		metrics.QuotesTotal.WithLabelValues("accept", "failed").Inc()
		s.logger.Warn("failed to accept quote",
			zap.String("quote_id", quoteID.String()),
			zap.Error(err),
		)
		return nil, err
	}

	metrics.QuotesTotal.WithLabelValues("accept", "ok").Inc()
	s.logger.Info("quote accepted", zap.String("quote_id", quoteID.String()))

	dto := toQuoteDTO(q)
	return &dto, nil
}

// CancelQuote cancels a pending or accepted quote owned by the customer.
func (s *QuoteService) CancelQuote(ctx context.Context, quoteID, customerID uuid.UUID, reason string) (*QuoteDTO, error) {
	q, err := s.quotes.FindByID(ctx, quoteID)
	if err != nil {
		return nil, err
	}
	if q.CustomerID() != customerID {
		return nil, domain.NewForbiddenError("quote belongs to another customer")
	}
	if reason == "" {
		reason = "cancelled by customer"
	}

	if err := s.sagaSvc.CancelQuoteSaga(ctx, q, reason, s.now()); err != nil {
		return nil, err
	}
	metrics.QuotesTotal.WithLabelValues("cancel", "ok").Inc()

	dto := toQuoteDTO(q)
	return &dto, nil
}

// HandleBookingCancelled handles the BookingCancelledEvent from the booking service.
// It cancels the originating quote and returns its rush slot.
func (s *QuoteService) HandleBookingCancelled(ctx context.Context, event events.BookingCancelledEvent) error {
	s.logger.Info("handling booking cancelled event",
		zap.String("booking_id", event.BookingID.String()),
		zap.String("quote_id", event.QuoteID.String()),
		zap.String("reason", event.Reason),
	)

	q, err := s.quotes.FindByID(ctx, event.QuoteID)
	if err != nil {
		if domain.IsNotFound(err) {
			s.logger.Warn("no quote found for booking, skipping",
				zap.String("quote_id", event.QuoteID.String()),
			)
			return nil
		}
		return err
	}

	if q.Status() != quote.StatusAccepted && q.Status() != quote.StatusPending {
		s.logger.Info("quote already closed, skipping",
			zap.String("quote_id", q.ID().String()),
			zap.String("status", string(q.Status())),
		)
		return nil
	}

	reason := "booking cancelled"
	if event.Reason != "" {
		reason += ": " + event.Reason
	}
	if err := s.sagaSvc.CancelQuoteSaga(ctx, q, reason, s.now()); err != nil {
		return err
	}
	metrics.QuotesTotal.WithLabelValues("cancel", "booking_event").Inc()
	return nil
}

// --- Admin methods ---

// ListAllQuotes returns a paginated list of all quotes (admin).
func (s *QuoteService) ListAllQuotes(ctx context.Context, page, limit int) ([]QuoteDTO, int64, error) {
	quotes, total, err := s.quotes.ListAll(ctx, page, limit)
	if err != nil {
		return nil, 0, err
	}

	dtos := make([]QuoteDTO, len(quotes))
	for i, q := range quotes {
		dtos[i] = toQuoteDTO(q)
	}
	return dtos, total, nil
}

// GetQuoteStats returns aggregate quote statistics (admin).
func (s *QuoteService) GetQuoteStats(ctx context.Context) (*QuoteStatsDTO, error) {
	stats, err := s.quotes.GetStats(ctx)
	if err != nil {
		return nil, err
	}

	var total int64
	for _, c := range stats.CountByStatus {
		total += c
	}

	return &QuoteStatsDTO{
		AcceptedTotalCents:   stats.AcceptedTotalCents,
		PlatformFeeCents:     stats.PlatformFeeCents,
		CreatorEarningsCents: stats.CreatorEarningsCents,
		TotalQuotes:          total,
		ByStatus:             stats.CountByStatus,
	}, nil
}

// toQuoteDTO maps a domain Quote to a QuoteDTO.
func toQuoteDTO(q *quote.Quote) QuoteDTO {
	b := q.Breakdown()
	return QuoteDTO{
		ID:           q.ID(),
		CreatorID:    q.CreatorID(),
		CustomerID:   q.CustomerID(),
		Status:       string(q.Status()),
		Options:      q.Options(),
		DemandLevel:  string(q.DemandLevel()),
		Breakdown:    b,
		Formatted:    pricing.FormatPrice(b.Total, b.Currency),
		RushSlotDay:  q.RushSlotDay(),
		ExpiresAt:    q.ExpiresAt(),
		AcceptedAt:   q.AcceptedAt(),
		CancelledAt:  q.CancelledAt(),
		CancelReason: q.CancelReason(),
		Version:      q.Version(),
		CreatedAt:    q.CreatedAt(),
		UpdatedAt:    q.UpdatedAt(),
	}
}
