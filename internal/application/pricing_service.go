package application

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Vidgram-Market/service-pricing/internal/domain/pricing"
	"github.com/Vidgram-Market/service-pricing/internal/platform/domain"
	"github.com/Vidgram-Market/service-pricing/internal/platform/metrics"
	"github.com/Vidgram-Market/service-pricing/internal/rushslot"
)

// RushCounter reports how many rush orders a creator has taken on a day.
type RushCounter interface {
	Count(ctx context.Context, creatorID uuid.UUID, day string) (int, error)
}

// CreatorPricingDTO is the API response representation of a creator's pricing.
type CreatorPricingDTO struct {
	ID        uuid.UUID             `json:"id"`
	CreatorID uuid.UUID             `json:"creator_id"`
	Config    pricing.PricingConfig `json:"config"`
	Version   int64                 `json:"version"`
	CreatedAt time.Time             `json:"created_at"`
	UpdatedAt time.Time             `json:"updated_at"`
}

// ValidationReportDTO is the outcome of a dry-run configuration check.
type ValidationReportDTO struct {
	Valid    bool                       `json:"valid"`
	Failures []pricing.ValidationResult `json:"failures"`
}

// RushAvailabilityDTO is today's rush capacity for a creator.
type RushAvailabilityDTO struct {
	pricing.RushAvailability
	Day string `json:"day"`
}

// OptimalPriceRequest asks for a recommended price for a creator.
type OptimalPriceRequest struct {
	CreatorID      uuid.UUID              `json:"creator_id" binding:"required"`
	HistoricalData pricing.HistoricalData `json:"historical_data"`
}

// PriceDTO is a single price with its display string.
type PriceDTO struct {
	PriceCents int64  `json:"price_cents"`
	Currency   string `json:"currency"`
	Formatted  string `json:"formatted"`
}

// PsychologicalPriceRequest asks for the charm price of a price.
type PsychologicalPriceRequest struct {
	PriceCents int64  `json:"price_cents" binding:"required"`
	Currency   string `json:"currency"`
}

// MessagesRequest carries the signals used to build display copy.
type MessagesRequest struct {
	PriceCents           int64                `json:"price_cents" binding:"required"`
	CategoryAverageCents int64                `json:"category_average_cents" binding:"required"`
	UserContext          *pricing.UserContext `json:"user_context,omitempty"`
	SlotsRemaining       *int                 `json:"slots_remaining,omitempty"`
	RecentBookings       int                  `json:"recent_bookings"`
	TotalBookings        int                  `json:"total_bookings"`
	RepeatRate           float64              `json:"repeat_rate"`
}

// MessagesDTO bundles display copy for a listing.
type MessagesDTO struct {
	Pricing     string `json:"pricing"`
	Urgency     string `json:"urgency,omitempty"`
	SocialProof string `json:"social_proof"`
}

// PricingService handles creator pricing configuration and pricing insights.
type PricingService struct {
	repo   pricing.CreatorPricingRepository
	rush   RushCounter
	now    func() time.Time
	logger *zap.Logger
}

// NewPricingService creates a new PricingService.
func NewPricingService(repo pricing.CreatorPricingRepository, rush RushCounter, logger *zap.Logger) *PricingService {
	return &PricingService{
		repo:   repo,
		rush:   rush,
		now:    time.Now,
		logger: logger,
	}
}

// UpsertConfig creates or replaces the caller's pricing configuration.
func (s *PricingService) UpsertConfig(ctx context.Context, creatorID uuid.UUID, cfg pricing.PricingConfig) (*CreatorPricingDTO, error) {
	existing, err := s.repo.FindByCreatorID(ctx, creatorID)
	if err != nil && !domain.IsNotFound(err) {
		return nil, err
	}

	if existing == nil {
		p, err := pricing.NewCreatorPricing(creatorID, cfg)
		if err != nil {
			s.recordFailures(err)
			return nil, err
		}
		if err := s.repo.Save(ctx, p); err != nil {
			s.logger.Error("failed to save creator pricing", zap.Error(err))
			return nil, err
		}
		s.logger.Info("creator pricing created",
			zap.String("creator_id", creatorID.String()),
			zap.Int64("base_price_cents", int64(p.Config().BasePrice.Amount)),
		)
		dto := toCreatorPricingDTO(p)
		return &dto, nil
	}

	if err := existing.UpdateConfig(cfg); err != nil {
		s.recordFailures(err)
		return nil, err
	}
	if err := s.repo.Update(ctx, existing); err != nil {
		s.logger.Error("failed to update creator pricing", zap.Error(err))
		return nil, err
	}
	s.logger.Info("creator pricing updated",
		zap.String("creator_id", creatorID.String()),
		zap.Int64("version", existing.Version()),
	)
	dto := toCreatorPricingDTO(existing)
	return &dto, nil
}

// GetConfig returns a creator's saved pricing.
func (s *PricingService) GetConfig(ctx context.Context, creatorID uuid.UUID) (*CreatorPricingDTO, error) {
	p, err := s.repo.FindByCreatorID(ctx, creatorID)
	if err != nil {
		return nil, err
	}
	dto := toCreatorPricingDTO(p)
	return &dto, nil
}

// ValidateConfig checks a configuration without saving it.
func (s *PricingService) ValidateConfig(cfg pricing.PricingConfig) ValidationReportDTO {
	failures := pricing.ValidateConfig(cfg)
	if failures == nil {
		failures = []pricing.ValidationResult{}
	}
	return ValidationReportDTO{Valid: len(failures) == 0, Failures: failures}
}

// RushAvailability reports a creator's remaining rush capacity for today.
func (s *PricingService) RushAvailability(ctx context.Context, creatorID uuid.UUID) (*RushAvailabilityDTO, error) {
	p, err := s.repo.FindByCreatorID(ctx, creatorID)
	if err != nil {
		return nil, err
	}

	day := rushslot.Day(s.now())
	taken, err := s.rush.Count(ctx, creatorID, day)
	if err != nil {
		return nil, err
	}

	return &RushAvailabilityDTO{
		RushAvailability: p.Engine().RushAvailability(taken),
		Day:              day,
	}, nil
}

// OptimalPrice recommends a price for a creator from historical conversion data.
func (s *PricingService) OptimalPrice(ctx context.Context, req OptimalPriceRequest) (*PriceDTO, error) {
	p, err := s.repo.FindByCreatorID(ctx, req.CreatorID)
	if err != nil {
		return nil, err
	}
	currency := p.Config().BasePrice.Currency
	price := p.Engine().OptimalPrice(req.HistoricalData)
	return &PriceDTO{
		PriceCents: int64(price),
		Currency:   currency,
		Formatted:  pricing.FormatPrice(price, currency),
	}, nil
}

// PsychologicalPrice returns the charm price for a price.
func (s *PricingService) PsychologicalPrice(req PsychologicalPriceRequest) PriceDTO {
	currency := req.Currency
	if currency == "" {
		currency = "USD"
	}
	price := pricing.PsychologicalPrice(pricing.Money(req.PriceCents))
	return PriceDTO{
		PriceCents: int64(price),
		Currency:   currency,
		Formatted:  pricing.FormatPrice(price, currency),
	}
}

// Messages builds the pricing, urgency and social-proof copy for a listing.
func (s *PricingService) Messages(req MessagesRequest) MessagesDTO {
	dto := MessagesDTO{
		Pricing:     pricing.PricingMessage(pricing.Money(req.PriceCents), pricing.Money(req.CategoryAverageCents), req.UserContext),
		SocialProof: pricing.SocialProofMessage(req.TotalBookings, req.RepeatRate),
	}
	if req.SlotsRemaining != nil {
		if msg, ok := pricing.UrgencyMessage(*req.SlotsRemaining, req.RecentBookings); ok {
			dto.Urgency = msg
		}
	}
	return dto
}

// FormatPrice renders an amount for display.
func (s *PricingService) FormatPrice(amountCents int64, currency string) PriceDTO {
	return PriceDTO{
		PriceCents: amountCents,
		Currency:   currency,
		Formatted:  pricing.FormatPrice(pricing.Money(amountCents), currency),
	}
}

func (s *PricingService) recordFailures(err error) {
	var cfgErr *pricing.ConfigError
	if !errors.As(err, &cfgErr) {
		return
	}
	for _, f := range cfgErr.Failures {
		metrics.ValidationFailuresTotal.WithLabelValues(metrics.FieldLabel(f.Field)).Inc()
	}
}

// toCreatorPricingDTO maps a domain CreatorPricing to a CreatorPricingDTO.
func toCreatorPricingDTO(p *pricing.CreatorPricing) CreatorPricingDTO {
	return CreatorPricingDTO{
		ID:        p.ID(),
		CreatorID: p.CreatorID(),
		Config:    p.Config(),
		Version:   p.Version(),
		CreatedAt: p.CreatedAt(),
		UpdatedAt: p.UpdatedAt(),
	}
}
