package saga

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Vidgram-Market/service-pricing/internal/domain/quote"
	"github.com/Vidgram-Market/service-pricing/internal/platform/events"
	"github.com/Vidgram-Market/service-pricing/internal/platform/kafka"
	"github.com/Vidgram-Market/service-pricing/internal/rushslot"
)

const eventSource = "service-pricing"

// EventPublisher publishes CloudEvents to a topic.
type EventPublisher interface {
	PublishEvent(ctx context.Context, topic string, ce kafka.CloudEvent) error
}

// SlotReserver hands out a creator's daily rush capacity.
type SlotReserver interface {
	Reserve(ctx context.Context, creatorID uuid.UUID, day string, max int) (bool, error)
	Release(ctx context.Context, creatorID uuid.UUID, day string) error
}

// QuoteSagaService orchestrates the quote acceptance and cancellation workflows.
type QuoteSagaService struct {
	repo      quote.QuoteRepository
	slots     SlotReserver
	publisher EventPublisher
	logger    *zap.Logger
}

// NewQuoteSagaService creates a new QuoteSagaService.
func NewQuoteSagaService(
	repo quote.QuoteRepository,
	slots SlotReserver,
	publisher EventPublisher,
	logger *zap.Logger,
) *QuoteSagaService {
	return &QuoteSagaService{
		repo:      repo,
		slots:     slots,
		publisher: publisher,
		logger:    logger,
	}
}

// AcceptQuoteSaga reserves a rush slot when the quote is a rush order, accepts and persists
// the quote, and publishes the accepted event. maxRushPerDay is the creator's daily rush cap;
// now decides both the rush day and the acceptance time.
func (s *QuoteSagaService) AcceptQuoteSaga(ctx context.Context, q *quote.Quote, maxRushPerDay int, now time.Time) error {
	day := ""
	if q.IsRush() {
		day = rushslot.Day(now)
	}
	reserved := false

	saga := NewSaga("accept_quote", s.logger)

	saga.AddStep(SagaStep{
		Name: "reserve_rush_slot",
		Execute: func(ctx context.Context) error {
			if day == "" {
				return nil
			}
			ok, err := s.slots.Reserve(ctx, q.CreatorID(), day, maxRushPerDay)
			if err != nil {
				return err
			}
			if !ok {
				return quote.NewRushSoldOutError()
			}
			reserved = true
			return nil
		},
		Compensate: func(ctx context.Context) error {
			if !reserved {
				return nil
			}
			return s.slots.Release(ctx, q.CreatorID(), day)
		},
	})

	saga.AddStep(SagaStep{
		Name: "accept_quote",
		Execute: func(ctx context.Context) error {
			if err := q.Accept(day, now); err != nil {
				return err
			}
			q.IncrementVersion()
			return s.repo.Update(ctx, q)
		},
		Compensate: func(ctx context.Context) error {
			if err := q.Cancel("saga compensation: accept quote failed", now); err != nil {
				return err
			}
			q.IncrementVersion()
			return s.repo.Update(ctx, q)
		},
	})

	saga.AddStep(SagaStep{
		Name: "publish_quote_accepted_event",
		Execute: func(ctx context.Context) error {
			b := q.Breakdown()
			event := events.QuoteAcceptedEvent{
				QuoteID:              q.ID(),
				CreatorID:            q.CreatorID(),
				CustomerID:           q.CustomerID(),
				RushDelivery:         q.IsRush(),
				Quantity:             q.Options().Quantity,
				TotalCents:           int64(b.Total),
				PlatformFeeCents:     int64(b.PlatformFee),
				CreatorEarningsCents: int64(b.CreatorEarnings),
				Currency:             b.Currency,
				OccurredAt:           now.UTC(),
			}
			return s.publish(ctx, events.PricingQuoteAccepted, event)
		},
	})

	if err := saga.Execute(ctx); err != nil {
		s.publishFailedEvent(ctx, q.ID(), q.CreatorID(), err.Error(), now)
		return err
	}
	return nil
}

// CancelQuoteSaga cancels and persists the quote, gives back its rush slot if it held one,
// and publishes the cancelled event. Once the cancellation is stored, slot release and
// publish failures are logged rather than returned.
func (s *QuoteSagaService) CancelQuoteSaga(ctx context.Context, q *quote.Quote, reason string, now time.Time) error {
	heldSlot := q.Status() == quote.StatusAccepted && q.RushSlotDay() != ""

	if err := q.Cancel(reason, now); err != nil {
		return err
	}
	q.IncrementVersion()
	if err := s.repo.Update(ctx, q); err != nil {
		return err
	}

	if heldSlot {
		if err := s.slots.Release(ctx, q.CreatorID(), q.RushSlotDay()); err != nil {
			s.logger.Error("failed to release rush slot",
				zap.String("quote_id", q.ID().String()),
				zap.String("day", q.RushSlotDay()),
				zap.Error(err),
			)
		}
	}

	event := events.QuoteCancelledEvent{
		QuoteID:    q.ID(),
		CreatorID:  q.CreatorID(),
		Reason:     reason,
		OccurredAt: now.UTC(),
	}
	if err := s.publish(ctx, events.PricingQuoteCancelled, event); err != nil {
		s.logger.Error("failed to publish quote cancelled event", zap.Error(err))
	}
	return nil
}

func (s *QuoteSagaService) publish(ctx context.Context, eventType string, data interface{}) error {
	cloudEvent, err := kafka.NewCloudEvent(eventSource, eventType, data)
	if err != nil {
		return fmt.Errorf("failed to create cloud event: %w", err)
	}
	return s.publisher.PublishEvent(ctx, events.TopicPricingEvents, cloudEvent)
}

// publishFailedEvent publishes a QuoteFailedEvent to Kafka.
func (s *QuoteSagaService) publishFailedEvent(ctx context.Context, quoteID, creatorID uuid.UUID, reason string, now time.Time) {
	event := events.QuoteFailedEvent{
		QuoteID:    quoteID,
		CreatorID:  creatorID,
		Reason:     reason,
		OccurredAt: now.UTC(),
	}
	if err := s.publish(ctx, events.PricingQuoteFailed, event); err != nil {
		s.logger.Error("failed to publish quote failed event", zap.Error(err))
	}
}
