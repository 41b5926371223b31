package events

import (
	"context"
	"errors"
	"strings"

	"github.com/cenkalti/backoff/v4"
	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/Vidgram-Market/service-pricing/internal/platform/domain"
	"github.com/Vidgram-Market/service-pricing/internal/platform/events"
	"github.com/Vidgram-Market/service-pricing/internal/platform/kafka"
)

// BookingCancelledHandler reacts to a booking being cancelled.
type BookingCancelledHandler interface {
	HandleBookingCancelled(ctx context.Context, event events.BookingCancelledEvent) error
}

// BookingEventConsumer listens to booking events and returns rush capacity for cancelled bookings.
type BookingEventConsumer struct {
	consumer *kafka.Consumer
	quotes   BookingCancelledHandler
	logger   *zap.Logger
}

// NewBookingEventConsumer creates a new consumer for booking events.
func NewBookingEventConsumer(
	brokers []string,
	groupID string,
	quotes BookingCancelledHandler,
	logger *zap.Logger,
) *BookingEventConsumer {
	return &BookingEventConsumer{
		consumer: kafka.NewConsumer(brokers, groupID, events.TopicBookingEvents, logger),
		quotes:   quotes,
		logger:   logger,
	}
}

// Start begins consuming booking events. It blocks until the context is cancelled.
func (c *BookingEventConsumer) Start(ctx context.Context) error {
	return c.consumer.Consume(ctx, c.handleMessage)
}

// handleMessage routes incoming Kafka messages to the appropriate handler.
func (c *BookingEventConsumer) handleMessage(ctx context.Context, msg kafkago.Message) error {
	cloudEvent, err := kafka.ParseCloudEvent(msg.Value)
	if err != nil {
		c.logger.Error("failed to parse cloud event from booking topic",
			zap.Error(err),
			zap.String("raw", string(msg.Value)),
		)
		return backoff.Permanent(err)
	}

	switch {
	case strings.EqualFold(cloudEvent.Type, events.BookingCancelled):
		return c.handleBookingCancelled(ctx, cloudEvent)

	default:
		c.logger.Debug("ignoring unhandled booking event type",
			zap.String("type", cloudEvent.Type),
		)
		return nil
	}
}

// handleBookingCancelled processes a BookingCancelledEvent.
func (c *BookingEventConsumer) handleBookingCancelled(ctx context.Context, ce kafka.CloudEvent) error {
	var event events.BookingCancelledEvent
	if err := ce.ParseData(&event); err != nil {
		c.logger.Error("failed to parse BookingCancelledEvent data", zap.Error(err))
		return backoff.Permanent(err)
	}

	err := c.quotes.HandleBookingCancelled(ctx, event)
	if errors.Is(err, domain.ErrInvalidState) || errors.Is(err, domain.ErrValidation) {
		return backoff.Permanent(err)
	}
	return err
}

// Close closes the underlying Kafka consumer.
func (c *BookingEventConsumer) Close() error {
	return c.consumer.Close()
}
