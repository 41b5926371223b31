package application

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Vidgram-Market/service-pricing/internal/domain/pricing"
	"github.com/Vidgram-Market/service-pricing/internal/platform/domain"
	"github.com/Vidgram-Market/service-pricing/internal/rushslot"
)

func newPricingService() (*PricingService, *memPricingRepo, *memSlots) {
	repo := newMemPricingRepo()
	slots := newMemSlots()
	return NewPricingService(repo, slots, zap.NewNop()), repo, slots
}

func TestPricingService_UpsertCreatesThenUpdates(t *testing.T) {
	svc, _, _ := newPricingService()
	ctx := context.Background()
	creator := uuid.New()

	created, err := svc.UpsertConfig(ctx, creator, validConfig())
	require.NoError(t, err)
	assert.Equal(t, creator, created.CreatorID)
	assert.Equal(t, int64(1), created.Version)

	next := validConfig()
	next.BasePrice.Amount = 150_00
	updated, err := svc.UpsertConfig(ctx, creator, next)
	require.NoError(t, err)
	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, int64(2), updated.Version)
	assert.Equal(t, pricing.Money(150_00), updated.Config.BasePrice.Amount)

	got, err := svc.GetConfig(ctx, creator)
	require.NoError(t, err)
	assert.Equal(t, pricing.Money(150_00), got.Config.BasePrice.Amount)
}

func TestPricingService_UpsertRejectsInvalidConfig(t *testing.T) {
	svc, _, _ := newPricingService()
	cfg := validConfig()
	cfg.BasePrice.Amount = 5_00

	_, err := svc.UpsertConfig(context.Background(), uuid.New(), cfg)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrValidation))

	var cfgErr *pricing.ConfigError
	require.True(t, errors.As(err, &cfgErr))
	assert.NotEmpty(t, cfgErr.Failures)
}

func TestPricingService_GetConfigNotFound(t *testing.T) {
	svc, _, _ := newPricingService()
	_, err := svc.GetConfig(context.Background(), uuid.New())
	assert.True(t, domain.IsNotFound(err))
}

func TestPricingService_ValidateConfig(t *testing.T) {
	svc, _, _ := newPricingService()

	ok := svc.ValidateConfig(validConfig())
	assert.True(t, ok.Valid)
	assert.NotNil(t, ok.Failures)
	assert.Empty(t, ok.Failures)

	bad := validConfig()
	bad.RushDelivery.SurchargePercent = 5
	report := svc.ValidateConfig(bad)
	assert.False(t, report.Valid)
	require.Len(t, report.Failures, 1)
	assert.Equal(t, "rush_surcharge", report.Failures[0].Field)
}

func TestPricingService_RushAvailability(t *testing.T) {
	svc, _, slots := newPricingService()
	ctx := context.Background()
	creator := uuid.New()
	_, err := svc.UpsertConfig(ctx, creator, validConfig())
	require.NoError(t, err)

	avail, err := svc.RushAvailability(ctx, creator)
	require.NoError(t, err)
	assert.True(t, avail.Available)
	assert.Equal(t, 2, avail.SlotsRemaining)

	ok, _ := slots.Reserve(ctx, creator, avail.Day, 2)
	require.True(t, ok)
	ok, _ = slots.Reserve(ctx, creator, avail.Day, 2)
	require.True(t, ok)

	avail, err = svc.RushAvailability(ctx, creator)
	require.NoError(t, err)
	assert.False(t, avail.Available)
	assert.Equal(t, "Rush delivery is sold out for today", avail.Message)
	assert.Equal(t, rushslot.Day(svc.now()), avail.Day)
}

func TestPricingService_OptimalPrice(t *testing.T) {
	svc, _, _ := newPricingService()
	ctx := context.Background()
	creator := uuid.New()
	_, err := svc.UpsertConfig(ctx, creator, validConfig())
	require.NoError(t, err)

	got, err := svc.OptimalPrice(ctx, OptimalPriceRequest{
		CreatorID: creator,
		HistoricalData: pricing.HistoricalData{
			PricePoints: []pricing.PricePoint{
				{Price: 80_00, ConversionRate: 0.5},
				{Price: 120_00, ConversionRate: 0.4},
			},
			CategoryAverage: 100_00,
		},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(120_00), got.PriceCents)
	assert.Equal(t, "$120", got.Formatted)

	_, err = svc.OptimalPrice(ctx, OptimalPriceRequest{CreatorID: uuid.New()})
	assert.True(t, domain.IsNotFound(err))
}

func TestPricingService_PsychologicalPrice(t *testing.T) {
	svc, _, _ := newPricingService()

	got := svc.PsychologicalPrice(PsychologicalPriceRequest{PriceCents: 46_50})
	assert.Equal(t, int64(45_99), got.PriceCents)
	assert.Equal(t, "USD", got.Currency)
	assert.Equal(t, "$45.99", got.Formatted)
}

func TestPricingService_Messages(t *testing.T) {
	svc, _, _ := newPricingService()
	two := 2

	got := svc.Messages(MessagesRequest{
		PriceCents:           90_00,
		CategoryAverageCents: 100_00,
		SlotsRemaining:       &two,
		TotalBookings:        150,
	})
	assert.Equal(t, "Priced below the category average", got.Pricing)
	assert.Contains(t, got.Urgency, "Only 2")
	assert.Equal(t, "150 videos delivered", got.SocialProof)

	none := svc.Messages(MessagesRequest{PriceCents: 90_00, CategoryAverageCents: 100_00})
	assert.Empty(t, none.Urgency)
}

func TestPricingService_FormatPrice(t *testing.T) {
	svc, _, _ := newPricingService()
	assert.Equal(t, "$1,234.5", svc.FormatPrice(1234_50, "USD").Formatted)
}
