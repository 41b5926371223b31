package application

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Vidgram-Market/service-pricing/internal/domain/pricing"
	"github.com/Vidgram-Market/service-pricing/internal/domain/quote"
	"github.com/Vidgram-Market/service-pricing/internal/platform/domain"
	"github.com/Vidgram-Market/service-pricing/internal/platform/kafka"
)

type memPricingRepo struct {
	mu   sync.Mutex
	byID map[uuid.UUID]*pricing.CreatorPricing
}

func newMemPricingRepo() *memPricingRepo {
	return &memPricingRepo{byID: map[uuid.UUID]*pricing.CreatorPricing{}}
}

func (r *memPricingRepo) FindByCreatorID(_ context.Context, creatorID uuid.UUID) (*pricing.CreatorPricing, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.byID[creatorID]
	if !ok {
		return nil, domain.NewNotFoundError("CreatorPricing", creatorID.String())
	}
	return p, nil
}

func (r *memPricingRepo) Save(_ context.Context, p *pricing.CreatorPricing) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[p.CreatorID()]; ok {
		return domain.NewConflictError("pricing already exists for creator")
	}
	r.byID[p.CreatorID()] = p
	return nil
}

func (r *memPricingRepo) Update(_ context.Context, p *pricing.CreatorPricing) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byID[p.CreatorID()] = p
	return nil
}

type memQuoteRepo struct {
	mu     sync.Mutex
	quotes map[uuid.UUID]*quote.Quote
}

func newMemQuoteRepo() *memQuoteRepo {
	return &memQuoteRepo{quotes: map[uuid.UUID]*quote.Quote{}}
}

func (r *memQuoteRepo) FindByID(_ context.Context, id uuid.UUID) (*quote.Quote, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	q, ok := r.quotes[id]
	if !ok {
		return nil, domain.NewNotFoundError("Quote", id.String())
	}
	return q, nil
}

func (r *memQuoteRepo) ListAll(_ context.Context, page, limit int) ([]*quote.Quote, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	all := make([]*quote.Quote, 0, len(r.quotes))
	for _, q := range r.quotes {
		all = append(all, q)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt().After(all[j].CreatedAt()) })

	start := (page - 1) * limit
	if start > len(all) {
		start = len(all)
	}
	end := start + limit
	if end > len(all) {
		end = len(all)
	}
	return all[start:end], int64(len(all)), nil
}

func (r *memQuoteRepo) GetStats(_ context.Context) (*quote.Stats, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	stats := &quote.Stats{CountByStatus: map[string]int64{}}
	for _, q := range r.quotes {
		stats.CountByStatus[string(q.Status())]++
		if q.Status() == quote.StatusAccepted {
			b := q.Breakdown()
			stats.AcceptedTotalCents += int64(b.Total)
			stats.PlatformFeeCents += int64(b.PlatformFee)
			stats.CreatorEarningsCents += int64(b.CreatorEarnings)
		}
	}
	return stats, nil
}

func (r *memQuoteRepo) Save(_ context.Context, q *quote.Quote) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.quotes[q.ID()] = q
	return nil
}

func (r *memQuoteRepo) Update(_ context.Context, q *quote.Quote) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.quotes[q.ID()] = q
	return nil
}

type memSlots struct {
	mu    sync.Mutex
	taken map[string]int
}

func newMemSlots() *memSlots {
	return &memSlots{taken: map[string]int{}}
}

func (m *memSlots) Count(_ context.Context, creatorID uuid.UUID, day string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.taken[creatorID.String()+":"+day], nil
}

func (m *memSlots) Reserve(_ context.Context, creatorID uuid.UUID, day string, max int) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := creatorID.String() + ":" + day
	if m.taken[key] >= max {
		return false, nil
	}
	m.taken[key]++
	return true, nil
}

func (m *memSlots) Release(_ context.Context, creatorID uuid.UUID, day string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := creatorID.String() + ":" + day
	if m.taken[key] > 0 {
		m.taken[key]--
	}
	return nil
}

type recordingPublisher struct {
	mu    sync.Mutex
	types []string
}

func (p *recordingPublisher) PublishEvent(_ context.Context, _ string, ce kafka.CloudEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.types = append(p.types, ce.Type)
	return nil
}

func validConfig() pricing.PricingConfig {
	return pricing.PricingConfig{
		BasePrice: pricing.BasePrice{Amount: 100_00, Currency: "USD", Min: 20_00, Max: 5000_00},
		RushDelivery: pricing.RushDelivery{
			Enabled:           true,
			SurchargeType:     pricing.SurchargePercentage,
			SurchargePercent:  50,
			DeliveryTimeHours: 24,
			MaxOrdersPerDay:   2,
		},
		Bundles: []pricing.Bundle{{Quantity: 3, DiscountPercent: 10, Enabled: true}},
		Promotion: &pricing.Promotion{
			Enabled:         true,
			DiscountPercent: 15,
			ValidUntil:      time.Now().Add(72 * time.Hour),
		},
	}
}
