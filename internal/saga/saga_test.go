package saga

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Vidgram-Market/service-pricing/internal/domain/pricing"
	"github.com/Vidgram-Market/service-pricing/internal/domain/quote"
	"github.com/Vidgram-Market/service-pricing/internal/platform/domain"
	"github.com/Vidgram-Market/service-pricing/internal/platform/events"
	"github.com/Vidgram-Market/service-pricing/internal/platform/kafka"
)

type memQuoteRepo struct {
	mu        sync.Mutex
	quotes    map[uuid.UUID]*quote.Quote
	updateErr error
	updates   int
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

func (r *memQuoteRepo) ListAll(context.Context, int, int) ([]*quote.Quote, int64, error) {
	return nil, 0, nil
}

func (r *memQuoteRepo) GetStats(context.Context) (*quote.Stats, error) {
	return &quote.Stats{}, nil
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
	r.updates++
	if r.updateErr != nil {
		return r.updateErr
	}
	r.quotes[q.ID()] = q
	return nil
}

type fakeSlots struct {
	taken    map[string]int
	released int
}

func (f *fakeSlots) Reserve(_ context.Context, creatorID uuid.UUID, day string, max int) (bool, error) {
	key := creatorID.String() + day
	if f.taken[key] >= max {
		return false, nil
	}
	f.taken[key]++
	return true, nil
}

func (f *fakeSlots) Release(_ context.Context, creatorID uuid.UUID, day string) error {
	key := creatorID.String() + day
	if f.taken[key] > 0 {
		f.taken[key]--
	}
	f.released++
	return nil
}

type fakePublisher struct {
	types []string
	fail  map[string]error
}

func (p *fakePublisher) PublishEvent(_ context.Context, topic string, ce kafka.CloudEvent) error {
	if err := p.fail[ce.Type]; err != nil {
		return err
	}
	p.types = append(p.types, ce.Type)
	return nil
}

var testNow = time.Date(2026, 10, 16, 12, 0, 0, 0, time.UTC)

func newService(repo *memQuoteRepo, slots *fakeSlots, pub *fakePublisher) *QuoteSagaService {
	return NewQuoteSagaService(repo, slots, pub, zap.NewNop())
}

func rushQuote(creatorID uuid.UUID) *quote.Quote {
	return quote.NewQuote(creatorID, uuid.New(),
		pricing.BookingOptions{Quantity: 1, RushDelivery: true}, "",
		pricing.Breakdown{BasePrice: 100_00, RushSurcharge: 50_00, Total: 150_00, Currency: "USD"},
		time.Minute, testNow)
}

func TestSaga_CompensatesInReverseOrder(t *testing.T) {
	var order []string
	s := NewSaga("test", zap.NewNop())
	for _, name := range []string{"a", "b"} {
		name := name
		s.AddStep(SagaStep{
			Name:       name,
			Execute:    func(context.Context) error { order = append(order, "exec "+name); return nil },
			Compensate: func(context.Context) error { order = append(order, "undo "+name); return nil },
		})
	}
	boom := errors.New("boom")
	s.AddStep(SagaStep{Name: "c", Execute: func(context.Context) error { return boom }})

	err := s.Execute(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, boom))
	assert.Equal(t, []string{"exec a", "exec b", "undo b", "undo a"}, order)
}

func TestAcceptQuoteSaga_Rush(t *testing.T) {
	repo := newMemQuoteRepo()
	slots := &fakeSlots{taken: map[string]int{}}
	pub := &fakePublisher{}
	svc := newService(repo, slots, pub)

	q := rushQuote(uuid.New())
	require.NoError(t, repo.Save(context.Background(), q))

	require.NoError(t, svc.AcceptQuoteSaga(context.Background(), q, 2, testNow))
	assert.Equal(t, quote.StatusAccepted, q.Status())
	assert.Equal(t, "2026-10-16", q.RushSlotDay())
	assert.Equal(t, int64(2), q.Version())
	assert.Equal(t, 1, slots.taken[q.CreatorID().String()+"2026-10-16"])
	assert.Equal(t, []string{events.PricingQuoteAccepted}, pub.types)
}

func TestAcceptQuoteSaga_SoldOut(t *testing.T) {
	repo := newMemQuoteRepo()
	creator := uuid.New()
	slots := &fakeSlots{taken: map[string]int{creator.String() + "2026-10-16": 1}}
	pub := &fakePublisher{}
	svc := newService(repo, slots, pub)

	q := rushQuote(creator)
	err := svc.AcceptQuoteSaga(context.Background(), q, 1, testNow)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrConflict))

	var domErr *domain.DomainError
	require.True(t, errors.As(err, &domErr))
	assert.Equal(t, "RUSH_SOLD_OUT", domErr.Code)

	assert.Equal(t, quote.StatusPending, q.Status())
	assert.Equal(t, 0, repo.updates)
	assert.Equal(t, []string{events.PricingQuoteFailed}, pub.types)
}

func TestAcceptQuoteSaga_PersistFailureReleasesSlot(t *testing.T) {
	repo := newMemQuoteRepo()
	repo.updateErr = domain.NewConflictError("quote was modified by another transaction")
	slots := &fakeSlots{taken: map[string]int{}}
	pub := &fakePublisher{}
	svc := newService(repo, slots, pub)

	q := rushQuote(uuid.New())
	err := svc.AcceptQuoteSaga(context.Background(), q, 3, testNow)
	require.Error(t, err)
	assert.Equal(t, 1, slots.released)
	assert.Equal(t, 0, slots.taken[q.CreatorID().String()+"2026-10-16"])
}

func TestAcceptQuoteSaga_PublishFailureCancelsQuote(t *testing.T) {
	repo := newMemQuoteRepo()
	slots := &fakeSlots{taken: map[string]int{}}
	pub := &fakePublisher{fail: map[string]error{events.PricingQuoteAccepted: errors.New("broker down")}}
	svc := newService(repo, slots, pub)

	q := rushQuote(uuid.New())
	require.NoError(t, repo.Save(context.Background(), q))

	err := svc.AcceptQuoteSaga(context.Background(), q, 3, testNow)
	require.Error(t, err)
	assert.Equal(t, quote.StatusCancelled, q.Status())
	assert.Equal(t, 1, slots.released)
	assert.Equal(t, []string{events.PricingQuoteFailed}, pub.types)
}

func TestAcceptQuoteSaga_StandardSkipsSlots(t *testing.T) {
	repo := newMemQuoteRepo()
	slots := &fakeSlots{taken: map[string]int{}}
	pub := &fakePublisher{}
	svc := newService(repo, slots, pub)

	q := quote.NewQuote(uuid.New(), uuid.New(), pricing.BookingOptions{Quantity: 1}, "",
		pricing.Breakdown{BasePrice: 100_00, Total: 100_00}, time.Minute, testNow)

	require.NoError(t, svc.AcceptQuoteSaga(context.Background(), q, 0, testNow))
	assert.Equal(t, quote.StatusAccepted, q.Status())
	assert.Empty(t, q.RushSlotDay())
	assert.Empty(t, slots.taken)
}

func TestCancelQuoteSaga_ReleasesHeldSlot(t *testing.T) {
	repo := newMemQuoteRepo()
	slots := &fakeSlots{taken: map[string]int{}}
	pub := &fakePublisher{}
	svc := newService(repo, slots, pub)

	q := rushQuote(uuid.New())
	require.NoError(t, svc.AcceptQuoteSaga(context.Background(), q, 1, testNow))

	require.NoError(t, svc.CancelQuoteSaga(context.Background(), q, "booking cancelled", testNow))
	assert.Equal(t, quote.StatusCancelled, q.Status())
	assert.Equal(t, 1, slots.released)
	assert.Equal(t, []string{events.PricingQuoteAccepted, events.PricingQuoteCancelled}, pub.types)

	err := svc.CancelQuoteSaga(context.Background(), q, "again", testNow)
	assert.True(t, errors.Is(err, domain.ErrInvalidState))
}

func TestCancelQuoteSaga_PendingHoldsNoSlot(t *testing.T) {
	repo := newMemQuoteRepo()
	slots := &fakeSlots{taken: map[string]int{}}
	svc := newService(repo, slots, &fakePublisher{})

	q := rushQuote(uuid.New())
	require.NoError(t, svc.CancelQuoteSaga(context.Background(), q, "changed mind", testNow))
	assert.Equal(t, 0, slots.released)
}
