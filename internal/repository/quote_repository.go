package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Vidgram-Market/service-pricing/internal/domain/pricing"
	quoteDomain "github.com/Vidgram-Market/service-pricing/internal/domain/quote"
	"github.com/Vidgram-Market/service-pricing/internal/platform/domain"
)

// QuoteModel is the GORM persistence model for the quotes table.
type QuoteModel struct {
	ID                   uuid.UUID              `gorm:"type:uuid;primaryKey"`
	CreatorID            uuid.UUID              `gorm:"type:uuid;index;not null"`
	CustomerID           uuid.UUID              `gorm:"type:uuid;index;not null"`
	Status               string                 `gorm:"type:varchar(20);index;not null;default:'pending'"`
	Options              pricing.BookingOptions `gorm:"type:jsonb;serializer:json;not null"`
	DemandLevel          string                 `gorm:"type:varchar(10)"`
	Breakdown            pricing.Breakdown      `gorm:"type:jsonb;serializer:json;not null"`
	TotalCents           int64                  `gorm:"not null"`
	PlatformFeeCents     int64                  `gorm:"not null"`
	CreatorEarningsCents int64                  `gorm:"not null"`
	Currency             string                 `gorm:"type:varchar(3);not null"`
	RushSlotDay          string                 `gorm:"type:varchar(10)"`
	ExpiresAt            time.Time              `gorm:"type:timestamptz;not null"`
	AcceptedAt           *time.Time             `gorm:"type:timestamptz"`
	CancelledAt          *time.Time             `gorm:"type:timestamptz"`
	CancelReason         string                 `gorm:"type:text"`
	Version              int64                  `gorm:"not null;default:1"`
	CreatedAt            time.Time              `gorm:"type:timestamptz;not null;default:now()"`
	UpdatedAt            time.Time              `gorm:"type:timestamptz;not null;default:now()"`
}

// TableName specifies the table name for GORM.
func (QuoteModel) TableName() string {
	return "quotes"
}

// QuoteRepositoryImpl is the GORM-based implementation of QuoteRepository.
type QuoteRepositoryImpl struct {
	db *gorm.DB
}

// NewQuoteRepository creates a new GORM-based quote repository.
func NewQuoteRepository(db *gorm.DB) *QuoteRepositoryImpl {
	return &QuoteRepositoryImpl{db: db}
}

// FindByID retrieves a quote by its unique ID.
func (r *QuoteRepositoryImpl) FindByID(ctx context.Context, id uuid.UUID) (*quoteDomain.Quote, error) {
	var model QuoteModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError("Quote", id.String())
		}
		return nil, err
	}
	return toQuoteDomain(&model), nil
}

// Save persists a new quote aggregate.
func (r *QuoteRepositoryImpl) Save(ctx context.Context, q *quoteDomain.Quote) error {
	return r.db.WithContext(ctx).Create(toQuoteModel(q)).Error
}

// Update persists changes to an existing quote with optimistic locking.
func (r *QuoteRepositoryImpl) Update(ctx context.Context, q *quoteDomain.Quote) error {
	model := toQuoteModel(q)
	previousVersion := q.Version() - 1

	result := r.db.WithContext(ctx).
		Model(&QuoteModel{}).
		Where("id = ? AND version = ?", model.ID, previousVersion).
		Updates(model)

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.NewConflictError("quote was modified by another transaction")
	}
	return nil
}

// ListAll retrieves all quotes newest first with pagination (admin).
func (r *QuoteRepositoryImpl) ListAll(ctx context.Context, page, limit int) ([]*quoteDomain.Quote, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&QuoteModel{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var models []QuoteModel
	offset := (page - 1) * limit
	if err := r.db.WithContext(ctx).Order("created_at DESC").Offset(offset).Limit(limit).Find(&models).Error; err != nil {
		return nil, 0, err
	}

	quotes := make([]*quoteDomain.Quote, len(models))
	for i := range models {
		quotes[i] = toQuoteDomain(&models[i])
	}
	return quotes, total, nil
}

// GetStats returns totals over accepted quotes and counts per status (admin).
func (r *QuoteRepositoryImpl) GetStats(ctx context.Context) (*quoteDomain.Stats, error) {
	var totals struct {
		Total           int64
		PlatformFee     int64
		CreatorEarnings int64
	}
	if err := r.db.WithContext(ctx).Model(&QuoteModel{}).
		Where("status = ?", string(quoteDomain.StatusAccepted)).
		Select("COALESCE(SUM(total_cents), 0) AS total, " +
			"COALESCE(SUM(platform_fee_cents), 0) AS platform_fee, " +
			"COALESCE(SUM(creator_earnings_cents), 0) AS creator_earnings").
		Scan(&totals).Error; err != nil {
		return nil, err
	}

	type statusCount struct {
		Status string
		Count  int64
	}
	var results []statusCount
	if err := r.db.WithContext(ctx).Model(&QuoteModel{}).
		Select("status, count(*) as count").
		Group("status").
		Find(&results).Error; err != nil {
		return nil, err
	}

	counts := make(map[string]int64)
	for _, sc := range results {
		counts[sc.Status] = sc.Count
	}
	return &quoteDomain.Stats{
		AcceptedTotalCents:   totals.Total,
		PlatformFeeCents:     totals.PlatformFee,
		CreatorEarningsCents: totals.CreatorEarnings,
		CountByStatus:        counts,
	}, nil
}

// toQuoteDomain maps a QuoteModel to the domain Quote aggregate.
func toQuoteDomain(m *QuoteModel) *quoteDomain.Quote {
	return quoteDomain.Reconstitute(
		m.ID,
		m.CreatorID,
		m.CustomerID,
		m.Options,
		pricing.DemandLevel(m.DemandLevel),
		m.Breakdown,
		quoteDomain.Status(m.Status),
		m.RushSlotDay,
		m.ExpiresAt,
		m.AcceptedAt,
		m.CancelledAt,
		m.CancelReason,
		m.Version,
		m.CreatedAt,
		m.UpdatedAt,
	)
}

// toQuoteModel maps a domain Quote aggregate to a QuoteModel for persistence.
func toQuoteModel(q *quoteDomain.Quote) *QuoteModel {
	b := q.Breakdown()
	return &QuoteModel{
		ID:                   q.ID(),
		CreatorID:            q.CreatorID(),
		CustomerID:           q.CustomerID(),
		Status:               string(q.Status()),
		Options:              q.Options(),
		DemandLevel:          string(q.DemandLevel()),
		Breakdown:            b,
		TotalCents:           int64(b.Total),
		PlatformFeeCents:     int64(b.PlatformFee),
		CreatorEarningsCents: int64(b.CreatorEarnings),
		Currency:             b.Currency,
		RushSlotDay:          q.RushSlotDay(),
		ExpiresAt:            q.ExpiresAt(),
		AcceptedAt:           q.AcceptedAt(),
		CancelledAt:          q.CancelledAt(),
		CancelReason:         q.CancelReason(),
		Version:              q.Version(),
		CreatedAt:            q.CreatedAt(),
		UpdatedAt:            q.UpdatedAt(),
	}
}
