package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Vidgram-Market/service-pricing/internal/domain/pricing"
	"github.com/Vidgram-Market/service-pricing/internal/platform/domain"
)

// CreatorPricingModel is the GORM persistence model for the creator_pricing table.
type CreatorPricingModel struct {
	ID                    uuid.UUID          `gorm:"type:uuid;primaryKey"`
	CreatorID             uuid.UUID          `gorm:"type:uuid;uniqueIndex;not null"`
	BasePriceCents        int64              `gorm:"not null"`
	Currency              string             `gorm:"type:varchar(3);not null;default:'USD'"`
	MinPriceCents         int64              `gorm:"not null"`
	MaxPriceCents         int64              `gorm:"not null"`
	RushEnabled           bool               `gorm:"not null;default:false"`
	RushSurchargeType     string             `gorm:"type:varchar(20)"`
	RushSurchargePercent  float64            `gorm:"type:numeric(6,2);not null;default:0"`
	RushSurchargeCents    int64              `gorm:"not null;default:0"`
	RushDeliveryTimeHours int                `gorm:"not null;default:0"`
	RushMaxOrdersPerDay   int                `gorm:"not null;default:0"`
	Bundles               []pricing.Bundle   `gorm:"type:jsonb;serializer:json"`
	Promotion             *pricing.Promotion `gorm:"type:jsonb;serializer:json"`
	Version               int64              `gorm:"not null;default:1"`
	CreatedAt             time.Time          `gorm:"type:timestamptz;not null;default:now()"`
	UpdatedAt             time.Time          `gorm:"type:timestamptz;not null;default:now()"`
}

// TableName specifies the table name for GORM.
func (CreatorPricingModel) TableName() string {
	return "creator_pricing"
}

// CreatorPricingRepositoryImpl is the GORM-based implementation of CreatorPricingRepository.
type CreatorPricingRepositoryImpl struct {
	db *gorm.DB
}

// NewCreatorPricingRepository creates a new GORM-based creator pricing repository.
func NewCreatorPricingRepository(db *gorm.DB) *CreatorPricingRepositoryImpl {
	return &CreatorPricingRepositoryImpl{db: db}
}

// FindByCreatorID retrieves the pricing saved by a creator.
func (r *CreatorPricingRepositoryImpl) FindByCreatorID(ctx context.Context, creatorID uuid.UUID) (*pricing.CreatorPricing, error) {
	var model CreatorPricingModel
	if err := r.db.WithContext(ctx).Where("creator_id = ?", creatorID).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError("CreatorPricing", creatorID.String())
		}
		return nil, err
	}
	return toPricingDomain(&model), nil
}

// Save persists a new creator pricing aggregate.
func (r *CreatorPricingRepositoryImpl) Save(ctx context.Context, p *pricing.CreatorPricing) error {
	if err := r.db.WithContext(ctx).Create(toPricingModel(p)).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domain.NewConflictError("pricing already exists for creator")
		}
		return err
	}
	return nil
}

// Update persists changes to an existing creator pricing with optimistic locking.
func (r *CreatorPricingRepositoryImpl) Update(ctx context.Context, p *pricing.CreatorPricing) error {
	model := toPricingModel(p)
	previousVersion := p.Version() - 1

	// Select("*") so zeroed fields such as a disabled rush tier are written too.
	result := r.db.WithContext(ctx).
		Model(&CreatorPricingModel{}).
		Where("id = ? AND version = ?", model.ID, previousVersion).
		Select("*").
		Omit("id", "created_at").
		Updates(model)

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.NewConflictError("creator pricing was modified by another transaction")
	}
	return nil
}

// toPricingDomain maps a CreatorPricingModel to the domain CreatorPricing aggregate.
func toPricingDomain(m *CreatorPricingModel) *pricing.CreatorPricing {
	cfg := pricing.PricingConfig{
		BasePrice: pricing.BasePrice{
			Amount:   pricing.Money(m.BasePriceCents),
			Currency: m.Currency,
			Min:      pricing.Money(m.MinPriceCents),
			Max:      pricing.Money(m.MaxPriceCents),
		},
		RushDelivery: pricing.RushDelivery{
			Enabled:           m.RushEnabled,
			SurchargeType:     pricing.SurchargeType(m.RushSurchargeType),
			SurchargePercent:  m.RushSurchargePercent,
			SurchargeAmount:   pricing.Money(m.RushSurchargeCents),
			DeliveryTimeHours: m.RushDeliveryTimeHours,
			MaxOrdersPerDay:   m.RushMaxOrdersPerDay,
		},
		Bundles:   m.Bundles,
		Promotion: m.Promotion,
	}
	return pricing.Reconstitute(m.ID, m.CreatorID, cfg, m.Version, m.CreatedAt, m.UpdatedAt)
}

// toPricingModel maps a domain CreatorPricing aggregate to a CreatorPricingModel.
func toPricingModel(p *pricing.CreatorPricing) *CreatorPricingModel {
	cfg := p.Config()
	return &CreatorPricingModel{
		ID:                    p.ID(),
		CreatorID:             p.CreatorID(),
		BasePriceCents:        int64(cfg.BasePrice.Amount),
		Currency:              cfg.BasePrice.Currency,
		MinPriceCents:         int64(cfg.BasePrice.Min),
		MaxPriceCents:         int64(cfg.BasePrice.Max),
		RushEnabled:           cfg.RushDelivery.Enabled,
		RushSurchargeType:     string(cfg.RushDelivery.SurchargeType),
		RushSurchargePercent:  cfg.RushDelivery.SurchargePercent,
		RushSurchargeCents:    int64(cfg.RushDelivery.SurchargeAmount),
		RushDeliveryTimeHours: cfg.RushDelivery.DeliveryTimeHours,
		RushMaxOrdersPerDay:   cfg.RushDelivery.MaxOrdersPerDay,
		Bundles:               cfg.Bundles,
		Promotion:             cfg.Promotion,
		Version:               p.Version(),
		CreatedAt:             p.CreatedAt(),
		UpdatedAt:             p.UpdatedAt(),
	}
}
