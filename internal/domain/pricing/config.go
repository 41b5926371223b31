package pricing

import (
	"time"

	"github.com/shopspring/decimal"
)

// SurchargeType selects how a rush surcharge is computed.
type SurchargeType string

const (
	SurchargeFixed      SurchargeType = "fixed"
	SurchargePercentage SurchargeType = "percentage"
)

// DemandLevel is a coarse bucket that scales rush surcharges. The zero value means no demand signal.
type DemandLevel string

const (
	DemandLow    DemandLevel = "low"
	DemandMedium DemandLevel = "medium"
	DemandHigh   DemandLevel = "high"
	DemandPeak   DemandLevel = "peak"
)

// Factor returns the rush surcharge multiplier for the level.
func (d DemandLevel) Factor() decimal.Decimal {
	switch d {
	case DemandPeak:
		return decimal.RequireFromString("1.5")
	case DemandHigh:
		return decimal.RequireFromString("1.25")
	default:
		return decimal.NewFromInt(1)
	}
}

// Valid reports whether d is empty or a known level.
func (d DemandLevel) Valid() bool {
	switch d {
	case "", DemandLow, DemandMedium, DemandHigh, DemandPeak:
		return true
	}
	return false
}

// BasePrice is the creator's unit price and the range it was configured within.
type BasePrice struct {
	Amount   Money  `json:"amount_cents"`
	Currency string `json:"currency"`
	Min      Money  `json:"min_cents"`
	Max      Money  `json:"max_cents"`
}

// RushDelivery configures the expedited tier. SurchargePercent applies to percentage
// surcharges, SurchargeAmount to fixed ones.
type RushDelivery struct {
	Enabled           bool          `json:"enabled"`
	SurchargeType     SurchargeType `json:"surcharge_type"`
	SurchargePercent  float64       `json:"surcharge_percent,omitempty"`
	SurchargeAmount   Money         `json:"surcharge_amount_cents,omitempty"`
	DeliveryTimeHours int           `json:"delivery_time_hours"`
	MaxOrdersPerDay   int           `json:"max_orders_per_day"`
}

// Surcharge returns the configured surcharge in the unit a form would show:
// percentage points, or major currency units for fixed surcharges.
func (r RushDelivery) Surcharge() float64 {
	if r.SurchargeType == SurchargePercentage {
		return r.SurchargePercent
	}
	return r.SurchargeAmount.Major()
}

// Bundle is a minimum-quantity discount tier.
type Bundle struct {
	Quantity        int     `json:"quantity"`
	DiscountPercent float64 `json:"discount_percent"`
	ValidityMonths  int     `json:"validity_months"`
	Enabled         bool    `json:"enabled"`
}

// Promotion is a time-boxed creator discount.
type Promotion struct {
	Enabled         bool      `json:"enabled"`
	DiscountPercent float64   `json:"discount_percent"`
	ValidUntil      time.Time `json:"valid_until"`
	FirstTimeOnly   bool      `json:"first_time_only"`
}

// PricingConfig is one creator's pricing setup. A nil Promotion means none is configured.
type PricingConfig struct {
	BasePrice    BasePrice    `json:"base_price"`
	RushDelivery RushDelivery `json:"rush_delivery"`
	Bundles      []Bundle     `json:"bundles,omitempty"`
	Promotion    *Promotion   `json:"promotion,omitempty"`
}

// Clone returns a deep copy.
func (c PricingConfig) Clone() PricingConfig {
	out := c
	if c.Bundles != nil {
		out.Bundles = append([]Bundle(nil), c.Bundles...)
	}
	if c.Promotion != nil {
		p := *c.Promotion
		out.Promotion = &p
	}
	return out
}

// BookingOptions describe one booking attempt. PromoCode is accepted but not used in pricing.
type BookingOptions struct {
	RushDelivery      bool   `json:"rush_delivery"`
	Quantity          int    `json:"quantity"`
	IsGift            bool   `json:"is_gift"`
	FirstTimeCustomer bool   `json:"first_time_customer"`
	PromoCode         string `json:"promo_code,omitempty"`
}

// UserContext is what the caller knows about the buyer.
type UserContext struct {
	IsFirstTime      bool   `json:"is_first_time"`
	PreviousBookings int    `json:"previous_bookings"`
	GiftPurchase     bool   `json:"gift_purchase"`
	Location         string `json:"location,omitempty"`
	ReferralCode     string `json:"referral_code,omitempty"`
}

// Breakdown is the result of a price calculation.
type Breakdown struct {
	BasePrice       Money  `json:"base_price_cents"`
	RushSurcharge   Money  `json:"rush_surcharge_cents"`
	BundleDiscount  Money  `json:"bundle_discount_cents"`
	PromoDiscount   Money  `json:"promo_discount_cents"`
	Subtotal        Money  `json:"subtotal_cents"`
	PlatformFee     Money  `json:"platform_fee_cents"`
	CreatorEarnings Money  `json:"creator_earnings_cents"`
	Total           Money  `json:"total_cents"`
	Savings         Money  `json:"savings_cents"`
	OriginalTotal   Money  `json:"original_total_cents"`
	Currency        string `json:"currency"`
}
