package pricing

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

const (
	// PlatformFeePercent is the platform's cut of every booking subtotal.
	PlatformFeePercent = 20.0

	firstTimeDiscountPercent = 10.0
	giftDiscountPercent      = 5.0
)

// Engine prices bookings against one creator's configuration. It holds no mutable state
// and is safe for concurrent use.
type Engine struct {
	cfg PricingConfig
	now func() time.Time
}

// EngineOption customizes an Engine.
type EngineOption func(*Engine)

// WithClock fixes the time source used to check promotion expiry.
func WithClock(now func() time.Time) EngineOption {
	return func(e *Engine) {
		e.now = now
	}
}

// NewEngine binds an engine to a private copy of cfg.
func NewEngine(cfg PricingConfig, opts ...EngineOption) *Engine {
	e := &Engine{cfg: cfg.Clone(), now: time.Now}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Config returns a copy of the bound configuration.
func (e *Engine) Config() PricingConfig {
	return e.cfg.Clone()
}

// CalculateTotal prices a booking. uctx may be nil. Inputs are not range checked;
// callers validate configuration with ValidateConfig and quantities upstream.
func (e *Engine) CalculateTotal(opts BookingOptions, uctx *UserContext, demand DemandLevel) Breakdown {
	base := e.cfg.BasePrice.Amount * Money(opts.Quantity)
	rush := e.rushSurcharge(base, opts, demand)
	bundle := e.bundleDiscount(base, opts.Quantity)
	promo := e.promoDiscount(base+rush, opts, uctx)

	subtotal := base + rush - bundle - promo
	fee := applyPercent(subtotal, PlatformFeePercent)

	return Breakdown{
		BasePrice:       base,
		RushSurcharge:   rush,
		BundleDiscount:  bundle,
		PromoDiscount:   promo,
		Subtotal:        subtotal,
		PlatformFee:     fee,
		CreatorEarnings: subtotal - fee,
		Total:           subtotal,
		Savings:         bundle + promo,
		OriginalTotal:   base + rush,
		Currency:        e.cfg.BasePrice.Currency,
	}
}

func (e *Engine) rushSurcharge(base Money, opts BookingOptions, demand DemandLevel) Money {
	rd := e.cfg.RushDelivery
	if !opts.RushDelivery || !rd.Enabled {
		return 0
	}

	var cents decimal.Decimal
	if rd.SurchargeType == SurchargePercentage {
		cents = decimal.NewFromInt(int64(base)).Mul(decimal.NewFromFloat(rd.SurchargePercent)).Div(hundred)
	} else {
		cents = decimal.NewFromInt(int64(rd.SurchargeAmount) * int64(opts.Quantity))
	}
	return fromCentsDecimal(cents.Mul(demand.Factor()))
}

// bundleDiscount applies the enabled tier with the largest threshold not above quantity.
func (e *Engine) bundleDiscount(base Money, quantity int) Money {
	if len(e.cfg.Bundles) == 0 || quantity == 1 {
		return 0
	}

	var best *Bundle
	for i := range e.cfg.Bundles {
		b := &e.cfg.Bundles[i]
		if !b.Enabled || b.Quantity > quantity {
			continue
		}
		if best == nil || b.Quantity > best.Quantity {
			best = b
		}
	}
	if best == nil {
		return 0
	}
	return applyPercent(base, best.DiscountPercent)
}

// promoDiscount applies exactly one of: active promotion, first-time, gift.
func (e *Engine) promoDiscount(gross Money, opts BookingOptions, uctx *UserContext) Money {
	firstTime := uctx != nil && uctx.IsFirstTime

	if p := e.cfg.Promotion; p != nil && p.Enabled && e.now().Before(p.ValidUntil) && (!p.FirstTimeOnly || firstTime) {
		return applyPercent(gross, p.DiscountPercent)
	}
	if firstTime {
		return applyPercent(gross, firstTimeDiscountPercent)
	}
	if opts.IsGift {
		return applyPercent(gross, giftDiscountPercent)
	}
	return 0
}

// RushAvailability describes today's remaining rush capacity.
type RushAvailability struct {
	Available      bool   `json:"available"`
	SlotsRemaining int    `json:"slots_remaining"`
	Message        string `json:"message"`
}

// RushAvailability reports capacity given the number of rush orders already taken today.
func (e *Engine) RushAvailability(currentOrdersToday int) RushAvailability {
	if !e.cfg.RushDelivery.Enabled {
		return RushAvailability{Message: "Rush delivery is not offered by this creator"}
	}

	remaining := e.cfg.RushDelivery.MaxOrdersPerDay - currentOrdersToday
	switch {
	case remaining <= 0:
		return RushAvailability{Message: "Rush delivery is sold out for today"}
	case remaining == 1:
		return RushAvailability{Available: true, SlotsRemaining: 1, Message: "Only 1 slot left for rush delivery today"}
	case remaining == 2:
		return RushAvailability{Available: true, SlotsRemaining: 2, Message: "Only 2 slots left for rush delivery today"}
	default:
		return RushAvailability{
			Available:      true,
			SlotsRemaining: remaining,
			Message:        fmt.Sprintf("%d rush delivery slots available today", remaining),
		}
	}
}

// PricePoint is one historical candidate price and the conversion rate it achieved.
type PricePoint struct {
	Price          Money   `json:"price_cents"`
	ConversionRate float64 `json:"conversion_rate"`
}

// HistoricalData feeds OptimalPrice. PricePoints are evaluated in order.
// AverageOrderValue is carried for callers but does not affect the result.
type HistoricalData struct {
	PricePoints       []PricePoint `json:"price_points"`
	AverageOrderValue Money        `json:"average_order_value_cents"`
	CategoryAverage   Money        `json:"category_average_cents"`
}

// OptimalPrice picks the price with the highest price × conversion estimate, the first one
// on ties. Winners above 1.5× the category average are pulled back to 1.3× the average.
// With no positive estimate the configured base price is kept. The result is rounded to a
// whole major unit.
func (e *Engine) OptimalPrice(h HistoricalData) Money {
	optimal := e.cfg.BasePrice.Amount.Decimal()
	maxRevenue := decimal.Zero

	for _, p := range h.PricePoints {
		revenue := p.Price.Decimal().Mul(decimal.NewFromFloat(p.ConversionRate))
		if revenue.GreaterThan(maxRevenue) {
			maxRevenue = revenue
			optimal = p.Price.Decimal()
		}
	}

	avg := h.CategoryAverage.Decimal()
	if optimal.GreaterThan(avg.Mul(decimal.RequireFromString("1.5"))) {
		optimal = avg.Mul(decimal.RequireFromString("1.3"))
	}
	return Money(optimal.Round(0).Mul(hundred).IntPart())
}

// PsychologicalPrice rounds a price down to a charm price. Below 100 it ends in .99,
// below 500 it drops to one under the nearest lower multiple of 5, above that one under the
// nearest lower multiple of 10. The tiers are discontinuous at their boundaries.
func PsychologicalPrice(price Money) Money {
	switch {
	case price < 100_00:
		return floorDiv(price, 100)*100 - 1
	case price < 500_00:
		return floorDiv(price, 500)*500 - 100
	default:
		return floorDiv(price, 1000)*1000 - 100
	}
}
