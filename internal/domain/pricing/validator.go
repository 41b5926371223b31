package pricing

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Platform-wide bounds for creator pricing, in major units or percentage points.
const (
	MinBasePrice            = 20.0
	MaxBasePrice            = 5000.0
	MinRushSurchargePercent = 10.0
	MaxRushSurchargePercent = 100.0
	MinRushSurchargeFixed   = 10.0
	MaxRushSurchargeFixed   = 500.0

	// SurchargeDecimalPlaces is the precision stored for rush surcharges.
	SurchargeDecimalPlaces = 2
)

// ValidationResult is the outcome of a single check. Message is set only when Valid is false.
type ValidationResult struct {
	Valid   bool   `json:"valid"`
	Field   string `json:"field,omitempty"`
	Message string `json:"message,omitempty"`
}

func valid(field string) ValidationResult {
	return ValidationResult{Valid: true, Field: field}
}

func invalid(field, format string, args ...interface{}) ValidationResult {
	return ValidationResult{Field: field, Message: fmt.Sprintf(format, args...)}
}

// ValidateBasePrice checks a base price entered in major units.
func ValidateBasePrice(price float64) ValidationResult {
	if price < MinBasePrice {
		return invalid("base_price", "Minimum price is $%g", MinBasePrice)
	}
	if price > MaxBasePrice {
		return invalid("base_price", "Maximum price is $%g", MaxBasePrice)
	}
	return valid("base_price")
}

// ValidateRushSurcharge checks a surcharge entered as percentage points or, for fixed
// surcharges, major units.
func ValidateRushSurcharge(surcharge float64, t SurchargeType) ValidationResult {
	switch t {
	case SurchargePercentage:
		if surcharge < MinRushSurchargePercent || surcharge > MaxRushSurchargePercent {
			return invalid("rush_surcharge", "Rush surcharge must be between %g%% and %g%%",
				MinRushSurchargePercent, MaxRushSurchargePercent)
		}
	case SurchargeFixed:
		if surcharge < MinRushSurchargeFixed || surcharge > MaxRushSurchargeFixed {
			return invalid("rush_surcharge", "Rush surcharge must be between $%g and $%g",
				MinRushSurchargeFixed, MaxRushSurchargeFixed)
		}
	default:
		return invalid("rush_surcharge_type", "Unknown surcharge type %q", t)
	}
	if d := decimal.NewFromFloat(surcharge); !d.Round(SurchargeDecimalPlaces).Equal(d) {
		return invalid("rush_surcharge", "Rush surcharge can have at most %d decimal places", SurchargeDecimalPlaces)
	}
	return valid("rush_surcharge")
}

// ValidateConfig runs every rule over cfg and returns the failures. An empty result means
// the configuration may be saved.
func ValidateConfig(cfg PricingConfig) []ValidationResult {
	var failures []ValidationResult
	add := func(r ValidationResult) {
		if !r.Valid {
			failures = append(failures, r)
		}
	}

	bp := cfg.BasePrice
	add(ValidateBasePrice(bp.Amount.Major()))
	if bp.Currency == "" {
		add(invalid("currency", "Currency is required"))
	}
	if bp.Min > bp.Max {
		add(invalid("base_price_range", "Minimum price cannot exceed maximum price"))
	} else if bp.Amount < bp.Min || bp.Amount > bp.Max {
		add(invalid("base_price_range", "Price must be between %s and %s",
			FormatPrice(bp.Min, bp.Currency), FormatPrice(bp.Max, bp.Currency)))
	}

	if rd := cfg.RushDelivery; rd.Enabled {
		add(ValidateRushSurcharge(rd.Surcharge(), rd.SurchargeType))
		if rd.MaxOrdersPerDay < 1 {
			add(invalid("rush_max_orders_per_day", "Rush delivery needs at least one order per day"))
		}
		if rd.DeliveryTimeHours < 1 {
			add(invalid("rush_delivery_time_hours", "Rush delivery time must be at least one hour"))
		}
	}

	for i, b := range cfg.Bundles {
		if b.Quantity < 2 {
			add(invalid(fmt.Sprintf("bundles[%d].quantity", i), "Bundles need at least 2 videos"))
		}
		if b.DiscountPercent <= 0 || b.DiscountPercent > 100 {
			add(invalid(fmt.Sprintf("bundles[%d].discount_percent", i), "Bundle discount must be between 0%% and 100%%"))
		}
	}

	if p := cfg.Promotion; p != nil && p.Enabled {
		if p.DiscountPercent <= 0 || p.DiscountPercent > 100 {
			add(invalid("promotion.discount_percent", "Promotion discount must be between 0%% and 100%%"))
		}
		if p.ValidUntil.IsZero() {
			add(invalid("promotion.valid_until", "Promotion needs an end date"))
		}
	}

	return failures
}
