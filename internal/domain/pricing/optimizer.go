package pricing

import (
	"fmt"
	"math"
)

// PricingMessage picks the headline shown next to a price. First match wins:
// first-time buyer, gift, well below, below, near, well above the category average.
func PricingMessage(price, categoryAverage Money, uctx *UserContext) string {
	if uctx != nil && uctx.IsFirstTime {
		return "Welcome! Enjoy 10% off your first video"
	}
	if uctx != nil && uctx.GiftPurchase {
		return "Make their day with a personalized video gift"
	}

	var diff float64
	if categoryAverage != 0 {
		diff = float64(price-categoryAverage) / float64(categoryAverage) * 100
	}
	switch {
	case diff < -20:
		return fmt.Sprintf("Great value: %.0f%% below similar creators", math.Abs(diff))
	case diff < 0:
		return "Priced below the category average"
	case diff <= 20:
		return "Fairly priced for this category"
	default:
		return "Premium creator with exceptional demand"
	}
}

// UrgencyMessage returns a scarcity nudge, or false when none applies.
func UrgencyMessage(slotsRemaining, recentBookings int) (string, bool) {
	switch {
	case slotsRemaining <= 2:
		return fmt.Sprintf("Only %d left today, book now!", slotsRemaining), true
	case recentBookings > 10:
		return fmt.Sprintf("%d people booked in the last 24 hours", recentBookings), true
	case slotsRemaining <= 5:
		return fmt.Sprintf("Limited availability: %d slots remaining", slotsRemaining), true
	}
	return "", false
}

// SocialProofMessage summarizes a creator's track record.
func SocialProofMessage(totalBookings int, repeatRate float64) string {
	switch {
	case totalBookings > 1000:
		return fmt.Sprintf("Trusted by %d+ happy fans", totalBookings/1000*1000)
	case repeatRate > 30:
		return fmt.Sprintf("%.0f%% of fans come back for another video", repeatRate)
	case totalBookings > 100:
		return fmt.Sprintf("%d videos delivered", totalBookings)
	}
	return "New on the platform: be one of the first to book!"
}
