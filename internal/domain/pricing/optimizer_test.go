package pricing

import (
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPricingMessage_Precedence(t *testing.T) {
	avg := Money(100_00)

	first := PricingMessage(50_00, avg, &UserContext{IsFirstTime: true, GiftPurchase: true})
	gift := PricingMessage(50_00, avg, &UserContext{GiftPurchase: true})
	wellBelow := PricingMessage(70_00, avg, nil)
	below := PricingMessage(90_00, avg, nil)
	near := PricingMessage(115_00, avg, nil)
	above := PricingMessage(150_00, avg, nil)

	assert.Contains(t, first, "10% off")
	assert.Contains(t, gift, "gift")
	assert.Contains(t, wellBelow, "30% below")
	assert.Equal(t, "Priced below the category average", below)
	assert.Equal(t, "Fairly priced for this category", near)
	assert.Contains(t, above, "Premium")

	msgs := map[string]bool{first: true, gift: true, wellBelow: true, below: true, near: true, above: true}
	assert.Len(t, msgs, 6)
}

func TestPricingMessage_ExactlyTwentyPercentAboveIsFair(t *testing.T) {
	assert.Equal(t, "Fairly priced for this category", PricingMessage(120_00, 100_00, nil))
}

func TestUrgencyMessage(t *testing.T) {
	msg, ok := UrgencyMessage(2, 50)
	assert.True(t, ok)
	assert.Contains(t, msg, "Only 2")

	msg, ok = UrgencyMessage(4, 11)
	assert.True(t, ok)
	assert.Contains(t, msg, "11 people")

	msg, ok = UrgencyMessage(5, 10)
	assert.True(t, ok)
	assert.Contains(t, msg, "5 slots")

	msg, ok = UrgencyMessage(6, 10)
	assert.False(t, ok)
	assert.Empty(t, msg)
}

func TestSocialProofMessage(t *testing.T) {
	assert.Contains(t, SocialProofMessage(2500, 50), "2000+")
	assert.Contains(t, SocialProofMessage(500, 45), "45%")
	assert.Equal(t, "150 videos delivered", SocialProofMessage(150, 10))
	assert.Contains(t, SocialProofMessage(3, 0), "first to book")
}

func TestFormatPrice(t *testing.T) {
	assert.Equal(t, "$150", FormatPrice(150_00, "USD"))
	assert.Equal(t, "$46.99", FormatPrice(46_99, "USD"))
	assert.Equal(t, "$1,234.5", FormatPrice(1234_50, "USD"))
	assert.Equal(t, "-$5", FormatPrice(-5_00, "USD"))
}

func TestFormatPrice_ExtremeAmountsKeepTheirSign(t *testing.T) {
	lowest := FormatPrice(Money(math.MinInt64), "USD")
	assert.True(t, strings.HasPrefix(lowest, "-$"), lowest)
	assert.NotContains(t, lowest, "$-")

	highest := FormatPrice(Money(math.MaxInt64), "USD")
	assert.True(t, strings.HasPrefix(highest, "$"), highest)
}
