package booking

import (
	"testing"

	"glowhub/models"

	"github.com/stretchr/testify/assert"
)

var testRules = PricingRules{PeakMultiplier: 1.2, PromoCodes: map[string]float64{"GLOW10": 0.10}}

func TestComputeFinalPricePeakWithPromo(t *testing.T) {
	got := ComputeFinalPrice(1500, true, 1.2, testRules.PromoRate("GLOW10"), 0, false)

	assert.Equal(t, models.PriceBreakdown{
		BasePrice:     1500,
		PeakSurcharge: 300,
		PromoDiscount: 180,
		FinalPrice:    1620,
	}, got)
}

func TestComputeFinalPriceLoyaltyCoversEverything(t *testing.T) {
	got := ComputeFinalPrice(800, false, 1.2, 0, 1250, true)

	assert.Equal(t, int64(800), got.LoyaltyDiscount)
	assert.Equal(t, int64(0), got.FinalPrice)
}

func TestComputeFinalPricePointsIgnoredWithoutRedeem(t *testing.T) {
	got := ComputeFinalPrice(800, false, 1.2, 0, 1250, false)

	assert.Zero(t, got.LoyaltyDiscount)
	assert.Equal(t, int64(800), got.FinalPrice)
}

func TestComputeFinalPriceNegativeInputs(t *testing.T) {
	got := ComputeFinalPrice(-50, true, 1.2, 0.1, -10, true)
	assert.Equal(t, int64(0), got.FinalPrice)
	assert.Zero(t, got.LoyaltyDiscount)
}

func TestPromoRate(t *testing.T) {
	assert.InDelta(t, 0.10, testRules.PromoRate("glow10"), 1e-9, "lookup is case-insensitive")
	assert.InDelta(t, 0.10, testRules.PromoRate(" GLOW10 "), 1e-9)
	assert.Zero(t, testRules.PromoRate("SUMMER50"))
	assert.Zero(t, testRules.PromoRate(""))
}

func TestPriceUsesResourceMultiplier(t *testing.T) {
	settings := models.DefaultShopSettings()
	settings.PeakHourMultiplier = 1.5
	service := models.Service{ID: "svc", Price: 1000}
	peak := models.TimeSlot{IsPeak: true}

	got := testRules.Price(service, peak, &settings, "", 0, false)
	assert.Equal(t, int64(1500), got.FinalPrice)

	settings.PeakHourMultiplier = 0
	got = testRules.Price(service, peak, &settings, "glow10", 0, false)
	assert.Equal(t, int64(1080), got.FinalPrice)
	assert.Equal(t, "GLOW10", got.PromoCode)

	got = testRules.Price(service, models.TimeSlot{}, &settings, "nope", 0, false)
	assert.Equal(t, int64(1000), got.FinalPrice)
	assert.Empty(t, got.PromoCode)
}

func TestComputeFinalPriceBounds(t *testing.T) {
	bases := []int64{0, 1, 99, 500, 800, 1500, 4500, 12345}
	points := []int64{0, 1, 100, 800, 1250, 100000}
	rates := []float64{0, 0.10, 0.25, 1}

	for _, base := range bases {
		for _, peak := range []bool{false, true} {
			for _, rate := range rates {
				for _, p := range points {
					without := ComputeFinalPrice(base, peak, 1.2, rate, p, false)
					with := ComputeFinalPrice(base, peak, 1.2, rate, p, true)

					assert.GreaterOrEqual(t, with.FinalPrice, int64(0))
					assert.LessOrEqual(t, with.FinalPrice, without.FinalPrice, "redeeming never raises the price")
					assert.LessOrEqual(t, with.LoyaltyDiscount, min(p, without.FinalPrice))
					assert.Equal(t, without.FinalPrice-with.LoyaltyDiscount, with.FinalPrice)

					if !peak {
						assert.LessOrEqual(t, without.FinalPrice, base, "discounts never raise the base price")
					}
				}
			}
		}
	}
}

func TestComputeFinalPriceMonotoneInPoints(t *testing.T) {
	prev := ComputeFinalPrice(1500, true, 1.2, 0.1, 0, true).FinalPrice
	for p := int64(50); p <= 2000; p += 50 {
		cur := ComputeFinalPrice(1500, true, 1.2, 0.1, p, true).FinalPrice
		assert.LessOrEqual(t, cur, prev)
		prev = cur
	}
	assert.Equal(t, int64(0), prev)
}
