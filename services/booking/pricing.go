package booking

import (
	"math"
	"strings"

	"glowhub/models"
)

// PricingRules are the platform-wide pricing parameters. A resource's own
// PeakHourMultiplier, when set, overrides PeakMultiplier.
type PricingRules struct {
	PeakMultiplier float64
	// PromoCodes maps upper-case codes to a fractional discount, e.g. 0.10.
	PromoCodes map[string]float64
}

// peakMultiplier picks the resource multiplier over the platform default.
func (r PricingRules) peakMultiplier(settings *models.ShopSettings) float64 {
	if settings != nil && settings.PeakHourMultiplier > 0 {
		return settings.PeakHourMultiplier
	}
	if r.PeakMultiplier > 0 {
		return r.PeakMultiplier
	}
	return 1
}

// PromoRate looks up a promo code case-insensitively. Unknown codes give 0.
func (r PricingRules) PromoRate(code string) float64 {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return 0
	}
	return r.PromoCodes[code]
}

// ComputeFinalPrice applies, in order, the peak surcharge, the promo
// discount and loyalty redemption, and clamps the result at zero. One
// loyalty point is worth one currency unit.
func ComputeFinalPrice(basePrice int64, isPeak bool, multiplier float64, promoRate float64, availablePoints int64, redeem bool) models.PriceBreakdown {
	if basePrice < 0 {
		basePrice = 0
	}
	out := models.PriceBreakdown{BasePrice: basePrice}
	price := basePrice

	if isPeak && multiplier > 0 {
		surged := int64(math.Round(float64(price) * multiplier))
		out.PeakSurcharge = surged - price
		price = surged
	}

	if promoRate > 0 {
		out.PromoDiscount = int64(math.Round(float64(price) * promoRate))
		price -= out.PromoDiscount
	}

	if redeem && availablePoints > 0 && price > 0 {
		out.LoyaltyDiscount = min(availablePoints, price)
		price -= out.LoyaltyDiscount
	}

	out.FinalPrice = max(price, 0)
	return out
}

// Price prices service at slot for a resource under r.
func (r PricingRules) Price(service models.Service, slot models.TimeSlot, settings *models.ShopSettings, promoCode string, availablePoints int64, redeem bool) models.PriceBreakdown {
	rate := r.PromoRate(promoCode)
	out := ComputeFinalPrice(service.Price, slot.IsPeak, r.peakMultiplier(settings), rate, availablePoints, redeem)
	if rate > 0 {
		out.PromoCode = strings.ToUpper(strings.TrimSpace(promoCode))
	}
	return out
}
