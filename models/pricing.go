package models

// PriceBreakdown itemises how a final price was reached. All amounts are
// whole currency units; discounts are positive numbers.
type PriceBreakdown struct {
	BasePrice       int64  `json:"basePrice"`
	PeakSurcharge   int64  `json:"peakSurcharge"`
	PromoCode       string `json:"promoCode,omitempty"`
	PromoDiscount   int64  `json:"promoDiscount"`
	LoyaltyDiscount int64  `json:"loyaltyDiscount"`
	FinalPrice      int64  `json:"finalPrice"`
}
