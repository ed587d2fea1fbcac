package booking

import "lexbook/models"

// Mode adjustments in currency minor units, applied on top of a provider's
// base fee. Phone consultations are discounted, office visits carry a travel
// premium, video is the reference mode.
var modeAdjustments = map[string]int64{
	models.ModeVideo:    0,
	models.ModePhone:    -200,
	models.ModeInPerson: 300,
}

// ModeAdjustment returns the signed price adjustment for a consultation mode.
// Unknown modes adjust by zero.
func ModeAdjustment(mode string) int64 {
	return modeAdjustments[mode]
}

// PricingEngine computes chargeable totals. All arithmetic is in integral
// minor units; no floating point is involved anywhere in pricing.
type PricingEngine struct {
	// MinimumFee is the platform-wide floor: negative adjustments clamp here
	// instead of erroring.
	MinimumFee int64
}

// ComputeTotal returns basePrice + modeAdjustment + slotPriceDelta, clamped to
// the configured minimum. slotPriceDelta is the slot's price minus the
// provider's reference slot price (premium evening slots are positive,
// discounted off-peak slots negative).
func (p PricingEngine) ComputeTotal(basePrice, modeAdjustment, slotPriceDelta int64) int64 {
	total := basePrice + modeAdjustment + slotPriceDelta
	if total < p.MinimumFee {
		return p.MinimumFee
	}
	return total
}

// SlotPriceDelta returns the slot's deviation from the provider's reference
// slot price.
func SlotPriceDelta(slot *models.AvailabilitySlot, provider *models.Provider) int64 {
	return slot.Price - provider.ReferenceSlotPrice
}
