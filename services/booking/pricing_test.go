package booking

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"lexbook/models"
)

func TestComputeTotal(t *testing.T) {
	engine := PricingEngine{MinimumFee: 500}

	tests := []struct {
		name           string
		basePrice      int64
		modeAdjustment int64
		slotPriceDelta int64
		want           int64
	}{
		{"office visit premium", 1500, 300, 0, 1800},
		{"phone discount with premium slot", 1500, -200, 300, 1600},
		{"video reference mode", 1500, 0, 0, 1500},
		{"off-peak discount", 1500, 0, -400, 1100},
		{"clamped at the platform floor", 1500, -5000, 0, 500},
		{"clamp applies to combined adjustments", 600, -200, -300, 500},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := engine.ComputeTotal(tt.basePrice, tt.modeAdjustment, tt.slotPriceDelta)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestModeAdjustment(t *testing.T) {
	assert.Equal(t, int64(0), ModeAdjustment(models.ModeVideo))
	assert.Equal(t, int64(-200), ModeAdjustment(models.ModePhone))
	assert.Equal(t, int64(300), ModeAdjustment(models.ModeInPerson))
	assert.Equal(t, int64(0), ModeAdjustment("carrier-pigeon"))
}

func TestSlotPriceDelta(t *testing.T) {
	provider := &models.Provider{ReferenceSlotPrice: 1000}

	evening := &models.AvailabilitySlot{Price: 1300}
	assert.Equal(t, int64(300), SlotPriceDelta(evening, provider))

	offPeak := &models.AvailabilitySlot{Price: 800}
	assert.Equal(t, int64(-200), SlotPriceDelta(offPeak, provider))
}
