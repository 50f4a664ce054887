package tier

import (
	"testing"

	pricingdomain "github.com/fenceworks/quotegen/internal/pricing/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func decPtr(s string) *decimal.Decimal {
	v := decimal.RequireFromString(s)
	return &v
}

func standardTiers() []pricingdomain.HeightTier {
	return []pricingdomain.HeightTier{
		{MinHeightMeters: dec("0"), MaxHeightMeters: decPtr("1.8"), Multiplier: dec("1.0"), Description: "standard"},
		{MinHeightMeters: dec("1.8"), MaxHeightMeters: decPtr("2.1"), Multiplier: dec("1.25"), Description: "tall"},
		{MinHeightMeters: dec("2.1"), MaxHeightMeters: nil, Multiplier: dec("1.5"), Description: "extra tall"},
	}
}

func TestResolveEmptyTiersDefaultsToOne(t *testing.T) {
	got := Resolve(nil, dec("6"))
	assert.True(t, got.Equal(dec("1")), "got %s", got)
}

func TestResolveNoMatchDefaultsToOne(t *testing.T) {
	tiers := []pricingdomain.HeightTier{
		{MinHeightMeters: dec("5"), MaxHeightMeters: nil, Multiplier: dec("2")},
	}
	got := Resolve(tiers, dec("6")) // 6 ft ≈ 1.83 m, below the 5 m floor
	assert.True(t, got.Equal(dec("1")), "got %s", got)
}

func TestResolveSevenFootFenceHitsTopTier(t *testing.T) {
	// 7 ft ≈ 2.1336 m, above the 2.1 m boundary.
	got := Resolve(standardTiers(), dec("7.0"))
	assert.True(t, got.Equal(dec("1.5")), "got %s", got)
}

func TestResolveMidBand(t *testing.T) {
	// 6.5 ft ≈ 1.9812 m, inside (1.8, 2.1].
	got := Resolve(standardTiers(), dec("6.5"))
	assert.True(t, got.Equal(dec("1.25")), "got %s", got)
}

func TestResolveUpperBoundInclusive(t *testing.T) {
	// Tier edges at exact multiples of 0.3048 so feet inputs convert
	// without a remainder: 1.524 m = 5 ft, 2.1336 m = 7 ft.
	tiers := []pricingdomain.HeightTier{
		{MinHeightMeters: dec("0"), MaxHeightMeters: decPtr("1.524"), Multiplier: dec("1.0")},
		{MinHeightMeters: dec("1.524"), MaxHeightMeters: decPtr("2.1336"), Multiplier: dec("1.25")},
		{MinHeightMeters: dec("2.1336"), MaxHeightMeters: nil, Multiplier: dec("1.5")},
	}

	// Exactly 7 ft sits on the middle tier's max; inclusive, so it stays there.
	atBoundary := Resolve(tiers, dec("7"))
	assert.True(t, atBoundary.Equal(dec("1.25")), "got %s", atBoundary)

	above := Resolve(tiers, dec("7.01"))
	assert.True(t, above.Equal(dec("1.5")), "got %s", above)
}

func TestResolveLowerBoundInclusive(t *testing.T) {
	tiers := []pricingdomain.HeightTier{
		{MinHeightMeters: dec("0"), MaxHeightMeters: decPtr("1.2192"), Multiplier: dec("1.0")},
		{MinHeightMeters: dec("1.524"), MaxHeightMeters: nil, Multiplier: dec("1.4")},
	}
	// Exactly 5 ft (1.524 m) sits on the second tier's min and belongs to it.
	got := Resolve(tiers, dec("5"))
	assert.True(t, got.Equal(dec("1.4")), "got %s", got)
}

func TestResolveOverlapPicksSmallestMin(t *testing.T) {
	tiers := []pricingdomain.HeightTier{
		{MinHeightMeters: dec("1.0"), MaxHeightMeters: nil, Multiplier: dec("3")},
		{MinHeightMeters: dec("0"), MaxHeightMeters: nil, Multiplier: dec("2")},
	}
	got := Resolve(tiers, dec("7"))
	assert.True(t, got.Equal(dec("2")), "got %s", got)
}

func TestResolveDoesNotMutateInput(t *testing.T) {
	tiers := []pricingdomain.HeightTier{
		{MinHeightMeters: dec("1.8"), MaxHeightMeters: nil, Multiplier: dec("1.25")},
		{MinHeightMeters: dec("0"), MaxHeightMeters: decPtr("1.8"), Multiplier: dec("1.0")},
	}
	Resolve(tiers, dec("7"))
	assert.True(t, tiers[0].MinHeightMeters.Equal(dec("1.8")))
	assert.True(t, tiers[1].MinHeightMeters.Equal(dec("0")))
}
