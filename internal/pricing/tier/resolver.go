// Package tier resolves fence-height price multipliers.
package tier

import (
	"sort"

	"github.com/fenceworks/quotegen/internal/measure"
	pricingdomain "github.com/fenceworks/quotegen/internal/pricing/domain"
	"github.com/shopspring/decimal"
)

var one = decimal.NewFromInt(1)

// Resolve converts heightFeet to meters and returns the multiplier of the
// matching tier. A tier matches when min <= height and height <= max; a nil
// max is unbounded above. When several tiers match, the one with the
// smallest min wins, which makes the result deterministic for overlapping
// config. No match, or an empty tier list, yields 1 so that height-tier
// pricing stays optional.
func Resolve(tiers []pricingdomain.HeightTier, heightFeet decimal.Decimal) decimal.Decimal {
	if len(tiers) == 0 {
		return one
	}

	heightMeters := measure.FeetToMeters(heightFeet)

	ordered := make([]pricingdomain.HeightTier, len(tiers))
	copy(ordered, tiers)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].MinHeightMeters.LessThan(ordered[j].MinHeightMeters)
	})

	for _, t := range ordered {
		if heightMeters.LessThan(t.MinHeightMeters) {
			continue
		}
		if t.MaxHeightMeters != nil && heightMeters.GreaterThan(*t.MaxHeightMeters) {
			continue
		}
		return t.Multiplier
	}
	return one
}
