package costing

import (
	"testing"

	pricingdomain "github.com/fenceworks/quotegen/internal/pricing/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestComputeLaborMetersFormula(t *testing.T) {
	cfg := pricingdomain.PricingConfig{
		LaborRatePerHour:    dec("50"),
		HoursPerLinearMeter: dec("0.5"),
	}

	labor := ComputeLabor(dec("100"), cfg)

	// 100 ft = 30.48 m; 30.48 * 0.5 = 15.24 h; 15.24 * 50 = 762.
	assert.True(t, labor.Hours.Equal(dec("15.24")), "hours %s", labor.Hours)
	assert.True(t, labor.Cost.Equal(dec("762")), "cost %s", labor.Cost)
	assert.True(t, labor.RatePerHour.Equal(dec("50")))
}

func TestComputeLaborZeroFootage(t *testing.T) {
	cfg := pricingdomain.PricingConfig{
		LaborRatePerHour:    dec("50"),
		HoursPerLinearMeter: dec("0.5"),
	}
	labor := ComputeLabor(decimal.Zero, cfg)
	assert.True(t, labor.Cost.IsZero())
	assert.True(t, labor.Hours.IsZero())
}

func TestComputeBreakdownProfitOnCostPlusContingency(t *testing.T) {
	cfg := pricingdomain.PricingConfig{
		ContingencyPercentage:  dec("0.10"),
		ProfitMarginPercentage: dec("0.20"),
	}

	b := ComputeBreakdown(dec("1612.50"), dec("762"), cfg)

	subtotal := dec("2374.50")
	contingency := dec("237.450")
	profit := subtotal.Add(contingency).Mul(dec("0.20"))

	assert.True(t, b.SubtotalAmount.Equal(subtotal), "subtotal %s", b.SubtotalAmount)
	assert.True(t, b.ContingencyAmount.Equal(contingency), "contingency %s", b.ContingencyAmount)
	assert.True(t, b.ProfitAmount.Equal(profit), "profit %s", b.ProfitAmount)
	assert.True(t, b.TotalAmount.Equal(subtotal.Add(contingency).Add(profit)), "total %s", b.TotalAmount)

	// profit == (materials+labor)*(1+contingencyPct)*profitPct
	closedForm := dec("2374.50").Mul(dec("1.10")).Mul(dec("0.20"))
	assert.True(t, b.ProfitAmount.Equal(closedForm), "profit %s vs %s", b.ProfitAmount, closedForm)
}

func TestComputeBreakdownZeroPercentages(t *testing.T) {
	b := ComputeBreakdown(dec("100"), dec("50"), pricingdomain.PricingConfig{})
	assert.True(t, b.SubtotalAmount.Equal(dec("150")))
	assert.True(t, b.ContingencyAmount.IsZero())
	assert.True(t, b.ProfitAmount.IsZero())
	assert.True(t, b.TotalAmount.Equal(dec("150")))
}
