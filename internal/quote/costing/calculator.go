// Package costing computes labor cost and the layered financial breakdown
// for a quote. All arithmetic is fixed-point decimal; results keep the full
// precision of the multiplication chain and are rounded only at presentation.
package costing

import (
	"github.com/fenceworks/quotegen/internal/measure"
	pricingdomain "github.com/fenceworks/quotegen/internal/pricing/domain"
	"github.com/shopspring/decimal"
)

// Labor is the labor portion of a quote, derived from the job's total
// linear footage via the meters-based formula.
type Labor struct {
	Hours       decimal.Decimal
	RatePerHour decimal.Decimal
	Cost        decimal.Decimal
}

// Breakdown is the layered financial result. Tax and discount are applied by
// the orchestrator on top of TotalAmount, not here.
type Breakdown struct {
	MaterialsCost     decimal.Decimal
	LaborCost         decimal.Decimal
	SubtotalAmount    decimal.Decimal
	ContingencyAmount decimal.Decimal
	ProfitAmount      decimal.Decimal
	TotalAmount       decimal.Decimal
}

// ComputeLabor converts total linear feet to meters and applies the config's
// hours-per-linear-meter and hourly rate.
func ComputeLabor(totalLinearFeet decimal.Decimal, cfg pricingdomain.PricingConfig) Labor {
	hours := measure.FeetToMeters(totalLinearFeet).Mul(cfg.HoursPerLinearMeter)
	return Labor{
		Hours:       hours,
		RatePerHour: cfg.LaborRatePerHour,
		Cost:        hours.Mul(cfg.LaborRatePerHour),
	}
}

// ComputeBreakdown layers contingency and profit onto materials plus labor.
// Profit is computed on cost plus contingency, not on the subtotal alone;
// that ordering is part of the pricing contract.
func ComputeBreakdown(materialsCost, laborCost decimal.Decimal, cfg pricingdomain.PricingConfig) Breakdown {
	subtotal := materialsCost.Add(laborCost)
	contingency := subtotal.Mul(cfg.ContingencyPercentage)
	profit := subtotal.Add(contingency).Mul(cfg.ProfitMarginPercentage)

	return Breakdown{
		MaterialsCost:     materialsCost,
		LaborCost:         laborCost,
		SubtotalAmount:    subtotal,
		ContingencyAmount: contingency,
		ProfitAmount:      profit,
		TotalAmount:       subtotal.Add(contingency).Add(profit),
	}
}
