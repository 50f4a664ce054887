// Package bom expands a job's line items into consolidated bill-of-materials
// rows. Expansion is pure: no IDs are assigned and no storage is touched.
package bom

import (
	"sort"

	"github.com/bwmarrin/snowflake"
	catalogdomain "github.com/fenceworks/quotegen/internal/catalog/domain"
	jobdomain "github.com/fenceworks/quotegen/internal/job/domain"
	pricingdomain "github.com/fenceworks/quotegen/internal/pricing/domain"
	"github.com/fenceworks/quotegen/internal/pricing/tier"
	"github.com/fenceworks/quotegen/internal/quote/costing"
	quotedomain "github.com/fenceworks/quotegen/internal/quote/domain"
	"github.com/shopspring/decimal"
)

// Expansion is the result of aggregating a job. Items carry neither row IDs
// nor a quote reference; the engine fills those in when persisting.
// HeightMultipliers records the tier multiplier computed for each fence type
// touched by the job. The multiplier is informational and is not folded into
// unit prices or totals.
type Expansion struct {
	Items             []quotedomain.BillOfMaterialsItem
	MaterialsCost     decimal.Decimal
	HeightMultipliers map[snowflake.ID]decimal.Decimal
}

type accumulator struct {
	component catalogdomain.Component
	quantity  decimal.Decimal
}

// Aggregate consolidates component demand across all fence and gate lines of
// the hydrated job graph, prices each distinct component at its current
// catalog unit price, and appends a trailing labor row when labor cost is
// nonzero. Lines whose type reference did not resolve are skipped.
func Aggregate(graph jobdomain.Graph, cfg pricingdomain.PricingConfig, labor costing.Labor) Expansion {
	totals := make(map[snowflake.ID]*accumulator)
	multipliers := make(map[snowflake.ID]decimal.Decimal)

	for _, line := range graph.Lines {
		switch line.Item.Kind {
		case jobdomain.LineItemFence:
			if line.Fence == nil {
				continue
			}
			if _, seen := multipliers[line.Fence.ID]; !seen {
				multipliers[line.Fence.ID] = tier.Resolve(cfg.HeightTiers, line.Fence.HeightFeet)
			}
			accumulate(totals, line.Fence.Requirements, line.Item.Quantity)
		case jobdomain.LineItemGate:
			if line.Gate == nil {
				continue
			}
			accumulate(totals, line.Gate.Requirements, line.Item.Quantity)
		}
	}

	items := make([]quotedomain.BillOfMaterialsItem, 0, len(totals)+1)
	materialsCost := decimal.Zero
	for _, acc := range totals {
		totalPrice := acc.quantity.Mul(acc.component.UnitPrice)
		materialsCost = materialsCost.Add(totalPrice)

		componentID := acc.component.ID
		items = append(items, quotedomain.BillOfMaterialsItem{
			ComponentID:   &componentID,
			Category:      acc.component.Category,
			Description:   acc.component.Name,
			SKU:           acc.component.SKU,
			Quantity:      acc.quantity,
			UnitOfMeasure: acc.component.UnitOfMeasure,
			UnitPrice:     acc.component.UnitPrice,
			TotalPrice:    totalPrice,
		})
	}

	sort.Slice(items, func(i, j int) bool {
		if items[i].Category != items[j].Category {
			return items[i].Category < items[j].Category
		}
		return items[i].Description < items[j].Description
	})
	for i := range items {
		items[i].SortOrder = i
	}

	if !labor.Cost.IsZero() {
		items = append(items, quotedomain.BillOfMaterialsItem{
			Category:      catalogdomain.CategoryLabor,
			Description:   "Installation labor",
			Quantity:      labor.Hours,
			UnitOfMeasure: "hour",
			UnitPrice:     labor.RatePerHour,
			TotalPrice:    labor.Cost,
			SortOrder:     len(items),
		})
	}

	return Expansion{
		Items:             items,
		MaterialsCost:     materialsCost,
		HeightMultipliers: multipliers,
	}
}

func accumulate(
	totals map[snowflake.ID]*accumulator,
	requirements []catalogdomain.ComponentRequirement,
	lineQuantity decimal.Decimal,
) {
	for _, req := range requirements {
		if req.Component == nil {
			continue
		}
		required := req.QuantityPerUnit.Mul(lineQuantity)
		if acc, ok := totals[req.ComponentID]; ok {
			acc.quantity = acc.quantity.Add(required)
			continue
		}
		totals[req.ComponentID] = &accumulator{
			component: *req.Component,
			quantity:  required,
		}
	}
}
