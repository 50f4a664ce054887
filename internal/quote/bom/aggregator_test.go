package bom

import (
	"testing"

	"github.com/bwmarrin/snowflake"
	catalogdomain "github.com/fenceworks/quotegen/internal/catalog/domain"
	jobdomain "github.com/fenceworks/quotegen/internal/job/domain"
	pricingdomain "github.com/fenceworks/quotegen/internal/pricing/domain"
	"github.com/fenceworks/quotegen/internal/quote/costing"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func decPtr(s string) *decimal.Decimal {
	v := decimal.RequireFromString(s)
	return &v
}

type fixture struct {
	node  *snowflake.Node
	post  catalogdomain.Component
	rail  catalogdomain.Component
	hinge catalogdomain.Component
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	sku := "PST-45"
	return &fixture{
		node: node,
		post: catalogdomain.Component{
			ID: node.Generate(), Name: "Wood post", Category: "Posts",
			UnitOfMeasure: "each", UnitPrice: dec("45"), SKU: &sku,
		},
		rail: catalogdomain.Component{
			ID: node.Generate(), Name: "Rail 2x4", Category: "Lumber",
			UnitOfMeasure: "each", UnitPrice: dec("3.50"),
		},
		hinge: catalogdomain.Component{
			ID: node.Generate(), Name: "Gate hinge", Category: "Hardware",
			UnitOfMeasure: "each", UnitPrice: dec("12"),
		},
	}
}

func (f *fixture) fenceType(height string, reqs ...catalogdomain.ComponentRequirement) *catalogdomain.FenceType {
	return &catalogdomain.FenceType{
		ID:           f.node.Generate(),
		Name:         "Privacy fence",
		HeightFeet:   dec(height),
		Requirements: reqs,
	}
}

func requirement(c catalogdomain.Component, qtyPerUnit string) catalogdomain.ComponentRequirement {
	comp := c
	return catalogdomain.ComponentRequirement{
		ComponentID:     c.ID,
		QuantityPerUnit: dec(qtyPerUnit),
		Component:       &comp,
	}
}

func fenceLine(ft *catalogdomain.FenceType, linearFeet string) jobdomain.GraphLine {
	var typeID *snowflake.ID
	if ft != nil {
		id := ft.ID
		typeID = &id
	}
	return jobdomain.GraphLine{
		Item: jobdomain.LineItem{
			Kind:        jobdomain.LineItemFence,
			FenceTypeID: typeID,
			Quantity:    dec(linearFeet),
		},
		Fence: ft,
	}
}

func TestAggregateSimpleFenceScenario(t *testing.T) {
	f := newFixture(t)
	ft := f.fenceType("6",
		requirement(f.post, "0.125"),
		requirement(f.rail, "3"),
	)
	graph := jobdomain.Graph{Lines: []jobdomain.GraphLine{fenceLine(ft, "100")}}

	exp := Aggregate(graph, pricingdomain.PricingConfig{}, costing.Labor{})

	// 100*0.125*45 + 100*3*3.50 = 562.50 + 1050 = 1612.50
	assert.True(t, exp.MaterialsCost.Equal(dec("1612.50")), "materials %s", exp.MaterialsCost)
	require.Len(t, exp.Items, 2)

	// Lumber sorts before Posts.
	assert.Equal(t, "Lumber", exp.Items[0].Category)
	assert.Equal(t, "Rail 2x4", exp.Items[0].Description)
	assert.True(t, exp.Items[0].Quantity.Equal(dec("300")))
	assert.True(t, exp.Items[0].TotalPrice.Equal(dec("1050")))
	assert.Equal(t, 0, exp.Items[0].SortOrder)

	assert.Equal(t, "Posts", exp.Items[1].Category)
	assert.True(t, exp.Items[1].Quantity.Equal(dec("12.5")))
	assert.True(t, exp.Items[1].TotalPrice.Equal(dec("562.5")))
	assert.Equal(t, 1, exp.Items[1].SortOrder)
	require.NotNil(t, exp.Items[1].SKU)
	assert.Equal(t, "PST-45", *exp.Items[1].SKU)
}

func TestAggregateConsolidatesSharedComponents(t *testing.T) {
	f := newFixture(t)
	ftA := f.fenceType("6", requirement(f.post, "0.125"))
	ftB := f.fenceType("4", requirement(f.post, "0.2"))

	gateID := f.node.Generate()
	gate := &catalogdomain.GateType{
		ID:   gateID,
		Name: "Walk gate",
		Requirements: []catalogdomain.ComponentRequirement{
			requirement(f.post, "2"),
			requirement(f.hinge, "3"),
		},
	}
	gid := gate.ID
	graph := jobdomain.Graph{Lines: []jobdomain.GraphLine{
		fenceLine(ftA, "100"),
		fenceLine(ftB, "50"),
		{
			Item: jobdomain.LineItem{Kind: jobdomain.LineItemGate, GateTypeID: &gid, Quantity: dec("2")},
			Gate: gate,
		},
	}}

	exp := Aggregate(graph, pricingdomain.PricingConfig{}, costing.Labor{})

	// One row per distinct component: post appears once with summed demand.
	require.Len(t, exp.Items, 2)
	var postRow, hingeRow int
	for i, item := range exp.Items {
		switch item.Description {
		case "Wood post":
			postRow = i
		case "Gate hinge":
			hingeRow = i
		}
	}
	// 100*0.125 + 50*0.2 + 2*2 = 12.5 + 10 + 4 = 26.5
	assert.True(t, exp.Items[postRow].Quantity.Equal(dec("26.5")), "post qty %s", exp.Items[postRow].Quantity)
	assert.True(t, exp.Items[hingeRow].Quantity.Equal(dec("6")))
}

func TestAggregateSkipsDanglingTypeReferences(t *testing.T) {
	f := newFixture(t)
	ft := f.fenceType("6", requirement(f.post, "0.125"))
	graph := jobdomain.Graph{Lines: []jobdomain.GraphLine{
		fenceLine(ft, "100"),
		fenceLine(nil, "40"), // deleted fence type
		{Item: jobdomain.LineItem{Kind: jobdomain.LineItemGate, Quantity: dec("1")}}, // dangling gate
		{Item: jobdomain.LineItem{Kind: jobdomain.LineItemOther, Quantity: dec("1")}},
		{Item: jobdomain.LineItem{Kind: jobdomain.LineItemLabor, Quantity: dec("8")}},
	}}

	exp := Aggregate(graph, pricingdomain.PricingConfig{}, costing.Labor{})

	require.Len(t, exp.Items, 1)
	assert.True(t, exp.Items[0].Quantity.Equal(dec("12.5")))
}

func TestAggregateAppendsLaborRow(t *testing.T) {
	f := newFixture(t)
	ft := f.fenceType("6", requirement(f.post, "0.125"))
	graph := jobdomain.Graph{Lines: []jobdomain.GraphLine{fenceLine(ft, "100")}}

	labor := costing.Labor{Hours: dec("15.24"), RatePerHour: dec("50"), Cost: dec("762")}
	exp := Aggregate(graph, pricingdomain.PricingConfig{}, labor)

	require.Len(t, exp.Items, 2)
	last := exp.Items[len(exp.Items)-1]
	assert.Equal(t, catalogdomain.CategoryLabor, last.Category)
	assert.True(t, last.Quantity.Equal(dec("15.24")))
	assert.True(t, last.UnitPrice.Equal(dec("50")))
	assert.True(t, last.TotalPrice.Equal(dec("762")))
	assert.Equal(t, 1, last.SortOrder)

	// Labor is not part of materials cost.
	assert.True(t, exp.MaterialsCost.Equal(dec("562.5")))
}

func TestAggregateEmptyJobWithLabor(t *testing.T) {
	labor := costing.Labor{Hours: dec("3"), RatePerHour: dec("40"), Cost: dec("120")}
	exp := Aggregate(jobdomain.Graph{}, pricingdomain.PricingConfig{}, labor)

	require.Len(t, exp.Items, 1)
	assert.Equal(t, catalogdomain.CategoryLabor, exp.Items[0].Category)
	assert.Equal(t, 0, exp.Items[0].SortOrder)
	assert.True(t, exp.MaterialsCost.IsZero())
}

func TestAggregateEmptyJobNoLabor(t *testing.T) {
	exp := Aggregate(jobdomain.Graph{}, pricingdomain.PricingConfig{}, costing.Labor{})
	assert.Empty(t, exp.Items)
	assert.True(t, exp.MaterialsCost.IsZero())
}

func TestAggregateComputesHeightMultiplierWithoutApplyingIt(t *testing.T) {
	f := newFixture(t)
	ft := f.fenceType("7.0", requirement(f.post, "0.125"))
	graph := jobdomain.Graph{Lines: []jobdomain.GraphLine{fenceLine(ft, "100")}}

	cfg := pricingdomain.PricingConfig{HeightTiers: []pricingdomain.HeightTier{
		{MinHeightMeters: dec("0"), MaxHeightMeters: decPtr("1.8"), Multiplier: dec("1.0")},
		{MinHeightMeters: dec("1.8"), MaxHeightMeters: decPtr("2.1"), Multiplier: dec("1.25")},
		{MinHeightMeters: dec("2.1"), MaxHeightMeters: nil, Multiplier: dec("1.5")},
	}}

	exp := Aggregate(graph, cfg, costing.Labor{})

	// 7 ft ≈ 2.13 m resolves to the 1.5 band, but unit prices stay catalog prices.
	require.Contains(t, exp.HeightMultipliers, ft.ID)
	assert.True(t, exp.HeightMultipliers[ft.ID].Equal(dec("1.5")))
	require.Len(t, exp.Items, 1)
	assert.True(t, exp.Items[0].UnitPrice.Equal(dec("45")))
	assert.True(t, exp.Items[0].TotalPrice.Equal(dec("562.5")))
}

func TestAggregateDeterministicOrdering(t *testing.T) {
	f := newFixture(t)
	ft := f.fenceType("6",
		requirement(f.rail, "3"),
		requirement(f.post, "0.125"),
		requirement(f.hinge, "0.01"),
	)
	graph := jobdomain.Graph{Lines: []jobdomain.GraphLine{fenceLine(ft, "100")}}

	first := Aggregate(graph, pricingdomain.PricingConfig{}, costing.Labor{})
	second := Aggregate(graph, pricingdomain.PricingConfig{}, costing.Labor{})

	require.Equal(t, len(first.Items), len(second.Items))
	for i := range first.Items {
		assert.Equal(t, first.Items[i].Category, second.Items[i].Category)
		assert.Equal(t, first.Items[i].Description, second.Items[i].Description)
		assert.Equal(t, first.Items[i].SortOrder, second.Items[i].SortOrder)
		assert.True(t, first.Items[i].Quantity.Equal(second.Items[i].Quantity))
	}

	// Categories ascend: Hardware, Lumber, Posts.
	assert.Equal(t, "Hardware", first.Items[0].Category)
	assert.Equal(t, "Lumber", first.Items[1].Category)
	assert.Equal(t, "Posts", first.Items[2].Category)
}
