package export

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func sampleInput() RenderInput {
	return RenderInput{
		Document: DocumentView{
			Number:   "Q-20250309-0001",
			Status:   "DRAFT",
			Version:  1,
			IssuedAt: time.Date(2025, 3, 9, 12, 0, 0, 0, time.UTC),
		},
		Company: CompanyView{
			Name:         "Acme Fencing",
			PrimaryColor: "#336699",
			FooterNotes:  "Quote valid for 30 days.",
		},
		Customer: CustomerView{
			Name:        "Jordan Doe",
			Email:       "jordan@example.com",
			SiteAddress: "12 Fence Line Rd",
		},
		Lines: []LineView{
			{
				Category:      "Posts",
				Description:   "Wood post",
				SKU:           "PST-45",
				Quantity:      dec("12.5"),
				UnitOfMeasure: "each",
				UnitPrice:     dec("45"),
				TotalPrice:    dec("562.5"),
			},
			{
				Category:      "Labor",
				Description:   "Installation labor",
				Quantity:      dec("15.24"),
				UnitOfMeasure: "hour",
				UnitPrice:     dec("50"),
				TotalPrice:    dec("762"),
			},
		},
		Totals: TotalsView{
			Materials:   dec("562.5"),
			Labor:       dec("762"),
			Subtotal:    dec("1324.5"),
			Contingency: dec("132.45"),
			Profit:      dec("291.39"),
			Total:       dec("1748.34"),
			Tax:         dec("0"),
			GrandTotal:  dec("1748.34"),
		},
	}
}

func TestHTMLRenderer(t *testing.T) {
	html, err := NewHTMLRenderer().Render(sampleInput())
	require.NoError(t, err)

	assert.Contains(t, html, "Q-20250309-0001")
	assert.Contains(t, html, "Acme Fencing")
	assert.Contains(t, html, "Jordan Doe")
	assert.Contains(t, html, "Wood post")
	assert.Contains(t, html, "$562.50")
	assert.Contains(t, html, "$1748.34")
	assert.Contains(t, html, "--primary: #336699")
	assert.Contains(t, html, "Quote valid for 30 days.")
	// Tax is zero and stays hidden.
	assert.NotContains(t, html, ">Tax<")
}

func TestHTMLRendererSanitizesColor(t *testing.T) {
	input := sampleInput()
	input.Company.PrimaryColor = `"><script>alert(1)</script>`

	html, err := NewHTMLRenderer().Render(input)
	require.NoError(t, err)
	assert.Contains(t, html, "--primary: #111827")
	assert.NotContains(t, html, "<script>alert(1)</script>")
}

func TestCSVWriter(t *testing.T) {
	out, err := NewCSVWriter(',').Write(sampleInput())
	require.NoError(t, err)

	r := csv.NewReader(bytes.NewReader(out))
	// The document mixes row widths (header pairs, column row, line rows).
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	require.NoError(t, err)

	assert.Equal(t, []string{"Quote Number", "Q-20250309-0001"}, records[0])
	assert.Equal(t, []string{"Category", "Description", "SKU", "Quantity", "Unit", "Unit Price", "Total Price"}, records[5])
	assert.Equal(t, []string{"Posts", "Wood post", "PST-45", "12.5", "each", "45.00", "562.50"}, records[6])

	last := records[len(records)-1]
	assert.Equal(t, []string{"Grand Total", "1748.34"}, last)
}

func TestCSVWriterCustomDelimiter(t *testing.T) {
	out, err := NewCSVWriter(';').Write(sampleInput())
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(out), "Quote Number;Q-20250309-0001"))
}

func TestXLSXWriter(t *testing.T) {
	out, err := NewXLSXWriter().Write(sampleInput())
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(out))
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	sheet := f.GetSheetName(f.GetActiveSheetIndex())
	number, err := f.GetCellValue(sheet, "B1")
	require.NoError(t, err)
	assert.Equal(t, "Q-20250309-0001", number)

	description, err := f.GetCellValue(sheet, "B7")
	require.NoError(t, err)
	assert.Equal(t, "Wood post", description)
}
