package export

import (
	"bytes"
	"encoding/csv"
	"strconv"
)

// CSVWriter flattens a quote into spreadsheet-friendly rows: one header, one
// row per BOM line, a blank separator, then the totals block.
type CSVWriter struct {
	delimiter rune
}

func NewCSVWriter(delimiter rune) *CSVWriter {
	if delimiter == 0 {
		delimiter = ','
	}
	return &CSVWriter{delimiter: delimiter}
}

func (w *CSVWriter) Write(input RenderInput) ([]byte, error) {
	var buf bytes.Buffer
	cw := csv.NewWriter(&buf)
	cw.Comma = w.delimiter

	rows := [][]string{
		{"Quote Number", input.Document.Number},
		{"Version", strconv.Itoa(input.Document.Version)},
		{"Status", input.Document.Status},
		{"Customer", input.Customer.Name},
		{},
		{"Category", "Description", "SKU", "Quantity", "Unit", "Unit Price", "Total Price"},
	}
	for _, line := range input.Lines {
		rows = append(rows, []string{
			line.Category,
			line.Description,
			line.SKU,
			formatQuantity(line.Quantity),
			line.UnitOfMeasure,
			line.UnitPrice.RoundBank(2).StringFixed(2),
			line.TotalPrice.RoundBank(2).StringFixed(2),
		})
	}

	rows = append(rows,
		[]string{},
		[]string{"Materials", input.Totals.Materials.RoundBank(2).StringFixed(2)},
		[]string{"Labor", input.Totals.Labor.RoundBank(2).StringFixed(2)},
		[]string{"Subtotal", input.Totals.Subtotal.RoundBank(2).StringFixed(2)},
		[]string{"Contingency", input.Totals.Contingency.RoundBank(2).StringFixed(2)},
		[]string{"Profit", input.Totals.Profit.RoundBank(2).StringFixed(2)},
		[]string{"Total", input.Totals.Total.RoundBank(2).StringFixed(2)},
		[]string{"Tax", input.Totals.Tax.RoundBank(2).StringFixed(2)},
		[]string{"Grand Total", input.Totals.GrandTotal.RoundBank(2).StringFixed(2)},
	)

	for _, row := range rows {
		if len(row) == 0 {
			row = []string{""}
		}
		if err := cw.Write(row); err != nil {
			return nil, err
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
