package export

import (
	"bytes"

	"github.com/xuri/excelize/v2"
)

// XLSXWriter produces a single-sheet workbook mirroring the CSV layout.
type XLSXWriter struct{}

func NewXLSXWriter() *XLSXWriter {
	return &XLSXWriter{}
}

func (w *XLSXWriter) Write(input RenderInput) ([]byte, error) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	sheet := f.GetSheetName(f.GetActiveSheetIndex())

	rows := [][]interface{}{
		{"Quote Number", input.Document.Number},
		{"Version", input.Document.Version},
		{"Status", input.Document.Status},
		{"Customer", input.Customer.Name},
		{},
		{"Category", "Description", "SKU", "Quantity", "Unit", "Unit Price", "Total Price"},
	}
	for _, line := range input.Lines {
		quantity, _ := line.Quantity.RoundBank(2).Float64()
		unitPrice, _ := line.UnitPrice.RoundBank(2).Float64()
		totalPrice, _ := line.TotalPrice.RoundBank(2).Float64()
		rows = append(rows, []interface{}{
			line.Category,
			line.Description,
			line.SKU,
			quantity,
			line.UnitOfMeasure,
			unitPrice,
			totalPrice,
		})
	}

	totals := []struct {
		label string
		value string
	}{
		{"Materials", input.Totals.Materials.RoundBank(2).StringFixed(2)},
		{"Labor", input.Totals.Labor.RoundBank(2).StringFixed(2)},
		{"Subtotal", input.Totals.Subtotal.RoundBank(2).StringFixed(2)},
		{"Contingency", input.Totals.Contingency.RoundBank(2).StringFixed(2)},
		{"Profit", input.Totals.Profit.RoundBank(2).StringFixed(2)},
		{"Total", input.Totals.Total.RoundBank(2).StringFixed(2)},
		{"Tax", input.Totals.Tax.RoundBank(2).StringFixed(2)},
		{"Grand Total", input.Totals.GrandTotal.RoundBank(2).StringFixed(2)},
	}
	rows = append(rows, []interface{}{})
	for _, total := range totals {
		rows = append(rows, []interface{}{total.label, total.value})
	}

	for i := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return nil, err
		}
		if err := f.SetSheetRow(sheet, cell, &rows[i]); err != nil {
			return nil, err
		}
	}

	if err := f.SetColWidth(sheet, "A", "B", 28); err != nil {
		return nil, err
	}
	if err := f.SetColWidth(sheet, "C", "G", 14); err != nil {
		return nil, err
	}

	buf := &bytes.Buffer{}
	if err := f.Write(buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
