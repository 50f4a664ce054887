// Package export renders finished quotes as customer-facing documents.
// Amounts are rounded to two decimal places (banker's rounding) here and
// only here; stored values keep full precision.
package export

import (
	"time"

	"github.com/shopspring/decimal"
)

// DocumentView identifies the quote being rendered.
type DocumentView struct {
	Number   string
	Status   string
	Version  int
	IssuedAt time.Time
}

// CompanyView carries the issuing contractor's presentation settings.
type CompanyView struct {
	Name         string
	PrimaryColor string
	FooterNotes  string
}

// CustomerView carries the job's customer block. Fields may be empty when
// the underlying job no longer exists.
type CustomerView struct {
	Name        string
	Email       string
	Phone       string
	SiteAddress string
}

// LineView is one bill-of-materials row.
type LineView struct {
	Category      string
	Description   string
	SKU           string
	Quantity      decimal.Decimal
	UnitOfMeasure string
	UnitPrice     decimal.Decimal
	TotalPrice    decimal.Decimal
}

// TotalsView is the layered financial breakdown.
type TotalsView struct {
	Materials   decimal.Decimal
	Labor       decimal.Decimal
	Subtotal    decimal.Decimal
	Contingency decimal.Decimal
	Profit      decimal.Decimal
	Total       decimal.Decimal
	Tax         decimal.Decimal
	GrandTotal  decimal.Decimal
}

// RenderInput is everything a renderer needs. Building it is the only part
// of export that touches storage; renderers are pure.
type RenderInput struct {
	Document DocumentView
	Company  CompanyView
	Customer CustomerView
	Lines    []LineView
	Totals   TotalsView
}

func formatMoney(value decimal.Decimal) string {
	return "$" + value.RoundBank(2).StringFixed(2)
}

func formatQuantity(value decimal.Decimal) string {
	return value.RoundBank(2).String()
}

func formatDate(value time.Time) string {
	if value.IsZero() {
		return "-"
	}
	return value.UTC().Format("2006-01-02")
}
