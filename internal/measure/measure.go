// Package measure converts between imperial and metric lengths.
package measure

import "github.com/shopspring/decimal"

var feetPerMeter = decimal.RequireFromString("0.3048")

// FeetToMeters converts a foot-denominated length to meters.
func FeetToMeters(feet decimal.Decimal) decimal.Decimal {
	return feet.Mul(feetPerMeter)
}

// MetersToFeet converts a meter-denominated length to feet.
func MetersToFeet(meters decimal.Decimal) decimal.Decimal {
	return meters.Div(feetPerMeter)
}
