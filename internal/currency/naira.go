// Package currency holds the Naira fixed-point rules used for every amount
// in the ledgers.
//
// Amounts are decimals rounded half away from zero to two places (kobo) when
// they enter the system. Bag counts are whole numbers, so products and
// differences of rounded amounts stay exact without further rounding.
package currency

import (
	"fmt"
	"strings"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// Code is the ISO currency code of every amount.
const Code = money.NGN

// Places is the number of fractional digits kept (kobo).
const Places = 2

// Round rounds d to kobo.
func Round(d decimal.Decimal) decimal.Decimal {
	return d.Round(Places)
}

// Parse reads an amount such as "4000", "4,000.50" or "₦4,000.50".
func Parse(value string) (decimal.Decimal, error) {
	cleaned := strings.TrimSpace(value)
	cleaned = strings.TrimPrefix(cleaned, "₦")
	cleaned = strings.ReplaceAll(cleaned, ",", "")
	if cleaned == "" {
		return decimal.Zero, fmt.Errorf("empty amount")
	}

	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Zero, fmt.Errorf("parse amount %q: %w", value, err)
	}
	return Round(d), nil
}

// Format renders d as a Naira amount, e.g. "₦15,000.00".
func Format(d decimal.Decimal) string {
	kobo := Round(d).Shift(Places).IntPart()
	return money.New(kobo, Code).Display()
}

// FormatDiscrepancy renders a discrepancy with an explicit sign and "-" for an exact match.
func FormatDiscrepancy(d decimal.Decimal) string {
	switch {
	case d.IsZero():
		return "-"
	case d.IsPositive():
		return "+" + Format(d)
	default:
		return Format(d)
	}
}
