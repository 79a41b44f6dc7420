package models

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/mamadbah2/cement/internal/currency"
)

// SaleInput holds the caller-supplied fields of a sale.
type SaleInput struct {
	Date          Date            `json:"date"`
	ShopName      string          `json:"shopName"`
	StockType     StockType       `json:"stockType"`
	BagsSold      int             `json:"bagsSold"`
	PricePerBag   decimal.Decimal `json:"pricePerBag"`
	TotalTransfer decimal.Decimal `json:"totalTransfer"`
	Expenses      decimal.Decimal `json:"expenses"`
	Notes         string          `json:"notes,omitempty"`
}

// SaleRecord is a stored sale with its derived reconciliation fields.
type SaleRecord struct {
	ID string `json:"id"`
	SaleInput
	ExpectedRevenue decimal.Decimal `json:"expectedRevenue"`
	Discrepancy     decimal.Decimal `json:"discrepancy"`
}

// Input returns the caller-supplied part of the record.
func (r SaleRecord) Input() SaleInput { return r.SaleInput }

// IsShortfall reports whether less money arrived than the sale was worth.
func (r SaleRecord) IsShortfall() bool { return r.Discrepancy.IsNegative() }

// Normalize trims text fields and rounds amounts to kobo.
func (in SaleInput) Normalize() SaleInput {
	in.ShopName = strings.TrimSpace(in.ShopName)
	in.Notes = strings.TrimSpace(in.Notes)
	in.PricePerBag = currency.Round(in.PricePerBag)
	in.TotalTransfer = currency.Round(in.TotalTransfer)
	in.Expenses = currency.Round(in.Expenses)
	return in
}

// Validate checks required fields, roster membership and sign constraints.
func (in SaleInput) Validate() error {
	switch {
	case in.Date.IsZero():
		return &ValidationError{Field: "date", Message: "is required"}
	case !IsRosterShop(in.ShopName):
		return &ValidationError{Field: "shopName", Message: "must be one of the roster shops"}
	case !in.StockType.Valid():
		return &ValidationError{Field: "stockType", Message: "must be DANGOTE or ASHAKA"}
	case in.BagsSold < 0:
		return &ValidationError{Field: "bagsSold", Message: "must not be negative"}
	case in.PricePerBag.IsNegative():
		return &ValidationError{Field: "pricePerBag", Message: "must not be negative"}
	case in.TotalTransfer.IsNegative():
		return &ValidationError{Field: "totalTransfer", Message: "must not be negative"}
	case in.Expenses.IsNegative():
		return &ValidationError{Field: "expenses", Message: "must not be negative"}
	}
	return nil
}
