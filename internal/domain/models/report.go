package models

import (
	"strings"

	"github.com/shopspring/decimal"
)

// SalesFilter narrows a sales listing. Zero values match everything.
type SalesFilter struct {
	// Shop is a case-insensitive substring of the shop name.
	Shop string
	From Date
	To   Date
}

// Matches reports whether sale passes the filter. Date bounds are inclusive.
func (f SalesFilter) Matches(sale SaleRecord) bool {
	if f.Shop != "" && !strings.Contains(strings.ToLower(sale.ShopName), strings.ToLower(strings.TrimSpace(f.Shop))) {
		return false
	}
	if !f.From.IsZero() && sale.Date.Before(f.From) {
		return false
	}
	if !f.To.IsZero() && sale.Date.After(f.To) {
		return false
	}
	return true
}

// SalesSummary aggregates the dashboard totals over a set of sales.
type SalesSummary struct {
	Sales            int             `json:"sales"`
	TotalBagsSold    int             `json:"totalBagsSold"`
	TotalRevenue     decimal.Decimal `json:"totalRevenue"`
	TotalTransferred decimal.Decimal `json:"totalTransferred"`
	TotalExpenses    decimal.Decimal `json:"totalExpenses"`
	TotalDiscrepancy decimal.Decimal `json:"totalDiscrepancy"`
}

// ShopPerformance is the per-shop breakdown of SalesSummary.
type ShopPerformance struct {
	ShopName string `json:"shopName"`
	SalesSummary
}

// SalesReport is the response of the summary endpoint.
type SalesReport struct {
	Summary SalesSummary      `json:"summary"`
	Shops   []ShopPerformance `json:"shops"`
}
