// Package export renders the sales list as the ten-column report used for
// spreadsheet downloads and the Google Sheets mirror.
package export

import (
	"slices"

	"github.com/shopspring/decimal"

	"github.com/mamadbah2/cement/internal/domain/models"
)

// Headers are the report columns in order.
var Headers = []string{
	"Date",
	"Shop Name",
	"Stock Type",
	"Bags Sold",
	"Price per Bag (NGN)",
	"Expected Revenue (NGN)",
	"Amount Transferred (NGN)",
	"Expenses (NGN)",
	"Notes",
	"Discrepancy (NGN)",
}

// ErrNoData is returned when there is nothing to export.
var ErrNoData = &models.ValidationError{Message: "no data available for the current filters"}

// Row is one sale laid out in report column order.
type Row struct {
	Date            models.Date
	ShopName        string
	StockType       models.StockType
	BagsSold        int
	PricePerBag     decimal.Decimal
	ExpectedRevenue decimal.Decimal
	TotalTransfer   decimal.Decimal
	Expenses        decimal.Decimal
	Notes           string
	Discrepancy     decimal.Decimal
}

// Table converts sales, stored newest first, into report rows oldest first.
func Table(sales []models.SaleRecord) []Row {
	rows := make([]Row, 0, len(sales))
	for _, s := range sales {
		rows = append(rows, Row{
			Date:            s.Date,
			ShopName:        s.ShopName,
			StockType:       s.StockType,
			BagsSold:        s.BagsSold,
			PricePerBag:     s.PricePerBag,
			ExpectedRevenue: s.ExpectedRevenue,
			TotalTransfer:   s.TotalTransfer,
			Expenses:        s.Expenses,
			Notes:           s.Notes,
			Discrepancy:     s.Discrepancy,
		})
	}
	slices.Reverse(rows)
	return rows
}

// Values returns the row as plain cell values, dates as YYYY-MM-DD text.
func (r Row) Values() []interface{} {
	return []interface{}{
		r.Date.String(),
		r.ShopName,
		string(r.StockType),
		r.BagsSold,
		r.PricePerBag.InexactFloat64(),
		r.ExpectedRevenue.InexactFloat64(),
		r.TotalTransfer.InexactFloat64(),
		r.Expenses.InexactFloat64(),
		r.Notes,
		r.Discrepancy.InexactFloat64(),
	}
}
