package models

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

// Amounts are written as JSON numbers in the stored blobs and API
// responses. Decoding goes through decimal.Decimal, which accepts numbers
// and quoted strings alike.

func number(d decimal.Decimal) json.Number { return json.Number(d.String()) }

type saleInputJSON struct {
	Date          Date        `json:"date"`
	ShopName      string      `json:"shopName"`
	StockType     StockType   `json:"stockType"`
	BagsSold      int         `json:"bagsSold"`
	PricePerBag   json.Number `json:"pricePerBag"`
	TotalTransfer json.Number `json:"totalTransfer"`
	Expenses      json.Number `json:"expenses"`
	Notes         string      `json:"notes,omitempty"`
}

func (in SaleInput) encoded() saleInputJSON {
	return saleInputJSON{
		Date:          in.Date,
		ShopName:      in.ShopName,
		StockType:     in.StockType,
		BagsSold:      in.BagsSold,
		PricePerBag:   number(in.PricePerBag),
		TotalTransfer: number(in.TotalTransfer),
		Expenses:      number(in.Expenses),
		Notes:         in.Notes,
	}
}

// MarshalJSON implements json.Marshaler.
func (in SaleInput) MarshalJSON() ([]byte, error) {
	return json.Marshal(in.encoded())
}

// MarshalJSON implements json.Marshaler.
func (r SaleRecord) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		ID string `json:"id"`
		saleInputJSON
		ExpectedRevenue json.Number `json:"expectedRevenue"`
		Discrepancy     json.Number `json:"discrepancy"`
	}{r.ID, r.SaleInput.encoded(), number(r.ExpectedRevenue), number(r.Discrepancy)})
}

type summaryJSON struct {
	Sales            int         `json:"sales"`
	TotalBagsSold    int         `json:"totalBagsSold"`
	TotalRevenue     json.Number `json:"totalRevenue"`
	TotalTransferred json.Number `json:"totalTransferred"`
	TotalExpenses    json.Number `json:"totalExpenses"`
	TotalDiscrepancy json.Number `json:"totalDiscrepancy"`
}

func (s SalesSummary) encoded() summaryJSON {
	return summaryJSON{
		Sales:            s.Sales,
		TotalBagsSold:    s.TotalBagsSold,
		TotalRevenue:     number(s.TotalRevenue),
		TotalTransferred: number(s.TotalTransferred),
		TotalExpenses:    number(s.TotalExpenses),
		TotalDiscrepancy: number(s.TotalDiscrepancy),
	}
}

// MarshalJSON implements json.Marshaler.
func (s SalesSummary) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.encoded())
}

// MarshalJSON implements json.Marshaler.
func (p ShopPerformance) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		ShopName string `json:"shopName"`
		summaryJSON
	}{p.ShopName, p.SalesSummary.encoded()})
}
