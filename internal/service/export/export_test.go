package export

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/mamadbah2/cement/internal/domain/models"
)

func sampleSales() []models.SaleRecord {
	// newest first, as stored
	return []models.SaleRecord{
		{
			ID: "s2",
			SaleInput: models.SaleInput{
				Date: models.MustParseDate("2025-01-11"), ShopName: "Shop 2", StockType: models.StockAshaka,
				BagsSold: 10, PricePerBag: decimal.NewFromInt(3900),
				TotalTransfer: decimal.NewFromInt(40000), Expenses: decimal.Zero,
				Notes: "customer overpaid",
			},
			ExpectedRevenue: decimal.NewFromInt(39000),
			Discrepancy:     decimal.NewFromInt(-1000),
		},
		{
			ID: "s1",
			SaleInput: models.SaleInput{
				Date: models.MustParseDate("2025-01-10"), ShopName: "Shop 1", StockType: models.StockDangote,
				BagsSold: 100, PricePerBag: decimal.NewFromInt(4000),
				TotalTransfer: decimal.NewFromInt(380000), Expenses: decimal.NewFromInt(5000),
			},
			ExpectedRevenue: decimal.NewFromInt(400000),
			Discrepancy:     decimal.NewFromInt(15000),
		},
	}
}

func TestTableOrdersOldestFirst(t *testing.T) {
	rows := Table(sampleSales())
	if len(rows) != 2 || rows[0].ShopName != "Shop 1" || rows[1].ShopName != "Shop 2" {
		t.Fatalf("rows = %+v", rows)
	}
	values := rows[0].Values()
	if len(values) != len(Headers) {
		t.Fatalf("row has %d values, want %d", len(values), len(Headers))
	}
	if values[0] != "2025-01-10" || values[3] != 100 || values[9] != 15000.0 {
		t.Errorf("values = %v", values)
	}
}

func TestWriteWorkbook(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteWorkbook(&buf, sampleSales()); err != nil {
		t.Fatalf("WriteWorkbook: %v", err)
	}

	f, err := excelize.OpenReader(bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatalf("OpenReader: %v", err)
	}
	defer f.Close()

	if sheets := f.GetSheetList(); len(sheets) != 1 || sheets[0] != SheetName {
		t.Fatalf("sheets = %v", sheets)
	}

	raw := excelize.Options{RawCellValue: true}
	cells := map[string]string{
		"A1": "Date",
		"J1": "Discrepancy (NGN)",
		"A2": "45667",
		"B2": "Shop 1",
		"C2": "DANGOTE",
		"D2": "100",
		"F2": "400000",
		"J2": "15000",
		"B3": "Shop 2",
		"I3": "customer overpaid",
		"J3": "-1000",
	}
	for cell, want := range cells {
		got, err := f.GetCellValue(SheetName, cell, raw)
		if err != nil {
			t.Fatalf("GetCellValue %s: %v", cell, err)
		}
		if got != want {
			t.Errorf("%s = %q, want %q", cell, got, want)
		}
	}

	plain, _ := f.GetCellStyle(SheetName, "B2")
	striped, _ := f.GetCellStyle(SheetName, "B3")
	if plain == striped {
		t.Error("alternate rows share a style")
	}

	panes, err := f.GetPanes(SheetName)
	if err != nil {
		t.Fatal(err)
	}
	if !panes.Freeze || panes.YSplit != 1 {
		t.Errorf("panes = %+v, want frozen header", panes)
	}
}

func TestWriteWorkbookRejectsEmptySelection(t *testing.T) {
	var buf bytes.Buffer
	err := WriteWorkbook(&buf, nil)
	if !errors.Is(err, models.ErrValidation) {
		t.Fatalf("error = %v, want validation error", err)
	}
	if buf.Len() != 0 {
		t.Error("bytes written for empty selection")
	}
}

func TestFileName(t *testing.T) {
	if got := FileName(models.MustParseDate("2025-03-07")); got != "Sales_Report_2025-03-07.xlsx" {
		t.Errorf("FileName = %q", got)
	}
}

type fakeSheets struct {
	cleared []string
	updated map[string][][]interface{}
	failOn  string
}

func (f *fakeSheets) ClearRange(_ context.Context, r string) error {
	if f.failOn == "clear" {
		return errors.New("quota exceeded")
	}
	f.cleared = append(f.cleared, r)
	return nil
}

func (f *fakeSheets) UpdateRange(_ context.Context, r string, rows [][]interface{}) error {
	if f.failOn == "update" {
		return errors.New("quota exceeded")
	}
	if f.updated == nil {
		f.updated = map[string][][]interface{}{}
	}
	f.updated[r] = rows
	return nil
}

type staticSales []models.SaleRecord

func (s staticSales) Sales() []models.SaleRecord { return s }

func TestSheetsMirrorSync(t *testing.T) {
	repo := &fakeSheets{}
	mirror := NewSheetsMirror(repo, staticSales(sampleSales()), nil)

	n, err := mirror.Sync(context.Background())
	if err != nil {
		t.Fatalf("Sync: %v", err)
	}
	if n != 2 {
		t.Errorf("Sync wrote %d rows, want 2", n)
	}
	if len(repo.cleared) != 1 || repo.cleared[0] != "Sales Report!A:J" {
		t.Errorf("cleared = %v", repo.cleared)
	}
	rows := repo.updated["Sales Report!A1"]
	if len(rows) != 3 || rows[0][0] != "Date" || rows[1][1] != "Shop 1" {
		t.Errorf("updated rows = %v", rows)
	}

	repo.failOn = "update"
	if _, err := mirror.Sync(context.Background()); err == nil {
		t.Error("expected error when the update fails")
	}
}
