package state

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/mamadbah2/cement/internal/domain/models"
	"github.com/mamadbah2/cement/internal/repository/store"
)

func TestSalesRoundTrip(t *testing.T) {
	ctx := context.Background()
	repo := NewSales(store.NewMemory(), nil)

	empty, err := repo.LoadSales(ctx)
	if err != nil || empty == nil || len(empty) != 0 {
		t.Fatalf("LoadSales on empty store = %v, %v", empty, err)
	}

	sale := models.SaleRecord{
		ID: "s1",
		SaleInput: models.SaleInput{
			Date:          models.MustParseDate("2025-01-10"),
			ShopName:      "Shop 1",
			StockType:     models.StockDangote,
			BagsSold:      100,
			PricePerBag:   decimal.NewFromInt(4000),
			TotalTransfer: decimal.NewFromInt(380000),
			Expenses:      decimal.NewFromInt(5000),
			Notes:         "paid in two transfers",
		},
		ExpectedRevenue: decimal.NewFromInt(400000),
		Discrepancy:     decimal.NewFromInt(15000),
	}
	if err := repo.SaveSales(ctx, []models.SaleRecord{sale}); err != nil {
		t.Fatal(err)
	}

	got, err := repo.LoadSales(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 {
		t.Fatalf("loaded %d sales", len(got))
	}
	if got[0].ID != "s1" || got[0].Notes != sale.Notes || !got[0].Date.Equal(sale.Date) || !got[0].Discrepancy.Equal(sale.Discrepancy) {
		t.Errorf("round trip mismatch: %+v", got[0])
	}
}

func TestLoadInventoryDefaultsAndRoster(t *testing.T) {
	ctx := context.Background()
	blobs := store.NewMemory()
	repo := NewInventory(blobs, nil)

	inv, err := repo.LoadInventory(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(inv) != 10 {
		t.Fatalf("fresh inventory has %d shops, want 10", len(inv))
	}

	// A blob written by an older roster that only knew one shop and one brand.
	legacy := `{"Shop 1":{"currentStock":{"DANGOTE":500},"deliveries":[{"id":"d1","date":"2025-01-01","quantity":600,"stockType":"DANGOTE"}]}}`
	if err := blobs.Put(ctx, InventoryKey, []byte(legacy)); err != nil {
		t.Fatal(err)
	}

	inv, err = repo.LoadInventory(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(inv) != 10 {
		t.Errorf("legacy inventory not completed, %d shops", len(inv))
	}
	shop1 := inv["Shop 1"]
	if shop1.CurrentStock[models.StockDangote] != 500 || len(shop1.Deliveries) != 1 {
		t.Errorf("legacy data lost: %+v", shop1)
	}
	if qty, ok := shop1.CurrentStock[models.StockAshaka]; !ok || qty != 0 {
		t.Errorf("ASHAKA not initialized: %+v", shop1.CurrentStock)
	}

	if err := repo.SaveInventory(ctx, inv); err != nil {
		t.Fatal(err)
	}
	again, err := repo.LoadInventory(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if again["Shop 1"].Deliveries[0].ID != "d1" {
		t.Errorf("delivery lost on save: %+v", again["Shop 1"])
	}
}
