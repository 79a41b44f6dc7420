package ledger

import (
	"errors"
	"fmt"
	"math"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/mamadbah2/cement/internal/domain/models"
)

func sequentialIDs(prefix string) Option {
	n := 0
	return WithIDGenerator(func() string {
		n++
		return fmt.Sprintf("%s-%d", prefix, n)
	})
}

func d(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

func TestComputeDerived(t *testing.T) {
	testCases := []struct {
		name            string
		bags            int
		price           decimal.Decimal
		transfer        decimal.Decimal
		expenses        decimal.Decimal
		wantRevenue     string
		wantDiscrepancy string
	}{
		{name: "surplus", bags: 100, price: d(4000), transfer: d(380000), expenses: d(5000), wantRevenue: "400000", wantDiscrepancy: "15000"},
		{name: "exact", bags: 10, price: d(4000), transfer: d(39000), expenses: d(1000), wantRevenue: "40000", wantDiscrepancy: "0"},
		{name: "shortfall", bags: 1, price: d(4000), transfer: d(5000), expenses: d(0), wantRevenue: "4000", wantDiscrepancy: "-1000"},
		{name: "kobo", bags: 3, price: decimal.RequireFromString("4100.35"), transfer: decimal.RequireFromString("12000.05"), expenses: d(0), wantRevenue: "12301.05", wantDiscrepancy: "301"},
		{name: "no bags", bags: 0, price: d(4000), transfer: d(0), expenses: d(200), wantRevenue: "0", wantDiscrepancy: "-200"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			revenue, discrepancy := ComputeDerived(tc.bags, tc.price, tc.transfer, tc.expenses)
			if !revenue.Equal(decimal.RequireFromString(tc.wantRevenue)) {
				t.Errorf("revenue = %s, want %s", revenue, tc.wantRevenue)
			}
			if !discrepancy.Equal(decimal.RequireFromString(tc.wantDiscrepancy)) {
				t.Errorf("discrepancy = %s, want %s", discrepancy, tc.wantDiscrepancy)
			}
		})
	}
}

func TestStockLedger_DeliveriesAndDebits(t *testing.T) {
	l := NewStockLedger(models.NewInventoryData(), sequentialIDs("dlv"))
	day := models.MustParseDate("2025-01-05")

	rec, err := l.ApplyDelivery("Shop 1", models.StockDangote, 600, day)
	if err != nil {
		t.Fatalf("ApplyDelivery: %v", err)
	}
	if rec.ID != "dlv-1" || rec.Quantity != 600 {
		t.Errorf("unexpected delivery %+v", rec)
	}
	if got, _ := l.Available("Shop 1", models.StockDangote); got != 600 {
		t.Fatalf("available = %d, want 600", got)
	}

	if err := l.DebitStock("Shop 1", models.StockDangote, 601); !errors.Is(err, models.ErrInsufficientStock) {
		t.Fatalf("DebitStock over stock = %v, want insufficient stock", err)
	}
	if got, _ := l.Available("Shop 1", models.StockDangote); got != 600 {
		t.Errorf("failed debit changed stock to %d", got)
	}

	if err := l.DebitStock("Shop 1", models.StockDangote, 600); err != nil {
		t.Fatalf("DebitStock all: %v", err)
	}
	if got, _ := l.Available("Shop 1", models.StockDangote); got != 0 {
		t.Errorf("available = %d, want 0", got)
	}

	if err := l.CreditStock("Shop 1", models.StockDangote, 50); err != nil {
		t.Fatal(err)
	}
	if got, _ := l.Available("Shop 1", models.StockDangote); got != 50 {
		t.Errorf("available after credit = %d, want 50", got)
	}
	if got, _ := l.Available("Shop 1", models.StockAshaka); got != 0 {
		t.Errorf("ashaka stock moved to %d", got)
	}
}

func TestStockLedger_ApplyDeliveryValidation(t *testing.T) {
	l := NewStockLedger(models.NewInventoryData())
	day := models.MustParseDate("2025-01-05")

	if _, err := l.ApplyDelivery("Shop 1", models.StockDangote, 0, day); !errors.Is(err, models.ErrValidation) {
		t.Errorf("zero quantity = %v, want validation error", err)
	}
	if _, err := l.ApplyDelivery("Shop 1", "BUA", 10, day); !errors.Is(err, models.ErrValidation) {
		t.Errorf("unknown type = %v, want validation error", err)
	}
	if _, err := l.ApplyDelivery("Shop 42", models.StockDangote, 10, day); !errors.Is(err, models.ErrNotFound) {
		t.Errorf("unknown shop = %v, want not found", err)
	}
	if _, err := l.ApplyDelivery("Shop 1", models.StockDangote, 10, models.Date{}); !errors.Is(err, models.ErrValidation) {
		t.Errorf("missing date = %v, want validation error", err)
	}
}

func TestStockLedger_CreditOverflow(t *testing.T) {
	l := NewStockLedger(models.NewInventoryData(), sequentialIDs("dlv"))
	day := models.MustParseDate("2025-01-05")

	big, err := l.ApplyDelivery("Shop 2", models.StockDangote, math.MaxInt, day)
	if err != nil {
		t.Fatalf("ApplyDelivery(MaxInt): %v", err)
	}
	if _, err := l.ApplyDelivery("Shop 2", models.StockDangote, 10, day); !errors.Is(err, models.ErrValidation) {
		t.Errorf("overflowing delivery = %v, want validation error", err)
	}
	if err := l.CreditStock("Shop 2", models.StockDangote, 1); !errors.Is(err, models.ErrValidation) {
		t.Errorf("overflowing credit = %v, want validation error", err)
	}

	inv, _ := l.Inventory("Shop 2")
	if inv.CurrentStock[models.StockDangote] != math.MaxInt || len(inv.Deliveries) != 1 {
		t.Fatalf("stock = %d with %d deliveries, want MaxInt with 1", inv.CurrentStock[models.StockDangote], len(inv.Deliveries))
	}

	if err := l.DebitStock("Shop 2", models.StockDangote, 5); err != nil {
		t.Fatal(err)
	}
	if err := l.RestoreDelivery("Shop 2", 0, models.DeliveryRecord{ID: "dlv-x", Date: day, Quantity: 6, StockType: models.StockDangote}); !errors.Is(err, models.ErrValidation) {
		t.Errorf("overflowing restore = %v, want validation error", err)
	}
	if inv, _ := l.Inventory("Shop 2"); len(inv.Deliveries) != 1 || inv.Deliveries[0].ID != big.ID {
		t.Errorf("deliveries changed after rejected restore: %v", inv.Deliveries)
	}

	// The other stock type of the same shop is unaffected.
	if _, err := l.ApplyDelivery("Shop 2", models.StockAshaka, 10, day); err != nil {
		t.Errorf("ASHAKA delivery: %v", err)
	}
}

func TestStockLedger_ReverseDelivery(t *testing.T) {
	l := NewStockLedger(models.NewInventoryData(), sequentialIDs("dlv"))
	day := models.MustParseDate("2025-01-05")
	first, _ := l.ApplyDelivery("Shop 2", models.StockAshaka, 100, day)
	second, _ := l.ApplyDelivery("Shop 2", models.StockAshaka, 50, day.AddDays(1))

	if err := l.DebitStock("Shop 2", models.StockAshaka, 120); err != nil {
		t.Fatal(err)
	}

	_, _, err := l.ReverseDelivery("Shop 2", first.ID)
	var stockErr *models.InsufficientStockError
	if !errors.As(err, &stockErr) {
		t.Fatalf("ReverseDelivery consumed = %v, want *InsufficientStockError", err)
	}
	if stockErr.Available != 30 || stockErr.Requested != 100 || stockErr.Hint == "" {
		t.Errorf("unexpected error detail %+v", stockErr)
	}

	removed, idx, err := l.ReverseDelivery("Shop 2", second.ID)
	if err == nil {
		t.Fatalf("ReverseDelivery of 50 with 30 in stock succeeded: %+v at %d", removed, idx)
	}

	if err := l.CreditStock("Shop 2", models.StockAshaka, 120); err != nil {
		t.Fatal(err)
	}
	removed, idx, err = l.ReverseDelivery("Shop 2", first.ID)
	if err != nil {
		t.Fatalf("ReverseDelivery: %v", err)
	}
	if idx != 0 || removed.ID != first.ID {
		t.Errorf("removed %+v at %d", removed, idx)
	}
	if got, _ := l.Available("Shop 2", models.StockAshaka); got != 50 {
		t.Errorf("available = %d, want 50", got)
	}

	if err := l.RestoreDelivery("Shop 2", idx, removed); err != nil {
		t.Fatal(err)
	}
	inv, _ := l.Inventory("Shop 2")
	if len(inv.Deliveries) != 2 || inv.Deliveries[0].ID != first.ID {
		t.Errorf("restore did not keep history order: %+v", inv.Deliveries)
	}
	if inv.CurrentStock[models.StockAshaka] != 150 {
		t.Errorf("stock after restore = %d, want 150", inv.CurrentStock[models.StockAshaka])
	}

	if _, _, err := l.ReverseDelivery("Shop 2", "missing"); !errors.Is(err, models.ErrNotFound) {
		t.Errorf("missing delivery = %v, want not found", err)
	}
}

func TestStockLedger_Deliveries(t *testing.T) {
	l := NewStockLedger(models.NewInventoryData(), sequentialIDs("dlv"))
	_, _ = l.ApplyDelivery("Shop 3", models.StockDangote, 300, models.MustParseDate("2025-01-02"))
	_, _ = l.ApplyDelivery("Shop 3", models.StockAshaka, 100, models.MustParseDate("2025-01-03"))
	_, _ = l.ApplyDelivery("Shop 3", models.StockDangote, 200, models.MustParseDate("2025-01-01"))

	ids := func(records []models.DeliveryRecord) []string {
		out := make([]string, 0, len(records))
		for _, r := range records {
			out = append(out, r.ID)
		}
		return out
	}

	testCases := []struct {
		name  string
		query DeliveryQuery
		want  []string
	}{
		{name: "default newest first", query: DeliveryQuery{}, want: []string{"dlv-2", "dlv-1", "dlv-3"}},
		{name: "date ascending", query: DeliveryQuery{Ascending: true}, want: []string{"dlv-3", "dlv-1", "dlv-2"}},
		{name: "quantity descending", query: DeliveryQuery{SortBy: SortByQuantity}, want: []string{"dlv-1", "dlv-3", "dlv-2"}},
		{name: "type ascending", query: DeliveryQuery{SortBy: SortByStockType, Ascending: true}, want: []string{"dlv-2", "dlv-1", "dlv-3"}},
		{name: "filter dangote", query: DeliveryQuery{StockType: models.StockDangote, Ascending: true}, want: []string{"dlv-3", "dlv-1"}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := l.Deliveries("Shop 3", tc.query)
			if err != nil {
				t.Fatal(err)
			}
			if fmt.Sprint(ids(got)) != fmt.Sprint(tc.want) {
				t.Errorf("Deliveries = %v, want %v", ids(got), tc.want)
			}
		})
	}
}

func TestStockLedger_SnapshotIsDetached(t *testing.T) {
	l := NewStockLedger(models.NewInventoryData())
	_, _ = l.ApplyDelivery("Shop 1", models.StockDangote, 10, models.MustParseDate("2025-01-01"))

	snap := l.Snapshot()
	snap["Shop 1"].CurrentStock[models.StockDangote] = 999

	if got, _ := l.Available("Shop 1", models.StockDangote); got != 10 {
		t.Errorf("snapshot mutation leaked into ledger: %d", got)
	}
}

func saleInput(shop string, bags int) models.SaleInput {
	return models.SaleInput{
		Date:          models.MustParseDate("2025-01-10"),
		ShopName:      shop,
		StockType:     models.StockDangote,
		BagsSold:      bags,
		PricePerBag:   d(4000),
		TotalTransfer: d(380000),
		Expenses:      d(5000),
	}
}

func TestSaleLedger(t *testing.T) {
	l := NewSaleLedger(nil, sequentialIDs("sale"))

	first := l.Insert(saleInput("Shop 1", 100))
	second := l.Insert(saleInput("Shop 2", 10))
	if first.ID != "sale-1" || !first.ExpectedRevenue.Equal(d(400000)) || !first.Discrepancy.Equal(d(15000)) {
		t.Fatalf("unexpected first sale %+v", first)
	}

	list := l.List()
	if len(list) != 2 || list[0].ID != second.ID {
		t.Fatalf("List should be newest first, got %v", list)
	}

	prev, updated, err := l.Replace(first.ID, saleInput("Shop 1", 150))
	if err != nil {
		t.Fatal(err)
	}
	if prev.BagsSold != 100 || updated.ID != first.ID || !updated.ExpectedRevenue.Equal(d(600000)) {
		t.Errorf("Replace returned prev=%+v updated=%+v", prev, updated)
	}
	if got := l.List(); got[1].ID != first.ID {
		t.Errorf("Replace moved the record: %v", got)
	}

	removed, idx, err := l.Remove(second.ID)
	if err != nil || idx != 0 || removed.ID != second.ID {
		t.Fatalf("Remove = %+v, %d, %v", removed, idx, err)
	}
	l.Restore(idx, removed)
	if got := l.List(); len(got) != 2 || got[0].ID != second.ID {
		t.Errorf("Restore did not reinstate position: %v", got)
	}

	if _, _, err := l.Replace("nope", saleInput("Shop 1", 1)); !errors.Is(err, models.ErrNotFound) {
		t.Errorf("Replace missing = %v", err)
	}
	if _, _, err := l.Remove("nope"); !errors.Is(err, models.ErrNotFound) {
		t.Errorf("Remove missing = %v", err)
	}
	if _, err := l.Get("nope"); !errors.Is(err, models.ErrNotFound) {
		t.Errorf("Get missing = %v", err)
	}
}

func TestNewSaleLedgerRecomputesDerived(t *testing.T) {
	stale := models.SaleRecord{
		ID:              "legacy",
		SaleInput:       saleInput("Shop 1", 100),
		ExpectedRevenue: d(1),
		Discrepancy:     d(1),
	}
	l := NewSaleLedger([]models.SaleRecord{stale})

	got, err := l.Get("legacy")
	if err != nil {
		t.Fatal(err)
	}
	if !got.ExpectedRevenue.Equal(d(400000)) || !got.Discrepancy.Equal(d(15000)) {
		t.Errorf("derived fields not recomputed: %+v", got)
	}
}
