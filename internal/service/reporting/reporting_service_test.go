package reporting

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mamadbah2/cement/internal/domain/models"
)

type fakeSource struct {
	sales     []models.SaleRecord
	inventory models.InventoryData
}

func (f fakeSource) Sales() []models.SaleRecord      { return f.sales }
func (f fakeSource) Inventory() models.InventoryData { return f.inventory }

func sale(id, date, shop string, bags int, revenue, transfer, discrepancy int64) models.SaleRecord {
	return models.SaleRecord{
		ID: id,
		SaleInput: models.SaleInput{
			Date: models.MustParseDate(date), ShopName: shop, StockType: models.StockDangote,
			BagsSold: bags, PricePerBag: decimal.NewFromInt(revenue / int64(bags)),
			TotalTransfer: decimal.NewFromInt(transfer), Expenses: decimal.Zero,
		},
		ExpectedRevenue: decimal.NewFromInt(revenue),
		Discrepancy:     decimal.NewFromInt(discrepancy),
	}
}

func newFixture() fakeSource {
	inv := models.NewInventoryData()
	shop1 := inv["Shop 1"]
	shop1.CurrentStock[models.StockDangote] = 500
	inv["Shop 1"] = shop1
	return fakeSource{
		sales: []models.SaleRecord{
			sale("s4", "2025-01-13", "Shop 1", 5, 20000, 20000, 0),
			sale("s3", "2025-01-09", "Shop 10", 20, 80000, 79000, 1000),
			sale("s2", "2025-01-07", "Shop 2", 10, 40000, 41000, -1000),
			sale("s1", "2025-01-06", "Shop 1", 100, 400000, 385000, 15000),
		},
		inventory: inv,
	}
}

func TestSummaryTotalsAndShops(t *testing.T) {
	svc := NewService(newFixture(), nil)

	tests := []struct {
		name      string
		filter    models.SalesFilter
		wantSales int
		wantBags  int
		wantDisc  int64
		wantShops []string
	}{
		{"everything", models.SalesFilter{}, 4, 135, 15000, []string{"Shop 1", "Shop 2", "Shop 10"}},
		{"shop substring", models.SalesFilter{Shop: "shop 1"}, 3, 125, 16000, []string{"Shop 1", "Shop 10"}},
		{"date window", models.SalesFilter{From: models.MustParseDate("2025-01-07"), To: models.MustParseDate("2025-01-09")}, 2, 30, 0, []string{"Shop 2", "Shop 10"}},
		{"nothing", models.SalesFilter{Shop: "Shop 7"}, 0, 0, 0, []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			report := svc.Summary(tt.filter)
			if report.Summary.Sales != tt.wantSales || report.Summary.TotalBagsSold != tt.wantBags {
				t.Errorf("summary = %+v", report.Summary)
			}
			if !report.Summary.TotalDiscrepancy.Equal(decimal.NewFromInt(tt.wantDisc)) {
				t.Errorf("discrepancy = %s, want %d", report.Summary.TotalDiscrepancy, tt.wantDisc)
			}
			var shops []string
			for _, s := range report.Shops {
				shops = append(shops, s.ShopName)
			}
			if strings.Join(shops, ",") != strings.Join(tt.wantShops, ",") {
				t.Errorf("shops = %v, want %v", shops, tt.wantShops)
			}
		})
	}
}

func TestByShopKeepsOffRosterShops(t *testing.T) {
	perf := ByShop([]models.SaleRecord{
		sale("a", "2025-01-01", "Old Depot", 1, 4000, 4000, 0),
		sale("b", "2025-01-01", "Shop 3", 2, 8000, 8000, 0),
	})
	if len(perf) != 2 || perf[0].ShopName != "Shop 3" || perf[1].ShopName != "Old Depot" {
		t.Errorf("ByShop = %+v", perf)
	}
}

func TestGenerateWeeklyReport(t *testing.T) {
	svc := NewService(newFixture(), nil)
	// Friday 10 January 2025, 20:00
	now := time.Date(2025, time.January, 10, 20, 0, 0, 0, time.UTC)

	report, err := svc.GenerateWeeklyReport(context.Background(), now)
	if err != nil {
		t.Fatal(err)
	}

	for _, want := range []string{
		"Weekly sales report (2025-01-06 - 2025-01-10)",
		"Sales: 3 | Bags: 130",
		"Revenue: ₦520,000.00",
		"Discrepancy: +₦15,000.00",
		"- Shop 2: 10 bags, ₦40,000.00, discrepancy -₦1,000.00",
		"- Shop 1: DANGOTE 500, ASHAKA 0",
	} {
		if !strings.Contains(report, want) {
			t.Errorf("report missing %q:\n%s", want, report)
		}
	}
	if strings.Contains(report, "Sales: 4") {
		t.Errorf("report includes next week's sale:\n%s", report)
	}
}

func TestGenerateWeeklyReportHonoursCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := NewService(newFixture(), nil).GenerateWeeklyReport(ctx, time.Now()); err == nil {
		t.Error("expected context error")
	}
}

func TestFormatSummaryEmpty(t *testing.T) {
	got := FormatSummary("Today", models.SalesReport{})
	if got != "Today\nNo sales recorded." {
		t.Errorf("FormatSummary = %q", got)
	}
}

func TestMondayStart(t *testing.T) {
	tests := []struct {
		in   time.Time
		want string
	}{
		{time.Date(2025, 1, 6, 9, 0, 0, 0, time.UTC), "2025-01-06"},
		{time.Date(2025, 1, 12, 23, 0, 0, 0, time.UTC), "2025-01-06"},
		{time.Date(2025, 1, 10, 20, 0, 0, 0, time.UTC), "2025-01-06"},
	}
	for _, tt := range tests {
		if got := mondayStart(tt.in).Format("2006-01-02"); got != tt.want {
			t.Errorf("mondayStart(%s) = %s, want %s", tt.in, got, tt.want)
		}
	}
}
