package reporting

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/mamadbah2/cement/internal/currency"
	"github.com/mamadbah2/cement/internal/domain/models"
)

// Source exposes the state the reports are computed from.
type Source interface {
	Sales() []models.SaleRecord
	Inventory() models.InventoryData
}

// Service computes dashboard totals and the text reports sent over WhatsApp.
type Service struct {
	source Source
	logger *zap.Logger
}

// NewService wires a new reporting service instance.
func NewService(source Source, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{source: source, logger: logger}
}

// Filter returns the sales matching f, newest first.
func (s *Service) Filter(f models.SalesFilter) []models.SaleRecord {
	all := s.source.Sales()
	out := make([]models.SaleRecord, 0, len(all))
	for _, sale := range all {
		if f.Matches(sale) {
			out = append(out, sale)
		}
	}
	return out
}

// Summary aggregates the sales matching f in total and per shop.
func (s *Service) Summary(f models.SalesFilter) models.SalesReport {
	sales := s.Filter(f)
	return models.SalesReport{Summary: Summarize(sales), Shops: ByShop(sales)}
}

// GenerateWeeklyReport builds the text report for the week containing now,
// from Monday up to and including now's date.
func (s *Service) GenerateWeeklyReport(ctx context.Context, now time.Time) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	start := models.DateOf(mondayStart(now))
	end := models.DateOf(now)
	report := s.Summary(models.SalesFilter{From: start, To: end})

	s.logger.Debug("weekly report computed",
		zap.String("from", start.String()),
		zap.String("to", end.String()),
		zap.Int("sales", report.Summary.Sales))

	var b strings.Builder
	b.WriteString(FormatSummary(fmt.Sprintf("Weekly sales report (%s - %s)", start, end), report))
	b.WriteString("\n\n")
	b.WriteString(FormatStock(s.source.Inventory(), nil))
	return b.String(), nil
}

// Summarize totals a set of sales.
func Summarize(sales []models.SaleRecord) models.SalesSummary {
	sum := models.SalesSummary{
		TotalRevenue:     decimal.Zero,
		TotalTransferred: decimal.Zero,
		TotalExpenses:    decimal.Zero,
		TotalDiscrepancy: decimal.Zero,
	}
	for _, sale := range sales {
		sum.Sales++
		sum.TotalBagsSold += sale.BagsSold
		sum.TotalRevenue = sum.TotalRevenue.Add(sale.ExpectedRevenue)
		sum.TotalTransferred = sum.TotalTransferred.Add(sale.TotalTransfer)
		sum.TotalExpenses = sum.TotalExpenses.Add(sale.Expenses)
		sum.TotalDiscrepancy = sum.TotalDiscrepancy.Add(sale.Discrepancy)
	}
	return sum
}

// ByShop totals sales per shop in roster order, skipping shops without sales.
func ByShop(sales []models.SaleRecord) []models.ShopPerformance {
	grouped := make(map[string][]models.SaleRecord)
	for _, sale := range sales {
		grouped[sale.ShopName] = append(grouped[sale.ShopName], sale)
	}

	out := make([]models.ShopPerformance, 0, len(grouped))
	for _, shop := range models.Roster() {
		if group, ok := grouped[shop]; ok {
			out = append(out, models.ShopPerformance{ShopName: shop, SalesSummary: Summarize(group)})
			delete(grouped, shop)
		}
	}

	// Sales recorded against shops that have since left the roster.
	rest := make([]string, 0, len(grouped))
	for shop := range grouped {
		rest = append(rest, shop)
	}
	slices.Sort(rest)
	for _, shop := range rest {
		out = append(out, models.ShopPerformance{ShopName: shop, SalesSummary: Summarize(grouped[shop])})
	}
	return out
}

// FormatSummary renders a report as a WhatsApp message.
func FormatSummary(title string, report models.SalesReport) string {
	var b strings.Builder
	b.WriteString(title)
	b.WriteString("\n")

	sum := report.Summary
	if sum.Sales == 0 {
		b.WriteString("No sales recorded.")
		return b.String()
	}

	fmt.Fprintf(&b, "Sales: %d | Bags: %d\n", sum.Sales, sum.TotalBagsSold)
	fmt.Fprintf(&b, "Revenue: %s\n", currency.Format(sum.TotalRevenue))
	fmt.Fprintf(&b, "Transferred: %s\n", currency.Format(sum.TotalTransferred))
	fmt.Fprintf(&b, "Expenses: %s\n", currency.Format(sum.TotalExpenses))
	fmt.Fprintf(&b, "Discrepancy: %s", currency.FormatDiscrepancy(sum.TotalDiscrepancy))

	if len(report.Shops) > 0 {
		b.WriteString("\n\nBy shop:")
		for _, shop := range report.Shops {
			fmt.Fprintf(&b, "\n- %s: %d bags, %s, discrepancy %s",
				shop.ShopName, shop.TotalBagsSold, currency.Format(shop.TotalRevenue), currency.FormatDiscrepancy(shop.TotalDiscrepancy))
		}
	}
	return b.String()
}

// FormatStock renders current stock for shops, or the whole roster when shops is empty.
func FormatStock(inv models.InventoryData, shops []string) string {
	if len(shops) == 0 {
		shops = models.Roster()
	}

	var b strings.Builder
	b.WriteString("Stock levels:")
	for _, shop := range shops {
		si, ok := inv[shop]
		if !ok {
			fmt.Fprintf(&b, "\n- %s: no inventory", shop)
			continue
		}
		parts := make([]string, 0, len(models.StockTypes))
		for _, t := range models.StockTypes {
			parts = append(parts, fmt.Sprintf("%s %d", t, si.CurrentStock[t]))
		}
		fmt.Fprintf(&b, "\n- %s: %s", shop, strings.Join(parts, ", "))
	}
	return b.String()
}

func mondayStart(t time.Time) time.Time {
	weekday := int(t.Weekday())
	daysSinceMonday := (weekday + 6) % 7
	start := t.AddDate(0, 0, -daysSinceMonday)
	return time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, t.Location())
}
