package reconciliation

import (
	"slices"

	"github.com/mamadbah2/cement/internal/domain/models"
	"github.com/mamadbah2/cement/internal/ledger"
)

// Mismatch is a shop and stock type whose recorded stock differs from
// its deliveries minus its sales.
type Mismatch struct {
	Shop      string
	StockType models.StockType
	Recorded  int
	Expected  int
}

// Sales returns every sale, newest first.
func (e *Engine) Sales() []models.SaleRecord {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.sales.List()
}

// Sale returns one sale by id.
func (e *Engine) Sale(id string) (models.SaleRecord, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.sales.Get(id)
}

// Inventory returns a copy of the whole inventory.
func (e *Engine) Inventory() models.InventoryData {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.stock.Snapshot()
}

// ShopInventory returns a copy of one shop's inventory.
func (e *Engine) ShopInventory(shop string) (models.ShopInventory, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.stock.Inventory(shop)
}

// Delivery returns one delivery of shop by id.
func (e *Engine) Delivery(shop, id string) (models.DeliveryRecord, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	rec, _, err := e.stock.FindDelivery(shop, id)
	return rec, err
}

// Deliveries returns the filtered, sorted delivery history of one shop.
func (e *Engine) Deliveries(shop string, q ledger.DeliveryQuery) ([]models.DeliveryRecord, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.stock.Deliveries(shop, q)
}

// Verify recomputes every shop's stock from its deliveries and sales and
// reports the pairs that disagree with the recorded stock. Results are in
// roster order.
func (e *Engine) Verify() []Mismatch {
	e.mu.Lock()
	defer e.mu.Unlock()

	inv := e.stock.Snapshot()
	expected := make(map[string]models.StockLevels, len(inv))
	for shop, si := range inv {
		levels := models.StockLevels{}
		for _, d := range si.Deliveries {
			levels[d.StockType] += d.Quantity
		}
		expected[shop] = levels
	}
	for _, s := range e.sales.List() {
		if levels, ok := expected[s.ShopName]; ok {
			levels[s.StockType] -= s.BagsSold
		}
	}

	shops := make([]string, 0, len(inv))
	for shop := range inv {
		shops = append(shops, shop)
	}
	slices.SortFunc(shops, compareShops)

	var out []Mismatch
	for _, shop := range shops {
		for _, t := range models.StockTypes {
			recorded := inv[shop].CurrentStock[t]
			want := expected[shop][t]
			if recorded != want {
				out = append(out, Mismatch{Shop: shop, StockType: t, Recorded: recorded, Expected: want})
			}
		}
	}
	return out
}

// compareShops orders roster shops by roster position, then any others by name.
func compareShops(a, b string) int {
	roster := models.Roster()
	ia, ib := slices.Index(roster, a), slices.Index(roster, b)
	switch {
	case ia >= 0 && ib >= 0:
		return ia - ib
	case ia >= 0:
		return -1
	case ib >= 0:
		return 1
	}
	if a < b {
		return -1
	}
	if a > b {
		return 1
	}
	return 0
}
