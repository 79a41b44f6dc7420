package models

// DeliveryRecord captures bags received into one shop's inventory.
type DeliveryRecord struct {
	ID        string    `json:"id"`
	Date      Date      `json:"date"`
	Quantity  int       `json:"quantity"`
	StockType StockType `json:"stockType"`
}

// StockLevels maps each stock type to the number of bags on hand.
type StockLevels map[StockType]int

// ShopInventory is the stock position and delivery history of one shop.
type ShopInventory struct {
	CurrentStock StockLevels      `json:"currentStock"`
	Deliveries   []DeliveryRecord `json:"deliveries"`
}

// InventoryData maps roster shop names to their inventory.
type InventoryData map[string]ShopInventory

// NewShopInventory returns a zeroed inventory with every stock type present.
func NewShopInventory() ShopInventory {
	levels := make(StockLevels, len(StockTypes))
	for _, t := range StockTypes {
		levels[t] = 0
	}
	return ShopInventory{CurrentStock: levels, Deliveries: []DeliveryRecord{}}
}

// NewInventoryData returns an inventory with every roster shop at zero stock.
func NewInventoryData() InventoryData {
	data := make(InventoryData, len(roster))
	for _, shop := range roster {
		data[shop] = NewShopInventory()
	}
	return data
}

// Clone returns a deep copy.
func (s ShopInventory) Clone() ShopInventory {
	out := ShopInventory{
		CurrentStock: make(StockLevels, len(s.CurrentStock)),
		Deliveries:   make([]DeliveryRecord, len(s.Deliveries)),
	}
	for t, qty := range s.CurrentStock {
		out.CurrentStock[t] = qty
	}
	copy(out.Deliveries, s.Deliveries)
	return out
}

// Clone returns a deep copy.
func (d InventoryData) Clone() InventoryData {
	out := make(InventoryData, len(d))
	for shop, inv := range d {
		out[shop] = inv.Clone()
	}
	return out
}

// EnsureRoster adds any missing roster shop or stock type at zero and
// returns the shops that had to be added or completed.
func (d InventoryData) EnsureRoster() []string {
	var touched []string
	for _, shop := range roster {
		inv, ok := d[shop]
		if !ok {
			d[shop] = NewShopInventory()
			touched = append(touched, shop)
			continue
		}

		changed := false
		if inv.CurrentStock == nil {
			inv.CurrentStock = make(StockLevels, len(StockTypes))
		}
		for _, t := range StockTypes {
			if _, ok := inv.CurrentStock[t]; !ok {
				inv.CurrentStock[t] = 0
				changed = true
			}
		}
		if inv.Deliveries == nil {
			inv.Deliveries = []DeliveryRecord{}
		}
		d[shop] = inv
		if changed {
			touched = append(touched, shop)
		}
	}
	return touched
}
