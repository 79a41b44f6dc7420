package ledger

import (
	"cmp"
	"fmt"
	"math"
	"slices"

	"github.com/mamadbah2/cement/internal/domain/models"
)

// StockLedger tracks current stock and delivery history per shop.
// It is not safe for concurrent use.
type StockLedger struct {
	shops map[string]*shopStock
	opts  options
}

type shopStock struct {
	current    models.StockLevels
	deliveries []models.DeliveryRecord
}

// NewStockLedger builds a ledger from a deep copy of data.
func NewStockLedger(data models.InventoryData, opts ...Option) *StockLedger {
	l := &StockLedger{
		shops: make(map[string]*shopStock, len(data)),
		opts:  buildOptions(opts),
	}
	for shop, inv := range data {
		c := inv.Clone()
		if c.CurrentStock == nil {
			c.CurrentStock = models.StockLevels{}
		}
		l.shops[shop] = &shopStock{current: c.CurrentStock, deliveries: c.Deliveries}
	}
	return l
}

// HasShop reports whether shop has an inventory entry.
func (l *StockLedger) HasShop(shop string) bool {
	_, ok := l.shops[shop]
	return ok
}

func (l *StockLedger) shop(shop string) (*shopStock, error) {
	s, ok := l.shops[shop]
	if !ok {
		return nil, &models.NotFoundError{Kind: "shop inventory", ID: shop}
	}
	return s, nil
}

// Available returns the bags of t currently in stock at shop.
func (l *StockLedger) Available(shop string, t models.StockType) (int, error) {
	s, err := l.shop(shop)
	if err != nil {
		return 0, err
	}
	return s.current[t], nil
}

// ApplyDelivery records a delivery and credits its quantity to stock.
func (l *StockLedger) ApplyDelivery(shop string, t models.StockType, quantity int, date models.Date) (models.DeliveryRecord, error) {
	if quantity <= 0 {
		return models.DeliveryRecord{}, &models.ValidationError{Field: "quantity", Message: "must be greater than zero"}
	}
	if !t.Valid() {
		return models.DeliveryRecord{}, &models.ValidationError{Field: "stockType", Message: "must be DANGOTE or ASHAKA"}
	}
	if date.IsZero() {
		return models.DeliveryRecord{}, &models.ValidationError{Field: "date", Message: "is required"}
	}
	s, err := l.shop(shop)
	if err != nil {
		return models.DeliveryRecord{}, err
	}

	if err := s.checkCredit(t, quantity); err != nil {
		return models.DeliveryRecord{}, err
	}

	rec := models.DeliveryRecord{ID: l.opts.newID(), Date: date, Quantity: quantity, StockType: t}
	s.deliveries = append(s.deliveries, rec)
	s.current[t] += quantity
	return rec, nil
}

// FindDelivery returns the delivery with id and its position in the history.
func (l *StockLedger) FindDelivery(shop, id string) (models.DeliveryRecord, int, error) {
	s, err := l.shop(shop)
	if err != nil {
		return models.DeliveryRecord{}, -1, err
	}
	idx := slices.IndexFunc(s.deliveries, func(d models.DeliveryRecord) bool { return d.ID == id })
	if idx < 0 {
		return models.DeliveryRecord{}, -1, &models.NotFoundError{Kind: "delivery", ID: id}
	}
	return s.deliveries[idx], idx, nil
}

// ReverseDelivery removes a delivery and debits its quantity. It fails with
// an *InsufficientStockError when later sales already consumed part of it.
func (l *StockLedger) ReverseDelivery(shop, id string) (models.DeliveryRecord, int, error) {
	rec, idx, err := l.FindDelivery(shop, id)
	if err != nil {
		return models.DeliveryRecord{}, -1, err
	}
	s := l.shops[shop]
	if s.current[rec.StockType] < rec.Quantity {
		return models.DeliveryRecord{}, -1, &models.InsufficientStockError{
			Shop:      shop,
			StockType: rec.StockType,
			Requested: rec.Quantity,
			Available: s.current[rec.StockType],
			Hint:      "Deleting this delivery would leave negative stock; delete or adjust later sales first",
		}
	}

	s.deliveries = slices.Delete(s.deliveries, idx, idx+1)
	s.current[rec.StockType] -= rec.Quantity
	return rec, idx, nil
}

// RestoreDelivery puts back a delivery removed by ReverseDelivery at its
// original position and credits its quantity.
func (l *StockLedger) RestoreDelivery(shop string, idx int, rec models.DeliveryRecord) error {
	s, err := l.shop(shop)
	if err != nil {
		return err
	}
	if err := s.checkCredit(rec.StockType, rec.Quantity); err != nil {
		return err
	}
	idx = min(max(idx, 0), len(s.deliveries))
	s.deliveries = slices.Insert(s.deliveries, idx, rec)
	s.current[rec.StockType] += rec.Quantity
	return nil
}

// DebitStock removes quantity bags of t from shop.
func (l *StockLedger) DebitStock(shop string, t models.StockType, quantity int) error {
	if quantity < 0 {
		return &models.ValidationError{Field: "quantity", Message: "must not be negative"}
	}
	s, err := l.shop(shop)
	if err != nil {
		return err
	}
	if quantity > s.current[t] {
		return &models.InsufficientStockError{Shop: shop, StockType: t, Requested: quantity, Available: s.current[t]}
	}
	s.current[t] -= quantity
	return nil
}

// CreditStock returns quantity bags of t to shop.
func (l *StockLedger) CreditStock(shop string, t models.StockType, quantity int) error {
	if quantity < 0 {
		return &models.ValidationError{Field: "quantity", Message: "must not be negative"}
	}
	s, err := l.shop(shop)
	if err != nil {
		return err
	}
	if err := s.checkCredit(t, quantity); err != nil {
		return err
	}
	s.current[t] += quantity
	return nil
}

// checkCredit rejects a credit that would overflow the bag count of t.
func (s *shopStock) checkCredit(t models.StockType, quantity int) error {
	if s.current[t] > math.MaxInt-quantity {
		return &models.ValidationError{Field: "quantity", Message: fmt.Sprintf("%d bags would overflow the %s stock count", quantity, t)}
	}
	return nil
}

// Inventory returns a copy of one shop's inventory.
func (l *StockLedger) Inventory(shop string) (models.ShopInventory, error) {
	s, err := l.shop(shop)
	if err != nil {
		return models.ShopInventory{}, err
	}
	return models.ShopInventory{CurrentStock: s.current, Deliveries: s.deliveries}.Clone(), nil
}

// Snapshot returns a deep copy of the whole inventory.
func (l *StockLedger) Snapshot() models.InventoryData {
	out := make(models.InventoryData, len(l.shops))
	for shop, s := range l.shops {
		out[shop] = models.ShopInventory{CurrentStock: s.current, Deliveries: s.deliveries}.Clone()
	}
	return out
}

// DeliverySortKey selects the column the delivery history is ordered by.
type DeliverySortKey string

const (
	SortByDate      DeliverySortKey = "date"
	SortByStockType DeliverySortKey = "stockType"
	SortByQuantity  DeliverySortKey = "quantity"
)

// DeliveryQuery filters and orders a shop's delivery history.
// The zero value lists every delivery by date, newest first.
type DeliveryQuery struct {
	StockType models.StockType
	SortBy    DeliverySortKey
	Ascending bool
}

// Deliveries returns the filtered, sorted delivery history of shop.
func (l *StockLedger) Deliveries(shop string, q DeliveryQuery) ([]models.DeliveryRecord, error) {
	s, err := l.shop(shop)
	if err != nil {
		return nil, err
	}

	out := make([]models.DeliveryRecord, 0, len(s.deliveries))
	for _, d := range s.deliveries {
		if q.StockType != "" && d.StockType != q.StockType {
			continue
		}
		out = append(out, d)
	}

	compare := func(a, b models.DeliveryRecord) int {
		switch q.SortBy {
		case SortByQuantity:
			return cmp.Compare(a.Quantity, b.Quantity)
		case SortByStockType:
			return cmp.Compare(a.StockType, b.StockType)
		default:
			return a.Date.Compare(b.Date)
		}
	}
	slices.SortStableFunc(out, func(a, b models.DeliveryRecord) int {
		if q.Ascending {
			return compare(a, b)
		}
		return compare(b, a)
	})
	return out, nil
}
