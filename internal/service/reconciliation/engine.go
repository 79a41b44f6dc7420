package reconciliation

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/mamadbah2/cement/internal/domain/models"
	"github.com/mamadbah2/cement/internal/ledger"
)

// SalesRepository persists the sale collection.
type SalesRepository interface {
	LoadSales(ctx context.Context) ([]models.SaleRecord, error)
	SaveSales(ctx context.Context, sales []models.SaleRecord) error
}

// InventoryRepository persists the inventory mapping.
type InventoryRepository interface {
	LoadInventory(ctx context.Context) (models.InventoryData, error)
	SaveInventory(ctx context.Context, inv models.InventoryData) error
}

// Engine is the only component that mutates the sale and stock ledgers.
// Each operation either commits every ledger write and persists the affected
// blobs, or leaves both ledgers exactly as they were.
type Engine struct {
	mu        sync.Mutex
	sales     *ledger.SaleLedger
	stock     *ledger.StockLedger
	salesRepo SalesRepository
	invRepo   InventoryRepository
	logger    *zap.Logger
}

// NewEngine loads both blobs and checks the stored stock against the running totals.
func NewEngine(ctx context.Context, salesRepo SalesRepository, invRepo InventoryRepository, logger *zap.Logger, opts ...ledger.Option) (*Engine, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	sales, err := salesRepo.LoadSales(ctx)
	if err != nil {
		return nil, fmt.Errorf("load sales: %w", err)
	}
	inv, err := invRepo.LoadInventory(ctx)
	if err != nil {
		return nil, fmt.Errorf("load inventory: %w", err)
	}
	inv.EnsureRoster()

	e := &Engine{
		sales:     ledger.NewSaleLedger(sales, opts...),
		stock:     ledger.NewStockLedger(inv, opts...),
		salesRepo: salesRepo,
		invRepo:   invRepo,
		logger:    logger,
	}

	for _, m := range e.Verify() {
		logger.Warn("stock does not match deliveries minus sales",
			zap.String("shop", m.Shop),
			zap.String("stock_type", string(m.StockType)),
			zap.Int("recorded", m.Recorded),
			zap.Int("expected", m.Expected))
	}

	logger.Info("reconciliation engine ready", zap.Int("sales", len(sales)), zap.Int("shops", len(inv)))
	return e, nil
}

// CreateSale records a sale and debits its bags from the shop's stock.
func (e *Engine) CreateSale(ctx context.Context, in models.SaleInput) (models.SaleRecord, error) {
	in = in.Normalize()
	if err := in.Validate(); err != nil {
		return models.SaleRecord{}, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	available, err := e.stock.Available(in.ShopName, in.StockType)
	if err != nil {
		return models.SaleRecord{}, err
	}
	if in.BagsSold > available {
		return models.SaleRecord{}, e.rejected("create sale", &models.InsufficientStockError{
			Shop: in.ShopName, StockType: in.StockType, Requested: in.BagsSold, Available: available,
		})
	}

	var t tx
	rec := e.sales.Insert(in)
	t.onRollback(func() {
		if _, _, err := e.sales.Remove(rec.ID); err != nil {
			e.logger.Error("rollback: remove inserted sale", zap.Error(err))
		}
	})

	if err := e.stock.DebitStock(in.ShopName, in.StockType, in.BagsSold); err != nil {
		t.rollback()
		return models.SaleRecord{}, err
	}
	t.onRollback(func() {
		if err := e.stock.CreditStock(in.ShopName, in.StockType, in.BagsSold); err != nil {
			e.logger.Error("rollback: credit debited stock", zap.Error(err))
		}
	})

	if err := e.commit(ctx, &t, true, true); err != nil {
		return models.SaleRecord{}, err
	}

	e.logger.Info("sale recorded",
		zap.String("sale_id", rec.ID),
		zap.String("shop", rec.ShopName),
		zap.String("stock_type", string(rec.StockType)),
		zap.Int("bags", rec.BagsSold),
		zap.String("discrepancy", rec.Discrepancy.String()))
	return rec, nil
}

// UpdateSale replaces the fields of an existing sale. Stock of the original
// shop and type is credited back before the new bags are debited, so the
// sale may move between shops or stock types.
func (e *Engine) UpdateSale(ctx context.Context, id string, in models.SaleInput) (models.SaleRecord, error) {
	in = in.Normalize()
	if err := in.Validate(); err != nil {
		return models.SaleRecord{}, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	original, err := e.sales.Get(id)
	if err != nil {
		return models.SaleRecord{}, e.missing("update sale", err)
	}

	available, err := e.stock.Available(in.ShopName, in.StockType)
	if err != nil {
		return models.SaleRecord{}, err
	}
	originalTracked := e.stock.HasShop(original.ShopName)
	hypothetical := available
	if originalTracked && original.ShopName == in.ShopName && original.StockType == in.StockType {
		hypothetical += original.BagsSold
	}
	if in.BagsSold > hypothetical {
		return models.SaleRecord{}, e.rejected("update sale", &models.InsufficientStockError{
			Shop: in.ShopName, StockType: in.StockType, Requested: in.BagsSold, Available: hypothetical,
		})
	}

	var t tx
	previous, updated, err := e.sales.Replace(id, in)
	if err != nil {
		return models.SaleRecord{}, err
	}
	t.onRollback(func() { e.sales.Restore(-1, previous) })

	if originalTracked {
		if err := e.stock.CreditStock(original.ShopName, original.StockType, original.BagsSold); err != nil {
			t.rollback()
			return models.SaleRecord{}, err
		}
		t.onRollback(func() {
			if err := e.stock.DebitStock(original.ShopName, original.StockType, original.BagsSold); err != nil {
				e.logger.Error("rollback: debit credited stock", zap.Error(err))
			}
		})
	} else {
		e.logger.Warn("original sale shop has no inventory, stock not credited back",
			zap.String("sale_id", id), zap.String("shop", original.ShopName))
	}

	if err := e.stock.DebitStock(in.ShopName, in.StockType, in.BagsSold); err != nil {
		t.rollback()
		return models.SaleRecord{}, err
	}
	t.onRollback(func() {
		if err := e.stock.CreditStock(in.ShopName, in.StockType, in.BagsSold); err != nil {
			e.logger.Error("rollback: credit debited stock", zap.Error(err))
		}
	})

	if err := e.commit(ctx, &t, true, true); err != nil {
		return models.SaleRecord{}, err
	}

	e.logger.Info("sale updated",
		zap.String("sale_id", id),
		zap.Int("bags_before", original.BagsSold),
		zap.Int("bags_after", updated.BagsSold))
	return updated, nil
}

// DeleteSale removes a sale and credits its bags back to stock.
func (e *Engine) DeleteSale(ctx context.Context, id string) (models.SaleRecord, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	sale, err := e.sales.Get(id)
	if err != nil {
		return models.SaleRecord{}, e.missing("delete sale", err)
	}

	var t tx
	stockChanged := false
	if e.stock.HasShop(sale.ShopName) {
		if err := e.stock.CreditStock(sale.ShopName, sale.StockType, sale.BagsSold); err != nil {
			return models.SaleRecord{}, err
		}
		stockChanged = true
		t.onRollback(func() {
			if err := e.stock.DebitStock(sale.ShopName, sale.StockType, sale.BagsSold); err != nil {
				e.logger.Error("rollback: debit credited stock", zap.Error(err))
			}
		})
	} else {
		e.logger.Warn("inventory for shop not found, cannot return stock",
			zap.String("sale_id", id), zap.String("shop", sale.ShopName))
	}

	removed, idx, err := e.sales.Remove(id)
	if err != nil {
		t.rollback()
		return models.SaleRecord{}, err
	}
	t.onRollback(func() { e.sales.Restore(idx, removed) })

	if err := e.commit(ctx, &t, true, stockChanged); err != nil {
		return models.SaleRecord{}, err
	}

	e.logger.Info("sale deleted", zap.String("sale_id", id), zap.Int("bags_returned", removed.BagsSold))
	return removed, nil
}

// AddDelivery credits a delivery of bags to a shop.
func (e *Engine) AddDelivery(ctx context.Context, shop string, stockType models.StockType, quantity int, date models.Date) (models.DeliveryRecord, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	rec, err := e.stock.ApplyDelivery(shop, stockType, quantity, date)
	if err != nil {
		return models.DeliveryRecord{}, err
	}

	var t tx
	t.onRollback(func() {
		if _, _, err := e.stock.ReverseDelivery(shop, rec.ID); err != nil {
			e.logger.Error("rollback: reverse applied delivery", zap.Error(err))
		}
	})

	if err := e.commit(ctx, &t, false, true); err != nil {
		return models.DeliveryRecord{}, err
	}

	e.logger.Info("delivery recorded",
		zap.String("delivery_id", rec.ID),
		zap.String("shop", shop),
		zap.String("stock_type", string(stockType)),
		zap.Int("quantity", quantity))
	return rec, nil
}

// DeleteDelivery removes a delivery from a shop's history and debits its
// quantity. It is refused when later sales already consumed that stock.
func (e *Engine) DeleteDelivery(ctx context.Context, shop, deliveryID string) (models.DeliveryRecord, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	rec, idx, err := e.stock.ReverseDelivery(shop, deliveryID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return models.DeliveryRecord{}, e.missing("delete delivery", err)
		}
		if errors.Is(err, models.ErrInsufficientStock) {
			return models.DeliveryRecord{}, e.rejected("delete delivery", err)
		}
		return models.DeliveryRecord{}, err
	}

	var t tx
	t.onRollback(func() {
		if err := e.stock.RestoreDelivery(shop, idx, rec); err != nil {
			e.logger.Error("rollback: restore reversed delivery", zap.Error(err))
		}
	})

	if err := e.commit(ctx, &t, false, true); err != nil {
		return models.DeliveryRecord{}, err
	}

	e.logger.Info("delivery deleted", zap.String("delivery_id", deliveryID), zap.String("shop", shop), zap.Int("quantity", rec.Quantity))
	return rec, nil
}

// commit persists the touched blobs. On failure the ledgers are rolled back
// and, if the sales blob was already written, it is rewritten from the
// restored ledger.
func (e *Engine) commit(ctx context.Context, t *tx, sales, inventory bool) error {
	if sales {
		if err := e.salesRepo.SaveSales(ctx, e.sales.List()); err != nil {
			t.rollback()
			e.logger.Error("failed to persist sales, operation rolled back", zap.Error(err))
			return fmt.Errorf("persist sales: %w", err)
		}
	}
	if inventory {
		if err := e.invRepo.SaveInventory(ctx, e.stock.Snapshot()); err != nil {
			t.rollback()
			e.logger.Error("failed to persist inventory, operation rolled back", zap.Error(err))
			if sales {
				if rerr := e.salesRepo.SaveSales(ctx, e.sales.List()); rerr != nil {
					e.logger.Error("failed to restore sales blob", zap.Error(rerr))
				}
			}
			return fmt.Errorf("persist inventory: %w", err)
		}
	}
	return nil
}

func (e *Engine) rejected(op string, err error) error {
	var stockErr *models.InsufficientStockError
	if errors.As(err, &stockErr) {
		e.logger.Warn("operation rejected: insufficient stock",
			zap.String("operation", op),
			zap.String("shop", stockErr.Shop),
			zap.String("stock_type", string(stockErr.StockType)),
			zap.Int("requested", stockErr.Requested),
			zap.Int("available", stockErr.Available))
	}
	return err
}

func (e *Engine) missing(op string, err error) error {
	e.logger.Warn("operation target not found", zap.String("operation", op), zap.Error(err))
	return err
}
