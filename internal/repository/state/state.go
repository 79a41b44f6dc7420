// Package state persists the two named blobs the tracker's state lives in:
// the sale collection and the inventory mapping.
package state

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/mamadbah2/cement/internal/domain/models"
	"github.com/mamadbah2/cement/internal/repository/store"
)

const (
	SalesKey     = "salesData"
	InventoryKey = "inventoryData"
)

// Sales stores the ordered sale collection.
type Sales struct {
	blobs  store.BlobStore
	logger *zap.Logger
}

// NewSales builds the sales repository on top of a blob store.
func NewSales(blobs store.BlobStore, logger *zap.Logger) *Sales {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Sales{blobs: blobs, logger: logger}
}

// LoadSales returns the stored sales, or none when nothing was saved yet.
func (r *Sales) LoadSales(ctx context.Context) ([]models.SaleRecord, error) {
	data, err := r.blobs.Get(ctx, SalesKey)
	if errors.Is(err, store.ErrNotFound) {
		r.logger.Info("no stored sales, starting empty")
		return []models.SaleRecord{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", SalesKey, err)
	}

	var sales []models.SaleRecord
	if err := json.Unmarshal(data, &sales); err != nil {
		return nil, fmt.Errorf("decode %s: %w", SalesKey, err)
	}
	if sales == nil {
		sales = []models.SaleRecord{}
	}
	return sales, nil
}

// SaveSales replaces the stored sale collection.
func (r *Sales) SaveSales(ctx context.Context, sales []models.SaleRecord) error {
	if sales == nil {
		sales = []models.SaleRecord{}
	}
	data, err := json.Marshal(sales)
	if err != nil {
		return fmt.Errorf("encode %s: %w", SalesKey, err)
	}
	if err := r.blobs.Put(ctx, SalesKey, data); err != nil {
		return fmt.Errorf("save %s: %w", SalesKey, err)
	}
	return nil
}

// Inventory stores the per-shop inventory mapping.
type Inventory struct {
	blobs  store.BlobStore
	logger *zap.Logger
}

// NewInventory builds the inventory repository on top of a blob store.
func NewInventory(blobs store.BlobStore, logger *zap.Logger) *Inventory {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Inventory{blobs: blobs, logger: logger}
}

// LoadInventory returns the stored inventory with every roster shop present.
func (r *Inventory) LoadInventory(ctx context.Context) (models.InventoryData, error) {
	data, err := r.blobs.Get(ctx, InventoryKey)
	if errors.Is(err, store.ErrNotFound) {
		r.logger.Info("no stored inventory, initializing roster at zero stock")
		return models.NewInventoryData(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", InventoryKey, err)
	}

	var inv models.InventoryData
	if err := json.Unmarshal(data, &inv); err != nil {
		return nil, fmt.Errorf("decode %s: %w", InventoryKey, err)
	}
	if inv == nil {
		inv = models.InventoryData{}
	}
	if added := inv.EnsureRoster(); len(added) > 0 {
		r.logger.Warn("stored inventory was missing roster entries", zap.Strings("shops", added))
	}
	return inv, nil
}

// SaveInventory replaces the stored inventory mapping.
func (r *Inventory) SaveInventory(ctx context.Context, inv models.InventoryData) error {
	data, err := json.Marshal(inv)
	if err != nil {
		return fmt.Errorf("encode %s: %w", InventoryKey, err)
	}
	if err := r.blobs.Put(ctx, InventoryKey, data); err != nil {
		return fmt.Errorf("save %s: %w", InventoryKey, err)
	}
	return nil
}
