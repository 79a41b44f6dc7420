package handlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/cement/internal/domain/models"
	"github.com/mamadbah2/cement/internal/ledger"
)

// InventoryLedger exposes stock levels and delivery history.
type InventoryLedger interface {
	Inventory() models.InventoryData
	ShopInventory(shop string) (models.ShopInventory, error)
	Deliveries(shop string, q ledger.DeliveryQuery) ([]models.DeliveryRecord, error)
	AddDelivery(ctx context.Context, shop string, stockType models.StockType, quantity int, date models.Date) (models.DeliveryRecord, error)
	DeleteDelivery(ctx context.Context, shop, deliveryID string) (models.DeliveryRecord, error)
}

// InventoryHandler serves the /api/inventory resource.
type InventoryHandler struct {
	ledger InventoryLedger
	logger *zap.Logger
}

// NewInventoryHandler constructs the inventory HTTP handler.
func NewInventoryHandler(ledger InventoryLedger, logger *zap.Logger) *InventoryHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &InventoryHandler{ledger: ledger, logger: logger}
}

type deliveryRequest struct {
	Date      string `json:"date" binding:"required,datestr"`
	StockType string `json:"stockType" binding:"required,stocktype"`
	Quantity  int    `json:"quantity" binding:"required,gt=0"`
}

type deliveryQuery struct {
	Type  string `form:"type" binding:"omitempty,stocktype"`
	Sort  string `form:"sort" binding:"omitempty,oneof=date stockType quantity"`
	Order string `form:"order" binding:"omitempty,oneof=asc desc"`
}

// List returns the inventory of every shop.
func (h *InventoryHandler) List(c *gin.Context) {
	c.JSON(http.StatusOK, h.ledger.Inventory())
}

// Get returns one shop's stock and deliveries.
func (h *InventoryHandler) Get(c *gin.Context) {
	shop, err := shopParam(c)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}

	inv, err := h.ledger.ShopInventory(shop)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"shopName": shop, "currentStock": inv.CurrentStock, "deliveries": inv.Deliveries})
}

// Deliveries returns a shop's delivery history filtered by type and sorted by the sort and order parameters.
func (h *InventoryHandler) Deliveries(c *gin.Context) {
	shop, err := shopParam(c)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}

	var q deliveryQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		writeError(c, h.logger, err)
		return
	}

	query := ledger.DeliveryQuery{SortBy: ledger.DeliverySortKey(q.Sort), Ascending: q.Order == "asc"}
	if q.Type != "" {
		query.StockType, _ = models.ParseStockType(q.Type)
	}

	deliveries, err := h.ledger.Deliveries(shop, query)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"shopName": shop, "deliveries": deliveries, "count": len(deliveries)})
}

// AddDelivery records a delivery to a shop.
func (h *InventoryHandler) AddDelivery(c *gin.Context) {
	shop, err := shopParam(c)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}

	var req deliveryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, h.logger, err)
		return
	}
	date, err := models.ParseDate(req.Date)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	stockType, err := models.ParseStockType(req.StockType)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}

	rec, err := h.ledger.AddDelivery(c.Request.Context(), shop, stockType, req.Quantity, date)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, rec)
}

// DeleteDelivery removes a delivery if the shop still holds its bags.
func (h *InventoryHandler) DeleteDelivery(c *gin.Context) {
	shop, err := shopParam(c)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}

	rec, err := h.ledger.DeleteDelivery(c.Request.Context(), shop, c.Param("id"))
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": rec})
}

// shopParam resolves the :shop path segment, accepting "3", "shop3" or "Shop 3".
func shopParam(c *gin.Context) (string, error) {
	raw := strings.TrimSpace(c.Param("shop"))
	shop, err := models.ResolveShop(raw)
	if err != nil {
		return "", &models.NotFoundError{Kind: "shop", ID: raw}
	}
	return shop, nil
}
