package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/mamadbah2/cement/internal/domain/models"
)

// SalesLedger records, edits and removes sales.
type SalesLedger interface {
	CreateSale(ctx context.Context, in models.SaleInput) (models.SaleRecord, error)
	UpdateSale(ctx context.Context, id string, in models.SaleInput) (models.SaleRecord, error)
	DeleteSale(ctx context.Context, id string) (models.SaleRecord, error)
}

// SalesFinder lists sales matching a filter.
type SalesFinder interface {
	Filter(f models.SalesFilter) []models.SaleRecord
}

// SalesHandler serves the /api/sales resource.
type SalesHandler struct {
	ledger SalesLedger
	finder SalesFinder
	logger *zap.Logger
}

// NewSalesHandler constructs the sales HTTP handler.
func NewSalesHandler(ledger SalesLedger, finder SalesFinder, logger *zap.Logger) *SalesHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SalesHandler{ledger: ledger, finder: finder, logger: logger}
}

type saleRequest struct {
	Date          string          `json:"date" binding:"required,datestr"`
	ShopName      string          `json:"shopName" binding:"required,shop"`
	StockType     string          `json:"stockType" binding:"required,stocktype"`
	BagsSold      *int            `json:"bagsSold" binding:"required,gte=0"`
	PricePerBag   decimal.Decimal `json:"pricePerBag" binding:"gte=0"`
	TotalTransfer decimal.Decimal `json:"totalTransfer" binding:"gte=0"`
	Expenses      decimal.Decimal `json:"expenses" binding:"gte=0"`
	Notes         string          `json:"notes" binding:"max=500"`
}

func (r saleRequest) input() (models.SaleInput, error) {
	date, err := models.ParseDate(r.Date)
	if err != nil {
		return models.SaleInput{}, err
	}
	stockType, err := models.ParseStockType(r.StockType)
	if err != nil {
		return models.SaleInput{}, err
	}
	return models.SaleInput{
		Date:          date,
		ShopName:      r.ShopName,
		StockType:     stockType,
		BagsSold:      *r.BagsSold,
		PricePerBag:   r.PricePerBag,
		TotalTransfer: r.TotalTransfer,
		Expenses:      r.Expenses,
		Notes:         r.Notes,
	}, nil
}

// List returns the sales matching the shop, from and to query parameters.
func (h *SalesHandler) List(c *gin.Context) {
	filter, err := bindFilter(c)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}

	sales := h.finder.Filter(filter)
	c.JSON(http.StatusOK, gin.H{"sales": sales, "count": len(sales)})
}

// Create records a new sale.
func (h *SalesHandler) Create(c *gin.Context) {
	in, ok := h.bindSale(c)
	if !ok {
		return
	}

	rec, err := h.ledger.CreateSale(c.Request.Context(), in)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, rec)
}

// Update replaces the fields of an existing sale.
func (h *SalesHandler) Update(c *gin.Context) {
	in, ok := h.bindSale(c)
	if !ok {
		return
	}

	rec, err := h.ledger.UpdateSale(c.Request.Context(), c.Param("id"), in)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, rec)
}

// Delete removes a sale and returns its bags to stock.
func (h *SalesHandler) Delete(c *gin.Context) {
	rec, err := h.ledger.DeleteSale(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": rec})
}

func (h *SalesHandler) bindSale(c *gin.Context) (models.SaleInput, bool) {
	var req saleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, h.logger, err)
		return models.SaleInput{}, false
	}
	in, err := req.input()
	if err != nil {
		writeError(c, h.logger, err)
		return models.SaleInput{}, false
	}
	return in, true
}

type filterQuery struct {
	Shop string `form:"shop"`
	From string `form:"from" binding:"omitempty,datestr"`
	To   string `form:"to" binding:"omitempty,datestr"`
}

// bindFilter reads the shared shop, from and to query parameters.
func bindFilter(c *gin.Context) (models.SalesFilter, error) {
	var q filterQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		return models.SalesFilter{}, err
	}

	f := models.SalesFilter{Shop: q.Shop}
	var err error
	if q.From != "" {
		if f.From, err = models.ParseDate(q.From); err != nil {
			return models.SalesFilter{}, err
		}
	}
	if q.To != "" {
		if f.To, err = models.ParseDate(q.To); err != nil {
			return models.SalesFilter{}, err
		}
	}
	if !f.From.IsZero() && !f.To.IsZero() && f.From.After(f.To) {
		return models.SalesFilter{}, &models.ValidationError{Field: "from", Message: "must not be after to"}
	}
	return f, nil
}
