package handlers

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/cement/internal/domain/models"
	"github.com/mamadbah2/cement/internal/service/export"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// Reports computes the dashboard figures.
type Reports interface {
	SalesFinder
	Summary(f models.SalesFilter) models.SalesReport
}

// SheetsSyncer mirrors the sales table to Google Sheets.
type SheetsSyncer interface {
	Sync(ctx context.Context) (int, error)
}

// ReportHandler serves the /api/reports endpoints.
type ReportHandler struct {
	reports Reports
	mirror  SheetsSyncer
	logger  *zap.Logger
	now     func() time.Time
}

// NewReportHandler constructs the report HTTP handler. mirror may be nil
// when Google Sheets is not configured.
func NewReportHandler(reports Reports, mirror SheetsSyncer, loc *time.Location, logger *zap.Logger) *ReportHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	if loc == nil {
		loc = time.UTC
	}
	return &ReportHandler{
		reports: reports,
		mirror:  mirror,
		logger:  logger,
		now:     func() time.Time { return time.Now().In(loc) },
	}
}

// Summary returns totals and per-shop performance for the filtered sales.
func (h *ReportHandler) Summary(c *gin.Context) {
	filter, err := bindFilter(c)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, h.reports.Summary(filter))
}

// Export downloads the filtered sales as an xlsx workbook.
func (h *ReportHandler) Export(c *gin.Context) {
	filter, err := bindFilter(c)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}

	sales := h.reports.Filter(filter)
	var buf bytes.Buffer
	if err := export.WriteWorkbook(&buf, sales); err != nil {
		writeError(c, h.logger, err)
		return
	}

	name := export.FileName(models.DateOf(h.now()))
	h.logger.Info("sales report exported", zap.String("file", name), zap.Int("rows", len(sales)))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}

// SheetsSync mirrors every sale to the configured spreadsheet.
func (h *ReportHandler) SheetsSync(c *gin.Context) {
	if h.mirror == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "google sheets is not configured"})
		return
	}

	rows, err := h.mirror.Sync(c.Request.Context())
	if err != nil {
		h.logger.Error("sheets sync failed", zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "unable to sync google sheets"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"rows": rows})
}
