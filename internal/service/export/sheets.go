package export

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/mamadbah2/cement/internal/domain/models"
	"github.com/mamadbah2/cement/internal/repository/sheets"
)

const (
	mirrorRange = SheetName + "!A:J"
	mirrorStart = SheetName + "!A1"
)

// SalesSource lists the sales to mirror.
type SalesSource interface {
	Sales() []models.SaleRecord
}

// SheetsMirror replaces the "Sales Report" tab of a spreadsheet with the
// current sales table.
type SheetsMirror struct {
	repo   sheets.Repository
	source SalesSource
	logger *zap.Logger
}

// NewSheetsMirror wires a mirror over a sheets repository.
func NewSheetsMirror(repo sheets.Repository, source SalesSource, logger *zap.Logger) *SheetsMirror {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SheetsMirror{repo: repo, source: source, logger: logger}
}

// Sync clears the mirror range and writes the header and every sale.
// It returns the number of sale rows written.
func (m *SheetsMirror) Sync(ctx context.Context) (int, error) {
	rows := Table(m.source.Sales())

	values := make([][]interface{}, 0, len(rows)+1)
	header := make([]interface{}, len(Headers))
	for i, h := range Headers {
		header[i] = h
	}
	values = append(values, header)
	for _, r := range rows {
		values = append(values, r.Values())
	}

	if err := m.repo.ClearRange(ctx, mirrorRange); err != nil {
		return 0, fmt.Errorf("clear sales mirror: %w", err)
	}
	if err := m.repo.UpdateRange(ctx, mirrorStart, values); err != nil {
		return 0, fmt.Errorf("write sales mirror: %w", err)
	}

	m.logger.Info("sales mirrored to google sheets", zap.Int("rows", len(rows)))
	return len(rows), nil
}
