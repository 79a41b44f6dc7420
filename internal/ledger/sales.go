package ledger

import (
	"slices"

	"github.com/shopspring/decimal"

	"github.com/mamadbah2/cement/internal/domain/models"
)

// ComputeDerived returns the expected revenue of a sale and its discrepancy
// against what was transferred plus expenses. A negative discrepancy is a
// shortfall, a positive one a surplus.
func ComputeDerived(bagsSold int, pricePerBag, totalTransfer, expenses decimal.Decimal) (expectedRevenue, discrepancy decimal.Decimal) {
	expectedRevenue = pricePerBag.Mul(decimal.NewFromInt(int64(bagsSold)))
	discrepancy = expectedRevenue.Sub(totalTransfer.Add(expenses))
	return expectedRevenue, discrepancy
}

func buildRecord(id string, in models.SaleInput) models.SaleRecord {
	revenue, discrepancy := ComputeDerived(in.BagsSold, in.PricePerBag, in.TotalTransfer, in.Expenses)
	return models.SaleRecord{
		ID:              id,
		SaleInput:       in,
		ExpectedRevenue: revenue,
		Discrepancy:     discrepancy,
	}
}

// SaleLedger stores sale records newest first. It is not safe for concurrent use.
type SaleLedger struct {
	records []models.SaleRecord
	opts    options
}

// NewSaleLedger builds a ledger from stored records. Derived fields are
// recomputed so they can never drift from the inputs.
func NewSaleLedger(records []models.SaleRecord, opts ...Option) *SaleLedger {
	l := &SaleLedger{
		records: make([]models.SaleRecord, 0, len(records)),
		opts:    buildOptions(opts),
	}
	for _, r := range records {
		l.records = append(l.records, buildRecord(r.ID, r.SaleInput))
	}
	return l
}

func (l *SaleLedger) indexOf(id string) int {
	return slices.IndexFunc(l.records, func(r models.SaleRecord) bool { return r.ID == id })
}

// Len returns the number of stored sales.
func (l *SaleLedger) Len() int { return len(l.records) }

// Get returns the sale with id.
func (l *SaleLedger) Get(id string) (models.SaleRecord, error) {
	idx := l.indexOf(id)
	if idx < 0 {
		return models.SaleRecord{}, &models.NotFoundError{Kind: "sale", ID: id}
	}
	return l.records[idx], nil
}

// List returns a copy of every sale, newest first.
func (l *SaleLedger) List() []models.SaleRecord {
	return slices.Clone(l.records)
}

// Insert stores a new sale under a fresh id.
func (l *SaleLedger) Insert(in models.SaleInput) models.SaleRecord {
	rec := buildRecord(l.opts.newID(), in)
	l.records = slices.Insert(l.records, 0, rec)
	return rec
}

// Replace swaps the inputs of sale id in place and returns the previous and
// the updated record.
func (l *SaleLedger) Replace(id string, in models.SaleInput) (previous, updated models.SaleRecord, err error) {
	idx := l.indexOf(id)
	if idx < 0 {
		return models.SaleRecord{}, models.SaleRecord{}, &models.NotFoundError{Kind: "sale", ID: id}
	}
	previous = l.records[idx]
	updated = buildRecord(id, in)
	l.records[idx] = updated
	return previous, updated, nil
}

// Remove deletes sale id and returns it with its former position.
func (l *SaleLedger) Remove(id string) (models.SaleRecord, int, error) {
	idx := l.indexOf(id)
	if idx < 0 {
		return models.SaleRecord{}, -1, &models.NotFoundError{Kind: "sale", ID: id}
	}
	rec := l.records[idx]
	l.records = slices.Delete(l.records, idx, idx+1)
	return rec, idx, nil
}

// Restore puts rec back verbatim: it overwrites the sale with the same id
// or, when absent, inserts it at idx.
func (l *SaleLedger) Restore(idx int, rec models.SaleRecord) {
	if existing := l.indexOf(rec.ID); existing >= 0 {
		l.records[existing] = rec
		return
	}
	idx = min(max(idx, 0), len(l.records))
	l.records = slices.Insert(l.records, idx, rec)
}
