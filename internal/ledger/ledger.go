// Package ledger holds the two in-memory ledgers of the tracker: per-shop
// stock levels with their delivery history, and the sale records with their
// derived reconciliation fields.
//
// Every mutation either fully applies or returns an error with the ledger
// unchanged. Coupling the two ledgers is the job of the reconciliation
// engine; nothing here knows about the other ledger.
package ledger

import "github.com/google/uuid"

type options struct {
	newID func() string
}

// Option configures a ledger.
type Option func(*options)

// WithIDGenerator replaces the uuid generator used for new records.
func WithIDGenerator(fn func() string) Option {
	return func(o *options) {
		if fn != nil {
			o.newID = fn
		}
	}
}

func buildOptions(opts []Option) options {
	o := options{newID: uuid.NewString}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
