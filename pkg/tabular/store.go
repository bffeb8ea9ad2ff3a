// Package tabular reconciles flat records against an append-only,
// schema-evolving tabular store: headers only grow at the tail, and every
// appended row is aligned to the header width at append time.
package tabular

import "context"

// RowStore is the narrow contract the engine needs from a remote tabular
// store. Implementations wrap their own transport and auth.
type RowStore interface {
	// ReadHeaderRow returns the current header row; empty when the store
	// has never been written.
	ReadHeaderRow(ctx context.Context) ([]string, error)

	// WriteHeaderRow overwrites the header row in full. Idempotent.
	WriteHeaderRow(ctx context.Context, headers []string) error

	// AppendRow appends one data row aligned to the current headers.
	AppendRow(ctx context.Context, row []string) error
}

// HeaderFormatter is the optional cosmetic capability a store may offer.
// The engine invokes it once, after seeding headers, and swallows failures.
type HeaderFormatter interface {
	FormatHeaderRow(ctx context.Context, columnCount int) error
}
