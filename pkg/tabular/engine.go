package tabular

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/goliatone/go-surveykit/pkg/flatten"
)

// Option customises an Engine.
type Option func(*Engine)

// WithPriorityOrder sets the preferred column order used when the engine
// seeds an empty store. Entries missing from the first record are skipped;
// record columns outside the list follow in record order.
func WithPriorityOrder(labels []string) Option {
	return func(e *Engine) {
		e.priority = append([]string(nil), labels...)
	}
}

// WithLogger sets the logger used for swallowed cosmetic failures.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// Engine reconciles record columns against the store's header row and
// appends aligned data rows.
//
// Concurrent writers are resolved by the store's own write ordering: the
// last header write wins. The engine offers no compare-and-swap; a lost
// header race can drop a tail column until the next submission re-adds it.
type Engine struct {
	store    RowStore
	priority []string
	logger   *slog.Logger
}

// New constructs an Engine over a store.
func New(store RowStore, options ...Option) (*Engine, error) {
	if store == nil {
		return nil, errors.New("tabular: row store is required")
	}
	e := &Engine{
		store:  store,
		logger: slog.Default(),
	}
	for _, opt := range options {
		if opt != nil {
			opt(e)
		}
	}
	return e, nil
}

// Sync reconciles the record against the current headers and appends one
// row. The four store steps run strictly in order with no retries and no
// rollback: a header write that lands before a failed append leaves widened
// headers without a row, which is an accepted tolerance.
func (e *Engine) Sync(ctx context.Context, record *flatten.Record) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if record == nil || record.Len() == 0 {
		return errors.New("tabular: record is empty")
	}

	existing, err := e.store.ReadHeaderRow(ctx)
	if err != nil {
		return fmt.Errorf("tabular: read headers: %w", err)
	}

	headers := Reconcile(existing, record.Keys(), e.priority)
	firstWrite := len(existing) == 0

	if firstWrite || len(headers) > len(existing) {
		if err := e.store.WriteHeaderRow(ctx, headers); err != nil {
			return fmt.Errorf("tabular: write headers: %w", err)
		}
	}

	if firstWrite {
		e.formatHeaders(ctx, len(headers))
	}

	row := make([]string, len(headers))
	for i, header := range headers {
		row[i] = record.Value(header)
	}
	if err := e.store.AppendRow(ctx, row); err != nil {
		return fmt.Errorf("tabular: append row: %w", err)
	}
	return nil
}

// formatHeaders runs the optional cosmetic pass. Failures are logged and
// swallowed; formatting must never fail a submission.
func (e *Engine) formatHeaders(ctx context.Context, columnCount int) {
	formatter, ok := e.store.(HeaderFormatter)
	if !ok {
		return
	}
	if err := formatter.FormatHeaderRow(ctx, columnCount); err != nil {
		e.logger.Warn("header formatting failed", "error", err)
	}
}

// Reconcile merges a record's column labels into the existing header
// sequence. Existing headers form a fixed ordered prefix; new labels join
// at the tail in record order. An empty header set is seeded from the
// priority list (filtered to present labels) followed by the remainder in
// record order.
func Reconcile(existing, recordKeys, priority []string) []string {
	if len(existing) == 0 {
		return seedHeaders(recordKeys, priority)
	}

	headers := append([]string(nil), existing...)
	known := make(map[string]struct{}, len(existing))
	for _, header := range existing {
		known[header] = struct{}{}
	}
	for _, key := range recordKeys {
		if _, ok := known[key]; ok {
			continue
		}
		headers = append(headers, key)
		known[key] = struct{}{}
	}
	return headers
}

func seedHeaders(recordKeys, priority []string) []string {
	present := make(map[string]struct{}, len(recordKeys))
	for _, key := range recordKeys {
		present[key] = struct{}{}
	}

	headers := make([]string, 0, len(recordKeys))
	seen := make(map[string]struct{}, len(recordKeys))
	for _, label := range priority {
		if _, ok := present[label]; !ok {
			continue
		}
		if _, dup := seen[label]; dup {
			continue
		}
		headers = append(headers, label)
		seen[label] = struct{}{}
	}
	for _, key := range recordKeys {
		if _, dup := seen[key]; dup {
			continue
		}
		headers = append(headers, key)
		seen[key] = struct{}{}
	}
	return headers
}
