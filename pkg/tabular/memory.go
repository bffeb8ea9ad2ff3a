package tabular

import (
	"context"
	"sync"
)

// MemoryStore is an in-process RowStore for tests and local development.
type MemoryStore struct {
	mu      sync.Mutex
	headers []string
	rows    [][]string

	// FormatErr, when set, is returned by FormatHeaderRow to exercise the
	// engine's swallow-and-log path.
	FormatErr error

	formatCalls int
}

// NewMemoryStore returns an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// ReadHeaderRow implements RowStore.
func (s *MemoryStore) ReadHeaderRow(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.headers...), nil
}

// WriteHeaderRow implements RowStore.
func (s *MemoryStore) WriteHeaderRow(ctx context.Context, headers []string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.headers = append([]string(nil), headers...)
	return nil
}

// AppendRow implements RowStore.
func (s *MemoryStore) AppendRow(ctx context.Context, row []string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rows = append(s.rows, append([]string(nil), row...))
	return nil
}

// FormatHeaderRow implements HeaderFormatter.
func (s *MemoryStore) FormatHeaderRow(ctx context.Context, columnCount int) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.formatCalls++
	return s.FormatErr
}

// Headers returns a copy of the current header row.
func (s *MemoryStore) Headers() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.headers...)
}

// Rows returns a copy of the appended data rows.
func (s *MemoryStore) Rows() [][]string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([][]string, len(s.rows))
	for i, row := range s.rows {
		out[i] = append([]string(nil), row...)
	}
	return out
}

// FormatCalls reports how many times the cosmetic pass ran.
func (s *MemoryStore) FormatCalls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.formatCalls
}
