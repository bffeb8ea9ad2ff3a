package flatten

import (
	"bytes"
	"encoding/json"
)

// Record is the flat, ordered projection of one submission: column label →
// cell value, with insertion order as the display order.
type Record struct {
	keys   []string
	values map[string]string
}

// NewRecord returns an empty record.
func NewRecord() *Record {
	return &Record{values: make(map[string]string)}
}

// Set stores a value under a column label. First insertion fixes the
// label's position; later writes only replace the value.
func (r *Record) Set(label, value string) {
	if _, exists := r.values[label]; !exists {
		r.keys = append(r.keys, label)
	}
	r.values[label] = value
}

// Get returns the value for a label and whether the record has the column.
func (r *Record) Get(label string) (string, bool) {
	value, ok := r.values[label]
	return value, ok
}

// Value returns the cell for a label, or "" when the record lacks it. This
// is what row alignment uses for columns older submissions introduced.
func (r *Record) Value(label string) string {
	return r.values[label]
}

// Keys returns the column labels in insertion order.
func (r *Record) Keys() []string {
	out := make([]string, len(r.keys))
	copy(out, r.keys)
	return out
}

// Len returns the column count.
func (r *Record) Len() int {
	return len(r.keys)
}

// MarshalJSON writes the record as a JSON object preserving column order,
// which standard maps would destroy.
func (r *Record) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, key := range r.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		name, err := json.Marshal(key)
		if err != nil {
			return nil, err
		}
		value, err := json.Marshal(r.values[key])
		if err != nil {
			return nil, err
		}
		buf.Write(name)
		buf.WriteByte(':')
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
