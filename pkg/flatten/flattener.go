// Package flatten projects a nested response tree onto the flat labeled
// record appended to the tabular store. The projection is one-way and
// display-oriented; it cannot be reversed into typed answers.
package flatten

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/goliatone/go-surveykit/pkg/answers"
	"github.com/goliatone/go-surveykit/pkg/model"
)

// Fixed metadata columns every record starts with.
const (
	ColumnSubmissionDate = "Submission Date"
	ColumnSubmissionTime = "Submission Time"
	ColumnSubmissionID   = "Submission ID"
)

const (
	dateLayout = "Jan 2, 2006"
	timeLayout = "03:04 PM"
)

// NoneSelected is the cell rendered for answered-but-empty sequences.
const NoneSelected = "None selected"

// NewSubmissionID builds an identifier from a millisecond timestamp and a
// short random suffix. Uniqueness is best-effort and the id is never used
// for deduplication.
func NewSubmissionID() string {
	return fmt.Sprintf("sub_%d_%s", time.Now().UnixMilli(), uuid.NewString()[:8])
}

// Option customises a Flattener.
type Option func(*Flattener)

// WithIDGenerator overrides how submission ids are minted, mostly for
// deterministic tests.
func WithIDGenerator(generate func() string) Option {
	return func(f *Flattener) {
		if generate != nil {
			f.generateID = generate
		}
	}
}

// Flattener turns (schema, tree, timestamp) into a Record. Apart from the
// freshly minted submission id the output is deterministic for identical
// inputs.
type Flattener struct {
	generateID func() string
}

// New constructs a Flattener with the default id generator.
func New(options ...Option) *Flattener {
	f := &Flattener{generateID: NewSubmissionID}
	for _, opt := range options {
		if opt != nil {
			opt(f)
		}
	}
	return f
}

// Flatten seeds the metadata columns, then walks the schema in declaration
// order so column order never depends on answer insertion order. Questions
// without an answer in the tree produce no column.
func (f *Flattener) Flatten(schema model.Schema, tree answers.Tree, submittedAt time.Time) *Record {
	record := NewRecord()
	record.Set(ColumnSubmissionDate, submittedAt.Format(dateLayout))
	record.Set(ColumnSubmissionTime, submittedAt.Format(timeLayout))
	record.Set(ColumnSubmissionID, f.generateID())

	for _, section := range schema.Sections {
		sectionAnswers := tree[section.ID]
		if len(sectionAnswers) == 0 {
			continue
		}
		for _, question := range section.Questions {
			answer, ok := sectionAnswers[question.ID]
			if !ok {
				continue
			}
			record.Set(schema.Label(question.ID), Render(question, answer))
		}
	}

	return record
}

// Render normalises one answer to its cell string. It is total over every
// answer shape: unknown values collapse to "".
func Render(q model.Question, a answers.Answer) string {
	switch v := a.(type) {
	case nil:
		return ""

	case answers.Scalar:
		return string(v)

	case answers.Tagged:
		text := strings.TrimSpace(v.Text)
		if text == "" {
			return v.Value
		}
		return fmt.Sprintf("%s (%s)", v.Value, text)

	case answers.List:
		if len(v) == 0 {
			return NoneSelected
		}
		parts := make([]string, 0, len(v))
		for _, choice := range v {
			parts = append(parts, renderChoice(choice))
		}
		return strings.Join(parts, ", ")

	case answers.Items:
		if len(v) == 0 {
			return NoneSelected
		}
		parts := make([]string, 0, len(v))
		for _, item := range v {
			parts = append(parts, renderPairs(item, fieldOrder(q), false))
		}
		return strings.Join(parts, ", ")

	case answers.Matrix:
		if len(v) == 0 {
			return NoneSelected
		}
		parts := make([]string, 0, len(v))
		for _, row := range v.RowIndexes() {
			parts = append(parts, renderPairs(v[row], columnOrder(q), false))
		}
		return strings.Join(parts, ", ")

	case answers.Fields:
		return renderPairs(v, fieldOrder(q), true)

	case answers.ScaleMap:
		rendered := make(map[string]string, len(v))
		for key, rating := range v {
			rendered[key] = rating.String()
		}
		return renderPairs(rendered, q.RatingKeys(), true)
	}

	return ""
}

func renderChoice(c answers.Choice) string {
	if !c.HasText {
		return c.Value
	}
	if strings.TrimSpace(c.Text) == "" {
		return fmt.Sprintf("value: %s", c.Value)
	}
	return fmt.Sprintf("value: %s; text: %s", c.Value, c.Text)
}

// renderPairs joins non-empty entries as "key: value" with "; ". Keys are
// emitted in the supplied preferred order first, stragglers sorted after;
// deriveKeys switches raw keys to human-readable ones for the mapping
// shapes the spreadsheet shows directly.
func renderPairs(entries map[string]string, preferred []string, deriveKeys bool) string {
	ordered := make([]string, 0, len(entries))
	seen := make(map[string]struct{}, len(entries))
	for _, key := range preferred {
		if _, ok := entries[key]; ok {
			ordered = append(ordered, key)
			seen[key] = struct{}{}
		}
	}
	var stragglers []string
	for key := range entries {
		if _, ok := seen[key]; !ok {
			stragglers = append(stragglers, key)
		}
	}
	sort.Strings(stragglers)
	ordered = append(ordered, stragglers...)

	parts := make([]string, 0, len(ordered))
	for _, key := range ordered {
		value := entries[key]
		if value == "" {
			continue
		}
		name := key
		if deriveKeys {
			name = model.DeriveLabel(key)
		}
		parts = append(parts, fmt.Sprintf("%s: %s", name, value))
	}
	return strings.Join(parts, "; ")
}

func fieldOrder(q model.Question) []string {
	keys := make([]string, 0, len(q.Fields))
	for _, field := range q.Fields {
		keys = append(keys, field.Key)
	}
	return keys
}

func columnOrder(q model.Question) []string {
	keys := make([]string, 0, len(q.Columns))
	for _, col := range q.Columns {
		keys = append(keys, col.Key)
	}
	return keys
}
