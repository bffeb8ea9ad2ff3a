// Package answers defines the typed values a respondent can hold for each
// question kind, the wire decoding that produces them, the edit operations
// that mutate them, and the per-type emptiness contract used for gating.
package answers

import (
	"sort"
	"strconv"
)

// Answer is the closed tagged variant of respondent values. Each question
// type maps to exactly one concrete shape; see Decode.
type Answer interface {
	isAnswer()
}

// Scalar holds the plain string value of text, textarea, number and select
// questions, and of radio selections without a free-text companion.
type Scalar string

func (Scalar) isAnswer() {}

// Tagged is a selected option paired with optional free text, produced by
// radio options flagged hasTextField.
type Tagged struct {
	Value string `json:"value"`
	Text  string `json:"text,omitempty"`
}

func (Tagged) isAnswer() {}

// Choice is one element of a checkbox selection. Choices for options without
// a text field leave Text empty and HasText false.
type Choice struct {
	Value   string `json:"value"`
	Text    string `json:"text,omitempty"`
	HasText bool   `json:"-"`
}

// List is the ordered checkbox selection; insertion order is preserved.
type List []Choice

func (List) isAnswer() {}

// Contains reports whether an option value is currently selected.
func (l List) Contains(value string) bool {
	for _, c := range l {
		if c.Value == value {
			return true
		}
	}
	return false
}

// Fields holds keyed string inputs for group and percentage questions and
// for the items of repeatable questions.
type Fields map[string]string

func (Fields) isAnswer() {}

// Items is the ordered sequence of repeatable entries.
type Items []Fields

func (Items) isAnswer() {}

// Matrix holds table answers keyed by row index, then column key. Only
// edited cells are present.
type Matrix map[int]map[string]string

func (Matrix) isAnswer() {}

// RowIndexes returns the populated row indexes in ascending order.
func (m Matrix) RowIndexes() []int {
	idx := make([]int, 0, len(m))
	for i := range m {
		idx = append(idx, i)
	}
	sort.Ints(idx)
	return idx
}

// Rating is a single rated value: an integer within the question scale, or
// the "N/A" sentinel.
type Rating struct {
	Value int
	NA    bool
}

// String renders the rating the way it is persisted.
func (r Rating) String() string {
	if r.NA {
		return "N/A"
	}
	return strconv.Itoa(r.Value)
}

// ScaleMap holds rating and rating-table answers keyed by item key.
type ScaleMap map[string]Rating

func (ScaleMap) isAnswer() {}
