package answers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/goliatone/go-surveykit/pkg/model"
)

// Tree is the session response tree: section id → question id → answer.
type Tree map[string]map[string]Answer

// Answer returns the stored answer for a question, or nil when unanswered.
func (t Tree) Answer(sectionID, questionID string) Answer {
	return t[sectionID][questionID]
}

// Set stores an answer, creating the section bucket on first write.
func (t Tree) Set(sectionID, questionID string, a Answer) {
	bucket, ok := t[sectionID]
	if !ok {
		bucket = make(map[string]Answer)
		t[sectionID] = bucket
	}
	bucket[questionID] = a
}

// RawTree is the wire shape of a submitted response tree before answers are
// typed against the schema.
type RawTree map[string]map[string]json.RawMessage

// DecodeTree types a raw response tree against the schema. Sections and
// questions the schema does not declare are dropped; the flattener iterates
// schema order, so untyped strays could never surface anyway.
func DecodeTree(schema model.Schema, raw RawTree) (Tree, error) {
	tree := make(Tree, len(raw))
	for _, section := range schema.Sections {
		rawSection, ok := raw[section.ID]
		if !ok {
			continue
		}
		for _, question := range section.Questions {
			payload, ok := rawSection[question.ID]
			if !ok {
				continue
			}
			answer, err := Decode(question, payload)
			if err != nil {
				return nil, fmt.Errorf("answers: section %q question %q: %w", section.ID, question.ID, err)
			}
			if answer == nil {
				continue
			}
			tree.Set(section.ID, question.ID, answer)
		}
	}
	return tree, nil
}

// Decode types a single raw answer according to the question. JSON null
// decodes to a nil Answer.
func Decode(q model.Question, raw json.RawMessage) (Answer, error) {
	if isNull(raw) {
		return nil, nil
	}

	switch q.Type {
	case model.QuestionTypeText, model.QuestionTypeTextarea,
		model.QuestionTypeNumber, model.QuestionTypeSelect:
		s, err := decodeString(raw)
		if err != nil {
			return nil, err
		}
		return Scalar(s), nil

	case model.QuestionTypeRadio:
		return decodeRadio(raw)

	case model.QuestionTypeCheckbox:
		return decodeCheckbox(q, raw)

	case model.QuestionTypeTable:
		return decodeTable(raw)

	case model.QuestionTypeRepeatable:
		return decodeRepeatable(raw)

	case model.QuestionTypeGroup, model.QuestionTypePercentage:
		return decodeFields(raw)

	case model.QuestionTypeRating, model.QuestionTypeRatingTable:
		return decodeScaleMap(q, raw)
	}

	return nil, fmt.Errorf("unsupported question type %q", q.Type)
}

func isNull(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null"))
}

// decodeString accepts JSON strings and, for tolerance with numeric inputs
// serialised as numbers, bare JSON numbers.
func decodeString(raw json.RawMessage) (string, error) {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s, nil
	}
	var f float64
	if err := json.Unmarshal(raw, &f); err == nil {
		return strconv.FormatFloat(f, 'f', -1, 64), nil
	}
	return "", fmt.Errorf("expected string, got %s", compact(raw))
}

type taggedWire struct {
	Value     string `json:"value"`
	Text      string `json:"text"`
	TextField string `json:"textField"`
}

func (w taggedWire) text() string {
	if w.Text != "" {
		return w.Text
	}
	return w.TextField
}

func decodeRadio(raw json.RawMessage) (Answer, error) {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return Scalar(s), nil
	}
	var wire taggedWire
	if err := json.Unmarshal(raw, &wire); err != nil || wire.Value == "" {
		return nil, fmt.Errorf("expected string or tagged value, got %s", compact(raw))
	}
	return Tagged{Value: wire.Value, Text: wire.text()}, nil
}

func decodeCheckbox(q model.Question, raw json.RawMessage) (Answer, error) {
	var elements []json.RawMessage
	if err := json.Unmarshal(raw, &elements); err != nil {
		return nil, fmt.Errorf("expected array, got %s", compact(raw))
	}
	list := make(List, 0, len(elements))
	for _, element := range elements {
		var s string
		if err := json.Unmarshal(element, &s); err == nil {
			list = append(list, Choice{Value: s})
			continue
		}
		var wire taggedWire
		if err := json.Unmarshal(element, &wire); err != nil || wire.Value == "" {
			return nil, fmt.Errorf("expected string or tagged element, got %s", compact(element))
		}
		list = append(list, Choice{Value: wire.Value, Text: wire.text(), HasText: optionHasText(q, wire.Value)})
	}
	return list, nil
}

func optionHasText(q model.Question, value string) bool {
	for _, opt := range q.Options {
		if opt.Value == value {
			return opt.HasTextField
		}
	}
	return false
}

// decodeTable accepts the sparse row array produced by per-cell editing;
// null rows mark indexes that were never touched.
func decodeTable(raw json.RawMessage) (Answer, error) {
	var rows []map[string]string
	if err := json.Unmarshal(raw, &rows); err != nil {
		return nil, fmt.Errorf("expected array of cell maps, got %s", compact(raw))
	}
	matrix := make(Matrix)
	for i, row := range rows {
		if len(row) == 0 {
			continue
		}
		cells := make(map[string]string, len(row))
		for key, value := range row {
			cells[key] = value
		}
		matrix[i] = cells
	}
	return matrix, nil
}

func decodeRepeatable(raw json.RawMessage) (Answer, error) {
	var entries []map[string]string
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, fmt.Errorf("expected array of field maps, got %s", compact(raw))
	}
	items := make(Items, 0, len(entries))
	for _, entry := range entries {
		fields := make(Fields, len(entry))
		for key, value := range entry {
			fields[key] = value
		}
		items = append(items, fields)
	}
	return items, nil
}

func decodeFields(raw json.RawMessage) (Answer, error) {
	var entries map[string]json.RawMessage
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, fmt.Errorf("expected field map, got %s", compact(raw))
	}
	fields := make(Fields, len(entries))
	for key, value := range entries {
		if isNull(value) {
			continue
		}
		s, err := decodeString(value)
		if err != nil {
			return nil, fmt.Errorf("field %q: %w", key, err)
		}
		fields[key] = s
	}
	return fields, nil
}

func decodeScaleMap(q model.Question, raw json.RawMessage) (Answer, error) {
	var entries map[string]json.RawMessage
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, fmt.Errorf("expected rating map, got %s", compact(raw))
	}
	scale := make(ScaleMap, len(entries))
	for key, value := range entries {
		if isNull(value) {
			continue
		}
		var n int
		if err := json.Unmarshal(value, &n); err == nil {
			if n < 1 || n > q.ScaleMax() {
				return nil, fmt.Errorf("item %q: rating %d out of range 1..%d", key, n, q.ScaleMax())
			}
			scale[key] = Rating{Value: n}
			continue
		}
		var s string
		if err := json.Unmarshal(value, &s); err == nil && s == "N/A" && q.AllowsNA() {
			scale[key] = Rating{NA: true}
			continue
		}
		return nil, fmt.Errorf("item %q: expected rating 1..%d or \"N/A\", got %s", key, q.ScaleMax(), compact(value))
	}
	return scale, nil
}

func compact(raw json.RawMessage) string {
	var buf bytes.Buffer
	if err := json.Compact(&buf, raw); err != nil {
		return string(raw)
	}
	return buf.String()
}
