package answers

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/goliatone/go-surveykit/pkg/model"
)

// SetText replaces the scalar value of text, textarea, number and select
// questions. Free text is sanitized; numeric range and step stay display
// hints and are not enforced here.
func SetText(q model.Question, text string) (Answer, error) {
	switch q.Type {
	case model.QuestionTypeText, model.QuestionTypeTextarea:
		return Scalar(sanitizeText(text)), nil
	case model.QuestionTypeNumber, model.QuestionTypeSelect:
		return Scalar(text), nil
	}
	return nil, fmt.Errorf("answers: question %q (%s) does not take scalar text", q.ID, q.Type)
}

// SelectOption records a radio selection. Options flagged hasTextField
// produce a Tagged answer with empty text; any previous free text is
// discarded when the selection moves.
func SelectOption(q model.Question, value string) (Answer, error) {
	if q.Type != model.QuestionTypeRadio {
		return nil, fmt.Errorf("answers: question %q (%s) is not a radio", q.ID, q.Type)
	}
	opt, ok := findOption(q, value)
	if !ok {
		return nil, fmt.Errorf("answers: question %q has no option %q", q.ID, value)
	}
	if opt.HasTextField {
		return Tagged{Value: opt.Value}, nil
	}
	return Scalar(opt.Value), nil
}

// SetSelectedText updates the free-text companion of the current radio
// selection.
func SetSelectedText(q model.Question, current Answer, text string) (Answer, error) {
	tagged, ok := current.(Tagged)
	if !ok {
		return nil, fmt.Errorf("answers: question %q has no text-bearing selection", q.ID)
	}
	tagged.Text = sanitizeText(text)
	return tagged, nil
}

// Toggle flips a checkbox option. Checking appends to the selection tail,
// unchecking removes the element while preserving the order of the rest.
func Toggle(q model.Question, current Answer, value string) (Answer, error) {
	if q.Type != model.QuestionTypeCheckbox {
		return nil, fmt.Errorf("answers: question %q (%s) is not a checkbox", q.ID, q.Type)
	}
	opt, ok := findOption(q, value)
	if !ok {
		return nil, fmt.Errorf("answers: question %q has no option %q", q.ID, value)
	}

	list, err := asList(q, current)
	if err != nil {
		return nil, err
	}
	if list.Contains(opt.Value) {
		next := make(List, 0, len(list)-1)
		for _, choice := range list {
			if choice.Value != opt.Value {
				next = append(next, choice)
			}
		}
		return next, nil
	}
	return append(append(List{}, list...), Choice{Value: opt.Value, HasText: opt.HasTextField}), nil
}

// SetChoiceText updates the free text of a checked text-bearing option.
func SetChoiceText(q model.Question, current Answer, value, text string) (Answer, error) {
	list, err := asList(q, current)
	if err != nil {
		return nil, err
	}
	next := append(List{}, list...)
	for i, choice := range next {
		if choice.Value == value && choice.HasText {
			next[i].Text = sanitizeText(text)
			return next, nil
		}
	}
	return nil, fmt.Errorf("answers: question %q has no checked text option %q", q.ID, value)
}

// SetCell writes one table cell. Read-only columns and cells the schema
// prefills are rejected.
func SetCell(q model.Question, current Answer, rowIndex int, columnKey, value string) (Answer, error) {
	if q.Type != model.QuestionTypeTable {
		return nil, fmt.Errorf("answers: question %q (%s) is not a table", q.ID, q.Type)
	}
	if rowIndex < 0 || rowIndex >= len(q.TableRows) {
		return nil, fmt.Errorf("answers: question %q row %d out of range", q.ID, rowIndex)
	}
	column, ok := findColumn(q, columnKey)
	if !ok {
		return nil, fmt.Errorf("answers: question %q has no column %q", q.ID, columnKey)
	}
	if column.Readonly {
		return nil, fmt.Errorf("answers: question %q column %q is read-only", q.ID, columnKey)
	}
	if q.TableRows[rowIndex][columnKey] != "" {
		return nil, fmt.Errorf("answers: question %q cell %d/%q is prefilled", q.ID, rowIndex, columnKey)
	}

	matrix, err := asMatrix(q, current)
	if err != nil {
		return nil, err
	}
	next := make(Matrix, len(matrix)+1)
	for i, row := range matrix {
		cells := make(map[string]string, len(row))
		for k, v := range row {
			cells[k] = v
		}
		next[i] = cells
	}
	if next[rowIndex] == nil {
		next[rowIndex] = make(map[string]string, 1)
	}
	next[rowIndex][columnKey] = value
	return next, nil
}

// AppendItem adds an all-empty entry to a repeatable answer, up to the
// question's item limit.
func AppendItem(q model.Question, current Answer) (Answer, error) {
	if q.Type != model.QuestionTypeRepeatable {
		return nil, fmt.Errorf("answers: question %q (%s) is not repeatable", q.ID, q.Type)
	}
	items, err := asItems(q, current)
	if err != nil {
		return nil, err
	}
	if len(items) >= q.ItemLimit() {
		return nil, fmt.Errorf("answers: question %q is capped at %d items", q.ID, q.ItemLimit())
	}
	entry := make(Fields, len(q.Fields))
	for _, field := range q.Fields {
		entry[field.Key] = ""
	}
	return append(append(Items{}, items...), entry), nil
}

// RemoveItem deletes a repeatable entry by index, preserving the relative
// order of the rest.
func RemoveItem(q model.Question, current Answer, index int) (Answer, error) {
	items, err := asItems(q, current)
	if err != nil {
		return nil, err
	}
	if index < 0 || index >= len(items) {
		return nil, fmt.Errorf("answers: question %q item %d out of range", q.ID, index)
	}
	next := make(Items, 0, len(items)-1)
	next = append(next, items[:index]...)
	next = append(next, items[index+1:]...)
	return next, nil
}

// SetItemField writes one field of a repeatable entry.
func SetItemField(q model.Question, current Answer, index int, key, value string) (Answer, error) {
	items, err := asItems(q, current)
	if err != nil {
		return nil, err
	}
	if index < 0 || index >= len(items) {
		return nil, fmt.Errorf("answers: question %q item %d out of range", q.ID, index)
	}
	if _, ok := findField(q, key); !ok {
		return nil, fmt.Errorf("answers: question %q has no field %q", q.ID, key)
	}
	next := append(Items{}, items...)
	entry := make(Fields, len(next[index])+1)
	for k, v := range next[index] {
		entry[k] = v
	}
	entry[key] = sanitizeText(value)
	next[index] = entry
	return next, nil
}

// SetField writes one field of a group or percentage answer.
func SetField(q model.Question, current Answer, key, value string) (Answer, error) {
	if q.Type != model.QuestionTypeGroup && q.Type != model.QuestionTypePercentage {
		return nil, fmt.Errorf("answers: question %q (%s) has no keyed fields", q.ID, q.Type)
	}
	if _, ok := findField(q, key); !ok {
		return nil, fmt.Errorf("answers: question %q has no field %q", q.ID, key)
	}
	fields, err := asFields(q, current)
	if err != nil {
		return nil, err
	}
	next := make(Fields, len(fields)+1)
	for k, v := range fields {
		next[k] = v
	}
	if q.Type == model.QuestionTypeGroup {
		value = sanitizeText(value)
	}
	next[key] = value
	return next, nil
}

// SetRating records a rating for one item key, either an integer within the
// question scale or the "N/A" sentinel where the scale allows it.
func SetRating(q model.Question, current Answer, itemKey string, rating Rating) (Answer, error) {
	if q.Type != model.QuestionTypeRating && q.Type != model.QuestionTypeRatingTable {
		return nil, fmt.Errorf("answers: question %q (%s) is not rateable", q.ID, q.Type)
	}
	if !ratingKeyKnown(q, itemKey) {
		return nil, fmt.Errorf("answers: question %q has no item %q", q.ID, itemKey)
	}
	if rating.NA {
		if !q.AllowsNA() {
			return nil, fmt.Errorf("answers: question %q does not accept N/A", q.ID)
		}
	} else if rating.Value < 1 || rating.Value > q.ScaleMax() {
		return nil, fmt.Errorf("answers: question %q rating %d out of range 1..%d", q.ID, rating.Value, q.ScaleMax())
	}

	scale, err := asScaleMap(q, current)
	if err != nil {
		return nil, err
	}
	next := make(ScaleMap, len(scale)+1)
	for k, v := range scale {
		next[k] = v
	}
	next[itemKey] = rating
	return next, nil
}

// PercentTotal sums the numeric fields of a percentage answer for user
// feedback. Non-numeric entries count as zero; the total never gates
// validation.
func PercentTotal(a Answer) float64 {
	fields, ok := a.(Fields)
	if !ok {
		return 0
	}
	var total float64
	for _, value := range fields {
		parsed, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
		if err != nil {
			continue
		}
		total += parsed
	}
	return total
}

func findOption(q model.Question, value string) (model.Option, bool) {
	for _, opt := range q.Options {
		if opt.Value == value {
			return opt, true
		}
	}
	return model.Option{}, false
}

func findColumn(q model.Question, key string) (model.Column, bool) {
	for _, col := range q.Columns {
		if col.Key == key {
			return col, true
		}
	}
	return model.Column{}, false
}

func findField(q model.Question, key string) (model.Field, bool) {
	for _, field := range q.Fields {
		if field.Key == key {
			return field, true
		}
	}
	return model.Field{}, false
}

func ratingKeyKnown(q model.Question, key string) bool {
	for _, candidate := range q.RatingKeys() {
		if candidate == key {
			return true
		}
	}
	return false
}

func asList(q model.Question, a Answer) (List, error) {
	if a == nil {
		return nil, nil
	}
	list, ok := a.(List)
	if !ok {
		return nil, shapeError(q, a)
	}
	return list, nil
}

func asMatrix(q model.Question, a Answer) (Matrix, error) {
	if a == nil {
		return nil, nil
	}
	matrix, ok := a.(Matrix)
	if !ok {
		return nil, shapeError(q, a)
	}
	return matrix, nil
}

func asItems(q model.Question, a Answer) (Items, error) {
	if a == nil {
		return nil, nil
	}
	items, ok := a.(Items)
	if !ok {
		return nil, shapeError(q, a)
	}
	return items, nil
}

func asFields(q model.Question, a Answer) (Fields, error) {
	if a == nil {
		return nil, nil
	}
	fields, ok := a.(Fields)
	if !ok {
		return nil, shapeError(q, a)
	}
	return fields, nil
}

func asScaleMap(q model.Question, a Answer) (ScaleMap, error) {
	if a == nil {
		return nil, nil
	}
	scale, ok := a.(ScaleMap)
	if !ok {
		return nil, shapeError(q, a)
	}
	return scale, nil
}

func shapeError(q model.Question, a Answer) error {
	return fmt.Errorf("answers: question %q holds %T, not the %s shape", q.ID, a, q.Type)
}
