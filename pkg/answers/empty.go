package answers

import (
	"fmt"
	"strings"

	"github.com/goliatone/go-surveykit/pkg/model"
)

// Empty reports whether an answer counts as unanswered for its question
// type. Table and percentage answers are presence-only: once an answer value
// exists they are never empty, because tables prefill cells and percentage
// totals are advisory.
func Empty(q model.Question, a Answer) bool {
	if a == nil {
		return true
	}

	switch q.Type {
	case model.QuestionTypeText, model.QuestionTypeTextarea:
		scalar, ok := a.(Scalar)
		return !ok || strings.TrimSpace(string(scalar)) == ""

	case model.QuestionTypeNumber, model.QuestionTypeSelect:
		scalar, ok := a.(Scalar)
		return !ok || scalar == ""

	case model.QuestionTypeRadio:
		switch v := a.(type) {
		case Scalar:
			return v == ""
		case Tagged:
			return v.Value == ""
		}
		return true

	case model.QuestionTypeCheckbox:
		list, ok := a.(List)
		return !ok || len(list) == 0

	case model.QuestionTypeRepeatable:
		items, ok := a.(Items)
		return !ok || len(items) == 0

	case model.QuestionTypeGroup:
		fields, ok := a.(Fields)
		if !ok {
			return true
		}
		return !groupHasContent(q, fields)

	case model.QuestionTypeTable, model.QuestionTypePercentage:
		return false

	case model.QuestionTypeRating, model.QuestionTypeRatingTable:
		scale, ok := a.(ScaleMap)
		return !ok || len(scale) == 0
	}

	return true
}

// groupHasContent applies the question-level required rule for groups: when
// the schema flags a required subset of fields, any of those carrying a
// value satisfies the question; otherwise any field at all does.
func groupHasContent(q model.Question, fields Fields) bool {
	var hasRequiredSubset bool
	for _, field := range q.Fields {
		if !field.Required {
			continue
		}
		hasRequiredSubset = true
		if strings.TrimSpace(fields[field.Key]) != "" {
			return true
		}
	}
	if hasRequiredSubset {
		return false
	}
	for _, value := range fields {
		if strings.TrimSpace(value) != "" {
			return true
		}
	}
	return false
}

// Validate returns the gating verdict for one question. Only required
// questions can fail, and they fail exactly when the answer is absent or
// matches the type's emptiness rule.
func Validate(q model.Question, a Answer) error {
	if !q.Required {
		return nil
	}
	if Empty(q, a) {
		return fmt.Errorf("answers: question %q is required", q.ID)
	}
	return nil
}
