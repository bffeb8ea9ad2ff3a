package model

import (
	"errors"
	"fmt"
)

var (
	errNoSections = errors.New("model: schema has no sections")
	errNoID       = errors.New("model: schema id is required")
)

// Validate checks structural integrity of a loaded schema: non-empty ids,
// unique section and question ids, supported question types, per-type
// parameter presence, and a collision-free column label space. The label
// check covers explicit dictionary entries and derived labels alike, since
// two distinct ids can normalize to the same words.
func Validate(schema Schema) error {
	if schema.ID == "" {
		return errNoID
	}
	if len(schema.Sections) == 0 {
		return errNoSections
	}

	sectionIDs := make(map[string]struct{}, len(schema.Sections))
	labels := make(map[string]string)

	for _, section := range schema.Sections {
		if section.ID == "" {
			return errors.New("model: section id is required")
		}
		if _, dup := sectionIDs[section.ID]; dup {
			return fmt.Errorf("model: duplicate section id %q", section.ID)
		}
		sectionIDs[section.ID] = struct{}{}

		for _, question := range section.Questions {
			if err := validateQuestion(question); err != nil {
				return fmt.Errorf("model: section %q: %w", section.ID, err)
			}
			label := schema.Label(question.ID)
			if prev, dup := labels[label]; dup {
				return fmt.Errorf("model: questions %q and %q share column label %q", prev, question.ID, label)
			}
			labels[label] = question.ID
		}
	}

	for id := range schema.Labels {
		if _, ok := schema.Question(id); !ok {
			return fmt.Errorf("model: label dictionary references unknown question %q", id)
		}
	}

	return nil
}

func validateQuestion(q Question) error {
	if q.ID == "" {
		return errors.New("question id is required")
	}
	if !q.Type.Valid() {
		return fmt.Errorf("question %q: unsupported type %q", q.ID, q.Type)
	}

	switch q.Type {
	case QuestionTypeRadio, QuestionTypeCheckbox, QuestionTypeSelect:
		if len(q.Options) == 0 {
			return fmt.Errorf("question %q: %s requires options", q.ID, q.Type)
		}
		seen := make(map[string]struct{}, len(q.Options))
		for _, opt := range q.Options {
			if opt.Value == "" {
				return fmt.Errorf("question %q: option value is required", q.ID)
			}
			if _, dup := seen[opt.Value]; dup {
				return fmt.Errorf("question %q: duplicate option value %q", q.ID, opt.Value)
			}
			seen[opt.Value] = struct{}{}
		}
	case QuestionTypeGroup, QuestionTypePercentage, QuestionTypeRepeatable:
		if len(q.Fields) == 0 {
			return fmt.Errorf("question %q: %s requires fields", q.ID, q.Type)
		}
		for _, field := range q.Fields {
			if field.Key == "" {
				return fmt.Errorf("question %q: field key is required", q.ID)
			}
		}
	case QuestionTypeTable:
		if len(q.Columns) == 0 {
			return fmt.Errorf("question %q: table requires columns", q.ID)
		}
		if len(q.TableRows) == 0 {
			return fmt.Errorf("question %q: table requires rows", q.ID)
		}
		for _, col := range q.Columns {
			if col.Key == "" {
				return fmt.Errorf("question %q: column key is required", q.ID)
			}
		}
	case QuestionTypeRating:
		if len(q.Items) == 0 {
			return fmt.Errorf("question %q: rating requires items", q.ID)
		}
	case QuestionTypeRatingTable:
		if q.Scale == nil || q.Scale.Max <= 0 {
			return fmt.Errorf("question %q: rating-table requires a scale with max > 0", q.ID)
		}
		if len(q.Categories) == 0 {
			return fmt.Errorf("question %q: rating-table requires categories", q.ID)
		}
		for _, cat := range q.Categories {
			if len(cat.Factors) == 0 {
				return fmt.Errorf("question %q: category %q has no factors", q.ID, cat.Name)
			}
		}
	}

	return nil
}
