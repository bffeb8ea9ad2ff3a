package answers_test

import (
	"testing"

	"github.com/goliatone/go-surveykit/pkg/answers"
	"github.com/goliatone/go-surveykit/pkg/model"
)

func TestEmptyPerType(t *testing.T) {
	cases := []struct {
		name      string
		q         model.Question
		a         answers.Answer
		wantEmpty bool
	}{
		{"nil answer", model.Question{Type: model.QuestionTypeText}, nil, true},
		{"whitespace text", model.Question{Type: model.QuestionTypeText}, answers.Scalar("   "), true},
		{"filled text", model.Question{Type: model.QuestionTypeText}, answers.Scalar("Acme"), false},
		{"blank select", model.Question{Type: model.QuestionTypeSelect}, answers.Scalar(""), true},
		{"radio scalar", model.Question{Type: model.QuestionTypeRadio}, answers.Scalar("no"), false},
		{"radio tagged blank value", model.Question{Type: model.QuestionTypeRadio}, answers.Tagged{Text: "orphan"}, true},
		{"empty checkbox", model.Question{Type: model.QuestionTypeCheckbox}, answers.List{}, true},
		{"checked checkbox", model.Question{Type: model.QuestionTypeCheckbox}, answers.List{{Value: "domestic"}}, false},
		{"empty repeatable", model.Question{Type: model.QuestionTypeRepeatable}, answers.Items{}, true},
		{"present table", model.Question{Type: model.QuestionTypeTable}, answers.Matrix{}, false},
		{"present percentage", model.Question{Type: model.QuestionTypePercentage}, answers.Fields{}, false},
		{"empty rating", model.Question{Type: model.QuestionTypeRating}, answers.ScaleMap{}, true},
		{"rated rating", model.Question{Type: model.QuestionTypeRating}, answers.ScaleMap{"reliability": {Value: 3}}, false},
	}

	for _, tc := range cases {
		if got := answers.Empty(tc.q, tc.a); got != tc.wantEmpty {
			t.Errorf("%s: Empty = %v, want %v", tc.name, got, tc.wantEmpty)
		}
	}
}

func TestEmptyGroupRequiredSubset(t *testing.T) {
	gated := model.Question{
		Type: model.QuestionTypeGroup,
		Fields: []model.Field{
			{Key: "contactName", Required: true},
			{Key: "contactEmail"},
		},
	}

	if !answers.Empty(gated, answers.Fields{"contactEmail": "jo@acme.test"}) {
		t.Fatal("optional-only content should not satisfy a required subset")
	}
	if answers.Empty(gated, answers.Fields{"contactName": "Jo Chen"}) {
		t.Fatal("required field content should satisfy the group")
	}

	open := model.Question{
		Type:   model.QuestionTypeGroup,
		Fields: []model.Field{{Key: "a"}, {Key: "b"}},
	}
	if !answers.Empty(open, answers.Fields{"a": "  "}) {
		t.Fatal("whitespace-only content should leave the group empty")
	}
	if answers.Empty(open, answers.Fields{"b": "value"}) {
		t.Fatal("any field content should satisfy an unflagged group")
	}
}

func TestValidateOnlyGatesRequired(t *testing.T) {
	optional := model.Question{ID: "notes", Type: model.QuestionTypeTextarea}
	if err := answers.Validate(optional, nil); err != nil {
		t.Fatalf("optional question should never fail: %v", err)
	}

	required := model.Question{ID: "companyName", Type: model.QuestionTypeText, Required: true}
	if err := answers.Validate(required, nil); err == nil {
		t.Fatal("expected failure for an absent required answer")
	}
	if err := answers.Validate(required, answers.Scalar(" ")); err == nil {
		t.Fatal("expected failure for a blank required answer")
	}
	if err := answers.Validate(required, answers.Scalar("Acme")); err != nil {
		t.Fatalf("filled required answer should pass: %v", err)
	}
}
