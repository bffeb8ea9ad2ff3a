package answers_test

import (
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-surveykit/pkg/answers"
	"github.com/goliatone/go-surveykit/pkg/model"
)

func checkboxQuestion() model.Question {
	return model.Question{
		ID:   "sources",
		Type: model.QuestionTypeCheckbox,
		Options: []model.Option{
			{Value: "domestic", Label: "Domestic"},
			{Value: "imported", Label: "Imported"},
			{Value: "other", Label: "Other", HasTextField: true},
		},
	}
}

func TestDecodeTreeDropsStraysAndNulls(t *testing.T) {
	schema := model.Schema{
		ID: "mini",
		Sections: []model.Section{
			{ID: "s1", Questions: []model.Question{
				{ID: "name", Type: model.QuestionTypeText, Label: "Name"},
				{ID: "notes", Type: model.QuestionTypeTextarea, Label: "Notes"},
			}},
		},
	}
	raw := answers.RawTree{
		"s1": {
			"name":  json.RawMessage(`"Acme"`),
			"notes": json.RawMessage(`null`),
			"ghost": json.RawMessage(`"dropped"`),
		},
		"s9": {
			"name": json.RawMessage(`"dropped"`),
		},
	}

	tree, err := answers.DecodeTree(schema, raw)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got := tree.Answer("s1", "name"); got != answers.Scalar("Acme") {
		t.Fatalf("name = %#v", got)
	}
	if tree.Answer("s1", "notes") != nil {
		t.Fatal("null answer should decode to nil")
	}
	if tree.Answer("s1", "ghost") != nil || len(tree["s9"]) != 0 {
		t.Fatal("undeclared entries should be dropped")
	}
}

func TestDecodeNumberAcceptsBareNumber(t *testing.T) {
	q := model.Question{ID: "years", Type: model.QuestionTypeNumber}

	got, err := answers.Decode(q, json.RawMessage(`42`))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got != answers.Scalar("42") {
		t.Fatalf("got %#v", got)
	}
}

func TestDecodeRadioTagged(t *testing.T) {
	q := model.Question{
		ID:   "export",
		Type: model.QuestionTypeRadio,
		Options: []model.Option{
			{Value: "yes", HasTextField: true},
			{Value: "no"},
		},
	}

	cases := []struct {
		name string
		raw  string
		want answers.Answer
	}{
		{"plain string", `"no"`, answers.Scalar("no")},
		{"text key", `{"value":"yes","text":"EU markets"}`, answers.Tagged{Value: "yes", Text: "EU markets"}},
		{"textField key", `{"value":"yes","textField":"EU markets"}`, answers.Tagged{Value: "yes", Text: "EU markets"}},
	}

	for _, tc := range cases {
		got, err := answers.Decode(q, json.RawMessage(tc.raw))
		if err != nil {
			t.Fatalf("%s: %v", tc.name, err)
		}
		if diff := cmp.Diff(tc.want, got); diff != "" {
			t.Errorf("%s: (-want +got)\n%s", tc.name, diff)
		}
	}

	if _, err := answers.Decode(q, json.RawMessage(`{"text":"orphan"}`)); err == nil {
		t.Fatal("expected error for tagged value without a value key")
	}
}

func TestDecodeCheckboxMixedElements(t *testing.T) {
	raw := json.RawMessage(`["domestic", {"value":"other","textField":"co-op"}]`)

	got, err := answers.Decode(checkboxQuestion(), raw)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	want := answers.List{
		{Value: "domestic"},
		{Value: "other", Text: "co-op", HasText: true},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("(-want +got)\n%s", diff)
	}
}

func TestDecodeTableSkipsSparseRows(t *testing.T) {
	q := model.Question{ID: "volume", Type: model.QuestionTypeTable}
	raw := json.RawMessage(`[null, {"volume":"120"}, {}]`)

	got, err := answers.Decode(q, raw)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	matrix, ok := got.(answers.Matrix)
	if !ok {
		t.Fatalf("got %T", got)
	}
	if diff := cmp.Diff([]int{1}, matrix.RowIndexes()); diff != "" {
		t.Fatalf("row indexes (-want +got)\n%s", diff)
	}
	if matrix[1]["volume"] != "120" {
		t.Fatalf("cell = %q", matrix[1]["volume"])
	}
}

func TestDecodeRatings(t *testing.T) {
	ratingQ := model.Question{
		ID:    "suppliers",
		Type:  model.QuestionTypeRating,
		Items: []model.RatingItem{{Key: "reliability"}, {Key: "quality"}},
	}

	got, err := answers.Decode(ratingQ, json.RawMessage(`{"reliability":4,"quality":"N/A"}`))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	want := answers.ScaleMap{
		"reliability": {Value: 4},
		"quality":     {NA: true},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("(-want +got)\n%s", diff)
	}

	if _, err := answers.Decode(ratingQ, json.RawMessage(`{"reliability":9}`)); err == nil {
		t.Fatal("expected out-of-range error")
	}

	noNA := model.Question{
		ID:         "factors",
		Type:       model.QuestionTypeRatingTable,
		Scale:      &model.Scale{Max: 5},
		Categories: []model.RatingCategory{{Name: "Supply", Factors: []model.RatingItem{{Key: "logistics"}}}},
	}
	if _, err := answers.Decode(noNA, json.RawMessage(`{"logistics":"N/A"}`)); err == nil {
		t.Fatal("expected N/A rejection when the scale excludes it")
	}
}
