package model_test

import (
	"path/filepath"
	"testing"

	"github.com/goliatone/go-surveykit/pkg/model"
)

func TestLoadFileYAML(t *testing.T) {
	schema, err := model.LoadFile(filepath.Join("testdata", "survey.yaml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if schema.ID != "industrial-consumption-2025" {
		t.Fatalf("schema id = %q", schema.ID)
	}
	if len(schema.Sections) != 3 {
		t.Fatalf("expected 3 sections, got %d", len(schema.Sections))
	}

	question, ok := schema.Question("exportActivities")
	if !ok {
		t.Fatal("expected exportActivities question")
	}
	if question.Type != model.QuestionTypeRadio {
		t.Fatalf("exportActivities type = %q", question.Type)
	}
	if !question.Options[0].HasTextField {
		t.Fatal("expected first export option to carry a text field")
	}

	table, _ := schema.Question("volumeByYear")
	if len(table.Columns) != 2 || !table.Columns[0].Readonly {
		t.Fatalf("unexpected table columns: %+v", table.Columns)
	}

	rating, _ := schema.Question("marketFactors")
	if rating.ScaleMax() != 5 || !rating.AllowsNA() {
		t.Fatalf("unexpected scale: %+v", rating.Scale)
	}
	if got := rating.RatingKeys(); len(got) != 2 || got[0] != "priceVolatility" {
		t.Fatalf("rating keys = %v", got)
	}
}

func TestParseJSON(t *testing.T) {
	doc := []byte(`{
		"survey": {
			"id": "mini",
			"sections": [
				{
					"id": "s1",
					"title": "Only",
					"questions": [
						{"id": "name", "type": "text", "label": "Name", "required": true}
					]
				}
			]
		}
	}`)

	schema, err := model.Parse(doc)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if schema.Sections[0].Questions[0].ID != "name" {
		t.Fatalf("unexpected schema: %+v", schema)
	}
}

func TestParseRejectsGarbage(t *testing.T) {
	if _, err := model.Parse([]byte("   ")); err == nil {
		t.Fatal("expected error for empty document")
	}
	if _, err := model.Parse([]byte("{not json, not yaml")); err == nil {
		t.Fatal("expected error for malformed document")
	}
}
