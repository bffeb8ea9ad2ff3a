package tui

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/goliatone/go-surveykit/pkg/model"
	"github.com/goliatone/go-surveykit/pkg/orchestrator"
	"github.com/goliatone/go-surveykit/pkg/session"
)

// scriptDriver feeds canned prompt responses to the runner, failing the test
// when a queue runs dry.
type scriptDriver struct {
	t *testing.T

	inputs   []string
	texts    []string
	confirms []bool
	selects  []int
	multis   [][]int

	infos []string
	err   error
}

func (d *scriptDriver) Input(ctx context.Context, cfg InputConfig) (string, error) {
	if d.err != nil {
		return "", d.err
	}
	if len(d.inputs) == 0 {
		d.t.Fatalf("unexpected Input prompt: %q", cfg.Message)
	}
	out := d.inputs[0]
	d.inputs = d.inputs[1:]
	return out, nil
}

func (d *scriptDriver) TextArea(ctx context.Context, cfg TextAreaConfig) (string, error) {
	if len(d.texts) == 0 {
		d.t.Fatalf("unexpected TextArea prompt: %q", cfg.Message)
	}
	out := d.texts[0]
	d.texts = d.texts[1:]
	return out, nil
}

func (d *scriptDriver) Confirm(ctx context.Context, cfg ConfirmConfig) (bool, error) {
	if len(d.confirms) == 0 {
		d.t.Fatalf("unexpected Confirm prompt: %q", cfg.Message)
	}
	out := d.confirms[0]
	d.confirms = d.confirms[1:]
	return out, nil
}

func (d *scriptDriver) Select(ctx context.Context, cfg SelectConfig) (int, error) {
	if len(d.selects) == 0 {
		d.t.Fatalf("unexpected Select prompt: %q", cfg.Message)
	}
	out := d.selects[0]
	d.selects = d.selects[1:]
	return out, nil
}

func (d *scriptDriver) MultiSelect(ctx context.Context, cfg SelectConfig) ([]int, error) {
	if len(d.multis) == 0 {
		d.t.Fatalf("unexpected MultiSelect prompt: %q", cfg.Message)
	}
	out := d.multis[0]
	d.multis = d.multis[1:]
	return out, nil
}

func (d *scriptDriver) Info(ctx context.Context, msg string) error {
	d.infos = append(d.infos, msg)
	return nil
}

func fixedClock(t *testing.T) {
	t.Helper()
	orig := timeNow
	timeNow = func() time.Time {
		return time.Date(2025, time.March, 14, 9, 30, 0, 0, time.UTC)
	}
	t.Cleanup(func() { timeNow = orig })
}

func TestRunRepromptsFailedRequired(t *testing.T) {
	fixedClock(t)
	schema := model.Schema{
		ID: "mini",
		Sections: []model.Section{
			{ID: "s1", Title: "Profile", Questions: []model.Question{
				{ID: "companyName", Type: model.QuestionTypeText, Label: "Company name", Required: true},
				{ID: "exportActivities", Type: model.QuestionTypeRadio, Label: "Export activities", Required: true,
					Options: []model.Option{{Value: "yes", Label: "Yes"}, {Value: "no", Label: "No"}}},
			}},
			{ID: "s2", Title: "Outlook", Questions: []model.Question{
				{ID: "forecast", Type: model.QuestionTypeTextarea, Label: "Forecast", Required: true},
			}},
		},
	}

	driver := &scriptDriver{
		t:       t,
		inputs:  []string{"", "Acme Industrial"},
		selects: []int{1},
		texts:   []string{"steady demand"},
	}
	runner := NewRunner(schema, orchestrator.New(schema), WithDriver(driver))

	result, err := runner.Run(context.Background())
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if result.Message != orchestrator.MessagePreview {
		t.Fatalf("message = %q", result.Message)
	}
	if got := result.Preview.Value("Company Name"); got != "Acme Industrial" {
		t.Fatalf("company = %q", got)
	}
	if got := result.Preview.Value("Export Activities"); got != "no" {
		t.Fatalf("export = %q", got)
	}
	if got := result.Preview.Value("Forecast"); got != "steady demand" {
		t.Fatalf("forecast = %q", got)
	}

	var flagged bool
	for _, msg := range driver.infos {
		if msg == "Company name: "+session.RequiredMessage {
			flagged = true
		}
	}
	if !flagged {
		t.Fatalf("missing required notice in %q", driver.infos)
	}
	if len(driver.inputs)+len(driver.selects)+len(driver.texts) != 0 {
		t.Fatal("scripted responses left unconsumed")
	}
}

func TestRunChecksSkipsAndRatings(t *testing.T) {
	fixedClock(t)
	schema := model.Schema{
		ID: "single",
		Sections: []model.Section{
			{ID: "s1", Title: "Only", Questions: []model.Question{
				{ID: "primaryIndustry", Type: model.QuestionTypeSelect, Label: "Primary industry",
					Options: []model.Option{{Value: "food", Label: "Food"}}},
				{ID: "sugarSources", Type: model.QuestionTypeCheckbox, Label: "Sugar sources", Required: true,
					Options: []model.Option{
						{Value: "domestic", Label: "Domestic"},
						{Value: "other", Label: "Other", HasTextField: true},
					}},
				{ID: "supplierRatings", Type: model.QuestionTypeRating, Label: "Supplier ratings", Required: true,
					Items: []model.RatingItem{{Key: "reliability", Label: "Reliability"}}},
			}},
		},
	}

	driver := &scriptDriver{
		t:       t,
		selects: []int{0, 5},
		multis:  [][]int{{0, 1}},
		inputs:  []string{"farm co-op"},
	}
	runner := NewRunner(schema, orchestrator.New(schema), WithDriver(driver))

	result, err := runner.Run(context.Background())
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if _, ok := result.Preview.Get("Primary Industry"); ok {
		t.Fatal("skipped optional select must not produce a column")
	}
	if got := result.Preview.Value("Sugar Sources"); got != "domestic, value: other; text: farm co-op" {
		t.Fatalf("sources = %q", got)
	}
	if got := result.Preview.Value("Supplier Ratings"); got != "Reliability: 5" {
		t.Fatalf("ratings = %q", got)
	}
}

func TestRunPropagatesAbort(t *testing.T) {
	schema := model.Schema{
		ID: "single",
		Sections: []model.Section{
			{ID: "s1", Title: "Only", Questions: []model.Question{
				{ID: "companyName", Type: model.QuestionTypeText, Label: "Company name", Required: true},
			}},
		},
	}
	driver := &scriptDriver{t: t, err: ErrAborted}
	runner := NewRunner(schema, orchestrator.New(schema), WithDriver(driver))

	if _, err := runner.Run(context.Background()); !errors.Is(err, ErrAborted) {
		t.Fatalf("got %v, want ErrAborted", err)
	}
}

func TestParseRatingChoice(t *testing.T) {
	q := model.Question{
		Type:  model.QuestionTypeRatingTable,
		Scale: &model.Scale{Max: 5, Labels: map[int]string{1: "Very low", 5: "Very high"}, IncludeNA: true},
	}
	choices := ratingChoices(q)

	if rating, ok := parseRatingChoice(choices, 0); ok {
		t.Fatalf("skip choice parsed as %v", rating)
	}
	if rating, ok := parseRatingChoice(choices, 1); !ok || rating.Value != 1 {
		t.Fatalf("labeled choice = %v, %v", rating, ok)
	}
	if rating, ok := parseRatingChoice(choices, 3); !ok || rating.Value != 3 {
		t.Fatalf("bare choice = %v, %v", rating, ok)
	}
	if rating, ok := parseRatingChoice(choices, len(choices)-1); !ok || !rating.NA {
		t.Fatalf("na choice = %v, %v", rating, ok)
	}
}

func TestTableRowLabel(t *testing.T) {
	q := model.Question{
		Type:    model.QuestionTypeTable,
		Columns: []model.Column{{Key: "year"}, {Key: "volume"}},
	}
	if got := tableRowLabel(q, map[string]string{"year": "2023"}, 0); got != "2023" {
		t.Fatalf("label = %q", got)
	}
	if got := tableRowLabel(q, map[string]string{}, 1); got != "Row 2" {
		t.Fatalf("fallback = %q", got)
	}
}
