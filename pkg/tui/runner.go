// Package tui walks a survey schema in the terminal, driving the session
// controller through prompt answers and submitting the result.
package tui

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/goliatone/go-surveykit/pkg/answers"
	"github.com/goliatone/go-surveykit/pkg/model"
	"github.com/goliatone/go-surveykit/pkg/orchestrator"
	"github.com/goliatone/go-surveykit/pkg/session"
)

const skipChoice = "(skip)"

// Option customises a Runner.
type Option func(*Runner)

// WithDriver swaps the prompt driver, mainly for tests.
func WithDriver(driver PromptDriver) Option {
	return func(r *Runner) {
		if driver != nil {
			r.driver = driver
		}
	}
}

// Runner collects one survey response interactively.
type Runner struct {
	schema model.Schema
	orch   *orchestrator.Orchestrator
	driver PromptDriver
}

// NewRunner constructs a Runner over a schema and orchestrator.
func NewRunner(schema model.Schema, orch *orchestrator.Orchestrator, options ...Option) *Runner {
	r := &Runner{
		schema: schema,
		orch:   orch,
		driver: NewSurveyDriver(),
	}
	for _, opt := range options {
		if opt != nil {
			opt(r)
		}
	}
	return r
}

// Run walks every section in order, re-prompting questions that fail
// required validation, and submits once the last section passes.
func (r *Runner) Run(ctx context.Context) (orchestrator.Result, error) {
	ctrl := session.New(r.schema)

	if r.schema.Title != "" {
		if err := r.driver.Info(ctx, r.schema.Title); err != nil {
			return orchestrator.Result{}, err
		}
	}
	if r.schema.Description != "" {
		if err := r.driver.Info(ctx, r.schema.Description); err != nil {
			return orchestrator.Result{}, err
		}
	}

	for {
		section := ctrl.Current()
		position, total := ctrl.Progress()
		if err := r.driver.Info(ctx, fmt.Sprintf("\nSection %d of %d: %s", position, total, section.Title)); err != nil {
			return orchestrator.Result{}, err
		}

		if err := r.askSection(ctx, ctrl, section, nil); err != nil {
			return orchestrator.Result{}, err
		}

		if !ctrl.IsLast() {
			if err := r.advance(ctx, ctrl, section); err != nil {
				return orchestrator.Result{}, err
			}
			continue
		}

		tree, err := r.finishSection(ctx, ctrl, section)
		if err != nil {
			return orchestrator.Result{}, err
		}

		result, err := r.orch.Submit(ctx, orchestrator.Request{
			SurveyID:    r.schema.ID,
			Responses:   tree,
			SubmittedAt: timeNow(),
		})
		if err != nil {
			return orchestrator.Result{}, err
		}
		r.report(ctx, result)
		return result, nil
	}
}

// advance calls Next, re-prompting the questions it flags until the section
// passes.
func (r *Runner) advance(ctx context.Context, ctrl *session.Controller, section model.Section) error {
	for {
		err := ctrl.Next()
		if err == nil {
			return nil
		}
		if !errors.Is(err, session.ErrSectionInvalid) {
			return err
		}
		if err := r.reportErrors(ctx, ctrl, section); err != nil {
			return err
		}
		if err := r.askSection(ctx, ctrl, section, ctrl.Errors()); err != nil {
			return err
		}
	}
}

func (r *Runner) finishSection(ctx context.Context, ctrl *session.Controller, section model.Section) (answers.Tree, error) {
	for {
		tree, err := ctrl.Submit()
		if err == nil {
			return tree, nil
		}
		if !errors.Is(err, session.ErrSectionInvalid) {
			return nil, err
		}
		if err := r.reportErrors(ctx, ctrl, section); err != nil {
			return nil, err
		}
		if err := r.askSection(ctx, ctrl, section, ctrl.Errors()); err != nil {
			return nil, err
		}
	}
}

func (r *Runner) reportErrors(ctx context.Context, ctrl *session.Controller, section model.Section) error {
	for questionID := range ctrl.Errors() {
		question, _ := section.Question(questionID)
		if err := r.driver.Info(ctx, fmt.Sprintf("%s: %s", question.Label, session.RequiredMessage)); err != nil {
			return err
		}
	}
	return nil
}

// askSection prompts each question of the section. When only holds ids, the
// walk is restricted to them (the re-prompt pass after a validation
// failure).
func (r *Runner) askSection(ctx context.Context, ctrl *session.Controller, section model.Section, only map[string]string) error {
	for _, question := range section.Questions {
		if only != nil {
			if _, flagged := only[question.ID]; !flagged {
				continue
			}
		}
		answer, err := r.ask(ctx, question)
		if err != nil {
			return err
		}
		if answer == nil {
			continue
		}
		if err := ctrl.SetAnswer(question.ID, answer); err != nil {
			return err
		}
	}
	return nil
}

func (r *Runner) ask(ctx context.Context, q model.Question) (answers.Answer, error) {
	if q.Note != "" {
		if err := r.driver.Info(ctx, q.Note); err != nil {
			return nil, err
		}
	}

	switch q.Type {
	case model.QuestionTypeText, model.QuestionTypeNumber:
		input, err := r.driver.Input(ctx, InputConfig{Message: promptMessage(q), Help: q.Placeholder})
		if err != nil {
			return nil, err
		}
		return answers.SetText(q, input)

	case model.QuestionTypeTextarea:
		input, err := r.driver.TextArea(ctx, TextAreaConfig{Message: promptMessage(q), Help: q.Placeholder})
		if err != nil {
			return nil, err
		}
		return answers.SetText(q, input)

	case model.QuestionTypeSelect:
		return r.askSelect(ctx, q)

	case model.QuestionTypeRadio:
		return r.askRadio(ctx, q)

	case model.QuestionTypeCheckbox:
		return r.askCheckbox(ctx, q)

	case model.QuestionTypeGroup, model.QuestionTypePercentage:
		return r.askFields(ctx, q)

	case model.QuestionTypeRepeatable:
		return r.askRepeatable(ctx, q)

	case model.QuestionTypeTable:
		return r.askTable(ctx, q)

	case model.QuestionTypeRating:
		return r.askRatings(ctx, q, q.Items, nil)

	case model.QuestionTypeRatingTable:
		return r.askRatingTable(ctx, q)
	}

	return nil, fmt.Errorf("tui: question %q has unsupported type %q", q.ID, q.Type)
}

func (r *Runner) askSelect(ctx context.Context, q model.Question) (answers.Answer, error) {
	labels, skippable := optionLabels(q)
	idx, err := r.driver.Select(ctx, SelectConfig{Message: promptMessage(q), Options: labels})
	if err != nil {
		return nil, err
	}
	if skippable && idx == 0 {
		return nil, nil
	}
	if skippable {
		idx--
	}
	if idx < 0 || idx >= len(q.Options) {
		return nil, nil
	}
	return answers.SetText(q, q.Options[idx].Value)
}

func (r *Runner) askRadio(ctx context.Context, q model.Question) (answers.Answer, error) {
	labels, skippable := optionLabels(q)
	idx, err := r.driver.Select(ctx, SelectConfig{Message: promptMessage(q), Options: labels})
	if err != nil {
		return nil, err
	}
	if skippable && idx == 0 {
		return nil, nil
	}
	if skippable {
		idx--
	}
	if idx < 0 || idx >= len(q.Options) {
		return nil, nil
	}
	option := q.Options[idx]

	answer, err := answers.SelectOption(q, option.Value)
	if err != nil {
		return nil, err
	}
	if !option.HasTextField {
		return answer, nil
	}
	text, err := r.driver.Input(ctx, InputConfig{Message: option.Label, Help: option.TextFieldPlaceholder})
	if err != nil {
		return nil, err
	}
	return answers.SetSelectedText(q, answer, text)
}

func (r *Runner) askCheckbox(ctx context.Context, q model.Question) (answers.Answer, error) {
	labels := make([]string, len(q.Options))
	for i, option := range q.Options {
		labels[i] = option.Label
	}
	picked, err := r.driver.MultiSelect(ctx, SelectConfig{Message: promptMessage(q), Options: labels})
	if err != nil {
		return nil, err
	}

	var answer answers.Answer = answers.List{}
	for _, idx := range picked {
		option := q.Options[idx]
		answer, err = answers.Toggle(q, answer, option.Value)
		if err != nil {
			return nil, err
		}
		if !option.HasTextField {
			continue
		}
		text, err := r.driver.Input(ctx, InputConfig{Message: option.Label, Help: option.TextFieldPlaceholder})
		if err != nil {
			return nil, err
		}
		answer, err = answers.SetChoiceText(q, answer, option.Value, text)
		if err != nil {
			return nil, err
		}
	}
	return answer, nil
}

func (r *Runner) askFields(ctx context.Context, q model.Question) (answers.Answer, error) {
	if q.Description != "" {
		if err := r.driver.Info(ctx, q.Description); err != nil {
			return nil, err
		}
	}
	var answer answers.Answer = answers.Fields{}
	for _, field := range q.Fields {
		input, err := r.driver.Input(ctx, InputConfig{Message: fieldMessage(field), Help: field.Placeholder})
		if err != nil {
			return nil, err
		}
		answer, err = answers.SetField(q, answer, field.Key, input)
		if err != nil {
			return nil, err
		}
	}
	if q.Type == model.QuestionTypePercentage {
		total := answers.PercentTotal(answer)
		note := fmt.Sprintf("Total: %.1f%%", total)
		if total != 100 {
			note += " (should equal 100%)"
		}
		if err := r.driver.Info(ctx, note); err != nil {
			return nil, err
		}
	}
	return answer, nil
}

func (r *Runner) askRepeatable(ctx context.Context, q model.Question) (answers.Answer, error) {
	if q.Description != "" {
		if err := r.driver.Info(ctx, q.Description); err != nil {
			return nil, err
		}
	}
	var answer answers.Answer = answers.Items{}
	for count := 0; count < q.ItemLimit(); count++ {
		add, err := r.driver.Confirm(ctx, ConfirmConfig{Message: fmt.Sprintf("Add %s entry?", q.Label)})
		if err != nil {
			return nil, err
		}
		if !add {
			break
		}
		answer, err = answers.AppendItem(q, answer)
		if err != nil {
			return nil, err
		}
		for _, field := range q.Fields {
			input, err := r.driver.Input(ctx, InputConfig{Message: fieldMessage(field), Help: field.Placeholder})
			if err != nil {
				return nil, err
			}
			answer, err = answers.SetItemField(q, answer, count, field.Key, input)
			if err != nil {
				return nil, err
			}
		}
	}
	return answer, nil
}

func (r *Runner) askTable(ctx context.Context, q model.Question) (answers.Answer, error) {
	var answer answers.Answer = answers.Matrix{}
	for rowIndex, row := range q.TableRows {
		rowLabel := tableRowLabel(q, row, rowIndex)
		for _, column := range q.Columns {
			if column.Readonly || row[column.Key] != "" {
				continue
			}
			input, err := r.driver.Input(ctx, InputConfig{
				Message: fmt.Sprintf("%s — %s", rowLabel, column.Label),
				Help:    column.Placeholder,
			})
			if err != nil {
				return nil, err
			}
			if input == "" {
				continue
			}
			answer, err = answers.SetCell(q, answer, rowIndex, column.Key, input)
			if err != nil {
				return nil, err
			}
		}
	}
	return answer, nil
}

func (r *Runner) askRatingTable(ctx context.Context, q model.Question) (answers.Answer, error) {
	if q.Description != "" {
		if err := r.driver.Info(ctx, q.Description); err != nil {
			return nil, err
		}
	}
	var answer answers.Answer = answers.ScaleMap{}
	for _, category := range q.Categories {
		if err := r.driver.Info(ctx, category.Name); err != nil {
			return nil, err
		}
		var err error
		answer, err = r.askRatingItems(ctx, q, category.Factors, answer)
		if err != nil {
			return nil, err
		}
	}
	return answer, nil
}

func (r *Runner) askRatings(ctx context.Context, q model.Question, items []model.RatingItem, current answers.Answer) (answers.Answer, error) {
	if current == nil {
		current = answers.ScaleMap{}
	}
	return r.askRatingItems(ctx, q, items, current)
}

func (r *Runner) askRatingItems(ctx context.Context, q model.Question, items []model.RatingItem, current answers.Answer) (answers.Answer, error) {
	choices := ratingChoices(q)
	for _, item := range items {
		idx, err := r.driver.Select(ctx, SelectConfig{Message: item.Label, Options: choices})
		if err != nil {
			return nil, err
		}
		rating, ok := parseRatingChoice(choices, idx)
		if !ok {
			continue
		}
		current, err = answers.SetRating(q, current, item.Key, rating)
		if err != nil {
			return nil, err
		}
	}
	return current, nil
}

func (r *Runner) report(ctx context.Context, result orchestrator.Result) {
	_ = r.driver.Info(ctx, "\n"+result.Message)
	_ = r.driver.Info(ctx, "Submission ID: "+result.SubmissionID)
	if result.Note != "" {
		_ = r.driver.Info(ctx, result.Note)
	}
	if result.Preview != nil {
		for _, key := range result.Preview.Keys() {
			_ = r.driver.Info(ctx, fmt.Sprintf("%s: %s", key, result.Preview.Value(key)))
		}
	}
}

func promptMessage(q model.Question) string {
	message := q.Label
	if q.Unit != "" {
		message = fmt.Sprintf("%s (%s)", message, q.Unit)
	}
	if q.Required {
		message += " *"
	}
	return message
}

func fieldMessage(field model.Field) string {
	if field.Unit != "" {
		return fmt.Sprintf("%s (%s)", field.Label, field.Unit)
	}
	return field.Label
}

func optionLabels(q model.Question) ([]string, bool) {
	skippable := !q.Required
	labels := make([]string, 0, len(q.Options)+1)
	if skippable {
		labels = append(labels, skipChoice)
	}
	for _, option := range q.Options {
		labels = append(labels, option.Label)
	}
	return labels, skippable
}

func ratingChoices(q model.Question) []string {
	choices := make([]string, 0, q.ScaleMax()+2)
	choices = append(choices, skipChoice)
	for rating := 1; rating <= q.ScaleMax(); rating++ {
		label := strconv.Itoa(rating)
		if q.Scale != nil {
			if hint, ok := q.Scale.Labels[rating]; ok {
				label = fmt.Sprintf("%d — %s", rating, hint)
			}
		}
		choices = append(choices, label)
	}
	if q.AllowsNA() {
		choices = append(choices, "N/A")
	}
	return choices
}

func parseRatingChoice(choices []string, idx int) (answers.Rating, bool) {
	if idx <= 0 || idx >= len(choices) {
		return answers.Rating{}, false
	}
	choice := choices[idx]
	if choice == "N/A" {
		return answers.Rating{NA: true}, true
	}
	value := choice
	if cut := strings.Index(choice, " — "); cut > 0 {
		value = choice[:cut]
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return answers.Rating{}, false
	}
	return answers.Rating{Value: parsed}, true
}

func tableRowLabel(q model.Question, row map[string]string, rowIndex int) string {
	for _, column := range q.Columns {
		if value := row[column.Key]; value != "" {
			return value
		}
	}
	return fmt.Sprintf("Row %d", rowIndex+1)
}

// timeNow is swapped in tests.
var timeNow = time.Now
