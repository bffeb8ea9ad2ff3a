// Package orchestrator glues a validated response tree to the flattener and
// the tabular sync engine, translating outcomes into the external response
// contract.
package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/goliatone/go-surveykit/pkg/answers"
	"github.com/goliatone/go-surveykit/pkg/flatten"
	"github.com/goliatone/go-surveykit/pkg/model"
	"github.com/goliatone/go-surveykit/pkg/tabular"
)

// Messages returned on the two success paths.
const (
	MessageSubmitted = "Survey submitted successfully"
	MessagePreview   = "Survey submitted successfully (preview mode)"

	// NotePreview explains the fallback to callers inspecting the response.
	NotePreview = "Tabular store is not configured; the flattened record is returned for inspection instead of written."
)

// Option customises the orchestrator configuration.
type Option func(*Orchestrator)

// WithFlattener injects a custom flattener.
func WithFlattener(f *flatten.Flattener) Option {
	return func(o *Orchestrator) {
		if f != nil {
			o.flattener = f
		}
	}
}

// WithSyncEngine wires the tabular sync engine. Leaving it unset selects the
// preview fallback: submissions succeed without persistence.
func WithSyncEngine(engine *tabular.Engine) Option {
	return func(o *Orchestrator) {
		o.engine = engine
	}
}

// WithLogger sets the logger for submission outcomes.
func WithLogger(logger *slog.Logger) Option {
	return func(o *Orchestrator) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// Orchestrator runs the submission sequence: flatten, then reconcile and
// append through the sync engine. Steps are strictly sequential; a failure
// aborts the remainder and surfaces one terminal error with no retry and no
// rollback.
type Orchestrator struct {
	schema    model.Schema
	flattener *flatten.Flattener
	engine    *tabular.Engine
	logger    *slog.Logger
}

// New constructs an Orchestrator for a schema, applying options over
// defaults.
func New(schema model.Schema, options ...Option) *Orchestrator {
	o := &Orchestrator{
		schema: schema,
		logger: slog.Default(),
	}
	for _, opt := range options {
		if opt != nil {
			opt(o)
		}
	}
	if o.flattener == nil {
		o.flattener = flatten.New()
	}
	return o
}

// Request is one completed survey submission.
type Request struct {
	SurveyID    string
	Responses   answers.Tree
	SubmittedAt time.Time
}

// Result reports a successful submission. Preview is populated only on the
// fallback path, when no store is configured.
type Result struct {
	Message      string
	SubmissionID string
	Persisted    bool
	Note         string
	Preview      *flatten.Record
}

// Submit flattens the response tree and persists it. With no sync engine
// configured the flattened record is returned as a preview instead.
func (o *Orchestrator) Submit(ctx context.Context, req Request) (Result, error) {
	if ctx == nil {
		return Result{}, errors.New("orchestrator: context is required")
	}
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}
	if req.SurveyID == "" {
		return Result{}, errors.New("orchestrator: survey id is required")
	}
	if req.SubmittedAt.IsZero() {
		return Result{}, errors.New("orchestrator: submission timestamp is required")
	}

	record := o.flattener.Flatten(o.schema, req.Responses, req.SubmittedAt)
	submissionID := record.Value(flatten.ColumnSubmissionID)

	if o.engine == nil {
		o.logPreview(req, record)
		return Result{
			Message:      MessagePreview,
			SubmissionID: submissionID,
			Persisted:    false,
			Note:         NotePreview,
			Preview:      record,
		}, nil
	}

	if err := o.engine.Sync(ctx, record); err != nil {
		return Result{}, fmt.Errorf("orchestrator: sync record: %w", err)
	}

	o.logger.Info("survey submission persisted",
		"survey", req.SurveyID,
		"submission", submissionID,
		"columns", record.Len(),
	)
	return Result{
		Message:      MessageSubmitted,
		SubmissionID: submissionID,
		Persisted:    true,
	}, nil
}

// logPreview mirrors the record into the log so fallback submissions leave
// an inspectable trace.
func (o *Orchestrator) logPreview(req Request, record *flatten.Record) {
	o.logger.Info("survey submission preview (store not configured)",
		"survey", req.SurveyID,
		"submission", record.Value(flatten.ColumnSubmissionID),
	)
	for _, key := range record.Keys() {
		o.logger.Info("preview column", "label", key, "value", record.Value(key))
	}
}
