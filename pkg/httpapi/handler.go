// Package httpapi exposes the survey submission endpoint.
package httpapi

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/goliatone/go-surveykit/pkg/answers"
	"github.com/goliatone/go-surveykit/pkg/flatten"
	"github.com/goliatone/go-surveykit/pkg/model"
	"github.com/goliatone/go-surveykit/pkg/orchestrator"
)

// Error messages the endpoint is allowed to leak.
const (
	errMissingFields = "Missing required fields"
	errSubmitFailed  = "Failed to submit survey"
)

// Option customises a Handler.
type Option func(*Handler)

// WithLogger sets the request logger.
func WithLogger(logger *slog.Logger) Option {
	return func(h *Handler) {
		if logger != nil {
			h.logger = logger
		}
	}
}

// Handler serves POST /submit for one survey schema.
type Handler struct {
	schema model.Schema
	orch   *orchestrator.Orchestrator
	logger *slog.Logger
}

// New constructs a Handler.
func New(schema model.Schema, orch *orchestrator.Orchestrator, options ...Option) *Handler {
	h := &Handler{
		schema: schema,
		orch:   orch,
		logger: slog.Default(),
	}
	for _, opt := range options {
		if opt != nil {
			opt(h)
		}
	}
	return h
}

// Routes returns the endpoint mux.
func (h *Handler) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/submit", h.handleSubmit)
	return mux
}

type submitPayload struct {
	SurveyID    string          `json:"surveyId"`
	Responses   answers.RawTree `json:"responses"`
	SubmittedAt string          `json:"submittedAt"`
}

type submitResponse struct {
	Success      bool            `json:"success"`
	Message      string          `json:"message"`
	SubmissionID string          `json:"submissionId"`
	Note         string          `json:"note,omitempty"`
	Preview      *flatten.Record `json:"preview,omitempty"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (h *Handler) handleSubmit(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, errorResponse{Error: "method not allowed"})
		return
	}

	var payload submitPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		h.logger.Error("submit: decode request", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: errSubmitFailed})
		return
	}

	if payload.SurveyID == "" || payload.Responses == nil || payload.SubmittedAt == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: errMissingFields})
		return
	}
	submittedAt, err := time.Parse(time.RFC3339, payload.SubmittedAt)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: errMissingFields})
		return
	}

	tree, err := answers.DecodeTree(h.schema, payload.Responses)
	if err != nil {
		h.logger.Error("submit: decode responses", "survey", payload.SurveyID, "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: errSubmitFailed})
		return
	}

	result, err := h.orch.Submit(r.Context(), orchestrator.Request{
		SurveyID:    payload.SurveyID,
		Responses:   tree,
		SubmittedAt: submittedAt,
	})
	if err != nil {
		if errors.Is(err, r.Context().Err()) && r.Context().Err() != nil {
			// Client went away mid-submission; nothing useful to write.
			return
		}
		h.logger.Error("submit: orchestrate", "survey", payload.SurveyID, "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: errSubmitFailed})
		return
	}

	h.logger.Info("survey submission accepted",
		"survey", payload.SurveyID,
		"submission", result.SubmissionID,
		"persisted", result.Persisted,
		"sections", len(payload.Responses),
	)
	writeJSON(w, http.StatusOK, submitResponse{
		Success:      true,
		Message:      result.Message,
		SubmissionID: result.SubmissionID,
		Note:         result.Note,
		Preview:      result.Preview,
	})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
