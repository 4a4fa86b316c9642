package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/verdict-ai/verdict/internal/domain"
	"github.com/verdict-ai/verdict/internal/service"
	"github.com/verdict-ai/verdict/internal/store"
)

type LearningHandler struct {
	svc *service.LearningService
}

func NewLearningHandler(svc *service.LearningService) *LearningHandler {
	return &LearningHandler{svc: svc}
}

type reportFailureRequest struct {
	Goal           string `json:"goal"`
	ExpectedIntent string `json:"expected_intent"`
	ActualIntent   string `json:"actual_intent,omitempty"`
	Source         string `json:"source,omitempty"`
}

func (h *LearningHandler) ReportFailure(w http.ResponseWriter, r *http.Request) {
	var req reportFailureRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	sg, err := h.svc.SuggestFromFailure(r.Context(), req.Goal, req.ExpectedIntent, req.ActualIntent, req.Source)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrFailureGoalEmpty),
			errors.Is(err, service.ErrFailureIntentMissing):
			writeError(w, http.StatusBadRequest, err.Error())
		default:
			writeError(w, http.StatusInternalServerError, "failed to record failure")
		}
		return
	}

	writeJSON(w, http.StatusCreated, sg)
}

type listSuggestionsResponse struct {
	Suggestions []domain.Suggestion `json:"suggestions"`
	Count       int                 `json:"count"`
}

func (h *LearningHandler) ListSuggestions(w http.ResponseWriter, r *http.Request) {
	suggestions, err := h.svc.List(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list suggestions")
		return
	}
	writeJSON(w, http.StatusOK, listSuggestionsResponse{Suggestions: suggestions, Count: len(suggestions)})
}

type validateSuggestionRequest struct {
	Accept bool   `json:"accept"`
	Reason string `json:"reason,omitempty"`
}

func (h *LearningHandler) ValidateSuggestion(w http.ResponseWriter, r *http.Request) {
	var req validateSuggestionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	sg, err := h.svc.Validate(r.Context(), chi.URLParam(r, "id"), req.Accept, req.Reason)
	if err != nil {
		if errors.Is(err, store.ErrSuggestionFinal) {
			writeError(w, http.StatusConflict, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to validate suggestion")
		return
	}
	if sg == nil {
		writeError(w, http.StatusNotFound, "suggestion not found")
		return
	}

	writeJSON(w, http.StatusOK, sg)
}
