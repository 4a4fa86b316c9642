package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/verdict-ai/verdict/internal/domain"
	"github.com/verdict-ai/verdict/internal/service"
	"github.com/verdict-ai/verdict/internal/store"
)

type FactHandler struct {
	svc *service.FactService
}

func NewFactHandler(svc *service.FactService) *FactHandler {
	return &FactHandler{svc: svc}
}

type createFactRequest struct {
	ID          string   `json:"id,omitempty"`
	Description string   `json:"description"`
	Intent      string   `json:"intent"`
	Confidence  float64  `json:"confidence"`
	Category    string   `json:"category,omitempty"`
	Examples    []string `json:"examples,omitempty"`
	Tags        []string `json:"tags,omitempty"`
}

func (h *FactHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createFactRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	fact := &domain.Fact{
		ID:          req.ID,
		Description: req.Description,
		Intent:      req.Intent,
		Confidence:  req.Confidence,
		Category:    req.Category,
		Examples:    req.Examples,
		Tags:        req.Tags,
	}

	if err := h.svc.Create(r.Context(), fact); err != nil {
		switch {
		case errors.Is(err, service.ErrFactDescriptionEmpty),
			errors.Is(err, service.ErrFactIntentEmpty),
			errors.Is(err, service.ErrFactConfidenceRange):
			writeError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, store.ErrDuplicateFact):
			writeError(w, http.StatusConflict, err.Error())
		default:
			writeError(w, http.StatusInternalServerError, "failed to add fact")
		}
		return
	}

	writeJSON(w, http.StatusCreated, fact)
}

type listFactsResponse struct {
	Facts []domain.Fact `json:"facts"`
	Count int           `json:"count"`
}

func (h *FactHandler) List(w http.ResponseWriter, r *http.Request) {
	facts := h.svc.List(r.Context())
	writeJSON(w, http.StatusOK, listFactsResponse{Facts: facts, Count: len(facts)})
}

func (h *FactHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	fact, err := h.svc.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "fact not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to get fact")
		return
	}
	writeJSON(w, http.StatusOK, fact)
}

func (h *FactHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "fact not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to delete fact")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type relevantFactsResponse struct {
	Goal  string                `json:"goal"`
	Facts []domain.RelevantFact `json:"facts"`
	Count int                   `json:"count"`
}

func (h *FactHandler) Relevant(w http.ResponseWriter, r *http.Request) {
	goal := r.URL.Query().Get("goal")

	topK := 0
	if s := r.URL.Query().Get("top_k"); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n > 0 {
			topK = n
		}
	}

	minSim := 0.0
	if s := r.URL.Query().Get("min_similarity"); s != "" {
		if v, err := strconv.ParseFloat(s, 64); err == nil && v >= 0 && v <= 1 {
			minSim = v
		}
	}

	facts, err := h.svc.FindRelevant(r.Context(), goal, topK, minSim)
	if err != nil {
		if errors.Is(err, service.ErrRelevantGoalEmpty) {
			writeError(w, http.StatusBadRequest, "goal parameter is required")
			return
		}
		writeError(w, http.StatusServiceUnavailable, "semantic retrieval unavailable")
		return
	}

	if facts == nil {
		facts = []domain.RelevantFact{}
	}
	writeJSON(w, http.StatusOK, relevantFactsResponse{Goal: goal, Facts: facts, Count: len(facts)})
}
