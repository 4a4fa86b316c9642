package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/verdict-ai/verdict/internal/service"
)

type ClassifyHandler struct {
	classifier *service.Classifier
}

func NewClassifyHandler(classifier *service.Classifier) *ClassifyHandler {
	return &ClassifyHandler{classifier: classifier}
}

type classifyRequest struct {
	Goal          string  `json:"goal"`
	Threshold     float64 `json:"threshold,omitempty"`
	TopK          int     `json:"top_k,omitempty"`
	MinSimilarity float64 `json:"min_similarity,omitempty"`
	Exhaustive    bool    `json:"exhaustive,omitempty"`
}

func (h *ClassifyHandler) Classify(w http.ResponseWriter, r *http.Request) {
	var req classifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := h.classifier.Classify(r.Context(), req.Goal, service.ClassifyOptions{
		Threshold:     req.Threshold,
		TopK:          req.TopK,
		MinSimilarity: req.MinSimilarity,
		Exhaustive:    req.Exhaustive,
	})
	if err != nil {
		if errors.Is(err, service.ErrGoalEmpty) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, "classification failed")
		return
	}

	writeJSON(w, http.StatusOK, result)
}
