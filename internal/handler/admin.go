package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"
)

// POST /admin/train
// Training is a fire-and-forget trigger; the HTTP call returns immediately.
func (h *Handler) TriggerTraining(w http.ResponseWriter, r *http.Request) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()
		if err := h.recs.TrainModel(ctx); err != nil {
			h.log.Errorw("training run failed", "error", err)
		}
	}()

	writeJSON(w, http.StatusAccepted, map[string]string{"status": "training_started"})
}

type cleanupRequest struct {
	DaysToKeep int `json:"days_to_keep"`
}

// POST /admin/views/cleanup
func (h *Handler) CleanupViews(w http.ResponseWriter, r *http.Request) {
	days := h.retentionDays
	if r.Body != nil && r.ContentLength != 0 {
		var req cleanupRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_body", "Malformed JSON body")
			return
		}
		if req.DaysToKeep > 0 {
			days = req.DaysToKeep
		}
	}

	deleted, err := h.views.CleanupOldViews(r.Context(), days)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", "An unexpected error occurred")
		return
	}
	writeJSON(w, http.StatusOK, CleanupResponse{DeletedViews: deleted, DaysKept: days})
}
