package handler

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/artemisia-corp/preference-service/internal/domain"
)

// GET /users/{userID}/recommendations
func (h *Handler) GetRecommendations(w http.ResponseWriter, r *http.Request) {
	userID, ok := parseUserID(w, r)
	if !ok {
		return
	}
	limit, ok := parseLimit(w, r, 10)
	if !ok {
		return
	}

	result, err := h.recs.GetRecommendations(r.Context(), userID, limit)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			writeError(w, http.StatusNotFound, "user_not_found",
				fmt.Sprintf("User with ID %d does not exist", userID))
			return
		}
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
			writeError(w, http.StatusServiceUnavailable, "request_timeout",
				"Request timed out, please try again")
			return
		}
		h.log.Errorw("get recommendations failed", "user_id", userID, "error", err)
		writeError(w, http.StatusInternalServerError, "internal_error", "An unexpected error occurred")
		return
	}

	writeJSON(w, http.StatusOK, RecommendationResponse{
		UserID:   userID,
		Products: result.Products,
		Metadata: domain.RecommendationMeta{
			CacheHit:    result.CacheHit,
			Fallback:    result.Fallback,
			GeneratedAt: time.Now().UTC().Format(time.RFC3339),
			TotalCount:  len(result.Products),
		},
	})
}

// GET /users/{userID}/similar-users
func (h *Handler) SimilarUsers(w http.ResponseWriter, r *http.Request) {
	userID, ok := parseUserID(w, r)
	if !ok {
		return
	}
	limit, ok := parseLimit(w, r, 10)
	if !ok {
		return
	}

	ids := h.recs.FindSimilarUsers(r.Context(), userID, limit)
	writeJSON(w, http.StatusOK, SimilarUsersResponse{UserID: userID, SimilarUsers: ids})
}
