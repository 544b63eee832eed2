package handler

import (
	"encoding/json"
	"net/http"
)

type trackViewRequest struct {
	UserID          int64 `json:"user_id"`
	ProductID       int64 `json:"product_id"`
	DurationSeconds int   `json:"duration_seconds"`
}

// POST /views
// Accepted immediately; the write happens on a detached goroutine.
func (h *Handler) TrackView(w http.ResponseWriter, r *http.Request) {
	var req trackViewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body", "Malformed JSON body")
		return
	}
	if req.UserID <= 0 || req.ProductID <= 0 {
		writeError(w, http.StatusBadRequest, "invalid_parameter", "user_id and product_id must be positive")
		return
	}

	if req.DurationSeconds > 0 {
		h.views.TrackViewWithDuration(req.UserID, req.ProductID, req.DurationSeconds)
	} else {
		h.views.TrackView(req.UserID, req.ProductID)
	}

	writeJSON(w, http.StatusAccepted, map[string]string{"status": "accepted"})
}

// GET /users/{userID}/views/recent
func (h *Handler) RecentlyViewed(w http.ResponseWriter, r *http.Request) {
	userID, ok := parseUserID(w, r)
	if !ok {
		return
	}
	limit, ok := parseLimit(w, r, 10)
	if !ok {
		return
	}

	products := h.views.RecentlyViewed(r.Context(), userID, limit)
	writeJSON(w, http.StatusOK, ProductListResponse{UserID: userID, Products: products})
}

// GET /users/{userID}/views/top
func (h *Handler) MostViewed(w http.ResponseWriter, r *http.Request) {
	userID, ok := parseUserID(w, r)
	if !ok {
		return
	}
	limit, ok := parseLimit(w, r, 10)
	if !ok {
		return
	}

	products := h.views.MostViewed(r.Context(), userID, limit)
	writeJSON(w, http.StatusOK, ProductListResponse{UserID: userID, Products: products})
}

// GET /users/{userID}/views/stats
func (h *Handler) ViewStats(w http.ResponseWriter, r *http.Request) {
	userID, ok := parseUserID(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, h.views.Stats(r.Context(), userID))
}

// GET /users/{userID}/products/{productID}/similar
func (h *Handler) SimilarProducts(w http.ResponseWriter, r *http.Request) {
	userID, ok := parseUserID(w, r)
	if !ok {
		return
	}
	productID, ok := parsePathID(w, r, "productID")
	if !ok {
		return
	}
	limit, ok := parseLimit(w, r, 10)
	if !ok {
		return
	}

	ids := h.views.SimilarProducts(r.Context(), userID, productID, limit)
	writeJSON(w, http.StatusOK, map[string]any{
		"product_id":       productID,
		"similar_products": ids,
	})
}
