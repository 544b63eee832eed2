package handler

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
)

func parseUserID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	return parsePathID(w, r, "userID")
}

func parsePathID(w http.ResponseWriter, r *http.Request, param string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, param), 10, 64)
	if err != nil || id <= 0 {
		writeError(w, http.StatusBadRequest, "invalid_parameter", "Invalid "+param+" parameter")
		return 0, false
	}
	return id, true
}

func parseLimit(w http.ResponseWriter, r *http.Request, fallback int) (int, bool) {
	limit := fallback
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		parsed, err := strconv.Atoi(limitStr)
		if err != nil || parsed < 1 || parsed > 50 {
			writeError(w, http.StatusBadRequest, "invalid_parameter", "Invalid limit parameter")
			return 0, false
		}
		limit = parsed
	}
	return limit, true
}
