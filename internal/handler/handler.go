package handler

import (
	"encoding/json"
	"net/http"

	"github.com/artemisia-corp/preference-service/internal/logger"
	"github.com/artemisia-corp/preference-service/internal/service"
)

type Handler struct {
	views         *service.ViewService
	recs          *service.RecommendationService
	retentionDays int
	log           *logger.Logger
}

func NewHandler(views *service.ViewService, recs *service.RecommendationService, retentionDays int, log *logger.Logger) *Handler {
	return &Handler{
		views:         views,
		recs:          recs,
		retentionDays: retentionDays,
		log:           log.Named("http"),
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, errCode, message string) {
	writeJSON(w, status, ErrorResponse{
		Error:   errCode,
		Message: message,
	})
}
