package router

import (
	"net/http"
	"time"

	"github.com/artemisia-corp/preference-service/internal/handler"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func Setup(h *handler.Handler) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))

	r.Post("/views", h.TrackView)

	r.Route("/users/{userID}", func(r chi.Router) {
		r.Get("/recommendations", h.GetRecommendations)
		r.Get("/similar-users", h.SimilarUsers)
		r.Get("/views/recent", h.RecentlyViewed)
		r.Get("/views/top", h.MostViewed)
		r.Get("/views/stats", h.ViewStats)
		r.Get("/products/{productID}/similar", h.SimilarProducts)
	})

	r.Post("/admin/train", h.TriggerTraining)
	r.Post("/admin/views/cleanup", h.CleanupViews)

	r.Get("/health", healthCheck)

	return r
}

func healthCheck(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}
