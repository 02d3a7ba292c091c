package web

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NewRouter wires the presentational routes around a handler.
func NewRouter(h *Handler, allowedOrigins []string) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type"},
		AllowCredentials: true,
	}))
	r.Use(Metrics)

	r.Get("/healthz", HealthHandler)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/courses/{course}", func(r chi.Router) {
		r.Get("/", h.FeedGetHandler)
		r.Post("/threads", h.CreateThreadHandler)
		r.Get("/threads/{thread}", h.ThreadGetHandler)
		r.Post("/threads/{thread}/replies", h.ReplyPostHandler)
		r.Post("/replies/{reply}/upvote", h.UpvoteHandler)
		r.Post("/replies/{reply}/accept", h.AcceptHandler)
	})

	return r
}
