package routes

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/nanotronics/survey-server/app"
	"github.com/nanotronics/survey-server/httpx"
	"github.com/nanotronics/survey-server/routes/middlewares"
)

func Wire(app app.App) http.Handler {
	root := chi.NewRouter()
	root.Use(
		middlewares.RequestID,
		middlewares.SecurityHeaders,
		middlewares.Logger,
		middleware.Recoverer,
	)
	root.Use(cors.Handler(cors.Options{
		AllowedOrigins: app.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
		MaxAge:         300,
	}))

	root.Get("/health", HealthCheck())
	root.Get("/health/ready", ReadinessCheck(app))
	root.Get("/health/live", LivenessCheck())

	root.Mount("/api", apiRouter(app))

	root.Get("/", ServeStatic(app))
	root.Get("/*", ServeStatic(app))

	root.NotFound(func(w http.ResponseWriter, r *http.Request) {
		httpx.JSONError(w, r, http.StatusNotFound,
			"Not Found", "The requested resource was not found")
	})
	root.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		httpx.JSONError(w, r, http.StatusMethodNotAllowed,
			"Method Not Allowed", fmt.Sprintf("Method %s is not allowed for this endpoint", r.Method))
	})

	return root
}

func apiRouter(app app.App) http.Handler {
	api := chi.NewRouter()

	api.Group(func(r chi.Router) {
		r.Use(middlewares.RateLimit(app))

		r.Post("/submit", SubmitResponse(app))
		r.Get("/responses", GetResponses(app))
		r.Get("/stats", GetStats(app))
	})

	api.Get("/info", GetInfo(app))

	return api
}
