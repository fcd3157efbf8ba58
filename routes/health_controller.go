package routes

import (
	"net/http"
	"time"

	"github.com/go-chi/render"

	"github.com/nanotronics/survey-server/app"
	"github.com/nanotronics/survey-server/config"
	"github.com/nanotronics/survey-server/log"
	"github.com/nanotronics/survey-server/storage"
)

func HealthCheck() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		render.JSON(w, r, map[string]any{
			"status":    "healthy",
			"timestamp": time.Now().UTC().Format(time.RFC3339),
			"version":   config.AppVersion,
		})
	}
}

// ReadinessCheck verifies the app can serve traffic. In database mode
// that includes a backend ping; file mode is always ready.
func ReadinessCheck(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		checks := map[string]any{
			"app": true,
		}
		ready := true

		if app.Store.Kind() == storage.KindDatabase {
			if err := app.Store.Health(r.Context()); err != nil {
				log.Errorf("health.database: %s", err)
				checks["database"] = false
				ready = false
			} else {
				checks["database"] = true
			}
		} else {
			checks["storage"] = "file-based"
		}

		status := "ready"
		if !ready {
			status = "not_ready"
			render.Status(r, http.StatusServiceUnavailable)
		}
		render.JSON(w, r, map[string]any{
			"status":    status,
			"checks":    checks,
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		})
	}
}

func LivenessCheck() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		render.JSON(w, r, map[string]any{
			"status":    "alive",
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		})
	}
}
