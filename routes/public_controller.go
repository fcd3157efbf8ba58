package routes

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/render"

	"github.com/nanotronics/survey-server/app"
	"github.com/nanotronics/survey-server/config"
	"github.com/nanotronics/survey-server/httpx"
	"github.com/nanotronics/survey-server/model"
	"github.com/nanotronics/survey-server/stats"
	"github.com/nanotronics/survey-server/storage"
)

func SubmitResponse(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !strings.Contains(r.Header.Get("Content-Type"), "application/json") {
			httpx.LogBadRequest(w, r, "submit.content_type",
				"Invalid content type", "Content-Type must be application/json")
			return
		}

		var data map[string]any
		err := render.DecodeJSON(r.Body, &data)
		if err != nil {
			httpx.LogBadRequest(w, r, "submit.parse_body",
				"Invalid JSON", "Request body must be a valid JSON object")
			return
		}
		if len(data) == 0 {
			httpx.LogBadRequest(w, r, "submit.empty_body",
				"No data received", "Request body is empty")
			return
		}

		// server-assigned metadata
		data["server_timestamp"] = time.Now().UTC().Format(time.RFC3339)
		data["client_ip"] = httpx.ClientIP(r)
		data["user_agent"] = userAgent(r)

		rec := model.FromSubmission(data)
		id, err := app.Store.Save(r.Context(), rec)
		if err != nil {
			httpx.LogInternalErrorMsg(w, r, "submit.save", err,
				"Internal server error", "Error processing your submission")
			return
		}

		render.JSON(w, r, map[string]any{
			"success": true,
			"message": "¡Respuesta guardada correctamente!",
			"id":      id,
		})
	}
}

func GetResponses(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses, err := app.Store.List(r.Context())
		if err != nil {
			httpx.LogInternalError(w, r, "responses.list", err)
			return
		}

		render.JSON(w, r, map[string]any{
			"total":     len(responses),
			"responses": responses,
			"storage":   app.Store.Kind(),
		})
	}
}

func GetStats(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses, err := app.Store.List(r.Context())
		if err != nil {
			httpx.LogInternalError(w, r, "stats.list", err)
			return
		}

		if len(responses) == 0 {
			render.JSON(w, r, map[string]any{
				"total_responses": 0,
				"message":         "No hay respuestas aún",
				"storage":         app.Store.Kind(),
			})
			return
		}

		render.JSON(w, r, map[string]any{
			"total_responses": len(responses),
			"q1_distribution": stats.Distribution(responses, "q1"),
			"q3_distribution": stats.Distribution(responses, "q3"),
			"q6_average":      stats.Average(responses, "q6"),
			"q7_average":      stats.Average(responses, "q7_slider"),
			"q10_average":     stats.Average(responses, "q10_trust"),
			"storage":         app.Store.Kind(),
		})
	}
}

func GetInfo(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		render.JSON(w, r, map[string]any{
			"app":         config.AppName,
			"version":     config.AppVersion,
			"environment": app.Environment,
			"storage":     storageLabel(app.Store.Kind()),
		})
	}
}

func storageLabel(kind string) string {
	if kind == storage.KindDatabase {
		return "PostgreSQL"
	}
	return "File-based"
}

func userAgent(r *http.Request) string {
	if ua := r.Header.Get("User-Agent"); ua != "" {
		return ua
	}
	return "unknown"
}
