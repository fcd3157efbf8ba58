package routes

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/nanotronics/survey-server/app"
	"github.com/nanotronics/survey-server/config"
	"github.com/nanotronics/survey-server/ratelimit"
	"github.com/nanotronics/survey-server/storage"
)

func newTestApp(t *testing.T, cfg config.Config) app.App {
	t.Helper()

	if cfg.ResponsesDir == "" {
		cfg.ResponsesDir = t.TempDir()
	}
	if cfg.StaticDir == "" {
		cfg.StaticDir = t.TempDir()
	}
	if cfg.Environment == "" {
		cfg.Environment = "testing"
	}
	if cfg.RateLimitRequests == 0 {
		cfg.RateLimitRequests = 100
	}
	if cfg.RateLimitWindow == 0 {
		cfg.RateLimitWindow = 60
	}

	store, err := storage.Open(cfg)
	if err != nil {
		t.Fatalf("storage.Open: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	return app.App{
		Store:   store,
		Limiter: ratelimit.New(cfg.RateLimitRequests, cfg.Window()),
		Config:  cfg,
	}
}

func submitJSON(t *testing.T, handler http.Handler, body string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest("POST", "/api/submit", bytes.NewReader([]byte(body)))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()

	var body map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("response is not JSON: %v: %s", err, w.Body.String())
	}
	return body
}

func TestSubmitThenListShowsRecordOnce(t *testing.T) {
	handler := Wire(newTestApp(t, config.Config{}))

	w := submitJSON(t, handler, `{"q1":"1-2 years","q6":"4","timestamp":"2024-05-01T10:00:00Z"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("submit status = %d: %s", w.Code, w.Body.String())
	}
	body := decodeBody(t, w)
	if body["success"] != true {
		t.Fatalf("submit response = %v", body)
	}
	if id, _ := body["id"].(string); id == "" {
		t.Fatal("submit returned empty id")
	}

	req := httptest.NewRequest("GET", "/api/responses", nil)
	w = httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("responses status = %d", w.Code)
	}

	body = decodeBody(t, w)
	if body["total"] != float64(1) {
		t.Fatalf("total = %v, want 1", body["total"])
	}
	if body["storage"] != "file" {
		t.Fatalf("storage = %v, want file", body["storage"])
	}
	responses := body["responses"].([]any)
	record := responses[0].(map[string]any)
	if record["q1"] != "1-2 years" {
		t.Errorf("q1 = %v", record["q1"])
	}
	if record["server_timestamp"] == nil || record["client_ip"] == nil || record["user_agent"] == nil {
		t.Errorf("server metadata missing: %v", record)
	}
}

func TestSubmitRejectsBadInput(t *testing.T) {
	handler := Wire(newTestApp(t, config.Config{}))

	tests := []struct {
		name        string
		contentType string
		body        string
	}{
		{"missing content type", "text/plain", `{"q1":"a"}`},
		{"empty object", "application/json", `{}`},
		{"empty body", "application/json", ``},
		{"malformed json", "application/json", `{not json`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("POST", "/api/submit", bytes.NewReader([]byte(tt.body)))
			req.Header.Set("Content-Type", tt.contentType)
			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)

			if w.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400", w.Code)
			}
			body := decodeBody(t, w)
			if body["error"] == nil {
				t.Fatalf("error body = %v", body)
			}
		})
	}
}

func TestStats(t *testing.T) {
	handler := Wire(newTestApp(t, config.Config{}))

	submitJSON(t, handler, `{"q1":"a","q3":"good","q6":"4"}`)
	submitJSON(t, handler, `{"q1":"a","q6":"5"}`)
	submitJSON(t, handler, `{"q1":"b","q6":"x"}`)

	req := httptest.NewRequest("GET", "/api/stats", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("stats status = %d", w.Code)
	}

	body := decodeBody(t, w)
	if body["total_responses"] != float64(3) {
		t.Fatalf("total_responses = %v", body["total_responses"])
	}
	q1 := body["q1_distribution"].(map[string]any)
	if q1["a"] != float64(2) || q1["b"] != float64(1) {
		t.Errorf("q1_distribution = %v", q1)
	}
	if body["q6_average"] != float64(4.5) {
		t.Errorf("q6_average = %v, want 4.5", body["q6_average"])
	}
	if body["q10_average"] != nil {
		t.Errorf("q10_average = %v, want null", body["q10_average"])
	}
	if body["storage"] != "file" {
		t.Errorf("storage = %v", body["storage"])
	}
}

func TestStatsEmpty(t *testing.T) {
	handler := Wire(newTestApp(t, config.Config{}))

	req := httptest.NewRequest("GET", "/api/stats", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	body := decodeBody(t, w)
	if body["total_responses"] != float64(0) {
		t.Fatalf("total_responses = %v", body["total_responses"])
	}
	if body["message"] == nil {
		t.Fatalf("empty stats should carry a message: %v", body)
	}
}

func TestPathTraversalRejected(t *testing.T) {
	handler := Wire(newTestApp(t, config.Config{}))

	req := httptest.NewRequest("GET", "/assets/../config.go", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
	body := decodeBody(t, w)
	if body["error"] != "Invalid path" {
		t.Fatalf("error = %v", body["error"])
	}
}

func TestHealthEndpoints(t *testing.T) {
	handler := Wire(newTestApp(t, config.Config{}))

	tests := []struct {
		path   string
		status string
	}{
		{"/health", "healthy"},
		{"/health/ready", "ready"},
		{"/health/live", "alive"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			req := httptest.NewRequest("GET", tt.path, nil)
			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)

			if w.Code != http.StatusOK {
				t.Fatalf("status = %d", w.Code)
			}
			body := decodeBody(t, w)
			if body["status"] != tt.status {
				t.Fatalf("status = %v, want %s", body["status"], tt.status)
			}
		})
	}
}

func TestReadinessReportsFileStorage(t *testing.T) {
	handler := Wire(newTestApp(t, config.Config{}))

	req := httptest.NewRequest("GET", "/health/ready", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	body := decodeBody(t, w)
	checks := body["checks"].(map[string]any)
	if checks["storage"] != "file-based" {
		t.Fatalf("checks = %v", checks)
	}
}

func TestInfo(t *testing.T) {
	handler := Wire(newTestApp(t, config.Config{Environment: "testing"}))

	req := httptest.NewRequest("GET", "/api/info", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	body := decodeBody(t, w)
	if body["app"] != config.AppName {
		t.Errorf("app = %v", body["app"])
	}
	if body["environment"] != "testing" {
		t.Errorf("environment = %v", body["environment"])
	}
	if body["storage"] != "File-based" {
		t.Errorf("storage = %v", body["storage"])
	}
}

func TestRateLimit(t *testing.T) {
	handler := Wire(newTestApp(t, config.Config{
		RateLimitEnabled:  true,
		RateLimitRequests: 2,
		RateLimitWindow:   60,
	}))

	for i := 0; i < 2; i++ {
		req := httptest.NewRequest("GET", "/api/stats", nil)
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)
		if w.Code != http.StatusOK {
			t.Fatalf("request %d status = %d, want 200", i+1, w.Code)
		}
	}

	req := httptest.NewRequest("GET", "/api/stats", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("status = %d, want 429", w.Code)
	}
	body := decodeBody(t, w)
	if body["retry_after"] != float64(60) {
		t.Fatalf("retry_after = %v, want 60", body["retry_after"])
	}

	// /api/info is not rate limited
	req = httptest.NewRequest("GET", "/api/info", nil)
	w = httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("info status = %d, want 200", w.Code)
	}
}

func TestResponseHeaders(t *testing.T) {
	handler := Wire(newTestApp(t, config.Config{}))

	req := httptest.NewRequest("GET", "/api/info", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if got := w.Header().Get("X-Content-Type-Options"); got != "nosniff" {
		t.Errorf("X-Content-Type-Options = %q", got)
	}
	if got := w.Header().Get("X-Frame-Options"); got != "SAMEORIGIN" {
		t.Errorf("X-Frame-Options = %q", got)
	}
	if w.Header().Get("X-Request-ID") == "" {
		t.Error("X-Request-ID not set")
	}

	// client-supplied request id is echoed back
	req = httptest.NewRequest("GET", "/api/info", nil)
	req.Header.Set("X-Request-ID", "my-request")
	w = httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	if got := w.Header().Get("X-Request-ID"); got != "my-request" {
		t.Errorf("X-Request-ID = %q, want my-request", got)
	}
}
