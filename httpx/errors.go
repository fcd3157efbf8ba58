package httpx

import (
	"net"
	"net/http"
	"strings"

	"github.com/go-chi/render"

	"github.com/nanotronics/survey-server/log"
)

// JSONError sends an error response in the {error, message} shape the
// frontend expects.
func JSONError(w http.ResponseWriter, r *http.Request, status int, errTitle, msg string) {
	render.Status(r, status)
	render.JSON(w, r, map[string]any{
		"error":   errTitle,
		"message": msg,
	})
}

// LogBadRequest logs a client input error at debug level (these are
// never server errors) and answers 400.
func LogBadRequest(w http.ResponseWriter, r *http.Request, code, errTitle, msg string) {
	log.Debugf("%s: %s", code, errTitle)
	JSONError(w, r, http.StatusBadRequest, errTitle, msg)
}

// LogInternalError logs the full error and answers 500 with a generic
// message. Detail stays in the server logs, never in the response.
func LogInternalError(w http.ResponseWriter, r *http.Request, code string, err error) {
	log.Errorf("%s: %s", code, err)
	JSONError(w, r, http.StatusInternalServerError,
		"Internal Server Error", "An unexpected error occurred")
}

// LogInternalErrorMsg is LogInternalError with an endpoint-specific
// client message.
func LogInternalErrorMsg(w http.ResponseWriter, r *http.Request, code string, err error, errTitle, msg string) {
	log.Errorf("%s: %s", code, err)
	JSONError(w, r, http.StatusInternalServerError, errTitle, msg)
}

// ClientIP derives the client identifier from the forwarded-for header
// when present, otherwise from the socket address.
func ClientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		return strings.TrimSpace(strings.Split(fwd, ",")[0])
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
