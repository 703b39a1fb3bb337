package server

import (
	"encoding/json"
	"net/http"
)

// problemBase prefixes every problem type URI.
const problemBase = "https://cloudadvisor.dev/problems/"

// Problem types for RFC 7807 Problem Details responses.
const (
	ProblemTypeNotFound         = problemBase + "not-found"
	ProblemTypeMethodNotAllowed = problemBase + "method-not-allowed"
	ProblemTypeBadRequest       = problemBase + "bad-request"
	ProblemTypeInternal         = problemBase + "internal-error"
	ProblemTypeRateLimited      = problemBase + "rate-limited"
	ProblemTypeUnavailable      = problemBase + "unavailable"
)

// Problem represents an RFC 7807 Problem Details response.
type Problem struct {
	Type      string `json:"type"`
	Title     string `json:"title"`
	Status    int    `json:"status"`
	Detail    string `json:"detail,omitempty"`
	Instance  string `json:"instance,omitempty"`
	RequestID string `json:"request_id,omitempty"`
}

// WriteProblem writes an RFC 7807 Problem Details JSON response. The
// request ID set by the middleware is echoed when present.
func WriteProblem(w http.ResponseWriter, p Problem) {
	if p.RequestID == "" {
		p.RequestID = w.Header().Get(RequestIDHeader)
	}
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(p.Status)
	_ = json.NewEncoder(w).Encode(p)
}

func writeStatus(w http.ResponseWriter, typ string, status int, detail, instance string) {
	WriteProblem(w, Problem{
		Type:     typ,
		Title:    http.StatusText(status),
		Status:   status,
		Detail:   detail,
		Instance: instance,
	})
}

// NotFound writes a 404 problem response.
func NotFound(w http.ResponseWriter, detail, instance string) {
	writeStatus(w, ProblemTypeNotFound, http.StatusNotFound, detail, instance)
}

// MethodNotAllowed writes a 405 problem response. Callers set the Allow
// header.
func MethodNotAllowed(w http.ResponseWriter, detail, instance string) {
	writeStatus(w, ProblemTypeMethodNotAllowed, http.StatusMethodNotAllowed, detail, instance)
}

// BadRequest writes a 400 problem response.
func BadRequest(w http.ResponseWriter, detail, instance string) {
	writeStatus(w, ProblemTypeBadRequest, http.StatusBadRequest, detail, instance)
}

// InternalError writes a 500 problem response.
func InternalError(w http.ResponseWriter, detail, instance string) {
	writeStatus(w, ProblemTypeInternal, http.StatusInternalServerError, detail, instance)
}

// RateLimited writes a 429 problem response.
func RateLimited(w http.ResponseWriter, detail, instance string) {
	writeStatus(w, ProblemTypeRateLimited, http.StatusTooManyRequests, detail, instance)
}

// ServiceUnavailable writes a 503 problem response, used when a
// collaborator such as the catalog source is down.
func ServiceUnavailable(w http.ResponseWriter, detail, instance string) {
	writeStatus(w, ProblemTypeUnavailable, http.StatusServiceUnavailable, detail, instance)
}
