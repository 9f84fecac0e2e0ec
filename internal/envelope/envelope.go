// Package envelope implements the uniform JSON response wrapper returned by
// every endpoint.
package envelope

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
)

// Response is the body of every API reply. It is created once per request,
// moved to a terminal state with Succeed or Fail, and written once.
type Response struct {
	IsSuccess     bool     `json:"isSuccess"`
	StatusCode    int      `json:"statusCode"`
	ErrorMessages []string `json:"errorMessages"`
	Data          any      `json:"data,omitempty"`
}

// New returns a response that has not reached a terminal state yet.
func New() *Response {
	return &Response{ErrorMessages: []string{}}
}

// Succeed marks the response successful. data may be nil for operations that
// return nothing, such as delete.
func (r *Response) Succeed(status int, data any) *Response {
	r.IsSuccess = true
	r.StatusCode = status
	r.ErrorMessages = []string{}
	r.Data = data
	return r
}

// Fail marks the response failed with at least one message. An empty message
// list is replaced by the status text.
func (r *Response) Fail(status int, messages ...string) *Response {
	if len(messages) == 0 {
		messages = []string{http.StatusText(status)}
	}
	r.IsSuccess = false
	r.StatusCode = status
	r.ErrorMessages = append([]string{}, messages...)
	r.Data = nil
	return r
}

// Error joins the error messages for logging.
func (r *Response) Error() string {
	return strings.Join(r.ErrorMessages, "; ")
}

// Write serializes the response with the HTTP status equal to StatusCode.
func (r *Response) Write(w http.ResponseWriter) {
	if r.StatusCode == 0 {
		r.Fail(http.StatusInternalServerError)
	}
	if r.ErrorMessages == nil {
		r.ErrorMessages = []string{}
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(r.StatusCode)
	if err := json.NewEncoder(w).Encode(r); err != nil {
		slog.Error("failed to encode response envelope", "error", err, "status_code", r.StatusCode)
	}
}

// WriteError is shorthand for a failure envelope written straight to w.
func WriteError(w http.ResponseWriter, status int, messages ...string) {
	New().Fail(status, messages...).Write(w)
}
