// Package response writes the JSON envelope every API handler answers with:
//
//	{"status": 409, "message": "Insufficient stock", "data": {...}, "errors": {...}}
//
// data is always present (null when there is nothing to return) so clients
// can tell an empty list from a missing one. message and errors are omitted
// when empty.
package response

import (
	"encoding/json"
	"net/http"

	"github.com/shashiranjanraj/giftwheels/pkg/logger"
)

// Envelope is the body of every API response.
type Envelope struct {
	Status  int               `json:"status"`
	Message string            `json:"message,omitempty"`
	Data    any               `json:"data"`
	Errors  map[string]string `json:"errors,omitempty"`
}

// JSON writes env with its own Status as the HTTP status code.
func JSON(w http.ResponseWriter, env Envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(env.Status)
	if err := json.NewEncoder(w).Encode(env); err != nil {
		logger.Debug("response: write failed", "status", env.Status, "error", err)
	}
}

func Success(w http.ResponseWriter, data any) {
	JSON(w, Envelope{Status: http.StatusOK, Data: data})
}

func Created(w http.ResponseWriter, data any) {
	JSON(w, Envelope{Status: http.StatusCreated, Data: data})
}

// Error answers with status and a human readable message.
func Error(w http.ResponseWriter, status int, message string) {
	JSON(w, Envelope{Status: status, Message: message})
}

// ErrorWith is Error plus data, such as the stock a rejected order saw.
func ErrorWith(w http.ResponseWriter, status int, message string, data any) {
	JSON(w, Envelope{Status: status, Message: message, Data: data})
}

// ValidationError answers 422 with one message per offending field.
func ValidationError(w http.ResponseWriter, fields map[string]string) {
	JSON(w, Envelope{
		Status:  http.StatusUnprocessableEntity,
		Message: "Validation failed",
		Errors:  fields,
	})
}

func BadRequest(w http.ResponseWriter, message string) {
	Error(w, http.StatusBadRequest, message)
}

func Unauthorized(w http.ResponseWriter) {
	Error(w, http.StatusUnauthorized, "Unauthorized")
}

func NotFound(w http.ResponseWriter) {
	Error(w, http.StatusNotFound, "Not found")
}

// ServiceUnavailable reports that the store could not be read or written.
func ServiceUnavailable(w http.ResponseWriter) {
	Error(w, http.StatusServiceUnavailable, "Storage unavailable")
}
