// Package httpx provides HTTP response utilities for the JSON API.
package httpx

import (
	"encoding/json"
	"net/http"
)

// Envelope is the common failure response shape.
type Envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// JSON sends a JSON response with the given status code.
func JSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// Fail sends a failure envelope with the given status and message.
func Fail(w http.ResponseWriter, status int, message string) {
	JSON(w, status, Envelope{Success: false, Message: message})
}

// DecodeJSON decodes JSON request body into the target struct.
func DecodeJSON(r *http.Request, target any) error {
	return json.NewDecoder(r.Body).Decode(target)
}
