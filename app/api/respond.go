// Package api holds the JSON response helpers and HTTP middleware shared
// by every handler package.
package api

import (
	"encoding/json"
	"net/http"
)

// Response is the envelope every endpoint replies with.
type Response struct {
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

// JSON writes v with the given status code.
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// Message writes a message-only envelope.
func Message(w http.ResponseWriter, status int, message string) {
	JSON(w, status, Response{Message: message})
}
