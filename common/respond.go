package common

import (
	"encoding/json"
	"net/http"
)

// Envelope is the fixed response shape: status code repeated in the body,
// a human-readable message, and the payload under "data" (omitted on errors).
type Envelope struct {
	Status  int         `json:"status"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// Respond writes a success envelope with the given payload.
func Respond(w http.ResponseWriter, code int, message string, data interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(Envelope{
		Status:  code,
		Message: message,
		Data:    data,
	})
}
