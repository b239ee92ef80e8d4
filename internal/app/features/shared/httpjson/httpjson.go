// Package httpjson holds the JSON request/response helpers shared by the
// API feature handlers.
package httpjson

import (
	"encoding/json"
	"net/http"
)

// errorBody is the wire shape of every error response.
type errorBody struct {
	Error errorDetail `json:"error"`
}

type errorDetail struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
}

// Respond writes v as a JSON response with the given status.
func Respond(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if v != nil {
		_ = json.NewEncoder(w).Encode(v)
	}
}

// Error writes a structured error response.
func Error(w http.ResponseWriter, status int, code, message string) {
	Respond(w, status, errorBody{Error: errorDetail{Code: code, Message: message}})
}

// FieldError writes a validation error response naming the offending field.
func FieldError(w http.ResponseWriter, status int, code, message, field, reason string) {
	Respond(w, status, errorBody{Error: errorDetail{
		Code:    code,
		Message: message,
		Fields:  map[string]string{field: reason},
	}})
}

// Decode reads the request body as JSON into v, rejecting unknown fields.
func Decode(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}
