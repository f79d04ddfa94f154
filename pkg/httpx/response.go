package httpx

import (
	"encoding/json"
	"net/http"
)

// WriteJSON writes v as JSON with the given status and no-cache headers.
func WriteJSON(w http.ResponseWriter, code int, v any) {
	NoCache(w)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// NoCache sets the Cache-Control and Pragma headers to prevent caching.
func NoCache(w http.ResponseWriter) {
	w.Header().Set("Cache-Control", "no-store")
	w.Header().Set("Pragma", "no-cache")
}

// Status is the body of a simple response: {"status":{"code":..,"message":..}}.
// Data is optional and sits next to it.
type Status struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type StatusEnvelope struct {
	Status Status `json:"status"`
	Data   any    `json:"data,omitempty"`
}

// WriteStatus writes {"status":{"code":code,"message":msg}}.
func WriteStatus(w http.ResponseWriter, code int, msg string) {
	WriteJSON(w, code, StatusEnvelope{Status: Status{Code: code, Message: msg}})
}

// ErrorBody is the structured failure form used for authorization and
// validation errors.
type ErrorBody struct {
	Code       string         `json:"code"`
	Message    string         `json:"message"`
	Details    []FieldDetail  `json:"details,omitempty"`
	InnerError map[string]any `json:"innererror,omitempty"`
}

// FieldDetail names one invalid input field.
type FieldDetail struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type ErrorEnvelope struct {
	Error ErrorBody `json:"error"`
}

// WriteError writes {"error":{...}} with the given HTTP status.
func WriteError(w http.ResponseWriter, code int, body ErrorBody) {
	WriteJSON(w, code, ErrorEnvelope{Error: body})
}

// DecodeJSON decodes a request body of at most 1 MiB into v, rejecting
// unknown fields.
func DecodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(nil, r.Body, 1<<20))
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}
