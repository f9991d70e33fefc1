package respond

import (
	"encoding/json"
	"net/http"
)

// ErrorItem is one entry of an error response.
type ErrorItem struct {
	Type string `json:"type"`
	Msg  string `json:"msg"`
}

// ErrorBody is the body of every non-2xx response.
type ErrorBody struct {
	Errors []ErrorItem `json:"errors"`
}

// JSON writes v with the given status.
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// Error writes a single error entry. typ names the error class.
func Error(w http.ResponseWriter, status int, typ, msg string) {
	JSON(w, status, ErrorBody{Errors: []ErrorItem{{Type: typ, Msg: msg}}})
}
