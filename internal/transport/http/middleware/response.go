package middleware

import (
	"encoding/json"
	"net/http"
)

// writeJSONError emits the same {"error": ...} shape the handlers use, so
// middleware rejections are indistinguishable from handler-level ones.
func writeJSONError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(struct {
		Error string `json:"error"`
	}{Error: msg})
}
