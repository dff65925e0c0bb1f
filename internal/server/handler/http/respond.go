// Package http provides HTTP routing and handlers for the portal API.
package http

import (
	"encoding/json"
	"net/http"
)

// writeJSON writes v as an application/json response with the status code.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeDetail writes the conventional error shape consumed by the client:
// {"detail": "..."}.
func writeDetail(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]string{"detail": detail})
}
