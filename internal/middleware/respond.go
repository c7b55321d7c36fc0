package middleware

import (
	"net/http"

	"github.com/goccy/go-json"
)

// writeDetail writes the API's error body, {"detail": msg}.
func writeDetail(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"detail": msg})
}
