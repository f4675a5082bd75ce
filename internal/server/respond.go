package server

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"
)

type errorBody struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zap.L().Warn("server: encode response", zap.Error(err))
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorBody{Success: false, Error: msg})
}

// keyed is embedded in request bodies that may carry their own Apollo key.
type keyed struct {
	APIKey    string `json:"api_key"`
	APIKeyAlt string `json:"apiKey"`
}

func (k keyed) key() string {
	if k.APIKey != "" {
		return k.APIKey
	}
	return k.APIKeyAlt
}
