package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
)

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func queryInt(r *http.Request, key string, defaultValue int) int {
	if raw := r.URL.Query().Get(key); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil {
			return v
		}
	}
	return defaultValue
}

func queryFloatPtr(r *http.Request, key string) *float64 {
	if raw := r.URL.Query().Get(key); raw != "" {
		if v, err := strconv.ParseFloat(raw, 64); err == nil {
			return &v
		}
	}
	return nil
}
