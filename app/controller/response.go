package controller

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"

	"twibbon-campaign/repository"
	"twibbon-campaign/service"
)

// writeJSON encodes v as the response body
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("❌ Failed to encode response: %v", err)
	}
}

// writeError answers with {"error": message}
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// statusForError maps service and repository errors to HTTP status codes
func statusForError(err error) int {
	switch {
	case errors.Is(err, repository.ErrNotFound), errors.Is(err, service.ErrAssetNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrSlugExists):
		return http.StatusConflict
	case errors.Is(err, service.ErrInvalidPassword), errors.Is(err, service.ErrInvalidSession):
		return http.StatusUnauthorized
	case errors.Is(err, service.ErrProtectedSetting):
		return http.StatusForbidden
	case errors.Is(err, service.ErrInvalidCampaign),
		errors.Is(err, service.ErrInvalidDownload),
		errors.Is(err, service.ErrWeakPassword):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// writeServiceError logs err and answers with its mapped status.
// Internal errors are not echoed to the client.
func writeServiceError(w http.ResponseWriter, action string, err error) {
	status := statusForError(err)
	if status == http.StatusInternalServerError {
		log.Printf("❌ %s: %v", action, err)
		writeError(w, status, "Internal server error")
		return
	}
	log.Printf("⚠️  %s: %v", action, err)
	writeError(w, status, err.Error())
}

// pathID parses the {id} path value
func pathID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// queryInt64 parses an optional positive integer query parameter
func queryInt64(r *http.Request, key string) (*int64, error) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || v <= 0 {
		return nil, errors.New("invalid " + key)
	}
	return &v, nil
}
