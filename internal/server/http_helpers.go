package server

import (
	"encoding/json"
	"io"
	"net/http"
)

func readJSON(body io.Reader, dest any) error {
	decoder := json.NewDecoder(body)
	decoder.DisallowUnknownFields()
	return decoder.Decode(dest)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{
		"error": message,
	})
}

// statusForSessionError maps store/session errors onto HTTP statuses.
func statusForSessionError(err error) int {
	switch err {
	case errLobbyNotFound:
		return http.StatusNotFound
	case errNotCreator, errNotDrawer:
		return http.StatusForbidden
	case errLobbyNotWaiting, errNotEnoughPlayers, errGameNotRunning, errWordNotOffered:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
