package server

import (
	"net/http"
	"strings"

	"github.com/google/uuid"
)

// Identity is deliberately thin: a registered user is an opaque uuid the
// client holds on to, plus a display name. There is no authentication; the
// ID is just a stable handle for rosters, scores and profiles.

type registerUserRequest struct {
	Name string `json:"name"`
}

func (s *Server) handleRegisterUser(w http.ResponseWriter, r *http.Request) {
	var req registerUserRequest
	if err := readJSON(r.Body, &req); err != nil || strings.TrimSpace(req.Name) == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}
	userID := s.store.RegisterUser(strings.TrimSpace(req.Name))
	writeJSON(w, http.StatusCreated, map[string]string{
		"user_id": userID,
		"name":    strings.TrimSpace(req.Name),
	})
}

// RegisterUser issues a fresh opaque user ID bound to a display name.
func (s *Store) RegisterUser(name string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := uuid.NewString()
	s.users[id] = name
	return id
}

// UserName resolves a registered user's display name.
func (s *Store) UserName(userID string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	name, ok := s.users[userID]
	return name, ok
}

// displayName falls back to the registered name for requests that omit one,
// and to the raw ID for unregistered callers.
func (s *Server) displayName(userID string) string {
	if name, ok := s.store.UserName(userID); ok {
		return name
	}
	return userID
}
