package server

import (
	"log"
	"net/http"
	"strings"

	"gartic-show/internal/db"
	"gartic-show/internal/game"
)

type createLobbyRequest struct {
	UserID   string `json:"user_id"`
	UserName string `json:"user_name"`
	Name     string `json:"name"`
}

type joinLobbyRequest struct {
	UserID string `json:"user_id"`
	Name   string `json:"name"`
}

type readyRequest struct {
	UserID string `json:"user_id"`
	Ready  bool   `json:"ready"`
}

type leaveRequest struct {
	UserID string `json:"user_id"`
}

type startRequest struct {
	UserID string `json:"user_id"`
}

type soloRequest struct {
	UserID string `json:"user_id"`
	Name   string `json:"name"`
}

func (s *Server) handleCreateLobby(w http.ResponseWriter, r *http.Request) {
	var req createLobbyRequest
	if err := readJSON(r.Body, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	req.UserID = strings.TrimSpace(req.UserID)
	req.Name = strings.TrimSpace(req.Name)
	if req.UserID == "" || req.Name == "" {
		writeError(w, http.StatusBadRequest, "user_id and name are required")
		return
	}
	if req.UserName == "" {
		req.UserName = s.displayName(req.UserID)
	}

	sess := s.store.Create(req.Name, req.UserID, req.UserName, false)
	s.logPersistErr("lobby", s.persistLobby(sess))
	s.logPersistErr("roster", s.persistRosterAdd(sess, RosterEntry{
		UserID:   req.UserID,
		Name:     req.UserName,
		JoinedAt: sess.CreatedAt,
	}))
	log.Printf("lobby created lobby_id=%s join_code=%s creator=%s", sess.ID, sess.JoinCode, req.UserID)
	s.pushLobbyList()
	writeJSON(w, http.StatusCreated, map[string]string{
		"lobby_id":  sess.ID,
		"join_code": sess.JoinCode,
	})
}

func (s *Server) handleListLobbies(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"lobbies": s.store.ListByStatus(db.StatusWaiting),
	})
}

func (s *Server) handleGetLobby(w http.ResponseWriter, r *http.Request) {
	viewerID := r.URL.Query().Get("user_id")
	var snapshot map[string]any
	if err := s.store.View(r.PathValue("id"), func(sess *Session) {
		snapshot = sessionSnapshot(sess, viewerID)
	}); err != nil {
		http.NotFound(w, r)
		return
	}
	writeJSON(w, http.StatusOK, snapshot)
}

func (s *Server) handleJoinLobby(w http.ResponseWriter, r *http.Request) {
	var req joinLobbyRequest
	if err := readJSON(r.Body, &req); err != nil || strings.TrimSpace(req.UserID) == "" {
		writeError(w, http.StatusBadRequest, "user_id is required")
		return
	}
	if req.Name == "" {
		req.Name = s.displayName(req.UserID)
	}

	var added bool
	entry := RosterEntry{UserID: req.UserID, Name: req.Name, JoinedAt: timeNowUTC()}
	sess, err := s.store.Update(r.PathValue("id"), func(sess *Session) error {
		if sess.Status != db.StatusWaiting {
			return errLobbyNotWaiting
		}
		if _, ok := sess.FindRosterEntry(req.UserID); ok {
			// Re-join of a known player: idempotent.
			return nil
		}
		sess.Roster = append(sess.Roster, entry)
		added = true
		return nil
	})
	if err != nil {
		writeError(w, statusForSessionError(err), err.Error())
		return
	}
	if added {
		s.logPersistErr("roster", s.persistRosterAdd(sess, entry))
		log.Printf("player joined lobby_id=%s user_id=%s", sess.ID, req.UserID)
	}
	s.pushLobbyList()
	s.pushGameSnapshot(sess.ID)
	writeJSON(w, http.StatusOK, map[string]string{"lobby_id": sess.ID})
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	var req readyRequest
	if err := readJSON(r.Body, &req); err != nil || req.UserID == "" {
		writeError(w, http.StatusBadRequest, "user_id is required")
		return
	}
	sess, err := s.store.Update(r.PathValue("id"), func(sess *Session) error {
		if sess.Status != db.StatusWaiting {
			return errLobbyNotWaiting
		}
		entry, ok := sess.FindRosterEntry(req.UserID)
		if !ok {
			return errLobbyNotFound
		}
		entry.IsReady = req.Ready
		return nil
	})
	if err != nil {
		writeError(w, statusForSessionError(err), err.Error())
		return
	}
	s.pushGameSnapshot(sess.ID)
	writeJSON(w, http.StatusOK, map[string]string{"lobby_id": sess.ID})
}

func (s *Server) handleLeave(w http.ResponseWriter, r *http.Request) {
	var req leaveRequest
	if err := readJSON(r.Body, &req); err != nil || req.UserID == "" {
		writeError(w, http.StatusBadRequest, "user_id is required")
		return
	}
	sessionID := r.PathValue("id")

	var status string
	var emptied bool
	sess, err := s.store.Update(sessionID, func(sess *Session) error {
		status = sess.Status
		if sess.Status != db.StatusWaiting {
			return nil
		}
		for i := range sess.Roster {
			if sess.Roster[i].UserID == req.UserID {
				sess.Roster = append(sess.Roster[:i], sess.Roster[i+1:]...)
				break
			}
		}
		emptied = len(sess.Roster) == 0
		return nil
	})
	if err != nil {
		writeError(w, statusForSessionError(err), err.Error())
		return
	}

	switch status {
	case db.StatusWaiting:
		s.logPersistErr("roster", s.persistRosterRemove(sess, req.UserID))
		s.logPersistErr("event", s.persistEvent(sess, "player_left", EventPayload{
			LobbyID: sess.ID,
			UserID:  req.UserID,
		}))
		log.Printf("player left lobby_id=%s user_id=%s", sess.ID, req.UserID)
		if emptied {
			s.store.Delete(sess.ID)
			s.logPersistErr("lobby", s.deleteLobby(sess))
			log.Printf("lobby deleted lobby_id=%s", sess.ID)
		} else {
			s.pushGameSnapshot(sess.ID)
		}
		s.pushLobbyList()
	case db.StatusInGame:
		// Mid-game departure is a desertion. The roster row goes first so
		// the poll fallback sees the same fact the push path acts on.
		s.logPersistErr("roster", s.persistRosterRemove(sess, req.UserID))
		s.removeFromGame(sess.ID, req.UserID)
	default:
		// Finished games have nothing to update.
	}
	writeJSON(w, http.StatusOK, map[string]string{"lobby_id": sessionID})
}

func (s *Server) handleStartGame(w http.ResponseWriter, r *http.Request) {
	var req startRequest
	if err := readJSON(r.Body, &req); err != nil || req.UserID == "" {
		writeError(w, http.StatusBadRequest, "user_id is required")
		return
	}
	var playerCount int
	sess, err := s.store.Update(r.PathValue("id"), func(sess *Session) error {
		if sess.Status != db.StatusWaiting {
			return errLobbyNotWaiting
		}
		if sess.CreatorID != req.UserID {
			return errNotCreator
		}
		if len(sess.Roster) < s.cfg.MinPlayers {
			return errNotEnoughPlayers
		}
		playerCount = len(sess.Roster)
		players := make([]game.Player, 0, len(sess.Roster))
		for _, entry := range sess.Roster {
			players = append(players, game.Player{ID: entry.UserID, Name: entry.Name})
		}
		engine := game.New(s.gameConfig(), game.NewWordBank(nil, sess.rng), players)
		if err := engine.Start(); err != nil {
			return err
		}
		sess.Engine = engine
		sess.Status = db.StatusInGame
		return nil
	})
	if err != nil {
		writeError(w, statusForSessionError(err), err.Error())
		return
	}
	s.logPersistErr("status", s.persistLobbyStatus(sess, db.StatusInGame))
	s.logPersistErr("event", s.persistEvent(sess, "game_started", EventPayload{
		LobbyID: sess.ID,
		UserID:  req.UserID,
	}))
	log.Printf("game started lobby_id=%s players=%d", sess.ID, playerCount)
	s.startSessionTimers(sess.ID, sess.Solo)
	s.pushLobbyList()
	s.pushGameSnapshot(sess.ID)
	writeJSON(w, http.StatusOK, map[string]string{
		"lobby_id": sess.ID,
		"status":   db.StatusInGame,
	})
}

func (s *Server) handleCreateSolo(w http.ResponseWriter, r *http.Request) {
	var req soloRequest
	if err := readJSON(r.Body, &req); err != nil || strings.TrimSpace(req.UserID) == "" {
		writeError(w, http.StatusBadRequest, "user_id is required")
		return
	}
	if req.Name == "" {
		req.Name = s.displayName(req.UserID)
	}

	sess := s.store.Create("Solo vs Bot", req.UserID, req.Name, true)
	_, err := s.store.Update(sess.ID, func(sess *Session) error {
		sess.Roster = append(sess.Roster, RosterEntry{
			UserID:   botUserID,
			Name:     botName,
			JoinedAt: timeNowUTC(),
		})
		players := []game.Player{
			{ID: req.UserID, Name: req.Name},
			{ID: botUserID, Name: botName, IsBot: true},
		}
		engine := game.New(s.gameConfig(), game.NewWordBank(nil, sess.rng), players)
		if err := engine.Start(); err != nil {
			return err
		}
		sess.Engine = engine
		sess.Status = db.StatusInGame
		s.scheduleBotTurn(sess)
		return nil
	})
	if err != nil {
		s.store.Delete(sess.ID)
		writeError(w, statusForSessionError(err), err.Error())
		return
	}
	log.Printf("solo game started lobby_id=%s user_id=%s", sess.ID, req.UserID)
	s.startSessionTimers(sess.ID, true)
	writeJSON(w, http.StatusCreated, map[string]string{"lobby_id": sess.ID})
}

const (
	botUserID = "bot"
	botName   = "Bot"
)
