package server

import (
	"log"
	"net/http"
	"strings"

	"gartic-show/internal/db"
	"gartic-show/internal/game"
)

type selectWordRequest struct {
	UserID string `json:"user_id"`
	Word   string `json:"word"`
}

type guessRequest struct {
	UserID string `json:"user_id"`
	Text   string `json:"text"`
}

type advanceRequest struct {
	UserID string `json:"user_id"`
}

func (s *Server) handleGameState(w http.ResponseWriter, r *http.Request) {
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

func (s *Server) handleWordChoices(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("user_id")
	var choices []string
	_, err := s.store.Update(r.PathValue("id"), func(sess *Session) error {
		if sess.Engine == nil {
			return errGameNotRunning
		}
		drawer, ok := sess.Engine.Drawer()
		if !ok || drawer.ID != userID {
			return errNotDrawer
		}
		choices = sess.Engine.WordChoices()
		if choices == nil {
			return errGameNotRunning
		}
		return nil
	})
	if err != nil {
		writeError(w, statusForSessionError(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"words": choices})
}

func (s *Server) handleSelectWord(w http.ResponseWriter, r *http.Request) {
	var req selectWordRequest
	if err := readJSON(r.Body, &req); err != nil || req.UserID == "" {
		writeError(w, http.StatusBadRequest, "user_id and word are required")
		return
	}
	var round int
	sess, err := s.store.Update(r.PathValue("id"), func(sess *Session) error {
		if sess.Engine == nil {
			return errGameNotRunning
		}
		drawer, ok := sess.Engine.Drawer()
		if !ok || drawer.ID != req.UserID {
			return errNotDrawer
		}
		if !sess.Engine.SelectWord(req.Word) {
			return errWordNotOffered
		}
		round = sess.Engine.Round()
		s.scheduleBotTurn(sess)
		return nil
	})
	if err != nil {
		writeError(w, statusForSessionError(err), err.Error())
		return
	}
	log.Printf("word selected lobby_id=%s round=%d drawer=%s", sess.ID, round, req.UserID)
	s.pushGameSnapshot(sess.ID)
	writeJSON(w, http.StatusOK, map[string]string{"lobby_id": sess.ID})
}

func (s *Server) handleGuess(w http.ResponseWriter, r *http.Request) {
	var req guessRequest
	if err := readJSON(r.Body, &req); err != nil || req.UserID == "" {
		writeError(w, http.StatusBadRequest, "user_id and text are required")
		return
	}
	var result game.GuessResult
	var outcome *game.RoundOutcome
	sess, err := s.store.Update(r.PathValue("id"), func(sess *Session) error {
		if sess.Engine == nil {
			return errGameNotRunning
		}
		result = sess.Engine.SubmitGuess(req.UserID, req.Text)
		if result == game.GuessCorrect {
			outcome = sess.Engine.LastOutcome()
		}
		return nil
	})
	if err != nil {
		writeError(w, statusForSessionError(err), err.Error())
		return
	}
	if outcome != nil {
		log.Printf("word guessed lobby_id=%s round=%d guesser=%s points=%d",
			sess.ID, outcome.Round, outcome.GuesserID, outcome.GuesserPoints)
		s.logPersistErr("event", s.persistEvent(sess, "round_ended", EventPayload{
			LobbyID:       sess.ID,
			Round:         outcome.Round,
			Word:          outcome.Word,
			GuesserID:     outcome.GuesserID,
			GuesserPoints: outcome.GuesserPoints,
			DrawerID:      outcome.DrawerID,
			DrawerPoints:  outcome.DrawerPoints,
			Reason:        "guessed",
		}))
	}
	s.pushGameSnapshot(sess.ID)
	writeJSON(w, http.StatusOK, map[string]string{"result": guessResultLabel(result)})
}

func guessResultLabel(result game.GuessResult) string {
	switch result {
	case game.GuessCorrect:
		return "correct"
	case game.GuessWrong:
		return "wrong"
	default:
		return "ignored"
	}
}

func (s *Server) handleAdvance(w http.ResponseWriter, r *http.Request) {
	var req advanceRequest
	if err := readJSON(r.Body, &req); err != nil || req.UserID == "" {
		writeError(w, http.StatusBadRequest, "user_id is required")
		return
	}
	var finished bool
	var round int
	var result *game.GameResult
	sess, err := s.store.Update(r.PathValue("id"), func(sess *Session) error {
		if sess.Engine == nil {
			return errGameNotRunning
		}
		if sess.Engine.State() != game.StateEndOfRound {
			return errGameNotRunning
		}
		sess.Engine.Advance()
		if sess.Engine.State() == game.StateGameEnded {
			finished = true
			result = sess.Engine.Result()
			sess.Status = db.StatusFinished
		} else {
			round = sess.Engine.Round()
			s.scheduleBotTurn(sess)
		}
		return nil
	})
	if err != nil {
		writeError(w, statusForSessionError(err), err.Error())
		return
	}
	if finished {
		s.finishSession(sess, result)
	} else {
		log.Printf("round advanced lobby_id=%s round=%d", sess.ID, round)
	}
	s.pushGameSnapshot(sess.ID)
	writeJSON(w, http.StatusOK, map[string]string{"lobby_id": sess.ID})
}

func (s *Server) handleProfile(w http.ResponseWriter, r *http.Request) {
	if s.db == nil {
		http.NotFound(w, r)
		return
	}
	profile, err := db.GetProfile(s.db, r.PathValue("user_id"))
	if err != nil {
		http.NotFound(w, r)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"user_id":    profile.UserID,
		"name":       profile.Name,
		"wins":       profile.Wins,
		"losses":     profile.Losses,
		"desertions": profile.Desertions,
	})
}

// removeFromGame is the single funnel for mid-game departures: both the
// leave handler and the roster poller end up here. Removal is idempotent,
// so racing paths are harmless.
func (s *Server) removeFromGame(sessionID, userID string) {
	var dep game.Departure
	var result *game.GameResult
	sess, err := s.store.Update(sessionID, func(sess *Session) error {
		if sess.Engine == nil {
			return errGameNotRunning
		}
		dep = sess.Engine.RemovePlayer(userID)
		if !dep.Removed {
			return nil
		}
		for i := range sess.Roster {
			if sess.Roster[i].UserID == userID {
				sess.Roster = append(sess.Roster[:i], sess.Roster[i+1:]...)
				break
			}
		}
		if dep.GameOver {
			result = sess.Engine.Result()
			sess.Status = db.StatusFinished
		}
		return nil
	})
	if err != nil || !dep.Removed {
		return
	}
	log.Printf("player deserted lobby_id=%s user_id=%s game_over=%t", sessionID, userID, dep.GameOver)
	s.logPersistErr("event", s.persistEvent(sess, "player_deserted", EventPayload{
		LobbyID:    sessionID,
		UserID:     userID,
		DeserterID: dep.DeserterID,
		WinnerID:   dep.WinnerID,
	}))
	if dep.GameOver {
		s.finishSession(sess, result)
	}
	s.pushGameSnapshot(sessionID)
}

// finishSession performs the out-of-lock bookkeeping of a game that just
// reached its terminal state: status row, profile stats, final event, and
// timer teardown.
func (s *Server) finishSession(sess *Session, result *game.GameResult) {
	log.Printf("game ended lobby_id=%s winner=%s deserter=%s",
		sess.ID, orDash(result.WinnerID), orDash(result.DeserterID))
	s.logPersistErr("status", s.persistLobbyStatus(sess, db.StatusFinished))
	s.persistGameResult(sess, result)
	s.logPersistErr("event", s.persistEvent(sess, "game_ended", EventPayload{
		LobbyID:    sess.ID,
		WinnerID:   result.WinnerID,
		DeserterID: result.DeserterID,
		Status:     db.StatusFinished,
	}))
	s.stopSessionTimers(sess.ID)
	s.pushLobbyList()
}

func orDash(id string) string {
	if strings.TrimSpace(id) == "" {
		return "-"
	}
	return id
}
