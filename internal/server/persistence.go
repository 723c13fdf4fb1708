package server

import (
	"encoding/json"
	"log"
	"time"

	"gartic-show/internal/db"
	"gartic-show/internal/game"

	"gorm.io/datatypes"
	"gorm.io/gorm/clause"
)

// Persistence is best-effort: every write below is fire-and-forget from the
// gameplay perspective. Callers log failures and keep playing; a nil DB (or a
// solo session, which has no lobby rows at all) short-circuits to success.

func (s *Server) persistLobby(sess *Session) error {
	if s.db == nil || sess.Solo {
		return nil
	}
	record := db.Lobby{
		ID:        sess.ID,
		JoinCode:  sess.JoinCode,
		Name:      sess.Name,
		Status:    sess.Status,
		CreatorID: sess.CreatorID,
	}
	if err := s.db.Clauses(clause.OnConflict{DoNothing: true}).Create(&record).Error; err != nil {
		return err
	}
	return s.persistEvent(sess, "lobby_created", EventPayload{
		LobbyID: sess.ID,
		UserID:  sess.CreatorID,
	})
}

func (s *Server) persistLobbyStatus(sess *Session, status string) error {
	if s.db == nil || sess.Solo {
		return nil
	}
	err := s.db.Model(&db.Lobby{}).Where("id = ?", sess.ID).Update("status", status).Error
	if err != nil {
		return err
	}
	return s.persistEvent(sess, "lobby_status_changed", EventPayload{
		LobbyID: sess.ID,
		Status:  status,
	})
}

func (s *Server) deleteLobby(sess *Session) error {
	if s.db == nil || sess.Solo {
		return nil
	}
	if err := s.db.Where("lobby_id = ?", sess.ID).Delete(&db.LobbyPlayer{}).Error; err != nil {
		return err
	}
	return s.db.Where("id = ?", sess.ID).Delete(&db.Lobby{}).Error
}

func (s *Server) persistRosterAdd(sess *Session, entry RosterEntry) error {
	if s.db == nil || sess.Solo {
		return nil
	}
	record := db.LobbyPlayer{
		LobbyID:  sess.ID,
		UserID:   entry.UserID,
		Name:     entry.Name,
		IsReady:  entry.IsReady,
		JoinedAt: entry.JoinedAt,
	}
	if err := s.db.Clauses(clause.OnConflict{DoNothing: true}).Create(&record).Error; err != nil {
		return err
	}
	return s.persistEvent(sess, "player_joined", EventPayload{
		LobbyID:    sess.ID,
		UserID:     entry.UserID,
		PlayerName: entry.Name,
	})
}

func (s *Server) persistRosterRemove(sess *Session, userID string) error {
	if s.db == nil || sess.Solo {
		return nil
	}
	return s.db.Where("lobby_id = ? AND user_id = ?", sess.ID, userID).Delete(&db.LobbyPlayer{}).Error
}

func (s *Server) persistEvent(sess *Session, kind string, payload EventPayload) error {
	if s.db == nil || sess.Solo {
		return nil
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	record := db.Event{
		LobbyID:   sess.ID,
		Kind:      kind,
		Payload:   datatypes.JSON(body),
		CreatedAt: time.Now().UTC(),
	}
	return s.db.Create(&record).Error
}

func (s *Server) persistStats(sess *Session, userID, name string, wins, losses, desertions int) error {
	if s.db == nil || sess.Solo {
		return nil
	}
	return db.IncrementStats(s.db, userID, name, wins, losses, desertions)
}

// persistGameResult records final stats for everyone: one win for the winner,
// a desertion for a deserter, a normal loss for the rest. Bots have no
// profile.
func (s *Server) persistGameResult(sess *Session, result *game.GameResult) {
	if result == nil {
		return
	}
	for _, p := range result.Standings {
		if p.IsBot {
			continue
		}
		switch p.ID {
		case result.WinnerID:
			s.logPersistErr("stats", s.persistStats(sess, p.ID, p.Name, 1, 0, 0))
		default:
			s.logPersistErr("stats", s.persistStats(sess, p.ID, p.Name, 0, 1, 0))
		}
	}
	if result.DeserterID != "" {
		s.logPersistErr("stats", s.persistStats(sess, result.DeserterID, "", 0, 0, 1))
	}
}

func (s *Server) fetchRosterUserIDs(lobbyID string) ([]string, error) {
	if s.db == nil {
		return nil, nil
	}
	return db.RosterUserIDs(s.db, lobbyID)
}

func (s *Server) logPersistErr(what string, err error) {
	if err != nil {
		log.Printf("persist %s failed error=%v", what, err)
	}
}
