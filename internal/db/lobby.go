package db

import (
	"time"

	"gorm.io/gorm"
)

// Lobby statuses. A lobby moves waiting -> in-game -> finished and never back.
const (
	StatusWaiting  = "waiting"
	StatusInGame   = "in-game"
	StatusFinished = "finished"
)

type Lobby struct {
	ID        string    `gorm:"primaryKey;size:36"`
	JoinCode  string    `gorm:"size:12;uniqueIndex;not null"`
	Name      string    `gorm:"size:64;not null"`
	Status    string    `gorm:"size:32;not null;index"`
	CreatorID string    `gorm:"size:64;not null"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
	Players   []LobbyPlayer
	Events    []Event
}

type LobbyPlayer struct {
	ID        uint      `gorm:"primaryKey"`
	LobbyID   string    `gorm:"size:36;index;not null;uniqueIndex:idx_lobby_players_lobby_user"`
	UserID    string    `gorm:"size:64;not null;uniqueIndex:idx_lobby_players_lobby_user"`
	Name      string    `gorm:"size:64;not null"`
	IsReady   bool      `gorm:"not null;default:false"`
	JoinedAt  time.Time `gorm:"not null"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

// ListLobbiesByStatus returns lobbies in a given status ordered by creation
// time, newest last.
func ListLobbiesByStatus(conn *gorm.DB, status string) ([]Lobby, error) {
	var lobbies []Lobby
	err := conn.Where("status = ?", status).Order("created_at").Find(&lobbies).Error
	return lobbies, err
}

// RosterUserIDs lists the user IDs currently joined to a lobby.
func RosterUserIDs(conn *gorm.DB, lobbyID string) ([]string, error) {
	var ids []string
	err := conn.Model(&LobbyPlayer{}).Where("lobby_id = ?", lobbyID).Order("joined_at").Pluck("user_id", &ids).Error
	return ids, err
}
