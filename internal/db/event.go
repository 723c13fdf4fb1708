package db

import (
	"time"

	"gorm.io/datatypes"
)

// Event is an append-only audit record of lobby and game happenings.
type Event struct {
	ID        uint           `gorm:"primaryKey"`
	LobbyID   string         `gorm:"size:36;index;not null"`
	Kind      string         `gorm:"size:64;not null"`
	Payload   datatypes.JSON `gorm:"type:jsonb;not null"`
	CreatedAt time.Time      `gorm:"not null"`
}
