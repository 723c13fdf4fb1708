package db

import (
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Profile carries a player's cumulative stats across games. UserID is the
// opaque identifier the identity provider hands out.
type Profile struct {
	ID         uint      `gorm:"primaryKey"`
	UserID     string    `gorm:"size:64;uniqueIndex;not null"`
	Name       string    `gorm:"size:64"`
	Wins       int       `gorm:"not null;default:0"`
	Losses     int       `gorm:"not null;default:0"`
	Desertions int       `gorm:"not null;default:0"`
	CreatedAt  time.Time `gorm:"not null"`
	UpdatedAt  time.Time `gorm:"not null"`
}

// IncrementStats adds win/loss/desertion deltas to a profile, creating the
// row on first contact. Deltas are additive so retried writes at worst
// double-count; callers only invoke this once per game outcome.
func IncrementStats(conn *gorm.DB, userID, name string, wins, losses, desertions int) error {
	record := Profile{
		UserID:     userID,
		Name:       name,
		Wins:       wins,
		Losses:     losses,
		Desertions: desertions,
	}
	return conn.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.Assignments(map[string]any{
			"wins":       gorm.Expr("profiles.wins + ?", wins),
			"losses":     gorm.Expr("profiles.losses + ?", losses),
			"desertions": gorm.Expr("profiles.desertions + ?", desertions),
			"updated_at": time.Now().UTC(),
		}),
	}).Create(&record).Error
}

// GetProfile fetches a player's stats row.
func GetProfile(conn *gorm.DB, userID string) (Profile, error) {
	var profile Profile
	err := conn.Where("user_id = ?", userID).First(&profile).Error
	return profile, err
}
