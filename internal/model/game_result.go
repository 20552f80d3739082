package model

import "time"

// GameResult is one scored quiz/game session. Exactly one row is written per
// settlement, in the same transaction as the coin credit it causes.
type GameResult struct {
	ID          uint64    `gorm:"primaryKey;autoIncrement"`
	UserID      uint64    `gorm:"column:user_id;index;not null"`
	SessionID   string    `gorm:"column:session_id;size:36;not null"`
	Title       string    `gorm:"size:255;not null"`
	Score       int       `gorm:"not null;default:0"`
	DurationSec int       `gorm:"column:duration_sec;not null;default:0"`
	CreatedAt   time.Time `gorm:"autoCreateTime"`
}

func (GameResult) TableName() string {
	return "games_result"
}
