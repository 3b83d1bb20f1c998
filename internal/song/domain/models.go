package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// Song is one catalog entry. Rows are written once by the bulk loader and
// never mutated afterwards.
type Song struct {
	ID         snowflake.ID `gorm:"primaryKey" json:"id"`
	SpotifyID  string       `gorm:"column:spotify_id;not null;uniqueIndex" json:"spotify_id"`
	Name       string       `gorm:"not null" json:"name"`
	Artist     string       `gorm:"not null" json:"artist"`
	Album      string       `gorm:"column:album" json:"album,omitempty"`
	PreviewURL string       `gorm:"column:preview_url" json:"preview_url,omitempty"`
	Popularity *int         `json:"popularity,omitempty"`
	DurationMS *int         `gorm:"column:duration_ms" json:"duration_ms,omitempty"`
	CreatedAt  time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}
