package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// Rating is one pairwise judgment: how well two songs fit in the same
// playlist, on a 1-10 scale. Rows are written once and never mutated.
//
// The composite unique index rejects a second rating for the same ordered
// pair within one session; it is the race-safe guard behind the selector's
// best-effort dedup.
type Rating struct {
	ID        snowflake.ID `gorm:"primaryKey" json:"id"`
	FirstID   snowflake.ID `gorm:"column:first_id;not null;index;uniqueIndex:idx_ratings_pair_session" json:"first_id"`
	SecondID  snowflake.ID `gorm:"column:second_id;not null;index;uniqueIndex:idx_ratings_pair_session" json:"second_id"`
	Score     int          `gorm:"not null" json:"score"`
	SessionID string       `gorm:"column:session_id;uniqueIndex:idx_ratings_pair_session" json:"session_id,omitempty"`
	UserAgent string       `gorm:"column:user_agent" json:"user_agent,omitempty"`
	IPAddress string       `gorm:"column:ip_address;size:50" json:"ip_address,omitempty"`
	CreatedAt time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

// RatingWithSongs is a rating joined with both songs' display fields,
// scanned flat from the join query.
type RatingWithSongs struct {
	ID              snowflake.ID `gorm:"column:id"`
	FirstID         snowflake.ID `gorm:"column:first_id"`
	SecondID        snowflake.ID `gorm:"column:second_id"`
	Score           int          `gorm:"column:score"`
	SessionID       string       `gorm:"column:session_id"`
	UserAgent       string       `gorm:"column:user_agent"`
	IPAddress       string       `gorm:"column:ip_address"`
	CreatedAt       time.Time    `gorm:"column:created_at"`
	FirstSpotifyID  string       `gorm:"column:first_spotify_id"`
	FirstName       string       `gorm:"column:first_name"`
	FirstArtist     string       `gorm:"column:first_artist"`
	SecondSpotifyID string       `gorm:"column:second_spotify_id"`
	SecondName      string       `gorm:"column:second_name"`
	SecondArtist    string       `gorm:"column:second_artist"`
}
