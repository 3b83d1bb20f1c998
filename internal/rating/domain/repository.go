package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, rating *Rating) error
	// ListWithSongs returns all ratings joined with both songs, ordered by
	// creation time (ascending when asc is true).
	ListWithSongs(ctx context.Context, db *gorm.DB, asc bool) ([]RatingWithSongs, error)
	// ExistsForPair reports whether the session already rated the unordered
	// pair (a, b).
	ExistsForPair(ctx context.Context, db *gorm.DB, a, b snowflake.ID, sessionID string) (bool, error)
}
