package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, song *Song) error
	Count(ctx context.Context, db *gorm.DB) (int64, error)
	FindByOffset(ctx context.Context, db *gorm.DB, offset int64) (*Song, error)
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Song, error)
	FindBySpotifyID(ctx context.Context, db *gorm.DB, spotifyID string) (*Song, error)
}
