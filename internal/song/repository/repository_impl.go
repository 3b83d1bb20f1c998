package repository

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"github.com/playlistlab/pairwise/internal/song/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, song *domain.Song) error {
	return db.WithContext(ctx).Create(song).Error
}

func (r *repo) Count(ctx context.Context, db *gorm.DB) (int64, error) {
	var count int64
	err := db.WithContext(ctx).Model(&domain.Song{}).Count(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}

func (r *repo) FindByOffset(ctx context.Context, db *gorm.DB, offset int64) (*domain.Song, error) {
	var song domain.Song
	err := db.WithContext(ctx).
		Model(&domain.Song{}).
		Order("id asc").
		Offset(int(offset)).
		Limit(1).
		Take(&song).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &song, nil
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*domain.Song, error) {
	var song domain.Song
	err := db.WithContext(ctx).
		Where("id = ?", id).
		Take(&song).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &song, nil
}

func (r *repo) FindBySpotifyID(ctx context.Context, db *gorm.DB, spotifyID string) (*domain.Song, error) {
	var song domain.Song
	err := db.WithContext(ctx).
		Where("spotify_id = ?", spotifyID).
		Take(&song).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &song, nil
}
