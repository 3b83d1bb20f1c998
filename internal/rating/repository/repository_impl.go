package repository

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/playlistlab/pairwise/internal/rating/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, rating *domain.Rating) error {
	return db.WithContext(ctx).Create(rating).Error
}

func (r *repo) ListWithSongs(ctx context.Context, db *gorm.DB, asc bool) ([]domain.RatingWithSongs, error) {
	order := "ratings.created_at desc, ratings.id desc"
	if asc {
		order = "ratings.created_at asc, ratings.id asc"
	}

	var rows []domain.RatingWithSongs
	err := db.WithContext(ctx).
		Table("ratings").
		Select(`ratings.*,
			s1.spotify_id AS first_spotify_id, s1.name AS first_name, s1.artist AS first_artist,
			s2.spotify_id AS second_spotify_id, s2.name AS second_name, s2.artist AS second_artist`).
		Joins("JOIN songs s1 ON s1.id = ratings.first_id").
		Joins("JOIN songs s2 ON s2.id = ratings.second_id").
		Order(order).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repo) ExistsForPair(ctx context.Context, db *gorm.DB, a, b snowflake.ID, sessionID string) (bool, error) {
	var count int64
	err := db.WithContext(ctx).
		Model(&domain.Rating{}).
		Where("session_id = ?", sessionID).
		Where("(first_id = ? AND second_id = ?) OR (first_id = ? AND second_id = ?)", a, b, b, a).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
