package service

import (
	"context"
	"math/rand/v2"

	ratingdomain "github.com/playlistlab/pairwise/internal/rating/domain"
	"github.com/playlistlab/pairwise/internal/song/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// maxPairRetries bounds the resample loop when a session already rated the
// drawn pair. After the last attempt the pair is returned regardless.
const maxPairRetries = 3

type Params struct {
	fx.In

	DB      *gorm.DB
	Log     *zap.Logger
	Repo    domain.Repository
	Ratings ratingdomain.Repository
}

type Service struct {
	db      *gorm.DB
	log     *zap.Logger
	repo    domain.Repository
	ratings ratingdomain.Repository
}

func New(p Params) domain.Service {
	return &Service{
		db:      p.DB,
		log:     p.Log.Named("song.service"),
		repo:    p.Repo,
		ratings: p.Ratings,
	}
}

func (s *Service) RandomPair(ctx context.Context, req domain.RandomPairRequest) (domain.RandomPairResponse, error) {
	count, err := s.repo.Count(ctx, s.db)
	if err != nil {
		return domain.RandomPairResponse{}, err
	}
	if count < 2 {
		return domain.RandomPairResponse{}, domain.ErrInsufficientCatalog
	}

	var first, second *domain.Song
	for attempt := 0; attempt <= maxPairRetries; attempt++ {
		first, second, err = s.drawPair(ctx, count)
		if err != nil {
			return domain.RandomPairResponse{}, err
		}
		if req.SessionID == "" {
			break
		}

		rated, err := s.ratings.ExistsForPair(ctx, s.db, first.ID, second.ID, req.SessionID)
		if err != nil {
			return domain.RandomPairResponse{}, err
		}
		if !rated {
			break
		}
		s.log.Debug("pair already rated by session, resampling",
			zap.String("session_id", req.SessionID),
			zap.Int("attempt", attempt+1),
		)
	}

	return domain.RandomPairResponse{
		Song1: first.View(),
		Song2: second.View(),
	}, nil
}

// drawPair picks two distinct positions uniformly over the catalog.
func (s *Service) drawPair(ctx context.Context, count int64) (*domain.Song, *domain.Song, error) {
	i := rand.Int64N(count)
	j := rand.Int64N(count)
	for j == i {
		j = rand.Int64N(count)
	}

	first, err := s.repo.FindByOffset(ctx, s.db, i)
	if err != nil {
		return nil, nil, err
	}
	second, err := s.repo.FindByOffset(ctx, s.db, j)
	if err != nil {
		return nil, nil, err
	}
	if first == nil || second == nil {
		// Catalog shrank between count and fetch.
		return nil, nil, domain.ErrNotFound
	}
	return first, second, nil
}
