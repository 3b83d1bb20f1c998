package service

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/playlistlab/pairwise/internal/rating/domain"
	songdomain "github.com/playlistlab/pairwise/internal/song/domain"
	"github.com/playlistlab/pairwise/pkg/db"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
	Repo  domain.Repository
	Songs songdomain.Repository
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node
	repo  domain.Repository
	songs songdomain.Repository
}

func New(p Params) domain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("rating.service"),
		genID: p.GenID,
		repo:  p.Repo,
		songs: p.Songs,
	}
}

func (s *Service) Submit(ctx context.Context, req domain.SubmitRequest) (domain.SubmitResponse, error) {
	firstID, err := s.parseID(req.First)
	if err != nil {
		return domain.SubmitResponse{}, err
	}
	secondID, err := s.parseID(req.Second)
	if err != nil {
		return domain.SubmitResponse{}, err
	}
	if firstID == secondID {
		return domain.SubmitResponse{}, domain.ErrSameTrack
	}
	if req.Score < domain.MinScore || req.Score > domain.MaxScore {
		return domain.SubmitResponse{}, domain.ErrInvalidScore
	}

	first, err := s.songs.FindByID(ctx, s.db, firstID)
	if err != nil {
		return domain.SubmitResponse{}, err
	}
	second, err := s.songs.FindByID(ctx, s.db, secondID)
	if err != nil {
		return domain.SubmitResponse{}, err
	}
	if first == nil || second == nil {
		return domain.SubmitResponse{}, domain.ErrSongNotFound
	}

	rating := domain.Rating{
		ID:        s.genID.Generate(),
		FirstID:   firstID,
		SecondID:  secondID,
		Score:     req.Score,
		SessionID: strings.TrimSpace(req.SessionID),
		UserAgent: strings.TrimSpace(req.Client.UserAgent),
		IPAddress: truncate(strings.TrimSpace(req.Client.IPAddress), domain.MaxClientAddrLen),
		CreatedAt: time.Now().UTC(),
	}

	if err := s.repo.Insert(ctx, s.db, &rating); err != nil {
		if db.IsDuplicateKeyErr(err) {
			return domain.SubmitResponse{}, domain.ErrDuplicatePair
		}
		return domain.SubmitResponse{}, err
	}

	s.log.Info("rating stored",
		zap.String("rating_id", rating.ID.String()),
		zap.Int("score", rating.Score),
	)

	return domain.SubmitResponse{
		ID:        rating.ID.String(),
		Score:     rating.Score,
		CreatedAt: rating.CreatedAt,
		First:     domain.SongSummary{Name: first.Name, Artist: first.Artist},
		Second:    domain.SongSummary{Name: second.Name, Artist: second.Artist},
	}, nil
}

func (s *Service) Export(ctx context.Context) (domain.ExportResponse, error) {
	rows, err := s.repo.ListWithSongs(ctx, s.db, false)
	if err != nil {
		return domain.ExportResponse{}, err
	}

	entries := make([]domain.CorpusEntry, 0, len(rows))
	sessions := make(map[string]struct{})
	pairs := make(map[string]struct{})
	distribution := emptyDistribution()
	for _, row := range rows {
		entries = append(entries, toEntry(row))
		if row.SessionID != "" {
			sessions[row.SessionID] = struct{}{}
		}
		pairs[row.FirstID.String()+"-"+row.SecondID.String()] = struct{}{}
		if row.Score >= domain.MinScore && row.Score <= domain.MaxScore {
			distribution[strconv.Itoa(row.Score)]++
		}
	}

	return domain.ExportResponse{
		Metadata: domain.ExportMetadata{
			TotalRatings:       len(rows),
			UniqueSessions:     len(sessions),
			UniqueSongPairs:    len(pairs),
			RatingDistribution: distribution,
			CreatedAt:          time.Now().UTC(),
		},
		Ratings: entries,
	}, nil
}

func (s *Service) Entries(ctx context.Context) ([]domain.CorpusEntry, error) {
	rows, err := s.repo.ListWithSongs(ctx, s.db, true)
	if err != nil {
		return nil, err
	}

	entries := make([]domain.CorpusEntry, 0, len(rows))
	for _, row := range rows {
		entries = append(entries, toEntry(row))
	}
	return entries, nil
}

func (s *Service) parseID(value string) (snowflake.ID, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(value))
	if err != nil || id == 0 {
		return 0, domain.ErrInvalidTrack
	}
	return id, nil
}

func toEntry(row domain.RatingWithSongs) domain.CorpusEntry {
	return domain.CorpusEntry{
		ID:              row.ID.String(),
		Track1SpotifyID: row.FirstSpotifyID,
		Track1Name:      row.FirstName,
		Track1Artist:    row.FirstArtist,
		Track2SpotifyID: row.SecondSpotifyID,
		Track2Name:      row.SecondName,
		Track2Artist:    row.SecondArtist,
		HumanRating:     row.Score,
		RatingScale:     domain.RatingScale,
		Source:          domain.Source,
		SessionID:       row.SessionID,
		CreatedAt:       row.CreatedAt.UTC().Format(time.RFC3339),
		IPAddress:       row.IPAddress,
		UserAgent:       row.UserAgent,
	}
}

func emptyDistribution() map[string]int {
	distribution := make(map[string]int, domain.MaxScore)
	for score := domain.MinScore; score <= domain.MaxScore; score++ {
		distribution[strconv.Itoa(score)] = 0
	}
	return distribution
}

func truncate(value string, limit int) string {
	if len(value) <= limit {
		return value
	}
	return value[:limit]
}
