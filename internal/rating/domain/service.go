package domain

import (
	"context"
	"errors"
	"time"
)

const (
	// RatingScale labels every exported entry; the collector only ever
	// captures 1-10 judgments.
	RatingScale = "1-10"
	// Source tags exported entries with where they were collected.
	Source = "public_web_interface"

	MinScore = 1
	MaxScore = 10

	// MaxClientAddrLen caps the stored network address.
	MaxClientAddrLen = 50
)

// ClientMeta carries optional request metadata stored alongside a rating.
type ClientMeta struct {
	UserAgent string
	IPAddress string
}

type SubmitRequest struct {
	First     string
	Second    string
	Score     int
	SessionID string
	Client    ClientMeta
}

// SongSummary is the display slice echoed back after a submission.
type SongSummary struct {
	Name   string `json:"name"`
	Artist string `json:"artist"`
}

type SubmitResponse struct {
	ID        string      `json:"id"`
	Score     int         `json:"rating"`
	CreatedAt time.Time   `json:"createdAt"`
	First     SongSummary `json:"track1"`
	Second    SongSummary `json:"track2"`
}

// CorpusEntry is the denormalized projection written to the external
// ratings corpus. Field names are fixed; the downstream training pipeline
// parses them.
type CorpusEntry struct {
	ID              string `json:"id"`
	Track1SpotifyID string `json:"track1_spotify_id"`
	Track1Name      string `json:"track1_name"`
	Track1Artist    string `json:"track1_artist"`
	Track2SpotifyID string `json:"track2_spotify_id"`
	Track2Name      string `json:"track2_name"`
	Track2Artist    string `json:"track2_artist"`
	HumanRating     int    `json:"human_rating"`
	RatingScale     string `json:"rating_scale"`
	Source          string `json:"source"`
	SessionID       string `json:"session_id,omitempty"`
	CreatedAt       string `json:"created_at"`
	IPAddress       string `json:"ip_address,omitempty"`
	UserAgent       string `json:"user_agent,omitempty"`
}

type ExportMetadata struct {
	TotalRatings       int            `json:"total_ratings"`
	UniqueSessions     int            `json:"unique_sessions"`
	UniqueSongPairs    int            `json:"unique_song_pairs"`
	RatingDistribution map[string]int `json:"rating_distribution"`
	CreatedAt          time.Time      `json:"created_at"`
}

type ExportResponse struct {
	Metadata ExportMetadata `json:"metadata"`
	Ratings  []CorpusEntry  `json:"ratings"`
}

type Service interface {
	Submit(context.Context, SubmitRequest) (SubmitResponse, error)
	// Export returns all ratings newest-first plus summary statistics.
	Export(context.Context) (ExportResponse, error)
	// Entries returns all ratings oldest-first in corpus shape, for the
	// sync job.
	Entries(context.Context) ([]CorpusEntry, error)
}

var (
	ErrInvalidTrack  = errors.New("invalid_track")
	ErrInvalidScore  = errors.New("invalid_score")
	ErrSameTrack     = errors.New("same_track")
	ErrSongNotFound  = errors.New("song_not_found")
	ErrDuplicatePair = errors.New("duplicate_pair")
)
