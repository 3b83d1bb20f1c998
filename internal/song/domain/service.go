package domain

import (
	"context"
	"errors"
)

// SongView is the display projection returned to rating clients.
type SongView struct {
	ID         string `json:"id"`
	SpotifyID  string `json:"spotifyId"`
	Name       string `json:"name"`
	Artist     string `json:"artist"`
	Album      string `json:"album,omitempty"`
	PreviewURL string `json:"previewUrl,omitempty"`
}

type RandomPairRequest struct {
	// SessionID, when set, steers selection away from pairs the session
	// already rated. Best effort only.
	SessionID string
}

type RandomPairResponse struct {
	Song1 SongView `json:"song1"`
	Song2 SongView `json:"song2"`
}

type Service interface {
	RandomPair(context.Context, RandomPairRequest) (RandomPairResponse, error)
}

var (
	ErrInsufficientCatalog = errors.New("insufficient_catalog")
	ErrNotFound            = errors.New("not_found")
)

// View maps a stored song to its display projection.
func (s *Song) View() SongView {
	return SongView{
		ID:         s.ID.String(),
		SpotifyID:  s.SpotifyID,
		Name:       s.Name,
		Artist:     s.Artist,
		Album:      s.Album,
		PreviewURL: s.PreviewURL,
	}
}
