package seed

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	songdomain "github.com/playlistlab/pairwise/internal/song/domain"
	"gorm.io/gorm"
)

// SeedSong is one catalog entry in the bulk-load file.
type SeedSong struct {
	SpotifyID  string `json:"spotify_id"`
	Name       string `json:"name"`
	Artist     string `json:"artist"`
	Album      string `json:"album,omitempty"`
	PreviewURL string `json:"preview_url,omitempty"`
	Popularity *int   `json:"popularity,omitempty"`
	DurationMS *int   `json:"duration_ms,omitempty"`
}

// LoadCatalog inserts songs from a JSON file, skipping entries whose
// spotify_id is already present. Returns the number of songs inserted.
func LoadCatalog(db *gorm.DB, node *snowflake.Node, path string) (int, error) {
	if db == nil {
		return 0, errors.New("seed database handle is required")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("read catalog seed file: %w", err)
	}

	var songs []SeedSong
	if err := json.Unmarshal(data, &songs); err != nil {
		return 0, fmt.Errorf("parse catalog seed file: %w", err)
	}

	ctx := context.Background()
	inserted := 0
	err = db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, entry := range songs {
			spotifyID := strings.TrimSpace(entry.SpotifyID)
			if spotifyID == "" || strings.TrimSpace(entry.Name) == "" || strings.TrimSpace(entry.Artist) == "" {
				return fmt.Errorf("seed entry missing spotify_id, name or artist: %+v", entry)
			}

			var count int64
			if err := tx.Model(&songdomain.Song{}).
				Where("spotify_id = ?", spotifyID).
				Count(&count).Error; err != nil {
				return err
			}
			if count > 0 {
				continue
			}

			song := songdomain.Song{
				ID:         node.Generate(),
				SpotifyID:  spotifyID,
				Name:       entry.Name,
				Artist:     entry.Artist,
				Album:      entry.Album,
				PreviewURL: entry.PreviewURL,
				Popularity: entry.Popularity,
				DurationMS: entry.DurationMS,
				CreatedAt:  time.Now().UTC(),
			}
			if err := tx.Create(&song).Error; err != nil {
				return err
			}
			inserted++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return inserted, nil
}
