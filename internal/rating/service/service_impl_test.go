package service

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/playlistlab/pairwise/internal/rating/domain"
	"github.com/playlistlab/pairwise/internal/rating/repository"
	songdomain "github.com/playlistlab/pairwise/internal/song/domain"
	songrepository "github.com/playlistlab/pairwise/internal/song/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type fixture struct {
	db   *gorm.DB
	node *snowflake.Node
	svc  domain.Service
}

func setup(t *testing.T) *fixture {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(&songdomain.Song{}, &domain.Rating{}))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	svc := New(Params{
		DB:    db,
		Log:   zap.NewNop(),
		GenID: node,
		Repo:  repository.Provide(),
		Songs: songrepository.Provide(),
	})
	return &fixture{db: db, node: node, svc: svc}
}

func (f *fixture) addSong(t *testing.T, name, artist string) songdomain.Song {
	t.Helper()

	song := songdomain.Song{
		ID:        f.node.Generate(),
		SpotifyID: "sp-" + name,
		Name:      name,
		Artist:    artist,
		CreatedAt: time.Now().UTC(),
	}
	require.NoError(t, f.db.Create(&song).Error)
	return song
}

func TestSubmit_StoresRating(t *testing.T) {
	f := setup(t)
	a := f.addSong(t, "Alpha", "Anna")
	b := f.addSong(t, "Beta", "Ben")

	resp, err := f.svc.Submit(context.Background(), domain.SubmitRequest{
		First:     a.ID.String(),
		Second:    b.ID.String(),
		Score:     8,
		SessionID: "session-1",
		Client:    domain.ClientMeta{UserAgent: "agent", IPAddress: "10.0.0.1"},
	})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.ID)
	assert.Equal(t, 8, resp.Score)
	assert.Equal(t, "Alpha", resp.First.Name)
	assert.Equal(t, "Ben", resp.Second.Artist)

	var stored domain.Rating
	require.NoError(t, f.db.First(&stored).Error)
	assert.Equal(t, a.ID, stored.FirstID)
	assert.Equal(t, b.ID, stored.SecondID)
	assert.Equal(t, 8, stored.Score)
	assert.Equal(t, "session-1", stored.SessionID)
	assert.Equal(t, "10.0.0.1", stored.IPAddress)
}

func TestSubmit_TruncatesClientAddress(t *testing.T) {
	f := setup(t)
	a := f.addSong(t, "Alpha", "Anna")
	b := f.addSong(t, "Beta", "Ben")

	long := strings.Repeat("1234567890", 7)
	_, err := f.svc.Submit(context.Background(), domain.SubmitRequest{
		First:  a.ID.String(),
		Second: b.ID.String(),
		Score:  5,
		Client: domain.ClientMeta{IPAddress: long},
	})
	require.NoError(t, err)

	var stored domain.Rating
	require.NoError(t, f.db.First(&stored).Error)
	assert.Len(t, stored.IPAddress, domain.MaxClientAddrLen)
	assert.Equal(t, long[:domain.MaxClientAddrLen], stored.IPAddress)
}

func TestSubmit_Validation(t *testing.T) {
	f := setup(t)
	a := f.addSong(t, "Alpha", "Anna")
	b := f.addSong(t, "Beta", "Ben")

	cases := []struct {
		name string
		req  domain.SubmitRequest
		want error
	}{
		{
			name: "malformed first id",
			req:  domain.SubmitRequest{First: "not-an-id", Second: b.ID.String(), Score: 5},
			want: domain.ErrInvalidTrack,
		},
		{
			name: "same track twice",
			req:  domain.SubmitRequest{First: a.ID.String(), Second: a.ID.String(), Score: 5},
			want: domain.ErrSameTrack,
		},
		{
			name: "score below range",
			req:  domain.SubmitRequest{First: a.ID.String(), Second: b.ID.String(), Score: 0},
			want: domain.ErrInvalidScore,
		},
		{
			name: "score above range",
			req:  domain.SubmitRequest{First: a.ID.String(), Second: b.ID.String(), Score: 11},
			want: domain.ErrInvalidScore,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.svc.Submit(context.Background(), tc.req)
			assert.ErrorIs(t, err, tc.want)
		})
	}

	var count int64
	require.NoError(t, f.db.Model(&domain.Rating{}).Count(&count).Error)
	assert.Zero(t, count, "rejected submissions must not persist")
}

func TestSubmit_UnknownSong(t *testing.T) {
	f := setup(t)
	a := f.addSong(t, "Alpha", "Anna")
	missing := f.node.Generate()

	_, err := f.svc.Submit(context.Background(), domain.SubmitRequest{
		First:  a.ID.String(),
		Second: missing.String(),
		Score:  5,
	})
	assert.ErrorIs(t, err, domain.ErrSongNotFound)
}

func TestSubmit_DuplicatePairForSession(t *testing.T) {
	f := setup(t)
	a := f.addSong(t, "Alpha", "Anna")
	b := f.addSong(t, "Beta", "Ben")

	req := domain.SubmitRequest{
		First:     a.ID.String(),
		Second:    b.ID.String(),
		Score:     6,
		SessionID: "session-1",
	}
	_, err := f.svc.Submit(context.Background(), req)
	require.NoError(t, err)

	_, err = f.svc.Submit(context.Background(), req)
	assert.ErrorIs(t, err, domain.ErrDuplicatePair)

	// A different session may rate the same pair.
	req.SessionID = "session-2"
	_, err = f.svc.Submit(context.Background(), req)
	assert.NoError(t, err)
}

func TestSubmit_AnonymousDuplicatePair(t *testing.T) {
	f := setup(t)
	a := f.addSong(t, "Alpha", "Anna")
	b := f.addSong(t, "Beta", "Ben")

	// Sessionless submissions all share the empty session, so the same pair
	// can only be rated once anonymously.
	req := domain.SubmitRequest{
		First:  a.ID.String(),
		Second: b.ID.String(),
		Score:  6,
	}
	_, err := f.svc.Submit(context.Background(), req)
	require.NoError(t, err)

	_, err = f.svc.Submit(context.Background(), req)
	assert.ErrorIs(t, err, domain.ErrDuplicatePair)
}

func TestExport_MetadataAndOrder(t *testing.T) {
	f := setup(t)
	a := f.addSong(t, "Alpha", "Anna")
	b := f.addSong(t, "Beta", "Ben")
	c := f.addSong(t, "Gamma", "Gil")

	submit := func(first, second songdomain.Song, score int, session string) string {
		resp, err := f.svc.Submit(context.Background(), domain.SubmitRequest{
			First:     first.ID.String(),
			Second:    second.ID.String(),
			Score:     score,
			SessionID: session,
		})
		require.NoError(t, err)
		return resp.ID
	}
	first := submit(a, b, 3, "session-1")
	submit(b, c, 7, "session-1")
	last := submit(a, c, 7, "session-2")

	resp, err := f.svc.Export(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 3, resp.Metadata.TotalRatings)
	assert.Equal(t, 2, resp.Metadata.UniqueSessions)
	assert.Equal(t, 3, resp.Metadata.UniqueSongPairs)
	assert.Equal(t, 1, resp.Metadata.RatingDistribution["3"])
	assert.Equal(t, 2, resp.Metadata.RatingDistribution["7"])
	assert.Equal(t, 0, resp.Metadata.RatingDistribution["10"])

	total := 0
	for _, n := range resp.Metadata.RatingDistribution {
		total += n
	}
	assert.Equal(t, resp.Metadata.TotalRatings, total)

	require.Len(t, resp.Ratings, 3)
	assert.Equal(t, last, resp.Ratings[0].ID, "export is newest-first")
	assert.Equal(t, first, resp.Ratings[2].ID)

	entry := resp.Ratings[2]
	assert.Equal(t, "Alpha", entry.Track1Name)
	assert.Equal(t, "sp-Beta", entry.Track2SpotifyID)
	assert.Equal(t, 3, entry.HumanRating)
	assert.Equal(t, domain.RatingScale, entry.RatingScale)
	assert.Equal(t, domain.Source, entry.Source)
	_, err = time.Parse(time.RFC3339, entry.CreatedAt)
	assert.NoError(t, err)
}

func TestEntries_OldestFirst(t *testing.T) {
	f := setup(t)
	a := f.addSong(t, "Alpha", "Anna")
	b := f.addSong(t, "Beta", "Ben")
	c := f.addSong(t, "Gamma", "Gil")

	r1, err := f.svc.Submit(context.Background(), domain.SubmitRequest{
		First: a.ID.String(), Second: b.ID.String(), Score: 2,
	})
	require.NoError(t, err)
	r2, err := f.svc.Submit(context.Background(), domain.SubmitRequest{
		First: b.ID.String(), Second: c.ID.String(), Score: 9,
	})
	require.NoError(t, err)

	entries, err := f.svc.Entries(context.Background())
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, r1.ID, entries[0].ID)
	assert.Equal(t, r2.ID, entries[1].ID)
}
