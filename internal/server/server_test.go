package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/playlistlab/pairwise/internal/clock"
	"github.com/playlistlab/pairwise/internal/config"
	"github.com/playlistlab/pairwise/internal/corpus"
	ratingdomain "github.com/playlistlab/pairwise/internal/rating/domain"
	songdomain "github.com/playlistlab/pairwise/internal/song/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeSongService struct {
	resp      songdomain.RandomPairResponse
	err       error
	sessionID string
}

func (f *fakeSongService) RandomPair(_ context.Context, req songdomain.RandomPairRequest) (songdomain.RandomPairResponse, error) {
	f.sessionID = req.SessionID
	return f.resp, f.err
}

type fakeRatingService struct {
	submitResp ratingdomain.SubmitResponse
	submitErr  error
	submitReq  ratingdomain.SubmitRequest
	exportResp ratingdomain.ExportResponse
	exportErr  error
}

func (f *fakeRatingService) Submit(_ context.Context, req ratingdomain.SubmitRequest) (ratingdomain.SubmitResponse, error) {
	f.submitReq = req
	return f.submitResp, f.submitErr
}

func (f *fakeRatingService) Export(context.Context) (ratingdomain.ExportResponse, error) {
	return f.exportResp, f.exportErr
}

func (f *fakeRatingService) Entries(context.Context) ([]ratingdomain.CorpusEntry, error) {
	return f.exportResp.Ratings, f.exportErr
}

func newTestRouter(t *testing.T, songSvc songdomain.Service, ratingSvc ratingdomain.Service) *gin.Engine {
	t.Helper()

	dir := t.TempDir()
	cfg := config.Config{
		CorpusFile:  filepath.Join(dir, "human_ratings.json"),
		SyncLogFile: filepath.Join(dir, "sync_log.json"),
	}
	syncer := corpus.New(corpus.Params{
		Cfg:     cfg,
		Log:     zap.NewNop(),
		Clock:   clock.NewFakeClock(time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)),
		Ratings: ratingSvc,
	})

	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(ErrorHandlingMiddleware())
	registerRoutes(r, NewServer(Params{
		Cfg:       cfg,
		Log:       zap.NewNop(),
		SongSvc:   songSvc,
		RatingSvc: ratingSvc,
		Syncer:    syncer,
	}))
	return r
}

func doJSON(r *gin.Engine, method, path string, body any, headers map[string]string) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRandomSongs_OK(t *testing.T) {
	songSvc := &fakeSongService{resp: songdomain.RandomPairResponse{
		Song1: songdomain.SongView{ID: "1", Name: "Alpha", Artist: "Anna"},
		Song2: songdomain.SongView{ID: "2", Name: "Beta", Artist: "Ben"},
	}}
	r := newTestRouter(t, songSvc, &fakeRatingService{})

	w := doJSON(r, http.MethodGet, "/songs/random", nil, map[string]string{
		"X-Session-Id": "session-1",
	})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "session-1", songSvc.sessionID)

	var body struct {
		Song1 songdomain.SongView `json:"song1"`
		Song2 songdomain.SongView `json:"song2"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "Alpha", body.Song1.Name)
	assert.Equal(t, "Beta", body.Song2.Name)
}

func TestRandomSongs_InsufficientCatalog(t *testing.T) {
	songSvc := &fakeSongService{err: songdomain.ErrInsufficientCatalog}
	r := newTestRouter(t, songSvc, &fakeRatingService{})

	w := doJSON(r, http.MethodGet, "/songs/random", nil, nil)
	require.Equal(t, http.StatusBadRequest, w.Code)

	var body errorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "insufficient_catalog", body.Error.Type)
}

func TestCreateRating_OK(t *testing.T) {
	ratingSvc := &fakeRatingService{submitResp: ratingdomain.SubmitResponse{
		ID:        "42",
		Score:     8,
		CreatedAt: time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC),
		First:     ratingdomain.SongSummary{Name: "Alpha", Artist: "Anna"},
		Second:    ratingdomain.SongSummary{Name: "Beta", Artist: "Ben"},
	}}
	r := newTestRouter(t, &fakeSongService{}, ratingSvc)

	w := doJSON(r, http.MethodPost, "/ratings", gin.H{
		"first":     "1",
		"second":    "2",
		"score":     8,
		"sessionId": "session-1",
	}, map[string]string{"X-Forwarded-For": "203.0.113.9, 10.0.0.1"})
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Success bool                        `json:"success"`
		Rating  ratingdomain.SubmitResponse `json:"rating"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.True(t, body.Success)
	assert.Equal(t, "42", body.Rating.ID)
	assert.Equal(t, 8, body.Rating.Score)
	assert.Equal(t, "Alpha", body.Rating.First.Name)

	assert.Equal(t, "session-1", ratingSvc.submitReq.SessionID)
	assert.Equal(t, "203.0.113.9", ratingSvc.submitReq.Client.IPAddress, "first forwarded hop wins")
}

func TestCreateRating_MalformedBody(t *testing.T) {
	r := newTestRouter(t, &fakeSongService{}, &fakeRatingService{})

	req := httptest.NewRequest(http.MethodPost, "/ratings", bytes.NewBufferString("{not json"))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusBadRequest, w.Code)
	var body errorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "validation_error", body.Error.Type)
}

func TestCreateRating_MissingFields(t *testing.T) {
	r := newTestRouter(t, &fakeSongService{}, &fakeRatingService{})

	w := doJSON(r, http.MethodPost, "/ratings", gin.H{"first": "1", "second": "2"}, nil)
	require.Equal(t, http.StatusBadRequest, w.Code)

	var body errorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "validation_error", body.Error.Type)
	require.Len(t, body.Error.Errors, 1)
	assert.Equal(t, "missing_fields", body.Error.Errors[0].Code)
}

func TestCreateRating_ServiceErrors(t *testing.T) {
	cases := []struct {
		name       string
		err        error
		wantStatus int
		wantType   string
	}{
		{"invalid score", ratingdomain.ErrInvalidScore, http.StatusBadRequest, "validation_error"},
		{"same track", ratingdomain.ErrSameTrack, http.StatusBadRequest, "validation_error"},
		{"unknown song", ratingdomain.ErrSongNotFound, http.StatusNotFound, "not_found"},
		{"duplicate pair", ratingdomain.ErrDuplicatePair, http.StatusConflict, "conflict"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := newTestRouter(t, &fakeSongService{}, &fakeRatingService{submitErr: tc.err})

			w := doJSON(r, http.MethodPost, "/ratings", gin.H{
				"first": "1", "second": "2", "score": 5,
			}, nil)
			require.Equal(t, tc.wantStatus, w.Code)

			var body errorResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, tc.wantType, body.Error.Type)
		})
	}
}

func TestExportRatings_OK(t *testing.T) {
	ratingSvc := &fakeRatingService{exportResp: ratingdomain.ExportResponse{
		Metadata: ratingdomain.ExportMetadata{
			TotalRatings:       1,
			UniqueSessions:     1,
			UniqueSongPairs:    1,
			RatingDistribution: map[string]int{"7": 1},
			CreatedAt:          time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC),
		},
		Ratings: []ratingdomain.CorpusEntry{{ID: "r1", HumanRating: 7}},
	}}
	r := newTestRouter(t, &fakeSongService{}, ratingSvc)

	w := doJSON(r, http.MethodGet, "/ratings/export", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var body map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Contains(t, body, "metadata")
	require.Contains(t, body, "ratings")

	var meta ratingdomain.ExportMetadata
	require.NoError(t, json.Unmarshal(body["metadata"], &meta))
	assert.Equal(t, 1, meta.TotalRatings)
	assert.Equal(t, 1, meta.RatingDistribution["7"])
}

func TestRunSync_OK(t *testing.T) {
	ratingSvc := &fakeRatingService{exportResp: ratingdomain.ExportResponse{
		Ratings: []ratingdomain.CorpusEntry{{ID: "r1", HumanRating: 4}},
	}}
	r := newTestRouter(t, &fakeSongService{}, ratingSvc)

	w := doJSON(r, http.MethodPost, "/admin/sync", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Summary corpus.Summary `json:"summary"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, 1, body.Summary.RatingsScanned)
	assert.Equal(t, 1, body.Summary.NewEntriesSynced)
}
