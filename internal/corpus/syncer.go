package corpus

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/playlistlab/pairwise/internal/clock"
	"github.com/playlistlab/pairwise/internal/config"
	obsmetrics "github.com/playlistlab/pairwise/internal/observability/metrics"
	ratingdomain "github.com/playlistlab/pairwise/internal/rating/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// ErrExternalIO marks corpus or sync-log file failures. A failed run leaves
// both files untouched; re-running is the recovery.
var ErrExternalIO = errors.New("external_io")

// Summary describes one sync run. One summary is appended to the sync log
// per run, including runs that found nothing new.
type Summary struct {
	SyncTimestamp      time.Time      `json:"sync_timestamp"`
	RatingsScanned     int            `json:"ratings_scanned"`
	NewEntriesSynced   int            `json:"new_entries_synced"`
	TotalCorpusEntries int            `json:"total_corpus_entries"`
	RatingDistribution map[string]int `json:"rating_distribution"`
}

type Params struct {
	fx.In

	Cfg     config.Config
	Log     *zap.Logger
	Clock   clock.Clock
	Ratings ratingdomain.Service
	Metrics *obsmetrics.SyncMetrics `optional:"true"`
}

// Syncer merges newly collected ratings into the external corpus file.
// It is meant to run as a singleton batch job; concurrent runs are not
// coordinated.
type Syncer struct {
	corpusFile  string
	syncLogFile string
	log         *zap.Logger
	clock       clock.Clock
	ratings     ratingdomain.Service
	metrics     *obsmetrics.SyncMetrics
}

func New(p Params) *Syncer {
	return &Syncer{
		corpusFile:  p.Cfg.CorpusFile,
		syncLogFile: p.Cfg.SyncLogFile,
		log:         p.Log.Named("corpus.syncer"),
		clock:       p.Clock,
		ratings:     p.Ratings,
		metrics:     p.Metrics,
	}
}

// Sync reads all ratings, merges the ones not yet present into the corpus
// file (deduplicated by rating ID), and appends a run summary to the sync
// log. The whole merge is atomic: either the corpus file is replaced with
// the full merged list or it is left untouched.
func (s *Syncer) Sync(ctx context.Context) (Summary, error) {
	start := time.Now()
	summary, err := s.sync(ctx)
	if s.metrics != nil {
		outcome := "success"
		if err != nil {
			outcome = "failure"
		}
		s.metrics.ObserveRun(outcome, summary.NewEntriesSynced, time.Since(start))
	}
	return summary, err
}

func (s *Syncer) sync(ctx context.Context) (Summary, error) {
	scanned, err := s.ratings.Entries(ctx)
	if err != nil {
		return Summary{}, fmt.Errorf("list ratings: %w", err)
	}

	existing, recovered, err := s.loadEntries(s.corpusFile)
	if err != nil {
		return Summary{}, err
	}

	seen := make(map[string]struct{}, len(existing))
	for _, entry := range existing {
		seen[entry.ID] = struct{}{}
	}

	fresh := make([]ratingdomain.CorpusEntry, 0, len(scanned))
	for _, entry := range scanned {
		if _, ok := seen[entry.ID]; ok {
			continue
		}
		fresh = append(fresh, entry)
	}

	// Rewrite after parse recovery even when nothing is new, so the
	// unreadable file on disk is actually replaced.
	merged := append(existing, fresh...)
	if merged == nil {
		merged = []ratingdomain.CorpusEntry{}
	}
	if len(fresh) > 0 || recovered {
		if err := writeJSONAtomic(s.corpusFile, merged); err != nil {
			return Summary{}, err
		}
	}

	summary := Summary{
		SyncTimestamp:      s.clock.Now(),
		RatingsScanned:     len(scanned),
		NewEntriesSynced:   len(fresh),
		TotalCorpusEntries: len(merged),
		RatingDistribution: distribution(scanned),
	}

	if err := s.appendSummary(summary); err != nil {
		return Summary{}, err
	}

	s.log.Info("corpus sync completed",
		zap.Int("ratings_scanned", summary.RatingsScanned),
		zap.Int("new_entries", summary.NewEntriesSynced),
		zap.Int("corpus_total", summary.TotalCorpusEntries),
	)
	return summary, nil
}

// loadEntries reads the corpus file. The recovered flag is set when the file
// existed but could not be parsed; the caller must then rewrite it.
func (s *Syncer) loadEntries(path string) ([]ratingdomain.CorpusEntry, bool, error) {
	var entries []ratingdomain.CorpusEntry
	ok, err := readJSONFile(path, &entries)
	if err != nil {
		var parseErr *parseError
		if errors.As(err, &parseErr) {
			// Deliberate lossy recovery: a corrupted corpus starts over
			// empty rather than blocking collection.
			s.log.Warn("corpus file unparsable, starting fresh",
				zap.String("path", path),
				zap.Error(parseErr.err),
			)
			return nil, true, nil
		}
		return nil, false, err
	}
	if !ok {
		return nil, false, nil
	}
	return entries, false, nil
}

func (s *Syncer) appendSummary(summary Summary) error {
	var summaries []Summary
	if _, err := readJSONFile(s.syncLogFile, &summaries); err != nil {
		var parseErr *parseError
		if !errors.As(err, &parseErr) {
			return err
		}
		s.log.Warn("sync log unparsable, starting fresh",
			zap.String("path", s.syncLogFile),
			zap.Error(parseErr.err),
		)
		summaries = nil
	}

	summaries = append(summaries, summary)
	return writeJSONAtomic(s.syncLogFile, summaries)
}

func distribution(entries []ratingdomain.CorpusEntry) map[string]int {
	dist := make(map[string]int, ratingdomain.MaxScore)
	for score := ratingdomain.MinScore; score <= ratingdomain.MaxScore; score++ {
		dist[strconv.Itoa(score)] = 0
	}
	for _, entry := range entries {
		if entry.HumanRating >= ratingdomain.MinScore && entry.HumanRating <= ratingdomain.MaxScore {
			dist[strconv.Itoa(entry.HumanRating)]++
		}
	}
	return dist
}
