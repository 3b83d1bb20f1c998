package scheduler

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/playlistlab/pairwise/internal/clock"
	"github.com/playlistlab/pairwise/internal/corpus"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type Params struct {
	fx.In

	Log    *zap.Logger
	Clock  clock.Clock
	Syncer *corpus.Syncer
	Config Config `optional:"true"`
}

// Scheduler drives the corpus sync on a fixed interval. The job itself is
// idempotent, so a run that fails is simply retried on the next tick.
type Scheduler struct {
	log    *zap.Logger
	cfg    Config
	clock  clock.Clock
	syncer *corpus.Syncer
}

var ErrInvalidConfig = errors.New("scheduler requires a logger, clock and syncer")

func New(p Params) (*Scheduler, error) {
	if p.Log == nil || p.Clock == nil || p.Syncer == nil {
		return nil, ErrInvalidConfig
	}
	return &Scheduler{
		log:    p.Log.Named("scheduler").With(zap.String("component", "scheduler")),
		cfg:    p.Config.withDefaults(),
		clock:  p.Clock,
		syncer: p.Syncer,
	}, nil
}

// RunOnce executes a single sync run under the configured timeout.
func (s *Scheduler) RunOnce(parent context.Context) error {
	ctx, cancel := context.WithTimeout(parent, s.cfg.Timeout)
	defer cancel()

	start := s.clock.Now()
	summary, err := s.syncer.Sync(ctx)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
			s.log.Warn("sync run timed out",
				zap.Duration("timeout", s.cfg.Timeout),
				zap.Error(err),
			)
			return nil
		}
		return fmt.Errorf("corpus sync: %w", err)
	}

	s.log.Info("sync run finished",
		zap.Time("started_at", start),
		zap.Int("new_entries", summary.NewEntriesSynced),
		zap.Int("corpus_total", summary.TotalCorpusEntries),
	)
	return nil
}

// RunForever loops RunOnce until the context is cancelled. The first run is
// delayed by a random fraction of the interval so parallel replicas do not
// hit the corpus file in lockstep.
func (s *Scheduler) RunForever(ctx context.Context) {
	select {
	case <-ctx.Done():
		return
	case <-time.After(s.startJitter()):
	}

	ticker := time.NewTicker(s.cfg.RunInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := s.RunOnce(ctx); err != nil {
				s.log.Error("sync run failed", zap.Error(err))
			}
		}
	}
}

func (s *Scheduler) startJitter() time.Duration {
	return rand.N(s.cfg.RunInterval)
}
