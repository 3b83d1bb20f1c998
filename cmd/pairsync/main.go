package main

import (
	"context"
	"os"

	"github.com/bwmarrin/snowflake"
	"github.com/playlistlab/pairwise/internal/clock"
	"github.com/playlistlab/pairwise/internal/config"
	"github.com/playlistlab/pairwise/internal/corpus"
	"github.com/playlistlab/pairwise/internal/migration"
	"github.com/playlistlab/pairwise/internal/observability"
	"github.com/playlistlab/pairwise/internal/rating"
	"github.com/playlistlab/pairwise/internal/song"
	"github.com/playlistlab/pairwise/pkg/db"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// pairsync runs the corpus sync once and exits. The job is idempotent, so
// re-running after a failure is the recovery path.
func main() {
	exitCode := 0
	app := fx.New(
		config.Module,
		observability.Module,
		fx.Provide(RegisterSnowflake),
		db.Module,
		clock.Module,
		migration.Module,

		song.Module,
		rating.Module,
		corpus.Module,

		fx.Invoke(func(lc fx.Lifecycle, sh fx.Shutdowner, syncer *corpus.Syncer, log *zap.Logger) {
			lc.Append(fx.Hook{
				OnStart: func(ctx context.Context) error {
					_ = ctx
					go func() {
						summary, err := syncer.Sync(context.Background())
						if err != nil {
							log.Error("sync failed", zap.Error(err))
							exitCode = 1
						} else {
							log.Info("sync finished",
								zap.Int("ratings_scanned", summary.RatingsScanned),
								zap.Int("new_entries", summary.NewEntriesSynced),
								zap.Int("corpus_total", summary.TotalCorpusEntries),
							)
						}
						_ = sh.Shutdown()
					}()
					return nil
				},
			})
		}),
	)
	app.Run()
	os.Exit(exitCode)
}

func RegisterSnowflake() *snowflake.Node {
	node, err := snowflake.NewNode(1)
	if err != nil {
		panic(err)
	}
	return node
}
