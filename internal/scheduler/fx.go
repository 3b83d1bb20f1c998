package scheduler

import (
	"context"

	"github.com/playlistlab/pairwise/internal/config"
	"go.uber.org/fx"
)

var Module = fx.Module("scheduler",
	fx.Provide(ProvideConfig),
	fx.Provide(New),
	fx.Invoke(StartScheduler),
)

func ProvideConfig(cfg config.Config) Config {
	return Config{
		RunInterval: cfg.SyncInterval,
		Timeout:     cfg.SyncTimeout,
	}
}

// StartScheduler launches the sync loop when SYNC_INTERVAL is configured.
// With no interval the job only runs on demand (admin endpoint or the
// pairsync command).
func StartScheduler(lc fx.Lifecycle, cfg config.Config, sched *Scheduler) {
	if cfg.SyncInterval <= 0 {
		return
	}

	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			ctx, cancel := context.WithCancel(context.Background())

			go sched.RunForever(ctx)

			lc.Append(fx.Hook{
				OnStop: func(context.Context) error {
					cancel()
					return nil
				},
			})

			return nil
		},
	})
}
