package migration

import (
	"github.com/bwmarrin/snowflake"
	"github.com/playlistlab/pairwise/internal/config"
	ratingdomain "github.com/playlistlab/pairwise/internal/rating/domain"
	"github.com/playlistlab/pairwise/internal/seed"
	songdomain "github.com/playlistlab/pairwise/internal/song/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var Module = fx.Module("migrations",
	fx.Invoke(func(conn *gorm.DB, cfg config.Config, log *zap.Logger, node *snowflake.Node) error {
		if cfg.DBType == "postgres" {
			sqlDB, err := conn.DB()
			if err != nil {
				return err
			}
			if err := RunMigrations(sqlDB); err != nil {
				return err
			}
		} else {
			// sqlite/mysql dev setups use the model tags directly.
			if err := conn.AutoMigrate(&songdomain.Song{}, &ratingdomain.Rating{}); err != nil {
				return err
			}
		}

		if cfg.CatalogSeedFile != "" {
			loaded, err := seed.LoadCatalog(conn, node, cfg.CatalogSeedFile)
			if err != nil {
				return err
			}
			if loaded > 0 {
				log.Info("catalog seeded",
					zap.String("file", cfg.CatalogSeedFile),
					zap.Int("songs", loaded),
				)
			}
		}
		return nil
	}),
)
