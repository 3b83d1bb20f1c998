package main

import (
	"github.com/bwmarrin/snowflake"
	"github.com/playlistlab/pairwise/internal/clock"
	"github.com/playlistlab/pairwise/internal/config"
	"github.com/playlistlab/pairwise/internal/migration"
	"github.com/playlistlab/pairwise/internal/observability"
	"github.com/playlistlab/pairwise/internal/scheduler"
	"github.com/playlistlab/pairwise/internal/server"
	"github.com/playlistlab/pairwise/pkg/db"
	"go.uber.org/fx"
)

func main() {
	app := fx.New(
		config.Module,
		observability.Module,
		fx.Provide(RegisterSnowflake),
		db.Module,
		clock.Module,
		migration.Module,
		server.Module,
		scheduler.Module,
	)
	app.Run()
}

func RegisterSnowflake() *snowflake.Node {
	node, err := snowflake.NewNode(1)
	if err != nil {
		panic(err)
	}
	return node
}
