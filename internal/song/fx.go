package song

import (
	"github.com/playlistlab/pairwise/internal/song/repository"
	"github.com/playlistlab/pairwise/internal/song/service"
	"go.uber.org/fx"
)

var Module = fx.Module("song.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
