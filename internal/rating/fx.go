package rating

import (
	"github.com/playlistlab/pairwise/internal/rating/repository"
	"github.com/playlistlab/pairwise/internal/rating/service"
	"go.uber.org/fx"
)

var Module = fx.Module("rating.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
