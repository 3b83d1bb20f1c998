package corpus

import "go.uber.org/fx"

var Module = fx.Module("corpus.syncer",
	fx.Provide(New),
)
