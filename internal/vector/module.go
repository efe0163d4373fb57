package vector

import (
	"go.uber.org/fx"
)

// Module provides the vector store fx.Module
var Module = fx.Module("vector",
	fx.Provide(
		fx.Annotate(
			NewPgStore,
			fx.As(new(Store)),
		),
	),
)
