package graph

import (
	"go.uber.org/fx"
)

// Module provides graph dependencies via fx
var Module = fx.Module("graph",
	fx.Provide(
		NewRepository,
		NewService,
		NewHandler,
	),
	fx.Invoke(RegisterRoutes),
)
