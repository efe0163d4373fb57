package files

import (
	"go.uber.org/fx"
)

// Module provides file dependencies via fx
var Module = fx.Module("files",
	fx.Provide(
		NewRepository,
		NewService,
		NewHandler,
	),
	fx.Invoke(RegisterRoutes),
)
