package users

import (
	"go.uber.org/fx"
)

// Module provides user dependencies via fx
var Module = fx.Module("users",
	fx.Provide(
		NewRepository,
		NewService,
		NewHandler,
	),
	fx.Invoke(RegisterRoutes),
)
