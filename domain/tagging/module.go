package tagging

import (
	"go.uber.org/fx"

	"github.com/mindweave-labs/mindweave/domain/notes"
)

// Module provides tagging dependencies via fx
var Module = fx.Module("tagging",
	fx.Provide(
		NewService,
		func(svc *Service) notes.TagSuggester { return svc },
	),
)
