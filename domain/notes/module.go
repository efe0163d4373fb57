package notes

import (
	"go.uber.org/fx"

	"github.com/mindweave-labs/mindweave/domain/autolink"
	"github.com/mindweave-labs/mindweave/pkg/embeddings"
)

// Module provides notes dependencies via fx. It also supplies the
// NoteResolver the auto-link engine needs to turn matches into edges.
var Module = fx.Module("notes",
	fx.Provide(
		NewRepository,
		NewService,
		NewHandler,
		func(repo *Repository) autolink.NoteResolver { return repo },
		func(svc *embeddings.Service) DocumentEmbedder { return svc },
		func(engine *autolink.Engine) Linker { return engine },
	),
	fx.Invoke(RegisterRoutes),
)
