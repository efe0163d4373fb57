package autolink

import (
	"go.uber.org/fx"

	"github.com/mindweave-labs/mindweave/domain/graph"
	"github.com/mindweave-labs/mindweave/pkg/embeddings"
)

// Module provides auto-linking dependencies via fx. The NoteResolver
// binding comes from the notes module.
var Module = fx.Module("autolink",
	fx.Provide(
		func(svc *embeddings.Service) Embedder { return svc },
		func(repo *graph.Repository) EdgeCreator { return repo },
		NewSearcher,
		NewEngine,
	),
)
