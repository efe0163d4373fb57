package rag

import (
	"go.uber.org/fx"

	"github.com/mindweave-labs/mindweave/domain/notes"
	"github.com/mindweave-labs/mindweave/pkg/embeddings"
)

// Module provides question answering dependencies via fx
var Module = fx.Module("rag",
	fx.Provide(
		func(svc *embeddings.Service) QueryEmbedder { return svc },
		func(repo *notes.Repository) NoteFetcher { return repo },
		NewService,
		NewHandler,
	),
	fx.Invoke(RegisterRoutes),
)
