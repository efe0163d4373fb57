package autolink

import (
	"context"
	"log/slog"

	"github.com/mindweave-labs/mindweave/internal/vector"
	"github.com/mindweave-labs/mindweave/pkg/logger"
)

// Embedder generates a query embedding for similarity search.
type Embedder interface {
	EmbedQuery(ctx context.Context, query string) ([]float32, error)
}

// Searcher runs similarity searches against the vector store. It never
// returns an error: enrichment is best effort, so every failure degrades
// to an empty result set with a warning.
type Searcher struct {
	embedder Embedder
	store    vector.Store
	log      *slog.Logger
}

// NewSearcher creates a new Searcher
func NewSearcher(embedder Embedder, store vector.Store, log *slog.Logger) *Searcher {
	return &Searcher{
		embedder: embedder,
		store:    store,
		log:      log.With(logger.Scope("autolink.search")),
	}
}

// FindSimilar returns up to topK notes most similar to text within one
// user's records for one embedding basis.
func (s *Searcher) FindSimilar(ctx context.Context, userID int64, text, basis string, topK int) []vector.Match {
	if text == "" {
		return nil
	}

	query, err := s.embedder.EmbedQuery(ctx, text)
	if err != nil {
		s.log.Warn("query embedding failed",
			slog.Int64("user_id", userID),
			slog.String("basis", basis),
			logger.Error(err),
		)
		return nil
	}
	if len(query) == 0 {
		// Noop embedder: embeddings disabled
		return nil
	}

	matches, err := s.store.Search(ctx, query, vector.Filter{UserID: userID, Basis: basis}, topK)
	if err != nil {
		s.log.Warn("similarity search failed",
			slog.Int64("user_id", userID),
			slog.String("basis", basis),
			logger.Error(err),
		)
		return nil
	}

	// The filter already scopes by user; re-check anyway so a store bug
	// can never leak another user's notes into linking.
	out := matches[:0]
	for _, m := range matches {
		if m.Metadata.UserID != userID {
			s.log.Warn("dropping cross-user match",
				slog.String("id", m.ID),
				slog.Int64("user_id", userID),
				slog.Int64("match_user_id", m.Metadata.UserID),
			)
			continue
		}
		out = append(out, m)
	}

	return out
}
