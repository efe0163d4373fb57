// Package rag answers questions over the user's notes. Retrieval uses the
// content embedding space; the retrieved notes are handed to the language
// model as grounding context.
package rag

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"go.opentelemetry.io/otel/attribute"

	"github.com/mindweave-labs/mindweave/domain/notes"
	"github.com/mindweave-labs/mindweave/internal/config"
	"github.com/mindweave-labs/mindweave/internal/vector"
	"github.com/mindweave-labs/mindweave/pkg/apperror"
	"github.com/mindweave-labs/mindweave/pkg/llm"
	"github.com/mindweave-labs/mindweave/pkg/logger"
	"github.com/mindweave-labs/mindweave/pkg/tracing"
)

// retrievalTopK is how many notes back an answer.
const retrievalTopK = 4

// maxSnippetChars limits how much of each note goes into the prompt.
const maxSnippetChars = 1500

const promptTemplate = `Answer the question using only the notes below.
If the notes do not contain the answer, say you don't know.
Be concise.

Notes:
%s

Question: %s`

// QueryEmbedder embeds the question for retrieval.
type QueryEmbedder interface {
	EmbedQuery(ctx context.Context, query string) ([]float32, error)
	IsEnabled() bool
}

// NoteFetcher loads retrieved notes, scoped to their owner.
type NoteFetcher interface {
	GetByID(ctx context.Context, userID, noteID int64) (*notes.Note, error)
}

type AskRequest struct {
	Question string `json:"question"`
}

// SourceRef identifies a note that grounded the answer.
type SourceRef struct {
	NoteID int64   `json:"note_id"`
	Title  string  `json:"title,omitempty"`
	Score  float64 `json:"score"`
}

type AskResponse struct {
	Answer  string      `json:"answer"`
	Sources []SourceRef `json:"sources"`
}

// Service answers questions grounded in the user's notes.
type Service struct {
	embedder QueryEmbedder
	store    vector.Store
	fetcher  NoteFetcher
	provider llm.Provider
	log      *slog.Logger
}

func NewService(embedder QueryEmbedder, store vector.Store, fetcher NoteFetcher, provider llm.Provider, log *slog.Logger) *Service {
	return &Service{
		embedder: embedder,
		store:    store,
		fetcher:  fetcher,
		provider: provider,
		log:      log.With(logger.Scope("rag")),
	}
}

// Ask retrieves the most similar notes and asks the model. When neither
// embeddings nor the model are configured the answer is empty rather
// than an error, so the endpoint degrades with the rest of the AI stack.
func (s *Service) Ask(ctx context.Context, userID int64, req AskRequest) (*AskResponse, error) {
	ctx, span := tracing.Start(ctx, "rag.ask",
		attribute.Int64("mindweave.user.id", userID),
	)
	defer span.End()

	question := strings.TrimSpace(req.Question)
	if question == "" {
		return nil, apperror.ErrValidation.WithMessage("question is required")
	}
	if !s.embedder.IsEnabled() || !s.provider.IsConfigured() {
		return &AskResponse{Sources: []SourceRef{}}, nil
	}

	query, err := s.embedder.EmbedQuery(ctx, question)
	if err != nil {
		return nil, apperror.ErrProviderUnavailable.WithInternal(err)
	}

	matches, err := s.store.Search(ctx, query, vector.Filter{
		UserID: userID,
		Basis:  config.BasisContent,
	}, retrievalTopK)
	if err != nil {
		return nil, err
	}
	if len(matches) == 0 {
		return &AskResponse{Sources: []SourceRef{}}, nil
	}

	snippets, sources := s.collectContext(ctx, userID, matches)
	if len(snippets) == 0 {
		return &AskResponse{Sources: []SourceRef{}}, nil
	}

	prompt := fmt.Sprintf(promptTemplate, strings.Join(snippets, "\n\n"), question)
	answer, err := s.provider.Complete(ctx, prompt)
	if err != nil {
		return nil, apperror.ErrProviderUnavailable.WithInternal(err)
	}

	return &AskResponse{
		Answer:  strings.TrimSpace(answer),
		Sources: sources,
	}, nil
}

// collectContext loads each matched note and builds prompt snippets.
// Matches whose note no longer exists are dropped.
func (s *Service) collectContext(ctx context.Context, userID int64, matches []vector.Match) ([]string, []SourceRef) {
	var snippets []string
	var sources []SourceRef
	for i, m := range matches {
		note, err := s.fetcher.GetByID(ctx, userID, m.Metadata.NoteID)
		if err != nil {
			s.log.Warn("retrieved note no longer available",
				slog.Int64("note_id", m.Metadata.NoteID),
				logger.Error(err),
			)
			continue
		}

		content := note.Content
		if len(content) > maxSnippetChars {
			content = content[:maxSnippetChars]
		}
		snippets = append(snippets, fmt.Sprintf("[%d] %s\n%s", i+1, note.Label(), content))
		sources = append(sources, SourceRef{
			NoteID: note.ID,
			Title:  note.Label(),
			Score:  m.Score,
		})
	}
	return snippets, sources
}
