package notes

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"

	"github.com/mindweave-labs/mindweave/domain/autolink"
	"github.com/mindweave-labs/mindweave/domain/graph"
	"github.com/mindweave-labs/mindweave/internal/config"
	"github.com/mindweave-labs/mindweave/internal/vector"
	"github.com/mindweave-labs/mindweave/pkg/apperror"
	"github.com/mindweave-labs/mindweave/pkg/logger"
	"github.com/mindweave-labs/mindweave/pkg/metrics"
	"github.com/mindweave-labs/mindweave/pkg/tracing"
)

// DocumentEmbedder produces embeddings for note text going into the
// vector store.
type DocumentEmbedder interface {
	EmbedDocuments(ctx context.Context, documents []string) ([][]float32, error)
	IsEnabled() bool
}

// TagSuggester proposes tags for freshly created notes.
type TagSuggester interface {
	SuggestTags(ctx context.Context, content string) ([]string, error)
	IsConfigured() bool
}

// Linker runs the auto-link pass for a note.
type Linker interface {
	LinkNote(ctx context.Context, src autolink.Source) autolink.Outcome
	LinkSimilarNotes(ctx context.Context, src autolink.Source, basis string) int
}

// Service orchestrates the note lifecycle. Creation happens in two phases:
// the note and its graph node are committed atomically, then enrichment
// (tag suggestion, vector indexing, auto-linking) runs best-effort. Each
// enrichment step is isolated; a failure is reported in the response but
// never fails the request or undoes the note.
type Service struct {
	repo     *Repository
	graph    *graph.Repository
	embedder DocumentEmbedder
	store    vector.Store
	tagger   TagSuggester
	linker   Linker
	log      *slog.Logger
}

func NewService(
	repo *Repository,
	graphRepo *graph.Repository,
	embedder DocumentEmbedder,
	store vector.Store,
	tagger TagSuggester,
	linker Linker,
	log *slog.Logger,
) *Service {
	return &Service{
		repo:     repo,
		graph:    graphRepo,
		embedder: embedder,
		store:    store,
		tagger:   tagger,
		linker:   linker,
		log:      log.With(logger.Scope("notes.service")),
	}
}

// Create persists a note with its graph node, then enriches it.
func (s *Service) Create(ctx context.Context, userID int64, req CreateNoteRequest) (*NoteResponse, error) {
	ctx, span := tracing.Start(ctx, "notes.create",
		attribute.Int64("mindweave.user.id", userID),
	)
	defer span.End()

	if req.Content == "" {
		return nil, apperror.ErrValidation.WithMessage("content is required")
	}
	if err := validateSummary(req.Summary); err != nil {
		return nil, err
	}

	note := &Note{
		UserID:  userID,
		Title:   req.Title,
		Content: req.Content,
		Summary: req.Summary,
		Tags:    req.Tags,
	}
	node, err := s.repo.CreateWithNode(ctx, note)
	if err != nil {
		return nil, err
	}

	outcome := s.enrich(ctx, note, node)
	return &NoteResponse{Note: note, Enrichment: outcome}, nil
}

// enrich runs the post-commit pipeline. Steps run in order but do not
// depend on each other's success.
func (s *Service) enrich(ctx context.Context, note *Note, node *graph.GraphNode) *EnrichmentOutcome {
	outcome := &EnrichmentOutcome{}

	outcome.Tags = s.enrichTags(ctx, note, node)
	recordStep(metrics.StepTags, outcome.Tags)

	outcome.Vectors = s.upsertVectors(ctx, note, config.BasisContent, config.BasisSummary)
	recordStep(metrics.StepVectors, outcome.Vectors)

	outcome.AutoLink, outcome.EdgesCreated = s.runAutoLink(ctx, note, node.ID)
	recordStep(metrics.StepAutoLink, outcome.AutoLink)

	return outcome
}

func (s *Service) enrichTags(ctx context.Context, note *Note, node *graph.GraphNode) StepResult {
	if len(note.Tags) > 0 {
		return StepResult{Status: StepSkipped, Detail: "tags provided by user"}
	}
	return s.regenerateTags(ctx, note, node)
}

// regenerateTags re-suggests tags regardless of what the note already
// carries. Used on update when the content changed and the caller did
// not supply tags of their own.
func (s *Service) regenerateTags(ctx context.Context, note *Note, node *graph.GraphNode) StepResult {
	if s.tagger == nil || !s.tagger.IsConfigured() {
		return StepResult{Status: StepSkipped, Detail: "tag suggestion not configured"}
	}

	tags, err := s.tagger.SuggestTags(ctx, note.Content)
	if err != nil {
		s.log.Warn("tag suggestion failed",
			slog.Int64("note_id", note.ID),
			logger.Error(err),
		)
		return StepResult{Status: StepFailed, Detail: "tag suggestion failed"}
	}
	if len(tags) == 0 {
		return StepResult{Status: StepOK, Detail: "no tags suggested"}
	}

	note.Tags = tags
	if err := s.repo.UpdateTags(ctx, note.UserID, note.ID, tags); err != nil {
		return StepResult{Status: StepFailed, Detail: "failed to persist tags"}
	}

	node.Data.Tags = tags
	if err := s.graph.UpdateNode(ctx, node); err != nil {
		s.log.Warn("failed to sync tags to graph node",
			slog.Int64("node_id", node.ID),
			logger.Error(err),
		)
	}
	return StepResult{Status: StepOK}
}

// upsertVectors indexes the requested bases. A basis with no text is
// removed from the store instead so stale vectors never serve searches.
func (s *Service) upsertVectors(ctx context.Context, note *Note, bases ...string) StepResult {
	if s.embedder == nil || !s.embedder.IsEnabled() {
		return StepResult{Status: StepSkipped, Detail: "embeddings not configured"}
	}

	var texts []string
	var pending []vector.Record
	var stale []string
	for _, basis := range bases {
		text := note.Content
		if basis == config.BasisSummary {
			text = note.SummaryText()
		}
		id := vector.NoteRecordID(note.ID, basis)
		if text == "" {
			stale = append(stale, id)
			continue
		}
		texts = append(texts, text)
		pending = append(pending, vector.Record{
			ID:   id,
			Text: text,
			Metadata: vector.Metadata{
				NoteID: note.ID,
				UserID: note.UserID,
				Basis:  basis,
				Title:  note.Label(),
			},
		})
	}

	if len(stale) > 0 {
		if err := s.store.Delete(ctx, stale); err != nil {
			s.log.Warn("failed to remove stale vectors",
				slog.Int64("note_id", note.ID),
				logger.Error(err),
			)
		}
	}
	if len(pending) == 0 {
		return StepResult{Status: StepSkipped, Detail: "nothing to index"}
	}

	vectors, err := s.embedder.EmbedDocuments(ctx, texts)
	if err != nil {
		s.log.Warn("embedding failed", slog.Int64("note_id", note.ID), logger.Error(err))
		return StepResult{Status: StepFailed, Detail: "embedding failed"}
	}
	if len(vectors) != len(pending) {
		s.log.Warn("embedding count mismatch",
			slog.Int64("note_id", note.ID),
			slog.Int("expected", len(pending)),
			slog.Int("got", len(vectors)),
		)
		return StepResult{Status: StepFailed, Detail: "embedding failed"}
	}
	for i := range pending {
		pending[i].Vector = vectors[i]
	}

	if err := s.store.Upsert(ctx, pending); err != nil {
		s.log.Warn("vector upsert failed", slog.Int64("note_id", note.ID), logger.Error(err))
		return StepResult{Status: StepFailed, Detail: "vector upsert failed"}
	}
	return StepResult{Status: StepOK}
}

func (s *Service) runAutoLink(ctx context.Context, note *Note, nodeID int64, bases ...string) (StepResult, int) {
	if s.embedder == nil || !s.embedder.IsEnabled() {
		return StepResult{Status: StepSkipped, Detail: "embeddings not configured"}, 0
	}

	src := autolink.Source{
		NoteID:      note.ID,
		UserID:      note.UserID,
		GraphNodeID: nodeID,
		Content:     note.Content,
		Summary:     note.SummaryText(),
	}

	if len(bases) == 0 {
		out := s.linker.LinkNote(ctx, src)
		return StepResult{Status: StepOK}, out.Total()
	}

	created := 0
	for _, basis := range bases {
		created += s.linker.LinkSimilarNotes(ctx, src, basis)
	}
	return StepResult{Status: StepOK}, created
}

// Get returns an owned note.
func (s *Service) Get(ctx context.Context, userID, noteID int64) (*Note, error) {
	return s.repo.GetByID(ctx, userID, noteID)
}

// List returns the user's notes.
func (s *Service) List(ctx context.Context, userID int64) ([]*Note, error) {
	result, err := s.repo.List(ctx, userID)
	if err != nil {
		return nil, err
	}
	if result == nil {
		result = []*Note{}
	}
	return result, nil
}

// Update applies partial changes, then re-enriches only what changed.
// Vectors and links are refreshed per basis: an edit that touches the
// content but not the summary re-links the content basis only.
func (s *Service) Update(ctx context.Context, userID, noteID int64, req UpdateNoteRequest) (*NoteResponse, error) {
	ctx, span := tracing.Start(ctx, "notes.update",
		attribute.Int64("mindweave.note.id", noteID),
	)
	defer span.End()

	note, err := s.repo.GetByID(ctx, userID, noteID)
	if err != nil {
		return nil, err
	}

	contentChanged := req.Content != nil && *req.Content != note.Content
	summaryChanged := req.Summary != nil && note.SummaryText() != *req.Summary

	if req.Title != nil {
		note.Title = req.Title
	}
	if req.Content != nil {
		if *req.Content == "" {
			return nil, apperror.ErrValidation.WithMessage("content cannot be empty")
		}
		note.Content = *req.Content
	}
	if req.Summary != nil {
		if err := validateSummary(req.Summary); err != nil {
			return nil, err
		}
		note.Summary = req.Summary
	}
	if req.Tags != nil {
		note.Tags = *req.Tags
	}

	if err := s.repo.Update(ctx, note); err != nil {
		return nil, err
	}
	node := s.syncGraphNode(ctx, note)

	outcome := &EnrichmentOutcome{
		Tags:     StepResult{Status: StepSkipped, Detail: "content unchanged or tags provided"},
		Vectors:  StepResult{Status: StepSkipped, Detail: "no indexed text changed"},
		AutoLink: StepResult{Status: StepSkipped, Detail: "no indexed text changed"},
	}

	// Tags are regenerated only when the content changed and the caller
	// did not choose tags in the same request; chosen tags always win.
	if contentChanged && req.Tags == nil && node != nil {
		outcome.Tags = s.regenerateTags(ctx, note, node)
		recordStep(metrics.StepTags, outcome.Tags)
	}

	var changed []string
	if contentChanged {
		changed = append(changed, config.BasisContent)
	}
	if summaryChanged {
		changed = append(changed, config.BasisSummary)
	}
	if len(changed) > 0 {
		outcome.Vectors = s.upsertVectors(ctx, note, changed...)
		recordStep(metrics.StepVectors, outcome.Vectors)

		if note.GraphNodeID != nil {
			outcome.AutoLink, outcome.EdgesCreated = s.runAutoLink(ctx, note, *note.GraphNodeID, changed...)
			recordStep(metrics.StepAutoLink, outcome.AutoLink)
		}
	}

	return &NoteResponse{Note: note, Enrichment: outcome}, nil
}

// syncGraphNode mirrors the note's label, content and tags onto its graph
// node. Best-effort: the note update already committed. Returns the node
// so later enrichment steps can reuse it, or nil when the sync failed.
func (s *Service) syncGraphNode(ctx context.Context, note *Note) *graph.GraphNode {
	if note.GraphNodeID == nil {
		return nil
	}
	node, err := s.graph.GetNode(ctx, note.UserID, *note.GraphNodeID)
	if err != nil {
		s.log.Warn("failed to load graph node for sync",
			slog.Int64("note_id", note.ID),
			logger.Error(err),
		)
		return nil
	}
	node.Label = note.Label()
	node.Data.Content = note.Content
	node.Data.Tags = note.Tags
	if err := s.graph.UpdateNode(ctx, node); err != nil {
		s.log.Warn("failed to sync graph node",
			slog.Int64("node_id", node.ID),
			logger.Error(err),
		)
	}
	return node
}

// Delete removes the note and its graph node together, then cleans up
// vectors best-effort; the reconciliation job catches leftovers.
func (s *Service) Delete(ctx context.Context, userID, noteID int64) error {
	ctx, span := tracing.Start(ctx, "notes.delete",
		attribute.Int64("mindweave.note.id", noteID),
	)
	defer span.End()

	note, err := s.repo.GetByID(ctx, userID, noteID)
	if err != nil {
		return err
	}
	if err := s.repo.DeleteWithNode(ctx, userID, noteID, note.GraphNodeID); err != nil {
		return err
	}

	if err := s.store.DeleteByNote(ctx, noteID); err != nil {
		s.log.Warn("failed to delete vectors for note",
			slog.Int64("note_id", noteID),
			logger.Error(err),
		)
	}
	return nil
}

// Reindex refreshes both vector bases for a note. Used by the
// reconciliation job for notes whose vectors went stale.
func (s *Service) Reindex(ctx context.Context, note *Note) error {
	result := s.upsertVectors(ctx, note, config.BasisContent, config.BasisSummary)
	recordStep(metrics.StepVectors, result)
	if result.Status == StepFailed {
		return apperror.NewInternal("failed to reindex note", nil)
	}
	return nil
}

// NotesNeedingReindex exposes the stale-vector query to the scheduler.
func (s *Service) NotesNeedingReindex(ctx context.Context, limit int) ([]*Note, error) {
	return s.repo.ListNeedingReindex(ctx, limit)
}

// maxSummaryChars bounds the user-supplied summary.
const maxSummaryChars = 1000

func validateSummary(summary *string) error {
	if summary != nil && len(*summary) > maxSummaryChars {
		return apperror.ErrValidation.WithMessage("summary must be at most 1000 characters")
	}
	return nil
}

func recordStep(step string, result StepResult) {
	outcome := metrics.OutcomeOK
	switch result.Status {
	case StepFailed:
		outcome = metrics.OutcomeFailed
	case StepSkipped:
		outcome = metrics.OutcomeSkipped
	}
	metrics.EnrichmentSteps.WithLabelValues(step, outcome).Inc()
}
