// Package autolink implements similarity-driven edge creation: when a note
// is created or its text changes, the engine searches the vector index for
// similar notes and connects them in the graph.
package autolink

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"

	"github.com/mindweave-labs/mindweave/domain/graph"
	"github.com/mindweave-labs/mindweave/internal/config"
	"github.com/mindweave-labs/mindweave/pkg/logger"
	"github.com/mindweave-labs/mindweave/pkg/metrics"
	"github.com/mindweave-labs/mindweave/pkg/tracing"
)

// Source describes the note that triggered linking. Its graph node becomes
// the source of every edge created.
type Source struct {
	NoteID      int64
	UserID      int64
	GraphNodeID int64
	Content     string
	Summary     string
}

// Outcome reports how many edges a linking pass created per basis.
type Outcome struct {
	ContentEdges int `json:"content_edges"`
	SummaryEdges int `json:"summary_edges"`
}

// Total returns the combined edge count.
func (o Outcome) Total() int {
	return o.ContentEdges + o.SummaryEdges
}

// EdgeCreator persists edges. Each call commits independently.
type EdgeCreator interface {
	CreateEdge(ctx context.Context, edge *graph.GraphEdge) error
}

// NoteResolver resolves a note to its graph node within one user's notes.
type NoteResolver interface {
	GraphNodeIDForNote(ctx context.Context, userID, noteID int64) (int64, error)
}

// Engine wires similarity search, labeling and edge creation together.
type Engine struct {
	cfg      *config.Config
	searcher *Searcher
	edges    EdgeCreator
	resolver NoteResolver
	log      *slog.Logger
}

// NewEngine creates a new auto-link engine
func NewEngine(cfg *config.Config, searcher *Searcher, edges EdgeCreator, resolver NoteResolver, log *slog.Logger) *Engine {
	return &Engine{
		cfg:      cfg,
		searcher: searcher,
		edges:    edges,
		resolver: resolver,
		log:      log.With(logger.Scope("autolink.engine")),
	}
}

// LinkNote runs a linking pass over both embedding bases.
func (e *Engine) LinkNote(ctx context.Context, src Source) Outcome {
	ctx, span := tracing.Start(ctx, "autolink.link_note",
		attribute.Int64("mindweave.note.id", src.NoteID),
	)
	defer span.End()

	return Outcome{
		ContentEdges: e.LinkSimilarNotes(ctx, src, config.BasisContent),
		SummaryEdges: e.LinkSimilarNotes(ctx, src, config.BasisSummary),
	}
}

// LinkSimilarNotes searches one embedding basis and creates an edge for
// every candidate at or above the basis threshold. Failures on individual
// candidates are logged and skipped; the pass always reports how many
// edges it actually created.
func (e *Engine) LinkSimilarNotes(ctx context.Context, src Source, basis string) int {
	ctx, span := tracing.Start(ctx, "autolink.link_similar_notes",
		attribute.Int64("mindweave.note.id", src.NoteID),
		attribute.String("mindweave.embedding.basis", basis),
	)
	defer span.End()

	text := src.Content
	relType := graph.RelationshipSimilarContent
	if basis == config.BasisSummary {
		text = src.Summary
		relType = graph.RelationshipSimilarSummary
	}
	if text == "" {
		return 0
	}

	threshold := e.cfg.Similarity.ThresholdFor(basis)
	matches := e.searcher.FindSimilar(ctx, src.UserID, text, basis, e.cfg.Similarity.TopK)

	created := 0
	for _, m := range matches {
		switch {
		case m.Metadata.NoteID == 0:
			metrics.AutoLinkCandidatesSkipped.WithLabelValues("invalid").Inc()
			continue
		case m.Metadata.NoteID == src.NoteID:
			metrics.AutoLinkCandidatesSkipped.WithLabelValues("self").Inc()
			continue
		case m.Score < threshold:
			metrics.AutoLinkCandidatesSkipped.WithLabelValues("below_threshold").Inc()
			continue
		}

		targetNodeID, err := e.resolver.GraphNodeIDForNote(ctx, src.UserID, m.Metadata.NoteID)
		if err != nil {
			e.log.Warn("could not resolve candidate note to graph node",
				slog.Int64("note_id", m.Metadata.NoteID),
				logger.Error(err),
			)
			metrics.AutoLinkCandidatesSkipped.WithLabelValues("unresolved").Inc()
			continue
		}

		label := LabelFor(m.Score, threshold)
		score := m.Score
		edge := &graph.GraphEdge{
			UserID:           src.UserID,
			SourceNodeID:     src.GraphNodeID,
			TargetNodeID:     targetNodeID,
			RelationshipType: relType,
			Label:            &label,
			Data: graph.EdgeData{
				SimilarityScore: &score,
				Basis:           basis,
			},
		}

		if err := e.edges.CreateEdge(ctx, edge); err != nil {
			e.log.Warn("failed to create similarity edge",
				slog.Int64("source_node_id", src.GraphNodeID),
				slog.Int64("target_node_id", targetNodeID),
				slog.String("basis", basis),
				logger.Error(err),
			)
			metrics.AutoLinkCandidatesSkipped.WithLabelValues("edge_failed").Inc()
			continue
		}

		created++
		metrics.AutoLinkEdgesCreated.WithLabelValues(basis).Inc()
	}

	e.log.Info("linking pass complete",
		slog.Int64("note_id", src.NoteID),
		slog.String("basis", basis),
		slog.Int("candidates", len(matches)),
		slog.Int("edges_created", created),
	)

	return created
}
