package autolink

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mindweave-labs/mindweave/domain/graph"
	"github.com/mindweave-labs/mindweave/internal/config"
	"github.com/mindweave-labs/mindweave/internal/vector"
)

// fakeEmbedder returns a fixed vector for any query.
type fakeEmbedder struct {
	vec   []float32
	err   error
	calls int
}

func (f *fakeEmbedder) EmbedQuery(ctx context.Context, query string) ([]float32, error) {
	f.calls++
	return f.vec, f.err
}

// fakeStore returns canned matches.
type fakeStore struct {
	matches []vector.Match
	err     error
}

func (f *fakeStore) Upsert(ctx context.Context, records []vector.Record) error { return nil }
func (f *fakeStore) Delete(ctx context.Context, ids []string) error            { return nil }
func (f *fakeStore) DeleteByNote(ctx context.Context, noteID int64) error      { return nil }
func (f *fakeStore) Search(ctx context.Context, query []float32, filter vector.Filter, limit int) ([]vector.Match, error) {
	return f.matches, f.err
}

// fakeEdges records created edges and can fail selectively.
type fakeEdges struct {
	created []*graph.GraphEdge
	failFor map[int64]error // keyed by target node ID
}

func (f *fakeEdges) CreateEdge(ctx context.Context, edge *graph.GraphEdge) error {
	if err, ok := f.failFor[edge.TargetNodeID]; ok {
		return err
	}
	f.created = append(f.created, edge)
	return nil
}

// fakeResolver maps note IDs to graph node IDs.
type fakeResolver struct {
	nodes map[int64]int64
}

func (f *fakeResolver) GraphNodeIDForNote(ctx context.Context, userID, noteID int64) (int64, error) {
	id, ok := f.nodes[noteID]
	if !ok {
		return 0, errors.New("note has no graph node")
	}
	return id, nil
}

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.Similarity = config.SimilarityConfig{
		Threshold:        0.5,
		ContentThreshold: -1,
		SummaryThreshold: -1,
		TopK:             6,
	}
	return cfg
}

func match(noteID, userID int64, score float64, basis string) vector.Match {
	return vector.Match{
		ID:    vector.NoteRecordID(noteID, basis),
		Score: score,
		Metadata: vector.Metadata{
			NoteID: noteID,
			UserID: userID,
			Basis:  basis,
		},
	}
}

func newEngine(store vector.Store, edges EdgeCreator, resolver NoteResolver) *Engine {
	searcher := NewSearcher(&fakeEmbedder{vec: []float32{1, 0}}, store, slog.Default())
	return NewEngine(testConfig(), searcher, edges, resolver, slog.Default())
}

func TestLinkSimilarNotesCreatesEdges(t *testing.T) {
	store := &fakeStore{matches: []vector.Match{
		match(2, 10, 0.92, "content"),
		match(3, 10, 0.75, "content"),
	}}
	edges := &fakeEdges{}
	resolver := &fakeResolver{nodes: map[int64]int64{2: 102, 3: 103}}
	engine := newEngine(store, edges, resolver)

	src := Source{NoteID: 1, UserID: 10, GraphNodeID: 101, Content: "go concurrency patterns"}
	created := engine.LinkSimilarNotes(context.Background(), src, config.BasisContent)

	assert.Equal(t, 2, created)
	require.Len(t, edges.created, 2)

	first := edges.created[0]
	assert.Equal(t, int64(101), first.SourceNodeID)
	assert.Equal(t, int64(102), first.TargetNodeID)
	assert.Equal(t, graph.RelationshipSimilarContent, first.RelationshipType)
	require.NotNil(t, first.Label)
	assert.Equal(t, LabelStronglyRelated, *first.Label)
	require.NotNil(t, first.Data.SimilarityScore)
	assert.Equal(t, 0.92, *first.Data.SimilarityScore)
	assert.Equal(t, "content", first.Data.Basis)

	second := edges.created[1]
	assert.Equal(t, int64(103), second.TargetNodeID)
	assert.Equal(t, LabelRelated, *second.Label)
}

func TestLinkSimilarNotesSkipsSelf(t *testing.T) {
	store := &fakeStore{matches: []vector.Match{
		match(1, 10, 0.99, "content"), // the triggering note itself
		match(2, 10, 0.8, "content"),
	}}
	edges := &fakeEdges{}
	engine := newEngine(store, edges, &fakeResolver{nodes: map[int64]int64{1: 101, 2: 102}})

	src := Source{NoteID: 1, UserID: 10, GraphNodeID: 101, Content: "text"}
	created := engine.LinkSimilarNotes(context.Background(), src, config.BasisContent)

	assert.Equal(t, 1, created)
	require.Len(t, edges.created, 1)
	assert.Equal(t, int64(102), edges.created[0].TargetNodeID)
}

func TestLinkSimilarNotesSkipsBelowThreshold(t *testing.T) {
	store := &fakeStore{matches: []vector.Match{
		match(2, 10, 0.49, "content"),
		match(3, 10, 0.5, "content"), // exactly at threshold links
	}}
	edges := &fakeEdges{}
	engine := newEngine(store, edges, &fakeResolver{nodes: map[int64]int64{2: 102, 3: 103}})

	src := Source{NoteID: 1, UserID: 10, GraphNodeID: 101, Content: "text"}
	created := engine.LinkSimilarNotes(context.Background(), src, config.BasisContent)

	assert.Equal(t, 1, created)
	require.Len(t, edges.created, 1)
	assert.Equal(t, int64(103), edges.created[0].TargetNodeID)
}

func TestLinkSimilarNotesPerBasisThreshold(t *testing.T) {
	store := &fakeStore{matches: []vector.Match{
		match(2, 10, 0.65, "summary"),
	}}
	edges := &fakeEdges{}
	searcher := NewSearcher(&fakeEmbedder{vec: []float32{1}}, store, slog.Default())

	cfg := testConfig()
	cfg.Similarity.SummaryThreshold = 0.7
	engine := NewEngine(cfg, searcher, edges, &fakeResolver{nodes: map[int64]int64{2: 102}}, slog.Default())

	src := Source{NoteID: 1, UserID: 10, GraphNodeID: 101, Summary: "a summary"}

	// 0.65 clears the global 0.5 threshold but not the summary override.
	created := engine.LinkSimilarNotes(context.Background(), src, config.BasisSummary)
	assert.Equal(t, 0, created)
	assert.Empty(t, edges.created)
}

func TestLinkSimilarNotesSkipsInvalidMetadata(t *testing.T) {
	store := &fakeStore{matches: []vector.Match{
		{ID: "stray_record", Score: 0.95, Metadata: vector.Metadata{UserID: 10}},
		match(2, 10, 0.8, "content"),
	}}
	edges := &fakeEdges{}
	engine := newEngine(store, edges, &fakeResolver{nodes: map[int64]int64{2: 102}})

	src := Source{NoteID: 1, UserID: 10, GraphNodeID: 101, Content: "text"}
	created := engine.LinkSimilarNotes(context.Background(), src, config.BasisContent)

	assert.Equal(t, 1, created)
}

func TestLinkSimilarNotesNeverLinksAcrossUsers(t *testing.T) {
	// A store bug returns another user's record; the searcher drops it.
	store := &fakeStore{matches: []vector.Match{
		match(2, 99, 0.95, "content"),
		match(3, 10, 0.9, "content"),
	}}
	edges := &fakeEdges{}
	engine := newEngine(store, edges, &fakeResolver{nodes: map[int64]int64{2: 202, 3: 103}})

	src := Source{NoteID: 1, UserID: 10, GraphNodeID: 101, Content: "text"}
	created := engine.LinkSimilarNotes(context.Background(), src, config.BasisContent)

	assert.Equal(t, 1, created)
	require.Len(t, edges.created, 1)
	assert.Equal(t, int64(103), edges.created[0].TargetNodeID)
}

func TestLinkSimilarNotesResolverFailureSkipsCandidate(t *testing.T) {
	store := &fakeStore{matches: []vector.Match{
		match(2, 10, 0.9, "content"), // not resolvable
		match(3, 10, 0.8, "content"),
	}}
	edges := &fakeEdges{}
	engine := newEngine(store, edges, &fakeResolver{nodes: map[int64]int64{3: 103}})

	src := Source{NoteID: 1, UserID: 10, GraphNodeID: 101, Content: "text"}
	created := engine.LinkSimilarNotes(context.Background(), src, config.BasisContent)

	assert.Equal(t, 1, created)
	require.Len(t, edges.created, 1)
	assert.Equal(t, int64(103), edges.created[0].TargetNodeID)
}

func TestLinkSimilarNotesEdgeFailureDoesNotAbortPass(t *testing.T) {
	store := &fakeStore{matches: []vector.Match{
		match(2, 10, 0.9, "content"),
		match(3, 10, 0.8, "content"),
	}}
	edges := &fakeEdges{failFor: map[int64]error{102: errors.New("db down")}}
	engine := newEngine(store, edges, &fakeResolver{nodes: map[int64]int64{2: 102, 3: 103}})

	src := Source{NoteID: 1, UserID: 10, GraphNodeID: 101, Content: "text"}
	created := engine.LinkSimilarNotes(context.Background(), src, config.BasisContent)

	assert.Equal(t, 1, created)
	require.Len(t, edges.created, 1)
	assert.Equal(t, int64(103), edges.created[0].TargetNodeID)
}

func TestLinkSimilarNotesEmptyTextShortCircuits(t *testing.T) {
	embedder := &fakeEmbedder{vec: []float32{1}}
	searcher := NewSearcher(embedder, &fakeStore{}, slog.Default())
	engine := NewEngine(testConfig(), searcher, &fakeEdges{}, &fakeResolver{}, slog.Default())

	src := Source{NoteID: 1, UserID: 10, GraphNodeID: 101}
	assert.Equal(t, 0, engine.LinkSimilarNotes(context.Background(), src, config.BasisContent))
	assert.Equal(t, 0, embedder.calls)
}

func TestLinkSimilarNotesSearchFailureYieldsZeroEdges(t *testing.T) {
	store := &fakeStore{err: errors.New("index unavailable")}
	edges := &fakeEdges{}
	engine := newEngine(store, edges, &fakeResolver{})

	src := Source{NoteID: 1, UserID: 10, GraphNodeID: 101, Content: "text"}
	created := engine.LinkSimilarNotes(context.Background(), src, config.BasisContent)

	assert.Equal(t, 0, created)
	assert.Empty(t, edges.created)
}

func TestLinkSimilarNotesEmbedderFailureYieldsZeroEdges(t *testing.T) {
	searcher := NewSearcher(&fakeEmbedder{err: errors.New("provider down")}, &fakeStore{}, slog.Default())
	engine := NewEngine(testConfig(), searcher, &fakeEdges{}, &fakeResolver{}, slog.Default())

	src := Source{NoteID: 1, UserID: 10, GraphNodeID: 101, Content: "text"}
	assert.Equal(t, 0, engine.LinkSimilarNotes(context.Background(), src, config.BasisContent))
}

func TestLinkNoteCoversBothBases(t *testing.T) {
	store := &fakeStore{matches: []vector.Match{
		match(2, 10, 0.9, "content"),
	}}
	edges := &fakeEdges{}
	engine := newEngine(store, edges, &fakeResolver{nodes: map[int64]int64{2: 102}})

	src := Source{NoteID: 1, UserID: 10, GraphNodeID: 101, Content: "text", Summary: "summary"}
	outcome := engine.LinkNote(context.Background(), src)

	// The fake store answers both searches with the same candidate.
	assert.Equal(t, 1, outcome.ContentEdges)
	assert.Equal(t, 1, outcome.SummaryEdges)
	assert.Equal(t, 2, outcome.Total())

	assert.Equal(t, graph.RelationshipSimilarContent, edges.created[0].RelationshipType)
	assert.Equal(t, graph.RelationshipSimilarSummary, edges.created[1].RelationshipType)
}

func TestLinkNoteWithoutSummarySkipsSummaryBasis(t *testing.T) {
	store := &fakeStore{matches: []vector.Match{match(2, 10, 0.9, "content")}}
	edges := &fakeEdges{}
	engine := newEngine(store, edges, &fakeResolver{nodes: map[int64]int64{2: 102}})

	src := Source{NoteID: 1, UserID: 10, GraphNodeID: 101, Content: "text"}
	outcome := engine.LinkNote(context.Background(), src)

	assert.Equal(t, 1, outcome.ContentEdges)
	assert.Equal(t, 0, outcome.SummaryEdges)
}

func TestRepeatedLinkingPermitsDuplicateEdges(t *testing.T) {
	store := &fakeStore{matches: []vector.Match{match(2, 10, 0.9, "content")}}
	edges := &fakeEdges{}
	engine := newEngine(store, edges, &fakeResolver{nodes: map[int64]int64{2: 102}})

	src := Source{NoteID: 1, UserID: 10, GraphNodeID: 101, Content: "text"}
	engine.LinkSimilarNotes(context.Background(), src, config.BasisContent)
	engine.LinkSimilarNotes(context.Background(), src, config.BasisContent)

	// Dedup is the caller's concern; two passes create two parallel edges.
	assert.Len(t, edges.created, 2)
}

func TestSearcherWithMemStore(t *testing.T) {
	ctx := context.Background()
	store := vector.NewMemStore()
	require.NoError(t, store.Upsert(ctx, []vector.Record{
		{ID: "note_2_content", Vector: []float32{1, 0}, Metadata: vector.Metadata{NoteID: 2, UserID: 10, Basis: "content"}},
		{ID: "note_3_content", Vector: []float32{0, 1}, Metadata: vector.Metadata{NoteID: 3, UserID: 10, Basis: "content"}},
		{ID: "note_4_content", Vector: []float32{1, 0}, Metadata: vector.Metadata{NoteID: 4, UserID: 99, Basis: "content"}},
	}))

	searcher := NewSearcher(&fakeEmbedder{vec: []float32{1, 0}}, store, slog.Default())
	matches := searcher.FindSimilar(ctx, 10, "query", "content", 6)

	require.Len(t, matches, 2)
	assert.Equal(t, int64(2), matches[0].Metadata.NoteID)
	assert.InDelta(t, 1.0, matches[0].Score, 1e-6)
}
