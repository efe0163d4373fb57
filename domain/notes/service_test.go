package notes

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mindweave-labs/mindweave/domain/autolink"
	"github.com/mindweave-labs/mindweave/internal/config"
	"github.com/mindweave-labs/mindweave/internal/vector"
)

type fakeEmbedder struct {
	enabled bool
	err     error
	calls   int
}

func (f *fakeEmbedder) IsEnabled() bool { return f.enabled }

func (f *fakeEmbedder) EmbedDocuments(_ context.Context, documents []string) ([][]float32, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	out := make([][]float32, len(documents))
	for i := range documents {
		out[i] = []float32{1, 0, 0}
	}
	return out, nil
}

type fakeStore struct {
	upserted  []vector.Record
	deleted   []string
	upsertErr error
}

func (f *fakeStore) Upsert(_ context.Context, records []vector.Record) error {
	if f.upsertErr != nil {
		return f.upsertErr
	}
	f.upserted = append(f.upserted, records...)
	return nil
}

func (f *fakeStore) Delete(_ context.Context, ids []string) error {
	f.deleted = append(f.deleted, ids...)
	return nil
}

func (f *fakeStore) DeleteByNote(context.Context, int64) error { return nil }

func (f *fakeStore) Search(context.Context, []float32, vector.Filter, int) ([]vector.Match, error) {
	return nil, nil
}

type fakeLinker struct {
	bases   []string
	perPass int
}

func (f *fakeLinker) LinkNote(ctx context.Context, src autolink.Source) autolink.Outcome {
	return autolink.Outcome{
		ContentEdges: f.LinkSimilarNotes(ctx, src, config.BasisContent),
		SummaryEdges: f.LinkSimilarNotes(ctx, src, config.BasisSummary),
	}
}

func (f *fakeLinker) LinkSimilarNotes(_ context.Context, _ autolink.Source, basis string) int {
	f.bases = append(f.bases, basis)
	return f.perPass
}

func newTestService(embedder *fakeEmbedder, store *fakeStore, linker *fakeLinker) *Service {
	return NewService(nil, nil, embedder, store, nil, linker, slog.Default())
}

func strPtr(s string) *string { return &s }

func TestUpsertVectorsIndexesBothBases(t *testing.T) {
	store := &fakeStore{}
	svc := newTestService(&fakeEmbedder{enabled: true}, store, nil)

	note := &Note{
		ID:      7,
		UserID:  3,
		Title:   strPtr("Gardening"),
		Content: "Tomatoes need full sun.",
		Summary: strPtr("Tomato growing basics."),
	}

	result := svc.upsertVectors(context.Background(), note, config.BasisContent, config.BasisSummary)

	assert.Equal(t, StepOK, result.Status)
	require.Len(t, store.upserted, 2)
	assert.Equal(t, "note_7_content", store.upserted[0].ID)
	assert.Equal(t, "note_7_summary", store.upserted[1].ID)
	assert.Equal(t, int64(3), store.upserted[0].Metadata.UserID)
	assert.Equal(t, "Gardening", store.upserted[0].Metadata.Title)
	assert.Equal(t, "Tomatoes need full sun.", store.upserted[0].Text)
	assert.Equal(t, "Tomato growing basics.", store.upserted[1].Text)
	assert.NotEmpty(t, store.upserted[0].Vector)
}

func TestUpsertVectorsRemovesStaleSummary(t *testing.T) {
	store := &fakeStore{}
	svc := newTestService(&fakeEmbedder{enabled: true}, store, nil)

	note := &Note{ID: 9, UserID: 3, Content: "Content without a summary."}

	result := svc.upsertVectors(context.Background(), note, config.BasisContent, config.BasisSummary)

	assert.Equal(t, StepOK, result.Status)
	require.Len(t, store.upserted, 1)
	assert.Equal(t, "note_9_content", store.upserted[0].ID)
	assert.Equal(t, []string{"note_9_summary"}, store.deleted)
}

func TestUpsertVectorsSkippedWhenEmbeddingsDisabled(t *testing.T) {
	embedder := &fakeEmbedder{enabled: false}
	store := &fakeStore{}
	svc := newTestService(embedder, store, nil)

	note := &Note{ID: 1, UserID: 1, Content: "text"}
	result := svc.upsertVectors(context.Background(), note, config.BasisContent)

	assert.Equal(t, StepSkipped, result.Status)
	assert.Zero(t, embedder.calls)
	assert.Empty(t, store.upserted)
}

func TestUpsertVectorsFailsOnEmbeddingError(t *testing.T) {
	store := &fakeStore{}
	svc := newTestService(&fakeEmbedder{enabled: true, err: errors.New("quota exceeded")}, store, nil)

	note := &Note{ID: 1, UserID: 1, Content: "text"}
	result := svc.upsertVectors(context.Background(), note, config.BasisContent)

	assert.Equal(t, StepFailed, result.Status)
	assert.Empty(t, store.upserted)
}

func TestUpsertVectorsFailsOnStoreError(t *testing.T) {
	store := &fakeStore{upsertErr: errors.New("index down")}
	svc := newTestService(&fakeEmbedder{enabled: true}, store, nil)

	note := &Note{ID: 1, UserID: 1, Content: "text"}
	result := svc.upsertVectors(context.Background(), note, config.BasisContent)

	assert.Equal(t, StepFailed, result.Status)
}

func TestRunAutoLinkCoversBothBasesOnCreate(t *testing.T) {
	linker := &fakeLinker{perPass: 2}
	svc := newTestService(&fakeEmbedder{enabled: true}, &fakeStore{}, linker)

	note := &Note{ID: 5, UserID: 2, Content: "c", Summary: strPtr("s")}
	result, created := svc.runAutoLink(context.Background(), note, 50)

	assert.Equal(t, StepOK, result.Status)
	assert.Equal(t, 4, created)
	assert.Equal(t, []string{config.BasisContent, config.BasisSummary}, linker.bases)
}

func TestRunAutoLinkLimitsToChangedBases(t *testing.T) {
	linker := &fakeLinker{perPass: 1}
	svc := newTestService(&fakeEmbedder{enabled: true}, &fakeStore{}, linker)

	note := &Note{ID: 5, UserID: 2, Content: "c", Summary: strPtr("s")}
	result, created := svc.runAutoLink(context.Background(), note, 50, config.BasisSummary)

	assert.Equal(t, StepOK, result.Status)
	assert.Equal(t, 1, created)
	assert.Equal(t, []string{config.BasisSummary}, linker.bases)
}

func TestRunAutoLinkSkippedWhenEmbeddingsDisabled(t *testing.T) {
	linker := &fakeLinker{perPass: 1}
	svc := newTestService(&fakeEmbedder{enabled: false}, &fakeStore{}, linker)

	note := &Note{ID: 5, UserID: 2, Content: "c"}
	result, created := svc.runAutoLink(context.Background(), note, 50)

	assert.Equal(t, StepSkipped, result.Status)
	assert.Zero(t, created)
	assert.Empty(t, linker.bases)
}

func TestEnrichTagsSkippedWhenUserProvidedTags(t *testing.T) {
	svc := newTestService(&fakeEmbedder{enabled: true}, &fakeStore{}, nil)

	note := &Note{ID: 1, UserID: 1, Content: "c", Tags: []string{"cooking"}}
	result := svc.enrichTags(context.Background(), note, nil)

	assert.Equal(t, StepSkipped, result.Status)
	assert.Equal(t, []string{"cooking"}, note.Tags)
}

func TestEnrichTagsSkippedWithoutSuggester(t *testing.T) {
	svc := newTestService(&fakeEmbedder{enabled: true}, &fakeStore{}, nil)

	note := &Note{ID: 1, UserID: 1, Content: "c"}
	result := svc.enrichTags(context.Background(), note, nil)

	assert.Equal(t, StepSkipped, result.Status)
}

func TestNoteLabel(t *testing.T) {
	tests := []struct {
		name string
		note Note
		want string
	}{
		{
			name: "title wins",
			note: Note{Title: strPtr("My Title"), Content: "something else"},
			want: "My Title",
		},
		{
			name: "content prefix without title",
			note: Note{Content: "short content"},
			want: "short content",
		},
		{
			name: "long content truncated",
			note: Note{Content: "aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaabbbbb"},
			want: "aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa...",
		},
		{
			name: "empty title falls back to content",
			note: Note{Title: strPtr(""), Content: "fallback"},
			want: "fallback",
		},
		{
			name: "blank note",
			note: Note{Content: "   "},
			want: "Untitled note",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.note.Label())
		})
	}
}
