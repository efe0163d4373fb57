package rag

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mindweave-labs/mindweave/domain/notes"
	"github.com/mindweave-labs/mindweave/internal/vector"
	"github.com/mindweave-labs/mindweave/pkg/apperror"
)

type fakeEmbedder struct {
	enabled bool
	vec     []float32
	err     error
}

func (f *fakeEmbedder) IsEnabled() bool { return f.enabled }

func (f *fakeEmbedder) EmbedQuery(context.Context, string) ([]float32, error) {
	return f.vec, f.err
}

type fakeStore struct {
	matches    []vector.Match
	err        error
	lastFilter vector.Filter
	lastLimit  int
}

func (f *fakeStore) Upsert(context.Context, []vector.Record) error { return nil }
func (f *fakeStore) Delete(context.Context, []string) error        { return nil }
func (f *fakeStore) DeleteByNote(context.Context, int64) error     { return nil }

func (f *fakeStore) Search(_ context.Context, _ []float32, filter vector.Filter, limit int) ([]vector.Match, error) {
	f.lastFilter = filter
	f.lastLimit = limit
	return f.matches, f.err
}

type fakeFetcher struct {
	notes map[int64]*notes.Note
}

func (f *fakeFetcher) GetByID(_ context.Context, _, noteID int64) (*notes.Note, error) {
	n, ok := f.notes[noteID]
	if !ok {
		return nil, apperror.NewNotFound("note", noteID)
	}
	return n, nil
}

type fakeProvider struct {
	reply      string
	err        error
	configured bool
	lastPrompt string
}

func (f *fakeProvider) Complete(_ context.Context, prompt string) (string, error) {
	f.lastPrompt = prompt
	return f.reply, f.err
}

func (f *fakeProvider) IsConfigured() bool { return f.configured }

func strPtr(s string) *string { return &s }

func match(noteID int64, score float64, title string) vector.Match {
	return vector.Match{
		ID:    vector.NoteRecordID(noteID, "content"),
		Score: score,
		Metadata: vector.Metadata{
			NoteID: noteID,
			UserID: 1,
			Basis:  "content",
			Title:  title,
		},
	}
}

func TestAskAnswersWithSources(t *testing.T) {
	store := &fakeStore{matches: []vector.Match{
		match(10, 0.92, "Watering"),
		match(11, 0.81, "Soil"),
	}}
	fetcher := &fakeFetcher{notes: map[int64]*notes.Note{
		10: {ID: 10, UserID: 1, Title: strPtr("Watering"), Content: "Water tomatoes in the morning."},
		11: {ID: 11, UserID: 1, Title: strPtr("Soil"), Content: "Tomatoes like slightly acidic soil."},
	}}
	provider := &fakeProvider{configured: true, reply: "Water them in the morning."}

	svc := NewService(&fakeEmbedder{enabled: true, vec: []float32{1, 0}}, store, fetcher, provider, slog.Default())

	resp, err := svc.Ask(context.Background(), 1, AskRequest{Question: "When should I water tomatoes?"})
	require.NoError(t, err)

	assert.Equal(t, "Water them in the morning.", resp.Answer)
	require.Len(t, resp.Sources, 2)
	assert.Equal(t, int64(10), resp.Sources[0].NoteID)
	assert.Equal(t, 0.92, resp.Sources[0].Score)

	assert.Equal(t, int64(1), store.lastFilter.UserID)
	assert.Equal(t, "content", store.lastFilter.Basis)
	assert.Equal(t, retrievalTopK, store.lastLimit)
	assert.Contains(t, provider.lastPrompt, "Water tomatoes in the morning.")
	assert.Contains(t, provider.lastPrompt, "When should I water tomatoes?")
}

func TestAskEmptyQuestion(t *testing.T) {
	svc := NewService(&fakeEmbedder{enabled: true}, &fakeStore{}, &fakeFetcher{}, &fakeProvider{configured: true}, slog.Default())

	_, err := svc.Ask(context.Background(), 1, AskRequest{Question: "  "})
	assert.True(t, apperror.ErrValidation.Is(err))
}

func TestAskGracefulWhenProviderUnconfigured(t *testing.T) {
	svc := NewService(&fakeEmbedder{enabled: true}, &fakeStore{}, &fakeFetcher{}, &fakeProvider{configured: false}, slog.Default())

	resp, err := svc.Ask(context.Background(), 1, AskRequest{Question: "anything"})
	require.NoError(t, err)
	assert.Empty(t, resp.Answer)
	assert.Empty(t, resp.Sources)
}

func TestAskGracefulWhenEmbeddingsDisabled(t *testing.T) {
	svc := NewService(&fakeEmbedder{enabled: false}, &fakeStore{}, &fakeFetcher{}, &fakeProvider{configured: true}, slog.Default())

	resp, err := svc.Ask(context.Background(), 1, AskRequest{Question: "anything"})
	require.NoError(t, err)
	assert.Empty(t, resp.Answer)
}

func TestAskNoMatches(t *testing.T) {
	provider := &fakeProvider{configured: true, reply: "should not be used"}
	svc := NewService(&fakeEmbedder{enabled: true, vec: []float32{1}}, &fakeStore{}, &fakeFetcher{}, provider, slog.Default())

	resp, err := svc.Ask(context.Background(), 1, AskRequest{Question: "anything"})
	require.NoError(t, err)
	assert.Empty(t, resp.Answer)
	assert.Empty(t, provider.lastPrompt)
}

func TestAskDropsVanishedNotes(t *testing.T) {
	store := &fakeStore{matches: []vector.Match{
		match(10, 0.9, "Gone"),
		match(11, 0.8, "Here"),
	}}
	fetcher := &fakeFetcher{notes: map[int64]*notes.Note{
		11: {ID: 11, UserID: 1, Content: "still here"},
	}}
	provider := &fakeProvider{configured: true, reply: "answer"}

	svc := NewService(&fakeEmbedder{enabled: true, vec: []float32{1}}, store, fetcher, provider, slog.Default())

	resp, err := svc.Ask(context.Background(), 1, AskRequest{Question: "q"})
	require.NoError(t, err)
	require.Len(t, resp.Sources, 1)
	assert.Equal(t, int64(11), resp.Sources[0].NoteID)
}

func TestAskSearchFailure(t *testing.T) {
	store := &fakeStore{err: apperror.ErrIndexUnavailable.WithInternal(errors.New("down"))}
	svc := NewService(&fakeEmbedder{enabled: true, vec: []float32{1}}, store, &fakeFetcher{}, &fakeProvider{configured: true}, slog.Default())

	_, err := svc.Ask(context.Background(), 1, AskRequest{Question: "q"})
	assert.True(t, apperror.ErrIndexUnavailable.Is(err))
}
