package vector

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rec(noteID, userID int64, basis string, vec []float32) Record {
	return Record{
		ID:     NoteRecordID(noteID, basis),
		Vector: vec,
		Metadata: Metadata{
			NoteID: noteID,
			UserID: userID,
			Basis:  basis,
		},
	}
}

func TestNoteRecordID(t *testing.T) {
	assert.Equal(t, "note_42_content", NoteRecordID(42, "content"))
	assert.Equal(t, "note_7_summary", NoteRecordID(7, "summary"))
}

func TestFilterValidate(t *testing.T) {
	assert.Error(t, Filter{}.Validate())
	assert.Error(t, Filter{UserID: 1}.Validate())
	assert.Error(t, Filter{Basis: "content"}.Validate())
	assert.NoError(t, Filter{UserID: 1, Basis: "content"}.Validate())
}

func TestMemStoreSearchOrdering(t *testing.T) {
	ctx := context.Background()
	s := NewMemStore()

	require.NoError(t, s.Upsert(ctx, []Record{
		rec(1, 10, "content", []float32{1, 0, 0}),
		rec(2, 10, "content", []float32{0.9, 0.1, 0}),
		rec(3, 10, "content", []float32{0, 1, 0}),
	}))

	matches, err := s.Search(ctx, []float32{1, 0, 0}, Filter{UserID: 10, Basis: "content"}, 10)
	require.NoError(t, err)
	require.Len(t, matches, 3)

	assert.Equal(t, "note_1_content", matches[0].ID)
	assert.Equal(t, "note_2_content", matches[1].ID)
	assert.Equal(t, "note_3_content", matches[2].ID)
	assert.InDelta(t, 1.0, matches[0].Score, 1e-6)
	assert.Greater(t, matches[1].Score, matches[2].Score)
}

func TestMemStoreSearchFiltersUserAndBasis(t *testing.T) {
	ctx := context.Background()
	s := NewMemStore()

	require.NoError(t, s.Upsert(ctx, []Record{
		rec(1, 10, "content", []float32{1, 0}),
		rec(2, 99, "content", []float32{1, 0}),
		rec(3, 10, "summary", []float32{1, 0}),
	}))

	matches, err := s.Search(ctx, []float32{1, 0}, Filter{UserID: 10, Basis: "content"}, 10)
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, int64(1), matches[0].Metadata.NoteID)
}

func TestMemStoreSearchLimit(t *testing.T) {
	ctx := context.Background()
	s := NewMemStore()

	for i := int64(1); i <= 10; i++ {
		require.NoError(t, s.Upsert(ctx, []Record{rec(i, 1, "content", []float32{1, float32(i) * 0.01})}))
	}

	matches, err := s.Search(ctx, []float32{1, 0}, Filter{UserID: 1, Basis: "content"}, 3)
	require.NoError(t, err)
	assert.Len(t, matches, 3)
}

func TestMemStoreSearchRejectsInvalidFilter(t *testing.T) {
	s := NewMemStore()
	_, err := s.Search(context.Background(), []float32{1}, Filter{}, 5)
	assert.Error(t, err)
}

func TestMemStoreUpsertReplaces(t *testing.T) {
	ctx := context.Background()
	s := NewMemStore()

	require.NoError(t, s.Upsert(ctx, []Record{rec(1, 1, "content", []float32{1, 0})}))
	require.NoError(t, s.Upsert(ctx, []Record{rec(1, 1, "content", []float32{0, 1})}))

	assert.Equal(t, 1, s.Len())
	stored, ok := s.Get("note_1_content")
	require.True(t, ok)
	assert.Equal(t, []float32{0, 1}, stored.Vector)
}

func TestMemStoreDeleteByNote(t *testing.T) {
	ctx := context.Background()
	s := NewMemStore()

	require.NoError(t, s.Upsert(ctx, []Record{
		rec(1, 1, "content", []float32{1}),
		rec(1, 1, "summary", []float32{1}),
		rec(2, 1, "content", []float32{1}),
	}))

	require.NoError(t, s.DeleteByNote(ctx, 1))
	assert.Equal(t, 1, s.Len())

	_, ok := s.Get("note_2_content")
	assert.True(t, ok)
}

func TestCosineSimilarity(t *testing.T) {
	assert.InDelta(t, 1.0, cosineSimilarity([]float32{1, 0}, []float32{2, 0}), 1e-9)
	assert.InDelta(t, 0.0, cosineSimilarity([]float32{1, 0}, []float32{0, 1}), 1e-9)
	assert.Equal(t, 0.0, cosineSimilarity([]float32{1}, []float32{1, 2}))
	assert.Equal(t, 0.0, cosineSimilarity(nil, nil))
	assert.Equal(t, 0.0, cosineSimilarity([]float32{0, 0}, []float32{1, 1}))
}
