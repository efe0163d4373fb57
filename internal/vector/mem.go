package vector

import (
	"context"
	"math"
	"sort"
	"sync"

	"github.com/mindweave-labs/mindweave/pkg/mathutil"
)

// MemStore is an in-memory Store used in tests.
type MemStore struct {
	mu      sync.RWMutex
	records map[string]Record
}

// NewMemStore creates an empty MemStore.
func NewMemStore() *MemStore {
	return &MemStore{records: make(map[string]Record)}
}

// Upsert inserts or replaces records by ID.
func (s *MemStore) Upsert(ctx context.Context, records []Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, rec := range records {
		s.records[rec.ID] = rec
	}
	return nil
}

// Delete removes records by ID.
func (s *MemStore) Delete(ctx context.Context, ids []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, id := range ids {
		delete(s.records, id)
	}
	return nil
}

// DeleteByNote removes all records belonging to a note.
func (s *MemStore) DeleteByNote(ctx context.Context, noteID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, rec := range s.records {
		if rec.Metadata.NoteID == noteID {
			delete(s.records, id)
		}
	}
	return nil
}

// Search returns the most similar records by cosine similarity.
func (s *MemStore) Search(ctx context.Context, query []float32, filter Filter, limit int) ([]Match, error) {
	if err := filter.Validate(); err != nil {
		return nil, err
	}
	limit = mathutil.ClampLimit(limit, 6, 100)

	s.mu.RLock()
	defer s.mu.RUnlock()

	var matches []Match
	for _, rec := range s.records {
		if rec.Metadata.UserID != filter.UserID || rec.Metadata.Basis != filter.Basis {
			continue
		}
		matches = append(matches, Match{
			ID:       rec.ID,
			Score:    mathutil.Clamp01(cosineSimilarity(query, rec.Vector)),
			Metadata: rec.Metadata,
		})
	}

	sort.Slice(matches, func(i, j int) bool { return matches[i].Score > matches[j].Score })
	if len(matches) > limit {
		matches = matches[:limit]
	}
	return matches, nil
}

// Len returns the number of stored records.
func (s *MemStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

// Get returns a stored record by ID.
func (s *MemStore) Get(id string) (Record, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.records[id]
	return rec, ok
}

func cosineSimilarity(a, b []float32) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
