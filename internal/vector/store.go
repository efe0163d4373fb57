// Package vector provides the embedding index used for similarity search.
//
// The relational tables remain the source of truth; records here can be
// rebuilt from notes at any time. Every read and write is scoped to one
// user and one embedding basis.
package vector

import (
	"context"
	"fmt"
)

// Record is a stored embedding with its payload.
type Record struct {
	// ID identifies the record, e.g. "note_42_content".
	ID string

	// Vector is the embedding.
	Vector []float32

	// Text is the source text the embedding was computed from.
	Text string

	Metadata Metadata
}

// Metadata is the payload attached to every record.
type Metadata struct {
	NoteID int64  `json:"note_id"`
	UserID int64  `json:"user_id"`
	Basis  string `json:"basis"`
	Title  string `json:"title,omitempty"`
}

// Filter scopes a search. UserID and Basis are mandatory; searches never
// cross user or basis boundaries.
type Filter struct {
	UserID int64
	Basis  string
}

// Validate reports whether the filter is usable.
func (f Filter) Validate() error {
	if f.UserID == 0 {
		return fmt.Errorf("vector: filter requires a user id")
	}
	if f.Basis == "" {
		return fmt.Errorf("vector: filter requires an embedding basis")
	}
	return nil
}

// Match is a search hit.
type Match struct {
	ID       string
	Score    float64
	Metadata Metadata
}

// NoteRecordID builds the canonical record ID for a note's embedding.
func NoteRecordID(noteID int64, basis string) string {
	return fmt.Sprintf("note_%d_%s", noteID, basis)
}

// Store is the embedding index.
type Store interface {
	// Upsert inserts or replaces records by ID.
	Upsert(ctx context.Context, records []Record) error

	// Delete removes records by ID. Missing IDs are not an error.
	Delete(ctx context.Context, ids []string) error

	// DeleteByNote removes all records belonging to a note.
	DeleteByNote(ctx context.Context, noteID int64) error

	// Search returns up to limit records most similar to the query vector,
	// restricted by filter, ordered by descending score.
	Search(ctx context.Context, query []float32, filter Filter, limit int) ([]Match, error)
}
