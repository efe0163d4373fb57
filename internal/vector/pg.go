package vector

import (
	"context"
	"log/slog"
	"strings"

	"github.com/uptrace/bun"

	"github.com/mindweave-labs/mindweave/pkg/apperror"
	"github.com/mindweave-labs/mindweave/pkg/logger"
	"github.com/mindweave-labs/mindweave/pkg/mathutil"
	"github.com/mindweave-labs/mindweave/pkg/metrics"
	"github.com/mindweave-labs/mindweave/pkg/pgutils"
)

// PgStore is the pgvector-backed Store over kb.note_vectors.
type PgStore struct {
	db  bun.IDB
	log *slog.Logger
}

// NewPgStore creates a PgStore.
func NewPgStore(db bun.IDB, log *slog.Logger) *PgStore {
	return &PgStore{
		db:  db,
		log: log.With(logger.Scope("vector.pg")),
	}
}

// Upsert inserts or replaces records by ID.
func (s *PgStore) Upsert(ctx context.Context, records []Record) error {
	if len(records) == 0 {
		return nil
	}

	query := `
		INSERT INTO kb.note_vectors (id, note_id, user_id, basis, title, content, embedding, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?::vector, now())
		ON CONFLICT (id) DO UPDATE SET
			title = EXCLUDED.title,
			content = EXCLUDED.content,
			embedding = EXCLUDED.embedding,
			updated_at = now()
	`

	for _, rec := range records {
		if len(rec.Vector) == 0 {
			return apperror.ErrBadRequest.WithMessage("record has no embedding")
		}

		_, err := s.db.ExecContext(ctx, query,
			rec.ID,
			rec.Metadata.NoteID,
			rec.Metadata.UserID,
			rec.Metadata.Basis,
			rec.Metadata.Title,
			rec.Text,
			pgutils.FormatVector(rec.Vector),
		)
		if err != nil {
			s.log.Error("vector upsert failed",
				slog.String("id", rec.ID),
				logger.Error(err),
			)
			return apperror.ErrDatabase.WithInternal(err)
		}
		metrics.VectorUpserts.WithLabelValues(rec.Metadata.Basis).Inc()
	}

	return nil
}

// Delete removes records by ID.
func (s *PgStore) Delete(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}

	_, err := s.db.NewDelete().
		Table("kb.note_vectors").
		Where("id IN (?)", bun.In(ids)).
		Exec(ctx)
	if err != nil {
		s.log.Error("vector delete failed",
			slog.String("ids", strings.Join(ids, ",")),
			logger.Error(err),
		)
		return apperror.ErrDatabase.WithInternal(err)
	}

	return nil
}

// DeleteByNote removes all records belonging to a note.
func (s *PgStore) DeleteByNote(ctx context.Context, noteID int64) error {
	_, err := s.db.NewDelete().
		Table("kb.note_vectors").
		Where("note_id = ?", noteID).
		Exec(ctx)
	if err != nil {
		s.log.Error("vector delete by note failed",
			slog.Int64("note_id", noteID),
			logger.Error(err),
		)
		return apperror.ErrDatabase.WithInternal(err)
	}

	return nil
}

// Search returns up to limit records most similar to the query vector.
func (s *PgStore) Search(ctx context.Context, query []float32, filter Filter, limit int) ([]Match, error) {
	if len(query) == 0 {
		return nil, apperror.ErrBadRequest.WithMessage("query vector required")
	}
	if err := filter.Validate(); err != nil {
		return nil, apperror.ErrBadRequest.WithInternal(err)
	}

	limit = mathutil.ClampLimit(limit, 6, 100)
	vectorStr := pgutils.FormatVector(query)

	// Cosine distance: lower is better, convert to similarity score (1 - distance)
	sql := `
		SELECT v.id, v.note_id, v.user_id, v.basis, COALESCE(v.title, ''),
			   (1 - (v.embedding <=> ?::vector)) AS score
		FROM kb.note_vectors v
		WHERE v.user_id = ?
		  AND v.basis = ?
		ORDER BY v.embedding <=> ?::vector
		LIMIT ?
	`

	rows, err := s.db.QueryContext(ctx, sql, vectorStr, filter.UserID, filter.Basis, vectorStr, limit)
	if err != nil {
		s.log.Error("vector search failed", logger.Error(err))
		metrics.VectorSearches.WithLabelValues(metrics.OutcomeFailed).Inc()
		return nil, apperror.ErrIndexUnavailable.WithInternal(err)
	}
	defer rows.Close()

	var matches []Match
	for rows.Next() {
		var m Match
		if err := rows.Scan(&m.ID, &m.Metadata.NoteID, &m.Metadata.UserID, &m.Metadata.Basis, &m.Metadata.Title, &m.Score); err != nil {
			s.log.Error("vector search row scan failed", logger.Error(err))
			metrics.VectorSearches.WithLabelValues(metrics.OutcomeFailed).Inc()
			return nil, apperror.ErrDatabase.WithInternal(err)
		}
		m.Score = mathutil.Clamp01(m.Score)
		matches = append(matches, m)
	}

	if err := rows.Err(); err != nil {
		metrics.VectorSearches.WithLabelValues(metrics.OutcomeFailed).Inc()
		return nil, apperror.ErrDatabase.WithInternal(err)
	}

	metrics.VectorSearches.WithLabelValues(metrics.OutcomeOK).Inc()
	return matches, nil
}
