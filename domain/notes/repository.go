package notes

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"time"

	"github.com/uptrace/bun"

	"github.com/mindweave-labs/mindweave/domain/graph"
	"github.com/mindweave-labs/mindweave/internal/database"
	"github.com/mindweave-labs/mindweave/pkg/apperror"
	"github.com/mindweave-labs/mindweave/pkg/logger"
)

// Repository handles database operations for notes.
type Repository struct {
	db    bun.IDB
	graph *graph.Repository
	log   *slog.Logger
}

func NewRepository(db bun.IDB, graphRepo *graph.Repository, log *slog.Logger) *Repository {
	return &Repository{
		db:    db,
		graph: graphRepo,
		log:   log.With(logger.Scope("notes.repo")),
	}
}

// CreateWithNode inserts the note and its graph node in one transaction.
// Either both rows exist afterwards or neither does. The created node's ID
// is written back into note.GraphNodeID.
func (r *Repository) CreateWithNode(ctx context.Context, note *Note) (*graph.GraphNode, error) {
	tx, err := database.BeginSafeTx(ctx, r.db)
	if err != nil {
		return nil, apperror.ErrDatabase.WithInternal(err)
	}
	defer tx.Rollback()

	now := time.Now()
	note.CreatedAt = now
	note.UpdatedAt = now
	if note.Tags == nil {
		note.Tags = []string{}
	}

	if _, err := tx.NewInsert().Model(note).Exec(ctx); err != nil {
		r.log.Error("failed to insert note", logger.Error(err))
		return nil, apperror.ErrDatabase.WithInternal(err)
	}

	node := &graph.GraphNode{
		UserID:   note.UserID,
		Label:    note.Label(),
		NodeType: graph.NodeTypeNote,
		Data: graph.NodeData{
			NoteID:  &note.ID,
			Content: note.Content,
			Tags:    note.Tags,
		},
	}
	if err := r.graph.CreateNodeTx(ctx, tx, node); err != nil {
		return nil, err
	}

	note.GraphNodeID = &node.ID
	_, err = tx.NewUpdate().
		Model(note).
		Column("graph_node_id").
		Where("n.id = ?", note.ID).
		Exec(ctx)
	if err != nil {
		r.log.Error("failed to link note to graph node", logger.Error(err))
		return nil, apperror.ErrDatabase.WithInternal(err)
	}

	if err := tx.Commit(); err != nil {
		return nil, apperror.ErrDatabase.WithInternal(err)
	}
	return node, nil
}

// GetByID returns a note owned by userID.
func (r *Repository) GetByID(ctx context.Context, userID, noteID int64) (*Note, error) {
	note := new(Note)
	err := r.db.NewSelect().
		Model(note).
		Where("n.id = ?", noteID).
		Where("n.user_id = ?", userID).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.NewNotFound("note", noteID)
		}
		r.log.Error("failed to get note", slog.Int64("note_id", noteID), logger.Error(err))
		return nil, apperror.ErrDatabase.WithInternal(err)
	}
	return note, nil
}

// List returns all notes owned by userID, newest first.
func (r *Repository) List(ctx context.Context, userID int64) ([]*Note, error) {
	var result []*Note
	err := r.db.NewSelect().
		Model(&result).
		Where("n.user_id = ?", userID).
		Order("n.updated_at DESC").
		Scan(ctx)
	if err != nil {
		r.log.Error("failed to list notes", logger.Error(err))
		return nil, apperror.ErrDatabase.WithInternal(err)
	}
	return result, nil
}

// Update persists title, content, summary and tags for an owned note.
func (r *Repository) Update(ctx context.Context, note *Note) error {
	note.UpdatedAt = time.Now()

	res, err := r.db.NewUpdate().
		Model(note).
		Column("title", "content", "summary", "tags", "updated_at").
		Where("n.id = ?", note.ID).
		Where("n.user_id = ?", note.UserID).
		Exec(ctx)
	if err != nil {
		r.log.Error("failed to update note", slog.Int64("note_id", note.ID), logger.Error(err))
		return apperror.ErrDatabase.WithInternal(err)
	}

	affected, _ := res.RowsAffected()
	if affected == 0 {
		return apperror.NewNotFound("note", note.ID)
	}
	return nil
}

// UpdateTags persists only the tags column.
func (r *Repository) UpdateTags(ctx context.Context, userID, noteID int64, tags []string) error {
	_, err := r.db.NewUpdate().
		Model((*Note)(nil)).
		Set("tags = ?", tags).
		Set("updated_at = ?", time.Now()).
		Where("id = ?", noteID).
		Where("user_id = ?", userID).
		Exec(ctx)
	if err != nil {
		r.log.Error("failed to update note tags", slog.Int64("note_id", noteID), logger.Error(err))
		return apperror.ErrDatabase.WithInternal(err)
	}
	return nil
}

// DeleteWithNode removes the note and its graph node in one transaction.
// Edges fall away via the node's foreign key cascade. Vector cleanup stays
// outside: the relational delete is authoritative.
func (r *Repository) DeleteWithNode(ctx context.Context, userID, noteID int64, graphNodeID *int64) error {
	tx, err := database.BeginSafeTx(ctx, r.db)
	if err != nil {
		return apperror.ErrDatabase.WithInternal(err)
	}
	defer tx.Rollback()

	if graphNodeID != nil {
		_, err := tx.NewDelete().
			Model((*graph.GraphNode)(nil)).
			Where("id = ?", *graphNodeID).
			Where("user_id = ?", userID).
			Exec(ctx)
		if err != nil {
			r.log.Error("failed to delete graph node for note",
				slog.Int64("note_id", noteID), logger.Error(err))
			return apperror.ErrDatabase.WithInternal(err)
		}
	}

	res, err := tx.NewDelete().
		Model((*Note)(nil)).
		Where("id = ?", noteID).
		Where("user_id = ?", userID).
		Exec(ctx)
	if err != nil {
		r.log.Error("failed to delete note", slog.Int64("note_id", noteID), logger.Error(err))
		return apperror.ErrDatabase.WithInternal(err)
	}

	affected, _ := res.RowsAffected()
	if affected == 0 {
		return apperror.NewNotFound("note", noteID)
	}

	if err := tx.Commit(); err != nil {
		return apperror.ErrDatabase.WithInternal(err)
	}
	return nil
}

// GraphNodeIDForNote resolves a note to its graph node, scoped to the
// owner. The auto-link engine uses this to turn similarity matches into
// edge endpoints.
func (r *Repository) GraphNodeIDForNote(ctx context.Context, userID, noteID int64) (int64, error) {
	var nodeID sql.NullInt64
	err := r.db.NewSelect().
		Model((*Note)(nil)).
		Column("graph_node_id").
		Where("id = ?", noteID).
		Where("user_id = ?", userID).
		Scan(ctx, &nodeID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, apperror.NewNotFound("note", noteID)
		}
		return 0, apperror.ErrDatabase.WithInternal(err)
	}
	if !nodeID.Valid {
		return 0, apperror.NewNotFound("graph node for note", noteID)
	}
	return nodeID.Int64, nil
}

// ListNeedingReindex returns notes whose vector rows are missing or older
// than the note itself, up to limit. Used by the reconciliation job.
func (r *Repository) ListNeedingReindex(ctx context.Context, limit int) ([]*Note, error) {
	var result []*Note
	err := r.db.NewSelect().
		Model(&result).
		Where(`NOT EXISTS (
			SELECT 1 FROM kb.note_vectors v
			WHERE v.note_id = n.id AND v.updated_at >= n.updated_at
		)`).
		Order("n.updated_at").
		Limit(limit).
		Scan(ctx)
	if err != nil {
		r.log.Error("failed to list notes needing reindex", logger.Error(err))
		return nil, apperror.ErrDatabase.WithInternal(err)
	}
	return result, nil
}
