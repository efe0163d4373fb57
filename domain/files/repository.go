package files

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

// Repository handles database operations for files.
type Repository struct {
	db    bun.IDB
	graph *graph.Repository
	log   *slog.Logger
}

func NewRepository(db bun.IDB, graphRepo *graph.Repository, log *slog.Logger) *Repository {
	return &Repository{
		db:    db,
		graph: graphRepo,
		log:   log.With(logger.Scope("files.repo")),
	}
}

// CreateWithNode inserts the file row and its graph node atomically.
func (r *Repository) CreateWithNode(ctx context.Context, file *File) (*graph.GraphNode, error) {
	tx, err := database.BeginSafeTx(ctx, r.db)
	if err != nil {
		return nil, apperror.ErrDatabase.WithInternal(err)
	}
	defer tx.Rollback()

	now := time.Now()
	file.CreatedAt = now
	file.UpdatedAt = now

	if _, err := tx.NewInsert().Model(file).Exec(ctx); err != nil {
		r.log.Error("failed to insert file", logger.Error(err))
		return nil, apperror.ErrDatabase.WithInternal(err)
	}

	node := &graph.GraphNode{
		UserID:   file.UserID,
		Label:    file.Filename,
		NodeType: graph.NodeTypeFile,
		Data: graph.NodeData{
			FileID: &file.ID,
		},
	}
	if err := r.graph.CreateNodeTx(ctx, tx, node); err != nil {
		return nil, err
	}

	file.GraphNodeID = &node.ID
	_, err = tx.NewUpdate().
		Model(file).
		Column("graph_node_id").
		Where("f.id = ?", file.ID).
		Exec(ctx)
	if err != nil {
		r.log.Error("failed to link file to graph node", logger.Error(err))
		return nil, apperror.ErrDatabase.WithInternal(err)
	}

	if err := tx.Commit(); err != nil {
		return nil, apperror.ErrDatabase.WithInternal(err)
	}
	return node, nil
}

// GetByID returns a file owned by userID.
func (r *Repository) GetByID(ctx context.Context, userID, fileID int64) (*File, error) {
	file := new(File)
	err := r.db.NewSelect().
		Model(file).
		Where("f.id = ?", fileID).
		Where("f.user_id = ?", userID).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.NewNotFound("file", fileID)
		}
		r.log.Error("failed to get file", slog.Int64("file_id", fileID), logger.Error(err))
		return nil, apperror.ErrDatabase.WithInternal(err)
	}
	return file, nil
}

// List returns all files owned by userID, newest first.
func (r *Repository) List(ctx context.Context, userID int64) ([]*File, error) {
	var result []*File
	err := r.db.NewSelect().
		Model(&result).
		Where("f.user_id = ?", userID).
		Order("f.created_at DESC").
		Scan(ctx)
	if err != nil {
		r.log.Error("failed to list files", logger.Error(err))
		return nil, apperror.ErrDatabase.WithInternal(err)
	}
	return result, nil
}

// Delete removes an owned file row.
func (r *Repository) Delete(ctx context.Context, userID, fileID int64) error {
	res, err := r.db.NewDelete().
		Model((*File)(nil)).
		Where("id = ?", fileID).
		Where("user_id = ?", userID).
		Exec(ctx)
	if err != nil {
		r.log.Error("failed to delete file", slog.Int64("file_id", fileID), logger.Error(err))
		return apperror.ErrDatabase.WithInternal(err)
	}

	affected, _ := res.RowsAffected()
	if affected == 0 {
		return apperror.NewNotFound("file", fileID)
	}
	return nil
}
