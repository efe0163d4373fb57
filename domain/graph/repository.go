package graph

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"time"

	"github.com/uptrace/bun"

	"github.com/mindweave-labs/mindweave/internal/database"
	"github.com/mindweave-labs/mindweave/pkg/apperror"
	"github.com/mindweave-labs/mindweave/pkg/logger"
)

// Repository handles database operations for graph nodes and edges.
// Every operation that touches an existing row verifies the caller owns it.
type Repository struct {
	db  bun.IDB
	log *slog.Logger
}

// NewRepository creates a new graph repository
func NewRepository(db bun.IDB, log *slog.Logger) *Repository {
	return &Repository{
		db:  db,
		log: log.With(logger.Scope("graph.repo")),
	}
}

// CreateNode inserts a node owned by node.UserID.
func (r *Repository) CreateNode(ctx context.Context, node *GraphNode) error {
	return r.CreateNodeTx(ctx, r.db, node)
}

// CreateNodeTx inserts a node inside the caller's transaction. The note
// lifecycle uses this to create the note row and its node atomically.
func (r *Repository) CreateNodeTx(ctx context.Context, idb bun.IDB, node *GraphNode) error {
	if node.NodeType == "" {
		node.NodeType = NodeTypeNote
	}
	now := time.Now()
	node.CreatedAt = now
	node.UpdatedAt = now

	_, err := idb.NewInsert().Model(node).Exec(ctx)
	if err != nil {
		r.log.Error("failed to create graph node", logger.Error(err))
		return apperror.ErrDatabase.WithInternal(err)
	}

	return nil
}

// GetNode returns a node by ID if it exists and belongs to userID.
func (r *Repository) GetNode(ctx context.Context, userID, nodeID int64) (*GraphNode, error) {
	node, err := r.getNodeAnyOwner(ctx, r.db, nodeID)
	if err != nil {
		return nil, err
	}
	if node.UserID != userID {
		return nil, apperror.NewNotOwner("graph node", nodeID)
	}
	return node, nil
}

func (r *Repository) getNodeAnyOwner(ctx context.Context, idb bun.IDB, nodeID int64) (*GraphNode, error) {
	node := new(GraphNode)
	err := idb.NewSelect().
		Model(node).
		Where("gn.id = ?", nodeID).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.NewNotFound("graph node", nodeID)
		}
		r.log.Error("failed to get graph node", slog.Int64("node_id", nodeID), logger.Error(err))
		return nil, apperror.ErrDatabase.WithInternal(err)
	}
	return node, nil
}

// ListNodes returns all nodes owned by userID.
func (r *Repository) ListNodes(ctx context.Context, userID int64) ([]*GraphNode, error) {
	var nodes []*GraphNode
	err := r.db.NewSelect().
		Model(&nodes).
		Where("gn.user_id = ?", userID).
		Order("gn.id").
		Scan(ctx)
	if err != nil {
		r.log.Error("failed to list graph nodes", logger.Error(err))
		return nil, apperror.ErrDatabase.WithInternal(err)
	}
	return nodes, nil
}

// UpdateNode applies label, data and position changes to an owned node.
func (r *Repository) UpdateNode(ctx context.Context, node *GraphNode) error {
	node.UpdatedAt = time.Now()

	res, err := r.db.NewUpdate().
		Model(node).
		Column("label", "data", "pos_x", "pos_y", "updated_at").
		Where("gn.id = ?", node.ID).
		Where("gn.user_id = ?", node.UserID).
		Exec(ctx)
	if err != nil {
		r.log.Error("failed to update graph node", slog.Int64("node_id", node.ID), logger.Error(err))
		return apperror.ErrDatabase.WithInternal(err)
	}

	affected, _ := res.RowsAffected()
	if affected == 0 {
		return apperror.NewNotFound("graph node", node.ID)
	}
	return nil
}

// UpdateNodeTx applies data changes inside the caller's transaction.
func (r *Repository) UpdateNodeTx(ctx context.Context, idb bun.IDB, node *GraphNode) error {
	node.UpdatedAt = time.Now()

	_, err := idb.NewUpdate().
		Model(node).
		Column("label", "data", "updated_at").
		Where("gn.id = ?", node.ID).
		Where("gn.user_id = ?", node.UserID).
		Exec(ctx)
	if err != nil {
		return apperror.ErrDatabase.WithInternal(err)
	}
	return nil
}

// DeleteNode removes an owned node. Edges referencing it are removed by
// the foreign key cascade.
func (r *Repository) DeleteNode(ctx context.Context, userID, nodeID int64) error {
	if _, err := r.GetNode(ctx, userID, nodeID); err != nil {
		return err
	}

	_, err := r.db.NewDelete().
		Model((*GraphNode)(nil)).
		Where("id = ?", nodeID).
		Exec(ctx)
	if err != nil {
		r.log.Error("failed to delete graph node", slog.Int64("node_id", nodeID), logger.Error(err))
		return apperror.ErrDatabase.WithInternal(err)
	}
	return nil
}

// CreateEdge validates both endpoints and inserts the edge in one
// transaction. Duplicate edges between the same pair are permitted; each
// call commits independently so one failed edge never rolls back others.
func (r *Repository) CreateEdge(ctx context.Context, edge *GraphEdge) error {
	tx, err := database.BeginSafeTx(ctx, r.db)
	if err != nil {
		return apperror.ErrDatabase.WithInternal(err)
	}
	defer tx.Rollback()

	src, err := r.getNodeAnyOwner(ctx, tx, edge.SourceNodeID)
	if err != nil {
		return err
	}
	dst, err := r.getNodeAnyOwner(ctx, tx, edge.TargetNodeID)
	if err != nil {
		return err
	}
	if err := validateEndpointNodes(edge.UserID, src, dst); err != nil {
		return err
	}

	if edge.RelationshipType == "" {
		edge.RelationshipType = RelationshipRelated
	}
	now := time.Now()
	edge.CreatedAt = now
	edge.UpdatedAt = now

	if _, err := tx.NewInsert().Model(edge).Exec(ctx); err != nil {
		r.log.Error("failed to create graph edge",
			slog.Int64("source_node_id", edge.SourceNodeID),
			slog.Int64("target_node_id", edge.TargetNodeID),
			logger.Error(err),
		)
		return apperror.ErrDatabase.WithInternal(err)
	}

	if err := tx.Commit(); err != nil {
		return apperror.ErrDatabase.WithInternal(err)
	}
	return nil
}

// validateEndpointNodes enforces the edge creation rules: both endpoints
// must exist, both must belong to the caller, and self-loops are rejected.
func validateEndpointNodes(userID int64, src, dst *GraphNode) error {
	if src.UserID != userID {
		return apperror.NewNotOwner("graph node", src.ID)
	}
	if dst.UserID != userID {
		return apperror.NewNotOwner("graph node", dst.ID)
	}
	if src.ID == dst.ID {
		return apperror.ErrBadRequest.WithMessage("self-referencing edge not allowed")
	}
	return nil
}

// GetEdge returns an edge by ID if it exists and belongs to userID.
func (r *Repository) GetEdge(ctx context.Context, userID, edgeID int64) (*GraphEdge, error) {
	edge := new(GraphEdge)
	err := r.db.NewSelect().
		Model(edge).
		Where("ge.id = ?", edgeID).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.NewNotFound("graph edge", edgeID)
		}
		r.log.Error("failed to get graph edge", slog.Int64("edge_id", edgeID), logger.Error(err))
		return nil, apperror.ErrDatabase.WithInternal(err)
	}
	if edge.UserID != userID {
		return nil, apperror.NewNotOwner("graph edge", edgeID)
	}
	return edge, nil
}

// ListEdges returns all edges owned by userID.
func (r *Repository) ListEdges(ctx context.Context, userID int64) ([]*GraphEdge, error) {
	var edges []*GraphEdge
	err := r.db.NewSelect().
		Model(&edges).
		Where("ge.user_id = ?", userID).
		Order("ge.id").
		Scan(ctx)
	if err != nil {
		r.log.Error("failed to list graph edges", logger.Error(err))
		return nil, apperror.ErrDatabase.WithInternal(err)
	}
	return edges, nil
}

// DeleteEdge removes an owned edge.
func (r *Repository) DeleteEdge(ctx context.Context, userID, edgeID int64) error {
	if _, err := r.GetEdge(ctx, userID, edgeID); err != nil {
		return err
	}

	_, err := r.db.NewDelete().
		Model((*GraphEdge)(nil)).
		Where("id = ?", edgeID).
		Exec(ctx)
	if err != nil {
		r.log.Error("failed to delete graph edge", slog.Int64("edge_id", edgeID), logger.Error(err))
		return apperror.ErrDatabase.WithInternal(err)
	}
	return nil
}

// CountEdgesForNode returns how many edges touch a node in either direction.
func (r *Repository) CountEdgesForNode(ctx context.Context, userID, nodeID int64) (int, error) {
	count, err := r.db.NewSelect().
		Model((*GraphEdge)(nil)).
		Where("user_id = ?", userID).
		Where("(source_node_id = ? OR target_node_id = ?)", nodeID, nodeID).
		Count(ctx)
	if err != nil {
		return 0, apperror.ErrDatabase.WithInternal(err)
	}
	return count, nil
}
