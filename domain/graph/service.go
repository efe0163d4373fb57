package graph

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"

	"github.com/mindweave-labs/mindweave/pkg/apperror"
	"github.com/mindweave-labs/mindweave/pkg/logger"
	"github.com/mindweave-labs/mindweave/pkg/tracing"
)

// Service implements graph business logic on top of the repository.
type Service struct {
	repo *Repository
	log  *slog.Logger
}

// NewService creates a new graph service
func NewService(repo *Repository, log *slog.Logger) *Service {
	return &Service{
		repo: repo,
		log:  log.With(logger.Scope("graph.service")),
	}
}

// GetGraph returns all nodes and edges owned by userID.
func (s *Service) GetGraph(ctx context.Context, userID int64) (*GraphResponse, error) {
	ctx, span := tracing.Start(ctx, "graph.get_graph",
		attribute.Int64("mindweave.user.id", userID),
	)
	defer span.End()

	nodes, err := s.repo.ListNodes(ctx, userID)
	if err != nil {
		return nil, err
	}
	edges, err := s.repo.ListEdges(ctx, userID)
	if err != nil {
		return nil, err
	}

	if nodes == nil {
		nodes = []*GraphNode{}
	}
	if edges == nil {
		edges = []*GraphEdge{}
	}

	return &GraphResponse{Nodes: nodes, Edges: edges}, nil
}

// GetNode returns a single owned node.
func (s *Service) GetNode(ctx context.Context, userID, nodeID int64) (*GraphNode, error) {
	return s.repo.GetNode(ctx, userID, nodeID)
}

// CreateNode creates a free-standing node for the user.
func (s *Service) CreateNode(ctx context.Context, userID int64, req CreateNodeRequest) (*GraphNode, error) {
	if req.Label == "" {
		return nil, apperror.ErrValidation.WithMessage("label is required")
	}

	node := &GraphNode{
		UserID:   userID,
		Label:    req.Label,
		NodeType: req.NodeType,
		Data:     req.Data,
		PosX:     req.PosX,
		PosY:     req.PosY,
	}
	if err := s.repo.CreateNode(ctx, node); err != nil {
		return nil, err
	}
	return node, nil
}

// UpdateNode applies a partial update to an owned node.
func (s *Service) UpdateNode(ctx context.Context, userID, nodeID int64, req UpdateNodeRequest) (*GraphNode, error) {
	node, err := s.repo.GetNode(ctx, userID, nodeID)
	if err != nil {
		return nil, err
	}

	if req.Label != nil {
		node.Label = *req.Label
	}
	if req.PosX != nil {
		node.PosX = req.PosX
	}
	if req.PosY != nil {
		node.PosY = req.PosY
	}

	if err := s.repo.UpdateNode(ctx, node); err != nil {
		return nil, err
	}
	return node, nil
}

// DeleteNode removes an owned node and, via cascade, its edges.
func (s *Service) DeleteNode(ctx context.Context, userID, nodeID int64) error {
	return s.repo.DeleteNode(ctx, userID, nodeID)
}

// CreateEdge creates a manual edge between two owned nodes.
func (s *Service) CreateEdge(ctx context.Context, userID int64, req CreateEdgeRequest) (*GraphEdge, error) {
	ctx, span := tracing.Start(ctx, "graph.create_edge",
		attribute.Int64("mindweave.node.source", req.SourceNodeID),
		attribute.Int64("mindweave.node.target", req.TargetNodeID),
	)
	defer span.End()

	if req.SourceNodeID == 0 || req.TargetNodeID == 0 {
		return nil, apperror.ErrValidation.WithMessage("source_node_id and target_node_id are required")
	}

	edge := &GraphEdge{
		UserID:           userID,
		SourceNodeID:     req.SourceNodeID,
		TargetNodeID:     req.TargetNodeID,
		RelationshipType: req.RelationshipType,
		Label:            req.Label,
	}
	if err := s.repo.CreateEdge(ctx, edge); err != nil {
		return nil, err
	}
	return edge, nil
}

// ListEdges returns all edges owned by userID.
func (s *Service) ListEdges(ctx context.Context, userID int64) ([]*GraphEdge, error) {
	return s.repo.ListEdges(ctx, userID)
}

// DeleteEdge removes an owned edge.
func (s *Service) DeleteEdge(ctx context.Context, userID, edgeID int64) error {
	return s.repo.DeleteEdge(ctx, userID, edgeID)
}
