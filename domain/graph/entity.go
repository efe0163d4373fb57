package graph

import (
	"time"

	"github.com/uptrace/bun"
)

// Node types.
const (
	NodeTypeNote = "note"
	NodeTypeFile = "file"
)

// Relationship types. The auto-link engine writes similar_content and
// similar_summary edges; manual edges default to related.
const (
	RelationshipRelated        = "related"
	RelationshipSimilarContent = "similar_content"
	RelationshipSimilarSummary = "similar_summary"
)

// NodeData is the typed payload stored on a graph node.
type NodeData struct {
	NoteID  *int64   `json:"note_id,omitempty"`
	FileID  *int64   `json:"file_id,omitempty"`
	Content string   `json:"content,omitempty"`
	Tags    []string `json:"tags,omitempty"`
}

// EdgeData is the typed payload stored on a graph edge. Auto-created edges
// record the similarity score and embedding basis that produced them.
type EdgeData struct {
	SimilarityScore *float64 `json:"similarity_score,omitempty"`
	Basis           string   `json:"basis,omitempty"`
}

// GraphNode represents a node in a user's knowledge graph.
type GraphNode struct {
	bun.BaseModel `bun:"table:graph_nodes,alias:gn"`

	ID       int64    `bun:"id,pk,autoincrement" json:"id"`
	UserID   int64    `bun:"user_id,notnull" json:"user_id"`
	Label    string   `bun:"label,notnull" json:"label"`
	NodeType string   `bun:"node_type,notnull" json:"node_type"`
	Data     NodeData `bun:"data,type:jsonb" json:"data"`
	PosX     *float64 `bun:"pos_x" json:"pos_x,omitempty"`
	PosY     *float64 `bun:"pos_y" json:"pos_y,omitempty"`

	CreatedAt time.Time `bun:"created_at,notnull,default:now()" json:"created_at"`
	UpdatedAt time.Time `bun:"updated_at,notnull,default:now()" json:"updated_at"`
}

// GraphEdge represents a directed edge between two graph nodes. The source
// is the node whose creation or update triggered the edge.
type GraphEdge struct {
	bun.BaseModel `bun:"table:graph_edges,alias:ge"`

	ID               int64    `bun:"id,pk,autoincrement" json:"id"`
	UserID           int64    `bun:"user_id,notnull" json:"user_id"`
	SourceNodeID     int64    `bun:"source_node_id,notnull" json:"source_node_id"`
	TargetNodeID     int64    `bun:"target_node_id,notnull" json:"target_node_id"`
	RelationshipType string   `bun:"relationship_type,notnull" json:"relationship_type"`
	Label            *string  `bun:"label" json:"label,omitempty"`
	Data             EdgeData `bun:"data,type:jsonb" json:"data"`

	CreatedAt time.Time `bun:"created_at,notnull,default:now()" json:"created_at"`
	UpdatedAt time.Time `bun:"updated_at,notnull,default:now()" json:"updated_at"`
}
