package graph

// CreateNodeRequest is the payload for manually creating a node.
type CreateNodeRequest struct {
	Label    string   `json:"label"`
	NodeType string   `json:"node_type"`
	Data     NodeData `json:"data"`
	PosX     *float64 `json:"pos_x"`
	PosY     *float64 `json:"pos_y"`
}

// UpdateNodeRequest is the payload for updating a node. Nil fields are
// left unchanged.
type UpdateNodeRequest struct {
	Label *string  `json:"label"`
	PosX  *float64 `json:"pos_x"`
	PosY  *float64 `json:"pos_y"`
}

// CreateEdgeRequest is the payload for manually creating an edge.
type CreateEdgeRequest struct {
	SourceNodeID     int64   `json:"source_node_id"`
	TargetNodeID     int64   `json:"target_node_id"`
	RelationshipType string  `json:"relationship_type"`
	Label            *string `json:"label"`
}

// GraphResponse is the full graph for a user.
type GraphResponse struct {
	Nodes []*GraphNode `json:"nodes"`
	Edges []*GraphEdge `json:"edges"`
}
