package files

import (
	"time"

	"github.com/uptrace/bun"
)

// File is an uploaded object. Like a note, every file gets a graph node
// so it can participate in the knowledge graph.
type File struct {
	bun.BaseModel `bun:"table:files,alias:f"`

	ID          int64  `bun:"id,pk,autoincrement" json:"id"`
	UserID      int64  `bun:"user_id,notnull" json:"user_id"`
	Filename    string `bun:"filename,notnull" json:"filename"`
	ObjectKey   string `bun:"object_key,notnull" json:"-"`
	ContentType string `bun:"content_type,notnull" json:"content_type"`
	SizeBytes   int64  `bun:"size_bytes,notnull" json:"size_bytes"`
	GraphNodeID *int64 `bun:"graph_node_id" json:"graph_node_id,omitempty"`

	CreatedAt time.Time `bun:"created_at,notnull,default:now()" json:"created_at"`
	UpdatedAt time.Time `bun:"updated_at,notnull,default:now()" json:"updated_at"`
}
