package notes

import (
	"strings"
	"time"

	"github.com/uptrace/bun"
)

// Note is a user's note. Every note is paired with a graph node created in
// the same transaction; GraphNodeID is only nil for rows mid-creation.
type Note struct {
	bun.BaseModel `bun:"table:notes,alias:n"`

	ID          int64    `bun:"id,pk,autoincrement" json:"id"`
	UserID      int64    `bun:"user_id,notnull" json:"user_id"`
	Title       *string  `bun:"title" json:"title,omitempty"`
	Content     string   `bun:"content,notnull" json:"content"`
	Summary     *string  `bun:"summary" json:"summary,omitempty"`
	Tags        []string `bun:"tags,type:jsonb" json:"tags"`
	GraphNodeID *int64   `bun:"graph_node_id" json:"graph_node_id,omitempty"`

	CreatedAt time.Time `bun:"created_at,notnull,default:now()" json:"created_at"`
	UpdatedAt time.Time `bun:"updated_at,notnull,default:now()" json:"updated_at"`
}

// SummaryText returns the summary or "" when unset.
func (n *Note) SummaryText() string {
	if n.Summary == nil {
		return ""
	}
	return *n.Summary
}

// Label returns the display label for the note's graph node: the title
// when present, otherwise a content prefix.
func (n *Note) Label() string {
	if n.Title != nil && *n.Title != "" {
		return *n.Title
	}
	content := strings.TrimSpace(n.Content)
	if content == "" {
		return "Untitled note"
	}
	const max = 50
	if len(content) > max {
		return content[:max] + "..."
	}
	return content
}
