package node

import (
	"context"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/amirkoklan/treemend/internal/schema"
)

// Record is a persisted node instance.
type Record struct {
	// Identifier is the workspace-independent node identity (a UUID).
	Identifier string

	// Path is the hierarchical position, e.g. "/sites/home/main".
	// The repository root is "/".
	Path string

	// Type is the node type name.
	Type string

	// Workspace names the content partition owning this record.
	Workspace string

	// MovedTo holds the identifier of the move target when this record
	// is a historical shadow left behind by a move. Empty otherwise.
	MovedTo string

	// Removed marks the record as soft-deleted.
	Removed bool
}

// Eligible reports whether the record takes part in structural repair.
//
// Shadow records produced purely by a move are excluded; a record that
// is merely marked removed without being a move shadow stays eligible.
// This asymmetry is intentional: move shadows are not real content
// states, while removed nodes may still need their children checked
// before permanent cleanup.
func (r Record) Eligible() bool {
	return r.MovedTo == "" || !r.Removed
}

// Context carries the workspace and visibility configuration a record is
// resolved under.
//
// Repair passes always resolve with full visibility so the pass sees the
// complete structural truth, not the subset an end user would see.
type Context struct {
	Workspace                string
	InvisibleContentShown    bool
	InaccessibleContentShown bool
}

// FullAccessContext returns a resolution context for the given workspace
// with all visibility restrictions lifted.
func FullAccessContext(workspace string) Context {
	return Context{
		Workspace:                workspace,
		InvisibleContentShown:    true,
		InaccessibleContentShown: true,
	}
}

// Node is the live, addressable form of a Record.
type Node interface {
	// Path returns the hierarchical position of the node.
	Path() string

	// HasChild reports whether a child exists at the given slot name.
	HasChild(ctx context.Context, name string) (bool, error)

	// CreateChild creates a new child of the given type at the given
	// slot name. A non-nil error is the recoverable per-child failure
	// case: callers count and report it, then continue.
	CreateChild(ctx context.Context, name string, nodeType *schema.NodeType) error
}

// Factory materializes persisted records into live nodes.
type Factory interface {
	// Materialize resolves a record inside a resolution context.
	//
	// Returns (nil, nil) when the record cannot be resolved into a
	// usable node (orphaned or otherwise structurally inconsistent
	// state). Such records are skipped by callers, not treated as
	// errors. A non-nil error signals an infrastructure failure.
	Materialize(ctx context.Context, rec Record, rctx Context) (Node, error)
}

// ChildPath joins a parent path and a child slot name.
// The slot name is NFC-normalized so paths built from schema names match
// stored paths byte for byte.
func ChildPath(parent, name string) string {
	name = norm.NFC.String(name)
	if parent == "/" || parent == "" {
		return "/" + name
	}
	return parent + "/" + name
}

// ParentPath returns the parent of a path, or "/" for top-level nodes.
// The root path has no parent; ParentPath("/") returns "".
func ParentPath(path string) string {
	if path == "/" || path == "" {
		return ""
	}
	idx := strings.LastIndex(path, "/")
	if idx <= 0 {
		return "/"
	}
	return path[:idx]
}
