package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/amirkoklan/treemend/internal/node"
	"github.com/amirkoklan/treemend/internal/schema"
)

// maxAutoCreateDepth bounds recursive auto-creation of child subtrees.
// A node type whose auto-created children reach itself again would
// otherwise recurse without end.
const maxAutoCreateDepth = 32

// InsertRecord inserts a node record exactly as given.
// Used for seeding workspaces: imports, fixtures and the scenario
// harness. Repair itself creates nodes through CreateChild only.
func (s *Store) InsertRecord(ctx context.Context, rec node.Record) error {
	movedTo := sql.NullString{String: rec.MovedTo, Valid: rec.MovedTo != ""}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO nodes
		(identifier, path, parent_path, node_type, workspace, moved_to, removed)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, rec.Identifier, rec.Path, node.ParentPath(rec.Path), rec.Type, rec.Workspace, movedTo, rec.Removed)
	if err != nil {
		return fmt.Errorf("insert node %s@%s: %w", rec.Path, rec.Workspace, err)
	}

	return nil
}

// CreateChild creates a new node of the given type at the named slot
// under a parent, including the auto-created children the child's own
// type declares, transitively, in a single transaction.
//
// The top-level child is what callers asked for; the deeper levels are
// the creation machinery keeping new subtrees structurally complete, so
// a later repair pass finds nothing to do inside them.
//
// Fails with an ordinary error when the slot is already occupied (the
// (workspace, path) primary key) or when a declared child type is not
// registered. On error nothing is written.
func (s *Store) CreateChild(
	ctx context.Context,
	workspace string,
	parentPath string,
	name string,
	nodeType *schema.NodeType,
	registry *schema.Registry,
	ids node.IdentifierGenerator,
) (node.Record, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return node.Record{}, fmt.Errorf("begin create child: %w", err)
	}

	rec, err := createChildTx(ctx, tx, workspace, parentPath, name, nodeType, registry, ids, 0)
	if err != nil {
		tx.Rollback()
		return node.Record{}, err
	}

	if err := tx.Commit(); err != nil {
		return node.Record{}, fmt.Errorf("commit create child: %w", err)
	}

	return rec, nil
}

// createChildTx inserts one node and recurses into its declared children.
func createChildTx(
	ctx context.Context,
	tx *sql.Tx,
	workspace string,
	parentPath string,
	name string,
	nodeType *schema.NodeType,
	registry *schema.Registry,
	ids node.IdentifierGenerator,
	depth int,
) (node.Record, error) {
	if depth > maxAutoCreateDepth {
		return node.Record{}, fmt.Errorf("auto-created children exceed depth %d below %s", maxAutoCreateDepth, parentPath)
	}

	rec := node.Record{
		Identifier: ids.Generate(),
		Path:       node.ChildPath(parentPath, name),
		Type:       nodeType.Name,
		Workspace:  workspace,
	}

	_, err := tx.ExecContext(ctx, `
		INSERT INTO nodes
		(identifier, path, parent_path, node_type, workspace, moved_to, removed)
		VALUES (?, ?, ?, ?, ?, NULL, 0)
	`, rec.Identifier, rec.Path, parentPath, rec.Type, rec.Workspace)
	if err != nil {
		return node.Record{}, fmt.Errorf("insert node %s: %w", rec.Path, err)
	}

	for _, child := range nodeType.ChildNodes {
		childType, ok := registry.Lookup(child.Type)
		if !ok {
			return node.Record{}, fmt.Errorf("child %q of %s: unknown node type %s", child.Name, rec.Path, child.Type)
		}
		if _, err := createChildTx(ctx, tx, workspace, rec.Path, child.Name, childType, registry, ids, depth+1); err != nil {
			return node.Record{}, err
		}
	}

	return rec, nil
}
