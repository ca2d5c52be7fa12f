package store

import (
	"context"
	"log/slog"

	"github.com/amirkoklan/treemend/internal/node"
	"github.com/amirkoklan/treemend/internal/schema"
)

// Factory materializes persisted records into store-backed live nodes.
// It implements node.Factory.
type Factory struct {
	store    *Store
	registry *schema.Registry
	ids      node.IdentifierGenerator
}

// NewFactory creates a materialization factory.
// The registry resolves child types during creation; the generator
// supplies identifiers for newly created nodes.
func NewFactory(s *Store, registry *schema.Registry, ids node.IdentifierGenerator) *Factory {
	return &Factory{store: s, registry: registry, ids: ids}
}

// Materialize resolves a record into a live node inside the given
// resolution context.
//
// Returns (nil, nil) for records that are not structurally addressable:
// a record whose workspace does not match the context, or a non-root
// record whose parent path has no row in the workspace (an orphan).
// Such records are expected noise in legacy data and are skipped by
// callers, never surfaced as errors.
func (f *Factory) Materialize(ctx context.Context, rec node.Record, rctx node.Context) (node.Node, error) {
	if rec.Workspace != rctx.Workspace {
		slog.Debug("record not materializable: workspace mismatch",
			"path", rec.Path,
			"record_workspace", rec.Workspace,
			"context_workspace", rctx.Workspace,
		)
		return nil, nil
	}

	if parent := node.ParentPath(rec.Path); parent != "" {
		ok, err := f.store.PathExists(ctx, rctx.Workspace, parent)
		if err != nil {
			return nil, err
		}
		if !ok {
			slog.Debug("record not materializable: orphaned",
				"path", rec.Path,
				"workspace", rctx.Workspace,
			)
			return nil, nil
		}
	}

	return &liveNode{factory: f, rec: rec, rctx: rctx}, nil
}

// liveNode is the resolved, addressable form of a record.
// Created per record, used for one diff-and-repair step, discarded.
type liveNode struct {
	factory *Factory
	rec     node.Record
	rctx    node.Context
}

func (n *liveNode) Path() string {
	return n.rec.Path
}

func (n *liveNode) HasChild(ctx context.Context, name string) (bool, error) {
	return n.factory.store.HasChild(ctx, n.rctx.Workspace, n.rec.Path, name)
}

func (n *liveNode) CreateChild(ctx context.Context, name string, nodeType *schema.NodeType) error {
	_, err := n.factory.store.CreateChild(ctx, n.rctx.Workspace, n.rec.Path, name, nodeType, n.factory.registry, n.factory.ids)
	return err
}
