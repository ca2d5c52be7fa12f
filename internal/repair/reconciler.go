package repair

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/amirkoklan/treemend/internal/node"
	"github.com/amirkoklan/treemend/internal/schema"
)

// TypeRegistry is the schema registry capability set the engine consumes.
// Implemented by schema.Registry.
type TypeRegistry interface {
	Lookup(name string) (*schema.NodeType, bool)
	Types() []*schema.NodeType
	SubtypesOf(name string) []*schema.NodeType
	EffectiveChildNodes(name string) []schema.ChildNodeSpec
}

// Querier returns the persisted node records eligible for repair.
// Implemented by store.Store.
type Querier interface {
	FindEligible(ctx context.Context, nodeType, workspace string) ([]node.Record, error)
}

// Counters accumulates the results of one reconciliation pass.
// Created counts nodes created, or would-be creations under dry run.
// Errors counts failed creation attempts.
//
// A Counters value lives for exactly one pass and is returned to the
// caller; it is never shared state.
type Counters struct {
	Created int
	Errors  int
}

// UnknownTypeError reports a requested node type that is not registered.
// This is a configuration error: the whole run aborts, nothing is
// skipped over.
type UnknownTypeError struct {
	Name string
}

func (e *UnknownTypeError) Error() string {
	return fmt.Sprintf("node type %q is not registered", e.Name)
}

// Reconciler runs reconciliation passes for single node types.
type Reconciler struct {
	registry TypeRegistry
	querier  Querier
	factory  node.Factory
	out      Sink
}

// NewReconciler wires a reconciliation engine from its collaborators.
func NewReconciler(registry TypeRegistry, querier Querier, factory node.Factory, out Sink) *Reconciler {
	return &Reconciler{
		registry: registry,
		querier:  querier,
		factory:  factory,
		out:      out,
	}
}

// Reconcile repairs all instances of one node type, and of its subtypes,
// in the given workspace.
//
// The pass walks the subtype closure of the type (the type itself
// first), queries the eligible records per closure member, materializes
// each record with full visibility, and diffs the node's children
// against the member type's effective auto-created children: inherited
// slots first, own declarations after, redeclarations overriding by
// slot name. Subtype instances satisfy the parent's auto-create
// contract as well as their own. Missing children are created, or only
// reported when dryRun is set.
//
// The eligible record list is read once per type at the start of that
// type's pass; nodes created during the pass are not re-scanned within
// the same run.
//
// Returns UnknownTypeError if the type name is not registered. A failed
// creation of one child never aborts the pass: it is counted, reported
// on the sink, and the pass continues. When either counter is non-zero
// a summary is emitted; a pass that found nothing stays silent.
func (r *Reconciler) Reconcile(ctx context.Context, typeName, workspace string, dryRun bool) (Counters, error) {
	var counters Counters

	if _, ok := r.registry.Lookup(typeName); !ok {
		return counters, &UnknownTypeError{Name: typeName}
	}

	for _, member := range r.registry.SubtypesOf(typeName) {
		slots := r.registry.EffectiveChildNodes(member.Name)
		if len(slots) == 0 {
			continue
		}
		if err := r.reconcileType(ctx, member, slots, workspace, dryRun, &counters); err != nil {
			return counters, err
		}
	}

	r.summarize(counters, dryRun)
	return counters, nil
}

// reconcileType repairs the instances of one closure member against its
// effective child slots.
func (r *Reconciler) reconcileType(ctx context.Context, nodeType *schema.NodeType, slots []schema.ChildNodeSpec, workspace string, dryRun bool, counters *Counters) error {
	records, err := r.querier.FindEligible(ctx, nodeType.Name, workspace)
	if err != nil {
		return fmt.Errorf("find nodes of type %s in workspace %s: %w", nodeType.Name, workspace, err)
	}

	slog.Debug("reconciling node type",
		"type", nodeType.Name,
		"workspace", workspace,
		"records", len(records),
		"slots", len(slots),
	)

	for _, rec := range records {
		rctx := node.FullAccessContext(rec.Workspace)

		live, err := r.factory.Materialize(ctx, rec, rctx)
		if err != nil {
			return fmt.Errorf("materialize node %s: %w", rec.Path, err)
		}
		if live == nil {
			// Not structurally addressable, cannot be repaired. Expected
			// noise in legacy data: no counter, no error line.
			slog.Debug("skipping unresolvable record", "path", rec.Path, "workspace", rec.Workspace)
			continue
		}

		for _, child := range slots {
			if err := r.reconcileSlot(ctx, live, child, dryRun, counters); err != nil {
				return err
			}
		}
	}

	return nil
}

// reconcileSlot checks one auto-created child slot on one live node.
func (r *Reconciler) reconcileSlot(ctx context.Context, live node.Node, child schema.ChildNodeSpec, dryRun bool, counters *Counters) error {
	present, err := live.HasChild(ctx, child.Name)
	if err != nil {
		return fmt.Errorf("look up child %q under %s: %w", child.Name, live.Path(), err)
	}
	if present {
		return nil
	}

	if dryRun {
		counters.Created++
		r.out.Printf("Missing child node %q under %q.", child.Name, live.Path())
		return nil
	}

	if err := r.createChild(ctx, live, child); err != nil {
		counters.Errors++
		r.out.Printf("Could not create child node %q under %q: %v.", child.Name, live.Path(), err)
		return nil
	}

	counters.Created++
	r.out.Printf("Created missing child node %q under %q.", child.Name, live.Path())
	return nil
}

// createChild resolves the declared child type and performs the
// creation. A non-nil return is the recoverable per-child failure.
func (r *Reconciler) createChild(ctx context.Context, live node.Node, child schema.ChildNodeSpec) error {
	childType, ok := r.registry.Lookup(child.Type)
	if !ok {
		return fmt.Errorf("unknown node type %s", child.Type)
	}
	return live.CreateChild(ctx, child.Name, childType)
}

// summarize emits the end-of-pass summary lines.
// Nothing is emitted when both counters are zero.
func (r *Reconciler) summarize(counters Counters, dryRun bool) {
	if counters.Created == 0 && counters.Errors == 0 {
		return
	}

	if dryRun {
		r.out.Printf("%d missing child nodes need to be created", counters.Created)
		return
	}

	r.out.Printf("Created %d new child nodes", counters.Created)
	if counters.Errors > 0 {
		r.out.Printf("%d child nodes could not be created", counters.Errors)
	}
}
