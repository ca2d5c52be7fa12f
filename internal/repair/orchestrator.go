package repair

import (
	"context"
	"log/slog"
)

// Orchestrator determines the set of node types to process and drives
// one reconciliation pass per type.
type Orchestrator struct {
	registry   TypeRegistry
	reconciler *Reconciler
	out        Sink
}

// NewOrchestrator wires an orchestrator from its collaborators.
// The sink should be the same one the reconciler reports on, so headers
// and results interleave in order.
func NewOrchestrator(registry TypeRegistry, reconciler *Reconciler, out Sink) *Orchestrator {
	return &Orchestrator{
		registry:   registry,
		reconciler: reconciler,
		out:        out,
	}
}

// Run repairs missing child nodes in a workspace.
//
// With a non-empty typeName only that type (plus its subtype closure) is
// processed, announced by a header naming the type. With an empty
// typeName every non-abstract registered type gets its own pass, after
// one generic header.
//
// An unknown explicit type aborts before any header or side effect with
// UnknownTypeError; callers map it to a non-zero exit. Results are
// reported through the sink; the returned Counters aggregate all passes
// of this invocation for callers that want to inspect them.
func (o *Orchestrator) Run(ctx context.Context, typeName, workspace string, dryRun bool) (Counters, error) {
	var total Counters

	if typeName != "" {
		nodeType, ok := o.registry.Lookup(typeName)
		if !ok {
			return total, &UnknownTypeError{Name: typeName}
		}

		o.out.Printf("Checking for missing child nodes of type %q in workspace %q.", nodeType.Name, workspace)
		return o.reconciler.Reconcile(ctx, nodeType.Name, workspace, dryRun)
	}

	o.out.Printf("Checking for missing child nodes in workspace %q.", workspace)

	for _, nodeType := range o.registry.Types() {
		if nodeType.Abstract {
			slog.Debug("skipping abstract node type", "type", nodeType.Name)
			continue
		}
		counters, err := o.reconciler.Reconcile(ctx, nodeType.Name, workspace, dryRun)
		total.Created += counters.Created
		total.Errors += counters.Errors
		if err != nil {
			return total, err
		}
	}

	return total, nil
}
