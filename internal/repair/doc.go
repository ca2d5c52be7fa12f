// Package repair implements the child-node consistency engine.
//
// The engine compares each persisted node's actual children against the
// auto-created children its node type mandates and creates what is
// missing (or reports it under dry run).
//
// ARCHITECTURE:
//
// Two pieces, composed top-down. The Orchestrator decides which node
// types to process - one explicit type or every non-abstract registered
// type - and drives one reconciliation pass per type. The Reconciler
// runs a single pass: subtype closure walk, eligibility query per type,
// materialization per record, slot diff per auto-created child.
//
// Execution is strictly single-threaded and synchronous. Child creation
// mutates shared tree structure, so creations must be ordered; there is
// nothing to parallelize without reintroducing duplicate-slot races.
//
// ERROR HANDLING follows three tiers:
//   - an unknown requested type is a configuration error: the pass
//     aborts immediately with UnknownTypeError and a non-zero exit
//   - a failure creating one child is local: counted, reported on the
//     sink, and the pass continues with the next slot/record/type
//   - a record that cannot be materialized is skipped silently; it is
//     expected noise in legacy data, not a defect to surface
//
// All results are observable only through the line-oriented Sink and
// the returned Counters; sink lines are the user interface, slog
// carries diagnostics.
package repair
