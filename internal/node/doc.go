// Package node defines the data contracts between the repair engine and
// the content repository.
//
// A Record is a node instance exactly as persisted, including the
// moved_to and removed markers the eligibility rules are built on. A
// Node is the live, addressable form of a record inside a resolution
// Context; it is created per record by a Factory, used for one
// diff-and-repair step and discarded.
//
// The interfaces here are deliberately narrow so the repair engine never
// touches persistence technology directly and can be unit tested with
// in-memory fakes.
package node
