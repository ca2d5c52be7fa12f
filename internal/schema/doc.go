// Package schema models node types for the content repository.
//
// A node type declares the structure permitted for a class of content
// nodes: whether the type is abstract, which types it extends, and which
// child nodes must exist automatically under every instance (the
// auto-created children, an ordered slot-name -> child-type mapping).
//
// The Registry keeps node types in declaration order. Declaration order
// matters: subtype closures and repair output are deterministic because
// every enumeration walks the same order the types were registered in.
//
// Node types are authored in CUE files under a top-level "nodetypes"
// struct and loaded with LoadDir. All type names, slot names and child
// type references are NFC-normalized so that schema names compare
// canonically against stored data.
package schema
