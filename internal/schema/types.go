package schema

import "golang.org/x/text/unicode/norm"

// ChildNodeSpec declares one auto-created child: a node that must exist
// at the named slot under every instance of the declaring type.
type ChildNodeSpec struct {
	// Name is the slot name of the child under its parent.
	Name string

	// Type is the node type name of the required child.
	Type string
}

// NodeType is a node type definition.
//
// Abstract types cannot be targets of a repair pass directly; they only
// contribute instances through their subtype closure.
type NodeType struct {
	// Name identifies the type, e.g. "acme.site:page".
	Name string

	// Abstract marks types that have no direct instances of their own.
	Abstract bool

	// SuperTypes lists the names of directly extended types.
	SuperTypes []string

	// ChildNodes lists the auto-created children in declaration order.
	ChildNodes []ChildNodeSpec
}

// ChildNode returns the auto-created child spec for a slot name, if the
// type declares one.
func (t *NodeType) ChildNode(name string) (ChildNodeSpec, bool) {
	name = Canonical(name)
	for _, c := range t.ChildNodes {
		if c.Name == name {
			return c, true
		}
	}
	return ChildNodeSpec{}, false
}

// Canonical returns the NFC-normalized form of a schema name.
// All names entering the registry go through this, so lookups against
// stored data are byte-comparable regardless of source encoding.
func Canonical(name string) string {
	return norm.NFC.String(name)
}
