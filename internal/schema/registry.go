package schema

import "fmt"

// Registry holds node type definitions in declaration order.
//
// The order types were registered in is preserved and drives every
// enumeration: Types(), SubtypesOf() and therefore the order a repair
// pass visits types in. This keeps runs deterministic across restarts.
//
// Registry is not safe for concurrent mutation; build it once during
// startup and treat it as read-only afterwards.
type Registry struct {
	types []*NodeType
	index map[string]*NodeType
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{index: make(map[string]*NodeType)}
}

// Register adds a node type definition.
// The type name, supertype references and child slot declarations are
// NFC-normalized before insertion. Duplicate names are an error.
func (r *Registry) Register(t *NodeType) error {
	name := Canonical(t.Name)
	if name == "" {
		return fmt.Errorf("node type name must not be empty")
	}
	if _, exists := r.index[name]; exists {
		return fmt.Errorf("duplicate node type: %s", name)
	}

	normalized := &NodeType{
		Name:     name,
		Abstract: t.Abstract,
	}
	for _, s := range t.SuperTypes {
		normalized.SuperTypes = append(normalized.SuperTypes, Canonical(s))
	}
	for _, c := range t.ChildNodes {
		normalized.ChildNodes = append(normalized.ChildNodes, ChildNodeSpec{
			Name: Canonical(c.Name),
			Type: Canonical(c.Type),
		})
	}

	r.types = append(r.types, normalized)
	r.index[name] = normalized
	return nil
}

// Lookup returns the node type with the given name.
func (r *Registry) Lookup(name string) (*NodeType, bool) {
	t, ok := r.index[Canonical(name)]
	return t, ok
}

// Types returns all registered node types in declaration order.
// The returned slice is shared; callers must not mutate it.
func (r *Registry) Types() []*NodeType {
	return r.types
}

// EffectiveChildNodes returns the auto-created child slots an instance
// of the named type must carry: the slots inherited from its
// supertypes, transitively, followed by the type's own declarations.
//
// Inherited slots come first. A redeclared slot name overrides the
// inherited child type but keeps the inherited position, so the slot
// order instances are repaired in stays stable across redeclaration.
// Unregistered supertype references contribute nothing; they surface
// at creation time like any other unknown type.
//
// Returns nil if the name is not registered.
func (r *Registry) EffectiveChildNodes(name string) []ChildNodeSpec {
	root, ok := r.Lookup(name)
	if !ok {
		return nil
	}

	var slots []ChildNodeSpec
	position := map[string]int{}
	visited := map[string]bool{}

	var merge func(t *NodeType)
	merge = func(t *NodeType) {
		if visited[t.Name] {
			return
		}
		visited[t.Name] = true
		for _, super := range t.SuperTypes {
			if s, ok := r.index[super]; ok {
				merge(s)
			}
		}
		for _, c := range t.ChildNodes {
			if i, ok := position[c.Name]; ok {
				slots[i].Type = c.Type
				continue
			}
			position[c.Name] = len(slots)
			slots = append(slots, c)
		}
	}
	merge(root)

	return slots
}

// SubtypesOf returns the subtype closure of the named type: the type
// itself plus every registered type that extends it, transitively.
//
// The requested type comes first; the remaining members follow in
// declaration order. Abstract types are included - their instances are
// not expected, but membership keeps the closure complete.
//
// Returns nil if the name is not registered.
func (r *Registry) SubtypesOf(name string) []*NodeType {
	root, ok := r.Lookup(name)
	if !ok {
		return nil
	}

	member := map[string]bool{root.Name: true}

	// Supertype references may point at types declared later in the
	// file set, so iterate to a fixpoint rather than a single pass.
	for changed := true; changed; {
		changed = false
		for _, t := range r.types {
			if member[t.Name] {
				continue
			}
			for _, super := range t.SuperTypes {
				if member[super] {
					member[t.Name] = true
					changed = true
					break
				}
			}
		}
	}

	closure := []*NodeType{root}
	for _, t := range r.types {
		if t.Name != root.Name && member[t.Name] {
			closure = append(closure, t)
		}
	}
	return closure
}
