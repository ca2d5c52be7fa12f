package schema

import (
	"fmt"
	"os"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/load"
	"cuelang.org/go/cue/token"
)

// CompileError represents a failure while compiling node type
// declarations, with the CUE source position when available.
type CompileError struct {
	Type    string    // node type being parsed, if known
	Field   string    // offending field, if known
	Message string
	Pos     token.Pos
}

func (e *CompileError) Error() string {
	loc := ""
	if e.Pos.IsValid() {
		loc = fmt.Sprintf("%s:%d:%d: ", e.Pos.Filename(), e.Pos.Line(), e.Pos.Column())
	}
	switch {
	case e.Type != "" && e.Field != "":
		return fmt.Sprintf("%snode type %s: field %s: %s", loc, e.Type, e.Field, e.Message)
	case e.Type != "":
		return fmt.Sprintf("%snode type %s: %s", loc, e.Type, e.Message)
	default:
		return loc + e.Message
	}
}

// LoadDir loads node type declarations from all CUE files in a directory.
//
// Declarations live under a top-level "nodetypes" struct:
//
//	nodetypes: {
//		"acme.site:document": abstract: true
//		"acme.site:page": {
//			superTypes: ["acme.site:document"]
//			childNodes: main: type: "acme.site:collection"
//		}
//	}
//
// Field order in the CUE source is preserved: it becomes the registry's
// declaration order and the order of each type's auto-created children.
func LoadDir(dir string) (*Registry, error) {
	info, err := os.Stat(dir)
	if os.IsNotExist(err) {
		return nil, fmt.Errorf("node type directory not found: %s", dir)
	}
	if err != nil {
		return nil, fmt.Errorf("access node type directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("not a directory: %s", dir)
	}

	instances := load.Instances([]string{"."}, &load.Config{Dir: dir})
	if len(instances) == 0 {
		return nil, fmt.Errorf("no CUE instances found in %s", dir)
	}
	inst := instances[0]
	if inst.Err != nil {
		return nil, fmt.Errorf("load node types from %s: %w", dir, inst.Err)
	}

	value := cuecontext.New().BuildInstance(inst)
	if err := value.Err(); err != nil {
		return nil, fmt.Errorf("build node types from %s: %w", dir, err)
	}

	return CompileValue(value)
}

// CompileSource compiles node type declarations from CUE source text.
// Used by tests and the scenario harness.
func CompileSource(src string) (*Registry, error) {
	value := cuecontext.New().CompileString(src)
	if err := value.Err(); err != nil {
		return nil, fmt.Errorf("compile node types: %w", err)
	}
	return CompileValue(value)
}

// CompileValue parses a CUE value holding a "nodetypes" struct into a
// populated registry.
func CompileValue(value cue.Value) (*Registry, error) {
	types := value.LookupPath(cue.ParsePath("nodetypes"))
	if !types.Exists() {
		return nil, &CompileError{Message: `no "nodetypes" declaration found`, Pos: value.Pos()}
	}

	iter, err := types.Fields()
	if err != nil {
		return nil, &CompileError{Message: fmt.Sprintf("nodetypes must be a struct: %v", err), Pos: types.Pos()}
	}

	registry := NewRegistry()
	for iter.Next() {
		name := iter.Selector().Unquoted()
		nodeType, err := compileNodeType(name, iter.Value())
		if err != nil {
			return nil, err
		}
		if err := registry.Register(nodeType); err != nil {
			return nil, &CompileError{Type: name, Message: err.Error(), Pos: iter.Value().Pos()}
		}
	}
	return registry, nil
}

// compileNodeType parses a single node type declaration.
func compileNodeType(name string, v cue.Value) (*NodeType, error) {
	nodeType := &NodeType{Name: name}

	if abstract := v.LookupPath(cue.ParsePath("abstract")); abstract.Exists() {
		b, err := abstract.Bool()
		if err != nil {
			return nil, &CompileError{Type: name, Field: "abstract", Message: err.Error(), Pos: abstract.Pos()}
		}
		nodeType.Abstract = b
	}

	if supers := v.LookupPath(cue.ParsePath("superTypes")); supers.Exists() {
		list, err := supers.List()
		if err != nil {
			return nil, &CompileError{Type: name, Field: "superTypes", Message: "must be a list of type names", Pos: supers.Pos()}
		}
		for list.Next() {
			super, err := list.Value().String()
			if err != nil {
				return nil, &CompileError{Type: name, Field: "superTypes", Message: err.Error(), Pos: list.Value().Pos()}
			}
			nodeType.SuperTypes = append(nodeType.SuperTypes, super)
		}
	}

	if children := v.LookupPath(cue.ParsePath("childNodes")); children.Exists() {
		childIter, err := children.Fields()
		if err != nil {
			return nil, &CompileError{Type: name, Field: "childNodes", Message: "must be a struct of child declarations", Pos: children.Pos()}
		}
		for childIter.Next() {
			slot := childIter.Selector().Unquoted()
			typeVal := childIter.Value().LookupPath(cue.ParsePath("type"))
			if !typeVal.Exists() {
				return nil, &CompileError{Type: name, Field: "childNodes." + slot, Message: "child declaration requires a type", Pos: childIter.Value().Pos()}
			}
			childType, err := typeVal.String()
			if err != nil {
				return nil, &CompileError{Type: name, Field: "childNodes." + slot, Message: err.Error(), Pos: typeVal.Pos()}
			}
			nodeType.ChildNodes = append(nodeType.ChildNodes, ChildNodeSpec{Name: slot, Type: childType})
		}
	}

	return nodeType, nil
}
