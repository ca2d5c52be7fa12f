// Package testutil provides shared helpers for tests.
package testutil

import (
	"testing"

	"github.com/amirkoklan/treemend/internal/schema"
)

// MustRegistry builds a registry from node type definitions, failing the
// test on registration errors. Types keep the declaration order given.
func MustRegistry(t *testing.T, types ...*schema.NodeType) *schema.Registry {
	t.Helper()

	registry := schema.NewRegistry()
	for _, nodeType := range types {
		if err := registry.Register(nodeType); err != nil {
			t.Fatalf("register node type %s: %v", nodeType.Name, err)
		}
	}
	return registry
}
