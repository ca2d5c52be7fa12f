package node

import (
	"sync"

	"github.com/google/uuid"
)

// IdentifierGenerator produces identifiers for newly created nodes.
// Implemented by UUIDv7Generator (production) and FixedGenerator (tests).
type IdentifierGenerator interface {
	Generate() string
}

// UUIDv7Generator generates time-sortable UUIDv7 node identifiers.
//
// UUIDv7 embeds a timestamp in the most significant bits, so identifiers
// of repaired nodes sort by creation time, which helps when auditing
// what a repair run produced.
//
// Thread-safety: stateless and safe for concurrent use.
type UUIDv7Generator struct{}

// Generate creates a new UUIDv7 as a hyphenated string.
// Panics if UUID generation fails (should never happen in practice).
func (g UUIDv7Generator) Generate() string {
	return uuid.Must(uuid.NewV7()).String()
}

// FixedGenerator returns predetermined identifiers for testing.
// Enables deterministic stores and golden transcript comparison.
type FixedGenerator struct {
	mu  sync.Mutex
	ids []string
	idx int
}

// NewFixedGenerator creates a generator that returns identifiers in order.
func NewFixedGenerator(ids ...string) *FixedGenerator {
	return &FixedGenerator{ids: ids}
}

// Generate returns the next predetermined identifier.
// Panics when all identifiers are consumed; a test asking for more
// identifiers than it provided is a test bug worth failing fast on.
func (g *FixedGenerator) Generate() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.idx >= len(g.ids) {
		panic("FixedGenerator: all identifiers exhausted")
	}
	id := g.ids[g.idx]
	g.idx++
	return id
}
