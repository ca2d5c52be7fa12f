// Package harness runs repair scenarios for conformance testing.
//
// A scenario is a YAML file describing node type declarations, a seeded
// set of persisted node records, and the parameters of one repair
// invocation. Run executes the scenario against a throwaway in-memory
// store and captures the full output transcript plus the run counters.
//
// RunWithGolden additionally compares the transcript against a golden
// file in testdata/golden, so the exact wording and ordering of repair
// output is pinned. Regenerate golden files with:
//
//	go test ./internal/harness -update
package harness
