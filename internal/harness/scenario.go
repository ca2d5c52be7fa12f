package harness

import (
	"bytes"
	"context"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/amirkoklan/treemend/internal/node"
	"github.com/amirkoklan/treemend/internal/repair"
	"github.com/amirkoklan/treemend/internal/schema"
	"github.com/amirkoklan/treemend/internal/store"
)

// Scenario defines one repair conformance scenario.
type Scenario struct {
	// Name uniquely identifies this scenario; it is also the golden
	// file name.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// NodeTypes holds the CUE node type declarations, inline.
	NodeTypes string `yaml:"nodetypes"`

	// Nodes lists the records seeded into the store before the run.
	Nodes []SeedNode `yaml:"nodes"`

	// Repair holds the parameters of the repair invocation.
	Repair RepairStep `yaml:"repair"`

	// Expect optionally pins the run counters.
	Expect *ExpectedCounters `yaml:"expect,omitempty"`
}

// SeedNode is a record seeded into the store exactly as given.
// Records with moved_to or removed markers, and orphans whose parent
// path is never seeded, are all legitimate fixtures.
type SeedNode struct {
	Path       string `yaml:"path"`
	Type       string `yaml:"type"`
	Workspace  string `yaml:"workspace,omitempty"` // defaults to "live"
	MovedTo    string `yaml:"moved_to,omitempty"`
	Removed    bool   `yaml:"removed,omitempty"`
	Identifier string `yaml:"identifier,omitempty"` // defaults to seed-<n>
}

// RepairStep holds the repair invocation parameters.
type RepairStep struct {
	NodeType  string `yaml:"node_type,omitempty"`  // empty = all non-abstract types
	Workspace string `yaml:"workspace,omitempty"`  // defaults to "live"
	DryRun    bool   `yaml:"dry_run,omitempty"`
}

// ExpectedCounters pins the counters of the run.
type ExpectedCounters struct {
	Created int `yaml:"created"`
	Errors  int `yaml:"errors"`
}

// Result captures one scenario execution.
type Result struct {
	// Transcript is the full sink output, lines joined as written.
	Transcript string

	// Counters are the aggregated run counters.
	Counters repair.Counters
}

// Load reads a scenario from a YAML file.
func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scenario: %w", err)
	}

	var scenario Scenario
	if err := yaml.Unmarshal(data, &scenario); err != nil {
		return nil, fmt.Errorf("parse scenario %s: %w", path, err)
	}
	if scenario.Name == "" {
		return nil, fmt.Errorf("scenario %s: name is required", path)
	}
	return &scenario, nil
}

// Run executes a scenario against a fresh in-memory store.
func Run(scenario *Scenario) (*Result, error) {
	registry, err := schema.CompileSource(scenario.NodeTypes)
	if err != nil {
		return nil, fmt.Errorf("scenario %s: %w", scenario.Name, err)
	}

	st, err := store.Open(":memory:")
	if err != nil {
		return nil, fmt.Errorf("scenario %s: %w", scenario.Name, err)
	}
	defer st.Close()

	ctx := context.Background()
	for i, seed := range scenario.Nodes {
		rec := node.Record{
			Identifier: seed.Identifier,
			Path:       seed.Path,
			Type:       schema.Canonical(seed.Type),
			Workspace:  seed.Workspace,
			MovedTo:    seed.MovedTo,
			Removed:    seed.Removed,
		}
		if rec.Identifier == "" {
			rec.Identifier = fmt.Sprintf("seed-%d", i+1)
		}
		if rec.Workspace == "" {
			rec.Workspace = "live"
		}
		if err := st.InsertRecord(ctx, rec); err != nil {
			return nil, fmt.Errorf("scenario %s: seed %s: %w", scenario.Name, seed.Path, err)
		}
	}

	workspace := scenario.Repair.Workspace
	if workspace == "" {
		workspace = "live"
	}

	var transcript bytes.Buffer
	sink := repair.WriterSink{W: &transcript}
	factory := store.NewFactory(st, registry, node.UUIDv7Generator{})
	reconciler := repair.NewReconciler(registry, st, factory, sink)
	orchestrator := repair.NewOrchestrator(registry, reconciler, sink)

	counters, err := orchestrator.Run(ctx, scenario.Repair.NodeType, workspace, scenario.Repair.DryRun)
	if err != nil {
		return nil, fmt.Errorf("scenario %s: %w", scenario.Name, err)
	}

	return &Result{
		Transcript: transcript.String(),
		Counters:   counters,
	}, nil
}
