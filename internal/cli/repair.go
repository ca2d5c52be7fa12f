package cli

import (
	"context"
	"errors"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/amirkoklan/treemend/internal/node"
	"github.com/amirkoklan/treemend/internal/repair"
	"github.com/amirkoklan/treemend/internal/schema"
	"github.com/amirkoklan/treemend/internal/store"
)

// RepairOptions holds flags for the repair command.
type RepairOptions struct {
	*RootOptions
	Database  string
	NodeTypes string
	NodeType  string
	Workspace string
	DryRun    bool

	// Identifiers allows overriding the node identifier generator
	// (for testing). If nil, defaults to UUIDv7Generator.
	Identifiers node.IdentifierGenerator
}

// NewRepairCommand creates the repair command.
func NewRepairCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RepairOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "repair",
		Short: "Create missing auto-created child nodes",
		Long: `Scan persisted nodes and create the child nodes their node type
schemas declare as auto-created but which are missing in the repository.

With --node-type only that type (and its subtypes) is checked; otherwise
every non-abstract registered type is processed. --dry-run reports the
missing children without creating anything.

Example:
  treemend repair --db nodes.db --nodetypes ./nodetypes
  treemend repair --db nodes.db --nodetypes ./nodetypes --node-type acme.site:page --dry-run`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRepair(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite node database (required)")
	cmd.Flags().StringVar(&opts.NodeTypes, "nodetypes", "", "directory with node type CUE files (required)")
	cmd.Flags().StringVar(&opts.NodeType, "node-type", "", "repair only this node type and its subtypes")
	cmd.Flags().StringVar(&opts.Workspace, "workspace", "live", "workspace to repair")
	cmd.Flags().BoolVar(&opts.DryRun, "dry-run", false, "report missing children without creating them")
	_ = cmd.MarkFlagRequired("db")
	_ = cmd.MarkFlagRequired("nodetypes")

	return cmd
}

func runRepair(opts *RepairOptions, cmd *cobra.Command) error {
	slog.Debug("loading node types", "dir", opts.NodeTypes)
	registry, err := schema.LoadDir(opts.NodeTypes)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to load node types", err)
	}

	slog.Debug("opening database", "path", opts.Database)
	st, err := store.Open(opts.Database)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open database", err)
	}
	defer func() {
		if closeErr := st.Close(); closeErr != nil {
			slog.Error("error closing database", "error", closeErr)
		}
	}()

	ids := opts.Identifiers
	if ids == nil {
		ids = node.UUIDv7Generator{}
	}

	sink := repair.WriterSink{W: cmd.OutOrStdout()}
	factory := store.NewFactory(st, registry, ids)
	reconciler := repair.NewReconciler(registry, st, factory, sink)
	orchestrator := repair.NewOrchestrator(registry, reconciler, sink)

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	if _, err := orchestrator.Run(ctx, opts.NodeType, opts.Workspace, opts.DryRun); err != nil {
		var unknown *repair.UnknownTypeError
		if errors.As(err, &unknown) {
			return WrapExitError(ExitCommandError, "repair aborted", err)
		}
		return WrapExitError(ExitFailure, "repair failed", err)
	}

	return nil
}
