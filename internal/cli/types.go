package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/amirkoklan/treemend/internal/schema"
)

// TypesOptions holds flags for the types command.
type TypesOptions struct {
	*RootOptions
	NodeTypes string
}

// NewTypesCommand creates the types command.
func NewTypesCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &TypesOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "types",
		Short: "List registered node types",
		Long: `List the node types declared in a node type directory, in
declaration order, with their abstract markers and auto-created child
slots.

Example:
  treemend types --nodetypes ./nodetypes`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTypes(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.NodeTypes, "nodetypes", "", "directory with node type CUE files (required)")
	_ = cmd.MarkFlagRequired("nodetypes")

	return cmd
}

func runTypes(opts *TypesOptions, cmd *cobra.Command) error {
	registry, err := schema.LoadDir(opts.NodeTypes)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to load node types", err)
	}

	out := cmd.OutOrStdout()
	for _, nodeType := range registry.Types() {
		marker := ""
		if nodeType.Abstract {
			marker = " (abstract)"
		}
		fmt.Fprintf(out, "%s%s\n", nodeType.Name, marker)
		for _, child := range nodeType.ChildNodes {
			fmt.Fprintf(out, "  %s: %s\n", child.Name, child.Type)
		}
	}

	return nil
}
