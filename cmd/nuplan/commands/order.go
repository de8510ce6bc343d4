package commands

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/willibrandon/nuplan/cmd/nuplan/cli"
	"github.com/willibrandon/nuplan/cmd/nuplan/output"
	"github.com/willibrandon/nuplan/core/resolver"
)

// NewOrderCommand creates the order command.
func NewOrderCommand(console *output.Console, global *cli.GlobalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "order",
		Short: "List installed packages in dependency order",
		Long: `Lists every package of the local repository so that each package follows
the packages it depends on. Cycles are broken and missing dependencies ignored.

Examples:
  nuplan order
  nuplan order --framework net8.0 --format json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runOrder(cmd.Context(), console, global)
		},
	}
}

func runOrder(ctx context.Context, console *output.Console, global *cli.GlobalOptions) error {
	env, err := loadEnvironment(ctx, console, global)
	if err != nil {
		return err
	}
	defer env.close(ctx)

	sorted, err := resolver.GetPackagesByDependencyOrder(ctx, env.local, env.framework, env.logger)
	if err != nil {
		return err
	}
	return env.printPackages("order", "Installed packages in dependency order:", nil, sorted)
}
