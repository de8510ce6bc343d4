package commands

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/willibrandon/nuplan/cmd/nuplan/cli"
	"github.com/willibrandon/nuplan/cmd/nuplan/output"
	"github.com/willibrandon/nuplan/core/resolver"
)

type uninstallOptions struct {
	force              bool
	removeDependencies bool
}

// NewUninstallCommand creates the uninstall command.
func NewUninstallCommand(console *output.Console, global *cli.GlobalOptions) *cobra.Command {
	opts := &uninstallOptions{}

	cmd := &cobra.Command{
		Use:   "uninstall <PACKAGE_ID> [<VERSION>]",
		Short: "Plan the removal of an installed package",
		Long: `Plans the operations that remove a package from the local repository.

The removal is refused while other installed packages depend on the package,
unless --force is given. With --remove-dependencies, dependencies that nothing
else uses are removed as well, after the packages depending on them.

Examples:
  nuplan uninstall Newtonsoft.Json
  nuplan uninstall Serilog 2.10.0 --remove-dependencies
  nuplan uninstall Castle.Core --force`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runUninstall(cmd.Context(), console, global, opts, args)
		},
	}

	cmd.Flags().BoolVar(&opts.force, "force", false, "Remove the package even if other packages depend on it")
	cmd.Flags().BoolVar(&opts.removeDependencies, "remove-dependencies", false, "Also remove dependencies no other package uses")

	return cmd
}

func runUninstall(ctx context.Context, console *output.Console, global *cli.GlobalOptions, opts *uninstallOptions, args []string) error {
	env, err := loadEnvironment(ctx, console, global)
	if err != nil {
		return err
	}
	defer env.close(ctx)

	pkg, err := findPackage(env.local, args[0], versionArg(args), true)
	if err != nil {
		return err
	}

	uninstallOpts := resolver.DefaultUninstallOptions()
	uninstallOpts.Force = opts.force
	uninstallOpts.RemoveDependencies = opts.removeDependencies
	uninstallOpts.TargetFramework = env.framework
	uninstallOpts.Logger = env.logger

	ops, err := resolver.NewUninstallPlanner(env.local, nil, uninstallOpts).ResolveOperations(ctx, pkg)
	if err != nil {
		return err
	}
	return env.printPlan("uninstall", pkg, ops)
}
