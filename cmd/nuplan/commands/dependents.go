package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/willibrandon/nuplan/cmd/nuplan/cli"
	"github.com/willibrandon/nuplan/cmd/nuplan/output"
	"github.com/willibrandon/nuplan/core/resolver"
)

// NewDependentsCommand creates the dependents command.
func NewDependentsCommand(console *output.Console, global *cli.GlobalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "dependents <PACKAGE_ID> [<VERSION>]",
		Short: "List installed packages that depend on a package",
		Long: `Lists the packages of the local repository with a dependency resolving to
the given installed package.

Examples:
  nuplan dependents Newtonsoft.Json
  nuplan dependents Newtonsoft.Json 13.0.1 --framework net45`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDependents(cmd.Context(), console, global, args)
		},
	}
}

func runDependents(ctx context.Context, console *output.Console, global *cli.GlobalOptions, args []string) error {
	env, err := loadEnvironment(ctx, console, global)
	if err != nil {
		return err
	}
	defer env.close(ctx)

	pkg, err := findPackage(env.local, args[0], versionArg(args), true)
	if err != nil {
		return err
	}

	dependents := resolver.NewDependentsIndex(env.local, env.framework).GetDependents(pkg)
	if len(dependents) == 0 && !global.JSON() {
		console.Info("No installed package depends on '%s'.", pkg)
		return nil
	}
	return env.printPackages("dependents", fmt.Sprintf("Packages depending on '%s':", pkg), pkg, dependents)
}
