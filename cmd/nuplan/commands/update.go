package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/willibrandon/nuplan/cmd/nuplan/cli"
	"github.com/willibrandon/nuplan/cmd/nuplan/output"
	"github.com/willibrandon/nuplan/core"
	"github.com/willibrandon/nuplan/core/resolver"
)

type updateOptions struct {
	noDependencies bool
	targets        string
}

// NewUpdateCommand creates the update command.
func NewUpdateCommand(console *output.Console, global *cli.GlobalOptions) *cobra.Command {
	opts := &updateOptions{}

	cmd := &cobra.Command{
		Use:   "update <PACKAGE_ID> [<VERSION>]",
		Short: "Plan the update of an installed package",
		Long: `Plans the operations that replace an installed package with a newer version
from the source repository. Without a version the newest source package is used.

--targets restricts the packages that may be touched by their content:
project packages (lib, content, build files or framework references) and
external packages (tools and other solution-level content).

Examples:
  nuplan update Newtonsoft.Json
  nuplan update Serilog 3.0.0 --no-dependencies
  nuplan update MyMeta --targets project`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runUpdate(cmd.Context(), console, global, opts, args)
		},
	}

	cmd.Flags().BoolVar(&opts.noDependencies, "no-dependencies", false, "Update only the package, not its dependencies")
	cmd.Flags().StringVar(&opts.targets, "targets", "", "Comma-separated package targets to update: project, external (default: all)")

	return cmd
}

func runUpdate(ctx context.Context, console *output.Console, global *cli.GlobalOptions, opts *updateOptions, args []string) error {
	targets, err := core.ParsePackageTargets(opts.targets)
	if err != nil {
		return err
	}

	env, err := loadEnvironment(ctx, console, global)
	if err != nil {
		return err
	}
	defer env.close(ctx)

	installed := core.FindPackageByID(env.local, args[0])
	if installed == nil {
		return fmt.Errorf("%w: '%s'", ErrPackageNotInstalled, args[0])
	}

	pkg, err := findPackage(env.source, args[0], versionArg(args), env.cfg.Prerelease)
	if err != nil {
		return err
	}
	if versionArg(args) == "" && !pkg.Version.GreaterThan(installed.Version) {
		if global.JSON() {
			return env.printPlan("update", installed, nil)
		}
		console.Success("'%s' is up to date.", installed)
		return nil
	}

	planner := resolver.NewUpdatePlanner(env.local, env.source, resolver.UpdateOptions{
		InstallOptions: resolver.InstallOptions{
			AllowPrereleaseVersions: env.cfg.Prerelease,
			DependencyVersion:       env.dependencyVersion,
			TargetFramework:         env.framework,
			EngineVersion:           env.engineVersion,
			Constraints:             env.constraints,
			Logger:                  env.logger,
		},
		UpdateDependencies: !opts.noDependencies,
		AcceptedTargets:    targets,
	})

	ops, err := planner.ResolveOperations(ctx, pkg)
	if err != nil {
		return err
	}
	return env.printPlan("update", pkg, ops)
}
