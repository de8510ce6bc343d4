package commands

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/willibrandon/nuplan/cmd/nuplan/cli"
	"github.com/willibrandon/nuplan/cmd/nuplan/output"
	"github.com/willibrandon/nuplan/core/resolver"
)

type installOptions struct {
	ignoreDependencies bool
}

// NewInstallCommand creates the install command.
func NewInstallCommand(console *output.Console, global *cli.GlobalOptions) *cobra.Command {
	opts := &installOptions{}

	cmd := &cobra.Command{
		Use:   "install <PACKAGE_ID> [<VERSION>]",
		Short: "Plan the installation of a package",
		Long: `Plans the operations that install a package from the source repository,
together with any dependency the local repository does not already satisfy.

Installed packages of another version are upgraded when their dependents allow it.

Examples:
  nuplan install Newtonsoft.Json
  nuplan install Newtonsoft.Json 13.0.1 --framework net8.0
  nuplan install Serilog --dependency-version highest --format json`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInstall(cmd.Context(), console, global, opts, args)
		},
	}

	cmd.Flags().BoolVar(&opts.ignoreDependencies, "ignore-dependencies", false, "Install the package without its dependencies")

	return cmd
}

func runInstall(ctx context.Context, console *output.Console, global *cli.GlobalOptions, opts *installOptions, args []string) error {
	env, err := loadEnvironment(ctx, console, global)
	if err != nil {
		return err
	}
	defer env.close(ctx)

	pkg, err := findPackage(env.source, args[0], versionArg(args), env.cfg.Prerelease)
	if err != nil {
		return err
	}

	planner := resolver.NewInstallPlanner(env.local, env.source, resolver.InstallOptions{
		IgnoreDependencies:      opts.ignoreDependencies,
		AllowPrereleaseVersions: env.cfg.Prerelease,
		DependencyVersion:       env.dependencyVersion,
		TargetFramework:         env.framework,
		EngineVersion:           env.engineVersion,
		Constraints:             env.constraints,
		Logger:                  env.logger,
	})

	ops, err := planner.ResolveOperations(ctx, pkg)
	if err != nil {
		return err
	}
	return env.printPlan("install", pkg, ops)
}

func versionArg(args []string) string {
	if len(args) > 1 {
		return args[1]
	}
	return ""
}
