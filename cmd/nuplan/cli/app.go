package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/willibrandon/nuplan/cmd/nuplan/output"
	"github.com/willibrandon/nuplan/observability"
)

// GlobalOptions holds the persistent flags shared by every command. Flags
// left at their zero value defer to nuplan.yaml.
type GlobalOptions struct {
	ConfigFile        string
	Repository        string
	Verbosity         string
	Format            string
	Framework         string
	DependencyVersion string
	Prerelease        bool
	PrintMetrics      bool
}

// JSON reports whether --format json was requested.
func (o *GlobalOptions) JSON() bool {
	return o.Format == "json"
}

var rootCmd = &cobra.Command{
	Use:   "nuplan",
	Short: "Plan package install, uninstall and update operations",
	Long: `nuplan computes the ordered operations that install, uninstall or update a
package and its dependencies, from a YAML description of the installed (local)
and available (source) repositories.

It never changes either repository: the output is the plan.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	Run: func(cmd *cobra.Command, args []string) {
		_ = cmd.Help()
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		return printMetrics(Console, Options)
	},
}

// Console is the global console for CLI commands
var Console *output.Console

// Options is bound to the root command's persistent flags
var Options = &GlobalOptions{}

// ExecuteContext runs the root command with ctx
func ExecuteContext(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

// Commands returns the registered subcommands
func Commands() []*cobra.Command {
	return rootCmd.Commands()
}

func init() {
	Console = output.DefaultConsole()

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&Options.ConfigFile, "config", "", "Settings file to use (default: nuplan.yaml in ., .nuplan/ or ~/.nuplan/)")
	flags.StringVarP(&Options.Repository, "repository", "r", "", "Repository manifest describing local and source packages (default: nuplan-repo.yaml)")
	flags.StringVarP(&Options.Verbosity, "verbosity", "v", "", "Verbosity: q[uiet], m[inimal], n[ormal], d[etailed] or diag[nostic]")
	flags.StringVar(&Options.Format, "format", "text", "Output format: text or json")
	flags.StringVarP(&Options.Framework, "framework", "f", "", "Target framework used to select dependency sets (e.g. net8.0)")
	flags.StringVar(&Options.DependencyVersion, "dependency-version", "", "Dependency version to pick: lowest, highestPatch, highestMinor or highest")
	flags.BoolVar(&Options.Prerelease, "prerelease", false, "Allow pre-release packages from the source repository")
	flags.BoolVar(&Options.PrintMetrics, "print-metrics", false, "Print planner metrics in Prometheus text format after the command")
}

// printMetrics dumps the planner metrics when --print-metrics is set. With
// JSON output they go to stderr so stdout stays valid JSON.
func printMetrics(console *output.Console, opts *GlobalOptions) error {
	if !opts.PrintMetrics {
		return nil
	}
	w := console.Out()
	if opts.JSON() {
		w = console.Err()
	}
	return observability.WriteMetrics(w)
}

// SetupVersion configures version information after variables are set
func SetupVersion() {
	rootCmd.SetVersionTemplate(GetFullVersion() + "\n")
	rootCmd.Version = GetVersion()
}

// AddCommand adds a command to the root command
func AddCommand(cmd *cobra.Command) {
	rootCmd.AddCommand(cmd)
}
