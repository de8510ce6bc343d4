package commands

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/willibrandon/nuplan/cmd/nuplan/cli"
	"github.com/willibrandon/nuplan/cmd/nuplan/config"
	"github.com/willibrandon/nuplan/cmd/nuplan/manifest"
	"github.com/willibrandon/nuplan/cmd/nuplan/output"
	"github.com/willibrandon/nuplan/core"
	"github.com/willibrandon/nuplan/frameworks"
	"github.com/willibrandon/nuplan/observability"
	"github.com/willibrandon/nuplan/version"
)

var (
	// ErrPackageNotFound is returned when a requested package is in neither repository.
	ErrPackageNotFound = errors.New("package not found")

	// ErrPackageNotInstalled is returned by update for a package missing from the local repository.
	ErrPackageNotInstalled = errors.New("package not installed")
)

// environment is everything a command needs: settings with flags applied,
// both repositories and an enriched logger.
type environment struct {
	console *output.Console
	global  *cli.GlobalOptions
	runID   string
	start   time.Time

	cfg               *config.Config
	local             *core.MemoryRepository
	source            *core.MemoryRepository
	framework         *frameworks.Framework
	dependencyVersion version.DependencyVersion
	engineVersion     *version.SemanticVersion
	constraints       core.ConstraintSet
	logger            observability.Logger

	shutdown func(context.Context) error
}

// loadEnvironment reads the settings file and the repository manifest,
// applies the global flags and starts tracing when configured.
func loadEnvironment(ctx context.Context, console *output.Console, global *cli.GlobalOptions) (*environment, error) {
	env := &environment{
		console: console,
		global:  global,
		runID:   uuid.NewString(),
		start:   time.Now(),
	}

	cfg, _, err := config.Load(global.ConfigFile)
	if err != nil {
		return nil, err
	}
	applyFlags(cfg, global)
	env.cfg = cfg

	if err := env.parseSettings(); err != nil {
		return nil, err
	}

	m, err := manifest.Load(cfg.Repository)
	if err != nil {
		return nil, err
	}
	if env.local, env.source, err = m.Repositories(); err != nil {
		return nil, fmt.Errorf("invalid repository manifest %s: %w", cfg.Repository, err)
	}

	if cfg.TracingEnabled() {
		tp, err := observability.SetupTracing(ctx, cfg.TracerConfig(cli.GetVersion()))
		if err != nil {
			return nil, err
		}
		env.shutdown = func(ctx context.Context) error {
			return observability.ShutdownTracing(ctx, tp)
		}
	}

	return env, nil
}

// applyFlags overrides file settings with the flags that were set.
func applyFlags(cfg *config.Config, global *cli.GlobalOptions) {
	if global.Repository != "" {
		cfg.Repository = global.Repository
	}
	if global.Framework != "" {
		cfg.TargetFramework = global.Framework
	}
	if global.DependencyVersion != "" {
		cfg.DependencyVersion = global.DependencyVersion
	}
	if global.Prerelease {
		cfg.Prerelease = true
	}
	if global.Verbosity != "" {
		cfg.LogLevel = global.Verbosity
	}
}

func (e *environment) parseSettings() error {
	cfg := e.cfg

	if cfg.TargetFramework != "" {
		fw, err := frameworks.ParseFramework(cfg.TargetFramework)
		if err != nil {
			return fmt.Errorf("invalid target framework %q: %w", cfg.TargetFramework, err)
		}
		e.framework = fw
	}

	dv, err := version.ParseDependencyVersion(cfg.DependencyVersion)
	if err != nil {
		return err
	}
	e.dependencyVersion = dv

	if cfg.EngineVersion != "" {
		if e.engineVersion, err = version.Parse(cfg.EngineVersion); err != nil {
			return fmt.Errorf("invalid engine version %q: %w", cfg.EngineVersion, err)
		}
	}

	e.constraints = core.ConstraintSet{}
	for id, s := range cfg.Constraints {
		spec, err := version.ParseVersionSpec(s)
		if err != nil {
			return fmt.Errorf("invalid constraint for %q: %w", id, err)
		}
		e.constraints.Add(id, spec)
	}

	level, err := observability.ParseLogLevel(cfg.LogLevel)
	if err != nil {
		return err
	}
	e.console.SetVerbosity(output.VerbosityForLevel(level))
	e.logger = observability.NewLogger(e.console.Err(), level).ForContext("RunID", e.runID)

	return nil
}

// close flushes traces.
func (e *environment) close(ctx context.Context) {
	if e.shutdown == nil {
		return
	}
	if err := e.shutdown(ctx); err != nil {
		e.console.Warning("%v", err)
	}
}

func (e *environment) frameworkName() string {
	if e.framework == nil {
		return ""
	}
	return e.framework.String()
}

// findPackage returns id at versionArg from repo, or the newest candidate
// when versionArg is empty. Pre-release and unlisted packages are only
// picked implicitly when allowPrerelease is set or nothing else exists.
func findPackage(repo core.Repository, id, versionArg string, allowPrerelease bool) (*core.Package, error) {
	if versionArg == "" {
		if p := core.FindLatestPackage(repo, id, allowPrerelease); p != nil {
			return p, nil
		}
		return nil, fmt.Errorf("%w: '%s' in %s", ErrPackageNotFound, id, repo.Name())
	}

	v, err := version.Parse(versionArg)
	if err != nil {
		return nil, fmt.Errorf("invalid version %q: %w", versionArg, err)
	}
	if p := repo.FindPackage(id, v); p != nil {
		return p, nil
	}
	return nil, fmt.Errorf("%w: '%s %s' in %s", ErrPackageNotFound, id, versionArg, repo.Name())
}

// printPlan writes ops as text or JSON.
func (e *environment) printPlan(command string, pkg *core.Package, ops []core.PackageOperation) error {
	if e.global.JSON() {
		return output.WriteJSON(e.console.Out(), output.NewPlanOutput(e.runID, command, pkg, e.frameworkName(), ops, e.start))
	}

	if len(ops) == 0 {
		e.console.Info("Nothing to do for '%s'.", pkg)
		return nil
	}

	e.console.Header("Planned %d operation(s) for %s '%s':", len(ops), command, pkg)
	for _, op := range ops {
		e.console.Operation(op)
	}
	e.console.Detail("Completed in %d ms", output.MeasureElapsed(e.start))
	return nil
}

// printPackages writes a package listing as text or JSON. subject may be nil.
func (e *environment) printPackages(command, heading string, subject *core.Package, pkgs []*core.Package) error {
	if e.global.JSON() {
		return output.WriteJSON(e.console.Out(), output.NewPackageListOutput(e.runID, command, subject, e.frameworkName(), pkgs, e.start))
	}

	e.console.Header("%s", heading)
	for _, p := range pkgs {
		e.console.Package(p)
	}
	return nil
}
