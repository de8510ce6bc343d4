package output

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/fatih/color"

	"github.com/willibrandon/nuplan/core"
	"github.com/willibrandon/nuplan/observability"
)

// Verbosity levels
type Verbosity int

const (
	// VerbosityQuiet shows errors only
	VerbosityQuiet Verbosity = iota
	// VerbosityNormal shows errors, warnings and the plan (default)
	VerbosityNormal
	// VerbosityDetailed adds per-package details
	VerbosityDetailed
	// VerbosityDiagnostic adds debug output
	VerbosityDiagnostic
)

// VerbosityForLevel maps a log level onto the console verbosity used
// alongside it.
func VerbosityForLevel(level observability.LogLevel) Verbosity {
	switch {
	case level >= observability.SilentLevel:
		return VerbosityQuiet
	case level >= observability.InfoLevel:
		return VerbosityNormal
	case level == observability.DebugLevel:
		return VerbosityDetailed
	default:
		return VerbosityDiagnostic
	}
}

// Console writes user-facing output. Messages go to out, errors to err.
type Console struct {
	out       io.Writer
	err       io.Writer
	verbosity Verbosity
	mu        sync.Mutex
	colors    bool
}

// NewConsole creates a new console
func NewConsole(out, err io.Writer, verbosity Verbosity) *Console {
	c := &Console{
		out:       out,
		err:       err,
		verbosity: verbosity,
		colors:    IsColorEnabled(out),
	}

	if !c.colors {
		DisableColors()
	}

	return c
}

// DefaultConsole creates a console with stdout/stderr and normal verbosity
func DefaultConsole() *Console {
	return NewConsole(os.Stdout, os.Stderr, VerbosityNormal)
}

// Out returns the writer for regular output.
func (c *Console) Out() io.Writer {
	return c.out
}

// Err returns the writer for errors and logs.
func (c *Console) Err() io.Writer {
	return c.err
}

// SetVerbosity sets the verbosity level
func (c *Console) SetVerbosity(v Verbosity) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.verbosity = v
}

// SetColors enables or disables color output
func (c *Console) SetColors(enabled bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.colors = enabled
	if enabled {
		EnableColors()
	} else {
		DisableColors()
	}
}

// Println writes line to output
func (c *Console) Println(a ...any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, _ = fmt.Fprintln(c.out, a...)
}

// write prints one line when the verbosity is at least minimum, colored when
// enabled.
func (c *Console) write(w io.Writer, minimum Verbosity, clr *color.Color, line string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.verbosity < minimum {
		return
	}
	if c.colors && clr != nil {
		_, _ = clr.Fprintln(w, line)
		return
	}
	_, _ = fmt.Fprintln(w, line)
}

// Success writes success message (green)
func (c *Console) Success(format string, a ...any) {
	c.write(c.out, VerbosityNormal, ColorSuccess, fmt.Sprintf(format, a...))
}

// Error writes error message (red), whatever the verbosity
func (c *Console) Error(format string, a ...any) {
	c.write(c.err, VerbosityQuiet, ColorError, "Error: "+fmt.Sprintf(format, a...))
}

// Warning writes warning message (yellow)
func (c *Console) Warning(format string, a ...any) {
	c.write(c.out, VerbosityNormal, ColorWarning, "Warning: "+fmt.Sprintf(format, a...))
}

// Info writes info message (cyan)
func (c *Console) Info(format string, a ...any) {
	c.write(c.out, VerbosityNormal, ColorInfo, fmt.Sprintf(format, a...))
}

// Header writes a bold heading
func (c *Console) Header(format string, a ...any) {
	c.write(c.out, VerbosityNormal, ColorHeader, fmt.Sprintf(format, a...))
}

// Debug writes debug message (white)
func (c *Console) Debug(format string, a ...any) {
	c.write(c.out, VerbosityDiagnostic, ColorDebug, "[DEBUG] "+fmt.Sprintf(format, a...))
}

// Detail writes detailed message
func (c *Console) Detail(format string, a ...any) {
	c.write(c.out, VerbosityDetailed, nil, fmt.Sprintf(format, a...))
}

// Operation writes one planned operation, prefixed with + for installs and
// - for uninstalls. Operations are shown even in quiet mode.
func (c *Console) Operation(op core.PackageOperation) {
	sign, clr := "+", ColorInstall
	if op.Action == core.ActionUninstall {
		sign, clr = "-", ColorUninstall
	}
	c.write(c.out, VerbosityQuiet, clr, fmt.Sprintf("  %s %s", sign, op))
}

// Package writes one package of a listing.
func (c *Console) Package(p *core.Package) {
	c.write(c.out, VerbosityQuiet, nil, "  "+p.String())
}
