// Package output renders plans and package lists for the terminal or as JSON.
package output

import (
	"io"
	"os"

	"github.com/fatih/color"
	"golang.org/x/term"
)

// Color schemes
var (
	ColorSuccess   = color.New(color.FgGreen)
	ColorError     = color.New(color.FgRed)
	ColorWarning   = color.New(color.FgYellow)
	ColorInfo      = color.New(color.FgCyan)
	ColorDebug     = color.New(color.FgWhite)
	ColorHeader    = color.New(color.Bold, color.FgWhite)
	ColorInstall   = color.New(color.FgGreen)
	ColorUninstall = color.New(color.FgRed)
)

// IsColorEnabled reports whether w should receive colored output.
func IsColorEnabled(w io.Writer) bool {
	if !IsTerminal(w) {
		return false
	}

	if os.Getenv("NO_COLOR") != "" {
		return false
	}

	termEnv := os.Getenv("TERM")
	return termEnv != "dumb" && termEnv != ""
}

// IsTerminal reports whether w is a terminal rather than a pipe or file.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}

// DisableColors disables all color output
func DisableColors() {
	color.NoColor = true
}

// EnableColors enables color output
func EnableColors() {
	color.NoColor = false
}
