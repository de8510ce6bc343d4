package cli

import (
	"fmt"
	"runtime"

	"github.com/willibrandon/nuplan/core/resolver"
)

// Version information (set by main)
var (
	Version = "0.0.0-dev"
	Commit  = "unknown"
	Date    = "unknown"
)

// GetVersion returns formatted version information
func GetVersion() string {
	return Version
}

// GetFullVersion returns detailed version information, including the engine
// version packages' minClientVersion is checked against
func GetFullVersion() string {
	return fmt.Sprintf("nuplan version %s\ncommit: %s\nbuilt: %s\ngo: %s\nengine: %s",
		Version, Commit, Date, runtime.Version(), resolver.DefaultEngineVersion)
}
