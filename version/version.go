// Package version exposes the build information printed by the version command. The semantic
// version is set here (or overridden via ldflags); the VCS metadata comes from the build info the
// Go toolchain embeds into the binary.
package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
	"strings"
	"time"
)

// Version is the semantic version of the build. Overridable via ldflags.
var Version = "0.3.0"

// Info is a snapshot of the build's version metadata.
type Info struct {
	Version   string
	Commit    string
	Dirty     bool
	BuildTime time.Time
	GoVersion string
}

// GetInfo assembles the build metadata, reading VCS details from the binary's embedded build info.
func GetInfo() Info {
	info := Info{Version: Version, GoVersion: runtime.Version()}
	build, ok := debug.ReadBuildInfo()
	if !ok {
		return info
	}
	for _, setting := range build.Settings {
		switch setting.Key {
		case "vcs.revision":
			info.Commit = setting.Value
		case "vcs.modified":
			info.Dirty = setting.Value == "true"
		case "vcs.time":
			if t, err := time.Parse(time.RFC3339, setting.Value); err == nil {
				info.BuildTime = t
			}
		}
	}
	return info
}

// String renders the metadata as the multi-line block shown by the version command.
func (i Info) String() string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("corebc version %s\n", i.Version))
	if i.Commit != "" {
		commit := i.Commit
		if len(commit) > 7 {
			commit = commit[:7]
		}
		if i.Dirty {
			commit += "-dirty"
		}
		sb.WriteString(fmt.Sprintf("  Commit:     %s\n", commit))
	}
	if !i.BuildTime.IsZero() {
		sb.WriteString(fmt.Sprintf("  Built:      %s\n", i.BuildTime.Format("2006-01-02 15:04:05 MST")))
	}
	sb.WriteString(fmt.Sprintf("  Go version: %s\n", i.GoVersion))
	return sb.String()
}
