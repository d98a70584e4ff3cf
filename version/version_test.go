package version

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// TestInfoString verifies the rendered block truncates the commit, marks dirty trees, and omits
// absent metadata.
func TestInfoString(t *testing.T) {
	info := Info{
		Version:   "1.2.3",
		Commit:    "0123456789abcdef",
		Dirty:     true,
		BuildTime: time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC),
		GoVersion: "go1.23.0",
	}
	rendered := info.String()
	assert.Contains(t, rendered, "corebc version 1.2.3")
	assert.Contains(t, rendered, "Commit:     0123456-dirty")
	assert.Contains(t, rendered, "Built:      2026-08-01 12:00:00 UTC")
	assert.Contains(t, rendered, "Go version: go1.23.0")

	// Without VCS metadata only the version and Go version lines appear.
	bare := Info{Version: "1.2.3", GoVersion: "go1.23.0"}.String()
	assert.NotContains(t, bare, "Commit")
	assert.NotContains(t, bare, "Built")
}
