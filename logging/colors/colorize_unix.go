//go:build !windows
// +build !windows

package colors

import "fmt"

// EnableColor is a no-op on non-windows systems since ANSI escape codes are supported out of the box.
func EnableColor() {}

// Colorize returns the string s wrapped in the ANSI code c.
func Colorize(s any, c Color) string {
	return fmt.Sprintf("\x1b[%dm%v\x1b[0m", c, s)
}
