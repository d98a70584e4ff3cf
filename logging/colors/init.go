package colors

// init ensures that ANSI coloring is enabled where supported. Unix systems support ANSI escape
// codes by default while Windows requires a kernel call for enablement.
func init() {
	EnableColor()
}
