package backdrop

import (
	"fmt"
	"os"
)

// SetDebugMode enables or disables debug logging. When enabled, lifecycle
// transitions (start, pause, stop) and throttled per-second step/draw
// timings are printed to stderr.
func (d *Director) SetDebugMode(enabled bool) {
	d.debug = enabled
}

// logf prints a debug line to stderr. No-op unless debug mode is on.
func (d *Director) logf(format string, args ...any) {
	if !d.debug {
		return
	}
	_, _ = fmt.Fprintf(os.Stderr, "[backdrop] "+format+"\n", args...)
}
