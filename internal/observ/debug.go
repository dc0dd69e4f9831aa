package observ

import (
	"fmt"
	"os"
	"sync"
)

var (
	debugOnce    sync.Once
	debugEnabled bool
)

// DebugEnabled reports whether diagnostic logging was requested via the
// DBGDIFF_DEBUG environment variable.
func DebugEnabled() bool {
	debugOnce.Do(func() {
		debugEnabled = os.Getenv("DBGDIFF_DEBUG") != ""
	})
	return debugEnabled
}

// Debugf logs a diagnostic line to stderr when debug logging is enabled.
// Used for expected-but-noteworthy conditions (an entity whose size cannot
// be resolved, a reference with no target), never for report output.
func Debugf(format string, args ...any) {
	if !DebugEnabled() {
		return
	}
	fmt.Fprintf(os.Stderr, "dbgdiff: "+format+"\n", args...)
}
