package summariq

import (
	"log"
	"sync/atomic"
)

// verbose is read from map-phase goroutines, hence atomic
var verbose atomic.Bool

// SetVerbose sets the global verbose mode
func SetVerbose(v bool) {
	verbose.Store(v)
}

// Verbose reports whether verbose mode is enabled
func Verbose() bool {
	return verbose.Load()
}

// VerboseLog logs only when verbose mode is enabled
func VerboseLog(format string, v ...interface{}) {
	if verbose.Load() {
		log.Printf(format, v...)
	}
}
