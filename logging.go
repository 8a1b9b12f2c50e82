package aios

import (
	"log"
)

// InfoLog logs informational messages with timestamps. Used for all
// engine-level logging so call sites don't each decide on a prefix.
func InfoLog(format string, v ...any) {
	log.Printf(format, v...)
}

// ErrorLog logs non-fatal failures, notably ReleaseWarning (spec §7: a
// release_lock failure is logged, never surfaced to the caller).
func ErrorLog(format string, v ...any) {
	log.Printf("[ERROR] "+format, v...)
}
