package objectstore

import (
	"errors"

	"objectstore/logger"
)

// Sentinel errors returned by the string accessors and parsers. The
// OrReply wrappers translate these into user-visible reply text;
// everything else in this package treats them as plain Go errors.
var (
	// ErrParse is returned when a byte string does not parse as the
	// requested numeric type at all.
	ErrParse = errors.New("value is not an integer or out of range")
	// ErrParseFloat is the float-specific parse failure message.
	ErrParseFloat = errors.New("value is not a valid float")
	// ErrRange is returned when a value parses but does not fit the
	// target width.
	ErrRange = errors.New("value is out of range")
	// ErrWrongEvictionMode is returned by OBJECT FREQ when the active
	// eviction mode does not track access frequency.
	ErrWrongEvictionMode = errors.New("An LFU maxmemory policy is not selected, access frequency not tracked")
	// ErrWrongEvictionModeIdle is the inverse message, for idle-time
	// queries under frequency mode.
	ErrWrongEvictionModeIdle = errors.New("An LFU maxmemory policy is selected, idle time not tracked")
)

// fatal logs and panics with a diagnostic. Unreachable encodings,
// decrement-at-zero, and destruction of an unknown type are programmer
// errors, not recoverable conditions.
func fatal(msg string) {
	logger.Panic("objectstore: fatal: %s", msg)
}
