package availability

import "errors"

// Boundary validation errors. Note the engine itself never raises on
// malformed *content* -- bad persisted data degrades to defaults. These only
// guard the write surface against requests that would mint unreachable
// entries (a misspelled weekday key, an unparseable date).
var (
	ErrUnknownWeekday = errors.New("unknown weekday key, expected sunday..saturday")
	ErrInvalidDate    = errors.New("invalid date, expected YYYY-MM-DD")
	ErrInvalidRange   = errors.New("invalid date range")
	ErrBadSlotTarget  = errors.New("slot target must name exactly one of weekday or date")
)
