package timing

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrEndNotAfterStart   = errors.New("--end must be later than --start")
	ErrDurationWithAllDay = errors.New("--duration cannot be used with --all-day")
	ErrMissingStart       = errors.New("provide --start or --date/--time to define a start instant")
	ErrMissingTime        = errors.New("provide --time when --start is omitted")
	ErrMissingAllDayStart = errors.New("provide --start or --date to define the first day of an all-day event")
)

// RangeError reports arithmetic that left the representable years 0000-9999.
type RangeError struct {
	msg string
}

func rangeErrorf(format string, args ...any) *RangeError {
	return &RangeError{msg: fmt.Sprintf(format, args...)}
}

func (e *RangeError) Error() string {
	return e.msg
}

// NonexistentTimeError is returned for a civil time skipped by a DST transition.
type NonexistentTimeError struct {
	Literal string
	Zone    string
}

func (e *NonexistentTimeError) Error() string {
	return fmt.Sprintf("time '%s' does not exist in timezone %s (DST transition)", e.Literal, e.Zone)
}

// AmbiguousTimeError is returned for a civil time repeated by a DST transition.
type AmbiguousTimeError struct {
	Literal string
	Earlier time.Time
	Later   time.Time
}

func (e *AmbiguousTimeError) Error() string {
	return fmt.Sprintf(
		"time '%s' is ambiguous (%s or %s) due to DST",
		e.Literal,
		e.Earlier.UTC().Format(time.RFC3339),
		e.Later.UTC().Format(time.RFC3339),
	)
}
