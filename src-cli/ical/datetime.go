package ical

import (
	"fmt"
	"regexp"
	"strings"
	"time"
	"toki/src-cli/timing"

	"cloud.google.com/go/civil"
)

var (
	datePattern      = regexp.MustCompile(`^\d{4}\d{2}\d{2}$`)
	localTimePattern = regexp.MustCompile(`^\d{4}\d{2}\d{2}T\d{2}\d{2}\d{2}$`)
	utcTimePattern   = regexp.MustCompile(`^\d{4}\d{2}\d{2}T\d{2}\d{2}\d{2}Z$`)
)

// Boundary is one DTSTART or DTEND value.
type Boundary struct {
	At     time.Time
	AllDay bool
}

// Parsing date-time property values. For example:
//   - DTSTART;VALUE=DATE:20250601, an all-day boundary at local midnight
//   - DTSTART:20250601T090000Z, UTC
//   - DTSTART;TZID=Europe/Paris:20250601T090000, converted from that zone
//   - DTSTART:20250601T090000, read as UTC without conversion
//
// loc is the zone all-day boundaries start in.
func ParseBoundary(value string, params map[string][]string, loc *time.Location) (Boundary, error) {
	value = strings.TrimSpace(value)

	switch {
	case datePattern.MatchString(value) || strings.EqualFold(param(params, "VALUE"), "DATE"):
		parsed, err := time.Parse("20060102", value)
		if err != nil {
			return Boundary{}, fmt.Errorf("invalid date value '%s'", value)
		}
		return Boundary{At: timing.StartOfDay(civil.DateOf(parsed), loc), AllDay: true}, nil
	case utcTimePattern.MatchString(value):
		parsed, err := time.Parse("20060102T150405Z", value)
		if err != nil {
			return Boundary{}, fmt.Errorf("invalid date-time value '%s'", value)
		}
		return Boundary{At: parsed.UTC()}, nil
	case localTimePattern.MatchString(value):
		parsed, err := time.Parse("20060102T150405", value)
		if err != nil {
			return Boundary{}, fmt.Errorf("invalid date-time value '%s'", value)
		}
		tzid := strings.Trim(param(params, "TZID"), `"`)
		if tzid == "" {
			// no zone given: the wall clock is taken as UTC as-is
			return Boundary{At: parsed.UTC()}, nil
		}
		zone, err := time.LoadLocation(tzid)
		if err != nil {
			return Boundary{}, fmt.Errorf("unknown timezone '%s'", tzid)
		}
		at, err := timing.LocalInstant(civil.DateTimeOf(parsed), zone, value)
		if err != nil {
			return Boundary{}, err
		}
		return Boundary{At: at.UTC()}, nil
	default:
		return Boundary{}, fmt.Errorf("unsupported date-time value '%s'", value)
	}
}

// DefaultEnd is the end of an entry that has no DTEND.
func DefaultEnd(start Boundary) (time.Time, error) {
	if !start.AllDay {
		return start.At.Add(time.Hour), nil
	}
	next, err := timing.AddDays(civil.DateOf(start.At), 1)
	if err != nil {
		return time.Time{}, err
	}
	return timing.StartOfDay(next, start.At.Location()), nil
}

func param(params map[string][]string, key string) string {
	for k, values := range params {
		if strings.EqualFold(k, key) && len(values) > 0 {
			return values[0]
		}
	}
	return ""
}
