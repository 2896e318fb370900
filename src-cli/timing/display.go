package timing

import (
	"fmt"
	"strings"
	"time"

	"cloud.google.com/go/civil"
)

const displayLayout = "2006-01-02 15:04 MST"

// DisplayZone is the zone stored instants are rendered in.
type DisplayZone struct {
	name  string
	loc   *time.Location
	local bool
}

func LocalZone(loc *time.Location) DisplayZone {
	if loc == nil {
		loc = time.Local
	}
	return DisplayZone{name: "local", loc: loc, local: true}
}

// ResolveDisplayZone resolves an IANA zone name. A blank name selects local.
func ResolveDisplayZone(name string, local *time.Location) (DisplayZone, error) {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return LocalZone(local), nil
	}
	loc, err := time.LoadLocation(trimmed)
	if err != nil {
		return DisplayZone{}, fmt.Errorf("unknown timezone '%s'", name)
	}
	return DisplayZone{name: trimmed, loc: loc}, nil
}

func (z DisplayZone) Name() string {
	return z.name
}

func (z DisplayZone) Location() *time.Location {
	return z.loc
}

func (z DisplayZone) IsLocal() bool {
	return z.local
}

// Span is the stored timing of an event.
type Span struct {
	StartsAt string
	EndsAt   string
	AllDay   bool
}

// Render formats a stored span in zone. All-day ranges print their
// inclusive last day.
func Render(span Span, zone DisplayZone) (string, error) {
	start, err := ParseInstant(span.StartsAt)
	if err != nil {
		return "", fmt.Errorf("Render: %w", err)
	}
	end, err := ParseInstant(span.EndsAt)
	if err != nil {
		return "", fmt.Errorf("Render: %w", err)
	}
	loc := zone.Location()
	if loc == nil {
		zone = LocalZone(nil)
		loc = zone.Location()
	}

	if span.AllDay {
		startDate := civil.DateOf(start.In(loc))
		lastDate := civil.DateOf(end.In(loc))
		if prev, err := AddDays(lastDate, -1); err == nil {
			lastDate = prev
		}
		return fmt.Sprintf("%s -> %s (all-day, %s)", startDate, lastDate, zone.name), nil
	}

	start, end = start.In(loc), end.In(loc)
	label := zone.name
	if zone.local {
		label = start.Format("-07:00")
	}
	return fmt.Sprintf("%s -> %s (%s)", start.Format(displayLayout), end.Format(displayLayout), label), nil
}
