package timing

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
	"time"

	"cloud.google.com/go/civil"
)

// CanonicalLayout is RFC3339 with a numeric offset, so UTC is written as +00:00.
const CanonicalLayout = "2006-01-02T15:04:05-07:00"

var strictDatePattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// Resolver turns user supplied timing fields into instants. Location is
// the zone civil dates and clock times are read in.
type Resolver struct {
	Location *time.Location
	Now      func() time.Time
}

func NewResolver(loc *time.Location, now func() time.Time) *Resolver {
	return &Resolver{
		Location: loc,
		Now:      now,
	}
}

func (r *Resolver) location() *time.Location {
	if r.Location == nil {
		return time.Local
	}
	return r.Location
}

func (r *Resolver) now() time.Time {
	if r.Now == nil {
		return time.Now()
	}
	return r.Now()
}

// Today is the current calendar date in the resolver's zone.
func (r *Resolver) Today() civil.Date {
	return civil.DateOf(r.now().In(r.location()))
}

// Canonical formats t as the stored UTC form with second resolution.
func Canonical(t time.Time) string {
	return t.UTC().Truncate(time.Second).Format(CanonicalLayout)
}

// ParseInstant strictly parses an RFC3339 timestamp. Surrounding
// whitespace is an error.
func ParseInstant(value string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("expected RFC3339 timestamp, got '%s'", value)
	}
	return t, nil
}

// ParseDate accepts a strict YYYY-MM-DD date or a relative day token
// counted from base. Anything else is an error naming the input.
func (r *Resolver) ParseDate(value string, base civil.Date) (civil.Date, error) {
	trimmed := strings.TrimSpace(value)
	if strictDatePattern.MatchString(trimmed) {
		if d, err := civil.ParseDate(trimmed); err == nil {
			return d, nil
		}
	}
	d, ok, err := ResolveRelativeDay(trimmed, base)
	switch {
	case err != nil:
		return civil.Date{}, err
	case ok:
		return d, nil
	}
	return civil.Date{}, fmt.Errorf("expected YYYY-MM-DD date (or relative token), got '%s'", value)
}

// LocalInstant reads dt as a wall clock time in loc. Wall clock times
// skipped or repeated by a DST transition are refused. literal is the
// user input quoted back in errors.
func LocalInstant(dt civil.DateTime, loc *time.Location, literal string) (time.Time, error) {
	candidates := wallClockCandidates(dt, loc)
	switch len(candidates) {
	case 0:
		return time.Time{}, &NonexistentTimeError{Literal: literal, Zone: loc.String()}
	case 1:
		return candidates[0], nil
	default:
		return time.Time{}, &AmbiguousTimeError{
			Literal: literal,
			Earlier: candidates[0],
			Later:   candidates[len(candidates)-1],
		}
	}
}

// Every instant whose wall clock in loc reads dt. Offsets are sampled a
// day either side so both sides of a nearby transition are tried.
func wallClockCandidates(dt civil.DateTime, loc *time.Location) []time.Time {
	naive := dt.In(time.UTC)
	probe := dt.In(loc)

	seen := make(map[int]struct{})
	candidates := make([]time.Time, 0, 2)
	for _, at := range []time.Time{probe.Add(-24 * time.Hour), probe, probe.Add(24 * time.Hour)} {
		_, offset := at.Zone()
		if _, ok := seen[offset]; ok {
			continue
		}
		seen[offset] = struct{}{}

		candidate := naive.Add(-time.Duration(offset) * time.Second).In(loc)
		if civil.DateTimeOf(candidate) == dt {
			candidates = append(candidates, candidate)
		}
	}
	sort.Slice(candidates, func(i, j int) bool {
		return candidates[i].Before(candidates[j])
	})
	return candidates
}

// Existing is the stored timing of an event being edited.
type Existing struct {
	StartsAt time.Time
	EndsAt   time.Time
	AllDay   bool
}

// ExistingFromCanonical rebuilds an Existing from stored strings.
func ExistingFromCanonical(startsAt, endsAt string, allDay bool) (*Existing, error) {
	start, err := ParseInstant(startsAt)
	if err != nil {
		return nil, fmt.Errorf("ExistingFromCanonical: %w", err)
	}
	end, err := ParseInstant(endsAt)
	if err != nil {
		return nil, fmt.Errorf("ExistingFromCanonical: %w", err)
	}
	return &Existing{StartsAt: start, EndsAt: end, AllDay: allDay}, nil
}

type startStrategy func(r *Resolver, in TimingInput, existing *Existing) (start time.Time, ok bool, err error)

var startStrategies = []startStrategy{
	startFromInstant,
	startFromComponents,
}

// ResolveStart picks the start instant of a timed event.
func (r *Resolver) ResolveStart(in TimingInput, existing *Existing) (time.Time, error) {
	for _, strategy := range startStrategies {
		start, ok, err := strategy(r, in, existing)
		if err != nil {
			return time.Time{}, err
		}
		if ok {
			return start, nil
		}
	}
	return time.Time{}, ErrMissingStart
}

func startFromInstant(_ *Resolver, in TimingInput, _ *Existing) (time.Time, bool, error) {
	if !present(in.Start) {
		return time.Time{}, false, nil
	}
	start, err := ParseInstant(in.Start)
	return start, err == nil, err
}

func startFromComponents(r *Resolver, in TimingInput, existing *Existing) (time.Time, bool, error) {
	switch {
	case !present(in.Date) && !present(in.Time) && existing == nil:
		return time.Time{}, false, nil
	case !present(in.Date) && !present(in.Time):
		return existing.StartsAt, true, nil
	}

	loc := r.location()

	var date civil.Date
	switch {
	case present(in.Date):
		d, err := r.ParseDate(in.Date, r.baseDate(existing))
		if err != nil {
			return time.Time{}, true, err
		}
		date = d
	case existing != nil:
		date = civil.DateOf(existing.StartsAt.In(loc))
	default:
		date = r.Today()
	}

	var clock civil.Time
	switch {
	case present(in.Time):
		c, err := ParseTimeOfDay(in.Time)
		if err != nil {
			return time.Time{}, true, err
		}
		clock = c
	case existing != nil:
		clock = civil.TimeOf(existing.StartsAt.In(loc))
	default:
		return time.Time{}, true, ErrMissingTime
	}
	clock.Nanosecond = 0

	dt := civil.DateTime{Date: date, Time: clock}
	literal := strings.TrimSpace(in.Time)
	if literal == "" {
		literal = dt.String()
	}
	start, err := LocalInstant(dt, loc, literal)
	return start, err == nil, err
}

// The day relative tokens count from: the edited event's local start
// date, or today.
func (r *Resolver) baseDate(existing *Existing) civil.Date {
	if existing != nil {
		return civil.DateOf(existing.StartsAt.In(r.location()))
	}
	return r.Today()
}

func present(s string) bool {
	return strings.TrimSpace(s) != ""
}
