package timing

import (
	"time"

	"cloud.google.com/go/civil"
)

const (
	defaultTimedSpan = 30 * time.Minute
	minimumTimedSpan = time.Minute
	defaultDaySpan   = 1
)

// TimingInput carries the raw timing fields of one create or edit
// request. Blank strings are fields the user did not supply.
type TimingInput struct {
	Start    string
	End      string
	Date     string
	Time     string
	Duration string
	AllDay   bool
}

// HasAny reports whether any timing field was supplied.
func (in TimingInput) HasAny() bool {
	return present(in.Start) || present(in.End) || present(in.Date) || present(in.Time) || present(in.Duration)
}

// Timing is a resolved event range, end exclusive.
type Timing struct {
	StartsAt time.Time
	EndsAt   time.Time
	AllDay   bool
}

// Canonical returns the stored form of both boundaries.
func (t Timing) Canonical() (startsAt, endsAt string) {
	return Canonical(t.StartsAt), Canonical(t.EndsAt)
}

// Build resolves in into a Timing. existing is nil on creation; on an
// edit it supplies fallbacks and the all-day flag, which edits keep.
func (r *Resolver) Build(in TimingInput, existing *Existing) (Timing, error) {
	allDay := in.AllDay
	if existing != nil {
		allDay = existing.AllDay
	}
	if allDay {
		return r.buildAllDay(in, existing)
	}
	return r.buildTimed(in, existing)
}

type endStrategy func(r *Resolver, in TimingInput, start time.Time, existing *Existing) (end time.Time, ok bool, err error)

var timedEndStrategies = []endStrategy{
	endFromInstant,
	endFromDuration,
	endFromPreviousSpan,
	endFromDefaultSpan,
}

func (r *Resolver) buildTimed(in TimingInput, existing *Existing) (Timing, error) {
	start, err := r.ResolveStart(in, existing)
	if err != nil {
		return Timing{}, err
	}
	start = start.Truncate(time.Second)
	if !instantInRange(start) {
		return Timing{}, rangeErrorf("start time '%s' is out of range", start.Format(time.RFC3339))
	}

	var end time.Time
	for _, strategy := range timedEndStrategies {
		candidate, ok, err := strategy(r, in, start, existing)
		if err != nil {
			return Timing{}, err
		}
		if ok {
			end = candidate.Truncate(time.Second)
			break
		}
	}
	if !instantInRange(end) {
		return Timing{}, rangeErrorf("end time '%s' is out of range", end.Format(time.RFC3339))
	}
	if !end.After(start) {
		return Timing{}, ErrEndNotAfterStart
	}
	return Timing{StartsAt: start.UTC(), EndsAt: end.UTC()}, nil
}

func endFromInstant(_ *Resolver, in TimingInput, _ time.Time, _ *Existing) (time.Time, bool, error) {
	if !present(in.End) {
		return time.Time{}, false, nil
	}
	end, err := ParseInstant(in.End)
	return end, err == nil, err
}

func endFromDuration(_ *Resolver, in TimingInput, start time.Time, _ *Existing) (time.Time, bool, error) {
	if !present(in.Duration) {
		return time.Time{}, false, nil
	}
	d, err := ParseDuration(in.Duration)
	if err != nil {
		return time.Time{}, false, err
	}
	end := start.Add(d)
	if !instantInRange(end) {
		return time.Time{}, false, rangeErrorf("duration pushes end time out of range")
	}
	return end, true, nil
}

func endFromPreviousSpan(_ *Resolver, _ TimingInput, start time.Time, existing *Existing) (time.Time, bool, error) {
	if existing == nil {
		return time.Time{}, false, nil
	}
	span := existing.EndsAt.Sub(existing.StartsAt)
	if span <= 0 {
		span = minimumTimedSpan
	}
	return start.Add(span), true, nil
}

func endFromDefaultSpan(_ *Resolver, _ TimingInput, start time.Time, _ *Existing) (time.Time, bool, error) {
	return start.Add(defaultTimedSpan), true, nil
}

func (r *Resolver) buildAllDay(in TimingInput, existing *Existing) (Timing, error) {
	if present(in.Duration) {
		return Timing{}, ErrDurationWithAllDay
	}
	loc := r.location()
	base := r.baseDate(existing)

	var startDate civil.Date
	switch {
	case present(in.Start):
		d, err := r.dayOf(in.Start, base)
		if err != nil {
			return Timing{}, err
		}
		startDate = d
	case present(in.Date):
		d, err := r.dayOf(in.Date, base)
		if err != nil {
			return Timing{}, err
		}
		startDate = d
	case existing != nil:
		startDate = civil.DateOf(existing.StartsAt.In(loc))
	default:
		return Timing{}, ErrMissingAllDayStart
	}

	var endDate civil.Date
	switch {
	case present(in.End):
		last, err := r.dayOf(in.End, base)
		if err != nil {
			return Timing{}, err
		}
		if endDate, err = AddDays(last, 1); err != nil {
			return Timing{}, err
		}
	case existing != nil:
		days := civil.DateOf(existing.EndsAt.In(loc)).DaysSince(civil.DateOf(existing.StartsAt.In(loc)))
		if days <= 0 {
			days = defaultDaySpan
		}
		d, err := AddDays(startDate, int64(days))
		if err != nil {
			return Timing{}, err
		}
		endDate = d
	default:
		d, err := AddDays(startDate, defaultDaySpan)
		if err != nil {
			return Timing{}, err
		}
		endDate = d
	}

	start, end := StartOfDay(startDate, loc), StartOfDay(endDate, loc)
	if !instantInRange(start) || !instantInRange(end) {
		return Timing{}, rangeErrorf("all-day range %s -> %s is out of range", startDate, endDate)
	}
	if !end.After(start) {
		return Timing{}, ErrEndNotAfterStart
	}
	return Timing{StartsAt: start.UTC(), EndsAt: end.UTC(), AllDay: true}, nil
}

// dayOf reads a calendar day from a date field. RFC3339 input is accepted
// and reduced to its local date.
func (r *Resolver) dayOf(value string, base civil.Date) (civil.Date, error) {
	d, err := r.ParseDate(value, base)
	if err == nil {
		return d, nil
	}
	if t, instantErr := ParseInstant(value); instantErr == nil {
		return civil.DateOf(t.In(r.location())), nil
	}
	return civil.Date{}, err
}

// StartOfDay is local midnight of d in loc.
func StartOfDay(d civil.Date, loc *time.Location) time.Time {
	return d.In(loc)
}
