package ical_test

import (
	"errors"
	"testing"
	"time"
	"toki/src-cli/ical"
	"toki/src-cli/timing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "time/tzdata"
)

func tokyo(t *testing.T) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation("Asia/Tokyo")
	require.NoError(t, err)
	return loc
}

func TestParseBoundary(t *testing.T) {
	loc := tokyo(t)

	for _, tc := range []struct {
		name       string
		value      string
		params     map[string][]string
		wantAt     string
		wantAllDay bool
	}{
		{
			name:       "eight digit date",
			value:      "20250601",
			wantAt:     "2025-05-31T15:00:00+00:00",
			wantAllDay: true,
		},
		{
			name:       "date value type",
			value:      "20250601",
			params:     map[string][]string{"VALUE": {"DATE"}},
			wantAt:     "2025-05-31T15:00:00+00:00",
			wantAllDay: true,
		},
		{
			name:   "utc marker",
			value:  "20251201T090000Z",
			wantAt: "2025-12-01T09:00:00+00:00",
		},
		{
			name:   "named zone",
			value:  "20251201T090000",
			params: map[string][]string{"TZID": {"America/New_York"}},
			wantAt: "2025-12-01T14:00:00+00:00",
		},
		{
			name:   "quoted named zone",
			value:  "20250601T090000",
			params: map[string][]string{"tzid": {`"Europe/Paris"`}},
			wantAt: "2025-06-01T07:00:00+00:00",
		},
		{
			name:   "bare wall clock is taken as utc",
			value:  "20251201T090000",
			wantAt: "2025-12-01T09:00:00+00:00",
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ical.ParseBoundary(tc.value, tc.params, loc)
			require.NoError(t, err)
			assert.Equal(t, tc.wantAllDay, got.AllDay)
			assert.Equal(t, tc.wantAt, timing.Canonical(got.At))
		})
	}
}

func TestParseBoundaryRejects(t *testing.T) {
	loc := tokyo(t)

	_, err := ical.ParseBoundary("20251102T013000", map[string][]string{"TZID": {"America/New_York"}}, loc)
	var ambiguousErr *timing.AmbiguousTimeError
	assert.True(t, errors.As(err, &ambiguousErr))

	_, err = ical.ParseBoundary("20250309T023000", map[string][]string{"TZID": {"America/New_York"}}, loc)
	var gapErr *timing.NonexistentTimeError
	assert.True(t, errors.As(err, &gapErr))

	_, err = ical.ParseBoundary("20251201T090000", map[string][]string{"TZID": {"Mars/Olympus"}}, loc)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown timezone 'Mars/Olympus'")

	for _, value := range []string{"2025-12-01", "20251301", "20251201T0900", "tomorrow"} {
		_, err := ical.ParseBoundary(value, nil, loc)
		require.Error(t, err, value)
		assert.Contains(t, err.Error(), "'"+value+"'")
	}

	_, err = ical.ParseBoundary("20251201T090000", map[string][]string{"VALUE": {"DATE"}}, loc)
	assert.Error(t, err)
}

func TestDefaultEnd(t *testing.T) {
	loc := tokyo(t)

	allDay, err := ical.ParseBoundary("20250601", nil, loc)
	require.NoError(t, err)
	end, err := ical.DefaultEnd(allDay)
	require.NoError(t, err)
	assert.Equal(t, "2025-06-01T15:00:00+00:00", timing.Canonical(end))

	timed, err := ical.ParseBoundary("20251201T090000Z", nil, loc)
	require.NoError(t, err)
	end, err = ical.DefaultEnd(timed)
	require.NoError(t, err)
	assert.Equal(t, "2025-12-01T10:00:00+00:00", timing.Canonical(end))
}
