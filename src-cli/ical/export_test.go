package ical_test

import (
	"strings"
	"testing"
	"time"
	"toki/src-cli/ical"
	"toki/src-cli/model"
	"toki/src-cli/timing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func exportFixture() []model.Event {
	return []model.Event{
		{
			ID:       1,
			Title:    "Offsite",
			StartsAt: "2025-05-31T15:00:00+00:00",
			EndsAt:   "2025-06-03T15:00:00+00:00",
			AllDay:   true,
			UID:      "offsite@example.com",
		},
		{
			ID:       2,
			Title:    "Standup",
			StartsAt: "2025-12-01T00:00:00+00:00",
			EndsAt:   "2025-12-01T00:30:00+00:00",
			Note:     "daily",
			Tags:     []*model.EventTag{{EventID: 2, Tag: "team"}, {EventID: 2, Tag: "work"}},
		},
	}
}

func TestRenderLocal(t *testing.T) {
	now := time.Date(2025, time.May, 1, 3, 0, 0, 0, time.UTC)
	out, err := ical.Render(exportFixture(), timing.LocalZone(tokyo(t)), now)
	require.NoError(t, err)

	assert.Contains(t, out, "BEGIN:VCALENDAR")
	assert.Contains(t, out, "PRODID:"+ical.ProductID)
	assert.Contains(t, out, "METHOD:PUBLISH")
	assert.Equal(t, 2, strings.Count(out, "BEGIN:VEVENT"))

	assert.Contains(t, out, "UID:offsite@example.com")
	assert.Contains(t, out, "DTSTART;VALUE=DATE:20250601")
	assert.Contains(t, out, "DTEND;VALUE=DATE:20250604")

	standup := exportFixture()[1]
	assert.Contains(t, out, "UID:"+standup.GUID())
	assert.Contains(t, out, "SUMMARY:Standup")
	assert.Contains(t, out, "DESCRIPTION:daily")
	assert.Contains(t, out, "CATEGORIES:team,work")
	assert.Contains(t, out, "DTSTART:20251201T000000Z")
	assert.Contains(t, out, "DTEND:20251201T003000Z")
	assert.Contains(t, out, "DTSTAMP:20250501T030000Z")
}

func TestRenderNamedZone(t *testing.T) {
	zone, err := timing.ResolveDisplayZone("America/New_York", nil)
	require.NoError(t, err)

	now := time.Date(2025, time.May, 1, 3, 0, 0, 0, time.UTC)
	out, err := ical.Render(exportFixture()[1:], zone, now)
	require.NoError(t, err)
	assert.Contains(t, out, "America/New_York")
	assert.Contains(t, out, ":20251130T190000")
	assert.Contains(t, out, ":20251130T193000")
	assert.NotContains(t, out, "T000000Z")
}

func TestRenderRoundTripsThroughImport(t *testing.T) {
	loc := tokyo(t)
	out, err := ical.Render(exportFixture(), timing.LocalZone(loc), time.Now())
	require.NoError(t, err)

	records, skipped, err := ical.ReadRecords(strings.NewReader(out), loc)
	require.NoError(t, err)
	assert.Empty(t, skipped)
	require.Len(t, records, 2)
	assert.Equal(t, "2025-05-31T15:00:00+00:00", records[0].Event.StartsAt)
	assert.Equal(t, "2025-06-03T15:00:00+00:00", records[0].Event.EndsAt)
	assert.True(t, records[0].Event.AllDay)
	assert.Equal(t, "2025-12-01T00:00:00+00:00", records[1].Event.StartsAt)
	assert.Equal(t, []string{"team", "work"}, records[1].Tags)
}
