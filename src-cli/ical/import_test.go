package ical_test

import (
	"context"
	"database/sql"
	"path/filepath"
	"strings"
	"testing"
	"toki/src-cli/ical"
	"toki/src-cli/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
)

func icsText(lines ...string) string {
	return strings.Join(lines, "\r\n") + "\r\n"
}

var sampleCalendar = icsText(
	"BEGIN:VCALENDAR",
	"VERSION:2.0",
	"PRODID:-//example//test//EN",
	// all-day with an explicit exclusive end
	"BEGIN:VEVENT",
	"UID:offsite@example.com",
	"SUMMARY:Team\\, offsite",
	"DESCRIPTION:Bring laptops\\nand chargers",
	"CATEGORIES:Work,Travel",
	"DTSTART;VALUE=DATE:20250601",
	"DTEND;VALUE=DATE:20250603",
	"END:VEVENT",
	// utc without an end
	"BEGIN:VEVENT",
	"UID:call@example.com",
	"SUMMARY:Call",
	"DTSTART:20251201T090000Z",
	"END:VEVENT",
	// named zone
	"BEGIN:VEVENT",
	"UID:standup@example.com",
	"SUMMARY:Standup",
	"DTSTART;TZID=America/New_York:20251201T090000",
	"DTEND;TZID=America/New_York:20251201T100000",
	"END:VEVENT",
	// bare wall clock, no uid, no summary
	"BEGIN:VEVENT",
	"DTSTART:20251202T090000",
	"END:VEVENT",
	// date only form without a value type, no end
	"BEGIN:VEVENT",
	"UID:holiday@example.com",
	"SUMMARY:Holiday",
	"DTSTART:20250701",
	"END:VEVENT",
	// ambiguous wall clock
	"BEGIN:VEVENT",
	"UID:ambiguous@example.com",
	"SUMMARY:Ambiguous",
	"DTSTART;TZID=America/New_York:20251102T013000",
	"END:VEVENT",
	// no start
	"BEGIN:VEVENT",
	"UID:nostart@example.com",
	"SUMMARY:No start",
	"END:VEVENT",
	// repeated uid
	"BEGIN:VEVENT",
	"UID:offsite@example.com",
	"SUMMARY:Offsite again",
	"DTSTART;VALUE=DATE:20250601",
	"END:VEVENT",
	"END:VCALENDAR",
)

func openTestDB(t *testing.T) *bun.DB {
	t.Helper()
	raw, err := sql.Open(sqliteshim.ShimName, filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	raw.SetMaxOpenConns(1)
	bundb := bun.NewDB(raw, sqlitedialect.New())
	t.Cleanup(func() { bundb.Close() })
	require.NoError(t, model.CreateSchema(context.Background(), bundb))
	return bundb
}

func TestReadRecords(t *testing.T) {
	records, skipped, err := ical.ReadRecords(strings.NewReader(sampleCalendar), tokyo(t))
	require.NoError(t, err)
	assert.Len(t, skipped, 2)
	require.Len(t, records, 6)

	offsite := records[0]
	assert.Equal(t, "Team, offsite", offsite.Event.Title)
	assert.Equal(t, "Bring laptops\nand chargers", offsite.Event.Note)
	assert.Equal(t, "offsite@example.com", offsite.Event.UID)
	assert.True(t, offsite.Event.AllDay)
	assert.Equal(t, "2025-05-31T15:00:00+00:00", offsite.Event.StartsAt)
	assert.Equal(t, "2025-06-02T15:00:00+00:00", offsite.Event.EndsAt)
	assert.Equal(t, []string{"Work", "Travel"}, offsite.Tags)

	call := records[1]
	assert.Equal(t, "2025-12-01T09:00:00+00:00", call.Event.StartsAt)
	assert.Equal(t, "2025-12-01T10:00:00+00:00", call.Event.EndsAt)

	standup := records[2]
	assert.Equal(t, "2025-12-01T14:00:00+00:00", standup.Event.StartsAt)
	assert.Equal(t, "2025-12-01T15:00:00+00:00", standup.Event.EndsAt)

	bare := records[3]
	assert.Equal(t, "Imported event", bare.Event.Title)
	assert.Equal(t, "", bare.Event.UID)
	assert.Equal(t, "2025-12-02T09:00:00+00:00", bare.Event.StartsAt)

	holiday := records[4]
	assert.True(t, holiday.Event.AllDay)
	assert.Equal(t, "2025-06-30T15:00:00+00:00", holiday.Event.StartsAt)
	assert.Equal(t, "2025-07-01T15:00:00+00:00", holiday.Event.EndsAt)

	for _, err := range skipped {
		var recordErr *ical.RecordError
		assert.ErrorAs(t, err, &recordErr)
	}
}

func TestImport(t *testing.T) {
	ctx := context.Background()
	bundb := openTestDB(t)

	result, err := ical.Import(ctx, bundb, strings.NewReader(sampleCalendar), tokyo(t))
	require.NoError(t, err)
	assert.Equal(t, ical.ImportResult{Imported: 5, Skipped: 3}, result)

	events, err := model.ListEvents(ctx, bundb, nil)
	require.NoError(t, err)
	require.Len(t, events, 5)
	assert.Equal(t, "Team, offsite", events[0].Title)
	assert.Equal(t, []string{"travel", "work"}, events[0].TagNames())

	// a second pass only brings in the entry without a uid again
	result, err = ical.Import(ctx, bundb, strings.NewReader(sampleCalendar), tokyo(t))
	require.NoError(t, err)
	assert.Equal(t, ical.ImportResult{Imported: 1, Skipped: 7}, result)
}

func TestReadRecordsCategoriesKeepEscapedCommas(t *testing.T) {
	records, skipped, err := ical.ReadRecords(strings.NewReader(icsText(
		"BEGIN:VCALENDAR",
		"VERSION:2.0",
		"PRODID:-//example//test//EN",
		"BEGIN:VEVENT",
		"UID:escaped@example.com",
		"SUMMARY:Escaped",
		"DTSTART:20251201T090000Z",
		"CATEGORIES:R&D\\, Ops,Home,back\\\\slash",
		"END:VEVENT",
		"END:VCALENDAR",
	)), tokyo(t))
	require.NoError(t, err)
	assert.Empty(t, skipped)
	require.Len(t, records, 1)
	assert.Equal(t, []string{"R&D, Ops", "Home", "back\\slash"}, records[0].Tags)
}

func TestReadRecordsAllDayStartNeedsDateEnd(t *testing.T) {
	records, skipped, err := ical.ReadRecords(strings.NewReader(icsText(
		"BEGIN:VCALENDAR",
		"VERSION:2.0",
		"PRODID:-//example//test//EN",
		"BEGIN:VEVENT",
		"UID:mixed@example.com",
		"SUMMARY:Mixed",
		"DTSTART;VALUE=DATE:20250601",
		"DTEND:20250601T100000Z",
		"END:VEVENT",
		"END:VCALENDAR",
	)), tokyo(t))
	require.NoError(t, err)
	assert.Empty(t, records)
	require.Len(t, skipped, 1)
	assert.Contains(t, skipped[0].Error(), "DTEND must be a date when DTSTART is a date")
}

func TestImportReturnsStoreErrors(t *testing.T) {
	ctx := context.Background()
	bundb := openTestDB(t)

	_, err := bundb.NewDropTable().Model((*model.EventTag)(nil)).Exec(ctx)
	require.NoError(t, err)

	result, err := ical.Import(ctx, bundb, strings.NewReader(icsText(
		"BEGIN:VCALENDAR",
		"VERSION:2.0",
		"PRODID:-//example//test//EN",
		"BEGIN:VEVENT",
		"UID:tagged@example.com",
		"SUMMARY:Tagged",
		"DTSTART:20251201T090000Z",
		"CATEGORIES:Work",
		"END:VEVENT",
		"END:VCALENDAR",
	)), tokyo(t))
	require.Error(t, err)
	assert.NotErrorIs(t, err, model.ErrInvalidEvent)
	assert.Equal(t, ical.ImportResult{}, result)

	// the event row went back with the failed tag insert
	count, err := bundb.NewSelect().Model((*model.Event)(nil)).Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)
}
