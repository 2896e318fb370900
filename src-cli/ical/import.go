package ical

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"
	"toki/src-cli/model"
	"toki/src-cli/timing"

	ics "github.com/arran4/golang-ical"
	"github.com/uptrace/bun"
)

const defaultTitle = "Imported event"

var textUnescaper = strings.NewReplacer(`\n`, "\n", `\N`, "\n", `\,`, ",", `\;`, ";", `\\`, `\`)

// Record is one VEVENT mapped onto the store's shape.
type Record struct {
	Event model.Event
	Tags  []string
}

// ImportResult counts what an import stored and what it passed over.
type ImportResult struct {
	Imported int
	Skipped  int
}

// ReadRecords parses an ICS stream. Entries that can't become events are
// reported in skipped instead of failing the whole stream.
func ReadRecords(r io.Reader, loc *time.Location) (records []Record, skipped []error, err error) {
	cal, err := ics.ParseCalendar(r)
	if err != nil {
		return nil, nil, fmt.Errorf("ReadRecords: %w", err)
	}

	for _, vevent := range cal.Events() {
		record, err := recordFromVEvent(vevent, loc)
		if err != nil {
			skipped = append(skipped, err)
			continue
		}
		records = append(records, record)
	}
	return records, skipped, nil
}

func recordFromVEvent(vevent *ics.VEvent, loc *time.Location) (Record, error) {
	uid := propertyText(vevent, ics.ComponentPropertyUniqueId)
	title := propertyText(vevent, ics.ComponentPropertySummary)
	if strings.TrimSpace(title) == "" {
		title = defaultTitle
	}
	args := map[string]any{"uid": uid, "summary": title}

	startProp := vevent.GetProperty(ics.ComponentPropertyDtStart)
	if startProp == nil {
		return Record{}, NewRecordError("missing DTSTART", args)
	}
	start, err := ParseBoundary(startProp.Value, startProp.ICalParameters, loc)
	if err != nil {
		args["error"] = err
		return Record{}, NewRecordError("invalid DTSTART", args)
	}

	var end time.Time
	if endProp := vevent.GetProperty(ics.ComponentPropertyDtEnd); endProp != nil {
		boundary, err := ParseBoundary(endProp.Value, endProp.ICalParameters, loc)
		if err != nil {
			args["error"] = err
			return Record{}, NewRecordError("invalid DTEND", args)
		}
		if start.AllDay && !boundary.AllDay {
			args["dtend"] = endProp.Value
			return Record{}, NewRecordError("DTEND must be a date when DTSTART is a date", args)
		}
		end = boundary.At
	} else if end, err = DefaultEnd(start); err != nil {
		args["error"] = err
		return Record{}, NewRecordError("invalid DTSTART", args)
	}
	if !end.After(start.At) {
		return Record{}, NewRecordError("DTEND is not after DTSTART", args)
	}

	tags := make([]string, 0)
	for _, prop := range vevent.GetProperties(ics.ComponentPropertyCategories) {
		for _, category := range splitList(prop.Value) {
			tags = append(tags, unescapeText(category))
		}
	}

	return Record{
		Event: model.Event{
			Title:    title,
			StartsAt: timing.Canonical(start.At),
			EndsAt:   timing.Canonical(end),
			Note:     propertyText(vevent, ics.ComponentPropertyDescription),
			AllDay:   start.AllDay,
			UID:      strings.TrimSpace(uid),
		},
		Tags: tags,
	}, nil
}

// Import stores every new entry of an ICS stream, each in its own
// transaction. Entries whose UID is already stored are skipped.
func Import(ctx context.Context, db bun.IDB, r io.Reader, loc *time.Location) (ImportResult, error) {
	records, invalid, err := ReadRecords(r, loc)
	if err != nil {
		return ImportResult{}, fmt.Errorf("Import: %w", err)
	}

	result := ImportResult{Skipped: len(invalid)}
	for _, err := range invalid {
		slog.Warn("skipping calendar entry", "error", err)
	}

	for i := range records {
		record := &records[i]
		if record.Event.UID != "" {
			exists, err := model.HasEventWithUID(ctx, db, record.Event.UID)
			if err != nil {
				return result, fmt.Errorf("Import: %w", err)
			}
			if exists {
				slog.Debug("skipping already imported entry", "uid", record.Event.UID)
				result.Skipped++
				continue
			}
		}
		_, err := model.InsertEvent(ctx, db, &record.Event, record.Tags)
		switch {
		case errors.Is(err, model.ErrInvalidEvent):
			slog.Warn("skipping calendar entry", "uid", record.Event.UID, "error", err)
			result.Skipped++
			continue
		case err != nil:
			return result, fmt.Errorf("Import: %w", err)
		}
		result.Imported++
	}
	return result, nil
}

func propertyText(vevent *ics.VEvent, property ics.ComponentProperty) string {
	prop := vevent.GetProperty(property)
	if prop == nil {
		return ""
	}
	return unescapeText(prop.Value)
}

func unescapeText(s string) string {
	return strings.TrimSpace(textUnescaper.Replace(s))
}

// splitList splits a multi-valued text property on commas that are not
// escaped, leaving the escapes for unescapeText.
func splitList(value string) []string {
	var parts []string
	var b strings.Builder
	escaped := false
	for _, r := range value {
		switch {
		case escaped:
			b.WriteRune('\\')
			b.WriteRune(r)
			escaped = false
		case r == '\\':
			escaped = true
		case r == ',':
			parts = append(parts, b.String())
			b.Reset()
		default:
			b.WriteRune(r)
		}
	}
	if escaped {
		b.WriteRune('\\')
	}
	return append(parts, b.String())
}
