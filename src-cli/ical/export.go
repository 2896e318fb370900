package ical

import (
	"fmt"
	"strings"
	"time"
	"toki/src-cli/model"
	"toki/src-cli/timing"

	"cloud.google.com/go/civil"
	ics "github.com/arran4/golang-ical"
)

const ProductID = "-//toki//schedule//EN"

// Render serializes events as a VCALENDAR. Timed events are written in
// UTC for the local zone and with a TZID for a named zone.
func Render(events []model.Event, zone timing.DisplayZone, now time.Time) (string, error) {
	loc := zone.Location()
	if loc == nil {
		zone = timing.LocalZone(nil)
		loc = zone.Location()
	}

	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId(ProductID)

	for i := range events {
		e := &events[i]
		start, err := timing.ParseInstant(e.StartsAt)
		if err != nil {
			return "", fmt.Errorf("Render: event #%d: %w", e.ID, err)
		}
		end, err := timing.ParseInstant(e.EndsAt)
		if err != nil {
			return "", fmt.Errorf("Render: event #%d: %w", e.ID, err)
		}

		vevent := cal.AddEvent(e.GUID())
		vevent.SetDtStampTime(now.UTC())
		vevent.SetSummary(e.Title)
		if e.Note != "" {
			vevent.SetDescription(e.Note)
		}
		if tags := e.TagNames(); len(tags) > 0 {
			vevent.SetProperty(ics.ComponentPropertyCategories, strings.Join(tags, ","))
		}

		switch {
		case e.AllDay:
			dateValue := ics.WithValue(string(ics.ValueDataTypeDate))
			vevent.SetProperty(ics.ComponentPropertyDtStart, icalDate(civil.DateOf(start.In(loc))), dateValue)
			vevent.SetProperty(ics.ComponentPropertyDtEnd, icalDate(civil.DateOf(end.In(loc))), dateValue)
		case zone.IsLocal():
			vevent.SetStartAt(start)
			vevent.SetEndAt(end)
		default:
			tzid := &ics.KeyValues{Key: string(ics.ParameterTzid), Value: []string{zone.Name()}}
			vevent.SetProperty(ics.ComponentPropertyDtStart, start.In(loc).Format("20060102T150405"), tzid)
			vevent.SetProperty(ics.ComponentPropertyDtEnd, end.In(loc).Format("20060102T150405"), tzid)
		}
	}

	return cal.Serialize(), nil
}

func icalDate(d civil.Date) string {
	return fmt.Sprintf("%04d%02d%02d", d.Year, int(d.Month), d.Day)
}
