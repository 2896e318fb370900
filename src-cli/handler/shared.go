package handler

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
	"toki/src-cli/model"
	"toki/src-cli/timing"
	"toki/src-cli/utils"

	"cloud.google.com/go/civil"
	"github.com/urfave/cli/v2"
)

// timingFlags are shared by add and move.
func timingFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "start", Usage: "start instant in RFC3339 (a date also works with --all-day)"},
		&cli.StringFlag{Name: "end", Usage: "end instant in RFC3339 (the last day with --all-day)"},
		&cli.StringFlag{Name: "date", Usage: "start date: YYYY-MM-DD, today, tomorrow, +2d, in 3 days, 明日, 3日後, ..."},
		&cli.StringFlag{Name: "time", Usage: "start time of day, HH:MM or HH:MM:SS"},
		&cli.StringFlag{Name: "duration", Usage: "length of the event, e.g. 45m or 1h30m"},
	}
}

func timingInput(c *cli.Context) timing.TimingInput {
	return timing.TimingInput{
		Start:    c.String("start"),
		End:      c.String("end"),
		Date:     c.String("date"),
		Time:     c.String("time"),
		Duration: c.String("duration"),
	}
}

// viewFlags are shared by list and the feed commands.
func viewFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "day", Usage: "only events overlapping this day (YYYY-MM-DD or a relative token)"},
		&cli.StringFlag{Name: "tz", Usage: "IANA timezone to display times in (default: local)"},
	}
}

// loadView resolves --tz and --day and reads the matching events.
func loadView(c *cli.Context, as *utils.AppState) ([]model.Event, timing.DisplayZone, error) {
	zone, err := timing.ResolveDisplayZone(c.String("tz"), as.Config.GetLocation())
	if err != nil {
		return nil, zone, err
	}
	window, err := dayWindow(as, c.String("day"), zone)
	if err != nil {
		return nil, zone, err
	}

	start := time.Now()
	events, err := model.ListEvents(c.Context, as.BunDB, window)
	as.Metric.DatabaseRead(start)
	if err != nil {
		return nil, zone, err
	}
	return events, zone, nil
}

// dayWindow is [midnight, next midnight) of day in the display zone. A
// blank day means no window.
func dayWindow(as *utils.AppState, day string, zone timing.DisplayZone) (*model.Window, error) {
	if strings.TrimSpace(day) == "" {
		return nil, nil
	}
	loc := zone.Location()
	today := civil.DateOf(as.Now().In(loc))
	d, err := as.Resolver().ParseDate(day, today)
	if err != nil {
		return nil, err
	}
	next, err := timing.AddDays(d, 1)
	if err != nil {
		return nil, err
	}
	return &model.Window{
		Start: timing.Canonical(timing.StartOfDay(d, loc)),
		End:   timing.Canonical(timing.StartOfDay(next, loc)),
	}, nil
}

// writeOutput writes a rendered document to path, or to stdout when path
// is blank.
func writeOutput(as *utils.AppState, path, content, kind string, count int) error {
	if path == "" {
		_, err := fmt.Fprint(as.Stdout, content)
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("writeOutput: can't create directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return fmt.Errorf("writeOutput: %w", err)
	}
	fmt.Fprintf(as.Stdout, "Wrote %s with %d event(s) to %s\n", kind, count, path)
	return nil
}
