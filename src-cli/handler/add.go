package handler

import (
	"fmt"
	"log/slog"
	"time"
	"toki/src-cli/model"
	"toki/src-cli/utils"

	"github.com/urfave/cli/v2"
)

func Add(as *utils.AppState) {
	flags := []cli.Flag{
		&cli.StringFlag{Name: "title", Usage: "event title", Required: true},
	}
	flags = append(flags, timingFlags()...)
	flags = append(flags,
		&cli.BoolFlag{Name: "all-day", Usage: "store the event as whole days"},
		&cli.StringFlag{Name: "note", Usage: "free-form note"},
		&cli.StringSliceFlag{Name: "tag", Usage: "tag the event (repeatable)"},
	)

	as.AddAppCmd(&cli.Command{
		Name:   "add",
		Usage:  "store a new event",
		Flags:  flags,
		Action: addHandler(as),
	})
}

func addHandler(as *utils.AppState) cli.ActionFunc {
	return func(c *cli.Context) error {
		in := timingInput(c)
		in.AllDay = c.Bool("all-day")

		resolved, err := as.Resolver().Build(in, nil)
		if err != nil {
			return err
		}
		startsAt, endsAt := resolved.Canonical()

		event := &model.Event{
			Title:    c.String("title"),
			StartsAt: startsAt,
			EndsAt:   endsAt,
			Note:     c.String("note"),
			AllDay:   resolved.AllDay,
		}
		start := time.Now()
		id, err := model.InsertEvent(c.Context, as.BunDB, event, c.StringSlice("tag"))
		as.Metric.DatabaseWrite(start)
		if err != nil {
			return err
		}
		as.Metric.EventsWritten("add", 1)

		slog.Debug("event stored", "id", id, "starts_at", startsAt, "ends_at", endsAt, "all_day", resolved.AllDay)
		fmt.Fprintf(as.Stdout, "Stored event #%d\n", id)
		return nil
	}
}
