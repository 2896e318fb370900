package handler

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
	"toki/src-cli/model"
	"toki/src-cli/timing"
	"toki/src-cli/utils"

	"github.com/uptrace/bun"
	"github.com/urfave/cli/v2"
)

var errNoTimingChange = errors.New("provide --start/--date/--time/--end/--duration to adjust an event")

func Move(as *utils.AppState) {
	flags := []cli.Flag{
		&cli.Int64Flag{Name: "id", Usage: "event id"},
		&cli.StringFlag{Name: "title", Usage: "exact title of the event (must be unique)"},
	}
	flags = append(flags, timingFlags()...)

	as.AddAppCmd(&cli.Command{
		Name:   "move",
		Usage:  "change when an event happens",
		Flags:  flags,
		Action: moveHandler(as),
	})
}

func moveHandler(as *utils.AppState) cli.ActionFunc {
	return func(c *cli.Context) error {
		in := timingInput(c)
		if !in.HasAny() {
			return errNoTimingChange
		}

		var moved *model.Event
		start := time.Now()
		err := as.BunDB.RunInTx(c.Context, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
			target, err := findMoveTarget(ctx, tx, c)
			if err != nil {
				return err
			}
			existing, err := target.Existing()
			if err != nil {
				return err
			}
			next, err := as.Resolver().Build(in, existing)
			if err != nil {
				return err
			}
			ok, err := model.UpdateEventTiming(ctx, tx, target.ID, next)
			if err != nil {
				return err
			}
			if !ok {
				return model.ErrEventNotFound
			}
			target.StartsAt, target.EndsAt = next.Canonical()
			target.AllDay = next.AllDay
			moved = target
			return nil
		})
		as.Metric.DatabaseWrite(start)
		if err != nil {
			return err
		}
		as.Metric.EventsWritten("move", 1)

		summary, err := timing.Render(moved.Span(), timing.LocalZone(as.Config.GetLocation()))
		if err != nil {
			return err
		}
		fmt.Fprintf(as.Stdout, "Moved event #%d %s\n", moved.ID, summary)
		return nil
	}
}

// findMoveTarget resolves --id or a title that matches exactly one event.
func findMoveTarget(ctx context.Context, db bun.IDB, c *cli.Context) (*model.Event, error) {
	title := strings.TrimSpace(c.String("title"))
	switch {
	case c.IsSet("id"):
		id := c.Int64("id")
		event, err := model.GetEventByID(ctx, db, id)
		if errors.Is(err, model.ErrEventNotFound) {
			return nil, fmt.Errorf("No event found with id %d", id)
		}
		return event, err
	case title != "":
		events, err := model.ListEventsByTitle(ctx, db, title)
		if err != nil {
			return nil, err
		}
		switch len(events) {
		case 0:
			return nil, fmt.Errorf("No events found titled '%s'", title)
		case 1:
			return &events[0], nil
		default:
			return nil, fmt.Errorf("Multiple events titled '%s'. Use --id to specify which one to move.", title)
		}
	default:
		return nil, errNoTarget
	}
}
