package handler

import (
	"errors"
	"fmt"
	"strings"
	"time"
	"toki/src-cli/model"
	"toki/src-cli/utils"

	"github.com/urfave/cli/v2"
)

var errNoTarget = errors.New("Provide either --id or --title")

func Delete(as *utils.AppState) {
	as.AddAppCmd(&cli.Command{
		Name:  "delete",
		Usage: "delete events by id or by title",
		Flags: []cli.Flag{
			&cli.Int64Flag{Name: "id", Usage: "event id"},
			&cli.StringFlag{Name: "title", Usage: "delete every event with this exact title"},
		},
		Action: deleteHandler(as),
	})
}

func deleteHandler(as *utils.AppState) cli.ActionFunc {
	return func(c *cli.Context) error {
		hasID := c.IsSet("id")
		id := c.Int64("id")
		title := strings.TrimSpace(c.String("title"))

		if !hasID && title == "" {
			return errNoTarget
		}

		start := time.Now()
		defer as.Metric.DatabaseWrite(start)

		// #region | by id
		if hasID {
			removed, err := model.DeleteEventByID(c.Context, as.BunDB, id)
			if err != nil {
				return err
			}
			switch {
			case removed:
				as.Metric.EventsWritten("delete", 1)
				if title != "" {
					fmt.Fprintf(as.Stdout, "Deleted event #%d titled '%s'\n", id, title)
				} else {
					fmt.Fprintf(as.Stdout, "Deleted event #%d\n", id)
				}
				return nil
			case title == "":
				fmt.Fprintf(as.Stdout, "No event found with id %d\n", id)
				return nil
			default:
				fmt.Fprintf(as.Stdout, "No event #%d; attempting title deletion\n", id)
			}
		}
		// #endregion

		// #region | by title
		count, err := model.DeleteEventsByTitle(c.Context, as.BunDB, title)
		if err != nil {
			return err
		}
		if count == 0 {
			fmt.Fprintf(as.Stdout, "No events found titled '%s'\n", title)
			return nil
		}
		as.Metric.EventsWritten("delete", count)
		fmt.Fprintf(as.Stdout, "Deleted %d event(s) titled '%s'\n", count, title)
		// #endregion

		return nil
	}
}
