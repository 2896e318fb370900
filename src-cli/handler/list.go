package handler

import (
	"fmt"
	"strings"
	"toki/src-cli/timing"
	"toki/src-cli/utils"

	"github.com/fatih/color"
	"github.com/urfave/cli/v2"
)

var headerColor = color.New(color.Bold, color.FgCyan)

func List(as *utils.AppState) {
	as.AddAppCmd(&cli.Command{
		Name:   "list",
		Usage:  "list stored events in start order",
		Flags:  viewFlags(),
		Action: listHandler(as),
	})
}

func listHandler(as *utils.AppState) cli.ActionFunc {
	return func(c *cli.Context) error {
		events, zone, err := loadView(c, as)
		if err != nil {
			return err
		}
		if len(events) == 0 {
			fmt.Fprintln(as.Stdout, "No events found")
			return nil
		}

		for i := range events {
			event := &events[i]
			summary, err := timing.Render(event.Span(), zone)
			if err != nil {
				return fmt.Errorf("listHandler: event #%d: %w", event.ID, err)
			}
			headerColor.Fprintf(as.Stdout, "#%d %s\n", event.ID, event.Title)
			fmt.Fprintf(as.Stdout, "    %s\n", summary)
			if tags := event.TagNames(); len(tags) > 0 {
				fmt.Fprintf(as.Stdout, "    tags: %s\n", strings.Join(tags, ", "))
			}
			if note := strings.TrimSpace(event.Note); note != "" {
				fmt.Fprintf(as.Stdout, "    note: %s\n", note)
			}
			fmt.Fprintln(as.Stdout)
		}
		return nil
	}
}
