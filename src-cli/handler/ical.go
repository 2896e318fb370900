package handler

import (
	"toki/src-cli/ical"
	"toki/src-cli/utils"

	"github.com/urfave/cli/v2"
)

func Ical(as *utils.AppState) {
	flags := append(viewFlags(),
		&cli.StringFlag{Name: "output", Usage: "write the calendar here instead of stdout (default: ical.output)"},
	)

	as.AddAppCmd(&cli.Command{
		Name:   "ical",
		Usage:  "emit stored events as an iCalendar feed",
		Flags:  flags,
		Action: icalHandler(as),
	})
}

func icalHandler(as *utils.AppState) cli.ActionFunc {
	return func(c *cli.Context) error {
		events, zone, err := loadView(c, as)
		if err != nil {
			return err
		}
		content, err := ical.Render(events, zone, as.Now())
		if err != nil {
			return err
		}

		path := c.String("output")
		if path == "" {
			path = as.Config.GetIcalOutput()
		}
		return writeOutput(as, path, content, "iCalendar feed", len(events))
	}
}
