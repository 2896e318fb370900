package handler

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"
	"toki/src-cli/ical"
	"toki/src-cli/utils"

	"github.com/urfave/cli/v2"
)

var errNoImportSource = errors.New("provide --path or set import.source in the config file")

func Import(as *utils.AppState) {
	as.AddAppCmd(&cli.Command{
		Name:  "import",
		Usage: "import events from an .ics file",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "path", Usage: "ICS file to read (default: import.source)"},
		},
		Action: importHandler(as),
	})
}

func importHandler(as *utils.AppState) cli.ActionFunc {
	return func(c *cli.Context) error {
		path := c.String("path")
		if path == "" {
			path = as.Config.GetImportSource()
		}
		if path == "" {
			return errNoImportSource
		}

		f, err := os.Open(path)
		if err != nil {
			return fmt.Errorf("can't open calendar '%s': %w", path, err)
		}
		defer f.Close()

		start := time.Now()
		result, err := ical.Import(c.Context, as.BunDB, f, as.Config.GetLocation())
		as.Metric.DatabaseWrite(start)
		as.Metric.EventsWritten("import", result.Imported)
		if err != nil {
			return err
		}

		slog.Info("calendar imported", "path", path, "imported", result.Imported, "skipped", result.Skipped)
		fmt.Fprintf(as.Stdout, "Imported %d event(s), skipped %d\n", result.Imported, result.Skipped)
		return nil
	}
}
