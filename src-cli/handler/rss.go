package handler

import (
	"toki/src-cli/rss"
	"toki/src-cli/utils"

	"github.com/urfave/cli/v2"
)

func RSS(as *utils.AppState) {
	defaults := rss.DefaultChannel()
	flags := append(viewFlags(),
		&cli.StringFlag{Name: "output", Usage: "write the feed here instead of stdout (default: rss.output)"},
		&cli.StringFlag{Name: "title", Usage: "channel title", Value: defaults.Title},
		&cli.StringFlag{Name: "link", Usage: "channel link", Value: defaults.Link},
		&cli.StringFlag{Name: "description", Usage: "channel description", Value: defaults.Description},
	)

	as.AddAppCmd(&cli.Command{
		Name:   "rss",
		Usage:  "emit stored events as an RSS 2.0 feed",
		Flags:  flags,
		Action: rssHandler(as),
	})
}

func rssHandler(as *utils.AppState) cli.ActionFunc {
	return func(c *cli.Context) error {
		events, zone, err := loadView(c, as)
		if err != nil {
			return err
		}
		content, err := rss.Render(rss.Channel{
			Title:       c.String("title"),
			Link:        c.String("link"),
			Description: c.String("description"),
		}, events, zone, as.Now())
		if err != nil {
			return err
		}

		path := c.String("output")
		if path == "" {
			path = as.Config.GetRSSOutput()
		}
		return writeOutput(as, path, content, "RSS feed", len(events))
	}
}
