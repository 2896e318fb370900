package handler

import (
	"toki/src-cli/utils"

	"github.com/urfave/cli/v2"
)

// Init registers every subcommand on the AppState.
func Init(as *utils.AppState) {
	Add(as)
	List(as)
	Delete(as)
	Move(as)
	RSS(as)
	Ical(as)
	Import(as)
}

// App builds the command line app. The database is opened before any
// subcommand runs and closed, with metrics flushed, after it returns.
func App(as *utils.AppState) *cli.App {
	Init(as)
	return &cli.App{
		Name:     "toki",
		Usage:    "keep a personal schedule in a local SQLite database",
		Writer:   as.Stdout,
		Commands: as.AppCmds,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Usage:   "path to the YAML config file",
				EnvVars: []string{"TOKI_CONFIG"},
			},
			&cli.StringFlag{
				Name:  "database",
				Usage: "path to the SQLite database (overrides TOKI_DATABASE and the config file)",
			},
		},
		Before: func(c *cli.Context) error {
			cfg, err := utils.NewConfig(c.String("config"), c.String("database"))
			if err != nil {
				return err
			}
			return as.Open(c.Context, cfg)
		},
		After: func(c *cli.Context) error {
			return as.GracefulShutdown()
		},
	}
}
