package main

import (
	"fmt"
	"log/slog"
	"os"
	"time"
	_ "time/tzdata"
	"toki/src-cli/handler"
	"toki/src-cli/utils"

	"github.com/joho/godotenv"
	"github.com/lmittmann/tint"
)

func init() {
	if err := godotenv.Load(); err != nil {
		slog.Debug(err.Error())
	}
	slog.SetDefault(slog.New(
		tint.NewHandler(os.Stderr, &tint.Options{
			Level:      utils.ParseLogLevel(os.Getenv("TOKI_LOG_LEVEL")),
			TimeFormat: time.RFC1123Z,
		}),
	))
}

func main() {
	// AppState carries the config, the database handle and every
	// registered subcommand
	as := utils.NewAppState()

	if err := handler.App(as).Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
