package main

import (
	"fmt"
	"os"

	dbactions "github.com/dtnitsch/tg-preview-scraper/internal/db"
	"github.com/dtnitsch/tg-preview-scraper/internal/scrape"
	"github.com/urfave/cli/v2"
)

func main() {
	app := &cli.App{
		Name:  "tgps",
		Usage: "scrape public Telegram channel previews (t.me/s) into message, user and edge tables",
		Commands: []*cli.Command{
			{
				Name:      "scrape",
				Usage:     "scrape one or more channels",
				ArgsUsage: "<handle> [handle...]",
				Description: "Handles may be given as name, @name, t.me/name or https://t.me/s/name.\n" +
					"Channels are fetched one at a time, wait-time seconds apart.",
				Flags:                  scrape.Flags,
				UseShortOptionHandling: true,
				Action:                 scrape.ScrapeAction,
			},
			{
				Name:  "runs",
				Usage: "list stored runs, newest first",
				Flags: append([]cli.Flag{
					&cli.IntFlag{Name: "limit", Aliases: []string{"n"}, Value: 20, Usage: "show at most `N` runs (0 for all)"},
				}, dbactions.Flags...),
				Action: dbactions.RunsAction,
			},
			{
				Name:      "run",
				Usage:     "show one run (default: the latest)",
				ArgsUsage: "[run id or prefix]",
				Flags: append([]cli.Flag{
					&cli.BoolFlag{Name: "edges", Usage: "list forward edges"},
					&cli.IntFlag{Name: "keywords", Aliases: []string{"k"}, Usage: "show the `N` most frequent words in message texts"},
				}, dbactions.Flags...),
				Action: dbactions.RunAction,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
