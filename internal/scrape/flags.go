package scrape

import (
	"github.com/dtnitsch/tg-preview-scraper/pkg/db"
	"github.com/urfave/cli/v2"
)

// Flags are the options of the scrape command.
var Flags = []cli.Flag{
	&cli.StringFlag{Name: "config", Aliases: []string{"c"}, Usage: "yaml config file"},
	&cli.StringFlag{Name: "file", Aliases: []string{"f"}, Usage: "read handles from `FILE`, one per line"},
	&cli.StringFlag{Name: "messages-output", Aliases: []string{"m"}, Value: "messages.ndjson", Usage: "append messages to `FILE` (- for stdout)"},
	&cli.StringFlag{Name: "users-output", Aliases: []string{"u"}, Value: "users.ndjson", Usage: "append channel records to `FILE` (- for stdout)"},
	&cli.StringFlag{Name: "edges-output", Aliases: []string{"e"}, Value: "edges.ndjson", Usage: "append forward edges to `FILE` (- for stdout)"},
	&cli.BoolFlag{Name: "prepare-edges", Aliases: []string{"p"}, Usage: "derive forward edges between channels"},
	&cli.IntFlag{Name: "wait-time", Usage: "seconds between two channel requests"},
	&cli.IntFlag{Name: "timeout", Usage: "HTTP timeout in seconds"},
	&cli.StringFlag{Name: "user-agent", Usage: "User-Agent header"},
	&cli.BoolFlag{Name: "detect-language", Usage: "add a language field to every message"},
	&cli.StringFlag{Name: "cache-dir", Usage: "cache fetched pages in `DIR`"},
	&cli.StringFlag{Name: "db", EnvVars: []string{db.PathEnvVar}, Usage: "store the run in the sqlite database at `PATH` (overrides db_path)"},
	&cli.StringFlag{Name: "log-file", Aliases: []string{"l"}, Usage: "write JSON logs to `FILE` instead of stderr"},
	&cli.BoolFlag{Name: "verbose", Aliases: []string{"v"}, Usage: "more logging, repeat up to three times"},
	&cli.StringFlag{Name: "base-url", Hidden: true, Usage: "preview page prefix, for mirrors and tests"},
}
