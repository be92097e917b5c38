package db

import (
	"errors"
	"fmt"
	"strings"

	"github.com/dtnitsch/tg-preview-scraper/models"
	"github.com/dtnitsch/tg-preview-scraper/pkg/analytics"
	dbpkg "github.com/dtnitsch/tg-preview-scraper/pkg/db"
	"github.com/dustin/go-humanize"
	"github.com/urfave/cli/v2"
)

// Flags are shared by the runs and run commands. They find the database the
// same way scrape does.
var Flags = []cli.Flag{
	&cli.StringFlag{Name: "db", EnvVars: []string{dbpkg.PathEnvVar}, Usage: "sqlite database `PATH` given to scrape --db"},
	&cli.StringFlag{Name: "config", Aliases: []string{"c"}, Usage: "yaml config file; its db_path is used when --db is not set"},
}

// openStore opens --db (or $TGPS_DB), falling back to db_path from --config.
func openStore(c *cli.Context) (*dbpkg.DB, error) {
	path := c.String("db")
	if path == "" && c.String("config") != "" {
		cfg, err := models.LoadConfig(c.String("config"))
		if err != nil {
			return nil, cli.Exit(fmt.Sprintf("invalid configuration: %v", err), 2)
		}
		path = cfg.DBPath
	}

	database, err := dbpkg.Open(path)
	if errors.Is(err, dbpkg.ErrNoPath) {
		return nil, cli.Exit(err.Error(), 2)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return database, nil
}

func RunsAction(c *cli.Context) error {
	database, err := openStore(c)
	if err != nil {
		return err
	}
	defer database.Close()

	runs, err := database.ListRuns(c.Int("limit"))
	if err != nil {
		return fmt.Errorf("failed to list runs: %w", err)
	}

	w := c.App.Writer
	if len(runs) == 0 {
		fmt.Fprintln(w, "No runs found")
		return nil
	}

	fmt.Fprintf(w, "%-10s %-16s %-8s %-8s %-10s %-8s %-8s\n",
		"Run", "Started", "Status", "Handles", "Messages", "Users", "Edges")
	fmt.Fprintln(w, strings.Repeat("-", 76))

	for _, r := range runs {
		edges := "-"
		if r.PrepareEdges {
			edges = humanize.Comma(int64(r.EdgeCount))
		}
		fmt.Fprintf(w, "%-10s %-16s %-8s %-8d %-10s %-8s %-8s\n",
			r.RunID[:8],
			humanize.Time(r.CreatedAt),
			r.Status,
			len(r.Handles),
			humanize.Comma(int64(r.MessageCount)),
			humanize.Comma(int64(r.UserCount)),
			edges,
		)
	}

	fmt.Fprintf(w, "\nTotal: %d runs\n", len(runs))
	fmt.Fprintf(w, "\nTip: Use 'tgps run <id>' to see details\n")

	return nil
}

// RunAction shows the per-channel breakdown of one run, or the latest run.
func RunAction(c *cli.Context) error {
	database, err := openStore(c)
	if err != nil {
		return err
	}
	defer database.Close()

	run, err := resolveRun(c, database)
	if err != nil {
		return err
	}

	counts, err := database.GetRunCounts(run.RunID)
	if err != nil {
		return err
	}

	w := c.App.Writer
	fmt.Fprintf(w, "Run %s\n", run.RunID)
	fmt.Fprintf(w, "Started:  %s (%s)\n", run.CreatedAt.Format("2006-01-02 15:04:05"), humanize.Time(run.CreatedAt))
	if run.FinishedAt.Valid {
		fmt.Fprintf(w, "Took:     %s\n", humanize.RelTime(run.CreatedAt, run.FinishedAt.Time, "", ""))
	}
	fmt.Fprintf(w, "Status:   %s\n", run.Status)
	if run.ErrorMessage.Valid {
		fmt.Fprintf(w, "Error:    %s\n", run.ErrorMessage.String)
	}
	fmt.Fprintf(w, "Messages: %s\n", humanize.Comma(int64(run.MessageCount)))
	if run.PrepareEdges {
		fmt.Fprintf(w, "Edges:    %s\n", humanize.Comma(int64(run.EdgeCount)))
	}

	fmt.Fprintf(w, "\n%-32s %-10s %s\n", "Handle", "Messages", "")
	fmt.Fprintln(w, strings.Repeat("-", 56))
	for _, hc := range counts {
		note := ""
		if hc.Placeholder {
			note = "not available"
		}
		fmt.Fprintf(w, "%-32s %-10s %s\n", hc.Handle, humanize.Comma(int64(hc.Messages)), note)
	}

	if c.Bool("edges") && run.PrepareEdges {
		edges, err := database.GetRunEdges(run.RunID)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "\nForward edges (%d):\n", len(edges))
		for _, e := range edges {
			fmt.Fprintf(w, "  %s -> %s\n", e.Source, e.Target)
		}
	}

	if n := c.Int("keywords"); n > 0 {
		texts, err := database.GetRunTexts(run.RunID)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "\nTop words:\n")
		for i, kw := range analytics.TopN(analytics.WordFrequency(texts...), n) {
			fmt.Fprintf(w, "%d. %s: %s\n", i+1, kw.Word, humanize.Comma(int64(kw.Count)))
		}
	}

	return nil
}

// resolveRun returns the run named by the first argument, or the latest run.
func resolveRun(c *cli.Context, database *dbpkg.DB) (*dbpkg.Run, error) {
	if c.NArg() > 0 {
		return database.GetRun(c.Args().First())
	}

	runs, err := database.ListRuns(1)
	if err != nil {
		return nil, fmt.Errorf("failed to get latest run: %w", err)
	}
	if len(runs) == 0 {
		return nil, fmt.Errorf("no runs found. Run 'tgps scrape --db <path> <handles...>' first")
	}
	return &runs[0], nil
}
