package scrape

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"

	"github.com/dtnitsch/tg-preview-scraper/internal/common"
	"github.com/dtnitsch/tg-preview-scraper/models"
	"github.com/dtnitsch/tg-preview-scraper/pkg/batch"
	"github.com/dtnitsch/tg-preview-scraper/pkg/caching"
	"github.com/dtnitsch/tg-preview-scraper/pkg/db"
	"github.com/dtnitsch/tg-preview-scraper/pkg/fetcher"
	"github.com/dtnitsch/tg-preview-scraper/pkg/scraper"
	"github.com/dtnitsch/tg-preview-scraper/pkg/storage"
	"github.com/dtnitsch/tg-preview-scraper/pkg/throttle"
	"github.com/urfave/cli/v2"
)

func ScrapeAction(c *cli.Context) error {
	logger, closeLog, err := newLogger(c.Count("verbose"), c.String("log-file"), os.Stderr)
	if err != nil {
		return cli.Exit(err.Error(), 2)
	}
	defer closeLog() //nolint:errcheck // nothing left to report to
	slog.SetDefault(logger)

	cfg, err := loadConfig(c)
	if err != nil {
		logger.Error("invalid configuration", "error", err)
		return cli.Exit(fmt.Sprintf("invalid configuration: %v", err), 2)
	}

	handles, err := collectHandles(c)
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}

	runner, err := newRunner(cfg, c.String("base-url"), logger)
	if err != nil {
		logger.Error("failed to set up scraper", "error", err)
		return cli.Exit(err.Error(), 2)
	}

	var database *db.DB
	var runID string
	if cfg.DBPath != "" {
		database, err = db.Open(cfg.DBPath)
		if err != nil {
			logger.Error("failed to open database", "error", err)
			return cli.Exit(err.Error(), 2)
		}
		defer database.Close()

		runID, err = database.CreateRun(handles, cfg.PrepareEdges)
		if err != nil {
			return cli.Exit(err.Error(), 2)
		}
		logger.Info("run started", "run_id", runID, "handles", len(handles))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	res, runErr := runner.Run(ctx, handles)
	if runErr != nil {
		logger.Error("batch stopped early", "error", runErr)
	}

	// Partial results are still written so a long batch is not lost.
	out := storage.New(c.App.Writer)
	if err := writeOutputs(c, out, cfg, res); err != nil {
		logger.Error("failed to write output", "error", err)
		return cli.Exit(err.Error(), 1)
	}

	if database != nil {
		if err := database.SaveRecords(runID, res.Messages, res.Users, res.Edges); err != nil {
			logger.Error("failed to store records", "run_id", runID, "error", err)
			runErr = err
		}
		if err := database.FinishRun(runID, len(res.Messages), len(res.Users), len(res.Edges), runErr); err != nil {
			logger.Error("failed to finish run", "run_id", runID, "error", err)
		}
	}

	fmt.Fprintf(c.App.ErrWriter, "Scraped %d channels: %d messages, %d users", len(handles), len(res.Messages), len(res.Users))
	if cfg.PrepareEdges {
		fmt.Fprintf(c.App.ErrWriter, ", %d edges", len(res.Edges))
	}
	if runID != "" {
		fmt.Fprintf(c.App.ErrWriter, " (run %s)", runID)
	}
	fmt.Fprintln(c.App.ErrWriter)

	if runErr != nil {
		return cli.Exit(runErr.Error(), 1)
	}
	return nil
}

// loadConfig reads --config and applies flag overrides on top.
func loadConfig(c *cli.Context) (models.Config, error) {
	cfg, err := models.LoadConfig(c.String("config"))
	if err != nil {
		return cfg, err
	}

	if c.IsSet("prepare-edges") {
		cfg.PrepareEdges = c.Bool("prepare-edges")
	}
	if c.IsSet("wait-time") {
		cfg.WaitTime = c.Int("wait-time")
	}
	if c.IsSet("timeout") {
		cfg.Timeout = c.Int("timeout")
	}
	if c.IsSet("user-agent") {
		cfg.UserAgent = c.String("user-agent")
	}
	if c.IsSet("detect-language") {
		cfg.DetectLanguage = c.Bool("detect-language")
	}
	if c.IsSet("cache-dir") {
		cfg.CacheDir = c.String("cache-dir")
	}
	if c.IsSet("db") {
		cfg.DBPath = c.String("db")
	}
	return cfg, cfg.Validate()
}

// collectHandles merges positional handles with --file, then sanitizes them.
func collectHandles(c *cli.Context) ([]string, error) {
	inputs := c.Args().Slice()
	if c.IsSet("file") {
		fromFile, err := common.ReadHandlesFile(c.String("file"))
		if err != nil {
			return nil, err
		}
		inputs = append(inputs, fromFile...)
	}
	if len(inputs) == 0 {
		return nil, fmt.Errorf("no channel handles given; pass handles as arguments or use --file")
	}

	handles, invalid := common.SanitizeAndValidateHandles(inputs)
	if len(invalid) > 0 {
		return nil, fmt.Errorf("invalid channel handles: %q", invalid)
	}
	return handles, nil
}

func newRunner(cfg models.Config, baseURL string, logger *slog.Logger) (*batch.Runner, error) {
	opts := fetcher.Options{
		Timeout:   cfg.TimeoutDuration(),
		UserAgent: cfg.UserAgent,
		Logger:    logger,
	}
	if cfg.CacheDir != "" {
		cache, err := caching.NewCache(cfg.CacheDir, cfg.CacheTTLDuration())
		if err != nil {
			return nil, err
		}
		opts.Cache = cache
	}

	var scraperOpts []scraper.Option
	if baseURL != "" {
		scraperOpts = append(scraperOpts, scraper.WithBaseURL(baseURL))
	}
	if cfg.DetectLanguage {
		scraperOpts = append(scraperOpts, scraper.WithLanguageDetector(scraper.NewLanguageDetector()))
	}
	s := scraper.New(fetcher.NewFetcher(opts), logger, scraperOpts...)

	th := throttle.New(cfg.WaitDuration(), logger)
	return batch.NewRunner(s, th, cfg.PrepareEdges, logger), nil
}

func writeOutputs(c *cli.Context, out *storage.Storage, cfg models.Config, res batch.Result) error {
	if err := out.AppendRecords(c.String("messages-output"), res.Messages); err != nil {
		return fmt.Errorf("messages: %w", err)
	}
	if err := out.AppendRecords(c.String("users-output"), res.Users); err != nil {
		return fmt.Errorf("users: %w", err)
	}
	if cfg.PrepareEdges {
		if err := out.AppendEdges(c.String("edges-output"), res.Edges); err != nil {
			return fmt.Errorf("edges: %w", err)
		}
	}
	return nil
}
