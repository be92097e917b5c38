// Package batch scrapes a list of channels one after another and merges the
// per-channel tables.
package batch

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"

	"github.com/dtnitsch/tg-preview-scraper/models"
	"github.com/dtnitsch/tg-preview-scraper/pkg/throttle"
)

// ChannelScraper is satisfied by *scraper.Scraper.
type ChannelScraper interface {
	Scrape(ctx context.Context, handle string) ([]models.Record, models.Record, error)
}

type Result struct {
	Messages []models.Record
	Users    []models.Record
	// Edges is only filled when edge preparation is enabled.
	Edges []models.Edge
}

type Runner struct {
	scraper      ChannelScraper
	throttle     *throttle.Throttle
	prepareEdges bool
	logger       *slog.Logger
}

func NewRunner(s ChannelScraper, th *throttle.Throttle, prepareEdges bool, logger *slog.Logger) *Runner {
	if logger == nil {
		logger = slog.Default()
	}
	if th == nil {
		th = throttle.New(0, logger)
	}
	return &Runner{scraper: s, throttle: th, prepareEdges: prepareEdges, logger: logger}
}

// Run scrapes every handle in order. Output keeps handle order and the order
// of messages within each channel. A transport error stops the batch; the
// tables gathered so far are returned with the error.
func (r *Runner) Run(ctx context.Context, handles []string) (Result, error) {
	res := Result{Messages: []models.Record{}, Users: []models.Record{}}
	if r.prepareEdges {
		res.Edges = []models.Edge{}
	}

	for i, handle := range handles {
		if err := r.throttle.Wait(ctx); err != nil {
			return res, fmt.Errorf("batch interrupted before %s: %w", handle, err)
		}
		messages, user, err := r.scraper.Scrape(ctx, handle)
		if err != nil {
			return res, fmt.Errorf("failed to scrape %s: %w", handle, err)
		}
		r.logger.Debug("channel done", "handle", handle, "index", i+1, "of", len(handles), "messages", len(messages))

		res.Messages = append(res.Messages, messages...)
		if user != nil {
			res.Users = append(res.Users, user)
		}
		if r.prepareEdges {
			res.Edges = append(res.Edges, DeriveEdges(handle, messages)...)
		}
	}
	return res, nil
}

var forwardTarget = regexp.MustCompile(`([\w]+)/\d+`)

// DeriveEdges builds one forward edge per message with a forwarded_message_url.
// The source is the message's own handle, falling back to the scraped handle.
func DeriveEdges(handle string, messages []models.Record) []models.Edge {
	var edges []models.Edge
	for _, m := range messages {
		url := m.String("forwarded_message_url")
		if url == "" {
			continue
		}
		match := forwardTarget.FindStringSubmatch(url)
		if match == nil {
			continue
		}
		source := m.String("handle")
		if source == "" {
			source = handle
		}
		edges = append(edges, models.Edge{Source: source, Target: match[1], Type: models.EdgeTypeForward})
	}
	return edges
}
