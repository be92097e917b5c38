// Package scraper turns one channel's t.me/s preview page into a message
// table and a user record.
package scraper

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/dtnitsch/tg-preview-scraper/models"
	"github.com/dtnitsch/tg-preview-scraper/pkg/extractor"
	"github.com/dtnitsch/tg-preview-scraper/pkg/parser"
	"github.com/dtnitsch/tg-preview-scraper/pkg/rules"
)

const DefaultBaseURL = "https://t.me/s/"

// Getter is the HTTP capability the scraper needs. *fetcher.Fetcher satisfies it.
type Getter interface {
	Get(ctx context.Context, url string) (int, []byte, error)
}

type Scraper struct {
	BaseURL string
	getter  Getter
	logger  *slog.Logger
	// languages is nil unless language detection is enabled.
	languages LanguageDetector
}

type Option func(*Scraper)

// WithLanguageDetector adds a "language" field to every message.
func WithLanguageDetector(d LanguageDetector) Option {
	return func(s *Scraper) { s.languages = d }
}

func WithBaseURL(u string) Option {
	return func(s *Scraper) { s.BaseURL = u }
}

func New(getter Getter, logger *slog.Logger, opts ...Option) *Scraper {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Scraper{BaseURL: DefaultBaseURL, getter: getter, logger: logger}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Scrape fetches and cleans one channel. A non-2xx response is a soft
// failure: no messages and a placeholder user, with a nil error. Only
// transport failures are returned as errors.
func (s *Scraper) Scrape(ctx context.Context, handle string) ([]models.Record, models.Record, error) {
	url := s.BaseURL + handle
	status, body, err := s.getter.Get(ctx, url)
	if err != nil {
		return nil, nil, err
	}
	if status < 200 || status > 299 {
		s.logger.Warn("channel page not available", "handle", handle, "url", url, "status", status)
		return nil, models.PlaceholderUser(handle), nil
	}

	doc, err := parser.ParseDocument(body)
	if err != nil {
		s.logger.Warn("failed to parse channel page", "handle", handle, "url", url, "error", err)
		return nil, nil, nil
	}

	messages := s.messages(doc, handle)
	user := s.user(doc, handle)
	s.logger.Info("scraped channel", "handle", handle, "messages", len(messages))
	return messages, user, nil
}

func (s *Scraper) messages(doc *goquery.Document, handle string) []models.Record {
	raws, err := extractor.ExtractAll(doc.Selection, extractor.MessageSelector, extractor.MessagePaths)
	if err != nil {
		s.logDocumentError("messages", handle, err)
		return nil
	}

	out := make([]models.Record, 0, len(raws))
	missingIDs := 0
	for _, raw := range raws {
		rec := rules.Clean(raw, rules.MessageRules)
		if !splitPostID(rec) {
			missingIDs++
		}
		if s.languages != nil {
			rec["language"] = s.detect(rec.String("text"))
		}
		out = append(out, rec)
	}
	if missingIDs > 0 {
		s.logger.Warn("post_id missing, handle and post_number not set", "handle", handle, "messages", missingIDs)
	}
	return out
}

// splitPostID sets handle and post_number from a "<handle>/<number>" post_id.
func splitPostID(rec models.Record) bool {
	id := rec.String("post_id")
	if id == "" {
		return false
	}
	parts := strings.SplitN(id, "/", 2)
	rec["handle"] = parts[0]
	if len(parts) == 2 {
		rec["post_number"] = parts[1]
	} else {
		rec["post_number"] = nil
	}
	return true
}

func (s *Scraper) detect(text string) any {
	if text == "" {
		return nil
	}
	if code := s.languages.Detect(text); code != "" {
		return code
	}
	return nil
}

func (s *Scraper) user(doc *goquery.Document, handle string) models.Record {
	raw, err := extractor.Extract(doc.Selection, extractor.UserPaths)
	if err != nil {
		s.logDocumentError("user", handle, err)
		return nil
	}
	rec := rules.Clean(raw, rules.UserRules)
	rec["handle"] = handle
	return rec
}

func (s *Scraper) logDocumentError(part, handle string, err error) {
	if errors.Is(err, parser.ErrDocument) {
		s.logger.Warn("could not extract "+part, "handle", handle, "error", err)
		return
	}
	s.logger.Error("unexpected extraction failure", "part", part, "handle", handle, "error", err)
}
