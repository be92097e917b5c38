package parser

import (
	"bytes"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/araddon/dateparse"
)

// ErrDocument reports a document that could not be parsed or queried.
var ErrDocument = errors.New("malformed document")

// ParseDocument parses an HTML body into a goquery document.
func ParseDocument(body []byte) (*goquery.Document, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDocument, err)
	}
	return doc, nil
}

// ParseNumber reads Telegram's counter format: plain digits, or a decimal
// with a K (thousand) or M (million) suffix such as "1.2K". An empty string is 0.
func ParseNumber(num string) (float64, error) {
	if num == "" {
		return 0, nil
	}
	if isDigits(num) {
		return strconv.ParseFloat(num, 64)
	}
	expanded := strings.NewReplacer("K", "E+03", "M", "E+06").Replace(num)
	f, err := strconv.ParseFloat(expanded, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid telegram number %q", num)
	}
	return f, nil
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// ParseTimestamp accepts an ISO-8601 style string, or a one-element string
// slice holding one, and returns the instant it names.
func ParseTimestamp(value any) (time.Time, error) {
	var raw string
	switch v := value.(type) {
	case string:
		raw = v
	case []string:
		if len(v) != 1 {
			return time.Time{}, fmt.Errorf("timestamp list must hold exactly one value, got %d", len(v))
		}
		raw = v[0]
	default:
		return time.Time{}, fmt.Errorf("unsupported timestamp value of type %T", value)
	}

	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, errors.New("empty timestamp")
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	// Telegram always sends an offset; anything without one is read as UTC.
	t, err := dateparse.ParseIn(raw, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid timestamp %q: %w", raw, err)
	}
	return t, nil
}
