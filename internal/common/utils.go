package common

import (
	"bufio"
	"fmt"
	"os"
	"regexp"
	"strings"
)

// handlePattern accepts Telegram public usernames. Telegram enforces 5 to 32
// characters for new names but older channels can be shorter.
var handlePattern = regexp.MustCompile(`^[A-Za-z0-9_]{1,32}$`)

// channelURLPattern strips the t.me prefixes people paste: t.me/name,
// https://t.me/s/name, telegram.me/name.
var channelURLPattern = regexp.MustCompile(`^(?:https?://)?(?:www\.)?(?:t|telegram)\.me/(?:s/)?`)

// SanitizeHandle reduces a pasted channel reference to its bare handle.
// "@name", "t.me/name", "https://t.me/s/name/123?embed=1" all become "name".
func SanitizeHandle(raw string) string {
	cleaned := strings.TrimSpace(raw)

	// Remove common trailing punctuation from copy-paste errors
	cleaned = strings.TrimRight(cleaned, ",.;)]}>\"'")
	cleaned = strings.TrimLeft(cleaned, "([<\"'")

	cleaned = channelURLPattern.ReplaceAllString(cleaned, "")
	cleaned = strings.TrimPrefix(cleaned, "@")

	// Drop a post number, query string or fragment after the handle.
	if i := strings.IndexAny(cleaned, "/?#"); i >= 0 {
		cleaned = cleaned[:i]
	}

	return strings.TrimSpace(cleaned)
}

// SanitizeAndValidateHandles returns (sanitized handles, invalid inputs).
// Duplicates are dropped, keeping the first occurrence.
func SanitizeAndValidateHandles(inputs []string) ([]string, []string) {
	sanitized := make([]string, 0, len(inputs))
	var invalid []string
	seen := make(map[string]bool, len(inputs))

	for _, raw := range inputs {
		handle := SanitizeHandle(raw)
		if !handlePattern.MatchString(handle) {
			invalid = append(invalid, raw)
			continue
		}
		key := strings.ToLower(handle)
		if seen[key] {
			continue
		}
		seen[key] = true
		sanitized = append(sanitized, handle)
	}

	return sanitized, invalid
}

// ReadHandlesFile reads one handle per line. Blank lines and lines starting
// with # are skipped.
func ReadHandlesFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open handles file: %w", err)
	}
	defer f.Close()

	var handles []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		handles = append(handles, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read handles file: %w", err)
	}
	return handles, nil
}
