package scraper

import (
	"strings"

	"github.com/pemistahl/lingua-go"
)

// LanguageDetector guesses the language of a message text.
type LanguageDetector interface {
	// Detect returns an ISO 639-1 code, or "" when the text is undecidable.
	Detect(text string) string
}

type linguaDetector struct {
	detector lingua.LanguageDetector
}

// NewLanguageDetector builds a detector over every language lingua knows.
// Low accuracy mode keeps memory bounded; messages are short anyway.
func NewLanguageDetector() LanguageDetector {
	d := lingua.NewLanguageDetectorBuilder().
		FromAllLanguages().
		WithLowAccuracyMode().
		Build()
	return linguaDetector{detector: d}
}

func (l linguaDetector) Detect(text string) string {
	lang, ok := l.detector.DetectLanguageOf(text)
	if !ok {
		return ""
	}
	return strings.ToLower(lang.IsoCode639_1().String())
}
