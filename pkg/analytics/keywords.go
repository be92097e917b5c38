// Package analytics counts words across message texts.
package analytics

import (
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Keyword is a word and how often it occurred.
type Keyword struct {
	Word  string
	Count int
}

// stopwords are ignored in frequency counts. English only; other languages
// pass through.
var stopwords = map[string]struct{}{
	"about": {}, "after": {}, "again": {}, "all": {}, "also": {}, "and": {},
	"any": {}, "are": {}, "because": {}, "been": {}, "before": {}, "being": {},
	"but": {}, "can": {}, "could": {}, "did": {}, "does": {}, "for": {},
	"from": {}, "had": {}, "has": {}, "have": {}, "her": {}, "here": {},
	"him": {}, "his": {}, "how": {}, "into": {}, "its": {}, "just": {},
	"more": {}, "most": {}, "not": {}, "now": {}, "off": {}, "once": {},
	"only": {}, "other": {}, "our": {}, "out": {}, "over": {}, "she": {},
	"should": {}, "some": {}, "such": {}, "than": {}, "that": {}, "the": {},
	"their": {}, "them": {}, "then": {}, "there": {}, "these": {}, "they": {},
	"this": {}, "those": {}, "through": {}, "too": {}, "under": {}, "very": {},
	"was": {}, "were": {}, "what": {}, "when": {}, "where": {}, "which": {},
	"while": {}, "who": {}, "why": {}, "will": {}, "with": {}, "would": {},
	"you": {}, "your": {},
}

// IsStopword reports whether word is ignored by WordFrequency.
func IsStopword(word string) bool {
	_, ok := stopwords[strings.ToLower(word)]
	return ok
}

// WordFrequency counts lowercased words of three or more letters. Links and
// @mentions are skipped.
func WordFrequency(texts ...string) map[string]int {
	counts := make(map[string]int)
	for _, text := range texts {
		for _, field := range strings.Fields(text) {
			if strings.Contains(field, "://") || strings.HasPrefix(field, "@") {
				continue
			}
			for _, word := range strings.FieldsFunc(field, notWordRune) {
				word = strings.ToLower(word)
				if utf8.RuneCountInString(word) < 3 || IsStopword(word) || isNumber(word) {
					continue
				}
				counts[word]++
			}
		}
	}
	return counts
}

func notWordRune(r rune) bool {
	return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '_'
}

func isNumber(word string) bool {
	for _, r := range word {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

// TopN returns the n most frequent words, ties broken alphabetically.
func TopN(counts map[string]int, n int) []Keyword {
	out := make([]Keyword, 0, len(counts))
	for w, c := range counts {
		out = append(out, Keyword{Word: w, Count: c})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Word < out[j].Word
	})
	if n >= 0 && len(out) > n {
		out = out[:n]
	}
	return out
}
