// Package rules cleans raw extracted fields by folding each value through an
// ordered set of predicate/transform rules.
//
// Every rule whose predicate matches is applied, in order, to the running
// value, so a rule may see the output of an earlier one: a list collapsed to a
// string is then trimmed by the string rule that follows. Transforms must
// therefore accept any value their predicate lets through.
//
// Running values are one of nil, []string, string, float64 or time.Time.
package rules

import (
	"github.com/dtnitsch/tg-preview-scraper/models"
)

// Rule is one cleaning step.
type Rule interface {
	Matches(key string, value any) bool
	Apply(value any) any
}

// Func builds a Rule from two closures.
type Func struct {
	Name  string
	When  func(key string, value any) bool
	Apply func(value any) any
}

// ruleFunc adapts Func to Rule; Func keeps Apply as a field for literal syntax.
type ruleFunc struct{ f Func }

func (r ruleFunc) Matches(key string, value any) bool { return r.f.When(key, value) }
func (r ruleFunc) Apply(value any) any                { return r.f.Apply(value) }
func (r ruleFunc) String() string                     { return r.f.Name }

// Set is an ordered collection of rules.
type Set []Rule

// NewSet wraps the given funcs into a Set, keeping their order.
func NewSet(funcs ...Func) Set {
	s := make(Set, len(funcs))
	for i, f := range funcs {
		s[i] = ruleFunc{f: f}
	}
	return s
}

// With returns a new set with extra rules appended after the existing ones.
func (s Set) With(funcs ...Func) Set {
	out := make(Set, 0, len(s)+len(funcs))
	out = append(out, s...)
	return append(out, NewSet(funcs...)...)
}

// CleanValue folds one value through the set.
func (s Set) CleanValue(key string, value any) any {
	for _, r := range s {
		if r.Matches(key, value) {
			value = r.Apply(value)
		}
	}
	return value
}

// Clean applies the set to every field of raw and returns the cleaned record.
func Clean(raw models.RawFields, set Set) models.Record {
	out := make(models.Record, len(raw))
	for key, values := range raw {
		out[key] = set.CleanValue(key, values)
	}
	return out
}
