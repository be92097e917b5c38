package extractor

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"
)

// Mode selects what a path returns for each matched element.
type Mode int

const (
	// ModeTextNodes returns every text node below the element, in document order.
	ModeTextNodes Mode = iota
	// ModeText returns the element's whole text content as a single value.
	ModeText
	// ModeAttr returns the value of one attribute, skipping elements without it.
	ModeAttr
)

// Path is a compiled path expression:
//
//	("../")* ["./"] [selector] ["@" attr | "::text"]
//
// "../" moves to the parent, "./" limits the selector to direct children, and
// an empty selector keeps the current node.
type Path struct {
	expr     string
	up       int
	children bool
	matcher  goquery.Matcher
	mode     Mode
	attr     string
}

var attrSuffix = regexp.MustCompile(`@([A-Za-z_][\w-]*)$`)

// ParsePath compiles a path expression.
func ParsePath(expr string) (Path, error) {
	p := Path{expr: expr}
	rest := strings.TrimSpace(expr)

	for strings.HasPrefix(rest, "../") {
		p.up++
		rest = rest[len("../"):]
	}
	if strings.HasPrefix(rest, "./") {
		p.children = true
		rest = rest[len("./"):]
	}

	switch {
	case strings.HasSuffix(rest, "::text"):
		p.mode = ModeText
		rest = strings.TrimSuffix(rest, "::text")
	case attrSuffix.MatchString(rest):
		loc := attrSuffix.FindStringSubmatchIndex(rest)
		p.mode = ModeAttr
		p.attr = rest[loc[2]:loc[3]]
		rest = rest[:loc[0]]
	}

	rest = strings.TrimSpace(rest)
	if rest == "" {
		if p.children {
			return Path{}, fmt.Errorf("invalid path %q: \"./\" needs a selector", expr)
		}
		return p, nil
	}

	sel, err := cascadia.Compile(rest)
	if err != nil {
		return Path{}, fmt.Errorf("invalid path %q: %w", expr, err)
	}
	p.matcher = sel
	return p, nil
}

// MustParsePath is ParsePath for package-level tables.
func MustParsePath(expr string) Path {
	p, err := ParsePath(expr)
	if err != nil {
		panic(err)
	}
	return p
}

func (p Path) String() string { return p.expr }

// Evaluate runs the path against sel and returns the matched strings.
func (p Path) Evaluate(sel *goquery.Selection) []string {
	for i := 0; i < p.up; i++ {
		sel = sel.Parent()
	}
	switch {
	case p.matcher == nil:
	case p.children:
		sel = sel.ChildrenMatcher(p.matcher)
	default:
		sel = sel.FindMatcher(p.matcher)
	}

	values := []string{}
	for _, n := range sel.Nodes {
		switch p.mode {
		case ModeAttr:
			for _, a := range n.Attr {
				if a.Key == p.attr {
					values = append(values, a.Val)
					break
				}
			}
		case ModeText:
			values = append(values, textContent(n))
		default:
			values = append(values, textNodes(n)...)
		}
	}
	return values
}

// Entry names one field of a Table.
type Entry struct {
	Name string
	Path Path
}

// Table is an ordered mapping from field name to path.
type Table []Entry

// NewTable compiles name/expression pairs in the given order.
func NewTable(pairs ...[2]string) (Table, error) {
	t := make(Table, 0, len(pairs))
	seen := make(map[string]struct{}, len(pairs))
	for _, pair := range pairs {
		name, expr := pair[0], pair[1]
		if _, ok := seen[name]; ok {
			return nil, fmt.Errorf("duplicate field %q", name)
		}
		seen[name] = struct{}{}

		p, err := ParsePath(expr)
		if err != nil {
			return nil, fmt.Errorf("field %s: %w", name, err)
		}
		t = append(t, Entry{Name: name, Path: p})
	}
	return t, nil
}

func mustTable(pairs ...[2]string) Table {
	t, err := NewTable(pairs...)
	if err != nil {
		panic(err)
	}
	return t
}

// Names returns the field names in table order.
func (t Table) Names() []string {
	names := make([]string, len(t))
	for i, e := range t {
		names[i] = e.Name
	}
	return names
}
