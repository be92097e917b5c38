package extractor

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/dtnitsch/tg-preview-scraper/models"
	"github.com/dtnitsch/tg-preview-scraper/pkg/parser"
	"golang.org/x/net/html"
)

// Extract evaluates every path of the table against the first node of sel.
// Each table field is present in the result, with an empty slice when its
// path matched nothing.
func Extract(sel *goquery.Selection, table Table) (models.RawFields, error) {
	if sel == nil || len(sel.Nodes) == 0 {
		return nil, fmt.Errorf("%w: empty selection", parser.ErrDocument)
	}
	node := sel.Nodes[0]
	if node.Type != html.ElementNode && node.Type != html.DocumentNode {
		return nil, fmt.Errorf("%w: node is not an element", parser.ErrDocument)
	}

	target := sel.Eq(0)
	fields := make(models.RawFields, len(table))
	for _, e := range table {
		fields[e.Name] = e.Path.Evaluate(target)
	}
	return fields, nil
}

// ExtractAll runs Extract for every node matched by selector below root.
func ExtractAll(root *goquery.Selection, selector goquery.Matcher, table Table) ([]models.RawFields, error) {
	if root == nil || len(root.Nodes) == 0 {
		return nil, fmt.Errorf("%w: empty selection", parser.ErrDocument)
	}

	var out []models.RawFields
	var err error
	root.FindMatcher(selector).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		var fields models.RawFields
		fields, err = Extract(s, table)
		if err != nil {
			return false
		}
		out = append(out, fields)
		return true
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func textNodes(n *html.Node) []string {
	var out []string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			out = append(out, n.Data)
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return out
}

func textContent(n *html.Node) string {
	return strings.Join(textNodes(n), "")
}
