// Package calendar extracts academic-calendar entries. Term sections are
// headed by "Spring 2026"-style headings at varying levels, with the dates
// underneath rendered either as Date|Event table rows or as loose list and
// paragraph lines.
package calendar

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"github.com/pevans/campusdata/flatten"
)

// termPattern matches term headings such as "Fall 2025" or "Summer 2026
// Session A".
var termPattern = regexp.MustCompile(`(?i)^(Spring|Summer|Fall|Winter)\s+20\d{2}\b`)

// monthDayPattern recognizes lines that carry a concrete date, used to keep
// random page prose out of the results.
var monthDayPattern = regexp.MustCompile(`\b(January|February|March|April|May|June|July|August|September|October|November|December)\b\s+\d{1,2}`)

// headingTags are the tags term headings appear under across page revisions.
var headingTags = map[string]bool{"h2": true, "h3": true, "h4": true}

// Item is one calendar entry. Date is nil for entries scraped from loose
// text lines, where the date is embedded in the event text itself.
type Item struct {
	Date   *string `json:"date"`
	Event  string  `json:"event"`
	Source string  `json:"source"` // "table", "li", or "p"
}

// Term groups the calendar items listed under one term heading.
type Term struct {
	Term  string `json:"term"`
	Items []Item `json:"items"`
}

// Extract walks the page and returns one Term per term-looking heading,
// collecting table rows and date-bearing text lines until the next term
// heading. Terms with no items are dropped.
func Extract(root *goquery.Selection) []Term {
	terms := []Term{}

	root.Find("h2, h3, h4").Each(func(i int, s *goquery.Selection) {
		title := flatten.Normalize(s.Text())
		if !termPattern.MatchString(title) {
			return
		}

		items := collectItems(s.Nodes[0])
		if len(items) > 0 {
			terms = append(terms, Term{Term: title, Items: items})
		}
	})

	return terms
}

// collectItems walks forward from a term heading in document order until
// the next term heading, pulling calendar items out of tables and
// date-looking li/p elements.
func collectItems(heading *html.Node) []Item {
	var items []Item

	n := nextSkippingChildren(heading)
	for n != nil {
		if n.Type == html.ElementNode {
			if headingTags[n.Data] && termPattern.MatchString(flatten.Normalize(nodeText(n))) {
				break
			}

			switch n.Data {
			case "table":
				items = append(items, tableItems(n)...)
				n = nextSkippingChildren(n)
				continue
			case "li", "p":
				text := flatten.Normalize(nodeText(n))
				if monthDayPattern.MatchString(text) {
					items = append(items, Item{Event: text, Source: n.Data})
				}
				n = nextSkippingChildren(n)
				continue
			}
		}

		// Descend into wrappers to reach nested tables and lines.
		n = flatten.NextInDoc(n)
	}

	return items
}

// tableItems extracts Date|Event rows from a calendar table, skipping the
// header row.
func tableItems(table *html.Node) []Item {
	sel := selectionOf(table)

	var items []Item
	sel.Find("tr").Each(func(i int, tr *goquery.Selection) {
		var cells []string
		tr.Find("th, td").Each(func(j int, cell *goquery.Selection) {
			cells = append(cells, flatten.Normalize(cell.Text()))
		})
		if len(cells) < 2 {
			return
		}
		date, event := cells[0], cells[1]
		if strings.EqualFold(date, "date") && strings.EqualFold(event, "event") {
			return
		}
		if date == "" || event == "" {
			return
		}
		items = append(items, Item{Date: &date, Event: event, Source: "table"})
	})

	return items
}

// nextSkippingChildren returns the document-order successor of n without
// descending into it, so a processed table's cells are not revisited as
// loose text.
func nextSkippingChildren(n *html.Node) *html.Node {
	for ; n != nil; n = n.Parent {
		if n.NextSibling != nil {
			return n.NextSibling
		}
	}
	return nil
}

func nodeText(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
			b.WriteString(" ")
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return b.String()
}

func selectionOf(n *html.Node) *goquery.Selection {
	return goquery.NewDocumentFromNode(n).Selection
}
