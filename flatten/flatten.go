// Package flatten reduces a bounded region of an HTML page to the flat,
// ordered token stream the tuition parser consumes. University pages render
// their rate tables as loose text nodes rather than structured markup, so
// the region between two headings is walked in document order and every
// text node becomes one normalized token.
package flatten

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// junkTokens are decorative glyphs the pages use as separators. They carry
// no data and would otherwise pair with money tokens as bogus labels.
var junkTokens = map[string]bool{
	"»": true,
	"|": true,
}

// Normalize collapses whitespace runs to single spaces, strips zero-width
// characters, and converts non-breaking spaces to regular ones.
func Normalize(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch r {
		case '\u200b', '\u200c', '\u200d', '\ufeff':
			// zero-width characters
		case '\u00a0':
			b.WriteRune(' ')
		default:
			b.WriteRune(r)
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

// Root returns the page's main content element, or the whole document when
// the page has no <main>. Narrowing to main keeps menus and footers out of
// the token stream.
func Root(doc *goquery.Document) *goquery.Selection {
	if main := doc.Find("main"); main.Length() > 0 {
		return main.First()
	}
	return doc.Selection
}

// Title returns the page title: the first h1 under the content root, falling
// back to the document <title>.
func Title(doc *goquery.Document) string {
	if t := Normalize(Root(doc).Find("h1").First().Text()); t != "" {
		return t
	}
	return Normalize(doc.Find("title").First().Text())
}

// FindHeading locates the heading of the given tag whose normalized text
// equals title. Returns nil when no heading matches.
func FindHeading(root *goquery.Selection, headingTag, title string) *html.Node {
	var found *html.Node
	root.Find(headingTag).EachWithBreak(func(i int, s *goquery.Selection) bool {
		if Normalize(s.Text()) == title {
			found = s.Nodes[0]
			return false
		}
		return true
	})
	return found
}

// SectionTokens collects the normalized text tokens of the region opened by
// the heading with the given tag and title, walking forward in document
// order until the next element whose tag is in stopTags (the heading's own
// tag when none are given). Empty tokens and decorative glyphs are filtered
// and duplicates are dropped while preserving order, mirroring how the
// pages repeat the same fragment in adjacent nodes.
func SectionTokens(root *goquery.Selection, headingTag, title string, stopTags ...string) []string {
	heading := FindHeading(root, headingTag, title)
	if heading == nil {
		return nil
	}
	if len(stopTags) == 0 {
		stopTags = []string{headingTag}
	}

	stop := make(map[string]bool, len(stopTags))
	for _, tag := range stopTags {
		stop[tag] = true
	}

	var tokens []string
	seen := make(map[string]bool)

	for n := NextInDoc(heading); n != nil; n = NextInDoc(n) {
		if n.Type == html.ElementNode && stop[n.Data] {
			break
		}
		if n.Type != html.TextNode {
			continue
		}
		t := Normalize(n.Data)
		if t == "" || junkTokens[t] || seen[t] {
			continue
		}
		seen[t] = true
		tokens = append(tokens, t)
	}

	return tokens
}

// NextInDoc returns the node that follows n in document order: its first
// child, else the next sibling of the closest ancestor that has one.
func NextInDoc(n *html.Node) *html.Node {
	if n.FirstChild != nil {
		return n.FirstChild
	}
	for ; n != nil; n = n.Parent {
		if n.NextSibling != nil {
			return n.NextSibling
		}
	}
	return nil
}
