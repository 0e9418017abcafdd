// Package people extracts a staff directory from an office page. Each
// person starts at an h3 with their name; the short line after the name is
// their title, phone and email render as their own lines, and the first
// long paragraph is the bio.
package people

import (
	"errors"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"github.com/pevans/campusdata/flatten"
)

// ErrSectionNotFound is returned when the staff section heading is missing,
// usually meaning the page structure changed.
var ErrSectionNotFound = errors.New("staff section heading not found")

var phonePattern = regexp.MustCompile(`^\d{3}\.\d{3}\.\d{4}$`)

// titleMaxLen separates short title lines from bio paragraphs.
const titleMaxLen = 80

// Person is one directory entry. Fields other than the name are nil when
// the page lists nothing recognizable for them.
type Person struct {
	Name  string  `json:"name"`
	Title *string `json:"title"`
	Bio   *string `json:"bio"`
	Phone *string `json:"phone"`
	Email *string `json:"email"`
}

// Extract collects the people listed under the h2 whose text contains
// sectionTitle, stopping at the next h2. Text lines after each name are
// classified in order: phone and email by shape, the first remaining short
// line as the title, the first long one as the bio.
func Extract(root *goquery.Selection, sectionTitle string) ([]Person, error) {
	var start *html.Node
	root.Find("h2").EachWithBreak(func(i int, s *goquery.Selection) bool {
		if strings.Contains(flatten.Normalize(s.Text()), sectionTitle) {
			start = s.Nodes[0]
			return false
		}
		return true
	})
	if start == nil {
		return nil, ErrSectionNotFound
	}

	people := []Person{}
	var current *Person
	finish := func() {
		if current != nil {
			people = append(people, *current)
		}
		current = nil
	}

	n := nextSkippingChildren(start)
	for n != nil {
		if n.Type != html.ElementNode {
			n = flatten.NextInDoc(n)
			continue
		}

		if n.Data == "h2" {
			break
		}

		if n.Data == "h3" {
			finish()
			current = &Person{Name: flatten.Normalize(nodeText(n))}
			n = nextSkippingChildren(n)
			continue
		}

		if current != nil && (n.Data == "p" || n.Data == "div") {
			if classify(current, flatten.Normalize(nodeText(n))) {
				n = nextSkippingChildren(n)
				continue
			}
		}

		n = flatten.NextInDoc(n)
	}
	finish()

	return people, nil
}

// classify assigns a text line to the first open slot it fits. Returns true
// when the line was consumed.
func classify(p *Person, text string) bool {
	if text == "" {
		return false
	}

	if isPhone(text) {
		if p.Phone == nil {
			p.Phone = &text
		}
		return true
	}
	if isEmail(text) {
		if p.Email == nil {
			p.Email = &text
		}
		return true
	}
	if len(text) < titleMaxLen {
		if p.Title == nil {
			p.Title = &text
			return true
		}
		return false
	}
	if p.Bio == nil {
		p.Bio = &text
		return true
	}
	return false
}

func isPhone(s string) bool {
	return phonePattern.MatchString(s)
}

func isEmail(s string) bool {
	return strings.Contains(s, "@") && strings.Contains(s, ".") && !strings.Contains(s, " ")
}

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
