// Package sections extracts leveled prose sections from registrar and
// catalog pages: each heading opens a section that accumulates the
// paragraphs and list items that follow it, until the next heading.
package sections

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/pevans/campusdata/flatten"
)

// Section is one heading-bounded block of page content.
type Section struct {
	// ID is the heading's id attribute, when present. Pages use these as
	// anchor targets.
	ID         string   `json:"id,omitempty"`
	Title      string   `json:"title"`
	Level      int      `json:"level"`
	Paragraphs []string `json:"paragraphs"`
	Steps      []string `json:"steps"`
	FullText   string   `json:"full_text"`
}

// Extract walks the container in document order and groups its paragraphs
// and list items under the nearest preceding heading. headingTags controls
// which tags open sections (e.g. "h2", or "h2","h3","h4" for catalog pages
// with nested levels). Content appearing before the first heading is
// dropped. Sections with a heading but no content are kept; the heading
// itself is meaningful on these pages.
func Extract(container *goquery.Selection, headingTags ...string) []Section {
	if len(headingTags) == 0 {
		headingTags = []string{"h2"}
	}

	heading := make(map[string]bool, len(headingTags))
	for _, tag := range headingTags {
		heading[tag] = true
	}

	selector := strings.Join(headingTags, ", ") + ", p, ol, ul"

	sections := []Section{}
	var current *Section
	finish := func() {
		if current == nil {
			return
		}
		parts := append(append([]string{}, current.Paragraphs...), current.Steps...)
		current.FullText = strings.Join(parts, " ")
		sections = append(sections, *current)
		current = nil
	}

	container.Find(selector).Each(func(i int, s *goquery.Selection) {
		tag := goquery.NodeName(s)

		if heading[tag] {
			finish()
			current = &Section{
				ID:         s.AttrOr("id", ""),
				Title:      flatten.Normalize(s.Text()),
				Level:      headingLevel(tag),
				Paragraphs: []string{},
				Steps:      []string{},
			}
			return
		}

		if current == nil {
			return
		}

		switch tag {
		case "p":
			if text := flatten.Normalize(s.Text()); text != "" {
				current.Paragraphs = append(current.Paragraphs, text)
			}
		case "ol", "ul":
			s.Find("li").Each(func(j int, li *goquery.Selection) {
				if text := flatten.Normalize(li.Text()); text != "" {
					current.Steps = append(current.Steps, text)
				}
			})
		}
	})
	finish()

	return sections
}

// headingLevel returns the numeric level of an hN tag, or 0 for anything
// else.
func headingLevel(tag string) int {
	if len(tag) == 2 && tag[0] == 'h' && tag[1] >= '1' && tag[1] <= '6' {
		return int(tag[1] - '0')
	}
	return 0
}
