package people

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/pevans/campusdata/flatten"
)

var looseDigitsPattern = regexp.MustCompile(`\d{3}[.\-]?\d{3}[.\-]?\d{4}`)

// DirectoryEntry is one profile card from the campus people directory
// listing. Email and Phone are empty strings rather than nil so directory
// artifacts stay shaped like the original listing export.
type DirectoryEntry struct {
	Name       string   `json:"name"`
	ProfileURL string   `json:"profile_url"`
	Tags       []string `json:"tags"`
	Positions  []string `json:"positions"`
	Email      string   `json:"email"`
	Phone      string   `json:"phone"`
}

// ExtractDirectory parses the profile cards on one directory listing page.
// Cards without a recognizable name are skipped. baseURL resolves relative
// profile links.
func ExtractDirectory(doc *goquery.Document, baseURL string) []DirectoryEntry {
	base, _ := url.Parse(baseURL)

	entries := []DirectoryEntry{}
	doc.Find("article.profile-item").Each(func(i int, card *goquery.Selection) {
		entry, ok := directoryEntry(card, base)
		if ok {
			entries = append(entries, entry)
		}
	})
	return entries
}

func directoryEntry(card *goquery.Selection, base *url.URL) (DirectoryEntry, bool) {
	link := card.Find("h3.arrow-link a").First()
	if link.Length() == 0 {
		link = card.Find("h2 a").First()
	}
	if link.Length() == 0 {
		link = card.Find(`a[href*="/directory/people/"]`).First()
	}
	if link.Length() == 0 {
		return DirectoryEntry{}, false
	}

	entry := DirectoryEntry{
		Name:      flatten.Normalize(link.Text()),
		Tags:      []string{},
		Positions: []string{},
	}
	if entry.Name == "" {
		return DirectoryEntry{}, false
	}
	if href, ok := link.Attr("href"); ok {
		entry.ProfileURL = resolveHref(base, href)
	}

	card.Find(`a[href*="profile_type="]`).Each(func(i int, tag *goquery.Selection) {
		if text := flatten.Normalize(tag.Text()); text != "" {
			entry.Tags = append(entry.Tags, text)
		}
	})

	card.Find("span.positions-list li").Each(func(i int, li *goquery.Selection) {
		if text := flatten.Normalize(li.Text()); text != "" {
			entry.Positions = append(entry.Positions, text)
		}
	})

	if mail := card.Find(`a[href^="mailto:"]`).First(); mail.Length() > 0 {
		href, _ := mail.Attr("href")
		entry.Email = strings.TrimPrefix(href, "mailto:")
		// The phone number renders as loose text next to the email link.
		entry.Phone = looseDigitsPattern.FindString(mail.Parent().Text())
	}

	return entry, true
}

func resolveHref(base *url.URL, href string) string {
	if base == nil {
		return href
	}
	u, err := url.Parse(href)
	if err != nil {
		return href
	}
	return base.ResolveReference(u).String()
}
