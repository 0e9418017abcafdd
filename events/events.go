// Package events ingests campus announcement and event feeds. Universities
// publish these as RSS or Atom; gofeed detects and normalizes both formats,
// so one ingest path serves either.
package events

import (
	"fmt"
	"time"

	"github.com/mmcdole/gofeed"

	"github.com/pevans/campusdata/flatten"
)

// Event is one announcement or calendar event taken from a feed item.
type Event struct {
	Title       string     `json:"title"`
	Summary     string     `json:"summary"`
	URL         string     `json:"url"`
	PublishedAt *time.Time `json:"published_at"`
}

// Feed is the serializable result of ingesting one feed.
type Feed struct {
	SourceURL string  `json:"source_url"`
	FeedTitle string  `json:"feed_title"`
	Events    []Event `json:"events"`
}

// Fetch retrieves and parses the feed at url and converts its items to
// events. Items without a title or link are kept; the feed's publication
// metadata is noisy enough that dropping them loses real announcements.
func Fetch(url string) (*Feed, error) {
	parsed, err := gofeed.NewParser().ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("failed to parse feed: %w", err)
	}
	return convert(url, parsed), nil
}

func convert(url string, parsed *gofeed.Feed) *Feed {
	feed := &Feed{
		SourceURL: url,
		FeedTitle: flatten.Normalize(parsed.Title),
		Events:    []Event{},
	}

	for _, item := range parsed.Items {
		var publishedAt *time.Time
		if item.PublishedParsed != nil {
			publishedAt = item.PublishedParsed
		} else if item.UpdatedParsed != nil {
			publishedAt = item.UpdatedParsed
		}

		feed.Events = append(feed.Events, Event{
			Title:       flatten.Normalize(item.Title),
			Summary:     flatten.Normalize(item.Description),
			URL:         item.Link,
			PublishedAt: publishedAt,
		})
	}

	return feed
}
