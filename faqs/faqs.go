// Package faqs extracts question-and-answer content from accordion FAQ
// pages. Each accordion carries a button title and a content pane; some
// pages use the title as a category over several Q&A pairs marked by bold
// text or a trailing question mark, others use the title as the question
// itself with the pane as its answer. Both shapes collapse to the same
// category records.
package faqs

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/pevans/campusdata/flatten"
)

// Link is a hyperlink found inside an accordion pane. Relative hrefs are
// resolved against the page URL; Type reports whether the target stays on
// the source site.
type Link struct {
	Text string `json:"text"`
	URL  string `json:"url"`
	Type string `json:"type"`
}

// QA is one question with its accumulated answer. Answer joins the
// paragraphs with spaces; AnswerParagraphs keeps them separate.
type QA struct {
	Question         string   `json:"question"`
	Answer           string   `json:"answer"`
	AnswerParagraphs []string `json:"answer_paragraphs"`
}

// Category is one accordion's worth of Q&A pairs.
type Category struct {
	Title string `json:"category"`
	Count int    `json:"faq_count"`
	FAQs  []QA   `json:"faqs"`
	Links []Link `json:"links"`
}

// Extract collects every accordion under root. Accordions with no title or
// no extractable content are dropped. baseURL resolves relative links.
func Extract(root *goquery.Selection, baseURL string) []Category {
	base, _ := url.Parse(baseURL)

	categories := []Category{}
	root.Find("div.accordion").Each(func(i int, acc *goquery.Selection) {
		button := acc.Find("button.accordion__button").First()
		if button.Length() == 0 {
			return
		}
		title := flatten.Normalize(button.Find("h3.accordion__button-text").Text())
		if title == "" {
			title = flatten.Normalize(button.Text())
		}

		content := acc.Find("div.accordion__content").First()
		if title == "" || content.Length() == 0 {
			return
		}

		pairs := parsePairs(content)
		if len(pairs) == 0 {
			// Single-FAQ shape: the button text is the question and the
			// whole pane is its answer.
			if qa, ok := paneAnswer(title, content); ok {
				pairs = []QA{qa}
			}
		}
		if len(pairs) == 0 {
			return
		}

		categories = append(categories, Category{
			Title: title,
			Count: len(pairs),
			FAQs:  pairs,
			Links: extractLinks(content, base),
		})
	})

	return categories
}

// parsePairs walks the pane's direct children pairing questions with the
// answer paragraphs that follow. A paragraph opens a question when it holds
// bold text or ends with a question mark; list items are folded into the
// open answer as bullets. Questions that accumulate no answer are dropped.
func parsePairs(content *goquery.Selection) []QA {
	pairs := []QA{}
	question := ""
	answers := []string{}

	flush := func() {
		if question != "" && len(answers) > 0 {
			pairs = append(pairs, QA{
				Question:         question,
				Answer:           strings.Join(answers, " "),
				AnswerParagraphs: answers,
			})
		}
	}

	content.Children().Each(func(i int, el *goquery.Selection) {
		switch goquery.NodeName(el) {
		case "p", "div":
			text := flatten.Normalize(el.Text())
			strong := el.Find("strong").First()
			if strong.Length() > 0 || strings.HasSuffix(text, "?") {
				flush()
				answers = []string{}
				if strong.Length() > 0 {
					question = flatten.Normalize(strong.Text())
					// Text after the bold question already starts the answer.
					rest := flatten.Normalize(strings.Replace(el.Text(), strong.Text(), "", 1))
					if rest != "" {
						answers = append(answers, rest)
					}
				} else {
					question = text
				}
				return
			}
			if question != "" && text != "" {
				answers = append(answers, text)
			}
		case "ul", "ol":
			if question == "" {
				return
			}
			el.ChildrenFiltered("li").Each(func(i int, li *goquery.Selection) {
				if text := flatten.Normalize(li.Text()); text != "" {
					answers = append(answers, "• "+text)
				}
			})
		}
	})
	flush()

	return pairs
}

// paneAnswer treats the whole pane as the answer to the accordion title.
func paneAnswer(title string, content *goquery.Selection) (QA, bool) {
	paragraphs := []string{}
	content.Find("p, li").Each(func(i int, el *goquery.Selection) {
		if text := flatten.Normalize(el.Text()); text != "" {
			paragraphs = append(paragraphs, text)
		}
	})
	if len(paragraphs) == 0 {
		if text := flatten.Normalize(content.Text()); text != "" {
			paragraphs = []string{text}
		}
	}
	if len(paragraphs) == 0 {
		return QA{}, false
	}
	return QA{
		Question:         title,
		Answer:           strings.Join(paragraphs, " "),
		AnswerParagraphs: paragraphs,
	}, true
}

// extractLinks collects the pane's hyperlinks, skipping fragments and
// resolving relative hrefs against base.
func extractLinks(content *goquery.Selection, base *url.URL) []Link {
	links := []Link{}
	content.Find("a[href]").Each(func(i int, a *goquery.Selection) {
		href, _ := a.Attr("href")
		text := flatten.Normalize(a.Text())
		if text == "" || href == "" || strings.HasPrefix(href, "#") {
			return
		}
		links = append(links, Link{Text: text, URL: resolve(base, href), Type: linkType(base, href)})
	})
	return links
}

func resolve(base *url.URL, href string) string {
	if base == nil {
		return href
	}
	u, err := url.Parse(href)
	if err != nil {
		return href
	}
	return base.ResolveReference(u).String()
}

func linkType(base *url.URL, href string) string {
	u, err := url.Parse(href)
	if err != nil || u.Host == "" {
		return "internal"
	}
	if base != nil && u.Host == base.Host {
		return "internal"
	}
	return "external"
}
