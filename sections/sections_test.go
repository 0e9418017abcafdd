package sections

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parseHTML(t *testing.T, markup string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	require.NoError(t, err)
	return doc
}

// TestExtract verifies h2 sections with paragraphs and steps
func TestExtract(t *testing.T) {
	doc := parseHTML(t, `<html><body><article>
		<h2 id="late-registration">Late Registration</h2>
		<p>Students may register  late with approval.</p>
		<ol><li>Obtain advisor approval.</li><li>Submit the form.</li></ol>
		<h2>Audit Policy</h2>
		<p>Audited courses earn no credit.</p>
	</article></body></html>`)

	result := Extract(doc.Find("article"), "h2")

	require.Len(t, result, 2)

	first := result[0]
	assert.Equal(t, "late-registration", first.ID)
	assert.Equal(t, "Late Registration", first.Title)
	assert.Equal(t, 2, first.Level)
	assert.Equal(t, []string{"Students may register late with approval."}, first.Paragraphs)
	assert.Equal(t, []string{"Obtain advisor approval.", "Submit the form."}, first.Steps)
	assert.Contains(t, first.FullText, "register late")
	assert.Contains(t, first.FullText, "Submit the form.")

	assert.Equal(t, "Audit Policy", result[1].Title)
	assert.Empty(t, result[1].Steps)
}

// TestExtract_NestedLevels verifies multi-level heading handling
func TestExtract_NestedLevels(t *testing.T) {
	doc := parseHTML(t, `<html><body><div id="textcontainer">
		<h2>Transfer Credit</h2>
		<p>General rules.</p>
		<h3>Graduate Courses</h3>
		<p>Up to nine hours may transfer.</p>
	</div></body></html>`)

	result := Extract(doc.Find("#textcontainer"), "h2", "h3", "h4")

	require.Len(t, result, 2)
	assert.Equal(t, 2, result[0].Level)
	assert.Equal(t, 3, result[1].Level)
	assert.Equal(t, []string{"Up to nine hours may transfer."}, result[1].Paragraphs)
}

// TestExtract_ContentBeforeHeadingDropped verifies leading content is ignored
func TestExtract_ContentBeforeHeadingDropped(t *testing.T) {
	doc := parseHTML(t, `<html><body><div>
		<p>Intro text with no section.</p>
		<h2>First Section</h2>
		<p>Body.</p>
	</div></body></html>`)

	result := Extract(doc.Find("div"), "h2")

	require.Len(t, result, 1)
	assert.Equal(t, "First Section", result[0].Title)
}

// TestExtract_NoHeadings verifies the empty result case
func TestExtract_NoHeadings(t *testing.T) {
	doc := parseHTML(t, `<html><body><div><p>Just text.</p></div></body></html>`)

	assert.Empty(t, Extract(doc.Find("div"), "h2"))
}
