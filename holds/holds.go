// Package holds extracts the registration-hold table published by the
// registrar: one row per hold type, with checkmark cells indicating which
// services the hold blocks and office/contact cells that may list
// alternatives separated by "OR".
package holds

import (
	"errors"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/pevans/campusdata/flatten"
)

// ErrTableNotFound is returned when no table on the page carries the
// required column, usually meaning the page structure changed.
var ErrTableNotFound = errors.New("hold table not found")

var orPattern = regexp.MustCompile(`\bOR\b`)

// Record is one hold type and its consequences.
type Record struct {
	HoldDescription        string   `json:"hold_description"`
	RegistrationProhibited bool     `json:"registration_prohibited"`
	TranscriptWithheld     bool     `json:"transcript_withheld"`
	ResponsibleOffice      []string `json:"responsible_office"`
	ContactInfo            []string `json:"contact_info"`
	SourceURL              string   `json:"source_url"`
}

// FindTable locates the table whose header row contains requiredColumn
// (case-insensitive substring match).
func FindTable(doc *goquery.Document, requiredColumn string) (*goquery.Selection, error) {
	want := strings.ToLower(requiredColumn)

	var table *goquery.Selection
	doc.Find("table").EachWithBreak(func(i int, t *goquery.Selection) bool {
		match := false
		headerRow(t).Each(func(j int, cell *goquery.Selection) {
			if strings.Contains(strings.ToLower(flatten.Normalize(cell.Text())), want) {
				match = true
			}
		})
		if match {
			table = t
			return false
		}
		return true
	})

	if table == nil {
		return nil, ErrTableNotFound
	}
	return table, nil
}

// Extract converts the hold table's body rows into records. Column values
// are found by header name, so column reordering on the page does not break
// extraction.
func Extract(table *goquery.Selection, sourceURL string) []Record {
	var columns []string
	headerRow(table).Each(func(i int, cell *goquery.Selection) {
		columns = append(columns, flatten.Normalize(cell.Text()))
	})

	records := []Record{}
	table.Find("tr").Each(func(i int, tr *goquery.Selection) {
		if i == 0 {
			return // header row
		}

		row := map[string]string{}
		tr.Find("th, td").Each(func(j int, cell *goquery.Selection) {
			if j < len(columns) {
				row[columns[j]] = flatten.Normalize(cell.Text())
			}
		})
		if len(row) == 0 {
			return
		}

		desc := row["Hold Description"]
		if desc == "" {
			return
		}

		records = append(records, Record{
			HoldDescription:        desc,
			RegistrationProhibited: hasCheckmark(row["Registration Prohibited"]),
			TranscriptWithheld:     hasCheckmark(row["Transcript Withheld"]),
			ResponsibleOffice:      splitOr(row["Responsible Office/Originator"]),
			ContactInfo:            splitOr(row["Contact Information"]),
			SourceURL:              sourceURL,
		})
	})

	return records
}

func headerRow(table *goquery.Selection) *goquery.Selection {
	return table.Find("tr").First().Find("th, td")
}

// hasCheckmark reports whether a cell renders as checked. The pages use a
// "✓" glyph or leave the cell blank.
func hasCheckmark(cell string) bool {
	return strings.Contains(cell, "✓")
}

// splitOr splits a cell on the word OR, for offices that list alternatives
// ("Bursar OR Student Accounting").
func splitOr(cell string) []string {
	if cell == "" {
		return []string{}
	}

	var parts []string
	for _, p := range orPattern.Split(cell, -1) {
		p = strings.Trim(p, " ,")
		if p != "" {
			parts = append(parts, p)
		}
	}
	if len(parts) == 0 {
		return []string{}
	}
	return parts
}
