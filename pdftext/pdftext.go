// Package pdftext extracts per-page text from PDF documents such as the
// student handbook, producing the same serializable shape the page scrapers
// emit.
package pdftext

import (
	"fmt"
	"io"
	"os"
	"strings"

	pdflib "github.com/ledongthuc/pdf"
)

// Page holds the extracted text of a single PDF page. Pages that yield no
// text (scanned images, extraction failures) are kept with empty text so
// page numbering mirrors the source document.
type Page struct {
	Number int    `json:"page_number"`
	Text   string `json:"text"`
}

// Document is the extracted content of one PDF.
type Document struct {
	TotalPages int    `json:"total_pages"`
	Pages      []Page `json:"text_by_page"`
}

// ExtractFile extracts the text of the PDF at path.
func ExtractFile(path string) (*Document, error) {
	f, reader, err := pdflib.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open PDF: %w", err)
	}
	defer f.Close()

	doc := &Document{
		TotalPages: reader.NumPage(),
		Pages:      []Page{},
	}

	for i := 1; i <= doc.TotalPages; i++ {
		page := reader.Page(i)
		text := ""
		if !page.V.IsNull() {
			if t, err := page.GetPlainText(nil); err == nil {
				text = strings.TrimSpace(t)
			}
		}
		doc.Pages = append(doc.Pages, Page{Number: i, Text: text})
	}

	return doc, nil
}

// Extract reads a PDF from r. The underlying library needs a seekable file
// with a known size, so the stream is spooled to a temp file first.
func Extract(r io.Reader) (*Document, error) {
	tmp, err := os.CreateTemp("", "campusdata-pdf-*.pdf")
	if err != nil {
		return nil, fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := io.Copy(tmp, r); err != nil {
		tmp.Close()
		return nil, fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return nil, fmt.Errorf("failed to close temp file: %w", err)
	}

	return ExtractFile(tmpPath)
}
