// Package artifact writes scraped documents to disk. Every scrape job ends
// in exactly one of these writes; there is no other persistence of the
// extracted data.
package artifact

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Write serializes doc as indented UTF-8 JSON at path, creating parent
// directories as needed. The write replaces any previous artifact at the
// same path; each run re-derives the full document from scratch.
func Write(path string, doc any) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal document: %w", err)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write artifact: %w", err)
	}

	return nil
}
