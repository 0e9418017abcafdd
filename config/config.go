// Package config loads the YAML job file that drives the scrapers. All
// page-specific knowledge (URLs, section titles, CSS selectors, marker
// tokens) lives here as data, so pointing a scraper at a differently laid
// out page never requires a code change.
package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Custom errors for config validation
var (
	ErrNoJobs         = errors.New("config defines no jobs")
	ErrMissingName    = errors.New("job is missing a name")
	ErrMissingOutput  = errors.New("job is missing an output path")
	ErrMissingSource  = errors.New("job needs a url or a path")
	ErrInvalidKind    = errors.New("unknown job kind")
	ErrMissingSection = errors.New("job kind requires a section title")
)

// Job kinds, one per scraper pipeline.
const (
	KindTuition   = "tuition"   // token-stream rate/fee parser
	KindCohorts   = "cohorts"   // cohort triples plus categorized fee pairs
	KindSections  = "sections"  // leveled prose sections
	KindCalendar  = "calendar"  // academic calendar terms
	KindHolds     = "holds"     // registration-hold table
	KindPeople    = "people"    // office staff listing
	KindDirectory = "directory" // paginated campus people directory
	KindFAQs      = "faqs"      // accordion FAQ categories
	KindPDF       = "pdf"       // per-page PDF text
	KindFeed      = "feed"      // RSS/Atom announcements
)

var validKinds = map[string]bool{
	KindTuition:   true,
	KindCohorts:   true,
	KindSections:  true,
	KindCalendar:  true,
	KindHolds:     true,
	KindPeople:    true,
	KindDirectory: true,
	KindFAQs:      true,
	KindPDF:       true,
	KindFeed:      true,
}

// Job configures one scrape pipeline run.
type Job struct {
	Name   string `yaml:"name"`
	Kind   string `yaml:"kind"`
	URL    string `yaml:"url,omitempty"`
	Path   string `yaml:"path,omitempty"` // local file, pdf jobs only
	Output string `yaml:"output"`

	// Container is a CSS selector narrowing the page region; defaults to
	// the page's main element.
	Container string `yaml:"container,omitempty"`

	// Section is the heading text that opens the scraped region (tuition,
	// cohorts) or names it (people).
	Section    string `yaml:"section,omitempty"`
	HeadingTag string `yaml:"heading_tag,omitempty"` // defaults to h2

	// HeadingTags are the tags that open sections for sections jobs.
	HeadingTags []string `yaml:"heading_tags,omitempty"`

	// StopTags end the flattened region; default is the heading's own tag.
	StopTags []string `yaml:"stop_tags,omitempty"`

	// Tuition parser markers.
	UnitMarkers map[string]string `yaml:"unit_markers,omitempty"`
	Terminator  string            `yaml:"terminator,omitempty"`
	FeeMarker   string            `yaml:"fee_marker,omitempty"`

	// Cohort jobs: label prefix and the fee sections to flatten.
	CohortPrefix string   `yaml:"cohort_prefix,omitempty"`
	FeeSections  []string `yaml:"fee_sections,omitempty"`

	// Holds jobs: the header column that identifies the target table.
	RequiredColumn string `yaml:"required_column,omitempty"`

	// Directory jobs: cap on listing pages crawled; 0 uses the default.
	MaxPages int `yaml:"max_pages,omitempty"`
}

// File is the top-level config structure.
type File struct {
	// Archive is the SQLite path for the run archive. Empty disables
	// archiving.
	Archive string `yaml:"archive,omitempty"`

	// OutputDir is prepended to relative job output paths.
	OutputDir string `yaml:"output_dir,omitempty"`

	Jobs []Job `yaml:"jobs"`
}

// Load reads and validates a config file.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg File
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks every job for the fields its kind requires.
func (f *File) Validate() error {
	if len(f.Jobs) == 0 {
		return ErrNoJobs
	}

	for i := range f.Jobs {
		job := &f.Jobs[i]
		if job.Name == "" {
			return fmt.Errorf("job %d: %w", i, ErrMissingName)
		}
		if !validKinds[job.Kind] {
			return fmt.Errorf("job %q: %w: %q", job.Name, ErrInvalidKind, job.Kind)
		}
		if job.Output == "" {
			return fmt.Errorf("job %q: %w", job.Name, ErrMissingOutput)
		}
		if job.URL == "" && job.Path == "" {
			return fmt.Errorf("job %q: %w", job.Name, ErrMissingSource)
		}
		switch job.Kind {
		case KindTuition, KindCohorts, KindPeople:
			if job.Section == "" {
				return fmt.Errorf("job %q: %w", job.Name, ErrMissingSection)
			}
		}
	}

	return nil
}

// Find returns the job with the given name.
func (f *File) Find(name string) (*Job, bool) {
	for i := range f.Jobs {
		if f.Jobs[i].Name == name {
			return &f.Jobs[i], true
		}
	}
	return nil, false
}

// HeadingTagOrDefault returns the configured heading tag, defaulting to h2.
func (j *Job) HeadingTagOrDefault() string {
	if j.HeadingTag == "" {
		return "h2"
	}
	return j.HeadingTag
}
