// Package runner executes configured scrape jobs: fetch the page or
// document, extract records with the pipeline matching the job's kind,
// write the JSON artifact, and record the run in the archive.
package runner

import (
	"bytes"
	"fmt"
	"net/url"
	"path/filepath"
	"strconv"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/rs/zerolog"

	"github.com/pevans/campusdata/archive"
	"github.com/pevans/campusdata/artifact"
	"github.com/pevans/campusdata/calendar"
	"github.com/pevans/campusdata/config"
	"github.com/pevans/campusdata/events"
	"github.com/pevans/campusdata/faqs"
	"github.com/pevans/campusdata/fetch"
	"github.com/pevans/campusdata/flatten"
	"github.com/pevans/campusdata/holds"
	"github.com/pevans/campusdata/pdftext"
	"github.com/pevans/campusdata/people"
	"github.com/pevans/campusdata/sections"
	"github.com/pevans/campusdata/tuition"
)

// Runner executes jobs against one config file's settings. The archive
// store is optional; a nil store disables run recording.
type Runner struct {
	client    *fetch.Client
	store     *archive.Store
	outputDir string
	log       zerolog.Logger
}

// New creates a runner. outputDir is prepended to relative artifact paths.
func New(client *fetch.Client, store *archive.Store, outputDir string, log zerolog.Logger) *Runner {
	if client == nil {
		client = fetch.NewClient(0)
	}
	return &Runner{
		client:    client,
		store:     store,
		outputDir: outputDir,
		log:       log,
	}
}

// Run executes a single job and returns the recorded run.
func (r *Runner) Run(job config.Job) (archive.Run, error) {
	log := r.log.With().Str("job", job.Name).Str("kind", job.Kind).Logger()
	log.Info().Str("url", job.URL).Str("path", job.Path).Msg("running job")

	outPath := job.Output
	if r.outputDir != "" && !filepath.IsAbs(outPath) {
		outPath = filepath.Join(r.outputDir, outPath)
	}

	var (
		records int
		err     error
	)
	switch job.Kind {
	case config.KindTuition:
		records, err = r.runTuition(job, outPath, log)
	case config.KindCohorts:
		records, err = r.runCohorts(job, outPath)
	case config.KindSections:
		records, err = r.runSections(job, outPath)
	case config.KindCalendar:
		records, err = r.runCalendar(job, outPath)
	case config.KindHolds:
		records, err = r.runHolds(job, outPath)
	case config.KindPeople:
		records, err = r.runPeople(job, outPath)
	case config.KindDirectory:
		records, err = r.runDirectory(job, outPath, log)
	case config.KindFAQs:
		records, err = r.runFAQs(job, outPath)
	case config.KindPDF:
		records, err = r.runPDF(job, outPath)
	case config.KindFeed:
		records, err = r.runFeed(job, outPath)
	default:
		err = fmt.Errorf("unknown job kind %q", job.Kind)
	}
	if err != nil {
		return archive.Run{}, fmt.Errorf("job %q: %w", job.Name, err)
	}

	run := archive.Run{
		Job:          job.Name,
		Kind:         job.Kind,
		SourceURL:    sourceOf(job),
		ArtifactPath: outPath,
		Records:      records,
		ScrapedAt:    time.Now().UTC(),
	}
	if r.store != nil {
		if run.RunID, err = r.store.Record(run); err != nil {
			return archive.Run{}, fmt.Errorf("job %q: %w", job.Name, err)
		}
	}

	log.Info().Int("records", records).Str("artifact", outPath).Msg("job finished")
	return run, nil
}

// RunAll executes every job in the config, continuing past individual
// failures so one broken page doesn't block the rest of the batch. The
// error reports how many jobs failed, if any.
func (r *Runner) RunAll(jobs []config.Job) error {
	failed := 0
	for _, job := range jobs {
		if _, err := r.Run(job); err != nil {
			r.log.Error().Err(err).Str("job", job.Name).Msg("job failed")
			failed++
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d jobs failed", failed, len(jobs))
	}
	return nil
}

func sourceOf(job config.Job) string {
	if job.URL != "" {
		return job.URL
	}
	return job.Path
}

// region returns the job's content root within a fetched document.
func region(doc *goquery.Document, job config.Job) *goquery.Selection {
	if job.Container != "" {
		return doc.Find(job.Container)
	}
	return flatten.Root(doc)
}

// envelope carries the provenance fields every artifact opens with.
// PageTitle is empty for sources that have none, such as PDFs and feeds.
type envelope struct {
	SourceURL string    `json:"source_url"`
	PageTitle string    `json:"page_title"`
	ScrapedAt time.Time `json:"scraped_at"`
}

func newEnvelope(source, title string) envelope {
	return envelope{SourceURL: source, PageTitle: title, ScrapedAt: time.Now().UTC()}
}

func (r *Runner) runTuition(job config.Job, outPath string, log zerolog.Logger) (int, error) {
	htmlDoc, err := r.client.Document(job.URL)
	if err != nil {
		return 0, err
	}

	root := region(htmlDoc, job)
	tokens := flatten.SectionTokens(root, job.HeadingTagOrDefault(), job.Section, job.StopTags...)

	doc := tuition.Parse(tokens, tuition.Config{
		UnitMarkers: job.UnitMarkers,
		Terminator:  job.Terminator,
		FeeMarker:   job.FeeMarker,
	})

	records := len(doc.Rates)
	for _, fee := range doc.Fees {
		records += len(fee.Rows)
	}
	if doc.SkippedTokens > 0 {
		log.Debug().Int("skipped_tokens", doc.SkippedTokens).Msg("skipped unrecognized tokens")
	}

	out := tuitionDocument{
		envelope: newEnvelope(job.URL, flatten.Title(htmlDoc)),
		Rates:    doc.Rates,
		Fees:     doc.Fees,
	}
	return records, artifact.Write(outPath, out)
}

type tuitionDocument struct {
	envelope
	Rates []tuition.Rate     `json:"tuition_rates"`
	Fees  []tuition.FeeBlock `json:"fees"`
}

type cohortDocument struct {
	envelope
	Tuition []tuition.Cohort         `json:"tuition"`
	Fees    []tuition.CategorizedFee `json:"fees"`
}

func (r *Runner) runCohorts(job config.Job, outPath string) (int, error) {
	htmlDoc, err := r.client.Document(job.URL)
	if err != nil {
		return 0, err
	}

	root := region(htmlDoc, job)
	prefix := job.CohortPrefix
	if prefix == "" {
		prefix = "Admitted"
	}

	tokens := flatten.SectionTokens(root, job.HeadingTagOrDefault(), job.Section, job.StopTags...)
	doc := cohortDocument{
		envelope: newEnvelope(job.URL, flatten.Title(htmlDoc)),
		Tuition:  tuition.ParseCohorts(tokens, prefix),
		Fees:     []tuition.CategorizedFee{},
	}

	for _, feeSection := range job.FeeSections {
		feeTokens := flatten.SectionTokens(root, job.HeadingTagOrDefault(), feeSection, job.StopTags...)
		doc.Fees = append(doc.Fees, tuition.ParseFeePairs(feeTokens, feeSection)...)
	}

	return len(doc.Tuition) + len(doc.Fees), artifact.Write(outPath, doc)
}

type sectionsDocument struct {
	envelope
	Sections []sections.Section `json:"sections"`
}

func (r *Runner) runSections(job config.Job, outPath string) (int, error) {
	htmlDoc, err := r.client.Document(job.URL)
	if err != nil {
		return 0, err
	}

	headingTags := job.HeadingTags
	if len(headingTags) == 0 {
		headingTags = []string{"h2"}
	}

	doc := sectionsDocument{
		envelope: newEnvelope(job.URL, flatten.Title(htmlDoc)),
		Sections: sections.Extract(region(htmlDoc, job), headingTags...),
	}

	return len(doc.Sections), artifact.Write(outPath, doc)
}

type calendarDocument struct {
	envelope
	Terms []calendar.Term `json:"terms"`
}

func (r *Runner) runCalendar(job config.Job, outPath string) (int, error) {
	htmlDoc, err := r.client.Document(job.URL)
	if err != nil {
		return 0, err
	}

	doc := calendarDocument{
		envelope: newEnvelope(job.URL, flatten.Title(htmlDoc)),
		Terms:    calendar.Extract(region(htmlDoc, job)),
	}

	records := 0
	for _, term := range doc.Terms {
		records += len(term.Items)
	}

	return records, artifact.Write(outPath, doc)
}

type holdsDocument struct {
	envelope
	Records []holds.Record `json:"records"`
}

func (r *Runner) runHolds(job config.Job, outPath string) (int, error) {
	htmlDoc, err := r.client.Document(job.URL)
	if err != nil {
		return 0, err
	}

	column := job.RequiredColumn
	if column == "" {
		column = "Hold Description"
	}

	table, err := holds.FindTable(htmlDoc, column)
	if err != nil {
		return 0, err
	}

	doc := holdsDocument{
		envelope: newEnvelope(job.URL, flatten.Title(htmlDoc)),
		Records:  holds.Extract(table, job.URL),
	}

	return len(doc.Records), artifact.Write(outPath, doc)
}

type peopleDocument struct {
	envelope
	People []people.Person `json:"people"`
}

func (r *Runner) runPeople(job config.Job, outPath string) (int, error) {
	htmlDoc, err := r.client.Document(job.URL)
	if err != nil {
		return 0, err
	}

	found, err := people.Extract(region(htmlDoc, job), job.Section)
	if err != nil {
		return 0, err
	}

	doc := peopleDocument{
		envelope: newEnvelope(job.URL, flatten.Title(htmlDoc)),
		People:   found,
	}

	return len(doc.People), artifact.Write(outPath, doc)
}

type directoryDocument struct {
	envelope
	TotalPeople int                     `json:"total_people"`
	People      []people.DirectoryEntry `json:"people"`
}

// defaultMaxPages caps the directory crawl so a listing that never empties
// cannot loop forever.
const defaultMaxPages = 200

// emptyPageLimit stops the crawl after this many consecutive pages with no
// profile cards.
const emptyPageLimit = 3

func (r *Runner) runDirectory(job config.Job, outPath string, log zerolog.Logger) (int, error) {
	maxPages := job.MaxPages
	if maxPages <= 0 {
		maxPages = defaultMaxPages
	}

	var title string
	entries := []people.DirectoryEntry{}
	empty := 0
	for page := 0; page < maxPages; page++ {
		pageURL, err := listingURL(job.URL, page)
		if err != nil {
			return 0, err
		}

		htmlDoc, err := r.client.Document(pageURL)
		if err != nil {
			// Later pages past the end of the listing commonly 404; keep
			// what the earlier pages yielded.
			if page == 0 {
				return 0, err
			}
			log.Debug().Err(err).Int("page", page).Msg("directory crawl stopped")
			break
		}
		if page == 0 {
			title = flatten.Title(htmlDoc)
		}

		found := people.ExtractDirectory(htmlDoc, job.URL)
		if len(found) == 0 {
			empty++
			if empty >= emptyPageLimit {
				break
			}
			continue
		}
		empty = 0
		entries = append(entries, found...)
	}

	doc := directoryDocument{
		envelope:    newEnvelope(job.URL, title),
		TotalPeople: len(entries),
		People:      entries,
	}

	return len(doc.People), artifact.Write(outPath, doc)
}

// listingURL appends the page query parameter to the listing URL.
func listingURL(raw string, page int) (string, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("bad directory url %q: %w", raw, err)
	}
	q := u.Query()
	q.Set("page", strconv.Itoa(page))
	u.RawQuery = q.Encode()
	return u.String(), nil
}

type faqDocument struct {
	envelope
	TotalCategories int             `json:"total_categories"`
	TotalFAQs       int             `json:"total_faqs"`
	Categories      []faqs.Category `json:"categories"`
}

func (r *Runner) runFAQs(job config.Job, outPath string) (int, error) {
	htmlDoc, err := r.client.Document(job.URL)
	if err != nil {
		return 0, err
	}

	categories := faqs.Extract(region(htmlDoc, job), job.URL)
	total := 0
	for _, cat := range categories {
		total += cat.Count
	}

	doc := faqDocument{
		envelope:        newEnvelope(job.URL, flatten.Title(htmlDoc)),
		TotalCategories: len(categories),
		TotalFAQs:       total,
		Categories:      categories,
	}

	return total, artifact.Write(outPath, doc)
}

type pdfDocument struct {
	envelope
	*pdftext.Document
}

func (r *Runner) runPDF(job config.Job, outPath string) (int, error) {
	var (
		doc *pdftext.Document
		err error
	)
	if job.Path != "" {
		doc, err = pdftext.ExtractFile(job.Path)
	} else {
		var body []byte
		if body, err = r.client.Get(job.URL); err == nil {
			doc, err = pdftext.Extract(bytes.NewReader(body))
		}
	}
	if err != nil {
		return 0, err
	}

	out := pdfDocument{envelope: newEnvelope(sourceOf(job), ""), Document: doc}
	return doc.TotalPages, artifact.Write(outPath, out)
}

type feedDocument struct {
	envelope
	Events []events.Event `json:"events"`
}

func (r *Runner) runFeed(job config.Job, outPath string) (int, error) {
	feed, err := events.Fetch(job.URL)
	if err != nil {
		return 0, err
	}

	doc := feedDocument{
		envelope: newEnvelope(job.URL, feed.FeedTitle),
		Events:   feed.Events,
	}
	return len(doc.Events), artifact.Write(outPath, doc)
}
