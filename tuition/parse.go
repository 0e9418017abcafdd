// Package tuition turns the flat token stream scraped from a university
// tuition-and-fees page into structured rate and fee records.
//
// The token stream has no nesting; document order is the only structural
// signal. The parser makes a single left-to-right pass with one token of
// lookahead, pairing label tokens with the money token that follows them.
// Tokens that fit no recognized pattern are skipped rather than treated as
// errors, since scraped streams routinely contain stray glyphs and partial
// phrases.
package tuition

import "strings"

// Config controls the structural markers the parser recognizes. Markers are
// configuration rather than constants so the same parser serves pages with
// different section layouts.
type Config struct {
	// UnitMarkers maps marker tokens to the default billing unit they
	// declare for subsequent rate rows, e.g.
	// "Per Credit Hour" -> "per credit hour".
	UnitMarkers map[string]string

	// Terminator is the token that separates the tuition-rate region from
	// the fee region, e.g. "Per Semester". The parser tolerates its
	// absence.
	Terminator string

	// FeeMarker is the substring identifying fee header tokens. Defaults
	// to "Fee".
	FeeMarker string
}

func (c Config) feeMarker() string {
	if c.FeeMarker == "" {
		return "Fee"
	}
	return c.FeeMarker
}

// Rate is a single tuition-rate row.
type Rate struct {
	Label  string  `json:"label"`
	Amount int     `json:"amount"`
	Unit   *string `json:"unit"`
}

// Row is a single row inside a fee block.
type Row struct {
	Label  string  `json:"label"`
	Amount int     `json:"amount"`
	Unit   *string `json:"unit"`
}

// FeeBlock groups the rows listed under one fee header, e.g. "Activity Fee"
// with "Full time" and "Part time" rows.
type FeeBlock struct {
	Name string `json:"fee_name"`
	Rows []Row  `json:"rows"`
}

// Document is the structured result of parsing one page region. SourceURL
// and PageTitle are provenance fields filled in by the caller; Parse only
// populates the record slices and the skip counter.
type Document struct {
	SourceURL string     `json:"source_url"`
	PageTitle string     `json:"page_title"`
	Rates     []Rate     `json:"tuition_rates"`
	Fees      []FeeBlock `json:"fees"`

	// SkippedTokens counts input tokens that matched no pattern and were
	// dropped. Diagnostic only; not serialized.
	SkippedTokens int `json:"-"`
}

// Parse consumes a token stream in two phases: the tuition-rate region
// (everything before the terminator marker) and the fee region (everything
// after it).
//
// In the rate region, a label token followed by a money token becomes a Rate;
// a row without its own unit inherits the default declared by the most
// recent unit marker. In the fee region, tokens containing the fee marker
// open a new block and label/money pairs accumulate as its rows. Header
// detection takes precedence over row pairing: a token containing the fee
// marker always starts a block, even when a money token follows it. Blocks
// that accumulate no rows are discarded.
//
// Parse never fails. Malformed or unexpected tokens are skipped and counted,
// and an empty token stream yields an empty Document.
func Parse(tokens []string, cfg Config) Document {
	doc := Document{
		Rates: []Rate{},
		Fees:  []FeeBlock{},
	}

	i := 0
	defaultUnit := ""

	// Phase 1: tuition rates, up to (but not consuming) the terminator.
	for i < len(tokens) {
		tok := tokens[i]

		if isJunk(tok) {
			doc.SkippedTokens++
			i++
			continue
		}

		if unit, ok := cfg.UnitMarkers[tok]; ok {
			defaultUnit = unit
			i++
			continue
		}

		if tok == cfg.Terminator {
			break
		}

		if i+1 < len(tokens) {
			if money, ok := ParseMoney(tokens[i+1]); ok {
				unit := money.Unit
				if unit == "" {
					unit = defaultUnit
				}
				doc.Rates = append(doc.Rates, Rate{
					Label:  tok,
					Amount: money.Amount,
					Unit:   optionalUnit(unit),
				})
				i += 2
				continue
			}
		}

		doc.SkippedTokens++
		i++
	}

	// Phase 2: fee blocks, from the terminator to the end of the stream.
	if i < len(tokens) && tokens[i] == cfg.Terminator {
		i++
	}

	var current *FeeBlock
	flush := func() {
		if current != nil && len(current.Rows) > 0 {
			doc.Fees = append(doc.Fees, *current)
		}
		current = nil
	}

	for i < len(tokens) {
		tok := tokens[i]

		if isJunk(tok) {
			doc.SkippedTokens++
			i++
			continue
		}

		if isFeeHeader(tok, cfg) {
			flush()
			current = &FeeBlock{
				Name: cleanFeeName(tok),
				Rows: []Row{},
			}
			i++
			continue
		}

		if current != nil && i+1 < len(tokens) {
			if money, ok := ParseMoney(tokens[i+1]); ok {
				current.Rows = append(current.Rows, Row{
					Label:  tok,
					Amount: money.Amount,
					Unit:   optionalUnit(money.Unit),
				})
				i += 2
				continue
			}
		}

		doc.SkippedTokens++
		i++
	}
	flush()

	return doc
}

// isFeeHeader reports whether a token opens a new fee block. Money tokens
// never qualify, even when they mention the fee marker.
func isFeeHeader(tok string, cfg Config) bool {
	return strings.Contains(tok, cfg.feeMarker()) && !LooksLikeMoney(tok)
}

// isJunk reports whether a token is pure decoration ("»", "|") with no text
// of its own. The flattener filters most of these, but streams assembled by
// other callers may still contain them, and a decorative glyph must never
// pair with a money token as a row label.
func isJunk(tok string) bool {
	return strings.Trim(tok, "»| \t\n") == ""
}

// cleanFeeName strips the "»" decoration some pages append to fee headers.
func cleanFeeName(tok string) string {
	return strings.TrimSpace(strings.ReplaceAll(tok, "»", ""))
}

func optionalUnit(unit string) *string {
	if unit == "" {
		return nil
	}
	return &unit
}
