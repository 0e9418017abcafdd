package tuition

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() Config {
	return Config{
		UnitMarkers: map[string]string{
			"Per Credit Hour": "per credit hour",
		},
		Terminator: "Per Semester",
	}
}

func strptr(s string) *string { return &s }

// TestParse_FullStream verifies a complete rate-plus-fees token stream
func TestParse_FullStream(t *testing.T) {
	tokens := []string{
		"Per Credit Hour",
		"Summer Courses (Summer 2025)", "$1,780",
		"Per Semester",
		"Activity Fee »",
		"Full time", "$125",
		"Part time", "$62",
	}

	doc := Parse(tokens, testConfig())

	require.Len(t, doc.Rates, 1)
	assert.Equal(t, "Summer Courses (Summer 2025)", doc.Rates[0].Label)
	assert.Equal(t, 1780, doc.Rates[0].Amount)
	require.NotNil(t, doc.Rates[0].Unit)
	assert.Equal(t, "per credit hour", *doc.Rates[0].Unit)

	require.Len(t, doc.Fees, 1)
	assert.Equal(t, "Activity Fee", doc.Fees[0].Name, "decoration should be stripped")
	require.Len(t, doc.Fees[0].Rows, 2)
	assert.Equal(t, Row{Label: "Full time", Amount: 125}, doc.Fees[0].Rows[0])
	assert.Equal(t, Row{Label: "Part time", Amount: 62}, doc.Fees[0].Rows[1])
}

// TestParse_EmptyStream verifies the empty-input case
func TestParse_EmptyStream(t *testing.T) {
	doc := Parse(nil, testConfig())

	assert.Empty(t, doc.Rates)
	assert.Empty(t, doc.Fees)
	assert.NotNil(t, doc.Rates, "slices should be empty, not nil")
	assert.NotNil(t, doc.Fees, "slices should be empty, not nil")
	assert.Zero(t, doc.SkippedTokens)
}

// TestParse_Deterministic verifies repeated parses yield identical results
func TestParse_Deterministic(t *testing.T) {
	tokens := []string{
		"Per Credit Hour",
		"Fall 2025", "$1,851",
		"Per Semester",
		"UPass Fee »",
		"Full time", "$160",
	}

	first := Parse(tokens, testConfig())
	second := Parse(tokens, testConfig())

	assert.Equal(t, first, second)
}

// TestParse_DefaultUnitFallback verifies rows inherit the marker's unit
func TestParse_DefaultUnitFallback(t *testing.T) {
	tokens := []string{"Per Credit Hour", "Admitted Fall 2025", "$1,851"}

	doc := Parse(tokens, testConfig())

	require.Len(t, doc.Rates, 1)
	require.NotNil(t, doc.Rates[0].Unit)
	assert.Equal(t, "per credit hour", *doc.Rates[0].Unit)
}

// TestParse_ExplicitUnitOverridesDefault verifies per-row units win
func TestParse_ExplicitUnitOverridesDefault(t *testing.T) {
	tokens := []string{
		"Per Credit Hour",
		"Short Courses", "$2,314 /per course",
	}

	doc := Parse(tokens, testConfig())

	require.Len(t, doc.Rates, 1)
	require.NotNil(t, doc.Rates[0].Unit)
	assert.Equal(t, "per course", *doc.Rates[0].Unit)
}

// TestParse_NoDefaultUnit verifies rows before any marker carry no unit
func TestParse_NoDefaultUnit(t *testing.T) {
	tokens := []string{"Fall 2025", "$1,851"}

	doc := Parse(tokens, testConfig())

	require.Len(t, doc.Rates, 1)
	assert.Nil(t, doc.Rates[0].Unit)
}

// TestParse_MarkersNotEmitted verifies structural markers never become rows
func TestParse_MarkersNotEmitted(t *testing.T) {
	tokens := []string{
		"Per Credit Hour",
		"Per Semester",
	}

	doc := Parse(tokens, testConfig())

	assert.Empty(t, doc.Rates)
	assert.Empty(t, doc.Fees)
}

// TestParse_HeaderPrecedence verifies fee headers beat row pairing
func TestParse_HeaderPrecedence(t *testing.T) {
	tokens := []string{
		"Per Semester",
		"Some Fee", "$125",
	}

	doc := Parse(tokens, testConfig())

	// "Some Fee" opens a block rather than pairing with "$125"; the block
	// picks up no rows and is discarded on flush.
	assert.Empty(t, doc.Fees)
	assert.Empty(t, doc.Rates)
}

// TestParse_EmptyBlockDiscarded verifies headerless and rowless blocks drop
func TestParse_EmptyBlockDiscarded(t *testing.T) {
	tokens := []string{
		"Per Semester",
		"Service Fee »",
		"Activity Fee »",
		"Full time", "$125",
	}

	doc := Parse(tokens, testConfig())

	require.Len(t, doc.Fees, 1, "the rowless Service Fee block should be discarded")
	assert.Equal(t, "Activity Fee", doc.Fees[0].Name)
}

// TestParse_RowsBeforeAnyHeaderDropped verifies fee rows need an open block
func TestParse_RowsBeforeAnyHeaderDropped(t *testing.T) {
	tokens := []string{
		"Per Semester",
		"Full time", "$125",
	}

	doc := Parse(tokens, testConfig())

	assert.Empty(t, doc.Fees)
	assert.Equal(t, 2, doc.SkippedTokens)
}

// TestParse_StrayTokenBreaksPairing documents the one-token lookahead limit.
// A decorative token between a label and its money value means the pair is
// never made; both tokens fall through as noise. Widening the lookahead
// would change which rows are emitted for real pages, so the limit stands.
func TestParse_StrayTokenBreaksPairing(t *testing.T) {
	tokens := []string{"CAPS Courses", "»", "$1,851 /per course"}

	doc := Parse(tokens, testConfig())

	assert.Empty(t, doc.Rates)
}

// TestParse_NoiseSkippedAndCounted verifies unmatched tokens are counted
func TestParse_NoiseSkippedAndCounted(t *testing.T) {
	tokens := []string{
		"Tuition Rates 2025–2026", // section title leaks into the stream
		"Per Credit Hour",
		"Fall 2025", "$1,851",
		"|",
	}

	doc := Parse(tokens, testConfig())

	require.Len(t, doc.Rates, 1)
	assert.Equal(t, 2, doc.SkippedTokens)
}

// TestParse_MissingTerminator verifies the fee region tolerates its absence
func TestParse_MissingTerminator(t *testing.T) {
	tokens := []string{
		"Per Credit Hour",
		"Fall 2025", "$1,851",
	}

	doc := Parse(tokens, testConfig())

	require.Len(t, doc.Rates, 1)
	assert.Empty(t, doc.Fees)
}

// TestParse_FeeRowKeepsOwnUnit verifies fee rows never inherit the default
func TestParse_FeeRowKeepsOwnUnit(t *testing.T) {
	tokens := []string{
		"Per Credit Hour",
		"Per Semester",
		"Health Fee »",
		"Insurance", "$50 / per course",
		"Clinic", "$40",
	}

	doc := Parse(tokens, testConfig())

	require.Len(t, doc.Fees, 1)
	require.Len(t, doc.Fees[0].Rows, 2)
	assert.Equal(t, strptr("per course"), doc.Fees[0].Rows[0].Unit)
	assert.Nil(t, doc.Fees[0].Rows[1].Unit, "fee rows do not inherit the tuition default unit")
}

// TestParse_MoneyTokenMentioningFee verifies money tokens cannot open blocks
func TestParse_MoneyTokenMentioningFee(t *testing.T) {
	tokens := []string{
		"Per Semester",
		"Lab Fee »",
		"Materials", "$30 / per Fee cycle",
	}

	doc := Parse(tokens, testConfig())

	require.Len(t, doc.Fees, 1)
	require.Len(t, doc.Fees[0].Rows, 1)
	assert.Equal(t, "Materials", doc.Fees[0].Rows[0].Label)
}

// TestParse_MultipleBlocks verifies block boundaries at each header
func TestParse_MultipleBlocks(t *testing.T) {
	tokens := []string{
		"Per Semester",
		"Activity Fee »",
		"Full time", "$125",
		"Part time", "$62",
		"Student Service Fee »",
		"Full time", "$230",
	}

	doc := Parse(tokens, testConfig())

	require.Len(t, doc.Fees, 2)
	assert.Equal(t, "Activity Fee", doc.Fees[0].Name)
	assert.Len(t, doc.Fees[0].Rows, 2)
	assert.Equal(t, "Student Service Fee", doc.Fees[1].Name)
	assert.Len(t, doc.Fees[1].Rows, 1)
}

// TestParse_CustomMarkers verifies marker configuration is honored
func TestParse_CustomMarkers(t *testing.T) {
	cfg := Config{
		UnitMarkers: map[string]string{"Per Unit": "per unit"},
		Terminator:  "Fees",
		FeeMarker:   "Charge",
	}
	tokens := []string{
		"Per Unit",
		"Evening Program", "$900",
		"Fees",
		"Parking Charge",
		"Monthly", "$45",
	}

	doc := Parse(tokens, cfg)

	require.Len(t, doc.Rates, 1)
	assert.Equal(t, strptr("per unit"), doc.Rates[0].Unit)
	require.Len(t, doc.Fees, 1)
	assert.Equal(t, "Parking Charge", doc.Fees[0].Name)
}
