package tuition

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestParseMoney_PlainAmount verifies amount extraction with separators
func TestParseMoney_PlainAmount(t *testing.T) {
	money, ok := ParseMoney("$25,824")

	require.True(t, ok)
	assert.Equal(t, 25824, money.Amount)
	assert.Empty(t, money.Unit)
}

// TestParseMoney_UnitAfterSlash verifies unit suffix extraction
func TestParseMoney_UnitAfterSlash(t *testing.T) {
	money, ok := ParseMoney("$50 / per course")

	require.True(t, ok)
	assert.Equal(t, 50, money.Amount)
	assert.Equal(t, "per course", money.Unit)
}

// TestParseMoney_TightSlash verifies units written without a space
func TestParseMoney_TightSlash(t *testing.T) {
	money, ok := ParseMoney("$2,314 /per course")

	require.True(t, ok)
	assert.Equal(t, 2314, money.Amount)
	assert.Equal(t, "per course", money.Unit)
}

// TestParseMoney_UnitWhitespaceNormalized verifies unit spacing collapse
func TestParseMoney_UnitWhitespaceNormalized(t *testing.T) {
	money, ok := ParseMoney("$250 / per  credit   hour")

	require.True(t, ok)
	assert.Equal(t, "per credit hour", money.Unit)
}

// TestParseMoney_SpaceAfterDollar verifies tolerance for "$ 125" spacing
func TestParseMoney_SpaceAfterDollar(t *testing.T) {
	money, ok := ParseMoney("$ 125")

	require.True(t, ok)
	assert.Equal(t, 125, money.Amount)
}

// TestParseMoney_NotMoney verifies rejection of tokens without an amount
func TestParseMoney_NotMoney(t *testing.T) {
	for _, token := range []string{
		"",
		"Full time",
		"Activity Fee »",
		"$",
		"$x",
		"per course",
		"125",
	} {
		_, ok := ParseMoney(token)
		assert.False(t, ok, "token %q should not parse as money", token)
	}
}

// TestLooksLikeMoney verifies the recognition predicate in isolation
func TestLooksLikeMoney(t *testing.T) {
	assert.True(t, LooksLikeMoney("$125"))
	assert.True(t, LooksLikeMoney("Technology Fee $75"))
	assert.False(t, LooksLikeMoney("Technology Fee"))
	assert.False(t, LooksLikeMoney("75 dollars"))
}
