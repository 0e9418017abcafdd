package tuition

import (
	"regexp"
	"strconv"
	"strings"
)

// Money is a monetary value pulled out of a scraped text token: a whole
// dollar amount plus an optional billing unit ("per course", "per credit
// hour") that some pages attach after a slash.
type Money struct {
	Amount int
	Unit   string // empty when the token carried no unit suffix
}

// amountPattern matches a dollar sign followed by a digit run with optional
// thousands separators, e.g. "$1,851" or "$ 125".
var amountPattern = regexp.MustCompile(`\$\s*(\d[\d,]*)`)

var spaceRun = regexp.MustCompile(`\s+`)

// LooksLikeMoney reports whether a token contains a currency amount. Tokens
// that fail this test are treated as ordinary labels by the parser.
func LooksLikeMoney(token string) bool {
	return amountPattern.MatchString(token)
}

// ParseMoney extracts the amount and optional unit from a token.
//
//	"$25,824"            -> Money{25824, ""}
//	"$50 / per course"   -> Money{50, "per course"}
//	"$2,314 /per course" -> Money{2314, "per course"}
//
// The second return value is false when the token carries no parseable
// amount, in which case the token should be treated as a label or skipped.
func ParseMoney(token string) (Money, bool) {
	m := amountPattern.FindStringSubmatch(token)
	if m == nil {
		return Money{}, false
	}

	digits := strings.ReplaceAll(m[1], ",", "")
	amount, err := strconv.Atoi(digits)
	if err != nil {
		// Digit runs long enough to overflow are garbage input, not money.
		return Money{}, false
	}

	unit := ""
	if i := strings.IndexByte(token, '/'); i >= 0 {
		unit = spaceRun.ReplaceAllString(strings.TrimSpace(token[i+1:]), " ")
	}

	return Money{Amount: amount, Unit: unit}, true
}
