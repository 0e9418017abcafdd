package tuition

import "strings"

// Cohort is a tuition row keyed by admission cohort, as listed on
// undergraduate tuition pages: a cohort label ("Admitted Fall 2024")
// followed by the full-time per-semester amount and the per-credit amount.
type Cohort struct {
	Label               string `json:"cohort"`
	FullTimePerSemester int    `json:"full_time_per_semester"`
	PerCredit           int    `json:"per_credit"`
}

// CategorizedFee is a flat fee entry tagged with the section it was listed
// under ("Mandatory Fees", "Other Fees").
type CategorizedFee struct {
	Name     string  `json:"fee_name"`
	Amount   int     `json:"amount"`
	Unit     *string `json:"unit"`
	Category string  `json:"category"`
}

// ParseCohorts scans a token stream for cohort triples: a token starting
// with prefix followed by two money tokens. Triples whose amounts fail to
// parse are dropped, matching the pairing rule used everywhere else. Other
// tokens are skipped.
func ParseCohorts(tokens []string, prefix string) []Cohort {
	cohorts := []Cohort{}

	i := 0
	for i < len(tokens) {
		if strings.HasPrefix(tokens[i], prefix) && i+2 < len(tokens) {
			fullTime, ok1 := ParseMoney(tokens[i+1])
			perCredit, ok2 := ParseMoney(tokens[i+2])
			if ok1 && ok2 {
				cohorts = append(cohorts, Cohort{
					Label:               tokens[i],
					FullTimePerSemester: fullTime.Amount,
					PerCredit:           perCredit.Amount,
				})
				i += 3
				continue
			}
		}
		i++
	}

	return cohorts
}

// ParseFeePairs scans a token stream for flat label/money pairs and tags
// each resulting fee with the given category. Labels not followed by a
// money token are skipped.
func ParseFeePairs(tokens []string, category string) []CategorizedFee {
	fees := []CategorizedFee{}

	i := 0
	for i+1 < len(tokens) {
		if money, ok := ParseMoney(tokens[i+1]); ok {
			fees = append(fees, CategorizedFee{
				Name:     tokens[i],
				Amount:   money.Amount,
				Unit:     optionalUnit(money.Unit),
				Category: category,
			})
			i += 2
			continue
		}
		i++
	}

	return fees
}
