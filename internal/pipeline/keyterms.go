package pipeline

import "regexp"

var (
	moneyTermRe  = regexp.MustCompile(`\$[\d,]+(?:\.\d{2})?`)
	dateTermRe   = regexp.MustCompile(`\b\d{1,2}[/-]\d{1,2}[/-]\d{2,4}\b|\b\w+ \d{1,2}, \d{4}\b`)
	properPairRe = regexp.MustCompile(`\b[A-Z][a-z]+ [A-Z][a-z]+\b`)
)

// extractKeyTerms pulls monetary amounts, dates, and capitalized word pairs
// from a clause. The passes run in that order, duplicates collapse to the
// first occurrence, and the result is capped at max terms.
func extractKeyTerms(text string, max int) []string {
	var terms []string
	seen := make(map[string]struct{})
	for _, re := range []*regexp.Regexp{moneyTermRe, dateTermRe, properPairRe} {
		for _, m := range re.FindAllString(text, -1) {
			if _, dup := seen[m]; dup {
				continue
			}
			seen[m] = struct{}{}
			terms = append(terms, m)
			if len(terms) >= max {
				return terms
			}
		}
	}
	return terms
}
