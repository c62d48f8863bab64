package pipeline

import (
	"regexp"
	"strings"
)

// orgRe captures party names following common introduction markers, up to
// the next connective or line break. The capture is lazy so the name stops
// at the first boundary instead of swallowing the whole line.
var orgRe = regexp.MustCompile(`(?i)(?:between|party[:\s]|organization[:\s]|institution[:\s]|university[:\s]|company[:\s]).*?([A-Z][A-Za-z\s,\.]+?)(?:and|,|\n)`)

// extractOrganizations scans the full document text for party names.
// Matches of three characters or fewer are noise and dropped; repeats
// collapse to the first occurrence.
func extractOrganizations(text string) []string {
	var orgs []string
	seen := make(map[string]struct{})
	for _, m := range orgRe.FindAllStringSubmatch(text, -1) {
		name := strings.TrimSpace(m[1])
		if len(name) <= 3 {
			continue
		}
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		orgs = append(orgs, name)
	}
	return orgs
}
