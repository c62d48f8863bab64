package pipeline

import (
	"regexp"
	"strings"
)

// clauseMarkers are the structural boundaries clauses split on, applied in
// order. Each pass re-splits every fragment from the previous pass.
var clauseMarkers = []*regexp.Regexp{
	regexp.MustCompile(`(?im)\n\d+\.\s`),
	regexp.MustCompile(`(?im)\n[A-Z]\.\s`),
	regexp.MustCompile(`(?im)\n\([a-z]\)`),
	regexp.MustCompile(`(?i)WHEREAS`),
	regexp.MustCompile(`(?i)NOW, THEREFORE`),
	regexp.MustCompile(`(?i)The parties agree`),
	regexp.MustCompile(`(?i)It is understood`),
}

var sentenceBoundaryRe = regexp.MustCompile(`[.!?]+\s+`)

// segmentStructural splits document text on structural clause markers.
// Fragments at or under minLen characters after trimming are discarded at
// every pass, so a marker buried inside a short fragment never resurfaces.
func segmentStructural(text string, minLen int) []string {
	parts := []string{text}
	for _, marker := range clauseMarkers {
		var next []string
		for _, part := range parts {
			for _, split := range marker.Split(part, -1) {
				trimmed := strings.TrimSpace(split)
				if len(trimmed) > minLen {
					next = append(next, trimmed)
				}
			}
		}
		parts = next
	}
	return parts
}

// segmentSentences splits text into sentences and merges fragments shorter
// than minSentence into their neighbor, so stray abbreviations and list
// stubs do not become clauses of their own. The final set is filtered to
// fragments over minLen characters.
func segmentSentences(text string, minSentence, minLen int) []string {
	sentences := splitSentences(text)

	var clauses []string
	var current string
	for _, sent := range sentences {
		if len(sent) < minSentence {
			current += " " + sent
			continue
		}
		if current != "" {
			clauses = append(clauses, strings.TrimSpace(current))
		}
		current = sent
	}
	if current != "" {
		clauses = append(clauses, strings.TrimSpace(current))
	}

	var out []string
	for _, c := range clauses {
		if len(c) > minLen {
			out = append(out, c)
		}
	}
	return out
}

// splitSentences is a lightweight boundary splitter. It keeps the
// terminating punctuation with the sentence it closes.
func splitSentences(text string) []string {
	var sentences []string
	rest := text
	for {
		loc := sentenceBoundaryRe.FindStringIndex(rest)
		if loc == nil {
			break
		}
		sent := strings.TrimSpace(rest[:loc[1]])
		if sent != "" {
			sentences = append(sentences, sent)
		}
		rest = rest[loc[1]:]
	}
	if tail := strings.TrimSpace(rest); tail != "" {
		sentences = append(sentences, tail)
	}
	return sentences
}
