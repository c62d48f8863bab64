// Package dates extracts contractual date fields from document text using an
// ordered list of regex rules. Rule order and date-layout order are part of
// the contract: the first successfully parsed match wins per kind, and later
// matches never overwrite an already-resolved kind.
package dates

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/Veda-rathna/mou-management-system/internal/model"
)

// dateAlt matches numeric d/m/y-style dates and "12 March 2024"-style
// written dates.
const dateAlt = `(\d{1,2}[/-]\d{1,2}[/-]\d{2,4}|\d{1,2}\s+(?:January|February|March|April|May|June|July|August|September|October|November|December)\s+\d{2,4}|(?:January|February|March|April|May|June|July|August|September|October|November|December)\s+\d{1,2},?\s+\d{2,4})`

type kindRule struct {
	kind model.DateKind
	re   *regexp.Regexp
}

// kindRules is evaluated in order. Do not reorder: the first rule to yield a
// parseable date for a kind decides that kind.
var kindRules = []kindRule{
	{model.DateKindStart, regexp.MustCompile(`(?i)(?:effective|start|commencement)\s+date.*?` + dateAlt)},
	{model.DateKindEnd, regexp.MustCompile(`(?i)(?:expiry|end|termination)\s+date.*?` + dateAlt)},
	{model.DateKindExpiry, regexp.MustCompile(`(?i)valid\s+(?:for|until).*?` + dateAlt)},
}

var periodRe = regexp.MustCompile(`(?i)period\s+of\s+(\d+)\s+(year|month)`)

// dateLayouts is the ordered list of layouts tried against a raw date string.
// The first layout that parses wins, so d/m/y takes precedence over m/d/y for
// ambiguous numeric dates.
var dateLayouts = []string{
	"2/1/2006",
	"1/2/2006",
	"2-1-2006",
	"1-2-2006",
	"2 January 2006",
	"January 2, 2006",
	"2 Jan 2006",
	"Jan 2, 2006",
}

// Parse extracts date fields from full document text. Individual unparseable
// matches are skipped, never errors; an empty result means no dates were
// found.
func Parse(text string) []model.DateField {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	resolved := make(map[model.DateKind]model.DateField)
	var order []model.DateKind

	for _, rule := range kindRules {
		if _, ok := resolved[rule.kind]; ok {
			continue
		}
		for _, m := range rule.re.FindAllStringSubmatch(text, -1) {
			raw := strings.TrimSpace(m[1])
			parsed := parseDate(raw)
			if parsed == nil {
				zap.L().Debug("dates: unparseable match skipped",
					zap.String("kind", string(rule.kind)),
					zap.String("raw", raw),
				)
				continue
			}
			resolved[rule.kind] = model.DateField{
				Kind:       rule.kind,
				RawMatch:   raw,
				Parsed:     parsed,
				Confidence: model.DateConfidenceHigh,
			}
			order = append(order, rule.kind)
			break
		}
	}

	// A duration expression derives the end date from the start date. It
	// never overrides a directly stated end date and is dropped when no
	// start date resolved.
	if _, haveEnd := resolved[model.DateKindEnd]; !haveEnd {
		if start, haveStart := resolved[model.DateKindStart]; haveStart {
			if m := periodRe.FindStringSubmatch(text); m != nil {
				n, err := strconv.Atoi(m[1])
				if err == nil && n > 0 {
					end := addPeriod(*start.Parsed, n, strings.ToLower(m[2]))
					resolved[model.DateKindEnd] = model.DateField{
						Kind:       model.DateKindEnd,
						RawMatch:   m[0],
						Parsed:     &end,
						Confidence: model.DateConfidenceLow,
					}
					order = append(order, model.DateKindEnd)
				}
			}
		}
	}

	fields := make([]model.DateField, 0, len(order))
	for _, k := range order {
		fields = append(fields, resolved[k])
	}
	return fields
}

// addPeriod advances a start date by n calendar years or months. Year
// arithmetic bumps the year and keeps month/day; month arithmetic carries
// into following years via floor division and keeps the day-of-month. The
// day is deliberately not clamped for shorter target months, so Jan 31 plus
// one month normalizes past February.
func addPeriod(start time.Time, n int, unit string) time.Time {
	if unit == "year" {
		return time.Date(start.Year()+n, start.Month(), start.Day(), 0, 0, 0, 0, time.UTC)
	}
	yearAdd := (int(start.Month()) + n - 1) / 12
	month := time.Month((int(start.Month())+n-1)%12 + 1)
	return time.Date(start.Year()+yearAdd, month, start.Day(), 0, 0, 0, 0, time.UTC)
}

// parseDate tries each layout in order and returns the first success as a
// UTC date, or nil when no layout matches.
func parseDate(raw string) *time.Time {
	raw = strings.Join(strings.Fields(raw), " ")
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			d := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
			return &d
		}
	}
	return nil
}

// Get returns the field of the given kind from a parsed set, if present.
func Get(fields []model.DateField, kind model.DateKind) (model.DateField, bool) {
	for _, f := range fields {
		if f.Kind == kind {
			return f, true
		}
	}
	return model.DateField{}, false
}
