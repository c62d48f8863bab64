package model

import "time"

// DateKind identifies which contractual date a field represents.
type DateKind string

const (
	DateKindStart  DateKind = "start"
	DateKindEnd    DateKind = "end"
	DateKindExpiry DateKind = "expiry"
)

// DateConfidence marks how reliably a date field was parsed.
type DateConfidence string

const (
	DateConfidenceHigh DateConfidence = "high"
	DateConfidenceLow  DateConfidence = "low"
)

// DateField is one date extracted from document text. Parsed is nil when the
// raw match could not be parsed by any known layout.
type DateField struct {
	Kind       DateKind       `json:"kind"`
	RawMatch   string         `json:"raw_match"`
	Parsed     *time.Time     `json:"parsed,omitempty"`
	Confidence DateConfidence `json:"confidence"`
}
