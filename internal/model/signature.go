package model

import "time"

// SignatureStatus is the verdict of the signature authenticity check.
type SignatureStatus string

const (
	SignatureUnsigned   SignatureStatus = "unsigned"
	SignatureVerified   SignatureStatus = "verified"
	SignatureSuspicious SignatureStatus = "suspicious"
)

// SignatureVerification records one authenticity check over a signature
// image. It is independent of clause analysis.
type SignatureVerification struct {
	ID         string          `json:"id"`
	MOUID      string          `json:"mou_id,omitempty"`
	ImagePath  string          `json:"image_path"`
	Status     SignatureStatus `json:"status"`
	BlackRatio float64         `json:"black_ratio"`
	StdDev     float64         `json:"std_dev"`
	CheckedAt  time.Time       `json:"checked_at"`
}
