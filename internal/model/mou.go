package model

import "time"

// MOUStatus represents the lifecycle state of an MOU record.
type MOUStatus string

const (
	MOUStatusDraft   MOUStatus = "draft"
	MOUStatusPending MOUStatus = "pending"
	MOUStatusActive  MOUStatus = "active"
	MOUStatusExpired MOUStatus = "expired"
)

// AllMOUStatuses returns all defined MOU lifecycle states.
func AllMOUStatuses() []MOUStatus {
	return []MOUStatus{
		MOUStatusDraft,
		MOUStatusPending,
		MOUStatusActive,
		MOUStatusExpired,
	}
}

// MOU represents a Memorandum of Understanding under management.
type MOU struct {
	ID                  string     `json:"id"`
	Title               string     `json:"title"`
	PartnerName         string     `json:"partner_name"`
	PartnerOrganization string     `json:"partner_organization,omitempty"`
	PartnerContact      string     `json:"partner_contact,omitempty"`
	Status              MOUStatus  `json:"status"`
	PDFPath             string     `json:"pdf_path,omitempty"`
	StartDate           *time.Time `json:"start_date,omitempty"`
	ExpiryDate          *time.Time `json:"expiry_date,omitempty"`
	CreatedAt           time.Time  `json:"created_at"`
	UpdatedAt           time.Time  `json:"updated_at"`
}

// IsExpired reports whether the MOU's expiry date has passed as of now.
// An MOU without an expiry date never expires.
func (m *MOU) IsExpired(now time.Time) bool {
	if m.ExpiryDate == nil {
		return false
	}
	return m.ExpiryDate.Before(truncateToDay(now))
}

// DaysUntilExpiry returns the number of whole days until the expiry date.
// Negative values mean the date has passed. Returns (0, false) when no
// expiry date is set.
func (m *MOU) DaysUntilExpiry(now time.Time) (int, bool) {
	if m.ExpiryDate == nil {
		return 0, false
	}
	days := int(m.ExpiryDate.Sub(truncateToDay(now)).Hours() / 24)
	return days, true
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// ExtractedDocument is the output of PDF text extraction. It is immutable
// once produced; downstream stages only read from it.
type ExtractedDocument struct {
	FullText        string   `json:"full_text"`
	Pages           []string `json:"pages"`
	SourceIsScanned bool     `json:"source_is_scanned"`
}

// IsEmpty reports whether extraction produced no usable text.
func (d *ExtractedDocument) IsEmpty() bool {
	for _, r := range d.FullText {
		if r != ' ' && r != '\t' && r != '\n' && r != '\r' && r != '\f' {
			return false
		}
	}
	return true
}
