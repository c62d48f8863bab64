package model

import "time"

// ActivityAction identifies an audited operation on an MOU.
type ActivityAction string

const (
	ActionCreated      ActivityAction = "created"
	ActionPDFProcessed ActivityAction = "pdf_processed"
	ActionAnalyzed     ActivityAction = "analyzed"
	ActionSigned       ActivityAction = "signed"
	ActionStatusChange ActivityAction = "status_changed"
	ActionAutoExpired  ActivityAction = "auto_expired"
	ActionFlagResolved ActivityAction = "flag_resolved"
)

// ActivityEntry is one audit-trail record for an MOU.
type ActivityEntry struct {
	ID          string         `json:"id"`
	MOUID       string         `json:"mou_id"`
	Action      ActivityAction `json:"action"`
	Actor       string         `json:"actor,omitempty"`
	Description string         `json:"description,omitempty"`
	Timestamp   time.Time      `json:"timestamp"`
}
