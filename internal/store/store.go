package store

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/Veda-rathna/mou-management-system/internal/model"
)

// MOUFilter specifies criteria for listing MOU records.
type MOUFilter struct {
	Status  model.MOUStatus `json:"status,omitempty"`
	Partner string          `json:"partner,omitempty"`
	Limit   int             `json:"limit,omitempty"`
	Offset  int             `json:"offset,omitempty"`
}

// Store defines the persistence interface for MOU records, analysis results,
// risk flags, signature verifications, and the activity log.
type Store interface {
	// MOUs
	CreateMOU(ctx context.Context, m model.MOU) (*model.MOU, error)
	GetMOU(ctx context.Context, id string) (*model.MOU, error)
	ListMOUs(ctx context.Context, filter MOUFilter) ([]model.MOU, error)
	UpdateMOUStatus(ctx context.Context, id string, status model.MOUStatus) error
	UpdateMOUDates(ctx context.Context, id string, start, expiry *time.Time) error
	UpdateMOUDocument(ctx context.Context, id string, pdfPath string) error
	// ListActiveExpiringBefore returns active MOUs whose expiry date falls
	// strictly before cutoff, ordered by expiry date ascending.
	ListActiveExpiringBefore(ctx context.Context, cutoff time.Time) ([]model.MOU, error)

	// Analyses
	SaveAnalysis(ctx context.Context, a *model.DocumentAnalysis) error
	GetLatestAnalysis(ctx context.Context, mouID string) (*model.DocumentAnalysis, error)

	// Risk flags. ReplaceUnresolvedFlags deletes the MOU's unresolved flags
	// and inserts the given set atomically; resolved flags are untouched.
	ReplaceUnresolvedFlags(ctx context.Context, mouID string, flags []model.RiskFlag) error
	ListFlags(ctx context.Context, mouID string, includeResolved bool) ([]model.RiskFlag, error)
	ResolveFlag(ctx context.Context, flagID, resolvedBy, notes string) error

	// Signature verifications
	SaveSignatureVerification(ctx context.Context, v *model.SignatureVerification) error
	ListSignatureVerifications(ctx context.Context, mouID string) ([]model.SignatureVerification, error)

	// Activity log
	AppendActivity(ctx context.Context, e model.ActivityEntry) (*model.ActivityEntry, error)
	ListActivity(ctx context.Context, mouID string, limit int) ([]model.ActivityEntry, error)

	// Lifecycle
	Migrate(ctx context.Context) error
	Close() error
}

// Pool is the subset of *pgxpool.Pool the postgres store depends on.
// pgxmock satisfies it for unit tests.
type Pool interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Begin(ctx context.Context) (pgx.Tx, error)
	Ping(ctx context.Context) error
	Close()
}
