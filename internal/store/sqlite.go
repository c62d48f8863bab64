package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/Veda-rathna/mou-management-system/internal/model"
)

// SQLiteStore implements Store using modernc.org/sqlite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS mous (
	id                   TEXT PRIMARY KEY,
	title                TEXT NOT NULL,
	partner_name         TEXT NOT NULL,
	partner_organization TEXT,
	partner_contact      TEXT,
	status               TEXT NOT NULL DEFAULT 'draft',
	pdf_path             TEXT,
	start_date           DATETIME,
	expiry_date          DATETIME,
	created_at           DATETIME NOT NULL DEFAULT (datetime('now')),
	updated_at           DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE TABLE IF NOT EXISTS analyses (
	id                 TEXT PRIMARY KEY,
	mou_id             TEXT NOT NULL REFERENCES mous(id),
	backend            TEXT NOT NULL,
	model_version      TEXT NOT NULL,
	overall_risk_score REAL NOT NULL,
	compliance_status  TEXT NOT NULL,
	payload            TEXT NOT NULL,
	analyzed_at        DATETIME NOT NULL
);

CREATE TABLE IF NOT EXISTS risk_flags (
	id               TEXT PRIMARY KEY,
	mou_id           TEXT NOT NULL REFERENCES mous(id),
	type             TEXT NOT NULL,
	severity         TEXT NOT NULL,
	title            TEXT NOT NULL,
	description      TEXT,
	resolved         INTEGER NOT NULL DEFAULT 0,
	resolved_by      TEXT,
	resolved_at      DATETIME,
	resolution_notes TEXT,
	created_at       DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE TABLE IF NOT EXISTS signature_verifications (
	id          TEXT PRIMARY KEY,
	mou_id      TEXT NOT NULL REFERENCES mous(id),
	image_path  TEXT NOT NULL,
	status      TEXT NOT NULL,
	black_ratio REAL NOT NULL,
	std_dev     REAL NOT NULL,
	checked_at  DATETIME NOT NULL
);

CREATE TABLE IF NOT EXISTS activity_log (
	id          TEXT PRIMARY KEY,
	mou_id      TEXT NOT NULL REFERENCES mous(id),
	action      TEXT NOT NULL,
	actor       TEXT,
	description TEXT,
	timestamp   DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE INDEX IF NOT EXISTS idx_mous_status ON mous(status);
CREATE INDEX IF NOT EXISTS idx_mous_expiry_date ON mous(expiry_date);
CREATE INDEX IF NOT EXISTS idx_analyses_mou_id ON analyses(mou_id, analyzed_at DESC);
CREATE INDEX IF NOT EXISTS idx_risk_flags_mou_id ON risk_flags(mou_id);
CREATE INDEX IF NOT EXISTS idx_risk_flags_resolved ON risk_flags(mou_id, resolved);
CREATE INDEX IF NOT EXISTS idx_signature_verifications_mou_id ON signature_verifications(mou_id);
CREATE INDEX IF NOT EXISTS idx_activity_log_mou_id ON activity_log(mou_id, timestamp DESC);
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) CreateMOU(ctx context.Context, m model.MOU) (*model.MOU, error) {
	m.ID = uuid.New().String()
	now := time.Now().UTC()
	m.CreatedAt = now
	m.UpdatedAt = now
	if m.Status == "" {
		m.Status = model.MOUStatusDraft
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO mous (id, title, partner_name, partner_organization, partner_contact, status, pdf_path, start_date, expiry_date, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		m.ID, m.Title, m.PartnerName, m.PartnerOrganization, m.PartnerContact,
		string(m.Status), m.PDFPath, nullableTime(m.StartDate), nullableTime(m.ExpiryDate), now, now,
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: insert mou")
	}
	return &m, nil
}

func (s *SQLiteStore) GetMOU(ctx context.Context, id string) (*model.MOU, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, title, partner_name, partner_organization, partner_contact, status, pdf_path, start_date, expiry_date, created_at, updated_at
		 FROM mous WHERE id = ?`,
		id,
	)
	return scanMOU(row)
}

func (s *SQLiteStore) ListMOUs(ctx context.Context, filter MOUFilter) ([]model.MOU, error) {
	query := `SELECT id, title, partner_name, partner_organization, partner_contact, status, pdf_path, start_date, expiry_date, created_at, updated_at
	 FROM mous WHERE 1=1`
	var args []any

	if filter.Status != "" {
		query += ` AND status = ?`
		args = append(args, string(filter.Status))
	}
	if filter.Partner != "" {
		query += ` AND (partner_name LIKE ? OR partner_organization LIKE ?)`
		pattern := "%" + filter.Partner + "%"
		args = append(args, pattern, pattern)
	}
	query += ` ORDER BY created_at DESC`

	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}
	query += ` LIMIT ?`
	args = append(args, limit)

	if filter.Offset > 0 {
		query += ` OFFSET ?`
		args = append(args, filter.Offset)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list mous")
	}
	defer rows.Close()

	var mous []model.MOU
	for rows.Next() {
		m, err := scanMOU(rows)
		if err != nil {
			return nil, err
		}
		mous = append(mous, *m)
	}
	return mous, eris.Wrap(rows.Err(), "sqlite: list mous iterate")
}

func (s *SQLiteStore) UpdateMOUStatus(ctx context.Context, id string, status model.MOUStatus) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE mous SET status = ?, updated_at = ? WHERE id = ?`,
		string(status), time.Now().UTC(), id,
	)
	if err != nil {
		return eris.Wrapf(err, "sqlite: update mou status %s", id)
	}
	return checkRowsAffected(res, "mou", id)
}

func (s *SQLiteStore) UpdateMOUDates(ctx context.Context, id string, start, expiry *time.Time) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE mous SET start_date = ?, expiry_date = ?, updated_at = ? WHERE id = ?`,
		nullableTime(start), nullableTime(expiry), time.Now().UTC(), id,
	)
	if err != nil {
		return eris.Wrapf(err, "sqlite: update mou dates %s", id)
	}
	return checkRowsAffected(res, "mou", id)
}

func (s *SQLiteStore) UpdateMOUDocument(ctx context.Context, id string, pdfPath string) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE mous SET pdf_path = ?, updated_at = ? WHERE id = ?`,
		pdfPath, time.Now().UTC(), id,
	)
	if err != nil {
		return eris.Wrapf(err, "sqlite: update mou document %s", id)
	}
	return checkRowsAffected(res, "mou", id)
}

func (s *SQLiteStore) ListActiveExpiringBefore(ctx context.Context, cutoff time.Time) ([]model.MOU, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, title, partner_name, partner_organization, partner_contact, status, pdf_path, start_date, expiry_date, created_at, updated_at
		 FROM mous
		 WHERE status = ? AND expiry_date IS NOT NULL AND expiry_date < ?
		 ORDER BY expiry_date ASC`,
		string(model.MOUStatusActive), cutoff.UTC(),
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list expiring mous")
	}
	defer rows.Close()

	var mous []model.MOU
	for rows.Next() {
		m, err := scanMOU(rows)
		if err != nil {
			return nil, err
		}
		mous = append(mous, *m)
	}
	return mous, eris.Wrap(rows.Err(), "sqlite: list expiring mous iterate")
}

func (s *SQLiteStore) SaveAnalysis(ctx context.Context, a *model.DocumentAnalysis) error {
	payload, err := json.Marshal(a)
	if err != nil {
		return eris.Wrap(err, "sqlite: marshal analysis")
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO analyses (id, mou_id, backend, model_version, overall_risk_score, compliance_status, payload, analyzed_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		a.ID, a.MOUID, a.Backend, a.ModelVersion, a.OverallRiskScore,
		string(a.ComplianceStatus), string(payload), a.AnalyzedAt,
	)
	return eris.Wrap(err, "sqlite: insert analysis")
}

func (s *SQLiteStore) GetLatestAnalysis(ctx context.Context, mouID string) (*model.DocumentAnalysis, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT payload FROM analyses WHERE mou_id = ? ORDER BY analyzed_at DESC LIMIT 1`,
		mouID,
	)

	var payload string
	err := row.Scan(&payload)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: get latest analysis")
	}

	var a model.DocumentAnalysis
	if err := json.Unmarshal([]byte(payload), &a); err != nil {
		return nil, eris.Wrap(err, "sqlite: unmarshal analysis")
	}
	return &a, nil
}

func (s *SQLiteStore) ReplaceUnresolvedFlags(ctx context.Context, mouID string, flags []model.RiskFlag) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return eris.Wrap(err, "sqlite: begin flags tx")
	}
	defer tx.Rollback() //nolint:errcheck

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM risk_flags WHERE mou_id = ? AND resolved = 0`, mouID,
	); err != nil {
		return eris.Wrapf(err, "sqlite: clear unresolved flags %s", mouID)
	}

	for i := range flags {
		f := &flags[i]
		if f.ID == "" {
			f.ID = uuid.New().String()
		}
		if f.CreatedAt.IsZero() {
			f.CreatedAt = time.Now().UTC()
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO risk_flags (id, mou_id, type, severity, title, description, resolved, created_at)
			 VALUES (?, ?, ?, ?, ?, ?, 0, ?)`,
			f.ID, mouID, string(f.Type), string(f.Severity), f.Title, f.Description, f.CreatedAt,
		); err != nil {
			return eris.Wrapf(err, "sqlite: insert flag %s", f.ID)
		}
	}

	return eris.Wrap(tx.Commit(), "sqlite: commit flags tx")
}

func (s *SQLiteStore) ListFlags(ctx context.Context, mouID string, includeResolved bool) ([]model.RiskFlag, error) {
	query := `SELECT id, mou_id, type, severity, title, description, resolved, resolved_by, resolved_at, resolution_notes, created_at
	 FROM risk_flags WHERE mou_id = ?`
	if !includeResolved {
		query += ` AND resolved = 0`
	}
	query += ` ORDER BY created_at DESC`

	rows, err := s.db.QueryContext(ctx, query, mouID)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list flags")
	}
	defer rows.Close()

	var flags []model.RiskFlag
	for rows.Next() {
		f, err := scanFlag(rows)
		if err != nil {
			return nil, err
		}
		flags = append(flags, *f)
	}
	return flags, eris.Wrap(rows.Err(), "sqlite: list flags iterate")
}

func (s *SQLiteStore) ResolveFlag(ctx context.Context, flagID, resolvedBy, notes string) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE risk_flags SET resolved = 1, resolved_by = ?, resolved_at = ?, resolution_notes = ? WHERE id = ? AND resolved = 0`,
		resolvedBy, time.Now().UTC(), notes, flagID,
	)
	if err != nil {
		return eris.Wrapf(err, "sqlite: resolve flag %s", flagID)
	}
	return checkRowsAffected(res, "unresolved flag", flagID)
}

func (s *SQLiteStore) SaveSignatureVerification(ctx context.Context, v *model.SignatureVerification) error {
	if v.ID == "" {
		v.ID = uuid.New().String()
	}
	if v.CheckedAt.IsZero() {
		v.CheckedAt = time.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO signature_verifications (id, mou_id, image_path, status, black_ratio, std_dev, checked_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		v.ID, v.MOUID, v.ImagePath, string(v.Status), v.BlackRatio, v.StdDev, v.CheckedAt,
	)
	return eris.Wrap(err, "sqlite: insert signature verification")
}

func (s *SQLiteStore) ListSignatureVerifications(ctx context.Context, mouID string) ([]model.SignatureVerification, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, mou_id, image_path, status, black_ratio, std_dev, checked_at
		 FROM signature_verifications WHERE mou_id = ? ORDER BY checked_at DESC`,
		mouID,
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list signature verifications")
	}
	defer rows.Close()

	var verifications []model.SignatureVerification
	for rows.Next() {
		var v model.SignatureVerification
		if err := rows.Scan(&v.ID, &v.MOUID, &v.ImagePath, &v.Status, &v.BlackRatio, &v.StdDev, &v.CheckedAt); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan signature verification")
		}
		verifications = append(verifications, v)
	}
	return verifications, eris.Wrap(rows.Err(), "sqlite: list signature verifications iterate")
}

func (s *SQLiteStore) AppendActivity(ctx context.Context, e model.ActivityEntry) (*model.ActivityEntry, error) {
	e.ID = uuid.New().String()
	if e.Timestamp.IsZero() {
		e.Timestamp = time.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO activity_log (id, mou_id, action, actor, description, timestamp) VALUES (?, ?, ?, ?, ?, ?)`,
		e.ID, e.MOUID, string(e.Action), e.Actor, e.Description, e.Timestamp,
	)
	if err != nil {
		return nil, eris.Wrapf(err, "sqlite: insert activity for mou %s", e.MOUID)
	}
	return &e, nil
}

func (s *SQLiteStore) ListActivity(ctx context.Context, mouID string, limit int) ([]model.ActivityEntry, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, mou_id, action, actor, description, timestamp
		 FROM activity_log WHERE mou_id = ? ORDER BY timestamp DESC LIMIT ?`,
		mouID, limit,
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list activity")
	}
	defer rows.Close()

	var entries []model.ActivityEntry
	for rows.Next() {
		var e model.ActivityEntry
		var actor, description sql.NullString
		if err := rows.Scan(&e.ID, &e.MOUID, &e.Action, &actor, &description, &e.Timestamp); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan activity entry")
		}
		e.Actor = actor.String
		e.Description = description.String
		entries = append(entries, e)
	}
	return entries, eris.Wrap(rows.Err(), "sqlite: list activity iterate")
}

// helpers

func checkRowsAffected(res sql.Result, entity, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return eris.Wrap(err, "rows affected")
	}
	if n == 0 {
		return eris.Errorf("%s not found: %s", entity, id)
	}
	return nil
}

func nullableTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.UTC()
}

type scannable interface {
	Scan(dest ...any) error
}

func scanMOU(row scannable) (*model.MOU, error) {
	var m model.MOU
	var org, contact, pdfPath sql.NullString
	var start, expiry sql.NullTime

	err := row.Scan(&m.ID, &m.Title, &m.PartnerName, &org, &contact, &m.Status,
		&pdfPath, &start, &expiry, &m.CreatedAt, &m.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, eris.New("mou not found")
	}
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: scan mou")
	}

	m.PartnerOrganization = org.String
	m.PartnerContact = contact.String
	m.PDFPath = pdfPath.String
	if start.Valid {
		t := start.Time
		m.StartDate = &t
	}
	if expiry.Valid {
		t := expiry.Time
		m.ExpiryDate = &t
	}
	return &m, nil
}

func scanFlag(row scannable) (*model.RiskFlag, error) {
	var f model.RiskFlag
	var description, resolvedBy, notes sql.NullString
	var resolvedAt sql.NullTime

	err := row.Scan(&f.ID, &f.MOUID, &f.Type, &f.Severity, &f.Title, &description,
		&f.Resolved, &resolvedBy, &resolvedAt, &notes, &f.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, eris.New("flag not found")
	}
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: scan flag")
	}

	f.Description = description.String
	f.ResolvedBy = resolvedBy.String
	f.ResolutionNotes = notes.String
	if resolvedAt.Valid {
		t := resolvedAt.Time
		f.ResolvedAt = &t
	}
	return &f, nil
}
