package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"

	"github.com/Veda-rathna/mou-management-system/internal/model"
)

// PostgresStore implements Store using pgxpool.
type PostgresStore struct {
	pool    Pool
	closeFn func()
}

// PoolConfig holds optional connection pool tuning parameters.
type PoolConfig struct {
	MaxConns int32 `yaml:"max_conns" mapstructure:"max_conns"`
	MinConns int32 `yaml:"min_conns" mapstructure:"min_conns"`
}

// preparedStatements lists queries to prepare on each new connection for
// faster execution of the most frequently used store operations.
var preparedStatements = map[string]string{
	"get_mou":             `SELECT id, title, partner_name, partner_organization, partner_contact, status, pdf_path, start_date, expiry_date, created_at, updated_at FROM mous WHERE id = $1`,
	"update_mou_status":   `UPDATE mous SET status = $1, updated_at = $2 WHERE id = $3`,
	"insert_analysis":     `INSERT INTO analyses (id, mou_id, backend, model_version, overall_risk_score, compliance_status, payload, analyzed_at) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
	"get_latest_analysis": `SELECT payload FROM analyses WHERE mou_id = $1 ORDER BY analyzed_at DESC LIMIT 1`,
	"insert_activity":     `INSERT INTO activity_log (id, mou_id, action, actor, description, timestamp) VALUES ($1, $2, $3, $4, $5, $6)`,
}

// NewPostgres creates a PostgresStore with a connection pool.
func NewPostgres(ctx context.Context, connString string, poolCfg *PoolConfig) (*PostgresStore, error) {
	pgxCfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: parse config")
	}

	// Apply pool sizing from config with sensible defaults.
	maxConns := int32(10)
	minConns := int32(2)
	if poolCfg != nil {
		if poolCfg.MaxConns > 0 {
			maxConns = poolCfg.MaxConns
		}
		if poolCfg.MinConns > 0 {
			minConns = poolCfg.MinConns
		}
	}
	pgxCfg.MaxConns = maxConns
	pgxCfg.MinConns = minConns
	pgxCfg.MaxConnLifetime = 30 * time.Minute
	pgxCfg.MaxConnIdleTime = 5 * time.Minute

	// Prepare frequently-used statements on each new connection.
	pgxCfg.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
		for name, sql := range preparedStatements {
			if _, err := conn.Prepare(ctx, name, sql); err != nil {
				return eris.Wrapf(err, "postgres: prepare %s", name)
			}
		}
		return nil
	}

	pool, err := pgxpool.NewWithConfig(ctx, pgxCfg)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: create pool")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, eris.Wrap(err, "postgres: ping")
	}
	return &PostgresStore{pool: pool, closeFn: pool.Close}, nil
}

const postgresMigration = `
CREATE TABLE IF NOT EXISTS mous (
	id                   TEXT PRIMARY KEY DEFAULT gen_random_uuid()::text,
	title                TEXT NOT NULL,
	partner_name         TEXT NOT NULL,
	partner_organization TEXT,
	partner_contact      TEXT,
	status               TEXT NOT NULL DEFAULT 'draft',
	pdf_path             TEXT,
	start_date           TIMESTAMPTZ,
	expiry_date          TIMESTAMPTZ,
	created_at           TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at           TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS analyses (
	id                 TEXT PRIMARY KEY DEFAULT gen_random_uuid()::text,
	mou_id             TEXT NOT NULL REFERENCES mous(id),
	backend            TEXT NOT NULL,
	model_version      TEXT NOT NULL,
	overall_risk_score DOUBLE PRECISION NOT NULL,
	compliance_status  TEXT NOT NULL,
	payload            JSONB NOT NULL,
	analyzed_at        TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS risk_flags (
	id               TEXT PRIMARY KEY DEFAULT gen_random_uuid()::text,
	mou_id           TEXT NOT NULL REFERENCES mous(id),
	type             TEXT NOT NULL,
	severity         TEXT NOT NULL,
	title            TEXT NOT NULL,
	description      TEXT,
	resolved         BOOLEAN NOT NULL DEFAULT false,
	resolved_by      TEXT,
	resolved_at      TIMESTAMPTZ,
	resolution_notes TEXT,
	created_at       TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS signature_verifications (
	id          TEXT PRIMARY KEY DEFAULT gen_random_uuid()::text,
	mou_id      TEXT NOT NULL REFERENCES mous(id),
	image_path  TEXT NOT NULL,
	status      TEXT NOT NULL,
	black_ratio DOUBLE PRECISION NOT NULL,
	std_dev     DOUBLE PRECISION NOT NULL,
	checked_at  TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS activity_log (
	id          TEXT PRIMARY KEY DEFAULT gen_random_uuid()::text,
	mou_id      TEXT NOT NULL REFERENCES mous(id),
	action      TEXT NOT NULL,
	actor       TEXT,
	description TEXT,
	timestamp   TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_mous_status ON mous(status);
CREATE INDEX IF NOT EXISTS idx_mous_expiry_date ON mous(expiry_date);
CREATE INDEX IF NOT EXISTS idx_analyses_mou_id ON analyses(mou_id, analyzed_at DESC);
CREATE INDEX IF NOT EXISTS idx_risk_flags_mou_id ON risk_flags(mou_id);
CREATE INDEX IF NOT EXISTS idx_risk_flags_resolved ON risk_flags(mou_id, resolved);
CREATE INDEX IF NOT EXISTS idx_signature_verifications_mou_id ON signature_verifications(mou_id);
CREATE INDEX IF NOT EXISTS idx_activity_log_mou_id ON activity_log(mou_id, timestamp DESC);
`

func (s *PostgresStore) Ping(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, "SELECT 1")
	return eris.Wrap(err, "postgres: ping")
}

func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, postgresMigration)
	return eris.Wrap(err, "postgres: migrate")
}

func (s *PostgresStore) Close() error {
	if s.closeFn != nil {
		s.closeFn()
	}
	return nil
}

func (s *PostgresStore) CreateMOU(ctx context.Context, m model.MOU) (*model.MOU, error) {
	m.ID = uuid.New().String()
	now := time.Now().UTC()
	m.CreatedAt = now
	m.UpdatedAt = now
	if m.Status == "" {
		m.Status = model.MOUStatusDraft
	}

	_, err := s.pool.Exec(ctx,
		`INSERT INTO mous (id, title, partner_name, partner_organization, partner_contact, status, pdf_path, start_date, expiry_date, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		m.ID, m.Title, m.PartnerName, m.PartnerOrganization, m.PartnerContact,
		string(m.Status), m.PDFPath, m.StartDate, m.ExpiryDate, now, now,
	)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: insert mou")
	}
	return &m, nil
}

func (s *PostgresStore) GetMOU(ctx context.Context, id string) (*model.MOU, error) {
	var m model.MOU
	var org, contact, pdfPath *string

	err := s.pool.QueryRow(ctx,
		`SELECT id, title, partner_name, partner_organization, partner_contact, status, pdf_path, start_date, expiry_date, created_at, updated_at FROM mous WHERE id = $1`,
		id,
	).Scan(&m.ID, &m.Title, &m.PartnerName, &org, &contact, &m.Status,
		&pdfPath, &m.StartDate, &m.ExpiryDate, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		return nil, eris.Wrapf(err, "postgres: get mou %s", id)
	}

	if org != nil {
		m.PartnerOrganization = *org
	}
	if contact != nil {
		m.PartnerContact = *contact
	}
	if pdfPath != nil {
		m.PDFPath = *pdfPath
	}
	return &m, nil
}

func (s *PostgresStore) ListMOUs(ctx context.Context, filter MOUFilter) ([]model.MOU, error) {
	query := `SELECT id, title, partner_name, partner_organization, partner_contact, status, pdf_path, start_date, expiry_date, created_at, updated_at FROM mous WHERE true`
	args := []any{}
	argIdx := 1

	if filter.Status != "" {
		query += fmt.Sprintf(` AND status = $%d`, argIdx)
		args = append(args, string(filter.Status))
		argIdx++
	}
	if filter.Partner != "" {
		query += fmt.Sprintf(` AND (partner_name ILIKE $%d OR partner_organization ILIKE $%d)`, argIdx, argIdx)
		args = append(args, "%"+filter.Partner+"%")
		argIdx++
	}
	query += ` ORDER BY created_at DESC`

	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}
	query += fmt.Sprintf(` LIMIT $%d`, argIdx)
	args = append(args, limit)
	argIdx++

	if filter.Offset > 0 {
		query += fmt.Sprintf(` OFFSET $%d`, argIdx)
		args = append(args, filter.Offset)
		argIdx++
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list mous")
	}
	defer rows.Close()

	return collectMOUs(rows)
}

func (s *PostgresStore) UpdateMOUStatus(ctx context.Context, id string, status model.MOUStatus) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE mous SET status = $1, updated_at = $2 WHERE id = $3`,
		string(status), time.Now().UTC(), id,
	)
	if err != nil {
		return eris.Wrapf(err, "postgres: update mou status %s", id)
	}
	if tag.RowsAffected() == 0 {
		return eris.Errorf("mou not found: %s", id)
	}
	return nil
}

func (s *PostgresStore) UpdateMOUDates(ctx context.Context, id string, start, expiry *time.Time) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE mous SET start_date = $1, expiry_date = $2, updated_at = $3 WHERE id = $4`,
		start, expiry, time.Now().UTC(), id,
	)
	if err != nil {
		return eris.Wrapf(err, "postgres: update mou dates %s", id)
	}
	if tag.RowsAffected() == 0 {
		return eris.Errorf("mou not found: %s", id)
	}
	return nil
}

func (s *PostgresStore) UpdateMOUDocument(ctx context.Context, id string, pdfPath string) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE mous SET pdf_path = $1, updated_at = $2 WHERE id = $3`,
		pdfPath, time.Now().UTC(), id,
	)
	if err != nil {
		return eris.Wrapf(err, "postgres: update mou document %s", id)
	}
	if tag.RowsAffected() == 0 {
		return eris.Errorf("mou not found: %s", id)
	}
	return nil
}

func (s *PostgresStore) ListActiveExpiringBefore(ctx context.Context, cutoff time.Time) ([]model.MOU, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, title, partner_name, partner_organization, partner_contact, status, pdf_path, start_date, expiry_date, created_at, updated_at
		 FROM mous
		 WHERE status = $1 AND expiry_date IS NOT NULL AND expiry_date < $2
		 ORDER BY expiry_date ASC`,
		string(model.MOUStatusActive), cutoff.UTC(),
	)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list expiring mous")
	}
	defer rows.Close()

	return collectMOUs(rows)
}

func (s *PostgresStore) SaveAnalysis(ctx context.Context, a *model.DocumentAnalysis) error {
	payload, err := json.Marshal(a)
	if err != nil {
		return eris.Wrap(err, "postgres: marshal analysis")
	}

	_, err = s.pool.Exec(ctx,
		`INSERT INTO analyses (id, mou_id, backend, model_version, overall_risk_score, compliance_status, payload, analyzed_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		a.ID, a.MOUID, a.Backend, a.ModelVersion, a.OverallRiskScore,
		string(a.ComplianceStatus), payload, a.AnalyzedAt,
	)
	return eris.Wrap(err, "postgres: insert analysis")
}

func (s *PostgresStore) GetLatestAnalysis(ctx context.Context, mouID string) (*model.DocumentAnalysis, error) {
	var payload []byte
	err := s.pool.QueryRow(ctx,
		`SELECT payload FROM analyses WHERE mou_id = $1 ORDER BY analyzed_at DESC LIMIT 1`,
		mouID,
	).Scan(&payload)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, eris.Wrap(err, "postgres: get latest analysis")
	}

	var a model.DocumentAnalysis
	if err := json.Unmarshal(payload, &a); err != nil {
		return nil, eris.Wrap(err, "postgres: unmarshal analysis")
	}
	return &a, nil
}

func (s *PostgresStore) ReplaceUnresolvedFlags(ctx context.Context, mouID string, flags []model.RiskFlag) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return eris.Wrap(err, "postgres: begin flags tx")
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	if _, err := tx.Exec(ctx,
		`DELETE FROM risk_flags WHERE mou_id = $1 AND resolved = false`, mouID,
	); err != nil {
		return eris.Wrapf(err, "postgres: clear unresolved flags %s", mouID)
	}

	for i := range flags {
		f := &flags[i]
		if f.ID == "" {
			f.ID = uuid.New().String()
		}
		if f.CreatedAt.IsZero() {
			f.CreatedAt = time.Now().UTC()
		}
		if _, err := tx.Exec(ctx,
			`INSERT INTO risk_flags (id, mou_id, type, severity, title, description, resolved, created_at)
			 VALUES ($1, $2, $3, $4, $5, $6, false, $7)`,
			f.ID, mouID, string(f.Type), string(f.Severity), f.Title, f.Description, f.CreatedAt,
		); err != nil {
			return eris.Wrapf(err, "postgres: insert flag %s", f.ID)
		}
	}

	return eris.Wrap(tx.Commit(ctx), "postgres: commit flags tx")
}

func (s *PostgresStore) ListFlags(ctx context.Context, mouID string, includeResolved bool) ([]model.RiskFlag, error) {
	query := `SELECT id, mou_id, type, severity, title, description, resolved, resolved_by, resolved_at, resolution_notes, created_at
	 FROM risk_flags WHERE mou_id = $1`
	if !includeResolved {
		query += ` AND resolved = false`
	}
	query += ` ORDER BY created_at DESC`

	rows, err := s.pool.Query(ctx, query, mouID)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list flags")
	}
	defer rows.Close()

	var flags []model.RiskFlag
	for rows.Next() {
		var f model.RiskFlag
		var description, resolvedBy, notes *string
		if err := rows.Scan(&f.ID, &f.MOUID, &f.Type, &f.Severity, &f.Title, &description,
			&f.Resolved, &resolvedBy, &f.ResolvedAt, &notes, &f.CreatedAt); err != nil {
			return nil, eris.Wrap(err, "postgres: scan flag")
		}
		if description != nil {
			f.Description = *description
		}
		if resolvedBy != nil {
			f.ResolvedBy = *resolvedBy
		}
		if notes != nil {
			f.ResolutionNotes = *notes
		}
		flags = append(flags, f)
	}
	return flags, eris.Wrap(rows.Err(), "postgres: list flags iterate")
}

func (s *PostgresStore) ResolveFlag(ctx context.Context, flagID, resolvedBy, notes string) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE risk_flags SET resolved = true, resolved_by = $1, resolved_at = $2, resolution_notes = $3 WHERE id = $4 AND resolved = false`,
		resolvedBy, time.Now().UTC(), notes, flagID,
	)
	if err != nil {
		return eris.Wrapf(err, "postgres: resolve flag %s", flagID)
	}
	if tag.RowsAffected() == 0 {
		return eris.Errorf("unresolved flag not found: %s", flagID)
	}
	return nil
}

func (s *PostgresStore) SaveSignatureVerification(ctx context.Context, v *model.SignatureVerification) error {
	if v.ID == "" {
		v.ID = uuid.New().String()
	}
	if v.CheckedAt.IsZero() {
		v.CheckedAt = time.Now().UTC()
	}

	_, err := s.pool.Exec(ctx,
		`INSERT INTO signature_verifications (id, mou_id, image_path, status, black_ratio, std_dev, checked_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		v.ID, v.MOUID, v.ImagePath, string(v.Status), v.BlackRatio, v.StdDev, v.CheckedAt,
	)
	return eris.Wrap(err, "postgres: insert signature verification")
}

func (s *PostgresStore) ListSignatureVerifications(ctx context.Context, mouID string) ([]model.SignatureVerification, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, mou_id, image_path, status, black_ratio, std_dev, checked_at
		 FROM signature_verifications WHERE mou_id = $1 ORDER BY checked_at DESC`,
		mouID,
	)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list signature verifications")
	}
	defer rows.Close()

	var verifications []model.SignatureVerification
	for rows.Next() {
		var v model.SignatureVerification
		if err := rows.Scan(&v.ID, &v.MOUID, &v.ImagePath, &v.Status, &v.BlackRatio, &v.StdDev, &v.CheckedAt); err != nil {
			return nil, eris.Wrap(err, "postgres: scan signature verification")
		}
		verifications = append(verifications, v)
	}
	return verifications, eris.Wrap(rows.Err(), "postgres: list signature verifications iterate")
}

func (s *PostgresStore) AppendActivity(ctx context.Context, e model.ActivityEntry) (*model.ActivityEntry, error) {
	e.ID = uuid.New().String()
	if e.Timestamp.IsZero() {
		e.Timestamp = time.Now().UTC()
	}

	_, err := s.pool.Exec(ctx,
		`INSERT INTO activity_log (id, mou_id, action, actor, description, timestamp) VALUES ($1, $2, $3, $4, $5, $6)`,
		e.ID, e.MOUID, string(e.Action), e.Actor, e.Description, e.Timestamp,
	)
	if err != nil {
		return nil, eris.Wrapf(err, "postgres: insert activity for mou %s", e.MOUID)
	}
	return &e, nil
}

func (s *PostgresStore) ListActivity(ctx context.Context, mouID string, limit int) ([]model.ActivityEntry, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.pool.Query(ctx,
		`SELECT id, mou_id, action, actor, description, timestamp
		 FROM activity_log WHERE mou_id = $1 ORDER BY timestamp DESC LIMIT $2`,
		mouID, limit,
	)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list activity")
	}
	defer rows.Close()

	var entries []model.ActivityEntry
	for rows.Next() {
		var e model.ActivityEntry
		var actor, description *string
		if err := rows.Scan(&e.ID, &e.MOUID, &e.Action, &actor, &description, &e.Timestamp); err != nil {
			return nil, eris.Wrap(err, "postgres: scan activity entry")
		}
		if actor != nil {
			e.Actor = *actor
		}
		if description != nil {
			e.Description = *description
		}
		entries = append(entries, e)
	}
	return entries, eris.Wrap(rows.Err(), "postgres: list activity iterate")
}

func collectMOUs(rows pgx.Rows) ([]model.MOU, error) {
	var mous []model.MOU
	for rows.Next() {
		var m model.MOU
		var org, contact, pdfPath *string
		if err := rows.Scan(&m.ID, &m.Title, &m.PartnerName, &org, &contact, &m.Status,
			&pdfPath, &m.StartDate, &m.ExpiryDate, &m.CreatedAt, &m.UpdatedAt); err != nil {
			return nil, eris.Wrap(err, "postgres: scan mou")
		}
		if org != nil {
			m.PartnerOrganization = *org
		}
		if contact != nil {
			m.PartnerContact = *contact
		}
		if pdfPath != nil {
			m.PDFPath = *pdfPath
		}
		mous = append(mous, m)
	}
	return mous, eris.Wrap(rows.Err(), "postgres: collect mous iterate")
}
