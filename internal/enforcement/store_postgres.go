package enforcement

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"lobbyreg/pkg/domain"
	"lobbyreg/pkg/platform/sentinel"
)

// Schema holds the DDL for enforcement tables. Violations are never deleted;
// they are the audit record.
const Schema = `
CREATE TABLE IF NOT EXISTS violations (
	id               UUID PRIMARY KEY,
	entity_type      TEXT NOT NULL,
	entity_id        UUID NOT NULL,
	violation_type   TEXT NOT NULL,
	description      TEXT NOT NULL,
	fine_amount      INT NOT NULL CHECK (fine_amount BETWEEN 0 AND 500),
	status           TEXT NOT NULL,
	issued_date      TIMESTAMPTZ,
	resolution_notes TEXT NOT NULL DEFAULT '',
	created_at       TIMESTAMPTZ NOT NULL,
	updated_at       TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS violations_status_idx ON violations (status);

CREATE TABLE IF NOT EXISTS appeals (
	id              UUID PRIMARY KEY,
	violation_id    UUID NOT NULL REFERENCES violations (id),
	reason          TEXT NOT NULL,
	submitted_date  TIMESTAMPTZ NOT NULL,
	appeal_deadline TIMESTAMPTZ NOT NULL,
	status          TEXT NOT NULL,
	hearing_date    TIMESTAMPTZ,
	outcome         TEXT,
	decision_notes  TEXT NOT NULL DEFAULT '',
	decided_at      TIMESTAMPTZ
);
CREATE UNIQUE INDEX IF NOT EXISTS appeals_violation_idx ON appeals (violation_id);
`

// querier is satisfied by both *sql.DB and *sql.Tx so the same store code
// serves plain and transactional access.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// PostgresViolationStore persists violations in PostgreSQL.
type PostgresViolationStore struct {
	q querier
}

// NewPostgresViolationStore constructs a PostgreSQL-backed violation store.
func NewPostgresViolationStore(db *sql.DB) *PostgresViolationStore {
	return &PostgresViolationStore{q: db}
}

func (s *PostgresViolationStore) Create(ctx context.Context, v *Violation) error {
	_, err := s.q.ExecContext(ctx, `
		INSERT INTO violations (id, entity_type, entity_id, violation_type, description,
			fine_amount, status, issued_date, resolution_notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		uuid.UUID(v.ID), string(v.EntityType), uuid.UUID(v.EntityID), string(v.ViolationType),
		v.Description, v.FineAmount, string(v.Status), nullTime(v.IssuedDate),
		v.ResolutionNotes, v.CreatedAt, v.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("create violation: %w", err)
	}
	return nil
}

func (s *PostgresViolationStore) Get(ctx context.Context, id domain.ViolationID) (*Violation, error) {
	row := s.q.QueryRowContext(ctx, `
		SELECT id, entity_type, entity_id, violation_type, description, fine_amount,
			status, issued_date, resolution_notes, created_at, updated_at
		FROM violations WHERE id = $1`,
		uuid.UUID(id),
	)
	return scanViolation(row)
}

// Update applies a conditional write: the row must still hold the expected
// status or the transition loses the race.
func (s *PostgresViolationStore) Update(ctx context.Context, v *Violation, expected ViolationStatus) error {
	res, err := s.q.ExecContext(ctx, `
		UPDATE violations
		SET status = $1, issued_date = $2, resolution_notes = $3, updated_at = $4
		WHERE id = $5 AND status = $6`,
		string(v.Status), nullTime(v.IssuedDate), v.ResolutionNotes, v.UpdatedAt,
		uuid.UUID(v.ID), string(expected),
	)
	if err != nil {
		return fmt.Errorf("update violation: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update violation: %w", err)
	}
	if affected == 0 {
		return sentinel.ErrStaleStatus
	}
	return nil
}

func (s *PostgresViolationStore) ListByStatus(ctx context.Context, statuses ...ViolationStatus) ([]*Violation, error) {
	names := make([]string, len(statuses))
	for i, st := range statuses {
		names[i] = string(st)
	}
	rows, err := s.q.QueryContext(ctx, `
		SELECT id, entity_type, entity_id, violation_type, description, fine_amount,
			status, issued_date, resolution_notes, created_at, updated_at
		FROM violations WHERE status = ANY($1) ORDER BY created_at`,
		pq.Array(names),
	)
	if err != nil {
		return nil, fmt.Errorf("list violations: %w", err)
	}
	defer rows.Close()

	var out []*Violation
	for rows.Next() {
		v, err := scanViolation(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanViolation(row rowScanner) (*Violation, error) {
	var v Violation
	var id, entityID uuid.UUID
	var entityType, vType, status string
	var issued sql.NullTime
	err := row.Scan(&id, &entityType, &entityID, &vType, &v.Description, &v.FineAmount,
		&status, &issued, &v.ResolutionNotes, &v.CreatedAt, &v.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan violation: %w", err)
	}
	v.ID = domain.ViolationID(id)
	v.EntityType = domain.EntityType(entityType)
	v.EntityID = domain.EntityID(entityID)
	v.ViolationType = ViolationType(vType)
	v.Status = ViolationStatus(status)
	if issued.Valid {
		v.IssuedDate = issued.Time
	}
	return &v, nil
}

// PostgresAppealStore persists appeals in PostgreSQL.
type PostgresAppealStore struct {
	q querier
}

// NewPostgresAppealStore constructs a PostgreSQL-backed appeal store.
func NewPostgresAppealStore(db *sql.DB) *PostgresAppealStore {
	return &PostgresAppealStore{q: db}
}

func (s *PostgresAppealStore) Create(ctx context.Context, a *Appeal) error {
	_, err := s.q.ExecContext(ctx, `
		INSERT INTO appeals (id, violation_id, reason, submitted_date, appeal_deadline,
			status, hearing_date, outcome, decision_notes, decided_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		uuid.UUID(a.ID), uuid.UUID(a.ViolationID), a.Reason, a.SubmittedDate, a.AppealDeadline,
		string(a.Status), a.HearingDate, outcomeString(a.Outcome), a.DecisionNotes, a.DecidedAt,
	)
	if err != nil {
		return fmt.Errorf("create appeal: %w", err)
	}
	return nil
}

func (s *PostgresAppealStore) Get(ctx context.Context, id domain.AppealID) (*Appeal, error) {
	row := s.q.QueryRowContext(ctx, `
		SELECT id, violation_id, reason, submitted_date, appeal_deadline, status,
			hearing_date, outcome, decision_notes, decided_at
		FROM appeals WHERE id = $1`,
		uuid.UUID(id),
	)
	return scanAppeal(row)
}

func (s *PostgresAppealStore) GetByViolation(ctx context.Context, violationID domain.ViolationID) (*Appeal, error) {
	row := s.q.QueryRowContext(ctx, `
		SELECT id, violation_id, reason, submitted_date, appeal_deadline, status,
			hearing_date, outcome, decision_notes, decided_at
		FROM appeals WHERE violation_id = $1`,
		uuid.UUID(violationID),
	)
	return scanAppeal(row)
}

func (s *PostgresAppealStore) Update(ctx context.Context, a *Appeal, expected AppealStatus) error {
	res, err := s.q.ExecContext(ctx, `
		UPDATE appeals
		SET status = $1, hearing_date = $2, outcome = $3, decision_notes = $4, decided_at = $5
		WHERE id = $6 AND status = $7`,
		string(a.Status), a.HearingDate, outcomeString(a.Outcome), a.DecisionNotes, a.DecidedAt,
		uuid.UUID(a.ID), string(expected),
	)
	if err != nil {
		return fmt.Errorf("update appeal: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update appeal: %w", err)
	}
	if affected == 0 {
		return sentinel.ErrStaleStatus
	}
	return nil
}

func scanAppeal(row rowScanner) (*Appeal, error) {
	var a Appeal
	var id, violationID uuid.UUID
	var status string
	var hearing, decided sql.NullTime
	var outcome sql.NullString
	err := row.Scan(&id, &violationID, &a.Reason, &a.SubmittedDate, &a.AppealDeadline,
		&status, &hearing, &outcome, &a.DecisionNotes, &decided)
	if err == sql.ErrNoRows {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan appeal: %w", err)
	}
	a.ID = domain.AppealID(id)
	a.ViolationID = domain.ViolationID(violationID)
	a.Status = AppealStatus(status)
	if hearing.Valid {
		a.HearingDate = &hearing.Time
	}
	if outcome.Valid {
		o := Outcome(outcome.String)
		a.Outcome = &o
	}
	if decided.Valid {
		a.DecidedAt = &decided.Time
	}
	return &a, nil
}

// PostgresTx runs cross-store mutations inside a database transaction.
type PostgresTx struct {
	db *sql.DB
}

func NewPostgresTx(db *sql.DB) *PostgresTx {
	return &PostgresTx{db: db}
}

func (t *PostgresTx) RunInTx(ctx context.Context, fn func(s Stores) error) error {
	tx, err := t.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}

	stores := Stores{
		Violations: &PostgresViolationStore{q: tx},
		Appeals:    &PostgresAppealStore{q: tx},
	}
	if err := fn(stores); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

func nullTime(t time.Time) sql.NullTime {
	return sql.NullTime{Time: t, Valid: !t.IsZero()}
}

func outcomeString(o *Outcome) any {
	if o == nil {
		return nil
	}
	return string(*o)
}
