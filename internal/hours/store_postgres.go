package hours

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"lobbyreg/internal/calendar"
	"lobbyreg/pkg/domain"
)

// PostgresStore persists activity logs and crossings in PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed hours store.
func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// Schema holds the DDL for this store's tables. Applied by migrations
// tooling and the integration test suite.
const Schema = `
CREATE TABLE IF NOT EXISTS activity_logs (
	id          UUID PRIMARY KEY,
	entity_id   UUID NOT NULL,
	activity_on DATE NOT NULL,
	hours       NUMERIC(5,2) NOT NULL CHECK (hours > 0),
	created_at  TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS activity_logs_entity_date_idx
	ON activity_logs (entity_id, activity_on);

CREATE TABLE IF NOT EXISTS threshold_crossings (
	entity_id             UUID NOT NULL,
	quarter               SMALLINT NOT NULL,
	year                  INT NOT NULL,
	crossed_on            DATE NOT NULL,
	registration_deadline DATE NOT NULL,
	PRIMARY KEY (entity_id, quarter, year)
);
`

func (s *PostgresStore) SaveActivity(ctx context.Context, entry *ActivityLog) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO activity_logs (id, entity_id, activity_on, hours, created_at)
		VALUES ($1, $2, $3, $4, $5)`,
		uuid.UUID(entry.ID), uuid.UUID(entry.EntityID), entry.Date, entry.Hours, entry.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("save activity: %w", err)
	}
	return nil
}

func (s *PostgresStore) ListByPeriod(ctx context.Context, entityID domain.EntityID, period calendar.Period) ([]*ActivityLog, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, entity_id, activity_on, hours, created_at
		FROM activity_logs
		WHERE entity_id = $1 AND activity_on BETWEEN $2 AND $3
		ORDER BY activity_on, created_at`,
		uuid.UUID(entityID), period.Start(), period.End(),
	)
	if err != nil {
		return nil, fmt.Errorf("list activities: %w", err)
	}
	defer rows.Close()

	var out []*ActivityLog
	for rows.Next() {
		var entry ActivityLog
		var id, eid uuid.UUID
		if err := rows.Scan(&id, &eid, &entry.Date, &entry.Hours, &entry.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan activity: %w", err)
		}
		entry.ID = domain.ActivityID(id)
		entry.EntityID = domain.EntityID(eid)
		out = append(out, &entry)
	}
	return out, rows.Err()
}

// SaveCrossing inserts the first crossing for the (entity, period) pair.
// ON CONFLICT DO NOTHING keeps the captured date stable under races.
func (s *PostgresStore) SaveCrossing(ctx context.Context, crossing *Crossing) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO threshold_crossings (entity_id, quarter, year, crossed_on, registration_deadline)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (entity_id, quarter, year) DO NOTHING`,
		uuid.UUID(crossing.EntityID), int(crossing.Period.Quarter), crossing.Period.Year,
		crossing.CrossedOn, crossing.RegistrationDeadline,
	)
	if err != nil {
		return fmt.Errorf("save crossing: %w", err)
	}
	return nil
}

func (s *PostgresStore) GetCrossing(ctx context.Context, entityID domain.EntityID, period calendar.Period) (*Crossing, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT crossed_on, registration_deadline
		FROM threshold_crossings
		WHERE entity_id = $1 AND quarter = $2 AND year = $3`,
		uuid.UUID(entityID), int(period.Quarter), period.Year,
	)

	crossing := Crossing{EntityID: entityID, Period: period}
	err := row.Scan(&crossing.CrossedOn, &crossing.RegistrationDeadline)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get crossing: %w", err)
	}
	return &crossing, nil
}

func (s *PostgresStore) ListCrossings(ctx context.Context, period calendar.Period) ([]*Crossing, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT entity_id, crossed_on, registration_deadline
		FROM threshold_crossings
		WHERE quarter = $1 AND year = $2
		ORDER BY crossed_on`,
		int(period.Quarter), period.Year,
	)
	if err != nil {
		return nil, fmt.Errorf("list crossings: %w", err)
	}
	defer rows.Close()

	var out []*Crossing
	for rows.Next() {
		crossing := Crossing{Period: period}
		var eid uuid.UUID
		if err := rows.Scan(&eid, &crossing.CrossedOn, &crossing.RegistrationDeadline); err != nil {
			return nil, fmt.Errorf("scan crossing: %w", err)
		}
		crossing.EntityID = domain.EntityID(eid)
		out = append(out, &crossing)
	}
	return out, rows.Err()
}
