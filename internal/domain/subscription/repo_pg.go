package subscription

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type queryable interface {
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
}

type repoPG struct {
	pool *pgxpool.Pool
}

func NewRepo(pool *pgxpool.Pool) Repository {
	return &repoPG{pool: pool}
}

func (r *repoPG) conn(ctx context.Context) queryable {
	return r.pool
}

const columns = `id, patient_id, plan, status, started_at, expires_at, created_at, updated_at`

func (r *repoPG) GetByPatient(ctx context.Context, patientID uuid.UUID) (*Subscription, error) {
	var s Subscription
	err := r.conn(ctx).QueryRow(ctx,
		`SELECT `+columns+` FROM subscription WHERE patient_id = $1`, patientID).Scan(
		&s.ID, &s.PatientID, &s.Plan, &s.Status, &s.StartedAt, &s.ExpiresAt, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *repoPG) Upsert(ctx context.Context, s *Subscription) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO subscription (id, patient_id, plan, status, started_at, expires_at)
		VALUES ($1,$2,$3,$4,$5,$6)
		ON CONFLICT (patient_id) DO UPDATE SET
			plan = EXCLUDED.plan, status = EXCLUDED.status,
			started_at = EXCLUDED.started_at, expires_at = EXCLUDED.expires_at,
			updated_at = NOW()`,
		s.ID, s.PatientID, s.Plan, s.Status, s.StartedAt, s.ExpiresAt,
	)
	return err
}

func (r *repoPG) Cancel(ctx context.Context, patientID uuid.UUID) error {
	_, err := r.conn(ctx).Exec(ctx,
		`UPDATE subscription SET status = 'cancelled', updated_at = NOW() WHERE patient_id = $1`, patientID)
	return err
}
