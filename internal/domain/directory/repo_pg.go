package directory

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// queryable abstracts pgxpool.Pool for repository queries.
type queryable interface {
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
}

// -- Specialist Repository --

type specialistRepoPG struct {
	pool *pgxpool.Pool
}

func NewSpecialistRepo(pool *pgxpool.Pool) SpecialistRepository {
	return &specialistRepoPG{pool: pool}
}

func (r *specialistRepoPG) conn(ctx context.Context) queryable {
	return r.pool
}

const specialistColumns = `id, name, specialty, distance_km, rating, availability, fee, active, created_at, updated_at`

func (r *specialistRepoPG) Create(ctx context.Context, s *Specialist) error {
	s.ID = uuid.New()
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO specialist (id, name, specialty, distance_km, rating, availability, fee, active)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`,
		s.ID, s.Name, s.Specialty, s.DistanceKm, s.Rating, s.Availability, s.Fee, s.Active,
	)
	return err
}

func (r *specialistRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*Specialist, error) {
	return r.scanSpecialist(r.conn(ctx).QueryRow(ctx,
		`SELECT `+specialistColumns+` FROM specialist WHERE id = $1`, id))
}

func (r *specialistRepoPG) Update(ctx context.Context, s *Specialist) error {
	_, err := r.conn(ctx).Exec(ctx, `
		UPDATE specialist SET
			name=$2, specialty=$3, distance_km=$4, rating=$5,
			availability=$6, fee=$7, active=$8, updated_at=NOW()
		WHERE id = $1`,
		s.ID, s.Name, s.Specialty, s.DistanceKm, s.Rating, s.Availability, s.Fee, s.Active,
	)
	return err
}

func (r *specialistRepoPG) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.conn(ctx).Exec(ctx, `DELETE FROM specialist WHERE id = $1`, id)
	return err
}

func (r *specialistRepoPG) List(ctx context.Context, specialty string, limit, offset int) ([]*Specialist, int, error) {
	var total int
	var args []interface{}
	countQuery := `SELECT COUNT(*) FROM specialist`
	query := `SELECT ` + specialistColumns + ` FROM specialist`

	if specialty != "" {
		countQuery += ` WHERE specialty = $1`
		query += ` WHERE specialty = $1`
		args = append(args, specialty)
	}

	err := r.conn(ctx).QueryRow(ctx, countQuery, args...).Scan(&total)
	if err != nil {
		return nil, 0, err
	}

	idx := len(args) + 1
	query += fmt.Sprintf(` ORDER BY name LIMIT $%d OFFSET $%d`, idx, idx+1)
	args = append(args, limit, offset)

	rows, err := r.conn(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var list []*Specialist
	for rows.Next() {
		s, err := r.scanSpecialistRow(rows)
		if err != nil {
			return nil, 0, err
		}
		list = append(list, s)
	}
	return list, total, nil
}

func (r *specialistRepoPG) TopBySpecialty(ctx context.Context, specialty string, limit int) ([]*Specialist, error) {
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT `+specialistColumns+` FROM specialist
		WHERE specialty = $1 AND active = true
		ORDER BY rating DESC, distance_km ASC
		LIMIT $2`, specialty, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []*Specialist
	for rows.Next() {
		s, err := r.scanSpecialistRow(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, s)
	}
	return list, nil
}

func (r *specialistRepoPG) scanSpecialist(row pgx.Row) (*Specialist, error) {
	var s Specialist
	err := row.Scan(&s.ID, &s.Name, &s.Specialty, &s.DistanceKm, &s.Rating,
		&s.Availability, &s.Fee, &s.Active, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *specialistRepoPG) scanSpecialistRow(rows pgx.Rows) (*Specialist, error) {
	var s Specialist
	err := rows.Scan(&s.ID, &s.Name, &s.Specialty, &s.DistanceKm, &s.Rating,
		&s.Availability, &s.Fee, &s.Active, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// -- Hospital Repository --

type hospitalRepoPG struct {
	pool *pgxpool.Pool
}

func NewHospitalRepo(pool *pgxpool.Pool) HospitalRepository {
	return &hospitalRepoPG{pool: pool}
}

func (r *hospitalRepoPG) conn(ctx context.Context) queryable {
	return r.pool
}

const hospitalColumns = `id, name, address, distance_km, rating, emergency_capable, active, created_at, updated_at`

func (r *hospitalRepoPG) Create(ctx context.Context, h *Hospital) error {
	h.ID = uuid.New()
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO hospital (id, name, address, distance_km, rating, emergency_capable, active)
		VALUES ($1,$2,$3,$4,$5,$6,$7)`,
		h.ID, h.Name, h.Address, h.DistanceKm, h.Rating, h.EmergencyCapable, h.Active,
	)
	return err
}

func (r *hospitalRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*Hospital, error) {
	return r.scanHospital(r.conn(ctx).QueryRow(ctx,
		`SELECT `+hospitalColumns+` FROM hospital WHERE id = $1`, id))
}

func (r *hospitalRepoPG) Update(ctx context.Context, h *Hospital) error {
	_, err := r.conn(ctx).Exec(ctx, `
		UPDATE hospital SET
			name=$2, address=$3, distance_km=$4, rating=$5,
			emergency_capable=$6, active=$7, updated_at=NOW()
		WHERE id = $1`,
		h.ID, h.Name, h.Address, h.DistanceKm, h.Rating, h.EmergencyCapable, h.Active,
	)
	return err
}

func (r *hospitalRepoPG) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.conn(ctx).Exec(ctx, `DELETE FROM hospital WHERE id = $1`, id)
	return err
}

func (r *hospitalRepoPG) List(ctx context.Context, limit, offset int) ([]*Hospital, int, error) {
	var total int
	err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM hospital`).Scan(&total)
	if err != nil {
		return nil, 0, err
	}

	rows, err := r.conn(ctx).Query(ctx,
		`SELECT `+hospitalColumns+` FROM hospital ORDER BY name LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var list []*Hospital
	for rows.Next() {
		h, err := r.scanHospitalRow(rows)
		if err != nil {
			return nil, 0, err
		}
		list = append(list, h)
	}
	return list, total, nil
}

func (r *hospitalRepoPG) TopHospitals(ctx context.Context, emergencyOnly bool, limit int) ([]*Hospital, error) {
	query := `SELECT ` + hospitalColumns + ` FROM hospital WHERE active = true`
	if emergencyOnly {
		query += ` AND emergency_capable = true`
	}
	query += ` ORDER BY distance_km ASC LIMIT $1`

	rows, err := r.conn(ctx).Query(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []*Hospital
	for rows.Next() {
		h, err := r.scanHospitalRow(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, h)
	}
	return list, nil
}

func (r *hospitalRepoPG) scanHospital(row pgx.Row) (*Hospital, error) {
	var h Hospital
	err := row.Scan(&h.ID, &h.Name, &h.Address, &h.DistanceKm, &h.Rating,
		&h.EmergencyCapable, &h.Active, &h.CreatedAt, &h.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &h, nil
}

func (r *hospitalRepoPG) scanHospitalRow(rows pgx.Rows) (*Hospital, error) {
	var h Hospital
	err := rows.Scan(&h.ID, &h.Name, &h.Address, &h.DistanceKm, &h.Rating,
		&h.EmergencyCapable, &h.Active, &h.CreatedAt, &h.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &h, nil
}
