package patient

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

// -- Patient Repository --

type repoPG struct {
	pool *pgxpool.Pool
}

func NewRepo(pool *pgxpool.Pool) Repository {
	return &repoPG{pool: pool}
}

func (r *repoPG) conn(ctx context.Context) queryable {
	return r.pool
}

const patientColumns = `id, first_name, last_name, email, phone, birth_date, gender,
	condition, medical_history, active, created_at, updated_at`

func (r *repoPG) Create(ctx context.Context, p *Patient) error {
	p.ID = uuid.New()
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO patient (
			id, first_name, last_name, email, phone, birth_date, gender,
			condition, medical_history, active
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)`,
		p.ID, p.FirstName, p.LastName, p.Email, p.Phone, p.BirthDate, p.Gender,
		p.Condition, p.MedicalHistory, p.Active,
	)
	return err
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Patient, error) {
	return r.scanPatient(r.conn(ctx).QueryRow(ctx,
		`SELECT `+patientColumns+` FROM patient WHERE id = $1`, id))
}

func (r *repoPG) Update(ctx context.Context, p *Patient) error {
	_, err := r.conn(ctx).Exec(ctx, `
		UPDATE patient SET
			first_name=$2, last_name=$3, email=$4, phone=$5, birth_date=$6,
			gender=$7, condition=$8, medical_history=$9, active=$10, updated_at=NOW()
		WHERE id = $1`,
		p.ID, p.FirstName, p.LastName, p.Email, p.Phone, p.BirthDate,
		p.Gender, p.Condition, p.MedicalHistory, p.Active,
	)
	return err
}

func (r *repoPG) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.conn(ctx).Exec(ctx, `DELETE FROM patient WHERE id = $1`, id)
	return err
}

func (r *repoPG) List(ctx context.Context, limit, offset int) ([]*Patient, int, error) {
	var total int
	err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM patient`).Scan(&total)
	if err != nil {
		return nil, 0, err
	}

	rows, err := r.conn(ctx).Query(ctx,
		`SELECT `+patientColumns+` FROM patient ORDER BY last_name, first_name LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var patients []*Patient
	for rows.Next() {
		p, err := r.scanPatientRow(rows)
		if err != nil {
			return nil, 0, err
		}
		patients = append(patients, p)
	}
	return patients, total, nil
}

func (r *repoPG) scanPatient(row pgx.Row) (*Patient, error) {
	var p Patient
	err := row.Scan(&p.ID, &p.FirstName, &p.LastName, &p.Email, &p.Phone, &p.BirthDate,
		&p.Gender, &p.Condition, &p.MedicalHistory, &p.Active, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *repoPG) scanPatientRow(rows pgx.Rows) (*Patient, error) {
	var p Patient
	err := rows.Scan(&p.ID, &p.FirstName, &p.LastName, &p.Email, &p.Phone, &p.BirthDate,
		&p.Gender, &p.Condition, &p.MedicalHistory, &p.Active, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// -- HealthRecord Repository --

type recordRepoPG struct {
	pool *pgxpool.Pool
}

func NewRecordRepo(pool *pgxpool.Pool) RecordRepository {
	return &recordRepoPG{pool: pool}
}

func (r *recordRepoPG) conn(ctx context.Context) queryable {
	return r.pool
}

const recordColumns = `id, patient_id, systolic, diastolic, heart_rate, temperature, weight,
	symptoms, notes, medication_taken, smoked, adherence, recorded_at`

func (r *recordRepoPG) Create(ctx context.Context, rec *HealthRecord) error {
	rec.ID = uuid.New()
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO health_record (
			id, patient_id, systolic, diastolic, heart_rate, temperature, weight,
			symptoms, notes, medication_taken, smoked, adherence, recorded_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)`,
		rec.ID, rec.PatientID, rec.Systolic, rec.Diastolic, rec.HeartRate, rec.Temperature, rec.Weight,
		rec.Symptoms, rec.Notes, rec.MedicationTaken, rec.Smoked, rec.Adherence, rec.RecordedAt,
	)
	return err
}

func (r *recordRepoPG) ListByPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*HealthRecord, int, error) {
	var total int
	err := r.conn(ctx).QueryRow(ctx,
		`SELECT COUNT(*) FROM health_record WHERE patient_id = $1`, patientID).Scan(&total)
	if err != nil {
		return nil, 0, err
	}

	rows, err := r.conn(ctx).Query(ctx, `
		SELECT `+recordColumns+` FROM health_record
		WHERE patient_id = $1 ORDER BY recorded_at DESC LIMIT $2 OFFSET $3`, patientID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var records []*HealthRecord
	for rows.Next() {
		var rec HealthRecord
		if err := rows.Scan(&rec.ID, &rec.PatientID, &rec.Systolic, &rec.Diastolic, &rec.HeartRate,
			&rec.Temperature, &rec.Weight, &rec.Symptoms, &rec.Notes,
			&rec.MedicationTaken, &rec.Smoked, &rec.Adherence, &rec.RecordedAt); err != nil {
			return nil, 0, err
		}
		records = append(records, &rec)
	}
	return records, total, nil
}

// -- Assessment Repository --

type assessmentRepoPG struct {
	pool *pgxpool.Pool
}

func NewAssessmentRepo(pool *pgxpool.Pool) AssessmentRepository {
	return &assessmentRepoPG{pool: pool}
}

func (r *assessmentRepoPG) conn(ctx context.Context) queryable {
	return r.pool
}

const assessmentColumns = `id, patient_id, record_id, risk_score, risk_tier, payload, created_at`

func (r *assessmentRepoPG) Create(ctx context.Context, a *Assessment) error {
	a.ID = uuid.New()
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO assessment (id, patient_id, record_id, risk_score, risk_tier, payload)
		VALUES ($1,$2,$3,$4,$5,$6)`,
		a.ID, a.PatientID, a.RecordID, a.RiskScore, a.RiskTier, a.Payload,
	)
	return err
}

func (r *assessmentRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*Assessment, error) {
	var a Assessment
	err := r.conn(ctx).QueryRow(ctx,
		`SELECT `+assessmentColumns+` FROM assessment WHERE id = $1`, id).Scan(
		&a.ID, &a.PatientID, &a.RecordID, &a.RiskScore, &a.RiskTier, &a.Payload, &a.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *assessmentRepoPG) ListByPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*Assessment, int, error) {
	var total int
	err := r.conn(ctx).QueryRow(ctx,
		`SELECT COUNT(*) FROM assessment WHERE patient_id = $1`, patientID).Scan(&total)
	if err != nil {
		return nil, 0, err
	}

	rows, err := r.conn(ctx).Query(ctx, `
		SELECT `+assessmentColumns+` FROM assessment
		WHERE patient_id = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`, patientID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var list []*Assessment
	for rows.Next() {
		var a Assessment
		if err := rows.Scan(&a.ID, &a.PatientID, &a.RecordID, &a.RiskScore, &a.RiskTier, &a.Payload, &a.CreatedAt); err != nil {
			return nil, 0, err
		}
		list = append(list, &a)
	}
	return list, total, nil
}
