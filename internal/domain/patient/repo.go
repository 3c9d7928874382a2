package patient

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	Create(ctx context.Context, p *Patient) error
	GetByID(ctx context.Context, id uuid.UUID) (*Patient, error)
	Update(ctx context.Context, p *Patient) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, limit, offset int) ([]*Patient, int, error)
}

type RecordRepository interface {
	Create(ctx context.Context, r *HealthRecord) error
	ListByPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*HealthRecord, int, error)
}

type AssessmentRepository interface {
	Create(ctx context.Context, a *Assessment) error
	GetByID(ctx context.Context, id uuid.UUID) (*Assessment, error)
	ListByPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*Assessment, int, error)
}
