package directory

import (
	"context"

	"github.com/google/uuid"
)

type SpecialistRepository interface {
	Create(ctx context.Context, s *Specialist) error
	GetByID(ctx context.Context, id uuid.UUID) (*Specialist, error)
	Update(ctx context.Context, s *Specialist) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, specialty string, limit, offset int) ([]*Specialist, int, error)
	// TopBySpecialty returns active specialists for one specialty ranked by
	// rating descending, then distance ascending.
	TopBySpecialty(ctx context.Context, specialty string, limit int) ([]*Specialist, error)
}

type HospitalRepository interface {
	Create(ctx context.Context, h *Hospital) error
	GetByID(ctx context.Context, id uuid.UUID) (*Hospital, error)
	Update(ctx context.Context, h *Hospital) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, limit, offset int) ([]*Hospital, int, error)
	// TopHospitals returns active hospitals ranked by distance ascending,
	// optionally restricted to emergency-capable facilities.
	TopHospitals(ctx context.Context, emergencyOnly bool, limit int) ([]*Hospital, error)
}
