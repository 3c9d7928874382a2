package subscription

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	// GetByPatient returns the patient's subscription; pgx.ErrNoRows when
	// the patient has never subscribed.
	GetByPatient(ctx context.Context, patientID uuid.UUID) (*Subscription, error)
	Upsert(ctx context.Context, s *Subscription) error
	Cancel(ctx context.Context, patientID uuid.UUID) error
}
