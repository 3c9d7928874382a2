package directory

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/caresense/caresense/internal/domain/triage"
)

// Service manages directory listings and serves ranked lookups for the
// triage engine. It implements triage.DirectoryLookup.
type Service struct {
	specialists SpecialistRepository
	hospitals   HospitalRepository
	cache       *Cache
}

func NewService(specialists SpecialistRepository, hospitals HospitalRepository, cache *Cache) *Service {
	return &Service{specialists: specialists, hospitals: hospitals, cache: cache}
}

// FindSpecialists returns ranked candidates for one specialty, read through
// the cache.
func (s *Service) FindSpecialists(ctx context.Context, specialty string, limit int) ([]triage.SpecialistMatch, error) {
	key := specialistKey(specialty, limit)

	var cached []triage.SpecialistMatch
	if s.cache.getJSON(ctx, key, &cached) {
		return cached, nil
	}

	rows, err := s.specialists.TopBySpecialty(ctx, specialty, limit)
	if err != nil {
		return nil, err
	}

	matches := make([]triage.SpecialistMatch, 0, len(rows))
	for _, sp := range rows {
		matches = append(matches, triage.SpecialistMatch{
			Name:         sp.Name,
			Specialty:    sp.Specialty,
			DistanceKm:   sp.DistanceKm,
			Rating:       sp.Rating,
			Availability: sp.Availability,
			Fee:          sp.Fee,
		})
	}

	s.cache.setJSON(ctx, key, matches)
	return matches, nil
}

// FindHospitals returns ranked facilities, read through the cache.
func (s *Service) FindHospitals(ctx context.Context, emergencyOnly bool, limit int) ([]triage.HospitalMatch, error) {
	key := hospitalKey(emergencyOnly, limit)

	var cached []triage.HospitalMatch
	if s.cache.getJSON(ctx, key, &cached) {
		return cached, nil
	}

	rows, err := s.hospitals.TopHospitals(ctx, emergencyOnly, limit)
	if err != nil {
		return nil, err
	}

	matches := make([]triage.HospitalMatch, 0, len(rows))
	for _, h := range rows {
		matches = append(matches, triage.HospitalMatch{
			Name:             h.Name,
			Address:          h.Address,
			DistanceKm:       h.DistanceKm,
			Rating:           h.Rating,
			EmergencyCapable: h.EmergencyCapable,
		})
	}

	s.cache.setJSON(ctx, key, matches)
	return matches, nil
}

// -- Specialist management --

func (s *Service) CreateSpecialist(ctx context.Context, sp *Specialist) error {
	if sp.Name == "" {
		return fmt.Errorf("name is required")
	}
	if sp.Specialty == "" {
		return fmt.Errorf("specialty is required")
	}
	if sp.Rating < 0 || sp.Rating > 5 {
		return fmt.Errorf("rating must be between 0 and 5")
	}
	if err := s.specialists.Create(ctx, sp); err != nil {
		return err
	}
	s.cache.Invalidate(ctx)
	return nil
}

func (s *Service) GetSpecialist(ctx context.Context, id uuid.UUID) (*Specialist, error) {
	return s.specialists.GetByID(ctx, id)
}

func (s *Service) UpdateSpecialist(ctx context.Context, sp *Specialist) error {
	if sp.Rating < 0 || sp.Rating > 5 {
		return fmt.Errorf("rating must be between 0 and 5")
	}
	if err := s.specialists.Update(ctx, sp); err != nil {
		return err
	}
	s.cache.Invalidate(ctx)
	return nil
}

func (s *Service) DeleteSpecialist(ctx context.Context, id uuid.UUID) error {
	if err := s.specialists.Delete(ctx, id); err != nil {
		return err
	}
	s.cache.Invalidate(ctx)
	return nil
}

func (s *Service) ListSpecialists(ctx context.Context, specialty string, limit, offset int) ([]*Specialist, int, error) {
	return s.specialists.List(ctx, specialty, limit, offset)
}

// -- Hospital management --

func (s *Service) CreateHospital(ctx context.Context, h *Hospital) error {
	if h.Name == "" {
		return fmt.Errorf("name is required")
	}
	if h.Rating < 0 || h.Rating > 5 {
		return fmt.Errorf("rating must be between 0 and 5")
	}
	if err := s.hospitals.Create(ctx, h); err != nil {
		return err
	}
	s.cache.Invalidate(ctx)
	return nil
}

func (s *Service) GetHospital(ctx context.Context, id uuid.UUID) (*Hospital, error) {
	return s.hospitals.GetByID(ctx, id)
}

func (s *Service) UpdateHospital(ctx context.Context, h *Hospital) error {
	if h.Rating < 0 || h.Rating > 5 {
		return fmt.Errorf("rating must be between 0 and 5")
	}
	if err := s.hospitals.Update(ctx, h); err != nil {
		return err
	}
	s.cache.Invalidate(ctx)
	return nil
}

func (s *Service) DeleteHospital(ctx context.Context, id uuid.UUID) error {
	if err := s.hospitals.Delete(ctx, id); err != nil {
		return err
	}
	s.cache.Invalidate(ctx)
	return nil
}

func (s *Service) ListHospitals(ctx context.Context, limit, offset int) ([]*Hospital, int, error) {
	return s.hospitals.List(ctx, limit, offset)
}
