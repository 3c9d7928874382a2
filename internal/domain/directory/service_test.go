package directory

import (
	"context"
	"fmt"
	"sort"
	"testing"

	"github.com/google/uuid"
)

type mockSpecialistRepo struct {
	items map[uuid.UUID]*Specialist
	fail  bool
}

func newMockSpecialistRepo() *mockSpecialistRepo {
	return &mockSpecialistRepo{items: make(map[uuid.UUID]*Specialist)}
}

func (m *mockSpecialistRepo) Create(_ context.Context, s *Specialist) error {
	if m.fail {
		return fmt.Errorf("repo down")
	}
	s.ID = uuid.New()
	m.items[s.ID] = s
	return nil
}

func (m *mockSpecialistRepo) GetByID(_ context.Context, id uuid.UUID) (*Specialist, error) {
	s, ok := m.items[id]
	if !ok {
		return nil, fmt.Errorf("not found")
	}
	return s, nil
}

func (m *mockSpecialistRepo) Update(_ context.Context, s *Specialist) error {
	if _, ok := m.items[s.ID]; !ok {
		return fmt.Errorf("not found")
	}
	m.items[s.ID] = s
	return nil
}

func (m *mockSpecialistRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(m.items, id)
	return nil
}

func (m *mockSpecialistRepo) List(_ context.Context, specialty string, limit, offset int) ([]*Specialist, int, error) {
	var list []*Specialist
	for _, s := range m.items {
		if specialty == "" || s.Specialty == specialty {
			list = append(list, s)
		}
	}
	return list, len(list), nil
}

func (m *mockSpecialistRepo) TopBySpecialty(_ context.Context, specialty string, limit int) ([]*Specialist, error) {
	if m.fail {
		return nil, fmt.Errorf("repo down")
	}
	var list []*Specialist
	for _, s := range m.items {
		if s.Specialty == specialty && s.Active {
			list = append(list, s)
		}
	}
	sort.Slice(list, func(i, j int) bool {
		if list[i].Rating != list[j].Rating {
			return list[i].Rating > list[j].Rating
		}
		return list[i].DistanceKm < list[j].DistanceKm
	})
	if len(list) > limit {
		list = list[:limit]
	}
	return list, nil
}

type mockHospitalRepo struct {
	items map[uuid.UUID]*Hospital
}

func newMockHospitalRepo() *mockHospitalRepo {
	return &mockHospitalRepo{items: make(map[uuid.UUID]*Hospital)}
}

func (m *mockHospitalRepo) Create(_ context.Context, h *Hospital) error {
	h.ID = uuid.New()
	m.items[h.ID] = h
	return nil
}

func (m *mockHospitalRepo) GetByID(_ context.Context, id uuid.UUID) (*Hospital, error) {
	h, ok := m.items[id]
	if !ok {
		return nil, fmt.Errorf("not found")
	}
	return h, nil
}

func (m *mockHospitalRepo) Update(_ context.Context, h *Hospital) error {
	m.items[h.ID] = h
	return nil
}

func (m *mockHospitalRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(m.items, id)
	return nil
}

func (m *mockHospitalRepo) List(_ context.Context, limit, offset int) ([]*Hospital, int, error) {
	var list []*Hospital
	for _, h := range m.items {
		list = append(list, h)
	}
	return list, len(list), nil
}

func (m *mockHospitalRepo) TopHospitals(_ context.Context, emergencyOnly bool, limit int) ([]*Hospital, error) {
	var list []*Hospital
	for _, h := range m.items {
		if !h.Active {
			continue
		}
		if emergencyOnly && !h.EmergencyCapable {
			continue
		}
		list = append(list, h)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].DistanceKm < list[j].DistanceKm })
	if len(list) > limit {
		list = list[:limit]
	}
	return list, nil
}

func newTestService() (*Service, *mockSpecialistRepo, *mockHospitalRepo) {
	specialists := newMockSpecialistRepo()
	hospitals := newMockHospitalRepo()
	return NewService(specialists, hospitals, nil), specialists, hospitals
}

func TestFindSpecialists_RanksByRatingThenDistance(t *testing.T) {
	svc, repo, _ := newTestService()
	ctx := context.Background()

	for _, s := range []*Specialist{
		{Name: "Dr. Far", Specialty: "Cardiology", Rating: 4.8, DistanceKm: 12, Active: true},
		{Name: "Dr. Near", Specialty: "Cardiology", Rating: 4.8, DistanceKm: 3, Active: true},
		{Name: "Dr. Low", Specialty: "Cardiology", Rating: 3.1, DistanceKm: 1, Active: true},
		{Name: "Dr. Wrong", Specialty: "Dermatology", Rating: 5.0, DistanceKm: 1, Active: true},
		{Name: "Dr. Inactive", Specialty: "Cardiology", Rating: 5.0, DistanceKm: 1, Active: false},
	} {
		repo.items[uuid.New()] = s
	}

	matches, err := svc.FindSpecialists(ctx, "Cardiology", 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(matches) != 3 {
		t.Fatalf("expected 3 matches, got %d", len(matches))
	}
	if matches[0].Name != "Dr. Near" {
		t.Errorf("expected highest-rated nearest first, got %s", matches[0].Name)
	}
	if matches[1].Name != "Dr. Far" {
		t.Errorf("expected same-rating farther second, got %s", matches[1].Name)
	}
	for _, m := range matches {
		if m.Specialty != "Cardiology" {
			t.Errorf("unexpected specialty %s in matches", m.Specialty)
		}
	}
}

func TestFindSpecialists_RepoErrorPropagates(t *testing.T) {
	svc, repo, _ := newTestService()
	repo.fail = true
	if _, err := svc.FindSpecialists(context.Background(), "Cardiology", 3); err == nil {
		t.Error("expected error when repository fails")
	}
}

func TestFindHospitals_EmergencyOnly(t *testing.T) {
	svc, _, repo := newTestService()
	ctx := context.Background()

	for _, h := range []*Hospital{
		{Name: "City General", DistanceKm: 5, EmergencyCapable: true, Active: true},
		{Name: "Day Clinic", DistanceKm: 1, EmergencyCapable: false, Active: true},
		{Name: "Regional ER", DistanceKm: 2, EmergencyCapable: true, Active: true},
	} {
		repo.items[uuid.New()] = h
	}

	matches, err := svc.FindHospitals(ctx, true, 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(matches) != 2 {
		t.Fatalf("expected 2 emergency-capable hospitals, got %d", len(matches))
	}
	if matches[0].Name != "Regional ER" {
		t.Errorf("expected nearest emergency hospital first, got %s", matches[0].Name)
	}
}

func TestCreateSpecialist_Validation(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	if err := svc.CreateSpecialist(ctx, &Specialist{Specialty: "Cardiology"}); err == nil {
		t.Error("expected error for missing name")
	}
	if err := svc.CreateSpecialist(ctx, &Specialist{Name: "Dr. X"}); err == nil {
		t.Error("expected error for missing specialty")
	}
	if err := svc.CreateSpecialist(ctx, &Specialist{Name: "Dr. X", Specialty: "Cardiology", Rating: 6}); err == nil {
		t.Error("expected error for rating above 5")
	}
	if err := svc.CreateSpecialist(ctx, &Specialist{Name: "Dr. X", Specialty: "Cardiology", Rating: 4.5, Active: true}); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestCreateHospital_Validation(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	if err := svc.CreateHospital(ctx, &Hospital{}); err == nil {
		t.Error("expected error for missing name")
	}
	if err := svc.CreateHospital(ctx, &Hospital{Name: "City General", Rating: 4.2, Active: true}); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}
