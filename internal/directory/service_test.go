package directory

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
)

// fakeDoctorRepo embeds the interface so only doctor methods need bodies.
type fakeDoctorRepo struct {
	Repository
	doctors map[uuid.UUID]*Doctor

	lastLimit  int
	lastOffset int
}

func newFakeDoctorRepo() *fakeDoctorRepo {
	return &fakeDoctorRepo{doctors: make(map[uuid.UUID]*Doctor)}
}

func (f *fakeDoctorRepo) CreateDoctor(_ context.Context, d *Doctor) error {
	cp := *d
	f.doctors[d.ID] = &cp
	return nil
}

func (f *fakeDoctorRepo) GetDoctor(_ context.Context, id uuid.UUID) (*Doctor, error) {
	d, ok := f.doctors[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *d
	return &cp, nil
}

func (f *fakeDoctorRepo) DeactivateDoctor(_ context.Context, id uuid.UUID) error {
	d, ok := f.doctors[id]
	if !ok {
		return ErrNotFound
	}
	d.Active = false
	return nil
}

func (f *fakeDoctorRepo) ListDoctors(_ context.Context, _ string, limit, offset int) ([]Doctor, error) {
	f.lastLimit = limit
	f.lastOffset = offset
	return nil, nil
}

func TestCreateDoctorHours(t *testing.T) {
	svc := NewService(newFakeDoctorRepo())

	tests := []struct {
		name    string
		open    int
		close   int
		wantErr bool
	}{
		{"standard day", 9, 17, false},
		{"full day", 0, 24, false},
		{"negative open", -1, 17, true},
		{"close past midnight", 9, 25, true},
		{"open equals close", 9, 9, true},
		{"inverted", 17, 9, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.CreateDoctor(context.Background(), DoctorInput{
				Name: "Dr. Test", OpenHour: tt.open, CloseHour: tt.close,
			})
			if tt.wantErr && !errors.Is(err, ErrInvalidInput) {
				t.Fatalf("expected ErrInvalidInput, got %v", err)
			}
			if !tt.wantErr && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestCreateDoctorNameRequired(t *testing.T) {
	svc := NewService(newFakeDoctorRepo())
	if _, err := svc.CreateDoctor(context.Background(), DoctorInput{Name: "  ", OpenHour: 9, CloseHour: 17}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestRemoveDoctorDeactivates(t *testing.T) {
	repo := newFakeDoctorRepo()
	svc := NewService(repo)

	d, err := svc.CreateDoctor(context.Background(), DoctorInput{Name: "Dr. Test", OpenHour: 9, CloseHour: 17})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if err := svc.RemoveDoctor(context.Background(), d.ID); err != nil {
		t.Fatalf("remove: %v", err)
	}

	got, err := svc.GetDoctor(context.Background(), d.ID)
	if err != nil {
		t.Fatalf("get after remove: %v", err)
	}
	if got.Active {
		t.Error("doctor still active after removal")
	}
}

func TestListDoctorsPagination(t *testing.T) {
	repo := newFakeDoctorRepo()
	svc := NewService(repo)

	tests := []struct {
		limit, offset         int
		wantLimit, wantOffset int
	}{
		{0, 0, 20, 0},
		{-5, -3, 20, 0},
		{500, 10, 100, 10},
		{50, 5, 50, 5},
	}

	for _, tt := range tests {
		if _, err := svc.ListDoctors(context.Background(), "", tt.limit, tt.offset); err != nil {
			t.Fatalf("list: %v", err)
		}
		if repo.lastLimit != tt.wantLimit || repo.lastOffset != tt.wantOffset {
			t.Errorf("limit/offset (%d,%d): got (%d,%d), want (%d,%d)",
				tt.limit, tt.offset, repo.lastLimit, repo.lastOffset, tt.wantLimit, tt.wantOffset)
		}
	}
}
