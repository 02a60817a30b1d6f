package booking

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/carebook/medical-directory-api/internal/directory"
	redisclient "github.com/carebook/medical-directory-api/internal/redis"
	"github.com/carebook/medical-directory-api/internal/user"
)

type fakeRepo struct {
	doctors  map[uuid.UUID]*directory.Doctor
	patients map[uuid.UUID]*user.User
	appts    map[uuid.UUID]*Appointment
	events   []EventLog
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		doctors:  make(map[uuid.UUID]*directory.Doctor),
		patients: make(map[uuid.UUID]*user.User),
		appts:    make(map[uuid.UUID]*Appointment),
	}
}

func (f *fakeRepo) GetDoctor(_ context.Context, id uuid.UUID) (*directory.Doctor, error) {
	d, ok := f.doctors[id]
	if !ok {
		return nil, directory.ErrNotFound
	}
	cp := *d
	return &cp, nil
}

func (f *fakeRepo) GetPatient(_ context.Context, id uuid.UUID) (*user.User, error) {
	p, ok := f.patients[id]
	if !ok {
		return nil, user.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (f *fakeRepo) GetAppointmentByID(_ context.Context, id uuid.UUID) (*Appointment, error) {
	a, ok := f.appts[id]
	if !ok {
		return nil, ErrAppointmentNotFound
	}
	cp := *a
	return &cp, nil
}

func (f *fakeRepo) GetAppointmentDetail(ctx context.Context, id uuid.UUID) (*AppointmentDetail, error) {
	a, err := f.GetAppointmentByID(ctx, id)
	if err != nil {
		return nil, err
	}
	d := &AppointmentDetail{Appointment: *a}
	if p, ok := f.patients[a.PatientID]; ok {
		d.PatientName = p.Name
		d.PatientEmail = p.Email
	}
	if doc, ok := f.doctors[a.DoctorID]; ok {
		d.DoctorName = doc.Name
		d.DoctorSpecialization = doc.Specialization
	}
	return d, nil
}

func (f *fakeRepo) HasDoctorConflict(_ context.Context, doctorID uuid.UUID, at time.Time) (bool, error) {
	for _, a := range f.appts {
		if a.DoctorID == doctorID && a.StartsAt.Equal(at) && a.Status != StatusCancelled {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeRepo) HasPatientConflict(_ context.Context, patientID uuid.UUID, at time.Time) (bool, error) {
	for _, a := range f.appts {
		if a.PatientID == patientID && a.StartsAt.Equal(at) && a.Status != StatusCancelled {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeRepo) CreateScheduled(ctx context.Context, a *Appointment) (*Appointment, error) {
	// mirror the partial unique indexes
	if busy, _ := f.HasDoctorConflict(ctx, a.DoctorID, a.StartsAt); busy {
		return nil, ErrDoctorSlotTaken
	}
	if busy, _ := f.HasPatientConflict(ctx, a.PatientID, a.StartsAt); busy {
		return nil, ErrPatientSlotTaken
	}
	cp := *a
	cp.ID = uuid.New()
	cp.Status = StatusScheduled
	cp.CreatedAt = time.Now()
	cp.UpdatedAt = cp.CreatedAt
	f.appts[cp.ID] = &cp
	out := cp
	return &out, nil
}

func (f *fakeRepo) UpdateStatus(_ context.Context, id uuid.UUID, from, to Status, notes string) (*Appointment, error) {
	a, ok := f.appts[id]
	if !ok || a.Status != from {
		return nil, ErrAppointmentNotFound
	}
	a.Status = to
	if notes != "" {
		a.Notes = notes
	}
	a.UpdatedAt = time.Now()
	cp := *a
	return &cp, nil
}

func (f *fakeRepo) DeleteAppointment(_ context.Context, id uuid.UUID) error {
	if _, ok := f.appts[id]; !ok {
		return ErrAppointmentNotFound
	}
	delete(f.appts, id)
	return nil
}

func (f *fakeRepo) ListByPatient(_ context.Context, patientID uuid.UUID, limit, offset int) ([]AppointmentDetail, error) {
	var out []AppointmentDetail
	for _, a := range f.appts {
		if a.PatientID == patientID {
			out = append(out, AppointmentDetail{Appointment: *a})
		}
	}
	return out, nil
}

func (f *fakeRepo) ListByDoctor(_ context.Context, doctorID uuid.UUID, limit, offset int) ([]AppointmentDetail, error) {
	var out []AppointmentDetail
	for _, a := range f.appts {
		if a.DoctorID == doctorID {
			out = append(out, AppointmentDetail{Appointment: *a})
		}
	}
	return out, nil
}

func (f *fakeRepo) FindUpcomingUnreminded(_ context.Context, from, to time.Time) ([]Appointment, error) {
	var out []Appointment
	for _, a := range f.appts {
		if a.Status == StatusScheduled && !a.ReminderSent &&
			!a.StartsAt.Before(from) && a.StartsAt.Before(to) {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (f *fakeRepo) MarkReminded(_ context.Context, id uuid.UUID) error {
	a, ok := f.appts[id]
	if !ok {
		return ErrAppointmentNotFound
	}
	a.ReminderSent = true
	return nil
}

func (f *fakeRepo) InsertEvent(_ context.Context, ev EventLog) error {
	f.events = append(f.events, ev)
	return nil
}

func (f *fakeRepo) ListEvents(_ context.Context, limit, offset int) ([]EventLog, error) {
	return f.events, nil
}

type passLocker struct {
	fail bool
}

func (l passLocker) WithLock(ctx context.Context, _ string, fn func(ctx context.Context) error) error {
	if l.fail {
		return redisclient.ErrLockNotAcquired
	}
	return fn(ctx)
}

// at returns a UTC time `days` ahead at the given hour.
func at(days, hour int) time.Time {
	n := time.Now().UTC().AddDate(0, 0, days)
	return time.Date(n.Year(), n.Month(), n.Day(), hour, 0, 0, 0, time.UTC)
}

func setup(t *testing.T) (*Service, *fakeRepo, uuid.UUID, uuid.UUID) {
	t.Helper()
	repo := newFakeRepo()
	svc := NewService(repo, passLocker{}, zerolog.Nop())

	doctorUserID := uuid.New()
	doctorID := uuid.New()
	repo.doctors[doctorID] = &directory.Doctor{
		ID:             doctorID,
		UserID:         &doctorUserID,
		Name:           "Dr. House",
		Specialization: "Diagnostics",
		OpenHour:       9,
		CloseHour:      17,
		Active:         true,
	}

	patientID := uuid.New()
	repo.patients[patientID] = &user.User{
		ID: patientID, Name: "Alice", Email: "alice@example.com", Role: user.RolePatient,
	}

	return svc, repo, doctorID, patientID
}

func TestBook(t *testing.T) {
	svc, repo, doctorID, patientID := setup(t)

	detail, err := svc.Book(context.Background(), patientID, doctorID, at(7, 10), "checkup")
	if err != nil {
		t.Fatalf("book: %v", err)
	}
	if detail.Status != StatusScheduled {
		t.Errorf("status: got %s", detail.Status)
	}
	if detail.PatientName != "Alice" || detail.DoctorName != "Dr. House" {
		t.Errorf("detail not enriched: %+v", detail)
	}
	if len(repo.events) != 1 || repo.events[0].EventType != EventAppointmentBooked {
		t.Errorf("expected one booked event, got %+v", repo.events)
	}
}

func TestBookRuleOrder(t *testing.T) {
	svc, repo, doctorID, patientID := setup(t)

	inactiveID := uuid.New()
	repo.doctors[inactiveID] = &directory.Doctor{
		ID: inactiveID, Name: "Dr. Gone", OpenHour: 9, CloseHour: 17, Active: false,
	}

	tests := []struct {
		name    string
		doctor  uuid.UUID
		patient uuid.UUID
		when    time.Time
		want    error
	}{
		{"unknown doctor", uuid.New(), patientID, at(1, 10), ErrDoctorNotFound},
		{"inactive doctor", inactiveID, patientID, at(1, 10), ErrDoctorNotFound},
		{"unknown patient", doctorID, uuid.New(), at(1, 10), ErrPatientNotFound},
		{"past datetime", doctorID, patientID, at(-1, 10), ErrPastDate},
		{"before opening", doctorID, patientID, at(1, 8), ErrOutsideWorkingHours},
		{"at closing", doctorID, patientID, at(1, 17), ErrOutsideWorkingHours},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Book(context.Background(), tt.patient, tt.doctor, tt.when, "x")
			if !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestBookDoctorSlotTaken(t *testing.T) {
	svc, repo, doctorID, patientID := setup(t)

	when := at(7, 10)
	if _, err := svc.Book(context.Background(), patientID, doctorID, when, "first"); err != nil {
		t.Fatalf("first book: %v", err)
	}

	otherPatient := uuid.New()
	repo.patients[otherPatient] = &user.User{ID: otherPatient, Name: "Bob", Role: user.RolePatient}

	_, err := svc.Book(context.Background(), otherPatient, doctorID, when, "second")
	if !errors.Is(err, ErrDoctorSlotTaken) {
		t.Fatalf("expected ErrDoctorSlotTaken, got %v", err)
	}
}

func TestBookPatientDoubleBooking(t *testing.T) {
	svc, repo, doctorID, patientID := setup(t)

	otherDoctor := uuid.New()
	repo.doctors[otherDoctor] = &directory.Doctor{
		ID: otherDoctor, Name: "Dr. Wilson", OpenHour: 9, CloseHour: 17, Active: true,
	}

	when := at(7, 10)
	if _, err := svc.Book(context.Background(), patientID, doctorID, when, "first"); err != nil {
		t.Fatalf("first book: %v", err)
	}

	_, err := svc.Book(context.Background(), patientID, otherDoctor, when, "second")
	if !errors.Is(err, ErrPatientSlotTaken) {
		t.Fatalf("expected ErrPatientSlotTaken, got %v", err)
	}
}

func TestBookCancelledSlotIsFree(t *testing.T) {
	svc, repo, doctorID, patientID := setup(t)

	when := at(7, 10)
	detail, err := svc.Book(context.Background(), patientID, doctorID, when, "first")
	if err != nil {
		t.Fatalf("book: %v", err)
	}

	actor := Actor{UserID: patientID, Role: user.RolePatient}
	if _, err := svc.Cancel(context.Background(), detail.ID, actor, ""); err != nil {
		t.Fatalf("cancel: %v", err)
	}

	otherPatient := uuid.New()
	repo.patients[otherPatient] = &user.User{ID: otherPatient, Name: "Bob", Role: user.RolePatient}
	if _, err := svc.Book(context.Background(), otherPatient, doctorID, when, "rebook"); err != nil {
		t.Fatalf("rebooking a cancelled slot should succeed: %v", err)
	}
}

func TestBookLockContention(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo, passLocker{fail: true}, zerolog.Nop())

	doctorID := uuid.New()
	repo.doctors[doctorID] = &directory.Doctor{
		ID: doctorID, Name: "Dr. House", OpenHour: 9, CloseHour: 17, Active: true,
	}
	patientID := uuid.New()
	repo.patients[patientID] = &user.User{ID: patientID, Name: "Alice", Role: user.RolePatient}

	_, err := svc.Book(context.Background(), patientID, doctorID, at(7, 10), "checkup")
	if !errors.Is(err, ErrSlotBusy) {
		t.Fatalf("expected ErrSlotBusy, got %v", err)
	}
}

func TestCancelAuthorization(t *testing.T) {
	svc, repo, doctorID, patientID := setup(t)
	doctorUserID := *repo.doctors[doctorID].UserID

	book := func(t *testing.T, hour int) uuid.UUID {
		t.Helper()
		d, err := svc.Book(context.Background(), patientID, doctorID, at(7, hour), "x")
		if err != nil {
			t.Fatalf("book: %v", err)
		}
		return d.ID
	}

	tests := []struct {
		name    string
		hour    int
		actor   Actor
		wantErr error
	}{
		{"owning patient", 9, Actor{UserID: patientID, Role: user.RolePatient}, nil},
		{"assigned doctor", 10, Actor{UserID: doctorUserID, Role: user.RoleDoctor}, nil},
		{"admin", 11, Actor{UserID: uuid.New(), Role: user.RoleAdmin}, nil},
		{"other patient", 12, Actor{UserID: uuid.New(), Role: user.RolePatient}, ErrNotAllowed},
		{"other doctor", 13, Actor{UserID: uuid.New(), Role: user.RoleDoctor}, ErrNotAllowed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id := book(t, tt.hour)
			_, err := svc.Cancel(context.Background(), id, tt.actor, "")
			if tt.wantErr == nil && err != nil {
				t.Fatalf("cancel: %v", err)
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestCancelAlreadyTerminal(t *testing.T) {
	svc, _, doctorID, patientID := setup(t)
	actor := Actor{UserID: patientID, Role: user.RolePatient}

	d, err := svc.Book(context.Background(), patientID, doctorID, at(7, 10), "x")
	if err != nil {
		t.Fatalf("book: %v", err)
	}

	if _, err := svc.Cancel(context.Background(), d.ID, actor, ""); err != nil {
		t.Fatalf("first cancel: %v", err)
	}
	if _, err := svc.Cancel(context.Background(), d.ID, actor, ""); !errors.Is(err, ErrAlreadyTerminal) {
		t.Fatalf("expected ErrAlreadyTerminal, got %v", err)
	}
}

func TestComplete(t *testing.T) {
	svc, repo, doctorID, patientID := setup(t)
	doctorUserID := *repo.doctors[doctorID].UserID

	d, err := svc.Book(context.Background(), patientID, doctorID, at(7, 10), "x")
	if err != nil {
		t.Fatalf("book: %v", err)
	}

	// patients cannot complete
	if _, err := svc.Complete(context.Background(), d.ID, Actor{UserID: patientID, Role: user.RolePatient}, ""); !errors.Is(err, ErrNotAllowed) {
		t.Fatalf("expected ErrNotAllowed, got %v", err)
	}

	updated, err := svc.Complete(context.Background(), d.ID, Actor{UserID: doctorUserID, Role: user.RoleDoctor}, "all good")
	if err != nil {
		t.Fatalf("complete: %v", err)
	}
	if updated.Status != StatusCompleted {
		t.Errorf("status: got %s", updated.Status)
	}
	if updated.Notes != "all good" {
		t.Errorf("notes: got %q", updated.Notes)
	}

	// completed is terminal
	if _, err := svc.Cancel(context.Background(), d.ID, Actor{UserID: patientID, Role: user.RolePatient}, ""); !errors.Is(err, ErrAlreadyTerminal) {
		t.Fatalf("expected ErrAlreadyTerminal after completion, got %v", err)
	}
}

func TestDeleteAdminOnly(t *testing.T) {
	svc, _, doctorID, patientID := setup(t)

	d, err := svc.Book(context.Background(), patientID, doctorID, at(7, 10), "x")
	if err != nil {
		t.Fatalf("book: %v", err)
	}

	if err := svc.Delete(context.Background(), d.ID, Actor{UserID: patientID, Role: user.RolePatient}); !errors.Is(err, ErrNotAllowed) {
		t.Fatalf("expected ErrNotAllowed, got %v", err)
	}
	if err := svc.Delete(context.Background(), d.ID, Actor{UserID: uuid.New(), Role: user.RoleAdmin}); err != nil {
		t.Fatalf("admin delete: %v", err)
	}
	if _, err := svc.Get(context.Background(), d.ID, Actor{UserID: uuid.New(), Role: user.RoleAdmin}); !errors.Is(err, ErrAppointmentNotFound) {
		t.Fatalf("expected ErrAppointmentNotFound after delete, got %v", err)
	}
}

func TestGetHidesUnrelatedAppointments(t *testing.T) {
	svc, repo, doctorID, patientID := setup(t)

	d, err := svc.Book(context.Background(), patientID, doctorID, at(7, 10), "x")
	if err != nil {
		t.Fatalf("book: %v", err)
	}

	stranger := uuid.New()
	repo.patients[stranger] = &user.User{ID: stranger, Name: "Eve", Role: user.RolePatient}

	if _, err := svc.Get(context.Background(), d.ID, Actor{UserID: stranger, Role: user.RolePatient}); !errors.Is(err, ErrAppointmentNotFound) {
		t.Fatalf("expected ErrAppointmentNotFound for stranger, got %v", err)
	}
}

func TestRemindUpcoming(t *testing.T) {
	svc, repo, doctorID, patientID := setup(t)

	near, err := svc.Book(context.Background(), patientID, doctorID, at(1, 10), "near")
	if err != nil {
		t.Fatalf("book near: %v", err)
	}
	if _, err := svc.Book(context.Background(), patientID, doctorID, at(10, 10), "far"); err != nil {
		t.Fatalf("book far: %v", err)
	}

	repo.events = nil
	if err := svc.RemindUpcoming(context.Background(), 48*time.Hour); err != nil {
		t.Fatalf("remind: %v", err)
	}

	if len(repo.events) != 1 {
		t.Fatalf("expected 1 reminder event, got %d", len(repo.events))
	}
	if repo.events[0].EventType != EventAppointmentReminder {
		t.Errorf("event type: got %s", repo.events[0].EventType)
	}
	if !repo.appts[near.ID].ReminderSent {
		t.Error("near appointment not marked reminded")
	}

	// idempotent: a second run finds nothing
	repo.events = nil
	if err := svc.RemindUpcoming(context.Background(), 48*time.Hour); err != nil {
		t.Fatalf("second remind: %v", err)
	}
	if len(repo.events) != 0 {
		t.Errorf("expected no events on second run, got %d", len(repo.events))
	}
}
