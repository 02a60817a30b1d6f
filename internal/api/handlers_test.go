package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sort"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/carebook/medical-directory-api/internal/booking"
	"github.com/carebook/medical-directory-api/internal/directory"
	"github.com/carebook/medical-directory-api/internal/user"
)

type fakeDirectoryRepo struct {
	directory.Repository

	doctors   map[uuid.UUID]*directory.Doctor
	hospitals map[uuid.UUID]*directory.Hospital
}

func newFakeDirectoryRepo() *fakeDirectoryRepo {
	return &fakeDirectoryRepo{
		doctors:   make(map[uuid.UUID]*directory.Doctor),
		hospitals: make(map[uuid.UUID]*directory.Hospital),
	}
}

func (f *fakeDirectoryRepo) CreateDoctor(_ context.Context, d *directory.Doctor) error {
	cp := *d
	f.doctors[d.ID] = &cp
	return nil
}

func (f *fakeDirectoryRepo) GetDoctor(_ context.Context, id uuid.UUID) (*directory.Doctor, error) {
	d, ok := f.doctors[id]
	if !ok {
		return nil, directory.ErrNotFound
	}
	cp := *d
	return &cp, nil
}

func (f *fakeDirectoryRepo) GetDoctorByUserID(_ context.Context, userID uuid.UUID) (*directory.Doctor, error) {
	for _, d := range f.doctors {
		if d.UserID != nil && *d.UserID == userID {
			cp := *d
			return &cp, nil
		}
	}
	return nil, directory.ErrNotFound
}

func (f *fakeDirectoryRepo) ListDoctors(_ context.Context, _ string, _, _ int) ([]directory.Doctor, error) {
	out := make([]directory.Doctor, 0, len(f.doctors))
	for _, d := range f.doctors {
		out = append(out, *d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (f *fakeDirectoryRepo) CreateHospital(_ context.Context, h *directory.Hospital) error {
	cp := *h
	f.hospitals[h.ID] = &cp
	return nil
}

func (f *fakeDirectoryRepo) ListHospitals(_ context.Context, _, _ int) ([]directory.Hospital, error) {
	out := make([]directory.Hospital, 0, len(f.hospitals))
	for _, h := range f.hospitals {
		out = append(out, *h)
	}
	return out, nil
}

type fakeBookingRepo struct {
	users  *fakeUserRepo
	dir    *fakeDirectoryRepo
	appts  map[uuid.UUID]*booking.Appointment
	events []booking.EventLog
}

func newFakeBookingRepo(users *fakeUserRepo, dir *fakeDirectoryRepo) *fakeBookingRepo {
	return &fakeBookingRepo{
		users: users,
		dir:   dir,
		appts: make(map[uuid.UUID]*booking.Appointment),
	}
}

func (f *fakeBookingRepo) GetDoctor(ctx context.Context, id uuid.UUID) (*directory.Doctor, error) {
	return f.dir.GetDoctor(ctx, id)
}

func (f *fakeBookingRepo) GetPatient(ctx context.Context, id uuid.UUID) (*user.User, error) {
	return f.users.GetByID(ctx, id)
}

func (f *fakeBookingRepo) GetAppointmentByID(_ context.Context, id uuid.UUID) (*booking.Appointment, error) {
	a, ok := f.appts[id]
	if !ok {
		return nil, booking.ErrAppointmentNotFound
	}
	cp := *a
	return &cp, nil
}

func (f *fakeBookingRepo) detail(ctx context.Context, a booking.Appointment) booking.AppointmentDetail {
	d := booking.AppointmentDetail{Appointment: a}
	if p, err := f.users.GetByID(ctx, a.PatientID); err == nil {
		d.PatientName = p.Name
		d.PatientEmail = p.Email
	}
	if doc, err := f.dir.GetDoctor(ctx, a.DoctorID); err == nil {
		d.DoctorName = doc.Name
		d.DoctorSpecialization = doc.Specialization
	}
	return d
}

func (f *fakeBookingRepo) GetAppointmentDetail(ctx context.Context, id uuid.UUID) (*booking.AppointmentDetail, error) {
	a, ok := f.appts[id]
	if !ok {
		return nil, booking.ErrAppointmentNotFound
	}
	d := f.detail(ctx, *a)
	return &d, nil
}

func (f *fakeBookingRepo) HasDoctorConflict(_ context.Context, doctorID uuid.UUID, at time.Time) (bool, error) {
	for _, a := range f.appts {
		if a.DoctorID == doctorID && a.StartsAt.Equal(at) && a.Status != booking.StatusCancelled {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeBookingRepo) HasPatientConflict(_ context.Context, patientID uuid.UUID, at time.Time) (bool, error) {
	for _, a := range f.appts {
		if a.PatientID == patientID && a.StartsAt.Equal(at) && a.Status != booking.StatusCancelled {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeBookingRepo) CreateScheduled(_ context.Context, a *booking.Appointment) (*booking.Appointment, error) {
	cp := *a
	cp.ID = uuid.New()
	cp.Status = booking.StatusScheduled
	cp.CreatedAt = time.Now()
	cp.UpdatedAt = cp.CreatedAt
	f.appts[cp.ID] = &cp
	out := cp
	return &out, nil
}

func (f *fakeBookingRepo) UpdateStatus(_ context.Context, id uuid.UUID, from, to booking.Status, notes string) (*booking.Appointment, error) {
	a, ok := f.appts[id]
	if !ok || a.Status != from {
		return nil, booking.ErrAppointmentNotFound
	}
	a.Status = to
	if notes != "" {
		a.Notes = notes
	}
	a.UpdatedAt = time.Now()
	cp := *a
	return &cp, nil
}

func (f *fakeBookingRepo) DeleteAppointment(_ context.Context, id uuid.UUID) error {
	if _, ok := f.appts[id]; !ok {
		return booking.ErrAppointmentNotFound
	}
	delete(f.appts, id)
	return nil
}

func (f *fakeBookingRepo) ListByPatient(ctx context.Context, patientID uuid.UUID, _, _ int) ([]booking.AppointmentDetail, error) {
	var out []booking.AppointmentDetail
	for _, a := range f.appts {
		if a.PatientID == patientID {
			out = append(out, f.detail(ctx, *a))
		}
	}
	return out, nil
}

func (f *fakeBookingRepo) ListByDoctor(ctx context.Context, doctorID uuid.UUID, _, _ int) ([]booking.AppointmentDetail, error) {
	var out []booking.AppointmentDetail
	for _, a := range f.appts {
		if a.DoctorID == doctorID {
			out = append(out, f.detail(ctx, *a))
		}
	}
	return out, nil
}

func (f *fakeBookingRepo) FindUpcomingUnreminded(_ context.Context, from, to time.Time) ([]booking.Appointment, error) {
	var out []booking.Appointment
	for _, a := range f.appts {
		if a.Status == booking.StatusScheduled && !a.ReminderSent && a.StartsAt.After(from) && a.StartsAt.Before(to) {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (f *fakeBookingRepo) MarkReminded(_ context.Context, id uuid.UUID) error {
	a, ok := f.appts[id]
	if !ok {
		return booking.ErrAppointmentNotFound
	}
	a.ReminderSent = true
	return nil
}

func (f *fakeBookingRepo) InsertEvent(_ context.Context, ev booking.EventLog) error {
	ev.ID = int64(len(f.events) + 1)
	ev.CreatedAt = time.Now()
	f.events = append(f.events, ev)
	return nil
}

func (f *fakeBookingRepo) ListEvents(_ context.Context, _, _ int) ([]booking.EventLog, error) {
	out := make([]booking.EventLog, len(f.events))
	copy(out, f.events)
	return out, nil
}

type noopLocker struct{}

func (noopLocker) WithLock(ctx context.Context, _ string, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type testEnv struct {
	router http.Handler
	users  *fakeUserRepo
	dir    *fakeDirectoryRepo
	book   *fakeBookingRepo
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	users := newFakeUserRepo()
	dir := newFakeDirectoryRepo()
	book := newFakeBookingRepo(users, dir)

	router := NewRouter(RouterConfig{
		Users:         user.NewService(users),
		UserRepo:      users,
		Directory:     directory.NewService(dir),
		Booking:       booking.NewService(book, noopLocker{}, zerolog.Nop()),
		JWTSecret:     testSecret,
		TokenTTL:      time.Hour,
		AuthRateRPS:   100,
		AuthRateBurst: 100,
		Logger:        zerolog.Nop(),
		Env:           "test",
		Version:       "test",
	})

	return &testEnv{router: router, users: users, dir: dir, book: book}
}

func (e *testEnv) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.RemoteAddr = "127.0.0.1:9999"
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func decodeData(t *testing.T, rec *httptest.ResponseRecorder, out any) {
	t.Helper()
	var env envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode envelope: %v (body %s)", err, rec.Body.String())
	}
	if out == nil {
		return
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		t.Fatalf("decode data: %v (body %s)", err, rec.Body.String())
	}
}

func futureSlot(hour int) string {
	n := time.Now().UTC().AddDate(0, 0, 2)
	return time.Date(n.Year(), n.Month(), n.Day(), hour, 0, 0, 0, time.UTC).Format(time.RFC3339)
}

func TestBookingFlow(t *testing.T) {
	env := newTestEnv(t)

	// patient self-registers
	rec := env.do(t, http.MethodPost, "/api/auth/register", "", map[string]string{
		"name":     "Alice",
		"email":    "alice@example.com",
		"password": "supersecret",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("register status = %d (body %s)", rec.Code, rec.Body.String())
	}

	rec = env.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email":    "alice@example.com",
		"password": "supersecret",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("login status = %d (body %s)", rec.Code, rec.Body.String())
	}
	var login struct {
		Token string `json:"token"`
		User  struct {
			ID string `json:"id"`
		} `json:"user"`
	}
	decodeData(t, rec, &login)
	if login.Token == "" {
		t.Fatal("login returned no token")
	}
	patientToken := login.Token

	// admin accounts are provisioned out of band
	admin := seedUser(t, env.users, user.RoleAdmin)
	adminToken := tokenFor(t, admin)

	rec = env.do(t, http.MethodPost, "/api/doctors", adminToken, map[string]any{
		"name":           "Dr. Wilson",
		"specialization": "Oncology",
		"open_hour":      9,
		"close_hour":     17,
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create doctor status = %d (body %s)", rec.Code, rec.Body.String())
	}
	var doc struct {
		ID string `json:"id"`
	}
	decodeData(t, rec, &doc)

	slot := futureSlot(10)
	book := map[string]string{
		"doctor_id": doc.ID,
		"starts_at": slot,
		"reason":    "checkup",
	}

	rec = env.do(t, http.MethodPost, "/api/appointments", patientToken, book)
	if rec.Code != http.StatusCreated {
		t.Fatalf("book status = %d (body %s)", rec.Code, rec.Body.String())
	}
	var appt struct {
		ID         string `json:"id"`
		Status     string `json:"status"`
		DoctorName string `json:"doctor_name"`
	}
	decodeData(t, rec, &appt)
	if appt.Status != "scheduled" {
		t.Errorf("status = %q, want scheduled", appt.Status)
	}
	if appt.DoctorName != "Dr. Wilson" {
		t.Errorf("doctor_name = %q, want Dr. Wilson", appt.DoctorName)
	}

	// same slot again is rejected
	rec = env.do(t, http.MethodPost, "/api/appointments", patientToken, book)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("double book status = %d, want 400 (body %s)", rec.Code, rec.Body.String())
	}

	// another patient hits the doctor-side conflict
	env.do(t, http.MethodPost, "/api/auth/register", "", map[string]string{
		"name":     "Bob",
		"email":    "bob@example.com",
		"password": "supersecret",
	})
	rec = env.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email":    "bob@example.com",
		"password": "supersecret",
	})
	var bobLogin struct {
		Token string `json:"token"`
	}
	decodeData(t, rec, &bobLogin)

	rec = env.do(t, http.MethodPost, "/api/appointments", bobLogin.Token, book)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("conflicting book status = %d, want 400 (body %s)", rec.Code, rec.Body.String())
	}

	// owner sees exactly one appointment
	rec = env.do(t, http.MethodGet, "/api/appointments", patientToken, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("list status = %d (body %s)", rec.Code, rec.Body.String())
	}
	var list []json.RawMessage
	decodeData(t, rec, &list)
	if len(list) != 1 {
		t.Fatalf("list length = %d, want 1", len(list))
	}

	// cancel then rebook the same slot
	rec = env.do(t, http.MethodPost, fmt.Sprintf("/api/appointments/%s/cancel", appt.ID), patientToken, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("cancel status = %d (body %s)", rec.Code, rec.Body.String())
	}
	rec = env.do(t, http.MethodPost, "/api/appointments", bobLogin.Token, book)
	if rec.Code != http.StatusCreated {
		t.Fatalf("rebook after cancel status = %d (body %s)", rec.Code, rec.Body.String())
	}
}

func TestBookingValidationResponses(t *testing.T) {
	env := newTestEnv(t)

	patient := seedUser(t, env.users, user.RolePatient)
	token := tokenFor(t, patient)

	doctorID := uuid.New()
	env.dir.doctors[doctorID] = &directory.Doctor{
		ID:        doctorID,
		Name:      "Dr. Chase",
		OpenHour:  9,
		CloseHour: 17,
		Active:    true,
	}

	cases := []struct {
		name   string
		body   map[string]string
		status int
	}{
		{
			"unknown doctor",
			map[string]string{"doctor_id": uuid.New().String(), "starts_at": futureSlot(10)},
			http.StatusNotFound,
		},
		{
			"malformed doctor id",
			map[string]string{"doctor_id": "nope", "starts_at": futureSlot(10)},
			http.StatusBadRequest,
		},
		{
			"malformed timestamp",
			map[string]string{"doctor_id": doctorID.String(), "starts_at": "tomorrow"},
			http.StatusBadRequest,
		},
		{
			"past date",
			map[string]string{"doctor_id": doctorID.String(), "starts_at": "2020-01-01T10:00:00Z"},
			http.StatusBadRequest,
		},
		{
			"outside working hours",
			map[string]string{"doctor_id": doctorID.String(), "starts_at": futureSlot(18)},
			http.StatusBadRequest,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := env.do(t, http.MethodPost, "/api/appointments", token, tc.body)
			if rec.Code != tc.status {
				t.Fatalf("status = %d, want %d (body %s)", rec.Code, tc.status, rec.Body.String())
			}
		})
	}
}

func TestDirectoryWriteRequiresAdmin(t *testing.T) {
	env := newTestEnv(t)

	patient := seedUser(t, env.users, user.RolePatient)
	token := tokenFor(t, patient)

	rec := env.do(t, http.MethodPost, "/api/hospitals", token, map[string]string{"name": "General"})
	if rec.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want 403 (body %s)", rec.Code, rec.Body.String())
	}

	// reads stay open to any authenticated caller
	rec = env.do(t, http.MethodGet, "/api/hospitals", token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("list status = %d, want 200 (body %s)", rec.Code, rec.Body.String())
	}
}

func TestAdminRegistrationBlocked(t *testing.T) {
	env := newTestEnv(t)
	rec := env.do(t, http.MethodPost, "/api/auth/register", "", map[string]string{
		"name":     "Mallory",
		"email":    "mallory@example.com",
		"password": "supersecret",
		"type":     "admin",
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400 (body %s)", rec.Code, rec.Body.String())
	}
}

func TestProtectedRoutesRejectAnonymous(t *testing.T) {
	env := newTestEnv(t)
	paths := []string{
		"/api/appointments",
		"/api/doctors",
		"/api/users/me",
	}
	for _, p := range paths {
		rec := env.do(t, http.MethodGet, p, "", nil)
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("%s status = %d, want 401", p, rec.Code)
		}
	}
}
