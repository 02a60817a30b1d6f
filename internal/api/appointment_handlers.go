package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/carebook/medical-directory-api/internal/booking"
	"github.com/carebook/medical-directory-api/internal/directory"
	"github.com/carebook/medical-directory-api/internal/user"
)

type appointmentResponse struct {
	ID                   string    `json:"id"`
	PatientID            string    `json:"patient_id"`
	DoctorID             string    `json:"doctor_id"`
	StartsAt             time.Time `json:"starts_at"`
	Reason               string    `json:"reason"`
	Status               string    `json:"status"`
	Notes                string    `json:"notes,omitempty"`
	PatientName          string    `json:"patient_name,omitempty"`
	DoctorName           string    `json:"doctor_name,omitempty"`
	DoctorSpecialization string    `json:"doctor_specialization,omitempty"`
	CreatedAt            time.Time `json:"created_at"`
	UpdatedAt            time.Time `json:"updated_at"`
}

func toAppointmentResponse(a *booking.Appointment) appointmentResponse {
	return appointmentResponse{
		ID:        a.ID.String(),
		PatientID: a.PatientID.String(),
		DoctorID:  a.DoctorID.String(),
		StartsAt:  a.StartsAt,
		Reason:    a.Reason,
		Status:    string(a.Status),
		Notes:     a.Notes,
		CreatedAt: a.CreatedAt,
		UpdatedAt: a.UpdatedAt,
	}
}

func toDetailResponse(d *booking.AppointmentDetail) appointmentResponse {
	out := toAppointmentResponse(&d.Appointment)
	out.PatientName = d.PatientName
	out.DoctorName = d.DoctorName
	out.DoctorSpecialization = d.DoctorSpecialization
	return out
}

type createAppointmentRequest struct {
	DoctorID  string `json:"doctor_id"`
	PatientID string `json:"patient_id"` // admin only; patients book for themselves
	StartsAt  string `json:"starts_at"`  // RFC 3339
	Reason    string `json:"reason"`
}

func createAppointmentHandler(svc *booking.Service, logger zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity, ok := IdentityFrom(r.Context())
		if !ok {
			writeInternal(w)
			return
		}

		var req createAppointmentRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "could not parse JSON body")
			return
		}

		doctorID, err := uuid.Parse(req.DoctorID)
		if err != nil {
			writeError(w, http.StatusBadRequest, "doctor_id must be a valid UUID")
			return
		}

		startsAt, err := time.Parse(time.RFC3339, req.StartsAt)
		if err != nil {
			writeError(w, http.StatusBadRequest, "starts_at must be an RFC 3339 timestamp")
			return
		}

		patientID := identity.UserID
		if identity.Role == user.RoleAdmin {
			if req.PatientID == "" {
				writeError(w, http.StatusBadRequest, "patient_id required for admin bookings")
				return
			}
			patientID, err = uuid.Parse(req.PatientID)
			if err != nil {
				writeError(w, http.StatusBadRequest, "patient_id must be a valid UUID")
				return
			}
		}

		detail, err := svc.Book(r.Context(), patientID, doctorID, startsAt, req.Reason)
		if err != nil {
			handleBookingError(w, err, logger)
			return
		}

		writeData(w, http.StatusCreated, toDetailResponse(detail))
	}
}

func listAppointmentsHandler(svc *booking.Service, doctors *directory.Service, logger zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity, ok := IdentityFrom(r.Context())
		if !ok {
			writeInternal(w)
			return
		}
		limit, offset := pageParams(r)

		var (
			list []booking.AppointmentDetail
			err  error
		)

		switch identity.Role {
		case user.RolePatient:
			list, err = svc.ListByPatient(r.Context(), identity.UserID, limit, offset)
		case user.RoleDoctor:
			doc, derr := doctors.GetDoctorByUser(r.Context(), identity.UserID)
			if derr != nil {
				if errors.Is(derr, directory.ErrNotFound) {
					writeError(w, http.StatusNotFound, "no directory entry for this doctor account")
					return
				}
				logger.Error().Err(derr).Msg("resolve doctor entry")
				writeInternal(w)
				return
			}
			list, err = svc.ListByDoctor(r.Context(), doc.ID, limit, offset)
		case user.RoleAdmin:
			if pid := r.URL.Query().Get("patient_id"); pid != "" {
				id, perr := uuid.Parse(pid)
				if perr != nil {
					writeError(w, http.StatusBadRequest, "patient_id must be a valid UUID")
					return
				}
				list, err = svc.ListByPatient(r.Context(), id, limit, offset)
			} else if did := r.URL.Query().Get("doctor_id"); did != "" {
				id, perr := uuid.Parse(did)
				if perr != nil {
					writeError(w, http.StatusBadRequest, "doctor_id must be a valid UUID")
					return
				}
				list, err = svc.ListByDoctor(r.Context(), id, limit, offset)
			} else {
				writeError(w, http.StatusBadRequest, "patient_id or doctor_id query parameter required")
				return
			}
		}
		if err != nil {
			handleBookingError(w, err, logger)
			return
		}

		out := make([]appointmentResponse, len(list))
		for i := range list {
			out[i] = toDetailResponse(&list[i])
		}
		writeData(w, http.StatusOK, out)
	}
}

func getAppointmentHandler(svc *booking.Service, logger zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity, ok := IdentityFrom(r.Context())
		if !ok {
			writeInternal(w)
			return
		}

		id, err := uuid.Parse(chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, http.StatusBadRequest, "id must be a valid UUID")
			return
		}

		detail, err := svc.Get(r.Context(), id, actorFrom(identity))
		if err != nil {
			handleBookingError(w, err, logger)
			return
		}
		writeData(w, http.StatusOK, toDetailResponse(detail))
	}
}

type transitionRequest struct {
	Notes string `json:"notes"`
}

func cancelAppointmentHandler(svc *booking.Service, logger zerolog.Logger) http.HandlerFunc {
	return transitionHandler(svc.Cancel, logger)
}

func completeAppointmentHandler(svc *booking.Service, logger zerolog.Logger) http.HandlerFunc {
	return transitionHandler(svc.Complete, logger)
}

type transitionFunc func(ctx context.Context, id uuid.UUID, actor booking.Actor, notes string) (*booking.Appointment, error)

func transitionHandler(fn transitionFunc, logger zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity, ok := IdentityFrom(r.Context())
		if !ok {
			writeInternal(w)
			return
		}

		id, err := uuid.Parse(chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, http.StatusBadRequest, "id must be a valid UUID")
			return
		}

		// body is optional on transitions
		var req transitionRequest
		if r.Body != nil {
			_ = json.NewDecoder(r.Body).Decode(&req)
		}

		appt, err := fn(r.Context(), id, actorFrom(identity), req.Notes)
		if err != nil {
			handleBookingError(w, err, logger)
			return
		}
		writeData(w, http.StatusOK, toAppointmentResponse(appt))
	}
}

func deleteAppointmentHandler(svc *booking.Service, logger zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity, ok := IdentityFrom(r.Context())
		if !ok {
			writeInternal(w)
			return
		}

		id, err := uuid.Parse(chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, http.StatusBadRequest, "id must be a valid UUID")
			return
		}

		if err := svc.Delete(r.Context(), id, actorFrom(identity)); err != nil {
			handleBookingError(w, err, logger)
			return
		}
		writeMessage(w, http.StatusOK, "appointment deleted")
	}
}

type eventResponse struct {
	ID            int64           `json:"id"`
	EventType     string          `json:"event_type"`
	AppointmentID string          `json:"appointment_id,omitempty"`
	Payload       json.RawMessage `json:"payload,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
}

func listEventsHandler(svc *booking.Service, logger zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, offset := pageParams(r)
		events, err := svc.ListEvents(r.Context(), limit, offset)
		if err != nil {
			handleBookingError(w, err, logger)
			return
		}

		out := make([]eventResponse, len(events))
		for i, ev := range events {
			out[i] = eventResponse{
				ID:        ev.ID,
				EventType: ev.EventType,
				Payload:   ev.Payload,
				CreatedAt: ev.CreatedAt,
			}
			if ev.AppointmentID != nil {
				out[i].AppointmentID = ev.AppointmentID.String()
			}
		}
		writeData(w, http.StatusOK, out)
	}
}

func actorFrom(identity Identity) booking.Actor {
	return booking.Actor{UserID: identity.UserID, Role: identity.Role}
}

func handleBookingError(w http.ResponseWriter, err error, logger zerolog.Logger) {
	switch {
	case errors.Is(err, booking.ErrDoctorNotFound):
		writeError(w, http.StatusNotFound, "doctor not found")
	case errors.Is(err, booking.ErrPatientNotFound):
		writeError(w, http.StatusNotFound, "patient not found")
	case errors.Is(err, booking.ErrAppointmentNotFound):
		writeError(w, http.StatusNotFound, "appointment not found")
	case errors.Is(err, booking.ErrPastDate):
		writeError(w, http.StatusBadRequest, "appointment time must be in the future")
	case errors.Is(err, booking.ErrOutsideWorkingHours):
		writeError(w, http.StatusBadRequest, "appointment time is outside the doctor's working hours")
	case errors.Is(err, booking.ErrDoctorSlotTaken):
		writeError(w, http.StatusBadRequest, "doctor already has an appointment at this time")
	case errors.Is(err, booking.ErrPatientSlotTaken):
		writeError(w, http.StatusBadRequest, "you already have an appointment at this time")
	case errors.Is(err, booking.ErrSlotBusy):
		writeError(w, http.StatusBadRequest, "slot is currently being booked, please retry")
	case errors.Is(err, booking.ErrAlreadyTerminal):
		writeError(w, http.StatusBadRequest, "appointment is already completed or cancelled")
	case errors.Is(err, booking.ErrNotAllowed):
		writeError(w, http.StatusForbidden, "not allowed to modify this appointment")
	default:
		logger.Error().Err(err).Msg("booking operation")
		writeInternal(w)
	}
}
