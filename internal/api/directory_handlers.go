package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/carebook/medical-directory-api/internal/directory"
)

type doctorResponse struct {
	ID             string    `json:"id"`
	UserID         string    `json:"user_id,omitempty"`
	Name           string    `json:"name"`
	Specialization string    `json:"specialization,omitempty"`
	HospitalID     string    `json:"hospital_id,omitempty"`
	OpenHour       int       `json:"open_hour"`
	CloseHour      int       `json:"close_hour"`
	Active         bool      `json:"active"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

func toDoctorResponse(d *directory.Doctor) doctorResponse {
	out := doctorResponse{
		ID:             d.ID.String(),
		Name:           d.Name,
		Specialization: d.Specialization,
		OpenHour:       d.OpenHour,
		CloseHour:      d.CloseHour,
		Active:         d.Active,
		CreatedAt:      d.CreatedAt,
		UpdatedAt:      d.UpdatedAt,
	}
	if d.UserID != nil {
		out.UserID = d.UserID.String()
	}
	if d.HospitalID != nil {
		out.HospitalID = d.HospitalID.String()
	}
	return out
}

type doctorRequest struct {
	UserID         string `json:"user_id"`
	Name           string `json:"name"`
	Specialization string `json:"specialization"`
	HospitalID     string `json:"hospital_id"`
	OpenHour       int    `json:"open_hour"`
	CloseHour      int    `json:"close_hour"`
	Active         *bool  `json:"active"`
}

func (req doctorRequest) toInput() (directory.DoctorInput, error) {
	userID, err := optionalUUID(req.UserID)
	if err != nil {
		return directory.DoctorInput{}, errors.New("user_id must be a valid UUID")
	}
	hospitalID, err := optionalUUID(req.HospitalID)
	if err != nil {
		return directory.DoctorInput{}, errors.New("hospital_id must be a valid UUID")
	}
	return directory.DoctorInput{
		UserID:         userID,
		Name:           req.Name,
		Specialization: req.Specialization,
		HospitalID:     hospitalID,
		OpenHour:       req.OpenHour,
		CloseHour:      req.CloseHour,
	}, nil
}

func createDoctorHandler(svc *directory.Service, logger zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req doctorRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "could not parse JSON body")
			return
		}
		in, err := req.toInput()
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		doc, err := svc.CreateDoctor(r.Context(), in)
		if err != nil {
			handleDirectoryError(w, err, logger)
			return
		}
		writeData(w, http.StatusCreated, toDoctorResponse(doc))
	}
}

func getDoctorHandler(svc *directory.Service, logger zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := uuid.Parse(chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, http.StatusBadRequest, "id must be a valid UUID")
			return
		}
		doc, err := svc.GetDoctor(r.Context(), id)
		if err != nil {
			handleDirectoryError(w, err, logger)
			return
		}
		writeData(w, http.StatusOK, toDoctorResponse(doc))
	}
}

func updateDoctorHandler(svc *directory.Service, logger zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := uuid.Parse(chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, http.StatusBadRequest, "id must be a valid UUID")
			return
		}
		var req doctorRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "could not parse JSON body")
			return
		}
		in, err := req.toInput()
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		active := true
		if req.Active != nil {
			active = *req.Active
		}
		doc, err := svc.UpdateDoctor(r.Context(), id, in, active)
		if err != nil {
			handleDirectoryError(w, err, logger)
			return
		}
		writeData(w, http.StatusOK, toDoctorResponse(doc))
	}
}

func deleteDoctorHandler(svc *directory.Service, logger zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := uuid.Parse(chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, http.StatusBadRequest, "id must be a valid UUID")
			return
		}
		if err := svc.RemoveDoctor(r.Context(), id); err != nil {
			handleDirectoryError(w, err, logger)
			return
		}
		writeMessage(w, http.StatusOK, "doctor removed")
	}
}

func listDoctorsHandler(svc *directory.Service, logger zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, offset := pageParams(r)
		list, err := svc.ListDoctors(r.Context(), r.URL.Query().Get("specialization"), limit, offset)
		if err != nil {
			handleDirectoryError(w, err, logger)
			return
		}
		out := make([]doctorResponse, len(list))
		for i := range list {
			out[i] = toDoctorResponse(&list[i])
		}
		writeData(w, http.StatusOK, out)
	}
}

type hospitalResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Address   string    `json:"address,omitempty"`
	Phone     string    `json:"phone,omitempty"`
	Email     string    `json:"email,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func toHospitalResponse(h *directory.Hospital) hospitalResponse {
	return hospitalResponse{
		ID:        h.ID.String(),
		Name:      h.Name,
		Address:   h.Address,
		Phone:     h.Phone,
		Email:     h.Email,
		CreatedAt: h.CreatedAt,
		UpdatedAt: h.UpdatedAt,
	}
}

type hospitalRequest struct {
	Name    string `json:"name"`
	Address string `json:"address"`
	Phone   string `json:"phone"`
	Email   string `json:"email"`
}

func (req hospitalRequest) toInput() directory.HospitalInput {
	return directory.HospitalInput{
		Name:    req.Name,
		Address: req.Address,
		Phone:   req.Phone,
		Email:   req.Email,
	}
}

func createHospitalHandler(svc *directory.Service, logger zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req hospitalRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "could not parse JSON body")
			return
		}
		h, err := svc.CreateHospital(r.Context(), req.toInput())
		if err != nil {
			handleDirectoryError(w, err, logger)
			return
		}
		writeData(w, http.StatusCreated, toHospitalResponse(h))
	}
}

func getHospitalHandler(svc *directory.Service, logger zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := uuid.Parse(chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, http.StatusBadRequest, "id must be a valid UUID")
			return
		}
		h, err := svc.GetHospital(r.Context(), id)
		if err != nil {
			handleDirectoryError(w, err, logger)
			return
		}
		writeData(w, http.StatusOK, toHospitalResponse(h))
	}
}

func updateHospitalHandler(svc *directory.Service, logger zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := uuid.Parse(chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, http.StatusBadRequest, "id must be a valid UUID")
			return
		}
		var req hospitalRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "could not parse JSON body")
			return
		}
		h, err := svc.UpdateHospital(r.Context(), id, req.toInput())
		if err != nil {
			handleDirectoryError(w, err, logger)
			return
		}
		writeData(w, http.StatusOK, toHospitalResponse(h))
	}
}

func deleteHospitalHandler(svc *directory.Service, logger zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := uuid.Parse(chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, http.StatusBadRequest, "id must be a valid UUID")
			return
		}
		if err := svc.DeleteHospital(r.Context(), id); err != nil {
			handleDirectoryError(w, err, logger)
			return
		}
		writeMessage(w, http.StatusOK, "hospital deleted")
	}
}

func listHospitalsHandler(svc *directory.Service, logger zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, offset := pageParams(r)
		list, err := svc.ListHospitals(r.Context(), limit, offset)
		if err != nil {
			handleDirectoryError(w, err, logger)
			return
		}
		out := make([]hospitalResponse, len(list))
		for i := range list {
			out[i] = toHospitalResponse(&list[i])
		}
		writeData(w, http.StatusOK, out)
	}
}

type clinicResponse struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Address    string    `json:"address,omitempty"`
	Phone      string    `json:"phone,omitempty"`
	HospitalID string    `json:"hospital_id,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func toClinicResponse(c *directory.Clinic) clinicResponse {
	out := clinicResponse{
		ID:        c.ID.String(),
		Name:      c.Name,
		Address:   c.Address,
		Phone:     c.Phone,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
	if c.HospitalID != nil {
		out.HospitalID = c.HospitalID.String()
	}
	return out
}

type clinicRequest struct {
	Name       string `json:"name"`
	Address    string `json:"address"`
	Phone      string `json:"phone"`
	HospitalID string `json:"hospital_id"`
}

func (req clinicRequest) toInput() (directory.ClinicInput, error) {
	hospitalID, err := optionalUUID(req.HospitalID)
	if err != nil {
		return directory.ClinicInput{}, errors.New("hospital_id must be a valid UUID")
	}
	return directory.ClinicInput{
		Name:       req.Name,
		Address:    req.Address,
		Phone:      req.Phone,
		HospitalID: hospitalID,
	}, nil
}

func createClinicHandler(svc *directory.Service, logger zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req clinicRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "could not parse JSON body")
			return
		}
		in, err := req.toInput()
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		c, err := svc.CreateClinic(r.Context(), in)
		if err != nil {
			handleDirectoryError(w, err, logger)
			return
		}
		writeData(w, http.StatusCreated, toClinicResponse(c))
	}
}

func getClinicHandler(svc *directory.Service, logger zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := uuid.Parse(chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, http.StatusBadRequest, "id must be a valid UUID")
			return
		}
		c, err := svc.GetClinic(r.Context(), id)
		if err != nil {
			handleDirectoryError(w, err, logger)
			return
		}
		writeData(w, http.StatusOK, toClinicResponse(c))
	}
}

func updateClinicHandler(svc *directory.Service, logger zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := uuid.Parse(chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, http.StatusBadRequest, "id must be a valid UUID")
			return
		}
		var req clinicRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "could not parse JSON body")
			return
		}
		in, err := req.toInput()
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		c, err := svc.UpdateClinic(r.Context(), id, in)
		if err != nil {
			handleDirectoryError(w, err, logger)
			return
		}
		writeData(w, http.StatusOK, toClinicResponse(c))
	}
}

func deleteClinicHandler(svc *directory.Service, logger zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := uuid.Parse(chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, http.StatusBadRequest, "id must be a valid UUID")
			return
		}
		if err := svc.DeleteClinic(r.Context(), id); err != nil {
			handleDirectoryError(w, err, logger)
			return
		}
		writeMessage(w, http.StatusOK, "clinic deleted")
	}
}

func listClinicsHandler(svc *directory.Service, logger zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, offset := pageParams(r)
		list, err := svc.ListClinics(r.Context(), limit, offset)
		if err != nil {
			handleDirectoryError(w, err, logger)
			return
		}
		out := make([]clinicResponse, len(list))
		for i := range list {
			out[i] = toClinicResponse(&list[i])
		}
		writeData(w, http.StatusOK, out)
	}
}

type pharmacyResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Address   string    `json:"address,omitempty"`
	Phone     string    `json:"phone,omitempty"`
	OpenHour  int       `json:"open_hour"`
	CloseHour int       `json:"close_hour"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func toPharmacyResponse(p *directory.Pharmacy) pharmacyResponse {
	return pharmacyResponse{
		ID:        p.ID.String(),
		Name:      p.Name,
		Address:   p.Address,
		Phone:     p.Phone,
		OpenHour:  p.OpenHour,
		CloseHour: p.CloseHour,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

type pharmacyRequest struct {
	Name      string `json:"name"`
	Address   string `json:"address"`
	Phone     string `json:"phone"`
	OpenHour  int    `json:"open_hour"`
	CloseHour int    `json:"close_hour"`
}

func (req pharmacyRequest) toInput() directory.PharmacyInput {
	return directory.PharmacyInput{
		Name:      req.Name,
		Address:   req.Address,
		Phone:     req.Phone,
		OpenHour:  req.OpenHour,
		CloseHour: req.CloseHour,
	}
}

func createPharmacyHandler(svc *directory.Service, logger zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req pharmacyRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "could not parse JSON body")
			return
		}
		p, err := svc.CreatePharmacy(r.Context(), req.toInput())
		if err != nil {
			handleDirectoryError(w, err, logger)
			return
		}
		writeData(w, http.StatusCreated, toPharmacyResponse(p))
	}
}

func getPharmacyHandler(svc *directory.Service, logger zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := uuid.Parse(chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, http.StatusBadRequest, "id must be a valid UUID")
			return
		}
		p, err := svc.GetPharmacy(r.Context(), id)
		if err != nil {
			handleDirectoryError(w, err, logger)
			return
		}
		writeData(w, http.StatusOK, toPharmacyResponse(p))
	}
}

func updatePharmacyHandler(svc *directory.Service, logger zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := uuid.Parse(chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, http.StatusBadRequest, "id must be a valid UUID")
			return
		}
		var req pharmacyRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "could not parse JSON body")
			return
		}
		p, err := svc.UpdatePharmacy(r.Context(), id, req.toInput())
		if err != nil {
			handleDirectoryError(w, err, logger)
			return
		}
		writeData(w, http.StatusOK, toPharmacyResponse(p))
	}
}

func deletePharmacyHandler(svc *directory.Service, logger zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := uuid.Parse(chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, http.StatusBadRequest, "id must be a valid UUID")
			return
		}
		if err := svc.DeletePharmacy(r.Context(), id); err != nil {
			handleDirectoryError(w, err, logger)
			return
		}
		writeMessage(w, http.StatusOK, "pharmacy deleted")
	}
}

func listPharmaciesHandler(svc *directory.Service, logger zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, offset := pageParams(r)
		list, err := svc.ListPharmacies(r.Context(), limit, offset)
		if err != nil {
			handleDirectoryError(w, err, logger)
			return
		}
		out := make([]pharmacyResponse, len(list))
		for i := range list {
			out[i] = toPharmacyResponse(&list[i])
		}
		writeData(w, http.StatusOK, out)
	}
}

type labResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Address   string    `json:"address,omitempty"`
	Phone     string    `json:"phone,omitempty"`
	Services  string    `json:"services,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func toLabResponse(l *directory.Lab) labResponse {
	return labResponse{
		ID:        l.ID.String(),
		Name:      l.Name,
		Address:   l.Address,
		Phone:     l.Phone,
		Services:  l.Services,
		CreatedAt: l.CreatedAt,
		UpdatedAt: l.UpdatedAt,
	}
}

type labRequest struct {
	Name     string `json:"name"`
	Address  string `json:"address"`
	Phone    string `json:"phone"`
	Services string `json:"services"`
}

func (req labRequest) toInput() directory.LabInput {
	return directory.LabInput{
		Name:     req.Name,
		Address:  req.Address,
		Phone:    req.Phone,
		Services: req.Services,
	}
}

func createLabHandler(svc *directory.Service, logger zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req labRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "could not parse JSON body")
			return
		}
		l, err := svc.CreateLab(r.Context(), req.toInput())
		if err != nil {
			handleDirectoryError(w, err, logger)
			return
		}
		writeData(w, http.StatusCreated, toLabResponse(l))
	}
}

func getLabHandler(svc *directory.Service, logger zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := uuid.Parse(chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, http.StatusBadRequest, "id must be a valid UUID")
			return
		}
		l, err := svc.GetLab(r.Context(), id)
		if err != nil {
			handleDirectoryError(w, err, logger)
			return
		}
		writeData(w, http.StatusOK, toLabResponse(l))
	}
}

func updateLabHandler(svc *directory.Service, logger zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := uuid.Parse(chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, http.StatusBadRequest, "id must be a valid UUID")
			return
		}
		var req labRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "could not parse JSON body")
			return
		}
		l, err := svc.UpdateLab(r.Context(), id, req.toInput())
		if err != nil {
			handleDirectoryError(w, err, logger)
			return
		}
		writeData(w, http.StatusOK, toLabResponse(l))
	}
}

func deleteLabHandler(svc *directory.Service, logger zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := uuid.Parse(chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, http.StatusBadRequest, "id must be a valid UUID")
			return
		}
		if err := svc.DeleteLab(r.Context(), id); err != nil {
			handleDirectoryError(w, err, logger)
			return
		}
		writeMessage(w, http.StatusOK, "lab deleted")
	}
}

func listLabsHandler(svc *directory.Service, logger zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, offset := pageParams(r)
		list, err := svc.ListLabs(r.Context(), limit, offset)
		if err != nil {
			handleDirectoryError(w, err, logger)
			return
		}
		out := make([]labResponse, len(list))
		for i := range list {
			out[i] = toLabResponse(&list[i])
		}
		writeData(w, http.StatusOK, out)
	}
}

type ambulanceResponse struct {
	ID            string    `json:"id"`
	VehicleNumber string    `json:"vehicle_number"`
	Phone         string    `json:"phone,omitempty"`
	HospitalID    string    `json:"hospital_id,omitempty"`
	Available     bool      `json:"available"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func toAmbulanceResponse(a *directory.Ambulance) ambulanceResponse {
	out := ambulanceResponse{
		ID:            a.ID.String(),
		VehicleNumber: a.VehicleNumber,
		Phone:         a.Phone,
		Available:     a.Available,
		CreatedAt:     a.CreatedAt,
		UpdatedAt:     a.UpdatedAt,
	}
	if a.HospitalID != nil {
		out.HospitalID = a.HospitalID.String()
	}
	return out
}

type ambulanceRequest struct {
	VehicleNumber string `json:"vehicle_number"`
	Phone         string `json:"phone"`
	HospitalID    string `json:"hospital_id"`
	Available     *bool  `json:"available"`
}

func (req ambulanceRequest) toInput() (directory.AmbulanceInput, error) {
	hospitalID, err := optionalUUID(req.HospitalID)
	if err != nil {
		return directory.AmbulanceInput{}, errors.New("hospital_id must be a valid UUID")
	}
	available := true
	if req.Available != nil {
		available = *req.Available
	}
	return directory.AmbulanceInput{
		VehicleNumber: req.VehicleNumber,
		Phone:         req.Phone,
		HospitalID:    hospitalID,
		Available:     available,
	}, nil
}

func createAmbulanceHandler(svc *directory.Service, logger zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req ambulanceRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "could not parse JSON body")
			return
		}
		in, err := req.toInput()
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		a, err := svc.CreateAmbulance(r.Context(), in)
		if err != nil {
			handleDirectoryError(w, err, logger)
			return
		}
		writeData(w, http.StatusCreated, toAmbulanceResponse(a))
	}
}

func getAmbulanceHandler(svc *directory.Service, logger zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := uuid.Parse(chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, http.StatusBadRequest, "id must be a valid UUID")
			return
		}
		a, err := svc.GetAmbulance(r.Context(), id)
		if err != nil {
			handleDirectoryError(w, err, logger)
			return
		}
		writeData(w, http.StatusOK, toAmbulanceResponse(a))
	}
}

func updateAmbulanceHandler(svc *directory.Service, logger zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := uuid.Parse(chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, http.StatusBadRequest, "id must be a valid UUID")
			return
		}
		var req ambulanceRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "could not parse JSON body")
			return
		}
		in, err := req.toInput()
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		a, err := svc.UpdateAmbulance(r.Context(), id, in)
		if err != nil {
			handleDirectoryError(w, err, logger)
			return
		}
		writeData(w, http.StatusOK, toAmbulanceResponse(a))
	}
}

func deleteAmbulanceHandler(svc *directory.Service, logger zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := uuid.Parse(chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, http.StatusBadRequest, "id must be a valid UUID")
			return
		}
		if err := svc.DeleteAmbulance(r.Context(), id); err != nil {
			handleDirectoryError(w, err, logger)
			return
		}
		writeMessage(w, http.StatusOK, "ambulance deleted")
	}
}

func listAmbulancesHandler(svc *directory.Service, logger zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, offset := pageParams(r)
		list, err := svc.ListAmbulances(r.Context(), limit, offset)
		if err != nil {
			handleDirectoryError(w, err, logger)
			return
		}
		out := make([]ambulanceResponse, len(list))
		for i := range list {
			out[i] = toAmbulanceResponse(&list[i])
		}
		writeData(w, http.StatusOK, out)
	}
}

func handleDirectoryError(w http.ResponseWriter, err error, logger zerolog.Logger) {
	switch {
	case errors.Is(err, directory.ErrInvalidInput):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, directory.ErrNotFound):
		writeError(w, http.StatusNotFound, "not found")
	default:
		logger.Error().Err(err).Msg("directory operation")
		writeInternal(w)
	}
}
