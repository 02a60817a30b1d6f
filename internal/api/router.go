package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/carebook/medical-directory-api/internal/booking"
	"github.com/carebook/medical-directory-api/internal/directory"
	"github.com/carebook/medical-directory-api/internal/user"
)

type RouterConfig struct {
	Users     *user.Service
	UserRepo  user.Repository
	Directory *directory.Service
	Booking   *booking.Service

	Pool  *pgxpool.Pool
	Redis *redis.Client

	JWTSecret string
	TokenTTL  time.Duration

	AuthRateRPS   float64
	AuthRateBurst int

	Logger  zerolog.Logger
	Env     string
	Version string
}

func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(RequestIDMiddleware)
	r.Use(LoggingMiddleware(cfg.Logger))

	r.Get("/health/live", livenessHandler(cfg.Env, cfg.Version))
	r.Get("/health/ready", readinessHandler(cfg.Pool, cfg.Redis))

	authLimiter := NewRateLimiter(cfg.AuthRateRPS, cfg.AuthRateBurst)
	authenticate := Authenticate(cfg.JWTSecret, cfg.UserRepo, cfg.Logger)
	adminOnly := RequireRole(user.RoleAdmin)

	r.Route("/api", func(r chi.Router) {
		// open routes, rate limited per client IP
		r.Group(func(r chi.Router) {
			r.Use(authLimiter.Middleware)
			r.Post("/auth/register", registerHandler(cfg.Users, cfg.JWTSecret, cfg.TokenTTL, cfg.Logger))
			r.Post("/auth/login", loginHandler(cfg.Users, cfg.JWTSecret, cfg.TokenTTL, cfg.Logger))
		})

		r.Group(func(r chi.Router) {
			r.Use(authenticate)

			r.Put("/auth/change-password", changePasswordHandler(cfg.Users, cfg.Logger))

			r.Route("/users", func(r chi.Router) {
				r.Get("/me", getProfileHandler(cfg.Users, cfg.Logger))
				r.Put("/me", updateProfileHandler(cfg.Users, cfg.Logger))
				r.With(adminOnly).Get("/", listUsersHandler(cfg.Users, cfg.Logger))
				r.With(adminOnly).Delete("/{id}", deleteUserHandler(cfg.Users, cfg.Logger))
			})

			r.Route("/appointments", func(r chi.Router) {
				r.Post("/", createAppointmentHandler(cfg.Booking, cfg.Logger))
				r.Get("/", listAppointmentsHandler(cfg.Booking, cfg.Directory, cfg.Logger))
				r.Get("/{id}", getAppointmentHandler(cfg.Booking, cfg.Logger))
				r.Post("/{id}/cancel", cancelAppointmentHandler(cfg.Booking, cfg.Logger))
				r.Post("/{id}/complete", completeAppointmentHandler(cfg.Booking, cfg.Logger))
				r.With(adminOnly).Delete("/{id}", deleteAppointmentHandler(cfg.Booking, cfg.Logger))
			})

			r.Route("/doctors", func(r chi.Router) {
				r.Get("/", listDoctorsHandler(cfg.Directory, cfg.Logger))
				r.Get("/{id}", getDoctorHandler(cfg.Directory, cfg.Logger))
				r.With(adminOnly).Post("/", createDoctorHandler(cfg.Directory, cfg.Logger))
				r.With(adminOnly).Put("/{id}", updateDoctorHandler(cfg.Directory, cfg.Logger))
				r.With(adminOnly).Delete("/{id}", deleteDoctorHandler(cfg.Directory, cfg.Logger))
			})

			r.Route("/hospitals", func(r chi.Router) {
				r.Get("/", listHospitalsHandler(cfg.Directory, cfg.Logger))
				r.Get("/{id}", getHospitalHandler(cfg.Directory, cfg.Logger))
				r.With(adminOnly).Post("/", createHospitalHandler(cfg.Directory, cfg.Logger))
				r.With(adminOnly).Put("/{id}", updateHospitalHandler(cfg.Directory, cfg.Logger))
				r.With(adminOnly).Delete("/{id}", deleteHospitalHandler(cfg.Directory, cfg.Logger))
			})

			r.Route("/clinics", func(r chi.Router) {
				r.Get("/", listClinicsHandler(cfg.Directory, cfg.Logger))
				r.Get("/{id}", getClinicHandler(cfg.Directory, cfg.Logger))
				r.With(adminOnly).Post("/", createClinicHandler(cfg.Directory, cfg.Logger))
				r.With(adminOnly).Put("/{id}", updateClinicHandler(cfg.Directory, cfg.Logger))
				r.With(adminOnly).Delete("/{id}", deleteClinicHandler(cfg.Directory, cfg.Logger))
			})

			r.Route("/pharmacies", func(r chi.Router) {
				r.Get("/", listPharmaciesHandler(cfg.Directory, cfg.Logger))
				r.Get("/{id}", getPharmacyHandler(cfg.Directory, cfg.Logger))
				r.With(adminOnly).Post("/", createPharmacyHandler(cfg.Directory, cfg.Logger))
				r.With(adminOnly).Put("/{id}", updatePharmacyHandler(cfg.Directory, cfg.Logger))
				r.With(adminOnly).Delete("/{id}", deletePharmacyHandler(cfg.Directory, cfg.Logger))
			})

			r.Route("/labs", func(r chi.Router) {
				r.Get("/", listLabsHandler(cfg.Directory, cfg.Logger))
				r.Get("/{id}", getLabHandler(cfg.Directory, cfg.Logger))
				r.With(adminOnly).Post("/", createLabHandler(cfg.Directory, cfg.Logger))
				r.With(adminOnly).Put("/{id}", updateLabHandler(cfg.Directory, cfg.Logger))
				r.With(adminOnly).Delete("/{id}", deleteLabHandler(cfg.Directory, cfg.Logger))
			})

			r.Route("/ambulances", func(r chi.Router) {
				r.Get("/", listAmbulancesHandler(cfg.Directory, cfg.Logger))
				r.Get("/{id}", getAmbulanceHandler(cfg.Directory, cfg.Logger))
				r.With(adminOnly).Post("/", createAmbulanceHandler(cfg.Directory, cfg.Logger))
				r.With(adminOnly).Put("/{id}", updateAmbulanceHandler(cfg.Directory, cfg.Logger))
				r.With(adminOnly).Delete("/{id}", deleteAmbulanceHandler(cfg.Directory, cfg.Logger))
			})

			r.With(adminOnly).Get("/events", listEventsHandler(cfg.Booking, cfg.Logger))
		})
	})

	return r
}
