package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/hackgods/hospital-appointments/internal/appointment"
	"github.com/hackgods/hospital-appointments/internal/calendar"
	"github.com/hackgods/hospital-appointments/internal/directory"
	"github.com/hackgods/hospital-appointments/internal/people"
	"github.com/hackgods/hospital-appointments/internal/session"
)

type RouterConfig struct {
	Appointments *appointment.Service
	People       *people.Service
	Directory    *directory.Store
	Sessions     *session.Manager
	Clock        calendar.Clock
	Logger       zerolog.Logger
	Redis        *redis.Client // nil when sessions live in memory
	Env          string
	Version      string
}

func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	// Apply middleware
	r.Use(RequestIDMiddleware)
	r.Use(LoggingMiddleware(cfg.Logger))
	r.Use(middleware.Recoverer)

	// Health endpoints
	health := NewHealthHandler(cfg.Redis, cfg.Env, cfg.Version)
	r.Get("/health/live", health.Liveness)
	r.Get("/health/ready", health.Readiness)

	// Public endpoints
	r.Post("/auth/login", loginHandler(cfg.Sessions))
	r.Post("/register/doctor", selfRegisterDoctorHandler(cfg.People, cfg.Clock))
	r.Get("/specialties", listSpecialtiesHandler())

	r.Group(func(r chi.Router) {
		r.Use(RequireSession(cfg.Sessions))

		r.Post("/auth/logout", logoutHandler(cfg.Sessions))
		r.Get("/auth/me", meHandler(cfg.Directory, cfg.Clock))

		// People
		r.Get("/doctors", listDoctorsHandler(cfg.Appointments, cfg.Clock))
		r.Get("/doctors/{id}", getPersonHandler(cfg.Directory, cfg.Clock, directory.KindDoctor))
		r.Get("/doctors/{id}/appointments", doctorAppointmentsHandler(cfg.Appointments, cfg.Directory))
		r.Get("/doctors/{id}/stats", doctorStatsHandler(cfg.Appointments))
		r.Get("/patients", listPatientsHandler(cfg.Appointments, cfg.Clock))
		r.Get("/patients/{id}", getPersonHandler(cfg.Directory, cfg.Clock, directory.KindPatient))
		r.Get("/patients/{id}/appointments", patientAppointmentsHandler(cfg.Appointments, cfg.Directory))

		r.Group(func(r chi.Router) {
			r.Use(RequireKind(directory.KindAdmin))

			r.Post("/doctors", registerDoctorHandler(cfg.People, cfg.Clock))
			r.Put("/doctors/{id}", updateDoctorHandler(cfg.People, cfg.Clock))
			r.Delete("/doctors/{id}", deleteDoctorHandler(cfg.People))
			r.Post("/patients", registerPatientHandler(cfg.People, cfg.Clock))
			r.Put("/patients/{id}", updatePatientHandler(cfg.People, cfg.Clock))
			r.Delete("/patients/{id}", deletePatientHandler(cfg.People))
		})

		// Appointment endpoints
		r.Get("/appointments", listAppointmentsHandler(cfg.Appointments, cfg.Directory))
		r.Get("/appointments/next-id", nextAppointmentIDHandler(cfg.Appointments))
		r.Get("/appointments/{id}", getAppointmentHandler(cfg.Appointments, cfg.Directory))

		r.Group(func(r chi.Router) {
			r.Use(RequireKind(directory.KindAdmin, directory.KindDoctor))

			r.Post("/appointments", createAppointmentHandler(cfg.Appointments, cfg.Directory))
			r.Put("/appointments/{id}", updateAppointmentHandler(cfg.Appointments, cfg.Directory))
			r.Delete("/appointments/{id}", deleteAppointmentHandler(cfg.Appointments))
			r.Post("/appointments/{id}/attend", attendAppointmentHandler(cfg.Appointments, cfg.Directory))
			r.Post("/appointments/{id}/cancel", cancelAppointmentHandler(cfg.Appointments, cfg.Directory))
			r.Post("/appointments/{id}/diagnosis", diagnosisHandler(cfg.Appointments, cfg.Directory))
		})
	})

	return r
}
