package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/hackgods/hospital-appointments/internal/appointment"
	"github.com/hackgods/hospital-appointments/internal/calendar"
	"github.com/hackgods/hospital-appointments/internal/directory"
	"github.com/hackgods/hospital-appointments/internal/people"
)

func listSpecialtiesHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		all := directory.Specialties()
		out := make([]SpecialtyResponse, 0, len(all))
		for _, sp := range all {
			out = append(out, SpecialtyResponse{Code: string(sp), Name: sp.DisplayName()})
		}
		writeJSON(w, http.StatusOK, out)
	}
}

// listDoctorsHandler lists every doctor, or with ?specialty= only the
// available doctors of that specialty.
func listDoctorsHandler(svc *appointment.Service, clock calendar.Clock) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		doctors := svc.Doctors()
		if raw := r.URL.Query().Get("specialty"); raw != "" {
			sp, err := directory.ParseSpecialty(raw)
			if err != nil {
				writeError(w, http.StatusBadRequest, "invalid_specialty", err.Error())
				return
			}
			doctors = svc.DoctorsBySpecialty(sp)
		}
		writeJSON(w, http.StatusOK, toPersonResponses(doctors, calendar.Today(clock)))
	}
}

func listPatientsHandler(svc *appointment.Service, clock calendar.Clock) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, toPersonResponses(svc.Patients(), calendar.Today(clock)))
	}
}

func getPersonHandler(dir *directory.Store, clock calendar.Clock, kind directory.Kind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, ok := findKind(w, r, dir, chi.URLParam(r, "id"), kind)
		if !ok {
			return
		}
		writeJSON(w, http.StatusOK, toPersonResponse(p, calendar.Today(clock)))
	}
}

func doctorAppointmentsHandler(svc *appointment.Service, dir *directory.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		d, ok := findKind(w, r, dir, chi.URLParam(r, "id"), directory.KindDoctor)
		if !ok {
			return
		}

		appts := svc.ByDoctor(d.ID)
		if queryBool(r.URL.Query().Get("upcoming")) {
			appts = svc.UpcomingForDoctor(d.ID)
		}
		writeJSON(w, http.StatusOK, toAppointmentResponses(appts, dir))
	}
}

func doctorStatsHandler(svc *appointment.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, svc.DoctorStats(chi.URLParam(r, "id")))
	}
}

func patientAppointmentsHandler(svc *appointment.Service, dir *directory.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, ok := findKind(w, r, dir, chi.URLParam(r, "id"), directory.KindPatient)
		if !ok {
			return
		}
		writeJSON(w, http.StatusOK, toAppointmentResponses(svc.ByPatient(p.ID), dir))
	}
}

func registerDoctorHandler(svc *people.Service, clock calendar.Clock) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req DoctorRequest
		if !decodeJSON(w, r, &req) {
			return
		}

		d, creds, err := svc.RegisterDoctor(r.Context(), req.input())
		if err != nil {
			handleError(w, r, err)
			return
		}

		writeJSON(w, http.StatusCreated, RegisteredDoctorResponse{
			Doctor:      toPersonResponse(d, calendar.Today(clock)),
			Credentials: creds,
		})
	}
}

func selfRegisterDoctorHandler(svc *people.Service, clock calendar.Clock) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req DoctorSignupRequest
		if !decodeJSON(w, r, &req) {
			return
		}

		d, err := svc.SelfRegisterDoctor(r.Context(), req.input(), people.Credentials{
			Username: req.Username,
			Password: req.Password,
		})
		if err != nil {
			handleError(w, r, err)
			return
		}

		writeJSON(w, http.StatusCreated, toPersonResponse(d, calendar.Today(clock)))
	}
}

func updateDoctorHandler(svc *people.Service, clock calendar.Clock) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req DoctorRequest
		if !decodeJSON(w, r, &req) {
			return
		}

		d, err := svc.UpdateDoctor(r.Context(), chi.URLParam(r, "id"), req.input())
		if err != nil {
			handleError(w, r, err)
			return
		}

		writeJSON(w, http.StatusOK, toPersonResponse(d, calendar.Today(clock)))
	}
}

func deleteDoctorHandler(svc *people.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := svc.DeleteDoctor(r.Context(), chi.URLParam(r, "id")); err != nil {
			handleError(w, r, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func registerPatientHandler(svc *people.Service, clock calendar.Clock) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req PatientRequest
		if !decodeJSON(w, r, &req) {
			return
		}

		p, err := svc.RegisterPatient(r.Context(), req.input())
		if err != nil {
			handleError(w, r, err)
			return
		}

		writeJSON(w, http.StatusCreated, toPersonResponse(p, calendar.Today(clock)))
	}
}

func updatePatientHandler(svc *people.Service, clock calendar.Clock) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req PatientRequest
		if !decodeJSON(w, r, &req) {
			return
		}

		p, err := svc.UpdatePatient(r.Context(), chi.URLParam(r, "id"), req.input())
		if err != nil {
			handleError(w, r, err)
			return
		}

		writeJSON(w, http.StatusOK, toPersonResponse(p, calendar.Today(clock)))
	}
}

func deletePatientHandler(svc *people.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := svc.DeletePatient(r.Context(), chi.URLParam(r, "id")); err != nil {
			handleError(w, r, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// findKind writes a 404 and reports false unless id names a person of kind.
func findKind(w http.ResponseWriter, r *http.Request, dir *directory.Store, id string, kind directory.Kind) (directory.Person, bool) {
	p, err := dir.FindPerson(id)
	if err != nil {
		handleError(w, r, err)
		return directory.Person{}, false
	}
	if p.Kind != kind {
		writeError(w, http.StatusNotFound, "person_not_found", "no "+string(kind)+" with id "+id)
		return directory.Person{}, false
	}
	return p, true
}
