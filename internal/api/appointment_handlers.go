package api

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/hackgods/hospital-appointments/internal/appointment"
	"github.com/hackgods/hospital-appointments/internal/calendar"
	"github.com/hackgods/hospital-appointments/internal/directory"
)

func listAppointmentsHandler(svc *appointment.Service, dir *directory.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()

		var appts []appointment.Appointment
		switch {
		case queryBool(q.Get("today")):
			appts = svc.Today()
		case q.Get("date") != "":
			date, err := calendar.ParseDate(q.Get("date"))
			if err != nil {
				writeError(w, http.StatusBadRequest, "invalid_date", "date must look like 2006-01-02")
				return
			}
			appts = svc.OnDate(date)
		default:
			appts = svc.Appointments()
		}

		if raw := q.Get("status"); raw != "" {
			status := appointment.AppointmentStatus(raw)
			if !status.Valid() {
				writeError(w, http.StatusBadRequest, "invalid_status", "status must be scheduled, attended or cancelled")
				return
			}
			appts = filterStatus(appts, status)
		}

		writeJSON(w, http.StatusOK, toAppointmentResponses(appts, dir))
	}
}

func nextAppointmentIDHandler(svc *appointment.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, NextIDResponse{ID: svc.GenerateID()})
	}
}

func getAppointmentHandler(svc *appointment.Service, dir *directory.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		appt, err := svc.FindAppointment(chi.URLParam(r, "id"))
		if err != nil {
			handleError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, toAppointmentResponse(*appt, dir))
	}
}

func createAppointmentHandler(svc *appointment.Service, dir *directory.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req AppointmentRequest
		if !decodeJSON(w, r, &req) {
			return
		}

		in, err := appointmentInput(dir, req)
		if err != nil {
			handleError(w, r, err)
			return
		}

		appt, err := svc.CreateAppointment(r.Context(), in)
		if err != nil {
			handleError(w, r, err)
			return
		}

		writeJSON(w, http.StatusCreated, toAppointmentResponse(*appt, dir))
	}
}

func updateAppointmentHandler(svc *appointment.Service, dir *directory.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req AppointmentRequest
		if !decodeJSON(w, r, &req) {
			return
		}

		in, err := appointmentInput(dir, req)
		if err != nil {
			handleError(w, r, err)
			return
		}

		appt, err := svc.UpdateAppointment(r.Context(), chi.URLParam(r, "id"), in)
		if err != nil {
			handleError(w, r, err)
			return
		}

		writeJSON(w, http.StatusOK, toAppointmentResponse(*appt, dir))
	}
}

func deleteAppointmentHandler(svc *appointment.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := svc.DeleteAppointment(r.Context(), chi.URLParam(r, "id")); err != nil {
			handleError(w, r, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func attendAppointmentHandler(svc *appointment.Service, dir *directory.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		appt, err := svc.Attend(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			handleError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, toAppointmentResponse(*appt, dir))
	}
}

func cancelAppointmentHandler(svc *appointment.Service, dir *directory.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		appt, err := svc.Cancel(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			handleError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, toAppointmentResponse(*appt, dir))
	}
}

func diagnosisHandler(svc *appointment.Service, dir *directory.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req DiagnosisRequest
		if !decodeJSON(w, r, &req) {
			return
		}

		appt, err := svc.AddDiagnosis(r.Context(), chi.URLParam(r, "id"), req.Diagnosis, req.Notes)
		if err != nil {
			handleError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, toAppointmentResponse(*appt, dir))
	}
}

// appointmentInput resolves the patient and doctor ids of req. Empty ids
// stay nil so the service reports the missing field.
func appointmentInput(dir *directory.Store, req AppointmentRequest) (appointment.Input, error) {
	in := appointment.Input{
		ID:     req.ID,
		Date:   req.Date,
		Time:   req.Time,
		Price:  req.Price,
		Reason: req.Reason,
	}

	if req.PatientID != "" {
		p, err := dir.FindPerson(req.PatientID)
		if err != nil {
			return in, err
		}
		in.Patient = &p
	}
	if req.DoctorID != "" {
		d, err := dir.FindPerson(req.DoctorID)
		if err != nil {
			return in, err
		}
		in.Doctor = &d
	}
	if req.Specialty != "" {
		sp, err := directory.ParseSpecialty(req.Specialty)
		if err != nil {
			return in, err
		}
		in.Specialty = sp
	}
	return in, nil
}

func filterStatus(appts []appointment.Appointment, status appointment.AppointmentStatus) []appointment.Appointment {
	out := appts[:0]
	for _, a := range appts {
		if a.Status == status {
			out = append(out, a)
		}
	}
	return out
}

func queryBool(v string) bool {
	b, err := strconv.ParseBool(v)
	return err == nil && b
}
