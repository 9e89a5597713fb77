package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/hackgods/hospital-appointments/internal/appointment"
	"github.com/hackgods/hospital-appointments/internal/calendar"
	"github.com/hackgods/hospital-appointments/internal/directory"
	"github.com/hackgods/hospital-appointments/internal/lock"
	"github.com/hackgods/hospital-appointments/internal/people"
	"github.com/hackgods/hospital-appointments/internal/session"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, details string) {
	writeJSON(w, status, ErrorResponse{Error: code, Details: details})
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request_body", err.Error())
		return false
	}
	return true
}

var ruleStatus = map[appointment.Code]int{
	appointment.CodeNotFound:          http.StatusNotFound,
	appointment.CodeSlotTaken:         http.StatusConflict,
	appointment.CodeInvalidTransition: http.StatusConflict,
	appointment.CodeDuplicateID:       http.StatusConflict,
	appointment.CodeDoctorUnavailable: http.StatusConflict,
}

// handleError maps service errors onto HTTP responses.
func handleError(w http.ResponseWriter, r *http.Request, err error) {
	var rv *appointment.RuleViolation
	switch {
	case errors.As(err, &rv):
		status, ok := ruleStatus[rv.Code]
		if !ok {
			status = http.StatusUnprocessableEntity
		}
		writeError(w, status, string(rv.Code), rv.Message)
	case errors.Is(err, lock.ErrLockNotAcquired):
		writeError(w, http.StatusConflict, "slot_being_booked", "slot is currently being booked, please retry shortly")
	case errors.Is(err, directory.ErrPersonNotFound):
		writeError(w, http.StatusNotFound, "person_not_found", err.Error())
	case errors.Is(err, people.ErrWrongKind):
		writeError(w, http.StatusNotFound, "person_not_found", err.Error())
	case errors.Is(err, people.ErrValidation),
		errors.Is(err, directory.ErrUnknownSpecialty),
		errors.Is(err, calendar.ErrInvalidDate):
		writeError(w, http.StatusUnprocessableEntity, "validation_failed", err.Error())
	case errors.Is(err, people.ErrDuplicateDocument):
		writeError(w, http.StatusConflict, "duplicate_document", err.Error())
	case errors.Is(err, people.ErrUsernameTaken):
		writeError(w, http.StatusConflict, "username_taken", err.Error())
	case errors.Is(err, people.ErrDoctorHasBookings):
		writeError(w, http.StatusConflict, "doctor_has_appointments", err.Error())
	case errors.Is(err, directory.ErrInvalidCredentials):
		writeError(w, http.StatusUnauthorized, "invalid_credentials", err.Error())
	case errors.Is(err, session.ErrMissingLogin):
		writeError(w, http.StatusBadRequest, "missing_credentials", err.Error())
	default:
		zerolog.Ctx(r.Context()).Error().Err(err).Msg("request failed")
		writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
	}
}

func toAppointmentResponse(a appointment.Appointment, dir *directory.Store) AppointmentResponse {
	resp := AppointmentResponse{
		Appointment:   a,
		SpecialtyName: a.Specialty.DisplayName(),
	}
	if p, err := dir.FindPerson(a.PatientID); err == nil {
		resp.PatientName = p.Name
	}
	if d, err := dir.FindPerson(a.DoctorID); err == nil {
		resp.DoctorName = d.Name
	}
	return resp
}

func toAppointmentResponses(as []appointment.Appointment, dir *directory.Store) []AppointmentResponse {
	out := make([]AppointmentResponse, 0, len(as))
	for _, a := range as {
		out = append(out, toAppointmentResponse(a, dir))
	}
	return out
}

func toPersonResponse(p directory.Person, today calendar.Date) PersonResponse {
	resp := PersonResponse{Person: p}
	if age, ok := p.Age(today); ok {
		resp.Age = &age
	}
	return resp
}

func toPersonResponses(ps []directory.Person, today calendar.Date) []PersonResponse {
	out := make([]PersonResponse, 0, len(ps))
	for _, p := range ps {
		out = append(out, toPersonResponse(p, today))
	}
	return out
}
