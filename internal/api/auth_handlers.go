package api

import (
	"net/http"

	"github.com/hackgods/hospital-appointments/internal/calendar"
	"github.com/hackgods/hospital-appointments/internal/directory"
	"github.com/hackgods/hospital-appointments/internal/session"
)

func loginHandler(sessions *session.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req LoginRequest
		if !decodeJSON(w, r, &req) {
			return
		}

		s, err := sessions.Login(r.Context(), req.Username, req.Password)
		if err != nil {
			handleError(w, r, err)
			return
		}

		writeJSON(w, http.StatusOK, s)
	}
}

func logoutHandler(sessions *session.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := sessions.Logout(r.Context(), bearerToken(r)); err != nil {
			handleError(w, r, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// meHandler returns the person behind the current session.
func meHandler(dir *directory.Store, clock calendar.Clock) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, _ := session.FromContext(r.Context())
		p, err := dir.FindPerson(s.PersonID)
		if err != nil {
			handleError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, toPersonResponse(p, calendar.Today(clock)))
	}
}
