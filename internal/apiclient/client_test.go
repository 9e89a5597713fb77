package apiclient

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hackgods/hospital-appointments/internal/api"
	"github.com/hackgods/hospital-appointments/internal/appointment"
	"github.com/hackgods/hospital-appointments/internal/calendar"
	"github.com/hackgods/hospital-appointments/internal/directory"
	"github.com/hackgods/hospital-appointments/internal/lock"
	"github.com/hackgods/hospital-appointments/internal/people"
	"github.com/hackgods/hospital-appointments/internal/session"
)

func newServer(t *testing.T) *httptest.Server {
	t.Helper()

	clock := calendar.NewFixedClock(time.Date(2026, 10, 16, 10, 0, 0, 0, time.UTC))
	store := directory.NewStore(clock)
	directory.SeedDemo(store)

	srv := httptest.NewServer(api.NewRouter(api.RouterConfig{
		Appointments: appointment.NewService(store, lock.NewSlotLocker(), clock),
		People:       people.NewService(store, "1234"),
		Directory:    store,
		Sessions:     session.NewManager(store, session.NewMemoryStore(clock), clock, time.Hour),
		Clock:        clock,
		Logger:       zerolog.Nop(),
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestClientLoginAndBook(t *testing.T) {
	srv := newServer(t)
	ctx := context.Background()
	c := New(srv.URL+"/", time.Second).WithHTTPClient(srv.Client())

	require.NoError(t, c.Login(ctx, "admin", "admin"))

	booking := map[string]any{
		"patient_id": "PAC001",
		"doctor_id":  "MED001",
		"date":       "2026-10-20",
		"time":       "09:00",
		"price":      10,
	}

	var created api.AppointmentResponse
	status, err := c.Do(ctx, http.MethodPost, "/appointments", booking, &created, http.StatusCreated)
	require.NoError(t, err)
	assert.Equal(t, http.StatusCreated, status)
	assert.Equal(t, "CIT0001", created.ID)

	status, err = c.Do(ctx, http.MethodPost, "/appointments", booking, nil, http.StatusCreated)
	assert.Equal(t, http.StatusConflict, status)
	var se *StatusError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, string(appointment.CodeSlotTaken), se.Code)
}

func TestClientLoginRejected(t *testing.T) {
	srv := newServer(t)
	c := New(srv.URL, time.Second).WithHTTPClient(srv.Client())

	err := c.Login(context.Background(), "admin", "wrong")
	var se *StatusError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, http.StatusUnauthorized, se.Status)
}
