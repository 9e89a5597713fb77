package people

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hackgods/hospital-appointments/internal/calendar"
	"github.com/hackgods/hospital-appointments/internal/directory"
)

func newTestService(t *testing.T) (*Service, *directory.Store) {
	t.Helper()
	store := directory.NewStore(calendar.NewFixedClock(time.Date(2026, time.October, 16, 9, 0, 0, 0, time.UTC)))
	directory.SeedDemo(store)
	return NewService(store, "1234"), store
}

func doctorInput(doc, name string) DoctorInput {
	return DoctorInput{
		Profile: directory.Profile{
			Document: doc,
			Name:     name,
			Email:    "doc@hospital.com",
			Phone:    "3000000000",
		},
		DoctorInfo: directory.DoctorInfo{Specialty: directory.Pediatrics, License: "L-1", Available: true},
	}
}

func patientInput(doc string) PatientInput {
	return PatientInput{
		Profile: directory.Profile{
			Document: doc,
			Name:     "  Ana Gomez ",
			Email:    "ana@mail.com",
			Phone:    "3111111111",
		},
		PatientInfo: directory.PatientInfo{
			BirthDate: calendar.NewDate(1990, time.March, 3),
			Address:   "Calle 1",
			Gender:    "Female",
		},
	}
}

func TestRegisterPatient(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()

	p, err := svc.RegisterPatient(ctx, patientInput("555"))
	require.NoError(t, err)
	assert.Equal(t, "PAC002", p.ID)
	assert.Equal(t, "Ana Gomez", p.Name)
	assert.Nil(t, p.Account, "patients registered by staff have no login")
	assert.Len(t, store.Patients(), 2)

	_, err = svc.RegisterPatient(ctx, patientInput("555"))
	assert.ErrorIs(t, err, ErrDuplicateDocument)
}

func TestRegisterPatientValidation(t *testing.T) {
	svc, _ := newTestService(t)

	tests := []struct {
		name  string
		tweak func(in *PatientInput)
	}{
		{"no name", func(in *PatientInput) { in.Name = " " }},
		{"no document", func(in *PatientInput) { in.Document = "" }},
		{"bad email", func(in *PatientInput) { in.Email = "not-an-email" }},
		{"no phone", func(in *PatientInput) { in.Phone = "" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := patientInput("777")
			tt.tweak(&in)
			_, err := svc.RegisterPatient(context.Background(), in)
			assert.ErrorIs(t, err, ErrValidation)
		})
	}
}

func TestRegisterDoctorGeneratesLogin(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()

	d, creds, err := svc.RegisterDoctor(ctx, doctorInput("900", "Medico Nuevo"))
	require.NoError(t, err)
	assert.Equal(t, "MED002", d.ID)
	assert.Equal(t, "medico1", creds.Username, "medico is taken by the demo doctor")
	assert.Equal(t, "1234", creds.Password)

	logged, err := store.Authenticate("medico1", "1234")
	require.NoError(t, err)
	assert.Equal(t, d.ID, logged.ID)

	_, _, err = svc.RegisterDoctor(ctx, doctorInput("900", "Other"))
	assert.ErrorIs(t, err, ErrDuplicateDocument)

	in := doctorInput("901", "No License")
	in.License = ""
	_, _, err = svc.RegisterDoctor(ctx, in)
	assert.ErrorIs(t, err, ErrValidation)

	in = doctorInput("902", "No Specialty")
	in.Specialty = ""
	_, _, err = svc.RegisterDoctor(ctx, in)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestSelfRegisterDoctor(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	in := doctorInput("910", "Laura Diaz")
	in.Available = false
	d, err := svc.SelfRegisterDoctor(ctx, in, Credentials{Username: "ldiaz", Password: "secret"})
	require.NoError(t, err)
	assert.True(t, d.Doctor.Available)
	assert.Equal(t, "ldiaz", d.Account.Username)

	_, err = svc.SelfRegisterDoctor(ctx, doctorInput("911", "X"), Credentials{Username: "LDIAZ", Password: "secret"})
	assert.ErrorIs(t, err, ErrUsernameTaken)

	_, err = svc.SelfRegisterDoctor(ctx, doctorInput("912", "X"), Credentials{Username: "x", Password: "abc"})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestUpdateDoctor(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()

	other, _, err := svc.RegisterDoctor(ctx, doctorInput("920", "Pedro Ruiz"))
	require.NoError(t, err)

	in := doctorInput("1000001", "Dr. Juan Perez")
	in.Available = false
	updated, err := svc.UpdateDoctor(ctx, "MED001", in)
	require.NoError(t, err)
	assert.False(t, updated.Doctor.Available)
	assert.Equal(t, "medico", updated.Account.Username, "the login survives edits")

	_, err = svc.UpdateDoctor(ctx, other.ID, doctorInput("1000001", "Pedro Ruiz"))
	assert.ErrorIs(t, err, ErrDuplicateDocument)

	_, err = svc.UpdateDoctor(ctx, "PAC001", in)
	assert.ErrorIs(t, err, ErrWrongKind)

	_, err = svc.UpdateDoctor(ctx, "MED999", in)
	assert.ErrorIs(t, err, directory.ErrPersonNotFound)

	assert.Empty(t, store.DoctorsBySpecialty(directory.Cardiology))
}

func TestUpdatePatient(t *testing.T) {
	svc, _ := newTestService(t)

	in := patientInput("1000002")
	in.Address = " Carrera 7 "
	p, err := svc.UpdatePatient(context.Background(), "PAC001", in)
	require.NoError(t, err)
	assert.Equal(t, "Carrera 7", p.Patient.Address)
	assert.Equal(t, "paciente", p.Account.Username)
}

func TestDeleteDoctorWithAppointments(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()

	_, err := store.AddAppointment(directory.Appointment{ID: "CIT0001", DoctorID: "MED001", PatientID: "PAC001"})
	require.NoError(t, err)

	err = svc.DeleteDoctor(ctx, "MED001")
	assert.ErrorIs(t, err, ErrDoctorHasBookings)
	assert.ErrorContains(t, err, "1 appointment")

	require.NoError(t, store.DeleteAppointment("CIT0001"))
	require.NoError(t, svc.DeleteDoctor(ctx, "MED001"))
	assert.Empty(t, store.Doctors())
}

func TestDeletePatient(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()

	assert.ErrorIs(t, svc.DeletePatient(ctx, "MED001"), ErrWrongKind)
	require.NoError(t, svc.DeletePatient(ctx, "PAC001"))
	assert.Empty(t, store.Patients())
	assert.ErrorIs(t, svc.DeletePatient(ctx, "PAC001"), directory.ErrPersonNotFound)
}

func TestGenerateUsername(t *testing.T) {
	svc, _ := newTestService(t)
	assert.Equal(t, "laura", svc.GenerateUsername("Laura Diaz"))
	assert.Equal(t, "admin1", svc.GenerateUsername("ADMIN Someone"))
	assert.Equal(t, "user", svc.GenerateUsername("   "))
}

func TestConcurrentSignupsShareUsername(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()

	const n = 50
	var (
		wg    sync.WaitGroup
		mu    sync.Mutex
		ok    int
		taken int
	)
	start := make(chan struct{})
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			<-start
			_, err := svc.SelfRegisterDoctor(ctx, doctorInput(fmt.Sprintf("77%03d", i), "Race Doctor"),
				Credentials{Username: "race", Password: "secret"})

			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				ok++
			case errors.Is(err, ErrUsernameTaken):
				taken++
			}
		}(i)
	}
	close(start)
	wg.Wait()

	assert.Equal(t, 1, ok)
	assert.Equal(t, n-1, taken)

	accounts := 0
	for _, p := range store.People() {
		if p.Account != nil && strings.EqualFold(p.Account.Username, "race") {
			accounts++
		}
	}
	assert.Equal(t, 1, accounts)
}

func TestConcurrentPatientsShareDocument(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()
	before := len(store.Patients())

	const n = 50
	var wg sync.WaitGroup
	errs := make([]error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.RegisterPatient(ctx, patientInput("880088"))
		}(i)
	}
	wg.Wait()

	created := 0
	for _, err := range errs {
		if err == nil {
			created++
		} else {
			assert.ErrorIs(t, err, ErrDuplicateDocument)
		}
	}
	assert.Equal(t, 1, created)
	assert.Len(t, store.Patients(), before+1)
}
