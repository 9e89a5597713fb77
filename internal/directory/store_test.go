package directory

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hackgods/hospital-appointments/internal/calendar"
)

var testNow = time.Date(2026, time.October, 16, 10, 0, 0, 0, time.UTC)

func newSeededStore(t *testing.T) *Store {
	t.Helper()
	s := NewStore(calendar.NewFixedClock(testNow))
	SeedDemo(s)
	return s
}

func TestSeedDemo(t *testing.T) {
	s := newSeededStore(t)

	people := s.People()
	require.Len(t, people, 3)
	assert.Equal(t, "ADM001", people[0].ID)
	assert.True(t, people[0].IsAdmin())
	assert.Equal(t, "MED001", people[1].ID)
	assert.True(t, people[1].Available())
	assert.Equal(t, Cardiology, people[1].Doctor.Specialty)
	assert.Equal(t, "PAC001", people[2].ID)
	assert.Equal(t, "PAC001", people[2].Account.PersonID)
	assert.Equal(t, KindPatient, people[2].Account.Kind)

	age, ok := people[2].Age(calendar.DateOf(testNow))
	assert.True(t, ok)
	assert.Equal(t, 16, age)

	assert.Empty(t, s.Appointments())
}

func TestAuthenticate(t *testing.T) {
	s := newSeededStore(t)

	p, err := s.Authenticate("admin", "admin")
	require.NoError(t, err)
	assert.Equal(t, "ADM001", p.ID)

	_, err = s.Authenticate("ADMIN", "admin")
	assert.ErrorIs(t, err, ErrInvalidCredentials, "usernames match case-sensitively at login")

	_, err = s.Authenticate("medico", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestUsernameTakenIgnoresCase(t *testing.T) {
	s := newSeededStore(t)
	assert.True(t, s.UsernameTaken("Medico"))
	assert.False(t, s.UsernameTaken("nobody"))
}

func TestDocumentTakenIsPerKind(t *testing.T) {
	s := newSeededStore(t)
	assert.True(t, s.DocumentTaken(KindDoctor, "1000001", ""))
	assert.False(t, s.DocumentTaken(KindDoctor, "1000001", "MED001"))
	assert.False(t, s.DocumentTaken(KindPatient, "1000001", ""))
}

func TestDoctorsBySpecialtySkipsUnavailable(t *testing.T) {
	s := newSeededStore(t)
	s.AddPerson(NewDoctor(Profile{ID: "MED900", Name: "Dr. Away"},
		DoctorInfo{Specialty: Cardiology, Available: false}))

	byspec := s.DoctorsBySpecialty(Cardiology)
	require.Len(t, byspec, 1)
	assert.Equal(t, "MED001", byspec[0].ID)

	assert.Len(t, s.Doctors(), 2, "all doctors includes unavailable ones")
	assert.Empty(t, s.DoctorsBySpecialty(Neurology))
}

func TestUpdateAndRemovePersonReportMissing(t *testing.T) {
	s := newSeededStore(t)

	_, err := s.UpdatePerson(Person{Profile: Profile{ID: "NOPE"}})
	assert.ErrorIs(t, err, ErrPersonNotFound)
	assert.ErrorIs(t, s.RemovePerson("NOPE"), ErrPersonNotFound)

	doc, err := s.FindPerson("MED001")
	require.NoError(t, err)
	doc.Doctor.Available = false
	_, err = s.UpdatePerson(doc)
	require.NoError(t, err)

	stored, err := s.FindPerson("MED001")
	require.NoError(t, err)
	assert.False(t, stored.Doctor.Available)

	require.NoError(t, s.RemovePerson("PAC001"))
	assert.Empty(t, s.Patients())
}

func TestReadsReturnCopies(t *testing.T) {
	s := newSeededStore(t)

	doc, err := s.FindPerson("MED001")
	require.NoError(t, err)
	doc.Doctor.Available = false
	doc.Account.Password = "changed"

	again, err := s.FindPerson("MED001")
	require.NoError(t, err)
	assert.True(t, again.Doctor.Available)
	assert.Equal(t, "medico", again.Account.Password)
}

func TestAppointmentCRUD(t *testing.T) {
	s := newSeededStore(t)
	day := calendar.NewDate(2026, time.October, 17)

	a := Appointment{ID: "CIT0001", PatientID: "PAC001", DoctorID: "MED001",
		Date: day, Time: calendar.MustTime(9, 0), Status: StatusScheduled}
	_, err := s.AddAppointment(a)
	require.NoError(t, err)

	_, err = s.AddAppointment(a)
	assert.ErrorIs(t, err, ErrDuplicateAppointmentID)

	assert.True(t, s.SlotTaken("MED001", day, calendar.MustTime(9, 0), ""))
	assert.False(t, s.SlotTaken("MED001", day, calendar.MustTime(9, 0), "CIT0001"))

	updated, err := s.UpdateAppointment("CIT0001", func(a *Appointment) error {
		a.Status = StatusCancelled
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, StatusCancelled, updated.Status)
	assert.False(t, s.SlotTaken("MED001", day, calendar.MustTime(9, 0), ""))

	boom := errors.New("boom")
	_, err = s.UpdateAppointment("CIT0001", func(a *Appointment) error {
		a.Reason = "should not stick"
		return boom
	})
	assert.ErrorIs(t, err, boom)
	got, err := s.FindAppointment("CIT0001")
	require.NoError(t, err)
	assert.Empty(t, got.Reason)

	_, err = s.UpdateAppointment("CIT9999", func(*Appointment) error { return nil })
	assert.ErrorIs(t, err, ErrAppointmentNotFound)

	require.NoError(t, s.DeleteAppointment("CIT0001"))
	assert.ErrorIs(t, s.DeleteAppointment("CIT0001"), ErrAppointmentNotFound)
	_, err = s.FindAppointment("CIT0001")
	assert.ErrorIs(t, err, ErrAppointmentNotFound)
}

func TestNextIDNeverReuses(t *testing.T) {
	s := newSeededStore(t)

	assert.Equal(t, "MED002", s.NextID(DoctorPrefix, PersonIDWidth))

	_, err := s.AddAppointment(Appointment{ID: "CIT0001"})
	require.NoError(t, err)
	assert.Equal(t, "CIT0002", s.NextID("CIT", 4), "ids already in use are skipped")

	require.NoError(t, s.DeleteAppointment("CIT0001"))
	assert.Equal(t, "CIT0003", s.NextID("CIT", 4))
}

func TestParseSpecialty(t *testing.T) {
	sp, err := ParseSpecialty(" Cardiology ")
	require.NoError(t, err)
	assert.Equal(t, Cardiology, sp)
	assert.Equal(t, "General Medicine", GeneralMedicine.DisplayName())

	_, err = ParseSpecialty("astrology")
	assert.ErrorIs(t, err, ErrUnknownSpecialty)
	assert.Len(t, Specialties(), 8)
}
