// Package directory is the in-memory source of truth for people and
// appointments. A Store is built explicitly and handed to whoever needs it;
// there is no package-level instance.
package directory

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/hackgods/hospital-appointments/internal/calendar"
)

var (
	ErrPersonNotFound         = errors.New("person not found")
	ErrAppointmentNotFound    = errors.New("appointment not found")
	ErrDuplicateAppointmentID = errors.New("appointment id already exists")
	ErrInvalidCredentials     = errors.New("invalid username or password")
	ErrUnknownSpecialty       = errors.New("unknown specialty")
)

// Store keeps people and appointments in insertion order. It is safe for
// concurrent use; every read hands out copies.
type Store struct {
	clock calendar.Clock

	mu           sync.RWMutex
	people       []Person
	appointments []Appointment
	sequences    map[string]int
}

func NewStore(clock calendar.Clock) *Store {
	return &Store{
		clock:     clock,
		sequences: make(map[string]int),
	}
}

// People

// AddPerson appends p. Uniqueness of documents and usernames is the
// caller's job; see DocumentTaken and UsernameTaken.
func (s *Store) AddPerson(p Person) Person {
	p = p.clone()
	now := s.clock.Now()
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}
	p.UpdatedAt = now
	if p.Account != nil {
		p.Account.PersonID = p.ID
		p.Account.Kind = p.Kind
	}

	s.mu.Lock()
	s.people = append(s.people, p)
	s.mu.Unlock()

	return p.clone()
}

// UpdatePerson replaces the person whose id equals p.ID.
func (s *Store) UpdatePerson(p Person) (Person, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.personIndex(p.ID)
	if i < 0 {
		return Person{}, fmt.Errorf("%w: %s", ErrPersonNotFound, p.ID)
	}

	p = p.clone()
	p.CreatedAt = s.people[i].CreatedAt
	p.UpdatedAt = s.clock.Now()
	s.people[i] = p
	return p.clone(), nil
}

func (s *Store) RemovePerson(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.personIndex(id)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrPersonNotFound, id)
	}
	s.people = append(s.people[:i], s.people[i+1:]...)
	return nil
}

func (s *Store) FindPerson(id string) (Person, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i := s.personIndex(id)
	if i < 0 {
		return Person{}, fmt.Errorf("%w: %s", ErrPersonNotFound, id)
	}
	return s.people[i].clone(), nil
}

func (s *Store) People() []Person {
	return s.peopleWhere(func(Person) bool { return true })
}

func (s *Store) Doctors() []Person {
	return s.peopleWhere(Person.IsDoctor)
}

func (s *Store) Patients() []Person {
	return s.peopleWhere(Person.IsPatient)
}

// DoctorsBySpecialty only returns doctors currently taking appointments;
// Doctors returns everyone regardless of availability.
func (s *Store) DoctorsBySpecialty(sp Specialty) []Person {
	return s.peopleWhere(func(p Person) bool {
		return p.Available() && p.Doctor.Specialty == sp
	})
}

// DocumentTaken reports whether another person of the same kind already
// uses document. exceptID lets an update ignore its own record.
func (s *Store) DocumentTaken(kind Kind, document, exceptID string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, p := range s.people {
		if p.Kind == kind && p.ID != exceptID && p.Document == document {
			return true
		}
	}
	return false
}

// UsernameTaken compares usernames case-insensitively across every account.
func (s *Store) UsernameTaken(username string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, p := range s.people {
		if p.Account != nil && strings.EqualFold(p.Account.Username, username) {
			return true
		}
	}
	return false
}

// Authenticate returns the first person whose account matches username and
// password exactly. Nothing is remembered about the caller; sessions are
// the session package's concern.
func (s *Store) Authenticate(username, password string) (Person, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, p := range s.people {
		if p.Account != nil && p.Account.Username == username && p.Account.Password == password {
			return p.clone(), nil
		}
	}
	return Person{}, ErrInvalidCredentials
}

func (s *Store) peopleWhere(keep func(Person) bool) []Person {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Person, 0, len(s.people))
	for _, p := range s.people {
		if keep(p) {
			out = append(out, p.clone())
		}
	}
	return out
}

func (s *Store) personIndex(id string) int {
	for i := range s.people {
		if s.people[i].ID == id {
			return i
		}
	}
	return -1
}

// Appointments

func (s *Store) AddAppointment(a Appointment) (Appointment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.appointmentIndex(a.ID) >= 0 {
		return Appointment{}, fmt.Errorf("%w: %s", ErrDuplicateAppointmentID, a.ID)
	}

	now := s.clock.Now()
	a.CreatedAt = now
	a.UpdatedAt = now
	s.appointments = append(s.appointments, a)
	return a, nil
}

// UpdateAppointment applies fn to the stored appointment under the write
// lock. If fn returns an error nothing is written.
func (s *Store) UpdateAppointment(id string, fn func(a *Appointment) error) (Appointment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.appointmentIndex(id)
	if i < 0 {
		return Appointment{}, fmt.Errorf("%w: %s", ErrAppointmentNotFound, id)
	}

	a := s.appointments[i]
	if err := fn(&a); err != nil {
		return Appointment{}, err
	}
	a.ID = id
	a.UpdatedAt = s.clock.Now()
	s.appointments[i] = a
	return a, nil
}

func (s *Store) DeleteAppointment(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.appointmentIndex(id)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrAppointmentNotFound, id)
	}
	s.appointments = append(s.appointments[:i], s.appointments[i+1:]...)
	return nil
}

func (s *Store) FindAppointment(id string) (Appointment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i := s.appointmentIndex(id)
	if i < 0 {
		return Appointment{}, fmt.Errorf("%w: %s", ErrAppointmentNotFound, id)
	}
	return s.appointments[i], nil
}

func (s *Store) Appointments() []Appointment {
	return s.AppointmentsWhere(func(Appointment) bool { return true })
}

func (s *Store) AppointmentsByDoctor(doctorID string) []Appointment {
	return s.AppointmentsWhere(func(a Appointment) bool { return a.DoctorID == doctorID })
}

func (s *Store) AppointmentsWhere(keep func(Appointment) bool) []Appointment {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Appointment, 0, len(s.appointments))
	for _, a := range s.appointments {
		if keep(a) {
			out = append(out, a)
		}
	}
	return out
}

// SlotTaken reports whether a non-cancelled appointment other than
// excludeID already holds the doctor's date and time.
func (s *Store) SlotTaken(doctorID string, date calendar.Date, at calendar.TimeOfDay, excludeID string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, a := range s.appointments {
		if a.ID != excludeID && a.Occupies(doctorID, date, at) {
			return true
		}
	}
	return false
}

func (s *Store) appointmentIndex(id string) int {
	for i := range s.appointments {
		if s.appointments[i].ID == id {
			return i
		}
	}
	return -1
}

// Identifiers

// NextID returns prefix followed by a zero-padded counter of the given
// width. Counters only move forward, and values already used by a stored
// person or appointment are skipped, so a deleted id is never handed out
// again.
func (s *Store) NextID(prefix string, width int) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	for {
		s.sequences[prefix]++
		id := fmt.Sprintf("%s%0*d", prefix, width, s.sequences[prefix])
		if s.personIndex(id) < 0 && s.appointmentIndex(id) < 0 {
			return id
		}
	}
}
