package directory

import (
	"fmt"
	"strings"
	"time"

	"github.com/hackgods/hospital-appointments/internal/calendar"
)

// Kind tags which variant a Person is.
type Kind string

const (
	KindPatient Kind = "patient"
	KindDoctor  Kind = "doctor"
	KindAdmin   Kind = "admin"
)

type Specialty string

const (
	Cardiology      Specialty = "cardiology"
	Pediatrics      Specialty = "pediatrics"
	Dermatology     Specialty = "dermatology"
	Neurology       Specialty = "neurology"
	Traumatology    Specialty = "traumatology"
	Ophthalmology   Specialty = "ophthalmology"
	Gynecology      Specialty = "gynecology"
	GeneralMedicine Specialty = "general_medicine"
)

var specialtyNames = map[Specialty]string{
	Cardiology:      "Cardiology",
	Pediatrics:      "Pediatrics",
	Dermatology:     "Dermatology",
	Neurology:       "Neurology",
	Traumatology:    "Traumatology",
	Ophthalmology:   "Ophthalmology",
	Gynecology:      "Gynecology",
	GeneralMedicine: "General Medicine",
}

// Specialties lists every specialty in display order.
func Specialties() []Specialty {
	return []Specialty{
		Cardiology, Pediatrics, Dermatology, Neurology,
		Traumatology, Ophthalmology, Gynecology, GeneralMedicine,
	}
}

func ParseSpecialty(s string) (Specialty, error) {
	sp := Specialty(strings.ToLower(strings.TrimSpace(s)))
	if !sp.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownSpecialty, s)
	}
	return sp, nil
}

func (s Specialty) Valid() bool {
	_, ok := specialtyNames[s]
	return ok
}

func (s Specialty) DisplayName() string {
	if name, ok := specialtyNames[s]; ok {
		return name
	}
	return string(s)
}

// Account is the login attached to a person. Passwords are kept and
// compared in plain text.
type Account struct {
	Username string `json:"username"`
	Password string `json:"-"`
	Kind     Kind   `json:"kind"`
	PersonID string `json:"person_id"`
}

// Profile is the record shared by every kind of person.
type Profile struct {
	ID       string `json:"id"`
	Document string `json:"document"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
}

type DoctorInfo struct {
	Specialty Specialty `json:"specialty"`
	License   string    `json:"license"`
	Available bool      `json:"available"`
}

type PatientInfo struct {
	BirthDate calendar.Date `json:"birth_date"`
	Address   string        `json:"address"`
	Gender    string        `json:"gender"`
}

type AdminInfo struct {
	Role string `json:"role"`
}

// Person is a patient, doctor or admin. Exactly one of Doctor, Patient and
// Admin is set, matching Kind.
type Person struct {
	Profile
	Kind    Kind         `json:"kind"`
	Account *Account     `json:"account,omitempty"`
	Doctor  *DoctorInfo  `json:"doctor,omitempty"`
	Patient *PatientInfo `json:"patient,omitempty"`
	Admin   *AdminInfo   `json:"admin,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func NewDoctor(p Profile, info DoctorInfo) Person {
	return Person{Profile: p, Kind: KindDoctor, Doctor: &info}
}

func NewPatient(p Profile, info PatientInfo) Person {
	return Person{Profile: p, Kind: KindPatient, Patient: &info}
}

func NewAdmin(p Profile, info AdminInfo) Person {
	return Person{Profile: p, Kind: KindAdmin, Admin: &info}
}

// WithAccount attaches a login owned by p.
func (p Person) WithAccount(username, password string) Person {
	p.Account = &Account{
		Username: username,
		Password: password,
		Kind:     p.Kind,
		PersonID: p.ID,
	}
	return p
}

func (p Person) IsDoctor() bool  { return p.Kind == KindDoctor && p.Doctor != nil }
func (p Person) IsPatient() bool { return p.Kind == KindPatient && p.Patient != nil }
func (p Person) IsAdmin() bool   { return p.Kind == KindAdmin && p.Admin != nil }

// Available reports whether p is a doctor that may take new appointments.
func (p Person) Available() bool {
	return p.IsDoctor() && p.Doctor.Available
}

// Age is derived from the birth date on the given day; ok is false for
// anyone who is not a patient with a known birth date.
func (p Person) Age(on calendar.Date) (age int, ok bool) {
	if !p.IsPatient() || p.Patient.BirthDate.IsZero() {
		return 0, false
	}
	return p.Patient.BirthDate.YearsSince(on), true
}

func (p Person) clone() Person {
	if p.Account != nil {
		a := *p.Account
		p.Account = &a
	}
	if p.Doctor != nil {
		d := *p.Doctor
		p.Doctor = &d
	}
	if p.Patient != nil {
		pt := *p.Patient
		p.Patient = &pt
	}
	if p.Admin != nil {
		a := *p.Admin
		p.Admin = &a
	}
	return p
}

type AppointmentStatus string

const (
	StatusScheduled AppointmentStatus = "scheduled"
	StatusAttended  AppointmentStatus = "attended"
	StatusCancelled AppointmentStatus = "cancelled"
)

func (s AppointmentStatus) Valid() bool {
	switch s {
	case StatusScheduled, StatusAttended, StatusCancelled:
		return true
	}
	return false
}

type Appointment struct {
	ID        string             `json:"id"`
	PatientID string             `json:"patient_id"`
	DoctorID  string             `json:"doctor_id"`
	Specialty Specialty          `json:"specialty"`
	Date      calendar.Date      `json:"date"`
	Time      calendar.TimeOfDay `json:"time"`
	Price     float64            `json:"price"`
	Reason    string             `json:"reason"`
	Status    AppointmentStatus  `json:"status"`
	Diagnosis string             `json:"diagnosis,omitempty"`
	Notes     string             `json:"notes,omitempty"`
	CreatedAt time.Time          `json:"created_at"`
	UpdatedAt time.Time          `json:"updated_at"`
}

// Occupies reports whether a holds the doctor's slot: same doctor, day and
// time, and not cancelled.
func (a Appointment) Occupies(doctorID string, date calendar.Date, at calendar.TimeOfDay) bool {
	return a.Status != StatusCancelled &&
		a.DoctorID == doctorID &&
		a.Date == date &&
		a.Time == at
}
