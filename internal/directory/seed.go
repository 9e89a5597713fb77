package directory

import (
	"time"

	"github.com/hackgods/hospital-appointments/internal/calendar"
)

// Prefixes and counter widths for generated identifiers.
const (
	AdminPrefix   = "ADM"
	DoctorPrefix  = "MED"
	PatientPrefix = "PAC"
	PersonIDWidth = 3
)

// PrefixFor returns the id prefix used for people of kind k.
func PrefixFor(k Kind) string {
	switch k {
	case KindDoctor:
		return DoctorPrefix
	case KindPatient:
		return PatientPrefix
	default:
		return AdminPrefix
	}
}

// SeedDemo loads the fixed demo records: one admin, one available
// cardiologist and one patient, each with a login.
func SeedDemo(s *Store) {
	admin := NewAdmin(Profile{
		ID:       s.NextID(AdminPrefix, PersonIDWidth),
		Document: "1000000",
		Name:     "System Administrator",
		Email:    "admin@hospital.com",
		Phone:    "3001234567",
	}, AdminInfo{Role: "General Administrator"})
	s.AddPerson(admin.WithAccount("admin", "admin"))

	doctor := NewDoctor(Profile{
		ID:       s.NextID(DoctorPrefix, PersonIDWidth),
		Document: "1000001",
		Name:     "Dr. Juan Perez",
		Email:    "medico@hospital.com",
		Phone:    "3001234568",
	}, DoctorInfo{Specialty: Cardiology, License: "20211", Available: true})
	s.AddPerson(doctor.WithAccount("medico", "medico"))

	patient := NewPatient(Profile{
		ID:       s.NextID(PatientPrefix, PersonIDWidth),
		Document: "1000002",
		Name:     "Maria Lopez",
		Email:    "paciente@hospital.com",
		Phone:    "3001234569",
	}, PatientInfo{
		BirthDate: calendar.NewDate(2010, time.May, 10),
		Address:   "Manzana 60",
		Gender:    "Female",
	})
	s.AddPerson(patient.WithAccount("paciente", "paciente"))
}
