package api

import (
	"github.com/hackgods/hospital-appointments/internal/appointment"
	"github.com/hackgods/hospital-appointments/internal/calendar"
	"github.com/hackgods/hospital-appointments/internal/directory"
	"github.com/hackgods/hospital-appointments/internal/people"
)

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type AppointmentRequest struct {
	ID        string             `json:"id,omitempty"`
	PatientID string             `json:"patient_id"`
	DoctorID  string             `json:"doctor_id"`
	Specialty string             `json:"specialty,omitempty"`
	Date      calendar.Date      `json:"date"`
	Time      calendar.TimeOfDay `json:"time"`
	Price     float64            `json:"price"`
	Reason    string             `json:"reason"`
}

type DiagnosisRequest struct {
	Diagnosis string `json:"diagnosis"`
	Notes     string `json:"notes"`
}

type ProfileRequest struct {
	Document string `json:"document"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
}

func (p ProfileRequest) profile() directory.Profile {
	return directory.Profile{
		Document: p.Document,
		Name:     p.Name,
		Email:    p.Email,
		Phone:    p.Phone,
	}
}

type PatientRequest struct {
	ProfileRequest
	BirthDate calendar.Date `json:"birth_date"`
	Address   string        `json:"address"`
	Gender    string        `json:"gender"`
}

func (p PatientRequest) input() people.PatientInput {
	return people.PatientInput{
		Profile: p.profile(),
		PatientInfo: directory.PatientInfo{
			BirthDate: p.BirthDate,
			Address:   p.Address,
			Gender:    p.Gender,
		},
	}
}

type DoctorRequest struct {
	ProfileRequest
	Specialty string `json:"specialty"`
	License   string `json:"license"`
	Available *bool  `json:"available,omitempty"`
}

func (d DoctorRequest) input() people.DoctorInput {
	available := true
	if d.Available != nil {
		available = *d.Available
	}
	return people.DoctorInput{
		Profile: d.profile(),
		DoctorInfo: directory.DoctorInfo{
			Specialty: directory.Specialty(d.Specialty),
			License:   d.License,
			Available: available,
		},
	}
}

type DoctorSignupRequest struct {
	DoctorRequest
	Username string `json:"username"`
	Password string `json:"password"`
}

type AppointmentResponse struct {
	appointment.Appointment
	SpecialtyName string `json:"specialty_name"`
	PatientName   string `json:"patient_name,omitempty"`
	DoctorName    string `json:"doctor_name,omitempty"`
}

type PersonResponse struct {
	directory.Person
	Age *int `json:"age,omitempty"`
}

type RegisteredDoctorResponse struct {
	Doctor      PersonResponse     `json:"doctor"`
	Credentials people.Credentials `json:"credentials"`
}

type SpecialtyResponse struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

type NextIDResponse struct {
	ID string `json:"id"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}
