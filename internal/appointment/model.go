package appointment

import (
	"github.com/hackgods/hospital-appointments/internal/calendar"
	"github.com/hackgods/hospital-appointments/internal/directory"
)

type (
	Appointment       = directory.Appointment
	AppointmentStatus = directory.AppointmentStatus
)

const (
	StatusScheduled = directory.StatusScheduled
	StatusAttended  = directory.StatusAttended
	StatusCancelled = directory.StatusCancelled
)

// IDPrefix and IDWidth shape generated appointment ids, e.g. CIT0001.
const (
	IDPrefix = "CIT"
	IDWidth  = 4
)

// Input carries the caller-supplied fields for create and update. Patient
// and Doctor are nil when absent; a zero Date or Time is absent too.
type Input struct {
	ID        string
	Patient   *directory.Person
	Doctor    *directory.Person
	Specialty directory.Specialty
	Date      calendar.Date
	Time      calendar.TimeOfDay
	Price     float64
	Reason    string
}

// DoctorStats summarises a doctor's workload.
type DoctorStats struct {
	Total   int `json:"total"`
	Today   int `json:"today"`
	Pending int `json:"pending"`
}
