package appointment

import (
	"sort"

	"github.com/hackgods/hospital-appointments/internal/calendar"
	"github.com/hackgods/hospital-appointments/internal/directory"
)

func (s *Service) Appointments() []Appointment {
	return s.store.Appointments()
}

func (s *Service) FindAppointment(id string) (*Appointment, error) {
	appt, err := s.store.FindAppointment(id)
	if err != nil {
		return nil, mapStoreError(id, err)
	}
	return &appt, nil
}

// ByDoctor returns the doctor's appointments ordered by date, then time.
func (s *Service) ByDoctor(doctorID string) []Appointment {
	out := s.store.AppointmentsByDoctor(doctorID)
	sortByDateTime(out)
	return out
}

// ByPatient returns the patient's appointments ordered by date.
func (s *Service) ByPatient(patientID string) []Appointment {
	out := s.store.AppointmentsWhere(func(a Appointment) bool {
		return a.PatientID == patientID
	})
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Date.Before(out[j].Date)
	})
	return out
}

// OnDate returns the day's appointments ordered by time.
func (s *Service) OnDate(date calendar.Date) []Appointment {
	out := s.store.AppointmentsWhere(func(a Appointment) bool {
		return a.Date == date
	})
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Time.Compare(out[j].Time) < 0
	})
	return out
}

func (s *Service) ByStatus(status AppointmentStatus) []Appointment {
	return s.store.AppointmentsWhere(func(a Appointment) bool {
		return a.Status == status
	})
}

func (s *Service) Today() []Appointment {
	return s.OnDate(calendar.Today(s.clock))
}

// UpcomingForDoctor returns the doctor's scheduled appointments from today
// onwards.
func (s *Service) UpcomingForDoctor(doctorID string) []Appointment {
	today := calendar.Today(s.clock)

	var out []Appointment
	for _, a := range s.ByDoctor(doctorID) {
		if !a.Date.Before(today) && a.Status == StatusScheduled {
			out = append(out, a)
		}
	}
	return out
}

func (s *Service) IsSlotFree(doctorID string, date calendar.Date, at calendar.TimeOfDay) bool {
	return !s.store.SlotTaken(doctorID, date, at, "")
}

func (s *Service) DoctorStats(doctorID string) DoctorStats {
	today := calendar.Today(s.clock)

	var st DoctorStats
	for _, a := range s.store.AppointmentsByDoctor(doctorID) {
		st.Total++
		if a.Date == today {
			st.Today++
		}
		if a.Status == StatusScheduled {
			st.Pending++
		}
	}
	return st
}

// DoctorsBySpecialty lists doctors of the specialty who are available.
func (s *Service) DoctorsBySpecialty(sp directory.Specialty) []directory.Person {
	return s.store.DoctorsBySpecialty(sp)
}

// Doctors lists every doctor, available or not.
func (s *Service) Doctors() []directory.Person {
	return s.store.Doctors()
}

func (s *Service) Patients() []directory.Person {
	return s.store.Patients()
}

func sortByDateTime(out []Appointment) {
	sort.SliceStable(out, func(i, j int) bool {
		if c := out[i].Date.Compare(out[j].Date); c != 0 {
			return c < 0
		}
		return out[i].Time.Compare(out[j].Time) < 0
	})
}
