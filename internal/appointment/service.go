package appointment

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/hackgods/hospital-appointments/internal/calendar"
	"github.com/hackgods/hospital-appointments/internal/directory"
	"github.com/hackgods/hospital-appointments/internal/lock"
)

// Service is the gateway for every appointment mutation. It checks the
// business rules, then writes to the directory store. It keeps no state
// of its own.
type Service struct {
	store  *directory.Store
	locker lock.Locker
	clock  calendar.Clock
}

func NewService(store *directory.Store, locker lock.Locker, clock calendar.Clock) *Service {
	return &Service{
		store:  store,
		locker: locker,
		clock:  clock,
	}
}

// CreateAppointment schedules a new appointment. The conflict check and the
// insert run inside the slot lock so two callers cannot both take the
// same doctor, date and time.
func (s *Service) CreateAppointment(ctx context.Context, in Input) (*Appointment, error) {
	if err := validateMandatory(in); err != nil {
		return nil, err
	}
	if !in.Doctor.Available() {
		return nil, violation(CodeDoctorUnavailable, "doctor %s is not available for appointments", in.Doctor.ID)
	}
	if in.Date.Before(calendar.Today(s.clock)) {
		return nil, violation(CodePastDate, "cannot schedule appointments in the past (%s)", in.Date)
	}

	specialty := in.Specialty
	if specialty == "" {
		specialty = in.Doctor.Doctor.Specialty
	}

	var created Appointment
	key := lock.SlotKey(in.Doctor.ID, in.Date, in.Time)

	err := s.locker.WithSlotLock(ctx, key, func(context.Context) error {
		if s.store.SlotTaken(in.Doctor.ID, in.Date, in.Time, "") {
			return slotTaken(in.Doctor.ID, in.Date, in.Time)
		}

		id := in.ID
		if id == "" {
			id = s.GenerateID()
		}

		appt, err := s.store.AddAppointment(Appointment{
			ID:        id,
			PatientID: in.Patient.ID,
			DoctorID:  in.Doctor.ID,
			Specialty: specialty,
			Date:      in.Date,
			Time:      in.Time,
			Price:     in.Price,
			Reason:    in.Reason,
			Status:    StatusScheduled,
		})
		if errors.Is(err, directory.ErrDuplicateAppointmentID) {
			return violation(CodeDuplicateID, "appointment %s already exists", id)
		}
		if err != nil {
			return fmt.Errorf("add appointment: %w", err)
		}

		created = appt
		return nil
	})
	if err != nil {
		return nil, err
	}

	zerolog.Ctx(ctx).Info().
		Str("appointment_id", created.ID).
		Str("doctor_id", created.DoctorID).
		Str("patient_id", created.PatientID).
		Stringer("date", created.Date).
		Stringer("time", created.Time).
		Msg("appointment created")

	return &created, nil
}

// UpdateAppointment rewrites the scheduling fields of an existing
// appointment. The slot check ignores the appointment itself, so saving an
// unchanged slot never conflicts. Status, diagnosis and notes are left as
// they are.
func (s *Service) UpdateAppointment(ctx context.Context, id string, in Input) (*Appointment, error) {
	if id == "" {
		return nil, violation(CodeMissingField, "appointment id is required")
	}
	if err := validateMandatory(in); err != nil {
		return nil, err
	}

	specialty := in.Specialty
	if specialty == "" {
		specialty = in.Doctor.Doctor.Specialty
	}

	var updated Appointment
	key := lock.SlotKey(in.Doctor.ID, in.Date, in.Time)

	err := s.locker.WithSlotLock(ctx, key, func(context.Context) error {
		if s.store.SlotTaken(in.Doctor.ID, in.Date, in.Time, id) {
			return slotTaken(in.Doctor.ID, in.Date, in.Time)
		}

		appt, err := s.store.UpdateAppointment(id, func(a *Appointment) error {
			a.PatientID = in.Patient.ID
			a.DoctorID = in.Doctor.ID
			a.Specialty = specialty
			a.Date = in.Date
			a.Time = in.Time
			a.Price = in.Price
			a.Reason = in.Reason
			return nil
		})
		if err != nil {
			return mapStoreError(id, err)
		}

		updated = appt
		return nil
	})
	if err != nil {
		return nil, err
	}

	zerolog.Ctx(ctx).Info().Str("appointment_id", id).Msg("appointment updated")
	return &updated, nil
}

func (s *Service) DeleteAppointment(ctx context.Context, id string) error {
	if err := s.store.DeleteAppointment(id); err != nil {
		return mapStoreError(id, err)
	}

	zerolog.Ctx(ctx).Info().Str("appointment_id", id).Msg("appointment deleted")
	return nil
}

// Attend moves a scheduled appointment to attended.
func (s *Service) Attend(ctx context.Context, id string) (*Appointment, error) {
	appt, err := s.transition(id, func(a *Appointment) error {
		switch a.Status {
		case StatusAttended:
			return violation(CodeInvalidTransition, "appointment %s was already attended", a.ID)
		case StatusCancelled:
			return violation(CodeInvalidTransition, "cannot attend appointment %s: it is cancelled", a.ID)
		}
		a.Status = StatusAttended
		return nil
	})
	if err != nil {
		return nil, err
	}

	zerolog.Ctx(ctx).Info().Str("appointment_id", id).Msg("appointment attended")
	return appt, nil
}

// Cancel moves a scheduled appointment to cancelled, freeing its slot.
func (s *Service) Cancel(ctx context.Context, id string) (*Appointment, error) {
	appt, err := s.transition(id, func(a *Appointment) error {
		switch a.Status {
		case StatusCancelled:
			return violation(CodeInvalidTransition, "appointment %s is already cancelled", a.ID)
		case StatusAttended:
			return violation(CodeInvalidTransition, "cannot cancel appointment %s: it was already attended", a.ID)
		}
		a.Status = StatusCancelled
		return nil
	})
	if err != nil {
		return nil, err
	}

	zerolog.Ctx(ctx).Info().Str("appointment_id", id).Msg("appointment cancelled")
	return appt, nil
}

// AddDiagnosis records diagnosis and notes whatever the status. A scheduled
// appointment becomes attended.
func (s *Service) AddDiagnosis(ctx context.Context, id, diagnosis, notes string) (*Appointment, error) {
	appt, err := s.transition(id, func(a *Appointment) error {
		a.Diagnosis = diagnosis
		a.Notes = notes
		if a.Status == StatusScheduled {
			a.Status = StatusAttended
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	zerolog.Ctx(ctx).Info().
		Str("appointment_id", id).
		Str("status", string(appt.Status)).
		Msg("diagnosis recorded")
	return appt, nil
}

// GenerateID hands out the next CITnnnn identifier. Ids come from a
// forward-only counter and are never reused after a delete.
func (s *Service) GenerateID() string {
	return s.store.NextID(IDPrefix, IDWidth)
}

func (s *Service) transition(id string, fn func(a *Appointment) error) (*Appointment, error) {
	if id == "" {
		return nil, violation(CodeMissingField, "appointment id is required")
	}

	appt, err := s.store.UpdateAppointment(id, fn)
	if err != nil {
		return nil, mapStoreError(id, err)
	}
	return &appt, nil
}

func validateMandatory(in Input) error {
	switch {
	case in.Patient == nil:
		return violation(CodeMissingField, "patient is required")
	case in.Doctor == nil:
		return violation(CodeMissingField, "doctor is required")
	case in.Date.IsZero():
		return violation(CodeMissingField, "date is required")
	case in.Time.IsZero():
		return violation(CodeMissingField, "time is required")
	case !in.Patient.IsPatient():
		return violation(CodeMissingField, "%s is not a patient", in.Patient.ID)
	case !in.Doctor.IsDoctor():
		return violation(CodeMissingField, "%s is not a doctor", in.Doctor.ID)
	case in.Price < 0:
		return violation(CodeInvalidPrice, "price cannot be negative (%.2f)", in.Price)
	case in.Specialty != "" && !in.Specialty.Valid():
		return violation(CodeMissingField, "unknown specialty %q", in.Specialty)
	}
	return nil
}

func slotTaken(doctorID string, date calendar.Date, at calendar.TimeOfDay) error {
	return violation(CodeSlotTaken, "doctor %s already has an appointment on %s at %s", doctorID, date, at)
}

func mapStoreError(id string, err error) error {
	var rv *RuleViolation
	switch {
	case errors.As(err, &rv):
		return err
	case errors.Is(err, directory.ErrAppointmentNotFound):
		return violation(CodeNotFound, "appointment %s not found", id)
	default:
		return fmt.Errorf("appointment %s: %w", id, err)
	}
}
