// Package people registers, edits and removes patients and doctors. It
// performs the uniqueness and shape checks the directory store leaves to
// its callers.
package people

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"github.com/hackgods/hospital-appointments/internal/directory"
)

var (
	ErrValidation        = errors.New("validation failed")
	ErrDuplicateDocument = errors.New("document already registered")
	ErrUsernameTaken     = errors.New("username already in use")
	ErrDoctorHasBookings = errors.New("doctor has appointments assigned")
	ErrWrongKind         = errors.New("person is of a different kind")
)

const minPasswordLength = 4

var emailPattern = regexp.MustCompile(`^[A-Za-z0-9+_.-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}$`)

type Service struct {
	store           *directory.Store
	defaultPassword string

	// mu serialises writes so a uniqueness check and the write it guards
	// see the same directory.
	mu sync.Mutex
}

// NewService builds the registration service. defaultPassword is given to
// doctors registered by an admin, whose username is generated.
func NewService(store *directory.Store, defaultPassword string) *Service {
	return &Service{store: store, defaultPassword: defaultPassword}
}

type PatientInput struct {
	directory.Profile
	directory.PatientInfo
}

type DoctorInput struct {
	directory.Profile
	directory.DoctorInfo
}

// Credentials is a login chosen by, or generated for, a new account.
type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (s *Service) RegisterPatient(ctx context.Context, in PatientInput) (directory.Person, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p := normalizeProfile(in.Profile)
	if err := validateProfile(p); err != nil {
		return directory.Person{}, err
	}
	if s.store.DocumentTaken(directory.KindPatient, p.Document, "") {
		return directory.Person{}, fmt.Errorf("%w: patient with document %s", ErrDuplicateDocument, p.Document)
	}

	p.ID = s.store.NextID(directory.PatientPrefix, directory.PersonIDWidth)
	info := in.PatientInfo
	info.Address = strings.TrimSpace(info.Address)

	created := s.store.AddPerson(directory.NewPatient(p, info))
	zerolog.Ctx(ctx).Info().Str("person_id", created.ID).Msg("patient registered")
	return created, nil
}

// RegisterDoctor is the admin flow: the username is derived from the
// doctor's first name and the password is the configured default.
func (s *Service) RegisterDoctor(ctx context.Context, in DoctorInput) (directory.Person, Credentials, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, err := s.checkNewDoctor(in)
	if err != nil {
		return directory.Person{}, Credentials{}, err
	}

	creds := Credentials{Username: s.GenerateUsername(p.Name), Password: s.defaultPassword}
	created := s.store.AddPerson(directory.NewDoctor(p, in.DoctorInfo).WithAccount(creds.Username, creds.Password))

	zerolog.Ctx(ctx).Info().Str("person_id", created.ID).Str("username", creds.Username).Msg("doctor registered")
	return created, creds, nil
}

// SelfRegisterDoctor is the public sign-up flow with a chosen login. New
// doctors start available.
func (s *Service) SelfRegisterDoctor(ctx context.Context, in DoctorInput, creds Credentials) (directory.Person, error) {
	creds.Username = strings.TrimSpace(creds.Username)
	if creds.Username == "" {
		return directory.Person{}, fmt.Errorf("%w: username is required", ErrValidation)
	}
	if len(creds.Password) < minPasswordLength {
		return directory.Person{}, fmt.Errorf("%w: password must have at least %d characters", ErrValidation, minPasswordLength)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.store.UsernameTaken(creds.Username) {
		return directory.Person{}, fmt.Errorf("%w: %s", ErrUsernameTaken, creds.Username)
	}

	in.Available = true
	p, err := s.checkNewDoctor(in)
	if err != nil {
		return directory.Person{}, err
	}

	created := s.store.AddPerson(directory.NewDoctor(p, in.DoctorInfo).WithAccount(creds.Username, creds.Password))
	zerolog.Ctx(ctx).Info().Str("person_id", created.ID).Str("username", creds.Username).Msg("doctor signed up")
	return created, nil
}

func (s *Service) UpdatePatient(ctx context.Context, id string, in PatientInput) (directory.Person, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, err := s.find(id, directory.KindPatient)
	if err != nil {
		return directory.Person{}, err
	}

	p := normalizeProfile(in.Profile)
	if err := validateProfile(p); err != nil {
		return directory.Person{}, err
	}
	if s.store.DocumentTaken(directory.KindPatient, p.Document, id) {
		return directory.Person{}, fmt.Errorf("%w: another patient has document %s", ErrDuplicateDocument, p.Document)
	}

	p.ID = id
	existing.Profile = p
	info := in.PatientInfo
	info.Address = strings.TrimSpace(info.Address)
	existing.Patient = &info

	updated, err := s.store.UpdatePerson(existing)
	if err != nil {
		return directory.Person{}, err
	}
	zerolog.Ctx(ctx).Info().Str("person_id", id).Msg("patient updated")
	return updated, nil
}

func (s *Service) UpdateDoctor(ctx context.Context, id string, in DoctorInput) (directory.Person, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, err := s.find(id, directory.KindDoctor)
	if err != nil {
		return directory.Person{}, err
	}

	p := normalizeProfile(in.Profile)
	if err := validateDoctor(p, in.DoctorInfo); err != nil {
		return directory.Person{}, err
	}
	if s.store.DocumentTaken(directory.KindDoctor, p.Document, id) {
		return directory.Person{}, fmt.Errorf("%w: another doctor has document %s", ErrDuplicateDocument, p.Document)
	}

	p.ID = id
	existing.Profile = p
	info := in.DoctorInfo
	info.License = strings.TrimSpace(info.License)
	existing.Doctor = &info

	updated, err := s.store.UpdatePerson(existing)
	if err != nil {
		return directory.Person{}, err
	}
	zerolog.Ctx(ctx).Info().Str("person_id", id).Bool("available", info.Available).Msg("doctor updated")
	return updated, nil
}

func (s *Service) DeletePatient(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.find(id, directory.KindPatient); err != nil {
		return err
	}
	if err := s.store.RemovePerson(id); err != nil {
		return err
	}
	zerolog.Ctx(ctx).Info().Str("person_id", id).Msg("patient deleted")
	return nil
}

// DeleteDoctor refuses while any appointment, in any status, references
// the doctor.
func (s *Service) DeleteDoctor(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.find(id, directory.KindDoctor); err != nil {
		return err
	}
	if n := len(s.store.AppointmentsByDoctor(id)); n > 0 {
		return fmt.Errorf("%w: %d appointment(s)", ErrDoctorHasBookings, n)
	}
	if err := s.store.RemovePerson(id); err != nil {
		return err
	}
	zerolog.Ctx(ctx).Info().Str("person_id", id).Msg("doctor deleted")
	return nil
}

// GenerateUsername lowercases the first word of name and appends 1, 2, ...
// until no account uses it, ignoring case.
func (s *Service) GenerateUsername(name string) string {
	base := "user"
	if fields := strings.Fields(strings.ToLower(name)); len(fields) > 0 {
		base = fields[0]
	}

	candidate := base
	for n := 1; s.store.UsernameTaken(candidate); n++ {
		candidate = fmt.Sprintf("%s%d", base, n)
	}
	return candidate
}

func (s *Service) checkNewDoctor(in DoctorInput) (directory.Profile, error) {
	p := normalizeProfile(in.Profile)
	if err := validateDoctor(p, in.DoctorInfo); err != nil {
		return directory.Profile{}, err
	}
	if s.store.DocumentTaken(directory.KindDoctor, p.Document, "") {
		return directory.Profile{}, fmt.Errorf("%w: doctor with document %s", ErrDuplicateDocument, p.Document)
	}
	p.ID = s.store.NextID(directory.DoctorPrefix, directory.PersonIDWidth)
	return p, nil
}

func (s *Service) find(id string, kind directory.Kind) (directory.Person, error) {
	p, err := s.store.FindPerson(id)
	if err != nil {
		return directory.Person{}, err
	}
	if p.Kind != kind {
		return directory.Person{}, fmt.Errorf("%w: %s is a %s", ErrWrongKind, id, p.Kind)
	}
	return p, nil
}

func normalizeProfile(p directory.Profile) directory.Profile {
	return directory.Profile{
		ID:       p.ID,
		Document: strings.TrimSpace(p.Document),
		Name:     strings.TrimSpace(p.Name),
		Email:    strings.TrimSpace(p.Email),
		Phone:    strings.TrimSpace(p.Phone),
	}
}

func validateProfile(p directory.Profile) error {
	switch {
	case p.Name == "":
		return fmt.Errorf("%w: name is required", ErrValidation)
	case p.Document == "":
		return fmt.Errorf("%w: document is required", ErrValidation)
	case p.Email == "" || !emailPattern.MatchString(p.Email):
		return fmt.Errorf("%w: a valid email is required", ErrValidation)
	case p.Phone == "":
		return fmt.Errorf("%w: phone is required", ErrValidation)
	}
	return nil
}

func validateDoctor(p directory.Profile, info directory.DoctorInfo) error {
	if err := validateProfile(p); err != nil {
		return err
	}
	if strings.TrimSpace(info.License) == "" {
		return fmt.Errorf("%w: medical license is required", ErrValidation)
	}
	if !info.Specialty.Valid() {
		return fmt.Errorf("%w: a valid specialty is required", ErrValidation)
	}
	return nil
}
