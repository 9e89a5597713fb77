package appointment

import (
	"errors"
	"fmt"
)

// Code classifies a RuleViolation for callers that need to branch on it,
// such as the HTTP layer picking a status code.
type Code string

const (
	CodeMissingField      Code = "missing_field"
	CodeInvalidPrice      Code = "invalid_price"
	CodePastDate          Code = "past_date"
	CodeDoctorUnavailable Code = "doctor_unavailable"
	CodeSlotTaken         Code = "slot_taken"
	CodeInvalidTransition Code = "invalid_status_transition"
	CodeNotFound          Code = "appointment_not_found"
	CodeDuplicateID       Code = "duplicate_appointment_id"
)

// RuleViolation is the one error kind the service raises when a business
// rule rejects an operation.
type RuleViolation struct {
	Code    Code
	Message string
}

func (e *RuleViolation) Error() string {
	return e.Message
}

// Is matches any RuleViolation with the same code, so the sentinels below
// work with errors.Is.
func (e *RuleViolation) Is(target error) bool {
	var t *RuleViolation
	if !errors.As(target, &t) {
		return false
	}
	return t.Code == e.Code
}

var (
	ErrMissingField      = &RuleViolation{Code: CodeMissingField, Message: "mandatory field missing"}
	ErrInvalidPrice      = &RuleViolation{Code: CodeInvalidPrice, Message: "price cannot be negative"}
	ErrPastDate          = &RuleViolation{Code: CodePastDate, Message: "appointments cannot be scheduled in the past"}
	ErrDoctorUnavailable = &RuleViolation{Code: CodeDoctorUnavailable, Message: "doctor is not taking appointments"}
	ErrSlotTaken         = &RuleViolation{Code: CodeSlotTaken, Message: "doctor already has an appointment in that slot"}
	ErrInvalidTransition = &RuleViolation{Code: CodeInvalidTransition, Message: "invalid status transition"}
	ErrNotFound          = &RuleViolation{Code: CodeNotFound, Message: "appointment not found"}
	ErrDuplicateID       = &RuleViolation{Code: CodeDuplicateID, Message: "appointment id already exists"}
)

func violation(code Code, format string, args ...any) error {
	return &RuleViolation{Code: code, Message: fmt.Sprintf(format, args...)}
}
