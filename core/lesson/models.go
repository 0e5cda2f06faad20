package lesson

import (
	"github.com/go-playground/validator/v10"

	"github.com/trezcool/darasa/core"
)

type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusCancelled Status = "cancelled"
)

type Lesson struct {
	ID           string `json:"id"`
	UserID       string `json:"userId"`
	InstructorID string `json:"instructorId"`
	Subject      string `json:"subject"`
	Time         string `json:"time"`
	Status       Status `json:"status"`
}

var (
	errNotLessonInstructor = core.NewForbiddenError("only the lesson's instructor can update its status")
	errInvalidStatus       = core.NewValidationError(nil, core.FieldError{Field: "status", Error: "status must be confirmed or cancelled"})
)

// Transition moves a pending lesson to confirmed or cancelled on behalf of actorID.
// Checks run in order: ownership, target status, then current status. The lesson is left untouched on error.
func (l *Lesson) Transition(actorID string, to Status) error {
	if actorID != l.InstructorID {
		return errNotLessonInstructor
	}
	if to != StatusConfirmed && to != StatusCancelled {
		return errInvalidStatus
	}
	if l.Status != StatusPending {
		return core.NewValidationError(nil, core.FieldError{Field: "status", Error: "lesson is already " + string(l.Status)})
	}
	l.Status = to
	return nil
}

// Request asks for a lesson on a subject at a given time.
// Without InstructorID the first available instructor is picked.
type Request struct {
	Subject      string `json:"subject" validate:"required"`
	Time         string `json:"time" validate:"required"`
	InstructorID string `json:"instructorId"`
}

func (r *Request) Validate(validate *validator.Validate) error {
	r.Subject = core.CleanString(r.Subject)
	r.Time = core.CleanString(r.Time)
	r.InstructorID = core.CleanString(r.InstructorID)
	return validate.Struct(r)
}

type StatusUpdate struct {
	LessonID string `json:"lessonId" validate:"required"`
	Status   Status `json:"status" validate:"required,oneof=confirmed cancelled"`
}

func (su *StatusUpdate) Validate(validate *validator.Validate) error {
	su.LessonID = core.CleanString(su.LessonID)
	su.Status = Status(core.CleanString(string(su.Status), true /* lower */))
	return validate.Struct(su)
}
