package lesson

import (
	"github.com/pkg/errors"

	"github.com/trezcool/darasa/core"
	"github.com/trezcool/darasa/core/account"
)

var (
	// errors
	ErrNotFound = core.NewNotFoundError("lesson not found")
)

type (
	Repository interface {
		CreateLesson(l Lesson) (Lesson, error)
		GetLessonByID(id string) (Lesson, error)
		QueryAllLessons() ([]Lesson, error)
		QueryLessonsByUser(userID string) ([]Lesson, error)
		QueryLessonsByInstructor(instructorID string) ([]Lesson, error)
		// UpdateLesson applies fn to the stored lesson under the write lock.
		// Nothing is changed when fn fails.
		UpdateLesson(id string, fn func(*Lesson) error) (Lesson, error)
	}

	Service interface {
		Request(userID string, req Request) (Lesson, account.Instructor, error)
		ForUser(userID string) ([]Lesson, error)
		ForInstructor(instructorID string) ([]Lesson, error)
		All() ([]Lesson, error)
		UpdateStatus(actorID string, su StatusUpdate) (Lesson, error)
		InstructorsBySubject(subject string) ([]account.Instructor, error)
	}

	service struct {
		repo     Repository
		acctSvc  account.Service
		notifier core.Notifier
	}
)

var _ Service = (*service)(nil)

func NewService(repo Repository, acctSvc account.Service, notifier core.Notifier) Service {
	return &service{
		repo:     repo,
		acctSvc:  acctSvc,
		notifier: notifier,
	}
}

// Request books a pending lesson with the resolved instructor and notifies them.
func (svc *service) Request(userID string, req Request) (Lesson, account.Instructor, error) {
	instructors, err := svc.acctSvc.QueryInstructors()
	if err != nil {
		return Lesson{}, account.Instructor{}, errors.Wrap(err, "querying instructors")
	}
	inst, err := Resolve(req, instructors)
	if err != nil {
		return Lesson{}, account.Instructor{}, err
	}

	lsn, err := svc.repo.CreateLesson(Lesson{
		ID:           core.NewID("lesson"),
		UserID:       userID,
		InstructorID: inst.ID,
		Subject:      req.Subject,
		Time:         req.Time,
		Status:       StatusPending,
	})
	if err != nil {
		return Lesson{}, account.Instructor{}, errors.Wrap(err, "creating lesson")
	}

	svc.notifier.Notify(&core.Notification{
		To:           []core.Recipient{{ID: inst.ID, Name: inst.Name, Email: inst.Email}},
		Subject:      "New lesson request",
		TemplateName: "lesson_requested",
		TemplateData: map[string]interface{}{
			"InstructorName": inst.Name,
			"Subject":        lsn.Subject,
			"Time":           lsn.Time,
		},
	})
	return lsn, inst, nil
}

func (svc *service) ForUser(userID string) ([]Lesson, error) {
	return svc.repo.QueryLessonsByUser(userID)
}

func (svc *service) ForInstructor(instructorID string) ([]Lesson, error) {
	return svc.repo.QueryLessonsByInstructor(instructorID)
}

func (svc *service) All() ([]Lesson, error) {
	return svc.repo.QueryAllLessons()
}

// UpdateStatus confirms or cancels a pending lesson of the acting instructor and notifies the learner.
func (svc *service) UpdateStatus(actorID string, su StatusUpdate) (Lesson, error) {
	lsn, err := svc.repo.UpdateLesson(su.LessonID, func(l *Lesson) error {
		return l.Transition(actorID, su.Status)
	})
	if err != nil {
		return Lesson{}, err
	}

	to := core.Recipient{ID: lsn.UserID}
	if usr, err := svc.acctSvc.GetUser(lsn.UserID); err == nil {
		to.Name, to.Email = usr.Name, usr.Email
	}
	svc.notifier.Notify(&core.Notification{
		To:           []core.Recipient{to},
		Subject:      "Lesson " + string(lsn.Status),
		TemplateName: "lesson_status",
		TemplateData: map[string]interface{}{
			"Status": lsn.Status,
			"UserID": lsn.UserID,
		},
	})
	return lsn, nil
}

func (svc *service) InstructorsBySubject(subject string) ([]account.Instructor, error) {
	subject = core.CleanString(subject)
	if subject == "" {
		return nil, core.NewValidationError(nil, core.FieldError{Field: "subject", Error: "this field is required"})
	}
	return svc.acctSvc.QueryInstructorsBySubject(subject)
}
