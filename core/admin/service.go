package admin

import (
	"github.com/pkg/errors"

	"github.com/trezcool/darasa/core/account"
	"github.com/trezcool/darasa/core/course"
	"github.com/trezcool/darasa/core/lesson"
)

type Stats struct {
	UserCount       int     `json:"userCount"`
	InstructorCount int     `json:"instructorCount"`
	AdminCount      int     `json:"adminCount"`
	CourseCount     int     `json:"courseCount"`
	LessonCount     int     `json:"lessonCount"`
	TotalRevenue    float64 `json:"totalRevenue"`
}

type (
	Service interface {
		Stats() (Stats, error)
	}

	service struct {
		acctSvc   account.Service
		courseSvc course.Service
		lessonSvc lesson.Service
	}
)

var _ Service = (*service)(nil)

func NewService(acctSvc account.Service, courseSvc course.Service, lessonSvc lesson.Service) Service {
	return &service{
		acctSvc:   acctSvc,
		courseSvc: courseSvc,
		lessonSvc: lessonSvc,
	}
}

// Stats counts every collection. TotalRevenue sums price times enrolled students over all courses.
func (svc *service) Stats() (Stats, error) {
	users, err := svc.acctSvc.QueryUsers()
	if err != nil {
		return Stats{}, errors.Wrap(err, "querying users")
	}
	instructors, err := svc.acctSvc.QueryInstructors()
	if err != nil {
		return Stats{}, errors.Wrap(err, "querying instructors")
	}
	admins, err := svc.acctSvc.QueryAdmins()
	if err != nil {
		return Stats{}, errors.Wrap(err, "querying admins")
	}
	courses, err := svc.courseSvc.QueryAll()
	if err != nil {
		return Stats{}, errors.Wrap(err, "querying courses")
	}
	lessons, err := svc.lessonSvc.All()
	if err != nil {
		return Stats{}, errors.Wrap(err, "querying lessons")
	}

	stats := Stats{
		UserCount:       len(users),
		InstructorCount: len(instructors),
		AdminCount:      len(admins),
		CourseCount:     len(courses),
		LessonCount:     len(lessons),
	}
	for _, crs := range courses {
		stats.TotalRevenue += crs.Revenue()
	}
	return stats, nil
}
