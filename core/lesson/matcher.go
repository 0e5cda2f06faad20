package lesson

import (
	"strings"

	"github.com/trezcool/darasa/core"
	"github.com/trezcool/darasa/core/account"
)

var (
	ErrInstructorNotFound    = core.NewNotFoundError("selected instructor not found")
	ErrNoAvailableInstructor = core.NewNotFoundError("no available instructors for the requested subject and time")
)

// DayToken returns the part of a requested time before its first space, eg. "Monday" for "Monday 10:00".
func DayToken(requestedTime string) string {
	return strings.SplitN(requestedTime, " ", 2)[0]
}

// Match returns, in collection order, the instructors teaching subject (exact match)
// with at least one availability slot containing the day token of requestedTime.
func Match(subject, requestedTime string, instructors []account.Instructor) []account.Instructor {
	day := DayToken(requestedTime)
	matches := make([]account.Instructor, 0)
	for _, inst := range instructors {
		if inst.Subject != subject {
			continue
		}
		for _, slot := range inst.Availability {
			if strings.Contains(slot, day) {
				matches = append(matches, inst)
				break
			}
		}
	}
	return matches
}

// Resolve picks the instructor for req.
// An explicit InstructorID bypasses matching; otherwise the first candidate wins.
func Resolve(req Request, instructors []account.Instructor) (account.Instructor, error) {
	if req.InstructorID != "" {
		for _, inst := range instructors {
			if inst.ID == req.InstructorID {
				return inst, nil
			}
		}
		return account.Instructor{}, ErrInstructorNotFound
	}

	candidates := Match(req.Subject, req.Time, instructors)
	if len(candidates) == 0 {
		return account.Instructor{}, ErrNoAvailableInstructor
	}
	return candidates[0], nil
}
