package course

import (
	"github.com/pkg/errors"

	"github.com/trezcool/darasa/core"
	"github.com/trezcool/darasa/core/account"
)

var (
	// errors
	ErrNotFound = core.NewNotFoundError("course not found")
)

type (
	Repository interface {
		CreateCourse(c Course) (Course, error)
		QueryAllCourses() ([]Course, error)
		GetCourseByID(id string) (Course, error)
		QueryCoursesByInstructor(instructorID string) ([]Course, error)
		QueryCoursesByID(ids ...string) ([]Course, error)
		// UpdateCourse applies fn to the stored course under the write lock.
		UpdateCourse(id string, fn func(*Course) error) (Course, error)
		// DeleteCourse also removes the course from every user's purchased courses.
		DeleteCourse(id string) error
		// CompletePurchase enrolls the user, records the course as purchased and stores pmt in one operation.
		// pmt is stored even when the course or the user is gone by then.
		// Both enrollment lists are left without duplicates.
		CompletePurchase(courseID, userID string, pmt Payment) (Course, error)
		QueryPaymentsByUser(userID string) ([]Payment, error)
	}

	Service interface {
		QueryAll() ([]Course, error)
		GetByID(id string) (Course, error)
		QueryByInstructor(instructorID string) ([]Course, error)
		QueryPurchased(userID string) ([]Course, error)
		Create(nc NewCourse) (Course, error)
		Update(id string, uc UpdateCourse) (Course, error)
		Delete(id string) error
		Purchase(userID string, p Purchase) (Receipt, error)
		History(userID string) ([]Payment, error)
	}

	service struct {
		repo    Repository
		acctSvc account.Service
		gateway Gateway
	}
)

var _ Service = (*service)(nil)

func NewService(repo Repository, acctSvc account.Service, gateway Gateway) Service {
	return &service{
		repo:    repo,
		acctSvc: acctSvc,
		gateway: gateway,
	}
}

func (svc *service) QueryAll() ([]Course, error) {
	return svc.repo.QueryAllCourses()
}

func (svc *service) GetByID(id string) (Course, error) {
	return svc.repo.GetCourseByID(id)
}

func (svc *service) QueryByInstructor(instructorID string) ([]Course, error) {
	return svc.repo.QueryCoursesByInstructor(instructorID)
}

func (svc *service) QueryPurchased(userID string) ([]Course, error) {
	usr, err := svc.acctSvc.GetUser(userID)
	if err != nil {
		if core.IsNotFound(err) {
			return []Course{}, nil
		}
		return nil, errors.Wrap(err, "finding user")
	}
	if len(usr.PurchasedCourses) == 0 {
		return []Course{}, nil
	}
	return svc.repo.QueryCoursesByID(usr.PurchasedCourses...)
}

func (svc *service) Create(nc NewCourse) (Course, error) {
	if _, err := svc.acctSvc.GetInstructor(nc.InstructorID); err != nil {
		return Course{}, err
	}
	return svc.repo.CreateCourse(Course{
		ID:           core.NewID("course"),
		Title:        nc.Title,
		Description:  nc.Description,
		InstructorID: nc.InstructorID,
		Price:        *nc.Price,
		Students:     []string{},
	})
}

func (svc *service) Update(id string, uc UpdateCourse) (Course, error) {
	if uc.InstructorID != nil {
		if _, err := svc.acctSvc.GetInstructor(*uc.InstructorID); err != nil {
			return Course{}, err
		}
	}
	return svc.repo.UpdateCourse(id, func(c *Course) error {
		uc.apply(c)
		return nil
	})
}

func (svc *service) Delete(id string) error {
	return svc.repo.DeleteCourse(id)
}

// Purchase charges the user for the course and enrolls them.
// Nothing is charged when the course or the user does not exist.
func (svc *service) Purchase(userID string, p Purchase) (Receipt, error) {
	crs, err := svc.repo.GetCourseByID(p.CourseID)
	if err != nil {
		return Receipt{}, err
	}
	if _, err := svc.acctSvc.GetUser(userID); err != nil {
		return Receipt{}, err
	}

	res := svc.gateway.Charge(crs.Price, p.CardDetails)
	if !res.Success {
		return Receipt{}, &PaymentError{Details: res.Error, Code: res.ErrorCode}
	}

	pmt := Payment{
		TransactionID: res.TransactionID,
		UserID:        userID,
		CourseID:      crs.ID,
		CourseTitle:   crs.Title,
		Amount:        res.Amount,
		Status:        res.Status,
		Timestamp:     res.Timestamp,
	}
	crs, err = svc.repo.CompletePurchase(crs.ID, userID, pmt)
	if err != nil {
		if core.IsNotFound(err) {
			return Receipt{}, err
		}
		return Receipt{}, errors.Wrap(err, "completing purchase")
	}
	return Receipt{Course: crs, Payment: pmt}, nil
}

func (svc *service) History(userID string) ([]Payment, error) {
	return svc.repo.QueryPaymentsByUser(userID)
}
