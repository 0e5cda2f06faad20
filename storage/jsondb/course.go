package jsondb

import (
	"github.com/trezcool/darasa/core"
	"github.com/trezcool/darasa/core/account"
	"github.com/trezcool/darasa/core/course"
)

type courseRepository struct {
	db *DB
}

var _ course.Repository = (*courseRepository)(nil)

func NewCourseRepository(db *DB) course.Repository {
	return &courseRepository{db: db}
}

func (repo *courseRepository) CreateCourse(c course.Course) (course.Course, error) {
	repo.db.mu.Lock()
	c.Students = nonNil(c.Students)
	stored := copyCourse(&c)
	repo.db.courses = append(repo.db.courses, &stored)
	repo.db.mu.Unlock()

	return c, repo.db.written()
}

func (repo *courseRepository) QueryAllCourses() ([]course.Course, error) {
	return repo.db.Snapshot().Courses, nil
}

// find must be called with a lock held.
func (repo *courseRepository) find(id string) (int, *course.Course) {
	for idx, c := range repo.db.courses {
		if c.ID == id {
			return idx, c
		}
	}
	return -1, nil
}

func (repo *courseRepository) GetCourseByID(id string) (course.Course, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	if _, c := repo.find(id); c != nil {
		return copyCourse(c), nil
	}
	return course.Course{}, course.ErrNotFound
}

func (repo *courseRepository) QueryCoursesByInstructor(instructorID string) ([]course.Course, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	courses := make([]course.Course, 0)
	for _, c := range repo.db.courses {
		if c.InstructorID == instructorID {
			courses = append(courses, copyCourse(c))
		}
	}
	return courses, nil
}

func (repo *courseRepository) QueryCoursesByID(ids ...string) ([]course.Course, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	courses := make([]course.Course, 0, len(ids))
	for _, c := range repo.db.courses {
		if core.ContainsString(ids, c.ID) {
			courses = append(courses, copyCourse(c))
		}
	}
	return courses, nil
}

func (repo *courseRepository) UpdateCourse(id string, fn func(*course.Course) error) (course.Course, error) {
	repo.db.mu.Lock()
	_, stored := repo.find(id)
	if stored == nil {
		repo.db.mu.Unlock()
		return course.Course{}, course.ErrNotFound
	}
	updated := copyCourse(stored)
	if err := fn(&updated); err != nil {
		repo.db.mu.Unlock()
		return course.Course{}, err
	}
	updated.ID = stored.ID
	*stored = updated
	res := copyCourse(stored)
	repo.db.mu.Unlock()

	return res, repo.db.written()
}

func (repo *courseRepository) DeleteCourse(id string) error {
	repo.db.mu.Lock()
	idx, stored := repo.find(id)
	if stored == nil {
		repo.db.mu.Unlock()
		return course.ErrNotFound
	}
	repo.db.courses = append(repo.db.courses[:idx], repo.db.courses[idx+1:]...)
	for _, u := range repo.db.users {
		u.PurchasedCourses = removeString(u.PurchasedCourses, id)
	}
	repo.db.mu.Unlock()

	return repo.db.written()
}

func (repo *courseRepository) CompletePurchase(courseID, userID string, pmt course.Payment) (course.Course, error) {
	repo.db.mu.Lock()
	// the card was charged: the payment is kept even when enrollment fails
	repo.db.payments = append(repo.db.payments, &pmt)

	_, crs := repo.find(courseID)
	var usr *account.User
	for _, u := range repo.db.users {
		if u.ID == userID {
			usr = u
			break
		}
	}
	if crs == nil || usr == nil {
		repo.db.mu.Unlock()
		if err := repo.db.written(); err != nil {
			return course.Course{}, err
		}
		if crs == nil {
			return course.Course{}, course.ErrNotFound
		}
		return course.Course{}, account.ErrUserNotFound
	}

	if !usr.HasPurchased(courseID) {
		usr.PurchasedCourses = append(usr.PurchasedCourses, courseID)
	}
	if !crs.HasStudent(userID) {
		crs.Students = append(crs.Students, userID)
	}
	res := copyCourse(crs)
	repo.db.mu.Unlock()

	return res, repo.db.written()
}

func (repo *courseRepository) QueryPaymentsByUser(userID string) ([]course.Payment, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	payments := make([]course.Payment, 0)
	for _, p := range repo.db.payments {
		if p.UserID == userID {
			payments = append(payments, *p)
		}
	}
	return payments, nil
}

func removeString(list []string, s string) []string {
	res := list[:0]
	for _, item := range list {
		if item != s {
			res = append(res, item)
		}
	}
	return res
}
