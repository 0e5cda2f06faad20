package jsondb

import (
	"github.com/trezcool/darasa/core/account"
	"github.com/trezcool/darasa/core/course"
	"github.com/trezcool/darasa/core/lesson"
)

// document is the layout of the backing file.
type document struct {
	Users       []userRecord       `json:"users"`
	Instructors []instructorRecord `json:"instructors"`
	Admins      []adminRecord      `json:"admins"`
	Courses     []course.Course    `json:"courses"`
	Lessons     []lesson.Lesson    `json:"lessons"`
	Payments    []course.Payment   `json:"payments"`
}

type (
	userRecord struct {
		ID               string   `json:"id"`
		Name             string   `json:"name"`
		Email            string   `json:"email"`
		Password         string   `json:"password"`
		Role             string   `json:"role"`
		PurchasedCourses []string `json:"purchasedCourses"`
	}

	instructorRecord struct {
		ID           string   `json:"id"`
		Name         string   `json:"name"`
		Email        string   `json:"email"`
		Password     string   `json:"password"`
		Subject      string   `json:"subject"`
		Availability []string `json:"availability"`
	}

	adminRecord struct {
		ID       string `json:"id"`
		Name     string `json:"name"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
)

// fromDocument must be called with the write lock held.
// Roles come from the collection a record is found in, whatever the file says.
func (db *DB) fromDocument(doc document) {
	db.reset()
	for _, r := range doc.Users {
		db.users = append(db.users, &account.User{
			Account:          account.Account{ID: r.ID, Name: r.Name, Email: r.Email, Role: account.RoleUser, PasswordHash: []byte(r.Password)},
			PurchasedCourses: nonNil(r.PurchasedCourses),
		})
	}
	for _, r := range doc.Instructors {
		db.instructors = append(db.instructors, &account.Instructor{
			Account:      account.Account{ID: r.ID, Name: r.Name, Email: r.Email, Role: account.RoleInstructor, PasswordHash: []byte(r.Password)},
			Subject:      r.Subject,
			Availability: nonNil(r.Availability),
		})
	}
	for _, r := range doc.Admins {
		db.admins = append(db.admins, &account.Admin{
			Account: account.Account{ID: r.ID, Name: r.Name, Email: r.Email, Role: account.RoleAdmin, PasswordHash: []byte(r.Password)},
		})
	}
	for i := range doc.Courses {
		c := doc.Courses[i]
		c.Students = nonNil(c.Students)
		db.courses = append(db.courses, &c)
	}
	for i := range doc.Lessons {
		l := doc.Lessons[i]
		db.lessons = append(db.lessons, &l)
	}
	for i := range doc.Payments {
		p := doc.Payments[i]
		db.payments = append(db.payments, &p)
	}
}

// toDocument must be called with the read lock held.
func (db *DB) toDocument() document {
	doc := document{
		Users:       make([]userRecord, 0, len(db.users)),
		Instructors: make([]instructorRecord, 0, len(db.instructors)),
		Admins:      make([]adminRecord, 0, len(db.admins)),
		Courses:     make([]course.Course, 0, len(db.courses)),
		Lessons:     make([]lesson.Lesson, 0, len(db.lessons)),
		Payments:    make([]course.Payment, 0, len(db.payments)),
	}
	for _, u := range db.users {
		doc.Users = append(doc.Users, userRecord{
			ID:               u.ID,
			Name:             u.Name,
			Email:            u.Email,
			Password:         string(u.PasswordHash),
			Role:             string(account.RoleUser),
			PurchasedCourses: u.PurchasedCourses,
		})
	}
	for _, i := range db.instructors {
		doc.Instructors = append(doc.Instructors, instructorRecord{
			ID:           i.ID,
			Name:         i.Name,
			Email:        i.Email,
			Password:     string(i.PasswordHash),
			Subject:      i.Subject,
			Availability: i.Availability,
		})
	}
	for _, a := range db.admins {
		doc.Admins = append(doc.Admins, adminRecord{ID: a.ID, Name: a.Name, Email: a.Email, Password: string(a.PasswordHash)})
	}
	for _, c := range db.courses {
		doc.Courses = append(doc.Courses, *c)
	}
	for _, l := range db.lessons {
		doc.Lessons = append(doc.Lessons, *l)
	}
	for _, p := range db.payments {
		doc.Payments = append(doc.Payments, *p)
	}
	return doc
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func copyStrings(s []string) []string {
	return append(make([]string, 0, len(s)), s...)
}

func copyAccount(a account.Account) account.Account {
	a.PasswordHash = append([]byte(nil), a.PasswordHash...)
	return a
}

func copyUser(u *account.User) account.User {
	return account.User{Account: copyAccount(u.Account), PurchasedCourses: copyStrings(u.PurchasedCourses)}
}

func copyInstructor(i *account.Instructor) account.Instructor {
	return account.Instructor{Account: copyAccount(i.Account), Subject: i.Subject, Availability: copyStrings(i.Availability)}
}

func copyAdmin(a *account.Admin) account.Admin {
	return account.Admin{Account: copyAccount(a.Account)}
}

func copyCourse(c *course.Course) course.Course {
	cp := *c
	cp.Students = copyStrings(c.Students)
	return cp
}
