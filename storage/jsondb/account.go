package jsondb

import (
	"strings"

	"github.com/trezcool/darasa/core/account"
)

type accountRepository struct {
	db *DB
}

var _ account.Repository = (*accountRepository)(nil)

func NewAccountRepository(db *DB) account.Repository {
	return &accountRepository{db: db}
}

// emailTaken must be called with a lock held.
func (repo *accountRepository) emailTaken(email string) bool {
	for _, u := range repo.db.users {
		if strings.EqualFold(u.Email, email) {
			return true
		}
	}
	for _, i := range repo.db.instructors {
		if strings.EqualFold(i.Email, email) {
			return true
		}
	}
	for _, a := range repo.db.admins {
		if strings.EqualFold(a.Email, email) {
			return true
		}
	}
	return false
}

func (repo *accountRepository) CheckEmailUniqueness(email string) error {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	if repo.emailTaken(email) {
		return account.ErrEmailExists
	}
	return nil
}

func (repo *accountRepository) CreateUser(usr account.User) (account.User, error) {
	repo.db.mu.Lock()
	if repo.emailTaken(usr.Email) {
		repo.db.mu.Unlock()
		return account.User{}, account.ErrEmailExists
	}
	usr.Role = account.RoleUser
	usr.PurchasedCourses = nonNil(usr.PurchasedCourses)
	stored := copyUser(&usr)
	repo.db.users = append(repo.db.users, &stored)
	repo.db.mu.Unlock()

	return usr, repo.db.written()
}

func (repo *accountRepository) CreateInstructor(inst account.Instructor) (account.Instructor, error) {
	repo.db.mu.Lock()
	if repo.emailTaken(inst.Email) {
		repo.db.mu.Unlock()
		return account.Instructor{}, account.ErrEmailExists
	}
	inst.Role = account.RoleInstructor
	inst.Availability = nonNil(inst.Availability)
	stored := copyInstructor(&inst)
	repo.db.instructors = append(repo.db.instructors, &stored)
	repo.db.mu.Unlock()

	return inst, repo.db.written()
}

func (repo *accountRepository) CreateAdmin(adm account.Admin) (account.Admin, error) {
	repo.db.mu.Lock()
	if repo.emailTaken(adm.Email) {
		repo.db.mu.Unlock()
		return account.Admin{}, account.ErrEmailExists
	}
	adm.Role = account.RoleAdmin
	stored := copyAdmin(&adm)
	repo.db.admins = append(repo.db.admins, &stored)
	repo.db.mu.Unlock()

	return adm, repo.db.written()
}

// findAccount must be called with a lock held.
func (repo *accountRepository) findAccount(email string) *account.Account {
	for _, u := range repo.db.users {
		if strings.EqualFold(u.Email, email) {
			return &u.Account
		}
	}
	for _, i := range repo.db.instructors {
		if strings.EqualFold(i.Email, email) {
			return &i.Account
		}
	}
	for _, a := range repo.db.admins {
		if strings.EqualFold(a.Email, email) {
			return &a.Account
		}
	}
	return nil
}

func (repo *accountRepository) GetAccountByEmail(email string) (account.Account, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	if acct := repo.findAccount(email); acct != nil {
		return copyAccount(*acct), nil
	}
	return account.Account{}, account.ErrNotFound
}

func (repo *accountRepository) GetUserByID(id string) (account.User, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	for _, u := range repo.db.users {
		if u.ID == id {
			return copyUser(u), nil
		}
	}
	return account.User{}, account.ErrUserNotFound
}

func (repo *accountRepository) GetInstructorByID(id string) (account.Instructor, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	for _, i := range repo.db.instructors {
		if i.ID == id {
			return copyInstructor(i), nil
		}
	}
	return account.Instructor{}, account.ErrInstructorNotFound
}

func (repo *accountRepository) GetAdminByID(id string) (account.Admin, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	for _, a := range repo.db.admins {
		if a.ID == id {
			return copyAdmin(a), nil
		}
	}
	return account.Admin{}, account.ErrAdminNotFound
}

func (repo *accountRepository) QueryAllUsers() ([]account.User, error) {
	return repo.db.Snapshot().Users, nil
}

func (repo *accountRepository) QueryAllInstructors() ([]account.Instructor, error) {
	return repo.db.Snapshot().Instructors, nil
}

func (repo *accountRepository) QueryAllAdmins() ([]account.Admin, error) {
	return repo.db.Snapshot().Admins, nil
}

func (repo *accountRepository) QueryInstructorsBySubject(subject string) ([]account.Instructor, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	instructors := make([]account.Instructor, 0)
	for _, i := range repo.db.instructors {
		if i.Subject == subject {
			instructors = append(instructors, copyInstructor(i))
		}
	}
	return instructors, nil
}

func (repo *accountRepository) UpdatePassword(acct account.Account) error {
	repo.db.mu.Lock()
	stored := repo.findAccount(acct.Email)
	if stored == nil || stored.ID != acct.ID {
		repo.db.mu.Unlock()
		return account.ErrNotFound
	}
	stored.PasswordHash = append([]byte(nil), acct.PasswordHash...)
	repo.db.mu.Unlock()

	return repo.db.written()
}

func (repo *accountRepository) UpdateAllPasswords(hash []byte) (int, error) {
	repo.db.mu.Lock()
	var n int
	set := func(a *account.Account) {
		a.PasswordHash = append([]byte(nil), hash...)
		n++
	}
	for _, u := range repo.db.users {
		set(&u.Account)
	}
	for _, i := range repo.db.instructors {
		set(&i.Account)
	}
	for _, a := range repo.db.admins {
		set(&a.Account)
	}
	repo.db.mu.Unlock()

	return n, repo.db.written()
}
