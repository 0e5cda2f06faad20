package account

import (
	"github.com/pkg/errors"

	"github.com/trezcool/darasa/core"
)

var (
	// errors
	ErrNotFound           = core.NewNotFoundError("account not found")
	ErrUserNotFound       = core.NewNotFoundError("user not found")
	ErrInstructorNotFound = core.NewNotFoundError("instructor not found")
	ErrAdminNotFound      = core.NewNotFoundError("admin not found")
	ErrEmailExists        = errors.New("an account with this email already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

type (
	Repository interface {
		// CheckEmailUniqueness returns ErrEmailExists if any kind of account uses email.
		CheckEmailUniqueness(email string) error
		// Create* fail with ErrEmailExists, checked under the same write lock.
		CreateUser(usr User) (User, error)
		CreateInstructor(inst Instructor) (Instructor, error)
		CreateAdmin(adm Admin) (Admin, error)
		// GetAccountByEmail searches users, then instructors, then admins.
		GetAccountByEmail(email string) (Account, error)
		GetUserByID(id string) (User, error)
		GetInstructorByID(id string) (Instructor, error)
		GetAdminByID(id string) (Admin, error)
		QueryAllUsers() ([]User, error)
		QueryAllInstructors() ([]Instructor, error)
		QueryAllAdmins() ([]Admin, error)
		QueryInstructorsBySubject(subject string) ([]Instructor, error)
		UpdatePassword(acct Account) error
		// UpdateAllPasswords sets hash on every account of every kind and returns how many were updated.
		UpdateAllPasswords(hash []byte) (int, error)
	}

	Service interface {
		CheckUniqueness(email string) error
		Register(nu NewUser) (User, error)
		Add(na NewAccount) (Account, error)
		Authenticate(email, pwd string) (Account, error)
		// GetAccount returns the full record (User, Instructor or Admin) of the account with id and role.
		GetAccount(id string, role Role) (interface{}, error)
		GetUser(id string) (User, error)
		GetInstructor(id string) (Instructor, error)
		QueryUsers() ([]User, error)
		QueryInstructors() ([]Instructor, error)
		QueryInstructorsBySubject(subject string) ([]Instructor, error)
		QueryAdmins() ([]Admin, error)
		ResetPassword(email, pwd string) error
		ResetAllPasswords(pwd string) (int, error)
	}

	service struct {
		repo Repository
	}
)

var _ Service = (*service)(nil)

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (svc *service) CheckUniqueness(email string) error {
	if err := svc.repo.CheckEmailUniqueness(email); err != nil {
		if err == ErrEmailExists {
			return core.NewValidationError(err, core.FieldError{Field: "email", Error: err.Error()})
		}
		return err
	}
	return nil
}

func (svc *service) Register(nu NewUser) (User, error) {
	usr := User{
		Account: Account{
			ID:    core.NewID(string(RoleUser)),
			Name:  nu.Name,
			Email: nu.Email,
			Role:  RoleUser,
		},
		PurchasedCourses: []string{},
	}
	if err := usr.SetPassword(nu.Password); err != nil {
		return User{}, errors.Wrap(err, "hashing password")
	}
	usr, err := svc.repo.CreateUser(usr)
	if err != nil {
		return User{}, svc.creationError(err)
	}
	return usr, nil
}

func (svc *service) Add(na NewAccount) (Account, error) {
	acct := Account{
		ID:    core.NewID(string(na.Role)),
		Name:  na.Name,
		Email: na.Email,
		Role:  na.Role,
	}
	if err := acct.SetPassword(na.Password); err != nil {
		return Account{}, errors.Wrap(err, "hashing password")
	}

	var err error
	switch na.Role {
	case RoleUser:
		_, err = svc.repo.CreateUser(User{Account: acct, PurchasedCourses: []string{}})
	case RoleInstructor:
		avail := na.Availability
		if avail == nil {
			avail = []string{}
		}
		_, err = svc.repo.CreateInstructor(Instructor{Account: acct, Subject: na.Subject, Availability: avail})
	case RoleAdmin:
		_, err = svc.repo.CreateAdmin(Admin{Account: acct})
	default:
		return Account{}, core.NewValidationError(nil, core.FieldError{Field: "role", Error: accountRoleText})
	}
	if err != nil {
		return Account{}, svc.creationError(err)
	}
	return acct, nil
}

func (svc *service) creationError(err error) error {
	if err == ErrEmailExists {
		return core.NewValidationError(err, core.FieldError{Field: "email", Error: err.Error()})
	}
	return errors.Wrap(err, "creating account")
}

func (svc *service) Authenticate(email, pwd string) (Account, error) {
	acct, err := svc.repo.GetAccountByEmail(core.CleanString(email, true /* lower */))
	if err != nil {
		if core.IsNotFound(err) {
			return Account{}, ErrInvalidCredentials
		}
		return Account{}, errors.Wrap(err, "finding account by email")
	}
	if err := acct.CheckPassword(pwd); err != nil {
		return Account{}, ErrInvalidCredentials
	}
	return acct, nil
}

func (svc *service) GetAccount(id string, role Role) (interface{}, error) {
	switch role {
	case RoleUser:
		return svc.repo.GetUserByID(id)
	case RoleInstructor:
		return svc.repo.GetInstructorByID(id)
	case RoleAdmin:
		return svc.repo.GetAdminByID(id)
	}
	return nil, ErrNotFound
}

func (svc *service) GetUser(id string) (User, error) {
	return svc.repo.GetUserByID(id)
}

func (svc *service) GetInstructor(id string) (Instructor, error) {
	return svc.repo.GetInstructorByID(id)
}

func (svc *service) QueryUsers() ([]User, error) {
	return svc.repo.QueryAllUsers()
}

func (svc *service) QueryInstructors() ([]Instructor, error) {
	return svc.repo.QueryAllInstructors()
}

func (svc *service) QueryInstructorsBySubject(subject string) ([]Instructor, error) {
	return svc.repo.QueryInstructorsBySubject(subject)
}

func (svc *service) QueryAdmins() ([]Admin, error) {
	return svc.repo.QueryAllAdmins()
}

func (svc *service) ResetPassword(email, pwd string) error {
	acct, err := svc.repo.GetAccountByEmail(core.CleanString(email, true /* lower */))
	if err != nil {
		return err
	}
	if err := acct.SetPassword(pwd); err != nil {
		return errors.Wrap(err, "hashing password")
	}
	return svc.repo.UpdatePassword(acct)
}

func (svc *service) ResetAllPasswords(pwd string) (int, error) {
	var acct Account
	if err := acct.SetPassword(pwd); err != nil {
		return 0, errors.Wrap(err, "hashing password")
	}
	return svc.repo.UpdateAllPasswords(acct.PasswordHash)
}
