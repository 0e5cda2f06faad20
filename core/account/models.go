package account

import (
	"github.com/go-playground/validator/v10"
	"golang.org/x/crypto/bcrypt"

	"github.com/trezcool/darasa/core"
)

// Role tells which kind of account a record is.
// Each kind lives in its own collection, which is the only source of truth for the role.
type Role string

const (
	RoleUser       Role = "user"
	RoleInstructor Role = "instructor"
	RoleAdmin      Role = "admin"
)

var AllRoles = []Role{RoleUser, RoleInstructor, RoleAdmin}

func (r Role) Valid() bool {
	for _, role := range AllRoles {
		if r == role {
			return true
		}
	}
	return false
}

// Account holds what every kind of account has in common.
type Account struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Email        string `json:"email"`
	Role         Role   `json:"role"`
	PasswordHash []byte `json:"-"`
}

func (a *Account) SetPassword(pwd string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(pwd), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	a.PasswordHash = hash
	return nil
}

func (a *Account) CheckPassword(pwd string) error {
	return bcrypt.CompareHashAndPassword(a.PasswordHash, []byte(pwd))
}

func (a *Account) IsUser() bool       { return a.Role == RoleUser }
func (a *Account) IsInstructor() bool { return a.Role == RoleInstructor }
func (a *Account) IsAdmin() bool      { return a.Role == RoleAdmin }

// User is a learner: the only kind that buys courses and requests lessons.
type User struct {
	Account
	PurchasedCourses []string `json:"purchasedCourses"`
}

func (u *User) HasPurchased(courseID string) bool {
	return core.ContainsString(u.PurchasedCourses, courseID)
}

type Instructor struct {
	Account
	Subject      string   `json:"subject"`
	Availability []string `json:"availability"`
}

type Admin struct {
	Account
}

// NewUser contains information needed to register a new User.
type NewUser struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
	Role     Role   `json:"role" validate:"omitempty,userrole"`
}

func (nu *NewUser) Validate(validate *validator.Validate, svc Service) error {
	nu.Name = core.CleanString(nu.Name)
	nu.Email = core.CleanString(nu.Email, true /* lower */)
	nu.Role = Role(core.CleanString(string(nu.Role), true /* lower */))

	if err := validate.Struct(nu); err != nil {
		return err
	}
	return svc.CheckUniqueness(nu.Email)
}

// NewAccount contains information needed to add an account of any kind.
// Only the maintenance tooling uses it, so the password policy does not apply.
type NewAccount struct {
	Role         Role     `json:"role" validate:"required,accountrole"`
	Name         string   `json:"name" validate:"required"`
	Email        string   `json:"email" validate:"required,email"`
	Password     string   `json:"password" validate:"required"`
	Subject      string   `json:"subject" validate:"required_if=Role instructor"`
	Availability []string `json:"availability" validate:"dive,notblank"`
}

func (na *NewAccount) Validate(validate *validator.Validate, svc Service) error {
	na.Role = Role(core.CleanString(string(na.Role), true /* lower */))
	na.Name = core.CleanString(na.Name)
	na.Email = core.CleanString(na.Email, true /* lower */)
	na.Subject = core.CleanString(na.Subject)
	for i, slot := range na.Availability {
		na.Availability[i] = core.CleanString(slot)
	}

	if err := validate.Struct(na); err != nil {
		return err
	}
	return svc.CheckUniqueness(na.Email)
}

// Login holds the credentials of any kind of account.
type Login struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

func (l *Login) Validate(validate *validator.Validate) error {
	l.Email = core.CleanString(l.Email, true /* lower */)
	return validate.Struct(l)
}
