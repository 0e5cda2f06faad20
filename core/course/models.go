package course

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/trezcool/darasa/core"
)

type Course struct {
	ID           string   `json:"id"`
	Title        string   `json:"title"`
	Description  string   `json:"description"`
	InstructorID string   `json:"instructor"`
	Price        float64  `json:"price"`
	Students     []string `json:"students"`
}

func (c *Course) HasStudent(userID string) bool {
	return core.ContainsString(c.Students, userID)
}

// Revenue is what the course earned from its enrolled students.
func (c *Course) Revenue() float64 {
	return c.Price * float64(len(c.Students))
}

// NewCourse contains information needed to create a new Course.
type NewCourse struct {
	Title        string   `json:"title" validate:"required"`
	Description  string   `json:"description" validate:"required"`
	InstructorID string   `json:"instructorId" validate:"required"`
	Price        *float64 `json:"price" validate:"required,min=0"`
}

func (nc *NewCourse) Validate(validate *validator.Validate) error {
	nc.Title = core.CleanString(nc.Title)
	nc.Description = core.CleanString(nc.Description)
	nc.InstructorID = core.CleanString(nc.InstructorID)
	return validate.Struct(nc)
}

// UpdateCourse defines what information may be provided to modify an existing Course.
// Nil fields are left untouched; provided text fields cannot be blank.
type UpdateCourse struct {
	Title        *string  `json:"title"`
	Description  *string  `json:"description"`
	InstructorID *string  `json:"instructorId"`
	Price        *float64 `json:"price" validate:"omitempty,min=0"`
}

func (uc *UpdateCourse) Validate(validate *validator.Validate) error {
	if err := validate.Struct(uc); err != nil {
		return err
	}

	var fldErrs []core.FieldError
	for name, fld := range map[string]*string{"title": uc.Title, "description": uc.Description, "instructorId": uc.InstructorID} {
		if fld == nil {
			continue
		}
		if *fld = core.CleanString(*fld); *fld == "" {
			fldErrs = append(fldErrs, core.FieldError{Field: name, Error: "this field cannot be blank"})
		}
	}
	if len(fldErrs) > 0 {
		return core.NewValidationError(nil, fldErrs...)
	}
	return nil
}

func (uc *UpdateCourse) apply(c *Course) {
	if uc.Title != nil {
		c.Title = *uc.Title
	}
	if uc.Description != nil {
		c.Description = *uc.Description
	}
	if uc.InstructorID != nil {
		c.InstructorID = *uc.InstructorID
	}
	if uc.Price != nil {
		c.Price = *uc.Price
	}
}

type CardDetails struct {
	CardNumber string `json:"cardNumber"`
	Expiry     string `json:"expiry"`
	CVV        string `json:"cvv"`
}

// Purchase is a request to buy a course with a card.
type Purchase struct {
	CourseID    string       `json:"courseId" validate:"required"`
	CardDetails *CardDetails `json:"cardDetails" validate:"required"`
}

func (p *Purchase) Validate(validate *validator.Validate) error {
	p.CourseID = core.CleanString(p.CourseID)
	return validate.Struct(p)
}

const PaymentCompleted = "completed"

// Payment is the record kept for every successful purchase.
type Payment struct {
	TransactionID string    `json:"transactionId"`
	UserID        string    `json:"userId"`
	CourseID      string    `json:"courseId"`
	CourseTitle   string    `json:"courseTitle"`
	Amount        float64   `json:"amount"`
	Status        string    `json:"status"`
	Timestamp     time.Time `json:"timestamp"`
}

// Receipt is what a successful purchase returns.
type Receipt struct {
	Course  Course
	Payment Payment
}
