package testutil

import (
	"path/filepath"
	"testing"
	"time"

	"go.uber.org/zap/zaptest"

	"github.com/trezcool/darasa/core"
	"github.com/trezcool/darasa/core/account"
	"github.com/trezcool/darasa/core/course"
	"github.com/trezcool/darasa/core/lesson"
	logsvc "github.com/trezcool/darasa/services/logger"
	"github.com/trezcool/darasa/storage/jsondb"
)

func NewConfig(t *testing.T) *core.Config {
	return &core.Config{
		Env:       "test",
		TestMode:  true,
		AppName:   "Darasa",
		Build:     "test",
		SecretKey: "test-secret",
		Server: core.ServerConfig{
			Host:                      "localhost",
			Addr:                      ":0",
			ReadTimeout:               5 * time.Second,
			WriteTimeout:              5 * time.Second,
			ShutdownTimeout:           5 * time.Second,
			JWTExpirationDelta:        15 * time.Minute,
			JWTRefreshExpirationDelta: 24 * time.Hour,
		},
		DB: core.DBConfig{
			Path:           filepath.Join(t.TempDir(), "db.json"),
			FlushInterval:  time.Minute,
			PersistOnWrite: true,
		},
		Payment: core.PaymentConfig{SuccessRate: 1},
	}
}

// NewLogger returns a logger writing to the test's log.
func NewLogger(t *testing.T) *logsvc.RollbarLogger {
	return logsvc.NewRollbarLogger(zaptest.NewLogger(t), NewConfig(t))
}

// OpenDB returns an empty DB persisting to a temporary file after each write.
func OpenDB(t *testing.T) *jsondb.DB {
	return jsondb.Open(filepath.Join(t.TempDir(), "db.json"), NewLogger(t), jsondb.WithPersistOnWrite(true))
}

func newAccount(t *testing.T, role account.Role, name, email, pwd string) account.Account {
	acct := account.Account{
		ID:    core.NewID(string(role)),
		Name:  name,
		Email: email,
		Role:  role,
	}
	if pwd != "" {
		if err := acct.SetPassword(pwd); err != nil {
			t.Fatalf("SetPassword() failed: %v", err)
		}
	}
	return acct
}

func CreateUser(t *testing.T, repo account.Repository, name, email, pwd string, purchased ...string) account.User {
	if purchased == nil {
		purchased = []string{}
	}
	usr, err := repo.CreateUser(account.User{
		Account:          newAccount(t, account.RoleUser, name, email, pwd),
		PurchasedCourses: purchased,
	})
	if err != nil {
		t.Fatalf("CreateUser() failed: %v", err)
	}
	return usr
}

func CreateInstructor(
	t *testing.T,
	repo account.Repository,
	name, email, pwd, subject string,
	availability ...string,
) account.Instructor {
	if availability == nil {
		availability = []string{}
	}
	inst, err := repo.CreateInstructor(account.Instructor{
		Account:      newAccount(t, account.RoleInstructor, name, email, pwd),
		Subject:      subject,
		Availability: availability,
	})
	if err != nil {
		t.Fatalf("CreateInstructor() failed: %v", err)
	}
	return inst
}

func CreateAdmin(t *testing.T, repo account.Repository, name, email, pwd string) account.Admin {
	adm, err := repo.CreateAdmin(account.Admin{Account: newAccount(t, account.RoleAdmin, name, email, pwd)})
	if err != nil {
		t.Fatalf("CreateAdmin() failed: %v", err)
	}
	return adm
}

func CreateCourse(t *testing.T, repo course.Repository, title, instructorID string, price float64) course.Course {
	c, err := repo.CreateCourse(course.Course{
		ID:           core.NewID("course"),
		Title:        title,
		Description:  title + " description",
		InstructorID: instructorID,
		Price:        price,
		Students:     []string{},
	})
	if err != nil {
		t.Fatalf("CreateCourse() failed: %v", err)
	}
	return c
}

func CreateLesson(
	t *testing.T,
	repo lesson.Repository,
	userID, instructorID, subject, slot string,
	status lesson.Status,
) lesson.Lesson {
	l, err := repo.CreateLesson(lesson.Lesson{
		ID:           core.NewID("lesson"),
		UserID:       userID,
		InstructorID: instructorID,
		Subject:      subject,
		Time:         slot,
		Status:       status,
	})
	if err != nil {
		t.Fatalf("CreateLesson() failed: %v", err)
	}
	return l
}
