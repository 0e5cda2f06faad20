package admin_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/darasa/core/account"
	"github.com/trezcool/darasa/core/admin"
	"github.com/trezcool/darasa/core/course"
	"github.com/trezcool/darasa/core/lesson"
	notifysvc "github.com/trezcool/darasa/services/notify"
	"github.com/trezcool/darasa/storage/jsondb"
	"github.com/trezcool/darasa/testutil"
)

func TestService_Stats(t *testing.T) {
	db := testutil.OpenDB(t)
	acctRepo := jsondb.NewAccountRepository(db)
	crsRepo := jsondb.NewCourseRepository(db)
	lsnRepo := jsondb.NewLessonRepository(db)

	acctSvc := account.NewService(acctRepo)
	svc := admin.NewService(
		acctSvc,
		course.NewService(crsRepo, acctSvc, course.NewMockGateway(1)),
		lesson.NewService(lsnRepo, acctSvc, notifysvc.NewConsoleServiceMock(testutil.NewLogger(t))),
	)

	stats, err := svc.Stats()
	require.NoError(t, err)
	assert.Equal(t, admin.Stats{}, stats)

	inst := testutil.CreateInstructor(t, acctRepo, "Ada", "ada@test.cd", "", "Math")
	testutil.CreateAdmin(t, acctRepo, "Root", "root@test.cd", "")
	u1 := testutil.CreateUser(t, acctRepo, "Joe", "joe@test.cd", "")
	u2 := testutil.CreateUser(t, acctRepo, "Jane", "jane@test.cd", "")

	algebra := testutil.CreateCourse(t, crsRepo, "Algebra", inst.ID, 10)
	geometry := testutil.CreateCourse(t, crsRepo, "Geometry", inst.ID, 25.5)
	testutil.CreateCourse(t, crsRepo, "Unsold", inst.ID, 100)
	for _, enrolment := range []struct{ crs, usr string }{
		{algebra.ID, u1.ID},
		{algebra.ID, u2.ID},
		{geometry.ID, u1.ID},
	} {
		_, err := crsRepo.CompletePurchase(enrolment.crs, enrolment.usr, course.Payment{UserID: enrolment.usr, CourseID: enrolment.crs})
		require.NoError(t, err)
	}

	testutil.CreateLesson(t, lsnRepo, u1.ID, inst.ID, "Math", "Monday 10:00", lesson.StatusPending)

	stats, err = svc.Stats()
	require.NoError(t, err)
	assert.Equal(t, admin.Stats{
		UserCount:       2,
		InstructorCount: 1,
		AdminCount:      1,
		CourseCount:     3,
		LessonCount:     1,
		TotalRevenue:    45.5,
	}, stats)
}
