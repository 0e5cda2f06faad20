package echoapi_test

import (
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	. "github.com/trezcool/darasa/apps/api/echo"
	"github.com/trezcool/darasa/core/account"
	"github.com/trezcool/darasa/core/admin"
	"github.com/trezcool/darasa/core/course"
	"github.com/trezcool/darasa/core/lesson"
	"github.com/trezcool/darasa/storage/jsondb"
	"github.com/trezcool/darasa/testutil"
)

func Test_adminApi_permissions(t *testing.T) {
	app := setup(t)
	usr := testutil.CreateUser(t, acctRepo, "Joe", "joe@test.cd", "")
	inst := testutil.CreateInstructor(t, acctRepo, "Ada", "ada@test.cd", "", "Math")

	var tests []httpTest
	for _, route := range []struct{ method, path string }{
		{http.MethodGet, "/api/admin/stats"},
		{http.MethodGet, "/api/admin/users"},
		{http.MethodGet, "/api/admin/instructors"},
		{http.MethodGet, "/api/admin/admins"},
		{http.MethodGet, "/api/admin/lessons"},
		{http.MethodGet, "/api/admin/courses"},
		{http.MethodPost, "/api/admin/courses"},
		{http.MethodPut, "/api/admin/courses/course-1"},
		{http.MethodDelete, "/api/admin/courses/course-1"},
	} {
		tests = append(tests,
			httpTest{
				name: route.method + " " + route.path + ": auth required", method: route.method, path: route.path,
				wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken),
			},
			httpTest{
				name: route.method + " " + route.path + ": user", method: route.method, path: route.path, token: getToken(t, usr.Account),
				wantCode: http.StatusForbidden, wantData: marchallObj(t, errForbidden),
			},
			httpTest{
				name: route.method + " " + route.path + ": instructor", method: route.method, path: route.path, token: getToken(t, inst.Account),
				wantCode: http.StatusForbidden, wantData: marchallObj(t, errForbidden),
			},
		)
	}
	runHTTPTests(t, app, tests)
}

func Test_adminApi_query(t *testing.T) {
	app := setup(t)
	adm := testutil.CreateAdmin(t, acctRepo, "Root", "root@test.cd", "")
	ada := testutil.CreateInstructor(t, acctRepo, "Ada", "ada@test.cd", "", "Math", "Monday 9-12")
	emmy := testutil.CreateInstructor(t, acctRepo, "Emmy", "emmy@test.cd", "", "Math")
	algebra := testutil.CreateCourse(t, crsRepo, "Algebra", ada.ID, 20)
	calculus := testutil.CreateCourse(t, crsRepo, "Calculus", emmy.ID, 12.75)
	joe := testutil.CreateUser(t, acctRepo, "Joe", "joe@test.cd", "", algebra.ID, calculus.ID)
	jane := testutil.CreateUser(t, acctRepo, "Jane", "jane@test.cd", "", calculus.ID)
	l1 := testutil.CreateLesson(t, lsnRepo, joe.ID, ada.ID, "Math", "Monday 10:00", lesson.StatusPending)
	l2 := testutil.CreateLesson(t, lsnRepo, jane.ID, emmy.ID, "Math", "Friday 10:00", lesson.StatusConfirmed)

	// enroll the students on the course side too
	for _, crs := range []course.Course{algebra, calculus} {
		_, err := crsRepo.UpdateCourse(crs.ID, func(c *course.Course) error {
			c.Students = []string{joe.ID}
			if c.ID == calculus.ID {
				c.Students = append(c.Students, jane.ID)
			}
			return nil
		})
		require.NoError(t, err)
	}
	algebra, _ = crsRepo.GetCourseByID(algebra.ID)
	calculus, _ = crsRepo.GetCourseByID(calculus.ID)
	token := getToken(t, adm.Account)

	runHTTPTests(t, app, []httpTest{
		{
			name: "stats", path: "/api/admin/stats", token: token,
			wantData: marchallObj(t, admin.Stats{
				UserCount:       2,
				InstructorCount: 2,
				AdminCount:      1,
				CourseCount:     2,
				LessonCount:     2,
				TotalRevenue:    45.5,
			}),
		},
		{name: "users", path: "/api/admin/users", token: token, wantData: marchallList(t, joe, jane)},
		{name: "instructors", path: "/api/admin/instructors", token: token, wantData: marchallList(t, ada, emmy)},
		{name: "admins", path: "/api/admin/admins", token: token, wantData: marchallList(t, adm)},
		{name: "lessons", path: "/api/admin/lessons", token: token, wantData: marchallList(t, l1, l2)},
		{name: "courses", path: "/api/admin/courses", token: token, wantData: marchallList(t, algebra, calculus)},
	})

	t.Run("no password hash leaks", func(t *testing.T) {
		for _, path := range []string{"/api/admin/users", "/api/admin/instructors", "/api/admin/admins"} {
			rec := httpTest{path: path, token: token}.run(t, app)
			assert.NotContains(t, strings.ToLower(rec.Body.String()), "password")
		}
	})
}

func Test_adminApi_stats_empty(t *testing.T) {
	app := setup(t)
	adm := account.Account{ID: "admin-ghost", Role: account.RoleAdmin}

	runHTTPTests(t, app, []httpTest{
		{name: "empty database", path: "/api/admin/stats", token: getToken(t, adm), wantData: marchallObj(t, admin.Stats{})},
		{name: "no users", path: "/api/admin/users", token: getToken(t, adm), wantData: marchallList(t)},
	})
}

func Test_adminApi_createCourse(t *testing.T) {
	app := setup(t)
	adm := testutil.CreateAdmin(t, acctRepo, "Root", "root@test.cd", "")
	ada := testutil.CreateInstructor(t, acctRepo, "Ada", "ada@test.cd", "", "Math")
	token := getToken(t, adm.Account)

	type data struct {
		Title        string   `json:"title,omitempty"`
		Description  string   `json:"description,omitempty"`
		InstructorID string   `json:"instructorId,omitempty"`
		Price        *float64 `json:"price,omitempty"`
	}
	price := func(p float64) *float64 { return &p }

	runHTTPTests(t, app, []httpTest{
		{
			name: "missing fields", method: http.MethodPost, path: "/api/admin/courses", token: token, body: marchallObj(t, data{}),
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, map[string]string{
				"title":        "this field is required",
				"description":  "this field is required",
				"instructorId": "this field is required",
				"price":        "this field is required",
			}),
		},
		{
			name: "negative price", method: http.MethodPost, path: "/api/admin/courses", token: token,
			body:     marchallObj(t, data{Title: "Algebra", Description: "Basics", InstructorID: ada.ID, Price: price(-1)}),
			wantCode: http.StatusBadRequest,
		},
		{
			name: "unknown instructor", method: http.MethodPost, path: "/api/admin/courses", token: token,
			body:     marchallObj(t, data{Title: "Algebra", Description: "Basics", InstructorID: "instructor-lol", Price: price(20)}),
			wantCode: http.StatusNotFound, wantData: marchallObj(t, httpErr{Error: account.ErrInstructorNotFound.Error()}),
		},
	})

	t.Run("success", func(t *testing.T) {
		tt := httpTest{
			method: http.MethodPost, path: "/api/admin/courses", token: token,
			body: marchallObj(t, data{Title: " Algebra ", Description: "Basics", InstructorID: ada.ID, Price: price(0)}),
		}
		rec := tt.run(t, app)
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

		var resp CourseResponse
		unmarshall(t, rec, &resp)
		assert.Equal(t, "Course created successfully", resp.Message)
		assert.True(t, strings.HasPrefix(resp.Course.ID, "course-"))
		assert.Equal(t, course.Course{
			ID:           resp.Course.ID,
			Title:        "Algebra",
			Description:  "Basics",
			InstructorID: ada.ID,
			Price:        0,
			Students:     []string{},
		}, resp.Course)

		stored, err := jsondb.NewCourseRepository(reload(t)).GetCourseByID(resp.Course.ID)
		require.NoError(t, err)
		assert.Equal(t, resp.Course, stored)
	})
}

func Test_adminApi_updateCourse(t *testing.T) {
	app := setup(t)
	adm := testutil.CreateAdmin(t, acctRepo, "Root", "root@test.cd", "")
	ada := testutil.CreateInstructor(t, acctRepo, "Ada", "ada@test.cd", "", "Math")
	emmy := testutil.CreateInstructor(t, acctRepo, "Emmy", "emmy@test.cd", "", "Math")
	algebra := testutil.CreateCourse(t, crsRepo, "Algebra", ada.ID, 20)
	token := getToken(t, adm.Account)

	updated := algebra
	updated.Title = "Linear Algebra"
	updated.InstructorID = emmy.ID
	updated.Price = 30

	runHTTPTests(t, app, []httpTest{
		{
			name: "unknown course", method: http.MethodPut, path: "/api/admin/courses/course-lol", token: token, body: []byte(`{"title": "Lol"}`),
			wantCode: http.StatusNotFound, wantData: marchallObj(t, httpErr{Error: course.ErrNotFound.Error()}),
		},
		{
			name: "blank title", method: http.MethodPut, path: "/api/admin/courses/" + algebra.ID, token: token, body: []byte(`{"title": "  "}`),
			wantCode: http.StatusBadRequest, wantData: marchallObj(t, map[string]string{"title": "this field cannot be blank"}),
		},
		{
			name: "unknown instructor", method: http.MethodPut, path: "/api/admin/courses/" + algebra.ID, token: token, body: []byte(`{"instructorId": "instructor-lol"}`),
			wantCode: http.StatusNotFound, wantData: marchallObj(t, httpErr{Error: account.ErrInstructorNotFound.Error()}),
		},
		{
			name: "partial update", method: http.MethodPut, path: "/api/admin/courses/" + algebra.ID, token: token,
			body:     []byte(`{"title": "Linear Algebra", "instructorId": "` + emmy.ID + `", "price": 30}`),
			wantData: marchallObj(t, CourseResponse{Message: "Course updated successfully", Course: updated}),
		},
	})
}

func Test_adminApi_destroyCourse(t *testing.T) {
	app := setup(t)
	adm := testutil.CreateAdmin(t, acctRepo, "Root", "root@test.cd", "")
	ada := testutil.CreateInstructor(t, acctRepo, "Ada", "ada@test.cd", "", "Math")
	algebra := testutil.CreateCourse(t, crsRepo, "Algebra", ada.ID, 20)
	calculus := testutil.CreateCourse(t, crsRepo, "Calculus", ada.ID, 20)
	joe := testutil.CreateUser(t, acctRepo, "Joe", "joe@test.cd", "", algebra.ID, calculus.ID)
	token := getToken(t, adm.Account)

	runHTTPTests(t, app, []httpTest{
		{
			name: "unknown course", method: http.MethodDelete, path: "/api/admin/courses/course-lol", token: token,
			wantCode: http.StatusNotFound, wantData: marchallObj(t, httpErr{Error: course.ErrNotFound.Error()}),
		},
		{
			name: "success", method: http.MethodDelete, path: "/api/admin/courses/" + algebra.ID, token: token,
			wantData: marchallObj(t, MessageResponse{Message: "Course deleted successfully"}),
		},
		{name: "gone", path: "/api/courses/" + algebra.ID, wantCode: http.StatusNotFound},
		{name: "no longer purchased", path: "/api/courses/purchased", token: getToken(t, joe.Account), wantData: marchallList(t, calculus)},
	})

	usr, err := jsondb.NewAccountRepository(reload(t)).GetUserByID(joe.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{calculus.ID}, usr.PurchasedCourses)
}
