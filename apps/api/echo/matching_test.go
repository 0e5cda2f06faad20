package echoapi_test

import (
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	. "github.com/trezcool/darasa/apps/api/echo"
	"github.com/trezcool/darasa/core/account"
	"github.com/trezcool/darasa/core/lesson"
	"github.com/trezcool/darasa/storage/jsondb"
	"github.com/trezcool/darasa/testutil"
)

func Test_matchingApi_queryInstructors(t *testing.T) {
	app := setup(t)
	ada := testutil.CreateInstructor(t, acctRepo, "Ada", "ada@test.cd", "", "Math", "Monday 9-12")
	testutil.CreateInstructor(t, acctRepo, "Alan", "alan@test.cd", "", "Computing", "Friday 14-16")
	emmy := testutil.CreateInstructor(t, acctRepo, "Emmy", "emmy@test.cd", "", "Math")

	runHTTPTests(t, app, []httpTest{
		{
			name: "subject required", path: "/api/matching/instructors", wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, map[string]string{"subject": "this field is required"}),
		},
		{name: "by subject", path: "/api/matching/instructors?subject=Math", wantData: marchallList(t, ada, emmy)},
		{name: "subject is case sensitive", path: "/api/matching/instructors?subject=math", wantData: marchallList(t)},
		{name: "unknown subject", path: "/api/matching/instructors?subject=Art", wantData: marchallList(t)},
	})
}

func Test_matchingApi_request(t *testing.T) {
	app := setup(t)
	ada := testutil.CreateInstructor(t, acctRepo, "Ada", "ada@test.cd", "", "Math", "Monday 9-12", "Wednesday 14-16")
	emmy := testutil.CreateInstructor(t, acctRepo, "Emmy", "emmy@test.cd", "", "Math", "Friday 9-12")
	usr := testutil.CreateUser(t, acctRepo, "Joe", "joe@test.cd", "")
	token := getToken(t, usr.Account)

	runHTTPTests(t, app, []httpTest{
		{
			name: "auth required", method: http.MethodPost, path: "/api/matching/request",
			body:     marchallObj(t, lesson.Request{Subject: "Math", Time: "Monday 10:00"}),
			wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken),
		},
		{
			name: "users only", method: http.MethodPost, path: "/api/matching/request", token: getToken(t, ada.Account),
			body:     marchallObj(t, lesson.Request{Subject: "Math", Time: "Monday 10:00"}),
			wantCode: http.StatusForbidden, wantData: marchallObj(t, errForbidden),
		},
		{
			name: "missing fields", method: http.MethodPost, path: "/api/matching/request", token: token,
			body:     []byte(`{}`),
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, map[string]string{"subject": "this field is required", "time": "this field is required"}),
		},
		{
			name: "no available instructor", method: http.MethodPost, path: "/api/matching/request", token: token,
			body:     marchallObj(t, lesson.Request{Subject: "Math", Time: "Sunday 10:00"}),
			wantCode: http.StatusNotFound, wantData: marchallObj(t, httpErr{Error: lesson.ErrNoAvailableInstructor.Error()}),
		},
		{
			name: "unknown selected instructor", method: http.MethodPost, path: "/api/matching/request", token: token,
			body:     marchallObj(t, lesson.Request{Subject: "Math", Time: "Monday 10:00", InstructorID: "instructor-lol"}),
			wantCode: http.StatusNotFound, wantData: marchallObj(t, httpErr{Error: lesson.ErrInstructorNotFound.Error()}),
		},
	})

	tests := []struct {
		name     string
		req      lesson.Request
		wantInst account.Instructor
	}{
		{name: "first available instructor", req: lesson.Request{Subject: "Math", Time: "Wednesday 15:00"}, wantInst: ada},
		{name: "only available instructor", req: lesson.Request{Subject: "Math", Time: "Friday 10:00"}, wantInst: emmy},
		{name: "selected instructor", req: lesson.Request{Subject: "Math", Time: "Monday 10:00", InstructorID: emmy.ID}, wantInst: emmy},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			notifier.Reset()

			rec := httpTest{method: http.MethodPost, path: "/api/matching/request", token: token, body: marchallObj(t, tt.req)}.run(t, app)
			require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

			var resp LessonRequestResponse
			unmarshall(t, rec, &resp)
			assert.Equal(t, "Lesson request created successfully", resp.Message)
			assert.True(t, strings.HasPrefix(resp.Lesson.ID, "lesson-"))
			assert.Equal(t, LessonInstructor{ID: tt.wantInst.ID, Name: tt.wantInst.Name, Subject: "Math"}, resp.Lesson.Instructor)
			assert.Equal(t, tt.req.Subject, resp.Lesson.Subject)
			assert.Equal(t, tt.req.Time, resp.Lesson.Time)
			assert.Equal(t, lesson.StatusPending, resp.Lesson.Status)

			stored, err := jsondb.NewLessonRepository(reload(t)).GetLessonByID(resp.Lesson.ID)
			require.NoError(t, err)
			assert.Equal(t, usr.ID, stored.UserID)
			assert.Equal(t, tt.wantInst.ID, stored.InstructorID)

			if sent := notifier.Sent(); assert.Len(t, sent, 1) {
				assert.Equal(t, tt.wantInst.Email, sent[0].To[0].Email)
			}
		})
	}
}

func Test_matchingApi_queryLessons(t *testing.T) {
	app := setup(t)
	ada := testutil.CreateInstructor(t, acctRepo, "Ada", "ada@test.cd", "", "Math", "Monday 9-12")
	emmy := testutil.CreateInstructor(t, acctRepo, "Emmy", "emmy@test.cd", "", "Math", "Friday 9-12")
	joe := testutil.CreateUser(t, acctRepo, "Joe", "joe@test.cd", "")
	jane := testutil.CreateUser(t, acctRepo, "Jane", "jane@test.cd", "")
	l1 := testutil.CreateLesson(t, lsnRepo, joe.ID, ada.ID, "Math", "Monday 10:00", lesson.StatusPending)
	l2 := testutil.CreateLesson(t, lsnRepo, jane.ID, ada.ID, "Math", "Monday 11:00", lesson.StatusConfirmed)
	l3 := testutil.CreateLesson(t, lsnRepo, joe.ID, emmy.ID, "Math", "Friday 10:00", lesson.StatusCancelled)

	runHTTPTests(t, app, []httpTest{
		{name: "user: auth required", path: "/api/matching/user/lessons", wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken)},
		{name: "user: users only", path: "/api/matching/user/lessons", token: getToken(t, ada.Account), wantCode: http.StatusForbidden, wantData: marchallObj(t, errForbidden)},
		{name: "user: own lessons", path: "/api/matching/user/lessons", token: getToken(t, joe.Account), wantData: marchallList(t, l1, l3)},
		{name: "instructor: instructors only", path: "/api/matching/instructor/lessons", token: getToken(t, joe.Account), wantCode: http.StatusForbidden, wantData: marchallObj(t, errForbidden)},
		{name: "instructor: own lessons", path: "/api/matching/instructor/lessons", token: getToken(t, ada.Account), wantData: marchallList(t, l1, l2)},
		{name: "instructor: no lessons", path: "/api/matching/instructor/lessons", token: getToken(t, account.Account{ID: "instructor-new", Role: account.RoleInstructor}), wantData: marchallList(t)},
	})
}

func Test_matchingApi_updateStatus(t *testing.T) {
	app := setup(t)
	ada := testutil.CreateInstructor(t, acctRepo, "Ada", "ada@test.cd", "", "Math", "Monday 9-12")
	emmy := testutil.CreateInstructor(t, acctRepo, "Emmy", "emmy@test.cd", "", "Math", "Friday 9-12")
	usr := testutil.CreateUser(t, acctRepo, "Joe", "joe@test.cd", "")
	pending := testutil.CreateLesson(t, lsnRepo, usr.ID, ada.ID, "Math", "Monday 10:00", lesson.StatusPending)
	toCancel := testutil.CreateLesson(t, lsnRepo, usr.ID, ada.ID, "Math", "Monday 11:00", lesson.StatusPending)
	confirmed := testutil.CreateLesson(t, lsnRepo, usr.ID, ada.ID, "Math", "Monday 9:00", lesson.StatusConfirmed)
	adaToken := getToken(t, ada.Account)

	path := "/api/matching/lesson/status"
	update := func(id string, status lesson.Status) []byte {
		return marchallObj(t, lesson.StatusUpdate{LessonID: id, Status: status})
	}
	withStatus := func(l lesson.Lesson, status lesson.Status) lesson.Lesson {
		l.Status = status
		return l
	}

	notifier.Reset()
	runHTTPTests(t, app, []httpTest{
		{
			name: "auth required", method: http.MethodPut, path: path, body: update(pending.ID, lesson.StatusConfirmed),
			wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken),
		},
		{
			name: "instructors only", method: http.MethodPut, path: path, token: getToken(t, usr.Account), body: update(pending.ID, lesson.StatusConfirmed),
			wantCode: http.StatusForbidden, wantData: marchallObj(t, errForbidden),
		},
		{
			name: "missing fields", method: http.MethodPut, path: path, token: adaToken, body: []byte(`{}`),
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, map[string]string{"lessonId": "this field is required", "status": "this field is required"}),
		},
		{name: "invalid status", method: http.MethodPut, path: path, token: adaToken, body: update(pending.ID, lesson.StatusPending), wantCode: http.StatusBadRequest},
		{
			name: "unknown lesson", method: http.MethodPut, path: path, token: adaToken, body: update("lesson-lol", lesson.StatusConfirmed),
			wantCode: http.StatusNotFound, wantData: marchallObj(t, httpErr{Error: lesson.ErrNotFound.Error()}),
		},
		{
			name: "not the lesson's instructor", method: http.MethodPut, path: path, token: getToken(t, emmy.Account), body: update(pending.ID, lesson.StatusConfirmed),
			wantCode: http.StatusForbidden, wantData: marchallObj(t, httpErr{Error: "only the lesson's instructor can update its status"}),
		},
		{
			name: "already confirmed", method: http.MethodPut, path: path, token: adaToken, body: update(confirmed.ID, lesson.StatusCancelled),
			wantCode: http.StatusBadRequest, wantData: marchallObj(t, map[string]string{"status": "lesson is already confirmed"}),
		},
		{
			name: "confirm", method: http.MethodPut, path: path, token: adaToken, body: update(pending.ID, "CONFIRMED"),
			wantData: marchallObj(t, LessonResponse{Message: "Lesson confirmed successfully", Lesson: withStatus(pending, lesson.StatusConfirmed)}),
		},
		{
			name: "cancel", method: http.MethodPut, path: path, token: adaToken, body: update(toCancel.ID, lesson.StatusCancelled),
			wantData: marchallObj(t, LessonResponse{Message: "Lesson cancelled successfully", Lesson: withStatus(toCancel, lesson.StatusCancelled)}),
		},
		{
			name: "no way back", method: http.MethodPut, path: path, token: adaToken, body: update(toCancel.ID, lesson.StatusConfirmed),
			wantCode: http.StatusBadRequest, wantData: marchallObj(t, map[string]string{"status": "lesson is already cancelled"}),
		},
	})

	// only the two successful transitions notified the learner
	sent := notifier.Sent()
	require.Len(t, sent, 2)
	for _, note := range sent {
		assert.Equal(t, usr.Email, note.To[0].Email)
	}

	stored, err := jsondb.NewLessonRepository(reload(t)).GetLessonByID(pending.ID)
	require.NoError(t, err)
	assert.Equal(t, lesson.StatusConfirmed, stored.Status)
}
