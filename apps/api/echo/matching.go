package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/darasa/core/account"
	"github.com/trezcool/darasa/core/lesson"
)

type matchingApi struct {
	svc      lesson.Service
	validate *validator.Validate
}

func registerMatchingAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc lesson.Service, validate *validator.Validate) {
	api := matchingApi{
		svc:      svc,
		validate: validate,
	}

	mg := g.Group("/matching")

	// un-authed endpoints
	mg.GET("/instructors", api.queryInstructors)

	// authed endpoints
	usrOnly := roleMiddleware(account.RoleUser)
	instOnly := roleMiddleware(account.RoleInstructor)
	mg.POST("/request", api.request, jwt, usrOnly)
	mg.GET("/user/lessons", api.queryUserLessons, jwt, usrOnly)
	mg.GET("/instructor/lessons", api.queryInstructorLessons, jwt, instOnly)
	mg.PUT("/lesson/status", api.updateStatus, jwt, instOnly)
}

// Handlers

func (api *matchingApi) request(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	var data lesson.Request
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to Request")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	lsn, inst, err := api.svc.Request(claims.Subject, data)
	if err != nil {
		return errors.Wrap(err, "requesting lesson")
	}
	return ctx.JSON(http.StatusOK, LessonRequestResponse{
		Message: "Lesson request created successfully",
		Lesson: RequestedLesson{
			ID: lsn.ID,
			Instructor: LessonInstructor{
				ID:      inst.ID,
				Name:    inst.Name,
				Subject: inst.Subject,
			},
			Subject: lsn.Subject,
			Time:    lsn.Time,
			Status:  lsn.Status,
		},
	})
}

func (api *matchingApi) queryUserLessons(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}
	lessons, err := api.svc.ForUser(claims.Subject)
	if err != nil {
		return errors.Wrap(err, "querying user lessons")
	}
	return ctx.JSON(http.StatusOK, lessons)
}

func (api *matchingApi) queryInstructorLessons(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}
	lessons, err := api.svc.ForInstructor(claims.Subject)
	if err != nil {
		return errors.Wrap(err, "querying instructor lessons")
	}
	return ctx.JSON(http.StatusOK, lessons)
}

func (api *matchingApi) updateStatus(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	var data lesson.StatusUpdate
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to StatusUpdate")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	lsn, err := api.svc.UpdateStatus(claims.Subject, data)
	if err != nil {
		return errors.Wrap(err, "updating lesson status")
	}
	return ctx.JSON(http.StatusOK, LessonResponse{
		Message: "Lesson " + string(lsn.Status) + " successfully",
		Lesson:  lsn,
	})
}

func (api *matchingApi) queryInstructors(ctx echo.Context) error {
	instructors, err := api.svc.InstructorsBySubject(ctx.QueryParam("subject"))
	if err != nil {
		return errors.Wrap(err, "querying instructors by subject")
	}
	return ctx.JSON(http.StatusOK, instructors)
}

type (
	LessonRequestResponse struct {
		Message string          `json:"message"`
		Lesson  RequestedLesson `json:"lesson"`
	}

	RequestedLesson struct {
		ID         string           `json:"id"`
		Instructor LessonInstructor `json:"instructor"`
		Subject    string           `json:"subject"`
		Time       string           `json:"time"`
		Status     lesson.Status    `json:"status"`
	}

	LessonInstructor struct {
		ID      string `json:"id"`
		Name    string `json:"name"`
		Subject string `json:"subject"`
	}

	LessonResponse struct {
		Message string        `json:"message"`
		Lesson  lesson.Lesson `json:"lesson"`
	}
)
