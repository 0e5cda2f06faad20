package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/darasa/core/account"
	"github.com/trezcool/darasa/core/admin"
	"github.com/trezcool/darasa/core/course"
	"github.com/trezcool/darasa/core/lesson"
)

type adminApi struct {
	svc       admin.Service
	acctSvc   account.Service
	courseSvc course.Service
	lessonSvc lesson.Service
	validate  *validator.Validate
}

func registerAdminAPI(
	g *echo.Group,
	jwt echo.MiddlewareFunc,
	svc admin.Service,
	acctSvc account.Service,
	courseSvc course.Service,
	lessonSvc lesson.Service,
	validate *validator.Validate,
) {
	api := adminApi{
		svc:       svc,
		acctSvc:   acctSvc,
		courseSvc: courseSvc,
		lessonSvc: lessonSvc,
		validate:  validate,
	}

	ag := g.Group("/admin", jwt, roleMiddleware(account.RoleAdmin))
	ag.GET("/stats", api.stats)
	ag.GET("/users", api.queryUsers)
	ag.GET("/instructors", api.queryInstructors)
	ag.GET("/admins", api.queryAdmins)
	ag.GET("/lessons", api.queryLessons)

	cg := ag.Group("/courses")
	cg.GET("", api.queryCourses)
	cg.POST("", api.createCourse)
	cg.PUT("/:id", api.updateCourse)
	cg.DELETE("/:id", api.destroyCourse)
}

// Handlers

func (api *adminApi) stats(ctx echo.Context) error {
	stats, err := api.svc.Stats()
	if err != nil {
		return errors.Wrap(err, "computing stats")
	}
	return ctx.JSON(http.StatusOK, stats)
}

func (api *adminApi) queryUsers(ctx echo.Context) error {
	users, err := api.acctSvc.QueryUsers()
	if err != nil {
		return errors.Wrap(err, "querying users")
	}
	return ctx.JSON(http.StatusOK, users)
}

func (api *adminApi) queryInstructors(ctx echo.Context) error {
	instructors, err := api.acctSvc.QueryInstructors()
	if err != nil {
		return errors.Wrap(err, "querying instructors")
	}
	return ctx.JSON(http.StatusOK, instructors)
}

func (api *adminApi) queryAdmins(ctx echo.Context) error {
	admins, err := api.acctSvc.QueryAdmins()
	if err != nil {
		return errors.Wrap(err, "querying admins")
	}
	return ctx.JSON(http.StatusOK, admins)
}

func (api *adminApi) queryLessons(ctx echo.Context) error {
	lessons, err := api.lessonSvc.All()
	if err != nil {
		return errors.Wrap(err, "querying lessons")
	}
	return ctx.JSON(http.StatusOK, lessons)
}

func (api *adminApi) queryCourses(ctx echo.Context) error {
	courses, err := api.courseSvc.QueryAll()
	if err != nil {
		return errors.Wrap(err, "querying courses")
	}
	return ctx.JSON(http.StatusOK, courses)
}

func (api *adminApi) createCourse(ctx echo.Context) error {
	var data course.NewCourse
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewCourse")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	crs, err := api.courseSvc.Create(data)
	if err != nil {
		return errors.Wrap(err, "creating course")
	}
	return ctx.JSON(http.StatusCreated, CourseResponse{Message: "Course created successfully", Course: crs})
}

func (api *adminApi) updateCourse(ctx echo.Context) error {
	var data course.UpdateCourse
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateCourse")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	crs, err := api.courseSvc.Update(ctx.Param("id"), data)
	if err != nil {
		return errors.Wrap(err, "updating course")
	}
	return ctx.JSON(http.StatusOK, CourseResponse{Message: "Course updated successfully", Course: crs})
}

func (api *adminApi) destroyCourse(ctx echo.Context) error {
	if err := api.courseSvc.Delete(ctx.Param("id")); err != nil {
		return errors.Wrap(err, "deleting course")
	}
	return ctx.JSON(http.StatusOK, MessageResponse{Message: "Course deleted successfully"})
}

type CourseResponse struct {
	Message string        `json:"message"`
	Course  course.Course `json:"course"`
}
