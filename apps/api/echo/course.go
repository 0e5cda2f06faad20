package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/darasa/core/course"
)

type courseApi struct {
	svc course.Service
}

func registerCourseAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc course.Service) {
	api := courseApi{svc: svc}

	cg := g.Group("/courses")
	cg.GET("", api.query)
	cg.GET("/purchased", api.queryPurchased, jwt)
	cg.GET("/instructor/:instructorId", api.queryByInstructor)
	cg.GET("/:id", api.retrieve)
}

// Handlers

func (api *courseApi) query(ctx echo.Context) error {
	courses, err := api.svc.QueryAll()
	if err != nil {
		return errors.Wrap(err, "querying courses")
	}
	return ctx.JSON(http.StatusOK, courses)
}

func (api *courseApi) queryPurchased(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}
	courses, err := api.svc.QueryPurchased(claims.Subject)
	if err != nil {
		return errors.Wrap(err, "querying purchased courses")
	}
	return ctx.JSON(http.StatusOK, courses)
}

func (api *courseApi) queryByInstructor(ctx echo.Context) error {
	courses, err := api.svc.QueryByInstructor(ctx.Param("instructorId"))
	if err != nil {
		return errors.Wrap(err, "querying courses by instructor")
	}
	return ctx.JSON(http.StatusOK, courses)
}

func (api *courseApi) retrieve(ctx echo.Context) error {
	crs, err := api.svc.GetByID(ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "finding course by ID")
	}
	return ctx.JSON(http.StatusOK, crs)
}
