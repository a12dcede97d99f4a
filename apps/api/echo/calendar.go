package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/grow/core"
	"github.com/trezcool/grow/core/task"
)

type calendarApi struct {
	svc task.Service
}

func registerCalendarAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc task.Service) {
	api := calendarApi{svc: svc}

	cg := g.Group("/calendars", jwt)
	cg.GET("", api.query)
	cg.POST("", api.create)
	cg.PUT("/:id", api.update)
	cg.DELETE("/:id", api.destroy)
}

// Handlers

func (api *calendarApi) query(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	cals, err := api.svc.QueryCalendars(ctx.Request().Context(), claims.Subject)
	if err != nil {
		return errors.Wrap(err, "querying calendars")
	}
	if cals == nil {
		cals = []task.Calendar{}
	}
	return ctx.JSON(http.StatusOK, cals)
}

func (api *calendarApi) create(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	var data task.NewCalendar
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewCalendar")
	}
	if err = data.Validate(core.Validate); err != nil {
		return err
	}

	cal, err := api.svc.CreateCalendar(ctx.Request().Context(), claims.Subject, data)
	if err != nil {
		return errors.Wrap(err, "creating calendar")
	}
	return ctx.JSON(http.StatusCreated, cal)
}

func (api *calendarApi) update(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()

	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	orig, err := api.svc.GetCalendar(reqCtx, claims.Subject, ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "finding calendar")
	}

	var data task.UpdateCalendar
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateCalendar")
	}
	if err = data.Validate(orig, core.Validate); err != nil {
		return err
	}

	cal, err := api.svc.UpdateCalendar(reqCtx, claims.Subject, orig.ID, data)
	if err != nil {
		return errors.Wrap(err, "updating calendar")
	}
	return ctx.JSON(http.StatusOK, cal)
}

func (api *calendarApi) destroy(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	if err = api.svc.DeleteCalendar(ctx.Request().Context(), claims.Subject, ctx.Param("id")); err != nil {
		return errors.Wrap(err, "deleting calendar")
	}
	return ctx.NoContent(http.StatusNoContent)
}
