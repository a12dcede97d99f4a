package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/grow/core"
	"github.com/trezcool/grow/core/schedule"
)

type scheduleApi struct {
	svc schedule.Service
}

func registerScheduleAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc schedule.Service) {
	api := scheduleApi{svc: svc}

	sg := g.Group("/schedule-events", jwt)
	sg.GET("", api.query)
	sg.POST("", api.create)
	sg.PUT("/:id", api.update)
	sg.DELETE("/:id", api.destroy)

	wg := g.Group("/week-settings", jwt)
	wg.GET("", api.weekSettings)
	wg.PUT("", api.saveWeekSettings)
}

// Handlers

func (api *scheduleApi) query(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	events, err := api.svc.QueryAll(ctx.Request().Context(), claims.Subject)
	if err != nil {
		return errors.Wrap(err, "querying schedule events")
	}
	if events == nil {
		events = []schedule.Event{}
	}
	return ctx.JSON(http.StatusOK, events)
}

func (api *scheduleApi) create(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	var data schedule.NewEvent
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewEvent")
	}
	if err = data.Validate(core.Validate); err != nil {
		return err
	}

	evt, err := api.svc.Create(ctx.Request().Context(), claims.Subject, data)
	if err != nil {
		return errors.Wrap(err, "creating schedule event")
	}
	return ctx.JSON(http.StatusCreated, evt)
}

func (api *scheduleApi) update(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()

	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	evt, err := api.svc.GetByID(reqCtx, claims.Subject, ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "finding schedule event")
	}

	var data schedule.UpdateEvent
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateEvent")
	}
	if err = data.Validate(evt, core.Validate); err != nil {
		return err
	}

	evt, err = api.svc.Update(reqCtx, claims.Subject, evt.ID, data)
	if err != nil {
		return errors.Wrap(err, "updating schedule event")
	}
	return ctx.JSON(http.StatusOK, evt)
}

func (api *scheduleApi) destroy(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	if err = api.svc.Delete(ctx.Request().Context(), claims.Subject, ctx.Param("id")); err != nil {
		return errors.Wrap(err, "deleting schedule event")
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *scheduleApi) weekSettings(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	ws, err := api.svc.WeekSettings(ctx.Request().Context(), claims.Subject)
	if err != nil {
		return errors.Wrap(err, "getting week settings")
	}
	return ctx.JSON(http.StatusOK, ws)
}

func (api *scheduleApi) saveWeekSettings(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	var data schedule.UpdateWeekSettings
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateWeekSettings")
	}
	if err = data.Validate(core.Validate); err != nil {
		return err
	}

	ws, err := api.svc.SaveWeekSettings(ctx.Request().Context(), claims.Subject, data)
	if err != nil {
		return errors.Wrap(err, "saving week settings")
	}
	return ctx.JSON(http.StatusOK, ws)
}
