package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/grow/core"
	"github.com/trezcool/grow/core/task"
)

type taskApi struct {
	svc task.Service
}

func registerTaskAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc task.Service) {
	api := taskApi{svc: svc}

	tg := g.Group("/tasks", jwt)
	tg.GET("", api.query)
	tg.POST("", api.create)
	tg.PUT("/:id", api.update)
	tg.DELETE("/:id", api.destroy)
	tg.POST("/:id/toggle", api.toggle)
}

// Handlers

func (api *taskApi) query(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	tasks, err := api.svc.QueryAll(ctx.Request().Context(), claims.Subject)
	if err != nil {
		return errors.Wrap(err, "querying tasks")
	}
	if tasks == nil {
		tasks = []task.Task{}
	}
	return ctx.JSON(http.StatusOK, tasks)
}

func (api *taskApi) create(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	var data task.NewTask
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewTask")
	}
	if err = data.Validate(core.Validate); err != nil {
		return err
	}

	tsk, err := api.svc.Create(ctx.Request().Context(), claims.Subject, data)
	if err != nil {
		return errors.Wrap(err, "creating task")
	}
	return ctx.JSON(http.StatusCreated, tsk)
}

func (api *taskApi) update(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()

	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	tsk, err := api.svc.GetByID(reqCtx, claims.Subject, ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "finding task")
	}

	var data task.UpdateTask
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateTask")
	}
	if err = data.Validate(tsk, core.Validate); err != nil {
		return err
	}

	tsk, err = api.svc.Update(reqCtx, claims.Subject, tsk.ID, data)
	if err != nil {
		return errors.Wrap(err, "updating task")
	}
	return ctx.JSON(http.StatusOK, tsk)
}

func (api *taskApi) toggle(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	tsk, err := api.svc.ToggleCompleted(ctx.Request().Context(), claims.Subject, ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "toggling task")
	}
	return ctx.JSON(http.StatusOK, tsk)
}

func (api *taskApi) destroy(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	if err = api.svc.Delete(ctx.Request().Context(), claims.Subject, ctx.Param("id")); err != nil {
		return errors.Wrap(err, "deleting task")
	}
	return ctx.NoContent(http.StatusNoContent)
}
