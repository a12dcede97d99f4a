package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/grow/core"
	"github.com/trezcool/grow/core/homework"
	"github.com/trezcool/grow/core/task"
)

type homeworkApi struct {
	svc homework.Service
}

func registerHomeworkAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc homework.Service) {
	api := homeworkApi{svc: svc}

	hg := g.Group("/homework", jwt)
	hg.GET("", api.query)
	hg.POST("", api.create)
	hg.PATCH("/:id", api.update)
	hg.DELETE("/:id", api.destroy)
	hg.POST("/:id/task", api.createLinkedTask)
	hg.POST("/:id/toggle", api.toggle)
}

// Handlers

func (api *homeworkApi) query(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	hws, err := api.svc.QueryAll(ctx.Request().Context(), claims.Subject)
	if err != nil {
		return errors.Wrap(err, "querying homework")
	}
	if hws == nil {
		hws = []homework.Homework{}
	}
	return ctx.JSON(http.StatusOK, hws)
}

func (api *homeworkApi) create(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	var data homework.NewHomework
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewHomework")
	}
	if err = data.Validate(core.Validate); err != nil {
		return err
	}

	hw, suggestion, err := api.svc.Create(ctx.Request().Context(), claims.Subject, data)
	if err != nil {
		return errors.Wrap(err, "creating homework")
	}
	return ctx.JSON(http.StatusCreated, HomeworkCreatedResponse{Homework: hw, TaskSuggestion: suggestion})
}

func (api *homeworkApi) update(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()

	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	hw, err := api.svc.GetByID(reqCtx, claims.Subject, ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "finding homework")
	}

	var data homework.UpdateHomework
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateHomework")
	}
	if err = data.Validate(hw, core.Validate); err != nil {
		return err
	}

	hw, err = api.svc.Update(reqCtx, claims.Subject, hw.ID, data)
	if err != nil {
		return errors.Wrap(err, "updating homework")
	}
	return ctx.JSON(http.StatusOK, hw)
}

func (api *homeworkApi) createLinkedTask(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	var data homework.NewLinkedTask
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewLinkedTask")
	}
	if err = data.Validate(core.Validate); err != nil {
		return err
	}

	hw, tsk, err := api.svc.CreateLinkedTask(ctx.Request().Context(), claims.Subject, ctx.Param("id"), data)
	if err != nil {
		return errors.Wrap(err, "creating linked task")
	}
	return ctx.JSON(http.StatusCreated, LinkedTaskResponse{Homework: hw, Task: tsk})
}

func (api *homeworkApi) toggle(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	hw, err := api.svc.ToggleCompleted(ctx.Request().Context(), claims.Subject, ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "toggling homework")
	}
	return ctx.JSON(http.StatusOK, hw)
}

func (api *homeworkApi) destroy(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	if err = api.svc.Delete(ctx.Request().Context(), claims.Subject, ctx.Param("id")); err != nil {
		return errors.Wrap(err, "deleting homework")
	}
	return ctx.NoContent(http.StatusNoContent)
}

type (
	HomeworkCreatedResponse struct {
		Homework       homework.Homework       `json:"homework"`
		TaskSuggestion homework.TaskSuggestion `json:"task_suggestion"`
	}

	LinkedTaskResponse struct {
		Homework homework.Homework `json:"homework"`
		Task     task.Task         `json:"task"`
	}
)
