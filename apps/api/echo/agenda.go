package echoapi

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/grow/core"
	"github.com/trezcool/grow/core/agenda"
	"github.com/trezcool/grow/core/homework"
	"github.com/trezcool/grow/core/schedule"
	"github.com/trezcool/grow/core/task"
)

type agendaApi struct {
	scheduleSvc schedule.Service
	taskSvc     task.Service
	homeworkSvc homework.Service
}

func registerAgendaAPI(
	g *echo.Group,
	jwt echo.MiddlewareFunc,
	scheduleSvc schedule.Service,
	taskSvc task.Service,
	homeworkSvc homework.Service,
) {
	api := agendaApi{scheduleSvc: scheduleSvc, taskSvc: taskSvc, homeworkSvc: homeworkSvc}
	g.GET("/agenda", api.onDate, jwt)
}

type AgendaResponse struct {
	Date     string `json:"date"`
	Parity   string `json:"parity"`
	WeekName string `json:"week_name"`
	agenda.Day
}

func (api *agendaApi) onDate(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()

	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	var query AgendaRequest
	if err = ctx.Bind(&query); err != nil {
		return errors.Wrap(err, "binding to AgendaRequest")
	}
	if err = query.Validate(core.Validate); err != nil {
		return err
	}
	day, _ := time.ParseInLocation("2006-01-02", query.Date, time.UTC)

	events, err := api.scheduleSvc.QueryAll(reqCtx, claims.Subject)
	if err != nil {
		return errors.Wrap(err, "querying schedule events")
	}
	tasks, err := api.taskSvc.QueryAll(reqCtx, claims.Subject)
	if err != nil {
		return errors.Wrap(err, "querying tasks")
	}
	hws, err := api.homeworkSvc.QueryAll(reqCtx, claims.Subject)
	if err != nil {
		return errors.Wrap(err, "querying homework")
	}
	ws, err := api.scheduleSvc.WeekSettings(reqCtx, claims.Subject)
	if err != nil {
		return errors.Wrap(err, "getting week settings")
	}

	var visible []string
	if query.Calendars != "" {
		for _, id := range strings.Split(query.Calendars, ",") {
			if id = strings.TrimSpace(id); id != "" {
				visible = append(visible, id)
			}
		}
		if visible == nil {
			visible = []string{}
		}
	}

	parity := ws.ParityOn(day)
	return ctx.JSON(http.StatusOK, AgendaResponse{
		Date:     query.Date,
		Parity:   string(parity),
		WeekName: ws.WeekNameOn(day),
		Day:      agenda.OnDate(day, parity, events, tasks, hws, visible),
	})
}

type AgendaRequest struct {
	Date      string `json:"date" query:"date" validate:"required,datetime=2006-01-02"`
	Calendars string `json:"calendars" query:"calendars"`
}

func (ar *AgendaRequest) Validate(validate *validator.Validate) error {
	return validate.Struct(ar)
}
