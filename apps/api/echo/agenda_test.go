package echoapi_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	echoapi "github.com/trezcool/grow/apps/api/echo"
	"github.com/trezcool/grow/core/schedule"
	"github.com/trezcool/grow/core/task"
)

func Test_agendaApi_onDate(t *testing.T) {
	app := setup(t)
	ctx := context.Background()

	usr := app.createUser(t, "Hero", "hero", "hero@test.cd", "LordOfTheRings", false, true)
	token := getToken(t, usr)

	// alternating weeks anchored on Monday 2026-01-05 (an upper week)
	_, err := app.scheduleSvc.SaveWeekSettings(ctx, usr.ID, schedule.UpdateWeekSettings{
		WeekType:      schedule.WeekModeAlternating,
		WeekInterval:  1,
		ReferenceDate: "2026-01-05",
	})
	require.NoError(t, err)

	mkEvent := func(title, weekType string, days ...string) schedule.Event {
		evt, err := app.scheduleSvc.Create(ctx, usr.ID, schedule.NewEvent{
			Title:     title,
			StartTime: "08:00",
			EndTime:   "09:30",
			WeekType:  weekType,
			Days:      days,
		})
		require.NoError(t, err)
		return evt
	}
	maths := mkEvent("Maths", schedule.WeekTypeUpper, "monday")
	physics := mkEvent("Physics", schedule.WeekTypeLower, "monday")
	art := mkEvent("Art", schedule.WeekTypeBoth, "monday")

	require.NoError(t, app.taskSvc.EnsureStarterCalendars(ctx, usr.ID))
	cals, err := app.taskSvc.QueryCalendars(ctx, usr.ID)
	require.NoError(t, err)
	byName := make(map[string]task.Calendar, len(cals))
	for _, cal := range cals {
		byName[cal.Name] = cal
	}
	personal, work := byName["Personal"], byName["Work"]

	mkTask := func(cal task.Calendar, title, date string) task.Task {
		tsk, err := app.taskSvc.Create(ctx, usr.ID, task.NewTask{
			CalendarID: cal.ID,
			Title:      title,
			Date:       date,
			IsAllDay:   true,
		})
		require.NoError(t, err)
		return tsk
	}
	milk := mkTask(personal, "Buy milk", "2026-01-05")
	mkTask(work, "File report", "2026-01-05")
	mkTask(personal, "Next week", "2026-01-12")

	hwBody := fmt.Sprintf(`{"schedule_event_id":%q,"title":"Exercises 1-10","due_date":"2026-01-05"}`, maths.ID)
	req, rec := newAuthRequest(http.MethodPost, "/v1/homework", token, []byte(hwBody))
	app.server.ServeHTTP(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code)

	get := func(t *testing.T, path string, wantCode int) echoapi.AgendaResponse {
		t.Helper()
		req, rec := newAuthRequest(http.MethodGet, path, token)
		app.server.ServeHTTP(rec, req)
		require.Equal(t, wantCode, rec.Code, rec.Body.String())
		var resp echoapi.AgendaResponse
		if wantCode == http.StatusOK {
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		}
		return resp
	}

	t.Run("date required", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, "/v1/agenda", token)
		app.server.ServeHTTP(rec, req)
		require.Equal(t, http.StatusBadRequest, rec.Code)

		// validation failures surface as a field error map
		var fldErrs map[string]string
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &fldErrs))
		assert.Contains(t, fldErrs, "date")
	})
	t.Run("bad date", func(t *testing.T) {
		get(t, "/v1/agenda?date=05-01-2026", http.StatusBadRequest)
	})

	t.Run("upper monday", func(t *testing.T) {
		resp := get(t, "/v1/agenda?date=2026-01-05", http.StatusOK)
		assert.Equal(t, string(schedule.ParityUpper), resp.Parity)
		assert.Equal(t, "upper", resp.WeekName)

		titles := make([]string, 0, len(resp.Events))
		for _, evt := range resp.Events {
			titles = append(titles, evt.Title)
		}
		assert.ElementsMatch(t, []string{maths.Title, art.Title}, titles)
		assert.Len(t, resp.Tasks, 2) // next week's task is out
		require.Len(t, resp.Homework, 1)
		assert.Equal(t, "Exercises 1-10", resp.Homework[0].Title)
	})

	t.Run("lower monday", func(t *testing.T) {
		resp := get(t, "/v1/agenda?date=2026-01-12", http.StatusOK)
		assert.Equal(t, string(schedule.ParityLower), resp.Parity)

		titles := make([]string, 0, len(resp.Events))
		for _, evt := range resp.Events {
			titles = append(titles, evt.Title)
		}
		assert.ElementsMatch(t, []string{physics.Title, art.Title}, titles)
		assert.Len(t, resp.Tasks, 1)
		assert.Empty(t, resp.Homework)
	})

	t.Run("calendar filter", func(t *testing.T) {
		resp := get(t, "/v1/agenda?date=2026-01-05&calendars="+personal.ID, http.StatusOK)
		require.Len(t, resp.Tasks, 1)
		assert.Equal(t, milk.ID, resp.Tasks[0].ID)
		// events and homework ignore the calendar filter
		assert.Len(t, resp.Events, 2)
		assert.Len(t, resp.Homework, 1)
	})

	t.Run("quiet day", func(t *testing.T) {
		resp := get(t, "/v1/agenda?date=2026-01-06", http.StatusOK)
		assert.Empty(t, resp.Events)
		assert.Empty(t, resp.Tasks)
		assert.Empty(t, resp.Homework)
	})
}
