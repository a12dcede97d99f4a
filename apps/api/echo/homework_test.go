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

func (app *testApp) createEvent(t *testing.T, ownerID, title string, days ...string) schedule.Event {
	t.Helper()

	evt, err := app.scheduleSvc.Create(context.Background(), ownerID, schedule.NewEvent{
		Title:     title,
		StartTime: "08:00",
		EndTime:   "09:30",
		WeekType:  schedule.WeekTypeBoth,
		Days:      days,
	})
	require.NoError(t, err)
	return evt
}

func Test_homeworkApi_create(t *testing.T) {
	app := setup(t)

	usr := app.createUser(t, "Hero", "hero", "hero@test.cd", "LordOfTheRings", false, true)
	other := app.createUser(t, "Other", "other1", "other@test.cd", "LordOfTheRings", false, true)
	token := getToken(t, usr)

	evt := app.createEvent(t, usr.ID, "Maths", "monday")
	foreignEvt := app.createEvent(t, other.ID, "Physics", "tuesday")

	tests := []httpTest{
		{name: "auth required", wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken)},
		{
			name:     "schedule event required",
			token:    token,
			body:     []byte(`{"title":"Exercises 1-10","due_date":"2026-09-07"}`),
			wantCode: http.StatusBadRequest,
		},
		{
			name:     "someone else's event rejected",
			token:    token,
			body:     []byte(fmt.Sprintf(`{"schedule_event_id":%q,"title":"Exercises 1-10","due_date":"2026-09-07"}`, foreignEvt.ID)),
			wantCode: http.StatusBadRequest,
		},
		{
			name:     "created",
			token:    token,
			body:     []byte(fmt.Sprintf(`{"schedule_event_id":%q,"title":"Exercises 1-10","due_date":"2026-09-07","due_time":"08:00"}`, evt.ID)),
			wantCode: http.StatusCreated,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(http.MethodPost, "/v1/homework", tt.token, tt.body)
			app.server.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)

			if rec.Code != http.StatusCreated {
				return
			}
			var resp echoapi.HomeworkCreatedResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.Equal(t, evt.ID, resp.Homework.ScheduleEventID)
			assert.False(t, resp.Homework.Completed)

			// the response carries a ready-made task suggestion
			assert.Equal(t, "Exercises 1-10", resp.TaskSuggestion.Title)
			assert.Equal(t, "2026-09-07", resp.TaskSuggestion.Date)
			assert.Equal(t, "08:00", resp.TaskSuggestion.Time)
		})
	}
}

func Test_homeworkApi_linkedTask(t *testing.T) {
	app := setup(t)

	usr := app.createUser(t, "Hero", "hero", "hero@test.cd", "LordOfTheRings", false, true)
	token := getToken(t, usr)

	evt := app.createEvent(t, usr.ID, "Maths", "monday")
	body := []byte(fmt.Sprintf(`{"schedule_event_id":%q,"title":"Exercises 1-10","due_date":"2026-09-07"}`, evt.ID))
	req, rec := newAuthRequest(http.MethodPost, "/v1/homework", token, body)
	app.server.ServeHTTP(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code)
	var created echoapi.HomeworkCreatedResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	hwID := created.Homework.ID

	// link a task off the suggestion
	taskBody := []byte(`{"title":"Exercises 1-10","date":"2026-09-06","is_all_day":true}`)
	req, rec = newAuthRequest(http.MethodPost, "/v1/homework/"+hwID+"/task", token, taskBody)
	app.server.ServeHTTP(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code)
	var linked echoapi.LinkedTaskResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &linked))
	assert.Equal(t, linked.Task.ID, linked.Homework.LinkedTaskID)
	assert.Equal(t, hwID, linked.Task.HomeworkID)

	// the linked task lands in the Study calendar
	study, err := app.taskSvc.StudyCalendar(context.Background(), usr.ID)
	require.NoError(t, err)
	assert.Equal(t, study.ID, linked.Task.CalendarID)

	// one homework, one task
	req, rec = newAuthRequest(http.MethodPost, "/v1/homework/"+hwID+"/task", token, taskBody)
	app.server.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// completing the homework completes the task
	req, rec = newAuthRequest(http.MethodPost, "/v1/homework/"+hwID+"/toggle", token)
	app.server.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	tsk, err := app.taskSvc.GetByID(context.Background(), usr.ID, linked.Task.ID)
	require.NoError(t, err)
	assert.True(t, tsk.Completed)

	// and un-completing the task re-opens the homework
	req, rec = newAuthRequest(http.MethodPost, "/v1/tasks/"+tsk.ID+"/toggle", token)
	app.server.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	hw, err := app.homeworkSvc.GetByID(context.Background(), usr.ID, hwID)
	require.NoError(t, err)
	assert.False(t, hw.Completed)

	// deleting the homework takes the linked task with it
	req, rec = newAuthRequest(http.MethodDelete, "/v1/homework/"+hwID, token)
	app.server.ServeHTTP(rec, req)
	require.Equal(t, http.StatusNoContent, rec.Code)
	_, err = app.taskSvc.GetByID(context.Background(), usr.ID, tsk.ID)
	assert.ErrorIs(t, err, task.ErrNotFound)
}

func Test_homeworkApi_updateKeepsLink(t *testing.T) {
	app := setup(t)

	usr := app.createUser(t, "Hero", "hero", "hero@test.cd", "LordOfTheRings", false, true)
	token := getToken(t, usr)

	evt := app.createEvent(t, usr.ID, "Maths", "monday")
	body := []byte(fmt.Sprintf(`{"schedule_event_id":%q,"title":"Exercises 1-10","due_date":"2026-09-07"}`, evt.ID))
	req, rec := newAuthRequest(http.MethodPost, "/v1/homework", token, body)
	app.server.ServeHTTP(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code)
	var created echoapi.HomeworkCreatedResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	hwID := created.Homework.ID

	req, rec = newAuthRequest(http.MethodPost, "/v1/homework/"+hwID+"/task", token, []byte(`{"title":"Exercises 1-10","date":"2026-09-06","is_all_day":true}`))
	app.server.ServeHTTP(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code)
	var linked echoapi.LinkedTaskResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &linked))

	// editing homework fields never touches the link or the task
	req, rec = newAuthRequest(http.MethodPatch, "/v1/homework/"+hwID, token, []byte(`{"notes":"chapter 3 only"}`))
	app.server.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	hw, err := app.homeworkSvc.GetByID(context.Background(), usr.ID, hwID)
	require.NoError(t, err)
	assert.Equal(t, "chapter 3 only", hw.Notes)
	assert.Equal(t, linked.Task.ID, hw.LinkedTaskID)

	tsk, err := app.taskSvc.GetByID(context.Background(), usr.ID, linked.Task.ID)
	require.NoError(t, err)
	assert.Equal(t, "Exercises 1-10", tsk.Title)
}
