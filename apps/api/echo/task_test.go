package echoapi_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/grow/core/task"
)

func Test_calendarApi_CRUD(t *testing.T) {
	app := setup(t)

	usr := app.createUser(t, "Hero", "hero", "hero@test.cd", "LordOfTheRings", false, true)
	token := getToken(t, usr)

	// create
	req, rec := newAuthRequest(http.MethodPost, "/v1/calendars", token, []byte(`{"name":"Chess Club","color":"#112233"}`))
	app.server.ServeHTTP(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code)
	var cal task.Calendar
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &cal))
	assert.Equal(t, "Chess Club", cal.Name)

	// bad color
	req, rec = newAuthRequest(http.MethodPost, "/v1/calendars", token, []byte(`{"name":"Bad","color":"red-ish"}`))
	app.server.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// rename
	req, rec = newAuthRequest(http.MethodPut, "/v1/calendars/"+cal.ID, token, []byte(`{"name":"Chess"}`))
	app.server.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &cal))
	assert.Equal(t, "Chess", cal.Name)
	assert.Equal(t, "#112233", cal.Color) // kept

	// a task pins its calendar down
	body := fmt.Sprintf(`{"calendar_id":%q,"title":"Prep opening","date":"2026-09-07","is_all_day":true}`, cal.ID)
	req, rec = newAuthRequest(http.MethodPost, "/v1/tasks", token, []byte(body))
	app.server.ServeHTTP(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code)
	var tsk task.Task
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &tsk))

	req, rec = newAuthRequest(http.MethodDelete, "/v1/calendars/"+cal.ID, token)
	app.server.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// empty calendars can go
	req, rec = newAuthRequest(http.MethodDelete, "/v1/tasks/"+tsk.ID, token)
	app.server.ServeHTTP(rec, req)
	require.Equal(t, http.StatusNoContent, rec.Code)

	req, rec = newAuthRequest(http.MethodDelete, "/v1/calendars/"+cal.ID, token)
	app.server.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func Test_taskApi_CRUD(t *testing.T) {
	app := setup(t)

	usr := app.createUser(t, "Hero", "hero", "hero@test.cd", "LordOfTheRings", false, true)
	token := getToken(t, usr)

	require.NoError(t, app.taskSvc.EnsureStarterCalendars(context.Background(), usr.ID))
	cals, err := app.taskSvc.QueryCalendars(context.Background(), usr.ID)
	require.NoError(t, err)
	calID := cals[0].ID

	tests := []httpTest{
		{name: "auth required", wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken)},
		{
			name:     "calendar required",
			token:    token,
			body:     []byte(`{"title":"Buy milk","date":"2026-09-07"}`),
			wantCode: http.StatusBadRequest,
		},
		{
			name:     "unknown calendar",
			token:    token,
			body:     []byte(`{"calendar_id":"3d5a8b1e-7c2f-4e9a-b6d0-1f2e3a4b5c6d","title":"Buy milk","date":"2026-09-07"}`),
			wantCode: http.StatusBadRequest,
		},
		{
			name:     "bad date",
			token:    token,
			body:     []byte(fmt.Sprintf(`{"calendar_id":%q,"title":"Buy milk","date":"07/09/2026"}`, calID)),
			wantCode: http.StatusBadRequest,
		},
		{
			name:     "created",
			token:    token,
			body:     []byte(fmt.Sprintf(`{"calendar_id":%q,"title":"Buy milk","date":"2026-09-07","time":"17:30"}`, calID)),
			wantCode: http.StatusCreated,
		},
	}
	var tsk task.Task
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(http.MethodPost, "/v1/tasks", tt.token, tt.body)
			app.server.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)

			if rec.Code == http.StatusCreated {
				require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &tsk))
				assert.Equal(t, "Buy milk", tsk.Title)
				assert.Equal(t, "17:30", tsk.Time)
				assert.False(t, tsk.IsAllDay)
			}
		})
	}

	// switching to all-day clears the wall-clock time
	body := fmt.Sprintf(`{"calendar_id":%q,"is_all_day":true}`, calID)
	req, rec := newAuthRequest(http.MethodPut, "/v1/tasks/"+tsk.ID, token, []byte(body))
	app.server.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &tsk))
	assert.True(t, tsk.IsAllDay)
	assert.Empty(t, tsk.Time)
	assert.Equal(t, "Buy milk", tsk.Title) // kept

	// toggle flips completion both ways
	req, rec = newAuthRequest(http.MethodPost, "/v1/tasks/"+tsk.ID+"/toggle", token)
	app.server.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &tsk))
	assert.True(t, tsk.Completed)

	req, rec = newAuthRequest(http.MethodPost, "/v1/tasks/"+tsk.ID+"/toggle", token)
	app.server.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &tsk))
	assert.False(t, tsk.Completed)
}
