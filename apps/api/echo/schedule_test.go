package echoapi_test

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/grow/core/schedule"
)

func Test_scheduleApi_eventCRUD(t *testing.T) {
	app := setup(t)

	usr := app.createUser(t, "Hero", "hero", "hero@test.cd", "LordOfTheRings", false, true)
	other := app.createUser(t, "Other", "other1", "other@test.cd", "LordOfTheRings", false, true)
	token := getToken(t, usr)

	// empty to start with
	req, rec := newAuthRequest(http.MethodGet, "/v1/schedule-events", token)
	app.server.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, "[]", rec.Body.String())

	createTests := []httpTest{
		{name: "auth required", wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken)},
		{
			name:     "title required",
			token:    token,
			body:     []byte(`{"start_time":"08:00","end_time":"09:30","week_type":"both","days":["monday"]}`),
			wantCode: http.StatusBadRequest,
		},
		{
			name:     "end must come after start",
			token:    token,
			body:     []byte(`{"title":"Maths","start_time":"09:30","end_time":"08:00","week_type":"both","days":["monday"]}`),
			wantCode: http.StatusBadRequest,
		},
		{
			name:     "bad wall-clock time",
			token:    token,
			body:     []byte(`{"title":"Maths","start_time":"8h00","end_time":"09:30","week_type":"both","days":["monday"]}`),
			wantCode: http.StatusBadRequest,
		},
		{
			name:     "unknown week type",
			token:    token,
			body:     []byte(`{"title":"Maths","start_time":"08:00","end_time":"09:30","week_type":"odd","days":["monday"]}`),
			wantCode: http.StatusBadRequest,
		},
		{
			name:     "duplicate days",
			token:    token,
			body:     []byte(`{"title":"Maths","start_time":"08:00","end_time":"09:30","week_type":"both","days":["monday","monday"]}`),
			wantCode: http.StatusBadRequest,
		},
		{
			name:  "created",
			token: token,
			body: []byte(`{"title":"Maths","description":"room 2B","start_time":"08:00","end_time":"09:30",` +
				`"week_type":"upper","days":["monday","thursday"],"color":"#4f86f7"}`),
			wantCode: http.StatusCreated,
		},
	}
	var evt schedule.Event
	for _, tt := range createTests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(http.MethodPost, "/v1/schedule-events", tt.token, tt.body)
			app.server.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)

			if rec.Code == http.StatusCreated {
				require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &evt))
				assert.NotEmpty(t, evt.ID)
				assert.Equal(t, "Maths", evt.Title)
				assert.Equal(t, schedule.WeekTypeUpper, evt.WeekType)
				assert.Equal(t, []string{"monday", "thursday"}, evt.Days)
			}
		})
	}

	// events are scoped per owner
	req, rec = newAuthRequest(http.MethodGet, "/v1/schedule-events", getToken(t, other))
	app.server.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, "[]", rec.Body.String())

	// partial update keeps omitted fields
	req, rec = newAuthRequest(http.MethodPut, "/v1/schedule-events/"+evt.ID, token, []byte(`{"title":"Advanced Maths"}`))
	app.server.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	var updated schedule.Event
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &updated))
	assert.Equal(t, "Advanced Maths", updated.Title)
	assert.Equal(t, "08:00", updated.StartTime)
	assert.Equal(t, []string{"monday", "thursday"}, updated.Days)

	// cross-owner lookups come back as 404
	req, rec = newAuthRequest(http.MethodPut, "/v1/schedule-events/"+evt.ID, getToken(t, other), []byte(`{"title":"Hijack"}`))
	app.server.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	req, rec = newAuthRequest(http.MethodDelete, "/v1/schedule-events/"+evt.ID, token)
	app.server.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	req, rec = newAuthRequest(http.MethodGet, "/v1/schedule-events", token)
	app.server.ServeHTTP(rec, req)
	assert.JSONEq(t, "[]", rec.Body.String())
}

func Test_scheduleApi_weekSettings(t *testing.T) {
	app := setup(t)

	usr := app.createUser(t, "Hero", "hero", "hero@test.cd", "LordOfTheRings", false, true)
	token := getToken(t, usr)

	// defaults are served before anything is saved
	req, rec := newAuthRequest(http.MethodGet, "/v1/week-settings", token)
	app.server.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	var ws schedule.WeekSettings
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &ws))
	assert.Equal(t, schedule.WeekModeNone, ws.WeekType)
	assert.Equal(t, 1, ws.WeekInterval)

	tests := []httpTest{
		{
			name:     "unknown week type",
			body:     []byte(`{"week_type":"fortnightly","week_interval":1}`),
			wantCode: http.StatusBadRequest,
		},
		{
			name:     "interval out of range",
			body:     []byte(`{"week_type":"alternating","week_interval":53}`),
			wantCode: http.StatusBadRequest,
		},
		{
			name:     "bad reference date",
			body:     []byte(`{"week_type":"alternating","week_interval":1,"reference_date":"05-01-2026"}`),
			wantCode: http.StatusBadRequest,
		},
		{
			name:     "alternation needs an anchor",
			body:     []byte(`{"week_type":"alternating","week_interval":1}`),
			wantCode: http.StatusBadRequest,
		},
		{
			name:     "saved",
			body:     []byte(`{"week_type":"alternating","week_interval":1,"reference_date":"2026-01-05"}`),
			wantCode: http.StatusOK,
		},
		{
			name:     "custom names saved",
			body:     []byte(`{"week_type":"custom","week_interval":2,"custom_week_names":["A","B","C"],"reference_date":"2026-01-05"}`),
			wantCode: http.StatusOK,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(http.MethodPut, "/v1/week-settings", token, tt.body)
			app.server.ServeHTTP(rec, req)
			if rec.Code != tt.wantCode {
				t.Errorf("failed! code = %v; wantCode %v", rec.Code, tt.wantCode)
			}
		})
	}

	req, rec = newAuthRequest(http.MethodGet, "/v1/week-settings", token)
	app.server.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &ws))
	assert.Equal(t, schedule.WeekModeCustom, ws.WeekType)
	assert.Equal(t, 2, ws.WeekInterval)
	assert.Equal(t, []string{"A", "B", "C"}, ws.CustomWeekNames)
}
