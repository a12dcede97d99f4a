package echoapi_test

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	echoapi "github.com/trezcool/grow/apps/api/echo"
	"github.com/trezcool/grow/core/task"
)

func Test_userApi_register(t *testing.T) {
	app := setup(t)

	tests := []httpTest{
		{
			name: "password mismatch",
			body: []byte(`{"name":"Jane Doe","username":"janedoe","email":"jane@test.cd",` +
				`"password":"L0rdOfThe.Rings","password_confirm":"L0rdOfThe.Fries"}`),
			wantCode: http.StatusBadRequest,
		},
		{
			name: "registered",
			body: []byte(`{"name":"Jane Doe","username":"janedoe","email":"jane@test.cd",` +
				`"password":"L0rdOfThe.Rings","password_confirm":"L0rdOfThe.Rings"}`),
			wantCode: http.StatusCreated,
		},
		{
			name: "duplicate username rejected",
			body: []byte(`{"name":"Jane 2","username":"janedoe","email":"jane2@test.cd",` +
				`"password":"L0rdOfThe.Rings","password_confirm":"L0rdOfThe.Rings"}`),
			wantCode: http.StatusBadRequest,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newRequest(http.MethodPost, "/v1/users/register", tt.body)
			app.server.ServeHTTP(rec, req)
			if rec.Code != tt.wantCode {
				t.Errorf("failed! code = %v; wantCode %v", rec.Code, tt.wantCode)
			}
		})
	}

	// a fresh account starts with its starter calendars
	usr, err := app.usrSvc.GetByUsername(context.Background(), "janedoe")
	require.NoError(t, err)
	cals, err := app.taskSvc.QueryCalendars(context.Background(), usr.ID)
	require.NoError(t, err)
	assert.Len(t, cals, len(task.StarterCalendars))
}

func Test_userApi_login(t *testing.T) {
	app := setup(t)

	app.createUser(t, "Hero", "hero", "hero@test.cd", "LordOfTheRings", false, true)
	app.createUser(t, "N Dog", "ndog", "ndog@test.cd", "LordOfTheRings", false, false)

	tests := []httpTest{
		{
			name: "empty credentials", body: []byte(`{}`),
			wantCode: http.StatusBadRequest,
		},
		{
			name: "unknown user", body: []byte(`{"username":"whoami","password":"LordOfTheRings"}`),
			wantCode: http.StatusBadRequest, wantData: marchallObj(t, httpErr{Error: "authentication failed"}),
		},
		{
			name: "wrong password", body: []byte(`{"username":"hero","password":"LordOfTheFries"}`),
			wantCode: http.StatusBadRequest, wantData: marchallObj(t, httpErr{Error: "authentication failed"}),
		},
		{
			name: "inactive account", body: []byte(`{"username":"ndog","password":"LordOfTheRings"}`),
			wantCode: http.StatusForbidden, wantData: marchallObj(t, httpErr{Error: "account deactivated"}),
		},
		{name: "login by username", body: []byte(`{"username":"hero","password":"LordOfTheRings"}`), wantCode: http.StatusOK},
		{name: "login by email", body: []byte(`{"username":"hero@test.cd","password":"LordOfTheRings"}`), wantCode: http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newRequest(http.MethodPost, "/v1/users/login", tt.body)
			app.server.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)

			if tt.wantCode != http.StatusOK {
				return
			}
			var resp echoapi.LoginResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.NotEmpty(t, resp.Token)

			// token is mirrored in an httpOnly cookie
			var found bool
			for _, cookie := range rec.Result().Cookies() {
				if cookie.Name == "token" {
					found = true
					assert.Equal(t, resp.Token, cookie.Value)
					assert.True(t, cookie.HttpOnly)
				}
			}
			assert.True(t, found, "token cookie not set")
		})
	}
}

func Test_userApi_me(t *testing.T) {
	app := setup(t)

	usr := app.createUser(t, "Hero", "hero", "hero@test.cd", "LordOfTheRings", false, true)

	tests := []httpTest{
		{name: "auth required", wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken)},
		{name: "me", token: getToken(t, usr), wantCode: http.StatusOK, wantData: marchallObj(t, usr)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(http.MethodGet, "/v1/users/me", tt.token)
			app.server.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}
}

func Test_userApi_userQuery(t *testing.T) {
	app := setup(t)

	usr := app.createUser(t, "Hero", "hero", "hero@test.cd", "LordOfTheRings", false, true)
	admin := app.createUser(t, "Admin", "admin1", "admin@test.cd", "LordOfTheRings", true, true)

	tests := []httpTest{
		{name: "auth required", wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken)},
		{
			name: "admin required", token: getToken(t, usr), wantCode: http.StatusForbidden,
			wantData: marchallObj(t, httpErr{Error: "permission denied"}),
		},
		{name: "get all", token: getToken(t, admin), wantCode: http.StatusOK, wantData: marchallList(t, usr, admin)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(http.MethodGet, "/v1/users", tt.token)
			app.server.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}
}
