package echoapi_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"reflect"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	echoapi "github.com/trezcool/grow/apps/api/echo"
	"github.com/trezcool/grow/core/homework"
	"github.com/trezcool/grow/core/schedule"
	"github.com/trezcool/grow/core/task"
	"github.com/trezcool/grow/core/user"
	emailsvc "github.com/trezcool/grow/services/email"
	dummydb "github.com/trezcool/grow/storage/database/dummy"
)

var errMissingToken = httpErr{Error: "missing or malformed jwt"}

type testApp struct {
	server echoapi.Server

	usrRepo     user.Repository
	usrSvc      user.Service
	scheduleSvc schedule.Service
	taskSvc     task.Service
	homeworkSvc homework.Service
}

func setup(t *testing.T) *testApp {
	db, err := dummydb.Open()
	require.NoError(t, err)

	usrRepo := dummydb.NewUserRepository(db)
	usrSvc := user.NewServiceMock(usrRepo, emailsvc.NewConsoleServiceMock())
	scheduleSvc := schedule.NewService(dummydb.NewScheduleRepository(db))
	taskSvc := task.NewService(dummydb.NewTaskRepository(db))
	homeworkSvc := homework.NewService(dummydb.NewHomeworkRepository(db), scheduleSvc, taskSvc)

	app := &testApp{
		usrRepo:     usrRepo,
		usrSvc:      usrSvc,
		scheduleSvc: scheduleSvc,
		taskSvc:     taskSvc,
		homeworkSvc: homeworkSvc,
	}
	app.server = echoapi.NewServer(
		&echoapi.Options{
			DisableReqLogs: true,
			Logger:         testLogger{std: log.New(os.Stdout, "TEST : ", log.LstdFlags)},
			UserSvc:        usrSvc,
			ScheduleSvc:    scheduleSvc,
			TaskSvc:        taskSvc,
			HomeworkSvc:    homeworkSvc,
		},
	)
	return app
}

func (app *testApp) createUser(t *testing.T, name, uname, email, pwd string, isAdmin, isActive bool) user.User {
	t.Helper()

	now := time.Now().UTC()
	usr := user.User{
		ID:        uuid.New().String(),
		Name:      name,
		Username:  uname,
		Email:     email,
		IsAdmin:   isAdmin,
		CreatedAt: now,
		UpdatedAt: now,
	}
	usr.SetActive(isActive)
	if pwd != "" {
		require.NoError(t, usr.SetPassword(pwd))
	}
	usr, err := app.usrRepo.CreateUser(context.Background(), usr)
	require.NoError(t, err)
	return usr
}

type testLogger struct {
	std *log.Logger
}

func (l testLogger) Debug(msg string, args ...interface{}) { l.print(msg, args) }
func (l testLogger) Info(msg string, args ...interface{})  { l.print(msg, args) }
func (l testLogger) Warn(msg string, args ...interface{})  { l.print(msg, args) }
func (l testLogger) Error(msg string, args ...interface{}) { l.print(msg, args) }
func (l testLogger) Fatal(msg string, args ...interface{}) { l.print(msg, args) }

func (l testLogger) print(msg string, args []interface{}) {
	l.std.Println(msg)
	for _, arg := range args {
		l.std.Printf("%+v\n", arg)
	}
}

type httpErr struct {
	Error string `json:"error"`
}

type httpTest struct {
	name     string
	method   string
	path     string
	body     []byte
	token    string
	wantCode int
	wantData []byte
	extra    interface{}
}

func newAuthRequest(method, path, token string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	var body bytes.Buffer
	if len(data) > 0 {
		body.Write(data[0])
	}
	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	return req, rec
}

func newRequest(method, path string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	return newAuthRequest(method, path, "", data...)
}

func getToken(t *testing.T, usr user.User) string {
	t.Helper()

	claims := echoapi.GetUserClaims(usr)
	token, err := echoapi.GenerateToken(claims)
	if err != nil {
		t.Fatalf("getToken(): %v", err)
	}
	return token
}

func marchallObj(t *testing.T, obj interface{}) []byte {
	t.Helper()

	data, err := json.Marshal(obj)
	if err != nil {
		t.Fatalf("marchallObj(): %v", err)
	}
	return data
}

func marchallList(t *testing.T, objs ...interface{}) []byte {
	t.Helper()

	data, err := json.Marshal(objs)
	if err != nil {
		t.Fatalf("marchallList(): %v", err)
	}
	return data
}

func jsonBytesEqual(t *testing.T, b1, b2 []byte) (bool, error) {
	var j1, j2 interface{}
	if err := json.Unmarshal(b1, &j1); err != nil {
		return false, err
	}
	if err := json.Unmarshal(b2, &j2); err != nil {
		return false, err
	}
	if reflect.DeepEqual(j1, j2) {
		return true, nil
	}
	if j1 == nil || j2 == nil {
		return false, nil
	}
	return assert.ElementsMatch(t, j1, j2), nil
}

func checkCodeAndData(t *testing.T, tt httpTest, rec *httptest.ResponseRecorder) {
	t.Helper()

	if rec.Code != tt.wantCode {
		t.Errorf("failed! code = %v; wantCode %v", rec.Code, tt.wantCode)
	}
	if tt.wantData == nil {
		return
	}
	ok, err := jsonBytesEqual(t, rec.Body.Bytes(), tt.wantData)
	if err != nil {
		t.Errorf("jsonBytesEqual() failed to compare; err %v", err)
	}
	if !ok {
		t.Errorf("failed! data = %v; wantData %v", rec.Body.String(), string(tt.wantData))
	}
}
