package tests

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"
	"time"

	"github.com/prct/registrar/api/echo"
	"github.com/prct/registrar/core"
	"github.com/prct/registrar/core/academic"
	"github.com/prct/registrar/core/staff"
	inmemdb "github.com/prct/registrar/storage/database/inmem"
	testutil "github.com/prct/registrar/tests"
)

var errMissingToken = httpErr{Error: "missing or malformed jwt"}

// academicFixture is the seeding surface of the in-mem academic repository.
type academicFixture interface {
	academic.Repository
	SetDefaults(academic.Defaults)
	AddSemester(academic.Semester)
	AddPartialTerm(academic.PartialTerm)
	AddClassroom(academic.Classroom)
	AddMajor(majorID int, courseID string)
	AddCourse(academic.Course)
	AddSubject(academic.Subject)
	AddTeacher(academic.Teacher)
	AddStudent(academic.Student, ...int)
	Offerings() []academic.NewOffering
}

func newTestConfig() *core.Config {
	return &core.Config{
		TestMode:  true,
		Env:       "TEST",
		AppName:   "Registrar",
		SecretKey: "s3cr3t-t35t-k3y",
		Server: core.ServerConfig{
			JWTExpirationDelta:        time.Hour,
			JWTRefreshExpirationDelta: time.Hour,
		},
	}
}

func setup(t *testing.T) (echoapi.Server, *core.Config, academicFixture, staff.Repository) {
	t.Helper()

	db, err := inmemdb.Open()
	if err != nil {
		t.Fatalf("setup() failed: %v", err)
	}
	acaRepo := inmemdb.NewAcademicRepository(db)
	stfRepo := inmemdb.NewStaffRepository(db)

	conf := newTestConfig()
	validate, translator := testutil.NewValidator()

	app := echoapi.NewServer(echoapi.ServerDeps{
		Conf:           conf,
		Logger:         nopLogger{},
		AcademicSvc:    academic.NewService(acaRepo, validate),
		StaffSvc:       staff.NewService(stfRepo, validate),
		Validate:       validate,
		Translator:     translator,
		DisableReqLogs: true,
	})
	return app, conf, acaRepo, stfRepo
}

type nopLogger struct{}

func (nopLogger) Enable(bool)                  {}
func (nopLogger) Debug(string, ...interface{}) {}
func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}
func (nopLogger) Fatal(string, ...interface{}) {}

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
	extra    func(t *testing.T, rec *httptest.ResponseRecorder)
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

func getToken(t *testing.T, conf *core.Config, stf staff.Staff) string {
	claims := echoapi.GetStaffClaims(conf, stf)
	token, err := echoapi.GenerateToken(conf, claims)
	if err != nil {
		t.Fatalf("getToken() failed: %v", err)
	}
	return token
}

func marchallObj(t *testing.T, obj interface{}) []byte {
	data, err := json.Marshal(obj)
	if err != nil {
		t.Fatalf("marchallObj() failed: %v", err)
	}
	return data
}

func jsonBytesEqual(b1, b2 []byte) (bool, error) {
	var j1, j2 interface{}
	if err := json.Unmarshal(b1, &j1); err != nil {
		return false, err
	}
	if err := json.Unmarshal(b2, &j2); err != nil {
		return false, err
	}
	return reflect.DeepEqual(j1, j2), nil
}

func checkCodeAndData(t *testing.T, tt httpTest, rec *httptest.ResponseRecorder) {
	if rec.Code != tt.wantCode {
		t.Errorf("failed! code = %v; wantCode %v", rec.Code, tt.wantCode)
	}
	if tt.wantData == nil {
		return
	}
	ok, err := jsonBytesEqual(rec.Body.Bytes(), tt.wantData)
	if err != nil {
		t.Errorf("jsonBytesEqual() failed to compare; err %v", err)
	}
	if !ok {
		t.Errorf("failed! data = %v; wantData %v", rec.Body.String(), string(tt.wantData))
	}
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, dst interface{}) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), dst); err != nil {
		t.Fatalf("decodeBody() failed: %v; body = %v", err, rec.Body.String())
	}
}
