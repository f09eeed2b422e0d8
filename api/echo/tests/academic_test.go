package tests

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/volatiletech/null/v8"

	"github.com/prct/registrar/api/echo"
	"github.com/prct/registrar/core/academic"
	"github.com/prct/registrar/core/staff"
	testutil "github.com/prct/registrar/tests"
)

// seedAcademic loads the two-year fixture the academic endpoint tests share.
func seedAcademic(repo academicFixture) {
	repo.AddSemester(academic.Semester{ID: 10, Year: "2567", Ordinal: 2})
	repo.AddSemester(academic.Semester{ID: 9, Year: "2567", Ordinal: 1})
	repo.AddSemester(academic.Semester{ID: 5, Year: "2566", Ordinal: 2})
	repo.SetDefaults(academic.Defaults{ActiveYear: "2567", ActiveSemesterID: null.IntFrom(9)})

	repo.AddPartialTerm(academic.PartialTerm{ID: 91, SemesterID: 9, Part: 1})
	repo.AddPartialTerm(academic.PartialTerm{ID: 92, SemesterID: 9, Part: 2})
	repo.AddPartialTerm(academic.PartialTerm{ID: 101, SemesterID: 10, Part: 1})

	repo.AddClassroom(academic.Classroom{
		ID: 901, SemesterID: 9, Label: "ชฟ.1/1", LevelCode: "51",
		TeacherID: null.StringFrom("T1"), MajorID: null.IntFrom(7),
	})
	repo.AddClassroom(academic.Classroom{ID: 1001, SemesterID: 10, Label: "ชฟ.1/1", LevelCode: "51"})

	repo.AddCourse(academic.Course{ID: "C50", Name: "ช่างไฟฟ้ากำลัง"})
	repo.AddMajor(7, "C50")
	repo.AddSubject(academic.Subject{
		SubjectKey: academic.SubjectKey{Code: "20104-2001", CourseID: "C50"},
		Name:       "วงจรไฟฟ้ากระแสตรง",
		Credits:    2,
	})

	repo.AddTeacher(academic.Teacher{ID: "T1", Title: null.StringFrom("นาย"), FirstName: null.StringFrom("สมชาย")})
	repo.AddStudent(academic.Student{ID: "64201010001", Title: "นาย", FirstName: "วิชัย", LastName: "ใจดี"}, 901)
	repo.AddStudent(academic.Student{ID: "64201010002", Title: "นางสาว", FirstName: "มะลิ", LastName: "สดใส"}, 901)
}

func loginStaff(t *testing.T, stfRepo staff.Repository) staff.Staff {
	return testutil.CreateStaff(t, stfRepo, "Somchai J", "somchaij", "LePassword123!", true)
}

func Test_academicApi_openCourses(t *testing.T) {
	app, conf, acaRepo, stfRepo := setup(t)
	seedAcademic(acaRepo)
	token := getToken(t, conf, loginStaff(t, stfRepo))

	off := academic.NewOffering{
		PartialTermID: 91,
		ClassroomID:   901,
		Subject:       academic.SubjectKey{Code: "20104-2001", CourseID: "C50"},
		TeacherID:     "T1",
	}
	require.NoError(t, acaRepo.CreateOffering(context.Background(), off, academic.OfferingStatusActive))

	tests := []httpTest{
		{
			name: "auth required", path: "/v1/academic/open-courses",
			wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken),
		},
		{
			name: "defaults resolve", path: "/v1/academic/open-courses", token: token, wantCode: http.StatusOK,
			extra: func(t *testing.T, rec *httptest.ResponseRecorder) {
				var resp echoapi.OpenCourseListResponse
				decodeBody(t, rec, &resp)
				assert.Equal(t, "2567", resp.Filter.Year)
				assert.Equal(t, 9, resp.Filter.SemesterID)
				assert.True(t, resp.Filter.Ready)
				require.Len(t, resp.Offerings, 1)
				assert.Equal(t, "20104-2001", resp.Offerings[0].SubjectCode)
				assert.Equal(t, "วงจรไฟฟ้ากระแสตรง", resp.Offerings[0].SubjectName.String)
				assert.Equal(t, "สมชาย", resp.Offerings[0].TeacherFirst.String)
			},
		},
		{
			name: "narrowed to an empty partial term", path: "/v1/academic/open-courses?semester_id=9&ps_id=92",
			token: token, wantCode: http.StatusOK,
			extra: func(t *testing.T, rec *httptest.ResponseRecorder) {
				var resp echoapi.OpenCourseListResponse
				decodeBody(t, rec, &resp)
				assert.Equal(t, 92, resp.Filter.PartialTermID)
				assert.Empty(t, resp.Offerings)
			},
		},
		{
			name: "unknown semester is not an error", path: "/v1/academic/open-courses?year=2567&semester_id=9999",
			token: token, wantCode: http.StatusOK,
			extra: func(t *testing.T, rec *httptest.ResponseRecorder) {
				var resp echoapi.OpenCourseListResponse
				decodeBody(t, rec, &resp)
				assert.False(t, resp.Filter.Ready)
				assert.Empty(t, resp.Filter.PartialTerms)
				assert.Empty(t, resp.Offerings)
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(http.MethodGet, tt.path, tt.token)
			app.ServeHTTP(rec, req)

			checkCodeAndData(t, tt, rec)
			if tt.extra != nil {
				tt.extra(t, rec)
			}
		})
	}
}

func Test_academicApi_createOffering(t *testing.T) {
	app, conf, acaRepo, stfRepo := setup(t)
	seedAcademic(acaRepo)
	token := getToken(t, conf, loginStaff(t, stfRepo))

	tests := []httpTest{
		{
			name: "auth required", body: []byte("{}"),
			wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken),
		},
		{
			name: "all fields required", token: token, body: []byte("{}"), wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, map[string]string{
				"ps_id":        "this field is required",
				"class_id":     "this field is required",
				"subject_code": "this field is required",
				"course_id":    "this field is required",
				"teacher_id":   "this field is required",
			}),
		},
		{
			name: "ok", token: token, wantCode: http.StatusCreated,
			body: []byte(`{
				"ps_id": 91,
				"class_id": 901,
				"subject": {"subject_code": "20104-2001", "course_id": "C50"},
				"teacher_id": "T1"
			}`),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := len(acaRepo.Offerings())
			req, rec := newAuthRequest(http.MethodPost, "/v1/academic/open-courses", tt.token, tt.body)
			app.ServeHTTP(rec, req)

			checkCodeAndData(t, tt, rec)
			want := before
			if tt.wantCode == http.StatusCreated {
				want++
			}
			assert.Len(t, acaRepo.Offerings(), want)
		})
	}
}

func Test_academicApi_offeringForm(t *testing.T) {
	app, conf, acaRepo, stfRepo := setup(t)
	seedAcademic(acaRepo)
	token := getToken(t, conf, loginStaff(t, stfRepo))

	req, rec := newAuthRequest(http.MethodGet, "/v1/academic/open-courses/new?class_id=901", token)
	app.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp echoapi.OfferingFormResponse
	decodeBody(t, rec, &resp)

	// the classroom's curriculum drives the subject options
	assert.Equal(t, 901, resp.Filter.ClassroomID)
	assert.Equal(t, "C50", resp.Filter.CourseID)
	require.Len(t, resp.Filter.Subjects, 1)
	assert.Equal(t, "20104-2001", resp.Filter.Subjects[0].Code)
	require.Len(t, resp.Teachers, 1)
	assert.Equal(t, "T1", resp.Teachers[0].ID)
}

func Test_academicApi_listCourses(t *testing.T) {
	app, conf, acaRepo, stfRepo := setup(t)
	seedAcademic(acaRepo)
	token := getToken(t, conf, loginStaff(t, stfRepo))

	req, rec := newAuthRequest(http.MethodGet, "/v1/academic/courses?course_id=C50", token)
	app.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp echoapi.CourseListResponse
	decodeBody(t, rec, &resp)
	require.Len(t, resp.Courses, 1)
	assert.Equal(t, "C50", resp.Filter.CourseID)
	require.Len(t, resp.Filter.Subjects, 1)
	assert.True(t, resp.Filter.Ready)
}

func Test_academicApi_classrooms(t *testing.T) {
	app, conf, acaRepo, stfRepo := setup(t)
	seedAcademic(acaRepo)
	token := getToken(t, conf, loginStaff(t, stfRepo))

	req, rec := newAuthRequest(http.MethodGet, "/v1/register/classrooms?year=2567&semester_id=9", token)
	app.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp echoapi.ClassroomListResponse
	decodeBody(t, rec, &resp)
	require.Len(t, resp.Classrooms, 1)
	room := resp.Classrooms[0]
	assert.Equal(t, 901, room.ID)
	assert.Equal(t, 2, room.StudentCount)
	assert.Equal(t, "สมชาย", room.AdvisorFirstName.String)
}

func Test_academicApi_roster(t *testing.T) {
	app, conf, acaRepo, stfRepo := setup(t)
	seedAcademic(acaRepo)
	token := getToken(t, conf, loginStaff(t, stfRepo))

	tests := []httpTest{
		{
			name: "bad id", path: "/v1/register/classrooms/lol/roster", token: token,
			wantCode: http.StatusNotFound, wantData: marchallObj(t, httpErr{Error: "not found"}),
		},
		{
			name: "unknown id", path: "/v1/register/classrooms/424242/roster", token: token, wantCode: http.StatusOK,
			extra: func(t *testing.T, rec *httptest.ResponseRecorder) {
				var resp echoapi.RosterResponse
				decodeBody(t, rec, &resp)
				assert.Empty(t, resp.Students)
			},
		},
		{
			name: "ok", path: "/v1/register/classrooms/901/roster", token: token, wantCode: http.StatusOK,
			extra: func(t *testing.T, rec *httptest.ResponseRecorder) {
				var resp echoapi.RosterResponse
				decodeBody(t, rec, &resp)
				assert.Equal(t, 901, resp.ClassroomID)
				require.Len(t, resp.Students, 2)
				assert.Equal(t, "64201010001", resp.Students[0].ID)
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(http.MethodGet, tt.path, tt.token)
			app.ServeHTTP(rec, req)

			checkCodeAndData(t, tt, rec)
			if tt.extra != nil {
				tt.extra(t, rec)
			}
		})
	}
}
