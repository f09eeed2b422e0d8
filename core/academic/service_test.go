package academic_test

import (
	"context"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/volatiletech/null/v8"

	"github.com/prct/registrar/core/academic"
	inmemdb "github.com/prct/registrar/storage/database/inmem"
	testutil "github.com/prct/registrar/tests"
)

// fixtureRepo is the in-mem repository surface the tests seed through.
type fixtureRepo interface {
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

func setup(t *testing.T) (*academic.Service, fixtureRepo) {
	t.Helper()

	db, err := inmemdb.Open()
	if err != nil {
		t.Fatalf("setup() failed: %v", err)
	}
	repo := inmemdb.NewAcademicRepository(db)
	validate, _ := testutil.NewValidator()
	return academic.NewService(repo, validate), repo
}

// seedTwoYears loads the standard fixture:
//
//	2567: semester 10 (ord 2), semester 9 (ord 1)
//	2566: semester 5  (ord 2)
//
// with partial terms and classrooms on every semester so cross-semester
// leakage is observable.
func seedTwoYears(repo fixtureRepo) {
	repo.AddSemester(academic.Semester{ID: 10, Year: "2567", Ordinal: 2})
	repo.AddSemester(academic.Semester{ID: 9, Year: "2567", Ordinal: 1})
	repo.AddSemester(academic.Semester{ID: 5, Year: "2566", Ordinal: 2})

	repo.AddPartialTerm(academic.PartialTerm{ID: 91, SemesterID: 9, Part: 1})
	repo.AddPartialTerm(academic.PartialTerm{ID: 92, SemesterID: 9, Part: 2})
	repo.AddPartialTerm(academic.PartialTerm{ID: 101, SemesterID: 10, Part: 1})
	repo.AddPartialTerm(academic.PartialTerm{ID: 51, SemesterID: 5, Part: 1})

	repo.AddClassroom(academic.Classroom{ID: 901, SemesterID: 9, Label: "ชฟ.1/1", LevelCode: "51", MajorID: null.IntFrom(7)})
	repo.AddClassroom(academic.Classroom{ID: 902, SemesterID: 9, Label: "ชฟ.2/1", LevelCode: "52"})
	repo.AddClassroom(academic.Classroom{ID: 1001, SemesterID: 10, Label: "ชฟ.1/1", LevelCode: "51"})
	repo.AddClassroom(academic.Classroom{ID: 501, SemesterID: 5, Label: "ชฟ.1/1", LevelCode: "51"})

	repo.AddCourse(academic.Course{ID: "C50", Name: "ช่างไฟฟ้ากำลัง"})
	repo.AddMajor(7, "C50")
	repo.AddSubject(academic.Subject{
		SubjectKey: academic.SubjectKey{Code: "20104-2001", CourseID: "C50"},
		Name:       "วงจรไฟฟ้ากระแสตรง",
		Credits:    2,
	})
	repo.AddSubject(academic.Subject{
		SubjectKey: academic.SubjectKey{Code: "20104-2002", CourseID: "C50"},
		Name:       "วงจรไฟฟ้ากระแสสลับ",
		Credits:    2,
	})
}

func TestService_Resolve_yearSelection(t *testing.T) {
	svc, repo := setup(t)
	seedTwoYears(repo)
	repo.SetDefaults(academic.Defaults{ActiveYear: "2566", ActiveSemesterID: null.IntFrom(5)})
	ctx := context.Background()

	// an explicit year always wins over defaults
	fs, err := svc.Resolve(ctx, academic.Selection{Year: "2567"}, academic.DepthSemester)
	require.NoError(t, err)
	assert.Equal(t, "2567", fs.Year)

	// no selection: the default year wins
	fs, err = svc.Resolve(ctx, academic.Selection{}, academic.DepthSemester)
	require.NoError(t, err)
	assert.Equal(t, "2566", fs.Year)

	// no selection, no defaults: the most recent year wins
	repo.SetDefaults(academic.Defaults{})
	fs, err = svc.Resolve(ctx, academic.Selection{}, academic.DepthSemester)
	require.NoError(t, err)
	assert.Equal(t, "2567", fs.Year)
	assert.Equal(t, []string{"2567", "2566"}, fs.Years)
}

func TestService_Resolve_defaultSemesterOnlyAppliesToItsOwnYear(t *testing.T) {
	svc, repo := setup(t)
	seedTwoYears(repo)
	repo.SetDefaults(academic.Defaults{ActiveYear: "2566", ActiveSemesterID: null.IntFrom(5)})

	// year 2567 selected: the 2566 default semester must NOT leak in; the
	// highest-ordinal semester of 2567 is used instead
	fs, err := svc.Resolve(context.Background(), academic.Selection{Year: "2567"}, academic.DepthSemester)
	require.NoError(t, err)
	assert.NotEqual(t, 5, fs.SemesterID)
	assert.Equal(t, 10, fs.SemesterID)
	assert.True(t, fs.Ready)
}

func TestService_Resolve_defaultSemesterHonoredWhenYearsMatch(t *testing.T) {
	svc, repo := setup(t)
	seedTwoYears(repo)
	repo.SetDefaults(academic.Defaults{ActiveYear: "2567", ActiveSemesterID: null.IntFrom(9)})

	fs, err := svc.Resolve(context.Background(), academic.Selection{}, academic.DepthSemester)
	require.NoError(t, err)
	assert.Equal(t, "2567", fs.Year)
	assert.Equal(t, 9, fs.SemesterID)
	assert.True(t, fs.Ready)

	// dependent lists belong to semester 9
	require.Len(t, fs.PartialTerms, 2)
	assert.Equal(t, 91, fs.PartialTerms[0].ID)
	assert.Equal(t, 92, fs.PartialTerms[1].ID)
	require.Len(t, fs.Classrooms, 2)
	assert.Equal(t, 901, fs.Classrooms[0].ID)
}

func TestService_Resolve_noCrossSemesterLeakage(t *testing.T) {
	svc, repo := setup(t)
	seedTwoYears(repo)

	fs, err := svc.Resolve(context.Background(),
		academic.Selection{Year: "2567", SemesterID: "10"}, academic.DepthSemester)
	require.NoError(t, err)

	for _, term := range fs.PartialTerms {
		assert.Equal(t, 10, term.SemesterID)
	}
	for _, room := range fs.Classrooms {
		assert.Equal(t, 10, room.SemesterID)
	}
	require.Len(t, fs.PartialTerms, 1)
	require.Len(t, fs.Classrooms, 1)
}

func TestService_Resolve_partialTermIsPassThrough(t *testing.T) {
	svc, repo := setup(t)
	seedTwoYears(repo)

	// absent: means "all partial terms", never a default
	fs, err := svc.Resolve(context.Background(),
		academic.Selection{Year: "2567", SemesterID: "9"}, academic.DepthSemester)
	require.NoError(t, err)
	assert.Equal(t, 0, fs.PartialTermID)

	// present: narrows
	fs, err = svc.Resolve(context.Background(),
		academic.Selection{Year: "2567", SemesterID: "9", PartialTermID: "92"}, academic.DepthSemester)
	require.NoError(t, err)
	assert.Equal(t, 92, fs.PartialTermID)
}

func TestService_Resolve_classroomSubjectChain(t *testing.T) {
	svc, repo := setup(t)
	seedTwoYears(repo)
	ctx := context.Background()

	// classroom 901 carries major 7 -> course C50 -> 2 subjects
	fs, err := svc.Resolve(ctx,
		academic.Selection{Year: "2567", SemesterID: "9", ClassroomID: "901"}, academic.DepthSubject)
	require.NoError(t, err)
	assert.Equal(t, "C50", fs.CourseID)
	require.Len(t, fs.Subjects, 2)
	assert.Equal(t, "20104-2001", fs.Subjects[0].Code)
	assert.True(t, fs.Ready)

	// classroom 902 has no program-major association: empty subjects, no
	// error, unready only for subject-dependent views
	fs, err = svc.Resolve(ctx,
		academic.Selection{Year: "2567", SemesterID: "9", ClassroomID: "902"}, academic.DepthSubject)
	require.NoError(t, err)
	assert.Empty(t, fs.Subjects)
	assert.False(t, fs.Ready)

	fs, err = svc.Resolve(ctx,
		academic.Selection{Year: "2567", SemesterID: "9", ClassroomID: "902"}, academic.DepthSemester)
	require.NoError(t, err)
	assert.True(t, fs.Ready)
}

func TestService_Resolve_unknownReferencesAreNotErrors(t *testing.T) {
	svc, repo := setup(t)
	seedTwoYears(repo)
	ctx := context.Background()

	// unmatched year: taken verbatim, empty downstream, unready
	fs, err := svc.Resolve(ctx, academic.Selection{Year: "2500"}, academic.DepthSemester)
	require.NoError(t, err)
	assert.Equal(t, "2500", fs.Year)
	assert.Empty(t, fs.Semesters)
	assert.False(t, fs.Ready)

	// unmatched semester id: dependent lists empty, unready
	fs, err = svc.Resolve(ctx,
		academic.Selection{Year: "2567", SemesterID: "9999"}, academic.DepthSemester)
	require.NoError(t, err)
	assert.Empty(t, fs.PartialTerms)
	assert.Empty(t, fs.Classrooms)
	assert.False(t, fs.Ready)

	// malformed semester id behaves like an unknown one
	fs, err = svc.Resolve(ctx,
		academic.Selection{Year: "2567", SemesterID: "abc"}, academic.DepthSemester)
	require.NoError(t, err)
	assert.False(t, fs.Ready)
}

func TestService_Resolve_emptyStore(t *testing.T) {
	svc, _ := setup(t)

	fs, err := svc.Resolve(context.Background(), academic.Selection{}, academic.DepthSemester)
	require.NoError(t, err)
	assert.Empty(t, fs.Year)
	assert.Empty(t, fs.Years)
	assert.Empty(t, fs.Semesters)
	assert.False(t, fs.Ready)
}

func TestService_Resolve_idempotent(t *testing.T) {
	svc, repo := setup(t)
	seedTwoYears(repo)
	repo.SetDefaults(academic.Defaults{ActiveYear: "2567", ActiveSemesterID: null.IntFrom(9)})
	sel := academic.Selection{ClassroomID: "901"}

	first, err := svc.Resolve(context.Background(), sel, academic.DepthSubject)
	require.NoError(t, err)
	second, err := svc.Resolve(context.Background(), sel, academic.DepthSubject)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestService_Resolve_endToEndDefaults(t *testing.T) {
	svc, repo := setup(t)
	seedTwoYears(repo)
	repo.SetDefaults(academic.Defaults{ActiveYear: "2567", ActiveSemesterID: null.IntFrom(9)})

	fs, err := svc.Resolve(context.Background(), academic.Selection{}, academic.DepthSemester)
	require.NoError(t, err)
	assert.Equal(t, "2567", fs.Year)
	assert.Equal(t, 9, fs.SemesterID)
	require.NotEmpty(t, fs.PartialTerms)
	require.NotEmpty(t, fs.Classrooms)
	for _, term := range fs.PartialTerms {
		assert.Equal(t, 9, term.SemesterID)
	}
	for _, room := range fs.Classrooms {
		assert.Equal(t, 9, room.SemesterID)
	}
}

func TestService_CreateOffering(t *testing.T) {
	svc, repo := setup(t)
	seedTwoYears(repo)
	ctx := context.Background()

	valid := academic.NewOffering{
		PartialTermID: 91,
		ClassroomID:   901,
		Subject:       academic.SubjectKey{Code: "20104-2001", CourseID: "C50"},
		TeacherID:     "T1",
	}

	tests := []struct {
		name      string
		offering  academic.NewOffering
		wantField string
	}{
		{name: "ok", offering: valid},
		{
			name: "missing partial term",
			offering: academic.NewOffering{
				ClassroomID: 901,
				Subject:     academic.SubjectKey{Code: "20104-2001", CourseID: "C50"},
				TeacherID:   "T1",
			},
			wantField: "ps_id",
		},
		{
			name: "missing classroom",
			offering: academic.NewOffering{
				PartialTermID: 91,
				Subject:       academic.SubjectKey{Code: "20104-2001", CourseID: "C50"},
				TeacherID:     "T1",
			},
			wantField: "class_id",
		},
		{
			name: "missing subject code",
			offering: academic.NewOffering{
				PartialTermID: 91,
				ClassroomID:   901,
				Subject:       academic.SubjectKey{CourseID: "C50"},
				TeacherID:     "T1",
			},
			wantField: "subject_code",
		},
		{
			name: "missing teacher",
			offering: academic.NewOffering{
				PartialTermID: 91,
				ClassroomID:   901,
				Subject:       academic.SubjectKey{Code: "20104-2001", CourseID: "C50"},
			},
			wantField: "teacher_id",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := len(repo.Offerings())
			err := svc.CreateOffering(ctx, tt.offering)

			if tt.wantField == "" {
				require.NoError(t, err)
				assert.Len(t, repo.Offerings(), before+1)
				return
			}

			var vErrs validator.ValidationErrors
			require.ErrorAs(t, err, &vErrs)
			fields := make([]string, 0, len(vErrs))
			for _, fe := range vErrs {
				fields = append(fields, fe.Field())
			}
			assert.Contains(t, fields, tt.wantField)
			// validation failures never reach the store
			assert.Len(t, repo.Offerings(), before)
		})
	}
}

func TestService_OpenCourses_narrowedByPartialTerm(t *testing.T) {
	svc, repo := setup(t)
	seedTwoYears(repo)
	repo.AddTeacher(academic.Teacher{ID: "T1", FirstName: null.StringFrom("สมชาย")})
	ctx := context.Background()

	offA := academic.NewOffering{
		PartialTermID: 91,
		ClassroomID:   901,
		Subject:       academic.SubjectKey{Code: "20104-2001", CourseID: "C50"},
		TeacherID:     "T1",
	}
	offB := academic.NewOffering{
		PartialTermID: 92,
		ClassroomID:   901,
		Subject:       academic.SubjectKey{Code: "20104-2002", CourseID: "C50"},
		TeacherID:     "T1",
	}
	require.NoError(t, svc.CreateOffering(ctx, offA))
	require.NoError(t, svc.CreateOffering(ctx, offB))

	// all partial terms of semester 9
	fs, err := svc.Resolve(ctx, academic.Selection{Year: "2567", SemesterID: "9"}, academic.DepthSemester)
	require.NoError(t, err)
	offs, err := svc.OpenCourses(ctx, fs)
	require.NoError(t, err)
	assert.Len(t, offs, 2)

	// narrowed to part 2
	fs, err = svc.Resolve(ctx,
		academic.Selection{Year: "2567", SemesterID: "9", PartialTermID: "92"}, academic.DepthSemester)
	require.NoError(t, err)
	offs, err = svc.OpenCourses(ctx, fs)
	require.NoError(t, err)
	require.Len(t, offs, 1)
	assert.Equal(t, "20104-2002", offs[0].SubjectCode)
	assert.Equal(t, academic.OfferingStatusActive, offs[0].Status)
}
