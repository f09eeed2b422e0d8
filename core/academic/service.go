package academic

import (
	"context"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
)

type (
	// Repository is the data-store collaborator. Reads are plain
	// non-transactional queries against pooled connections; list order is
	// part of the contract (years and semesters descending, everything
	// else ascending by its natural key).
	Repository interface {
		ActiveDefaults(ctx context.Context) (Defaults, error)
		ListYears(ctx context.Context) ([]string, error)
		ListSemesters(ctx context.Context, year string) ([]Semester, error)
		ListPartialTerms(ctx context.Context, semesterID int) ([]PartialTerm, error)
		ListClassrooms(ctx context.Context, semesterID int) ([]Classroom, error)
		ListClassroomDetails(ctx context.Context, semesterID int) ([]ClassroomDetail, error)
		// CourseForClassroom resolves a classroom's curriculum through its
		// program-major association. A classroom without one yields "".
		CourseForClassroom(ctx context.Context, classroomID int) (string, error)
		ListCourses(ctx context.Context) ([]Course, error)
		ListSubjects(ctx context.Context, courseID string) ([]Subject, error)
		ListOpenCourses(ctx context.Context, semesterID, partialTermID int) ([]Offering, error)
		ListTeachers(ctx context.Context) ([]Teacher, error)
		ListRoster(ctx context.Context, classroomID int) ([]Student, error)
		CreateOffering(ctx context.Context, off NewOffering, status int) error
	}

	// Service owns the filter-resolution cascade and the listing/write
	// operations built on top of it. It holds no state between calls.
	Service struct {
		repo     Repository
		validate *validator.Validate
	}
)

func NewService(repo Repository, validate *validator.Validate) *Service {
	return &Service{repo: repo, validate: validate}
}

// Resolve computes a consistent FilterState from a partial selection, top
// down through the hierarchy in a single pass:
//
//	year -> semester -> (partial terms, classrooms) -> course -> subjects
//
// Explicit selections are taken verbatim without existence checks; absent
// ones fall back to the institution default and then to the freshest option.
// The active default semester is honored only when the resolved year is the
// default's own year. Unmatched references are not errors: they surface as
// empty dependent lists and Ready=false.
func (svc *Service) Resolve(ctx context.Context, sel Selection, depth Depth) (FilterState, error) {
	var fs FilterState

	defaults, err := svc.repo.ActiveDefaults(ctx)
	if err != nil {
		return fs, errors.Wrap(err, "fetching institution defaults")
	}
	fs.Defaults = defaults

	if fs.Years, err = svc.repo.ListYears(ctx); err != nil {
		return fs, errors.Wrap(err, "listing years")
	}

	switch {
	case sel.Year != "":
		fs.Year = sel.Year
	case defaults.ActiveYear != "":
		fs.Year = defaults.ActiveYear
	case len(fs.Years) > 0:
		fs.Year = fs.Years[0]
	default:
		// nothing to resolve against; all lists stay empty
		return fs, nil
	}

	if fs.Semesters, err = svc.repo.ListSemesters(ctx, fs.Year); err != nil {
		return fs, errors.Wrap(err, "listing semesters")
	}

	switch {
	case sel.SemesterID != "":
		fs.SemesterID = parseID(sel.SemesterID)
	case fs.Year == defaults.ActiveYear && defaults.ActiveSemesterID.Valid:
		fs.SemesterID = defaults.ActiveSemesterID.Int
	case len(fs.Semesters) > 0:
		fs.SemesterID = fs.Semesters[0].ID
	}

	if fs.SemesterID != 0 {
		if fs.PartialTerms, err = svc.repo.ListPartialTerms(ctx, fs.SemesterID); err != nil {
			return fs, errors.Wrap(err, "listing partial terms")
		}
		if fs.Classrooms, err = svc.repo.ListClassrooms(ctx, fs.SemesterID); err != nil {
			return fs, errors.Wrap(err, "listing classrooms")
		}
	}

	// a partial term is a pass-through narrowing filter: no default is ever
	// substituted, absence means "all partial terms"
	if sel.PartialTermID != "" {
		fs.PartialTermID = parseID(sel.PartialTermID)
	}

	switch {
	case sel.ClassroomID != "":
		fs.ClassroomID = parseID(sel.ClassroomID)
		courseID, err := svc.repo.CourseForClassroom(ctx, fs.ClassroomID)
		if err != nil {
			return fs, errors.Wrap(err, "resolving classroom course")
		}
		if courseID != "" {
			fs.CourseID = courseID
		}
	case sel.CourseID != "":
		fs.CourseID = sel.CourseID
	}
	if fs.CourseID != "" {
		if fs.Subjects, err = svc.repo.ListSubjects(ctx, fs.CourseID); err != nil {
			return fs, errors.Wrap(err, "listing subjects")
		}
	}

	fs.Ready = fs.resolvedDepth() >= depth
	return fs, nil
}

// OpenCourses lists the offerings of the resolved semester, narrowed to one
// partial term when the selection names one.
func (svc *Service) OpenCourses(ctx context.Context, fs FilterState) ([]Offering, error) {
	if fs.SemesterID == 0 {
		return nil, nil
	}
	offs, err := svc.repo.ListOpenCourses(ctx, fs.SemesterID, fs.PartialTermID)
	return offs, errors.Wrap(err, "listing open courses")
}

// ClassroomDetails lists the resolved semester's classrooms with advisor
// and headcount.
func (svc *Service) ClassroomDetails(ctx context.Context, fs FilterState) ([]ClassroomDetail, error) {
	if fs.SemesterID == 0 {
		return nil, nil
	}
	rooms, err := svc.repo.ListClassroomDetails(ctx, fs.SemesterID)
	return rooms, errors.Wrap(err, "listing classroom details")
}

// Courses lists every curriculum.
func (svc *Service) Courses(ctx context.Context) ([]Course, error) {
	courses, err := svc.repo.ListCourses(ctx)
	return courses, errors.Wrap(err, "listing courses")
}

// Teachers lists the employees eligible to teach an offering.
func (svc *Service) Teachers(ctx context.Context) ([]Teacher, error) {
	teachers, err := svc.repo.ListTeachers(ctx)
	return teachers, errors.Wrap(err, "listing teachers")
}

// Roster lists the students registered to a classroom.
func (svc *Service) Roster(ctx context.Context, classroomID int) ([]Student, error) {
	students, err := svc.repo.ListRoster(ctx, classroomID)
	return students, errors.Wrap(err, "listing roster")
}

// CreateOffering validates the four mandatory foreign keys and performs the
// single insert with the initial active status. Validation failures never
// reach the store.
func (svc *Service) CreateOffering(ctx context.Context, off NewOffering) error {
	if err := off.Validate(svc.validate); err != nil {
		return err
	}
	return errors.Wrap(svc.repo.CreateOffering(ctx, off, OfferingStatusActive), "inserting offering")
}
