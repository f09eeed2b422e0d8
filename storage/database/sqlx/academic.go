package sqlxrepos

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/prct/registrar/core/academic"
)

type academicRepository struct {
	db *sqlx.DB
}

var _ academic.Repository = (*academicRepository)(nil) // interface compliance check

func NewAcademicRepository(db *sqlx.DB) *academicRepository {
	return &academicRepository{db: db}
}

func (repo academicRepository) ActiveDefaults(ctx context.Context) (academic.Defaults, error) {
	var defaults academic.Defaults
	var row struct {
		SemesterID int    `db:"semester_id"`
		Year       string `db:"a_year"`
	}
	err := repo.db.GetContext(ctx, &row,
		`SELECT p.semester_id, s.a_year
		 FROM parameter p
		 JOIN aca_semester s ON p.semester_id = s.semester_id
		 ORDER BY p.semester_id DESC
		 LIMIT 1`)
	if err == sql.ErrNoRows {
		return defaults, nil // not configured; resolution falls back to the freshest term
	}
	if err != nil {
		return defaults, errors.Wrap(err, "querying institution defaults")
	}
	defaults.ActiveSemesterID.SetValid(row.SemesterID)
	defaults.ActiveYear = row.Year
	return defaults, nil
}

func (repo academicRepository) ListYears(ctx context.Context) ([]string, error) {
	var years []string
	err := repo.db.SelectContext(ctx, &years,
		`SELECT DISTINCT a_year FROM aca_semester ORDER BY a_year DESC`)
	return years, errors.Wrap(err, "querying years")
}

func (repo academicRepository) ListSemesters(ctx context.Context, year string) ([]academic.Semester, error) {
	var semesters []academic.Semester
	err := repo.db.SelectContext(ctx, &semesters,
		`SELECT semester_id, a_year, semester
		 FROM aca_semester
		 WHERE a_year = $1
		 ORDER BY semester DESC`, year)
	return semesters, errors.Wrap(err, "querying semesters")
}

func (repo academicRepository) ListPartialTerms(ctx context.Context, semesterID int) ([]academic.PartialTerm, error) {
	var terms []academic.PartialTerm
	err := repo.db.SelectContext(ctx, &terms,
		`SELECT ps_id, semester_id, part, comment
		 FROM aca_partial_semester
		 WHERE semester_id = $1
		 ORDER BY part ASC`, semesterID)
	return terms, errors.Wrap(err, "querying partial terms")
}

func (repo academicRepository) ListClassrooms(ctx context.Context, semesterID int) ([]academic.Classroom, error) {
	var rooms []academic.Classroom
	err := repo.db.SelectContext(ctx, &rooms,
		`SELECT class_id, semester_id, classroom, level, study_group, teacher_id, major_id
		 FROM reg_classroom
		 WHERE semester_id = $1
		 ORDER BY classroom ASC`, semesterID)
	if err != nil {
		return nil, errors.Wrap(err, "querying classrooms")
	}
	for i := range rooms {
		rooms[i].Level = academic.DecodeLevel(rooms[i].LevelCode)
	}
	return rooms, nil
}

func (repo academicRepository) ListClassroomDetails(ctx context.Context, semesterID int) ([]academic.ClassroomDetail, error) {
	var rooms []academic.ClassroomDetail
	err := repo.db.SelectContext(ctx, &rooms,
		`SELECT c.class_id, c.semester_id, c.classroom, c.level, c.study_group, c.teacher_id, c.major_id,
		        t.title, t.f_name, t.l_name,
		        (SELECT COUNT(*) FROM reg_class_register r WHERE r.class_id = c.class_id) AS student_count
		 FROM reg_classroom c
		 LEFT JOIN hr_employee t ON c.teacher_id = t.eid
		 WHERE c.semester_id = $1
		 ORDER BY c.classroom ASC`, semesterID)
	if err != nil {
		return nil, errors.Wrap(err, "querying classroom details")
	}
	for i := range rooms {
		rooms[i].Level = academic.DecodeLevel(rooms[i].LevelCode)
	}
	return rooms, nil
}

func (repo academicRepository) CourseForClassroom(ctx context.Context, classroomID int) (string, error) {
	var courseID string
	err := repo.db.GetContext(ctx, &courseID,
		`SELECT m.course_id
		 FROM reg_classroom c
		 JOIN aca_major m ON c.major_id = m.major_id
		 WHERE c.class_id = $1`, classroomID)
	if err == sql.ErrNoRows {
		return "", nil // no program-major association; a valid "no subjects yet" state
	}
	return courseID, errors.Wrap(err, "querying classroom course")
}

func (repo academicRepository) ListCourses(ctx context.Context) ([]academic.Course, error) {
	var courses []academic.Course
	err := repo.db.SelectContext(ctx, &courses,
		`SELECT course_id, name FROM aca_course ORDER BY course_id ASC`)
	return courses, errors.Wrap(err, "querying courses")
}

func (repo academicRepository) ListSubjects(ctx context.Context, courseID string) ([]academic.Subject, error) {
	var subjects []academic.Subject
	err := repo.db.SelectContext(ctx, &subjects,
		`SELECT subject_code, course_id, name, e_name, lecture_period, lab_period, credit
		 FROM aca_subject
		 WHERE course_id = $1
		 ORDER BY subject_code ASC`, courseID)
	return subjects, errors.Wrap(err, "querying subjects")
}

func (repo academicRepository) ListOpenCourses(ctx context.Context, semesterID, partialTermID int) ([]academic.Offering, error) {
	query := `SELECT o.course_id, o.ps_id, p.part, o.subject_code,
	                 s.name AS subject_name, s.credit,
	                 o.teacher_id, u.title AS teacher_title, u.f_name AS teacher_f_name, u.l_name AS teacher_l_name,
	                 o.class_id, c.classroom, o.status
	          FROM aca_open_course o
	          JOIN aca_partial_semester p ON o.ps_id = p.ps_id
	          LEFT JOIN aca_subject s ON o.subject_code = s.subject_code AND o.course_id = s.course_id
	          LEFT JOIN hr_employee u ON o.teacher_id = u.eid
	          LEFT JOIN reg_classroom c ON o.class_id = c.class_id
	          WHERE p.semester_id = $1`
	args := []interface{}{semesterID}

	if partialTermID != 0 {
		query += ` AND o.ps_id = $2`
		args = append(args, partialTermID)
	}
	query += ` ORDER BY c.classroom ASC, o.subject_code ASC`

	var offerings []academic.Offering
	err := repo.db.SelectContext(ctx, &offerings, query, args...)
	return offerings, errors.Wrap(err, "querying open courses")
}

func (repo academicRepository) ListTeachers(ctx context.Context) ([]academic.Teacher, error) {
	var teachers []academic.Teacher
	err := repo.db.SelectContext(ctx, &teachers,
		`SELECT eid, title, f_name, l_name
		 FROM hr_employee
		 WHERE status >= 1 AND f_name IS NOT NULL
		 ORDER BY f_name ASC`)
	return teachers, errors.Wrap(err, "querying teachers")
}

func (repo academicRepository) ListRoster(ctx context.Context, classroomID int) ([]academic.Student, error) {
	var students []academic.Student
	err := repo.db.SelectContext(ctx, &students,
		`SELECT s.sid, s.title, s.f_name, s.l_name
		 FROM reg_student s
		 JOIN reg_class_register r ON s.sid = r.sid
		 WHERE r.class_id = $1
		 ORDER BY s.sid ASC`, classroomID)
	return students, errors.Wrap(err, "querying roster")
}

func (repo academicRepository) CreateOffering(ctx context.Context, off academic.NewOffering, status int) error {
	_, err := repo.db.ExecContext(ctx,
		`INSERT INTO aca_open_course (course_id, ps_id, subject_code, teacher_id, class_id, status)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		off.Subject.CourseID, off.PartialTermID, off.Subject.Code, off.TeacherID, off.ClassroomID, status)
	return errors.Wrap(err, "inserting open course")
}
