package inmemdb

import (
	"context"
	"sort"

	"github.com/prct/registrar/core/academic"
)

type academicRepository struct {
	db *academicTables
}

var _ academic.Repository = (*academicRepository)(nil) // interface compliance check

func NewAcademicRepository(db *DB) *academicRepository {
	return &academicRepository{db: db.academic}
}

// Fixture helpers

func (repo *academicRepository) SetDefaults(defaults academic.Defaults) {
	repo.db.Lock()
	defer repo.db.Unlock()
	repo.db.defaults = defaults
}

func (repo *academicRepository) AddSemester(sem academic.Semester) {
	repo.db.Lock()
	defer repo.db.Unlock()
	repo.db.semesters[sem.ID] = sem
}

func (repo *academicRepository) AddPartialTerm(term academic.PartialTerm) {
	repo.db.Lock()
	defer repo.db.Unlock()
	repo.db.partialTerms[term.ID] = term
}

func (repo *academicRepository) AddClassroom(room academic.Classroom) {
	repo.db.Lock()
	defer repo.db.Unlock()
	room.Level = academic.DecodeLevel(room.LevelCode)
	repo.db.classrooms[room.ID] = room
}

func (repo *academicRepository) AddMajor(majorID int, courseID string) {
	repo.db.Lock()
	defer repo.db.Unlock()
	repo.db.majorCourses[majorID] = courseID
}

func (repo *academicRepository) AddCourse(course academic.Course) {
	repo.db.Lock()
	defer repo.db.Unlock()
	repo.db.courses[course.ID] = course
}

func (repo *academicRepository) AddSubject(subject academic.Subject) {
	repo.db.Lock()
	defer repo.db.Unlock()
	repo.db.subjects[subject.SubjectKey] = subject
}

func (repo *academicRepository) AddTeacher(teacher academic.Teacher) {
	repo.db.Lock()
	defer repo.db.Unlock()
	repo.db.teachers[teacher.ID] = teacher
}

func (repo *academicRepository) AddStudent(student academic.Student, classIDs ...int) {
	repo.db.Lock()
	defer repo.db.Unlock()
	repo.db.students[student.ID] = student
	for _, classID := range classIDs {
		repo.db.registrations[classID] = append(repo.db.registrations[classID], student.ID)
	}
}

// Offerings returns a copy of all stored offerings, for write-path asserts.
func (repo *academicRepository) Offerings() []academic.NewOffering {
	repo.db.RLock()
	defer repo.db.RUnlock()
	offs := make([]academic.NewOffering, 0, len(repo.db.offerings))
	for _, off := range repo.db.offerings {
		offs = append(offs, off.NewOffering)
	}
	return offs
}

// Repository implementation

func (repo *academicRepository) ActiveDefaults(ctx context.Context) (academic.Defaults, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()
	return repo.db.defaults, nil
}

func (repo *academicRepository) ListYears(ctx context.Context) ([]string, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	seen := make(map[string]bool)
	var years []string
	for _, sem := range repo.db.semesters {
		if !seen[sem.Year] {
			seen[sem.Year] = true
			years = append(years, sem.Year)
		}
	}
	sort.Sort(sort.Reverse(sort.StringSlice(years)))
	return years, nil
}

func (repo *academicRepository) ListSemesters(ctx context.Context, year string) ([]academic.Semester, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	var semesters []academic.Semester
	for _, sem := range repo.db.semesters {
		if sem.Year == year {
			semesters = append(semesters, sem)
		}
	}
	sort.Slice(semesters, func(i, j int) bool { return semesters[i].Ordinal > semesters[j].Ordinal })
	return semesters, nil
}

func (repo *academicRepository) ListPartialTerms(ctx context.Context, semesterID int) ([]academic.PartialTerm, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	var terms []academic.PartialTerm
	for _, term := range repo.db.partialTerms {
		if term.SemesterID == semesterID {
			terms = append(terms, term)
		}
	}
	sort.Slice(terms, func(i, j int) bool { return terms[i].Part < terms[j].Part })
	return terms, nil
}

func (repo *academicRepository) ListClassrooms(ctx context.Context, semesterID int) ([]academic.Classroom, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	var rooms []academic.Classroom
	for _, room := range repo.db.classrooms {
		if room.SemesterID == semesterID {
			rooms = append(rooms, room)
		}
	}
	sort.Slice(rooms, func(i, j int) bool { return rooms[i].Label < rooms[j].Label })
	return rooms, nil
}

func (repo *academicRepository) ListClassroomDetails(ctx context.Context, semesterID int) ([]academic.ClassroomDetail, error) {
	rooms, _ := repo.ListClassrooms(ctx, semesterID)

	repo.db.RLock()
	defer repo.db.RUnlock()

	details := make([]academic.ClassroomDetail, 0, len(rooms))
	for _, room := range rooms {
		detail := academic.ClassroomDetail{
			Classroom:    room,
			StudentCount: len(repo.db.registrations[room.ID]),
		}
		if room.TeacherID.Valid {
			if teacher, ok := repo.db.teachers[room.TeacherID.String]; ok {
				detail.AdvisorTitle = teacher.Title
				detail.AdvisorFirstName = teacher.FirstName
				detail.AdvisorLastName = teacher.LastName
			}
		}
		details = append(details, detail)
	}
	return details, nil
}

func (repo *academicRepository) CourseForClassroom(ctx context.Context, classroomID int) (string, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	room, ok := repo.db.classrooms[classroomID]
	if !ok || !room.MajorID.Valid {
		return "", nil
	}
	return repo.db.majorCourses[room.MajorID.Int], nil
}

func (repo *academicRepository) ListCourses(ctx context.Context) ([]academic.Course, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	courses := make([]academic.Course, 0, len(repo.db.courses))
	for _, course := range repo.db.courses {
		courses = append(courses, course)
	}
	sort.Slice(courses, func(i, j int) bool { return courses[i].ID < courses[j].ID })
	return courses, nil
}

func (repo *academicRepository) ListSubjects(ctx context.Context, courseID string) ([]academic.Subject, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	var subjects []academic.Subject
	for _, subject := range repo.db.subjects {
		if subject.CourseID == courseID {
			subjects = append(subjects, subject)
		}
	}
	sort.Slice(subjects, func(i, j int) bool { return subjects[i].Code < subjects[j].Code })
	return subjects, nil
}

func (repo *academicRepository) ListOpenCourses(ctx context.Context, semesterID, partialTermID int) ([]academic.Offering, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	var offerings []academic.Offering
	for _, stored := range repo.db.offerings {
		term, ok := repo.db.partialTerms[stored.PartialTermID]
		if !ok || term.SemesterID != semesterID {
			continue
		}
		if partialTermID != 0 && stored.PartialTermID != partialTermID {
			continue
		}

		off := academic.Offering{
			CourseID:      stored.Subject.CourseID,
			PartialTermID: stored.PartialTermID,
			Part:          term.Part,
			SubjectCode:   stored.Subject.Code,
			TeacherID:     stored.TeacherID,
			ClassroomID:   stored.ClassroomID,
			Status:        stored.Status,
		}
		if subject, ok := repo.db.subjects[stored.Subject]; ok {
			off.SubjectName.SetValid(subject.Name)
			off.Credits.SetValid(subject.Credits)
		}
		if teacher, ok := repo.db.teachers[stored.TeacherID]; ok {
			off.TeacherTitle = teacher.Title
			off.TeacherFirst = teacher.FirstName
			off.TeacherLast = teacher.LastName
		}
		if room, ok := repo.db.classrooms[stored.ClassroomID]; ok {
			off.ClassroomLabel.SetValid(room.Label)
		}
		offerings = append(offerings, off)
	}

	sort.Slice(offerings, func(i, j int) bool {
		if offerings[i].ClassroomLabel.String != offerings[j].ClassroomLabel.String {
			return offerings[i].ClassroomLabel.String < offerings[j].ClassroomLabel.String
		}
		return offerings[i].SubjectCode < offerings[j].SubjectCode
	})
	return offerings, nil
}

func (repo *academicRepository) ListTeachers(ctx context.Context) ([]academic.Teacher, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	var teachers []academic.Teacher
	for _, teacher := range repo.db.teachers {
		if teacher.FirstName.Valid {
			teachers = append(teachers, teacher)
		}
	}
	sort.Slice(teachers, func(i, j int) bool { return teachers[i].FirstName.String < teachers[j].FirstName.String })
	return teachers, nil
}

func (repo *academicRepository) ListRoster(ctx context.Context, classroomID int) ([]academic.Student, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	var students []academic.Student
	for _, sid := range repo.db.registrations[classroomID] {
		if student, ok := repo.db.students[sid]; ok {
			students = append(students, student)
		}
	}
	sort.Slice(students, func(i, j int) bool { return students[i].ID < students[j].ID })
	return students, nil
}

func (repo *academicRepository) CreateOffering(ctx context.Context, off academic.NewOffering, status int) error {
	repo.db.Lock()
	defer repo.db.Unlock()
	repo.db.offerings = append(repo.db.offerings, storedOffering{NewOffering: off, Status: status})
	return nil
}
