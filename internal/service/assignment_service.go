package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/classtrack/attendance-admin-api/internal/models"
	"github.com/classtrack/attendance-admin-api/internal/repository"
	appErrors "github.com/classtrack/attendance-admin-api/pkg/errors"
)

type assignmentRepository interface {
	Assign(ctx context.Context, courseID, teacherEmail, teacherName, department string) error
	Unassign(ctx context.Context, courseID, teacherEmail string) error
}

type assignmentCourseLookup interface {
	FindByID(ctx context.Context, courseID string) (*models.Course, error)
}

type assignmentTeacherLookup interface {
	FindByEmail(ctx context.Context, email string) (*models.Teacher, error)
	AddAssignedField(ctx context.Context, email, fieldID string) error
	RemoveAssignedField(ctx context.Context, email, fieldID string) error
}

type assignmentFieldLookup interface {
	FindByID(ctx context.Context, fieldID string) (*models.Field, error)
}

// AssignmentService coordinates course to teacher assignment. Both sides of
// the link change atomically or not at all; the store transaction is the only
// code path that touches them.
type AssignmentService struct {
	assignments assignmentRepository
	courses     assignmentCourseLookup
	teachers    assignmentTeacherLookup
	fields      assignmentFieldLookup
	metrics     *MetricsService
	logger      *zap.Logger
}

// NewAssignmentService constructs an AssignmentService. metrics may be nil.
func NewAssignmentService(assignments assignmentRepository, courses assignmentCourseLookup, teachers assignmentTeacherLookup, fields assignmentFieldLookup, metrics *MetricsService, logger *zap.Logger) *AssignmentService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AssignmentService{
		assignments: assignments,
		courses:     courses,
		teachers:    teachers,
		fields:      fields,
		metrics:     metrics,
		logger:      logger,
	}
}

// Assign links a course to a teacher. The course takes the teacher's name
// and department; the course id joins the teacher's assignedCourseIds set.
// Assigning an already-assigned course simply moves it to the new teacher.
func (s *AssignmentService) Assign(ctx context.Context, courseID, teacherEmail string) (*models.Course, error) {
	course, err := s.loadCourse(ctx, courseID)
	if err != nil {
		return nil, err
	}

	teacher, err := s.teachers.FindByEmail(ctx, teacherEmail)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "teacher not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load teacher")
	}
	if !teacher.Active {
		return nil, appErrors.Clone(appErrors.ErrValidation, "teacher account is inactive")
	}

	if err := s.assignments.Assign(ctx, courseID, teacher.Email, teacher.FullName, teacher.Department); err != nil {
		s.metrics.RecordAssignment("assign", false)
		if repository.IsNotFound(err) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "course or teacher disappeared during assignment")
		}
		s.logger.Error("assignment transaction failed",
			zap.String("course_id", courseID),
			zap.String("teacher_email", teacherEmail),
			zap.Error(err))
		return nil, appErrors.Wrap(err, appErrors.ErrTransactionAborted.Code, appErrors.ErrTransactionAborted.Status, "assignment was not applied")
	}
	s.metrics.RecordAssignment("assign", true)

	course.TeacherEmail = &teacher.Email
	course.TeacherName = &teacher.FullName
	course.Department = teacher.Department
	return course, nil
}

// Unassign detaches a course from its current teacher. A course with no
// teacher fails the precondition before any write is attempted.
func (s *AssignmentService) Unassign(ctx context.Context, courseID string) (*models.Course, error) {
	course, err := s.loadCourse(ctx, courseID)
	if err != nil {
		return nil, err
	}
	if !course.Assigned() {
		return nil, appErrors.ErrNothingToUnassign
	}

	teacherEmail := *course.TeacherEmail
	if err := s.assignments.Unassign(ctx, courseID, teacherEmail); err != nil {
		s.metrics.RecordAssignment("unassign", false)
		if repository.IsNotFound(err) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "course or teacher disappeared during unassignment")
		}
		s.logger.Error("unassignment transaction failed",
			zap.String("course_id", courseID),
			zap.String("teacher_email", teacherEmail),
			zap.Error(err))
		return nil, appErrors.Wrap(err, appErrors.ErrTransactionAborted.Code, appErrors.ErrTransactionAborted.Status, "unassignment was not applied")
	}
	s.metrics.RecordAssignment("unassign", true)

	course.TeacherEmail = nil
	course.TeacherName = nil
	return course, nil
}

// AssignField adds a field to a teacher's responsibilities. Unlike course
// assignment this only touches the teacher document, so no transaction is
// needed.
func (s *AssignmentService) AssignField(ctx context.Context, teacherEmail, fieldID string) error {
	if _, err := s.fields.FindByID(ctx, fieldID); err != nil {
		if repository.IsNotFound(err) {
			return appErrors.Clone(appErrors.ErrNotFound, "field not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load field")
	}
	if err := s.teachers.AddAssignedField(ctx, teacherEmail, fieldID); err != nil {
		if repository.IsNotFound(err) {
			return appErrors.Clone(appErrors.ErrNotFound, "teacher not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to assign field")
	}
	return nil
}

// UnassignField removes a field from a teacher's responsibilities.
func (s *AssignmentService) UnassignField(ctx context.Context, teacherEmail, fieldID string) error {
	if err := s.teachers.RemoveAssignedField(ctx, teacherEmail, fieldID); err != nil {
		if repository.IsNotFound(err) {
			return appErrors.Clone(appErrors.ErrNotFound, "teacher not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to unassign field")
	}
	return nil
}

func (s *AssignmentService) loadCourse(ctx context.Context, courseID string) (*models.Course, error) {
	course, err := s.courses.FindByID(ctx, courseID)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "course not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load course")
	}
	return course, nil
}
