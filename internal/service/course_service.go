package service

import (
	"context"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"

	"github.com/classtrack/attendance-admin-api/internal/models"
	"github.com/classtrack/attendance-admin-api/internal/repository"
	appErrors "github.com/classtrack/attendance-admin-api/pkg/errors"
)

type courseRepository interface {
	List(ctx context.Context) ([]models.Course, error)
	ListByField(ctx context.Context, fieldName string) ([]models.Course, error)
	ListByTeacher(ctx context.Context, email string) ([]models.Course, error)
	FindByID(ctx context.Context, courseID string) (*models.Course, error)
	Insert(ctx context.Context, course *models.Course) error
	Update(ctx context.Context, courseID string, updates bson.M) error
	Delete(ctx context.Context, courseID string) error
}

type courseFieldLookup interface {
	FindByName(ctx context.Context, fieldName string) (*models.Field, error)
}

// CreateCourseRequest captures the course creation payload.
type CreateCourseRequest struct {
	CourseName    string                `json:"courseName" validate:"required"`
	Department    string                `json:"department"`
	Field         string                `json:"field" validate:"required"`
	TargetYears   []string              `json:"targetYears"`
	ScheduleEntry *models.ScheduleEntry `json:"courseScheduleEntry"`
}

// UpdateCourseRequest modifies course attributes. Teacher fields are not
// editable here; they only change through the assignment flow.
type UpdateCourseRequest struct {
	CourseName    string                `json:"courseName" validate:"required"`
	Department    string                `json:"department"`
	Field         string                `json:"field" validate:"required"`
	TargetYears   []string              `json:"targetYears"`
	ScheduleEntry *models.ScheduleEntry `json:"courseScheduleEntry"`
	Active        *bool                 `json:"isActive"`
}

// CourseService coordinates course catalog operations. A course's schedule
// entry must always be one of the slots published in its field's weekly
// schedule; every write re-checks that membership.
type CourseService struct {
	repo      courseRepository
	fields    courseFieldLookup
	validator *validator.Validate
	logger    *zap.Logger
}

// NewCourseService constructs a CourseService.
func NewCourseService(repo courseRepository, fields courseFieldLookup, validate *validator.Validate, logger *zap.Logger) *CourseService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CourseService{repo: repo, fields: fields, validator: validate, logger: logger}
}

// List returns all courses ordered by name.
func (s *CourseService) List(ctx context.Context) ([]models.Course, error) {
	courses, err := s.repo.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list courses")
	}
	return courses, nil
}

// ListByField returns the courses belonging to one field.
func (s *CourseService) ListByField(ctx context.Context, fieldName string) ([]models.Course, error) {
	courses, err := s.repo.ListByField(ctx, fieldName)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list courses")
	}
	return courses, nil
}

// ListByTeacher returns the courses currently assigned to one teacher.
func (s *CourseService) ListByTeacher(ctx context.Context, email string) ([]models.Course, error) {
	courses, err := s.repo.ListByTeacher(ctx, email)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list courses")
	}
	return courses, nil
}

// Get returns one course by id.
func (s *CourseService) Get(ctx context.Context, courseID string) (*models.Course, error) {
	course, err := s.repo.FindByID(ctx, courseID)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "course not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load course")
	}
	return course, nil
}

// Create validates and stores a new course. Statistics start at zero; the
// attendance pipeline owns them afterwards.
func (s *CourseService) Create(ctx context.Context, req CreateCourseRequest) (*models.Course, error) {
	field, department, err := s.validateCoursePayload(ctx, req.CourseName, req.Department, req.Field, req.TargetYears, req.ScheduleEntry)
	if err != nil {
		return nil, err
	}

	course := &models.Course{
		CourseID:            uuid.NewString(),
		CourseName:          strings.TrimSpace(req.CourseName),
		Department:          department,
		Field:               field.FieldName,
		TargetYears:         req.TargetYears,
		CourseScheduleEntry: req.ScheduleEntry,
		Active:              true,
		Statistics:          models.CourseStats{},
		CreatedAt:           time.Now().UTC(),
	}
	if err := s.repo.Insert(ctx, course); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create course")
	}
	return course, nil
}

// Update validates and applies course edits.
func (s *CourseService) Update(ctx context.Context, courseID string, req UpdateCourseRequest) (*models.Course, error) {
	field, department, err := s.validateCoursePayload(ctx, req.CourseName, req.Department, req.Field, req.TargetYears, req.ScheduleEntry)
	if err != nil {
		return nil, err
	}

	updates := bson.M{
		"courseName":          strings.TrimSpace(req.CourseName),
		"department":          department,
		"field":               field.FieldName,
		"targetYears":         req.TargetYears,
		"courseScheduleEntry": req.ScheduleEntry,
	}
	if req.Active != nil {
		updates["isActive"] = *req.Active
	}
	if err := s.repo.Update(ctx, courseID, updates); err != nil {
		if repository.IsNotFound(err) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "course not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update course")
	}
	return s.Get(ctx, courseID)
}

// RelocateScheduleEntry moves a course onto a different slot of its field's
// weekly schedule.
func (s *CourseService) RelocateScheduleEntry(ctx context.Context, courseID string, entry models.ScheduleEntry) (*models.Course, error) {
	course, err := s.Get(ctx, courseID)
	if err != nil {
		return nil, err
	}
	field, err := s.lookupField(ctx, course.Field)
	if err != nil {
		return nil, err
	}
	if models.IndexOfScheduleEntry(field.WeeklySchedule, entry) < 0 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "schedule entry is not part of the field's weekly schedule")
	}
	if err := s.repo.Update(ctx, courseID, bson.M{"courseScheduleEntry": entry}); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update course schedule")
	}
	course.CourseScheduleEntry = &entry
	return course, nil
}

// Delete removes a course.
func (s *CourseService) Delete(ctx context.Context, courseID string) error {
	if err := s.repo.Delete(ctx, courseID); err != nil {
		if repository.IsNotFound(err) {
			return appErrors.Clone(appErrors.ErrNotFound, "course not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete course")
	}
	return nil
}

// validateCoursePayload runs the course checks in their fixed order: name,
// field existence, target years, then schedule entry membership. The
// department falls back to the field's department when left empty.
func (s *CourseService) validateCoursePayload(ctx context.Context, name, department, fieldName string, targetYears []string, entry *models.ScheduleEntry) (*models.Field, string, error) {
	if strings.TrimSpace(name) == "" {
		return nil, "", appErrors.Clone(appErrors.ErrValidation, "course name is required")
	}
	if strings.TrimSpace(fieldName) == "" {
		return nil, "", appErrors.Clone(appErrors.ErrValidation, "a field must be selected")
	}

	field, err := s.lookupField(ctx, fieldName)
	if err != nil {
		return nil, "", err
	}

	department = strings.TrimSpace(department)
	if department == "" {
		department = field.Department
	}
	if department == "" {
		return nil, "", appErrors.Clone(appErrors.ErrValidation, "department is required")
	}

	if len(targetYears) == 0 {
		return nil, "", appErrors.Clone(appErrors.ErrValidation, "select at least one target year")
	}
	for _, year := range targetYears {
		if !models.IsValidTargetYear(year) {
			return nil, "", appErrors.Clone(appErrors.ErrValidation, "unknown target year "+year)
		}
	}

	if entry == nil {
		return nil, "", appErrors.Clone(appErrors.ErrValidation, "a schedule entry must be selected")
	}
	if models.IndexOfScheduleEntry(field.WeeklySchedule, *entry) < 0 {
		return nil, "", appErrors.Clone(appErrors.ErrValidation, "schedule entry is not part of the field's weekly schedule")
	}
	return field, department, nil
}

func (s *CourseService) lookupField(ctx context.Context, fieldName string) (*models.Field, error) {
	field, err := s.fields.FindByName(ctx, fieldName)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, appErrors.Clone(appErrors.ErrValidation, "unknown field "+fieldName)
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load field")
	}
	return field, nil
}
