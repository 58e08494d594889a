package service

import (
	"context"
	"fmt"
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

type fieldRepository interface {
	List(ctx context.Context) ([]models.Field, error)
	FindByID(ctx context.Context, fieldID string) (*models.Field, error)
	FindByName(ctx context.Context, fieldName string) (*models.Field, error)
	Insert(ctx context.Context, field *models.Field) error
	Update(ctx context.Context, fieldID string, updates bson.M) error
	Delete(ctx context.Context, fieldID string) error
}

type fieldCatalogCache interface {
	GetFieldCatalog(ctx context.Context) ([]models.Field, error)
	SetFieldCatalog(ctx context.Context, fields []models.Field) error
	InvalidateFieldCatalog(ctx context.Context) error
}

// CreateFieldRequest captures the field creation payload.
type CreateFieldRequest struct {
	FieldName      string                 `json:"fieldName" validate:"required"`
	Department     string                 `json:"department" validate:"required"`
	Description    string                 `json:"description"`
	WeeklySchedule []models.ScheduleEntry `json:"weeklySchedule"`
}

// UpdateFieldRequest modifies field attributes and replaces the weekly
// schedule wholesale.
type UpdateFieldRequest struct {
	FieldName      string                 `json:"fieldName" validate:"required"`
	Department     string                 `json:"department" validate:"required"`
	Description    string                 `json:"description"`
	WeeklySchedule []models.ScheduleEntry `json:"weeklySchedule"`
}

// FieldService coordinates field catalog operations. All schedule rows are
// validated before any write is attempted; a rejected payload never reaches
// the store.
type FieldService struct {
	repo      fieldRepository
	cache     fieldCatalogCache
	validator *validator.Validate
	metrics   *MetricsService
	logger    *zap.Logger
}

// NewFieldService constructs a FieldService. cache and metrics may be nil
// when disabled.
func NewFieldService(repo fieldRepository, cache fieldCatalogCache, validate *validator.Validate, metrics *MetricsService, logger *zap.Logger) *FieldService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FieldService{repo: repo, cache: cache, validator: validate, metrics: metrics, logger: logger}
}

// List returns the field catalog, served from cache when warm.
func (s *FieldService) List(ctx context.Context) ([]models.Field, error) {
	if s.cache != nil {
		cached, err := s.cache.GetFieldCatalog(ctx)
		if err != nil {
			s.logger.Warn("field catalog cache read failed", zap.Error(err))
		} else if cached != nil {
			s.metrics.RecordCacheLookup(true)
			return cached, nil
		}
		s.metrics.RecordCacheLookup(false)
	}

	fields, err := s.repo.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list fields")
	}
	if s.cache != nil {
		if err := s.cache.SetFieldCatalog(ctx, fields); err != nil {
			s.logger.Warn("field catalog cache write failed", zap.Error(err))
		}
	}
	return fields, nil
}

// Get returns one field by id.
func (s *FieldService) Get(ctx context.Context, fieldID string) (*models.Field, error) {
	field, err := s.repo.FindByID(ctx, fieldID)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "field not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load field")
	}
	return field, nil
}

// Create validates and stores a new field.
func (s *FieldService) Create(ctx context.Context, req CreateFieldRequest) (*models.Field, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "field name and department are required")
	}
	if err := validateScheduleRows(req.WeeklySchedule); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	field := &models.Field{
		FieldID:        uuid.NewString(),
		FieldName:      strings.TrimSpace(req.FieldName),
		Department:     strings.TrimSpace(req.Department),
		Description:    strings.TrimSpace(req.Description),
		WeeklySchedule: normalizeSchedule(req.WeeklySchedule),
		CreatedAt:      now,
		LastUpdatedAt:  now,
	}
	if err := s.repo.Insert(ctx, field); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create field")
	}
	s.invalidateCatalog(ctx)
	return field, nil
}

// Update validates and applies a full field update, replacing the weekly
// schedule with the submitted rows.
func (s *FieldService) Update(ctx context.Context, fieldID string, req UpdateFieldRequest) (*models.Field, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "field name and department are required")
	}
	if err := validateScheduleRows(req.WeeklySchedule); err != nil {
		return nil, err
	}

	updates := bson.M{
		"fieldName":      strings.TrimSpace(req.FieldName),
		"department":     strings.TrimSpace(req.Department),
		"description":    strings.TrimSpace(req.Description),
		"weeklySchedule": normalizeSchedule(req.WeeklySchedule),
		"lastUpdatedAt":  time.Now().UTC(),
	}
	if err := s.repo.Update(ctx, fieldID, updates); err != nil {
		if repository.IsNotFound(err) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "field not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update field")
	}
	s.invalidateCatalog(ctx)
	return s.Get(ctx, fieldID)
}

// Delete removes a field.
func (s *FieldService) Delete(ctx context.Context, fieldID string) error {
	if err := s.repo.Delete(ctx, fieldID); err != nil {
		if repository.IsNotFound(err) {
			return appErrors.Clone(appErrors.ErrNotFound, "field not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete field")
	}
	s.invalidateCatalog(ctx)
	return nil
}

func (s *FieldService) invalidateCatalog(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidateFieldCatalog(ctx); err != nil {
		s.logger.Warn("field catalog cache invalidation failed", zap.Error(err))
	}
}

// validateScheduleRows rejects any row with an unknown day or a start or end
// time still on the "00:00" placeholder.
func validateScheduleRows(entries []models.ScheduleEntry) *appErrors.Error {
	for i, entry := range entries {
		if !models.IsValidDay(entry.DayOfWeek) {
			return appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("schedule row %d: select a valid day", i+1))
		}
		if entry.StartTime == "" || entry.StartTime == models.TimeSentinel {
			return appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("schedule row %d: select a start time", i+1))
		}
		if entry.EndTime == "" || entry.EndTime == models.TimeSentinel {
			return appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("schedule row %d: select an end time", i+1))
		}
	}
	return nil
}

func normalizeSchedule(entries []models.ScheduleEntry) []models.ScheduleEntry {
	out := make([]models.ScheduleEntry, 0, len(entries))
	for _, entry := range entries {
		entry.Room = strings.TrimSpace(entry.Room)
		out = append(out, entry)
	}
	return out
}
