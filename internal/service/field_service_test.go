package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/classtrack/attendance-admin-api/internal/models"
	appErrors "github.com/classtrack/attendance-admin-api/pkg/errors"
)

type mockFieldRepo struct {
	fields      map[string]*models.Field
	writes      int
	lastUpdates bson.M
}

func (m *mockFieldRepo) List(ctx context.Context) ([]models.Field, error) {
	var out []models.Field
	for _, f := range m.fields {
		out = append(out, *f)
	}
	return out, nil
}

func (m *mockFieldRepo) FindByID(ctx context.Context, fieldID string) (*models.Field, error) {
	if f, ok := m.fields[fieldID]; ok {
		clone := *f
		return &clone, nil
	}
	return nil, mongo.ErrNoDocuments
}

func (m *mockFieldRepo) FindByName(ctx context.Context, fieldName string) (*models.Field, error) {
	for _, f := range m.fields {
		if f.FieldName == fieldName {
			clone := *f
			return &clone, nil
		}
	}
	return nil, mongo.ErrNoDocuments
}

func (m *mockFieldRepo) Insert(ctx context.Context, field *models.Field) error {
	m.writes++
	if m.fields == nil {
		m.fields = make(map[string]*models.Field)
	}
	clone := *field
	m.fields[field.FieldID] = &clone
	return nil
}

func (m *mockFieldRepo) Update(ctx context.Context, fieldID string, updates bson.M) error {
	m.writes++
	m.lastUpdates = updates
	f, ok := m.fields[fieldID]
	if !ok {
		return mongo.ErrNoDocuments
	}
	if name, ok := updates["fieldName"].(string); ok {
		f.FieldName = name
	}
	if dept, ok := updates["department"].(string); ok {
		f.Department = dept
	}
	if schedule, ok := updates["weeklySchedule"].([]models.ScheduleEntry); ok {
		f.WeeklySchedule = schedule
	}
	return nil
}

func (m *mockFieldRepo) Delete(ctx context.Context, fieldID string) error {
	m.writes++
	if _, ok := m.fields[fieldID]; !ok {
		return mongo.ErrNoDocuments
	}
	delete(m.fields, fieldID)
	return nil
}

type mockCatalogCache struct {
	catalog       []models.Field
	invalidations int
}

func (m *mockCatalogCache) GetFieldCatalog(ctx context.Context) ([]models.Field, error) {
	return m.catalog, nil
}

func (m *mockCatalogCache) SetFieldCatalog(ctx context.Context, fields []models.Field) error {
	m.catalog = fields
	return nil
}

func (m *mockCatalogCache) InvalidateFieldCatalog(ctx context.Context) error {
	m.catalog = nil
	m.invalidations++
	return nil
}

func validWeeklySchedule() []models.ScheduleEntry {
	return []models.ScheduleEntry{
		models.NewScheduleEntry("Lundi", "08:00", "10:00", "Salle 101"),
		models.NewScheduleEntry("Mercredi", "14:00", "16:00", "Salle 203"),
	}
}

func TestCreateFieldStoresSchedule(t *testing.T) {
	repo := &mockFieldRepo{fields: map[string]*models.Field{}}
	svc := NewFieldService(repo, nil, nil, nil, nil)

	field, err := svc.Create(context.Background(), CreateFieldRequest{
		FieldName:      "Genie Informatique",
		Department:     "Informatique",
		WeeklySchedule: validWeeklySchedule(),
	})
	require.NoError(t, err)
	assert.NotEmpty(t, field.FieldID)
	assert.Len(t, field.WeeklySchedule, 2)
	assert.Equal(t, 1, repo.writes)
}

func TestCreateFieldRequiresNameAndDepartment(t *testing.T) {
	repo := &mockFieldRepo{fields: map[string]*models.Field{}}
	svc := NewFieldService(repo, nil, nil, nil, nil)

	_, err := svc.Create(context.Background(), CreateFieldRequest{
		FieldName:      "",
		Department:     "Informatique",
		WeeklySchedule: validWeeklySchedule(),
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
	assert.Zero(t, repo.writes)
}

func TestCreateFieldRejectsInvalidScheduleRows(t *testing.T) {
	repo := &mockFieldRepo{fields: map[string]*models.Field{}}
	svc := NewFieldService(repo, nil, nil, nil, nil)

	cases := []struct {
		name  string
		entry models.ScheduleEntry
	}{
		{"unknown day", models.NewScheduleEntry("Funday", "08:00", "10:00", "")},
		{"start on placeholder", models.NewScheduleEntry("Lundi", models.TimeSentinel, "10:00", "")},
		{"end on placeholder", models.NewScheduleEntry("Lundi", "08:00", models.TimeSentinel, "")},
		{"empty start", models.NewScheduleEntry("Lundi", "", "10:00", "")},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Create(context.Background(), CreateFieldRequest{
				FieldName:      "Genie Informatique",
				Department:     "Informatique",
				WeeklySchedule: append(validWeeklySchedule(), tc.entry),
			})
			require.Error(t, err)
			assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
		})
	}
	assert.Zero(t, repo.writes, "rejected payloads must never reach the store")
}

func TestUpdateFieldReplacesScheduleWholesale(t *testing.T) {
	existing := &models.Field{
		FieldID:        "field-1",
		FieldName:      "Genie Informatique",
		Department:     "Informatique",
		WeeklySchedule: validWeeklySchedule(),
	}
	repo := &mockFieldRepo{fields: map[string]*models.Field{"field-1": existing}}
	cache := &mockCatalogCache{}
	svc := NewFieldService(repo, cache, nil, nil, nil)

	replacement := []models.ScheduleEntry{
		models.NewScheduleEntry("Vendredi", "10:00", "12:00", "Amphi A"),
	}
	field, err := svc.Update(context.Background(), "field-1", UpdateFieldRequest{
		FieldName:      "Genie Informatique",
		Department:     "Informatique",
		WeeklySchedule: replacement,
	})
	require.NoError(t, err)
	require.Len(t, field.WeeklySchedule, 1)
	assert.Equal(t, "Vendredi", field.WeeklySchedule[0].DayOfWeek)
	assert.Equal(t, 1, cache.invalidations)
}

func TestUpdateFieldNotFound(t *testing.T) {
	repo := &mockFieldRepo{fields: map[string]*models.Field{}}
	svc := NewFieldService(repo, nil, nil, nil, nil)

	_, err := svc.Update(context.Background(), "missing", UpdateFieldRequest{
		FieldName:  "Genie Informatique",
		Department: "Informatique",
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestListFieldsUsesWarmCache(t *testing.T) {
	repo := &mockFieldRepo{fields: map[string]*models.Field{
		"field-1": {FieldID: "field-1", FieldName: "Genie Informatique"},
	}}
	cache := &mockCatalogCache{catalog: []models.Field{{FieldID: "cached", FieldName: "Cached"}}}
	svc := NewFieldService(repo, cache, nil, nil, nil)

	fields, err := svc.List(context.Background())
	require.NoError(t, err)
	require.Len(t, fields, 1)
	assert.Equal(t, "cached", fields[0].FieldID)
}
