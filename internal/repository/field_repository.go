package repository

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"github.com/classtrack/attendance-admin-api/internal/models"
)

// FieldRepository manages persistence for field (filière) records.
type FieldRepository struct {
	coll *mongo.Collection
	log  *zap.Logger
}

// NewFieldRepository constructs a FieldRepository.
func NewFieldRepository(db *mongo.Database, log *zap.Logger) *FieldRepository {
	if log == nil {
		log = zap.NewNop()
	}
	return &FieldRepository{coll: db.Collection(CollectionFields), log: log}
}

// List returns all fields ordered by field name.
func (r *FieldRepository) List(ctx context.Context) ([]models.Field, error) {
	opts := options.Find().SetSort(bson.D{{Key: "fieldName", Value: 1}})
	cur, err := r.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("list fields: %w", err)
	}
	var fields []models.Field
	err = decodeEach(ctx, cur, r.log, func() error {
		var f models.Field
		if err := cur.Decode(&f); err != nil {
			return err
		}
		fields = append(fields, f)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list fields: %w", err)
	}
	return fields, nil
}

// FindByID fetches a field by its identifier.
func (r *FieldRepository) FindByID(ctx context.Context, fieldID string) (*models.Field, error) {
	var field models.Field
	if err := r.coll.FindOne(ctx, bson.M{"_id": fieldID}).Decode(&field); err != nil {
		return nil, fmt.Errorf("find field %s: %w", fieldID, err)
	}
	return &field, nil
}

// FindByName fetches a field by its display name. Courses reference fields by
// name, so this is the lookup the course flow uses.
func (r *FieldRepository) FindByName(ctx context.Context, fieldName string) (*models.Field, error) {
	var field models.Field
	if err := r.coll.FindOne(ctx, bson.M{"fieldName": fieldName}).Decode(&field); err != nil {
		return nil, fmt.Errorf("find field by name %s: %w", fieldName, err)
	}
	return &field, nil
}

// Insert stores a new field document.
func (r *FieldRepository) Insert(ctx context.Context, field *models.Field) error {
	if _, err := r.coll.InsertOne(ctx, field); err != nil {
		return fmt.Errorf("insert field: %w", err)
	}
	return nil
}

// Update applies the given field updates to a field document.
func (r *FieldRepository) Update(ctx context.Context, fieldID string, updates bson.M) error {
	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": fieldID}, bson.M{"$set": updates})
	if err != nil {
		return fmt.Errorf("update field %s: %w", fieldID, err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("update field %s: %w", fieldID, mongo.ErrNoDocuments)
	}
	return nil
}

// Delete removes a field document.
func (r *FieldRepository) Delete(ctx context.Context, fieldID string) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": fieldID})
	if err != nil {
		return fmt.Errorf("delete field %s: %w", fieldID, err)
	}
	if res.DeletedCount == 0 {
		return fmt.Errorf("delete field %s: %w", fieldID, mongo.ErrNoDocuments)
	}
	return nil
}
