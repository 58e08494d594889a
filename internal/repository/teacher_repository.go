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

// TeacherRepository manages persistence for teacher records.
//
// assignedCourseIds is only touched by AssignmentRepository inside the
// course assignment transaction; assignedFieldIds is a single-document set
// and is updated here directly.
type TeacherRepository struct {
	coll *mongo.Collection
	log  *zap.Logger
}

// NewTeacherRepository constructs a TeacherRepository.
func NewTeacherRepository(db *mongo.Database, log *zap.Logger) *TeacherRepository {
	if log == nil {
		log = zap.NewNop()
	}
	return &TeacherRepository{coll: db.Collection(CollectionTeachers), log: log}
}

// List returns all teachers ordered by full name.
func (r *TeacherRepository) List(ctx context.Context) ([]models.Teacher, error) {
	opts := options.Find().SetSort(bson.D{{Key: "fullName", Value: 1}})
	cur, err := r.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("list teachers: %w", err)
	}
	var teachers []models.Teacher
	err = decodeEach(ctx, cur, r.log, func() error {
		var t models.Teacher
		if err := cur.Decode(&t); err != nil {
			return err
		}
		teachers = append(teachers, t)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list teachers: %w", err)
	}
	return teachers, nil
}

// FindByEmail fetches a teacher by its email key.
func (r *TeacherRepository) FindByEmail(ctx context.Context, email string) (*models.Teacher, error) {
	var teacher models.Teacher
	if err := r.coll.FindOne(ctx, bson.M{"_id": email}).Decode(&teacher); err != nil {
		return nil, fmt.Errorf("find teacher %s: %w", email, err)
	}
	return &teacher, nil
}

// Insert stores a new teacher document.
func (r *TeacherRepository) Insert(ctx context.Context, teacher *models.Teacher) error {
	if _, err := r.coll.InsertOne(ctx, teacher); err != nil {
		return fmt.Errorf("insert teacher: %w", err)
	}
	return nil
}

// Update applies the given field updates to a teacher document.
func (r *TeacherRepository) Update(ctx context.Context, email string, updates bson.M) error {
	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": email}, bson.M{"$set": updates})
	if err != nil {
		return fmt.Errorf("update teacher %s: %w", email, err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("update teacher %s: %w", email, mongo.ErrNoDocuments)
	}
	return nil
}

// Delete removes a teacher document.
func (r *TeacherRepository) Delete(ctx context.Context, email string) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": email})
	if err != nil {
		return fmt.Errorf("delete teacher %s: %w", email, err)
	}
	if res.DeletedCount == 0 {
		return fmt.Errorf("delete teacher %s: %w", email, mongo.ErrNoDocuments)
	}
	return nil
}

// AddAssignedField adds a field to the teacher's assignedFieldIds set.
func (r *TeacherRepository) AddAssignedField(ctx context.Context, email, fieldID string) error {
	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": email},
		bson.M{"$addToSet": bson.M{"assignedFieldIds": fieldID}})
	if err != nil {
		return fmt.Errorf("add assigned field: %w", err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("add assigned field: %w", mongo.ErrNoDocuments)
	}
	return nil
}

// RemoveAssignedField removes a field from the teacher's assignedFieldIds set.
func (r *TeacherRepository) RemoveAssignedField(ctx context.Context, email, fieldID string) error {
	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": email},
		bson.M{"$pull": bson.M{"assignedFieldIds": fieldID}})
	if err != nil {
		return fmt.Errorf("remove assigned field: %w", err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("remove assigned field: %w", mongo.ErrNoDocuments)
	}
	return nil
}
