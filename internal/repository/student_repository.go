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

// StudentRepository manages persistence for student records.
type StudentRepository struct {
	coll *mongo.Collection
	log  *zap.Logger
}

// NewStudentRepository constructs a StudentRepository.
func NewStudentRepository(db *mongo.Database, log *zap.Logger) *StudentRepository {
	if log == nil {
		log = zap.NewNop()
	}
	return &StudentRepository{coll: db.Collection(CollectionStudents), log: log}
}

// List returns all students ordered by full name.
func (r *StudentRepository) List(ctx context.Context) ([]models.Student, error) {
	opts := options.Find().SetSort(bson.D{{Key: "fullName", Value: 1}})
	cur, err := r.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("list students: %w", err)
	}
	var students []models.Student
	err = decodeEach(ctx, cur, r.log, func() error {
		var s models.Student
		if err := cur.Decode(&s); err != nil {
			return err
		}
		students = append(students, s)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list students: %w", err)
	}
	return students, nil
}

// FindByEmail fetches a student by its email key.
func (r *StudentRepository) FindByEmail(ctx context.Context, email string) (*models.Student, error) {
	var student models.Student
	if err := r.coll.FindOne(ctx, bson.M{"_id": email}).Decode(&student); err != nil {
		return nil, fmt.Errorf("find student %s: %w", email, err)
	}
	return &student, nil
}

// Insert stores a new student document.
func (r *StudentRepository) Insert(ctx context.Context, student *models.Student) error {
	if _, err := r.coll.InsertOne(ctx, student); err != nil {
		return fmt.Errorf("insert student: %w", err)
	}
	return nil
}

// Update applies the given field updates to a student document.
func (r *StudentRepository) Update(ctx context.Context, email string, updates bson.M) error {
	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": email}, bson.M{"$set": updates})
	if err != nil {
		return fmt.Errorf("update student %s: %w", email, err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("update student %s: %w", email, mongo.ErrNoDocuments)
	}
	return nil
}

// Delete removes a student document.
func (r *StudentRepository) Delete(ctx context.Context, email string) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": email})
	if err != nil {
		return fmt.Errorf("delete student %s: %w", email, err)
	}
	if res.DeletedCount == 0 {
		return fmt.Errorf("delete student %s: %w", email, mongo.ErrNoDocuments)
	}
	return nil
}
