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

// CourseRepository manages persistence for course records.
//
// teacherEmail and teacherName are only touched by AssignmentRepository
// inside the assignment transaction.
type CourseRepository struct {
	coll *mongo.Collection
	log  *zap.Logger
}

// NewCourseRepository constructs a CourseRepository.
func NewCourseRepository(db *mongo.Database, log *zap.Logger) *CourseRepository {
	if log == nil {
		log = zap.NewNop()
	}
	return &CourseRepository{coll: db.Collection(CollectionCourses), log: log}
}

// List returns all courses ordered by course name.
func (r *CourseRepository) List(ctx context.Context) ([]models.Course, error) {
	return r.find(ctx, bson.M{})
}

// ListByField returns the courses referencing the given field name.
func (r *CourseRepository) ListByField(ctx context.Context, fieldName string) ([]models.Course, error) {
	return r.find(ctx, bson.M{"field": fieldName})
}

// ListByTeacher returns the courses currently assigned to a teacher.
func (r *CourseRepository) ListByTeacher(ctx context.Context, email string) ([]models.Course, error) {
	return r.find(ctx, bson.M{"teacherEmail": email})
}

func (r *CourseRepository) find(ctx context.Context, filter bson.M) ([]models.Course, error) {
	opts := options.Find().SetSort(bson.D{{Key: "courseName", Value: 1}})
	cur, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("list courses: %w", err)
	}
	var courses []models.Course
	err = decodeEach(ctx, cur, r.log, func() error {
		var c models.Course
		if err := cur.Decode(&c); err != nil {
			return err
		}
		courses = append(courses, c)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list courses: %w", err)
	}
	return courses, nil
}

// FindByID fetches a course by its identifier.
func (r *CourseRepository) FindByID(ctx context.Context, courseID string) (*models.Course, error) {
	var course models.Course
	if err := r.coll.FindOne(ctx, bson.M{"_id": courseID}).Decode(&course); err != nil {
		return nil, fmt.Errorf("find course %s: %w", courseID, err)
	}
	return &course, nil
}

// Insert stores a new course document.
func (r *CourseRepository) Insert(ctx context.Context, course *models.Course) error {
	if _, err := r.coll.InsertOne(ctx, course); err != nil {
		return fmt.Errorf("insert course: %w", err)
	}
	return nil
}

// Update applies the given field updates to a course document.
func (r *CourseRepository) Update(ctx context.Context, courseID string, updates bson.M) error {
	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": courseID}, bson.M{"$set": updates})
	if err != nil {
		return fmt.Errorf("update course %s: %w", courseID, err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("update course %s: %w", courseID, mongo.ErrNoDocuments)
	}
	return nil
}

// Delete removes a course document.
func (r *CourseRepository) Delete(ctx context.Context, courseID string) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": courseID})
	if err != nil {
		return fmt.Errorf("delete course %s: %w", courseID, err)
	}
	if res.DeletedCount == 0 {
		return fmt.Errorf("delete course %s: %w", courseID, mongo.ErrNoDocuments)
	}
	return nil
}
