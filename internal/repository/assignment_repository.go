package repository

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// AssignmentRepository performs the multi-document course assignment writes.
// Both sides (the teacher's assignedCourseIds set and the course's teacher
// fields) change inside one transaction so readers never observe a
// half-assigned pair.
type AssignmentRepository struct {
	client   *mongo.Client
	teachers *mongo.Collection
	courses  *mongo.Collection
	log      *zap.Logger
}

// NewAssignmentRepository constructs an AssignmentRepository.
func NewAssignmentRepository(client *mongo.Client, db *mongo.Database, log *zap.Logger) *AssignmentRepository {
	if log == nil {
		log = zap.NewNop()
	}
	return &AssignmentRepository{
		client:   client,
		teachers: db.Collection(CollectionTeachers),
		courses:  db.Collection(CollectionCourses),
		log:      log,
	}
}

// Assign links a course to a teacher: the course id joins the teacher's
// assignedCourseIds set and the course takes the teacher's email, name and
// department. Re-assigning the same pair is a no-op on the set side.
func (r *AssignmentRepository) Assign(ctx context.Context, courseID, teacherEmail, teacherName, department string) error {
	err := r.inTransaction(ctx, func(sc mongo.SessionContext) error {
		res, err := r.teachers.UpdateOne(sc, bson.M{"_id": teacherEmail},
			bson.M{"$addToSet": bson.M{"assignedCourseIds": courseID}})
		if err != nil {
			return err
		}
		if res.MatchedCount == 0 {
			return fmt.Errorf("teacher %s: %w", teacherEmail, mongo.ErrNoDocuments)
		}

		res, err = r.courses.UpdateOne(sc, bson.M{"_id": courseID},
			bson.M{"$set": bson.M{
				"teacherEmail": teacherEmail,
				"teacherName":  teacherName,
				"department":   department,
			}})
		if err != nil {
			return err
		}
		if res.MatchedCount == 0 {
			return fmt.Errorf("course %s: %w", courseID, mongo.ErrNoDocuments)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("assign course %s to %s: %w", courseID, teacherEmail, err)
	}
	return nil
}

// Unassign detaches a course from its teacher: the course id leaves the
// teacher's assignedCourseIds set and the course's teacher fields are
// cleared.
func (r *AssignmentRepository) Unassign(ctx context.Context, courseID, teacherEmail string) error {
	err := r.inTransaction(ctx, func(sc mongo.SessionContext) error {
		res, err := r.teachers.UpdateOne(sc, bson.M{"_id": teacherEmail},
			bson.M{"$pull": bson.M{"assignedCourseIds": courseID}})
		if err != nil {
			return err
		}
		if res.MatchedCount == 0 {
			return fmt.Errorf("teacher %s: %w", teacherEmail, mongo.ErrNoDocuments)
		}

		res, err = r.courses.UpdateOne(sc, bson.M{"_id": courseID},
			bson.M{"$set": bson.M{
				"teacherEmail": nil,
				"teacherName":  nil,
			}})
		if err != nil {
			return err
		}
		if res.MatchedCount == 0 {
			return fmt.Errorf("course %s: %w", courseID, mongo.ErrNoDocuments)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("unassign course %s from %s: %w", courseID, teacherEmail, err)
	}
	return nil
}

func (r *AssignmentRepository) inTransaction(ctx context.Context, fn func(mongo.SessionContext) error) error {
	session, err := r.client.StartSession()
	if err != nil {
		return fmt.Errorf("start session: %w", err)
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		return nil, fn(sc)
	})
	return err
}
