package repository

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Collection names used across the store.
const (
	CollectionStudents = "students"
	CollectionTeachers = "teachers"
	CollectionAdmins   = "admins"
	CollectionCourses  = "courses"
	CollectionFields   = "fields"
	CollectionAccounts = "accounts"
)

// IsNotFound reports whether the error means the document does not exist.
func IsNotFound(err error) bool {
	return errors.Is(err, mongo.ErrNoDocuments)
}

// decodeEach walks a cursor and decodes every document into out via the
// decode callback. Documents that fail to decode are logged and skipped so a
// single corrupt record cannot break a listing.
func decodeEach(ctx context.Context, cur *mongo.Cursor, log *zap.Logger, decode func() error) error {
	defer cur.Close(ctx)
	for cur.Next(ctx) {
		if err := decode(); err != nil {
			log.Warn("skipping undecodable document", zap.Error(err))
		}
	}
	return cur.Err()
}
