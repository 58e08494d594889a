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

// AdminRepository manages persistence for administrator records.
type AdminRepository struct {
	coll *mongo.Collection
	log  *zap.Logger
}

// NewAdminRepository constructs an AdminRepository.
func NewAdminRepository(db *mongo.Database, log *zap.Logger) *AdminRepository {
	if log == nil {
		log = zap.NewNop()
	}
	return &AdminRepository{coll: db.Collection(CollectionAdmins), log: log}
}

// List returns all administrators ordered by full name.
func (r *AdminRepository) List(ctx context.Context) ([]models.Admin, error) {
	opts := options.Find().SetSort(bson.D{{Key: "fullName", Value: 1}})
	cur, err := r.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("list admins: %w", err)
	}
	var admins []models.Admin
	err = decodeEach(ctx, cur, r.log, func() error {
		var a models.Admin
		if err := cur.Decode(&a); err != nil {
			return err
		}
		admins = append(admins, a)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list admins: %w", err)
	}
	return admins, nil
}

// FindByEmail fetches an administrator by its email key.
func (r *AdminRepository) FindByEmail(ctx context.Context, email string) (*models.Admin, error) {
	var admin models.Admin
	if err := r.coll.FindOne(ctx, bson.M{"_id": email}).Decode(&admin); err != nil {
		return nil, fmt.Errorf("find admin %s: %w", email, err)
	}
	return &admin, nil
}

// Insert stores a new administrator document.
func (r *AdminRepository) Insert(ctx context.Context, admin *models.Admin) error {
	if _, err := r.coll.InsertOne(ctx, admin); err != nil {
		return fmt.Errorf("insert admin: %w", err)
	}
	return nil
}

// Update applies the given field updates to an administrator document.
func (r *AdminRepository) Update(ctx context.Context, email string, updates bson.M) error {
	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": email}, bson.M{"$set": updates})
	if err != nil {
		return fmt.Errorf("update admin %s: %w", email, err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("update admin %s: %w", email, mongo.ErrNoDocuments)
	}
	return nil
}

// Delete removes an administrator document.
func (r *AdminRepository) Delete(ctx context.Context, email string) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": email})
	if err != nil {
		return fmt.Errorf("delete admin %s: %w", email, err)
	}
	if res.DeletedCount == 0 {
		return fmt.Errorf("delete admin %s: %w", email, mongo.ErrNoDocuments)
	}
	return nil
}
