package repository

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"github.com/classtrack/attendance-admin-api/internal/models"
)

// AccountRepository manages authentication credential documents.
type AccountRepository struct {
	coll *mongo.Collection
	log  *zap.Logger
}

// NewAccountRepository constructs an AccountRepository.
func NewAccountRepository(db *mongo.Database, log *zap.Logger) *AccountRepository {
	if log == nil {
		log = zap.NewNop()
	}
	return &AccountRepository{coll: db.Collection(CollectionAccounts), log: log}
}

// FindByEmail fetches an account by its email key.
func (r *AccountRepository) FindByEmail(ctx context.Context, email string) (*models.Account, error) {
	var account models.Account
	if err := r.coll.FindOne(ctx, bson.M{"_id": email}).Decode(&account); err != nil {
		return nil, fmt.Errorf("find account %s: %w", email, err)
	}
	return &account, nil
}

// Insert stores a new account document.
func (r *AccountRepository) Insert(ctx context.Context, account *models.Account) error {
	if _, err := r.coll.InsertOne(ctx, account); err != nil {
		return fmt.Errorf("insert account: %w", err)
	}
	return nil
}

// Delete removes an account document. Used both for deactivation and as the
// compensating step when the profile write after account creation fails.
func (r *AccountRepository) Delete(ctx context.Context, email string) error {
	if _, err := r.coll.DeleteOne(ctx, bson.M{"_id": email}); err != nil {
		return fmt.Errorf("delete account %s: %w", email, err)
	}
	return nil
}

// TouchLastLogin records a successful sign-in.
func (r *AccountRepository) TouchLastLogin(ctx context.Context, email string, at time.Time) error {
	_, err := r.coll.UpdateOne(ctx, bson.M{"_id": email},
		bson.M{"$set": bson.M{"lastLoginAt": at}})
	if err != nil {
		return fmt.Errorf("touch last login %s: %w", email, err)
	}
	return nil
}
