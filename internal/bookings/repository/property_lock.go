package repository

import (
	"context"
	"time"

	"ciaohost/pkg/config"
	"ciaohost/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// PropertyLockRepository provides operations for advisory locks
type PropertyLockRepository interface {
	Create(ctx context.Context, lock *model.PropertyLock) (*model.PropertyLock, error)
	Delete(ctx context.Context, lockID string) error
}

type mongoPropertyLockRepository struct {
	collection *mongo.Collection
}

func NewPropertyLockRepository(cfg *config.Config) PropertyLockRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoPropertyLockRepository{
		collection: db.Collection("Property_locks"),
	}
}

// Returns duplicate key error if lock already exists
func (r *mongoPropertyLockRepository) Create(ctx context.Context, lock *model.PropertyLock) (*model.PropertyLock, error) {
	lock.CreatedAt = time.Now()

	_, err := r.collection.InsertOne(ctx, lock)
	if err != nil {
		return nil, err
	}

	return lock, nil
}

// Delete removes an advisory lock
func (r *mongoPropertyLockRepository) Delete(ctx context.Context, lockID string) error {
	_, err := r.collection.DeleteOne(ctx, bson.M{"_id": lockID})
	return err
}
