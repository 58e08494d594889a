package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/classtrack/attendance-admin-api/internal/models"
)

const fieldCatalogKey = "directory:fields"

// CacheRepository is a read-through cache for the field catalog. The catalog
// is small and read on every course validation, so it is worth keeping warm.
type CacheRepository struct {
	client *redis.Client
	ttl    time.Duration
	log    *zap.Logger
}

// NewCacheRepository constructs a CacheRepository.
func NewCacheRepository(client *redis.Client, ttl time.Duration, log *zap.Logger) *CacheRepository {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &CacheRepository{client: client, ttl: ttl, log: log}
}

// GetFieldCatalog returns the cached catalog, or (nil, nil) on a miss.
func (r *CacheRepository) GetFieldCatalog(ctx context.Context) ([]models.Field, error) {
	raw, err := r.client.Get(ctx, fieldCatalogKey).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("get field catalog: %w", err)
	}
	var fields []models.Field
	if err := json.Unmarshal(raw, &fields); err != nil {
		r.log.Warn("dropping undecodable field catalog cache", zap.Error(err))
		_ = r.client.Del(ctx, fieldCatalogKey).Err()
		return nil, nil
	}
	return fields, nil
}

// SetFieldCatalog stores the catalog with the configured TTL.
func (r *CacheRepository) SetFieldCatalog(ctx context.Context, fields []models.Field) error {
	raw, err := json.Marshal(fields)
	if err != nil {
		return fmt.Errorf("marshal field catalog: %w", err)
	}
	if err := r.client.Set(ctx, fieldCatalogKey, raw, r.ttl).Err(); err != nil {
		return fmt.Errorf("set field catalog: %w", err)
	}
	return nil
}

// InvalidateFieldCatalog drops the cached catalog after any field write.
func (r *CacheRepository) InvalidateFieldCatalog(ctx context.Context) error {
	if err := r.client.Del(ctx, fieldCatalogKey).Err(); err != nil {
		return fmt.Errorf("invalidate field catalog: %w", err)
	}
	return nil
}
