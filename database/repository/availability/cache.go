// File: database/repository/availability/cache.go
package availabilityRepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	"crewcal/models"
	"crewcal/utils"
)

// cachedAvailabilityRepo is a read-through cache in front of the mongo
// adapter. Invalidation is explicit and scoped: every successful save deletes
// the subject's cache key, nothing else is ever swept. A cache failure is
// logged and bypassed; the store stays authoritative.
type cachedAvailabilityRepo struct {
	inner AvailabilityRepository
	cache *redis.Client
	ttl   time.Duration
}

// NewCachedAvailabilityRepo wraps an adapter with the redis payload cache.
func NewCachedAvailabilityRepo(inner AvailabilityRepository, cache *redis.Client, ttl time.Duration) AvailabilityRepository {
	return &cachedAvailabilityRepo{inner: inner, cache: cache, ttl: ttl}
}

func (r *cachedAvailabilityRepo) GetRaw(ctx context.Context, subjectID string, kind models.SubjectKind) (string, error) {
	key := cacheKey(subjectID, kind)
	cached, err := r.cache.Get(ctx, key).Result()
	if err == nil {
		return cached, nil
	}
	if !errors.Is(err, redis.Nil) {
		utils.GetLogger().Warn("availability cache read failed, falling through",
			zap.String("subjectID", subjectID), zap.Error(err))
	}

	payload, err := r.inner.GetRaw(ctx, subjectID, kind)
	if err != nil {
		return "", err
	}
	if payload != "" {
		if err := r.cache.Set(ctx, key, payload, r.ttl).Err(); err != nil {
			utils.GetLogger().Warn("availability cache write failed",
				zap.String("subjectID", subjectID), zap.Error(err))
		}
	}
	return payload, nil
}

func (r *cachedAvailabilityRepo) SaveRaw(ctx context.Context, subjectID string, kind models.SubjectKind, payload string) error {
	if err := r.inner.SaveRaw(ctx, subjectID, kind, payload); err != nil {
		return err
	}
	if err := r.cache.Del(ctx, cacheKey(subjectID, kind)).Err(); err != nil {
		utils.GetLogger().Warn("availability cache invalidation failed",
			zap.String("subjectID", subjectID), zap.Error(err))
	}
	return nil
}

func (r *cachedAvailabilityRepo) Delete(ctx context.Context, subjectID string, kind models.SubjectKind) error {
	if err := r.inner.Delete(ctx, subjectID, kind); err != nil {
		return err
	}
	if err := r.cache.Del(ctx, cacheKey(subjectID, kind)).Err(); err != nil {
		utils.GetLogger().Warn("availability cache invalidation failed",
			zap.String("subjectID", subjectID), zap.Error(err))
	}
	return nil
}

func cacheKey(subjectID string, kind models.SubjectKind) string {
	return fmt.Sprintf("availability:%s:%s", kind, subjectID)
}
