package cache

import (
	"context"
	"encoding/json"
	"time"

	"userprofile-backend/internal/common/logger"
	"userprofile-backend/internal/features/profile/models"
	"userprofile-backend/internal/platform/redis"
)

const keyPrefix = "profile:"

// Redis is a ProfileCache storing JSON snapshots in Redis with a TTL.
// The entry count bound is delegated to the Redis eviction policy.
type Redis struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedis(client *redis.Client, ttl time.Duration) *Redis {
	return &Redis{client: client, ttl: ttl}
}

func (r *Redis) Get(ctx context.Context, id string) (*models.Profile, bool) {
	data, err := r.client.Get(ctx, keyPrefix+id).Result()
	if err != nil {
		return nil, false
	}

	var profile models.Profile
	if err := json.Unmarshal([]byte(data), &profile); err != nil {
		logger.Warn().Err(err).Str("profile_id", id).Msg("Dropping undecodable cache entry")
		r.Delete(ctx, id)
		return nil, false
	}
	return &profile, true
}

func (r *Redis) Set(ctx context.Context, id string, profile *models.Profile) {
	data, err := json.Marshal(profile)
	if err != nil {
		logger.Warn().Err(err).Str("profile_id", id).Msg("Failed to marshal cache entry")
		return
	}
	if err := r.client.Set(ctx, keyPrefix+id, data, r.ttl).Err(); err != nil {
		logger.Warn().Err(err).Str("profile_id", id).Msg("Failed to write cache entry")
	}
}

func (r *Redis) Delete(ctx context.Context, id string) {
	if err := r.client.Del(ctx, keyPrefix+id).Err(); err != nil {
		logger.Warn().Err(err).Str("profile_id", id).Msg("Failed to delete cache entry")
	}
}
