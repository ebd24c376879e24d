// Package cache holds profile snapshots keyed by profile id. Only the
// single-profile read path is cached; list and search results are not.
package cache

import (
	"context"

	"userprofile-backend/internal/features/profile/models"
)

// ProfileCache is a bounded, time-expiring mapping from profile id to
// snapshot. Implementations are safe for concurrent use; failures of a
// remote backend degrade to cache misses.
type ProfileCache interface {
	Get(ctx context.Context, id string) (*models.Profile, bool)
	Set(ctx context.Context, id string, profile *models.Profile)
	Delete(ctx context.Context, id string)
}
