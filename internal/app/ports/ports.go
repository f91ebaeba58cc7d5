// Package ports defines the narrow interfaces the itinerary pipeline
// needs from the surrounding system: a persistent cache, a call-budget
// guard and the external POI/image/validation providers.
package ports

import (
	"context"
	"time"

	"github.com/FACorreiaa/tripweaver/internal/app/models"
)

// Cache is a get-or-set cache with a per-entry TTL. Implementations
// must be safe for concurrent use.
type Cache interface {
	// Get returns the raw value and whether the key was present and
	// unexpired.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// RateLimitDecision is the outcome of a rate limit check.
type RateLimitDecision struct {
	Allowed bool
	ResetAt time.Time
}

// RateLimiter guards external calls with a sliding-window budget keyed
// by caller identity. Callers must check before calling, never call
// unconditionally.
type RateLimiter interface {
	Check(ctx context.Context, identifier string) (RateLimitDecision, error)
}

// ExternalSource is the gateway to the external POI, image and
// validation providers.
type ExternalSource interface {
	FetchPOIs(ctx context.Context, location string, categories []string) ([]models.POI, error)
	FetchImageCandidates(ctx context.Context, query string) ([]models.ImageCandidate, error)
	ValidatePOIs(ctx context.Context, pois []models.POI, trip models.TripContext) ([]models.POI, error)
}
