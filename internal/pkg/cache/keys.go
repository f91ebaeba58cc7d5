package cache

import (
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"
)

// KeyBuilder builds consistent cache keys from request components.
// Components are marshaled to JSON and hashed, so any JSON-serializable
// value can participate in a key.
type KeyBuilder struct {
	components []interface{}
	logger     *zap.Logger
}

// NewKeyBuilder creates a new cache key builder.
func NewKeyBuilder(logger *zap.Logger) *KeyBuilder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &KeyBuilder{
		components: make([]interface{}, 0, 8),
		logger:     logger,
	}
}

// Add adds a named component to the cache key.
func (b *KeyBuilder) Add(key string, value interface{}) *KeyBuilder {
	b.components = append(b.components, map[string]interface{}{key: value})
	return b
}

// AddLocation adds a location name to the cache key.
func (b *KeyBuilder) AddLocation(location string) *KeyBuilder {
	return b.Add("location", location)
}

// AddTravelContext adds travel type and budget to the cache key.
func (b *KeyBuilder) AddTravelContext(travelType, budget string) *KeyBuilder {
	return b.Add("travel_type", travelType).Add("budget", budget)
}

// Build generates the final cache key as an MD5 hash of the components.
func (b *KeyBuilder) Build() (string, error) {
	jsonBytes, err := json.Marshal(b.components)
	if err != nil {
		return "", fmt.Errorf("failed to marshal cache key components: %w", err)
	}
	hash := md5.Sum(jsonBytes)
	return hex.EncodeToString(hash[:]), nil
}

// BuildOrDefault builds the cache key, returning an empty string on error.
func (b *KeyBuilder) BuildOrDefault() string {
	key, err := b.Build()
	if err != nil {
		b.logger.Error("Failed to build cache key", zap.Error(err))
		return ""
	}
	return key
}
