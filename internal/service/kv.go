package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"adaptagent/internal/cache"
)

// MaxKVTTL bounds the lifetime of a user-stored value.
const MaxKVTTL = 30 * 24 * time.Hour

type kvKey struct {
	Key string `json:"key" validate:"required,max=200,cachekey"`
}

// KVService stores arbitrary JSON values for a user in the cache.
type KVService interface {
	Get(ctx context.Context, userID, key string) (json.RawMessage, error)
	// Set stores value for ttl. A zero ttl uses the cache default.
	Set(ctx context.Context, userID, key string, value json.RawMessage, ttl time.Duration) error
	Delete(ctx context.Context, userID, key string) error
}

type kvService struct {
	cache cache.Cache
}

// NewKVService constructs a new KVService.
func NewKVService(c cache.Cache) KVService {
	return &kvService{cache: c}
}

func (s *kvService) Get(ctx context.Context, userID, key string) (json.RawMessage, error) {
	if err := validateStruct(kvKey{Key: key}); err != nil {
		return nil, err
	}
	var v json.RawMessage
	if err := s.cache.Get(ctx, cache.UserKey(userID, key), &v); err != nil {
		if errors.Is(err, cache.ErrMiss) {
			return nil, fmt.Errorf("key %w", ErrNotFound)
		}
		return nil, fmt.Errorf("%w: %v", ErrCacheUnavailable, err)
	}
	return v, nil
}

func (s *kvService) Set(ctx context.Context, userID, key string, value json.RawMessage, ttl time.Duration) error {
	if err := validateStruct(kvKey{Key: key}); err != nil {
		return err
	}
	if len(value) == 0 || !json.Valid(value) {
		return invalid("value", "json", "value must be valid JSON")
	}
	if ttl < 0 || ttl > MaxKVTTL {
		return invalid("ttl", "range", fmt.Sprintf("ttl must be between 0 and %d seconds", int64(MaxKVTTL/time.Second)))
	}
	if err := s.cache.Set(ctx, cache.UserKey(userID, key), value, ttl); err != nil {
		return fmt.Errorf("%w: %v", ErrCacheUnavailable, err)
	}
	return nil
}

func (s *kvService) Delete(ctx context.Context, userID, key string) error {
	if err := validateStruct(kvKey{Key: key}); err != nil {
		return err
	}
	if err := s.cache.Delete(ctx, cache.UserKey(userID, key)); err != nil {
		return fmt.Errorf("%w: %v", ErrCacheUnavailable, err)
	}
	return nil
}
