// Package preferences persists user preference profiles.
package preferences

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/ajitpratap0/openclaw-concierge/internal/models"
)

// ErrNotFound is returned when a user has no stored profile. Callers treat it
// as "no profile", never as a failure.
var ErrNotFound = errors.New("preference profile not found")

// DefaultPrefix namespaces profile keys in Redis.
const DefaultPrefix = "concierge:prefs:"

// Store reads and writes preference profiles by user id.
type Store interface {
	Get(ctx context.Context, userID string) (*models.UserPreferenceProfile, error)
	Put(ctx context.Context, userID string, profile models.UserPreferenceProfile) error
	Delete(ctx context.Context, userID string) error
}

// MemoryStore is an in-process Store.
type MemoryStore struct {
	mu       sync.RWMutex
	profiles map[string]models.UserPreferenceProfile
}

// NewMemoryStore creates an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{profiles: make(map[string]models.UserPreferenceProfile)}
}

// Get returns a copy of the stored profile.
func (m *MemoryStore) Get(_ context.Context, userID string) (*models.UserPreferenceProfile, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.profiles[userID]
	if !ok {
		return nil, ErrNotFound
	}
	return clone(p)
}

// Put stores a copy of profile.
func (m *MemoryStore) Put(_ context.Context, userID string, profile models.UserPreferenceProfile) error {
	if strings.TrimSpace(userID) == "" {
		return errors.New("user id is required")
	}
	profile.UserID = userID
	cp, err := clone(profile)
	if err != nil {
		return err
	}
	m.mu.Lock()
	m.profiles[userID] = *cp
	m.mu.Unlock()
	return nil
}

// Delete removes the profile; deleting an absent profile is not an error.
func (m *MemoryStore) Delete(_ context.Context, userID string) error {
	m.mu.Lock()
	delete(m.profiles, userID)
	m.mu.Unlock()
	return nil
}

// clone deep-copies a profile through its JSON form.
func clone(p models.UserPreferenceProfile) (*models.UserPreferenceProfile, error) {
	data, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("encoding profile: %w", err)
	}
	var out models.UserPreferenceProfile
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("decoding profile: %w", err)
	}
	return &out, nil
}

// RedisKV is the subset of the go-redis client the store needs.
type RedisKV interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

// RedisStore keeps each profile as a JSON value under prefix+userID.
type RedisStore struct {
	client RedisKV
	prefix string
	ttl    time.Duration
}

// NewRedisStore creates a store. A zero ttl keeps profiles forever.
func NewRedisStore(client RedisKV, prefix string, ttl time.Duration) *RedisStore {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	return &RedisStore{client: client, prefix: prefix, ttl: ttl}
}

// NewRedisClient builds a go-redis client from connection settings.
func NewRedisClient(addr, password string, db int) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
}

func (s *RedisStore) key(userID string) string { return s.prefix + userID }

// Get loads the profile for userID.
func (s *RedisStore) Get(ctx context.Context, userID string) (*models.UserPreferenceProfile, error) {
	raw, err := s.client.Get(ctx, s.key(userID)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("redis get profile %s: %w", userID, err)
	}
	var p models.UserPreferenceProfile
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		return nil, fmt.Errorf("decoding profile %s: %w", userID, err)
	}
	return &p, nil
}

// Put stores profile for userID, refreshing the TTL.
func (s *RedisStore) Put(ctx context.Context, userID string, profile models.UserPreferenceProfile) error {
	if strings.TrimSpace(userID) == "" {
		return errors.New("user id is required")
	}
	profile.UserID = userID
	data, err := json.Marshal(profile)
	if err != nil {
		return fmt.Errorf("encoding profile %s: %w", userID, err)
	}
	if err := s.client.Set(ctx, s.key(userID), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("redis set profile %s: %w", userID, err)
	}
	return nil
}

// Delete removes the profile for userID.
func (s *RedisStore) Delete(ctx context.Context, userID string) error {
	if err := s.client.Del(ctx, s.key(userID)).Err(); err != nil {
		return fmt.Errorf("redis del profile %s: %w", userID, err)
	}
	return nil
}

// Lookup fetches a profile and folds ErrNotFound into a nil profile.
func Lookup(ctx context.Context, store Store, userID string) (*models.UserPreferenceProfile, error) {
	if store == nil || strings.TrimSpace(userID) == "" {
		return nil, nil
	}
	p, err := store.Get(ctx, userID)
	if errors.Is(err, ErrNotFound) {
		return nil, nil
	}
	return p, err
}
