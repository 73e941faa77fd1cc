package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"taskboard/internal/models"

	"github.com/redis/go-redis/v9"
)

// SessionState is the slice of a user record that every authenticated
// request needs. Revision orders writes that share a token version, so a
// role change made after a read is never overwritten by that read.
type SessionState struct {
	Role         models.Role `json:"role"`
	TokenVersion int         `json:"token_version"`
	Revision     int64       `json:"revision"`
}

// SessionStateOf derives the cached state from a user record.
func SessionStateOf(u *models.User) SessionState {
	return SessionState{
		Role:         u.Role,
		TokenVersion: u.TokenVersion,
		Revision:     u.UpdatedAt.UnixMilli(),
	}
}

// newerThan reports whether s supersedes other.
func (s SessionState) newerThan(other SessionState) bool {
	if s.TokenVersion != other.TokenVersion {
		return s.TokenVersion > other.TokenVersion
	}
	return s.Revision > other.Revision
}

// SessionStore caches per-user session state.
type SessionStore interface {
	// Get returns the cached state, or nil on a miss.
	Get(ctx context.Context, userID string) (*SessionState, error)
	// Put stores state unless the cache already holds a newer one.
	Put(ctx context.Context, userID string, state SessionState, ttl time.Duration) error
	// Delete drops the cached state.
	Delete(ctx context.Context, userID string) error
}

// RedisClientProvider provides access to the underlying Redis client.
type RedisClientProvider interface {
	Client() *redis.Client
}

type sessionStore struct {
	cache  Cache
	client *redis.Client
}

// NewSessionStore creates a SessionStore. When cache is backed by Redis the
// compare-and-set in Put runs as a single script.
func NewSessionStore(cache Cache) SessionStore {
	store := &sessionStore{cache: cache}
	if provider, ok := cache.(RedisClientProvider); ok {
		store.client = provider.Client()
	}
	return store
}

// SessionKey generates the cache key for a user's session state.
func SessionKey(userID string) string {
	return fmt.Sprintf("session:%s", userID)
}

func (s *sessionStore) Get(ctx context.Context, userID string) (*SessionState, error) {
	var state SessionState
	found, err := s.cache.Get(ctx, SessionKey(userID), &state)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, nil
	}
	return &state, nil
}

// putScript writes ARGV[1] with a TTL of ARGV[2] milliseconds unless the key
// holds a state with a higher token version, or the same version and a
// higher revision.
var putScript = redis.NewScript(`
local current = redis.call('GET', KEYS[1])
if current then
    local old = cjson.decode(current)
    local new = cjson.decode(ARGV[1])
    if old.token_version > new.token_version then
        return 0
    end
    if old.token_version == new.token_version and old.revision > new.revision then
        return 0
    end
end
redis.call('SET', KEYS[1], ARGV[1], 'PX', ARGV[2])
return 1
`)

func (s *sessionStore) Put(ctx context.Context, userID string, state SessionState, ttl time.Duration) error {
	if s.client != nil {
		payload, err := json.Marshal(state)
		if err != nil {
			return fmt.Errorf("failed to marshal session state: %w", err)
		}
		err = putScript.Run(ctx, s.client, []string{SessionKey(userID)}, string(payload), ttl.Milliseconds()).Err()
		if err != nil {
			return fmt.Errorf("session put script failed: %w", err)
		}
		return nil
	}

	return s.putFallback(ctx, userID, state, ttl)
}

// putFallback is the non-atomic path for caches without a Redis client.
func (s *sessionStore) putFallback(ctx context.Context, userID string, state SessionState, ttl time.Duration) error {
	current, err := s.Get(ctx, userID)
	if err != nil {
		return err
	}
	if current != nil && current.newerThan(state) {
		return nil
	}
	return s.cache.Set(ctx, SessionKey(userID), state, ttl)
}

func (s *sessionStore) Delete(ctx context.Context, userID string) error {
	return s.cache.Delete(ctx, SessionKey(userID))
}
