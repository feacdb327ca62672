package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Session is the client-held proof of authentication: the upstream
// access token plus the role hint derived from its payload.
type Session struct {
	Token string `json:"token"`
	Role  string `json:"role"`
}

func (s Session) IsAdmin() bool { return s.Role == RoleAdmin }

// Commands is the slice of the redis API the store needs.
type Commands interface {
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Get(ctx context.Context, key string) *redis.StringCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

// Store persists sessions in redis under session:<id> with a fixed TTL.
type Store struct {
	rdb Commands
	ttl time.Duration
}

func NewStore(rdb Commands, ttl time.Duration) *Store {
	return &Store{rdb: rdb, ttl: ttl}
}

// TTL returns the session lifetime, used to scope the session cookie.
func (s *Store) TTL() time.Duration { return s.ttl }

// Create stores a new session and returns its ID.
func (s *Store) Create(ctx context.Context, token, role string) (string, error) {
	id := uuid.NewString()
	buf, err := json.Marshal(Session{Token: token, Role: role})
	if err != nil {
		return "", fmt.Errorf("encode session: %w", err)
	}
	if err := s.rdb.Set(ctx, sessionKey(id), buf, s.ttl).Err(); err != nil {
		return "", fmt.Errorf("store session: %w", err)
	}
	return id, nil
}

// Get resolves a session by ID. A missing or expired session is not an
// error; it reports ok=false.
func (s *Store) Get(ctx context.Context, id string) (Session, bool, error) {
	val, err := s.rdb.Get(ctx, sessionKey(id)).Result()
	if errors.Is(err, redis.Nil) {
		return Session{}, false, nil
	}
	if err != nil {
		return Session{}, false, fmt.Errorf("load session: %w", err)
	}
	var sess Session
	if err := json.Unmarshal([]byte(val), &sess); err != nil {
		return Session{}, false, fmt.Errorf("decode session: %w", err)
	}
	return sess, true, nil
}

// Delete removes a session. Deleting an unknown ID is a no-op.
func (s *Store) Delete(ctx context.Context, id string) error {
	return s.rdb.Del(ctx, sessionKey(id)).Err()
}

func sessionKey(id string) string { return "session:" + id }
