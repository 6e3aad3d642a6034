package auth

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// RevocationList invalidates tokens before they expire. Single tokens are
// revoked by JTI on logout; all of a user's tokens are revoked when the
// password changes.
type RevocationList interface {
	// Revoke marks a JTI revoked until ttl elapses
	Revoke(ctx context.Context, jti string, ttl time.Duration) error

	// IsRevoked reports whether a JTI was revoked
	IsRevoked(ctx context.Context, jti string) (bool, error)

	// RevokeUser rejects every token issued to userID up to now
	RevokeUser(ctx context.Context, userID string, ttl time.Duration) error

	// IsUserRevoked reports whether a token issued at issuedAt predates the
	// user's last revocation
	IsUserRevoked(ctx context.Context, userID string, issuedAt time.Time) (bool, error)
}

const revocationKeyPrefix = "ims:auth:revoked:"

// RedisRevocationList stores revocations in Redis with TTLs
type RedisRevocationList struct {
	client    redis.UniversalClient
	keyPrefix string
	now       func() time.Time
}

// NewRedisRevocationList creates a revocation list on an existing client
func NewRedisRevocationList(client redis.UniversalClient) *RedisRevocationList {
	return &RedisRevocationList{
		client:    client,
		keyPrefix: revocationKeyPrefix,
		now:       time.Now,
	}
}

func (r *RedisRevocationList) jtiKey(jti string) string {
	return r.keyPrefix + "jti:" + jti
}

func (r *RedisRevocationList) userKey(userID string) string {
	return r.keyPrefix + "user:" + userID
}

// Revoke implements RevocationList
func (r *RedisRevocationList) Revoke(ctx context.Context, jti string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	if err := r.client.Set(ctx, r.jtiKey(jti), "1", ttl).Err(); err != nil {
		return fmt.Errorf("failed to revoke token: %w", err)
	}
	return nil
}

// IsRevoked implements RevocationList
func (r *RedisRevocationList) IsRevoked(ctx context.Context, jti string) (bool, error) {
	n, err := r.client.Exists(ctx, r.jtiKey(jti)).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check token revocation: %w", err)
	}
	return n > 0, nil
}

// RevokeUser implements RevocationList
func (r *RedisRevocationList) RevokeUser(ctx context.Context, userID string, ttl time.Duration) error {
	at := r.now().Unix()
	if err := r.client.Set(ctx, r.userKey(userID), at, ttl).Err(); err != nil {
		return fmt.Errorf("failed to revoke user tokens: %w", err)
	}
	return nil
}

// IsUserRevoked implements RevocationList
func (r *RedisRevocationList) IsUserRevoked(ctx context.Context, userID string, issuedAt time.Time) (bool, error) {
	raw, err := r.client.Get(ctx, r.userKey(userID)).Result()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check user revocation: %w", err)
	}
	at, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return false, fmt.Errorf("failed to parse revocation timestamp: %w", err)
	}
	return issuedAt.Unix() <= at, nil
}

var _ RevocationList = (*RedisRevocationList)(nil)

// InMemoryRevocationList is a process-local RevocationList for single
// instance deployments and tests.
type InMemoryRevocationList struct {
	mu    sync.Mutex
	jtis  map[string]time.Time
	users map[string]time.Time
	now   func() time.Time
}

// NewInMemoryRevocationList creates an empty in-memory revocation list
func NewInMemoryRevocationList() *InMemoryRevocationList {
	return &InMemoryRevocationList{
		jtis:  make(map[string]time.Time),
		users: make(map[string]time.Time),
		now:   time.Now,
	}
}

// Revoke implements RevocationList
func (m *InMemoryRevocationList) Revoke(_ context.Context, jti string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.jtis[jti] = m.now().Add(ttl)
	return nil
}

// IsRevoked implements RevocationList
func (m *InMemoryRevocationList) IsRevoked(_ context.Context, jti string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	until, ok := m.jtis[jti]
	if !ok {
		return false, nil
	}
	if m.now().After(until) {
		delete(m.jtis, jti)
		return false, nil
	}
	return true, nil
}

// RevokeUser implements RevocationList
func (m *InMemoryRevocationList) RevokeUser(_ context.Context, userID string, _ time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users[userID] = m.now()
	return nil
}

// IsUserRevoked implements RevocationList. Compared at second precision,
// matching the iat claim.
func (m *InMemoryRevocationList) IsUserRevoked(_ context.Context, userID string, issuedAt time.Time) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	at, ok := m.users[userID]
	if !ok {
		return false, nil
	}
	return issuedAt.Unix() <= at.Unix(), nil
}

var _ RevocationList = (*InMemoryRevocationList)(nil)

// CheckRevoked returns ErrTokenRevoked when claims were revoked individually
// or by a user-wide revocation.
func CheckRevoked(ctx context.Context, list RevocationList, claims *Claims) error {
	if list == nil {
		return nil
	}
	revoked, err := list.IsRevoked(ctx, claims.ID)
	if err != nil {
		return err
	}
	if revoked {
		return ErrTokenRevoked
	}
	revoked, err = list.IsUserRevoked(ctx, claims.UserID, claims.GetIssuedAtTime())
	if err != nil {
		return err
	}
	if revoked {
		return ErrTokenRevoked
	}
	return nil
}
