// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package token issues and verifies the bearer tokens the admin surface
// authenticates with. Tokens are signed JWTs; issued tokens are also
// registered in Valkey with a TTL so logout (and a 401 on any secured call)
// can revoke them before their signed expiry.
package token

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"sitefolio/internal/models"
)

const (
	// keyPrefix namespaces issued-token keys in Valkey.
	keyPrefix = "token:"

	// DefaultTTL is the token lifetime when the configured value is unusable.
	DefaultTTL = 12 * time.Hour
)

// ErrInvalid is returned for tokens that are malformed, expired, revoked,
// or signed with the wrong key.
var ErrInvalid = errors.New("token: invalid or expired")

// Claims is the JWT payload carried by issued tokens.
type Claims struct {
	UserID   uuid.UUID `json:"uid"`
	Username string    `json:"username"`
	jwt.RegisteredClaims
}

// Manager issues, verifies, and revokes bearer tokens.
type Manager struct {
	secret []byte
	ttl    time.Duration
	client *redis.Client
}

// NewManager creates a token manager. ttl is parsed from a duration string
// ("12h"); unparsable values fall back to DefaultTTL.
func NewManager(secret, ttl string, client *redis.Client) *Manager {
	d, err := time.ParseDuration(ttl)
	if err != nil || d <= 0 {
		d = DefaultTTL
	}
	return &Manager{secret: []byte(secret), ttl: d, client: client}
}

// Issue signs a token for the user, registers it in Valkey with the token
// TTL, and returns the session the login endpoint hands to clients.
func (m *Manager) Issue(ctx context.Context, user *models.User) (*models.Session, error) {
	now := time.Now()
	expiresAt := now.Add(m.ttl)
	jti := uuid.NewString()

	claims := &Claims{
		UserID:   user.ID,
		Username: user.Username,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        jti,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return nil, fmt.Errorf("token sign: %w", err)
	}

	if err := m.client.Set(ctx, keyPrefix+jti, user.Username, m.ttl).Err(); err != nil {
		return nil, fmt.Errorf("token register: %w", err)
	}

	return &models.Session{Token: signed, ExpiresAt: expiresAt}, nil
}

// Verify parses and validates a bearer token. A token that verifies
// cryptographically but is no longer registered in Valkey (logged out or
// expired there) is rejected.
func (m *Manager) Verify(ctx context.Context, raw string) (*Claims, error) {
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return m.secret, nil
	})
	if err != nil || !parsed.Valid {
		return nil, ErrInvalid
	}

	registered, err := m.client.Exists(ctx, keyPrefix+claims.ID).Result()
	if err != nil {
		return nil, fmt.Errorf("token lookup: %w", err)
	}
	if registered == 0 {
		return nil, ErrInvalid
	}

	return claims, nil
}

// Revoke removes a token's registration so subsequent Verify calls fail.
// Revoking an unknown token is a no-op.
func (m *Manager) Revoke(ctx context.Context, raw string) error {
	claims := &Claims{}
	if _, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (any, error) {
		return m.secret, nil
	}); err != nil {
		return nil
	}
	if err := m.client.Del(ctx, keyPrefix+claims.ID).Err(); err != nil {
		return fmt.Errorf("token revoke: %w", err)
	}
	return nil
}
