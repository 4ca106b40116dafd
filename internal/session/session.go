// Package session resolves bearer tokens into a principal and its profile record.
package session

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"shugly/internal/cache"
	"shugly/internal/domain"
	"shugly/internal/pkg/jwt"
)

const DefaultProfileTimeout = 5 * time.Second

var (
	ErrInvalidToken = errors.New("invalid or expired token")
	ErrRevoked      = errors.New("token has been revoked")
)

// Principal is the identity proven by the token alone.
type Principal struct {
	UserID    string
	Role      domain.UserRole
	TokenID   string
	ExpiresAt time.Time
}

// Session is resolved once per request. Loaded is always true on a returned session;
// Profile is nil when the profile lookup failed, timed out or found no record.
type Session struct {
	Principal Principal
	Profile   *domain.User
	Loaded    bool
}

// Role prefers the stored profile, so a role change applies without a new token.
func (s *Session) Role() domain.UserRole {
	if s.Profile != nil {
		return s.Profile.Role
	}
	return s.Principal.Role
}

type ProfileLoader interface {
	GetByID(ctx context.Context, id string) (*domain.User, error)
}

type Provider struct {
	tokens   *jwt.Service
	profiles ProfileLoader
	denylist cache.Denylist
	timeout  time.Duration
}

func NewProvider(tokens *jwt.Service, profiles ProfileLoader, denylist cache.Denylist, timeout time.Duration) *Provider {
	if timeout <= 0 {
		timeout = DefaultProfileTimeout
	}
	return &Provider{
		tokens:   tokens,
		profiles: profiles,
		denylist: denylist,
		timeout:  timeout,
	}
}

// Resolve validates the token and loads the profile within the provider's timeout.
func (p *Provider) Resolve(ctx context.Context, token string) (*Session, error) {
	claims, err := p.tokens.ValidateToken(token)
	if err != nil {
		return nil, ErrInvalidToken
	}

	principal := Principal{
		UserID:  claims.UserID,
		Role:    domain.UserRole(claims.Role),
		TokenID: claims.ID,
	}
	if claims.ExpiresAt != nil {
		principal.ExpiresAt = claims.ExpiresAt.Time
	}

	if principal.TokenID != "" {
		revoked, err := p.denylist.IsRevoked(ctx, principal.TokenID)
		if err != nil {
			slog.WarnContext(ctx, "denylist lookup failed", "user_id", principal.UserID, "error", err)
		}
		if revoked {
			return nil, ErrRevoked
		}
	}

	return &Session{
		Principal: principal,
		Profile:   p.loadProfile(ctx, principal.UserID),
		Loaded:    true,
	}, nil
}

type profileResult struct {
	user *domain.User
	err  error
}

// loadProfile gives up after the timeout even if the loader ignores ctx.
func (p *Provider) loadProfile(ctx context.Context, userID string) *domain.User {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	done := make(chan profileResult, 1)
	go func() {
		u, err := p.profiles.GetByID(ctx, userID)
		done <- profileResult{user: u, err: err}
	}()

	select {
	case res := <-done:
		if res.err != nil {
			slog.WarnContext(ctx, "profile lookup failed", "user_id", userID, "error", res.err)
			return nil
		}
		return res.user
	case <-ctx.Done():
		slog.WarnContext(ctx, "profile lookup timed out", "user_id", userID, "timeout", p.timeout)
		return nil
	}
}

// Revoke deny-lists the session's token until it would have expired.
func (p *Provider) Revoke(ctx context.Context, s *Session) error {
	if s == nil || s.Principal.TokenID == "" {
		return nil
	}
	return p.denylist.Revoke(ctx, s.Principal.TokenID, time.Until(s.Principal.ExpiresAt))
}

type contextKey struct{}

func NewContext(ctx context.Context, s *Session) context.Context {
	return context.WithValue(ctx, contextKey{}, s)
}

func FromContext(ctx context.Context) (*Session, bool) {
	s, ok := ctx.Value(contextKey{}).(*Session)
	return s, ok && s != nil
}
