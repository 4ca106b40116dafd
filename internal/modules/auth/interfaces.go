package auth

import (
	"context"
	"time"

	"shugly/internal/domain"
	"shugly/internal/session"
)

// UserRepository is the subset of the user store auth needs. Both the SQL and the
// Mongo repositories satisfy it.
type UserRepository interface {
	CreateAccount(ctx context.Context, u *domain.User, w *domain.Worker) error
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	UpdateProfile(ctx context.Context, id, name, phone string) (*domain.User, error)
	SetDeviceToken(ctx context.Context, id, token string) error
}

type TokenIssuer interface {
	GenerateToken(userID string, role string) (string, error)
	TTL() time.Duration
}

type SessionRevoker interface {
	Revoke(ctx context.Context, s *session.Session) error
}
