package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"shugly/internal/domain"
	"shugly/internal/session"

	"golang.org/x/crypto/bcrypt"
)

// Service contains all business logic for authentication
type Service struct {
	users    UserRepository
	tokens   TokenIssuer
	sessions SessionRevoker
}

func NewService(users UserRepository, tokens TokenIssuer, sessions SessionRevoker) *Service {
	return &Service{users: users, tokens: tokens, sessions: sessions}
}

// Register creates a customer or worker account. Workers get their worker record in
// the same write. Admin registration is refused before anything is stored.
func (s *Service) Register(ctx context.Context, req RegisterRequest) (*AuthResult, error) {
	role := domain.UserRole(strings.ToLower(strings.TrimSpace(req.Role)))
	switch role {
	case domain.RoleAdmin:
		return nil, ErrAdminRegistration
	case domain.RoleCustomer, domain.RoleWorker:
	default:
		return nil, ErrInvalidRole
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return nil, ErrEmailAlreadyExists
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &domain.User{
		Name:         strings.TrimSpace(req.Name),
		Email:        email,
		Phone:        strings.TrimSpace(req.Phone),
		Role:         role,
		PasswordHash: string(hash),
	}

	var worker *domain.Worker
	if role == domain.RoleWorker {
		worker = domain.NewWorker("")
	}

	if err := s.users.CreateAccount(ctx, user, worker); err != nil {
		if errors.Is(err, domain.ErrConflict) {
			return nil, ErrEmailAlreadyExists
		}
		return nil, err
	}

	slog.InfoContext(ctx, "user registered", "user_id", user.ID, "role", user.Role)
	return s.issue(user)
}

func (s *Service) Login(ctx context.Context, req LoginRequest) (*AuthResult, error) {
	user, err := s.users.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return s.issue(user)
}

// Logout revokes the token the session was resolved from.
func (s *Service) Logout(ctx context.Context, sess *session.Session) error {
	return s.sessions.Revoke(ctx, sess)
}

func (s *Service) UpdateProfile(ctx context.Context, userID string, req UpdateProfileRequest) (*domain.User, error) {
	return s.users.UpdateProfile(ctx, userID, strings.TrimSpace(req.Name), strings.TrimSpace(req.Phone))
}

// SetDeviceToken stores the FCM registration token; an empty token disables pushes.
func (s *Service) SetDeviceToken(ctx context.Context, userID, token string) error {
	return s.users.SetDeviceToken(ctx, userID, strings.TrimSpace(token))
}

func (s *Service) issue(user *domain.User) (*AuthResult, error) {
	token, err := s.tokens.GenerateToken(user.ID, string(user.Role))
	if err != nil {
		return nil, fmt.Errorf("generate token: %w", err)
	}
	return &AuthResult{
		User:        user,
		AccessToken: token,
		ExpiresIn:   int64(s.tokens.TTL().Seconds()),
		Redirect:    user.Role.LandingRoute(),
	}, nil
}
