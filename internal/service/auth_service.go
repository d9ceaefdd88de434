package service

import (
	"context"
	"crypto/subtle"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/media-library-service/internal/auth"
	"github.com/spec-kit/media-library-service/internal/config"
	"github.com/spec-kit/media-library-service/internal/domain"
	"github.com/spec-kit/media-library-service/internal/events"
	"github.com/spec-kit/media-library-service/internal/repository"
	apperrors "github.com/spec-kit/media-library-service/pkg/util/errorutil"
)

// AuthService validates credentials and issues session tokens.
//
// Authority is two-tier: persisted user records take priority, then a
// single environment-configured admin identity kept for bootstrap before
// any record exists. The fallback makes no store call, so it stays
// usable when the store is unreachable.
type AuthService struct {
	users         repository.UserRepository
	tokenMgr      *auth.TokenManager
	dispatcher    events.Dispatcher
	logger        *zap.Logger
	adminEmail    string
	adminPassword string
}

// NewAuthService builds the service.
func NewAuthService(cfg config.Config, users repository.UserRepository, dispatcher events.Dispatcher, logger *zap.Logger) *AuthService {
	return &AuthService{
		users:         users,
		tokenMgr:      auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTLMinutes),
		dispatcher:    dispatcher,
		logger:        logger,
		adminEmail:    cfg.Auth.AdminEmail,
		adminPassword: cfg.Auth.AdminPassword,
	}
}

// TokenManager exposes the session token manager for middleware wiring.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}

// Authorize checks credentials and returns the matched identity, or nil.
// Store and hash failures are folded into the nil outcome; the caller
// never learns which check failed.
func (s *AuthService) Authorize(ctx context.Context, email, password string) *domain.Identity {
	if email == "" || password == "" {
		return nil
	}

	user, err := s.users.FindByEmail(ctx, email)
	switch {
	case err == nil:
		if auth.ComparePassword(user.PasswordHash, password) == nil {
			return &domain.Identity{ID: user.ID, Email: user.Email, Name: user.Name}
		}
	case err != repository.ErrNotFound:
		s.logger.Warn("user lookup failed", zap.Error(err))
	}

	if s.matchesAdmin(email, password) {
		return &domain.Identity{ID: domain.AdminID, Email: email, Name: domain.AdminName}
	}
	return nil
}

// Login authorizes the credentials and mints a session token.
func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.Identity, string, time.Time, error) {
	identity := s.Authorize(ctx, email, password)
	if identity == nil {
		return nil, "", time.Time{}, apperrors.NewUnauthorized("invalid credentials")
	}

	token, exp, err := s.tokenMgr.GenerateToken(identity)
	if err != nil {
		return nil, "", time.Time{}, apperrors.NewInternalError(err)
	}

	if s.dispatcher != nil {
		_ = s.dispatcher.Publish(ctx, events.Event{
			ID:        uuid.NewString(),
			Type:      events.EventUserLoggedIn,
			SubjectID: identity.ID,
			Timestamp: time.Now(),
		})
	}
	return identity, token, exp, nil
}

func (s *AuthService) matchesAdmin(email, password string) bool {
	if s.adminEmail == "" || s.adminPassword == "" {
		return false
	}
	emailMatch := subtle.ConstantTimeCompare([]byte(email), []byte(s.adminEmail)) == 1
	passwordMatch := subtle.ConstantTimeCompare([]byte(password), []byte(s.adminPassword)) == 1
	return emailMatch && passwordMatch
}
