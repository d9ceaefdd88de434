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

// SignupService gates self-service account creation behind a shared
// secret token and a global user cap.
//
// The capacity and duplicate checks are separate store calls from the
// create; the store offers no conditional insert, so two concurrent
// signups can both pass a check before either write lands. Sequential
// requests observe the cap exactly.
type SignupService struct {
	users       repository.UserRepository
	dispatcher  events.Dispatcher
	logger      *zap.Logger
	signupToken string
	maxUsers    int
	bcryptCost  int
}

// Availability reports whether signup is still open.
type Availability struct {
	Available    bool `json:"available"`
	CurrentUsers int  `json:"currentUsers"`
	MaxUsers     int  `json:"maxUsers"`
}

// NewSignupService builds the service.
func NewSignupService(cfg config.Config, users repository.UserRepository, dispatcher events.Dispatcher, logger *zap.Logger) *SignupService {
	return &SignupService{
		users:       users,
		dispatcher:  dispatcher,
		logger:      logger,
		signupToken: cfg.Auth.SignupToken,
		maxUsers:    cfg.Auth.MaxUsers,
		bcryptCost:  cfg.Auth.BcryptCost,
	}
}

// Signup runs the full gate: field validation, token check, capacity
// check, duplicate check, then hash and create. The returned identity
// never carries the password hash.
func (s *SignupService) Signup(ctx context.Context, token, email, password, name string) (*domain.Identity, error) {
	if email == "" || password == "" || name == "" {
		return nil, apperrors.NewValidationError("email, password, and name are required")
	}

	if !s.tokenMatches(token) {
		return nil, apperrors.NewForbidden("invalid or missing signup token")
	}

	count, err := s.users.Count(ctx)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	if count >= s.maxUsers {
		s.publishBlocked(ctx, "capacity")
		return nil, apperrors.NewCapacityReached("maximum number of users reached, registration is closed")
	}

	_, err = s.users.FindByEmail(ctx, email)
	if err == nil {
		return nil, apperrors.NewConflict("an account with this email already exists")
	}
	if err != repository.ErrNotFound {
		return nil, apperrors.NewInternalError(err)
	}

	hash, err := auth.HashPassword(password, s.bcryptCost)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}

	user, err := s.users.Create(ctx, email, hash, name, time.Now())
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}

	if s.dispatcher != nil {
		_ = s.dispatcher.Publish(ctx, events.Event{
			ID:        uuid.NewString(),
			Type:      events.EventUserCreated,
			SubjectID: user.ID,
			Timestamp: time.Now(),
			Payload:   events.UserCreatedPayload{Email: user.Email, Name: user.Name},
		})
	}

	return &domain.Identity{ID: user.ID, Email: user.Email, Name: user.Name}, nil
}

// Availability performs the token and capacity checks without mutating
// state, so signup links can be validated before rendering the form.
func (s *SignupService) Availability(ctx context.Context, token string) (*Availability, error) {
	if !s.tokenMatches(token) {
		return nil, apperrors.NewForbidden("invalid token")
	}

	count, err := s.users.Count(ctx)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}

	return &Availability{
		Available:    count < s.maxUsers,
		CurrentUsers: count,
		MaxUsers:     s.maxUsers,
	}, nil
}

func (s *SignupService) tokenMatches(token string) bool {
	if s.signupToken == "" || token == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(token), []byte(s.signupToken)) == 1
}

func (s *SignupService) publishBlocked(ctx context.Context, reason string) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.Publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      events.EventSignupBlocked,
		Timestamp: time.Now(),
		Payload:   events.SignupBlockedPayload{Reason: reason},
	})
}
