package service_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/media-library-service/internal/auth"
	"github.com/spec-kit/media-library-service/internal/config"
	"github.com/spec-kit/media-library-service/internal/domain"
	"github.com/spec-kit/media-library-service/internal/repository"
	"github.com/spec-kit/media-library-service/internal/service"
	apperrors "github.com/spec-kit/media-library-service/pkg/util/errorutil"
)

// fakeUserRepo is an in-memory UserRepository that counts store calls so
// tests can assert which checks actually reached the store.
type fakeUserRepo struct {
	users       []*domain.UserRecord
	findErr     error
	countErr    error
	createErr   error
	findCalls   int
	countCalls  int
	createCalls int
}

func (f *fakeUserRepo) FindByEmail(_ context.Context, email string) (*domain.UserRecord, error) {
	f.findCalls++
	if f.findErr != nil {
		return nil, f.findErr
	}
	for _, user := range f.users {
		if user.Email == email {
			return user, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeUserRepo) Count(_ context.Context) (int, error) {
	f.countCalls++
	if f.countErr != nil {
		return 0, f.countErr
	}
	return len(f.users), nil
}

func (f *fakeUserRepo) Create(_ context.Context, email, passwordHash, name string, createdAt time.Time) (*domain.UserRecord, error) {
	f.createCalls++
	if f.createErr != nil {
		return nil, f.createErr
	}
	user := &domain.UserRecord{
		ID:           fmt.Sprintf("user-%d", len(f.users)+1),
		Email:        email,
		PasswordHash: passwordHash,
		Name:         name,
		CreatedAt:    createdAt,
	}
	f.users = append(f.users, user)
	return user, nil
}

func (f *fakeUserRepo) addUser(t *testing.T, email, password, name string) *domain.UserRecord {
	t.Helper()
	hash, err := auth.HashPassword(password, 4)
	require.NoError(t, err)
	user := &domain.UserRecord{
		ID:           fmt.Sprintf("user-%d", len(f.users)+1),
		Email:        email,
		PasswordHash: hash,
		Name:         name,
		CreatedAt:    time.Now(),
	}
	f.users = append(f.users, user)
	return user
}

func testConfig() config.Config {
	return config.Config{
		Auth: config.AuthConfig{
			JWTSecret:             "test-secret",
			AccessTokenTTLMinutes: 60,
			BcryptCost:            4,
			AdminEmail:            "admin@x.com",
			AdminPassword:         "admin-pass",
			SignupToken:           "tok",
			MaxUsers:              2,
		},
	}
}

func TestAuthorizeStoredUser(t *testing.T) {
	repo := &fakeUserRepo{}
	stored := repo.addUser(t, "a@x.com", "pw123456", "A")
	svc := service.NewAuthService(testConfig(), repo, nil, zap.NewNop())

	identity := svc.Authorize(context.Background(), "a@x.com", "pw123456")
	require.NotNil(t, identity)
	assert.Equal(t, stored.ID, identity.ID)
	assert.Equal(t, "a@x.com", identity.Email)
	assert.Equal(t, "A", identity.Name)

	assert.Nil(t, svc.Authorize(context.Background(), "a@x.com", "wrong-password"))
}

func TestAuthorizeEmptyCredentialsSkipsStore(t *testing.T) {
	repo := &fakeUserRepo{}
	svc := service.NewAuthService(testConfig(), repo, nil, zap.NewNop())

	assert.Nil(t, svc.Authorize(context.Background(), "", "pw123456"))
	assert.Nil(t, svc.Authorize(context.Background(), "a@x.com", ""))
	assert.Zero(t, repo.findCalls)
}

func TestAuthorizeAdminFallback(t *testing.T) {
	repo := &fakeUserRepo{}
	svc := service.NewAuthService(testConfig(), repo, nil, zap.NewNop())

	identity := svc.Authorize(context.Background(), "admin@x.com", "admin-pass")
	require.NotNil(t, identity)
	assert.Equal(t, domain.AdminID, identity.ID)
	assert.Equal(t, "admin@x.com", identity.Email)
	assert.Equal(t, domain.AdminName, identity.Name)

	assert.Nil(t, svc.Authorize(context.Background(), "admin@x.com", "wrong"))
	assert.Nil(t, svc.Authorize(context.Background(), "other@x.com", "admin-pass"))
}

func TestAuthorizeAdminFallbackWithStoreDown(t *testing.T) {
	repo := &fakeUserRepo{findErr: errors.New("store unreachable")}
	svc := service.NewAuthService(testConfig(), repo, nil, zap.NewNop())

	identity := svc.Authorize(context.Background(), "admin@x.com", "admin-pass")
	require.NotNil(t, identity)
	assert.Equal(t, domain.AdminID, identity.ID)
}

func TestAuthorizeStoreErrorFailsClosed(t *testing.T) {
	repo := &fakeUserRepo{findErr: errors.New("store unreachable")}
	svc := service.NewAuthService(testConfig(), repo, nil, zap.NewNop())

	assert.Nil(t, svc.Authorize(context.Background(), "a@x.com", "pw123456"))
}

func TestAuthorizeStoredUserTakesPriorityOverAdmin(t *testing.T) {
	repo := &fakeUserRepo{}
	stored := repo.addUser(t, "admin@x.com", "record-pass", "Record Admin")
	svc := service.NewAuthService(testConfig(), repo, nil, zap.NewNop())

	identity := svc.Authorize(context.Background(), "admin@x.com", "record-pass")
	require.NotNil(t, identity)
	assert.Equal(t, stored.ID, identity.ID)
	assert.Equal(t, "Record Admin", identity.Name)
}

func TestAuthorizeEmailIsCaseSensitive(t *testing.T) {
	repo := &fakeUserRepo{}
	repo.addUser(t, "a@x.com", "pw123456", "A")
	cfg := testConfig()
	cfg.Auth.AdminEmail = ""
	cfg.Auth.AdminPassword = ""
	svc := service.NewAuthService(cfg, repo, nil, zap.NewNop())

	assert.Nil(t, svc.Authorize(context.Background(), "A@X.COM", "pw123456"))
}

func TestLoginIssuesVerifiableToken(t *testing.T) {
	repo := &fakeUserRepo{}
	stored := repo.addUser(t, "a@x.com", "pw123456", "A")
	svc := service.NewAuthService(testConfig(), repo, nil, zap.NewNop())

	identity, token, exp, err := svc.Login(context.Background(), "a@x.com", "pw123456")
	require.NoError(t, err)
	require.NotNil(t, identity)
	assert.True(t, exp.After(time.Now()))

	claims, err := svc.TokenManager().ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, stored.ID, claims.ID)
	assert.Equal(t, "a@x.com", claims.Email)
}

func TestLoginFailureIsGeneric(t *testing.T) {
	repo := &fakeUserRepo{}
	repo.addUser(t, "a@x.com", "pw123456", "A")
	svc := service.NewAuthService(testConfig(), repo, nil, zap.NewNop())

	cases := []struct {
		name     string
		email    string
		password string
	}{
		{name: "unknown email", email: "nobody@x.com", password: "pw123456"},
		{name: "wrong password", email: "a@x.com", password: "wrong"},
	}

	for _, tt := range cases {
		t.Run(tt.name, func(t *testing.T) {
			_, _, _, err := svc.Login(context.Background(), tt.email, tt.password)
			require.Error(t, err)
			domainErr := apperrors.ToDomainError(err)
			assert.Equal(t, "UNAUTHORIZED", domainErr.Code)
			assert.Equal(t, "invalid credentials", domainErr.Message)
		})
	}
}
