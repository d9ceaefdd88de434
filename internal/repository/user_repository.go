package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/spec-kit/media-library-service/internal/contentstore"
	"github.com/spec-kit/media-library-service/internal/domain"
)

// ErrNotFound signals a point lookup that matched no document.
var ErrNotFound = errors.New("record not found")

const (
	userByEmailQuery = `*[_type == "user" && email == $email][0]{_id, email, passwordHash, name, createdAt}`
	userCountQuery   = `count(*[_type == "user"])`
)

// UserRepository defines persistence access for user records.
type UserRepository interface {
	FindByEmail(ctx context.Context, email string) (*domain.UserRecord, error)
	Count(ctx context.Context) (int, error)
	Create(ctx context.Context, email, passwordHash, name string, createdAt time.Time) (*domain.UserRecord, error)
}

type userRepository struct {
	store *contentstore.Client
}

// NewUserRepository returns a content-store backed implementation. The
// client must use the published perspective so drafts stay invisible to
// lookups and counts.
func NewUserRepository(store *contentstore.Client) UserRepository {
	return &userRepository{store: store}
}

// userDocument is the raw store shape, validated before it becomes a
// domain record.
type userDocument struct {
	ID           string `json:"_id"`
	Email        string `json:"email"`
	PasswordHash string `json:"passwordHash"`
	Name         string `json:"name"`
	CreatedAt    string `json:"createdAt"`
}

func (d *userDocument) toDomain() (*domain.UserRecord, error) {
	if d.ID == "" || d.Email == "" || d.PasswordHash == "" || d.Name == "" {
		return nil, fmt.Errorf("user document %q is missing required fields", d.ID)
	}
	record := &domain.UserRecord{
		ID:           d.ID,
		Email:        d.Email,
		PasswordHash: d.PasswordHash,
		Name:         d.Name,
	}
	if d.CreatedAt != "" {
		createdAt, err := time.Parse(time.RFC3339, d.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("user document %q has malformed createdAt: %w", d.ID, err)
		}
		record.CreatedAt = createdAt
	}
	return record, nil
}

func (r *userRepository) FindByEmail(ctx context.Context, email string) (*domain.UserRecord, error) {
	var doc *userDocument
	if err := r.store.Fetch(ctx, userByEmailQuery, map[string]any{"email": email}, &doc); err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, ErrNotFound
	}
	return doc.toDomain()
}

func (r *userRepository) Count(ctx context.Context) (int, error) {
	return r.store.Count(ctx, userCountQuery, nil)
}

func (r *userRepository) Create(ctx context.Context, email, passwordHash, name string, createdAt time.Time) (*domain.UserRecord, error) {
	created, err := r.store.Create(ctx, map[string]any{
		"_type":        "user",
		"email":        email,
		"passwordHash": passwordHash,
		"name":         name,
		"createdAt":    createdAt.UTC().Format(time.RFC3339),
	})
	if err != nil {
		return nil, err
	}

	var doc userDocument
	if err := json.Unmarshal(created, &doc); err != nil {
		return nil, fmt.Errorf("decode created user: %w", err)
	}
	return doc.toDomain()
}
