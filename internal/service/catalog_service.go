package service

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/media-library-service/internal/domain"
	"github.com/spec-kit/media-library-service/internal/persistence"
	"github.com/spec-kit/media-library-service/internal/repository"
	apperrors "github.com/spec-kit/media-library-service/pkg/util/errorutil"
)

// CatalogService serves the read-side site content, caching published
// results in Redis. Cache failures fall through to the store.
type CatalogService struct {
	catalog repository.CatalogRepository
	cache   *persistence.Redis
	ttl     time.Duration
	logger  *zap.Logger
}

// NewCatalogService builds the service.
func NewCatalogService(catalog repository.CatalogRepository, cache *persistence.Redis, ttl time.Duration, logger *zap.Logger) *CatalogService {
	return &CatalogService{catalog: catalog, cache: cache, ttl: ttl, logger: logger}
}

// Categories lists published categories with media counts.
func (s *CatalogService) Categories(ctx context.Context) ([]domain.Category, error) {
	var categories []domain.Category
	if s.getCached(ctx, "catalog:categories", &categories) {
		return categories, nil
	}

	categories, err := s.catalog.Categories(ctx)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	s.setCached(ctx, "catalog:categories", categories)
	return categories, nil
}

// ListMedia returns all published media, newest first.
func (s *CatalogService) ListMedia(ctx context.Context) ([]domain.MediaItem, error) {
	var items []domain.MediaItem
	if s.getCached(ctx, "catalog:media", &items) {
		return items, nil
	}

	items, err := s.catalog.ListMedia(ctx)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	s.setCached(ctx, "catalog:media", items)
	return items, nil
}

// ListMediaWithDrafts returns the draft-aware listing for the studio.
// Draft content is never cached.
func (s *CatalogService) ListMediaWithDrafts(ctx context.Context) ([]domain.MediaItem, error) {
	items, err := s.catalog.ListMediaWithDrafts(ctx)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return items, nil
}

// MediaByID returns a single published media item.
func (s *CatalogService) MediaByID(ctx context.Context, id string) (*domain.MediaItem, error) {
	key := "catalog:media:" + id
	var item domain.MediaItem
	if s.getCached(ctx, key, &item) {
		return &item, nil
	}

	found, err := s.catalog.MediaByID(ctx, id)
	if err == repository.ErrNotFound {
		return nil, apperrors.NewNotFound("media item")
	}
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	s.setCached(ctx, key, found)
	return found, nil
}

// RecentMedia returns the newest published items for the home page.
func (s *CatalogService) RecentMedia(ctx context.Context) ([]domain.MediaItem, error) {
	var items []domain.MediaItem
	if s.getCached(ctx, "catalog:media:recent", &items) {
		return items, nil
	}

	items, err := s.catalog.RecentMedia(ctx)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	s.setCached(ctx, "catalog:media:recent", items)
	return items, nil
}

// SiteSettings returns the content-managed site copy.
func (s *CatalogService) SiteSettings(ctx context.Context) (*domain.SiteSettings, error) {
	var settings domain.SiteSettings
	if s.getCached(ctx, "catalog:settings", &settings) {
		return &settings, nil
	}

	found, err := s.catalog.SiteSettings(ctx)
	if err == repository.ErrNotFound {
		return nil, apperrors.NewNotFound("site settings")
	}
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	s.setCached(ctx, "catalog:settings", found)
	return found, nil
}

func (s *CatalogService) getCached(ctx context.Context, key string, out any) bool {
	if s.cache == nil || s.cache.Client == nil {
		return false
	}
	raw, err := s.cache.Client.Get(ctx, key).Bytes()
	if err != nil {
		return false
	}
	if err := json.Unmarshal(raw, out); err != nil {
		s.logger.Warn("discarding malformed cache entry", zap.String("key", key), zap.Error(err))
		return false
	}
	return true
}

func (s *CatalogService) setCached(ctx context.Context, key string, val any) {
	if s.cache == nil || s.cache.Client == nil {
		return
	}
	raw, err := json.Marshal(val)
	if err != nil {
		return
	}
	if err := s.cache.Client.Set(ctx, key, raw, s.ttl).Err(); err != nil {
		s.logger.Warn("cache write failed", zap.String("key", key), zap.Error(err))
	}
}
