package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/media-library-service/internal/service"
	apperrors "github.com/spec-kit/media-library-service/pkg/util/errorutil"
)

// CatalogHandler serves the public catalog and the studio media listing.
type CatalogHandler struct {
	catalog *service.CatalogService
}

// NewCatalogHandler constructs handler.
func NewCatalogHandler(catalogService *service.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalog: catalogService}
}

// Categories handles GET /catalog/categories.
func (h *CatalogHandler) Categories(c *fiber.Ctx) error {
	categories, err := h.catalog.Categories(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": categories})
}

// ListMedia handles GET /catalog/media.
func (h *CatalogHandler) ListMedia(c *fiber.Ctx) error {
	items, err := h.catalog.ListMedia(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": items})
}

// RecentMedia handles GET /catalog/media/recent.
func (h *CatalogHandler) RecentMedia(c *fiber.Ctx) error {
	items, err := h.catalog.RecentMedia(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": items})
}

// MediaByID handles GET /catalog/media/:id.
func (h *CatalogHandler) MediaByID(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return apperrors.NewValidationError("media id required")
	}
	item, err := h.catalog.MediaByID(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": item})
}

// SiteSettings handles GET /catalog/settings.
func (h *CatalogHandler) SiteSettings(c *fiber.Ctx) error {
	settings, err := h.catalog.SiteSettings(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": settings})
}

// StudioMedia handles GET /studio/media, the draft-aware admin listing.
func (h *CatalogHandler) StudioMedia(c *fiber.Ctx) error {
	items, err := h.catalog.ListMediaWithDrafts(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": items})
}
