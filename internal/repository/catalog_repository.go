package repository

import (
	"context"

	"github.com/spec-kit/media-library-service/internal/contentstore"
	"github.com/spec-kit/media-library-service/internal/domain"
)

// Query strings for the public catalog. Draft documents are filtered
// explicitly so the public surface never leaks unpublished content.
const (
	categoriesQuery = `*[_type == "category" && !(_id in path("drafts.**"))] | order(title asc) {
		_id,
		title,
		slug,
		"count": count(*[(_type == "media" || _type == "textFile") && !(_id in path("drafts.**")) && references(^._id)])
	}`

	mediaListQuery = `*[(_type == "media" || _type == "textFile") && !(_id in path("drafts.**"))] | order(_createdAt desc) {
		_id,
		title,
		description,
		file { asset-> { _id, url, mimeType, originalFilename } },
		categories[]-> { _id, title, slug }
	}`

	studioMediaListQuery = `*[(_type == "media" || _type == "textFile")] | order(_createdAt desc) {
		_id,
		title,
		description,
		file { asset-> { _id, url, mimeType, originalFilename } },
		categories[]-> { _id, title, slug }
	}`

	mediaByIDQuery = `*[_id == $id && (_type == "media" || _type == "textFile")][0] {
		_id,
		title,
		description,
		file { asset-> { _id, url, mimeType, originalFilename } },
		categories[]-> { _id, title, slug }
	}`

	recentMediaQuery = `[
		*[_type == "media" && !(_id in path("drafts.**"))],
		*[_type == "textFile" && !(_id in path("drafts.**"))]
	] | order(_createdAt desc) [0...6] {
		_id,
		title,
		description,
		file { asset-> { _id, url, mimeType } },
		categories[]-> { _id, title, slug }
	}`

	siteSettingsQuery = `*[_type == "siteSettings"][0] {
		title,
		description,
		aboutIntroText,
		aboutImage->{ _id, title, file { asset-> { _id, url, mimeType } } },
		aboutImageAlt,
		aboutMissionHeading,
		aboutMissionText,
		aboutExtraSections[]{ _key, heading, text },
		contactEmail
	}`
)

// CatalogRepository reads the public site content from the store.
type CatalogRepository interface {
	Categories(ctx context.Context) ([]domain.Category, error)
	ListMedia(ctx context.Context) ([]domain.MediaItem, error)
	ListMediaWithDrafts(ctx context.Context) ([]domain.MediaItem, error)
	MediaByID(ctx context.Context, id string) (*domain.MediaItem, error)
	RecentMedia(ctx context.Context) ([]domain.MediaItem, error)
	SiteSettings(ctx context.Context) (*domain.SiteSettings, error)
}

type catalogRepository struct {
	store  *contentstore.Client
	studio *contentstore.Client
}

// NewCatalogRepository builds a catalog reader. The studio client carries
// the draft perspective for the admin listing; the store client serves
// published content only.
func NewCatalogRepository(store, studio *contentstore.Client) CatalogRepository {
	return &catalogRepository{store: store, studio: studio}
}

type categoryDocument struct {
	ID    string `json:"_id"`
	Title string `json:"title"`
	Slug  struct {
		Current string `json:"current"`
	} `json:"slug"`
	Count int `json:"count"`
}

type mediaDocument struct {
	ID          string `json:"_id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	File        struct {
		Asset *struct {
			ID               string `json:"_id"`
			URL              string `json:"url"`
			MimeType         string `json:"mimeType"`
			OriginalFilename string `json:"originalFilename"`
		} `json:"asset"`
	} `json:"file"`
	Categories []categoryDocument `json:"categories"`
}

type siteSettingsDocument struct {
	Title          string         `json:"title"`
	Description    string         `json:"description"`
	AboutIntroText string         `json:"aboutIntroText"`
	AboutImage     *mediaDocument `json:"aboutImage"`
	AboutImageAlt  string         `json:"aboutImageAlt"`
	MissionHeading string         `json:"aboutMissionHeading"`
	MissionText    string         `json:"aboutMissionText"`
	ExtraSections  []struct {
		Key     string `json:"_key"`
		Heading string `json:"heading"`
		Text    string `json:"text"`
	} `json:"aboutExtraSections"`
	ContactEmail string `json:"contactEmail"`
}

func (d categoryDocument) toDomain() domain.Category {
	return domain.Category{ID: d.ID, Title: d.Title, Slug: d.Slug.Current, Count: d.Count}
}

func (d mediaDocument) toDomain() domain.MediaItem {
	item := domain.MediaItem{
		ID:          d.ID,
		Title:       d.Title,
		Description: d.Description,
	}
	if d.File.Asset != nil {
		item.Asset = &domain.FileAsset{
			ID:               d.File.Asset.ID,
			URL:              d.File.Asset.URL,
			MimeType:         d.File.Asset.MimeType,
			OriginalFilename: d.File.Asset.OriginalFilename,
		}
	}
	for _, cat := range d.Categories {
		item.Categories = append(item.Categories, cat.toDomain())
	}
	return item
}

func (r *catalogRepository) Categories(ctx context.Context) ([]domain.Category, error) {
	var docs []categoryDocument
	if err := r.store.Fetch(ctx, categoriesQuery, nil, &docs); err != nil {
		return nil, err
	}
	categories := make([]domain.Category, 0, len(docs))
	for _, doc := range docs {
		categories = append(categories, doc.toDomain())
	}
	return categories, nil
}

func (r *catalogRepository) ListMedia(ctx context.Context) ([]domain.MediaItem, error) {
	return r.fetchMediaList(ctx, r.store, mediaListQuery)
}

func (r *catalogRepository) ListMediaWithDrafts(ctx context.Context) ([]domain.MediaItem, error) {
	return r.fetchMediaList(ctx, r.studio, studioMediaListQuery)
}

func (r *catalogRepository) MediaByID(ctx context.Context, id string) (*domain.MediaItem, error) {
	var doc *mediaDocument
	if err := r.store.Fetch(ctx, mediaByIDQuery, map[string]any{"id": id}, &doc); err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, ErrNotFound
	}
	item := doc.toDomain()
	return &item, nil
}

func (r *catalogRepository) RecentMedia(ctx context.Context) ([]domain.MediaItem, error) {
	return r.fetchMediaList(ctx, r.store, recentMediaQuery)
}

func (r *catalogRepository) SiteSettings(ctx context.Context) (*domain.SiteSettings, error) {
	var doc *siteSettingsDocument
	if err := r.store.Fetch(ctx, siteSettingsQuery, nil, &doc); err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, ErrNotFound
	}

	settings := &domain.SiteSettings{
		Title:          doc.Title,
		Description:    doc.Description,
		AboutIntro:     doc.AboutIntroText,
		AboutImageAlt:  doc.AboutImageAlt,
		MissionHeading: doc.MissionHeading,
		MissionText:    doc.MissionText,
		ContactEmail:   doc.ContactEmail,
	}
	if doc.AboutImage != nil {
		image := doc.AboutImage.toDomain()
		settings.AboutImage = &image
	}
	for _, section := range doc.ExtraSections {
		settings.ExtraSections = append(settings.ExtraSections, domain.SiteSection{
			Key:     section.Key,
			Heading: section.Heading,
			Text:    section.Text,
		})
	}
	return settings, nil
}

func (r *catalogRepository) fetchMediaList(ctx context.Context, client *contentstore.Client, query string) ([]domain.MediaItem, error) {
	var docs []mediaDocument
	if err := client.Fetch(ctx, query, nil, &docs); err != nil {
		return nil, err
	}
	items := make([]domain.MediaItem, 0, len(docs))
	for _, doc := range docs {
		items = append(items, doc.toDomain())
	}
	return items, nil
}
