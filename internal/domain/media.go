package domain

// Category groups media items for browsing.
type Category struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Slug  string `json:"slug"`
	Count int    `json:"count,omitempty"`
}

// FileAsset points at a file hosted by the external asset host.
// The service never serves asset bytes itself.
type FileAsset struct {
	ID               string `json:"id"`
	URL              string `json:"url"`
	MimeType         string `json:"mime_type"`
	OriginalFilename string `json:"original_filename,omitempty"`
}

// MediaItem is a catalog entry: audio, video, image or text file.
type MediaItem struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Asset       *FileAsset `json:"asset,omitempty"`
	Categories  []Category `json:"categories,omitempty"`
}

// SiteSection is an extra copy block on the about page.
type SiteSection struct {
	Key     string `json:"key"`
	Heading string `json:"heading"`
	Text    string `json:"text"`
}

// SiteSettings carries the content-managed site copy.
type SiteSettings struct {
	Title          string        `json:"title"`
	Description    string        `json:"description,omitempty"`
	AboutIntro     string        `json:"about_intro,omitempty"`
	AboutImage     *MediaItem    `json:"about_image,omitempty"`
	AboutImageAlt  string        `json:"about_image_alt,omitempty"`
	MissionHeading string        `json:"mission_heading,omitempty"`
	MissionText    string        `json:"mission_text,omitempty"`
	ExtraSections  []SiteSection `json:"extra_sections,omitempty"`
	ContactEmail   string        `json:"contact_email,omitempty"`
}
