package content

import "encoding/json"

// NavItem is one navigation entry. ShowOnSite is editorial visibility;
// hidden items never leave the service.
type NavItem struct {
	Label        string `json:"label"`
	Link         string `json:"link"`
	OpenInNewTab bool   `json:"openInNewTab,omitempty"`
	ShowOnSite   bool   `json:"showOnSite,omitempty"`
}

type Navigation struct {
	BrandName string    `json:"brandName"`
	BrandLink string    `json:"brandLink"`
	NavItems  []NavItem `json:"navItems"`
}

type Media struct {
	ID       string `json:"id"`
	URL      string `json:"url"`
	Alt      string `json:"alt"`
	Filename string `json:"filename"`
	Width    int    `json:"width,omitempty"`
	Height   int    `json:"height,omitempty"`
}

// Article content is Lexical rich text; it passes through opaque.
type Article struct {
	ID          string          `json:"id"`
	Title       string          `json:"title"`
	Slug        string          `json:"slug"`
	CoverImage  *Media          `json:"coverImage,omitempty"`
	Excerpt     string          `json:"excerpt,omitempty"`
	Content     json.RawMessage `json:"content"`
	PublishedAt string          `json:"publishedAt,omitempty"`
	Status      string          `json:"status"`
	CreatedAt   string          `json:"createdAt"`
	UpdatedAt   string          `json:"updatedAt"`
}

// ArticleList mirrors the CMS pagination envelope.
type ArticleList struct {
	Docs        []Article `json:"docs"`
	TotalDocs   int       `json:"totalDocs"`
	Limit       int       `json:"limit"`
	TotalPages  int       `json:"totalPages"`
	Page        int       `json:"page"`
	HasNextPage bool      `json:"hasNextPage"`
	HasPrevPage bool      `json:"hasPrevPage"`
}

type FAQItem struct {
	Question string          `json:"question"`
	Answer   json.RawMessage `json:"answer"`
}

type FAQPage struct {
	FAQItems []FAQItem `json:"faqItems"`
}

type VideoItem struct {
	Path string `json:"path"`
}

type AboutPage struct {
	Videos  []VideoItem     `json:"videos"`
	Content json.RawMessage `json:"content"`
}
