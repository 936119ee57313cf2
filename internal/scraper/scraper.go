package scraper

import "context"

// PageMetadata is what a merchant product page says about itself.
type PageMetadata struct {
	Title       string
	Description string
	ImageURL    string
}

// Scraper reads metadata from a product page.
type Scraper interface {
	// ScrapePage loads url and extracts its title, description and preview
	// image. Missing tags come back empty; only load failures are errors.
	ScrapePage(ctx context.Context, url string) (PageMetadata, error)
}
