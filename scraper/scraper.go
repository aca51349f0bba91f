package scraper

import (
	"context"

	"bias-lens/config"
	"bias-lens/models"
)

// Scraper pulls fresh article drafts from one configured news source.
// One scraper per source, swappable; anti-bot handling and site quirks
// live behind this interface, never in the core.
type Scraper interface {
	Fetch(ctx context.Context, limit int) ([]models.ArticleDraft, error)
}

// ForSource picks the scraper implementation for the source's type.
func ForSource(src config.NewsSource) Scraper {
	switch src.SourceType {
	case "html":
		return &ListingScraper{Source: src}
	case "rendered":
		return &ListingScraper{Source: src, Rendered: true}
	default:
		return &RSSScraper{Source: src}
	}
}
