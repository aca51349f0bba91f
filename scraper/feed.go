package scraper

import (
	"context"
	"time"

	"github.com/mmcdole/gofeed"

	"bias-lens/config"
	"bias-lens/models"
)

// RSSScraper collects articles from a source's RSS feed: feed items
// give url/title/date, the article body comes from fetching each page.
type RSSScraper struct {
	Source config.NewsSource
}

func (s *RSSScraper) Fetch(ctx context.Context, limit int) ([]models.ArticleDraft, error) {
	fp := gofeed.NewParser()
	fp.Client = httpClient
	fp.UserAgent = userAgent

	feed, err := fp.ParseURLWithContext(s.Source.RSSURL, ctx)
	if err != nil {
		return nil, err
	}

	items := feed.Items
	if limit > 0 && len(items) > limit {
		items = items[:limit]
	}

	var drafts []models.ArticleDraft
	for _, item := range items {
		if ctx.Err() != nil {
			return drafts, ctx.Err()
		}
		if item.Link == "" {
			continue
		}

		var published time.Time
		if item.PublishedParsed != nil {
			published = *item.PublishedParsed
		} else if item.UpdatedParsed != nil {
			published = *item.UpdatedParsed
		}

		draft := models.ArticleDraft{
			URL:         item.Link,
			Title:       item.Title,
			SourceName:  s.Source.Name,
			PublishedAt: published,
		}
		if len(item.Authors) > 0 {
			draft.Author = item.Authors[0].Name
		}

		htmlStr, err := FetchHTML(item.Link)
		if err != nil {
			config.Logger.Warnf("fetch article page %s: %v", item.Link, err)
			continue
		}
		extracted, err := ExtractArticle(htmlStr, item.Link)
		if err != nil {
			config.Logger.Warnf("extract article %s: %v", item.Link, err)
			continue
		}
		draft.Body = extracted.Text
		if draft.Title == "" {
			draft.Title = extracted.Title
		}
		if draft.Author == "" {
			draft.Author = extracted.Author
		}
		if draft.PublishedAt.IsZero() {
			draft.PublishedAt = extracted.PublishedAt
		}
		draft.Language = LanguageFor(s.Source, draft.Body)

		drafts = append(drafts, draft)
	}
	return drafts, nil
}
