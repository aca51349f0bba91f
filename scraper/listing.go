package scraper

import (
	"context"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"bias-lens/config"
	"bias-lens/models"
	"bias-lens/renderer"
)

// ListingScraper collects articles from a source's front page for sites
// without a usable feed. With Rendered set, pages are fetched through a
// headless browser for client-rendered sites.
type ListingScraper struct {
	Source   config.NewsSource
	Rendered bool
}

func (s *ListingScraper) Fetch(ctx context.Context, limit int) ([]models.ArticleDraft, error) {
	listing, err := s.fetchPage(s.Source.URL)
	if err != nil {
		return nil, err
	}

	links, err := articleLinks(listing, s.Source.URL)
	if err != nil {
		return nil, err
	}
	if limit > 0 && len(links) > limit {
		links = links[:limit]
	}

	var drafts []models.ArticleDraft
	for _, link := range links {
		if ctx.Err() != nil {
			return drafts, ctx.Err()
		}

		htmlStr, err := s.fetchPage(link)
		if err != nil {
			config.Logger.Warnf("fetch article page %s: %v", link, err)
			continue
		}
		extracted, err := ExtractArticle(htmlStr, link)
		if err != nil {
			config.Logger.Warnf("extract article %s: %v", link, err)
			continue
		}

		draft := models.ArticleDraft{
			URL:         link,
			Title:       extracted.Title,
			Body:        extracted.Text,
			Author:      extracted.Author,
			SourceName:  s.Source.Name,
			PublishedAt: extracted.PublishedAt,
		}
		draft.Language = LanguageFor(s.Source, draft.Body)
		drafts = append(drafts, draft)
	}
	return drafts, nil
}

func (s *ListingScraper) fetchPage(pageURL string) (string, error) {
	if s.Rendered {
		return renderer.RenderHTML(pageURL)
	}
	return FetchHTML(pageURL)
}

// articleLinks pulls candidate article urls from a listing page:
// same-host links sitting under headline elements.
func articleLinks(listingHTML, baseURL string) ([]string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(listingHTML))
	if err != nil {
		return nil, err
	}
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, err
	}

	seen := map[string]bool{}
	var links []string
	doc.Find("article a[href], h1 a[href], h2 a[href], h3 a[href]").Each(func(_ int, sel *goquery.Selection) {
		href, ok := sel.Attr("href")
		if !ok {
			return
		}
		ref, err := url.Parse(strings.TrimSpace(href))
		if err != nil {
			return
		}
		abs := base.ResolveReference(ref)
		if abs.Host != base.Host || abs.Scheme == "" {
			return
		}
		abs.Fragment = ""
		u := abs.String()
		if u == baseURL || seen[u] {
			return
		}
		seen[u] = true
		links = append(links, u)
	})
	return links, nil
}
