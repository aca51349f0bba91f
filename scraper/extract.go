package scraper

import (
	"crypto/tls"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/advancedlogic/GoOse/pkg/goose"
	"github.com/go-shiori/go-readability"
	"github.com/markusmobius/go-trafilatura"
	"golang.org/x/net/html"
)

const userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/118.0.0.0 Safari/537.36"

var httpClient = &http.Client{
	Timeout: 30 * time.Second,
	Transport: &http.Transport{
		// some regional sites ship broken certificate chains
		TLSClientConfig: &tls.Config{InsecureSkipVerify: true},
	},
}

// FetchHTML downloads the raw HTML of a page.
func FetchHTML(url string) (string, error) {
	req, err := http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("fetch %s: status %d", url, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return "", err
	}
	return string(body), nil
}

// Extracted is the article content pulled out of a page.
type Extracted struct {
	Title       string
	Author      string
	Text        string
	PublishedAt time.Time
}

// ExtractArticle pulls the main article content from raw HTML.
// readability is the main extractor; trafilatura and goose are the
// fallbacks for layouts readability mangles.
func ExtractArticle(htmlStr, pageURL string) (*Extracted, error) {
	if out, err := extractWithReadability(htmlStr); err == nil && wordCount(out.Text) >= 40 {
		fillMeta(out, htmlStr)
		return out, nil
	}
	if out, err := extractWithTrafilatura(htmlStr); err == nil && wordCount(out.Text) >= 40 {
		return out, nil
	}
	return extractWithGoose(htmlStr, pageURL)
}

func extractWithReadability(htmlStr string) (*Extracted, error) {
	doc, err := html.Parse(strings.NewReader(htmlStr))
	if err != nil {
		return nil, err
	}

	article, err := readability.FromDocument(doc, nil)
	if err != nil {
		return nil, err
	}
	return &Extracted{
		Title:  article.Title,
		Author: article.Byline,
		Text:   article.TextContent,
	}, nil
}

func extractWithTrafilatura(htmlStr string) (*Extracted, error) {
	opts := trafilatura.Options{}

	article, err := trafilatura.Extract(strings.NewReader(htmlStr), opts)
	if err != nil {
		return nil, err
	}
	return &Extracted{
		Title:       article.Metadata.Title,
		Author:      article.Metadata.Author,
		Text:        article.ContentText,
		PublishedAt: article.Metadata.Date,
	}, nil
}

func extractWithGoose(htmlStr, pageURL string) (*Extracted, error) {
	g := goose.New()
	article, err := g.ExtractFromRawHTML(htmlStr, pageURL)
	if err != nil {
		return nil, err
	}
	return &Extracted{
		Title: article.Title,
		Text:  article.CleanedText,
	}, nil
}

// fillMeta backfills the publication date from trafilatura's metadata
// when the main extractor found the text but no date.
func fillMeta(out *Extracted, htmlStr string) {
	if !out.PublishedAt.IsZero() {
		return
	}
	meta, err := extractWithTrafilatura(htmlStr)
	if err == nil {
		out.PublishedAt = meta.PublishedAt
	}
}

func wordCount(s string) int {
	return len(strings.Fields(s))
}
