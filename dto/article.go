package dto

import (
	"time"

	"bias-lens/models"
)

// ArticleDTO exposes the fields API consumers need.
// IDs are hex strings to keep transport simple; the full body is
// omitted in favor of a short snippet.
type ArticleDTO struct {
	ID          string             `json:"id"`
	URL         string             `json:"url"`
	Title       string             `json:"title"`
	Snippet     string             `json:"snippet"`
	Author      string             `json:"author,omitempty"`
	SourceName  string             `json:"source_name"`
	Language    string             `json:"language"`
	PublishedAt time.Time          `json:"published_at"`
	ClusterID   string             `json:"cluster_id,omitempty"`
	BiasStatus  models.BiasStatus  `json:"bias_status"`
	Bias        *models.BiasVector `json:"bias,omitempty"`
}

const snippetRunes = 280

// NewArticleDTO constructs ArticleDTO from models.Article
func NewArticleDTO(a models.Article) ArticleDTO {
	d := ArticleDTO{
		ID:          a.ID.Hex(),
		URL:         a.URL,
		Title:       a.Title,
		Snippet:     snippet(a.Body),
		Author:      a.Author,
		SourceName:  a.SourceName,
		Language:    a.Language,
		PublishedAt: a.PublishedAt,
		BiasStatus:  a.BiasStatus,
		Bias:        a.Bias,
	}
	if !a.ClusterID.IsZero() {
		d.ClusterID = a.ClusterID.Hex()
	}
	return d
}

func snippet(body string) string {
	runes := []rune(body)
	if len(runes) <= snippetRunes {
		return body
	}
	return string(runes[:snippetRunes]) + "…"
}
