package dto

import (
	"time"

	"bias-lens/models"
)

// ClusterDTO is the API shape of a story cluster together with its
// member articles and the latest comparison report.
type ClusterDTO struct {
	ID        string                   `json:"id"`
	CreatedAt time.Time                `json:"created_at"`
	Threshold float64                  `json:"threshold"`
	Members   []ArticleDTO             `json:"members"`
	Report    *models.ComparisonReport `json:"report,omitempty"`
}

// ClusterSummaryDTO is the list-view shape: member count instead of
// the full member payload.
type ClusterSummaryDTO struct {
	ID          string    `json:"id"`
	CreatedAt   time.Time `json:"created_at"`
	MemberCount int       `json:"member_count"`
	HasReport   bool      `json:"has_report"`
}

// NewClusterDTO constructs ClusterDTO from a cluster and its resolved members
func NewClusterDTO(c models.StoryCluster, members []*models.Article) ClusterDTO {
	d := ClusterDTO{
		ID:        c.ID.Hex(),
		CreatedAt: c.CreatedAt,
		Threshold: c.Threshold,
		Members:   make([]ArticleDTO, 0, len(members)),
		Report:    c.Report,
	}
	for _, m := range members {
		if m == nil {
			continue
		}
		d.Members = append(d.Members, NewArticleDTO(*m))
	}
	return d
}

// NewClusterSummaryDTO constructs ClusterSummaryDTO from models.StoryCluster
func NewClusterSummaryDTO(c models.StoryCluster) ClusterSummaryDTO {
	return ClusterSummaryDTO{
		ID:          c.ID.Hex(),
		CreatedAt:   c.CreatedAt,
		MemberCount: len(c.MemberIDs),
		HasReport:   c.Report != nil,
	}
}
