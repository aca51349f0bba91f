package services

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"bias-lens/compare"
	"bias-lens/dto"
	"bias-lens/repositories"
)

// ClusterService serves story clusters with their members and comparison
// reports. Reports are persisted by the ingest pipeline; a read can ask
// for a fresh one when members changed since the last recompute.
type ClusterService struct {
	repo       *repositories.ClusterRepository
	comparator *compare.Comparator
}

func NewClusterService(repo *repositories.ClusterRepository, comparator *compare.Comparator) *ClusterService {
	return &ClusterService{repo: repo, comparator: comparator}
}

// GetByID loads a cluster by hex id. When refresh is true the comparison
// report is recomputed from the current members and persisted.
func (s *ClusterService) GetByID(ctx context.Context, hexID string, refresh bool) (*dto.ClusterDTO, error) {
	id, err := primitive.ObjectIDFromHex(hexID)
	if err != nil {
		return nil, err
	}
	c, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	members, err := s.repo.Members(ctx, id)
	if err != nil {
		return nil, err
	}
	if refresh || c.Report == nil {
		report := s.comparator.Compare(c, members)
		if err := s.repo.SaveReport(ctx, id, report); err != nil {
			return nil, err
		}
		c.Report = report
	}
	d := dto.NewClusterDTO(*c, members)
	return &d, nil
}

type ListClustersInput struct {
	Page     int
	PageSize int
}

func (s *ClusterService) List(ctx context.Context, in ListClustersInput) ([]dto.ClusterSummaryDTO, error) {
	items, err := s.repo.List(ctx, in.Page, in.PageSize)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ClusterSummaryDTO, 0, len(items))
	for _, c := range items {
		out = append(out, dto.NewClusterSummaryDTO(c))
	}
	return out, nil
}
