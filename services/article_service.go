package services

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"bias-lens/dto"
	"bias-lens/repositories"
)

// ArticleService encapsulates read-side logic for articles and DTO mapping
type ArticleService struct {
	repo *repositories.ArticleRepository
}

func NewArticleService(repo *repositories.ArticleRepository) *ArticleService {
	return &ArticleService{repo: repo}
}

// GetByID loads an article by its ObjectID hex and returns a DTO
func (s *ArticleService) GetByID(ctx context.Context, hexID string) (*dto.ArticleDTO, error) {
	id, err := primitive.ObjectIDFromHex(hexID)
	if err != nil {
		return nil, err
	}
	a, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	d := dto.NewArticleDTO(*a)
	return &d, nil
}
