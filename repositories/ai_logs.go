package repositories

import (
	"context"

	"go.mongodb.org/mongo-driver/mongo"

	"bias-lens/models"
)

type AILogRepository struct {
	col *mongo.Collection
}

func NewAILogRepository(db *mongo.Database) *AILogRepository {
	return &AILogRepository{col: db.Collection("ai_logs")}
}

// Insert stores one scorer-call audit record.
func (r *AILogRepository) Insert(ctx context.Context, l *models.AILog) error {
	_, err := r.col.InsertOne(ctx, l)
	return err
}
