package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// AILog stores LLM usage logs for bias-scoring calls (system monitoring purpose)
// Collection: ai_logs
type AILog struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ModelName    string             `bson:"model_name" json:"model_name"`
	ArticleURL   string             `bson:"article_url" json:"article_url"`
	InputTokens  int64              `bson:"input_tokens" json:"input_tokens"`
	OutputTokens int64              `bson:"output_tokens" json:"output_tokens"`
	TotalTokens  int64              `bson:"total_tokens" json:"total_tokens"`
	DurationMs   int64              `bson:"duration_ms" json:"duration_ms"`
	ErrorMessage *string            `bson:"error_message,omitempty" json:"error_message,omitempty"`
	RequestedAt  time.Time          `bson:"requested_at" json:"requested_at"`
	CompletedAt  time.Time          `bson:"completed_at" json:"completed_at"`
}
