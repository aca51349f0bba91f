package models

import (
	"math"
	"time"
)

// BiasVector holds the per-article bias scores.
// Sentiment and PoliticalLean are in [-1,1]; EmotionalLanguage,
// FactualVsOpinion and OverallBias are in [0,1]. OverallBias is derived
// in the core (DeriveOverall), never taken from the scorer.
type BiasVector struct {
	Sentiment         float64   `bson:"sentiment" json:"sentiment"`
	PoliticalLean     float64   `bson:"political_lean" json:"political_lean"`
	EmotionalLanguage float64   `bson:"emotional_language" json:"emotional_language"`
	FactualVsOpinion  float64   `bson:"factual_vs_opinion" json:"factual_vs_opinion"`
	OverallBias       float64   `bson:"overall_bias" json:"overall_bias"`
	ModelName         string    `bson:"model_name" json:"model_name"`
	ScoredAt          time.Time `bson:"scored_at" json:"scored_at"`
}

// Weights used when the configured weights are all zero.
const defaultBiasWeight = 0.25

// BiasWeights mirrors config.BiasWeights without importing config,
// so the derivation stays testable in isolation.
type BiasWeights struct {
	Sentiment float64
	Emotional float64
	Factual   float64
	Political float64
}

// Normalized returns weights that sum to 1, falling back to equal
// weighting when everything is zero or negative.
func (w BiasWeights) Normalized() BiasWeights {
	s := w.Sentiment + w.Emotional + w.Factual + w.Political
	if s <= 0 {
		return BiasWeights{defaultBiasWeight, defaultBiasWeight, defaultBiasWeight, defaultBiasWeight}
	}
	return BiasWeights{
		Sentiment: w.Sentiment / s,
		Emotional: w.Emotional / s,
		Factual:   w.Factual / s,
		Political: w.Political / s,
	}
}

// DeriveOverall computes the overall bias score from the four primitive
// scores. Deterministic: same vector and weights always yield the same
// result. Clamped to [0,1].
func DeriveOverall(v BiasVector, weights BiasWeights) float64 {
	w := weights.Normalized()
	overall := w.Sentiment*math.Abs(v.Sentiment) +
		w.Emotional*v.EmotionalLanguage +
		w.Factual*(1-v.FactualVsOpinion) +
		w.Political*math.Abs(v.PoliticalLean)
	return Clamp01(overall)
}

// Clamp01 bounds x to [0,1].
func Clamp01(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}
