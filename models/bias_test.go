package models_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"bias-lens/models"
)

func TestDeriveOverallEqualWeights(t *testing.T) {
	v := models.BiasVector{
		Sentiment:         -0.8,
		PoliticalLean:     0.4,
		EmotionalLanguage: 0.6,
		FactualVsOpinion:  0.9,
	}

	got := models.DeriveOverall(v, models.BiasWeights{})

	// 0.25*0.8 + 0.25*0.6 + 0.25*(1-0.9) + 0.25*0.4
	assert.InDelta(t, 0.475, got, 1e-9)
}

func TestDeriveOverallFullyFactualNeutralIsZero(t *testing.T) {
	v := models.BiasVector{FactualVsOpinion: 1}
	assert.Zero(t, models.DeriveOverall(v, models.BiasWeights{}))
}

func TestDeriveOverallMaximallyBiasedIsOne(t *testing.T) {
	v := models.BiasVector{
		Sentiment:         1,
		PoliticalLean:     -1,
		EmotionalLanguage: 1,
		FactualVsOpinion:  0,
	}
	assert.InDelta(t, 1.0, models.DeriveOverall(v, models.BiasWeights{}), 1e-9)
}

func TestDeriveOverallCustomWeights(t *testing.T) {
	v := models.BiasVector{
		Sentiment:         0.5,
		PoliticalLean:     1,
		EmotionalLanguage: 0,
		FactualVsOpinion:  1,
	}
	// only political lean counts
	weights := models.BiasWeights{Political: 2}

	assert.InDelta(t, 1.0, models.DeriveOverall(v, weights), 1e-9)
}

func TestDeriveOverallDeterministic(t *testing.T) {
	v := models.BiasVector{Sentiment: 0.3, PoliticalLean: -0.2, EmotionalLanguage: 0.7, FactualVsOpinion: 0.4}
	w := models.BiasWeights{Sentiment: 1, Emotional: 2, Factual: 3, Political: 4}

	first := models.DeriveOverall(v, w)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, models.DeriveOverall(v, w))
	}
}

func TestNormalizedWeightsSumToOne(t *testing.T) {
	w := models.BiasWeights{Sentiment: 1, Emotional: 1, Factual: 1, Political: 2}.Normalized()
	assert.InDelta(t, 1.0, w.Sentiment+w.Emotional+w.Factual+w.Political, 1e-9)
	assert.InDelta(t, 0.4, w.Political, 1e-9)
}

func TestNormalizedZeroWeightsFallBackToEqual(t *testing.T) {
	w := models.BiasWeights{}.Normalized()
	assert.Equal(t, models.BiasWeights{Sentiment: 0.25, Emotional: 0.25, Factual: 0.25, Political: 0.25}, w)
}
