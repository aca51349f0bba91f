package scorer_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bias-lens/scorer"
)

func TestParseScoreResponseValid(t *testing.T) {
	raw := []byte(`{"sentiment":-0.6,"political_lean":0.3,"emotional_language":0.8,"factual_vs_opinion":0.4,"is_failure":false}`)

	v, err := scorer.ParseScoreResponse(raw, "gemini-2.0-flash")
	require.NoError(t, err)

	assert.Equal(t, -0.6, v.Sentiment)
	assert.Equal(t, 0.3, v.PoliticalLean)
	assert.Equal(t, 0.8, v.EmotionalLanguage)
	assert.Equal(t, 0.4, v.FactualVsOpinion)
	assert.Equal(t, "gemini-2.0-flash", v.ModelName)
	assert.False(t, v.ScoredAt.IsZero())
	assert.Zero(t, v.OverallBias)
}

func TestParseScoreResponseClampsOutOfRange(t *testing.T) {
	raw := []byte(`{"sentiment":-3,"political_lean":2,"emotional_language":1.5,"factual_vs_opinion":-0.2,"is_failure":false}`)

	v, err := scorer.ParseScoreResponse(raw, "gemini-2.0-flash")
	require.NoError(t, err)

	assert.Equal(t, -1.0, v.Sentiment)
	assert.Equal(t, 1.0, v.PoliticalLean)
	assert.Equal(t, 1.0, v.EmotionalLanguage)
	assert.Equal(t, 0.0, v.FactualVsOpinion)
}

func TestParseScoreResponseFailureFlag(t *testing.T) {
	raw := []byte(`{"sentiment":0,"political_lean":0,"emotional_language":0,"factual_vs_opinion":0,"is_failure":true}`)

	v, err := scorer.ParseScoreResponse(raw, "gemini-2.0-flash")

	assert.Nil(t, v)
	assert.ErrorIs(t, err, scorer.ErrUnscorable)
}

func TestParseScoreResponseInvalidJSON(t *testing.T) {
	v, err := scorer.ParseScoreResponse([]byte("```json {}```"), "gemini-2.0-flash")

	assert.Nil(t, v)
	assert.Error(t, err)
	assert.NotErrorIs(t, err, scorer.ErrUnscorable)
}

func TestNormalizeLanguage(t *testing.T) {
	assert.Equal(t, "bengali", scorer.NormalizeLanguage("bengali"))
	assert.Equal(t, "bengali", scorer.NormalizeLanguage("bn"))
	assert.Equal(t, "english", scorer.NormalizeLanguage("english"))
	assert.Equal(t, "english", scorer.NormalizeLanguage("en"))
	assert.Equal(t, "english", scorer.NormalizeLanguage("other"))
	assert.Equal(t, "english", scorer.NormalizeLanguage(""))
}
