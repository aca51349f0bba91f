package similarity_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"bias-lens/fingerprint"
	"bias-lens/models"
	"bias-lens/similarity"
)

func article(title, body string) *models.Article {
	hash, _ := fingerprint.Fingerprint(body)
	return &models.Article{Title: title, Body: body, ContentHash: hash}
}

func TestScoreIdenticalArticles(t *testing.T) {
	e := similarity.NewEngine()
	a := article("Budget approved", "Parliament approved the national budget after lengthy debate.")
	b := article("Budget approved", "Parliament approved the national budget after lengthy debate.")

	assert.InDelta(t, 1.0, e.Score(a, b), 1e-9)
}

func TestScoreDisjointArticlesIsZero(t *testing.T) {
	e := similarity.NewEngine()
	a := article("Cricket", "National team wins championship final against rivals.")
	b := article("Budget", "Parliament approved spending increase yesterday evening.")

	assert.Zero(t, e.Score(a, b))
}

func TestScoreSymmetric(t *testing.T) {
	e := similarity.NewEngine()
	a := article("Budget approved", "Parliament approved the national budget with strong majority support.")
	b := article("Budget passes", "The national budget passed parliament despite opposition protest.")

	assert.Equal(t, e.Score(a, b), e.Score(b, a))
}

func TestScoreDeterministic(t *testing.T) {
	e := similarity.NewEngine()
	a := article("Budget approved", "Parliament approved the national budget with strong majority support.")
	b := article("Budget passes", "The national budget passed parliament despite opposition protest.")

	first := e.Score(a, b)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, e.Score(a, b))
	}
}

func TestScoreWithinUnitInterval(t *testing.T) {
	e := similarity.NewEngine()
	articles := []*models.Article{
		article("a", "minister budget parliament vote approval"),
		article("b", "minister budget debate session"),
		article("c", "storm flooding coastal district evacuation"),
		article("d", ""),
	}
	for _, x := range articles {
		for _, y := range articles {
			s := e.Score(x, y)
			assert.GreaterOrEqual(t, s, 0.0)
			assert.LessOrEqual(t, s, 1.0)
		}
	}
}

func TestScoreEmptyBodyIsZero(t *testing.T) {
	e := similarity.NewEngine()
	a := article("", "")
	b := article("Budget", "Parliament approved the budget.")

	assert.Zero(t, e.Score(a, b))
	assert.Zero(t, e.Score(a, a))
}

func TestScoreRelatedHigherThanUnrelated(t *testing.T) {
	e := similarity.NewEngine()
	base := article("Budget approved", "Parliament approved the national budget after debate on spending priorities.")
	related := article("Budget clears parliament", "The national budget cleared parliament following debate over spending.")
	unrelated := article("Cyclone warning", "Coastal districts were evacuated ahead of the approaching cyclone.")

	assert.Greater(t, e.Score(base, related), e.Score(base, unrelated))
}
