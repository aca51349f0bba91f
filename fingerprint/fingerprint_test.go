package fingerprint_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"bias-lens/fingerprint"
)

func TestFingerprintStableAcrossFormatting(t *testing.T) {
	hash1, _ := fingerprint.Fingerprint("The minister announced a new budget today.")
	hash2, _ := fingerprint.Fingerprint("  The   Minister ANNOUNCED a new\n\nbudget today.  ")

	assert.Equal(t, hash1, hash2)
	assert.Len(t, hash1, 64)
}

func TestFingerprintDiffersForDifferentText(t *testing.T) {
	hash1, _ := fingerprint.Fingerprint("The minister announced a new budget today.")
	hash2, _ := fingerprint.Fingerprint("The opposition rejected the new budget today.")

	assert.NotEqual(t, hash1, hash2)
}

func TestNormalizeStripsMarkup(t *testing.T) {
	got := fingerprint.Normalize("<p>Budget <b>approved</b> today</p>")
	assert.Equal(t, "budget approved today", got)
}

func TestNormalizePlainTextPassthrough(t *testing.T) {
	got := fingerprint.Normalize("Budget Approved Today")
	assert.Equal(t, "budget approved today", got)
}

func TestTokenizeDropsStopwordsAndShortTokens(t *testing.T) {
	tokens := fingerprint.Tokenize("the minister said it is a new budget for the city")

	assert.Contains(t, tokens, "minister")
	assert.Contains(t, tokens, "budget")
	assert.Contains(t, tokens, "city")
	assert.NotContains(t, tokens, "the")
	assert.NotContains(t, tokens, "for")
	assert.NotContains(t, tokens, "it")
}

func TestTokenizeBengaliScript(t *testing.T) {
	tokens := fingerprint.Tokenize("নির্বাচন কমিশন ঘোষণা")
	assert.Len(t, tokens, 3)
}

func TestFeaturesL2Normalized(t *testing.T) {
	v := fingerprint.Features("budget budget minister")

	var norm float64
	for _, w := range v {
		norm += w * w
	}
	assert.InDelta(t, 1.0, norm, 1e-9)
	assert.Greater(t, v["budget"], v["minister"])
}

func TestFeaturesEmptyInput(t *testing.T) {
	v := fingerprint.Features("")
	assert.Empty(t, v)
}

func TestDotOfIdenticalVectorsIsOne(t *testing.T) {
	v := fingerprint.Features("minister announced budget increase parliament")
	assert.InDelta(t, 1.0, v.Dot(v), 1e-9)
}

func TestDotOfDisjointVectorsIsZero(t *testing.T) {
	a := fingerprint.Features("cricket match result")
	b := fingerprint.Features("budget parliament vote")
	assert.Zero(t, a.Dot(b))
}
