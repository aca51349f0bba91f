package scraper_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"bias-lens/config"
	"bias-lens/scraper"
)

func TestDetectLanguageEnglish(t *testing.T) {
	got := scraper.DetectLanguage("The government announced a new infrastructure plan for the northern districts today.")
	assert.Equal(t, "english", got)
}

func TestDetectLanguageBengali(t *testing.T) {
	got := scraper.DetectLanguage("সরকার আজ উত্তরাঞ্চলের জেলাগুলোর জন্য নতুন অবকাঠামো পরিকল্পনা ঘোষণা করেছে।")
	assert.Equal(t, "bengali", got)
}

func TestDetectLanguageEmptyIsOther(t *testing.T) {
	assert.Equal(t, "other", scraper.DetectLanguage(""))
}

func TestLanguageForDeclaredWins(t *testing.T) {
	src := config.NewsSource{Language: "bengali"}
	got := scraper.LanguageFor(src, "This text is clearly written in English.")
	assert.Equal(t, "bengali", got)
}

func TestLanguageForFallsBackToDetection(t *testing.T) {
	src := config.NewsSource{}
	got := scraper.LanguageFor(src, "The parliament approved the national budget after lengthy debate.")
	assert.Equal(t, "english", got)
}
