package scraper

import (
	"github.com/RadhiFadlillah/whatlanggo"

	"bias-lens/config"
)

// LanguageFor resolves the article's language tag: the source's
// declared language wins, otherwise the body text is detected.
// Anything outside the supported set maps to "other"; the scorer
// falls back to english for it.
func LanguageFor(src config.NewsSource, body string) string {
	if src.Language != "" {
		return src.Language
	}
	return DetectLanguage(body)
}

// DetectLanguage classifies the text as bengali, english or other.
func DetectLanguage(text string) string {
	if text == "" {
		return "other"
	}
	info := whatlanggo.Detect(text)
	switch info.Lang {
	case whatlanggo.Ben:
		return "bengali"
	case whatlanggo.Eng:
		return "english"
	default:
		return "other"
	}
}
