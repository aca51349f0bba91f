package scorer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"google.golang.org/genai"

	"bias-lens/models"
)

// BiasScorer is the external analysis collaborator contract: article
// text plus language tag in, the four primitive bias scores out. The
// overall score is derived by the caller, never by the scorer.
type BiasScorer interface {
	Score(ctx context.Context, text, language string) (*models.BiasVector, *models.AILog, error)
}

// ErrUnscorable marks content the model refused to score (bot walls,
// empty pages). Callers keep the article usable and leave its bias
// status pending.
var ErrUnscorable = errors.New("content cannot be scored")

const SYSTEM_INSTRUCTION = `
You are a media bias analysis assistant for news articles. Analyze the provided article text and respond with a single JSON object with five keys:
1.  sentiment: a number in [-1, 1]. -1 is strongly negative tone, 1 is strongly positive.
2.  political_lean: a number in [-1, 1]. -1 is strongly left-leaning framing, 1 is strongly right-leaning.
3.  emotional_language: a number in [0, 1]. 0 is neutral wording, 1 is heavily emotional wording.
4.  factual_vs_opinion: a number in [0, 1]. 1 is purely factual reporting, 0 is pure opinion.
5.  is_failure: a boolean. Set to true if the text is not an article (e.g. a security check, an empty page) and cannot be analyzed. Otherwise false.
You MUST NOT wrap the JSON output in a markdown code block (e.g. ` + "```json ... ```" + `). The response must contain ONLY the raw JSON string.
If analysis fails, set is_failure to true and 0 for every score.
The article language is given before the text; analyze it in that language.
`

type scoreResponse struct {
	Sentiment         float64 `json:"sentiment"`
	PoliticalLean     float64 `json:"political_lean"`
	EmotionalLanguage float64 `json:"emotional_language"`
	FactualVsOpinion  float64 `json:"factual_vs_opinion"`
	IsFailure         bool    `json:"is_failure"`
}

// GeminiScorer scores article bias through the Gemini API.
type GeminiScorer struct {
	model  string
	apiKey string
}

func NewGeminiScorer(model, apiKey string) *GeminiScorer {
	return &GeminiScorer{model: model, apiKey: apiKey}
}

// Score sends the article text to Gemini and parses the JSON contract.
// Returns an AILog for the call regardless of outcome so callers can
// persist usage audit records.
func (s *GeminiScorer) Score(ctx context.Context, text, language string) (*models.BiasVector, *models.AILog, error) {
	requestedAt := time.Now().UTC()
	reqLog := &models.AILog{
		ModelName:   s.model,
		RequestedAt: requestedAt,
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey: s.apiKey,
	})
	if err != nil {
		return nil, logError(reqLog, err), err
	}

	prompt := fmt.Sprintf("language: %s\n\n%s", NormalizeLanguage(language), text)
	result, err := client.Models.GenerateContent(
		ctx,
		s.model,
		genai.Text(prompt),
		&genai.GenerateContentConfig{
			SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: SYSTEM_INSTRUCTION}}},
		},
	)
	if err != nil {
		return nil, logError(reqLog, err), err
	}

	if usage := result.UsageMetadata; usage != nil {
		reqLog.InputTokens = int64(usage.PromptTokenCount)
		reqLog.OutputTokens = int64(usage.CandidatesTokenCount)
		reqLog.TotalTokens = int64(usage.TotalTokenCount)
	}
	reqLog.CompletedAt = time.Now().UTC()
	reqLog.DurationMs = reqLog.CompletedAt.Sub(requestedAt).Milliseconds()

	vector, err := ParseScoreResponse([]byte(result.Text()), s.model)
	if err != nil {
		return nil, logError(reqLog, err), err
	}
	return vector, reqLog, nil
}

// ParseScoreResponse validates the model's JSON reply and converts it to
// a BiasVector with every score clamped to its contract range. Exposed
// for unit tests; no network involved.
func ParseScoreResponse(raw []byte, modelName string) (*models.BiasVector, error) {
	var resp scoreResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, fmt.Errorf("parse score response: %w", err)
	}
	if resp.IsFailure {
		return nil, ErrUnscorable
	}
	return &models.BiasVector{
		Sentiment:         clampSigned(resp.Sentiment),
		PoliticalLean:     clampSigned(resp.PoliticalLean),
		EmotionalLanguage: models.Clamp01(resp.EmotionalLanguage),
		FactualVsOpinion:  models.Clamp01(resp.FactualVsOpinion),
		ModelName:         modelName,
		ScoredAt:          time.Now().UTC(),
	}, nil
}

// NormalizeLanguage maps a language tag onto the supported set:
// bengali and english, anything else falls back to english.
func NormalizeLanguage(language string) string {
	switch language {
	case "bengali", "bn":
		return "bengali"
	case "english", "en":
		return "english"
	default:
		return "english"
	}
}

func logError(reqLog *models.AILog, err error) *models.AILog {
	msg := err.Error()
	reqLog.ErrorMessage = &msg
	reqLog.CompletedAt = time.Now().UTC()
	reqLog.DurationMs = reqLog.CompletedAt.Sub(reqLog.RequestedAt).Milliseconds()
	return reqLog
}

func clampSigned(x float64) float64 {
	if x < -1 {
		return -1
	}
	if x > 1 {
		return 1
	}
	return x
}

var _ BiasScorer = (*GeminiScorer)(nil)
