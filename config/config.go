package config

import (
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const ENV_FILE = ".env"
const CONFIG_FILE = "config.yaml"

type AppConfig struct {
	Logging            LoggingConfig    `yaml:"logging"`
	MongoURI           string           `yaml:"mongo_uri"`
	MongoDBName        string           `yaml:"mongo_db_name"`
	GeminiModel        string           `yaml:"gemini_model"`
	SourceFetchLimit   int              `yaml:"source_fetch_limit"`
	Clustering         ClusteringConfig `yaml:"clustering"`
	BiasWeights        BiasWeights      `yaml:"bias_weights"`
	ScoreQuota         ScoreQuotaConfig `yaml:"score_quota"`
	PendingRetryAgeMin int              `yaml:"pending_retry_age_minutes"`
	Sources            []NewsSource     `yaml:"sources"`
}

type LoggingConfig struct {
	Level string `yaml:"level"`
}

// ClusteringConfig controls the story-grouping stage.
type ClusteringConfig struct {
	// SimilarityThreshold is the minimum similarity an incoming article
	// must reach against at least one member of a cluster to join it.
	SimilarityThreshold float64 `yaml:"similarity_threshold"`

	// WindowDays bounds the candidate search to articles published on
	// the same or adjacent calendar days.
	WindowDays int `yaml:"window_days"`
}

// BiasWeights are the fixed weights used to derive overall_bias_score
// from the four primitive scores. All-zero weights fall back to equal weighting.
type BiasWeights struct {
	Sentiment float64 `yaml:"sentiment"`
	Emotional float64 `yaml:"emotional"`
	Factual   float64 `yaml:"factual"`
	Political float64 `yaml:"political"`
}

// ScoreQuotaConfig limits bias-scoring LLM calls.
// Values of 0 or below mean no limit in that direction.
type ScoreQuotaConfig struct {
	RequestsPerMinute int `yaml:"requests_per_minute"`
	RequestsPerDay    int `yaml:"requests_per_day"`
}

// NewsSource is a single configured news site.
// SourceType selects the scraper: "rss", "html" or "rendered".
// Language is the declared content language ("bengali", "english");
// empty means detect per article.
type NewsSource struct {
	Name       string `yaml:"name"`
	URL        string `yaml:"url"`
	RSSURL     string `yaml:"rss_url"`
	SourceType string `yaml:"source_type"`
	Language   string `yaml:"language"`
}

var config *AppConfig

func InitApp() {
	// load environment variables
	godotenv.Load(filepath.Join(GetBasePath(), ENV_FILE))

	// load configuration file
	data, err := os.ReadFile(filepath.Join(GetBasePath(), CONFIG_FILE))
	if err != nil {
		panic(err)
	}

	var c AppConfig
	err = yaml.Unmarshal(data, &c)
	if err != nil {
		panic(err)
	}
	applyDefaults(&c)
	config = &c

	InitLogger(c.Logging)
}

func applyDefaults(c *AppConfig) {
	if c.MongoURI == "" {
		c.MongoURI = os.Getenv("MONGO_URI")
	}
	if c.MongoDBName == "" {
		c.MongoDBName = "biaslens"
	}
	if c.GeminiModel == "" {
		c.GeminiModel = "gemini-2.0-flash"
	}
	if c.SourceFetchLimit <= 0 {
		c.SourceFetchLimit = 20
	}
	if c.Clustering.SimilarityThreshold <= 0 || c.Clustering.SimilarityThreshold > 1 {
		c.Clustering.SimilarityThreshold = 0.42
	}
	if c.Clustering.WindowDays <= 0 {
		c.Clustering.WindowDays = 3
	}
	if c.PendingRetryAgeMin <= 0 {
		c.PendingRetryAgeMin = 60
	}
}

func GetConfig() AppConfig {
	if config == nil {
		InitApp()
	}

	return *config
}

// GetGeminiAPIKey reads the Gemini key from env (loaded from .env by InitApp).
func GetGeminiAPIKey() string {
	return os.Getenv("GEMINI_API_KEY")
}

func GetBasePath() string {
	cwd, err := os.Getwd()
	if err != nil {
		return ""
	}

	dir := cwd
	for {
		cfgPath := filepath.Join(dir, CONFIG_FILE)
		if info, err := os.Stat(cfgPath); err == nil && !info.IsDir() {
			return dir
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return ""
}
