package summariq

import (
	"errors"
	"fmt"
	"time"

	"github.com/caarlos0/env/v10"
)

// Config holds every setting read from the environment
type Config struct {
	OpenAIAPIKey   string        `env:"OPENAI_API_KEY"`
	LLMBaseURL     string        `env:"LLM_BASE_URL"`
	LLMModel       string        `env:"LLM_MODEL" envDefault:"gpt-4o"`
	LLMTemperature float32       `env:"LLM_TEMPERATURE" envDefault:"0.7"`
	LLMTimeout     time.Duration `env:"LLM_TIMEOUT" envDefault:"90s"`
	LLMMaxRetries  int           `env:"LLM_MAX_RETRIES" envDefault:"2"`

	ChunkSize        int `env:"CHUNK_SIZE" envDefault:"1000"`
	ChunkOverlap     int `env:"CHUNK_OVERLAP" envDefault:"100"`
	MaxReduceDepth   int `env:"MAX_REDUCE_DEPTH" envDefault:"2"`
	ReduceBatchChars int `env:"REDUCE_BATCH_CHARS" envDefault:"12000"`
	MapConcurrency   int `env:"MAP_CONCURRENCY" envDefault:"1"`

	Port          string        `env:"PORT" envDefault:"8180"`
	SessionSecret string        `env:"SESSION_SECRET"`
	SessionTTL    time.Duration `env:"SESSION_TTL" envDefault:"2h"`
	CookieSecure  bool          `env:"COOKIE_SECURE"`
	DBPath        string        `env:"DB_PATH" envDefault:"./summariq.db"`
	UploadDir     string        `env:"UPLOAD_DIR" envDefault:"./uploads"`
	LogDir        string        `env:"LLM_LOG_DIR"`
	Verbose       bool          `env:"VERBOSE"`
}

// LoadConfig parses the environment into a Config
func LoadConfig() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}
	return cfg, nil
}

// Validate checks the settings needed to run the pipeline
func (c Config) Validate() error {
	if c.OpenAIAPIKey == "" {
		return errors.New("OPENAI_API_KEY is required")
	}
	if err := c.ChunkConfig().Validate(); err != nil {
		return err
	}
	if c.MaxReduceDepth <= 0 {
		return fmt.Errorf("MAX_REDUCE_DEPTH must be positive, got %d", c.MaxReduceDepth)
	}
	if c.MapConcurrency <= 0 {
		return fmt.Errorf("MAP_CONCURRENCY must be positive, got %d", c.MapConcurrency)
	}
	return nil
}

// ChunkConfig returns the chunk window settings
func (c Config) ChunkConfig() ChunkConfig {
	return ChunkConfig{MaxSize: c.ChunkSize, Overlap: c.ChunkOverlap}
}

// SummarizerOptions returns the map-reduce settings
func (c Config) SummarizerOptions() SummarizerOptions {
	return SummarizerOptions{
		Chunk:            c.ChunkConfig(),
		MaxReduceDepth:   c.MaxReduceDepth,
		ReduceBatchChars: c.ReduceBatchChars,
		MapConcurrency:   c.MapConcurrency,
	}
}

// NewGenerator builds the OpenAI-compatible generator described by the config
func (c Config) NewGenerator() *OpenAIGenerator {
	return NewOpenAIGenerator(c.OpenAIAPIKey, OpenAIOptions{
		BaseURL:     c.LLMBaseURL,
		Model:       c.LLMModel,
		Temperature: c.LLMTemperature,
		Timeout:     c.LLMTimeout,
		MaxRetries:  c.LLMMaxRetries,
	})
}
