package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port      string `env:"PORT,       default=8080"`
	Env       string `env:"ENV,        default=development"`
	LogLevel  string `env:"LOG_LEVEL,  default=info"`
	JWTSecret string `env:"JWT_SECRET"`

	UsersFile    string        `env:"USERS_FILE,    default=user_data.json"`
	DocumentsDir string        `env:"DOCUMENTS_DIR, default=documents"`
	SessionTTL   time.Duration `env:"SESSION_TTL,   default=24h"`

	LLM LLMConfig
}

type LLMConfig struct {
	APIKey  string        `env:"LLM_API_KEY"`
	BaseURL string        `env:"LLM_BASE_URL"`
	Model   string        `env:"LLM_MODEL,    default=gpt-4o-mini"`
	Timeout time.Duration `env:"LLM_TIMEOUT,  default=60s"`
	// MaxTokens caps the completion length, not the prompt.
	MaxTokens int `env:"LLM_MAX_TOKENS, default=1024"`
	// PromptMaxBytes is the payload ceiling the assembler truncates to.
	PromptMaxBytes int `env:"PROMPT_MAX_BYTES, default=49152"`
	// HistoryTurns is how many recent transcript turns enter the prompt.
	HistoryTurns int `env:"PROMPT_HISTORY_TURNS, default=10"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load() *Config {
	var cfg Config
	if err := envconfig.Process(context.Background(), &cfg); err != nil {
		panic(fmt.Sprintf("config: failed to load configuration: %v", err))
	}
	return &cfg
}
