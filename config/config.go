package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Port        string           `mapstructure:"port"`
	Mode        string           `mapstructure:"mode"`
	Provider    string           `mapstructure:"provider"`
	Model       string           `mapstructure:"model"`
	AITimeout   time.Duration    `mapstructure:"ai_timeout"`
	MaxUploadMB int64            `mapstructure:"max_upload_mb"`
	Gemini      GeminiConfig     `mapstructure:"gemini"`
	OpenAI      OpenAIConfig     `mapstructure:"openai"`
	Extraction  ExtractionConfig `mapstructure:"extraction"`
	Search      SearchConfig     `mapstructure:"search"`
}

type GeminiConfig struct {
	APIKeys []string `mapstructure:"api_keys"`
}

type OpenAIConfig struct {
	BaseURL string `mapstructure:"base_url"`
	APIKey  string `mapstructure:"api_key"`
}

// SearchConfig enables paper links on roadmaps when both fields are set.
type SearchConfig struct {
	APIKey   string `mapstructure:"api_key"`
	EngineID string `mapstructure:"engine_id"`
}

func (c SearchConfig) Enabled() bool {
	return c.APIKey != "" && c.EngineID != ""
}

type ExtractionConfig struct {
	MinImageBytes int `mapstructure:"min_image_bytes"`
	MaxCandidates int `mapstructure:"max_candidates"`
}

const (
	ProviderGemini = "gemini"
	ProviderOpenAI = "openai"
)

func setDefaults(v *viper.Viper) {
	v.SetDefault("port", "8000")
	v.SetDefault("mode", "development")
	v.SetDefault("provider", ProviderGemini)
	v.SetDefault("model", "gemini-2.5-flash")
	v.SetDefault("ai_timeout", 60*time.Second)
	v.SetDefault("max_upload_mb", 20)
	v.SetDefault("extraction.min_image_bytes", 10000)
	v.SetDefault("extraction.max_candidates", 5)
}

// LoadConfig reads configPath (optional, YAML) and the environment.
// A missing config file is not an error; defaults and env vars still apply.
func LoadConfig(configPath string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok && !errors.Is(err, fs.ErrNotExist) {
				return nil, fmt.Errorf("error reading config file: %w", err)
			}
		}
	}

	// Set up Viper to read from environment variables, e.g. PRISM_PORT
	v.SetEnvPrefix("prism")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Bind the provider credentials under their usual names
	v.BindEnv("openai.api_key", "OPENAI_API_KEY")
	v.BindEnv("openai.base_url", "OPENAI_BASE_URL")
	v.BindEnv("search.api_key", "GOOGLE_SEARCH_API_KEY")
	v.BindEnv("search.engine_id", "GOOGLE_SEARCH_ENGINE_ID")

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	config.Gemini.APIKeys = dedupe(append(config.Gemini.APIKeys, geminiKeysFromEnv(v)...))
	config.Provider = strings.ToLower(strings.TrimSpace(config.Provider))
	return &config, nil
}

// Validate checks the settings needed to build a backend. Commands that never
// call a backend skip it.
func (c *Config) Validate() error {
	switch c.Provider {
	case ProviderGemini:
		if len(c.Gemini.APIKeys) == 0 {
			return fmt.Errorf("provider gemini needs GEMINI_API_KEY, GEMINI_API_KEYS or gemini.api_keys")
		}
	case ProviderOpenAI:
		if c.OpenAI.APIKey == "" && c.OpenAI.BaseURL == "" {
			return fmt.Errorf("provider openai needs OPENAI_API_KEY or openai.base_url")
		}
	default:
		return fmt.Errorf("unknown provider %q", c.Provider)
	}
	if c.MaxUploadMB <= 0 {
		return fmt.Errorf("max_upload_mb must be positive")
	}
	return nil
}

// geminiKeysFromEnv reads GEMINI_API_KEYS (comma separated), GEMINI_API_KEY
// and API_KEY, in that order.
func geminiKeysFromEnv(v *viper.Viper) []string {
	v.BindEnv("gemini_api_keys", "GEMINI_API_KEYS")
	v.BindEnv("gemini_api_key", "GEMINI_API_KEY")
	v.BindEnv("api_key", "API_KEY")

	var keys []string
	for _, k := range strings.Split(v.GetString("gemini_api_keys"), ",") {
		if k = strings.TrimSpace(k); k != "" {
			keys = append(keys, k)
		}
	}
	for _, name := range []string{"gemini_api_key", "api_key"} {
		if k := strings.TrimSpace(v.GetString(name)); k != "" {
			keys = append(keys, k)
		}
	}
	return dedupe(keys)
}

func dedupe(values []string) []string {
	seen := make(map[string]bool, len(values))
	out := values[:0]
	for _, v := range values {
		if !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	}
	return out
}
