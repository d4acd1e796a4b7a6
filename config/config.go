package config

import (
	"fmt"

	"github.com/spf13/viper"
)

type Config struct {
	Port          string `mapstructure:"port"`
	AIProvider    string `mapstructure:"ai_provider"`
	MistralAPIKey string `mapstructure:"MISTRAL_API_KEY"`
	GoogleAPIKey  string `mapstructure:"GOOGLE_API_KEY"`
	OpenAIAPIKey  string `mapstructure:"OPENAI_API_KEY"`
	OpenAIBaseURL string `mapstructure:"openai_base_url"`
	OpenAIModel   string `mapstructure:"openai_model"`
	GeminiModel   string `mapstructure:"gemini_model"`
	UploadDir     string `mapstructure:"upload_dir"`
	MaxUploadSize int64  `mapstructure:"max_upload_size"`
	LogLevel      string `mapstructure:"log_level"`
}

// Providers selectable via ai_provider.
const (
	ProviderGemini = "gemini"
	ProviderOpenAI = "openai"
)

func LoadConfig(configPath string) (*Config, error) {
	v := viper.New()

	v.SetDefault("port", "8000")
	v.SetDefault("ai_provider", ProviderGemini)
	v.SetDefault("upload_dir", "uploads")
	v.SetDefault("max_upload_size", 10*1024*1024)
	v.SetDefault("log_level", "info")
	v.SetDefault("gemini_model", "gemma-3-27b-it")
	v.SetDefault("openai_model", "gpt-4o-mini")

	// Set up Viper to read from environment variables
	v.AutomaticEnv()
	v.BindEnv("MISTRAL_API_KEY")
	v.BindEnv("GOOGLE_API_KEY")
	v.BindEnv("OPENAI_API_KEY")
	v.BindEnv("port", "PORT")
	v.BindEnv("ai_provider", "AI_PROVIDER")
	v.BindEnv("openai_base_url", "OPENAI_BASE_URL")
	v.BindEnv("openai_model", "OPENAI_MODEL")
	v.BindEnv("gemini_model", "GEMINI_MODEL")
	v.BindEnv("upload_dir", "UPLOAD_DIR")
	v.BindEnv("max_upload_size", "MAX_UPLOAD_SIZE")
	v.BindEnv("log_level", "LOG_LEVEL")

	// Config file is optional; environment variables win either way.
	if configPath != "" {
		v.SetConfigFile(configPath)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return nil, fmt.Errorf("error reading config file: %w", err)
			}
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

// Validate checks the keys the server cannot run without.
func (c *Config) Validate() error {
	if c.MistralAPIKey == "" {
		return fmt.Errorf("MISTRAL_API_KEY is required")
	}
	switch c.AIProvider {
	case ProviderGemini:
		if c.GoogleAPIKey == "" {
			return fmt.Errorf("GOOGLE_API_KEY is required when ai_provider is %q", ProviderGemini)
		}
	case ProviderOpenAI:
		if c.OpenAIAPIKey == "" {
			return fmt.Errorf("OPENAI_API_KEY is required when ai_provider is %q", ProviderOpenAI)
		}
	default:
		return fmt.Errorf("unsupported ai_provider: %q", c.AIProvider)
	}
	return nil
}
