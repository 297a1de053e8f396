package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	App          App          `mapstructure:"app"`
	Definition   Definition   `mapstructure:"definition"`
	AI           AI           `mapstructure:"ai"`
	Library      Library      `mapstructure:"library"`
	Cache        Cache        `mapstructure:"cache"`
	Storage      Storage      `mapstructure:"storage"`
	TTS          TTS          `mapstructure:"tts"`
	Notification Notification `mapstructure:"notification"`
	Digest       Digest       `mapstructure:"digest"`
}

// App holds general application configuration
type App struct {
	Debug    bool   `mapstructure:"debug"`
	LogLevel string `mapstructure:"log_level"`
}

// Definition holds the digest definition document location
type Definition struct {
	URL     string `mapstructure:"url"`
	Timeout string `mapstructure:"timeout"`
}

// AI holds LLM provider configuration
type AI struct {
	OpenAI    OpenAIConfig    `mapstructure:"openai"`
	Anthropic AnthropicConfig `mapstructure:"anthropic"`
	Timeout   string          `mapstructure:"timeout"`
}

// OpenAIConfig holds OpenAI configuration
type OpenAIConfig struct {
	APIKey string `mapstructure:"api_key"`
	Model  string `mapstructure:"model"`
}

// AnthropicConfig holds Anthropic configuration
type AnthropicConfig struct {
	APIKey string `mapstructure:"api_key"`
	Model  string `mapstructure:"model"`
}

// Library holds the library search/user API configuration
type Library struct {
	BaseURL string `mapstructure:"base_url"`
	APIKey  string `mapstructure:"api_key"`
	Timeout string `mapstructure:"timeout"`
}

// Cache holds redis cache store configuration
type Cache struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// Storage holds object storage configuration
type Storage struct {
	Bucket string `mapstructure:"bucket"`
}

// TTS holds speech synthesis configuration
type TTS struct {
	Endpoint     string `mapstructure:"endpoint"`
	APIKey       string `mapstructure:"api_key"`
	DefaultVoice string `mapstructure:"default_voice"`
	Timeout      string `mapstructure:"timeout"`
}

// Notification holds push/email delivery configuration
type Notification struct {
	PushEndpoint  string `mapstructure:"push_endpoint"`
	EmailEndpoint string `mapstructure:"email_endpoint"`
	APIKey        string `mapstructure:"api_key"`
	SenderAddress string `mapstructure:"sender_address"`
	Timeout       string `mapstructure:"timeout"`
}

// Digest holds pipeline tuning knobs
type Digest struct {
	Personalize    bool   `mapstructure:"personalize"`
	CandidateCap   int    `mapstructure:"candidate_cap"`
	RecordTTL      string `mapstructure:"record_ttl"`
	ProfileTTL     string `mapstructure:"profile_ttl"`
	MaxConcurrency int    `mapstructure:"max_concurrency"`
}

var globalConfig *Config

// Load reads configuration from file, environment variables, and defaults
func Load(configFile string) (*Config, error) {
	if globalConfig != nil {
		return globalConfig, nil
	}

	// Load .env file if it exists
	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(".env"); err != nil {
			fmt.Printf("Warning: Error loading .env file: %v\n", err)
		}
	}

	if configFile != "" {
		viper.SetConfigFile(configFile)
	} else {
		viper.AddConfigPath(".")
		viper.AddConfigPath("$HOME")
		viper.SetConfigName(".digestly")
		viper.SetConfigType("yaml")
	}

	setDefaults()
	bindEnvironmentVariables()

	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	config := &Config{}
	if err := viper.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	globalConfig = config
	return config, nil
}

// Get returns the global configuration, loading it if necessary
func Get() *Config {
	if globalConfig == nil {
		config, err := Load("")
		if err != nil {
			panic(fmt.Sprintf("Failed to load configuration: %v", err))
		}
		return config
	}
	return globalConfig
}

// Reset clears the global configuration (used by tests)
func Reset() {
	globalConfig = nil
	viper.Reset()
}

func setDefaults() {
	// App defaults
	viper.SetDefault("app.debug", false)
	viper.SetDefault("app.log_level", "info")

	// Definition defaults
	viper.SetDefault("definition.timeout", "15s")

	// AI defaults
	viper.SetDefault("ai.openai.model", "gpt-4-0125-preview")
	viper.SetDefault("ai.anthropic.model", "claude-3-sonnet-20240229")
	viper.SetDefault("ai.timeout", "120s")

	// Library defaults
	viper.SetDefault("library.timeout", "30s")

	// Cache defaults
	viper.SetDefault("cache.addr", "localhost:6379")
	viper.SetDefault("cache.db", 0)

	// TTS defaults
	viper.SetDefault("tts.default_voice", "en-US-JennyNeural")
	viper.SetDefault("tts.timeout", "60s")

	// Notification defaults
	viper.SetDefault("notification.timeout", "10s")
	viper.SetDefault("notification.sender_address", "digest@digestly.app")

	// Digest defaults
	viper.SetDefault("digest.personalize", true)
	viper.SetDefault("digest.candidate_cap", 25)
	viper.SetDefault("digest.record_ttl", "168h")
	viper.SetDefault("digest.profile_ttl", "168h")
	viper.SetDefault("digest.max_concurrency", 5)
}

func bindEnvironmentVariables() {
	bindEnvKeys("definition.url", []string{
		"DIGEST_DEFINITION_URL",
		"PROMPT_FILE_URL",
	})

	bindEnvKeys("ai.openai.api_key", []string{
		"OPENAI_API_KEY",
	})

	bindEnvKeys("ai.anthropic.api_key", []string{
		"ANTHROPIC_API_KEY",
		"CLAUDE_API_KEY",
	})

	bindEnvKeys("library.base_url", []string{
		"LIBRARY_API_URL",
	})

	bindEnvKeys("library.api_key", []string{
		"LIBRARY_API_KEY",
	})

	bindEnvKeys("cache.addr", []string{
		"REDIS_ADDR",
	})

	bindEnvKeys("cache.password", []string{
		"REDIS_PASSWORD",
	})

	bindEnvKeys("storage.bucket", []string{
		"DIGEST_GCS_BUCKET",
		"GCS_BUCKET",
	})

	bindEnvKeys("tts.endpoint", []string{
		"TTS_ENDPOINT",
	})

	bindEnvKeys("tts.api_key", []string{
		"TTS_API_KEY",
	})

	bindEnvKeys("notification.push_endpoint", []string{
		"PUSH_ENDPOINT",
	})

	bindEnvKeys("notification.email_endpoint", []string{
		"EMAIL_ENDPOINT",
	})

	bindEnvKeys("notification.api_key", []string{
		"NOTIFICATION_API_KEY",
	})
}

// bindEnvKeys binds the first found environment variable to the viper key
func bindEnvKeys(viperKey string, envKeys []string) {
	for _, envKey := range envKeys {
		if value := os.Getenv(envKey); value != "" {
			viper.Set(viperKey, value)
			return
		}
	}
}

// ParseDuration parses a duration string, falling back to def when the
// value is empty or malformed.
func ParseDuration(value string, def time.Duration) time.Duration {
	if value == "" {
		return def
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return def
	}
	return d
}
