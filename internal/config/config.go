package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds everything read from the process environment. It is
// built once at startup and passed into the services explicitly; no
// package reads env on its own.
type Config struct {
	Port string `mapstructure:"port"`

	// Language model
	GeminiAPIKey    string        `mapstructure:"gemini_api_key"`
	ModelName       string        `mapstructure:"model_name"`
	Temperature     float32       `mapstructure:"temperature"`
	TopP            float32       `mapstructure:"top_p"`
	MaxOutputTokens int32         `mapstructure:"max_output_tokens"`
	UpstreamTimeout time.Duration `mapstructure:"upstream_timeout"`
	UseMockLLM      bool          `mapstructure:"use_mock_llm"`

	// Calendar
	CalendarID        string `mapstructure:"calendar_id"`
	GoogleCredentials string `mapstructure:"google_credentials_json"`
	UseMockCalendar   bool   `mapstructure:"use_mock_calendar"`

	// Sessions
	SessionCookie  string        `mapstructure:"session_cookie"`
	SessionSecret  string        `mapstructure:"session_secret"`
	SessionTTL     time.Duration `mapstructure:"session_ttl"`
	StorageBackend string        `mapstructure:"storage_backend"` // "memory", "bolt" or "firestore"
	BoltPath       string        `mapstructure:"bolt_path"`
	GCPProjectID   string        `mapstructure:"gcp_project"`

	// HTTP
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// Load reads all env vars (prefix INTAKE_) and builds the config.
func Load() (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("INTAKE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("port", "8080")
	v.SetDefault("model_name", "gemini-2.5-flash")
	v.SetDefault("temperature", 0.7)
	v.SetDefault("top_p", 0.9)
	v.SetDefault("max_output_tokens", 2048)
	v.SetDefault("upstream_timeout", 30*time.Second)
	v.SetDefault("use_mock_llm", false)
	v.SetDefault("use_mock_calendar", false)
	v.SetDefault("session_cookie", "intake_session")
	v.SetDefault("session_ttl", 24*time.Hour)
	v.SetDefault("storage_backend", "memory")
	v.SetDefault("bolt_path", "data/sessions.bolt")
	v.SetDefault("allowed_origins", []string{"*"})

	// AutomaticEnv alone does not surface env-only keys through
	// Unmarshal, so bind each one explicitly.
	for _, key := range []string{
		"port", "gemini_api_key", "model_name", "temperature", "top_p",
		"max_output_tokens", "upstream_timeout", "use_mock_llm",
		"calendar_id", "google_credentials_json", "use_mock_calendar",
		"session_cookie", "session_secret", "session_ttl",
		"storage_backend", "bolt_path", "gcp_project", "allowed_origins",
	} {
		if err := v.BindEnv(key); err != nil {
			return nil, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
