package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all SharkIN service settings.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	LLM      LLMConfig      `yaml:"llm"`
	Auth     AuthConfig     `yaml:"auth"`
	Harvest  HarvestConfig  `yaml:"harvest"`
	Logging  LoggingConfig  `yaml:"logging"`
}

type ServerConfig struct {
	Port        string   `yaml:"port"`
	Mode        string   `yaml:"mode"` // gin mode: debug, release, test
	CORSOrigins []string `yaml:"cors_origins"`
}

type DatabaseConfig struct {
	DSN string `yaml:"dsn"`
}

// LLMConfig selects and configures the completion provider.
type LLMConfig struct {
	Provider string `yaml:"provider"` // anthropic, gemini
	APIKey   string `yaml:"api_key"`
	Model    string `yaml:"model"`
	BaseURL  string `yaml:"base_url"`
	Timeout  string `yaml:"timeout"`
}

// AuthConfig enables bearer token checks when JWTSecret is set.
type AuthConfig struct {
	JWTSecret string `yaml:"jwt_secret"`
}

type HarvestConfig struct {
	Interval  string       `yaml:"interval"`
	Threshold float64      `yaml:"threshold"`
	Feeds     []FeedConfig `yaml:"feeds"`
}

type FeedConfig struct {
	Name     string `yaml:"name"`
	URL      string `yaml:"url"`
	Category string `yaml:"category"`
	HookType string `yaml:"hook_type"`
}

type LoggingConfig struct {
	Mode string `yaml:"mode"` // dev, prod
}

const (
	ProviderAnthropic = "anthropic"
	ProviderGemini    = "gemini"
)

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port: "8080",
			Mode: "release",
			CORSOrigins: []string{
				"http://localhost:3000",
				"http://127.0.0.1:3000",
			},
		},
		Database: DatabaseConfig{
			DSN: "host=localhost user=postgres password=postgres dbname=sharkin port=5432 sslmode=disable",
		},
		LLM: LLMConfig{
			Timeout: "90s",
		},
		Harvest: HarvestConfig{
			Interval:  "1h",
			Threshold: 7.5,
		},
		Logging: LoggingConfig{Mode: "dev"},
	}
}

// Load reads the YAML file at path (a missing file is not an error) and
// applies environment overrides on top.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parse config %s: %w", path, err)
			}
		case errors.Is(err, os.ErrNotExist):
		default:
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}
	cfg.applyEnvOverrides()
	cfg.applyProviderDefaults()
	return cfg, nil
}

func (c *Config) applyEnvOverrides() {
	setString(&c.Server.Port, "PORT")
	setString(&c.Server.Mode, "GIN_MODE")
	setString(&c.Logging.Mode, "LOG_MODE")
	setString(&c.Database.DSN, "DATABASE_URL")
	setString(&c.Auth.JWTSecret, "SUPABASE_JWT_SECRET")
	setString(&c.LLM.Timeout, "LLM_TIMEOUT")
	setString(&c.Harvest.Interval, "HARVEST_INTERVAL")

	if v := strings.TrimSpace(os.Getenv("CORS_ORIGINS")); v != "" {
		var origins []string
		for _, o := range strings.Split(v, ",") {
			if o = strings.TrimSpace(o); o != "" {
				origins = append(origins, o)
			}
		}
		c.Server.CORSOrigins = origins
	}
	if v := strings.TrimSpace(os.Getenv("HARVEST_THRESHOLD")); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			c.Harvest.Threshold = f
		}
	}

	// Gemini first so an Anthropic key wins when both are present.
	if key := os.Getenv("GEMINI_API_KEY"); key != "" {
		c.LLM.APIKey = key
		c.LLM.Provider = ProviderGemini
		setString(&c.LLM.Model, "GEMINI_MODEL")
	}
	if key := os.Getenv("ANTHROPIC_API_KEY"); key != "" {
		c.LLM.APIKey = key
		c.LLM.Provider = ProviderAnthropic
		setString(&c.LLM.Model, "ANTHROPIC_MODEL")
	}
	if p := strings.ToLower(strings.TrimSpace(os.Getenv("LLM_PROVIDER"))); p != "" {
		c.LLM.Provider = p
		switch p {
		case ProviderAnthropic:
			setString(&c.LLM.APIKey, "ANTHROPIC_API_KEY")
		case ProviderGemini:
			setString(&c.LLM.APIKey, "GEMINI_API_KEY")
		}
	}
}

func (c *Config) applyProviderDefaults() {
	if c.LLM.Provider == "" {
		c.LLM.Provider = ProviderAnthropic
	}
	if c.LLM.Model != "" {
		return
	}
	switch c.LLM.Provider {
	case ProviderAnthropic:
		c.LLM.Model = "claude-sonnet-4-20250514"
	case ProviderGemini:
		c.LLM.Model = "gemini-2.0-flash"
	}
}

// Validate reports settings the server cannot start without.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Database.DSN) == "" {
		return errors.New("database dsn is required")
	}
	switch c.LLM.Provider {
	case ProviderAnthropic, ProviderGemini:
	default:
		return fmt.Errorf("unknown llm provider %q", c.LLM.Provider)
	}
	if c.LLM.APIKey == "" {
		return fmt.Errorf("api key for llm provider %q is not set", c.LLM.Provider)
	}
	if _, err := time.ParseDuration(c.LLM.Timeout); c.LLM.Timeout != "" && err != nil {
		return fmt.Errorf("invalid llm timeout %q: %w", c.LLM.Timeout, err)
	}
	return nil
}

// LLMTimeout returns the per-call timeout, falling back to 90s.
func (c *Config) LLMTimeout() time.Duration {
	return parseDuration(c.LLM.Timeout, 90*time.Second)
}

// HarvestInterval returns how often the inspiration harvest runs.
func (c *Config) HarvestInterval() time.Duration {
	return parseDuration(c.Harvest.Interval, time.Hour)
}

func parseDuration(s string, def time.Duration) time.Duration {
	d, err := time.ParseDuration(strings.TrimSpace(s))
	if err != nil || d <= 0 {
		return def
	}
	return d
}

func setString(dst *string, env string) {
	if v := strings.TrimSpace(os.Getenv(env)); v != "" {
		*dst = v
	}
}
