package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

type Config struct {
	ListenAddr         string `yaml:"listen_addr"`
	DBPath             string `yaml:"db_path"`
	PhotoPath          string `yaml:"photo_local_path"`
	PublicBaseURL      string `yaml:"public_base_url"`
	VisionBackend      string `yaml:"vision_backend"`
	OllamaHost         string `yaml:"ollama_host"`
	OllamaModel        string `yaml:"ollama_model"`
	ClaudeAPIKey       string `yaml:"claude_api_key"`
	ClaudeModel        string `yaml:"claude_model"`
	LogLevel           string `yaml:"log_level"`
	LogFile            string `yaml:"log_file"`
	MigrateConcurrency int    `yaml:"migrate_concurrency"`
}

func defaults() *Config {
	return &Config{
		ListenAddr:         ":8080",
		DBPath:             "/data/renovo.db",
		PhotoPath:          "/data/photos",
		PublicBaseURL:      "http://localhost:8080",
		VisionBackend:      "none",
		OllamaHost:         "http://localhost:11434",
		OllamaModel:        "llava",
		ClaudeModel:        "claude-sonnet-4-5",
		LogLevel:           "info",
		MigrateConcurrency: 4,
	}
}

// Load builds the configuration from defaults, then the YAML file named by
// RENOVO_CONFIG (if set), then environment variables.
func Load() (*Config, error) {
	cfg := defaults()

	if path := os.Getenv("RENOVO_CONFIG"); path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}

	cfg.ListenAddr = getEnv("LISTEN_ADDR", cfg.ListenAddr)
	cfg.DBPath = getEnv("DB_PATH", cfg.DBPath)
	cfg.PhotoPath = getEnv("PHOTO_LOCAL_PATH", cfg.PhotoPath)
	cfg.PublicBaseURL = getEnv("PUBLIC_BASE_URL", cfg.PublicBaseURL)
	cfg.VisionBackend = getEnv("VISION_BACKEND", cfg.VisionBackend)
	cfg.OllamaHost = getEnv("OLLAMA_HOST", cfg.OllamaHost)
	cfg.OllamaModel = getEnv("OLLAMA_MODEL", cfg.OllamaModel)
	cfg.ClaudeAPIKey = getEnv("CLAUDE_API_KEY", cfg.ClaudeAPIKey)
	cfg.ClaudeModel = getEnv("CLAUDE_MODEL", cfg.ClaudeModel)
	cfg.LogLevel = getEnv("LOG_LEVEL", cfg.LogLevel)
	cfg.LogFile = getEnv("LOG_FILE", cfg.LogFile)

	if raw, ok := os.LookupEnv("MIGRATE_CONCURRENCY"); ok {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid MIGRATE_CONCURRENCY %q: %w", raw, err)
		}
		cfg.MigrateConcurrency = n
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return nil
}

func (c *Config) validate() error {
	switch c.VisionBackend {
	case "none", "ollama":
	case "claude":
		if c.ClaudeAPIKey == "" {
			return fmt.Errorf("CLAUDE_API_KEY is required when VISION_BACKEND=claude")
		}
	default:
		return fmt.Errorf("unknown VISION_BACKEND %q", c.VisionBackend)
	}
	if c.MigrateConcurrency < 1 {
		return fmt.Errorf("MIGRATE_CONCURRENCY must be at least 1, got %d", c.MigrateConcurrency)
	}
	return nil
}

func getEnv(key, defaultVal string) string {
	if val, exists := os.LookupEnv(key); exists {
		return val
	}
	return defaultVal
}
