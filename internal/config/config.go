package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

const DefaultAPIBaseURL = "http://127.0.0.1:8000"

type Config struct {
	APIBaseURL     string        `yaml:"api_base_url"`     // Agency base address (default: http://127.0.0.1:8000)
	RequestTimeout time.Duration `yaml:"request_timeout"`  // HTTP client timeout (default: 10s)
	ProxyAddr      string        `yaml:"proxy_addr"`       // Dev proxy listen address (default: :3000)
	ProxyRateLimit float64       `yaml:"proxy_rate_limit"` // Dev proxy requests per second, 0 disables (default: 0)
	Env            string        `yaml:"env"`              // dev, prod (default: dev)
	LogLevel       string        `yaml:"log_level"`        // debug, info, warn, error (default: info)
	LogFormat      string        `yaml:"log_format"`       // json, text (default: text)
	LogFile        string        `yaml:"log_file"`         // where the TUI writes logs (default: console.log)
}

func Default() Config {
	return Config{
		APIBaseURL:     DefaultAPIBaseURL,
		RequestTimeout: 10 * time.Second,
		ProxyAddr:      ":3000",
		Env:            "dev",
		LogLevel:       "info",
		LogFormat:      "text",
		LogFile:        "console.log",
	}
}

// Load builds the configuration from defaults, then the YAML file named by
// CONSOLE_CONFIG (if any), then environment variables. A malformed numeric
// or duration variable is an error rather than a silent default.
func Load() (Config, error) {
	cfg := Default()

	if path := os.Getenv("CONSOLE_CONFIG"); path != "" {
		if err := cfg.mergeFile(path); err != nil {
			return Config{}, err
		}
	}

	var err error
	// NEXT_PUBLIC_API_URL is what the web console read; AGENCY_API_URL wins.
	cfg.APIBaseURL = getEnvOrDefault("NEXT_PUBLIC_API_URL", cfg.APIBaseURL)
	cfg.APIBaseURL = getEnvOrDefault("AGENCY_API_URL", cfg.APIBaseURL)
	if cfg.RequestTimeout, err = getEnvDurationOrDefault("REQUEST_TIMEOUT", cfg.RequestTimeout); err != nil {
		return Config{}, err
	}
	cfg.ProxyAddr = getEnvOrDefault("PROXY_ADDR", cfg.ProxyAddr)
	if cfg.ProxyRateLimit, err = getEnvFloatOrDefault("PROXY_RATE_LIMIT", cfg.ProxyRateLimit); err != nil {
		return Config{}, err
	}
	cfg.Env = getEnvOrDefault("ENV", cfg.Env)
	cfg.LogLevel = getEnvOrDefault("LOG_LEVEL", cfg.LogLevel)
	cfg.LogFormat = getEnvOrDefault("LOG_FORMAT", cfg.LogFormat)
	cfg.LogFile = getEnvOrDefault("LOG_FILE", cfg.LogFile)

	return cfg, nil
}

func (c *Config) mergeFile(path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("error reading config file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(raw, c); err != nil {
		return fmt.Errorf("error unmarshalling config file %s: %w", path, err)
	}
	return nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvFloatOrDefault(key string, defaultValue float64) (float64, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, value, err)
	}
	return f, nil
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}

	if duration, err := time.ParseDuration(value); err == nil {
		return duration, nil
	}

	// bare integers are seconds
	seconds, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q, want a duration like 10s or whole seconds", key, value)
	}
	return time.Duration(seconds) * time.Second, nil
}
