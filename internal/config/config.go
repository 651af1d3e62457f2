package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/nbenliogludev/go-browser-crawler/internal/browser"
)

const (
	DefaultStartURL  = "https://duckduckgo.com"
	DefaultManualURL = "https://wikipedia.com"
)

type Config struct {
	StartURL        string        `yaml:"start_url"`
	MaxSteps        int           `yaml:"max_steps"`
	StepDelay       time.Duration `yaml:"step_delay"`
	ConfirmCommands bool          `yaml:"confirm_commands"`
	// RepeatLimit is how many identical commands on one URL are tolerated in a row.
	RepeatLimit int `yaml:"repeat_limit"`

	Browser BrowserConfig `yaml:"browser"`
	Model   ModelConfig   `yaml:"model"`
	Logging LoggingConfig `yaml:"logging"`
	Metrics MetricsConfig `yaml:"metrics"`

	// SecretEnv names environment variables whose values are masked in logs.
	SecretEnv []string `yaml:"secret_env"`
}

type BrowserConfig struct {
	Driver         string        `yaml:"driver"`
	Headless       bool          `yaml:"headless"`
	ViewportWidth  int           `yaml:"viewport_width"`
	ViewportHeight int           `yaml:"viewport_height"`
	Timeout        time.Duration `yaml:"timeout"`
	UserDataDir    string        `yaml:"user_data_dir,omitempty"`
	UserAgent      string        `yaml:"user_agent,omitempty"`
}

type ModelConfig struct {
	Name              string        `yaml:"name"`
	BaseURL           string        `yaml:"base_url,omitempty"`
	Temperature       float32       `yaml:"temperature"`
	MaxTokens         int           `yaml:"max_tokens"`
	MaxContentChars   int           `yaml:"max_content_chars"`
	RequestsPerMinute int           `yaml:"requests_per_minute"`
	MaxRetries        int           `yaml:"max_retries"`
	RetryBackoff      time.Duration `yaml:"retry_backoff"`

	APIKey string `yaml:"-"`
}

type LoggingConfig struct {
	Level string `yaml:"level"`
	Dir   string `yaml:"dir"`
}

type MetricsConfig struct {
	Listen string `yaml:"listen"`
}

func Default() *Config {
	opts := browser.DefaultOptions()
	return &Config{
		StartURL:        DefaultStartURL,
		MaxSteps:        30,
		StepDelay:       7 * time.Second,
		ConfirmCommands: true,
		RepeatLimit:     3,
		Browser: BrowserConfig{
			Driver:         browser.DriverPlaywright,
			Headless:       opts.Headless,
			ViewportWidth:  opts.ViewportWidth,
			ViewportHeight: opts.ViewportHeight,
			Timeout:        opts.Timeout,
		},
		Model: ModelConfig{
			Name:              "gpt-4o-mini",
			Temperature:       0.5,
			MaxTokens:         50,
			MaxContentChars:   12000,
			RequestsPerMinute: 20,
			MaxRetries:        5,
			RetryBackoff:      3 * time.Second,
		},
		Logging: LoggingConfig{
			Level: "info",
			Dir:   ".agent/logs",
		},
	}
}

// Load reads path over the defaults. A missing file is not an error when
// optional is set. Environment values are applied last.
func Load(path string, optional bool) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist) && optional:
		case err != nil:
			return nil, fmt.Errorf("reading config file %q: %w", path, err)
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parsing config YAML %q: %w", path, err)
			}
		}
	}

	cfg.applyEnv()
	return cfg, nil
}

func (c *Config) applyEnv() {
	c.Model.APIKey = os.Getenv("OPENAI_API_KEY")
	if v := os.Getenv("OPENAI_BASE_URL"); v != "" {
		c.Model.BaseURL = v
	}
}

// Secrets returns the non-empty values of the SecretEnv variables.
func (c *Config) Secrets() []string {
	var out []string
	for _, name := range c.SecretEnv {
		if v := os.Getenv(name); v != "" {
			out = append(out, v)
		}
	}
	return out
}

func (c *Config) BrowserOptions() browser.Options {
	return browser.Options{
		Headless:       c.Browser.Headless,
		ViewportWidth:  c.Browser.ViewportWidth,
		ViewportHeight: c.Browser.ViewportHeight,
		Timeout:        c.Browser.Timeout,
		UserDataDir:    c.Browser.UserDataDir,
		UserAgent:      c.Browser.UserAgent,
	}
}

func (c *Config) Validate() error {
	var errs []error

	if strings.TrimSpace(c.StartURL) == "" {
		errs = append(errs, errors.New("start_url is required"))
	}
	if c.MaxSteps <= 0 {
		errs = append(errs, fmt.Errorf("max_steps must be positive, got %d", c.MaxSteps))
	}
	if c.StepDelay < 0 {
		errs = append(errs, fmt.Errorf("step_delay must not be negative, got %s", c.StepDelay))
	}
	switch strings.ToLower(c.Browser.Driver) {
	case browser.DriverPlaywright, browser.DriverChromedp:
	default:
		errs = append(errs, fmt.Errorf("browser.driver must be %q or %q, got %q",
			browser.DriverPlaywright, browser.DriverChromedp, c.Browser.Driver))
	}
	if c.Model.Temperature < 0 || c.Model.Temperature > 2 {
		errs = append(errs, fmt.Errorf("model.temperature must be within [0, 2], got %v", c.Model.Temperature))
	}
	if c.Model.MaxContentChars < 0 {
		errs = append(errs, fmt.Errorf("model.max_content_chars must not be negative, got %d", c.Model.MaxContentChars))
	}

	return errors.Join(errs...)
}
