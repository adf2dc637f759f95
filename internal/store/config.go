package store

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// ErrMissingEndpoint means no delivery URL was configured.
var ErrMissingEndpoint = errors.New("SERVER_URL is not set")

const (
	TerminalBridge    = "bridge"
	TerminalCSV       = "csv"
	TerminalStatement = "statement"
)

type Config struct {
	Platform    string `yaml:"platform"`
	PollSeconds int    `yaml:"poll_seconds"`
	HistoryFrom string `yaml:"history_from"`
	Terminal    struct {
		Kind   string `yaml:"kind"`
		Bridge struct {
			BaseURL        string `yaml:"base_url"`
			TimeoutSeconds int    `yaml:"timeout_seconds"`
		} `yaml:"bridge"`
		CSV struct {
			AccountPath string `yaml:"account_path"`
			DealsPath   string `yaml:"deals_path"`
		} `yaml:"csv"`
		Statement struct {
			Path string `yaml:"path"`
		} `yaml:"statement"`
	} `yaml:"terminal"`
	Delivery struct {
		URL            string `yaml:"url"`
		TimeoutSeconds int    `yaml:"timeout_seconds"`
	} `yaml:"delivery"`
	Journal struct {
		Enabled       bool `yaml:"enabled"`
		RetentionDays int  `yaml:"retention_days"`
	} `yaml:"journal"`
}

func (c *Config) Validate() error {
	if c.Delivery.URL == "" {
		return ErrMissingEndpoint
	}
	u, err := url.Parse(c.Delivery.URL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("invalid delivery url '%s': must be an absolute http(s) URL", c.Delivery.URL)
	}
	if c.PollSeconds <= 0 {
		return fmt.Errorf("poll_seconds must be positive, got %d", c.PollSeconds)
	}
	if _, err := c.HistoryStart(); err != nil {
		return fmt.Errorf("invalid history_from '%s': %w", c.HistoryFrom, err)
	}
	switch c.Terminal.Kind {
	case TerminalBridge:
		if c.Terminal.Bridge.BaseURL == "" {
			return errors.New("terminal.bridge.base_url cannot be empty")
		}
	case TerminalCSV:
		if c.Terminal.CSV.AccountPath == "" || c.Terminal.CSV.DealsPath == "" {
			return errors.New("terminal.csv.account_path and terminal.csv.deals_path are required")
		}
	case TerminalStatement:
		if c.Terminal.Statement.Path == "" {
			return errors.New("terminal.statement.path cannot be empty")
		}
	default:
		return fmt.Errorf("terminal.kind must be 'bridge', 'csv' or 'statement', got '%s'", c.Terminal.Kind)
	}
	return nil
}

// PollInterval is the pause between two polling cycles.
func (c *Config) PollInterval() time.Duration {
	return time.Duration(c.PollSeconds) * time.Second
}

// HistoryStart is the lower bound of the deal history query, midnight
// local time.
func (c *Config) HistoryStart() (time.Time, error) {
	return time.ParseInLocation("2006-01-02", c.HistoryFrom, time.Local)
}

func (c *Config) DeliveryTimeout() time.Duration {
	return time.Duration(c.Delivery.TimeoutSeconds) * time.Second
}

func (c *Config) BridgeTimeout() time.Duration {
	return time.Duration(c.Terminal.Bridge.TimeoutSeconds) * time.Second
}

// LoadConfig reads path (optional: a missing file means defaults),
// applies environment overrides and validates the result.
func LoadConfig(path string) (*Config, error) {
	var c Config

	b, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(b, &c); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", path, err)
		}
	case errors.Is(err, os.ErrNotExist):
	default:
		return nil, err
	}

	c.applyDefaults()
	c.applyEnv()

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return &c, nil
}

func (c *Config) applyDefaults() {
	if c.Platform == "" {
		c.Platform = "MT5"
	}
	if c.PollSeconds == 0 {
		c.PollSeconds = 2
	}
	if c.HistoryFrom == "" {
		c.HistoryFrom = "2015-01-01"
	}
	if c.Terminal.Kind == "" {
		c.Terminal.Kind = TerminalBridge
	}
	if c.Terminal.Bridge.BaseURL == "" {
		c.Terminal.Bridge.BaseURL = "http://127.0.0.1:8228"
	}
	if c.Terminal.Bridge.TimeoutSeconds == 0 {
		c.Terminal.Bridge.TimeoutSeconds = 10
	}
	if c.Delivery.TimeoutSeconds == 0 {
		c.Delivery.TimeoutSeconds = 10
	}
}

func (c *Config) applyEnv() {
	if v := os.Getenv("SERVER_URL"); v != "" {
		c.Delivery.URL = v
	}
	if v := os.Getenv("MT5_BRIDGE_URL"); v != "" {
		c.Terminal.Bridge.BaseURL = v
	}
}
