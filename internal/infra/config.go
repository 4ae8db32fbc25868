package infra

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds every application setting. Values load from the yaml file
// first, then environment variables override (HFT_*).
type Config struct {
	App struct {
		Name    string `yaml:"name"`
		Version string `yaml:"version"`
	} `yaml:"app"`

	Session struct {
		SubsessionID string `yaml:"subsession_id"`
		MarketID     int64  `yaml:"market_id"`
		PlayerID     int64  `yaml:"player_id"`
		InitialCash  int64  `yaml:"initial_cash"`
		InboxSize    int    `yaml:"inbox_size"`
	} `yaml:"session"`

	Exchange struct {
		WSURL           string `yaml:"ws_url"`
		PingIntervalSec int    `yaml:"ping_interval_sec"`
		ReadTimeoutSec  int    `yaml:"read_timeout_sec"`
	} `yaml:"exchange"`

	Outbound struct {
		Burst     int     `yaml:"burst"`
		PerSecond float64 `yaml:"per_second"`
	} `yaml:"outbound"`

	Logging struct {
		Level string `yaml:"level"`
	} `yaml:"logging"`
}

// LoadConfig reads and parses the config file, applies environment
// overrides and validates the result.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	overrideWithEnv(&cfg)
	applyDefaults(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Session.InboxSize <= 0 {
		cfg.Session.InboxSize = 1024
	}
	if cfg.Exchange.PingIntervalSec <= 0 {
		cfg.Exchange.PingIntervalSec = 30
	}
	if cfg.Exchange.ReadTimeoutSec <= 0 {
		cfg.Exchange.ReadTimeoutSec = 60
	}
	if cfg.Outbound.Burst <= 0 {
		cfg.Outbound.Burst = 5
	}
	if cfg.Outbound.PerSecond <= 0 {
		cfg.Outbound.PerSecond = 10
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
}

// Validate checks configuration validity.
func (c *Config) Validate() error {
	if !strings.HasPrefix(c.Exchange.WSURL, "ws://") && !strings.HasPrefix(c.Exchange.WSURL, "wss://") {
		return fmt.Errorf("invalid exchange WS URL: %s", c.Exchange.WSURL)
	}
	if c.Session.SubsessionID == "" {
		return fmt.Errorf("subsession_id is required")
	}
	if c.Session.PlayerID <= 0 {
		return fmt.Errorf("player_id must be positive, got %d", c.Session.PlayerID)
	}
	if c.Session.MarketID <= 0 {
		return fmt.Errorf("market_id must be positive, got %d", c.Session.MarketID)
	}
	return nil
}

// overrideWithEnv applies environment overrides. Environment variables
// take precedence over the config file so deployments can repoint a
// client without editing yaml.
func overrideWithEnv(cfg *Config) {
	if url := os.Getenv("HFT_WS_URL"); url != "" {
		cfg.Exchange.WSURL = url
	}
	if sub := os.Getenv("HFT_SUBSESSION_ID"); sub != "" {
		cfg.Session.SubsessionID = sub
	}
	if v := os.Getenv("HFT_MARKET_ID"); v != "" {
		if id, err := strconv.ParseInt(v, 10, 64); err == nil {
			cfg.Session.MarketID = id
		}
	}
	if v := os.Getenv("HFT_PLAYER_ID"); v != "" {
		if id, err := strconv.ParseInt(v, 10, 64); err == nil {
			cfg.Session.PlayerID = id
		}
	}
}
