package infra

import (
	"os"
	"path/filepath"
	"testing"
)

const testYAML = `
app:
  name: hft-client
  version: 1.0.0
session:
  subsession_id: s1a2b3c4
  market_id: 1
  player_id: 7
  initial_cash: 10000
exchange:
  ws_url: ws://localhost:8000
logging:
  level: debug
`

func writeTestConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadConfig(t *testing.T) {
	cfg, err := LoadConfig(writeTestConfig(t, testYAML))
	if err != nil {
		t.Fatal(err)
	}

	if cfg.Session.PlayerID != 7 || cfg.Session.MarketID != 1 {
		t.Errorf("session = %+v", cfg.Session)
	}
	if cfg.Session.SubsessionID != "s1a2b3c4" {
		t.Errorf("subsession = %q", cfg.Session.SubsessionID)
	}
	if cfg.Exchange.WSURL != "ws://localhost:8000" {
		t.Errorf("ws url = %q", cfg.Exchange.WSURL)
	}

	// Defaults fill the omitted sections.
	if cfg.Session.InboxSize != 1024 {
		t.Errorf("InboxSize = %d; want default 1024", cfg.Session.InboxSize)
	}
	if cfg.Outbound.Burst != 5 || cfg.Outbound.PerSecond != 10 {
		t.Errorf("outbound defaults = %+v", cfg.Outbound)
	}
}

func TestLoadConfig_EnvOverride(t *testing.T) {
	t.Setenv("HFT_PLAYER_ID", "42")
	t.Setenv("HFT_WS_URL", "wss://experiment.example.edu")

	cfg, err := LoadConfig(writeTestConfig(t, testYAML))
	if err != nil {
		t.Fatal(err)
	}

	if cfg.Session.PlayerID != 42 {
		t.Errorf("PlayerID = %d; want env override 42", cfg.Session.PlayerID)
	}
	if cfg.Exchange.WSURL != "wss://experiment.example.edu" {
		t.Errorf("WSURL = %q; want env override", cfg.Exchange.WSURL)
	}
}

func TestLoadConfig_Invalid(t *testing.T) {
	cases := []struct {
		name string
		yaml string
	}{
		{"bad scheme", `
session:
  subsession_id: s1
  market_id: 1
  player_id: 7
exchange:
  ws_url: http://localhost:8000
`},
		{"missing subsession", `
session:
  market_id: 1
  player_id: 7
exchange:
  ws_url: ws://localhost:8000
`},
		{"zero player", `
session:
  subsession_id: s1
  market_id: 1
  player_id: 0
exchange:
  ws_url: ws://localhost:8000
`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := LoadConfig(writeTestConfig(t, tc.yaml)); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}
