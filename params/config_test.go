package params

import (
	"testing"
	"time"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	if cfg.StartingBalance.String() != "1000000" {
		t.Errorf("starting balance = %s, want 1000000", cfg.StartingBalance)
	}
	if cfg.Storage.DataDir != "data/ledger.db" {
		t.Errorf("data dir = %s", cfg.Storage.DataDir)
	}
	if cfg.Storage.PostgresURL != "" {
		t.Errorf("postgres url should default empty, got %s", cfg.Storage.PostgresURL)
	}
	if cfg.Relay.Addr != ":8000" || cfg.Relay.PushInterval != 2*time.Second {
		t.Errorf("relay = %+v", cfg.Relay)
	}
}

func TestLoadFromEnvOverrides(t *testing.T) {
	t.Setenv("STARTING_BALANCE", "250000.50")
	t.Setenv("DATA_DIR", "/var/lib/papertrade")
	t.Setenv("POSTGRES_URL", "postgres://localhost/papertrade")
	t.Setenv("RELAY_ADDR", ":9100")
	t.Setenv("RELAY_PUSH_INTERVAL_MS", "500")
	t.Setenv("QUOTE_ENDPOINT", "http://localhost:8081")
	t.Setenv("QUOTE_TIMEOUT_MS", "3000")

	cfg := LoadFromEnv("")
	if cfg.StartingBalance.String() != "250000.5" {
		t.Errorf("starting balance = %s", cfg.StartingBalance)
	}
	if cfg.Storage.DataDir != "/var/lib/papertrade" {
		t.Errorf("data dir = %s", cfg.Storage.DataDir)
	}
	if cfg.Storage.PostgresURL != "postgres://localhost/papertrade" {
		t.Errorf("postgres url = %s", cfg.Storage.PostgresURL)
	}
	if cfg.Relay.Addr != ":9100" || cfg.Relay.PushInterval != 500*time.Millisecond {
		t.Errorf("relay = %+v", cfg.Relay)
	}
	if cfg.Quotes.Endpoint != "http://localhost:8081" || cfg.Quotes.Timeout != 3*time.Second {
		t.Errorf("quotes = %+v", cfg.Quotes)
	}
}

func TestLoadFromEnvRejectsBadValues(t *testing.T) {
	t.Setenv("STARTING_BALANCE", "-5")
	t.Setenv("RELAY_PUSH_INTERVAL_MS", "soon")

	cfg := LoadFromEnv("")
	if cfg.StartingBalance.String() != "1000000" {
		t.Errorf("negative balance should be ignored, got %s", cfg.StartingBalance)
	}
	if cfg.Relay.PushInterval != 2*time.Second {
		t.Errorf("bad interval should be ignored, got %s", cfg.Relay.PushInterval)
	}
}
