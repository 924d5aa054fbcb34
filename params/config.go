package params

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"

	"papertrade/types"
)

type Storage struct {
	// DataDir is the local Pebble database path.
	DataDir string
	// PostgresURL switches persistence to Postgres when non-empty.
	PostgresURL string
}

type Relay struct {
	Addr         string
	PushInterval time.Duration
}

type Quotes struct {
	Endpoint string
	Timeout  time.Duration
}

type Config struct {
	StartingBalance decimal.Decimal
	Storage         Storage
	Relay           Relay
	Quotes          Quotes
}

func Default() Config {
	return Config{
		StartingBalance: types.DefaultStartingBalance,
		Storage: Storage{
			DataDir: "data/ledger.db",
		},
		Relay: Relay{
			Addr:         ":8000",
			PushInterval: 2 * time.Second,
		},
		Quotes: Quotes{
			Endpoint: "https://query1.finance.yahoo.com",
			Timeout:  10 * time.Second,
		},
	}
}

// LoadFromEnv loads configuration from a .env file (if it exists) and
// environment variables. Priority: ENV > .env file > defaults.
func LoadFromEnv(envPath string) Config {
	cfg := Default()

	if envPath != "" {
		_ = godotenv.Load(envPath)
	} else {
		_ = godotenv.Load()
	}

	if bal := os.Getenv("STARTING_BALANCE"); bal != "" {
		if d, err := decimal.NewFromString(bal); err == nil && d.IsPositive() {
			cfg.StartingBalance = d
		}
	}
	if dir := os.Getenv("DATA_DIR"); dir != "" {
		cfg.Storage.DataDir = dir
	}
	if dbURL := os.Getenv("POSTGRES_URL"); dbURL != "" {
		cfg.Storage.PostgresURL = dbURL
	}
	if addr := os.Getenv("RELAY_ADDR"); addr != "" {
		cfg.Relay.Addr = addr
	}
	if interval := os.Getenv("RELAY_PUSH_INTERVAL_MS"); interval != "" {
		if ms, err := strconv.Atoi(interval); err == nil && ms > 0 {
			cfg.Relay.PushInterval = time.Duration(ms) * time.Millisecond
		}
	}
	if endpoint := os.Getenv("QUOTE_ENDPOINT"); endpoint != "" {
		cfg.Quotes.Endpoint = endpoint
	}
	if timeout := os.Getenv("QUOTE_TIMEOUT_MS"); timeout != "" {
		if ms, err := strconv.Atoi(timeout); err == nil && ms > 0 {
			cfg.Quotes.Timeout = time.Duration(ms) * time.Millisecond
		}
	}

	return cfg
}
