package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const defaultConnectionString = "Host=localhost;Port=5432;Database=asset_ledger_db;Username=postgres;Password=postgres;Timeout=30;CommandTimeout=30"
const defaultHTTPAddr = ":8080"
const defaultRateAPIURL = "https://api.crosstower.com/api/3/public"
const defaultRateTimeout = 5 * time.Second
const defaultKafkaTopic = "ledger_events"
const defaultSeedAccounts = 3

const (
	StoreMemory   = "memory"
	StorePostgres = "postgres"

	RateSourceHTTP  = "http"
	RateSourceTable = "table"
)

type Config struct {
	HTTPAddr     string
	StoreDriver  string
	DatabaseDSN  string
	RateSource   string
	RateAPIURL   string
	RateTimeout  time.Duration
	KafkaBrokers []string
	KafkaTopic   string
	SeedAccounts int
}

// Load reads the configuration from the environment. A .env file in the
// working directory is loaded first when present; variables already set in
// the environment win.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	cfg := Config{
		HTTPAddr:    envOrDefault("HTTP_ADDR", defaultHTTPAddr),
		StoreDriver: strings.ToLower(envOrDefault("STORE_DRIVER", StoreMemory)),
		DatabaseDSN: normalizeConnectionString(envOrDefault("DATABASE_DSN", defaultConnectionString)),
		RateSource:  strings.ToLower(envOrDefault("RATE_SOURCE", RateSourceHTTP)),
		RateAPIURL:  strings.TrimRight(envOrDefault("RATE_API_URL", defaultRateAPIURL), "/"),
		KafkaTopic:  envOrDefault("KAFKA_TOPIC", defaultKafkaTopic),
	}

	switch cfg.StoreDriver {
	case StoreMemory, StorePostgres:
	default:
		return Config{}, fmt.Errorf("STORE_DRIVER must be %q or %q, got %q", StoreMemory, StorePostgres, cfg.StoreDriver)
	}

	switch cfg.RateSource {
	case RateSourceHTTP, RateSourceTable:
	default:
		return Config{}, fmt.Errorf("RATE_SOURCE must be %q or %q, got %q", RateSourceHTTP, RateSourceTable, cfg.RateSource)
	}

	timeout, err := time.ParseDuration(envOrDefault("RATE_TIMEOUT", defaultRateTimeout.String()))
	if err != nil {
		return Config{}, fmt.Errorf("RATE_TIMEOUT: %w", err)
	}
	if timeout <= 0 {
		return Config{}, fmt.Errorf("RATE_TIMEOUT must be positive")
	}
	cfg.RateTimeout = timeout

	seed, err := strconv.Atoi(envOrDefault("SEED_ACCOUNTS", strconv.Itoa(defaultSeedAccounts)))
	if err != nil {
		return Config{}, fmt.Errorf("SEED_ACCOUNTS: %w", err)
	}
	if seed < 0 {
		return Config{}, fmt.Errorf("SEED_ACCOUNTS cannot be negative")
	}
	cfg.SeedAccounts = seed

	for _, broker := range strings.Split(os.Getenv("KAFKA_BROKERS"), ",") {
		if b := strings.TrimSpace(broker); b != "" {
			cfg.KafkaBrokers = append(cfg.KafkaBrokers, b)
		}
	}

	return cfg, nil
}

func envOrDefault(key string, fallback string) string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	return value
}

func normalizeConnectionString(raw string) string {
	if strings.HasPrefix(raw, "postgres://") || strings.HasPrefix(raw, "postgresql://") {
		return raw
	}

	parts := strings.Split(raw, ";")
	out := make([]string, 0, len(parts))
	hasSSLMode := false

	for _, part := range parts {
		p := strings.TrimSpace(part)
		if p == "" {
			continue
		}

		kv := strings.SplitN(p, "=", 2)
		if len(kv) != 2 {
			continue
		}

		key := strings.ToLower(strings.TrimSpace(kv[0]))
		val := strings.TrimSpace(kv[1])

		switch key {
		case "host":
			out = append(out, "host="+val)
		case "port":
			out = append(out, "port="+val)
		case "database":
			out = append(out, "dbname="+val)
		case "username":
			out = append(out, "user="+val)
		case "password":
			out = append(out, "password="+val)
		case "timeout", "connect timeout":
			out = append(out, "connect_timeout="+val)
		case "commandtimeout", "command timeout":
			out = append(out, "statement_timeout="+val+"s")
		case "sslmode":
			hasSSLMode = true
			out = append(out, "sslmode="+val)
		default:
			out = append(out, key+"="+val)
		}
	}

	if len(out) == 0 {
		return raw
	}

	if !hasSSLMode {
		out = append(out, "sslmode=disable")
	}

	return strings.Join(out, " ")
}
