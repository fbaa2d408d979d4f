package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Chdir(t.TempDir())
	for _, key := range []string{"HTTP_ADDR", "STORE_DRIVER", "DATABASE_DSN", "RATE_SOURCE", "RATE_API_URL", "RATE_TIMEOUT", "KAFKA_BROKERS", "KAFKA_TOPIC", "SEED_ACCOUNTS"} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if cfg.StoreDriver != StoreMemory {
		t.Fatalf("expected memory store, got %q", cfg.StoreDriver)
	}
	if cfg.RateTimeout != 5*time.Second {
		t.Fatalf("expected 5s rate timeout, got %s", cfg.RateTimeout)
	}
	if cfg.SeedAccounts != 3 {
		t.Fatalf("expected 3 seed accounts, got %d", cfg.SeedAccounts)
	}
	if len(cfg.KafkaBrokers) != 0 {
		t.Fatalf("expected no kafka brokers, got %v", cfg.KafkaBrokers)
	}
}

func TestLoadParsesBrokersAndTimeout(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("KAFKA_BROKERS", "kafka-1:9092, kafka-2:9092,")
	t.Setenv("RATE_TIMEOUT", "750ms")
	t.Setenv("STORE_DRIVER", "Postgres")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if len(cfg.KafkaBrokers) != 2 || cfg.KafkaBrokers[1] != "kafka-2:9092" {
		t.Fatalf("unexpected brokers: %v", cfg.KafkaBrokers)
	}
	if cfg.RateTimeout != 750*time.Millisecond {
		t.Fatalf("expected 750ms, got %s", cfg.RateTimeout)
	}
	if cfg.StoreDriver != StorePostgres {
		t.Fatalf("expected postgres store, got %q", cfg.StoreDriver)
	}
}

func TestLoadRejectsUnknownStoreDriver(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("STORE_DRIVER", "sqlite")

	if _, err := Load(); err == nil {
		t.Fatal("expected error for unknown store driver")
	}
}

func TestNormalizeConnectionString(t *testing.T) {
	got := normalizeConnectionString("Host=db;Port=5432;Database=ledger;Username=app;Password=pw")
	want := "host=db port=5432 dbname=ledger user=app password=pw sslmode=disable"
	if got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}

	url := "postgres://app:pw@db:5432/ledger"
	if normalizeConnectionString(url) != url {
		t.Fatal("expected URL DSN to pass through unchanged")
	}
}
