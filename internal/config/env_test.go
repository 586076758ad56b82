package config

import (
	"strings"
	"testing"
	"time"
)

func TestLoadEnvDefaults(t *testing.T) {
	for _, k := range []string{"APP_ADDR", "DB_DSN", "JWT_TTL", "PAYMENT_DELAY", "TAX_RATE", "KAFKA_BROKERS", "CORS_ALLOWED_ORIGINS", "DRAFT_IDLE_TTL", "DRAFT_MAX_PER_USER"} {
		t.Setenv(k, "")
	}
	t.Setenv("JWT_SECRET", "s3cret")

	env := LoadEnv()
	if env.AppAddr != ":8080" {
		t.Fatalf("AppAddr = %q", env.AppAddr)
	}
	if env.JWTTTL != 24*time.Hour {
		t.Fatalf("JWTTTL = %s", env.JWTTTL)
	}
	if env.PaymentDelay != 2*time.Second {
		t.Fatalf("PaymentDelay = %s", env.PaymentDelay)
	}
	if env.TaxRate != 0.12 {
		t.Fatalf("TaxRate = %v", env.TaxRate)
	}
	if len(env.KafkaBrokers) != 0 {
		t.Fatalf("expected no brokers, got %v", env.KafkaBrokers)
	}
	if !strings.Contains(env.DBDSN, "clientFoundRows=true") {
		t.Fatalf("DSN should report matched rows, got %q", env.DBDSN)
	}
	if env.DraftIdleTTL != 30*time.Minute || env.MaxDraftsPerUser != 3 {
		t.Fatalf("draft limits = %s / %d", env.DraftIdleTTL, env.MaxDraftsPerUser)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("APP_ADDR", ":9090")
	t.Setenv("PAYMENT_DELAY", "150ms")
	t.Setenv("TAX_RATE", "0.05")
	t.Setenv("KAFKA_BROKERS", "k1:9092, k2:9092 ,")
	t.Setenv("CORS_ALLOWED_ORIGINS", "http://localhost:5173")
	t.Setenv("JWT_TTL", "not-a-duration")
	t.Setenv("DRAFT_MAX_PER_USER", "0")
	t.Setenv("DRAFT_IDLE_TTL", "5m")

	env := LoadEnv()
	if env.AppAddr != ":9090" {
		t.Fatalf("AppAddr = %q", env.AppAddr)
	}
	if env.PaymentDelay != 150*time.Millisecond {
		t.Fatalf("PaymentDelay = %s", env.PaymentDelay)
	}
	if env.TaxRate != 0.05 {
		t.Fatalf("TaxRate = %v", env.TaxRate)
	}
	if len(env.KafkaBrokers) != 2 || env.KafkaBrokers[1] != "k2:9092" {
		t.Fatalf("KafkaBrokers = %v", env.KafkaBrokers)
	}
	if len(env.CORSAllowedOrigins) != 1 {
		t.Fatalf("CORSAllowedOrigins = %v", env.CORSAllowedOrigins)
	}
	if env.JWTTTL != 24*time.Hour {
		t.Fatalf("invalid JWT_TTL should fall back, got %s", env.JWTTTL)
	}
	if env.MaxDraftsPerUser != 3 || env.DraftIdleTTL != 5*time.Minute {
		t.Fatalf("draft limits = %s / %d", env.DraftIdleTTL, env.MaxDraftsPerUser)
	}
}
