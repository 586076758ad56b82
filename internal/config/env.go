package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Env struct {
	AppAddr            string
	GinMode            string
	DBDSN              string
	JWTSecret          string
	JWTTTL             time.Duration
	CORSAllowedOrigins []string
	PaymentDelay       time.Duration
	TaxRate            float64
	KafkaBrokers       []string
	KafkaTopic         string
	DraftIdleTTL       time.Duration
	MaxDraftsPerUser   int
	AdminEmail         string
	AdminPassword      string
}

// LoadEnv reads configuration from the process environment. A .env file in the
// working directory is loaded first when present; real env vars win.
func LoadEnv() Env {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("warning: gagal membaca .env: %v", err)
	}

	appAddr := getEnv("APP_ADDR", ":8080")
	ginMode := strings.TrimSpace(os.Getenv("GIN_MODE"))

	dsn := strings.TrimSpace(os.Getenv("DB_DSN"))
	if dsn == "" {
		dsn = fmt.Sprintf("%s:%s@tcp(%s)/%s?parseTime=true&loc=Local&charset=utf8mb4&clientFoundRows=true&timeout=5s&readTimeout=30s&writeTimeout=30s",
			getEnv("DB_USER", "root"),
			os.Getenv("DB_PASSWORD"),
			getEnv("DB_HOST", "127.0.0.1:3306"),
			getEnv("DB_NAME", "busline"),
		)
	}

	secret := strings.TrimSpace(os.Getenv("JWT_SECRET"))
	if secret == "" {
		log.Println("WARNING: JWT_SECRET not set, using development secret")
		secret = "dev-secret-change-me"
	}

	return Env{
		AppAddr:            appAddr,
		GinMode:            ginMode,
		DBDSN:              dsn,
		JWTSecret:          secret,
		JWTTTL:             getDuration("JWT_TTL", 24*time.Hour),
		CORSAllowedOrigins: splitList(os.Getenv("CORS_ALLOWED_ORIGINS")),
		PaymentDelay:       getDuration("PAYMENT_DELAY", 2*time.Second),
		TaxRate:            getFloat("TAX_RATE", 0.12),
		KafkaBrokers:       splitList(os.Getenv("KAFKA_BROKERS")),
		KafkaTopic:         getEnv("KAFKA_TOPIC", "booking-events"),
		DraftIdleTTL:       getDuration("DRAFT_IDLE_TTL", 30*time.Minute),
		MaxDraftsPerUser:   getInt("DRAFT_MAX_PER_USER", 3),
		AdminEmail:         strings.TrimSpace(os.Getenv("ADMIN_EMAIL")),
		AdminPassword:      os.Getenv("ADMIN_PASSWORD"),
	}
}

func getEnv(key, def string) string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	return v
}

func getDuration(key string, def time.Duration) time.Duration {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil || d < 0 {
		log.Printf("WARNING: %s=%q tidak valid, pakai default %s", key, v, def)
		return def
	}
	return d
}

func getFloat(key string, def float64) float64 {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || f < 0 {
		log.Printf("WARNING: %s=%q tidak valid, pakai default %v", key, v, def)
		return def
	}
	return f
}

func getInt(key string, def int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 1 {
		log.Printf("WARNING: %s=%q tidak valid, pakai default %d", key, v, def)
		return def
	}
	return n
}

func splitList(raw string) []string {
	out := []string{}
	for _, p := range strings.Split(raw, ",") {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
