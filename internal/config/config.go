package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	HTTPPort    string
	DatabaseDSN string
	JWTSecret   string
	CORSOrigins string
	LogLevel    string
	BaseURL     string // QR badge linkleri için

	DBMaxOpenConns     int
	DBMaxIdleConns     int
	DBConnMaxLifetimeS int
	DBConnMaxIdleTimeS int

	// Kişi fotoğrafları: "local" ya da "gcs"
	StorageDriver  string
	ImagePath      string // local driver için klasör
	ImagePublicURL string // local driver için public prefix
	GCSBucket      string
	GCSCredentials string
}

const defaultDSN = "host=localhost user=postgres password=postgres dbname=rfid port=5432 sslmode=disable"

func Load() *Config {
	// .env opsiyonel
	_ = godotenv.Load()

	cfg := &Config{
		HTTPPort:    getEnv("HTTP_PORT", "8080"),
		DatabaseDSN: getEnv("DATABASE_DSN", defaultDSN),
		JWTSecret:   getEnv("JWT_SECRET", ""),
		CORSOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:3000"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		BaseURL:     strings.TrimRight(getEnv("BASE_URL", "http://localhost:3000"), "/"),

		DBMaxOpenConns:     intFromEnv("DB_MAX_OPEN_CONNS", 10),
		DBMaxIdleConns:     intFromEnv("DB_MAX_IDLE_CONNS", 5),
		DBConnMaxLifetimeS: intFromEnv("DB_CONN_MAX_LIFETIME_SECONDS", 300),
		DBConnMaxIdleTimeS: intFromEnv("DB_CONN_MAX_IDLE_TIME_SECONDS", 30),

		StorageDriver:  getEnv("STORAGE_DRIVER", "local"),
		ImagePath:      getEnv("PEOPLE_IMAGE_PATH", "./uploads/people"),
		ImagePublicURL: getEnv("PEOPLE_IMAGE_URL", "/uploads/people"),
		GCSBucket:      getEnv("GCS_BUCKET", ""),
		GCSCredentials: getEnv("GCS_CREDENTIALS_JSON", ""),
	}

	log := GetLogger()

	// Production güvenlik kontrolleri
	if cfg.JWTSecret == "" {
		log.Fatal("JWT_SECRET environment değişkeni tanımlanmamış")
	}
	if len(cfg.JWTSecret) < 32 {
		log.Fatal("JWT_SECRET en az 32 karakter olmalıdır")
	}
	if cfg.DatabaseDSN == defaultDSN {
		log.Warn("DATABASE_DSN varsayılan değer kullanılıyor, production için kendi Postgres bağlantı bilgini tanımla")
	}
	if cfg.StorageDriver == "gcs" && cfg.GCSBucket == "" {
		log.Fatal("STORAGE_DRIVER=gcs için GCS_BUCKET zorunlu")
	}

	return cfg
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func intFromEnv(key string, def int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}
