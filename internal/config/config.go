package config

import (
	"errors"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const devJWTSecret = "dev-only-secret"

// Config holds every setting read from the environment.
type Config struct {
	AppEnv   string
	LogLevel string
	Port     int

	DBDriver       string
	DatabaseURL    string
	DBMaxOpenConns int

	JWTSecret string
	JWTTTL    time.Duration

	RedisAddr     string
	RedisPassword string

	SMTPHost     string
	SMTPPort     int
	SMTPUser     string
	SMTPPassword string
	MailFrom     string

	StaticDir      string
	RequestTimeout time.Duration
	MaxBodyBytes   int64
	SeedData       bool
	CORSOrigins    []string
}

// Load reads .env when present, then the process environment.
func Load() (Config, error) {
	if err := godotenv.Load(".env"); err != nil {
		log.Println("⚠️  no .env file, using process environment")
	} else {
		log.Println("✅ .env loaded")
	}
	return FromEnv()
}

// FromEnv builds a Config from environment variables only.
func FromEnv() (Config, error) {
	cfg := Config{
		AppEnv:   getEnv("APP_ENV", "dev"),
		LogLevel: getEnv("LOG_LEVEL", "info"),
		Port:     getEnvInt("PORT", 8080),

		DBDriver:       getEnv("DB_DRIVER", "sqlite"),
		DatabaseURL:    getEnv("DATABASE_URL", "file:petshop.db"),
		DBMaxOpenConns: getEnvInt("DB_MAX_OPEN_CONNS", 10),

		JWTSecret: os.Getenv("JWT_SECRET"),
		JWTTTL:    getEnvDuration("JWT_TTL", time.Hour),

		RedisAddr:     os.Getenv("REDIS_ADDR"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),

		SMTPHost:     os.Getenv("SMTP_HOST"),
		SMTPPort:     getEnvInt("SMTP_PORT", 587),
		SMTPUser:     os.Getenv("SMTP_USER"),
		SMTPPassword: os.Getenv("SMTP_PASSWORD"),
		MailFrom:     getEnv("MAIL_FROM", "noreply@petshop.local"),

		StaticDir:      getEnv("STATIC_DIR", "public"),
		RequestTimeout: getEnvDuration("REQUEST_TIMEOUT", 10*time.Second),
		MaxBodyBytes:   int64(getEnvInt("MAX_BODY_BYTES", 1<<20)),
		SeedData:       getEnvBool("SEED_DATA", false),
		CORSOrigins:    getEnvList("CORS_ORIGINS"),
	}

	if cfg.JWTSecret == "" {
		if !cfg.IsDev() {
			return Config{}, errors.New("JWT_SECRET is required outside dev")
		}
		cfg.JWTSecret = devJWTSecret
	}
	switch cfg.DBDriver {
	case "sqlite", "postgres":
	default:
		return Config{}, errors.New("DB_DRIVER must be sqlite or postgres")
	}
	return cfg, nil
}

// IsDev reports whether the service runs in development mode.
func (c Config) IsDev() bool { return c.AppEnv == "dev" || c.AppEnv == "development" }

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func getEnvBool(key string, def bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}

func getEnvDuration(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return def
	}
	return d
}

func getEnvList(key string) []string {
	var out []string
	for _, part := range strings.Split(os.Getenv(key), ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
