package config

import (
	"errors"
	"os"
	"strconv"
)

var ErrMissingJWTSecret = errors.New("JWT_ACCESS_SECRET and JWT_REFRESH_SECRET must be set in production")

type Config struct {
	AppEnv   string
	HTTPAddr string
	LogLevel string

	DatabaseURL string
	DBMaxConns  int

	JWTIssuer           string
	JWTAccessSecret     string
	JWTRefreshSecret    string
	AccessTokenTTLMin   int
	RefreshTokenTTLDays int

	SMTPHost       string
	SMTPPort       int
	SMTPUser       string
	SMTPPass       string
	SMTPFrom       string
	OrdersNotifyTo string

	KafkaBrokers     string
	KafkaOrdersTopic string

	AdminEmail    string
	AdminPassword string

	ProductsPageSize int
}

func Load() Config {
	return Config{
		AppEnv:   get("APP_ENV", "dev"),
		HTTPAddr: get("HTTP_ADDR", ":8080"),
		LogLevel: get("LOG_LEVEL", "info"),

		DatabaseURL: get("DATABASE_URL", ""),
		DBMaxConns:  getInt("DB_MAX_CONNS", 10),

		JWTIssuer:           get("JWT_ISSUER", "sportsstore"),
		JWTAccessSecret:     get("JWT_ACCESS_SECRET", ""),
		JWTRefreshSecret:    get("JWT_REFRESH_SECRET", ""),
		AccessTokenTTLMin:   getInt("ACCESS_TOKEN_TTL_MIN", 15),
		RefreshTokenTTLDays: getInt("REFRESH_TOKEN_TTL_DAYS", 30),

		SMTPHost:       get("SMTP_HOST", ""),
		SMTPPort:       getInt("SMTP_PORT", 587),
		SMTPUser:       get("SMTP_USER", ""),
		SMTPPass:       get("SMTP_PASS", ""),
		SMTPFrom:       get("SMTP_FROM", ""),
		OrdersNotifyTo: get("ORDERS_NOTIFY_TO", ""),

		KafkaBrokers:     get("KAFKA_BROKERS", ""),
		KafkaOrdersTopic: get("KAFKA_ORDERS_TOPIC", "sportsstore.orders"),

		AdminEmail:    get("ADMIN_EMAIL", ""),
		AdminPassword: get("ADMIN_PASSWORD", ""),

		ProductsPageSize: getInt("PRODUCTS_PAGE_SIZE", 4),
	}
}

func (c Config) IsProd() bool {
	return c.AppEnv == "prod" || c.AppEnv == "production"
}

// Validate rejects settings the server must not run with.
func (c Config) Validate() error {
	if c.IsProd() && (c.JWTAccessSecret == "" || c.JWTRefreshSecret == "") {
		return ErrMissingJWTSecret
	}
	return nil
}

func get(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func getInt(k string, def int) int {
	if v := os.Getenv(k); v != "" {
		n, err := strconv.Atoi(v)
		if err == nil {
			return n
		}
	}
	return def
}
