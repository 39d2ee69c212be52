package config

import (
	"log"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	App       AppConfig
	Store     StoreConfig
	Catalog   CatalogConfig
	Database  DatabaseConfig
	Tables    TablesConfig
	Redis     RedisConfig
	Kafka     KafkaConfig
	JWT       JWTConfig
	CORS      CORSConfig
	RateLimit RateLimitConfig
	Printer   PrinterConfig
	Report    ReportConfig
	Tracing   TracingConfig
}

type AppConfig struct {
	Name  string
	Env   string
	Port  string
	Debug bool
}

// StoreConfig selects the persistence backend. "memory" runs without postgres.
type StoreConfig struct {
	Driver  string
	Timeout time.Duration
}

// CatalogConfig points at an optional YAML file of products loaded at startup
type CatalogConfig struct {
	SeedFile string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	Name     string
	User     string
	Password string
	SSLMode  string
	Timezone string
}

type TablesConfig struct {
	Count                  int
	RefreshInterval        time.Duration
	CatalogRefreshInterval time.Duration
}

type RedisConfig struct {
	URL            string
	SettlementLock time.Duration
}

type KafkaConfig struct {
	Brokers    []string
	SalesTopic string
}

type JWTConfig struct {
	Secret      string
	ExpiryHours time.Duration
}

type CORSConfig struct {
	AllowedOrigins []string
	AllowedMethods []string
	AllowedHeaders []string
}

type RateLimitConfig struct {
	Requests int
	Duration int
}

type PrinterConfig struct {
	Type      string
	USBPath   string
	Address   string
	StoreName string
}

type ReportConfig struct {
	TopProducts int
}

// TracingConfig selects the span exporter: none, stdout or otlp
type TracingConfig struct {
	Exporter     string
	OTLPEndpoint string
}

func Load() *Config {
	viper.SetConfigFile(".env")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		log.Printf("Warning: .env file not found, using environment variables: %v", err)
	}

	setDefaults()

	return &Config{
		App: AppConfig{
			Name:  viper.GetString("APP_NAME"),
			Env:   viper.GetString("APP_ENV"),
			Port:  viper.GetString("APP_PORT"),
			Debug: viper.GetBool("APP_DEBUG"),
		},
		Store: StoreConfig{
			Driver:  strings.ToLower(viper.GetString("STORE_DRIVER")),
			Timeout: milliseconds("STORE_TIMEOUT_MS"),
		},
		Catalog: CatalogConfig{
			SeedFile: viper.GetString("CATALOG_SEED_FILE"),
		},
		Database: DatabaseConfig{
			Host:     viper.GetString("DB_HOST"),
			Port:     viper.GetString("DB_PORT"),
			Name:     viper.GetString("DB_NAME"),
			User:     viper.GetString("DB_USER"),
			Password: viper.GetString("DB_PASSWORD"),
			SSLMode:  viper.GetString("DB_SSL_MODE"),
			Timezone: viper.GetString("DB_TIMEZONE"),
		},
		Tables: TablesConfig{
			Count:                  viper.GetInt("TABLE_COUNT"),
			RefreshInterval:        milliseconds("TABLES_REFRESH_INTERVAL_MS"),
			CatalogRefreshInterval: milliseconds("CATALOG_REFRESH_INTERVAL_MS"),
		},
		Redis: RedisConfig{
			URL:            viper.GetString("REDIS_URL"),
			SettlementLock: milliseconds("SETTLEMENT_LOCK_TTL_MS"),
		},
		Kafka: KafkaConfig{
			Brokers:    splitList(viper.GetString("KAFKA_BROKERS")),
			SalesTopic: viper.GetString("KAFKA_SALES_TOPIC"),
		},
		JWT: JWTConfig{
			Secret:      viper.GetString("JWT_SECRET"),
			ExpiryHours: time.Duration(viper.GetInt("JWT_EXPIRY_HOURS")) * time.Hour,
		},
		CORS: CORSConfig{
			AllowedOrigins: viper.GetStringSlice("CORS_ALLOWED_ORIGINS"),
			AllowedMethods: viper.GetStringSlice("CORS_ALLOWED_METHODS"),
			AllowedHeaders: viper.GetStringSlice("CORS_ALLOWED_HEADERS"),
		},
		RateLimit: RateLimitConfig{
			Requests: viper.GetInt("RATE_LIMIT_REQUESTS"),
			Duration: viper.GetInt("RATE_LIMIT_DURATION"),
		},
		Printer: PrinterConfig{
			Type:      strings.ToLower(viper.GetString("PRINTER_TYPE")),
			USBPath:   viper.GetString("PRINTER_USB_PATH"),
			Address:   viper.GetString("PRINTER_ADDRESS"),
			StoreName: viper.GetString("STORE_NAME"),
		},
		Report: ReportConfig{
			TopProducts: viper.GetInt("TOP_PRODUCTS_DEFAULT"),
		},
		Tracing: TracingConfig{
			Exporter:     strings.ToLower(viper.GetString("TRACING_EXPORTER")),
			OTLPEndpoint: viper.GetString("OTEL_EXPORTER_OTLP_ENDPOINT"),
		},
	}
}

func setDefaults() {
	viper.SetDefault("APP_NAME", "pdv-api")
	viper.SetDefault("APP_ENV", "development")
	viper.SetDefault("APP_PORT", "8080")
	viper.SetDefault("APP_DEBUG", true)
	viper.SetDefault("STORE_DRIVER", "postgres")
	viper.SetDefault("STORE_TIMEOUT_MS", 5000)
	viper.SetDefault("DB_HOST", "localhost")
	viper.SetDefault("DB_PORT", "5432")
	viper.SetDefault("DB_NAME", "pdv")
	viper.SetDefault("DB_USER", "postgres")
	viper.SetDefault("DB_PASSWORD", "postgres")
	viper.SetDefault("DB_SSL_MODE", "disable")
	viper.SetDefault("DB_TIMEZONE", "America/Sao_Paulo")
	viper.SetDefault("TABLE_COUNT", 12)
	viper.SetDefault("TABLES_REFRESH_INTERVAL_MS", 10000)
	viper.SetDefault("CATALOG_REFRESH_INTERVAL_MS", 30000)
	viper.SetDefault("REDIS_URL", "")
	viper.SetDefault("SETTLEMENT_LOCK_TTL_MS", 15000)
	viper.SetDefault("KAFKA_BROKERS", "")
	viper.SetDefault("KAFKA_SALES_TOPIC", "pdv.sales.settled")
	viper.SetDefault("JWT_SECRET", "change-this-secret-in-production")
	viper.SetDefault("JWT_EXPIRY_HOURS", 12)
	viper.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:5173")
	viper.SetDefault("CORS_ALLOWED_HEADERS", []string{})
	viper.SetDefault("RATE_LIMIT_REQUESTS", 100)
	viper.SetDefault("RATE_LIMIT_DURATION", 60)
	viper.SetDefault("PRINTER_TYPE", "none")
	viper.SetDefault("STORE_NAME", "PDV")
	viper.SetDefault("TOP_PRODUCTS_DEFAULT", 5)
	viper.SetDefault("CATALOG_SEED_FILE", "")
	viper.SetDefault("TRACING_EXPORTER", "none")
	viper.SetDefault("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4317")
}

func milliseconds(key string) time.Duration {
	return time.Duration(viper.GetInt(key)) * time.Millisecond
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func (c *DatabaseConfig) DSN() string {
	return "host=" + c.Host +
		" user=" + c.User +
		" password=" + c.Password +
		" dbname=" + c.Name +
		" port=" + c.Port +
		" sslmode=" + c.SSLMode +
		" TimeZone=" + c.Timezone
}
