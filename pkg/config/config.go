package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// DefaultSourceURLs are the legacy storefront pages imported by the sync batch, in order.
var DefaultSourceURLs = []string{
	"https://www.celulareslibresmedellin.shop/productos",
	"https://www.celulareslibresmedellin.shop/tecnologia",
	"https://www.celulareslibresmedellin.shop/bmxmedellin",
}

// Config holds the application configuration.
type Config struct {
	ServerPort string `mapstructure:"SERVER_PORT"`
	LogLevel   string `mapstructure:"LOG_LEVEL"`

	CatalogGeneratedPath string `mapstructure:"CATALOG_GENERATED_PATH"`
	CatalogDefaultPath   string `mapstructure:"CATALOG_DEFAULT_PATH"`
	PublicDir            string `mapstructure:"PUBLIC_DIR"`
	ImagesSubdir         string `mapstructure:"IMAGES_SUBDIR"`
	PlaceholderImage     string `mapstructure:"PLACEHOLDER_IMAGE"`

	SourceURLs            string  `mapstructure:"SOURCE_URLS"`
	UnmatchedCategory     string  `mapstructure:"UNMATCHED_CATEGORY"`
	FetchMode             string  `mapstructure:"FETCH_MODE"`
	UserAgent             string  `mapstructure:"USER_AGENT"`
	HTTPTimeoutSeconds    int     `mapstructure:"HTTP_TIMEOUT_SECONDS"`
	DownloadRatePerSecond float64 `mapstructure:"DOWNLOAD_RATE_PER_SECOND"`
	ImageMaxDimension     int     `mapstructure:"IMAGE_MAX_DIMENSION"`

	ImageStore     string `mapstructure:"IMAGE_STORE"`
	MinioEndpoint  string `mapstructure:"MINIO_ENDPOINT"`
	MinioAccessKey string `mapstructure:"MINIO_ACCESS_KEY"`
	MinioSecretKey string `mapstructure:"MINIO_SECRET_KEY"`
	MinioBucket    string `mapstructure:"MINIO_BUCKET"`
	MinioUseSSL    bool   `mapstructure:"MINIO_USE_SSL"`
	MinioPublicURL string `mapstructure:"MINIO_PUBLIC_URL"`

	PostgresURL string `mapstructure:"POSTGRES_URL"`

	RedisAddr              string `mapstructure:"REDIS_ADDR"`
	RedisPassword          string `mapstructure:"REDIS_PASSWORD"`
	RedisDB                int    `mapstructure:"REDIS_DB"`
	CatalogCacheTTLSeconds int    `mapstructure:"CATALOG_CACHE_TTL_SECONDS"`

	AdminJWTSecret     string `mapstructure:"ADMIN_JWT_SECRET"`
	CORSAllowedOrigins string `mapstructure:"CORS_ALLOWED_ORIGINS"`

	PushgatewayURL string `mapstructure:"PUSHGATEWAY_URL"`
}

var defaults = map[string]any{
	"SERVER_PORT":               "8080",
	"LOG_LEVEL":                 "info",
	"CATALOG_GENERATED_PATH":    "data/products.generated.json",
	"CATALOG_DEFAULT_PATH":      "data/products.json",
	"PUBLIC_DIR":                "public",
	"IMAGES_SUBDIR":             "products",
	"PLACEHOLDER_IMAGE":         "/file.svg",
	"SOURCE_URLS":               strings.Join(DefaultSourceURLs, ","),
	"UNMATCHED_CATEGORY":        "clothing",
	"FETCH_MODE":                "http",
	"USER_AGENT":                "Mozilla/5.0 (compatible; CLM-SyncBot/1.0)",
	"HTTP_TIMEOUT_SECONDS":      30,
	"DOWNLOAD_RATE_PER_SECOND":  0.0,
	"IMAGE_MAX_DIMENSION":       0,
	"IMAGE_STORE":               "local",
	"MINIO_ENDPOINT":            "",
	"MINIO_ACCESS_KEY":          "",
	"MINIO_SECRET_KEY":          "",
	"MINIO_BUCKET":              "products",
	"MINIO_USE_SSL":             false,
	"MINIO_PUBLIC_URL":          "",
	"POSTGRES_URL":              "",
	"REDIS_ADDR":                "",
	"REDIS_PASSWORD":            "",
	"REDIS_DB":                  0,
	"CATALOG_CACHE_TTL_SECONDS": 60,
	"ADMIN_JWT_SECRET":          "",
	"CORS_ALLOWED_ORIGINS":      "*",
	"PUSHGATEWAY_URL":           "",
}

// Load reads configuration from an optional .env file and the environment.
func Load() (*Config, error) {
	// A missing .env is fine, production sets real environment variables.
	_ = godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	switch c.FetchMode {
	case "http", "browser":
	default:
		return fmt.Errorf("invalid FETCH_MODE %q", c.FetchMode)
	}
	switch c.ImageStore {
	case "local", "minio":
	default:
		return fmt.Errorf("invalid IMAGE_STORE %q", c.ImageStore)
	}
	if c.ImageStore == "minio" && c.MinioEndpoint == "" {
		return fmt.Errorf("MINIO_ENDPOINT is required when IMAGE_STORE is minio")
	}
	if c.HTTPTimeoutSeconds <= 0 {
		return fmt.Errorf("HTTP_TIMEOUT_SECONDS must be positive")
	}
	if c.RedisAddr != "" && c.CatalogCacheTTLSeconds <= 0 {
		return fmt.Errorf("CATALOG_CACHE_TTL_SECONDS must be positive when REDIS_ADDR is set")
	}
	return nil
}

// Sources returns the configured source page URLs in fetch order.
func (c *Config) Sources() []string {
	return splitList(c.SourceURLs)
}

// AllowedOrigins returns the CORS origins accepted by the API.
func (c *Config) AllowedOrigins() []string {
	return splitList(c.CORSAllowedOrigins)
}

func (c *Config) HTTPTimeout() time.Duration {
	return time.Duration(c.HTTPTimeoutSeconds) * time.Second
}

func (c *Config) CatalogCacheTTL() time.Duration {
	return time.Duration(c.CatalogCacheTTLSeconds) * time.Second
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
