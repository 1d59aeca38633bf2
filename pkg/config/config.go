package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Placeholder keys that mean "no commerce backend configured"
var placeholderKeys = map[string]bool{
	"pk_test_placeholder":              true,
	"your_commerce_js_public_key_here": true,
}

// Cart store backends
const (
	CartStoreNone  = "none"
	CartStoreRedis = "redis"
	CartStoreMySQL = "mysql"
)

// Config holds application configuration from environment variables
type Config struct {
	// Application
	AppPort  string
	AppEnv   string
	LogLevel string

	// Commerce backend
	CommercePublicKey string
	CommerceAPIURL    string
	CommerceTimeout   time.Duration

	// Local simulation
	SimulatedLatency        time.Duration
	CheckoutProcessingDelay time.Duration

	// Cart persistence
	CartStore     string
	CartStoreName string
	RedisAddr     string
	RedisPassword string

	// Database
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string

	// Cart events
	KafkaBrokers []string
	KafkaTopic   string
	KafkaBuffer  int

	// OpenTelemetry
	OTELMetricsEnabled        bool
	OTELExporterOTLPEndpoint  string
	OTELExporterOTLPHeaders   string // For SigNoz Cloud: signoz-ingestion-key=<key>
	OTELExporterOTLPInsecure  bool   // true for http://, false for https://
	OTELServiceName           string
	OTELServiceVersion        string
	OTELDeploymentEnvironment string
}

// LoadConfig loads configuration from .env file and environment variables with defaults
func LoadConfig() *Config {
	// .env is optional; only a real read error is worth a warning
	if err := godotenv.Load(); err != nil {
		if _, ok := err.(*os.PathError); !ok {
			log.Printf("Warning: Error loading .env file: %v", err)
		}
	}

	return &Config{
		AppPort:  getEnv("APP_PORT", "8080"),
		AppEnv:   getEnv("APP_ENV", "development"),
		LogLevel: getEnv("LOG_LEVEL", "info"),

		CommercePublicKey: strings.TrimSpace(os.Getenv("COMMERCE_PUBLIC_KEY")),
		CommerceAPIURL:    getEnv("COMMERCE_API_URL", "https://api.chec.io/v1"),
		CommerceTimeout:   getEnvDuration("COMMERCE_TIMEOUT", 10*time.Second),

		SimulatedLatency:        getEnvDuration("SIMULATED_LATENCY", 500*time.Millisecond),
		CheckoutProcessingDelay: getEnvDuration("CHECKOUT_PROCESSING_DELAY", 3*time.Second),

		CartStore:     strings.ToLower(getEnv("CART_STORE", CartStoreNone)),
		CartStoreName: getEnv("CART_STORE_NAME", "commerce-store"),
		RedisAddr:     getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),

		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "3306"),
		DBUser:     getEnv("DB_USER", "root"),
		DBPassword: getEnv("DB_PASSWORD", "password"),
		DBName:     getEnv("DB_NAME", "storefront"),

		KafkaBrokers: splitCSV(getEnv("CART_EVENTS_KAFKA_BROKERS", "")),
		KafkaTopic:   getEnv("CART_EVENTS_TOPIC", "storefront.cart.events"),
		KafkaBuffer:  getEnvInt("CART_EVENTS_BUFFER", 256),

		OTELMetricsEnabled:        getEnvBool("OTEL_METRICS_ENABLED", false),
		OTELExporterOTLPEndpoint:  getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4318"),
		OTELExporterOTLPHeaders:   getEnv("OTEL_EXPORTER_OTLP_HEADERS", ""),
		OTELExporterOTLPInsecure:  getEnvBool("OTEL_EXPORTER_OTLP_INSECURE", true),
		OTELServiceName:           getEnv("OTEL_SERVICE_NAME", "storefront-go-app"),
		OTELServiceVersion:        getEnv("OTEL_SERVICE_VERSION", "1.0.0"),
		OTELDeploymentEnvironment: getEnv("OTEL_DEPLOYMENT_ENVIRONMENT", "development"),
	}
}

// RemoteEnabled reports whether a usable commerce key is configured.
// Evaluated once at startup; the answer fixes the cart mode for the process.
func (c *Config) RemoteEnabled() bool {
	return c.CommercePublicKey != "" && !placeholderKeys[c.CommercePublicKey]
}

// GetDSN returns the MySQL DSN string
func (c *Config) GetDSN() string {
	return c.DBUser + ":" + c.DBPassword + "@tcp(" + c.DBHost + ":" + c.DBPort + ")/" + c.DBName + "?parseTime=true&charset=utf8mb4"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if value == "true" || value == "1" || value == "yes" {
			return true
		}
		return false
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		log.Printf("Warning: invalid integer for %s=%q, using %d", key, value, defaultValue)
		return defaultValue
	}
	return n
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		log.Printf("Warning: invalid duration for %s=%q, using %s", key, value, defaultValue)
		return defaultValue
	}
	return d
}

func splitCSV(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			out = append(out, t)
		}
	}
	return out
}
