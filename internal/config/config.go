package config

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"os"
	"slices"
	"strconv"
	"strings"
	"time"
)

// Config holds all application configuration.
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Logger   LoggerConfig
	Backend  BackendConfig
	S3       S3Config
	Coupons  CouponConfig
	Pricing  PricingConfig
	Payment  PaymentConfig
	State    RetentionConfig
}

// ServerConfig holds server-related configuration.
type ServerConfig struct {
	Host string
	Port int
}

// DatabaseConfig holds database-related configuration.
type DatabaseConfig struct {
	Host            string
	Port            int
	User            string
	Password        string
	Database        string
	MaxConnections  int
	MinConnections  int
	MaxConnLifetime int // seconds
}

// LoggerConfig holds logger-related configuration.
type LoggerConfig struct {
	Level  string
	Format string // "json" or "console"
}

// BackendConfig holds settings for the external MediPlus backend.
type BackendConfig struct {
	BaseURL             string
	Timeout             time.Duration
	MaxIdleConns        int
	MaxIdleConnsPerHost int
}

// S3Config holds AWS S3 configuration for coupon catalog files.
type S3Config struct {
	Enabled bool
	Bucket  string
	Region  string
	Prefix  string // Path prefix within bucket (e.g., "coupons/")
	// Endpoint overrides the AWS endpoint for S3-compatible stores such as MinIO.
	Endpoint string
}

// CouponConfig lists extra coupon catalog files merged over the built-in catalog.
type CouponConfig struct {
	Files []string
}

// PricingConfig holds delivery pricing rules.
type PricingConfig struct {
	FreeDeliveryThreshold float64
	DeliveryFee           float64
}

// PaymentConfig holds settings for the simulated payment flow.
type PaymentConfig struct {
	MerchantUPIID   string
	MerchantName    string
	ProcessingDelay time.Duration
	OTPDelay        time.Duration
}

// RetentionConfig bounds how long in-memory carts, checkouts, bookings and
// payment sessions are kept.
type RetentionConfig struct {
	// IdleTTL drops state untouched for this long.
	IdleTTL time.Duration
	// DoneRetention drops placed checkouts, finished bookings and paid sessions sooner.
	DoneRetention time.Duration
	SweepInterval time.Duration
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Host: getEnv("SERVER_HOST", "0.0.0.0"),
			Port: getEnvAsInt("SERVER_PORT", 8080),
		},
		Database: DatabaseConfig{
			Host:            getEnv("DB_HOST", "localhost"),
			Port:            getEnvAsInt("DB_PORT", 5432),
			User:            getEnv("DB_USER", "postgres"),
			Password:        getEnv("DB_PASSWORD", ""),
			Database:        getEnv("DB_NAME", "mediplus"),
			MaxConnections:  getEnvAsInt("DB_MAX_CONNECTIONS", 25),
			MinConnections:  getEnvAsInt("DB_MIN_CONNECTIONS", 5),
			MaxConnLifetime: getEnvAsInt("DB_MAX_CONN_LIFETIME", 300),
		},
		Logger: LoggerConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
		Backend: BackendConfig{
			BaseURL:             strings.TrimRight(getEnv("BACKEND_URL", ""), "/"),
			Timeout:             getEnvAsDuration("BACKEND_TIMEOUT", 15*time.Second),
			MaxIdleConns:        getEnvAsInt("BACKEND_MAX_IDLE_CONNS", 100),
			MaxIdleConnsPerHost: getEnvAsInt("BACKEND_MAX_IDLE_CONNS_PER_HOST", 10),
		},
		S3: S3Config{
			Enabled:  getEnvAsBool("S3_ENABLED", false),
			Bucket:   getEnv("S3_BUCKET", ""),
			Region:   getEnv("S3_REGION", "us-east-1"),
			Prefix:   getEnv("S3_PREFIX", "coupons/"),
			Endpoint: getEnv("S3_ENDPOINT", ""),
		},
		Coupons: CouponConfig{
			Files: getEnvAsList("COUPON_FILES"),
		},
		Pricing: PricingConfig{
			FreeDeliveryThreshold: getEnvAsFloat("PRICING_FREE_DELIVERY_THRESHOLD", 50),
			DeliveryFee:           getEnvAsFloat("PRICING_DELIVERY_FEE", 4.99),
		},
		Payment: PaymentConfig{
			MerchantUPIID:   getEnv("PAYMENT_MERCHANT_UPI_ID", "kdrama21k-2@oksbi"),
			MerchantName:    getEnv("PAYMENT_MERCHANT_NAME", "MediPlus"),
			ProcessingDelay: getEnvAsDuration("PAYMENT_PROCESSING_DELAY", 2*time.Second),
			OTPDelay:        getEnvAsDuration("PAYMENT_OTP_DELAY", 1500*time.Millisecond),
		},
		State: RetentionConfig{
			IdleTTL:       getEnvAsDuration("STATE_IDLE_TTL", 2*time.Hour),
			DoneRetention: getEnvAsDuration("STATE_DONE_RETENTION", 15*time.Minute),
			SweepInterval: getEnvAsDuration("STATE_SWEEP_INTERVAL", time.Minute),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// Validate reports every invalid setting, joined into one error.
func (c *Config) Validate() error {
	return errors.Join(
		c.Server.validate(),
		c.Database.validate(),
		c.Logger.validate(),
		c.Backend.validate(),
		c.S3.validate(),
		c.Pricing.validate(),
		c.Payment.validate(),
		c.State.validate(),
	)
}

func validPort(p int) bool { return p >= 1 && p <= 65535 }

func (c *ServerConfig) validate() error {
	if !validPort(c.Port) {
		return fmt.Errorf("invalid server port: %d", c.Port)
	}
	return nil
}

func (c *DatabaseConfig) validate() error {
	var errs []error
	if c.Host == "" {
		errs = append(errs, errors.New("database host is required"))
	}
	if !validPort(c.Port) {
		errs = append(errs, fmt.Errorf("invalid database port: %d", c.Port))
	}
	if c.User == "" {
		errs = append(errs, errors.New("database user is required"))
	}
	if c.Database == "" {
		errs = append(errs, errors.New("database name is required"))
	}
	switch {
	case c.MaxConnections < 1:
		errs = append(errs, errors.New("database max connections must be at least 1"))
	case c.MinConnections < 1:
		errs = append(errs, errors.New("database min connections must be at least 1"))
	case c.MinConnections > c.MaxConnections:
		errs = append(errs, errors.New("database min connections cannot exceed max connections"))
	}
	return errors.Join(errs...)
}

var logLevels = []string{"debug", "info", "warn", "error"}

func (c *LoggerConfig) validate() error {
	if !slices.Contains(logLevels, c.Level) {
		return fmt.Errorf("invalid log level: %s (must be one of %s)", c.Level, strings.Join(logLevels, ", "))
	}
	if c.Format != "json" && c.Format != "console" {
		return fmt.Errorf("invalid log format: %s (must be json or console)", c.Format)
	}
	return nil
}

func (c *BackendConfig) validate() error {
	if c.BaseURL == "" {
		return errors.New("backend URL is required")
	}
	u, err := url.Parse(c.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("invalid backend URL: %s (must be an absolute http or https URL)", c.BaseURL)
	}
	if c.Timeout <= 0 {
		return errors.New("backend timeout must be positive")
	}
	return nil
}

func (c *S3Config) validate() error {
	if !c.Enabled {
		return nil
	}
	if c.Bucket == "" {
		return errors.New("S3 bucket is required when S3 is enabled")
	}
	if c.Region == "" {
		return errors.New("S3 region is required when S3 is enabled")
	}
	return nil
}

func (c *PricingConfig) validate() error {
	if c.FreeDeliveryThreshold < 0 {
		return errors.New("free delivery threshold cannot be negative")
	}
	if c.DeliveryFee < 0 {
		return errors.New("delivery fee cannot be negative")
	}
	return nil
}

func (c *PaymentConfig) validate() error {
	if c.MerchantUPIID == "" {
		return errors.New("merchant UPI ID is required")
	}
	if c.ProcessingDelay < 0 || c.OTPDelay < 0 {
		return errors.New("payment delays cannot be negative")
	}
	return nil
}

func (c *RetentionConfig) validate() error {
	if c.IdleTTL <= 0 || c.DoneRetention <= 0 || c.SweepInterval <= 0 {
		return errors.New("state retention and sweep interval must be positive")
	}
	return nil
}

// ConnectionString returns a postgres:// URL with the credentials escaped.
func (c *DatabaseConfig) ConnectionString() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.User, c.Password),
		Host:     net.JoinHostPort(c.Host, strconv.Itoa(c.Port)),
		Path:     "/" + c.Database,
		RawQuery: "sslmode=disable",
	}
	return u.String()
}

// Address returns the listen address.
func (c *ServerConfig) Address() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// getEnv retrieves an environment variable or returns a default value.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt retrieves an environment variable as an integer or returns a default value.
func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getEnvAsFloat retrieves an environment variable as a float or returns a default value.
func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

// getEnvAsBool retrieves an environment variable as a boolean or returns a default value.
func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

// getEnvAsDuration retrieves an environment variable as a time.Duration or returns a default value.
func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

// getEnvAsList splits a comma-separated environment variable, dropping blanks.
func getEnvAsList(key string) []string {
	value := os.Getenv(key)
	if value == "" {
		return nil
	}

	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
