package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds all configuration for our application
type Config struct {
	Port                      string
	Origin                    string
	Environment               string
	JWTSecret                 string
	JWTRefreshSecret          string
	JWTExpirationMinutes      int
	JWTRefreshExpirationHours int
	Database                  DatabaseConfig
	SMS                       SMSConfig
	Billing                   BillingConfig
	ClinicTimezone            string
	SweepInterval             time.Duration
}

// DatabaseConfig holds database connection details
type DatabaseConfig struct {
	Host     string
	Port     string
	Username string
	Password string
	Name     string
	DSN      string
}

// SMSConfig holds the Semaphore SMS gateway configuration
type SMSConfig struct {
	BaseURL    string
	APIKey     string
	SenderName string
	Timeout    time.Duration
}

// BillingConfig holds billing behavior toggles
type BillingConfig struct {
	// AllowUnknownItems preserves the legacy behavior of pricing
	// unresolved inventory ids at zero instead of failing the bill.
	AllowUnknownItems bool
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	// Load database configuration
	dbConfig := DatabaseConfig{
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     getEnv("DB_PORT", "3306"),
		Username: getEnv("DB_USERNAME", "root"),
		Password: getEnv("DB_PASSWORD", ""),
		Name:     getEnv("DB_NAME", "vetclinic"),
	}

	// Build DSN (Data Source Name) for MySQL connection
	dbConfig.DSN = fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		dbConfig.Username, dbConfig.Password, dbConfig.Host, dbConfig.Port, dbConfig.Name)

	jwtExpMinutes, err := strconv.Atoi(getEnv("JWT_EXPIRATION_MINUTES", "15"))
	if err != nil {
		return nil, fmt.Errorf("invalid JWT_EXPIRATION_MINUTES: %w", err)
	}

	jwtRefreshExpHours, err := strconv.Atoi(getEnv("JWT_REFRESH_EXPIRATION_HOURS", "168")) // 7 days
	if err != nil {
		return nil, fmt.Errorf("invalid JWT_REFRESH_EXPIRATION_HOURS: %w", err)
	}

	smsTimeoutSeconds, err := strconv.Atoi(getEnv("SMS_TIMEOUT_SECONDS", "10"))
	if err != nil {
		return nil, fmt.Errorf("invalid SMS_TIMEOUT_SECONDS: %w", err)
	}

	smsConfig := SMSConfig{
		BaseURL:    getEnv("SMS_BASE_URL", "https://api.semaphore.co/api/v4"),
		APIKey:     getEnv("SMS_API_KEY", ""),
		SenderName: getEnv("SMS_SENDER_NAME", "FixUp"),
		Timeout:    time.Duration(smsTimeoutSeconds) * time.Second,
	}

	allowUnknown, err := strconv.ParseBool(getEnv("BILLING_ALLOW_UNKNOWN_ITEMS", "false"))
	if err != nil {
		return nil, fmt.Errorf("invalid BILLING_ALLOW_UNKNOWN_ITEMS: %w", err)
	}

	// Optional in-process reminder sweep; 0 disables it and leaves the
	// sweep to an external scheduler hitting the cron endpoint.
	sweepMinutes, err := strconv.Atoi(getEnv("REMINDER_SWEEP_INTERVAL_MINUTES", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REMINDER_SWEEP_INTERVAL_MINUTES: %w", err)
	}

	// Return complete configuration
	return &Config{
		Port:                      getEnv("PORT", "3001"),
		Origin:                    getEnv("ORIGIN", "http://localhost:4200"),
		Environment:               getEnv("APP_ENV", "development"),
		JWTSecret:                 getEnv("JWT_SECRET", "default_jwt_secret"),
		JWTRefreshSecret:          getEnv("JWT_REFRESH_SECRET", "default_refresh_secret"),
		JWTExpirationMinutes:      jwtExpMinutes,
		JWTRefreshExpirationHours: jwtRefreshExpHours,
		Database:                  dbConfig,
		SMS:                       smsConfig,
		Billing:                   BillingConfig{AllowUnknownItems: allowUnknown},
		ClinicTimezone:            getEnv("CLINIC_TIMEZONE", "Asia/Manila"),
		SweepInterval:             time.Duration(sweepMinutes) * time.Minute,
	}, nil
}

// Helper function to get environment variable with a default value
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}
