package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds runtime configuration loaded from environment variables.
// Provider credentials are only ever injected here, never compiled in.
type Config struct {
	Port           string
	GinMode        string
	AllowedOrigins string

	EmailCheckAPIKey  string
	EmailCheckBaseURL string

	NumverifyAccessKey string // legacy apilayer.net endpoint
	NumverifyAPIKey    string // modern api.apilayer.com endpoint

	IPQSAPIKey     string
	AbuseIPDBKey   string
	WhoisXMLAPIKey string

	CountryCSVPath string
	NumCSVPath     string

	HTTPTimeout time.Duration
}

// Load reads environment variables into a Config with sensible defaults.
func Load() (Config, error) {
	cfg := Config{
		Port:               getEnv("PORT", "8080"),
		GinMode:            getEnv("GIN_MODE", "release"),
		AllowedOrigins:     strings.TrimSpace(os.Getenv("ALLOWED_ORIGINS")),
		EmailCheckAPIKey:   strings.TrimSpace(os.Getenv("EMAILCHECK_API_KEY")),
		EmailCheckBaseURL:  strings.TrimSpace(os.Getenv("EMAILCHECK_BASE_URL")),
		NumverifyAccessKey: strings.TrimSpace(os.Getenv("NUMVERIFY_ACCESS_KEY")),
		NumverifyAPIKey:    strings.TrimSpace(os.Getenv("NUMVERIFY_API_KEY")),
		IPQSAPIKey:         strings.TrimSpace(os.Getenv("IPQS_API_KEY")),
		AbuseIPDBKey:       strings.TrimSpace(os.Getenv("ABUSEIPDB_KEY")),
		WhoisXMLAPIKey:     strings.TrimSpace(os.Getenv("WHOISXML_API_KEY")),
		CountryCSVPath:     getEnv("COUNTRY_CSV_PATH", "countrycode.csv"),
		NumCSVPath:         getEnv("NUM_CSV_PATH", "num.csv"),
	}

	timeoutSecs, err := parseIntEnv("HTTP_TIMEOUT_SECONDS", 10)
	if err != nil {
		return Config{}, fmt.Errorf("parse HTTP_TIMEOUT_SECONDS: %w", err)
	}
	cfg.HTTPTimeout = time.Duration(timeoutSecs) * time.Second

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate ensures required fields are present.
func (c Config) Validate() error {
	if c.Port == "" {
		return errors.New("PORT is required")
	}
	if c.EmailCheckAPIKey == "" {
		return errors.New("EMAILCHECK_API_KEY is required")
	}
	if c.HTTPTimeout <= 0 {
		return errors.New("HTTP_TIMEOUT_SECONDS must be positive")
	}
	return nil
}

func getEnv(key, defaultVal string) string {
	if val := strings.TrimSpace(os.Getenv(key)); val != "" {
		return val
	}
	return defaultVal
}

func parseIntEnv(key string, defaultVal int) (int, error) {
	val := strings.TrimSpace(os.Getenv(key))
	if val == "" {
		return defaultVal, nil
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return 0, err
	}
	return parsed, nil
}
