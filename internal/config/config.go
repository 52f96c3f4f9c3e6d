package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/wnt/elwcore/internal/elw"
)

// TeamMember is one vesting recipient with its share of the team
// allocation in basis points.
type TeamMember struct {
	Address          string
	ShareBasisPoints uint16
}

// Config holds all configuration for elwcore
type Config struct {
	// Redis configuration
	RedisURL string

	// Database configuration
	DBName     string
	DBHost     string
	DBUser     string
	DBPassword string
	DBPort     string
	DBSSLMode  string

	// Price feed configuration
	OracleEndpoints []string

	// Authority configuration
	OperatorAddress string
	MultisigAddress string
	TeamMembers     []TeamMember

	// Presale configuration
	PresaleStart            int64
	PresaleEnd              int64
	PresaleTotalAmount      uint64
	PresaleMinContribution  uint64
	PresaleMaxContribution  uint64
	PresalePriceThreeMonths uint64
	PresalePriceSixMonths   uint64

	// Logging configuration
	LogLevel string

	// Metrics configuration
	MetricsPort string
}

// Load reads configuration from environment variables and validates it
func Load() (Config, error) {
	cfg := Config{
		RedisURL:        getEnv("REDIS_URL", "redis://localhost:6379"),
		DBName:          getEnv("DB_NAME", ""),
		DBHost:          getEnv("DB_HOST", ""),
		DBUser:          getEnv("DB_USER", ""),
		DBPassword:      getEnv("DB_PASSWORD", ""),
		DBPort:          getEnv("DB_PORT", ""),
		DBSSLMode:       getEnv("DB_SSL_MODE", "disable"),
		OperatorAddress: getEnv("OPERATOR_ADDRESS", ""),
		MultisigAddress: getEnv("MULTISIG_ADDRESS", ""),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
		MetricsPort:     getEnv("METRICS_PORT", "9100"),
	}

	// Parse oracle endpoints
	endpointsStr := getEnv("ORACLE_ENDPOINTS", "https://hermes.pyth.network")
	cfg.OracleEndpoints = strings.Split(endpointsStr, ",")
	for i, endpoint := range cfg.OracleEndpoints {
		cfg.OracleEndpoints[i] = strings.TrimSpace(endpoint)
	}

	// Parse team members
	members, err := parseTeamMembers(getEnv("TEAM_MEMBERS", ""))
	if err != nil {
		return cfg, fmt.Errorf("invalid TEAM_MEMBERS: %w", err)
	}
	cfg.TeamMembers = members

	// Parse presale configuration
	cfg.PresaleStart, err = parseInt64Env("PRESALE_START", 0)
	if err != nil {
		return cfg, fmt.Errorf("invalid PRESALE_START: %w", err)
	}
	cfg.PresaleEnd, err = parseInt64Env("PRESALE_END", 0)
	if err != nil {
		return cfg, fmt.Errorf("invalid PRESALE_END: %w", err)
	}
	cfg.PresaleTotalAmount, err = parseUint64Env("PRESALE_TOTAL_AMOUNT", elw.PresaleAllocation())
	if err != nil {
		return cfg, fmt.Errorf("invalid PRESALE_TOTAL_AMOUNT: %w", err)
	}
	cfg.PresaleMinContribution, err = parseUint64Env("PRESALE_MIN_CONTRIBUTION", elw.DefaultPresaleMinContribution)
	if err != nil {
		return cfg, fmt.Errorf("invalid PRESALE_MIN_CONTRIBUTION: %w", err)
	}
	cfg.PresaleMaxContribution, err = parseUint64Env("PRESALE_MAX_CONTRIBUTION", elw.DefaultPresaleMaxContribution)
	if err != nil {
		return cfg, fmt.Errorf("invalid PRESALE_MAX_CONTRIBUTION: %w", err)
	}
	cfg.PresalePriceThreeMonths, err = parseUint64Env("PRESALE_PRICE_THREE_MONTHS", elw.DefaultPriceThreeMonths)
	if err != nil {
		return cfg, fmt.Errorf("invalid PRESALE_PRICE_THREE_MONTHS: %w", err)
	}
	cfg.PresalePriceSixMonths, err = parseUint64Env("PRESALE_PRICE_SIX_MONTHS", elw.DefaultPriceSixMonths)
	if err != nil {
		return cfg, fmt.Errorf("invalid PRESALE_PRICE_SIX_MONTHS: %w", err)
	}

	// Validate configuration
	if err := cfg.validate(); err != nil {
		return cfg, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// validate checks that the configuration is valid
func (c Config) validate() error {
	if c.RedisURL == "" {
		return fmt.Errorf("REDIS_URL is required")
	}

	if c.DBName == "" {
		return fmt.Errorf("DB_NAME is required")
	}

	if c.OperatorAddress == "" {
		return fmt.Errorf("OPERATOR_ADDRESS is required")
	}

	if c.MultisigAddress == "" {
		return fmt.Errorf("MULTISIG_ADDRESS is required")
	}

	if len(c.OracleEndpoints) == 0 {
		return fmt.Errorf("at least one oracle endpoint is required")
	}

	if c.PresaleStart == 0 || c.PresaleEnd == 0 {
		return fmt.Errorf("PRESALE_START and PRESALE_END are required")
	}

	if c.PresaleEnd <= c.PresaleStart {
		return fmt.Errorf("PRESALE_END must be after PRESALE_START")
	}

	var totalShare int
	for _, member := range c.TeamMembers {
		totalShare += int(member.ShareBasisPoints)
	}
	if totalShare > 10000 {
		return fmt.Errorf("team member shares exceed 10000 basis points (got %d)", totalShare)
	}

	validLogLevels := map[string]bool{
		"trace": true,
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
		"fatal": true,
		"panic": true,
	}

	if !validLogLevels[strings.ToLower(c.LogLevel)] {
		return fmt.Errorf("invalid LOG_LEVEL: %s (must be one of: trace, debug, info, warn, error, fatal, panic)", c.LogLevel)
	}

	return nil
}

// parseTeamMembers parses a "address:share_bp" comma-separated list.
func parseTeamMembers(value string) ([]TeamMember, error) {
	if value == "" {
		return nil, nil
	}

	entries := strings.Split(value, ",")
	members := make([]TeamMember, 0, len(entries))
	for _, entry := range entries {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}

		parts := strings.Split(entry, ":")
		if len(parts) != 2 || parts[0] == "" {
			return nil, fmt.Errorf("entry %q must be address:share_bp", entry)
		}
		share, err := strconv.ParseUint(parts[1], 10, 16)
		if err != nil {
			return nil, fmt.Errorf("entry %q has invalid share: %w", entry, err)
		}
		if share == 0 {
			return nil, fmt.Errorf("entry %q has zero share", entry)
		}

		members = append(members, TeamMember{
			Address:          parts[0],
			ShareBasisPoints: uint16(share),
		})
	}
	return members, nil
}

// getEnv retrieves an environment variable with a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// parseInt64Env parses an integer environment variable with a default value
func parseInt64Env(key string, defaultValue int64) (int64, error) {
	str := os.Getenv(key)
	if str == "" {
		return defaultValue, nil
	}
	return strconv.ParseInt(str, 10, 64)
}

// parseUint64Env parses an unsigned integer environment variable with a default value
func parseUint64Env(key string, defaultValue uint64) (uint64, error) {
	str := os.Getenv(key)
	if str == "" {
		return defaultValue, nil
	}
	return strconv.ParseUint(str, 10, 64)
}
