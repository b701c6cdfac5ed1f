package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/efreitasn/zitmarket/internal/domain"
)

// Config holds all runtime configuration for the simulator host.
type Config struct {
	Port            int
	LogLevel        string
	WebhookTimeout  time.Duration
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration

	// Market defaults applied to run requests that omit a field.
	NumBuyers      int
	NumSellers     int
	MaxTrades      int
	MaxBuyerValue  int
	MaxSellerValue int
	Seed           uint64

	// Upper bounds on any run request.
	MaxAgentsPerSide  int
	MaxAttemptsPerRun int
}

// Load reads configuration from environment variables, applies defaults,
// and validates values. It returns an error for any invalid value.
func Load() (*Config, error) {
	port, err := getInt("PORT", 8080)
	if err != nil {
		return nil, fmt.Errorf("invalid PORT: %w", err)
	}

	logLevel := getStr("LOG_LEVEL", "info")
	if !isValidLogLevel(logLevel) {
		return nil, fmt.Errorf("invalid LOG_LEVEL: %q, must be one of: debug, info, warn, error", logLevel)
	}

	webhookTimeout, err := getDuration("WEBHOOK_TIMEOUT", 5*time.Second)
	if err != nil {
		return nil, fmt.Errorf("invalid WEBHOOK_TIMEOUT: %w", err)
	}

	readTimeout, err := getDuration("READ_TIMEOUT", 5*time.Second)
	if err != nil {
		return nil, fmt.Errorf("invalid READ_TIMEOUT: %w", err)
	}

	writeTimeout, err := getDuration("WRITE_TIMEOUT", 30*time.Second)
	if err != nil {
		return nil, fmt.Errorf("invalid WRITE_TIMEOUT: %w", err)
	}

	idleTimeout, err := getDuration("IDLE_TIMEOUT", 60*time.Second)
	if err != nil {
		return nil, fmt.Errorf("invalid IDLE_TIMEOUT: %w", err)
	}

	shutdownTimeout, err := getDuration("SHUTDOWN_TIMEOUT", 10*time.Second)
	if err != nil {
		return nil, fmt.Errorf("invalid SHUTDOWN_TIMEOUT: %w", err)
	}

	marketInts := []struct {
		key    string
		defVal int
		dst    *int
	}{
		{"NUM_BUYERS", 2000, new(int)},
		{"NUM_SELLERS", 4000, new(int)},
		{"MAX_TRADES", 20000, new(int)},
		{"MAX_BUYER_VALUE", 50, new(int)},
		{"MAX_SELLER_VALUE", 50, new(int)},
	}
	for _, m := range marketInts {
		v, err := getInt(m.key, m.defVal)
		if err != nil {
			return nil, fmt.Errorf("invalid %s: %w", m.key, err)
		}
		if v < 1 {
			return nil, fmt.Errorf("invalid %s: must be >= 1, got %d", m.key, v)
		}
		*m.dst = v
	}

	seed, err := getUint64("SEED", 0)
	if err != nil {
		return nil, fmt.Errorf("invalid SEED: %w", err)
	}

	maxAgents, err := getInt("MAX_AGENTS_PER_SIDE", domain.DefaultLimits.MaxAgentsPerSide)
	if err != nil {
		return nil, fmt.Errorf("invalid MAX_AGENTS_PER_SIDE: %w", err)
	}
	if maxAgents < 1 {
		return nil, fmt.Errorf("invalid MAX_AGENTS_PER_SIDE: must be >= 1, got %d", maxAgents)
	}

	maxAttempts, err := getInt("MAX_ATTEMPTS_PER_RUN", domain.DefaultLimits.MaxTrades)
	if err != nil {
		return nil, fmt.Errorf("invalid MAX_ATTEMPTS_PER_RUN: %w", err)
	}
	if maxAttempts < 1 {
		return nil, fmt.Errorf("invalid MAX_ATTEMPTS_PER_RUN: must be >= 1, got %d", maxAttempts)
	}

	cfg := &Config{
		Port:            port,
		LogLevel:        logLevel,
		WebhookTimeout:  webhookTimeout,
		ReadTimeout:     readTimeout,
		WriteTimeout:    writeTimeout,
		IdleTimeout:     idleTimeout,
		ShutdownTimeout: shutdownTimeout,
		NumBuyers:       *marketInts[0].dst,
		NumSellers:      *marketInts[1].dst,
		MaxTrades:       *marketInts[2].dst,
		MaxBuyerValue:   *marketInts[3].dst,
		MaxSellerValue:  *marketInts[4].dst,
		Seed:            seed,

		MaxAgentsPerSide:  maxAgents,
		MaxAttemptsPerRun: maxAttempts,
	}
	if err := cfg.Market().ValidateWithin(cfg.Limits()); err != nil {
		return nil, fmt.Errorf("invalid market defaults: %w", err)
	}
	return cfg, nil
}

// Limits returns the per-run size caps.
func (c *Config) Limits() domain.Limits {
	return domain.Limits{
		MaxAgentsPerSide: c.MaxAgentsPerSide,
		MaxTrades:        c.MaxAttemptsPerRun,
	}
}

// Market returns the default market configuration.
func (c *Config) Market() domain.MarketConfig {
	return domain.MarketConfig{
		NumBuyers:      c.NumBuyers,
		NumSellers:     c.NumSellers,
		MaxTrades:      c.MaxTrades,
		MaxBuyerValue:  c.MaxBuyerValue,
		MaxSellerValue: c.MaxSellerValue,
		Seed:           c.Seed,
	}
}

func getStr(key, defaultVal string) string {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	return v
}

func getInt(key string, defaultVal int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal, nil
	}
	return strconv.Atoi(v)
}

func getUint64(key string, defaultVal uint64) (uint64, error) {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal, nil
	}
	return strconv.ParseUint(v, 10, 64)
}

func getDuration(key string, defaultVal time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal, nil
	}
	return time.ParseDuration(v)
}

func isValidLogLevel(level string) bool {
	switch level {
	case "debug", "info", "warn", "error":
		return true
	}
	return false
}
