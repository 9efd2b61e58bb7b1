package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
)

// ProtectionConfig holds the configuration block for a single protection.
// Window keys use pointers so that "key present" and "key absent" stay
// distinguishable: candle-based keys take precedence over minute-based ones
// only when they are actually present in the config file.
type ProtectionConfig struct {
	Method                string  `json:"method"`
	StopDuration          *int    `json:"stop_duration,omitempty"`
	StopDurationCandles   *int    `json:"stop_duration_candles,omitempty"`
	LookbackPeriod        *int    `json:"lookback_period,omitempty"`
	LookbackPeriodCandles *int    `json:"lookback_period_candles,omitempty"`
	UnlockAt              *string `json:"unlock_at,omitempty"`

	// Strategy-specific knobs, ignored by protections that don't use them.
	TradeLimit         int     `json:"trade_limit,omitempty"`
	OnlyPerPair        bool    `json:"only_per_pair,omitempty"`
	OnlyPerSide        bool    `json:"only_per_side,omitempty"`
	RequiredProfit     float64 `json:"required_profit,omitempty"`
	MaxAllowedDrawdown float64 `json:"max_allowed_drawdown,omitempty"`
}

// Config holds the bot-level configuration for the protection engine.
type Config struct {
	Timeframe   string             `json:"timeframe"`
	Pairs       []string           `json:"pairs"`
	Protections []ProtectionConfig `json:"protections"`

	Monitoring struct {
		PrometheusPort int `json:"prometheus_port"`
	} `json:"monitoring"`

	Exchange struct {
		Name     string `json:"name"`
		Category string `json:"category"`
		Demo     bool   `json:"demo"`
	} `json:"exchange"`
}

// Load reads and validates a JSON configuration file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks the configuration for required fields and fills defaults.
func (c *Config) Validate() error {
	if c.Timeframe == "" {
		return fmt.Errorf("timeframe is required")
	}
	for i, p := range c.Protections {
		if p.Method == "" {
			return fmt.Errorf("protections[%d]: method is required", i)
		}
	}
	if c.Monitoring.PrometheusPort == 0 {
		c.Monitoring.PrometheusPort = getEnvInt("PROMETHEUS_PORT", 8080)
	}
	if c.Exchange.Category == "" {
		c.Exchange.Category = "linear"
	}
	return nil
}

// Credentials holds exchange API credentials loaded from the environment.
type Credentials struct {
	APIKey    string
	APISecret string
	Testnet   bool
}

// LoadCredentials reads exchange credentials from environment variables.
// Missing keys are not an error; the bot falls back to demo trade data.
func LoadCredentials() Credentials {
	return Credentials{
		APIKey:    getEnv("EXCHANGE_API_KEY", ""),
		APISecret: getEnv("EXCHANGE_SECRET", ""),
		Testnet:   getEnvBool("EXCHANGE_TESTNET", true),
	}
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if parsed, err := strconv.Atoi(val); err == nil {
			return parsed
		}
	}
	return defaultVal
}

func getEnvBool(key string, defaultVal bool) bool {
	if val := os.Getenv(key); val != "" {
		if parsed, err := strconv.ParseBool(val); err == nil {
			return parsed
		}
	}
	return defaultVal
}
