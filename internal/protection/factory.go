package protection

import (
	"github.com/ducminhle1904/crypto-protection-bot/internal/errors"
	"github.com/ducminhle1904/crypto-protection-bot/pkg/config"
)

// New creates a protection instance by method name. Construction resolves
// the time window up front, so a bad timeframe or unlock_at fails here,
// before the bot starts trading.
func New(timeframe string, cfg config.ProtectionConfig, trades TradeSource, log WarnLogger) (Protection, error) {
	switch cfg.Method {
	case "CooldownPeriod":
		return NewCooldownPeriod(timeframe, cfg, trades, log)
	case "StoplossGuard":
		return NewStoplossGuard(timeframe, cfg, trades, log)
	case "MaxDrawdown":
		return NewMaxDrawdown(timeframe, cfg, trades, log)
	case "LowProfitPairs":
		return NewLowProfitPairs(timeframe, cfg, trades, log)
	default:
		return nil, errors.NewConfigurationError("protection", "new",
			"unknown protection method "+cfg.Method)
	}
}
