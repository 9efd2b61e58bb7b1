package protection

import (
	"fmt"
	"time"

	"github.com/ducminhle1904/crypto-protection-bot/pkg/config"
	"github.com/ducminhle1904/crypto-protection-bot/pkg/types"
)

// CooldownPeriod blocks re-entering a pair for the stop duration after any
// trade on it was closed. It never locks globally.
type CooldownPeriod struct {
	*Window
	trades TradeSource
}

// NewCooldownPeriod creates a cooldown protection from its config block.
func NewCooldownPeriod(timeframe string, cfg config.ProtectionConfig, trades TradeSource, log WarnLogger) (*CooldownPeriod, error) {
	window, err := NewWindow(timeframe, cfg, log)
	if err != nil {
		return nil, err
	}
	return &CooldownPeriod{Window: window, trades: trades}, nil
}

// Name returns the identifying name of the protection.
func (p *CooldownPeriod) Name() string { return "CooldownPeriod" }

// ShortDescription returns a one-line summary for startup logging.
func (p *CooldownPeriod) ShortDescription() string {
	return fmt.Sprintf("%s - Cooldown period of %s.", p.Name(), p.StopDurationDisplay())
}

// HasGlobalStop reports that cooldowns never halt all pairs.
func (p *CooldownPeriod) HasGlobalStop() bool { return false }

// HasLocalStop reports that cooldowns halt single pairs.
func (p *CooldownPeriod) HasLocalStop() bool { return true }

// GlobalStop never locks; callers should consult HasGlobalStop first.
func (p *CooldownPeriod) GlobalStop(now time.Time, side types.Side) *Result {
	return nil
}

// StopPerPair locks the pair until stop duration has passed since its most
// recent close.
func (p *CooldownPeriod) StopPerPair(pair string, now time.Time, side types.Side) *Result {
	lookBackUntil := now.Add(-p.StopDuration())
	trades := p.trades.ClosedTrades(pair, lookBackUntil)
	if len(trades) == 0 {
		return nil
	}

	until, err := CalculateLockEnd(trades, p.StopDurationMinutes)
	if err != nil || !until.After(now) {
		return nil
	}

	return &Result{
		Lock:   true,
		Until:  until,
		Reason: fmt.Sprintf("Cooldown period for %s until %s.", pair, until.Format(time.RFC3339)),
		Side:   types.SideBoth,
	}
}
