package protection

import (
	"fmt"
	"time"

	"github.com/ducminhle1904/crypto-protection-bot/pkg/config"
	"github.com/ducminhle1904/crypto-protection-bot/pkg/types"
)

// LowProfitPairs locks a pair whose combined profit over the lookback
// window stays below the required threshold. It never locks globally.
type LowProfitPairs struct {
	*Window
	trades         TradeSource
	tradeLimit     int
	onlyPerSide    bool
	requiredProfit float64
}

// NewLowProfitPairs creates a low-profit protection from its config block.
// trade_limit defaults to 2.
func NewLowProfitPairs(timeframe string, cfg config.ProtectionConfig, trades TradeSource, log WarnLogger) (*LowProfitPairs, error) {
	window, err := NewWindow(timeframe, cfg, log)
	if err != nil {
		return nil, err
	}

	tradeLimit := cfg.TradeLimit
	if tradeLimit <= 0 {
		tradeLimit = 2
	}

	return &LowProfitPairs{
		Window:         window,
		trades:         trades,
		tradeLimit:     tradeLimit,
		onlyPerSide:    cfg.OnlyPerSide,
		requiredProfit: cfg.RequiredProfit,
	}, nil
}

// Name returns the identifying name of the protection.
func (p *LowProfitPairs) Name() string { return "LowProfitPairs" }

// ShortDescription returns a one-line summary for startup logging.
func (p *LowProfitPairs) ShortDescription() string {
	return fmt.Sprintf("%s - Low Profit Protection, locks pairs with profit < %.2f%% within %s.",
		p.Name(), p.requiredProfit*100, p.LookbackPeriodDisplay())
}

// HasGlobalStop reports that low-profit protection never halts all pairs.
func (p *LowProfitPairs) HasGlobalStop() bool { return false }

// HasLocalStop reports that low-profit protection halts single pairs.
func (p *LowProfitPairs) HasLocalStop() bool { return true }

// GlobalStop never locks; callers should consult HasGlobalStop first.
func (p *LowProfitPairs) GlobalStop(now time.Time, side types.Side) *Result {
	return nil
}

// StopPerPair locks the pair when enough trades closed inside the lookback
// window and their combined profit ratio stays below the threshold.
func (p *LowProfitPairs) StopPerPair(pair string, now time.Time, side types.Side) *Result {
	lookBackUntil := now.Add(-p.LookbackPeriod())

	var relevant []*types.Trade
	profit := 0.0
	for _, trade := range p.trades.ClosedTrades(pair, lookBackUntil) {
		if p.onlyPerSide && !trade.Side().Matches(side) {
			continue
		}
		relevant = append(relevant, trade)
		profit += trade.ProfitRatio
	}

	if len(relevant) < p.tradeLimit || profit >= p.requiredProfit {
		return nil
	}

	until, err := CalculateLockEnd(relevant, p.StopDurationMinutes)
	if err != nil || !until.After(now) {
		return nil
	}

	lockSide := types.SideBoth
	if p.onlyPerSide {
		lockSide = side
	}

	return &Result{
		Lock:   true,
		Until:  until,
		Reason: fmt.Sprintf("%.2f%% profit in %d trades on %s, locking for %s.", profit*100, len(relevant), pair, p.StopDurationDisplay()),
		Side:   lockSide,
	}
}
