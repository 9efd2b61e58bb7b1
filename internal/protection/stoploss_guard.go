package protection

import (
	"fmt"
	"time"

	"github.com/ducminhle1904/crypto-protection-bot/pkg/config"
	"github.com/ducminhle1904/crypto-protection-bot/pkg/types"
)

// StoplossGuard halts entries once too many trades inside the lookback
// window were closed by a stoploss with a loss. Depending on only_per_pair
// it either locks the offending pair or all pairs; with only_per_side it
// locks just the losing direction.
type StoplossGuard struct {
	*Window
	trades         TradeSource
	tradeLimit     int
	onlyPerPair    bool
	onlyPerSide    bool
	requiredProfit float64
}

// NewStoplossGuard creates a stoploss guard from its config block.
// trade_limit defaults to 10.
func NewStoplossGuard(timeframe string, cfg config.ProtectionConfig, trades TradeSource, log WarnLogger) (*StoplossGuard, error) {
	window, err := NewWindow(timeframe, cfg, log)
	if err != nil {
		return nil, err
	}

	tradeLimit := cfg.TradeLimit
	if tradeLimit <= 0 {
		tradeLimit = 10
	}

	return &StoplossGuard{
		Window:         window,
		trades:         trades,
		tradeLimit:     tradeLimit,
		onlyPerPair:    cfg.OnlyPerPair,
		onlyPerSide:    cfg.OnlyPerSide,
		requiredProfit: cfg.RequiredProfit,
	}, nil
}

// Name returns the identifying name of the protection.
func (p *StoplossGuard) Name() string { return "StoplossGuard" }

// ShortDescription returns a one-line summary for startup logging.
func (p *StoplossGuard) ShortDescription() string {
	scope := "all pairs"
	if p.onlyPerPair {
		scope = "per pair"
	}
	return fmt.Sprintf("%s - Frequent Stoploss Guard, %d stoplosses with profit < %.2f%% within %s, locking %s for %s.",
		p.Name(), p.tradeLimit, p.requiredProfit*100, p.LookbackPeriodDisplay(), scope, p.StopDurationDisplay())
}

// HasGlobalStop reports whether this guard locks all pairs at once.
func (p *StoplossGuard) HasGlobalStop() bool { return !p.onlyPerPair }

// HasLocalStop reports whether this guard locks single pairs.
func (p *StoplossGuard) HasLocalStop() bool { return p.onlyPerPair }

// GlobalStop locks all pairs when the stoploss count across the whole
// history exceeds the trade limit.
func (p *StoplossGuard) GlobalStop(now time.Time, side types.Side) *Result {
	if p.onlyPerPair {
		return nil
	}
	return p.stoplossGuard("", now, side)
}

// StopPerPair locks a single pair when its own stoploss count exceeds the
// trade limit.
func (p *StoplossGuard) StopPerPair(pair string, now time.Time, side types.Side) *Result {
	if !p.onlyPerPair {
		return nil
	}
	return p.stoplossGuard(pair, now, side)
}

func (p *StoplossGuard) stoplossGuard(pair string, now time.Time, side types.Side) *Result {
	lookBackUntil := now.Add(-p.LookbackPeriod())

	var stoplosses []*types.Trade
	for _, trade := range p.trades.ClosedTrades(pair, lookBackUntil) {
		if !trade.IsStoppedOut() || trade.ProfitRatio >= p.requiredProfit {
			continue
		}
		if p.onlyPerSide && !trade.Side().Matches(side) {
			continue
		}
		stoplosses = append(stoplosses, trade)
	}

	if len(stoplosses) < p.tradeLimit {
		return nil
	}

	until, err := CalculateLockEnd(stoplosses, p.StopDurationMinutes)
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
		Reason: fmt.Sprintf("%d stoplosses in %s, locking for %s.", len(stoplosses), p.LookbackPeriodDisplay(), p.StopDurationDisplay()),
		Side:   lockSide,
	}
}
