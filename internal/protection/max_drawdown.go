package protection

import (
	"fmt"
	"sort"
	"time"

	"github.com/ducminhle1904/crypto-protection-bot/pkg/config"
	"github.com/ducminhle1904/crypto-protection-bot/pkg/types"
)

// MaxDrawdown halts entries on all pairs once the realized drawdown across
// the trades inside the lookback window exceeds the allowed maximum. It is
// a purely global protection.
type MaxDrawdown struct {
	*Window
	trades             TradeSource
	tradeLimit         int
	maxAllowedDrawdown float64
}

// NewMaxDrawdown creates a drawdown protection from its config block.
// trade_limit defaults to 1, max_allowed_drawdown to 0.2 (20%).
func NewMaxDrawdown(timeframe string, cfg config.ProtectionConfig, trades TradeSource, log WarnLogger) (*MaxDrawdown, error) {
	window, err := NewWindow(timeframe, cfg, log)
	if err != nil {
		return nil, err
	}

	tradeLimit := cfg.TradeLimit
	if tradeLimit <= 0 {
		tradeLimit = 1
	}
	maxDrawdown := cfg.MaxAllowedDrawdown
	if maxDrawdown <= 0 {
		maxDrawdown = 0.2
	}

	return &MaxDrawdown{
		Window:             window,
		trades:             trades,
		tradeLimit:         tradeLimit,
		maxAllowedDrawdown: maxDrawdown,
	}, nil
}

// Name returns the identifying name of the protection.
func (p *MaxDrawdown) Name() string { return "MaxDrawdown" }

// ShortDescription returns a one-line summary for startup logging.
func (p *MaxDrawdown) ShortDescription() string {
	return fmt.Sprintf("%s - Max drawdown protection, stop trading if drawdown is > %.2f%% within %s.",
		p.Name(), p.maxAllowedDrawdown*100, p.LookbackPeriodDisplay())
}

// HasGlobalStop reports that drawdown protection halts all pairs.
func (p *MaxDrawdown) HasGlobalStop() bool { return true }

// HasLocalStop reports that drawdown protection never locks single pairs.
func (p *MaxDrawdown) HasLocalStop() bool { return false }

// GlobalStop locks all pairs when realized drawdown over the lookback
// window exceeds the allowed maximum.
func (p *MaxDrawdown) GlobalStop(now time.Time, side types.Side) *Result {
	lookBackUntil := now.Add(-p.LookbackPeriod())
	trades := p.trades.ClosedTrades("", lookBackUntil)
	if len(trades) < p.tradeLimit {
		return nil
	}

	drawdown := realizedDrawdown(trades)
	if drawdown <= p.maxAllowedDrawdown {
		return nil
	}

	until, err := CalculateLockEnd(trades, p.StopDurationMinutes)
	if err != nil || !until.After(now) {
		return nil
	}

	return &Result{
		Lock:   true,
		Until:  until,
		Reason: fmt.Sprintf("%.2f%% drawdown in %d trades, locking for %s.", drawdown*100, len(trades), p.StopDurationDisplay()),
		Side:   types.SideBoth,
	}
}

// StopPerPair never locks; callers should consult HasLocalStop first.
func (p *MaxDrawdown) StopPerPair(pair string, now time.Time, side types.Side) *Result {
	return nil
}

// realizedDrawdown returns the largest peak-to-trough decline of the
// cumulative profit ratio over the trades, ordered by close date.
func realizedDrawdown(trades []*types.Trade) float64 {
	ordered := make([]*types.Trade, 0, len(trades))
	for _, trade := range trades {
		if trade.CloseDate != nil {
			ordered = append(ordered, trade)
		}
	}
	sortByCloseDate(ordered)

	var cumulative, peak, maxDrawdown float64
	for _, trade := range ordered {
		cumulative += trade.ProfitRatio
		if cumulative > peak {
			peak = cumulative
		}
		if dd := peak - cumulative; dd > maxDrawdown {
			maxDrawdown = dd
		}
	}
	return maxDrawdown
}

func sortByCloseDate(trades []*types.Trade) {
	sort.Slice(trades, func(i, j int) bool {
		return trades[i].CloseDate.Before(*trades[j].CloseDate)
	})
}
