package types

import "time"

// Side identifies which direction of the market an entry, trade or lock
// applies to.
type Side string

const (
	SideLong  Side = "long"
	SideShort Side = "short"
	// SideBoth applies to both directions at once.
	SideBoth Side = "*"
)

// Matches reports whether a lock placed for s also covers other.
func (s Side) Matches(other Side) bool {
	return s == SideBoth || other == SideBoth || s == other
}

// Exit reasons recorded on closed trades.
const (
	ExitReasonStopLoss           = "stop_loss"
	ExitReasonTrailingStopLoss   = "trailing_stop_loss"
	ExitReasonStopLossOnExchange = "stoploss_on_exchange"
	ExitReasonLiquidation        = "liquidation"
	ExitReasonTakeProfit         = "take_profit"
	ExitReasonExitSignal         = "exit_signal"
)

// Trade represents a single (possibly still open) trade record as consumed
// by the protection engine. Close dates are always stored in UTC; adapters
// feeding this type are responsible for stamping zone-less exchange
// timestamps as UTC before they reach the core.
type Trade struct {
	// OrderID is the exchange identifier of the closing order, when known.
	// Stores use it to deduplicate re-ingested history.
	OrderID     string
	Pair        string
	IsShort     bool
	Amount      float64
	OpenDate    time.Time
	CloseDate   *time.Time
	ProfitRatio float64
	ProfitAbs   float64
	ExitReason  string
}

// IsClosed reports whether the trade has been closed.
func (t *Trade) IsClosed() bool {
	return t.CloseDate != nil
}

// Side returns the market direction of the trade.
func (t *Trade) Side() Side {
	if t.IsShort {
		return SideShort
	}
	return SideLong
}

// IsStoppedOut reports whether the trade was closed by a stoploss-type exit.
func (t *Trade) IsStoppedOut() bool {
	switch t.ExitReason {
	case ExitReasonStopLoss, ExitReasonTrailingStopLoss,
		ExitReasonStopLossOnExchange, ExitReasonLiquidation:
		return true
	default:
		return false
	}
}
