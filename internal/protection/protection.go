// Package protection implements temporary halts of new trade entries,
// either globally or per pair, based on recent trading history and a
// configurable cooldown window.
package protection

import (
	"time"

	"github.com/ducminhle1904/crypto-protection-bot/pkg/types"
)

// Result describes a single lock decision: whether to lock, until when,
// why, and which side it applies to. A nil *Result means "no lock".
// When Lock is true, Until must be strictly after the evaluation instant
// that produced it; that is the producing protection's responsibility.
type Result struct {
	Lock   bool
	Until  time.Time
	Reason string
	Side   types.Side
}

// Protection is the contract every protection strategy implements.
//
// GlobalStop and StopPerPair must be stable over the whole announced lock
// window: re-invoking at any instant before Until with the same underlying
// history has to yield a consistent answer. Implementations hold only
// read-only state fixed at construction, so they are safe to call
// concurrently across pairs.
type Protection interface {
	// Name returns the identifying name of the protection.
	Name() string

	// ShortDescription returns a one-line summary for startup logging.
	ShortDescription() string

	// HasGlobalStop reports whether GlobalStop is implemented meaningfully.
	// The caller consults this before invoking GlobalStop.
	HasGlobalStop() bool

	// HasLocalStop reports whether StopPerPair is implemented meaningfully.
	HasLocalStop() bool

	// GlobalStop decides whether to halt entries across all pairs.
	GlobalStop(now time.Time, side types.Side) *Result

	// StopPerPair decides whether to halt entries for a single pair.
	StopPerPair(pair string, now time.Time, side types.Side) *Result
}

// TradeSource supplies the closed-trade history a protection analyzes.
// Implementations must return trades with UTC close dates; zone-less
// exchange or database timestamps are stamped as UTC at that boundary.
type TradeSource interface {
	// ClosedTrades returns trades closed at or after the given instant.
	// An empty pair matches all pairs.
	ClosedTrades(pair string, closedSince time.Time) []*types.Trade
}

// WarnLogger receives the rate-limited diagnostics a protection emits
// during construction.
type WarnLogger interface {
	WarnThrottled(key, format string, args ...interface{}) bool
}
