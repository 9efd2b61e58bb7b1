package protection

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ducminhle1904/crypto-protection-bot/pkg/config"
	"github.com/ducminhle1904/crypto-protection-bot/pkg/types"
)

func maxDrawdownConfig(tradeLimit int, maxDrawdown float64) config.ProtectionConfig {
	return config.ProtectionConfig{
		Method:             "MaxDrawdown",
		LookbackPeriod:     intPtr(120),
		StopDuration:       intPtr(60),
		TradeLimit:         tradeLimit,
		MaxAllowedDrawdown: maxDrawdown,
	}
}

// TestMaxDrawdown_CapabilityFlags tests that drawdown protection is global-only
func TestMaxDrawdown_CapabilityFlags(t *testing.T) {
	p, err := NewMaxDrawdown("5m", maxDrawdownConfig(1, 0.1), &stubTrades{}, nil)
	require.NoError(t, err)

	assert.True(t, p.HasGlobalStop())
	assert.False(t, p.HasLocalStop())
	assert.Nil(t, p.StopPerPair("BTCUSDT", testNow, types.SideLong))
}

// TestMaxDrawdown_LocksOnExcessiveDrawdown tests the global lock when losses pile up
func TestMaxDrawdown_LocksOnExcessiveDrawdown(t *testing.T) {
	trades := &stubTrades{trades: []*types.Trade{
		closedTrade("BTCUSDT", 90*time.Minute, 0.05, types.ExitReasonTakeProfit, testNow),
		closedTrade("ETHUSDT", 60*time.Minute, -0.08, types.ExitReasonStopLoss, testNow),
		closedTrade("SOLUSDT", 30*time.Minute, -0.07, types.ExitReasonStopLoss, testNow),
	}}
	p, err := NewMaxDrawdown("5m", maxDrawdownConfig(3, 0.1), trades, nil)
	require.NoError(t, err)

	result := p.GlobalStop(testNow, types.SideLong)
	require.NotNil(t, result)
	assert.True(t, result.Lock)
	assert.Equal(t, types.SideBoth, result.Side)
	// Latest close was 30 minutes ago, stop duration 60 minutes.
	assert.Equal(t, testNow.Add(30*time.Minute), result.Until)
}

// TestMaxDrawdown_WithinAllowance tests that a tolerable drawdown does not lock
func TestMaxDrawdown_WithinAllowance(t *testing.T) {
	trades := &stubTrades{trades: []*types.Trade{
		closedTrade("BTCUSDT", 90*time.Minute, 0.05, types.ExitReasonTakeProfit, testNow),
		closedTrade("ETHUSDT", 60*time.Minute, -0.04, types.ExitReasonStopLoss, testNow),
	}}
	p, err := NewMaxDrawdown("5m", maxDrawdownConfig(2, 0.1), trades, nil)
	require.NoError(t, err)

	assert.Nil(t, p.GlobalStop(testNow, types.SideLong))
}

// TestMaxDrawdown_BelowTradeLimit tests that too few trades never lock
func TestMaxDrawdown_BelowTradeLimit(t *testing.T) {
	trades := &stubTrades{trades: []*types.Trade{
		closedTrade("BTCUSDT", 30*time.Minute, -0.5, types.ExitReasonStopLoss, testNow),
	}}
	p, err := NewMaxDrawdown("5m", maxDrawdownConfig(2, 0.1), trades, nil)
	require.NoError(t, err)

	assert.Nil(t, p.GlobalStop(testNow, types.SideLong))
}

// TestRealizedDrawdown tests the peak-to-trough computation over close-date order
func TestRealizedDrawdown(t *testing.T) {
	trades := []*types.Trade{
		// Inserted out of order on purpose; drawdown follows close dates.
		closedTrade("C", 30*time.Minute, -0.07, types.ExitReasonStopLoss, testNow),
		closedTrade("A", 90*time.Minute, 0.05, types.ExitReasonTakeProfit, testNow),
		closedTrade("B", 60*time.Minute, -0.08, types.ExitReasonStopLoss, testNow),
	}

	// Peak 0.05, trough 0.05-0.08-0.07 = -0.10, drawdown 0.15.
	assert.InDelta(t, 0.15, realizedDrawdown(trades), 1e-9)
}
