package store

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ducminhle1904/crypto-protection-bot/internal/protection"
	"github.com/ducminhle1904/crypto-protection-bot/pkg/config"
	"github.com/ducminhle1904/crypto-protection-bot/pkg/types"
)

func addClosed(s *TradeStore, pair string, closeDate time.Time, profit float64) {
	s.Add(&types.Trade{
		Pair:        pair,
		OpenDate:    closeDate.Add(-time.Hour),
		CloseDate:   &closeDate,
		ProfitRatio: profit,
	})
}

// TestTradeStore_ClosedTradesFiltering tests pair and close-date filtering
func TestTradeStore_ClosedTradesFiltering(t *testing.T) {
	s := NewTradeStore()
	base := time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)

	addClosed(s, "BTCUSDT", base.Add(-10*time.Minute), 0.01)
	addClosed(s, "BTCUSDT", base.Add(-2*time.Hour), -0.02)
	addClosed(s, "ETHUSDT", base.Add(-5*time.Minute), 0.03)
	s.Add(&types.Trade{Pair: "BTCUSDT", OpenDate: base}) // open trade

	assert.Equal(t, 4, s.Len())

	recent := s.ClosedTrades("", base.Add(-30*time.Minute))
	assert.Len(t, recent, 2)

	btc := s.ClosedTrades("BTCUSDT", base.Add(-30*time.Minute))
	require.Len(t, btc, 1)
	assert.Equal(t, 0.01, btc[0].ProfitRatio)

	all := s.ClosedTrades("BTCUSDT", base.Add(-24*time.Hour))
	assert.Len(t, all, 2)
}

// TestTradeStore_NormalizesToUTC tests that zoned timestamps are stored in UTC
func TestTradeStore_NormalizesToUTC(t *testing.T) {
	s := NewTradeStore()
	zone := time.FixedZone("UTC+7", 7*3600)
	closeDate := time.Date(2024, 6, 15, 19, 0, 0, 0, zone) // 12:00 UTC

	s.Add(&types.Trade{
		Pair:      "BTCUSDT",
		OpenDate:  closeDate.Add(-time.Hour),
		CloseDate: &closeDate,
	})

	trades := s.ClosedTrades("BTCUSDT", time.Date(2024, 6, 15, 11, 0, 0, 0, time.UTC))
	require.Len(t, trades, 1)
	assert.Equal(t, time.UTC, trades[0].CloseDate.Location())
	assert.Equal(t, time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC), *trades[0].CloseDate)
}

// TestTradeStore_UpsertsByOrderID tests that re-ingesting the same exchange
// order replaces the stored record instead of duplicating it
func TestTradeStore_UpsertsByOrderID(t *testing.T) {
	s := NewTradeStore()
	closeDate := time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)

	for i := 0; i < 3; i++ {
		s.Add(&types.Trade{
			OrderID:     "order-1",
			Pair:        "BTCUSDT",
			CloseDate:   &closeDate,
			ProfitRatio: -0.05,
		})
	}
	s.Add(&types.Trade{
		OrderID:     "order-2",
		Pair:        "BTCUSDT",
		CloseDate:   &closeDate,
		ProfitRatio: 0.01,
	})
	// Records without an order ID still append.
	addClosed(s, "BTCUSDT", closeDate, 0.02)
	addClosed(s, "BTCUSDT", closeDate, 0.03)

	assert.Equal(t, 4, s.Len())
}

// TestTradeStore_RefreshDoesNotTripGuards tests that periodic re-ingestion
// of the same closed orders cannot push a count-based protection over its
// trade limit
func TestTradeStore_RefreshDoesNotTripGuards(t *testing.T) {
	s := NewTradeStore()
	now := time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)

	guard, err := protection.New("5m", config.ProtectionConfig{
		Method:     "StoplossGuard",
		TradeLimit: 3,
	}, s, nil)
	require.NoError(t, err)

	stoploss := func(orderID string) *types.Trade {
		closeDate := now.Add(-10 * time.Minute)
		return &types.Trade{
			OrderID:     orderID,
			Pair:        "BTCUSDT",
			CloseDate:   &closeDate,
			ProfitRatio: -0.05,
			ExitReason:  types.ExitReasonStopLoss,
		}
	}

	// Three refresh ticks each re-deliver the same closed order.
	for i := 0; i < 3; i++ {
		s.Add(stoploss("order-1"))
	}
	assert.Nil(t, guard.GlobalStop(now, types.SideLong))

	// Three distinct stoplosses still engage the lock.
	s.Add(stoploss("order-2"))
	s.Add(stoploss("order-3"))
	result := guard.GlobalStop(now, types.SideLong)
	require.NotNil(t, result)
	assert.True(t, result.Lock)
}

// TestTradeStore_AddCopies tests that callers cannot mutate stored records
func TestTradeStore_AddCopies(t *testing.T) {
	s := NewTradeStore()
	closeDate := time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)
	trade := &types.Trade{Pair: "BTCUSDT", CloseDate: &closeDate, ProfitRatio: 0.01}

	s.Add(trade)
	trade.ProfitRatio = -0.99

	stored := s.ClosedTrades("BTCUSDT", closeDate.Add(-time.Minute))
	require.Len(t, stored, 1)
	assert.Equal(t, 0.01, stored[0].ProfitRatio)
}
