// Package store holds the in-memory trade history and the registry of
// active pair locks.
package store

import (
	"sync"
	"time"

	"github.com/ducminhle1904/crypto-protection-bot/pkg/types"
)

// TradeStore is an in-memory trade history. It normalizes every timestamp
// to UTC on insert, so protections downstream never see mixed zones.
type TradeStore struct {
	mu     sync.RWMutex
	trades []*types.Trade
	byID   map[string]int
}

// NewTradeStore creates an empty trade store.
func NewTradeStore() *TradeStore {
	return &TradeStore{byID: make(map[string]int)}
}

// Add inserts a trade record, normalizing its timestamps to UTC. Records
// carrying an order ID are upserted: re-ingesting the same exchange order
// replaces the stored record instead of duplicating it, so periodic
// history refreshes never inflate trade counts downstream.
func (s *TradeStore) Add(trade *types.Trade) {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored := *trade
	stored.OpenDate = stored.OpenDate.UTC()
	if stored.CloseDate != nil {
		closeDate := stored.CloseDate.UTC()
		stored.CloseDate = &closeDate
	}

	if stored.OrderID != "" {
		if i, ok := s.byID[stored.OrderID]; ok {
			s.trades[i] = &stored
			return
		}
		s.byID[stored.OrderID] = len(s.trades)
	}
	s.trades = append(s.trades, &stored)
}

// ClosedTrades returns trades closed at or after the given instant. An
// empty pair matches all pairs.
func (s *TradeStore) ClosedTrades(pair string, closedSince time.Time) []*types.Trade {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*types.Trade
	for _, trade := range s.trades {
		if trade.CloseDate == nil || trade.CloseDate.Before(closedSince) {
			continue
		}
		if pair != "" && trade.Pair != pair {
			continue
		}
		result = append(result, trade)
	}
	return result
}

// Len returns the number of stored trades.
func (s *TradeStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.trades)
}
