package store

import (
	"sync"
	"time"

	"github.com/ducminhle1904/crypto-protection-bot/internal/monitoring"
	"github.com/ducminhle1904/crypto-protection-bot/internal/protection"
	"github.com/ducminhle1904/crypto-protection-bot/pkg/types"
)

// GlobalLockPair marks a lock that applies to every pair.
const GlobalLockPair = "*"

// PairLock is one active entry lock produced by a protection.
type PairLock struct {
	Pair       string // "*" for global locks
	Side       types.Side
	Until      time.Time
	Reason     string
	Protection string
	CreatedAt  time.Time
}

// Active reports whether the lock still applies at the given instant.
func (l *PairLock) Active(now time.Time) bool {
	return l.Until.After(now)
}

// Covers reports whether the lock blocks an entry for pair/side at now.
func (l *PairLock) Covers(pair string, side types.Side, now time.Time) bool {
	if !l.Active(now) {
		return false
	}
	if l.Pair != GlobalLockPair && l.Pair != pair {
		return false
	}
	return l.Side.Matches(side)
}

// LockRegistry stores the locks produced by protection evaluations and
// answers "is this pair currently locked" for the entry path.
type LockRegistry struct {
	mu      sync.RWMutex
	locks   []*PairLock
	history []*PairLock
}

// NewLockRegistry creates an empty lock registry.
func NewLockRegistry() *LockRegistry {
	return &LockRegistry{}
}

// AddPairLock records a per-pair lock from a protection result.
func (r *LockRegistry) AddPairLock(pair, protectionName string, result *protection.Result) {
	r.add(pair, protectionName, "pair", result)
}

// AddGlobalLock records an all-pairs lock from a protection result.
func (r *LockRegistry) AddGlobalLock(protectionName string, result *protection.Result) {
	r.add(GlobalLockPair, protectionName, "global", result)
}

func (r *LockRegistry) add(pair, protectionName, scope string, result *protection.Result) {
	if result == nil || !result.Lock {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	// Refresh instead of stacking duplicates for the same producer.
	for _, lock := range r.locks {
		if lock.Pair == pair && lock.Protection == protectionName && lock.Side == result.Side {
			if result.Until.After(lock.Until) {
				lock.Until = result.Until
				lock.Reason = result.Reason
			}
			return
		}
	}

	lock := &PairLock{
		Pair:       pair,
		Side:       result.Side,
		Until:      result.Until,
		Reason:     result.Reason,
		Protection: protectionName,
		CreatedAt:  time.Now().UTC(),
	}
	r.locks = append(r.locks, lock)
	r.history = append(r.history, lock)
	monitoring.RecordLock(protectionName, string(result.Side), scope)
}

// IsPairLocked reports whether entries for pair/side are blocked at now,
// by either a pair lock or a global lock.
func (r *LockRegistry) IsPairLocked(pair string, side types.Side, now time.Time) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, lock := range r.locks {
		if lock.Covers(pair, side, now) {
			return true
		}
	}
	return false
}

// IsGlobalLocked reports whether an all-pairs lock is active for side.
func (r *LockRegistry) IsGlobalLocked(side types.Side, now time.Time) bool {
	return r.IsPairLocked(GlobalLockPair, side, now)
}

// Active returns all locks still in force at now. Returned entries are
// copies: the registry mutates its own records on refresh, so readers must
// never share them.
func (r *LockRegistry) Active(now time.Time) []*PairLock {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var active []*PairLock
	for _, lock := range r.locks {
		if lock.Active(now) {
			copied := *lock
			active = append(active, &copied)
		}
	}
	return active
}

// All returns every lock ever recorded, including expired and pruned ones,
// as copies. Used for reporting.
func (r *LockRegistry) All() []*PairLock {
	r.mu.RLock()
	defer r.mu.RUnlock()

	all := make([]*PairLock, 0, len(r.history))
	for _, lock := range r.history {
		copied := *lock
		all = append(all, &copied)
	}
	return all
}

// Prune drops expired locks and updates the active-locks gauge.
func (r *LockRegistry) Prune(now time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()

	kept := r.locks[:0]
	for _, lock := range r.locks {
		if lock.Active(now) {
			kept = append(kept, lock)
		}
	}
	r.locks = kept
	monitoring.SetActiveLocks(len(r.locks))
}
