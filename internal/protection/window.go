package protection

import (
	"fmt"
	"time"

	"github.com/ducminhle1904/crypto-protection-bot/internal/errors"
	"github.com/ducminhle1904/crypto-protection-bot/internal/exchange"
	"github.com/ducminhle1904/crypto-protection-bot/pkg/config"
	"github.com/ducminhle1904/crypto-protection-bot/pkg/types"
	"github.com/ducminhle1904/crypto-protection-bot/pkg/utils"
)

// unlockAtLayout is the wall-clock format accepted for unlock_at.
const unlockAtLayout = "15:04"

// Window holds the time-window state shared by every protection: how long
// a lock lasts, how far back history is examined, and an optional fixed
// daily unlock time. It is resolved once from config at construction and
// never mutated afterwards, so concrete protections can embed it and stay
// safe for concurrent evaluation.
type Window struct {
	TimeframeMinutes      int
	StopDurationMinutes   int
	StopDurationCandles   int // 0 when configured in minutes
	LookbackPeriodMinutes int
	LookbackPeriodCandles int // 0 when configured in minutes
	UnlockAt              *time.Time
}

// NewWindow resolves the window state for a protection from the global
// timeframe and its own config block.
//
// Candle-based keys take precedence over minute-based ones when both are
// present. When unlock_at is configured, the stop duration is recomputed
// as the span from now until the next occurrence of that wall-clock time;
// when it is absent a throttled warning is emitted and the configured
// duration is kept.
func NewWindow(timeframe string, cfg config.ProtectionConfig, log WarnLogger) (*Window, error) {
	tf, err := exchange.TimeframeToMinutes(timeframe)
	if err != nil {
		return nil, err
	}

	w := &Window{TimeframeMinutes: tf}

	if cfg.StopDurationCandles != nil {
		w.StopDurationCandles = *cfg.StopDurationCandles
		w.StopDurationMinutes = tf * w.StopDurationCandles
	} else if cfg.StopDuration != nil {
		w.StopDurationMinutes = *cfg.StopDuration
	} else {
		w.StopDurationMinutes = 60
	}

	if cfg.LookbackPeriodCandles != nil {
		w.LookbackPeriodCandles = *cfg.LookbackPeriodCandles
		w.LookbackPeriodMinutes = tf * w.LookbackPeriodCandles
	} else if cfg.LookbackPeriod != nil {
		w.LookbackPeriodMinutes = *cfg.LookbackPeriod
	} else {
		w.LookbackPeriodMinutes = 60
	}

	if cfg.UnlockAt != nil {
		unlockAt, minutes, err := CalculateUnlockAt(*cfg.UnlockAt, time.Now().UTC())
		if err != nil {
			return nil, errors.WrapError(err, errors.ErrorCategoryConfiguration,
				"protection", "resolve_window")
		}
		w.UnlockAt = &unlockAt
		w.StopDurationMinutes = minutes
	} else if log != nil {
		log.WarnThrottled("unlock_at_missing",
			"Couldn't update the stop duration, because unlock_at is not set in the protection config.")
	}

	return w, nil
}

// StopDuration returns the resolved cooldown length as a duration.
func (w *Window) StopDuration() time.Duration {
	return time.Duration(w.StopDurationMinutes) * time.Minute
}

// LookbackPeriod returns the resolved lookback length as a duration.
func (w *Window) LookbackPeriod() time.Duration {
	return time.Duration(w.LookbackPeriodMinutes) * time.Minute
}

// StopDurationDisplay renders the configured stop duration in either
// candles or minutes.
func (w *Window) StopDurationDisplay() string {
	if w.StopDurationCandles > 0 {
		return fmt.Sprintf("%d %s", w.StopDurationCandles,
			utils.Plural(w.StopDurationCandles, "candle", "candles"))
	}
	return fmt.Sprintf("%d %s", w.StopDurationMinutes,
		utils.Plural(w.StopDurationMinutes, "minute", "minutes"))
}

// LookbackPeriodDisplay renders the configured lookback period in either
// candles or minutes.
func (w *Window) LookbackPeriodDisplay() string {
	if w.LookbackPeriodCandles > 0 {
		return fmt.Sprintf("%d %s", w.LookbackPeriodCandles,
			utils.Plural(w.LookbackPeriodCandles, "candle", "candles"))
	}
	return fmt.Sprintf("%d %s", w.LookbackPeriodMinutes,
		utils.Plural(w.LookbackPeriodMinutes, "minute", "minutes"))
}

// UnlockAtDisplay renders the configured unlock time as "HH:MM", or an
// empty string when no fixed unlock time is set.
func (w *Window) UnlockAtDisplay() string {
	if w.UnlockAt == nil {
		return ""
	}
	return w.UnlockAt.Format(unlockAtLayout)
}

// CalculateUnlockAt parses an "HH:MM" wall-clock time in UTC and resolves
// it to its next occurrence relative to now: today when the time-of-day is
// still ahead, tomorrow otherwise. Day rollover uses calendar-correct date
// arithmetic, so month and year boundaries are handled. It returns the
// absolute unlock instant and the whole-minute span until it.
func CalculateUnlockAt(value string, now time.Time) (time.Time, int, error) {
	parsed, err := time.Parse(unlockAtLayout, value)
	if err != nil {
		return time.Time{}, 0, fmt.Errorf("invalid unlock_at value %q, expected HH:MM: %w", value, err)
	}

	now = now.UTC()
	unlockAt := time.Date(now.Year(), now.Month(), now.Day(),
		parsed.Hour(), parsed.Minute(), 0, 0, time.UTC)

	if timeOfDay(unlockAt) < timeOfDay(now) {
		unlockAt = unlockAt.AddDate(0, 0, 1)
	}

	return unlockAt, CalculateTimespan(now, unlockAt), nil
}

// timeOfDay returns the wall-clock offset since midnight.
func timeOfDay(t time.Time) time.Duration {
	return time.Duration(t.Hour())*time.Hour +
		time.Duration(t.Minute())*time.Minute +
		time.Duration(t.Second())*time.Second
}

// CalculateLockEnd returns the lock expiry for a set of trades: the latest
// close date plus stopMinutes. At least one closed trade is required;
// trade adapters guarantee close dates are already UTC.
func CalculateLockEnd(trades []*types.Trade, stopMinutes int) (time.Time, error) {
	var maxDate time.Time
	for _, trade := range trades {
		if trade.CloseDate == nil {
			continue
		}
		if trade.CloseDate.After(maxDate) {
			maxDate = *trade.CloseDate
		}
	}
	if maxDate.IsZero() {
		return time.Time{}, errors.NewValidationError("protection", "calculate_lock_end",
			"no closed trades to derive a lock end from")
	}
	return maxDate.Add(time.Duration(stopMinutes) * time.Minute), nil
}

// CalculateTimespan returns the whole-minute span between two instants,
// truncated toward zero.
func CalculateTimespan(start, end time.Time) int {
	return int(end.Sub(start) / time.Minute)
}
