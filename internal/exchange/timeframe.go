package exchange

import (
	"strconv"
	"strings"

	"github.com/ducminhle1904/crypto-protection-bot/internal/errors"
)

// TimeframeToMinutes converts timeframe strings like "5m", "1h", "4h", "1d"
// to the number of minutes per candle. Unlike loose interval parsing used
// for file lookups, a malformed timeframe is a configuration error: the bot
// must not start with a window it cannot resolve.
func TimeframeToMinutes(timeframe string) (int, error) {
	tf := strings.ToLower(strings.TrimSpace(timeframe))
	if len(tf) < 2 {
		return 0, errors.NewConfigurationError("exchange", "timeframe_to_minutes",
			"invalid timeframe "+strconv.Quote(timeframe))
	}

	numStr := tf[:len(tf)-1]
	unit := tf[len(tf)-1:]

	num, err := strconv.Atoi(numStr)
	if err != nil || num <= 0 {
		return 0, errors.NewConfigurationError("exchange", "timeframe_to_minutes",
			"invalid timeframe "+strconv.Quote(timeframe))
	}

	switch unit {
	case "m":
		return num, nil
	case "h":
		return num * 60, nil
	case "d":
		return num * 24 * 60, nil
	case "w":
		return num * 7 * 24 * 60, nil
	default:
		return 0, errors.NewConfigurationError("exchange", "timeframe_to_minutes",
			"invalid timeframe "+strconv.Quote(timeframe))
	}
}
