package exchange

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestTimeframeToMinutes_ValidTimeframes tests conversion of supported timeframe strings
func TestTimeframeToMinutes_ValidTimeframes(t *testing.T) {
	tests := []struct {
		timeframe string
		expected  int
	}{
		{"1m", 1},
		{"5m", 5},
		{"15m", 15},
		{"1h", 60},
		{"4h", 240},
		{"1d", 1440},
		{"1w", 10080},
		{"1H", 60}, // case-insensitive
		{" 5m ", 5},
	}

	for _, tt := range tests {
		minutes, err := TimeframeToMinutes(tt.timeframe)
		assert.NoError(t, err, "timeframe %q", tt.timeframe)
		assert.Equal(t, tt.expected, minutes, "timeframe %q", tt.timeframe)
	}
}

// TestTimeframeToMinutes_MalformedTimeframes tests that malformed input fails
func TestTimeframeToMinutes_MalformedTimeframes(t *testing.T) {
	for _, timeframe := range []string{"", "m", "60", "1x", "h1", "-5m", "0m", "1.5h"} {
		_, err := TimeframeToMinutes(timeframe)
		assert.Error(t, err, "timeframe %q should be rejected", timeframe)
	}
}
