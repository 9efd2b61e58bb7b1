package protection

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ducminhle1904/crypto-protection-bot/pkg/config"
)

// TestNew_AllMethods tests that every known method constructs with its name intact
func TestNew_AllMethods(t *testing.T) {
	for _, method := range []string{"CooldownPeriod", "StoplossGuard", "MaxDrawdown", "LowProfitPairs"} {
		p, err := New("5m", config.ProtectionConfig{Method: method}, &stubTrades{}, nil)
		require.NoError(t, err, "method %s", method)
		assert.Equal(t, method, p.Name())
		assert.NotEmpty(t, p.ShortDescription())
		// Every protection implements exactly one meaningful stop scope by default.
		assert.True(t, p.HasGlobalStop() != p.HasLocalStop(), "method %s", method)
	}
}

// TestNew_UnknownMethod tests the configuration error for unknown methods
func TestNew_UnknownMethod(t *testing.T) {
	_, err := New("5m", config.ProtectionConfig{Method: "TimeTravel"}, &stubTrades{}, nil)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "TimeTravel")
}

// TestNew_InvalidTimeframePropagates tests that window resolution failures fail construction
func TestNew_InvalidTimeframePropagates(t *testing.T) {
	_, err := New("bogus", config.ProtectionConfig{Method: "CooldownPeriod"}, &stubTrades{}, nil)
	assert.Error(t, err)
}
