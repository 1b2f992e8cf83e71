package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeKVsRedactsSecrets(t *testing.T) {
	got := sanitizeKVs([]interface{}{
		"api_key", "sk-123",
		"phase", "hooks",
		"Authorization", "Bearer abc",
		"dangling",
	})

	assert.Equal(t, []interface{}{
		"api_key", "[REDACTED]",
		"phase", "hooks",
		"Authorization", "[REDACTED]",
		"dangling",
	}, got)
}

func TestNopDoesNotPanic(t *testing.T) {
	log := Nop().With("component", "test")
	log.Info("hello", "n", 1)
	log.Sync()
}
