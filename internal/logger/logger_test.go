package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestSessionTokenIsHashed(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	log := Wrap(zap.New(core))

	log.Info("cart resolved", "session_token", "secret-token", "cart_id", "42")

	require.Equal(t, 1, logs.Len())
	fields := logs.All()[0].ContextMap()

	assert.NotEqual(t, "secret-token", fields["session_token"])
	assert.Contains(t, fields["session_token"], "sha256:")
	assert.Equal(t, "42", fields["cart_id"])
}

func TestSanitizeKVsOddLength(t *testing.T) {
	out := sanitizeKVs([]interface{}{"a", 1, "dangling"})
	assert.Equal(t, []interface{}{"a", 1, "dangling"}, out)
}

func TestHashValueEmpty(t *testing.T) {
	assert.Equal(t, "", hashValue(""))
	assert.Equal(t, hashValue("x"), hashValue("x"))
}

func TestNew(t *testing.T) {
	for _, mode := range []string{"dev", "production"} {
		log, err := New(mode)
		require.NoError(t, err)
		log.With("mode", mode).Debug("ok")
	}
}
