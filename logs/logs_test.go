package logs

import (
	"testing"

	logging "github.com/ipfs/go-log/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestSetAllLoggers(t *testing.T) {
	relayLog := logging.Logger("relay")
	pubsubLog := logging.Logger("pubsub")
	t.Cleanup(func() {
		logging.SetAllLoggers(logging.LevelError)
	})

	SetAllLoggers(logging.LevelDebug)
	assert.True(t, relayLog.Desugar().Core().Enabled(zapcore.DebugLevel))
	assert.False(t, pubsubLog.Desugar().Core().Enabled(zapcore.InfoLevel))

	// quieter levels than the libp2p ones apply everywhere
	SetAllLoggers(logging.LevelError)
	assert.False(t, pubsubLog.Desugar().Core().Enabled(zapcore.WarnLevel))
}

func TestSetRelayLoggers(t *testing.T) {
	relayLog := logging.Logger("relay")
	storeLog := logging.Logger("store")
	pubsubLog := logging.Logger("pubsub")
	t.Cleanup(func() {
		logging.SetAllLoggers(logging.LevelError)
	})
	logging.SetAllLoggers(logging.LevelError)

	require.NoError(t, SetRelayLoggers("debug"))
	assert.True(t, relayLog.Desugar().Core().Enabled(zapcore.DebugLevel))
	assert.True(t, storeLog.Desugar().Core().Enabled(zapcore.DebugLevel))
	assert.False(t, pubsubLog.Desugar().Core().Enabled(zapcore.WarnLevel))

	require.Error(t, SetRelayLoggers("loud"))
}
