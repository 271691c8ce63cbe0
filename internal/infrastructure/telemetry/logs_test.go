package telemetry

import (
	"context"
	"testing"

	"github.com/storefront/backend/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdklog "go.opentelemetry.io/otel/sdk/log"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest"
	"go.uber.org/zap/zaptest/observer"
)

func TestNewLoggerProvider_Disabled(t *testing.T) {
	lp, err := NewLoggerProvider(context.Background(), config.TelemetryConfig{
		Enabled:     true,
		LogsEnabled: false,
	}, zaptest.NewLogger(t))
	require.NoError(t, err)

	assert.False(t, lp.IsEnabled())
	assert.NoError(t, lp.Shutdown(context.Background()))

	base := zap.NewNop()
	assert.Same(t, base, lp.Bridge(base))
}

func TestLoggerProvider_BridgeKeepsBaseOutput(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	lp := &LoggerProvider{
		provider: sdklog.NewLoggerProvider(),
		logger:   zap.NewNop(),
		config:   config.TelemetryConfig{ServiceName: "storefront-test", LogsLevel: "warn"},
	}
	defer func() { _ = lp.Shutdown(context.Background()) }()

	bridged := lp.Bridge(zap.New(core))
	bridged.Debug("cart loaded")
	bridged.Warn("payment failed", zap.String("payment_intent_id", "pi_1"))

	require.Equal(t, 2, logs.Len())
	assert.Equal(t, "payment failed", logs.All()[1].Message)
}

func TestExportCore(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	filtered := exportCore(core, zapcore.WarnLevel)

	log := zap.New(filtered).With(zap.String("component", "checkout"))
	log.Info("dropped")
	log.Error("kept")

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, "kept", entry.Message)
	assert.Equal(t, "checkout", entry.ContextMap()["component"])
	assert.False(t, filtered.Enabled(zapcore.InfoLevel))
	assert.True(t, filtered.Enabled(zapcore.ErrorLevel))

	// a core that is already stricter is left alone
	strict, _ := observer.New(zapcore.ErrorLevel)
	assert.Same(t, strict, exportCore(strict, zapcore.DebugLevel))
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zapcore.DebugLevel, parseLevel("debug"))
	assert.Equal(t, zapcore.ErrorLevel, parseLevel("error"))
	assert.Equal(t, zapcore.InfoLevel, parseLevel("verbose"))
}
