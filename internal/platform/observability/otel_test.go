package observability

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, logLevel("debug"))
	assert.Equal(t, slog.LevelWarn, logLevel(" WARN "))
	assert.Equal(t, slog.LevelInfo, logLevel(""))
	assert.Equal(t, slog.LevelInfo, logLevel("loud"))
}

func TestNilInstrumentsFallBack(t *testing.T) {
	var instruments *Instruments
	assert.NotNil(t, instruments.Tracer("test"))
	assert.NotNil(t, instruments.Meter("test"))
}

func TestNewMeterProviderWithoutCollector(t *testing.T) {
	t.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", "")
	mp, err := newMeterProvider(context.Background(), nil, slog.Default())
	require.NoError(t, err)
	require.NoError(t, mp.Shutdown(context.Background()))
}
