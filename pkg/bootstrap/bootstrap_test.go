package bootstrap

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/abgdnv/xmlcatalog/pkg/config"
	"github.com/abgdnv/xmlcatalog/pkg/messaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_toLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, toLevel("debug"))
	assert.Equal(t, slog.LevelWarn, toLevel("warn"))
	assert.Equal(t, slog.LevelError, toLevel("error"))
	assert.Equal(t, slog.LevelInfo, toLevel("info"))
	assert.Equal(t, slog.LevelInfo, toLevel(""))
}

func Test_NewLoggerTo(t *testing.T) {
	testCases := []struct {
		name     string
		cfg      config.LogConfig
		expected string
	}{
		{name: "json", cfg: config.LogConfig{Level: "info", Format: "json"}, expected: `"msg":"hello"`},
		{name: "text", cfg: config.LogConfig{Level: "info", Format: "text"}, expected: "msg=hello"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var buf bytes.Buffer
			NewLoggerTo(&buf, tc.cfg).Info("hello")
			assert.Contains(t, buf.String(), tc.expected)
		})
	}
}

func Test_NewLoggerTo_FiltersByLevel(t *testing.T) {
	var buf bytes.Buffer
	log := NewLoggerTo(&buf, config.LogConfig{Level: "warn", Format: "json"})

	log.Info("dropped")
	log.Warn("kept")

	assert.False(t, strings.Contains(buf.String(), "dropped"))
	assert.Contains(t, buf.String(), "kept")
}

func Test_NewPublisher_Disabled(t *testing.T) {
	log := slog.New(slog.NewJSONHandler(io.Discard, nil))

	publisher, closeFn, err := NewPublisher(context.Background(), config.NATSConfig{}, log)

	require.NoError(t, err)
	require.NotNil(t, closeFn)
	closeFn()
	assert.IsType(t, messaging.NoopPublisher{}, publisher)
}
