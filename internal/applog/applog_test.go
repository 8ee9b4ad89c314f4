package applog

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNew_ReturnsNonNilLogger(t *testing.T) {
	t.Parallel()

	logger := New(slog.LevelInfo)
	assert.NotNil(t, logger)
}

func TestLevelFromName(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"error", slog.LevelError},
		{"nonsense", slog.LevelWarn},
		{"", slog.LevelWarn},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.want, LevelFromName(tc.name))
		})
	}
}

func TestResolveLevel_ConfigBaseline(t *testing.T) {
	t.Parallel()

	assert.Equal(t, slog.LevelDebug, ResolveLevel("debug", false, false, false))
}

func TestResolveLevel_FlagsOverrideConfigInPriorityOrder(t *testing.T) {
	t.Parallel()

	assert.Equal(t, slog.LevelInfo, ResolveLevel("error", true, false, false))
	assert.Equal(t, slog.LevelDebug, ResolveLevel("error", true, true, false))
	assert.Equal(t, slog.LevelError, ResolveLevel("debug", true, true, true))
}
