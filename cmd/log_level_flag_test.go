package cmd

import (
	"bytes"
	"log/slog"
	"testing"

	flag "github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLevelFlag(t *testing.T) {
	testcases := []struct {
		value   string
		want    slog.Level
		wantErr bool
	}{
		{value: "debug", want: slog.LevelDebug},
		{value: "info", want: slog.LevelInfo},
		{value: "WARN", want: slog.LevelWarn},
		{value: "error", want: slog.LevelError},
		{value: "trace", wantErr: true},
	}

	for _, tc := range testcases {
		t.Run(tc.value, func(t *testing.T) {
			l := LevelFlag(slog.LevelInfo)
			fs := flag.NewFlagSet("test", flag.ContinueOnError)
			fs.Var(&l, "log-level", "")

			err := fs.Parse([]string{"--log-level", tc.value})
			if tc.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, l.Level())
			assert.Equal(t, tc.want, l.Get())
		})
	}
}

func TestLevelFlagLogger(t *testing.T) {
	l := LevelFlag(slog.LevelWarn)
	buf := &bytes.Buffer{}
	logger := l.NewLogger(buf)

	logger.Info("hidden")
	logger.Warn("shown")
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")

	require.NoError(t, l.Set("debug"))
	logger.Debug("now visible")
	assert.Contains(t, buf.String(), "now visible")
}
