package types

import (
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    logrus.Level
		wantErr bool
	}{
		{"DEBUG", logrus.DebugLevel, false},
		{"debug", logrus.DebugLevel, false},
		{"", logrus.InfoLevel, false},
		{"info", logrus.InfoLevel, false},
		{"warning", logrus.WarnLevel, false},
		{"ERROR", logrus.ErrorLevel, false},
		{"loud", logrus.InfoLevel, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseLevel(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNewLoggerWritesToFile(t *testing.T) {
	file := filepath.Join(t.TempDir(), "console.log")

	logger, err := NewLogger("debug", file)
	require.NoError(t, err)
	assert.Equal(t, logrus.DebugLevel, logger.GetLevel())

	_, err = NewLogger("nope", file)
	assert.Error(t, err)
}
