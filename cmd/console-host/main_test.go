package main

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"touchless-console/capture"
)

func TestDescribe(t *testing.T) {
	tests := []struct {
		line string
		want string
	}{
		{"ready", "<- ready (console armed)"},
		{"heartbeat", "<- heartbeat"},
		{"/cent/cns/drum/a1 42", "<- /cent/cns/drum/a1 = 42"},
		{"/cent/cns/drum/a1 xyz", "<- /cent/cns/drum/a1 = 0"},
		{"handshake", "<- handshake"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, describe(tt.line))
	}
}

func TestCollect(t *testing.T) {
	var buf strings.Builder
	var lines []string
	for _, b := range []byte("ready\r\n/a 1\n") {
		if line, done := collect(&buf, b); done {
			lines = append(lines, line)
		}
	}
	assert.Equal(t, []string{"ready", "/a 1"}, lines)
}

func TestDumpTrace(t *testing.T) {
	path := filepath.Join(t.TempDir(), "trace.cbor")
	rec, err := capture.OpenFile(path)
	require.NoError(t, err)
	rec.Record(capture.In, "handshake")
	rec.SetSession("s1")
	rec.Record(capture.Out, "ready")
	require.NoError(t, rec.Close())

	var out bytes.Buffer
	require.NoError(t, dumpTrace(&out, path))

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasSuffix(lines[0], "<- handshake"))
	assert.Equal(t, "# session s1", lines[1])
	assert.True(t, strings.HasSuffix(lines[2], "-> ready"))

	assert.Error(t, dumpTrace(&out, filepath.Join(t.TempDir(), "missing")))
}
