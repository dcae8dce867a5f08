package capture

import (
	"bytes"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type nopCloser struct{ *bytes.Buffer }

func (nopCloser) Close() error { return nil }

func TestRecordAndReadBack(t *testing.T) {
	buf := &bytes.Buffer{}
	r := NewRecorder(nopCloser{buf})
	ts := time.Date(2026, 3, 1, 12, 0, 0, 123456789, time.UTC)
	r.now = func() time.Time { return ts }

	r.Record(In, "handshake\n")
	r.SetSession("abc")
	r.Record(Out, "ready\n")
	r.Record(Out, "/cent/cns/drum/a1 42\n")
	require.NoError(t, r.Close())
	r.Record(Out, "dropped after close")

	recs, err := ReadAll(buf)
	require.NoError(t, err)
	require.Len(t, recs, 3)

	assert.True(t, ts.Equal(recs[0].Timestamp))
	assert.Equal(t, In, recs[0].Direction)
	assert.Equal(t, "handshake", recs[0].Line)
	assert.Empty(t, recs[0].Session)
	assert.Equal(t, "abc", recs[1].Session)
	assert.Equal(t, "/cent/cns/drum/a1 42", recs[2].Line)
	assert.Equal(t, "12:00:00.123 -> ready", Format(recs[1]))
	assert.Equal(t, "12:00:00.123 <- handshake", Format(recs[0]))
}

func TestFileAppends(t *testing.T) {
	path := filepath.Join(t.TempDir(), "trace.cbor")

	for _, line := range []string{"a 1", "b 2"} {
		r, err := OpenFile(path)
		require.NoError(t, err)
		r.Record(Out, line)
		require.NoError(t, r.Close())
	}

	recs, err := ReadFile(path)
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, "b 2", recs[1].Line)
	assert.Equal(t, Out, recs[1].Direction)
}

func TestReadAllRejectsGarbage(t *testing.T) {
	_, err := ReadAll(bytes.NewReader([]byte{0xff, 0x00}))
	assert.Error(t, err)
}
