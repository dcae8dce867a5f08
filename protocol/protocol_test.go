package protocol

import (
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// feedAll pushes s through p and returns every message produced.
func feedAll(p *Parser, s string) []Message {
	var out []Message
	for i := 0; i < len(s); i++ {
		if msg, ok := p.Feed(s[i]); ok {
			out = append(out, msg)
		}
	}
	return out
}

func TestParseLines(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []Message
	}{
		{
			name:  "handshake",
			input: "handshake\n",
			want:  []Message{{Kind: Handshake}},
		},
		{
			name:  "command",
			input: "/a/b/c 42\n",
			want:  []Message{{Kind: Command, Address: "/a/b/c", Value: 42}},
		},
		{
			name:  "non numeric value",
			input: "/a/b/c xyz\n",
			want:  []Message{{Kind: Command, Address: "/a/b/c", Value: 0}},
		},
		{
			name:  "negative value and whitespace run",
			input: "/cent/cns/drum/a1 \t  -17  \n",
			want:  []Message{{Kind: Command, Address: "/cent/cns/drum/a1", Value: -17}},
		},
		{
			name:  "no value",
			input: "/reset\n",
			want:  []Message{{Kind: Command, Address: "/reset", Value: 0}},
		},
		{
			name:  "value out of int32 range",
			input: "/a 4294967296\n",
			want:  []Message{{Kind: Command, Address: "/a", Value: 0}},
		},
		{
			name:  "crlf",
			input: "handshake\r\n/a 1\r\n",
			want:  []Message{{Kind: Handshake}, {Kind: Command, Address: "/a", Value: 1}},
		},
		{
			name:  "handshake must be the whole line",
			input: "handshake now\n",
			want:  []Message{{Kind: Command, Address: "handshake", Value: 0}},
		},
		{
			name:  "empty lines",
			input: "\n\n",
			want:  nil,
		},
		{
			name:  "no terminator yet",
			input: "/a/b 3",
			want:  nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, feedAll(NewParser(), tt.input))
		})
	}
}

func TestParserClearsAfterEachLine(t *testing.T) {
	p := NewParser()
	got := feedAll(p, "/x 1\n/y 2\n")
	assert.Equal(t, []Message{
		{Kind: Command, Address: "/x", Value: 1},
		{Kind: Command, Address: "/y", Value: 2},
	}, got)
	assert.Zero(t, p.Pending())
}

func TestParserOverflowRecovers(t *testing.T) {
	p := NewParser()

	long := "/" + strings.Repeat("a", MaxLineLen+10) + " 5\n"
	assert.Empty(t, feedAll(p, long))
	assert.Zero(t, p.Pending())

	assert.Equal(t, []Message{{Kind: Handshake}}, feedAll(p, "handshake\n"))
}

func TestParserExactlyMaxLength(t *testing.T) {
	p := NewParser()
	addr := "/" + strings.Repeat("b", MaxLineLen-3)
	line := addr + " 7"
	require.Len(t, line, MaxLineLen)

	assert.Equal(t, []Message{{Kind: Command, Address: addr, Value: 7}}, feedAll(p, line+"\n"))
}

func TestParserReset(t *testing.T) {
	p := NewParserSize(8)
	feedAll(p, "/abc")
	assert.Equal(t, 4, p.Pending())

	p.Reset()
	assert.Equal(t, []Message{{Kind: Command, Address: "/d", Value: 1}}, feedAll(p, "/d 1\n"))
}

func TestEncodeRoundTrip(t *testing.T) {
	addresses := []string{"/x", "/cent/cns/drum/a1", "a", "/with/üñï"}
	values := []int32{0, 1, -1, 42, math.MaxInt32, math.MinInt32}

	for _, a := range addresses {
		for _, v := range values {
			line := Encode(a, v)
			require.True(t, strings.HasSuffix(line, "\n"))

			msgs := feedAll(NewParser(), line)
			require.Len(t, msgs, 1, line)
			assert.Equal(t, Message{Kind: Command, Address: a, Value: v}, msgs[0])
		}
	}
}

func TestEncodeFormat(t *testing.T) {
	assert.Equal(t, "/cent/cns/drum/a1 42\n", Encode("/cent/cns/drum/a1", 42))
	assert.Equal(t, "ready\n", Line(ReadyToken))
	assert.Equal(t, "heartbeat\n", Line(HeartbeatToken))
}
