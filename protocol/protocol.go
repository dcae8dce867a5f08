// Package protocol frames and parses the console's serial line grammar:
//
//	handshake            host -> console
//	ready                console -> host
//	heartbeat            console -> host
//	<address> <integer>  both ways, e.g. "/cent/cns/drum/a1 42"
//
// Lines are ASCII and terminated by '\n'.
package protocol

import (
	"strconv"
	"strings"
	"unicode"
)

const (
	Terminator = '\n'

	HandshakeToken = "handshake"
	ReadyToken     = "ready"
	HeartbeatToken = "heartbeat"

	// MaxLineLen bounds the accumulator. Longer lines are dropped whole.
	MaxLineLen = 64
)

// Kind tells handshakes from address/value commands.
type Kind int

const (
	Handshake Kind = iota + 1
	Command
)

func (k Kind) String() string {
	switch k {
	case Handshake:
		return "handshake"
	case Command:
		return "command"
	default:
		return "unknown"
	}
}

// Message is one parsed line. Handshakes carry no address or value.
type Message struct {
	Kind    Kind
	Address string
	Value   int32
}

// Parser accumulates bytes into lines.
type Parser struct {
	buf      []byte
	max      int
	dropping bool
}

// NewParser returns a parser bounded to MaxLineLen bytes per line.
func NewParser() *Parser {
	return NewParserSize(MaxLineLen)
}

// NewParserSize returns a parser bounded to max bytes per line.
func NewParserSize(max int) *Parser {
	if max <= 0 {
		max = MaxLineLen
	}
	return &Parser{buf: make([]byte, 0, max), max: max}
}

// Feed consumes one byte. It returns a message when b completes a line that
// classifies to one. The accumulator is cleared on every terminator.
func (p *Parser) Feed(b byte) (Message, bool) {
	switch b {
	case Terminator:
		line := string(p.buf)
		dropped := p.dropping
		p.buf = p.buf[:0]
		p.dropping = false
		if dropped {
			return Message{}, false
		}
		return ParseLine(line)
	case '\r':
		return Message{}, false
	}

	if p.dropping {
		return Message{}, false
	}
	if len(p.buf) >= p.max {
		// Overflow: forget the partial line and skip to the next terminator.
		p.buf = p.buf[:0]
		p.dropping = true
		return Message{}, false
	}
	p.buf = append(p.buf, b)
	return Message{}, false
}

// Pending is the number of bytes waiting for a terminator.
func (p *Parser) Pending() int { return len(p.buf) }

// Reset drops any partial line.
func (p *Parser) Reset() {
	p.buf = p.buf[:0]
	p.dropping = false
}

// ParseLine classifies a single line without its terminator. Empty lines
// yield nothing. A value that is missing or not a base-10 int32 reads as 0.
func ParseLine(line string) (Message, bool) {
	line = strings.TrimRight(line, "\r")
	if line == "" {
		return Message{}, false
	}
	if line == HandshakeToken {
		return Message{Kind: Handshake}, true
	}

	address, rest := line, ""
	if i := strings.IndexFunc(line, unicode.IsSpace); i >= 0 {
		address, rest = line[:i], line[i:]
	}
	return Message{Kind: Command, Address: address, Value: parseValue(rest)}, true
}

func parseValue(s string) int32 {
	v, err := strconv.ParseInt(strings.TrimSpace(s), 10, 32)
	if err != nil {
		return 0
	}
	return int32(v)
}

// Encode formats an address/value line, terminator included.
func Encode(address string, value int32) string {
	return address + " " + strconv.FormatInt(int64(value), 10) + string(Terminator)
}

// Line formats a bare token such as ReadyToken as a line.
func Line(token string) string {
	return token + string(Terminator)
}
