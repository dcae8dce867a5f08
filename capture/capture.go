// Package capture records every protocol line the console sends or receives
// as a stream of CBOR records, for replay and debugging on the host.
package capture

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/fxamacker/cbor/v2"
)

// Direction of a captured line relative to the console.
type Direction uint8

const (
	In Direction = iota
	Out
)

func (d Direction) String() string {
	if d == Out {
		return "out"
	}
	return "in"
}

// Record is one captured line without its terminator.
type Record struct {
	Timestamp time.Time `cbor:"1,keyasint"`
	Session   string    `cbor:"2,keyasint,omitempty"`
	Direction Direction `cbor:"3,keyasint"`
	Line      string    `cbor:"4,keyasint"`
}

var (
	encMode cbor.EncMode
	decMode cbor.DecMode
)

func init() {
	var err error
	encMode, err = cbor.EncOptions{
		Sort:        cbor.SortCanonical,
		IndefLength: cbor.IndefLengthForbidden,
		Time:        cbor.TimeRFC3339Nano,
	}.EncMode()
	if err != nil {
		panic(fmt.Sprintf("failed to create capture CBOR encoder mode: %v", err))
	}
	decMode, err = cbor.DecOptions{
		DupMapKey: cbor.DupMapKeyQuiet,
	}.DecMode()
	if err != nil {
		panic(fmt.Sprintf("failed to create capture CBOR decoder mode: %v", err))
	}
}

// Recorder appends records to a writer. It is safe for concurrent use.
type Recorder struct {
	mu      sync.Mutex
	w       io.WriteCloser
	enc     *cbor.Encoder
	session string
	now     func() time.Time
	closed  bool
}

// NewRecorder writes records to w.
func NewRecorder(w io.WriteCloser) *Recorder {
	return &Recorder{w: w, enc: encMode.NewEncoder(w), now: time.Now}
}

// OpenFile appends records to the file at path, creating it if needed.
func OpenFile(path string) (*Recorder, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open capture file: %w", err)
	}
	return NewRecorder(f), nil
}

// SetSession tags subsequent records with a session id.
func (r *Recorder) SetSession(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.session = id
}

// Record stores one line. A trailing newline is stripped. Encoding errors are
// ignored so capture never disturbs the console.
func (r *Recorder) Record(dir Direction, line string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return
	}
	_ = r.enc.Encode(Record{
		Timestamp: r.now().UTC(),
		Session:   r.session,
		Direction: dir,
		Line:      strings.TrimRight(line, "\r\n"),
	})
}

// Close closes the underlying writer. Later records are dropped.
func (r *Recorder) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return nil
	}
	r.closed = true
	return r.w.Close()
}

// ReadAll decodes every record from rd.
func ReadAll(rd io.Reader) ([]Record, error) {
	dec := decMode.NewDecoder(rd)
	var out []Record
	for {
		var rec Record
		if err := dec.Decode(&rec); err != nil {
			if errors.Is(err, io.EOF) {
				return out, nil
			}
			return out, fmt.Errorf("failed to decode capture record: %w", err)
		}
		out = append(out, rec)
	}
}

// ReadFile decodes every record in the file at path.
func ReadFile(path string) ([]Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open capture file: %w", err)
	}
	defer f.Close()
	return ReadAll(f)
}

// Format renders a record as one human-readable line.
func Format(rec Record) string {
	arrow := "<-"
	if rec.Direction == Out {
		arrow = "->"
	}
	return fmt.Sprintf("%s %s %s", rec.Timestamp.Format("15:04:05.000"), arrow, rec.Line)
}
