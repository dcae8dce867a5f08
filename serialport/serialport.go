// Package serialport connects the console to its host over a serial line.
// A reader goroutine moves received lines into a bounded byte queue that the
// control loop drains without blocking. Only complete lines are queued, so a
// full queue drops whole lines.
package serialport

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/tarm/serial"

	"touchless-console/protocol"
)

const (
	DefaultQueueDepth = 1024
	readChunk         = 64
	readTimeout       = 100 * time.Millisecond
)

// Link is a serial connection with a non-blocking receive side.
type Link struct {
	rw  io.ReadWriteCloser
	rx  chan byte
	log logrus.FieldLogger

	dropped   int
	droppedMu sync.Mutex

	// owned by the reader goroutine
	pending  []byte
	skipping bool

	closeOnce sync.Once
	done      chan struct{}
}

// Open opens a serial port at the given baud rate.
func Open(name string, baud int, log logrus.FieldLogger) (*Link, error) {
	c := &serial.Config{
		Name:        name,
		Baud:        baud,
		ReadTimeout: readTimeout,
	}
	s, err := serial.OpenPort(c)
	if err != nil {
		return nil, fmt.Errorf("failed to open serial port %s: %w", name, err)
	}
	return New(s, DefaultQueueDepth, log), nil
}

// New wraps an open byte stream.
func New(rw io.ReadWriteCloser, depth int, log logrus.FieldLogger) *Link {
	if depth <= 0 {
		depth = DefaultQueueDepth
	}
	return &Link{
		rw:   rw,
		rx:   make(chan byte, depth),
		log:  log,
		done: make(chan struct{}),
	}
}

// Start launches the reader goroutine. It exits when ctx is cancelled, the
// link is closed, or the port fails.
func (l *Link) Start(ctx context.Context) {
	go l.readLoop(ctx)
}

func (l *Link) readLoop(ctx context.Context) {
	buf := make([]byte, readChunk)
	for {
		select {
		case <-ctx.Done():
			return
		case <-l.done:
			return
		default:
		}

		n, err := l.rw.Read(buf)
		for i := 0; i < n; i++ {
			l.receive(buf[i])
		}
		if err == nil {
			continue
		}
		if errors.Is(err, io.EOF) {
			// read timeout on an idle port
			if n == 0 {
				time.Sleep(readTimeout / 10)
			}
			continue
		}
		select {
		case <-l.done:
		default:
			l.log.WithError(err).Error("Serial read failed")
		}
		return
	}
}

// receive holds b until its line is complete, then queues the whole line or
// drops it if the loop is not keeping up. A line that can never fit the queue
// is dropped up to its terminator.
func (l *Link) receive(b byte) {
	if l.skipping {
		l.drop(1)
		if b == protocol.Terminator {
			l.skipping = false
		}
		return
	}

	l.pending = append(l.pending, b)
	if b != protocol.Terminator {
		if len(l.pending) >= cap(l.rx) {
			l.drop(len(l.pending))
			l.pending = l.pending[:0]
			l.skipping = true
		}
		return
	}

	// This goroutine is the only sender, so free space can only grow
	// while the line is queued.
	if cap(l.rx)-len(l.rx) < len(l.pending) {
		l.drop(len(l.pending))
	} else {
		for _, p := range l.pending {
			l.rx <- p
		}
	}
	l.pending = l.pending[:0]
}

func (l *Link) drop(n int) {
	l.droppedMu.Lock()
	l.dropped += n
	l.droppedMu.Unlock()
}

// Next returns the next received byte without blocking.
func (l *Link) Next() (byte, bool) {
	select {
	case b := <-l.rx:
		return b, true
	default:
		return 0, false
	}
}

// Write sends raw bytes to the host.
func (l *Link) Write(p []byte) (int, error) {
	n, err := l.rw.Write(p)
	if err != nil {
		return n, fmt.Errorf("failed to write to serial port: %w", err)
	}
	return n, nil
}

// WriteString sends s to the host.
func (l *Link) WriteString(s string) (int, error) {
	return l.Write([]byte(s))
}

// Dropped reports how many received bytes were discarded because the queue
// was full.
func (l *Link) Dropped() int {
	l.droppedMu.Lock()
	defer l.droppedMu.Unlock()
	return l.dropped
}

// Close stops the reader and closes the port.
func (l *Link) Close() error {
	var err error
	l.closeOnce.Do(func() {
		close(l.done)
		err = l.rw.Close()
	})
	return err
}
