package heartbeat

import (
	"fmt"
	"io"
	"time"

	"github.com/sirupsen/logrus"

	"touchless-console/clock"
	"touchless-console/protocol"
)

const DefaultInterval = 10 * time.Second

// Heartbeat writes a "heartbeat" line to the host on a fixed interval,
// independent of everything else the console is doing.
type Heartbeat struct {
	interval time.Duration
	last     uint32
	w        io.StringWriter
	log      logrus.FieldLogger
	sent     int
}

// New schedules the first heartbeat one interval after now.
func New(interval time.Duration, w io.StringWriter, now uint32, log logrus.FieldLogger) *Heartbeat {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Heartbeat{
		interval: interval,
		last:     now,
		w:        w,
		log:      log,
	}
}

// sendHeartbeat writes one heartbeat line
func (h *Heartbeat) sendHeartbeat() error {
	if _, err := h.w.WriteString(protocol.Line(protocol.HeartbeatToken)); err != nil {
		return fmt.Errorf("failed to send heartbeat: %w", err)
	}
	return nil
}

// Check sends a heartbeat if one is due at now and reports whether it did.
// A failed write still counts as the beat for scheduling.
func (h *Heartbeat) Check(now uint32) bool {
	if !clock.Reached(now, h.last, h.interval) {
		return false
	}
	h.last = now
	if err := h.sendHeartbeat(); err != nil {
		h.log.WithError(err).Warn("Heartbeat error")
		return false
	}
	h.sent++
	h.log.Debug("Heartbeat sent")
	return true
}

// Sent is the number of heartbeats written successfully.
func (h *Heartbeat) Sent() int { return h.sent }

// Interval is the configured spacing between heartbeats.
func (h *Heartbeat) Interval() time.Duration { return h.interval }
