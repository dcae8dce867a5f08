// Package poll drives the console's cooperative control loop.
package poll

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
)

const DefaultTick = 5 * time.Millisecond

// Ticker is one pass of the control loop. The console implements it.
type Ticker interface {
	Tick()
}

// Loop calls Tick on a fixed period until its context ends.
type Loop struct {
	ticker       Ticker
	interval     time.Duration
	startupDelay time.Duration
	log          logrus.FieldLogger
	ticks        uint64
}

// NewLoop creates a loop ticking t every interval after startupDelay.
func NewLoop(t Ticker, interval, startupDelay time.Duration, log logrus.FieldLogger) *Loop {
	if interval <= 0 {
		interval = DefaultTick
	}
	return &Loop{
		ticker:       t,
		interval:     interval,
		startupDelay: startupDelay,
		log:          log,
	}
}

// Run blocks until ctx is cancelled and returns ctx.Err().
func (l *Loop) Run(ctx context.Context) error {
	if l.startupDelay > 0 {
		l.log.Debugf("Waiting %s before polling", l.startupDelay)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(l.startupDelay):
		}
	}

	startTime := time.Now()
	l.log.Infof("Starting console polling at %s", startTime.Format(time.RFC3339))

	t := time.NewTicker(l.interval)
	defer t.Stop()

	for ctx.Err() == nil {
		l.ticker.Tick()
		l.ticks++

		select {
		case <-ctx.Done():
		case <-t.C:
		}
	}
	l.log.WithField("ticks", l.ticks).Infof("Stopped polling after %s", time.Since(startTime).Round(time.Millisecond))
	return ctx.Err()
}

// Ticks is the number of completed passes. Only meaningful once Run returned.
func (l *Loop) Ticks() uint64 { return l.ticks }
