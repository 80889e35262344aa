// sim/clock.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package sim

import (
	"slices"
	"time"
)

// Clock abstracts wall-clock time so that the fixed-period controllers
// can be driven deterministically in tests.
type Clock interface {
	Now() time.Time
	NewTicker(d time.Duration) Ticker
}

// Ticker delivers ticks on C until Stop is called. As with time.Ticker,
// ticks are dropped if the receiver falls behind.
type Ticker interface {
	C() <-chan time.Time
	Stop()
}

///////////////////////////////////////////////////////////////////////////
// RealClock

type RealClock struct{}

func (RealClock) Now() time.Time { return time.Now() }

func (RealClock) NewTicker(d time.Duration) Ticker {
	return realTicker{t: time.NewTicker(d)}
}

type realTicker struct {
	t *time.Ticker
}

func (r realTicker) C() <-chan time.Time { return r.t.C }
func (r realTicker) Stop()               { r.t.Stop() }

///////////////////////////////////////////////////////////////////////////
// ManualClock

// ManualClock only moves when Advance is called; tickers created from it
// fire during Advance. It is intended for tests and for replaying
// recorded sessions faster than real time.
type ManualClock struct {
	now     time.Time
	tickers []*manualTicker
}

func NewManualClock(start time.Time) *ManualClock {
	return &ManualClock{now: start}
}

func (c *ManualClock) Now() time.Time { return c.now }

func (c *ManualClock) NewTicker(d time.Duration) Ticker {
	if d <= 0 {
		panic("non-positive interval for ManualClock.NewTicker")
	}
	t := &manualTicker{
		clock:  c,
		period: d,
		next:   c.now.Add(d),
		ch:     make(chan time.Time, 1),
	}
	c.tickers = append(c.tickers, t)
	return t
}

// ActiveTickers returns the number of tickers that have not been stopped.
func (c *ManualClock) ActiveTickers() int {
	return len(c.tickers)
}

// Advance moves the clock forward by d, delivering ticks to every active
// ticker whose deadline passes.
func (c *ManualClock) Advance(d time.Duration) {
	end := c.now.Add(d)
	for _, t := range slices.Clone(c.tickers) {
		for !t.next.After(end) && !t.stopped {
			select {
			case t.ch <- t.next:
			default:
			}
			t.next = t.next.Add(t.period)
		}
	}
	c.now = end
}

type manualTicker struct {
	clock   *ManualClock
	period  time.Duration
	next    time.Time
	ch      chan time.Time
	stopped bool
}

func (t *manualTicker) C() <-chan time.Time { return t.ch }

func (t *manualTicker) Stop() {
	if t.stopped {
		return
	}
	t.stopped = true
	t.clock.tickers = slices.DeleteFunc(t.clock.tickers, func(o *manualTicker) bool { return o == t })
}
