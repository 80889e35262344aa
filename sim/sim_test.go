// sim/sim_test.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package sim

import (
	"testing"
	"time"
)

func TestEventStream(t *testing.T) {
	es := NewEventStream(nil)
	defer es.Destroy()

	es.Post(Event{})
	sub := es.Subscribe("test")
	if len(sub.Get()) != 0 {
		t.Errorf("Returned non-empty slice")
	}

	es.Post(Event{Type: BoardingStartedEvent})
	es.Post(Event{Type: BoardingFinishedEvent})
	s := sub.Get()
	if len(s) != 2 {
		t.Fatalf("didn't return 2 item slice")
	}

	if s[0].Type != BoardingStartedEvent {
		t.Errorf("Expected %s, got %v", BoardingStartedEvent, s[0])
	}
	if s[1].Type != BoardingFinishedEvent {
		t.Errorf("Expected %s, got %v", BoardingFinishedEvent, s[1])
	}
	if s[0].Time.IsZero() {
		t.Errorf("Expected post time to be filled in")
	}

	if len(sub.Get()) != 0 {
		t.Errorf("Returned non-empty slice")
	}

	sub.Unsubscribe()
	if sub.Get() != nil {
		t.Errorf("Expected nil from unsubscribed subscription")
	}
}

func TestEventStreamFilter(t *testing.T) {
	es := NewEventStream(nil)
	defer es.Destroy()

	tug := es.Subscribe("tug", TugAttachedEvent, TugDetachedEvent)
	es.Post(Event{Type: BoardingStepEvent})
	es.mu.Lock()
	n := len(es.events)
	es.mu.Unlock()
	if n != 0 {
		t.Errorf("expected unwanted event to be dropped, %d stored", n)
	}

	all := es.Subscribe("all")
	es.Post(Event{Type: TugAttachedEvent})
	es.Post(Event{Type: BoardingStepEvent})
	es.Post(Event{Type: TugDetachedEvent})

	if s := tug.Get(); len(s) != 2 || s[0].Type != TugAttachedEvent || s[1].Type != TugDetachedEvent {
		t.Errorf("unexpected filtered events %v", s)
	}
	if s := all.Get(); len(s) != 3 {
		t.Errorf("expected 3 events, got %v", s)
	}

	posted := es.Posted()
	if posted[BoardingStepEvent] != 2 || posted[TugAttachedEvent] != 1 || posted[StatusMessageEvent] != 0 {
		t.Errorf("unexpected posted counts %v", posted)
	}
	if v := es.LogValue().String(); v != "BoardingStep=2 TugAttached=1 TugDetached=1" {
		t.Errorf("unexpected log value %q", v)
	}
}

func TestEventStreamCompact(t *testing.T) {
	es := NewEventStream(nil)
	defer es.Destroy()

	fast, slow := es.Subscribe("fast"), es.Subscribe("slow")
	for i := 0; i < 100; i++ {
		es.Post(Event{Type: EventType(i % int(NumEventTypes))})
		fast.Get()
	}

	// The slow subscriber still sees everything.
	if n := len(slow.Get()); n != 100 {
		t.Errorf("expected 100 events for slow subscriber, got %d", n)
	}
	es.mu.Lock()
	base, n := es.base, len(es.events)
	es.mu.Unlock()
	if base != 100 || n != 0 {
		t.Errorf("expected storage reclaimed once both have read, base %d len %d", base, n)
	}

	es.Post(Event{Type: StatusMessageEvent, Message: "hi"})
	if s := fast.Get(); len(s) != 1 || s[0].Message != "hi" {
		t.Errorf("unexpected events after compaction: %v", s)
	}

	// Dropping the slow subscriber releases what it had not read.
	es.Post(Event{Type: StatusMessageEvent})
	slow.Unsubscribe()
	if s := fast.Get(); len(s) != 1 {
		t.Errorf("expected 1 event, got %v", s)
	}
	es.mu.Lock()
	n = len(es.events)
	es.mu.Unlock()
	if n != 0 {
		t.Errorf("expected no retained events, got %d", n)
	}
}

func TestEventStreamDestroy(t *testing.T) {
	es := NewEventStream(nil)
	sub := es.Subscribe("test")
	es.Post(Event{Type: TugCalledEvent})
	es.Destroy()

	if sub.Get() != nil {
		t.Errorf("expected nil after Destroy")
	}
	sub.Unsubscribe()

	var nilStream *EventStream
	nilStream.Post(Event{})
}

func TestEventString(t *testing.T) {
	for i := range NumEventTypes {
		if i.String() == "" {
			t.Errorf("%d: empty event type name", i)
		}
	}
	e := Event{Type: BoardingStepEvent, Passengers: 3, PassengerTarget: 150}
	if s := e.String(); s != "BoardingStep: pax 3/150 cargo 0/0 " {
		t.Errorf("unexpected string %q", s)
	}
}

func TestManualClock(t *testing.T) {
	start := time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC)
	c := NewManualClock(start)
	tk := c.NewTicker(50 * time.Millisecond)

	c.Advance(49 * time.Millisecond)
	select {
	case <-tk.C():
		t.Errorf("ticked early")
	default:
	}

	c.Advance(time.Millisecond)
	select {
	case ts := <-tk.C():
		if !ts.Equal(start.Add(50 * time.Millisecond)) {
			t.Errorf("unexpected tick time %v", ts)
		}
	default:
		t.Errorf("expected tick at 50ms")
	}

	// Ticks are dropped rather than queued when the receiver is slow.
	c.Advance(time.Second)
	<-tk.C()
	select {
	case <-tk.C():
		t.Errorf("expected at most one buffered tick")
	default:
	}

	if c.ActiveTickers() != 1 {
		t.Errorf("expected 1 active ticker, got %d", c.ActiveTickers())
	}
	tk.Stop()
	tk.Stop()
	if c.ActiveTickers() != 0 {
		t.Errorf("expected no active tickers after Stop, got %d", c.ActiveTickers())
	}
	c.Advance(time.Second)
	select {
	case <-tk.C():
		t.Errorf("stopped ticker fired")
	default:
	}
	if !c.Now().Equal(start.Add(2050 * time.Millisecond)) {
		t.Errorf("unexpected clock time %v", c.Now())
	}
}
