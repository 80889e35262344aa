// sim/eventstream.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package sim

import (
	"fmt"
	"log/slog"
	"maps"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/groundsim/groundsim/log"
)

// MaxPendingEvents is the backlog at which the stream warns that a
// subscriber has stopped draining its events.
const MaxPendingEvents = 1000

// EventStream is a pub/sub log of ground events. The boarding engine and
// the pushback controller post to it; the UI and the journal each hold
// a subscription and drain it at their own pace. It may be shared
// between goroutines.
type EventStream struct {
	mu     sync.Mutex
	events []Event
	// base is the sequence number of events[0].
	base       int
	subs       map[*EventsSubscription]struct{}
	posted     [NumEventTypes]int
	warnedLong bool
	lg         *log.Logger
}

type EventsSubscription struct {
	stream *EventStream
	name   string
	mask   uint32 // event types delivered; zero for all
	// next is the sequence number of the first undelivered event.
	next    int
	lastGet time.Time
}

func (e *EventsSubscription) LogValue() slog.Value {
	var pending int
	if e.stream != nil {
		pending = e.stream.base + len(e.stream.events) - e.next
	}
	return slog.GroupValue(
		slog.String("name", e.name),
		slog.Int("pending", pending),
		slog.Time("last_get", e.lastGet))
}

func (e *EventsSubscription) wants(t EventType) bool {
	return e.mask == 0 || e.mask&(1<<t) != 0
}

func NewEventStream(lg *log.Logger) *EventStream {
	return &EventStream{
		subs: make(map[*EventsSubscription]struct{}),
		lg:   lg,
	}
}

// Subscribe registers a named subscriber that receives the given event
// types, or all of them if none are given. Only events posted after the
// call are delivered.
func (e *EventStream) Subscribe(name string, types ...EventType) *EventsSubscription {
	e.mu.Lock()
	defer e.mu.Unlock()

	sub := &EventsSubscription{
		stream:  e,
		name:    name,
		next:    e.base + len(e.events),
		lastGet: time.Now(),
	}
	for _, t := range types {
		sub.mask |= 1 << t
	}
	e.subs[sub] = struct{}{}
	return sub
}

// Unsubscribe removes a subscriber from the subscriber list
func (e *EventsSubscription) Unsubscribe() {
	if e.stream == nil {
		return
	}
	e.stream.mu.Lock()
	defer e.stream.mu.Unlock()

	delete(e.stream.subs, e)
	e.stream.compact()
	e.stream = nil
}

// Post adds an event to the event stream, stamping it with the current
// time if it has none. Posting to a nil stream is a no-op.
func (e *EventStream) Post(event Event) {
	if e == nil {
		return
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if event.Time.IsZero() {
		event.Time = time.Now()
	}
	e.posted[event.Type]++
	e.lg.Debug("posted event", slog.Any("event", event))

	// Ignore the event if no one's paying attention.
	if !e.wanted(event.Type) {
		return
	}
	e.events = append(e.events, event)

	if len(e.events) > MaxPendingEvents && !e.warnedLong {
		e.lg.Warn("Long EventStream", slog.Int("length", len(e.events)),
			log.AnyPointerSlice("subscriptions", slices.Collect(maps.Keys(e.subs))))
		e.warnedLong = true
	}
}

func (e *EventStream) wanted(t EventType) bool {
	for sub := range e.subs {
		if sub.wants(t) {
			return true
		}
	}
	return false
}

// Get returns the subscribed events posted since the last call.
func (e *EventsSubscription) Get() []Event {
	if e.stream == nil {
		return nil
	}

	e.stream.mu.Lock()
	defer e.stream.mu.Unlock()

	var events []Event
	for _, ev := range e.stream.events[e.next-e.stream.base:] {
		if e.wants(ev.Type) {
			events = append(events, ev)
		}
	}
	e.next = e.stream.base + len(e.stream.events)
	e.lastGet = time.Now()
	e.stream.compact()

	return events
}

// Posted returns the number of events of each type posted so far,
// including those no one subscribed to.
func (e *EventStream) Posted() map[EventType]int {
	e.mu.Lock()
	defer e.mu.Unlock()

	m := make(map[EventType]int)
	for t, n := range e.posted {
		if n > 0 {
			m[EventType(t)] = n
		}
	}
	return m
}

func (e *EventStream) LogValue() slog.Value {
	var counts []string
	for t, n := range e.Posted() {
		counts = append(counts, fmt.Sprintf("%s=%d", t, n))
	}
	slices.Sort(counts)
	return slog.StringValue(strings.Join(counts, " "))
}

// Destroy drops all subscriptions and pending events.
func (e *EventStream) Destroy() {
	e.mu.Lock()
	defer e.mu.Unlock()

	for sub := range e.subs {
		sub.stream = nil
	}
	clear(e.subs)
	e.base += len(e.events)
	e.events = nil
}

// compact drops events that every subscriber has seen, either all of
// them or, once they make up half the backing array, the read prefix.
func (e *EventStream) compact() {
	minNext := e.base + len(e.events)
	for sub := range e.subs {
		minNext = min(minNext, sub.next)
	}

	n := minNext - e.base
	switch {
	case n == 0:
		return
	case n == len(e.events):
		clear(e.events)
		e.events = e.events[:0]
	case n >= cap(e.events)/2:
		e.events = slices.Delete(e.events, 0, n)
	default:
		return
	}
	e.base = minNext
	e.warnedLong = false
}

///////////////////////////////////////////////////////////////////////////

type EventType int

const (
	BoardingStartedEvent EventType = iota
	BoardingStepEvent
	BoardingCompleteSoundEvent
	BoardingFinishedEvent
	TugCalledEvent
	TugAttachedEvent
	TugDetachedEvent
	PushbackPausedEvent
	PushbackResumedEvent
	StatusMessageEvent
	NumEventTypes
)

func (t EventType) String() string {
	return []string{"BoardingStarted", "BoardingStep", "BoardingCompleteSound",
		"BoardingFinished", "TugCalled", "TugAttached", "TugDetached",
		"PushbackPaused", "PushbackResumed", "StatusMessage"}[t]
}

type Event struct {
	Type            EventType
	Time            time.Time
	Passengers      int
	PassengerTarget int
	Cargo           float64
	CargoTarget     float64
	Heading         float64
	Message         string
}

func (e Event) String() string {
	switch e.Type {
	case TugCalledEvent, TugAttachedEvent, TugDetachedEvent, PushbackPausedEvent, PushbackResumedEvent:
		return fmt.Sprintf("%s: heading %.1f %s", e.Type, e.Heading, e.Message)
	case StatusMessageEvent:
		return fmt.Sprintf("%s: %s", e.Type, e.Message)
	default:
		return fmt.Sprintf("%s: pax %d/%d cargo %.0f/%.0f %s", e.Type, e.Passengers, e.PassengerTarget,
			e.Cargo, e.CargoTarget, e.Message)
	}
}

func (e Event) LogValue() slog.Value {
	attrs := []slog.Attr{slog.String("type", e.Type.String())}
	if e.PassengerTarget != 0 || e.Passengers != 0 {
		attrs = append(attrs, slog.Int("pax", e.Passengers), slog.Int("pax_target", e.PassengerTarget))
	}
	if e.CargoTarget != 0 || e.Cargo != 0 {
		attrs = append(attrs, slog.Float64("cargo", e.Cargo), slog.Float64("cargo_target", e.CargoTarget))
	}
	if e.Message != "" {
		attrs = append(attrs, slog.String("message", e.Message))
	}
	return slog.GroupValue(attrs...)
}
