// cmd/groundsim/groundsim_test.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package main

import (
	"bytes"
	gomath "math"
	"strings"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/groundsim/groundsim/boarding"
	"github.com/groundsim/groundsim/math"
	"github.com/groundsim/groundsim/pushback"
	"github.com/groundsim/groundsim/rand"
	"github.com/groundsim/groundsim/sim"
	"github.com/groundsim/groundsim/simvar"
)

func makeHost(t *testing.T) *host {
	t.Helper()

	store := simvar.NewMemory()
	events := sim.NewEventStream(nil)
	t.Cleanup(events.Destroy)
	clock := sim.NewManualClock(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))

	aircraft := newAircraftModel(store, defaultStand, true)
	be, err := boarding.NewEngine(store, boarding.Config{
		Layout: boarding.A320Layout(),
		Rate:   boarding.RateReal,
		Units:  simvar.UnitSystem{Mass: simvar.Kilograms},
		Rand:   rand.NewSeeded(1),
		Events: events,
	}, nil)
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}
	be.Initialize()

	return &host{
		store:       store,
		boarding:    be,
		pushback:    pushback.NewController(store, clock, events, nil),
		mapView:     pushback.NewMapView(),
		aircraft:    aircraft,
		clock:       clock,
		stream:      events,
		events:      events.Subscribe("ui"),
		paxTarget:   170,
		cargoTarget: 4000,
		frameRate:   20,
	}
}

func runeKey(r rune) *tcell.EventKey {
	return tcell.NewEventKey(tcell.KeyRune, r, tcell.ModNone)
}

func TestAircraftModelTugToggle(t *testing.T) {
	store := simvar.NewMemory()
	a := newAircraftModel(store, defaultStand, true)

	if got := store.Get(simvar.PushbackState, simvar.Enum); got != pushbackStateNone {
		t.Fatalf("expected pushback state %d, got %v", pushbackStateNone, got)
	}

	simvar.SetBool(store, simvar.KeyTogglePushback, true)
	a.Update(0)
	if !simvar.GetBool(store, simvar.PushbackAttached) {
		t.Errorf("expected tug attached after toggle")
	}
	if simvar.GetBool(store, simvar.KeyTogglePushback) {
		t.Errorf("expected toggle key to be consumed")
	}

	// Push back at 10 ft/s for one second.
	store.Set(simvar.VelocityBodyZ, simvar.Number, 10)
	a.Update(time.Second)

	moved := math.DistanceMeters(defaultStand.Position, a.Position())
	if gomath.Abs(moved-10*metersPerFoot) > 0.01 {
		t.Errorf("expected to move %.3fm, moved %.3fm", 10*metersPerFoot, moved)
	}
	bearing := math.InitialBearing(defaultStand.Position, a.Position())
	if math.HeadingDifference(bearing, defaultStand.Heading+180) > 1 {
		t.Errorf("expected to move toward %.0f, moved toward %.1f", defaultStand.Heading+180, bearing)
	}
	if gs := store.Get(simvar.GPSGroundSpeed, simvar.Knots); gomath.Abs(gs-10*knotsPerFPS) > 1e-9 {
		t.Errorf("expected ground speed %.3f, got %.3f", 10*knotsPerFPS, gs)
	}

	simvar.SetBool(store, simvar.KeyTogglePushback, true)
	a.Update(0)
	if simvar.GetBool(store, simvar.PushbackAttached) {
		t.Errorf("expected tug detached after second toggle")
	}
	if v := store.Get(simvar.VelocityBodyZ, simvar.Number); v != 0 {
		t.Errorf("expected velocity cleared on detach, got %v", v)
	}
	if gs := store.Get(simvar.GPSGroundSpeed, simvar.Knots); gs != 0 {
		t.Errorf("expected zero ground speed with no tug, got %v", gs)
	}
}

func TestAircraftModelTurn(t *testing.T) {
	store := simvar.NewMemory()
	a := newAircraftModel(store, defaultStand, true)
	simvar.SetBool(store, simvar.KeyTogglePushback, true)
	a.Update(0)

	store.Set(simvar.RotationVelocityY, simvar.Number, math.Radians(3))
	a.Update(2 * time.Second)

	if d := math.HeadingSignedTurn(defaultStand.Heading, a.Heading()); gomath.Abs(d-6) > 1e-6 {
		t.Errorf("expected a 6 degree turn, got %.4f", d)
	}
}

func TestHostKeys(t *testing.T) {
	h := makeHost(t)

	if h.handleEvent(runeKey('+'), nil) {
		t.Fatalf("unexpected quit")
	}
	if h.paxTarget != h.boarding.TotalSeats() {
		t.Errorf("expected pax target capped at %d, got %d", h.boarding.TotalSeats(), h.paxTarget)
	}

	h.handleEvent(runeKey('c'), nil)
	if h.cargoTarget != 5000 {
		t.Errorf("expected cargo target 5000, got %v", h.cargoTarget)
	}
	h.cargoTarget = 9000
	h.handleEvent(runeKey('c'), nil)
	if h.cargoTarget != 0 {
		t.Errorf("expected cargo target to wrap past capacity, got %v", h.cargoTarget)
	}

	h.handleEvent(runeKey('r'), nil)
	if h.boarding.Rate() != boarding.RateFast {
		t.Errorf("expected FAST rate, got %s", h.boarding.Rate())
	}
	h.collectMessages()
	if len(h.messages) != 1 || !strings.Contains(h.messages[0], "Boarding rate FAST") {
		t.Errorf("unexpected messages %q", h.messages)
	}

	h.handleEvent(runeKey('b'), nil)
	if !h.boarding.Started() {
		t.Errorf("expected boarding started")
	}
	if got := h.boarding.Status().PassengerTarget; got != h.boarding.TotalSeats() {
		t.Errorf("expected passenger target %d, got %d", h.boarding.TotalSeats(), got)
	}

	h.handleEvent(runeKey('t'), nil)
	if !simvar.GetBool(h.store, simvar.KeyTogglePushback) {
		t.Errorf("expected tug toggle key raised")
	}

	h.handleEvent(tcell.NewEventKey(tcell.KeyUp, 0, tcell.ModNone), nil)
	if sf := h.pushback.Command().SpeedFactor; gomath.Abs(sf-factorStep) > 1e-9 {
		t.Errorf("expected speed factor %v, got %v", factorStep, sf)
	}

	r := h.mapView.Range
	h.handleEvent(runeKey('z'), nil)
	if h.mapView.Range >= r {
		t.Errorf("expected zoom in from %v, got %v", r, h.mapView.Range)
	}

	if !h.handleEvent(runeKey('q'), nil) {
		t.Errorf("expected q to quit")
	}
	if !h.handleEvent(tcell.NewEventKey(tcell.KeyEscape, 0, tcell.ModNone), nil) {
		t.Errorf("expected escape to quit")
	}
}

func TestCollectMessagesBounded(t *testing.T) {
	h := makeHost(t)
	for i := range 2 * maxMessages {
		h.message("message %d", i)
	}
	h.collectMessages()
	if len(h.messages) != maxMessages {
		t.Fatalf("expected %d messages, got %d", maxMessages, len(h.messages))
	}
	if !strings.HasSuffix(h.messages[maxMessages-1], "message 15") {
		t.Errorf("expected newest message last, got %q", h.messages[maxMessages-1])
	}
}

func TestConfigRoundTrip(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	t.Setenv("HOME", dir)

	c, err := LoadOrMakeDefaultConfig(nil)
	if err != nil {
		t.Fatalf("LoadOrMakeDefaultConfig: %v", err)
	}
	if *c != *getDefaultConfig() {
		t.Fatalf("expected default config, got %+v", c)
	}

	c.Rate = "INSTANT"
	c.Unit = string(simvar.Pounds)
	c.PassengerTarget = 99
	if err := c.Save(nil); err != nil {
		t.Fatalf("Save: %v", err)
	}

	loaded, err := LoadOrMakeDefaultConfig(nil)
	if err != nil {
		t.Fatalf("LoadOrMakeDefaultConfig: %v", err)
	}
	if *loaded != *c {
		t.Errorf("expected %+v, got %+v", c, loaded)
	}

	var buf bytes.Buffer
	if err := loaded.Encode(&buf); err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if !strings.Contains(buf.String(), `"PassengerTarget": 99`) {
		t.Errorf("unexpected encoding %s", buf.String())
	}
}

func TestResolveOptions(t *testing.T) {
	c := getDefaultConfig()
	c.Rate = "fast"
	c.Unit = "Pounds"

	opt, err := resolveOptions(c)
	if err != nil {
		t.Fatalf("resolveOptions: %v", err)
	}
	if opt.rate != boarding.RateFast {
		t.Errorf("expected FAST, got %s", opt.rate)
	}
	if opt.units.UserMass() != simvar.Pounds {
		t.Errorf("expected pounds, got %s", opt.units.UserMass())
	}
	if opt.paxTarget != 150 || opt.cargoTarget != 4000 {
		t.Errorf("expected saved targets, got %d %v", opt.paxTarget, opt.cargoTarget)
	}

	c.Unit = "stone"
	if _, err := resolveOptions(c); err == nil {
		t.Errorf("expected an error for an unknown unit")
	}
}
