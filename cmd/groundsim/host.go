// cmd/groundsim/host.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/groundsim/groundsim/boarding"
	"github.com/groundsim/groundsim/log"
	"github.com/groundsim/groundsim/pushback"
	"github.com/groundsim/groundsim/sim"
	"github.com/groundsim/groundsim/simvar"
)

const (
	paxTargetStep   = 5
	cargoTargetStep = 1000
	factorStep      = 0.1
	mapPanPixels    = 20
	maxMessages     = 8
)

// host owns the variable store and both engines; everything that touches
// them runs on the goroutine that calls run.
type host struct {
	store    *simvar.Memory
	boarding *boarding.Engine
	pushback *pushback.Controller
	mapView  *pushback.MapView
	aircraft *aircraftModel
	clock    sim.Clock
	stream   *sim.EventStream
	events   *sim.EventsSubscription
	lg       *log.Logger
	opt      options

	paxTarget   int
	cargoTarget float64
	headless    bool
	frameRate   int
	messages    []string

	snapshotReq chan struct{}
	statusReq   chan struct{}
}

func (h *host) run(ctx context.Context, ui *terminalUI) error {
	defer h.events.Unsubscribe()

	if h.headless {
		h.setTargets()
		h.boarding.StartBoarding()
		h.lg.Info("headless boarding", slog.Int("pax", h.paxTarget), slog.Float64("cargo", h.cargoTarget),
			slog.String("rate", h.boarding.Rate().String()))
	}

	frame := h.clock.NewTicker(time.Second / time.Duration(h.frameRate))
	defer frame.Stop()

	var uiEvents <-chan tcell.Event
	if ui != nil {
		uiEvents = ui.events
	}

	last := h.clock.Now()
	for {
		select {
		case <-ctx.Done():
			h.shutdown()
			return ctx.Err()

		case now := <-frame.C():
			dt := now.Sub(last)
			last = now

			h.aircraft.Update(dt)
			h.pushback.Observe()
			outcome := h.boarding.Update(dt)
			h.mapView.Follow(h.aircraft.Position())
			h.collectMessages()

			if h.headless && outcome == boarding.OutcomeIdle && h.boarding.State() == boarding.StateFinished {
				st := h.boarding.Status()
				h.lg.Info("headless boarding finished", slog.Int("pax", st.Passengers),
					slog.Float64("cargo", st.Cargo))
				h.shutdown()
				return nil
			}
			if ui != nil {
				ui.draw(h)
			}

		case now := <-h.pushback.C():
			h.pushback.Tick(now)

		case ev := <-uiEvents:
			if quit := h.handleEvent(ev, ui); quit {
				h.shutdown()
				return nil
			}
			ui.draw(h)

		case <-h.snapshotReq:
			h.saveSnapshot()

		case <-h.statusReq:
			h.lg.Info("status", slog.Any("store", h.store), slog.Any("events", h.stream))
		}
	}
}

func (h *host) setTargets() {
	alloc := h.boarding.SetPassengerTarget(h.paxTarget)
	if alloc.Truncated {
		h.message("Passenger target truncated to %d", alloc.Assigned)
	}
	h.boarding.SetCargoTarget(h.cargoTarget)
}

func (h *host) handleEvent(ev tcell.Event, ui *terminalUI) bool {
	heading := h.aircraft.Heading()
	cmd := h.pushback.Command()

	switch ev := ev.(type) {
	case *tcell.EventResize:
		ui.screen.Sync()

	case *tcell.EventMouse:
		// Terminal cells are roughly twice as tall as they are wide.
		x, y := ev.Position()
		px, py := float64(x), float64(2*y)
		if ev.Buttons()&tcell.Button1 != 0 {
			if !ui.mouseDown {
				ui.mouseDown = true
				h.mapView.MouseDown(px, py)
			} else {
				h.mapView.MouseMove(px, py, heading)
			}
		} else if ui.mouseDown {
			ui.mouseDown = false
			h.mapView.MouseUp()
		}

	case *tcell.EventKey:
		switch ev.Key() {
		case tcell.KeyEscape, tcell.KeyCtrlC:
			return true
		case tcell.KeyLeft:
			h.pushback.SetHeadingFactor(cmd.HeadingFactor - factorStep)
		case tcell.KeyRight:
			h.pushback.SetHeadingFactor(cmd.HeadingFactor + factorStep)
		case tcell.KeyUp:
			h.pushback.SetSpeedFactor(cmd.SpeedFactor + factorStep)
		case tcell.KeyDown:
			h.pushback.SetSpeedFactor(cmd.SpeedFactor - factorStep)
		case tcell.KeyRune:
			switch ev.Rune() {
			case 'q':
				return true
			case 'b':
				if !h.boarding.Started() {
					h.setTargets()
				}
				h.boarding.ToggleBoarding()
			case '+', '=':
				h.paxTarget = min(h.paxTarget+paxTargetStep, h.boarding.TotalSeats())
				h.boarding.SetPassengerTarget(h.paxTarget)
			case '-':
				h.paxTarget = max(h.paxTarget-paxTargetStep, 0)
				h.boarding.SetPassengerTarget(h.paxTarget)
			case 'c':
				h.cargoTarget += cargoTargetStep
				if assigned := h.boarding.SetCargoTarget(h.cargoTarget); assigned < h.cargoTarget {
					h.cargoTarget = 0
					h.boarding.SetCargoTarget(0)
				}
			case 'r':
				h.boarding.SetRate(h.boarding.Rate().Next())
				h.message("Boarding rate %s", h.boarding.Rate())
			case 't':
				h.pushback.CallTug()
			case 'p':
				h.pushback.TogglePaused()
			case 'z':
				h.mapView.ZoomIn()
			case 'x':
				h.mapView.ZoomOut()
			case 'f':
				h.mapView.SetCenterOnPlane(true, h.aircraft.Position())
			case 'h':
				h.mapView.Pan(-mapPanPixels, 0, heading)
			case 'l':
				h.mapView.Pan(mapPanPixels, 0, heading)
			case 'k':
				h.mapView.Pan(0, -mapPanPixels, heading)
			case 'j':
				h.mapView.Pan(0, mapPanPixels, heading)
			}
		}
	}
	return false
}

func (h *host) collectMessages() {
	for _, e := range h.events.Get() {
		h.messages = append(h.messages, e.Time.Format("15:04:05")+" "+e.String())
	}
	if n := len(h.messages); n > maxMessages {
		h.messages = h.messages[n-maxMessages:]
	}
}

func (h *host) message(format string, args ...any) {
	h.lg.Infof(format, args...)
	h.stream.Post(sim.Event{Type: sim.StatusMessageEvent, Message: fmt.Sprintf(format, args...)})
}

func (h *host) saveSnapshot() {
	if h.opt.snapshot == "" {
		return
	}
	if err := simvar.SaveSnapshot(h.opt.snapshot, h.store.Snapshot()); err != nil {
		h.lg.Errorf("%s: %v", h.opt.snapshot, err)
	} else {
		h.lg.Debugf("saved snapshot to %s", h.opt.snapshot)
	}
}

func (h *host) shutdown() {
	h.pushback.Close()
	h.saveSnapshot()
}
