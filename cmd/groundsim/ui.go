// cmd/groundsim/ui.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/gdamore/tcell/v2"

	"github.com/groundsim/groundsim/math"
	"github.com/groundsim/groundsim/simvar"
)

type terminalUI struct {
	screen    tcell.Screen
	events    chan tcell.Event
	mouseDown bool
}

func newTerminalUI() (*terminalUI, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, fmt.Errorf("creating screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return nil, fmt.Errorf("initializing screen: %w", err)
	}

	screen.SetStyle(tcell.StyleDefault.
		Background(tcell.ColorReset).
		Foreground(tcell.ColorReset))
	screen.EnableMouse()

	return &terminalUI{screen: screen, events: make(chan tcell.Event)}, nil
}

// poll forwards screen events to the host goroutine until the screen is
// finalized or ctx is canceled.
func (u *terminalUI) poll(ctx context.Context) error {
	for {
		ev := u.screen.PollEvent()
		if ev == nil {
			return nil
		}
		select {
		case u.events <- ev:
		case <-ctx.Done():
			return nil
		}
	}
}

func (u *terminalUI) close() {
	u.screen.Fini()
}

func (u *terminalUI) draw(h *host) {
	screen := u.screen
	screen.Clear()
	width, height := screen.Size()

	styleDefault := tcell.StyleDefault
	styleHeader := tcell.StyleDefault.Bold(true).Reverse(true)
	styleLabel := tcell.StyleDefault.Foreground(tcell.ColorTeal)
	styleActive := tcell.StyleDefault.Foreground(tcell.ColorGreen).Bold(true)
	styleWarn := tcell.StyleDefault.Foreground(tcell.ColorRed).Bold(true)
	styleHelp := tcell.StyleDefault.Foreground(tcell.ColorGray)

	st := h.boarding.Status()
	unit := "kg"
	if h.opt.units.UserMass() == simvar.Pounds {
		unit = "lbs"
	}

	y := 0
	line := func(style tcell.Style, format string, args ...any) {
		if y < height {
			drawText(screen, 0, y, width, style, fmt.Sprintf(format, args...))
		}
		y++
	}

	started := "stopped"
	if st.Started {
		started = "started"
	}
	line(styleHeader, " GroundSim  boarding %s (%s, %s)  pax %d/%d  cargo %.0f/%.0f %s",
		st.State, started, st.Rate, st.Passengers, st.PassengerTarget, st.Cargo, st.CargoTarget, unit)
	if !st.CanBoard {
		line(styleWarn, " Aircraft cannot board: check ground speed, engines and DC power")
	} else {
		line(styleDefault, "")
	}

	for _, ps := range st.PaxStations {
		style := styleDefault
		if ps.Active.Count() != ps.Desired.Count() {
			style = styleActive
		}
		line(style, " %-10s %3d/%3d of %3d  %s", ps.Name, ps.Active.Count(), ps.Desired.Count(), ps.Seats,
			seatBar(ps.Active.Count(), ps.Seats))
	}
	for _, cs := range st.CargoStations {
		style := styleDefault
		if cs.Load != cs.Desired {
			style = styleActive
		}
		line(style, " %-10s %5.0f/%5.0f of %5.0f %s", cs.Name, cs.Load, cs.Desired, cs.Capacity, unit)
	}

	line(styleLabel, " sounds: %s", soundFlags(h.store))
	line(styleDefault, "")

	tel := h.pushback.Telemetry()
	tug := "no tug"
	if tel.Attached {
		tug = "tug attached"
		if tel.Paused {
			tug += ", paused"
		}
		if tel.Wait {
			tug += ", waiting"
		}
	}
	line(styleHeader, " Pushback: %s", tug)
	line(styleDefault, " heading %03.0f  gs %.1f kt  heading factor %+.1f  speed factor %+.1f",
		h.aircraft.Heading(), h.store.Get(simvar.GPSGroundSpeed, simvar.Knots),
		tel.Command.HeadingFactor, tel.Command.SpeedFactor)
	radius := "straight"
	if tel.TurningRadius != 0 {
		radius = fmt.Sprintf("%.1f", tel.TurningRadius)
	}
	line(styleDefault, " tug heading %03.0f %s  speed %.2f  rotation %.3f  radius %s  dt %s",
		tel.Kinematics.TugHeading, math.Compass(tel.Kinematics.TugHeading), tel.Kinematics.Speed,
		tel.Kinematics.Rotation, radius, tel.DeltaTime)

	mode := "free"
	if h.mapView.CenterOnPlane {
		mode = "following aircraft"
	}
	line(styleDefault, " map %s  range %.1f nm  %s", h.mapView.Center.DDString(), h.mapView.Range, mode)
	line(styleDefault, "")

	for _, msg := range h.messages {
		line(styleLabel, " %s", msg)
	}

	drawText(screen, 0, height-1, width, styleHelp,
		" [b]oard [+/-]pax [c]argo [r]ate  [t]ug [p]ause arrows=steer/speed  [z/x]zoom [hjkl]pan [f]ollow  [q]uit")
	screen.Show()
}

func seatBar(n, seats int) string {
	const w = 24
	filled := n * w / max(seats, 1)
	return "[" + strings.Repeat("#", filled) + strings.Repeat(".", w-filled) + "]"
}

func soundFlags(s simvar.Store) string {
	var on []string
	for _, snd := range []struct{ name, v string }{
		{"boarding", simvar.SoundPaxBoarding},
		{"deboarding", simvar.SoundPaxDeboarding},
		{"complete", simvar.SoundBoardingComplete},
		{"ambience", simvar.SoundPaxAmbience},
	} {
		if simvar.GetBool(s, snd.v) {
			on = append(on, snd.name)
		}
	}
	if len(on) == 0 {
		return "none"
	}
	return strings.Join(on, " ")
}

// drawText draws a string at the given position.
func drawText(screen tcell.Screen, x, y, maxWidth int, style tcell.Style, text string) {
	col := 0
	for _, r := range text {
		if col >= maxWidth {
			break
		}
		screen.SetContent(x+col, y, r, nil, style)
		col++
	}
	// Fill remaining space
	for col < maxWidth {
		screen.SetContent(x+col, y, ' ', nil, style)
		col++
	}
}
