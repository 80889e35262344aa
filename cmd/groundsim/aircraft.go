// cmd/groundsim/aircraft.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package main

import (
	"time"

	"github.com/groundsim/groundsim/math"
	"github.com/groundsim/groundsim/simvar"
)

const (
	pushbackStateNone     = 3
	pushbackStateStraight = 0

	metersPerFoot = 0.3048
	knotsPerFPS   = 0.592484
)

// stand is a parking position.
type stand struct {
	Position math.Point2LL
	Heading  float64
}

// A stand at KORD.
var defaultStand = stand{Position: math.Point2LL{-87.905389, 41.979144}, Heading: 271}

// aircraftModel stands in for the host simulator: it handles the tug
// toggle key and moves the aircraft with the commanded body velocities.
type aircraftModel struct {
	store *simvar.Memory
}

// newAircraftModel returns a model over store; if park is set, the
// aircraft is first placed at the stand, powered, with engines off.
func newAircraftModel(store *simvar.Memory, st stand, park bool) *aircraftModel {
	if park {
		simvar.SetBool(store, simvar.SimOnGround, true)
		simvar.SetBool(store, simvar.BusDC2Powered, true)
		simvar.SetBool(store, simvar.BusDCHot1Powered, true)
		simvar.SetBool(store, simvar.ParkBrakeLeverPos, false)
		store.Set(simvar.PlaneLatitude, simvar.Degrees, st.Position.Latitude())
		store.Set(simvar.PlaneLongitude, simvar.Degrees, st.Position.Longitude())
		store.Set(simvar.PlaneHeadingTrue, simvar.Degrees, st.Heading)
		store.Set(simvar.PushbackState, simvar.Enum, pushbackStateNone)
	}
	return &aircraftModel{store: store}
}

func (a *aircraftModel) Position() math.Point2LL {
	return math.Point2LL{a.store.Get(simvar.PlaneLongitude, simvar.Degrees),
		a.store.Get(simvar.PlaneLatitude, simvar.Degrees)}
}

func (a *aircraftModel) Heading() float64 {
	return a.store.Get(simvar.PlaneHeadingTrue, simvar.Degrees)
}

func (a *aircraftModel) Update(dt time.Duration) {
	s := a.store
	if simvar.GetBool(s, simvar.KeyTogglePushback) {
		simvar.SetBool(s, simvar.KeyTogglePushback, false)
		if s.Get(simvar.PushbackState, simvar.Enum) == pushbackStateNone {
			s.Set(simvar.PushbackState, simvar.Enum, pushbackStateStraight)
			simvar.SetBool(s, simvar.PushbackAttached, true)
		} else {
			s.Set(simvar.PushbackState, simvar.Enum, pushbackStateNone)
			simvar.SetBool(s, simvar.PushbackAttached, false)
			s.Set(simvar.VelocityBodyZ, simvar.Number, 0)
			s.Set(simvar.RotationVelocityY, simvar.Number, 0)
		}
	}

	a.updatePositionAndGS(dt)
}

func (a *aircraftModel) updatePositionAndGS(dt time.Duration) {
	s := a.store
	if !simvar.GetBool(s, simvar.PushbackAttached) {
		s.Set(simvar.GPSGroundSpeed, simvar.Knots, 0)
		return
	}

	sec := dt.Seconds()
	// Positive body velocities push the aircraft backward.
	fps := s.Get(simvar.VelocityBodyZ, simvar.Number)
	turn := math.Degrees(s.Get(simvar.RotationVelocityY, simvar.Number)) * sec
	hdg := math.NormalizeHeading(a.Heading() + turn)

	p := math.DestinationPoint(a.Position(), fps*metersPerFoot*sec, hdg+180)

	s.Set(simvar.PlaneHeadingTrue, simvar.Degrees, hdg)
	s.Set(simvar.PlaneLatitude, simvar.Degrees, p.Latitude())
	s.Set(simvar.PlaneLongitude, simvar.Degrees, p.Longitude())
	s.Set(simvar.GPSGroundSpeed, simvar.Knots, math.Abs(fps)*knotsPerFPS)
}
