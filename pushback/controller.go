// pushback/controller.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

// Package pushback implements the tug controller: it turns the
// operator's heading and speed factors into heading, rotation and
// velocity commands for the host on a fixed 50ms tick that runs only
// while the tug is attached.
package pushback

import (
	"log/slog"
	gomath "math"
	"time"

	"github.com/groundsim/groundsim/log"
	"github.com/groundsim/groundsim/sim"
	"github.com/groundsim/groundsim/simvar"
)

const TickInterval = 50 * time.Millisecond

// Telemetry reports what the controller last observed and commanded.
type Telemetry struct {
	Ticks        int
	DeltaTime    time.Duration // between the last two ticks
	Attached     bool
	OnGround     bool
	Paused       bool
	Wait         bool
	ParkingBrake bool
	Command      Command
	Kinematics   Kinematics
	// TurningRadius is zero when the aircraft is not turning.
	TurningRadius float64
}

type Controller struct {
	store  simvar.Store
	clock  sim.Clock
	ticker sim.Ticker
	events *sim.EventStream
	lg     *log.Logger

	cmd      Command
	paused   bool
	attached bool
	lastTick time.Time

	// Last observed control deflections; the factors follow the controls
	// only when they move, so manual settings stick otherwise.
	rudder, elevator float64

	telemetry Telemetry
}

// NewController returns a controller in the paused, zero-speed, waiting
// state. Observe must be called regularly for it to notice the tug
// attaching.
func NewController(store simvar.Store, clock sim.Clock, events *sim.EventStream, lg *log.Logger) *Controller {
	if clock == nil {
		clock = sim.RealClock{}
	}
	c := &Controller{
		store:    store,
		clock:    clock,
		events:   events,
		lg:       lg,
		paused:   true,
		rudder:   gomath.NaN(),
		elevator: gomath.NaN(),
	}
	c.safeState()
	return c
}

// C returns the tick channel, or nil when the tug is not attached. A nil
// channel never becomes ready, so it can be used directly in a select.
func (c *Controller) C() <-chan time.Time {
	if c.ticker == nil {
		return nil
	}
	return c.ticker.C()
}

func (c *Controller) Command() Command     { return c.cmd }
func (c *Controller) Paused() bool         { return c.paused }
func (c *Controller) Attached() bool       { return c.attached }
func (c *Controller) Telemetry() Telemetry { return c.telemetry }

// Observe samples the attachment flag and the flight controls. On an
// attachment transition it starts or stops the tick; detaching forces
// the safe state.
func (c *Controller) Observe() {
	attached := simvar.GetBool(c.store, simvar.PushbackAttached)
	if attached != c.attached {
		c.attached = attached
		c.telemetry.Attached = attached
		heading := c.store.Get(simvar.PlaneHeadingTrue, simvar.Degrees)

		if attached {
			c.lg.Info("tug attached", slog.Float64("heading", heading))
			if c.ticker == nil {
				c.ticker = c.clock.NewTicker(TickInterval)
				c.lastTick = time.Time{}
			}
			c.post(sim.TugAttachedEvent, heading, "")
		} else {
			c.lg.Info("tug detached", slog.Float64("heading", heading))
			c.stopTicker()
			c.safeState()
			c.post(sim.TugDetachedEvent, heading, "")
		}
	}

	if r := c.store.Get(simvar.RudderPosition, simvar.Number); r != c.rudder {
		c.rudder = r
		c.cmd.HeadingFactor = RudderFactor(r)
	}
	if e := c.store.Get(simvar.ElevatorPosition, simvar.Number); e != c.elevator {
		c.elevator = e
		if f := ElevatorFactor(e); f == 0 {
			c.cmd.SpeedFactor = 0
		} else {
			c.SetPaused(false)
			c.cmd.SpeedFactor = f
		}
	}
	c.updateTelemetry()
}

// Tick issues one set of commands. It is called with the time received
// from C; now is used only for the delta-time readout.
func (c *Controller) Tick(now time.Time) {
	if !c.lastTick.IsZero() {
		c.telemetry.DeltaTime = now.Sub(c.lastTick)
	}
	c.lastTick = now
	c.telemetry.Ticks++

	attached := simvar.GetBool(c.store, simvar.PushbackAttached)
	onGround := simvar.GetBool(c.store, simvar.SimOnGround)
	c.telemetry.OnGround = onGround
	if !attached || !onGround {
		return
	}

	if c.paused || c.cmd.SpeedFactor == 0 {
		c.store.Set(simvar.KeyTugSpeed, simvar.Number, 0)
		c.store.Set(simvar.RotationVelocityY, simvar.Number, 0)
		c.store.Set(simvar.VelocityBodyZ, simvar.Number, 0)
		simvar.SetBool(c.store, simvar.PushbackWait, true)
		c.telemetry.Kinematics.Rotation, c.telemetry.Kinematics.Speed = 0, 0
		c.updateTelemetry()
		return
	}

	simvar.SetBool(c.store, simvar.PushbackWait, false)
	brake := simvar.GetBool(c.store, simvar.ParkBrakeLeverPos)
	heading := c.store.Get(simvar.PlaneHeadingTrue, simvar.Degrees)
	k := Compute(heading, brake, c.cmd)

	c.store.Set(simvar.KeyTugHeading, simvar.Number, float64(k.TugHeadingFixed))
	c.store.Set(simvar.RotationVelocityX, simvar.Number, 0)
	c.store.Set(simvar.RotationVelocityY, simvar.Number, k.Rotation)
	c.store.Set(simvar.RotationVelocityZ, simvar.Number, 0)

	c.store.Set(simvar.KeyTugSpeed, simvar.Number, k.Speed)
	c.store.Set(simvar.VelocityBodyX, simvar.Number, 0)
	c.store.Set(simvar.VelocityBodyY, simvar.Number, 0)
	c.store.Set(simvar.VelocityBodyZ, simvar.Number, k.Speed)

	c.telemetry.ParkingBrake = brake
	c.telemetry.Kinematics = k
	c.updateTelemetry()

	c.lg.Debug("pushback tick", slog.Float64("tug_heading", k.TugHeading),
		slog.Float64("speed", k.Speed), slog.Float64("rotation", k.Rotation),
		slog.Duration("dt", c.telemetry.DeltaTime))
}

// CallTug asks the host to attach or release the tug by raising the
// toggle key event; the host clears it once handled.
func (c *Controller) CallTug() {
	state := c.store.Get(simvar.PushbackState, simvar.Enum)
	simvar.SetBool(c.store, simvar.KeyTogglePushback, true)
	simvar.SetBool(c.store, simvar.PushbackWait, true)

	heading := c.store.Get(simvar.PlaneHeadingTrue, simvar.Degrees)
	c.lg.Info("tug called", slog.Float64("state", state))
	c.post(sim.TugCalledEvent, heading, "")
}

func (c *Controller) SetPaused(p bool) {
	if p == c.paused {
		return
	}
	c.paused = p
	c.telemetry.Paused = p

	heading := c.store.Get(simvar.PlaneHeadingTrue, simvar.Degrees)
	if p {
		c.post(sim.PushbackPausedEvent, heading, "")
	} else {
		c.post(sim.PushbackResumedEvent, heading, "")
	}
}

func (c *Controller) TogglePaused() {
	c.SetPaused(!c.paused)
}

func (c *Controller) SetHeadingFactor(v float64) {
	c.cmd.HeadingFactor = ClampFactor(v)
	c.updateTelemetry()
}

// SetSpeedFactor sets the commanded speed; any non-zero speed resumes a
// paused pushback.
func (c *Controller) SetSpeedFactor(v float64) {
	c.cmd.SpeedFactor = ClampFactor(v)
	if c.cmd.SpeedFactor != 0 {
		c.SetPaused(false)
	}
	c.updateTelemetry()
}

// Close stops the tick. If the tug is still attached, the aircraft is
// left paused and holding so that no velocity remains commanded.
func (c *Controller) Close() {
	c.stopTicker()
	if simvar.GetBool(c.store, simvar.PushbackAttached) {
		c.lg.Info("pausing pushback at teardown")
		c.safeState()
		c.post(sim.StatusMessageEvent, c.store.Get(simvar.PlaneHeadingTrue, simvar.Degrees),
			"Pausing pushback")
	}
}

// safeState pauses and holds the aircraft with no velocity commanded.
func (c *Controller) safeState() {
	c.SetPaused(true)
	c.cmd.SpeedFactor = 0
	c.store.Set(simvar.KeyTugSpeed, simvar.Number, 0)
	c.store.Set(simvar.RotationVelocityY, simvar.Number, 0)
	c.store.Set(simvar.VelocityBodyZ, simvar.Number, 0)
	c.telemetry.Kinematics.Rotation, c.telemetry.Kinematics.Speed = 0, 0
	simvar.SetBool(c.store, simvar.PushbackWait, true)
	c.telemetry.Wait = true
	c.updateTelemetry()
}

func (c *Controller) stopTicker() {
	if c.ticker != nil {
		c.ticker.Stop()
		c.ticker = nil
	}
}

func (c *Controller) updateTelemetry() {
	c.telemetry.Command = c.cmd
	c.telemetry.Paused = c.paused
	c.telemetry.Wait = simvar.GetBool(c.store, simvar.PushbackWait)
	c.telemetry.TurningRadius, _ = TurningRadius(c.cmd.HeadingFactor)
}

func (c *Controller) post(t sim.EventType, heading float64, msg string) {
	c.events.Post(sim.Event{Type: t, Heading: heading, Message: msg})
}
