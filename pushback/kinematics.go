// pushback/kinematics.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package pushback

import (
	gomath "math"

	"github.com/groundsim/groundsim/math"
)

const (
	// MaxTugHeadingOffset is the angle between the aircraft and the tug
	// heading at full heading factor.
	MaxTugHeadingOffset = 50

	RotationRate        = 0.08
	BrakedRotationRate  = 0.008
	PushbackSpeed       = 8
	BrakedPushbackSpeed = 0.8

	// Wheelbase is used for the turning radius readout.
	Wheelbase = 13
)

// Kinematics are the values commanded to the host for one tick.
type Kinematics struct {
	TugHeading      float64 // degrees true, [0, 360)
	TugHeadingFixed uint32  // TugHeading in the host's fixed-point unit
	Rotation        float64 // about the vertical axis
	Speed           float64 // longitudinal
}

// Compute returns the tug commands for an aircraft at the given true
// heading. A zero speed factor yields zero rotation and speed.
func Compute(heading float64, parkingBrake bool, cmd Command) Kinematics {
	var k Kinematics
	k.TugHeading = math.NormalizeHeading(heading - MaxTugHeadingOffset*cmd.HeadingFactor)
	k.TugHeadingFixed = math.HeadingToFixedPoint(k.TugHeading)

	if cmd.SpeedFactor == 0 {
		return k
	}

	dir := 1.
	if cmd.SpeedFactor <= 0 {
		dir = -1
	}
	if parkingBrake {
		k.Rotation = dir * cmd.HeadingFactor * BrakedRotationRate
		k.Speed = cmd.SpeedFactor * BrakedPushbackSpeed
	} else {
		k.Rotation = dir * cmd.HeadingFactor * RotationRate
		k.Speed = cmd.SpeedFactor * PushbackSpeed
	}
	return k
}

// TurningRadius returns the radius of the turn implied by the heading
// factor, for display. The second result is false when the aircraft is
// not turning, in which case the radius is meaningless and reported as 0.
func TurningRadius(headingFactor float64) (float64, bool) {
	angle := math.Abs(ClampFactor(headingFactor) * 90)
	tan := gomath.Tan(math.Radians(angle))
	if !math.IsFinite(tan) || tan < 1e-9 {
		return 0, false
	}
	return Wheelbase / tan, true
}
