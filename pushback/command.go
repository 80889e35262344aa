// pushback/command.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package pushback

import (
	"github.com/groundsim/groundsim/math"
)

// DeadZone is the half-width of the band around zero in which rudder and
// elevator deflections are ignored.
const DeadZone = 0.05

// Command is the operator's intent for the tug. Both factors are in
// [-1, 1]; positive heading factors turn the nose right, positive speed
// factors push the aircraft backward.
type Command struct {
	HeadingFactor float64
	SpeedFactor   float64
}

// ClampFactor limits v to [-1, 1]. Non-finite inputs become zero.
func ClampFactor(v float64) float64 {
	if !math.IsFinite(v) {
		return 0
	}
	return math.Clamp(v, -1, 1)
}

// ApplyDeadZone returns 0 for deflections strictly inside the dead zone
// and v otherwise.
func ApplyDeadZone(v float64) float64 {
	if v > -DeadZone && v < DeadZone {
		return 0
	}
	return v
}

// RudderFactor maps a rudder deflection to a heading factor.
func RudderFactor(pos float64) float64 {
	return ClampFactor(ApplyDeadZone(pos))
}

// ElevatorFactor maps an elevator deflection to a speed factor: pulling
// back (negative deflection) pushes the aircraft back.
func ElevatorFactor(pos float64) float64 {
	if ApplyDeadZone(pos) == 0 {
		return 0
	}
	return ClampFactor(-pos)
}
