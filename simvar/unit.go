// simvar/unit.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package simvar

import (
	"fmt"
	"strings"
)

// Unit is the unit tag that accompanies every variable read and write.
type Unit string

const (
	Bool      Unit = "Bool"
	Number    Unit = "Number"
	Kilograms Unit = "Kilograms"
	Pounds    Unit = "Pounds"
	Knots     Unit = "Knots"
	Degrees   Unit = "Degrees"
	Radians   Unit = "Radians"
	Enum      Unit = "Enum"
)

// KilogramsPerPound is the conversion factor the host uses between its
// two mass units.
const KilogramsPerPound = 0.4535934

func (u Unit) IsMass() bool {
	return u == Kilograms || u == Pounds
}

// ConvertMass converts v from one mass unit to another. Non-mass units
// are returned unchanged.
func ConvertMass(v float64, from, to Unit) float64 {
	switch {
	case from == to || !from.IsMass() || !to.IsMass():
		return v
	case from == Pounds:
		return v * KilogramsPerPound
	default:
		return v / KilogramsPerPound
	}
}

// ParseMassUnit accepts the usual spellings of the two mass units.
func ParseMassUnit(s string) (Unit, error) {
	switch strings.ToLower(s) {
	case "kg", "kgs", "kilograms", "metric":
		return Kilograms, nil
	case "lb", "lbs", "pounds", "imperial":
		return Pounds, nil
	default:
		return "", fmt.Errorf("%s: %w", s, ErrInvalidUnit)
	}
}

// UnitSystem captures the operator's display unit preference; it only
// affects default weights and payload writes.
type UnitSystem struct {
	Mass Unit
}

func (u UnitSystem) massUnit() Unit {
	if u.Mass == "" {
		return Kilograms
	}
	return u.Mass
}

// UserMass returns the mass unit that payload values are expressed in.
func (u UnitSystem) UserMass() Unit {
	return u.massUnit()
}

// KgToUser converts kilograms into the operator's mass unit.
func (u UnitSystem) KgToUser(kg float64) float64 {
	return ConvertMass(kg, Kilograms, u.massUnit())
}

// ConversionFactor is the value published for the EFB so that it can
// convert pounds to the user unit: 0.4535934 when the user unit is
// kilograms, 1 otherwise.
func (u UnitSystem) ConversionFactor() float64 {
	if u.massUnit() == Kilograms {
		return KilogramsPerPound
	}
	return 1
}
