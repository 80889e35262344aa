// math/math_test.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package math

import (
	gomath "math"
	"testing"
)

func TestNormalizeHeading(t *testing.T) {
	h := [][2]float64{{90, 90}, {360, 0}, {-10, 350}, {380, 20}, {-380, 340}, {-360, 0}, {720, 0}}
	for _, pair := range h {
		if NormalizeHeading(pair[0]) != pair[1] {
			t.Errorf("normalize heading error: %f -> %f, expected %f",
				pair[0], NormalizeHeading(pair[0]), pair[1])
		}
	}
}

func TestHeadingSignedTurn(t *testing.T) {
	turns := [][3]float64{{10, 90, 80}, {10, 350, -20}, {120, 10, -110}, {120, 270, 150}}
	for _, turn := range turns {
		if result := HeadingSignedTurn(turn[0], turn[1]); result != turn[2] {
			t.Errorf("HeadingSignedTurn(%f, %f) = %f; expected %f", turn[0], turn[1], result, turn[2])
		}
	}
}

func TestHeadingDifference(t *testing.T) {
	for _, c := range [][3]float64{{10, 350, 20}, {350, 10, 20}, {0, 180, 180}, {90, 90, 0}} {
		if d := HeadingDifference(c[0], c[1]); d != c[2] {
			t.Errorf("HeadingDifference(%f, %f) = %f; expected %f", c[0], c[1], d, c[2])
		}
	}
}

func TestCompass(t *testing.T) {
	for h, expected := range map[float64]string{0: "N", 44: "NE", 90: "E", 181: "S", 350: "N", 300: "NW"} {
		if c := Compass(h); c != expected {
			t.Errorf("Compass(%f) = %s; expected %s", h, c, expected)
		}
	}
}

func TestHeadingToFixedPoint(t *testing.T) {
	if v := HeadingToFixedPoint(0); v != 0 {
		t.Errorf("expected 0, got %d", v)
	}
	for _, c := range []struct {
		h      float64
		expect uint32
	}{
		{90, 0x40000000},
		{180, 0x80000000},
		{270, 0xc0000000},
		{360, 0},
		{1, 11930464},
	} {
		if v := HeadingToFixedPoint(c.h); v != c.expect {
			t.Errorf("%.0f: expected %d, got %d", c.h, c.expect, v)
		}
	}
}

func TestSignedGenerics(t *testing.T) {
	if Sign(-3) != -1 || Sign(int8(4)) != 1 || Sign(0) != 0 {
		t.Errorf("Sign returned unexpected integer values")
	}
	if Abs(-3) != 3 || Abs(int64(-9)) != 9 || Abs(-2.5) != 2.5 {
		t.Errorf("Abs returned unexpected values")
	}
}

func TestClampSign(t *testing.T) {
	if Clamp(1.5, -1, 1) != 1 || Clamp(-3.0, -1, 1) != -1 || Clamp(0.25, -1, 1) != 0.25 {
		t.Errorf("Clamp returned unexpected values")
	}
	if Sign(-0.1) != -1 || Sign(0.0) != 0 || Sign(7) != 1 {
		t.Errorf("Sign returned unexpected values")
	}
	if IsFinite(gomath.Inf(1)) || IsFinite(gomath.NaN()) || !IsFinite(3) {
		t.Errorf("IsFinite returned unexpected values")
	}
	if Trunc(37.5) != 37 || Trunc(-2.7) != -2 {
		t.Errorf("Trunc returned unexpected values")
	}
}

func TestDistanceAndBearing(t *testing.T) {
	jfk := Point2LL{-73.778889, 40.639722}
	lax := Point2LL{-118.408056, 33.9425}

	// ~2151 nm great-circle distance.
	if d := NMDistance2LL(jfk, lax); d < 2140 || d > 2160 {
		t.Errorf("JFK-LAX distance %f nm out of expected range", d)
	}

	if b := InitialBearing(Point2LL{0, 0}, Point2LL{1, 0}); Abs(b-90) > 1e-9 {
		t.Errorf("expected bearing 90, got %f", b)
	}
	if b := InitialBearing(Point2LL{0, 0}, Point2LL{0, 1}); Abs(b) > 1e-9 {
		t.Errorf("expected bearing 0, got %f", b)
	}
}

func TestDestinationPoint(t *testing.T) {
	origin := Point2LL{8.5492, 47.4582}

	for _, c := range []struct {
		dist, bearing float64
	}{
		{0, 0}, {1852, 0}, {1852, 90}, {500, 213}, {25000, 359},
	} {
		p := DestinationPoint(origin, c.dist, c.bearing)
		if d := DistanceMeters(origin, p); Abs(d-c.dist) > 0.01 {
			t.Errorf("dist %f bearing %f: round-trip distance %f", c.dist, c.bearing, d)
		}
		if c.dist > 0 {
			if b := InitialBearing(origin, p); HeadingDifference(b, c.bearing) > 1e-6 {
				t.Errorf("dist %f bearing %f: round-trip bearing %f", c.dist, c.bearing, b)
			}
		}
	}

	// One nautical mile north is one arc minute of latitude.
	p := DestinationPoint(Point2LL{0, 0}, 1852, 0)
	if Abs(p.Latitude()-1.0/60) > 1e-4 || Abs(p.Longitude()) > 1e-12 {
		t.Errorf("unexpected point %s", p.DDString())
	}
}
