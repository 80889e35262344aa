// math/latlong.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package math

import (
	"fmt"
	gomath "math"
)

const (
	// EarthRadiusMeters is the mean radius used for all great-circle
	// computations.
	EarthRadiusMeters = 6371000
	MetersPerNM       = 1852
	NMPerLatitude     = 60
)

///////////////////////////////////////////////////////////////////////////
// Point2LL

// Point2LL represents a 2D point on the Earth in latitude-longitude.
// Important: 0 (x) is longitude, 1 (y) is latitude
type Point2LL [2]float64

func (p Point2LL) Longitude() float64 {
	return p[0]
}

func (p Point2LL) Latitude() float64 {
	return p[1]
}

func (p Point2LL) IsZero() bool {
	return p[0] == 0 && p[1] == 0
}

// DDString returns the position in decimal degrees, e.g.:
// (39.860901, -75.274864)
func (p Point2LL) DDString() string {
	return fmt.Sprintf("(%f, %f)", p[1], p[0]) // latitude, longitude
}

// DistanceMeters returns the great-circle distance in meters between two
// provided lat-long coordinates, using the haversine formula.
func DistanceMeters(a Point2LL, b Point2LL) float64 {
	// https://www.movable-type.co.uk/scripts/latlong.html
	lat1, lon1 := Radians(a[1]), Radians(a[0])
	lat2, lon2 := Radians(b[1]), Radians(b[0])
	dlat, dlon := lat2-lat1, lon2-lon1

	x := Sqr(gomath.Sin(dlat/2)) + gomath.Cos(lat1)*gomath.Cos(lat2)*Sqr(gomath.Sin(dlon/2))
	c := 2 * gomath.Atan2(gomath.Sqrt(x), gomath.Sqrt(1-x))
	return EarthRadiusMeters * c
}

// NMDistance2LL returns the distance in nautical miles between two
// provided lat-long coordinates.
func NMDistance2LL(a Point2LL, b Point2LL) float64 {
	return DistanceMeters(a, b) / MetersPerNM
}

// InitialBearing returns the great-circle bearing in degrees [0,360) from
// the point from to the point to.
func InitialBearing(from, to Point2LL) float64 {
	lat1, lat2 := Radians(from[1]), Radians(to[1])
	dlon := Radians(to[0] - from[0])
	y := gomath.Sin(dlon) * gomath.Cos(lat2)
	x := gomath.Cos(lat1)*gomath.Sin(lat2) - gomath.Sin(lat1)*gomath.Cos(lat2)*gomath.Cos(dlon)
	return NormalizeHeading(Degrees(gomath.Atan2(y, x)))
}

// DestinationPoint returns the point reached by travelling dist meters
// from origin along the great circle with the given initial bearing in
// degrees.
func DestinationPoint(origin Point2LL, dist float64, bearing float64) Point2LL {
	delta := dist / EarthRadiusMeters
	theta := Radians(bearing)
	lat1, lon1 := Radians(origin[1]), Radians(origin[0])

	lat2 := gomath.Asin(Clamp(gomath.Sin(lat1)*gomath.Cos(delta)+
		gomath.Cos(lat1)*gomath.Sin(delta)*gomath.Cos(theta), -1, 1))
	lon2 := lon1 + gomath.Atan2(gomath.Sin(theta)*gomath.Sin(delta)*gomath.Cos(lat1),
		gomath.Cos(delta)-gomath.Sin(lat1)*gomath.Sin(lat2))

	// Normalize longitude to [-180,180).
	lon := gomath.Mod(Degrees(lon2)+540, 360) - 180
	return Point2LL{lon, Degrees(lat2)}
}
