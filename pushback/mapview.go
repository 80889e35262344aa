// pushback/mapview.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package pushback

import (
	gomath "math"

	"github.com/groundsim/groundsim/math"
)

const (
	// MapPixelsPerNM is the map scale at a range of 1; the scale is
	// inversely proportional to the range.
	MapPixelsPerNM = 900

	DefaultMapRange = 0.2
	MinMapRange     = 0.1
	MaxMapRange     = 1.5
	MapRangeStep    = 0.1

	// DragThreshold is the movement, in pixels, before a press becomes a
	// drag.
	DragThreshold = 3
)

// MapView tracks the center of the pushback map. The center follows the
// aircraft until the operator drags the map, after which it is dead
// reckoned from the drag offsets. Nothing here affects the tug.
type MapView struct {
	Range         float64
	Center        math.Point2LL
	CenterOnPlane bool

	mouseDown bool
	dragging  bool
	dragStart [2]float64
}

func NewMapView() *MapView {
	return &MapView{
		Range:         DefaultMapRange,
		CenterOnPlane: true,
	}
}

func (m *MapView) ZoomIn()  { m.setRange(m.Range - MapRangeStep) }
func (m *MapView) ZoomOut() { m.setRange(m.Range + MapRangeStep) }

func (m *MapView) setRange(r float64) {
	// Round to the step so that repeated zooming does not drift.
	r = gomath.Round(r*10) / 10
	m.Range = math.Clamp(r, MinMapRange, MaxMapRange)
}

// Follow recenters the map on the aircraft if center-on-plane mode is
// active.
func (m *MapView) Follow(plane math.Point2LL) {
	if m.CenterOnPlane {
		m.Center = plane
	}
}

// SetCenterOnPlane switches center-on-plane mode; enabling it snaps the
// center to the aircraft.
func (m *MapView) SetCenterOnPlane(on bool, plane math.Point2LL) {
	m.CenterOnPlane = on
	m.Follow(plane)
}

// Offset returns the position reached from p by a screen-space
// displacement of (dx, dy) pixels on a map that is rotated to the
// aircraft's true heading.
func (m *MapView) Offset(p math.Point2LL, dx, dy, heading float64) math.Point2LL {
	scale := MapPixelsPerNM / m.Range
	nm := gomath.Hypot(dx, dy) / scale
	bearing := math.Degrees(gomath.Atan2(dy, dx)) - 90 + heading
	return math.DestinationPoint(p, nm*math.MetersPerNM, bearing)
}

// Pan moves the center directly, as for a keyboard drag, and leaves
// center-on-plane mode.
func (m *MapView) Pan(dx, dy, heading float64) {
	m.CenterOnPlane = false
	m.Center = m.Offset(m.Center, dx, dy, heading)
}

func (m *MapView) MouseDown(x, y float64) {
	m.mouseDown = true
	m.dragStart = [2]float64{x, y}
}

// MouseMove updates a drag in progress. A press only turns into a drag
// once the pointer has moved more than DragThreshold pixels on either
// axis.
func (m *MapView) MouseMove(x, y, heading float64) {
	if m.mouseDown && !m.dragging &&
		(math.Abs(x-m.dragStart[0]) > DragThreshold || math.Abs(y-m.dragStart[1]) > DragThreshold) {
		m.dragging = true
	}
	if !m.dragging {
		return
	}
	m.Pan(x-m.dragStart[0], y-m.dragStart[1], heading)
	m.dragStart = [2]float64{x, y}
}

func (m *MapView) MouseUp() {
	m.mouseDown = false
	m.dragging = false
}

func (m *MapView) Dragging() bool {
	return m.dragging
}
