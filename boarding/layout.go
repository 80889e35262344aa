// boarding/layout.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package boarding

import (
	"fmt"
	"slices"
)

// PaxStationDef describes one passenger station of the aircraft.
type PaxStationDef struct {
	Name         string
	Seats        int
	StationIndex int    // payload station index
	Var          string // active flags variable; the target uses the _DESIRED suffix
}

// CargoStationDef describes one cargo hold subdivision.
type CargoStationDef struct {
	Name         string
	CapacityKg   float64
	StationIndex int
	Var          string
}

// PaxGroup assigns a share of a requested passenger count to a station.
// The last group of a layout receives whatever remains after the others
// have been assigned.
type PaxGroup struct {
	Station string
	Share   float64
}

// Layout is the static definition of the aircraft's stations. Stations
// are listed front to back; the order matters for the boarding sequence.
type Layout struct {
	Pax       []PaxStationDef
	Cargo     []CargoStationDef
	PaxGroups []PaxGroup
}

// A320Layout returns the station layout of the A320.
func A320Layout() Layout {
	return Layout{
		Pax: []PaxStationDef{
			{Name: "rows1_6", Seats: 36, StationIndex: 1, Var: "L:A32NX_PAX_TOTAL_ROWS_1_6"},
			{Name: "rows7_13", Seats: 42, StationIndex: 2, Var: "L:A32NX_PAX_TOTAL_ROWS_7_13"},
			{Name: "rows14_21", Seats: 48, StationIndex: 3, Var: "L:A32NX_PAX_TOTAL_ROWS_14_21"},
			{Name: "rows22_29", Seats: 48, StationIndex: 4, Var: "L:A32NX_PAX_TOTAL_ROWS_22_29"},
		},
		Cargo: []CargoStationDef{
			{Name: "fwdBag", CapacityKg: 3402, StationIndex: 5, Var: "L:A32NX_CARGO_FWD_BAGGAGE_CONTAINER"},
			{Name: "aftCont", CapacityKg: 2426, StationIndex: 6, Var: "L:A32NX_CARGO_AFT_CONTAINER"},
			{Name: "aftBag", CapacityKg: 2110, StationIndex: 7, Var: "L:A32NX_CARGO_AFT_BAGGAGE"},
			{Name: "aftBulk", CapacityKg: 1497, StationIndex: 8, Var: "L:A32NX_CARGO_AFT_BULK_LOOSE"},
		},
		PaxGroups: []PaxGroup{
			{Station: "rows22_29", Share: .28},
			{Station: "rows14_21", Share: .28},
			{Station: "rows7_13", Share: .25},
			{Station: "rows1_6", Share: 1},
		},
	}
}

// TotalSeats returns the seating capacity across all passenger stations.
func (l Layout) TotalSeats() int {
	n := 0
	for _, s := range l.Pax {
		n += s.Seats
	}
	return n
}

// Validate checks that the layout is internally consistent.
func (l Layout) Validate() error {
	names := make(map[string]bool)
	for _, s := range l.Pax {
		if s.Seats <= 0 || s.Seats > MaxStationSeats {
			return fmt.Errorf("%s: %d seats: %w", s.Name, s.Seats, ErrInvalidLayout)
		}
		if names[s.Name] {
			return fmt.Errorf("%s: duplicate station: %w", s.Name, ErrInvalidLayout)
		}
		names[s.Name] = true
	}
	for _, s := range l.Cargo {
		if s.CapacityKg <= 0 {
			return fmt.Errorf("%s: capacity %.0f: %w", s.Name, s.CapacityKg, ErrInvalidLayout)
		}
	}
	for _, g := range l.PaxGroups {
		if !slices.ContainsFunc(l.Pax, func(s PaxStationDef) bool { return s.Name == g.Station }) {
			return fmt.Errorf("%s: %w", g.Station, ErrUnknownStation)
		}
	}
	return nil
}
