// boarding/seats.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package boarding

import (
	"fmt"
	"math/bits"

	"github.com/groundsim/groundsim/rand"
)

// MaxStationSeats is the largest passenger station that SeatFlags can
// represent; the host stores flags in a float64 variable, so the bitmask
// must stay exactly representable.
const MaxStationSeats = 52

// SeatFlags records which seats of a station are occupied, one bit per
// seat id in [0, seats).
type SeatFlags struct {
	bits  uint64
	seats int
}

func NewSeatFlags(seats int) SeatFlags {
	if seats < 0 || seats > MaxStationSeats {
		panic(fmt.Sprintf("%d: invalid station seat count", seats))
	}
	return SeatFlags{seats: seats}
}

// SeatFlagsFromNumber decodes the variable-store representation of a
// station's flags. Bits beyond the station's capacity are discarded.
func SeatFlagsFromNumber(v float64, seats int) SeatFlags {
	f := NewSeatFlags(seats)
	if v > 0 {
		f.bits = uint64(v) & f.mask()
	}
	return f
}

func (f SeatFlags) mask() uint64 {
	return (uint64(1) << f.seats) - 1
}

// Number returns the flags in the form they are written to the variable
// store.
func (f SeatFlags) Number() float64 {
	return float64(f.bits)
}

func (f SeatFlags) Capacity() int {
	return f.seats
}

func (f SeatFlags) Count() int {
	return bits.OnesCount64(f.bits)
}

func (f SeatFlags) IsFilled(id int) bool {
	return id >= 0 && id < f.seats && f.bits&(uint64(1)<<id) != 0
}

func (f *SeatFlags) Set(id int, filled bool) {
	if id < 0 || id >= f.seats {
		return
	}
	if filled {
		f.bits |= uint64(1) << id
	} else {
		f.bits &^= uint64(1) << id
	}
}

func (f SeatFlags) FilledIDs() []int {
	var ids []int
	for id := range f.seats {
		if f.IsFilled(id) {
			ids = append(ids, id)
		}
	}
	return ids
}

func (f SeatFlags) EmptyIDs() []int {
	var ids []int
	for id := range f.seats {
		if !f.IsFilled(id) {
			ids = append(ids, id)
		}
	}
	return ids
}

// Fill occupies up to n seats chosen at random from choices and returns
// the number of seats that changed.
func (f *SeatFlags) Fill(n int, choices []int, r *rand.Rand) int {
	changed := 0
	for _, id := range rand.Sample(r, choices, len(choices)) {
		if changed == n {
			break
		}
		if id >= 0 && id < f.seats && !f.IsFilled(id) {
			f.Set(id, true)
			changed++
		}
	}
	return changed
}

// Empty vacates up to n seats chosen at random from choices and returns
// the number of seats that changed.
func (f *SeatFlags) Empty(n int, choices []int, r *rand.Rand) int {
	changed := 0
	for _, id := range rand.Sample(r, choices, len(choices)) {
		if changed == n {
			break
		}
		if f.IsFilled(id) {
			f.Set(id, false)
			changed++
		}
	}
	return changed
}

// Difference returns the ids that are filled in f but not in g.
func (f SeatFlags) Difference(g SeatFlags) []int {
	var ids []int
	for id := range f.seats {
		if f.IsFilled(id) && !g.IsFilled(id) {
			ids = append(ids, id)
		}
	}
	return ids
}

func (f SeatFlags) String() string {
	return fmt.Sprintf("%d/%d %0*b", f.Count(), f.seats, max(f.seats, 1), f.bits)
}
