// boarding/engine.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

// Package boarding implements the passenger and cargo boarding state
// machine. The engine is driven by an external scheduler that calls
// Update with the time elapsed since the previous call; all aircraft
// state lives in a simvar.Store and is re-read on every tick.
package boarding

import (
	"context"
	"fmt"
	"log/slog"
	gomath "math"
	"slices"
	"time"

	"github.com/goforj/godump"

	"github.com/groundsim/groundsim/log"
	"github.com/groundsim/groundsim/math"
	"github.com/groundsim/groundsim/rand"
	"github.com/groundsim/groundsim/sim"
	"github.com/groundsim/groundsim/simvar"
)

const (
	DefaultPaxWeightKg = 84
	DefaultBagWeightKg = 20

	// CargoStepMax is the largest change in a cargo station's load in a
	// single boarding step.
	CargoStepMax = 60
)

// Weights are the per-passenger and per-bag weights in the user mass
// unit, typically taken from the OFP. Zero values select the defaults.
type Weights struct {
	PerPax float64
	PerBag float64
}

type PaxStation struct {
	PaxStationDef
	Active  SeatFlags
	Desired SeatFlags
}

type CargoStation struct {
	CargoStationDef
	Capacity float64 // in the user mass unit
	Load     float64
	Desired  float64
}

// Outcome reports what a call to Update did.
type Outcome int

const (
	OutcomeIdle      Outcome = iota // boarding not started
	OutcomeGated                    // the aircraft cannot board right now
	OutcomeCompleted                // the boarding-complete pulse was emitted
	OutcomeConverged                // instant policy set every station to its target
	OutcomeWaiting                  // accumulating time toward the next step
	OutcomeStepped                  // a discrete boarding step was taken
)

func (o Outcome) String() string {
	return [...]string{"idle", "gated", "completed", "converged", "waiting", "stepped"}[o]
}

type Config struct {
	Layout     Layout
	Rate       RatePolicy
	Units      simvar.UnitSystem
	OFPWeights Weights
	// Payload receives per-station weights; if nil, the PAYLOAD STATION
	// WEIGHT variables of the store are written.
	Payload simvar.PayloadModel
	Rand    *rand.Rand
	Events  *sim.EventStream
}

type Engine struct {
	store   simvar.Store
	payload simvar.PayloadModel
	units   simvar.UnitSystem
	ofp     Weights
	pax     []*PaxStation
	cargo   []*CargoStation
	groups  []PaxGroup

	rate    RatePolicy
	state   State
	elapsed time.Duration
	// wasBoarding latches once passengers are below target so that the
	// boarding-complete pulse fires once per convergence.
	wasBoarding bool
	started     bool

	rand   *rand.Rand
	events *sim.EventStream
	lg     *log.Logger
}

func NewEngine(store simvar.Store, cfg Config, lg *log.Logger) (*Engine, error) {
	if err := cfg.Layout.Validate(); err != nil {
		return nil, err
	}

	e := &Engine{
		store:   store,
		payload: cfg.Payload,
		units:   cfg.Units,
		ofp:     cfg.OFPWeights,
		groups:  slices.Clone(cfg.Layout.PaxGroups),
		rate:    cfg.Rate,
		state:   StateFinished,
		rand:    cfg.Rand,
		events:  cfg.Events,
		lg:      lg,
	}
	if e.payload == nil {
		e.payload = simvar.StorePayload{Store: store}
	}
	if e.rand == nil {
		e.rand = rand.New()
	}

	for _, def := range cfg.Layout.Pax {
		e.pax = append(e.pax, &PaxStation{
			PaxStationDef: def,
			Active:        NewSeatFlags(def.Seats),
			Desired:       NewSeatFlags(def.Seats),
		})
	}
	for _, def := range cfg.Layout.Cargo {
		e.cargo = append(e.cargo, &CargoStation{
			CargoStationDef: def,
			Capacity:        e.units.KgToUser(def.CapacityKg),
		})
	}

	return e, nil
}

// Initialize zeroes every station, publishes the default weights and
// writes the resulting (empty) payload.
func (e *Engine) Initialize() {
	e.SetDefaultWeights(e.ofp)

	for _, st := range e.pax {
		st.Active = NewSeatFlags(st.Seats)
		st.Desired = NewSeatFlags(st.Seats)
		e.store.Set(st.Var, simvar.Number, 0)
		e.store.Set(simvar.Desired(st.Var), simvar.Number, 0)
	}
	for _, st := range e.cargo {
		st.Load, st.Desired = 0, 0
		e.payload.SetStationWeight(st.StationIndex, simvar.Kilograms, 0)
		e.store.Set(simvar.Desired(st.Var), simvar.Number, 0)
		e.store.Set(st.Var, simvar.Number, 0)
	}
	e.writePayload()

	e.state = StateFinished
	e.elapsed = 0
	e.wasBoarding = false

	e.lg.Info("boarding initialized", slog.Int("seats", e.TotalSeats()),
		slog.String("unit", string(e.units.UserMass())))
}

// SetDefaultWeights publishes the per-passenger and per-bag weights;
// zero fields fall back to 84 kg and 20 kg converted to the user unit.
func (e *Engine) SetDefaultWeights(w Weights) {
	perPax, perBag := w.PerPax, w.PerBag
	if perPax <= 0 {
		perPax = gomath.Round(e.units.KgToUser(DefaultPaxWeightKg))
	}
	if perBag <= 0 {
		perBag = gomath.Round(e.units.KgToUser(DefaultBagWeightKg))
	}
	e.store.Set(simvar.PerPaxWeight, simvar.Number, float64(math.Trunc(perPax)))
	e.store.Set(simvar.PerBagWeight, simvar.Number, float64(math.Trunc(perBag)))
	e.store.Set(simvar.UnitConversionFactor, simvar.Number, e.units.ConversionFactor())
}

func (e *Engine) TotalSeats() int {
	n := 0
	for _, st := range e.pax {
		n += st.Seats
	}
	return n
}

func (e *Engine) Rate() RatePolicy     { return e.rate }
func (e *Engine) SetRate(r RatePolicy) { e.rate = r }
func (e *Engine) State() State         { return e.state }
func (e *Engine) Started() bool        { return simvar.GetBool(e.store, simvar.BoardingStartedByUser) }
func (e *Engine) StartBoarding()       { simvar.SetBool(e.store, simvar.BoardingStartedByUser, true) }
func (e *Engine) StopBoarding()        { simvar.SetBool(e.store, simvar.BoardingStartedByUser, false) }

func (e *Engine) ToggleBoarding() {
	simvar.SetBool(e.store, simvar.BoardingStartedByUser, !e.Started())
}

///////////////////////////////////////////////////////////////////////////
// Targets

// GroupAllocation is the number of seats assigned to one station by
// SetPassengerTarget.
type GroupAllocation struct {
	Station string
	Seats   int
}

type Allocation struct {
	Requested int
	Assigned  int
	Groups    []GroupAllocation
	// Truncated is set when station capacities prevented the full
	// request from being assigned.
	Truncated bool
}

// SetPassengerTarget distributes count passengers across the station
// groups. Each group but the last receives the truncated share of count;
// the last group receives whatever remains, so rounding error accumulates
// there. Every group is capped at its station's seat count and excess
// passengers are discarded.
func (e *Engine) SetPassengerTarget(count int) Allocation {
	count = max(count, 0)
	alloc := Allocation{Requested: count}
	remaining := count

	for i, g := range e.groups {
		st := e.paxStation(g.Station)
		base := count
		if i == len(e.groups)-1 {
			base = remaining
		}
		n := min(math.Trunc(g.Share*float64(base)), st.Seats)
		n = max(n, 0)

		desired := NewSeatFlags(st.Seats)
		desired.Fill(n, desired.EmptyIDs(), e.rand)
		st.Desired = desired
		e.store.Set(simvar.Desired(st.Var), simvar.Number, desired.Number())

		remaining -= n
		alloc.Assigned += n
		alloc.Groups = append(alloc.Groups, GroupAllocation{Station: st.Name, Seats: n})
	}
	alloc.Truncated = alloc.Assigned < count

	e.lg.Info("passenger target set", slog.Int("requested", count),
		slog.Int("assigned", alloc.Assigned), slog.Bool("truncated", alloc.Truncated))
	return alloc
}

// SetCargoTarget distributes a total cargo load across the cargo stations
// in proportion to their capacities; the last station receives the
// remainder. It returns the load actually assigned.
func (e *Engine) SetCargoTarget(total float64) float64 {
	total = max(total, 0)
	capacity := 0.
	for _, st := range e.cargo {
		capacity += st.Capacity
	}

	remaining, assigned := total, 0.
	for i, st := range e.cargo {
		v := remaining
		if i < len(e.cargo)-1 {
			v = float64(math.Trunc(total * st.Capacity / capacity))
		}
		v = math.Clamp(v, 0, st.Capacity)
		st.Desired = v
		e.store.Set(simvar.Desired(st.Var), simvar.Number, v)
		remaining -= v
		assigned += v
	}

	e.lg.Info("cargo target set", slog.Float64("requested", total), slog.Float64("assigned", assigned))
	return assigned
}

func (e *Engine) paxStation(name string) *PaxStation {
	for _, st := range e.pax {
		if st.Name == name {
			return st
		}
	}
	// Layout.Validate checks group names at construction.
	panic(fmt.Sprintf("%s: %v", name, ErrUnknownStation))
}

///////////////////////////////////////////////////////////////////////////
// Update

// CanBoard reports whether the aircraft is in a state where passengers
// and cargo can be moved: stationary on the ground, engines off, and
// with at least one of the relevant DC buses powered.
func CanBoard(s simvar.Store) bool {
	gs := s.Get(simvar.GPSGroundSpeed, simvar.Knots)
	onGround := simvar.GetBool(s, simvar.SimOnGround)
	eng1 := simvar.GetBool(s, simvar.Eng1Combustion)
	eng2 := simvar.GetBool(s, simvar.Eng2Combustion)
	dc2 := simvar.GetBool(s, simvar.BusDC2Powered)
	dcHot1 := simvar.GetBool(s, simvar.BusDCHot1Powered)

	return !(gs > 0.1 || eng1 || eng2 || !onGround || (!dc2 && !dcHot1))
}

type aggregate struct {
	pax, paxTarget   int
	load, loadTarget float64
	allPaxFilled     bool
	allCargoFilled   bool
}

// Update advances the boarding state machine by elapsed.
func (e *Engine) Update(elapsed time.Duration) Outcome {
	started := e.Started()
	if started && !e.started {
		e.lg.Info("boarding started", slog.String("rate", e.rate.String()))
		e.post(sim.BoardingStartedEvent, e.readTotals())
	}
	e.started = started

	if !started {
		return OutcomeIdle
	}
	if e.rate != RateInstant && !CanBoard(e.store) {
		return OutcomeGated
	}

	t := e.readTotals()

	// Sounds
	simvar.SetBool(e.store, simvar.SoundPaxBoarding, t.pax < t.paxTarget)
	if t.pax < t.paxTarget {
		e.wasBoarding = true
	}
	simvar.SetBool(e.store, simvar.SoundPaxDeboarding, t.pax > t.paxTarget)

	if t.pax == t.paxTarget && e.wasBoarding {
		simvar.SetBool(e.store, simvar.SoundBoardingComplete, true)
		e.wasBoarding = false
		e.post(sim.BoardingCompleteSoundEvent, t)
		return OutcomeCompleted
	}
	simvar.SetBool(e.store, simvar.SoundBoardingComplete, false)
	simvar.SetBool(e.store, simvar.SoundPaxAmbience, t.pax > 0)

	switch {
	case t.pax == t.paxTarget && t.load == t.loadTarget && t.allPaxFilled && t.allCargoFilled:
		e.setState(StateFinished)
		simvar.SetBool(e.store, simvar.BoardingStartedByUser, false)
		e.started = false
		e.post(sim.BoardingFinishedEvent, t)
		e.debugDump("boarding finished")

	case t.pax < t.paxTarget || t.load < t.loadTarget:
		e.setState(StateBoarding)

	case t.pax == t.paxTarget && t.load == t.loadTarget:
		// The aggregates match even though some station still differs
		// from its target; the remaining steps reshuffle without
		// reporting boarding.
		e.setState(StateFinished)
	}

	if e.rate == RateInstant {
		for _, st := range e.pax {
			st.Active = st.Desired
			e.store.Set(st.Var, simvar.Number, st.Active.Number())
		}
		for _, st := range e.cargo {
			e.fillCargoStation(st, st.Desired)
		}
		e.writePayload()
		return OutcomeConverged
	}

	e.elapsed += elapsed
	if e.elapsed <= e.rate.StepDelay() {
		return OutcomeWaiting
	}
	e.elapsed = 0

	e.step()
	e.writePayload()
	e.post(sim.BoardingStepEvent, e.totals())
	return OutcomeStepped
}

// step moves at most one passenger and one cargo station toward target.
func (e *Engine) step() {
	// Passengers board from the back of the aircraft forward.
	for _, st := range slices.Backward(e.pax) {
		n, target := st.Active.Count(), st.Desired.Count()
		if n < target {
			e.fillPaxStation(st, n+1)
			break
		} else if n > target {
			e.fillPaxStation(st, n-1)
			break
		}
		e.shufflePax(st)
	}

	for _, st := range e.cargo {
		if st.Load == st.Desired {
			continue
		}
		if delta := math.Abs(st.Desired - st.Load); delta <= CargoStepMax {
			e.fillCargoStation(st, st.Desired)
		} else {
			e.fillCargoStation(st, st.Load+math.Sign(st.Desired-st.Load)*CargoStepMax)
		}
		break
	}
}

// fillPaxStation brings the station's occupied seat count to target,
// picking seats the target assignment wants filled (or emptied).
func (e *Engine) fillPaxStation(st *PaxStation, target int) {
	diff := min(target, st.Seats) - st.Active.Count()

	if diff > 0 {
		st.Active.Fill(diff, st.Desired.Difference(st.Active), e.rand)
	} else if diff < 0 {
		st.Active.Empty(-diff, st.Active.Difference(st.Desired), e.rand)
	} else {
		st.Active = st.Desired
	}

	e.lg.Debug("pax station", slog.String("station", st.Name), slog.Int("seats", st.Active.Count()),
		slog.Int("target", st.Desired.Count()))
	e.store.Set(st.Var, simvar.Number, st.Active.Number())
}

// shufflePax replaces the occupied seat identities with the desired ones
// without changing the count.
func (e *Engine) shufflePax(st *PaxStation) {
	st.Active = st.Desired
	e.store.Set(st.Var, simvar.Number, st.Active.Number())
}

func (e *Engine) fillCargoStation(st *CargoStation, load float64) {
	st.Load = math.Clamp(load, 0, st.Capacity)
	e.store.Set(st.Var, simvar.Number, st.Load)
}

func (e *Engine) readStations() {
	for _, st := range e.pax {
		st.Active = SeatFlagsFromNumber(e.store.Get(st.Var, simvar.Number), st.Seats)
		st.Desired = SeatFlagsFromNumber(e.store.Get(simvar.Desired(st.Var), simvar.Number), st.Seats)
	}
	for _, st := range e.cargo {
		st.Load = math.Clamp(e.store.Get(st.Var, simvar.Number), 0, st.Capacity)
		st.Desired = math.Clamp(e.store.Get(simvar.Desired(st.Var), simvar.Number), 0, st.Capacity)
	}
}

func (e *Engine) readTotals() aggregate {
	e.readStations()
	return e.totals()
}

func (e *Engine) totals() aggregate {
	t := aggregate{allPaxFilled: true, allCargoFilled: true}
	for _, st := range e.pax {
		n, target := st.Active.Count(), st.Desired.Count()
		t.pax += n
		t.paxTarget += target
		if n != target {
			t.allPaxFilled = false
		}
	}
	for _, st := range e.cargo {
		t.load += st.Load
		t.loadTarget += st.Desired
		if st.Load != st.Desired {
			t.allCargoFilled = false
		}
	}
	return t
}

// writePayload publishes per-station weights in the user mass unit.
func (e *Engine) writePayload() {
	perPax := e.store.Get(simvar.PerPaxWeight, simvar.Number)
	unit := e.units.UserMass()
	for _, st := range e.pax {
		e.payload.SetStationWeight(st.StationIndex, unit, float64(st.Active.Count())*perPax)
	}
	for _, st := range e.cargo {
		e.payload.SetStationWeight(st.StationIndex, unit, st.Load)
	}
}

func (e *Engine) setState(s State) {
	if s != e.state {
		e.lg.Info("boarding state", slog.String("from", e.state.String()), slog.String("to", s.String()))
		e.state = s
	}
}

func (e *Engine) post(t sim.EventType, tot aggregate) {
	e.events.Post(sim.Event{
		Type:            t,
		Passengers:      tot.pax,
		PassengerTarget: tot.paxTarget,
		Cargo:           tot.load,
		CargoTarget:     tot.loadTarget,
		Message:         e.rate.String(),
	})
}

func (e *Engine) debugDump(msg string) {
	if e.lg != nil && e.lg.Logger.Enabled(context.Background(), slog.LevelDebug) {
		e.lg.Debug(msg, slog.String("status", godump.DumpStr(e.Status())))
	}
}

///////////////////////////////////////////////////////////////////////////
// Status

// Status is a copy of the engine's view of the aircraft, for display.
type Status struct {
	State           State
	Rate            RatePolicy
	Started         bool
	CanBoard        bool
	Passengers      int
	PassengerTarget int
	Cargo           float64
	CargoTarget     float64
	PaxStations     []PaxStation
	CargoStations   []CargoStation
}

// Status re-reads the stations from the store and returns a snapshot
// that is independent of later updates.
func (e *Engine) Status() Status {
	t := e.readTotals()
	s := Status{
		State:           e.state,
		Rate:            e.rate,
		Started:         e.Started(),
		CanBoard:        CanBoard(e.store),
		Passengers:      t.pax,
		PassengerTarget: t.paxTarget,
		Cargo:           t.load,
		CargoTarget:     t.loadTarget,
	}
	for _, st := range e.pax {
		s.PaxStations = append(s.PaxStations, *st)
	}
	for _, st := range e.cargo {
		s.CargoStations = append(s.CargoStations, *st)
	}
	return s
}
