// simvar/store.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package simvar

import (
	"log/slog"
	"maps"
	"slices"

	"github.com/brunoga/deep"
)

// Store is the simulator's variable store. Reads of unknown variables
// return zero; writes always succeed.
type Store interface {
	Get(name string, unit Unit) float64
	Set(name string, unit Unit, value float64)
}

func GetBool(s Store, name string) bool {
	return s.Get(name, Bool) != 0
}

func SetBool(s Store, name string, v bool) {
	if v {
		s.Set(name, Bool, 1)
	} else {
		s.Set(name, Bool, 0)
	}
}

// Value is a stored variable along with the unit it was last written in.
type Value struct {
	V    float64 `msgpack:"v" json:"v"`
	Unit Unit    `msgpack:"u" json:"u"`
}

// Memory is an in-process Store. Mass values are converted between
// kilograms and pounds on read; all other units are returned as they
// were written. Memory is not safe for concurrent use; the host owns it
// from a single goroutine.
type Memory struct {
	vars map[string]Value
}

func NewMemory() *Memory {
	return &Memory{vars: make(map[string]Value)}
}

func (m *Memory) Get(name string, unit Unit) float64 {
	v, ok := m.vars[name]
	if !ok {
		return 0
	}
	return ConvertMass(v.V, v.Unit, unit)
}

func (m *Memory) Set(name string, unit Unit, value float64) {
	m.vars[name] = Value{V: value, Unit: unit}
}

// Has reports whether the variable has ever been written.
func (m *Memory) Has(name string) bool {
	_, ok := m.vars[name]
	return ok
}

// Names returns the names of all variables in sorted order.
func (m *Memory) Names() []string {
	return slices.Sorted(maps.Keys(m.vars))
}

func (m *Memory) LogValue() slog.Value {
	attrs := make([]slog.Attr, 0, len(m.vars))
	for _, name := range m.Names() {
		attrs = append(attrs, slog.Float64(name, m.vars[name].V))
	}
	return slog.GroupValue(attrs...)
}

// Snapshot returns a copy of the store's contents that is independent of
// subsequent writes.
func (m *Memory) Snapshot() Snapshot {
	return Snapshot{
		Version: SnapshotVersion,
		Vars:    deep.MustCopy(m.vars),
	}
}

// Restore replaces the store's contents with those of the snapshot.
func (m *Memory) Restore(s Snapshot) error {
	if s.Version != SnapshotVersion {
		return ErrSnapshotVersion
	}
	m.vars = deep.MustCopy(s.Vars)
	if m.vars == nil {
		m.vars = make(map[string]Value)
	}
	return nil
}
