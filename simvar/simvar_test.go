// simvar/simvar_test.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package simvar

import (
	"errors"
	gomath "math"
	"path/filepath"
	"slices"
	"testing"
)

func TestConvertMass(t *testing.T) {
	if v := ConvertMass(100, Pounds, Kilograms); gomath.Abs(v-45.35934) > 1e-9 {
		t.Errorf("expected 45.35934 kg, got %f", v)
	}
	if v := ConvertMass(45.35934, Kilograms, Pounds); gomath.Abs(v-100) > 1e-9 {
		t.Errorf("expected 100 lbs, got %f", v)
	}
	if v := ConvertMass(12, Number, Kilograms); v != 12 {
		t.Errorf("expected non-mass value passed through, got %f", v)
	}
}

func TestParseMassUnit(t *testing.T) {
	for s, expected := range map[string]Unit{"kg": Kilograms, "LBS": Pounds, "pounds": Pounds, "metric": Kilograms} {
		if u, err := ParseMassUnit(s); err != nil || u != expected {
			t.Errorf("%s: expected %s, got %s (%v)", s, expected, u, err)
		}
	}
	if _, err := ParseMassUnit("stone"); !errors.Is(err, ErrInvalidUnit) {
		t.Errorf("expected ErrInvalidUnit, got %v", err)
	}
}

func TestUnitSystem(t *testing.T) {
	var metric UnitSystem
	if metric.UserMass() != Kilograms || metric.KgToUser(84) != 84 || metric.ConversionFactor() != KilogramsPerPound {
		t.Errorf("unexpected metric behavior")
	}

	imperial := UnitSystem{Mass: Pounds}
	if v := imperial.KgToUser(84); gomath.Round(v) != 185 {
		t.Errorf("expected 84 kg to round to 185 lbs, got %f", v)
	}
	if imperial.ConversionFactor() != 1 {
		t.Errorf("expected conversion factor 1, got %f", imperial.ConversionFactor())
	}
}

func TestMemoryStore(t *testing.T) {
	m := NewMemory()
	if m.Get("missing", Number) != 0 || m.Has("missing") {
		t.Errorf("expected zero default for unknown variable")
	}

	SetBool(m, SimOnGround, true)
	if !GetBool(m, SimOnGround) {
		t.Errorf("expected bool to round-trip")
	}

	m.Set(PayloadStationWeight(5), Pounds, 100)
	if v := m.Get(PayloadStationWeight(5), Kilograms); gomath.Abs(v-45.35934) > 1e-9 {
		t.Errorf("expected mass conversion on read, got %f", v)
	}

	if names := m.Names(); !slices.Equal(names, []string{PayloadStationWeight(5), SimOnGround}) {
		t.Errorf("unexpected names %v", names)
	}
}

func TestStorePayload(t *testing.T) {
	m := NewMemory()
	p := StorePayload{Store: m}
	p.SetStationWeight(3, Kilograms, 10)
	p.SetStationWeight(3, Kilograms, 20)
	if v := m.Get("PAYLOAD STATION WEIGHT:3", Kilograms); v != 20 {
		t.Errorf("expected last write to win, got %f", v)
	}
}

func TestSnapshotRoundTrip(t *testing.T) {
	m := NewMemory()
	m.Set(Desired("L:A32NX_PAX_TOTAL_ROWS_1_6"), Number, 7)
	SetBool(m, BoardingStartedByUser, true)

	snap := m.Snapshot()
	// Later writes must not leak into the snapshot.
	m.Set(Desired("L:A32NX_PAX_TOTAL_ROWS_1_6"), Number, 99)

	path := filepath.Join(t.TempDir(), "sub", "vars.snap")
	if err := SaveSnapshot(path, snap); err != nil {
		t.Fatalf("SaveSnapshot: %v", err)
	}
	loaded, err := LoadSnapshot(path)
	if err != nil {
		t.Fatalf("LoadSnapshot: %v", err)
	}
	if loaded.Saved.IsZero() {
		t.Errorf("expected save time to be recorded")
	}

	r := NewMemory()
	if err := r.Restore(loaded); err != nil {
		t.Fatalf("Restore: %v", err)
	}
	if v := r.Get("L:A32NX_PAX_TOTAL_ROWS_1_6_DESIRED", Number); v != 7 {
		t.Errorf("expected 7 after restore, got %f", v)
	}
	if !GetBool(r, BoardingStartedByUser) {
		t.Errorf("expected boarding flag after restore")
	}

	if err := r.Restore(Snapshot{Version: 99}); !errors.Is(err, ErrSnapshotVersion) {
		t.Errorf("expected ErrSnapshotVersion, got %v", err)
	}
}
