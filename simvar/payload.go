// simvar/payload.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package simvar

// PayloadModel accepts per-station mass writes; the last write for a
// station wins.
type PayloadModel interface {
	SetStationWeight(index int, unit Unit, weight float64)
}

// StorePayload is a PayloadModel that writes the host's PAYLOAD STATION
// WEIGHT variables.
type StorePayload struct {
	Store Store
}

func (p StorePayload) SetStationWeight(index int, unit Unit, weight float64) {
	p.Store.Set(PayloadStationWeight(index), unit, weight)
}
