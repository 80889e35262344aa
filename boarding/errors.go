// boarding/errors.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package boarding

import "errors"

var (
	ErrInvalidLayout     = errors.New("Invalid station layout")
	ErrInvalidRatePolicy = errors.New("Invalid boarding rate")
	ErrUnknownStation    = errors.New("Unknown station")
)
