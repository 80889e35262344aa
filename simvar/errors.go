// simvar/errors.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package simvar

import "errors"

var (
	ErrInvalidUnit     = errors.New("Invalid unit")
	ErrSnapshotVersion = errors.New("Unsupported snapshot version")
)
