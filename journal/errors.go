// journal/errors.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package journal

import "errors"

var ErrNoDSN = errors.New("No database DSN provided")
