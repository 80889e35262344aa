// boarding/rate.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package boarding

import (
	"fmt"
	"strings"
	"time"
)

// RatePolicy selects how quickly boarding progresses.
type RatePolicy int

const (
	RateReal RatePolicy = iota
	RateFast
	RateInstant
)

func (r RatePolicy) String() string {
	switch r {
	case RateReal:
		return "REAL"
	case RateFast:
		return "FAST"
	case RateInstant:
		return "INSTANT"
	default:
		return "UNKNOWN"
	}
}

// StepDelay returns the accumulated time that must be exceeded before
// a discrete boarding step is taken.
func (r RatePolicy) StepDelay() time.Duration {
	if r == RateFast {
		return time.Second
	}
	return 5 * time.Second
}

// Next cycles through the policies; the UI uses it for its rate toggle.
func (r RatePolicy) Next() RatePolicy {
	return (r + 1) % 3
}

func ParseRatePolicy(s string) (RatePolicy, error) {
	switch strings.ToUpper(s) {
	case "REAL", "":
		return RateReal, nil
	case "FAST":
		return RateFast, nil
	case "INSTANT":
		return RateInstant, nil
	default:
		return RateReal, fmt.Errorf("%s: %w", s, ErrInvalidRatePolicy)
	}
}

// State is the boarding machine state.
type State int

const (
	StateFinished State = iota
	StateBoarding
)

func (s State) String() string {
	if s == StateBoarding {
		return "boarding"
	}
	return "finished"
}
