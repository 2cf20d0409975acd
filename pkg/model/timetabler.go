package model

import "time"

type Status int

const (
	Unknown    Status = iota // Budget exhausted before a proof either way
	Feasible                 // A complete assignment was found
	Infeasible               // Search space exhausted, no assignment exists
)

func (status Status) String() string {
	switch status {
	case Feasible:
		return "feasible"
	case Infeasible:
		return "infeasible"
	default:
		return "unknown"
	}
}

// Assignment maps every session (by index) to its placement
type Assignment []Value

// Budget caps the effort of a single solve. Zero values mean no limit.
type Budget struct {
	MaxNodes   int64
	Timeout    time.Duration
	Checkpoint func(nodes int64) bool // Invoked once per node expansion; returning false stops the search
}

type Stats struct {
	Nodes      int64
	Backtracks int64
	Solutions  int
	Exhausted  bool
	Elapsed    time.Duration
}

type Outcome struct {
	Status     Status
	Assignment Assignment // Only set when Status is Feasible
	Penalty    Penalty
	Stats      Stats
}

type Timetabler interface {
	Solve(model *Model, budget Budget) (Outcome, error)
}
