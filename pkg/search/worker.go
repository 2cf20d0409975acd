package search

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/limaJavier/smartscheduler/pkg/model"
)

type stopReason uint8

const (
	running   stopReason = iota
	enough               // Collected the requested amount of solutions
	exceeded             // Node cap, timeout or checkpoint
	cancelled            // A sibling branch won
)

type solution struct {
	assignment model.Assignment
	penalty    model.Penalty
}

// worker explores one part of the search tree depth-first over its own state
type worker struct {
	state        *state
	ctx          context.Context
	budget       model.Budget
	deadline     time.Time
	nodes        *atomic.Int64 // Shared across workers of one solve
	maxSolutions int

	backtracks int64
	found      int
	best       *solution // Lowest penalty found, the earliest on ties
	stop       stopReason
}

func newWorker(ctx context.Context, p *problem, budget model.Budget, deadline time.Time, nodes *atomic.Int64, maxSolutions int) *worker {
	return &worker{
		state:        newState(p),
		ctx:          ctx,
		budget:       budget,
		deadline:     deadline,
		nodes:        nodes,
		maxSolutions: max(maxSolutions, 1),
	}
}

// expand accounts a node expansion and reports whether the search may go on. Refused
// expansions are not counted.
func (w *worker) expand() bool {
	if w.ctx.Err() != nil {
		w.stop = cancelled
		return false
	}

	nodes := w.nodes.Add(1)
	switch {
	case w.budget.MaxNodes > 0 && nodes > w.budget.MaxNodes:
		w.stop = exceeded
	case !w.deadline.IsZero() && time.Now().After(w.deadline):
		w.stop = exceeded
	case w.budget.Checkpoint != nil && !w.budget.Checkpoint(nodes):
		w.stop = exceeded
	}
	if w.stop != running {
		w.nodes.Add(-1)
		return false
	}
	return true
}

// descend extends the current partial assignment; it returns true when the search must stop
func (w *worker) descend() bool {
	session := w.state.selectSession()
	if session < 0 {
		return w.record()
	}
	return w.branch(session, w.state.aliveValues(session))
}

func (w *worker) branch(session int, values []int) bool {
	for _, value := range values {
		if !w.state.alive[session][value] {
			continue
		}
		if !w.expand() {
			return true
		}

		mark := len(w.state.trail)
		if w.state.assign(session, value) && w.descend() {
			w.state.unassign(session, mark)
			return true
		}
		w.state.unassign(session, mark)
		w.backtracks++
	}
	return false
}

func (w *worker) record() bool {
	assignment := w.state.assignment()
	penalty := model.Score(w.state.problem.model, assignment)
	w.found++
	if w.best == nil || penalty.Total < w.best.penalty.Total {
		w.best = &solution{assignment: assignment, penalty: penalty}
	}

	if w.found >= w.maxSolutions {
		w.stop = enough
		return true
	}
	return false
}

// exhausted reports whether the worker's subtree was fully explored
func (w *worker) exhausted() bool {
	return w.stop == running
}
