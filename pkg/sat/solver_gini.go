package sat

import (
	"context"
	"time"

	"github.com/go-air/gini"
	"github.com/go-air/gini/z"
)

const giniPollInterval = 10 * time.Millisecond

type giniSolver struct{}

// NewGiniSolver returns an in-process CDCL solver
func NewGiniSolver() SATSolver {
	return &giniSolver{}
}

func (solver *giniSolver) Solve(ctx context.Context, sat SAT) (SATSolution, error) {
	g := gini.New()
	for _, clause := range sat.Clauses {
		for _, literal := range clause {
			g.Add(z.Dimacs2Lit(int(literal)))
		}
		g.Add(z.LitNull)
	}

	// Solve on a separate goroutine so the context can interrupt it
	solve := g.GoSolve()
	ticker := time.NewTicker(giniPollInterval)
	defer ticker.Stop()

	result, done := solve.Test()
	for !done {
		select {
		case <-ctx.Done():
			if result = solve.Stop(); result == 0 {
				return nil, ErrInterrupted
			}
			done = true
		case <-ticker.C:
			result, done = solve.Test()
		}
	}

	if result < 0 {
		return nil, nil
	}
	// Variables absent from every clause are unknown to gini and left false
	known := int64(g.MaxVar())
	solution := make(SATSolution, 0, sat.Variables)
	for variable := int64(1); variable <= int64(sat.Variables); variable++ {
		if variable <= known && g.Value(z.Var(variable).Pos()) {
			solution = append(solution, variable)
		} else {
			solution = append(solution, -variable)
		}
	}
	return solution, nil
}
