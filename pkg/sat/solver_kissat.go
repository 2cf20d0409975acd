package sat

import (
	"context"
)

type kissatSolver struct {
	path string
}

// NewKissatSolver runs the kissat binary found at path
func NewKissatSolver(path string) SATSolver {
	return &kissatSolver{path: path}
}

func (solver *kissatSolver) Solve(ctx context.Context, sat SAT) (SATSolution, error) {
	return runExternal(ctx, "kissat", solver.path, []string{"-q", "--relaxed"}, sat)
}
