package sat

import (
	"context"
)

type cadicalSolver struct {
	path string
}

// NewCadicalSolver runs the cadical binary found at path
func NewCadicalSolver(path string) SATSolver {
	return &cadicalSolver{path: path}
}

func (solver *cadicalSolver) Solve(ctx context.Context, sat SAT) (SATSolution, error) {
	return runExternal(ctx, "cadical", solver.path, []string{"-q"}, sat)
}
