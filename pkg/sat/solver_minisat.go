package sat

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"strings"
)

// minisatSolver drives solvers of the minisat family, which read the instance from a file and
// write the verdict and the model to a result file
type minisatSolver struct {
	name string
	path string
}

func NewMinisatSolver(path string) SATSolver {
	return &minisatSolver{name: "minisat", path: path}
}

// NewGlucoseSolver runs glucose (the simp build), which shares minisat's interface
func NewGlucoseSolver(path string) SATSolver {
	return &minisatSolver{name: "glucose", path: path}
}

func (solver *minisatSolver) Solve(ctx context.Context, sat SAT) (SATSolution, error) {
	directory, err := os.MkdirTemp("", solver.name+"-*")
	if err != nil {
		return nil, fmt.Errorf("cannot create temporary directory: %w", err)
	}
	defer os.RemoveAll(directory)

	input, output := directory+"/instance.cnf", directory+"/result.txt"
	file, err := os.Create(input)
	if err != nil {
		return nil, err
	}
	if err := sat.WriteDIMACS(file); err != nil {
		file.Close()
		return nil, fmt.Errorf("cannot write instance: %w", err)
	}
	if err := file.Close(); err != nil {
		return nil, err
	}

	cmd := exec.CommandContext(ctx, solver.path, "-verb=0", input, output)
	var stderr strings.Builder
	cmd.Stderr = &stderr

	err = cmd.Run()
	if ctx.Err() != nil {
		return nil, ErrInterrupted
	}
	var exitErr *exec.ExitError
	if err != nil && !(errors.As(err, &exitErr) && (exitErr.ExitCode() == exitSatisfiable || exitErr.ExitCode() == exitUnsatisfiable)) {
		return nil, fmt.Errorf("%v execution failed: %w: %v", solver.name, err, strings.TrimSpace(stderr.String()))
	}

	result, err := os.ReadFile(output)
	if err != nil {
		return nil, fmt.Errorf("cannot read %v result: %w", solver.name, err)
	}
	return parseResultFile(string(result))
}

// parseResultFile reads "SAT" followed by the model line, or "UNSAT"
func parseResultFile(content string) (SATSolution, error) {
	lines := strings.Split(strings.TrimSpace(content), "\n")
	switch strings.TrimSpace(lines[0]) {
	case "UNSAT":
		return nil, nil
	case "SAT":
	default:
		return nil, ErrInterrupted
	}
	if len(lines) < 2 {
		return nil, fmt.Errorf("result file holds no model")
	}

	solution := make(SATSolution, 0)
	for _, field := range strings.Fields(lines[1]) {
		literal, err := strconv.ParseInt(field, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid literal in result file: %w", err)
		}
		if literal == 0 {
			break
		}
		solution = append(solution, literal)
	}
	return solution, nil
}
