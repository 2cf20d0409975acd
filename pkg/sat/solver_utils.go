package sat

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"strings"

	"github.com/samber/lo"
)

// SAT competition exit codes
const (
	exitSatisfiable   = 10
	exitUnsatisfiable = 20
)

// runExternal feeds the instance to a solver binary on standard input and reads its verdict
// from the exit code
func runExternal(ctx context.Context, name, path string, args []string, sat SAT) (SATSolution, error) {
	cmd := exec.CommandContext(ctx, path, args...)

	var stdin bytes.Buffer
	if err := sat.WriteDIMACS(&stdin); err != nil {
		return nil, err
	}
	cmd.Stdin = &stdin

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	if ctx.Err() != nil {
		return nil, ErrInterrupted
	}

	var exitErr *exec.ExitError
	switch {
	case err == nil:
		// Some builds exit with 0 and only report the status line
		if strings.Contains(stdout.String(), "s UNSATISFIABLE") {
			return nil, nil
		}
	case errors.As(err, &exitErr) && exitErr.ExitCode() == exitUnsatisfiable:
		return nil, nil
	case errors.As(err, &exitErr) && exitErr.ExitCode() == exitSatisfiable:
	default:
		return nil, fmt.Errorf("%v execution failed: %w: %v", name, err, strings.TrimSpace(stderr.String()))
	}

	return parseSolution(stdout.String())
}

// parseSolution collects the literals of every "v" line up to the terminating 0
func parseSolution(solverOutput string) (SATSolution, error) {
	lines := lo.Filter(strings.Split(solverOutput, "\n"), func(line string, _ int) bool {
		return strings.HasPrefix(line, "v")
	})

	solution := make(SATSolution, 0)
	for _, line := range lines {
		for _, field := range strings.Fields(line[1:]) {
			literal, err := strconv.ParseInt(field, 10, 64)
			if err != nil {
				return nil, fmt.Errorf("invalid literal in solver output: %w", err)
			}
			if literal == 0 {
				return solution, nil
			}
			solution = append(solution, literal)
		}
	}
	return solution, nil
}
