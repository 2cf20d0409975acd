package sat

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// ErrInterrupted is returned by a solver stopped before reaching a verdict
var ErrInterrupted = errors.New("sat: solver interrupted before a verdict")

// SATSolution lists one signed literal per assigned variable
type SATSolution []int64

type SAT struct {
	Variables uint64
	Clauses   [][]int64
}

type SATSolver interface {
	// Returns a model of the instance when satisfiable and nil when unsatisfiable (both with a nil error).
	// Cancelling the context yields ErrInterrupted.
	Solve(ctx context.Context, sat SAT) (SATSolution, error)
}

func (s SAT) ToDIMACS() string {
	var builder strings.Builder
	s.WriteDIMACS(&builder)
	return builder.String()
}

func (s SAT) WriteDIMACS(w io.Writer) error {
	writer := bufio.NewWriter(w)
	fmt.Fprintf(writer, "p cnf %d %d\n", s.Variables, len(s.Clauses))
	for _, clause := range s.Clauses {
		for _, literal := range clause {
			writer.WriteString(strconv.FormatInt(literal, 10))
			writer.WriteByte(' ')
		}
		writer.WriteString("0\n")
	}
	return writer.Flush()
}

// ParseDIMACS reads a DIMACS-CNF instance, skipping comment lines
func ParseDIMACS(r io.Reader) (SAT, error) {
	var sat SAT
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 16*1024*1024)

	var clause []int64
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "c") || strings.HasPrefix(line, "%") {
			continue
		}
		if strings.HasPrefix(line, "p") {
			fields := strings.Fields(line)
			if len(fields) != 4 || fields[1] != "cnf" {
				return SAT{}, fmt.Errorf("invalid problem line: %q", line)
			}
			variables, err := strconv.ParseUint(fields[2], 10, 64)
			if err != nil {
				return SAT{}, fmt.Errorf("invalid variable count: %w", err)
			}
			sat.Variables = variables
			continue
		}

		// Clauses may span several lines and end with 0
		for _, field := range strings.Fields(line) {
			literal, err := strconv.ParseInt(field, 10, 64)
			if err != nil {
				return SAT{}, fmt.Errorf("invalid literal %q: %w", field, err)
			}
			if literal == 0 {
				sat.Clauses = append(sat.Clauses, clause)
				clause = nil
				continue
			}
			clause = append(clause, literal)
		}
	}
	if err := scanner.Err(); err != nil {
		return SAT{}, fmt.Errorf("cannot read DIMACS: %w", err)
	}
	if len(clause) > 0 {
		sat.Clauses = append(sat.Clauses, clause)
	}
	return sat, nil
}

// Satisfies reports whether the solution is consistent and satisfies every clause
func (s SAT) Satisfies(solution SATSolution) bool {
	literals := make(map[int64]bool, len(solution))
	for _, literal := range solution {
		if literals[-literal] {
			return false
		}
		literals[literal] = true
	}

	for _, clause := range s.Clauses {
		satisfied := false
		for _, literal := range clause {
			if literals[literal] {
				satisfied = true
				break
			}
		}
		if !satisfied {
			return false
		}
	}
	return true
}
