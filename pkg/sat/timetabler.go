package sat

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/limaJavier/smartscheduler/pkg/model"
	"github.com/samber/lo"
	"go.uber.org/zap"
)

const hoursEpsilon = 1e-9

type Options struct {
	Logger *zap.Logger // Defaults to a no-op logger
}

type satTimetabler struct {
	solver SATSolver
	logger *zap.Logger
}

// NewTimetabler returns a timetabler that encodes the model as a SAT instance. Workload and daily
// caps are enforced lazily: every model breaking them adds a blocking clause and the instance
// is solved again. Each solver call counts as one node of the budget.
func NewTimetabler(solver SATSolver, options Options) model.Timetabler {
	logger := options.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &satTimetabler{
		solver: solver,
		logger: logger,
	}
}

func (timetabler *satTimetabler) Solve(m *model.Model, budget model.Budget) (model.Outcome, error) {
	start := time.Now()
	ctx := context.Background()
	if budget.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, budget.Timeout)
		defer cancel()
	}

	outcome := model.Outcome{Status: model.Unknown}
	finish := func() (model.Outcome, error) {
		outcome.Stats.Elapsed = time.Since(start)
		timetabler.logger.Info("sat solve finished",
			zap.Stringer("status", outcome.Status),
			zap.Int64("rounds", outcome.Stats.Nodes),
			zap.Duration("elapsed", outcome.Stats.Elapsed),
		)
		return outcome, nil
	}

	// An empty domain leaves an empty clause behind
	if slices.ContainsFunc(m.Domains, func(domain []model.Value) bool { return len(domain) == 0 }) {
		outcome.Status = model.Infeasible
		outcome.Stats.Exhausted = true
		return finish()
	}

	//** Build SAT instance
	e := newEncoding(m)
	instance := buildSat(e)
	timetabler.logger.Debug("sat instance built",
		zap.Uint64("variables", instance.Variables),
		zap.Int("clauses", len(instance.Clauses)),
	)

	//** Solve and refine
	for {
		rounds := outcome.Stats.Nodes + 1
		if (budget.MaxNodes > 0 && rounds > budget.MaxNodes) ||
			ctx.Err() != nil ||
			(budget.Checkpoint != nil && !budget.Checkpoint(rounds)) {
			return finish()
		}
		outcome.Stats.Nodes = rounds

		solution, err := timetabler.solver.Solve(ctx, instance)
		if errors.Is(err, ErrInterrupted) {
			return finish()
		} else if err != nil {
			return model.Outcome{}, fmt.Errorf("sat solver failed: %w", err)
		} else if solution == nil {
			outcome.Status = model.Infeasible
			outcome.Stats.Exhausted = true
			return finish()
		}

		assignment := e.decode(solution)
		if slices.Contains(assignment, model.Unassigned) {
			return model.Outcome{}, fmt.Errorf("sat solver returned an incomplete model")
		}

		blocking := lazyConstraints(e, assignment)
		if len(blocking) == 0 {
			outcome.Status = model.Feasible
			outcome.Assignment = assignment
			outcome.Penalty = model.Score(m, assignment)
			outcome.Stats.Solutions = 1
			return finish()
		}

		timetabler.logger.Debug("model breaks workload caps, refining",
			zap.Int64("round", rounds),
			zap.Int("blockingClauses", len(blocking)),
		)
		instance.Clauses = append(instance.Clauses, blocking...)
		outcome.Stats.Backtracks++
	}
}

func sortedKeys[V any](values map[[2]int]V) [][2]int {
	keys := lo.Keys(values)
	slices.SortFunc(keys, func(a, b [2]int) int {
		return cmp.Or(cmp.Compare(a[0], b[0]), cmp.Compare(a[1], b[1]))
	})
	return keys
}
