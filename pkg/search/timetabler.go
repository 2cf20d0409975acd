package search

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/limaJavier/smartscheduler/pkg/model"
	"github.com/samber/lo"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

type Options struct {
	Workers      int         // Parallel top-level branches; 1 or less searches sequentially
	MaxSolutions int         // Solutions to collect before returning the best one; 1 or less returns the first
	Logger       *zap.Logger // Defaults to a no-op logger
}

type backtrackingTimetabler struct {
	options Options
	logger  *zap.Logger
}

// NewTimetabler returns a backtracking timetabler with forward checking and most-constrained-first
// ordering. Sequential solves are deterministic for a given model and node budget. When
// Workers > 1 the budget checkpoint may be invoked concurrently.
func NewTimetabler(options Options) model.Timetabler {
	logger := options.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &backtrackingTimetabler{
		options: options,
		logger:  logger,
	}
}

// Solve runs a sequential search with default options
func Solve(m *model.Model, budget model.Budget) model.Outcome {
	outcome, _ := NewTimetabler(Options{}).Solve(m, budget)
	return outcome
}

func (timetabler *backtrackingTimetabler) Solve(m *model.Model, budget model.Budget) (model.Outcome, error) {
	start := time.Now()
	var deadline time.Time
	if budget.Timeout > 0 {
		deadline = start.Add(budget.Timeout)
	}

	timetabler.logger.Debug("search started",
		zap.Int("sessions", len(m.Sessions)),
		zap.Int("workers", max(timetabler.options.Workers, 1)),
		zap.Int64("maxNodes", budget.MaxNodes),
		zap.Duration("timeout", budget.Timeout),
	)

	//** Prove trivial infeasibility before searching
	p := newProblem(m)
	reason, err := p.rootBound()
	if err != nil {
		return model.Outcome{}, err
	} else if reason != "" {
		timetabler.logger.Info("root bound proves infeasibility", zap.String("reason", reason))
		return model.Outcome{
			Status: model.Infeasible,
			Stats:  model.Stats{Exhausted: true, Elapsed: time.Since(start)},
		}, nil
	}

	//** Search
	nodes := &atomic.Int64{}
	var workers []*worker
	if timetabler.options.Workers > 1 && len(m.Sessions) > 0 {
		workers, err = timetabler.parallel(p, budget, deadline, nodes)
		if err != nil {
			return model.Outcome{}, err
		}
	} else {
		sequential := newWorker(context.Background(), p, budget, deadline, nodes, timetabler.options.MaxSolutions)
		sequential.descend()
		workers = []*worker{sequential}
	}

	outcome := merge(workers)
	outcome.Stats.Nodes = nodes.Load()
	outcome.Stats.Elapsed = time.Since(start)

	timetabler.logger.Info("search finished",
		zap.Stringer("status", outcome.Status),
		zap.Int64("nodes", outcome.Stats.Nodes),
		zap.Int64("backtracks", outcome.Stats.Backtracks),
		zap.Int("solutions", outcome.Stats.Solutions),
		zap.Int("penalty", outcome.Penalty.Total),
		zap.Duration("elapsed", outcome.Stats.Elapsed),
	)
	return outcome, nil
}

// parallel splits the values of the most constrained session among independent workers. The
// first worker to finish its quota of solutions (or to run out of budget) cancels its siblings.
func (timetabler *backtrackingTimetabler) parallel(p *problem, budget model.Budget, deadline time.Time, nodes *atomic.Int64) ([]*worker, error) {
	root := newState(p).selectSession()
	values := lo.Range(len(p.model.Domains[root]))
	count := min(timetabler.options.Workers, len(values))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	group, ctx := errgroup.WithContext(ctx)

	workers := make([]*worker, count)
	for k := range count {
		share := lo.Filter(values, func(_ int, i int) bool { return i%count == k })
		workers[k] = newWorker(ctx, p, budget, deadline, nodes, timetabler.options.MaxSolutions)

		group.Go(func() error {
			w := workers[k]
			w.branch(root, share)
			if w.stop == enough || w.stop == exceeded {
				cancel()
			}
			timetabler.logger.Debug("branch finished",
				zap.Int("branch", k),
				zap.Int("values", len(share)),
				zap.Int("solutions", w.found),
				zap.Bool("exhausted", w.exhausted()),
			)
			return nil
		})
	}

	return workers, group.Wait()
}

// merge keeps the best solution over every worker; only a fully explored tree proves infeasibility
func merge(workers []*worker) model.Outcome {
	var outcome model.Outcome
	var best *solution
	exhausted := true
	for _, w := range workers {
		outcome.Stats.Backtracks += w.backtracks
		outcome.Stats.Solutions += w.found
		exhausted = exhausted && w.exhausted()
		if w.best != nil && (best == nil || w.best.penalty.Total < best.penalty.Total) {
			best = w.best
		}
	}
	outcome.Stats.Exhausted = exhausted

	switch {
	case best != nil:
		outcome.Status = model.Feasible
		outcome.Assignment = best.assignment
		outcome.Penalty = best.penalty
	case exhausted:
		outcome.Status = model.Infeasible
	default:
		outcome.Status = model.Unknown
	}
	return outcome
}
