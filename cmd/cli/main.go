package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/limaJavier/smartscheduler/internal/config"
	"github.com/limaJavier/smartscheduler/internal/logger"
	"github.com/limaJavier/smartscheduler/pkg/export"
	"github.com/limaJavier/smartscheduler/pkg/model"
	"github.com/limaJavier/smartscheduler/pkg/sat"
	"github.com/limaJavier/smartscheduler/pkg/search"
	"go.uber.org/zap"
)

// Exit codes
const (
	exitFeasible     = 10
	exitInfeasible   = 20
	exitUnknown      = 30
	exitVerification = 15
	exitInput        = 1
)

var (
	solvers = map[string]func(cfg config.SolverConfig) sat.SATSolver{
		"gini":    func(config.SolverConfig) sat.SATSolver { return sat.NewGiniSolver() },
		"kissat":  func(cfg config.SolverConfig) sat.SATSolver { return sat.NewKissatSolver(cfg.KissatPath) },
		"cadical": func(cfg config.SolverConfig) sat.SATSolver { return sat.NewCadicalSolver(cfg.CadicalPath) },
		"minisat": func(cfg config.SolverConfig) sat.SATSolver { return sat.NewMinisatSolver(cfg.MinisatPath) },
		"glucose": func(cfg config.SolverConfig) sat.SATSolver { return sat.NewGlucoseSolver(cfg.GlucosePath) },
	}
	timetablers = map[string]func(cfg config.SolverConfig, logger *zap.Logger) model.Timetabler{
		"search": func(cfg config.SolverConfig, logger *zap.Logger) model.Timetabler {
			return search.NewTimetabler(search.Options{Workers: cfg.Workers, MaxSolutions: cfg.MaxSolutions, Logger: logger})
		},
		"sat": func(cfg config.SolverConfig, logger *zap.Logger) model.Timetabler {
			return sat.NewTimetabler(solvers[cfg.SAT](cfg), sat.Options{Logger: logger})
		},
	}
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	flags := flag.NewFlagSet("smartscheduler", flag.ContinueOnError)
	flags.SetOutput(stderr)

	configPath := flags.String("config", "", "Path to a YAML configuration file; when empty config.yaml is looked up in ./config and the working directory")
	filePath := flags.String("file", "", "Path to the catalog: a JSON/YAML document or a directory with one document per collection")
	outPath := flags.String("out", "", "File where the schedule is written, its extension picks the format (csv, xlsx, ics, json); when empty JSON goes to the standard output")
	dimacsPath := flags.String("dimacs", "", "Also write the SAT encoding of the model, in DIMACS-CNF, to this file")
	week := flags.String("week", "", "Any date (YYYY-MM-DD) of the first week, used by calendar exports; defaults to the current week")
	backend := flags.String("backend", "", `Solving backend: "search" or "sat"`)
	solver := flags.String("solver", "", `SAT solver used by the "sat" backend: "gini", "kissat", "cadical", "minisat" or "glucose"`)
	workers := flags.Int("workers", 0, "Parallel branches of the search backend")
	solutions := flags.Int("solutions", 0, "Solutions the search backend collects before returning the best one")
	timeout := flags.Duration("timeout", 0, "Time budget of the solve")
	maxNodes := flags.Int64("max-nodes", 0, "Node budget of the solve")
	if err := flags.Parse(args); err != nil {
		return exitInput
	}

	//** Configuration, with flags taking precedence
	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return exitInput
	}
	flags.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "backend":
			cfg.Solver.Backend = strings.ToLower(*backend)
		case "solver":
			cfg.Solver.SAT = strings.ToLower(*solver)
		case "workers":
			cfg.Solver.Workers = *workers
		case "solutions":
			cfg.Solver.MaxSolutions = *solutions
		case "timeout":
			cfg.Solver.Timeout = *timeout
		case "max-nodes":
			cfg.Solver.MaxNodes = *maxNodes
		}
	})
	if err := cfg.Validate(); err != nil {
		fmt.Fprintln(stderr, err)
		return exitInput
	} else if *filePath == "" {
		fmt.Fprintln(stderr, "a catalog must be specified with -file")
		return exitInput
	}

	weekStart := time.Now()
	if *week != "" {
		if weekStart, err = time.ParseInLocation(time.DateOnly, *week, time.Local); err != nil {
			fmt.Fprintf(stderr, "invalid week %q: %v\n", *week, err)
			return exitInput
		}
	}

	log, err := logger.NewLogger(cfg.Log)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return exitInput
	}
	defer log.Sync()
	log = log.With(zap.String("run_id", uuid.NewString()))

	//** Load, validate and build
	catalog, err := model.CatalogFromFile(*filePath)
	if err != nil {
		log.Error("cannot load catalog", zap.String("file", *filePath), zap.Error(err))
		return exitInput
	}
	m, err := model.Prepare(catalog, cfg.Model)
	if err != nil {
		logPreparationError(log, err)
		return exitInput
	}
	log.Info("model built",
		zap.Int("courses", len(m.Courses)),
		zap.Int("sessions", len(m.Sessions)),
		zap.Int("timeslots", len(m.Timeslots)),
		zap.Int("rooms", len(m.Rooms)),
	)

	if *dimacsPath != "" {
		if err := writeFile(*dimacsPath, func(w io.Writer) error { return sat.Encode(m).WriteDIMACS(w) }); err != nil {
			log.Error("cannot write DIMACS", zap.Error(err))
			return exitInput
		}
	}

	//** Solve
	timetabler := timetablers[cfg.Solver.Backend](cfg.Solver, log)
	outcome, err := timetabler.Solve(m, cfg.Solver.Budget())
	if err != nil {
		log.Error("solve failed", zap.Error(err))
		return exitInput
	}

	switch outcome.Status {
	case model.Infeasible:
		log.Warn("no schedule exists", zap.Int64("nodes", outcome.Stats.Nodes))
		return exitInfeasible
	case model.Unknown:
		log.Warn("budget exhausted before a schedule or a proof of infeasibility was found", zap.Int64("nodes", outcome.Stats.Nodes))
		return exitUnknown
	}

	//** Verify and export
	if err := model.Verify(m, outcome.Assignment); err != nil {
		log.Error("schedule failed verification", zap.Error(err))
		return exitVerification
	}
	entries, err := model.Materialize(m, outcome.Assignment)
	if err != nil {
		log.Error("cannot materialize schedule", zap.Error(err))
		return exitVerification
	}

	if *outPath == "" {
		err = export.WriteJSON(stdout, entries)
	} else {
		var format export.Format
		if format, err = export.FormatFromPath(*outPath); err == nil {
			err = writeFile(*outPath, func(w io.Writer) error { return export.Write(format, w, entries, weekStart) })
		}
	}
	if err != nil {
		log.Error("cannot write schedule", zap.Error(err))
		return exitInput
	}

	log.Info("schedule ready",
		zap.Int("entries", len(entries)),
		zap.Int("penalty", outcome.Penalty.Total),
		zap.Duration("elapsed", outcome.Stats.Elapsed),
	)
	return exitFeasible
}

func logPreparationError(log *zap.Logger, err error) {
	var cyclic model.CyclicPrerequisiteError
	var capacity model.InfeasibleCapacityError
	var build model.ModelBuildError
	switch {
	case errors.As(err, &cyclic):
		log.Error("prerequisites form a cycle", zap.String("course", cyclic.CourseId))
	case errors.As(err, &capacity):
		log.Error("no room can host the course",
			zap.String("course", capacity.CourseId),
			zap.Int("required", capacity.Required),
			zap.Int("bestAvailable", capacity.BestAvailable),
		)
	case errors.As(err, &build):
		log.Error("invalid model", zap.String("field", build.Field), zap.String("reason", build.Reason))
	default:
		log.Error("cannot build model", zap.Error(err))
	}
}

func writeFile(path string, write func(w io.Writer) error) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(file); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}
