package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"strings"
	"time"

	"github.com/gocarina/gocsv"
	"github.com/limaJavier/smartscheduler/pkg/model"
	"github.com/limaJavier/smartscheduler/pkg/sat"
	"github.com/limaJavier/smartscheduler/pkg/search"
	"github.com/samber/lo"
)

const MB float32 = 1024 * 1024

type BackendType int

const (
	sequential BackendType = iota
	parallel
	gini
	kissat
	cadical
	minisat
)

var backendTypes = map[BackendType]string{
	sequential: "search",
	parallel:   "search-parallel",
	gini:       "sat-gini",
	kissat:     "sat-kissat",
	cadical:    "sat-cadical",
	minisat:    "sat-minisat",
}

type BenchmarkResult struct {
	Backend   string  `csv:"Backend"`
	Catalog   string  `csv:"Catalog"`
	Courses   int     `csv:"Courses"`
	Sessions  int     `csv:"Sessions"`
	Teachers  int     `csv:"Teachers"`
	Rooms     int     `csv:"Rooms"`
	Groups    int     `csv:"Groups"`
	Timeslots int     `csv:"Timeslots"`
	Duration  int64   `csv:"Duration(ms)"`
	Memory    float32 `csv:"Allocated(MB)"`
	Nodes     int64   `csv:"Nodes"`
	Penalty   int     `csv:"Penalty"`
	Verified  bool    `csv:"Verified"`
	Result    string  `csv:"Result"`
}

func main() {
	directoryPtr := flag.String("dir", "test/catalogs", "Directory holding the catalogs to benchmark")
	backendsPtr := flag.String("backends", "search,search-parallel,sat-gini", "Comma separated backends: search, search-parallel, sat-gini, sat-kissat, sat-cadical, sat-minisat")
	timeoutPtr := flag.Duration("timeout", time.Minute, "Time budget of every solve")
	workersPtr := flag.Int("workers", runtime.NumCPU(), "Branches of the parallel search backend")
	outPtr := flag.String("out", "benchmark_results.csv", "Path of the CSV report")
	flag.Parse()

	backends, err := parseBackends(*backendsPtr)
	if err != nil {
		log.Fatal(err)
	}
	catalogs, err := getCatalogs(*directoryPtr)
	if err != nil {
		log.Fatalf("cannot list catalogs: %v", err)
	}

	results := make([]BenchmarkResult, 0, len(catalogs)*len(backends))
	for _, catalog := range catalogs {
		for _, backend := range backends {
			fmt.Printf("Benchmarking catalog \"%v\" with backend \"%v\"\n", catalog, backendTypes[backend])
			results = append(results, measure(backend, catalog, *timeoutPtr, *workersPtr))
		}
	}

	if err := toCsv(results, *outPtr); err != nil {
		log.Fatalf("cannot write CSV report: %v", err)
	}
}

func parseBackends(list string) ([]BackendType, error) {
	names := lo.Compact(lo.Map(strings.Split(list, ","), func(name string, _ int) string {
		return strings.ToLower(strings.TrimSpace(name))
	}))
	backends := make([]BackendType, 0, len(names))
	for _, name := range names {
		backend, ok := lo.FindKey(backendTypes, name)
		if !ok {
			return nil, fmt.Errorf("%v is not a valid backend", name)
		}
		backends = append(backends, backend)
	}
	return backends, nil
}

// getCatalogs lists catalog documents and split catalog directories, sorted by name
func getCatalogs(directory string) ([]string, error) {
	entries, err := os.ReadDir(directory)
	if err != nil {
		return nil, err
	}
	catalogs := lo.FilterMap(entries, func(entry os.DirEntry, _ int) (string, bool) {
		extension := strings.ToLower(filepath.Ext(entry.Name()))
		return filepath.Join(directory, entry.Name()), entry.IsDir() || slices.Contains([]string{".json", ".yaml", ".yml"}, extension)
	})
	slices.Sort(catalogs)
	return catalogs, nil
}

func newTimetabler(backend BackendType, workers int) model.Timetabler {
	switch backend {
	case parallel:
		return search.NewTimetabler(search.Options{Workers: workers})
	case gini:
		return sat.NewTimetabler(sat.NewGiniSolver(), sat.Options{})
	case kissat:
		return sat.NewTimetabler(sat.NewKissatSolver("kissat"), sat.Options{})
	case cadical:
		return sat.NewTimetabler(sat.NewCadicalSolver("cadical"), sat.Options{})
	case minisat:
		return sat.NewTimetabler(sat.NewMinisatSolver("minisat"), sat.Options{})
	default:
		return search.NewTimetabler(search.Options{})
	}
}

// measure solves one catalog in-process. Catalogs that cannot be loaded or built are reported
// with the error kind as result instead of aborting the run.
func measure(backend BackendType, path string, timeout time.Duration, workers int) BenchmarkResult {
	result := BenchmarkResult{
		Backend: backendTypes[backend],
		Catalog: path,
	}

	catalog, err := model.CatalogFromFile(path)
	if err != nil {
		result.Result = "invalid catalog"
		return result
	}
	result.Courses = len(catalog.Courses)
	result.Teachers = len(catalog.Teachers)
	result.Rooms = len(catalog.Rooms)
	result.Groups = len(catalog.Groups)
	result.Timeslots = len(catalog.Timeslots)

	m, err := model.Prepare(catalog, model.DefaultBuildConfig())
	if err != nil {
		result.Result = "rejected"
		return result
	}
	result.Sessions = len(m.Sessions)

	var before, after runtime.MemStats
	runtime.GC()
	runtime.ReadMemStats(&before)
	start := time.Now()

	outcome, err := newTimetabler(backend, workers).Solve(m, model.Budget{Timeout: timeout})

	result.Duration = time.Since(start).Milliseconds()
	runtime.ReadMemStats(&after)
	result.Memory = float32(after.TotalAlloc-before.TotalAlloc) / MB

	if err != nil {
		result.Result = "error"
		return result
	}
	result.Result = outcome.Status.String()
	result.Nodes = outcome.Stats.Nodes
	if outcome.Status == model.Feasible {
		result.Penalty = outcome.Penalty.Total
		result.Verified = model.Verify(m, outcome.Assignment) == nil
	}
	return result
}

func toCsv(results []BenchmarkResult, path string) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()
	return gocsv.MarshalFile(&results, file)
}
