package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const feasibleCatalog = `
courses:
  - {id: ALGO, type: CM, teacher: T1, group: G1, expected_students: 30, weekly_sessions: 2}
  - {id: NET, type: TP, teacher: T2, group: G1, expected_students: 15, weekly_sessions: 1, required_equipment: switch}
teachers:
  - {id: T1, max_hours_per_week: 10}
  - {id: T2, max_hours_per_week: 10}
rooms:
  - {id: A1, capacity: 60, type: amphitheatre}
  - {id: L1, capacity: 20, type: lab, equipment: "switch, computers"}
groups:
  - {id: G1, size: 30}
timeslots:
  - {id: MON-08, day: Monday, start: "08:00", end: "10:00"}
  - {id: MON-10, day: Monday, start: "10:00", end: "12:00"}
  - {id: TUE-08, day: Tuesday, start: "08:00", end: "10:00"}
`

const infeasibleCatalog = `
courses:
  - {id: ALGO, type: CM, teacher: T1, group: G1, expected_students: 30}
  - {id: NET, type: CM, teacher: T2, group: G1, expected_students: 30}
teachers:
  - {id: T1, max_hours_per_week: 10}
  - {id: T2, max_hours_per_week: 10}
rooms:
  - {id: A1, capacity: 60, type: amphitheatre}
groups:
  - {id: G1, size: 30}
timeslots:
  - {id: MON-08, day: Monday, start: "08:00", end: "10:00"}
`

const cyclicCatalog = `
courses:
  - {id: ALGO, type: CM, teacher: T1, group: G1, expected_students: 30, prerequisites: NET}
  - {id: NET, type: CM, teacher: T1, group: G1, expected_students: 30, prerequisites: ALGO}
teachers:
  - {id: T1, max_hours_per_week: 10}
rooms:
  - {id: A1, capacity: 60, type: amphitheatre}
groups:
  - {id: G1, size: 30}
timeslots:
  - {id: MON-08, day: Monday, start: "08:00", end: "10:00"}
  - {id: MON-10, day: Monday, start: "10:00", end: "12:00"}
`

func writeCatalog(t *testing.T, content string) string {
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestRunFeasible(t *testing.T) {
	for _, backend := range []string{"search", "sat"} {
		t.Run(backend, func(t *testing.T) {
			//** Arrange
			var stdout, stderr bytes.Buffer
			args := []string{"-file", writeCatalog(t, feasibleCatalog), "-backend", backend}

			//** Act
			code := run(args, &stdout, &stderr)

			//** Assert
			require.Equal(t, exitFeasible, code, stderr.String())
			var entries []map[string]any
			require.NoError(t, json.Unmarshal(stdout.Bytes(), &entries))
			assert.Len(t, entries, 3)
		})
	}
}

func TestRunExportsByExtension(t *testing.T) {
	//** Arrange
	out := filepath.Join(t.TempDir(), "schedule.csv")
	dimacs := filepath.Join(t.TempDir(), "model.cnf")
	var stdout, stderr bytes.Buffer

	//** Act
	code := run([]string{"-file", writeCatalog(t, feasibleCatalog), "-out", out, "-dimacs", dimacs}, &stdout, &stderr)

	//** Assert
	require.Equal(t, exitFeasible, code, stderr.String())
	assert.Empty(t, stdout.String())

	content, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(content), "course,type,session"))
	assert.Len(t, strings.Split(strings.TrimSpace(string(content)), "\n"), 4)

	cnf, err := os.ReadFile(dimacs)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(cnf), "p cnf "))
}

func TestRunExitCodes(t *testing.T) {
	scenarios := map[string]struct {
		catalog  string
		args     []string
		expected int
	}{
		"Infeasible":          {infeasibleCatalog, nil, exitInfeasible},
		"Infeasible with sat": {infeasibleCatalog, []string{"-backend", "sat"}, exitInfeasible},
		"Budget exhausted":    {feasibleCatalog, []string{"-max-nodes", "1"}, exitUnknown},
		"Cyclic":              {cyclicCatalog, nil, exitInput},
		"Unknown backend":     {feasibleCatalog, []string{"-backend", "annealing"}, exitInput},
		"Unknown format":      {feasibleCatalog, []string{"-out", filepath.Join(os.TempDir(), "schedule.pdf")}, exitInput},
		"Invalid week":        {feasibleCatalog, []string{"-week", "next monday"}, exitInput},
	}

	for name, scenario := range scenarios {
		t.Run(name, func(t *testing.T) {
			//** Arrange
			var stdout, stderr bytes.Buffer
			args := append([]string{"-file", writeCatalog(t, scenario.catalog)}, scenario.args...)

			//** Act
			code := run(args, &stdout, &stderr)

			//** Assert
			assert.Equal(t, scenario.expected, code, stderr.String())
		})
	}

	t.Run("Missing catalog flag", func(t *testing.T) {
		var stdout, stderr bytes.Buffer
		assert.Equal(t, exitInput, run(nil, &stdout, &stderr))
	})

	t.Run("Missing catalog file", func(t *testing.T) {
		var stdout, stderr bytes.Buffer
		assert.Equal(t, exitInput, run([]string{"-file", filepath.Join(t.TempDir(), "absent.yaml")}, &stdout, &stderr))
	})
}
