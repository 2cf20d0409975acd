package search

import (
	"testing"
	"time"

	"github.com/limaJavier/smartscheduler/pkg/model"
	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSolveFeasible(t *testing.T) {
	//** Arrange
	m := prepare(t, universityCatalog(), model.DefaultBuildConfig())

	//** Act
	outcome := Solve(m, model.Budget{})

	//** Assert
	require.Equal(t, model.Feasible, outcome.Status)
	assert.NoError(t, model.Verify(m, outcome.Assignment))
	assert.Equal(t, 1, outcome.Stats.Solutions)
	assert.Positive(t, outcome.Stats.Nodes)

	schedule, err := model.Materialize(m, outcome.Assignment)
	require.NoError(t, err)
	assert.Len(t, schedule, len(m.Sessions))
	assert.Len(t, lo.UniqBy(schedule, func(entry model.ScheduleEntry) [2]any { return [2]any{entry.CourseId, entry.Session} }), len(m.Sessions))
}

func TestSolveIsDeterministic(t *testing.T) {
	//** Arrange
	m := prepare(t, universityCatalog(), model.DefaultBuildConfig())
	budget := model.Budget{MaxNodes: 100_000}

	//** Act
	first := Solve(m, budget)
	second := Solve(m, budget)

	//** Assert
	require.Equal(t, model.Feasible, first.Status)
	assert.Equal(t, first.Assignment, second.Assignment)
	assert.Equal(t, first.Stats.Nodes, second.Stats.Nodes)
}

func TestSolveKeepsSessionsOfACourseOrdered(t *testing.T) {
	//** Arrange
	m := prepare(t, universityCatalog(), model.DefaultBuildConfig())

	//** Act
	outcome := Solve(m, model.Budget{})

	//** Assert
	require.Equal(t, model.Feasible, outcome.Status)
	for course := range m.Courses {
		sessions := m.SessionsOf(course)
		for i := 1; i < len(sessions); i++ {
			previous := m.Slots[outcome.Assignment[sessions[i-1]].Timeslot].Order
			current := m.Slots[outcome.Assignment[sessions[i]].Timeslot].Order
			assert.Less(t, previous, current)
		}
	}
}

func TestSolveSingleSharedPairIsInfeasible(t *testing.T) {
	//** Arrange
	catalog := model.Catalog{
		Courses:   []model.Course{lecture("A", "T1", "G1", 1), lecture("B", "T2", "G2", 1)},
		Teachers:  []model.Teacher{teacher("T1", 10), teacher("T2", 10)},
		Rooms:     []model.Room{hall("A1")},
		Groups:    []model.Group{group("G1"), group("G2")},
		Timeslots: timeslots([]model.Weekday{model.Monday}, 8),
	}
	m := prepare(t, catalog, model.DefaultBuildConfig())

	//** Act
	outcome := Solve(m, model.Budget{})

	//** Assert
	assert.Equal(t, model.Infeasible, outcome.Status)
	assert.True(t, outcome.Stats.Exhausted)
	assert.Nil(t, outcome.Assignment)
}

func TestSolveSameTeacherSingleRoomIsNotInfeasible(t *testing.T) {
	//** Arrange
	catalog := model.Catalog{
		Courses:   []model.Course{lecture("A", "T1", "G1", 1), lecture("B", "T1", "G2", 1)},
		Teachers:  []model.Teacher{teacher("T1", 10)},
		Rooms:     []model.Room{hall("A1")},
		Groups:    []model.Group{group("G1"), group("G2")},
		Timeslots: timeslots([]model.Weekday{model.Monday}, 8, 9),
	}
	m := prepare(t, catalog, model.DefaultBuildConfig())

	//** Act
	outcome := Solve(m, model.Budget{})

	//** Assert
	require.Equal(t, model.Feasible, outcome.Status)
	assert.NotEqual(t, outcome.Assignment[0].Timeslot, outcome.Assignment[1].Timeslot)
}

func TestSolvePrerequisiteOrdering(t *testing.T) {
	catalog := func(unavailableA, unavailableB string) model.Catalog {
		return model.Catalog{
			Courses:   []model.Course{lecture("A", "TA", "G1", 1), lecture("B", "TB", "G2", 1, "A")},
			Teachers:  []model.Teacher{teacher("TA", 10, unavailableA), teacher("TB", 10, unavailableB)},
			Rooms:     []model.Room{hall("A1"), hall("A2")},
			Groups:    []model.Group{group("G1"), group("G2")},
			Timeslots: timeslots([]model.Weekday{model.Monday, model.Tuesday}, 8),
		}
	}

	t.Run("Single viable ordering", func(t *testing.T) {
		//** Arrange
		m := prepare(t, catalog("Tuesday-08", "Monday-08"), model.DefaultBuildConfig())

		//** Act
		outcome := Solve(m, model.Budget{})

		//** Assert
		require.Equal(t, model.Feasible, outcome.Status)
		assert.Less(t, m.Slots[outcome.Assignment[0].Timeslot].Order, m.Slots[outcome.Assignment[1].Timeslot].Order)
	})

	t.Run("No viable ordering", func(t *testing.T) {
		//** Arrange
		m := prepare(t, catalog("Monday-08", "Tuesday-08"), model.DefaultBuildConfig())

		//** Act
		outcome := Solve(m, model.Budget{})

		//** Assert
		assert.Equal(t, model.Infeasible, outcome.Status)
		assert.Positive(t, outcome.Stats.Nodes)
	})

	t.Run("Same timeslot is not strictly after", func(t *testing.T) {
		//** Arrange
		c := catalog("", "")
		c.Timeslots = timeslots([]model.Weekday{model.Monday}, 8)
		m := prepare(t, c, model.DefaultBuildConfig())

		//** Act
		outcome := Solve(m, model.Budget{})

		//** Assert
		assert.Equal(t, model.Infeasible, outcome.Status)
	})

	t.Run("Equal start is not strictly after", func(t *testing.T) {
		//** Arrange
		c := catalog("", "")
		c.Timeslots = []model.Timeslot{
			{Id: "mon-08-short", Day: model.Monday, Start: "08:00", End: "09:00"},
			{Id: "mon-08-long", Day: model.Monday, Start: "08:00", End: "10:00"},
		}
		m := prepare(t, c, model.DefaultBuildConfig())

		//** Act
		outcome := Solve(m, model.Budget{})

		//** Assert
		assert.Equal(t, model.Infeasible, outcome.Status)
		assert.True(t, outcome.Stats.Exhausted)
	})
}

func TestSolveDistinguishesInfeasibleFromUnknown(t *testing.T) {
	t.Run("Exhausted search", func(t *testing.T) {
		//** Arrange
		m := prepare(t, cliqueCatalog(4), model.DefaultBuildConfig())

		//** Act
		outcome := Solve(m, model.Budget{})

		//** Assert
		assert.Equal(t, model.Infeasible, outcome.Status)
		assert.True(t, outcome.Stats.Exhausted)
		assert.Positive(t, outcome.Stats.Backtracks)
	})

	t.Run("Node budget", func(t *testing.T) {
		//** Arrange
		m := prepare(t, cliqueCatalog(9), model.DefaultBuildConfig())

		//** Act
		outcome := Solve(m, model.Budget{MaxNodes: 50})

		//** Assert
		assert.Equal(t, model.Unknown, outcome.Status)
		assert.False(t, outcome.Stats.Exhausted)
		assert.Equal(t, int64(50), outcome.Stats.Nodes)
	})

	t.Run("Timeout", func(t *testing.T) {
		//** Arrange
		m := prepare(t, cliqueCatalog(9), model.DefaultBuildConfig())

		//** Act
		outcome := Solve(m, model.Budget{Timeout: time.Nanosecond})

		//** Assert
		assert.Equal(t, model.Unknown, outcome.Status)
	})

	t.Run("Checkpoint", func(t *testing.T) {
		//** Arrange
		m := prepare(t, cliqueCatalog(9), model.DefaultBuildConfig())
		calls := int64(0)
		checkpoint := func(nodes int64) bool {
			calls++
			assert.Equal(t, calls, nodes)
			return nodes < 10
		}

		//** Act
		outcome := Solve(m, model.Budget{Checkpoint: checkpoint})

		//** Assert
		assert.Equal(t, model.Unknown, outcome.Status)
		assert.Equal(t, int64(10), calls)
		assert.Equal(t, int64(9), outcome.Stats.Nodes)
	})
}

func TestSolveTeacherWorkload(t *testing.T) {
	t.Run("Cap below the minimum load", func(t *testing.T) {
		//** Arrange
		catalog := universityCatalog()
		catalog.Teachers[0].MaxHours = 2 // T1 teaches three 1-hour sessions
		m := prepare(t, catalog, model.DefaultBuildConfig())

		//** Act
		outcome := Solve(m, model.Budget{})

		//** Assert
		assert.Equal(t, model.Infeasible, outcome.Status)
	})

	t.Run("Mixed durations", func(t *testing.T) {
		//** Arrange
		catalog := model.Catalog{
			Courses:  []model.Course{lecture("A", "T1", "G1", 2)},
			Teachers: []model.Teacher{teacher("T1", 3)},
			Rooms:    []model.Room{hall("A1")},
			Groups:   []model.Group{group("G1")},
			Timeslots: []model.Timeslot{
				{Id: "long", Day: model.Monday, Start: "08:00", End: "10:00"},
				{Id: "long2", Day: model.Monday, Start: "10:00", End: "12:00"},
				{Id: "short", Day: model.Tuesday, Start: "08:00", End: "09:00"},
			},
		}
		m := prepare(t, catalog, model.DefaultBuildConfig())

		//** Act
		outcome := Solve(m, model.Budget{})

		//** Assert
		require.Equal(t, model.Feasible, outcome.Status)
		assert.NoError(t, model.Verify(m, outcome.Assignment))
		assert.Contains(t, lo.Map(outcome.Assignment, func(value model.Value, _ int) string { return m.Timeslots[value.Timeslot].Id }), "short")
	})
}

func TestSolveDailyCaps(t *testing.T) {
	//** Arrange
	catalog := model.Catalog{
		Courses:   []model.Course{lecture("A", "T1", "G1", 2), lecture("B", "T2", "G1", 1)},
		Teachers:  []model.Teacher{teacher("T1", 10), teacher("T2", 10)},
		Rooms:     []model.Room{hall("A1")},
		Groups:    []model.Group{group("G1")},
		Timeslots: timeslots([]model.Weekday{model.Monday, model.Tuesday, model.Wednesday}, 8, 9),
	}
	config := model.DefaultBuildConfig()
	config.MaxSessionsPerDayGroup = 1
	m := prepare(t, catalog, config)

	//** Act
	outcome := Solve(m, model.Budget{})

	//** Assert
	require.Equal(t, model.Feasible, outcome.Status)
	assert.NoError(t, model.Verify(m, outcome.Assignment))
	days := lo.Map(outcome.Assignment, func(value model.Value, _ int) model.Weekday { return m.Slots[value.Timeslot].Day })
	assert.ElementsMatch(t, []model.Weekday{model.Monday, model.Tuesday, model.Wednesday}, days)
}

func TestSolveCollectsAlternatives(t *testing.T) {
	//** Arrange
	catalog := universityCatalog()
	catalog.Teachers[3].PreferredSlots = []string{"Wednesday-11", "Wednesday-10"}
	config := model.DefaultBuildConfig()
	config.PreferredCategory = "standard"
	m := prepare(t, catalog, config)

	//** Act
	first := Solve(m, model.Budget{})
	best, err := NewTimetabler(Options{MaxSolutions: 25}).Solve(m, model.Budget{MaxNodes: 200_000})

	//** Assert
	require.NoError(t, err)
	require.Equal(t, model.Feasible, best.Status)
	assert.NoError(t, model.Verify(m, best.Assignment))
	assert.Equal(t, 25, best.Stats.Solutions)
	assert.LessOrEqual(t, best.Penalty.Total, first.Penalty.Total)
	assert.Equal(t, model.Score(m, best.Assignment), best.Penalty)
}
