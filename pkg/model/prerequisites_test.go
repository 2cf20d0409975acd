package model

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func courseWithPrerequisites(id string, prerequisites ...string) Course {
	return Course{Id: id, Type: Lecture, Teacher: "T1", Group: "G1", ExpectedStudents: 10, WeeklySessions: 1, Prerequisites: prerequisites}
}

func TestValidateDetectsCycles(t *testing.T) {
	scenarios := map[string]struct {
		courses []Course
		course  string
	}{
		"self-loop": {
			courses: []Course{courseWithPrerequisites("A", "A")},
			course:  "A",
		},
		"two-node cycle": {
			courses: []Course{courseWithPrerequisites("A", "B"), courseWithPrerequisites("B", "A")},
			course:  "A",
		},
		"cycle behind an acyclic prefix": {
			courses: []Course{
				courseWithPrerequisites("A", "B"),
				courseWithPrerequisites("B", "C"),
				courseWithPrerequisites("C", "D"),
				courseWithPrerequisites("D", "B"),
			},
			course: "B",
		},
	}

	for name, scenario := range scenarios {
		t.Run(name, func(t *testing.T) {
			//** Act
			err := Validate(scenario.courses)

			//** Assert
			var cyclic CyclicPrerequisiteError
			assert.True(t, errors.As(err, &cyclic))
			assert.Equal(t, scenario.course, cyclic.CourseId)
		})
	}
}

func TestValidateAcceptsAcyclicSets(t *testing.T) {
	scenarios := map[string][]Course{
		"empty":    {},
		"no edges": {courseWithPrerequisites("A"), courseWithPrerequisites("B")},
		"diamond": {
			courseWithPrerequisites("A"),
			courseWithPrerequisites("B", "A"),
			courseWithPrerequisites("C", "A"),
			courseWithPrerequisites("D", "B", "C"),
		},
		"dangling prerequisite": {courseWithPrerequisites("A", "UNKNOWN"), courseWithPrerequisites("B", "A")},
	}

	for name, courses := range scenarios {
		t.Run(name, func(t *testing.T) {
			assert.NoError(t, Validate(courses))
		})
	}
}

func TestTransitiveClosure(t *testing.T) {
	//** Arrange
	graph := [][]int{{1}, {2}, {}, {0}}

	//** Act
	reach := transitiveClosure(graph)

	//** Assert
	assert.True(t, reach[0][1])
	assert.True(t, reach[0][2])
	assert.True(t, reach[3][2])
	assert.False(t, reach[2][0])
	assert.False(t, reach[0][0])
}
