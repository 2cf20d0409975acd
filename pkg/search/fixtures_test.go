package search

import (
	"fmt"
	"testing"

	"github.com/limaJavier/smartscheduler/pkg/model"
	"github.com/stretchr/testify/require"
)

// timeslots returns one 1-hour slot per start and day
func timeslots(days []model.Weekday, starts ...int) []model.Timeslot {
	slots := make([]model.Timeslot, 0, len(days)*len(starts))
	for _, day := range days {
		for _, start := range starts {
			slots = append(slots, model.Timeslot{
				Id:       fmt.Sprintf("%v-%02d", day, start),
				Day:      day,
				Start:    fmt.Sprintf("%02d:00", start),
				End:      fmt.Sprintf("%02d:00", start+1),
				Category: "standard",
			})
		}
	}
	return slots
}

func lecture(id, teacher, group string, sessions int, prerequisites ...string) model.Course {
	return model.Course{
		Id:               id,
		Name:             id,
		Type:             model.Lecture,
		Teacher:          teacher,
		Group:            group,
		ExpectedStudents: 20,
		WeeklySessions:   sessions,
		Prerequisites:    prerequisites,
	}
}

func teacher(id string, maxHours float64, unavailable ...string) model.Teacher {
	return model.Teacher{Id: id, Name: id, MaxHours: maxHours, UnavailableSlots: unavailable}
}

func hall(id string) model.Room {
	return model.Room{Id: id, Name: id, Capacity: 60, Type: model.LectureHall}
}

func group(id string) model.Group {
	return model.Group{Id: id, Size: 20}
}

// universityCatalog is a small but non-trivial week: three groups sharing teachers, rooms,
// prerequisites and one incompatibility
func universityCatalog() model.Catalog {
	courses := []model.Course{
		lecture("ALGO", "T1", "G1", 2),
		lecture("ALGO2", "T1", "G1", 1, "ALGO"),
		lecture("NET", "T2", "G1", 2),
		lecture("DB", "T2", "G2", 2),
		lecture("WEB", "T3", "G2", 1, "DB"),
		lecture("OS", "T3", "G3", 2),
		lecture("SEC", "T4", "G3", 1, "OS", "NET"),
		lecture("MATH", "T4", "G2", 2),
	}
	courses[2].IncompatibleCourses = []string{"DB"}
	courses = append(courses, model.Course{
		Id: "NET_LAB", Name: "NET_LAB", Type: model.Lab, Teacher: "T2", Group: "G3",
		ExpectedStudents: 15, WeeklySessions: 1, RequiredEquipment: []string{"switch"},
	})

	return model.Catalog{
		Courses: courses,
		Teachers: []model.Teacher{
			teacher("T1", 6, "Monday-08"),
			teacher("T2", 8),
			teacher("T3", 6, "Tuesday-08", "Tuesday-09"),
			teacher("T4", 5),
		},
		Rooms: []model.Room{
			hall("A1"),
			hall("A2"),
			{Id: "L1", Name: "L1", Capacity: 16, Type: model.LabRoom, Equipment: []string{"switch"}},
		},
		Groups:    []model.Group{group("G1"), group("G2"), group("G3")},
		Timeslots: timeslots([]model.Weekday{model.Monday, model.Tuesday, model.Wednesday}, 8, 9, 10, 11),
	}
}

// cliqueCatalog declares n pairwise incompatible courses over n-1 timeslots and two rooms,
// which no root bound detects
func cliqueCatalog(n int) model.Catalog {
	catalog := model.Catalog{
		Rooms:     []model.Room{hall("A1"), hall("A2")},
		Timeslots: timeslots([]model.Weekday{model.Monday}, startHours(n-1)...),
	}
	for i := range n {
		id := fmt.Sprintf("C%d", i)
		course := lecture(id, fmt.Sprintf("T%d", i), fmt.Sprintf("G%d", i), 1)
		for j := range n {
			if j != i {
				course.IncompatibleCourses = append(course.IncompatibleCourses, fmt.Sprintf("C%d", j))
			}
		}
		catalog.Courses = append(catalog.Courses, course)
		catalog.Teachers = append(catalog.Teachers, teacher(fmt.Sprintf("T%d", i), 10))
		catalog.Groups = append(catalog.Groups, group(fmt.Sprintf("G%d", i)))
	}
	return catalog
}

// startHours returns the first n start hours of the day
func startHours(n int) []int {
	starts := make([]int, n)
	for i := range starts {
		starts[i] = 8 + i
	}
	return starts
}

func prepare(t *testing.T, catalog model.Catalog, config model.BuildConfig) *model.Model {
	m, err := model.Prepare(catalog, config)
	require.NoError(t, err)
	return m
}
