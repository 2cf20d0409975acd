package sat

import (
	"fmt"
	"testing"

	"github.com/limaJavier/smartscheduler/pkg/model"
	"github.com/stretchr/testify/require"
)

func slots(days []model.Weekday, starts ...int) []model.Timeslot {
	result := make([]model.Timeslot, 0, len(days)*len(starts))
	for _, day := range days {
		for _, start := range starts {
			result = append(result, model.Timeslot{
				Id:       fmt.Sprintf("%v-%02d", day, start),
				Day:      day,
				Start:    fmt.Sprintf("%02d:00", start),
				End:      fmt.Sprintf("%02d:00", start+1),
				Category: "standard",
			})
		}
	}
	return result
}

func course(id, teacher, group string, sessions int, prerequisites ...string) model.Course {
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
	return model.Room{Id: id, Name: id, Capacity: 40, Type: model.LectureHall}
}

func group(id string) model.Group {
	return model.Group{Id: id, Size: 20}
}

// weekCatalog shares teachers and rooms across two groups, with prerequisites and an incompatibility
func weekCatalog() model.Catalog {
	courses := []model.Course{
		course("ALGO", "T1", "G1", 2),
		course("ALGO2", "T1", "G1", 1, "ALGO"),
		course("NET", "T2", "G1", 2),
		course("DB", "T2", "G2", 2),
		course("WEB", "T3", "G2", 1, "DB"),
	}
	courses[2].IncompatibleCourses = []string{"WEB"}

	return model.Catalog{
		Courses: courses,
		Teachers: []model.Teacher{
			teacher("T1", 6, "Monday-08"),
			teacher("T2", 6),
			teacher("T3", 4, "Tuesday-09"),
		},
		Rooms:     []model.Room{hall("A1"), hall("A2")},
		Groups:    []model.Group{group("G1"), group("G2")},
		Timeslots: slots([]model.Weekday{model.Monday, model.Tuesday}, 8, 9, 10),
	}
}

// cliqueCatalog declares n pairwise incompatible courses over n-1 timeslots
func cliqueCatalog(n int) model.Catalog {
	starts := make([]int, n-1)
	for i := range starts {
		starts[i] = 8 + i
	}
	catalog := model.Catalog{
		Rooms:     []model.Room{hall("A1"), hall("A2")},
		Timeslots: slots([]model.Weekday{model.Monday}, starts...),
	}
	for i := range n {
		c := course(fmt.Sprintf("C%d", i), fmt.Sprintf("T%d", i), fmt.Sprintf("G%d", i), 1)
		for j := range n {
			if j != i {
				c.IncompatibleCourses = append(c.IncompatibleCourses, fmt.Sprintf("C%d", j))
			}
		}
		catalog.Courses = append(catalog.Courses, c)
		catalog.Teachers = append(catalog.Teachers, teacher(fmt.Sprintf("T%d", i), 10))
		catalog.Groups = append(catalog.Groups, group(fmt.Sprintf("G%d", i)))
	}
	return catalog
}

func prepare(t *testing.T, catalog model.Catalog, config model.BuildConfig) *model.Model {
	m, err := model.Prepare(catalog, config)
	require.NoError(t, err)
	return m
}
