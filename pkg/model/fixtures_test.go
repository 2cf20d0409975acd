package model

import "fmt"

var testStarts = []string{"08:00", "10:00", "12:00", "14:00"}

// testTimeslots returns four 2-hour slots per given day, in declaration order
func testTimeslots(days ...Weekday) []Timeslot {
	timeslots := make([]Timeslot, 0, len(days)*len(testStarts))
	for _, day := range days {
		for _, start := range testStarts {
			var hour int
			fmt.Sscanf(start, "%d:", &hour)
			timeslots = append(timeslots, Timeslot{
				Id:       fmt.Sprintf("TS_%v_%02d", day, hour),
				Day:      day,
				Start:    start,
				End:      fmt.Sprintf("%02d:00", hour+2),
				Duration: 2,
				Category: "standard",
			})
		}
	}
	return timeslots
}

func testCatalog() Catalog {
	return Catalog{
		Courses: []Course{
			{Id: "ALGO_CM", Name: "Algorithms", Type: Lecture, Teacher: "T1", Group: "G1", ExpectedStudents: 40, WeeklySessions: 2},
			{Id: "ALGO_TD", Name: "Algorithms practice", Type: Tutorial, Teacher: "T2", Group: "G1", ExpectedStudents: 20, WeeklySessions: 1, Prerequisites: []string{"ALGO_CM"}},
			{Id: "NET_TP", Name: "Networks lab", Type: Lab, Teacher: "T2", Group: "G2", ExpectedStudents: 15, WeeklySessions: 1, RequiredEquipment: []string{"switch"}},
		},
		Teachers: []Teacher{
			{Id: "T1", Name: "Ada", MaxHours: 10},
			{Id: "T2", Name: "Alan", MaxHours: 8},
		},
		Rooms: []Room{
			{Id: "A1", Name: "Amphi 1", Capacity: 100, Type: LectureHall},
			{Id: "B1", Name: "Room B1", Capacity: 30, Type: TutorialRoom},
			{Id: "L1", Name: "Lab 1", Capacity: 20, Type: LabRoom, Equipment: []string{"Switch", "computers"}},
		},
		Groups: []Group{
			{Id: "G1", Size: 40},
			{Id: "G2", Size: 15},
		},
		Timeslots: testTimeslots(Monday, Tuesday),
	}
}

func buildTestModel(catalog Catalog, config BuildConfig) *Model {
	model, err := BuildModel(catalog.Courses, catalog.Teachers, catalog.Rooms, catalog.Groups, catalog.Timeslots, config)
	if err != nil {
		panic(err)
	}
	return model
}
